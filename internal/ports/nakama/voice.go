package nakama

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"strings"
	"time"

	"skull/internal/app"

	"github.com/heroiclabs/nakama-common/runtime"
)

// gRPC status codes used by Nakama runtime errors.
const (
	codeInvalidArgument    = 3
	codeFailedPrecondition = 9
	codeInternal           = 13
	codeUnauthenticated    = 16
)

// voiceService is configured once in InitModule.
var voiceService *app.VoiceService

type voiceTokenRequest struct {
	Action  string `json:"action"`
	MatchID string `json:"match_id"`
}

type voiceTokenResponse struct {
	Token   string `json:"token"`
	Channel string `json:"channel,omitempty"`
}

// newVoiceServiceFromEnv builds the voice service from the runtime env.
func newVoiceServiceFromEnv(env map[string]string) *app.VoiceService {
	ttl := time.Duration(0)
	if d, err := time.ParseDuration(env["vivox_token_ttl"]); err == nil {
		ttl = d
	}
	return app.NewVoiceService(env["vivox_secret"], env["vivox_issuer"], env["vivox_domain"], ttl)
}

// rpcVoiceToken signs a login token, or a join token for the caller's match channel.
// Payload: {"action": "login" | "join", "match_id": "..."}
func rpcVoiceToken(ctx context.Context, logger runtime.Logger, db *sql.DB, nk runtime.NakamaModule, payload string) (string, error) {
	userID, _ := ctx.Value(runtime.RUNTIME_CTX_USER_ID).(string)
	if userID == "" {
		return "", runtime.NewError("authentication required", codeUnauthenticated)
	}

	var req voiceTokenRequest
	if strings.TrimSpace(payload) != "" {
		if err := json.Unmarshal([]byte(payload), &req); err != nil {
			return "", runtime.NewError("invalid payload", codeInvalidArgument)
		}
	}

	var (
		token string
		err   error
		resp  voiceTokenResponse
	)
	switch req.Action {
	case "", app.VoiceActionLogin:
		token, err = voiceService.LoginToken(userID)
	case app.VoiceActionJoin:
		if req.MatchID == "" {
			return "", runtime.NewError("match_id required for join", codeInvalidArgument)
		}
		token, err = voiceService.JoinToken(userID, req.MatchID)
		resp.Channel = app.ChannelName(req.MatchID)
	default:
		return "", runtime.NewError("unsupported action", codeInvalidArgument)
	}
	if errors.Is(err, app.ErrVoiceDisabled) {
		return "", runtime.NewError("voice chat is not configured", codeFailedPrecondition)
	}
	if err != nil {
		logger.Error("rpcVoiceToken [User:%s]: Failed to sign token: %v", userID, err)
		return "", runtime.NewError("internal error", codeInternal)
	}

	resp.Token = token
	b, err := json.Marshal(resp)
	if err != nil {
		return "", runtime.NewError("internal error", codeInternal)
	}
	return string(b), nil
}
