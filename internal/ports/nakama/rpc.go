package nakama

import (
	"context"
	"database/sql"
	"encoding/json"

	"github.com/heroiclabs/nakama-common/runtime"
)

// CreateMatchResponse is the payload returned to clients after opening a table.
type CreateMatchResponse struct {
	MatchID string `json:"match_id"`
}

// RegisterRPCs registers Nakama RPC endpoints.
func RegisterRPCs(initializer runtime.Initializer) error {
	if err := initializer.RegisterRpc(RpcCreateMatch, rpcCreateMatch); err != nil {
		return err
	}
	return initializer.RegisterRpc(RpcVoiceToken, rpcVoiceToken)
}

// rpcCreateMatch opens a new authoritative Skull table. Players join it by
// id; seating happens in MatchJoin.
func rpcCreateMatch(ctx context.Context, logger runtime.Logger, db *sql.DB, nk runtime.NakamaModule, payload string) (string, error) {
	userID, _ := ctx.Value(runtime.RUNTIME_CTX_USER_ID).(string)

	matchID, err := nk.MatchCreate(ctx, MatchNameSkull, map[string]interface{}{})
	if err != nil {
		logger.Error("rpcCreateMatch [User:%s]: Failed to create match: %v", userID, err)
		return "", err
	}
	logger.Info("rpcCreateMatch [User:%s]: Created new match %s", userID, matchID)

	b, err := json.Marshal(CreateMatchResponse{MatchID: matchID})
	if err != nil {
		return "", err
	}
	return string(b), nil
}
