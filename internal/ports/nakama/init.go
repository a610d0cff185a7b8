package nakama

import (
	"context"
	"database/sql"

	"skull/internal/bot"

	"github.com/heroiclabs/nakama-common/runtime"
)

// InitModule wires RPCs and match handlers for Nakama runtime.
func InitModule(ctx context.Context, logger runtime.Logger, db *sql.DB, nk runtime.NakamaModule, initializer runtime.Initializer) error {
	env, _ := ctx.Value(runtime.RUNTIME_CTX_ENV).(map[string]string)
	voiceService = newVoiceServiceFromEnv(env)
	if !voiceService.Enabled() {
		logger.Warn("Vivox credentials missing from env, voice_token will be rejected.")
	}

	if err := bot.LoadIdentities(botIdentitiesPath); err != nil {
		logger.Warn("InitModule: Could not load bot identities: %v", err)
	} else {
		bot.ProvisionBots(ctx, nk, logger)
	}

	if err := RegisterRPCs(initializer); err != nil {
		return err
	}

	if err := initializer.RegisterMatch(MatchNameSkull, NewMatch); err != nil {
		return err
	}

	logger.Info("Skull Go module loaded.")
	return nil
}
