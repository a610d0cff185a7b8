package bot

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"sync"

	"github.com/heroiclabs/nakama-common/runtime"
)

type BotIdentity struct {
	DeviceID    string `json:"device_id"`
	UserID      string `json:"user_id"`
	Username    string `json:"username"`
	DisplayName string `json:"display_name"`
	Difficulty  string `json:"difficulty"` // "cautious", "bluff" or "gambler"
	Script      string `json:"script,omitempty"`
}

// botRegistry indexes the identity pool by user id.
type botRegistry struct {
	mu         sync.RWMutex
	identities []BotIdentity
	byID       map[string]BotIdentity
}

var fallbackDifficulties = []string{"cautious", "bluff", "gambler"}

var (
	registry      = &botRegistry{byID: make(map[string]BotIdentity)}
	loadOnce      sync.Once
	provisionOnce sync.Once
	loadErr       error
)

// LoadIdentities loads the bot profiles from the given path.
func LoadIdentities(path string) error {
	loadOnce.Do(func() {
		data, err := os.ReadFile(path)
		if err != nil {
			loadErr = fmt.Errorf("failed to read bot identities: %w", err)
			return
		}
		var identities []BotIdentity
		if err := json.Unmarshal(data, &identities); err != nil {
			loadErr = fmt.Errorf("failed to unmarshal bot identities: %w", err)
			return
		}
		registry.reset(identities)
	})
	return loadErr
}

func (r *botRegistry) reset(identities []BotIdentity) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.identities = identities
	r.byID = make(map[string]BotIdentity, len(identities))
	for _, identity := range identities {
		if identity.UserID != "" {
			r.byID[identity.UserID] = identity
		}
	}
}

func (r *botRegistry) update(i int, identity BotIdentity) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.identities[i] = identity
	r.byID[identity.UserID] = identity
}

// ProvisionBots ensures that bot accounts exist in the Nakama database and have the is_bot metadata.
func ProvisionBots(ctx context.Context, nk runtime.NakamaModule, logger runtime.Logger) {
	provisionOnce.Do(func() {
		registry.mu.RLock()
		pool := append([]BotIdentity(nil), registry.identities...)
		registry.mu.RUnlock()

		for i, identity := range pool {
			if identity.DeviceID == "" {
				continue
			}

			userID, username, _, err := nk.AuthenticateDevice(ctx, identity.DeviceID, identity.Username, true)
			if err != nil {
				logger.Error("ProvisionBots: Failed to authenticate bot %s: %v", identity.Username, err)
				continue
			}
			identity.UserID = userID
			identity.Username = username

			metadata := map[string]interface{}{
				"is_bot":     true,
				"difficulty": identity.Difficulty,
			}
			if err := nk.AccountUpdateId(ctx, userID, identity.Username, metadata, identity.DisplayName, "", "", "", ""); err != nil {
				logger.Warn("ProvisionBots: Failed to update bot account %s: %v", userID, err)
			}

			registry.update(i, identity)
			logger.Info("ProvisionBots: Bot %s (%s) is ready. Difficulty: %s", identity.DisplayName, userID, identity.Difficulty)
		}
	})
}

// GetBotIdentity returns an identity for a bot by index (mod pool size).
// Without a loaded pool a synthetic identity cycling through the styles is
// returned.
func GetBotIdentity(index int) BotIdentity {
	registry.mu.RLock()
	defer registry.mu.RUnlock()
	if len(registry.identities) == 0 {
		difficulty := fallbackDifficulties[index%len(fallbackDifficulties)]
		return BotIdentity{
			UserID:      fmt.Sprintf("bot-%d", index),
			Username:    fmt.Sprintf("bot%d", index),
			DisplayName: fmt.Sprintf("AI Player %d", index),
			Difficulty:  difficulty,
		}
	}
	return registry.identities[index%len(registry.identities)]
}

// GetBotDisplayName returns the display name for a bot ID, or an empty string if not a bot.
func GetBotDisplayName(userID string) string {
	registry.mu.RLock()
	defer registry.mu.RUnlock()
	identity, ok := registry.byID[userID]
	if !ok {
		return ""
	}
	if identity.DisplayName == "" {
		return identity.Username
	}
	return identity.DisplayName
}

// IsBot reports whether the given user ID belongs to the bot pool.
func IsBot(userID string) bool {
	registry.mu.RLock()
	defer registry.mu.RUnlock()
	_, ok := registry.byID[userID]
	return ok
}
