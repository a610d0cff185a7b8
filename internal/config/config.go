package config

import (
	"encoding/json"
	"fmt"
	"os"
	"sync"

	"skull/internal/domain"
)

// GameConfig is the JSON rules file shared by both hosts. Zero or missing
// fields fall back to domain.DefaultRules.
type GameConfig struct {
	MinPlayers      int   `json:"min_players"`
	MaxPlayers      int   `json:"max_players"`
	Flowers         int   `json:"flowers"`
	Skulls          int   `json:"skulls"`
	LoseCardOnSkull *bool `json:"lose_card_on_skull"`
	// PointsToWin of 0 disables the match limit, so absence is distinct from zero.
	PointsToWin *int `json:"points_to_win"`
	// BotAutoFillDelaySeconds configures how many seconds to wait before adding a bot to a solo human lobby.
	BotAutoFillDelaySeconds int `json:"bot_auto_fill_delay_seconds"`
}

var (
	cfg      *GameConfig
	loadOnce sync.Once
	loadErr  error
)

// LoadGameConfig loads the game configuration from the given path.
func LoadGameConfig(path string) error {
	loadOnce.Do(func() {
		data, err := os.ReadFile(path)
		if err != nil {
			loadErr = fmt.Errorf("failed to read game config: %w", err)
			return
		}
		cfg, loadErr = ParseGameConfig(data)
	})
	return loadErr
}

// ParseGameConfig decodes a rules file without touching the global config.
func ParseGameConfig(data []byte) (*GameConfig, error) {
	var c GameConfig
	if err := json.Unmarshal(data, &c); err != nil {
		return nil, fmt.Errorf("failed to unmarshal game config: %w", err)
	}
	if c.MaxPlayers > 0 && c.MinPlayers > c.MaxPlayers {
		return nil, fmt.Errorf("game config: min_players %d exceeds max_players %d", c.MinPlayers, c.MaxPlayers)
	}
	if c.Flowers < 0 || c.Skulls < 0 {
		return nil, fmt.Errorf("game config: card counts must not be negative")
	}
	return &c, nil
}

// GetGameConfig returns the global game configuration.
func GetGameConfig() *GameConfig {
	return cfg
}

// Rules returns the loaded rules, or the defaults if nothing was loaded.
func Rules() domain.Rules {
	return cfg.Rules()
}

// Rules merges the file over domain.DefaultRules.
func (c *GameConfig) Rules() domain.Rules {
	r := domain.DefaultRules()
	if c == nil {
		return r
	}
	if c.MinPlayers > 0 {
		r.MinPlayers = c.MinPlayers
	}
	if c.MaxPlayers > 0 {
		r.MaxPlayers = c.MaxPlayers
	}
	if c.Flowers > 0 || c.Skulls > 0 {
		r.Flowers = c.Flowers
		r.Skulls = c.Skulls
	}
	if c.LoseCardOnSkull != nil {
		r.LoseCardOnSkull = *c.LoseCardOnSkull
	}
	if c.PointsToWin != nil {
		r.PointsToWin = *c.PointsToWin
	}
	return r
}
