package bot

import (
	"fmt"

	"skull/internal/app"
	"skull/internal/bot/brain"
	"skull/internal/domain"
)

// NewBrain creates a new AI brain based on the specified level.
func NewBrain(level BotLevel) (Brain, error) {
	switch level {
	case BotLevelCautious:
		return &CautiousBot{Memory: brain.NewMemory()}, nil
	case BotLevelBluff:
		return &BluffBot{Memory: brain.NewMemory()}, nil
	case BotLevelGambler:
		return NewScriptBot(gamblerScript)
	default:
		return nil, fmt.Errorf("unknown bot level: %d", level)
	}
}

// ParseLevel maps an identity difficulty string to a level.
func ParseLevel(difficulty string) BotLevel {
	switch difficulty {
	case "bluff", "hard":
		return BotLevelBluff
	case "gambler":
		return BotLevelGambler
	default:
		return BotLevelCautious
	}
}

func placeAction(card domain.Card) domain.Action {
	return domain.Action{Kind: domain.ActionPlace, Card: card}
}

func observe(m *brain.GameMemory, event any) {
	if m == nil {
		return
	}
	if ev, ok := event.(app.Event); ok {
		m.Observe(ev)
	}
}
