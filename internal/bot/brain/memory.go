package brain

import (
	"skull/internal/app"
	"skull/internal/domain"
)

// GameMemory stores what a bot has seen across rounds of one match.
type GameMemory struct {
	Opponents map[string]*OpponentProfile
	Rounds    int
}

// NewMemory initializes a fresh memory state.
func NewMemory() *GameMemory {
	return &GameMemory{Opponents: make(map[string]*OpponentProfile)}
}

// Profile returns the profile for userID, creating it on first use.
func (m *GameMemory) Profile(userID string) *OpponentProfile {
	p, ok := m.Opponents[userID]
	if !ok {
		p = NewOpponentProfile(userID)
		m.Opponents[userID] = p
	}
	return p
}

// Observe folds one broadcast event into the memory. Unknown kinds are ignored.
func (m *GameMemory) Observe(ev app.Event) {
	switch payload := ev.Payload.(type) {
	case app.RoundStartedPayload:
		m.Rounds = payload.Round
	case app.BidPlacedPayload:
		m.Profile(payload.UserID).Bids++
	case app.PlayerPassedPayload:
		m.Profile(payload.UserID).Passes++
	case app.CardRevealedPayload:
		p := m.Profile(payload.Target)
		p.Flipped++
		if payload.Card == domain.Skull {
			p.Skulls++
		}
	}
}
