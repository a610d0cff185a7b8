package brain

// OpponentProfile tracks the behavioral history of a specific player.
type OpponentProfile struct {
	UserID string
	// Flipped counts cards of this player's pile turned over by anyone.
	Flipped int
	// Skulls counts how many of those were skulls.
	Skulls int
	Bids   int
	Passes int
}

// NewOpponentProfile initializes a profile for a specific player.
func NewOpponentProfile(userID string) *OpponentProfile {
	return &OpponentProfile{UserID: userID}
}

// SkullRate estimates how likely the next card from this player's pile is a
// skull. With no evidence it returns a neutral prior of one half.
func (p *OpponentProfile) SkullRate() float64 {
	return float64(p.Skulls+1) / float64(p.Flipped+2)
}

// Aggression is the share of auction turns in which the player raised.
func (p *OpponentProfile) Aggression() float64 {
	total := p.Bids + p.Passes
	if total == 0 {
		return 0.5
	}
	return float64(p.Bids) / float64(total)
}
