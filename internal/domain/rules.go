package domain

const (
	defaultMinPlayers = 2
	defaultFlowers    = 3
	defaultSkulls     = 1
)

// Rules are the per-match knobs of the engine. The zero value plays the
// standard loadout with no player cap, no skull penalty and no match limit.
type Rules struct {
	MinPlayers int
	// MaxPlayers caps joins; 0 means unlimited.
	MaxPlayers int
	Flowers    int
	Skulls     int
	// LoseCardOnSkull removes a random card from the revealer's loadout
	// at the start of the next round after they hit a skull.
	LoseCardOnSkull bool
	// PointsToWin ends the match when reached; 0 disables it.
	PointsToWin int
}

// DefaultRules returns the table rules: 2-6 players, three flowers and a
// skull each, a lost card per skull and two points to win.
func DefaultRules() Rules {
	return Rules{
		MinPlayers:      defaultMinPlayers,
		MaxPlayers:      6,
		Flowers:         defaultFlowers,
		Skulls:          defaultSkulls,
		LoseCardOnSkull: true,
		PointsToWin:     2,
	}
}

func (r Rules) minPlayers() int {
	if r.MinPlayers < defaultMinPlayers {
		return defaultMinPlayers
	}
	return r.MinPlayers
}

func (r Rules) loadout() []Card {
	flowers, skulls := max(r.Flowers, 0), max(r.Skulls, 0)
	if flowers == 0 && skulls == 0 {
		return NewLoadout(defaultFlowers, defaultSkulls)
	}
	return NewLoadout(flowers, skulls)
}
