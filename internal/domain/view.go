package domain

// PlayerView is the public face of a player: counts for everything still
// face down, contents for what has been turned over.
type PlayerView struct {
	ID         string `json:"id"`
	Points     int    `json:"points"`
	CardCount  int    `json:"card_count"`
	HandSize   int    `json:"hand_size"`
	PileSize   int    `json:"pile_size"`
	Revealed   []Card `json:"revealed"`
	Passed     bool   `json:"passed"`
	Eliminated bool   `json:"eliminated"`
}

// UserState is the projection of a match sent to a single viewer. Only the
// viewer's own hand and pile contents are included.
type UserState struct {
	Viewer   string       `json:"viewer"`
	Hand     []Card       `json:"hand"`
	Pile     []Card       `json:"pile"`
	Points   int          `json:"points"`
	Players  []PlayerView `json:"players"`
	Stage    Stage        `json:"stage"`
	Turn     string       `json:"turn,omitempty"`
	Winner   string       `json:"winner,omitempty"`
	Champion string       `json:"champion,omitempty"`
	Bid      *Bid         `json:"bid,omitempty"`
	MinBid   int          `json:"min_bid"`
	MaxBid   int          `json:"max_bid"`
	Round    int          `json:"round"`
}

// UserStateFor projects the state for viewer. Unknown viewers (spectators)
// receive the public view with an empty hand.
func UserStateFor(s *GameState, viewer string) UserState {
	out := UserState{
		Viewer:   viewer,
		Hand:     []Card{},
		Pile:     []Card{},
		Players:  make([]PlayerView, 0, len(s.Players)),
		Stage:    s.Stage,
		Turn:     s.Turn,
		Winner:   s.Winner,
		Champion: s.Champion,
		MinBid:   s.MinBid(),
		MaxBid:   s.TotalPileCards(),
		Round:    s.Round,
	}
	if s.Bid != nil {
		bid := *s.Bid
		out.Bid = &bid
	}

	for _, p := range s.Players {
		out.Players = append(out.Players, PlayerView{
			ID:         p.ID,
			Points:     p.Points,
			CardCount:  len(p.Cards),
			HandSize:   len(p.Hand),
			PileSize:   len(p.Pile),
			Revealed:   append([]Card{}, p.RevealedPile...),
			Passed:     p.Passed,
			Eliminated: p.Eliminated(),
		})
		if p.ID == viewer {
			out.Hand = append(out.Hand, p.Hand...)
			out.Pile = append(out.Pile, p.Pile...)
			out.Points = p.Points
		}
	}
	return out
}
