package domain

// GameName is advertised in match labels.
const GameName = "skull"

func cloneCards(cards []Card) []Card {
	if cards == nil {
		return nil
	}
	return append([]Card{}, cards...)
}

func hasCard(cards []Card, card Card) bool {
	for _, c := range cards {
		if c == card {
			return true
		}
	}
	return false
}

// removeCard drops the first instance of card and returns a new slice.
func removeCard(cards []Card, card Card) []Card {
	for i, c := range cards {
		if c == card {
			return removeAt(cards, i)
		}
	}
	return cards
}

func removeAt(cards []Card, index int) []Card {
	out := make([]Card, 0, len(cards)-1)
	out = append(out, cards[:index]...)
	return append(out, cards[index+1:]...)
}

// CountCards returns how many of card appear in cards.
func CountCards(cards []Card, card Card) int {
	n := 0
	for _, c := range cards {
		if c == card {
			n++
		}
	}
	return n
}

// LabelPayload is the match label advertised for quick-match queries.
type LabelPayload struct {
	Open  int    `json:"open"`
	Game  string `json:"game"`
	Stage string `json:"stage"`
}

// ComputeLabel derives the advertised label from match state. Open is the
// number of free seats while the match still accepts joins, otherwise 0.
func ComputeLabel(s *GameState) LabelPayload {
	open := 0
	if s.acceptsJoins() {
		if s.Rules.MaxPlayers > 0 {
			open = s.Rules.MaxPlayers - len(s.Players)
		} else {
			open = 1
		}
	}
	return LabelPayload{Open: open, Game: GameName, Stage: string(s.Stage)}
}
