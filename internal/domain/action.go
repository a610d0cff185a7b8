package domain

// ActionKind tags the variant carried by an Action.
type ActionKind string

const (
	ActionJoin   ActionKind = "join"
	ActionStart  ActionKind = "start"
	ActionPlace  ActionKind = "place"
	ActionBid    ActionKind = "bid"
	ActionPass   ActionKind = "pass"
	ActionReveal ActionKind = "reveal"
)

// Action is a player request. Only the field matching Kind is read:
// Card for place, Count for bid, Target for reveal.
type Action struct {
	Kind   ActionKind `json:"kind"`
	Card   Card       `json:"card,omitempty"`
	Count  int        `json:"count,omitempty"`
	Target string     `json:"target,omitempty"`
}

// Apply dispatches the action to the matching operation.
func (e *Engine) Apply(s *GameState, userID string, a Action) error {
	switch a.Kind {
	case ActionJoin:
		return e.JoinGame(s, userID)
	case ActionStart:
		return e.StartGame(s, userID)
	case ActionPlace:
		return e.PlaceCard(s, userID, a.Card)
	case ActionBid:
		return e.PlaceBid(s, userID, a.Count)
	case ActionPass:
		return e.Pass(s, userID)
	case ActionReveal:
		return e.Reveal(s, userID, a.Target)
	default:
		return ErrNotImplemented
	}
}
