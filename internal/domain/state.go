package domain

// Stage represents the phase of the current round.
type Stage string

const (
	// StageFirst is the opening stage: every player places one card, in any order.
	StageFirst Stage = "first"
	// StagePlacing is turn-based placement; the player on turn may also open the bidding.
	StagePlacing Stage = "placing"
	// StageBidding is the auction: players raise or pass in turn.
	StageBidding Stage = "bidding"
	// StageRevealing is the bidder turning cards over.
	StageRevealing Stage = "revealing"
	// StageDone is the state after a round has been decided.
	StageDone Stage = "done"
)

// Player holds the domain state for a participant in a match.
type Player struct {
	ID     string
	Points int

	// Cards is the loadout template the hand is dealt from each round.
	Cards []Card
	Hand  []Card
	// Pile is a stack; the last element is the most recently placed card.
	Pile         []Card
	RevealedPile []Card
	Passed       bool

	// PendingDiscard marks a player who turned over a skull; one card is
	// removed from Cards when the next round starts.
	PendingDiscard bool
}

// Eliminated reports whether the player has lost every card.
func (p *Player) Eliminated() bool {
	return len(p.Cards) == 0
}

// Bid is the current highest claim of cards that can be revealed safely.
type Bid struct {
	Player string `json:"player"`
	Count  int    `json:"count"`
}

// GameState is the authoritative state for a single match.
type GameState struct {
	Players []*Player // join order, which is also turn order
	Stage   Stage
	Turn    string
	Winner  string
	Bid     *Bid
	Rules   Rules

	// Round counts started rounds.
	Round int
	// Champion is set once a player has won the match.
	Champion string
}

// NewGameState creates an empty match in the first stage.
func NewGameState(rules Rules) *GameState {
	return &GameState{
		Stage: StageFirst,
		Rules: rules,
	}
}

func newPlayer(id string, loadout []Card) *Player {
	return &Player{
		ID:    id,
		Cards: cloneCards(loadout),
	}
}
