package app

import "skull/internal/domain"

// EventKind identifies emitted domain events for host dispatch.
type EventKind string

const (
	EventPlayerJoined EventKind = "player_joined"
	EventRoundStarted EventKind = "round_started"
	EventHandDealt    EventKind = "hand_dealt"
	EventCardPlaced   EventKind = "card_placed"
	EventBidPlaced    EventKind = "bid_placed"
	EventPlayerPassed EventKind = "player_passed"
	EventCardRevealed EventKind = "card_revealed"
	EventNarration    EventKind = "narration"
	EventRoundEnded   EventKind = "round_ended"
	EventMatchEnded   EventKind = "match_ended"
)

// Event is an app event with optional targeted recipients.
type Event struct {
	Kind       EventKind
	Payload    any
	Recipients []string // user IDs; empty means broadcast
}

type PlayerJoinedPayload struct {
	UserID string `json:"user_id"`
	Seat   int    `json:"seat"`
}

type RoundStartedPayload struct {
	Round     int    `json:"round"`
	StartedBy string `json:"started_by"`
	FirstTurn string `json:"first_turn"`
}

type HandDealtPayload struct {
	UserID string        `json:"user_id"`
	Hand   []domain.Card `json:"hand"`
}

// CardPlacedPayload never carries the card itself; piles are face down.
type CardPlacedPayload struct {
	UserID   string       `json:"user_id"`
	PileSize int          `json:"pile_size"`
	Stage    domain.Stage `json:"stage"`
	NextTurn string       `json:"next_turn"`
}

type BidPlacedPayload struct {
	UserID   string       `json:"user_id"`
	Count    int          `json:"count"`
	Stage    domain.Stage `json:"stage"`
	NextTurn string       `json:"next_turn"`
}

type PlayerPassedPayload struct {
	UserID   string       `json:"user_id"`
	Stage    domain.Stage `json:"stage"`
	NextTurn string       `json:"next_turn"`
}

type CardRevealedPayload struct {
	UserID   string       `json:"user_id"`
	Target   string       `json:"target"`
	Card     domain.Card  `json:"card"`
	Revealed int          `json:"revealed"`
	Stage    domain.Stage `json:"stage"`
}

type NarrationPayload struct {
	Message string `json:"message"`
}

type RoundEndedPayload struct {
	Round  int            `json:"round"`
	Winner string         `json:"winner,omitempty"`
	Points map[string]int `json:"points"`
}

type MatchEndedPayload struct {
	Champion string         `json:"champion"`
	Points   map[string]int `json:"points"`
}
