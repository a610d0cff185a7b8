package app

import (
	"math/rand"
	"time"

	"skull/internal/domain"
)

// Service contains Skull use-cases operating on domain state. A Service is
// not safe for concurrent use; hosts keep one per match.
type Service struct {
	rng *rand.Rand
}

// NewService constructs a Service with provided rng or a time-seeded default.
func NewService(rng *rand.Rand) *Service {
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	return &Service{rng: rng}
}

// Integer implements domain.Random with inclusive bounds.
func (s *Service) Integer(min, max int) int {
	if max <= min {
		return min
	}
	return min + s.rng.Intn(max-min+1)
}

// narrationSink turns engine narration into broadcast events.
type narrationSink struct {
	events []Event
}

func (n *narrationSink) Publish(message string) {
	n.events = append(n.events, Event{
		Kind:    EventNarration,
		Payload: NarrationPayload{Message: message},
	})
}

// Dispatch applies one player action and returns the events it produced.
// On error the game is untouched and no events are returned.
func (s *Service) Dispatch(game *domain.GameState, actorUserID string, action domain.Action) ([]Event, error) {
	sink := &narrationSink{}
	if err := domain.NewEngine(s, sink).Apply(game, actorUserID, action); err != nil {
		return nil, err
	}

	var events []Event
	switch action.Kind {
	case domain.ActionJoin:
		events = append(events, Event{
			Kind:    EventPlayerJoined,
			Payload: PlayerJoinedPayload{UserID: actorUserID, Seat: len(game.Players) - 1},
		})

	case domain.ActionStart:
		events = append(events, Event{
			Kind:    EventRoundStarted,
			Payload: RoundStartedPayload{Round: game.Round, StartedBy: actorUserID, FirstTurn: game.Turn},
		})
		for _, p := range game.Players {
			events = append(events, Event{
				Kind:       EventHandDealt,
				Payload:    HandDealtPayload{UserID: p.ID, Hand: append([]domain.Card{}, p.Hand...)},
				Recipients: []string{p.ID},
			})
		}

	case domain.ActionPlace:
		events = append(events, Event{
			Kind: EventCardPlaced,
			Payload: CardPlacedPayload{
				UserID:   actorUserID,
				PileSize: len(game.Player(actorUserID).Pile),
				Stage:    game.Stage,
				NextTurn: game.Turn,
			},
		})

	case domain.ActionBid:
		events = append(events, Event{
			Kind:    EventBidPlaced,
			Payload: BidPlacedPayload{UserID: actorUserID, Count: action.Count, Stage: game.Stage, NextTurn: game.Turn},
		})

	case domain.ActionPass:
		events = append(events, Event{
			Kind:    EventPlayerPassed,
			Payload: PlayerPassedPayload{UserID: actorUserID, Stage: game.Stage, NextTurn: game.Turn},
		})

	case domain.ActionReveal:
		target := game.Player(action.Target)
		events = append(events, Event{
			Kind: EventCardRevealed,
			Payload: CardRevealedPayload{
				UserID:   actorUserID,
				Target:   action.Target,
				Card:     target.RevealedPile[len(target.RevealedPile)-1],
				Revealed: game.TotalRevealed(),
				Stage:    game.Stage,
			},
		})
	}

	events = append(events, sink.events...)
	if action.Kind == domain.ActionReveal && game.Stage == domain.StageDone {
		events = append(events, Event{
			Kind:    EventRoundEnded,
			Payload: RoundEndedPayload{Round: game.Round, Winner: game.Winner, Points: pointsOf(game)},
		})
		if game.Champion != "" {
			events = append(events, Event{
				Kind:    EventMatchEnded,
				Payload: MatchEndedPayload{Champion: game.Champion, Points: pointsOf(game)},
			})
		}
	}
	return events, nil
}

func pointsOf(game *domain.GameState) map[string]int {
	points := make(map[string]int, len(game.Players))
	for _, p := range game.Players {
		points[p.ID] = p.Points
	}
	return points
}
