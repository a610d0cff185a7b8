package domain

import "fmt"

// Random supplies integers in [min, max], both inclusive.
type Random interface {
	Integer(min, max int) int
}

// Broadcaster receives narration that every participant may see.
type Broadcaster interface {
	Publish(message string)
}

type discardBroadcaster struct{}

func (discardBroadcaster) Publish(string) {}

// Engine applies player actions to a GameState. It holds no match state of
// its own and does no locking: callers serialize the actions of one match.
type Engine struct {
	rng  Random
	sink Broadcaster
}

// NewEngine wires the engine to its collaborators. rng must be non-nil;
// a nil sink drops narration.
func NewEngine(rng Random, sink Broadcaster) *Engine {
	if sink == nil {
		sink = discardBroadcaster{}
	}
	return &Engine{rng: rng, sink: sink}
}

// JoinGame appends a new player to the turn order.
func (e *Engine) JoinGame(s *GameState, userID string) error {
	if s.playerIndex(userID) >= 0 {
		return ErrAlreadyJoined
	}
	if s.Champion != "" {
		return ErrMatchOver
	}
	if s.roundInProgress() {
		return ErrGameInProgress
	}
	if s.Rules.MaxPlayers > 0 && len(s.Players) >= s.Rules.MaxPlayers {
		return ErrMatchFull
	}

	s.Players = append(s.Players, newPlayer(userID, s.Rules.loadout()))
	return nil
}

// StartGame deals a new round. Points and membership carry over; so does
// the turn, except on the very first round where it is drawn at random.
func (e *Engine) StartGame(s *GameState, userID string) error {
	if s.Stage != StageFirst && s.Stage != StageDone {
		return ErrGameInProgress
	}
	if s.Champion != "" {
		return ErrMatchOver
	}
	if s.activeAfterDiscards() < s.Rules.minPlayers() {
		return ErrNotEnoughPlayers
	}

	for _, p := range s.Players {
		if p.PendingDiscard {
			if len(p.Cards) > 0 {
				p.Cards = removeAt(p.Cards, e.rng.Integer(0, len(p.Cards)-1))
			}
			p.PendingDiscard = false
		}
		p.Hand = cloneCards(p.Cards)
		p.Pile = nil
		p.RevealedPile = nil
		p.Passed = false
	}
	s.Stage = StageFirst
	s.Winner = ""
	s.Bid = nil
	s.Round++

	if s.Turn == "" {
		s.Turn = s.Players[e.rng.Integer(0, len(s.Players)-1)].ID
	}
	if p := s.Player(s.Turn); p == nil || p.Eliminated() {
		s.Turn = s.nextTurn(s.Turn, false)
	}
	return nil
}

// PlaceCard moves one card from the player's hand onto their pile.
func (e *Engine) PlaceCard(s *GameState, userID string, card Card) error {
	switch s.Stage {
	case StageFirst:
		p := s.Player(userID)
		if p == nil {
			return ErrPlayerNotFound
		}
		if len(p.Pile) > 0 {
			return ErrAlreadyPlaced
		}
		if !hasCard(p.Hand, card) {
			return ErrCardNotInHand
		}

		place(p, card)
		if s.allPlaced() {
			s.Stage = StagePlacing
		}
		return nil

	case StagePlacing:
		if s.Turn != userID {
			return ErrNotYourTurn
		}
		p := s.Player(userID)
		if p == nil || !hasCard(p.Hand, card) {
			return ErrCardNotInHand
		}

		place(p, card)
		s.Turn = s.nextTurn(userID, false)
		return nil

	default:
		return ErrNotInPlacingStage
	}
}

func place(p *Player, card Card) {
	p.Hand = removeCard(p.Hand, card)
	p.Pile = append(p.Pile, card)
}

// PlaceBid raises the bid. A bid naming every placed card skips straight
// to the reveal since nobody can go higher.
func (e *Engine) PlaceBid(s *GameState, userID string, count int) error {
	if s.Stage != StagePlacing && s.Stage != StageBidding {
		return ErrNotInBiddingStage
	}
	if s.Turn != userID {
		return ErrNotYourTurn
	}
	if count < s.MinBid() {
		return ErrBidTooLow
	}
	total := s.TotalPileCards()
	if count > total {
		return ErrBidTooHigh
	}

	s.Bid = &Bid{Player: userID, Count: count}
	if count == total {
		s.Stage = StageRevealing
		s.Turn = userID
		return nil
	}
	s.Stage = StageBidding
	s.Turn = s.nextTurn(userID, true)
	return nil
}

// Pass withdraws the player from the auction. When only one bidder is left
// the highest bidder starts revealing.
func (e *Engine) Pass(s *GameState, userID string) error {
	if s.Stage != StageBidding {
		return ErrNotInBiddingStage
	}
	p := s.Player(userID)
	if p == nil {
		return ErrPlayerNotFound
	}
	if s.Turn != userID {
		return ErrNotYourTurn
	}
	p.Passed = true
	if s.unpassed() == 1 {
		s.Stage = StageRevealing
		s.Turn = s.Bid.Player
		return nil
	}
	s.Turn = s.nextTurn(userID, true)
	return nil
}

// Reveal turns over the top card of the target's pile.
func (e *Engine) Reveal(s *GameState, userID, target string) error {
	if s.Stage != StageRevealing {
		return ErrNotInRevealingStage
	}
	if s.Turn != userID {
		return ErrNotYourTurn
	}
	revealer := s.Player(userID)
	if revealer == nil {
		return ErrPlayerNotFound
	}
	if target != userID && len(revealer.Pile) > 0 {
		return ErrMustRevealOwnPileFirst
	}
	t := s.Player(target)
	if t == nil {
		return ErrPlayerNotFound
	}
	if len(t.Pile) == 0 {
		return ErrNoCardsLeft
	}

	top := len(t.Pile) - 1
	card := t.Pile[top]
	t.Pile = t.Pile[:top]
	t.RevealedPile = append(t.RevealedPile, card)

	if card == Skull {
		s.Stage = StageDone
		if !s.Rules.LoseCardOnSkull {
			e.sink.Publish(fmt.Sprintf("%s turned over a Skull", userID))
			return nil
		}
		revealer.PendingDiscard = true
		e.sink.Publish(fmt.Sprintf("%s turned over a Skull and loses a card", userID))
		if survivor := s.survivorAfterDiscards(); survivor != "" {
			s.Champion = survivor
			e.sink.Publish(fmt.Sprintf("%s is the last player standing and wins the match", survivor))
		}
		return nil
	}

	revealed := s.TotalRevealed()
	if revealed < s.Bid.Count {
		return nil
	}
	s.Winner = userID
	revealer.Points++
	s.Stage = StageDone
	e.sink.Publish(fmt.Sprintf("%s revealed %d flowers and wins the round", userID, revealed))
	if s.Rules.PointsToWin > 0 && revealer.Points >= s.Rules.PointsToWin {
		s.Champion = userID
		e.sink.Publish(fmt.Sprintf("%s wins the match with %d points", userID, revealer.Points))
	}
	return nil
}
