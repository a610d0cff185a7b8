package bot

import (
	"skull/internal/bot/brain"
	"skull/internal/domain"
)

// CautiousBot never puts a skull down while it holds a flower and only bids
// what its own pile can back.
type CautiousBot struct {
	Memory *brain.GameMemory
}

func (b *CautiousBot) CalculateMove(view domain.UserState) (domain.Action, error) {
	switch view.Stage {
	case domain.StageFirst:
		return placeAction(b.pick(view)), nil

	case domain.StagePlacing:
		if len(view.Hand) > 0 && len(view.Pile) < 2 && handHas(view, domain.Flower) {
			return placeAction(domain.Flower), nil
		}
		return domain.Action{Kind: domain.ActionBid, Count: clampBid(b.safeCount(view), view)}, nil

	case domain.StageBidding:
		if view.MinBid <= b.safeCount(view) {
			return domain.Action{Kind: domain.ActionBid, Count: view.MinBid}, nil
		}
		return domain.Action{Kind: domain.ActionPass}, nil

	case domain.StageRevealing:
		return domain.Action{Kind: domain.ActionReveal, Target: revealTarget(view, b.skullRate)}, nil
	}
	return domain.Action{}, errNoMove{stage: view.Stage}
}

func (b *CautiousBot) OnEvent(event any) {
	observe(b.Memory, event)
}

func (b *CautiousBot) pick(view domain.UserState) domain.Card {
	if handHas(view, domain.Flower) {
		return domain.Flower
	}
	return domain.Skull
}

// safeCount is how many flips the bot is sure of: its own pile, unless it
// hid a skull there.
func (b *CautiousBot) safeCount(view domain.UserState) int {
	if pileHasSkull(view) {
		return 0
	}
	return len(view.Pile)
}

func (b *CautiousBot) skullRate(userID string) float64 {
	if b.Memory == nil {
		return 0.5
	}
	return b.Memory.Profile(userID).SkullRate()
}
