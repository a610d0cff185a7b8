package bot

import (
	"skull/internal/bot/brain"
	"skull/internal/domain"
)

// BluffBot leads with its skull and pushes the auction past what it can
// cover, counting on opponents to pass.
type BluffBot struct {
	Memory *brain.GameMemory
}

func (b *BluffBot) CalculateMove(view domain.UserState) (domain.Action, error) {
	switch view.Stage {
	case domain.StageFirst:
		if handHas(view, domain.Skull) {
			return placeAction(domain.Skull), nil
		}
		return placeAction(domain.Flower), nil

	case domain.StagePlacing:
		if len(view.Hand) > 0 && len(view.Pile) < 2 {
			if handHas(view, domain.Flower) {
				return placeAction(domain.Flower), nil
			}
			return placeAction(view.Hand[0]), nil
		}
		return domain.Action{Kind: domain.ActionBid, Count: clampBid(view.MinBid+1, view)}, nil

	case domain.StageBidding:
		if view.MinBid <= b.limit(view) {
			return domain.Action{Kind: domain.ActionBid, Count: view.MinBid}, nil
		}
		return domain.Action{Kind: domain.ActionPass}, nil

	case domain.StageRevealing:
		return domain.Action{Kind: domain.ActionReveal, Target: revealTarget(view, b.skullRate)}, nil
	}
	return domain.Action{}, errNoMove{stage: view.Stage}
}

func (b *BluffBot) OnEvent(event any) {
	observe(b.Memory, event)
}

// limit is the highest bid the bot will make: its flowers plus half of the
// cards it cannot see, less when opponents have been raising hard.
func (b *BluffBot) limit(view domain.UserState) int {
	own := domain.CountCards(view.Pile, domain.Flower)
	unseen := view.MaxBid - len(view.Pile)
	limit := own + unseen/2
	if b.Memory != nil && view.Bid != nil && b.Memory.Profile(view.Bid.Player).Aggression() > 0.75 {
		limit--
	}
	return limit
}

func (b *BluffBot) skullRate(userID string) float64 {
	if b.Memory == nil {
		return 0.5
	}
	return b.Memory.Profile(userID).SkullRate()
}
