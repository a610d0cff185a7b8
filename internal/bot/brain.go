package bot

import (
	"skull/internal/domain"
)

// BotLevel selects a playing style.
type BotLevel int

const (
	BotLevelCautious BotLevel = iota
	BotLevelBluff
	BotLevelGambler
)

// Brain is the interface that all bot strategies must implement. Strategies
// only ever see the redacted view their seat is entitled to.
type Brain interface {
	CalculateMove(view domain.UserState) (domain.Action, error)
	OnEvent(event any)
}

// MustAct reports whether the viewer owes the table a move. During the
// opening every player places at once; afterwards only the turn holder acts.
func MustAct(view domain.UserState) bool {
	me, ok := self(view)
	if !ok || me.Eliminated || view.Champion != "" {
		return false
	}
	switch view.Stage {
	case domain.StageFirst:
		return view.Round > 0 && me.PileSize == 0
	case domain.StagePlacing, domain.StageBidding, domain.StageRevealing:
		return view.Turn == view.Viewer
	default:
		return false
	}
}

func self(view domain.UserState) (domain.PlayerView, bool) {
	for _, p := range view.Players {
		if p.ID == view.Viewer {
			return p, true
		}
	}
	return domain.PlayerView{}, false
}

func pileHasSkull(view domain.UserState) bool {
	return domain.CountCards(view.Pile, domain.Skull) > 0
}

func handHas(view domain.UserState, card domain.Card) bool {
	return domain.CountCards(view.Hand, card) > 0
}

func clampBid(count int, view domain.UserState) int {
	return min(max(count, view.MinBid), view.MaxBid)
}

// revealTarget picks whose pile to flip next: always our own first, then
// the opponent memory trusts most, falling back to the largest pile.
func revealTarget(view domain.UserState, skullRate func(string) float64) string {
	if len(view.Pile) > 0 {
		return view.Viewer
	}
	best := ""
	bestRate, bestSize := 2.0, -1
	for _, p := range view.Players {
		if p.ID == view.Viewer || p.PileSize == 0 {
			continue
		}
		rate := skullRate(p.ID)
		if rate < bestRate || (rate == bestRate && p.PileSize > bestSize) {
			best, bestRate, bestSize = p.ID, rate, p.PileSize
		}
	}
	return best
}

// errNoMove is returned when a brain is asked to play out of turn.
type errNoMove struct{ stage domain.Stage }

func (e errNoMove) Error() string { return "bot has no move in stage " + string(e.stage) }
