package bot

import (
	_ "embed"
	"errors"
	"fmt"
	"os"

	"github.com/Shopify/go-lua"

	"skull/internal/domain"
)

//go:embed scripts/gambler.lua
var gamblerScript string

const decideFunc = "decide"

// ScriptBot hands every decision to a Lua function decide(view) that
// returns a move table such as {kind = "bid", count = 2}, or nil to sit
// the turn out. A ScriptBot owns its Lua state and is not safe for
// concurrent use.
type ScriptBot struct {
	state *lua.State
}

// NewScriptBot compiles source and checks that it defines decide.
func NewScriptBot(source string) (*ScriptBot, error) {
	l := lua.NewState()
	lua.OpenLibraries(l)
	if err := lua.DoString(l, source); err != nil {
		return nil, fmt.Errorf("load bot script: %w", err)
	}
	l.Global(decideFunc)
	defined := l.IsFunction(-1)
	l.Pop(1)
	if !defined {
		return nil, errors.New("bot script must define decide(view)")
	}
	return &ScriptBot{state: l}, nil
}

// LoadScriptBot reads a strategy script from disk.
func LoadScriptBot(path string) (*ScriptBot, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read bot script: %w", err)
	}
	return NewScriptBot(string(data))
}

func (b *ScriptBot) CalculateMove(view domain.UserState) (domain.Action, error) {
	l := b.state
	top := l.Top()
	defer l.SetTop(top)

	l.Global(decideFunc)
	pushView(l, view)
	if err := l.ProtectedCall(1, 1, 0); err != nil {
		return domain.Action{}, fmt.Errorf("bot script: %w", err)
	}
	if !l.IsTable(-1) {
		return domain.Action{}, errNoMove{view.Stage}
	}

	kind := stringField(l, "kind")
	switch domain.ActionKind(kind) {
	case domain.ActionPlace:
		card, err := domain.ParseCard(stringField(l, "card"))
		if err != nil {
			return domain.Action{}, err
		}
		return placeAction(card), nil
	case domain.ActionBid:
		return domain.Action{Kind: domain.ActionBid, Count: intField(l, "count")}, nil
	case domain.ActionPass:
		return domain.Action{Kind: domain.ActionPass}, nil
	case domain.ActionReveal:
		return domain.Action{Kind: domain.ActionReveal, Target: stringField(l, "target")}, nil
	default:
		return domain.Action{}, fmt.Errorf("bot script returned unknown move %q", kind)
	}
}

func (b *ScriptBot) OnEvent(any) {}

func stringField(l *lua.State, name string) string {
	l.Field(-1, name)
	s, _ := l.ToString(-1)
	l.Pop(1)
	return s
}

func intField(l *lua.State, name string) int {
	l.Field(-1, name)
	n, _ := l.ToInteger(-1)
	l.Pop(1)
	return n
}

func pushView(l *lua.State, view domain.UserState) {
	l.NewTable()
	setString(l, "viewer", view.Viewer)
	setString(l, "stage", string(view.Stage))
	setString(l, "turn", view.Turn)
	setInt(l, "round", view.Round)
	setInt(l, "points", view.Points)
	setInt(l, "min_bid", view.MinBid)
	setInt(l, "max_bid", view.MaxBid)
	pushCards(l, view.Hand)
	l.SetField(-2, "hand")
	pushCards(l, view.Pile)
	l.SetField(-2, "pile")

	if view.Bid != nil {
		l.NewTable()
		setString(l, "player", view.Bid.Player)
		setInt(l, "count", view.Bid.Count)
		l.SetField(-2, "bid")
	}

	l.NewTable()
	for i, p := range view.Players {
		l.NewTable()
		setString(l, "id", p.ID)
		setInt(l, "points", p.Points)
		setInt(l, "card_count", p.CardCount)
		setInt(l, "hand_size", p.HandSize)
		setInt(l, "pile_size", p.PileSize)
		setInt(l, "revealed", len(p.Revealed))
		l.PushBoolean(p.Passed)
		l.SetField(-2, "passed")
		l.PushBoolean(p.Eliminated)
		l.SetField(-2, "eliminated")
		l.RawSetInt(-2, i+1)
	}
	l.SetField(-2, "players")
}

func pushCards(l *lua.State, cards []domain.Card) {
	l.NewTable()
	for i, c := range cards {
		l.PushString(string(c))
		l.RawSetInt(-2, i+1)
	}
}

func setString(l *lua.State, key, value string) {
	l.PushString(value)
	l.SetField(-2, key)
}

func setInt(l *lua.State, key string, value int) {
	l.PushInteger(value)
	l.SetField(-2, key)
}
