package domain

import (
	"errors"
	"reflect"
	"testing"
)

func TestRemoveCard(t *testing.T) {
	tests := []struct {
		name string
		hand []Card
		card Card
		want []Card
	}{
		{name: "removes one flower", hand: []Card{Flower, Flower, Skull}, card: Flower, want: []Card{Flower, Skull}},
		{name: "removes skull", hand: []Card{Flower, Skull, Flower}, card: Skull, want: []Card{Flower, Flower}},
		{name: "missing card is a no-op", hand: []Card{Flower}, card: Skull, want: []Card{Flower}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := removeCard(tt.hand, tt.card)
			if !reflect.DeepEqual(got, tt.want) {
				t.Fatalf("removeCard() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestNextTurnWraps(t *testing.T) {
	s := NewGameState(Rules{})
	for _, id := range []string{"a", "b", "c"} {
		s.Players = append(s.Players, newPlayer(id, StandardLoadout()))
	}

	tests := []struct {
		from       string
		skipPassed bool
		passed     string
		want       string
	}{
		{from: "a", want: "b"},
		{from: "c", want: "a"},
		{from: "a", skipPassed: true, passed: "b", want: "c"},
		{from: "a", skipPassed: false, passed: "b", want: "b"},
	}

	for _, tt := range tests {
		for _, p := range s.Players {
			p.Passed = p.ID == tt.passed
		}
		if got := s.nextTurn(tt.from, tt.skipPassed); got != tt.want {
			t.Fatalf("nextTurn(%s, %t) = %s, want %s", tt.from, tt.skipPassed, got, tt.want)
		}
	}
}

func TestParseCard(t *testing.T) {
	tests := []struct {
		in      string
		want    Card
		wantErr bool
	}{
		{in: "flower", want: Flower},
		{in: " Skull ", want: Skull},
		{in: "rose", wantErr: true},
		{in: "", wantErr: true},
	}

	for _, tt := range tests {
		got, err := ParseCard(tt.in)
		if tt.wantErr {
			if !errors.Is(err, ErrUnknownCard) {
				t.Fatalf("ParseCard(%q) error = %v, want ErrUnknownCard", tt.in, err)
			}
			continue
		}
		if err != nil || got != tt.want {
			t.Fatalf("ParseCard(%q) = %v, %v; want %v", tt.in, got, err, tt.want)
		}
	}
}

func TestCodeOf(t *testing.T) {
	if got := CodeOf(ErrBidTooHigh); got != "bid_too_high" {
		t.Fatalf("CodeOf() = %q", got)
	}
	if got := CodeOf(errors.New("boom")); got != "" {
		t.Fatalf("CodeOf(plain error) = %q, want empty", got)
	}
}

func TestComputeLabel(t *testing.T) {
	s := NewGameState(Rules{MaxPlayers: 4})
	s.Players = append(s.Players, newPlayer("a", StandardLoadout()))

	label := ComputeLabel(s)
	if label.Open != 3 || label.Game != GameName || label.Stage != string(StageFirst) {
		t.Fatalf("label = %+v", label)
	}

	s.Round = 1
	if label := ComputeLabel(s); label.Open != 0 {
		t.Fatalf("label open during round = %d, want 0", label.Open)
	}
}

func TestRulesLoadoutDefaults(t *testing.T) {
	if got := (Rules{}).loadout(); !reflect.DeepEqual(got, StandardLoadout()) {
		t.Fatalf("zero rules loadout = %v", got)
	}
	if got := (Rules{Flowers: -2, Skulls: 2}).loadout(); !reflect.DeepEqual(got, []Card{Skull, Skull}) {
		t.Fatalf("negative flowers loadout = %v", got)
	}
	if got := DefaultRules(); got.minPlayers() != 2 || !got.LoseCardOnSkull {
		t.Fatalf("default rules = %+v", got)
	}
}
