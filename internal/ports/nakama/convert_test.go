package nakama

import (
	"errors"
	"testing"

	"skull/internal/app"
	"skull/internal/domain"
)

func TestActionFromMessage(t *testing.T) {
	tests := []struct {
		name    string
		opCode  int64
		fields  map[string]any
		want    domain.Action
		wantErr bool
	}{
		{name: "start", opCode: OpStartGame, want: domain.Action{Kind: domain.ActionStart}},
		{name: "pass", opCode: OpPass, want: domain.Action{Kind: domain.ActionPass}},
		{name: "place", opCode: OpPlaceCard, fields: map[string]any{"card": "skull"}, want: domain.Action{Kind: domain.ActionPlace, Card: domain.Skull}},
		{name: "bid", opCode: OpPlaceBid, fields: map[string]any{"count": 3}, want: domain.Action{Kind: domain.ActionBid, Count: 3}},
		{name: "reveal", opCode: OpReveal, fields: map[string]any{"target": "u2"}, want: domain.Action{Kind: domain.ActionReveal, Target: "u2"}},
		{name: "fractional bid", opCode: OpPlaceBid, fields: map[string]any{"count": 1.5}, wantErr: true},
		{name: "bid without count", opCode: OpPlaceBid, wantErr: true},
		{name: "reveal without target", opCode: OpReveal, wantErr: true},
		{name: "unknown opcode", opCode: 42, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var data []byte
			if tt.fields != nil {
				var err error
				if data, err = encodeMessage(tt.fields); err != nil {
					t.Fatalf("encode: %v", err)
				}
			}
			got, err := actionFromMessage(tt.opCode, data)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("expected error, got %+v", got)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tt.want {
				t.Fatalf("action = %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestEventMessageCoversAllPayloads(t *testing.T) {
	events := []app.Event{
		{Kind: app.EventPlayerJoined, Payload: app.PlayerJoinedPayload{UserID: "u1"}},
		{Kind: app.EventRoundStarted, Payload: app.RoundStartedPayload{Round: 1}},
		{Kind: app.EventHandDealt, Payload: app.HandDealtPayload{UserID: "u1", Hand: domain.StandardLoadout()}},
		{Kind: app.EventCardPlaced, Payload: app.CardPlacedPayload{UserID: "u1", Stage: domain.StageFirst}},
		{Kind: app.EventBidPlaced, Payload: app.BidPlacedPayload{UserID: "u1", Count: 2}},
		{Kind: app.EventPlayerPassed, Payload: app.PlayerPassedPayload{UserID: "u1"}},
		{Kind: app.EventCardRevealed, Payload: app.CardRevealedPayload{UserID: "u1", Target: "u2", Card: domain.Skull}},
		{Kind: app.EventNarration, Payload: app.NarrationPayload{Message: "hi"}},
		{Kind: app.EventRoundEnded, Payload: app.RoundEndedPayload{Round: 1, Points: map[string]int{"u1": 1}}},
		{Kind: app.EventMatchEnded, Payload: app.MatchEndedPayload{Champion: "u1", Points: map[string]int{"u1": 2}}},
	}

	seen := make(map[int64]bool)
	for _, ev := range events {
		op, body, err := eventMessage(ev)
		if err != nil {
			t.Fatalf("%s: %v", ev.Kind, err)
		}
		if seen[op] {
			t.Fatalf("%s reuses opcode %d", ev.Kind, op)
		}
		seen[op] = true
		if _, err := encodeMessage(body); err != nil {
			t.Fatalf("%s does not encode: %v", ev.Kind, err)
		}
	}

	if _, _, err := eventMessage(app.Event{Kind: "mystery", Payload: 1}); err == nil {
		t.Fatal("expected error for unknown payload")
	}
}

func TestErrorMessageUsesRuleCode(t *testing.T) {
	if got := errorMessage(domain.ErrBidTooHigh)["code"]; got != string(domain.CodeOf(domain.ErrBidTooHigh)) {
		t.Fatalf("code = %v", got)
	}
	if got := errorMessage(errors.New("boom"))["code"]; got != "bad_request" {
		t.Fatalf("code = %v, want bad_request", got)
	}
}

func TestStateMessageEncodes(t *testing.T) {
	game := domain.NewGameState(domain.DefaultRules())
	game.Bid = &domain.Bid{Player: "u1", Count: 2}
	body := stateMessage(domain.UserStateFor(game, "u1"), map[string]string{}, "u1")
	if _, err := encodeMessage(body); err != nil {
		t.Fatalf("encode state: %v", err)
	}
	if body["bid"] == nil {
		t.Fatal("bid missing from state")
	}
}
