package brain

import "testing"

func TestOpponentProfileRates(t *testing.T) {
	p := NewOpponentProfile("u1")
	if p.SkullRate() != 0.5 || p.Aggression() != 0.5 {
		t.Fatalf("fresh profile rates = %v, %v", p.SkullRate(), p.Aggression())
	}

	p.Flipped, p.Skulls = 2, 2
	if got := p.SkullRate(); got != 0.75 {
		t.Fatalf("skull rate = %v, want 0.75", got)
	}

	p.Bids, p.Passes = 3, 1
	if got := p.Aggression(); got != 0.75 {
		t.Fatalf("aggression = %v, want 0.75", got)
	}
}
