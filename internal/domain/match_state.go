package domain

// Player returns the player with the given id, or nil.
func (s *GameState) Player(id string) *Player {
	if i := s.playerIndex(id); i >= 0 {
		return s.Players[i]
	}
	return nil
}

func (s *GameState) playerIndex(id string) int {
	for i, p := range s.Players {
		if p.ID == id {
			return i
		}
	}
	return -1
}

// ActivePlayers counts players that still hold cards.
func (s *GameState) ActivePlayers() int {
	n := 0
	for _, p := range s.Players {
		if !p.Eliminated() {
			n++
		}
	}
	return n
}

// TotalPileCards is the number of face-down cards across all piles.
func (s *GameState) TotalPileCards() int {
	n := 0
	for _, p := range s.Players {
		n += len(p.Pile)
	}
	return n
}

// TotalRevealed is the number of cards turned over this round.
func (s *GameState) TotalRevealed() int {
	n := 0
	for _, p := range s.Players {
		n += len(p.RevealedPile)
	}
	return n
}

// MinBid is the lowest count the next bid may name.
func (s *GameState) MinBid() int {
	if s.Bid == nil {
		return 1
	}
	return max(0, s.Bid.Count) + 1
}

func (s *GameState) allPlaced() bool {
	for _, p := range s.Players {
		if !p.Eliminated() && len(p.Pile) == 0 {
			return false
		}
	}
	return true
}

func (s *GameState) unpassed() int {
	n := 0
	for _, p := range s.Players {
		if !p.Eliminated() && !p.Passed {
			n++
		}
	}
	return n
}

func (s *GameState) roundInProgress() bool {
	return s.Round > 0 && s.Stage != StageDone
}

func (s *GameState) acceptsJoins() bool {
	if s.Champion != "" || s.roundInProgress() {
		return false
	}
	return s.Rules.MaxPlayers <= 0 || len(s.Players) < s.Rules.MaxPlayers
}

// nextTurn walks the join order from the given player, wrapping around, and
// returns the first player still in the round. Passed players are skipped
// when skipPassed is set.
func (s *GameState) nextTurn(from string, skipPassed bool) string {
	start := s.playerIndex(from)
	n := len(s.Players)
	for step := 1; step <= n; step++ {
		p := s.Players[(start+step+n)%n]
		if p.Eliminated() || (skipPassed && p.Passed) {
			continue
		}
		return p.ID
	}
	return from
}

func cardsAfterDiscard(p *Player) int {
	if p.PendingDiscard && len(p.Cards) > 0 {
		return len(p.Cards) - 1
	}
	return len(p.Cards)
}

func (s *GameState) activeAfterDiscards() int {
	n := 0
	for _, p := range s.Players {
		if cardsAfterDiscard(p) > 0 {
			n++
		}
	}
	return n
}

// survivorAfterDiscards returns the only player left with cards once all
// pending discards are applied, or "" when more than one remains.
func (s *GameState) survivorAfterDiscards() string {
	survivor := ""
	for _, p := range s.Players {
		if cardsAfterDiscard(p) == 0 {
			continue
		}
		if survivor != "" {
			return ""
		}
		survivor = p.ID
	}
	return survivor
}

// Clone returns a deep copy of the state.
func (s *GameState) Clone() *GameState {
	out := *s
	out.Players = make([]*Player, len(s.Players))
	for i, p := range s.Players {
		cp := *p
		cp.Cards = cloneCards(p.Cards)
		cp.Hand = cloneCards(p.Hand)
		cp.Pile = cloneCards(p.Pile)
		cp.RevealedPile = cloneCards(p.RevealedPile)
		out.Players[i] = &cp
	}
	if s.Bid != nil {
		bid := *s.Bid
		out.Bid = &bid
	}
	return &out
}
