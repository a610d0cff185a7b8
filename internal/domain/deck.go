package domain

import "strings"

// Card is a single face-down token in a player's loadout.
type Card string

const (
	// Flower is the safe card; revealing it counts toward the bid.
	Flower Card = "flower"
	// Skull ends the round for whoever turns it over.
	Skull Card = "skull"
)

// String implements fmt.Stringer.
func (c Card) String() string {
	return string(c)
}

// Valid reports whether c is one of the two card variants.
func (c Card) Valid() bool {
	return c == Flower || c == Skull
}

// ParseCard converts a client supplied name into a Card.
func ParseCard(name string) (Card, error) {
	c := Card(strings.ToLower(strings.TrimSpace(name)))
	if !c.Valid() {
		return "", ErrUnknownCard
	}
	return c, nil
}

// NewLoadout builds a round template with the given card counts, flowers first.
func NewLoadout(flowers, skulls int) []Card {
	loadout := make([]Card, 0, flowers+skulls)
	for i := 0; i < flowers; i++ {
		loadout = append(loadout, Flower)
	}
	for i := 0; i < skulls; i++ {
		loadout = append(loadout, Skull)
	}
	return loadout
}

// StandardLoadout is three flowers and one skull.
func StandardLoadout() []Card {
	return NewLoadout(3, 1)
}
