package game

import (
	"fmt"

	"github.com/arenasim/arena-cards/internal/constants"
	"github.com/arenasim/arena-cards/internal/keys"
)

// Card is an immutable card definition from the pool. Identity is the
// (Name, Variant) pair; battle code never mutates a Card, the balance tuner
// mutates its own working copies only.
type Card struct {
	Name         string `json:"name"`
	Variant      string `json:"variant"`
	Cost         int    `json:"cost"`
	Attack       int    `json:"atk"`
	Defense      int    `json:"def"`
	Effect       string `json:"effect"`
	UltimateMove string `json:"ultimate_move"`
	UltimateCost int    `json:"ultimate_cost"`
}

// Key returns the display identity key ("Name (Variant)").
func (c Card) Key() string { return keys.CardKey(c.Name, c.Variant) }

// Validate checks the hard data contract for a pool entry. Violations are
// load-time failures; soft issues (ultimate cost out of range) are fixed up
// by Normalize instead.
func (c Card) Validate() error {
	if c.Name == "" {
		return fmt.Errorf("card missing name")
	}
	if c.Cost < constants.MinCost || c.Cost > constants.MaxCost {
		return fmt.Errorf("card %s: cost %d out of range [%d,%d]", c.Key(), c.Cost, constants.MinCost, constants.MaxCost)
	}
	if c.Attack < 0 || c.Defense < 0 {
		return fmt.Errorf("card %s: negative stats", c.Key())
	}
	return nil
}

// Normalize fills defaults the pool contract allows to be sloppy about:
// empty variants become "Standard" and ultimate costs outside [1,4] fall
// back to 1.
func (c Card) Normalize() Card {
	if c.Variant == "" {
		c.Variant = "Standard"
	}
	if c.UltimateCost < constants.MinUltimateCost || c.UltimateCost > constants.MaxUltimateCost {
		c.UltimateCost = constants.MinUltimateCost
	}
	return c
}

// CloneCards copies a card table so callers can mutate the copy freely.
func CloneCards(cards []Card) []Card {
	out := make([]Card, len(cards))
	copy(out, cards)
	return out
}
