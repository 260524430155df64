package game

import "github.com/arenasim/arena-cards/internal/constants"

// Character is one card copy participating in a battle. Base stats come from
// the card definition; CurrentAttack/CurrentDefense may be modified
// transiently by abilities, CurrentHealth tracks damage taken. Defense
// doubles as the health pool: a fresh character has CurrentHealth == Defense.
type Character struct {
	Card Card

	CurrentHealth  int
	MaxHealth      int
	CurrentAttack  int
	CurrentDefense int
	Energy         int
}

// NewCharacter creates a battle-ready instance of a card.
func NewCharacter(c Card) *Character {
	return &Character{
		Card:           c,
		CurrentHealth:  c.Defense,
		MaxHealth:      c.Defense,
		CurrentAttack:  c.Attack,
		CurrentDefense: c.Defense,
		Energy:         0,
	}
}

func (ch *Character) Name() string    { return ch.Card.Name }
func (ch *Character) Variant() string { return ch.Card.Variant }
func (ch *Character) Key() string     { return ch.Card.Key() }

// IsAlive reports whether the character still has health remaining.
func (ch *Character) IsAlive() bool { return ch.CurrentHealth > 0 }

// TakeDamage applies damage, clamping health at 0, and returns the actual
// damage dealt (the pre-clamp delta).
func (ch *Character) TakeDamage(amount int) int {
	if amount <= 0 {
		return 0
	}
	actual := amount
	if actual > ch.CurrentHealth {
		actual = ch.CurrentHealth
	}
	ch.CurrentHealth -= actual
	return actual
}

// AddEnergy grants one energy point, capped at the energy maximum. Attacking
// grants energy independently of the turn-level energy phase.
func (ch *Character) AddEnergy() {
	if ch.Energy < constants.MaxEnergy {
		ch.Energy++
	}
}

// RegenerateHealth restores the character to full health. End-phase
// regeneration in this rule set is unconditional and complete.
func (ch *Character) RegenerateHealth() {
	if ch.IsAlive() {
		ch.CurrentHealth = ch.MaxHealth
	}
}

// ResetCombatStats reverts transient ability modifications to base stats.
// Called at the start of each combat sub-phase before the resolver runs.
func (ch *Character) ResetCombatStats() {
	ch.CurrentAttack = ch.Card.Attack
	ch.CurrentDefense = ch.Card.Defense
}
