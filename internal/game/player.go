package game

import "github.com/arenasim/arena-cards/internal/constants"

// Player holds one side's battle resources: deck, hand, field, life points
// and energy. A Player lives for exactly one battle. Characters are owned by
// exactly one of hand, field or graveyard at any time.
type Player struct {
	Name       string
	Deck       *Deck
	Hand       []*Character
	Field      []*Character
	LifePoints int
	Energy     int
}

// NewPlayer creates a player with the standard starting resources and draws
// the initial hand.
func NewPlayer(name string, deck *Deck) *Player {
	p := &Player{
		Name:       name,
		Deck:       deck,
		LifePoints: constants.StartingLifePoints,
		Energy:     constants.StartingEnergy,
	}
	p.DrawCards(constants.InitialHandSize)
	return p
}

// IsAlive reports whether the player has life points remaining.
func (p *Player) IsAlive() bool { return p.LifePoints > 0 }

// DrawCards moves up to count cards from the deck into the hand.
func (p *Player) DrawCards(count int) []*Character {
	drawn := p.Deck.Draw(count)
	p.Hand = append(p.Hand, drawn...)
	return drawn
}

// CanPlayCard checks play legality without mutating anything.
func (p *Player) CanPlayCard(ch *Character) bool {
	return ch.Card.Cost <= p.Energy && len(p.Field) < constants.MaxFieldSize
}

// PlayCard moves a character from hand to field and debits its cost.
// It fails (returning false) when the character is not in hand, energy is
// insufficient or the field is full.
func (p *Player) PlayCard(ch *Character) bool {
	idx := -1
	for i, h := range p.Hand {
		if h == ch {
			idx = i
			break
		}
	}
	if idx < 0 || !p.CanPlayCard(ch) {
		return false
	}
	p.Hand = append(p.Hand[:idx], p.Hand[idx+1:]...)
	p.Field = append(p.Field, ch)
	p.Energy -= ch.Card.Cost
	return true
}

// TakeDamage reduces life points, clamping at zero.
func (p *Player) TakeDamage(amount int) {
	if amount <= 0 {
		return
	}
	p.LifePoints -= amount
	if p.LifePoints < 0 {
		p.LifePoints = 0
	}
}

// AddEnergy grants energy, capped at the maximum.
func (p *Player) AddEnergy(amount int) {
	p.Energy += amount
	if p.Energy > constants.MaxEnergy {
		p.Energy = constants.MaxEnergy
	}
}

// RemoveDefeated moves dead field characters to the graveyard and returns
// how many were removed.
func (p *Player) RemoveDefeated() int {
	alive := p.Field[:0]
	removed := 0
	for _, ch := range p.Field {
		if ch.IsAlive() {
			alive = append(alive, ch)
		} else {
			p.Deck.SendToGraveyard(ch)
			removed++
		}
	}
	p.Field = alive
	return removed
}

// LivingField returns the field characters that are still alive, in field
// order.
func (p *Player) LivingField() []*Character {
	out := make([]*Character, 0, len(p.Field))
	for _, ch := range p.Field {
		if ch.IsAlive() {
			out = append(out, ch)
		}
	}
	return out
}
