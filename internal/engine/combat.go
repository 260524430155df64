package engine

import (
	"fmt"

	"github.com/arenasim/arena-cards/internal/constants"
	"github.com/arenasim/arena-cards/internal/game"
	"github.com/arenasim/arena-cards/internal/logging"
)

const (
	effectFlatDamage = "flat_damage"
	effectAoEDamage  = "aoe_damage"
	effectHealSelf   = "heal_self"
)

// combatAction resolves one attacking character's combat sub-phase: ability
// resolution for the attacker and the living defenders, then either an
// ultimate or a basic attack. Errors from malformed ability data downgrade
// the character's action to a no-op.
func (b *Battle) combatAction(side int, attacker *game.Character) {
	active, defender := b.players[side], b.players[1-side]

	b.flags.BeginCombatPhase(b.rng, len(active.LivingField()) == 1)

	if err := b.registry.Apply(attacker, b.flags); err != nil {
		logging.Error("ability resolution failed; skipping character action", err,
			logging.Fields{constants.LogFieldCard: attacker.Key()})
		return
	}
	living := defender.LivingField()
	for _, d := range living {
		if err := b.registry.Apply(d, b.flags); err != nil {
			logging.Error("defender ability resolution failed", err,
				logging.Fields{constants.LogFieldCard: d.Key()})
		}
	}

	if !b.tryUltimate(attacker, living) {
		b.basicAttack(attacker, defender, living)
		attacker.AddEnergy()
	}
	b.flags.DidAttack = true

	attacker.ResetCombatStats()
	for _, d := range living {
		d.ResetCombatStats()
	}
}

// tryUltimate fires the attacker's ultimate when one exists, the defender
// fields at least one living character and energy covers the cost. Eligible
// ultimates always activate. It reports whether an ultimate fired.
func (b *Battle) tryUltimate(attacker *game.Character, living []*game.Character) bool {
	ult, ok := b.registry.Ultimate(attacker.Name(), attacker.Variant())
	if !ok || len(living) == 0 {
		return false
	}
	cost := attacker.Card.UltimateCost
	if b.flags.EnergyCostReduction && cost > constants.MinUltimateCost {
		cost--
	}
	if attacker.Energy < cost {
		return false
	}
	attacker.Energy -= cost

	key := attacker.Key()
	target := highestHealth(living)
	damage := int(float64(attacker.CurrentAttack)*ult.DamageMultiplier + ult.Effects[effectFlatDamage])
	actual := target.TakeDamage(damage)
	b.stats.UltimateDamage[key] += actual
	b.stats.TotalDamage += actual
	b.stats.recordUltimate(key, ult.Name)
	b.flags.WasAttacked = true
	if !target.IsAlive() {
		b.stats.Kills[key]++
	}
	b.logf("%s fires %s at %s for %d", key, ult.Name, target.Key(), actual)

	if aoe := int(ult.Effects[effectAoEDamage]); aoe > 0 {
		for _, d := range living {
			if d == target || !d.IsAlive() {
				continue
			}
			spill := d.TakeDamage(aoe)
			b.stats.EffectDamage[key] += spill
			b.stats.TotalDamage += spill
			if !d.IsAlive() {
				b.stats.Kills[key]++
			}
		}
	}
	if heal := int(ult.Effects[effectHealSelf]); heal > 0 && attacker.IsAlive() {
		attacker.CurrentHealth += heal
		if attacker.CurrentHealth > attacker.MaxHealth {
			attacker.CurrentHealth = attacker.MaxHealth
		}
	}
	return true
}

// basicAttack hits the highest-attack living defender, or the defending
// player's life points when the field is empty.
func (b *Battle) basicAttack(attacker *game.Character, defender *game.Player, living []*game.Character) {
	key := attacker.Key()
	damage := attacker.CurrentAttack
	if b.flags.CanComboAttack {
		damage = damage * 3 / 2
	}
	if b.flags.DamageReduction > 0 && !b.flags.IgnoreDefense {
		damage = int(float64(damage) * (1 - b.flags.DamageReduction))
	}

	if len(living) == 0 {
		before := defender.LifePoints
		defender.TakeDamage(damage)
		actual := before - defender.LifePoints
		b.stats.DirectDamage[key] += actual
		b.stats.TotalDamage += actual
		b.logf("%s attacks %s directly for %d", key, defender.Name, actual)
		return
	}

	target := highestAttack(living)
	actual := target.TakeDamage(damage)
	b.stats.DirectDamage[key] += actual
	b.stats.TotalDamage += actual
	b.flags.WasAttacked = true
	if !target.IsAlive() {
		b.stats.Kills[key]++
	}
	b.logf("%s attacks %s for %d", key, target.Key(), actual)
}

// highestHealth returns the character with the highest current health,
// preferring the first encountered on ties.
func highestHealth(chars []*game.Character) *game.Character {
	best := chars[0]
	for _, ch := range chars[1:] {
		if ch.CurrentHealth > best.CurrentHealth {
			best = ch
		}
	}
	return best
}

// highestAttack returns the character with the highest current attack,
// preferring the first encountered on ties.
func highestAttack(chars []*game.Character) *game.Character {
	best := chars[0]
	for _, ch := range chars[1:] {
		if ch.CurrentAttack > best.CurrentAttack {
			best = ch
		}
	}
	return best
}

func (b *Battle) logf(format string, args ...interface{}) {
	if !b.captureLog {
		return
	}
	b.log = append(b.log, fmt.Sprintf(format, args...))
}
