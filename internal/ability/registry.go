// Package ability implements the data-driven ability resolver and ultimate
// lookup consumed by the battle engine. Content is supplied externally as
// declarative records keyed by card name, with substring matching on variant
// and effect text; the engine itself never special-cases card identities.
package ability

import (
	"fmt"
	"strings"

	"github.com/arenasim/arena-cards/internal/game"
)

// Match selects which characters a rule applies to. All specified criteria
// must hold. The rule's owning entry already fixes the card name.
type Match struct {
	VariantContains string `yaml:"variant_contains"`
	EffectContains  string `yaml:"effect_contains"`
	SoloOnly        bool   `yaml:"solo_only"`
	DiceAtLeast     int    `yaml:"dice_at_least"`
	WhenAttacked    bool   `yaml:"when_attacked"`
	WhenDidAttack   bool   `yaml:"when_did_attack"`
}

// Modifiers is the fixed, exhaustively enumerated set of changes a rule may
// apply: transient stat bonuses on the matched character and named flags on
// the shared battle state. Anything else goes through Extensions.
type Modifiers struct {
	AttackBonus  int `yaml:"attack_bonus"`
	DefenseBonus int `yaml:"defense_bonus"`

	DamageReduction     float64 `yaml:"damage_reduction"`
	IgnoreDefense       bool    `yaml:"ignore_defense"`
	CanComboAttack      bool    `yaml:"can_combo_attack"`
	EnergyCostReduction bool    `yaml:"energy_cost_reduction"`
	JackpotMode         bool    `yaml:"jackpot_mode"`
	Adaptation          bool    `yaml:"adaptation"`

	Extensions map[string]float64 `yaml:"extensions"`
}

// Rule couples a match with the modifiers it applies.
type Rule struct {
	Match     Match     `yaml:"match"`
	Modifiers Modifiers `yaml:"modifiers"`
}

// Registry is the read-only ability table injected at startup.
type Registry struct {
	abilities map[string][]Rule
	ultimates map[string][]ultimateRule
}

// NewRegistry returns an empty registry. Battles run fine without content;
// every card simply has no passive ability and no ultimate.
func NewRegistry() *Registry {
	return &Registry{
		abilities: make(map[string][]Rule),
		ultimates: make(map[string][]ultimateRule),
	}
}

func (m Match) applies(ch *game.Character, flags *Flags) bool {
	if m.VariantContains != "" && !strings.Contains(ch.Variant(), m.VariantContains) {
		return false
	}
	if m.EffectContains != "" && !strings.Contains(ch.Card.Effect, m.EffectContains) {
		return false
	}
	if m.SoloOnly && !flags.SoloCreature {
		return false
	}
	if m.DiceAtLeast > 0 && flags.DiceRoll < m.DiceAtLeast {
		return false
	}
	if m.WhenAttacked && !flags.WasAttacked {
		return false
	}
	if m.WhenDidAttack && !flags.DidAttack {
		return false
	}
	return true
}

// Apply resolves the passive ability rules for one character. Side effects
// are confined to the character's transient stats and the shared flag set.
// It returns an error only for malformed content that slipped past load
// validation; callers treat that as a no-op for the character.
func (r *Registry) Apply(ch *game.Character, flags *Flags) error {
	rules, ok := r.abilities[ch.Name()]
	if !ok {
		return nil
	}
	for _, rule := range rules {
		if !rule.Match.applies(ch, flags) {
			continue
		}
		mods := rule.Modifiers
		if mods.DamageReduction < 0 || mods.DamageReduction > 1 {
			return fmt.Errorf("ability rule for %s: damage_reduction %.2f out of [0,1]", ch.Name(), mods.DamageReduction)
		}
		ch.CurrentAttack += mods.AttackBonus
		ch.CurrentDefense += mods.DefenseBonus
		if mods.DamageReduction > flags.DamageReduction {
			flags.DamageReduction = mods.DamageReduction
		}
		if mods.IgnoreDefense {
			flags.IgnoreDefense = true
		}
		if mods.CanComboAttack {
			flags.CanComboAttack = true
		}
		if mods.EnergyCostReduction {
			flags.EnergyCostReduction = true
		}
		if mods.JackpotMode {
			flags.JackpotMode = true
		}
		if mods.Adaptation {
			flags.Adaptation = true
		}
		for k, v := range mods.Extensions {
			flags.Extensions[k] += v
		}
	}
	return nil
}

// HasAbility reports whether any rule exists for the card name.
func (r *Registry) HasAbility(name string) bool {
	return len(r.abilities[name]) > 0
}
