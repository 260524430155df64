package ability

import "strings"

// Ultimate describes a card's ultimate move as resolved by the engine:
// a damage multiplier over the attacker's current attack plus a bag of
// named numeric effects (aoe_damage, flat_damage, heal_self, stun,
// ignore_defense, summon, ...).
type Ultimate struct {
	Name             string             `yaml:"name"`
	DamageMultiplier float64            `yaml:"damage_multiplier"`
	Effects          map[string]float64 `yaml:"effects"`
}

// ultimateRule binds an ultimate to a variant substring. An empty substring
// is the default rule for the card name, matched last.
type ultimateRule struct {
	VariantContains string
	Ultimate        Ultimate
}

// Ultimate returns the ultimate move for a card identity, if any. Variant
// substring rules are checked in content order before the default rule.
func (r *Registry) Ultimate(name, variant string) (Ultimate, bool) {
	rules, ok := r.ultimates[name]
	if !ok {
		return Ultimate{}, false
	}
	var def *Ultimate
	for i := range rules {
		if rules[i].VariantContains == "" {
			if def == nil {
				def = &rules[i].Ultimate
			}
			continue
		}
		if strings.Contains(variant, rules[i].VariantContains) {
			return rules[i].Ultimate, true
		}
	}
	if def != nil {
		return *def, true
	}
	return Ultimate{}, false
}
