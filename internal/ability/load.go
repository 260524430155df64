package ability

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/arenasim/arena-cards/internal/logging"
)

// knownEffects is the set of ultimate effect keys the engine resolves.
// Unknown keys load fine but only contribute to the generic power score;
// a warning is logged so content authors notice typos.
var knownEffects = map[string]bool{
	"aoe_damage":     true,
	"flat_damage":    true,
	"heal_self":      true,
	"stun":           true,
	"ignore_defense": true,
	"summon":         true,
}

type ultimateDoc struct {
	VariantContains  string             `yaml:"variant_contains"`
	Name             string             `yaml:"name"`
	DamageMultiplier float64            `yaml:"damage_multiplier"`
	Effects          map[string]float64 `yaml:"effects"`
}

type cardContent struct {
	Abilities []Rule        `yaml:"abilities"`
	Ultimates []ultimateDoc `yaml:"ultimates"`
}

type contentFile struct {
	Cards map[string]cardContent `yaml:"cards"`
}

// LoadContent parses ability content from YAML and returns a populated
// registry. Content errors are fatal at load time so battles never see
// half-valid rules.
func LoadContent(data []byte) (*Registry, error) {
	var doc contentFile
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parse ability content: %w", err)
	}
	reg := NewRegistry()
	for name, cc := range doc.Cards {
		if name == "" {
			return nil, fmt.Errorf("ability content: empty card name")
		}
		for i, rule := range cc.Abilities {
			if rule.Modifiers.DamageReduction < 0 || rule.Modifiers.DamageReduction > 1 {
				return nil, fmt.Errorf("ability content: %s rule %d: damage_reduction %.2f out of [0,1]", name, i, rule.Modifiers.DamageReduction)
			}
			if rule.Match.DiceAtLeast < 0 || rule.Match.DiceAtLeast > 6 {
				return nil, fmt.Errorf("ability content: %s rule %d: dice_at_least %d out of [0,6]", name, i, rule.Match.DiceAtLeast)
			}
		}
		reg.abilities[name] = cc.Abilities
		for i, u := range cc.Ultimates {
			if u.Name == "" {
				return nil, fmt.Errorf("ability content: %s ultimate %d: missing name", name, i)
			}
			if u.DamageMultiplier < 0 {
				return nil, fmt.Errorf("ability content: %s ultimate %q: negative damage_multiplier", name, u.Name)
			}
			for key, val := range u.Effects {
				if val < 0 {
					return nil, fmt.Errorf("ability content: %s ultimate %q: effect %s is negative", name, u.Name, key)
				}
				if !knownEffects[key] {
					logging.Warn("unknown ultimate effect key", logging.Fields{
						"card":   name,
						"effect": key,
					})
				}
			}
			reg.ultimates[name] = append(reg.ultimates[name], ultimateRule{
				VariantContains: u.VariantContains,
				Ultimate: Ultimate{
					Name:             u.Name,
					DamageMultiplier: u.DamageMultiplier,
					Effects:          u.Effects,
				},
			})
		}
	}
	return reg, nil
}

// LoadContentFile reads and parses an ability content file.
func LoadContentFile(path string) (*Registry, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read ability content %s: %w", path, err)
	}
	return LoadContent(data)
}
