package ability

import "math/rand"

// Flags is the shared per-battle game-state flag set consumed and produced
// by ability rules. One instance lives on each battle; resolvers may only
// mutate the character passed to them and this flag set, never other
// characters.
type Flags struct {
	// Reset at the start of every combat phase and recomputed from the
	// current field state and ability rules.
	DamageReduction     float64
	IgnoreDefense       bool
	CanComboAttack      bool
	EnergyCostReduction bool
	SoloCreature        bool
	DiceRoll            int

	// Persistent for the rest of the battle once set.
	JackpotMode bool
	Adaptation  bool
	WasAttacked bool
	DidAttack   bool

	// Extensions holds rarer one-off numeric effects that do not warrant a
	// dedicated field. Keys are validated at content load time.
	Extensions map[string]float64
}

func NewFlags() *Flags {
	return &Flags{Extensions: make(map[string]float64)}
}

// BeginCombatPhase clears the per-phase modifiers, rolls the dice and
// records whether the active player fields a lone creature. Persistent
// flags (jackpot, adaptation, attack history) survive.
func (f *Flags) BeginCombatPhase(rng *rand.Rand, soloCreature bool) {
	f.DamageReduction = 0
	f.IgnoreDefense = false
	f.CanComboAttack = false
	f.EnergyCostReduction = false
	f.SoloCreature = soloCreature
	f.DiceRoll = rng.Intn(6) + 1
	for k := range f.Extensions {
		delete(f.Extensions, k)
	}
}
