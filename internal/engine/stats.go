// Package engine runs a single battle between two players: the per-turn
// state machine, combat resolution against the ability registry, and
// statistics collection consumed by the balance tuner.
package engine

// AbilityUsage tracks how often a card's ultimates fired during a battle.
type AbilityUsage struct {
	TimesUsed     int            `json:"times_used"`
	AbilitiesUsed map[string]int `json:"abilities_used"`
}

// Stats accumulates per-battle damage and usage figures, keyed by card key
// ("Name (Variant)"). Damage is recorded as actual (post-clamp) amounts.
type Stats struct {
	DirectDamage   map[string]int           `json:"direct_damage"`
	UltimateDamage map[string]int           `json:"ultimate_damage"`
	EffectDamage   map[string]int           `json:"effect_damage"`
	TotalDamage    int                      `json:"total_damage"`
	AbilityUsage   map[string]*AbilityUsage `json:"ability_usage"`
	CardPlays      map[string]int           `json:"card_plays"`
	Kills          map[string]int           `json:"kills"`

	// PlayedBy records which card keys each side fielded at any point in
	// the battle, so win/play attribution survives character death.
	PlayedBy [2]map[string]bool `json:"played_by"`
}

func NewStats() *Stats {
	return &Stats{
		DirectDamage:   make(map[string]int),
		UltimateDamage: make(map[string]int),
		EffectDamage:   make(map[string]int),
		AbilityUsage:   make(map[string]*AbilityUsage),
		CardPlays:      make(map[string]int),
		Kills:          make(map[string]int),
		PlayedBy:       [2]map[string]bool{make(map[string]bool), make(map[string]bool)},
	}
}

func (s *Stats) recordPlay(side int, key string) {
	s.CardPlays[key]++
	s.PlayedBy[side][key] = true
}

func (s *Stats) recordUltimate(key, ultimateName string) {
	u, ok := s.AbilityUsage[key]
	if !ok {
		u = &AbilityUsage{AbilitiesUsed: make(map[string]int)}
		s.AbilityUsage[key] = u
	}
	u.TimesUsed++
	u.AbilitiesUsed[ultimateName]++
}

// CardDamage returns the combined damage a card dealt across all buckets.
func (s *Stats) CardDamage(key string) int {
	return s.DirectDamage[key] + s.UltimateDamage[key] + s.EffectDamage[key]
}

// Result is the outcome of one completed battle. Winner is the player index
// (0 or 1); a battle always has a winner.
type Result struct {
	Winner int      `json:"winner"`
	Turns  int      `json:"turns"`
	Stats  *Stats   `json:"stats"`
	Log    []string `json:"log,omitempty"`
}
