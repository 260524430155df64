package balance

import (
	"fmt"
	"math"

	"github.com/arenasim/arena-cards/internal/ability"
	"github.com/arenasim/arena-cards/internal/constants"
	"github.com/arenasim/arena-cards/internal/game"
)

// roundStat rounds to the nearest stat step with the stat floor applied.
func roundStat(v float64) int {
	step := float64(constants.StatRoundingStep)
	r := int(math.Round(v/step)) * constants.StatRoundingStep
	if r < constants.StatFloor {
		r = constants.StatFloor
	}
	return r
}

// normalizeCard scales a card's stat line down to the cost power cap
// (attack + defense <= cost * 200). Rounding can leave the sum slightly over
// the cap, so scaling repeats until it reaches a fixpoint; the floor
// guarantees one exists. Normalization is idempotent.
func normalizeCard(c game.Card) (game.Card, bool) {
	cap := c.Cost * constants.StatCapPerCost
	changed := false
	for i := 0; i < 8 && c.Attack+c.Defense > cap; i++ {
		scale := float64(cap) / float64(c.Attack+c.Defense)
		atk := roundStat(float64(c.Attack) * scale)
		def := roundStat(float64(c.Defense) * scale)
		if atk == c.Attack && def == c.Defense {
			break
		}
		c.Attack, c.Defense = atk, def
		changed = true
	}
	return c, changed
}

// normalizeTable applies the cost power cap to every card in place and
// returns the adjustments made.
func normalizeTable(cards []game.Card, reason string) []Adjustment {
	var adjustments []Adjustment
	for i, c := range cards {
		norm, changed := normalizeCard(c)
		if !changed {
			continue
		}
		if norm.Attack != c.Attack {
			adjustments = append(adjustments, Adjustment{
				Key: c.Key(), Field: "attack", From: c.Attack, To: norm.Attack, Reason: reason,
			})
		}
		if norm.Defense != c.Defense {
			adjustments = append(adjustments, Adjustment{
				Key: c.Key(), Field: "defense", From: c.Defense, To: norm.Defense, Reason: reason,
			})
		}
		cards[i] = norm
	}
	return adjustments
}

// costShares returns each cost bucket's share of the table.
func costShares(cards []game.Card) map[int]float64 {
	shares := make(map[int]float64)
	if len(cards) == 0 {
		return shares
	}
	for _, c := range cards {
		shares[c.Cost]++
	}
	for cost := range shares {
		shares[cost] /= float64(len(cards))
	}
	return shares
}

// costChangeAllowed reports whether moving one card from cost `from` to
// `to` keeps every bucket's share within the tolerance of the original
// table's distribution.
func costChangeAllowed(working []game.Card, original map[int]float64, from, to int) bool {
	counts := make(map[int]float64)
	for _, c := range working {
		counts[c.Cost]++
	}
	counts[from]--
	counts[to]++
	n := float64(len(working))
	for cost := constants.MinCost; cost <= constants.MaxCost; cost++ {
		if math.Abs(counts[cost]/n-original[cost]) > constants.CostDistributionTolerance {
			return false
		}
	}
	return true
}

// tuner holds the state for one adjustment pass.
type tuner struct {
	registry       *ability.Registry
	originalShares map[int]float64
	target         float64
	tolerance      float64
}

// adjust runs the full per-iteration adjustment pass over the working table:
// normalize, tune each significantly-played card, re-normalize. The table is
// mutated in place; the returned adjustments feed the report.
func (t *tuner) adjust(working []game.Card, stats map[string]*CardStats) []Adjustment {
	adjustments := normalizeTable(working, "stat line exceeded cost power cap")

	for i := range working {
		cs, ok := stats[working[i].Key()]
		if !ok || cs.Plays < constants.MinPlaysForSignificance {
			continue
		}
		adjustments = append(adjustments, t.tuneCard(working, i, cs)...)
	}

	adjustments = append(adjustments, normalizeTable(working, "re-applied cost power cap after tuning")...)
	return adjustments
}

// tuneCard nudges one card toward the target win rate. Strong ultimates
// raise the expected win rate and shrink the stat delta, so stat-light
// ultimate carriers are not flattened by the tuner.
func (t *tuner) tuneCard(working []game.Card, i int, cs *CardStats) []Adjustment {
	c := working[i]
	power := 0.0
	if u, ok := t.registry.Ultimate(c.Name, c.Variant); ok {
		power = ultimatePower(u)
	}
	expected := t.target * (1 + constants.UltimatePowerFactor*power)
	deviation := cs.WinRate() - expected
	if math.Abs(deviation) <= t.tolerance {
		return nil
	}

	factor := 1 - 0.5*power
	delta := statDelta(deviation, t.tolerance, factor)

	if deviation > 0 {
		if c.Cost < constants.TuningCostCeiling && costChangeAllowed(working, t.originalShares, c.Cost, c.Cost+1) {
			working[i].Cost = c.Cost + 1
			return []Adjustment{{
				Key: c.Key(), Field: "cost", From: c.Cost, To: c.Cost + 1,
				Reason: fmt.Sprintf("win rate %.2f above expected %.2f, raising cost", cs.WinRate(), expected),
			}}
		}
		return t.shiftStats(working, i, -delta,
			fmt.Sprintf("win rate %.2f above expected %.2f, reducing stats", cs.WinRate(), expected))
	}

	if c.Cost > constants.MinCost && costChangeAllowed(working, t.originalShares, c.Cost, c.Cost-1) {
		working[i].Cost = c.Cost - 1
		return []Adjustment{{
			Key: c.Key(), Field: "cost", From: c.Cost, To: c.Cost - 1,
			Reason: fmt.Sprintf("win rate %.2f below expected %.2f, lowering cost", cs.WinRate(), expected),
		}}
	}
	return t.shiftStats(working, i, delta,
		fmt.Sprintf("win rate %.2f below expected %.2f, raising stats", cs.WinRate(), expected))
}

// statDelta converts a win-rate deviation into a stat step: up to 100 points
// at twice the tolerance, scaled down by the ultimate dampening factor and
// snapped to the rounding step.
func statDelta(deviation, tolerance, factor float64) int {
	severity := math.Abs(deviation) / (2 * tolerance)
	if severity > 1 {
		severity = 1
	}
	raw := 100 * severity * factor
	step := float64(constants.StatRoundingStep)
	d := int(math.Round(raw/step)) * constants.StatRoundingStep
	if d < constants.StatRoundingStep {
		d = constants.StatRoundingStep
	}
	return d
}

func (t *tuner) shiftStats(working []game.Card, i, delta int, reason string) []Adjustment {
	c := working[i]
	atk := c.Attack + delta
	def := c.Defense + delta
	if atk < constants.StatFloor {
		atk = constants.StatFloor
	}
	if def < constants.StatFloor {
		def = constants.StatFloor
	}
	var adjustments []Adjustment
	if atk != c.Attack {
		adjustments = append(adjustments, Adjustment{Key: c.Key(), Field: "attack", From: c.Attack, To: atk, Reason: reason})
		working[i].Attack = atk
	}
	if def != c.Defense {
		adjustments = append(adjustments, Adjustment{Key: c.Key(), Field: "defense", From: c.Defense, To: def, Reason: reason})
		working[i].Defense = def
	}
	return adjustments
}
