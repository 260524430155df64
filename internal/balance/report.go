// Package balance implements the auto-tuning loop: it runs batches of
// battles over a working card table, scores the table's balance, and nudges
// card costs and stats toward a target win rate. The original input table is
// never mutated; every write lands on the working copy.
package balance

import "github.com/arenasim/arena-cards/internal/game"

// CardStats is the per-card aggregate folded from all battles in one
// iteration. Battles counts battles the card appeared in on either side.
type CardStats struct {
	Wins        int `json:"wins"`
	Plays       int `json:"plays"`
	TotalDamage int `json:"total_damage"`
	Battles     int `json:"battles"`
}

// WinRate is wins over battles appeared in. Zero battles yields zero.
func (cs *CardStats) WinRate() float64 {
	if cs.Battles == 0 {
		return 0
	}
	return float64(cs.Wins) / float64(cs.Battles)
}

// UltimateUsage aggregates ultimate activity for one card across an
// iteration's battles.
type UltimateUsage struct {
	TotalUses       int     `json:"total_uses"`
	GamesUsed       int     `json:"games_used"`
	TotalDamage     int     `json:"total_damage"`
	AvgDamagePerUse float64 `json:"avg_damage_per_use"`
	UsageRate       float64 `json:"usage_rate"`
}

// CardScore is the per-card balance score breakdown. Cards below the play
// significance threshold are excluded from scoring entirely.
type CardScore struct {
	Key            string  `json:"key"`
	WinRate        float64 `json:"win_rate"`
	Plays          int     `json:"plays"`
	WinRateScore   float64 `json:"win_rate_score"`
	DamageScore    float64 `json:"damage_score"`
	PlayRateScore  float64 `json:"play_rate_score"`
	CostEfficiency float64 `json:"cost_efficiency"`
	Total          float64 `json:"total"`
}

// Adjustment records one change the tuner made to the working table,
// with a human-readable reason for the report.
type Adjustment struct {
	Key    string `json:"key"`
	Field  string `json:"field"`
	From   int    `json:"from"`
	To     int    `json:"to"`
	Reason string `json:"reason"`
}

// Report is the statistics snapshot emitted after each iteration. The core
// emits the struct; rendering is a consumer concern.
type Report struct {
	Iteration     int                       `json:"iteration"`
	Battles       int                       `json:"battles"`
	Score         float64                   `json:"score"`
	CardScores    []CardScore               `json:"card_scores"`
	UltimateUsage map[string]*UltimateUsage `json:"ultimate_usage"`
	Adjustments   []Adjustment              `json:"adjustments"`
}

// Snapshot captures the working table at its best observed score.
type Snapshot struct {
	Iteration int         `json:"iteration"`
	Score     float64     `json:"score"`
	Cards     []game.Card `json:"cards"`
}
