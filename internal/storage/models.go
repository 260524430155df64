package storage

import (
	"gorm.io/gorm"

	"github.com/arenasim/arena-cards/internal/game"
	"github.com/arenasim/arena-cards/internal/keys"
)

// WorkingCard is the persisted row form of one working-table card. The
// schema mirrors the pool input contract so a saved table can be fed back in
// as a pool. CanonicalKey is the stable lookup key ("name__variant").
type WorkingCard struct {
	gorm.Model
	CanonicalKey string `gorm:"uniqueIndex" json:"canonical_key"`
	Name         string `json:"name"`
	Variant      string `json:"variant"`
	Cost         int    `json:"cost"`
	Attack       int    `json:"atk"`
	Defense      int    `json:"def"`
	Effect       string `json:"effect"`
	UltimateMove string `json:"ultimate_move"`
	UltimateCost int    `json:"ultimate_cost"`
}

// Card converts the row back into the domain card.
func (w WorkingCard) Card() game.Card {
	return game.Card{
		Name:         w.Name,
		Variant:      w.Variant,
		Cost:         w.Cost,
		Attack:       w.Attack,
		Defense:      w.Defense,
		Effect:       w.Effect,
		UltimateMove: w.UltimateMove,
		UltimateCost: w.UltimateCost,
	}
}

func workingCardFrom(c game.Card) WorkingCard {
	return WorkingCard{
		CanonicalKey: keys.CanonicalKey(c.Name, c.Variant),
		Name:         c.Name,
		Variant:      c.Variant,
		Cost:         c.Cost,
		Attack:       c.Attack,
		Defense:      c.Defense,
		Effect:       c.Effect,
		UltimateMove: c.UltimateMove,
		UltimateCost: c.UltimateCost,
	}
}

// Run statuses.
const (
	RunStatusRunning   = "running"
	RunStatusCompleted = "completed"
	RunStatusFailed    = "failed"
)

// BalanceRun is one tuning run. BestCardsJSON holds the best snapshot's card
// table serialized as JSON; it is populated when the run completes.
type BalanceRun struct {
	gorm.Model
	RunID               string  `gorm:"uniqueIndex" json:"run_id"`
	Status              string  `json:"status"`
	Seed                int64   `json:"seed"`
	Iterations          int     `json:"iterations"`
	BattlesPerIteration int     `json:"battles_per_iteration"`
	BestScore           float64 `json:"best_score"`
	BestIteration       int     `json:"best_iteration"`
	BestCardsJSON       string  `json:"-"`
	Error               string  `json:"error,omitempty"`
}

// IterationRecord stores one iteration's report for a run.
type IterationRecord struct {
	gorm.Model
	RunID      string  `gorm:"index" json:"run_id"`
	Iteration  int     `json:"iteration"`
	Score      float64 `json:"score"`
	Best       bool    `json:"best"`
	ReportJSON string  `json:"-"`
}
