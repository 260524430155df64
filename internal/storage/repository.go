package storage

import "github.com/arenasim/arena-cards/internal/game"

// Repository is the persistence surface for the working card table and
// tuning run records.
type Repository interface {
	// SaveWorkingTable replaces the persisted working table with the given
	// cards, upserting by canonical key and removing rows no longer present.
	SaveWorkingTable(cards []game.Card) error
	// LoadWorkingTable returns the persisted working table in name order.
	// An empty table returns an empty slice, not an error.
	LoadWorkingTable() ([]game.Card, error)

	CreateRun(run *BalanceRun) error
	UpdateRun(run *BalanceRun) error
	GetRun(runID string) (*BalanceRun, error)
	ListRuns(limit int) ([]BalanceRun, error)
	// BestRun returns the completed run with the highest best score.
	BestRun() (*BalanceRun, error)

	SaveIteration(rec *IterationRecord) error
	// LatestIteration returns the most recent iteration record for a run.
	LatestIteration(runID string) (*IterationRecord, error)
}
