package storage

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/arenasim/arena-cards/internal/game"
)

func testPool() []game.Card {
	return []game.Card{
		{Name: "Scout", Variant: "Standard", Cost: 1, Attack: 100, Defense: 100, UltimateCost: 1},
		{Name: "Knight", Variant: "Standard", Cost: 3, Attack: 200, Defense: 250, UltimateCost: 2},
	}
}

func newTestRepo(t *testing.T, pool []game.Card) Repository {
	t.Helper()
	db, err := OpenAndMigrate(":memory:", pool)
	require.NoError(t, err)
	return NewSQLiteRepository(db)
}

func TestSeedAndLoadWorkingTable(t *testing.T) {
	repo := newTestRepo(t, testPool())

	cards, err := repo.LoadWorkingTable()
	require.NoError(t, err)
	require.Len(t, cards, 2)
	assert.Equal(t, "Knight", cards[0].Name)
	assert.Equal(t, "Scout", cards[1].Name)
}

func TestSaveWorkingTableUpsertsAndPrunes(t *testing.T) {
	repo := newTestRepo(t, testPool())

	updated := []game.Card{
		{Name: "Scout", Variant: "Standard", Cost: 2, Attack: 150, Defense: 150, UltimateCost: 1},
		{Name: "Mage", Variant: "Standard", Cost: 4, Attack: 400, Defense: 200, UltimateCost: 2},
	}
	require.NoError(t, repo.SaveWorkingTable(updated))

	cards, err := repo.LoadWorkingTable()
	require.NoError(t, err)
	require.Len(t, cards, 2)
	assert.Equal(t, "Mage", cards[0].Name)
	assert.Equal(t, "Scout", cards[1].Name)
	assert.Equal(t, 2, cards[1].Cost, "existing row must be updated in place")
}

func TestSaveWorkingTableEmptyPrunesAllRows(t *testing.T) {
	repo := newTestRepo(t, testPool())

	require.NoError(t, repo.SaveWorkingTable(nil))

	cards, err := repo.LoadWorkingTable()
	require.NoError(t, err)
	assert.Empty(t, cards)
}

func TestSeedSkippedWhenTablePopulated(t *testing.T) {
	db, err := OpenAndMigrate(":memory:", testPool())
	require.NoError(t, err)

	// Reopening with a different pool must not overwrite the saved state.
	repo := NewSQLiteRepository(db)
	require.NoError(t, repo.SaveWorkingTable([]game.Card{
		{Name: "Tuned", Variant: "Standard", Cost: 1, Attack: 100, Defense: 100, UltimateCost: 1},
	}))
	seedWorkingTable(db, testPool())

	cards, err := repo.LoadWorkingTable()
	require.NoError(t, err)
	require.Len(t, cards, 1)
	assert.Equal(t, "Tuned", cards[0].Name)
}

func TestRunLifecycle(t *testing.T) {
	repo := newTestRepo(t, nil)

	run := &BalanceRun{RunID: "run-1", Status: RunStatusRunning, Seed: 7, Iterations: 3, BattlesPerIteration: 10}
	require.NoError(t, repo.CreateRun(run))

	got, err := repo.GetRun("run-1")
	require.NoError(t, err)
	assert.Equal(t, RunStatusRunning, got.Status)

	got.Status = RunStatusCompleted
	got.BestScore = 72.5
	require.NoError(t, repo.UpdateRun(got))

	best, err := repo.BestRun()
	require.NoError(t, err)
	assert.Equal(t, "run-1", best.RunID)
	assert.Equal(t, 72.5, best.BestScore)

	runs, err := repo.ListRuns(10)
	require.NoError(t, err)
	assert.Len(t, runs, 1)

	_, err = repo.GetRun("missing")
	assert.ErrorIs(t, err, ErrRunNotFound)
}

func TestIterationRecords(t *testing.T) {
	repo := newTestRepo(t, nil)

	require.NoError(t, repo.SaveIteration(&IterationRecord{RunID: "run-1", Iteration: 0, Score: 50}))
	require.NoError(t, repo.SaveIteration(&IterationRecord{RunID: "run-1", Iteration: 1, Score: 60, Best: true}))

	latest, err := repo.LatestIteration("run-1")
	require.NoError(t, err)
	assert.Equal(t, 1, latest.Iteration)
	assert.True(t, latest.Best)

	_, err = repo.LatestIteration("run-2")
	assert.ErrorIs(t, err, ErrRunNotFound)
}
