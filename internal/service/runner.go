// Package service coordinates tuning runs over the storage and balance
// layers: one run at a time, executed in the background, with report and
// battle surfaces for the API.
package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/arenasim/arena-cards/internal/ability"
	"github.com/arenasim/arena-cards/internal/balance"
	"github.com/arenasim/arena-cards/internal/config"
	"github.com/arenasim/arena-cards/internal/constants"
	"github.com/arenasim/arena-cards/internal/dedupe"
	"github.com/arenasim/arena-cards/internal/engine"
	"github.com/arenasim/arena-cards/internal/game"
	"github.com/arenasim/arena-cards/internal/logging"
	"github.com/arenasim/arena-cards/internal/storage"
)

var (
	ErrRunInProgress = errors.New("a tuning run is already in progress")
	ErrNoReport      = errors.New("run has no report yet")
)

// StartParams are the caller-supplied knobs for one tuning run. Zero values
// fall back to the configured defaults; requests above the configured caps
// are clamped.
type StartParams struct {
	Iterations          int   `json:"iterations"`
	BattlesPerIteration int   `json:"battles_per_iteration"`
	Seed                int64 `json:"seed"`
}

// RunReport pairs a run record with its most recent iteration report.
type RunReport struct {
	Run    *storage.BalanceRun `json:"run"`
	Report *balance.Report     `json:"report"`
}

// BestBalance is the best card table across all completed runs.
type BestBalance struct {
	RunID     string      `json:"run_id"`
	Score     float64     `json:"score"`
	Iteration int         `json:"iteration"`
	Cards     []game.Card `json:"cards"`
}

// Runner owns run lifecycle. Exactly one run may be in progress at a time;
// a second start returns ErrRunInProgress.
type Runner struct {
	repo     storage.Repository
	registry *ability.Registry
	pool     []game.Card
	sim      config.Simulation

	mu     sync.Mutex
	active string
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

func NewRunner(repo storage.Repository, registry *ability.Registry, pool []game.Card, sim config.Simulation) *Runner {
	return &Runner{repo: repo, registry: registry, pool: pool, sim: sim}
}

// tableStore adapts the repository to the balance persistence interface.
type tableStore struct {
	repo storage.Repository
}

func (t tableStore) SaveWorkingTable(_ context.Context, cards []game.Card) error {
	return t.repo.SaveWorkingTable(cards)
}

func clamp(v, def, max int) int {
	if v <= 0 {
		return def
	}
	if v > max {
		return max
	}
	return v
}

// StartRun creates the run record and launches the tuning loop in the
// background. The returned record reflects the accepted parameters.
func (r *Runner) StartRun(params StartParams) (*storage.BalanceRun, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.active != "" {
		return nil, ErrRunInProgress
	}

	iterations := clamp(params.Iterations, 10, r.sim.MaxIterations)
	battles := clamp(params.BattlesPerIteration, 50, r.sim.MaxBattlesPerIter)
	seed := params.Seed
	if seed == 0 {
		seed = r.sim.Seed
	}
	if seed == 0 {
		seed = time.Now().UnixNano()
	}

	run := &storage.BalanceRun{
		RunID:               uuid.NewString(),
		Status:              storage.RunStatusRunning,
		Seed:                seed,
		Iterations:          iterations,
		BattlesPerIteration: battles,
	}
	if err := r.repo.CreateRun(run); err != nil {
		return nil, fmt.Errorf("create run record: %w", err)
	}

	sim := balance.NewSimulator(r.pool, r.registry, tableStore{r.repo}, balance.Options{
		TargetWinRate: r.sim.TargetWinRate,
		Tolerance:     r.sim.WinRateTolerance,
		Workers:       r.sim.Workers,
		Seed:          seed,
		OnIteration:   r.iterationSaver(run.RunID),
	})
	if saved, err := r.repo.LoadWorkingTable(); err != nil {
		logging.Error("failed to load persisted working table, starting from pool", err, nil)
	} else if len(saved) > 0 {
		sim.ResumeFrom(saved)
	}

	ctx, cancel := context.WithCancel(context.Background())
	r.active = run.RunID
	r.cancel = cancel
	r.wg.Add(1)
	go r.execute(ctx, run, sim, iterations, battles)

	logging.Info("tuning run started", logging.Fields{
		constants.LogFieldRunID: run.RunID,
		constants.LogFieldSeed:  seed,
		"iterations":            iterations,
		"battles":               battles,
	})
	return run, nil
}

// iterationSaver persists each iteration's report as it completes, tracking
// the running best so the record can be flagged.
func (r *Runner) iterationSaver(runID string) func(*balance.Report) {
	best := -1.0
	return func(rep *balance.Report) {
		body, err := json.Marshal(rep)
		if err != nil {
			logging.Error("failed to encode iteration report", err,
				logging.Fields{constants.LogFieldRunID: runID})
			return
		}
		rec := &storage.IterationRecord{
			RunID:      runID,
			Iteration:  rep.Iteration,
			Score:      rep.Score,
			Best:       rep.Score > best,
			ReportJSON: string(body),
		}
		if rec.Best {
			best = rep.Score
		}
		if err := r.repo.SaveIteration(rec); err != nil {
			logging.Error("failed to persist iteration record", err,
				logging.Fields{constants.LogFieldRunID: runID, constants.LogFieldIteration: rep.Iteration})
		}
	}
}

func (r *Runner) execute(ctx context.Context, run *storage.BalanceRun, sim *balance.Simulator, iterations, battles int) {
	defer r.wg.Done()
	defer func() {
		r.mu.Lock()
		r.active = ""
		r.cancel = nil
		r.mu.Unlock()
	}()

	best, err := sim.RunIterations(ctx, iterations, battles)
	if err != nil && !errors.Is(err, context.Canceled) {
		run.Status = storage.RunStatusFailed
		run.Error = err.Error()
		logging.Error("tuning run failed", err, logging.Fields{constants.LogFieldRunID: run.RunID})
	} else {
		run.Status = storage.RunStatusCompleted
	}

	if best != nil {
		run.BestScore = best.Score
		run.BestIteration = best.Iteration
		if body, mErr := json.Marshal(best.Cards); mErr == nil {
			run.BestCardsJSON = string(body)
		} else {
			logging.Error("failed to encode best card table", mErr,
				logging.Fields{constants.LogFieldRunID: run.RunID})
		}
	}
	if uErr := r.repo.UpdateRun(run); uErr != nil {
		logging.Error("failed to persist run completion", uErr,
			logging.Fields{constants.LogFieldRunID: run.RunID})
	}
	logging.Info("tuning run finished", logging.Fields{
		constants.LogFieldRunID: run.RunID,
		constants.LogFieldScore: run.BestScore,
		"status":                run.Status,
	})
}

// Shutdown cancels any in-progress run and waits for it to persist its
// final state.
func (r *Runner) Shutdown() {
	r.mu.Lock()
	cancel := r.cancel
	r.mu.Unlock()
	if cancel != nil {
		cancel()
	}
	r.wg.Wait()
}

// GetRun returns the run record for an ID.
func (r *Runner) GetRun(runID string) (*storage.BalanceRun, error) {
	return r.repo.GetRun(runID)
}

// ListRuns returns the most recent runs, newest first.
func (r *Runner) ListRuns(limit int) ([]storage.BalanceRun, error) {
	return r.repo.ListRuns(limit)
}

// Cards returns the current working table, falling back to the configured
// pool before any run has persisted one.
func (r *Runner) Cards() ([]game.Card, error) {
	cards, err := r.repo.LoadWorkingTable()
	if err != nil {
		return nil, err
	}
	if len(cards) == 0 {
		return game.CloneCards(r.pool), nil
	}
	return cards, nil
}

// Report returns a run's most recent iteration report. Concurrent fetches
// for the same run share one decode through the report group.
func (r *Runner) Report(runID string) (*RunReport, error) {
	v, err, _ := dedupe.ReportGroup.Do(runID, func() (interface{}, error) {
		run, err := r.repo.GetRun(runID)
		if err != nil {
			return nil, err
		}
		rec, err := r.repo.LatestIteration(runID)
		if errors.Is(err, storage.ErrRunNotFound) {
			return nil, ErrNoReport
		}
		if err != nil {
			return nil, err
		}
		var rep balance.Report
		if err := json.Unmarshal([]byte(rec.ReportJSON), &rep); err != nil {
			return nil, fmt.Errorf("decode iteration report: %w", err)
		}
		return &RunReport{Run: run, Report: &rep}, nil
	})
	if err != nil {
		return nil, err
	}
	return v.(*RunReport), nil
}

// Leaderboard returns the per-card score breakdown from the most recent
// run's latest report, best-scoring cards first.
func (r *Runner) Leaderboard() ([]balance.CardScore, error) {
	runs, err := r.repo.ListRuns(1)
	if err != nil {
		return nil, err
	}
	if len(runs) == 0 {
		return nil, storage.ErrRunNotFound
	}
	rep, err := r.Report(runs[0].RunID)
	if err != nil {
		return nil, err
	}
	return rep.Report.CardScores, nil
}

// Best returns the best balance snapshot across all completed runs.
func (r *Runner) Best() (*BestBalance, error) {
	run, err := r.repo.BestRun()
	if err != nil {
		return nil, err
	}
	var cards []game.Card
	if run.BestCardsJSON != "" {
		if err := json.Unmarshal([]byte(run.BestCardsJSON), &cards); err != nil {
			return nil, fmt.Errorf("decode best card table: %w", err)
		}
	}
	return &BestBalance{
		RunID:     run.RunID,
		Score:     run.BestScore,
		Iteration: run.BestIteration,
		Cards:     cards,
	}, nil
}

// SimulateBattle plays one detailed battle against the current working
// table. Concurrent requests for the same seed share one simulation.
func (r *Runner) SimulateBattle(seed int64) (*engine.Result, error) {
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	key := fmt.Sprintf("battle:%d", seed)
	v, err, _ := dedupe.BattleGroup.Do(key, func() (interface{}, error) {
		cards, err := r.Cards()
		if err != nil {
			return nil, err
		}
		sim := balance.NewSimulator(cards, r.registry, nil, balance.Options{
			TargetWinRate: r.sim.TargetWinRate,
			Tolerance:     r.sim.WinRateTolerance,
			Workers:       1,
			Seed:          seed,
		})
		return sim.SimulateBattle(seed)
	})
	if err != nil {
		return nil, err
	}
	return v.(*engine.Result), nil
}
