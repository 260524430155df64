package balance

import (
	"context"
	"errors"
	"fmt"
	"math/rand"

	"golang.org/x/sync/errgroup"

	"github.com/arenasim/arena-cards/internal/ability"
	"github.com/arenasim/arena-cards/internal/constants"
	"github.com/arenasim/arena-cards/internal/engine"
	"github.com/arenasim/arena-cards/internal/game"
	"github.com/arenasim/arena-cards/internal/logging"
)

// ErrBattleFailed indicates a battle could not complete after the bounded
// retry budget.
var ErrBattleFailed = errors.New("battle failed after retries")

// TableStore persists the working table between iterations. Persistence
// failures never abort a run; the tuner keeps going in memory.
type TableStore interface {
	SaveWorkingTable(ctx context.Context, cards []game.Card) error
}

// Options tunes a simulator. Zero values pick the documented defaults.
type Options struct {
	TargetWinRate float64
	Tolerance     float64
	Workers       int
	Seed          int64
	MaxRetries    int

	// OnIteration, when set, is called with each iteration's report after
	// the working table has been adjusted and persisted.
	OnIteration func(*Report)
}

func (o Options) withDefaults() Options {
	if o.TargetWinRate <= 0 {
		o.TargetWinRate = constants.DefaultTargetWinRate
	}
	if o.Tolerance <= 0 {
		o.Tolerance = constants.DefaultWinRateTolerance
	}
	if o.Workers <= 0 {
		o.Workers = 4
	}
	if o.MaxRetries <= 0 {
		o.MaxRetries = 3
	}
	return o
}

// Simulator owns a tuning run: the immutable original table, the mutable
// working copy, and the best snapshot seen so far.
type Simulator struct {
	original []game.Card
	working  []game.Card
	registry *ability.Registry
	store    TableStore
	opts     Options

	best    *Snapshot
	reports []*Report
}

// NewSimulator builds a simulator over a copy of the pool. The caller's
// slice is never mutated. A nil store disables persistence.
func NewSimulator(pool []game.Card, registry *ability.Registry, store TableStore, opts Options) *Simulator {
	return &Simulator{
		original: game.CloneCards(pool),
		working:  game.CloneCards(pool),
		registry: registry,
		store:    store,
		opts:     opts.withDefaults(),
	}
}

// ResumeFrom replaces the working table with a previously persisted one,
// keeping the original table as the distribution baseline.
func (s *Simulator) ResumeFrom(cards []game.Card) {
	s.working = game.CloneCards(cards)
}

// WorkingTable returns a copy of the current working table.
func (s *Simulator) WorkingTable() []game.Card { return game.CloneCards(s.working) }

// Best returns the best snapshot seen so far, or nil before any iteration.
func (s *Simulator) Best() *Snapshot { return s.best }

// Reports returns the per-iteration reports accumulated so far.
func (s *Simulator) Reports() []*Report { return s.reports }

// battleSeed derives a deterministic per-battle seed. Retries get distinct
// streams so a failed battle is replaced, not replayed.
func battleSeed(runSeed int64, iteration, battle, attempt int) int64 {
	return runSeed + int64(iteration)*1_000_003 + int64(battle)*7919 + int64(attempt)*104_729
}

// RunIterations drives the tuning loop: each iteration runs the requested
// battle count over a snapshot of the working table on a bounded worker
// pool, folds statistics, scores the table, snapshots the best, adjusts the
// working copy and persists it.
func (s *Simulator) RunIterations(ctx context.Context, iterations, battlesPerIteration int) (*Snapshot, error) {
	shares := costShares(s.original)
	t := &tuner{
		registry:       s.registry,
		originalShares: shares,
		target:         s.opts.TargetWinRate,
		tolerance:      s.opts.Tolerance,
	}

	for iter := 0; iter < iterations; iter++ {
		if err := ctx.Err(); err != nil {
			return s.best, err
		}

		results, err := s.runBattles(ctx, iter, battlesPerIteration)
		if err != nil {
			return s.best, err
		}

		stats, usage := foldResults(results)
		score, cardScores := scoreTable(s.working, stats, s.opts.TargetWinRate)

		if s.best == nil || score > s.best.Score {
			s.best = &Snapshot{Iteration: iter, Score: score, Cards: game.CloneCards(s.working)}
		}

		adjustments := t.adjust(s.working, stats)
		report := &Report{
			Iteration:     iter,
			Battles:       battlesPerIteration,
			Score:         score,
			CardScores:    cardScores,
			UltimateUsage: usage,
			Adjustments:   adjustments,
		}
		s.reports = append(s.reports, report)

		if s.store != nil {
			if err := s.store.SaveWorkingTable(ctx, s.working); err != nil {
				logging.Error("failed to persist working table, continuing in memory", err,
					logging.Fields{constants.LogFieldIteration: iter})
			}
		}
		if s.opts.OnIteration != nil {
			s.opts.OnIteration(report)
		}

		logging.Info("iteration complete", logging.Fields{
			constants.LogFieldIteration: iter,
			constants.LogFieldScore:     score,
			"adjustments":               len(adjustments),
		})
	}
	return s.best, nil
}

// runBattles plays one iteration's battles on an errgroup pool against an
// immutable snapshot of the working table. A battle that panics is discarded
// and retried with a fresh seed, without counting toward the total.
func (s *Simulator) runBattles(ctx context.Context, iteration, count int) ([]*engine.Result, error) {
	snapshot := game.CloneCards(s.working)
	results := make([]*engine.Result, count)

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(s.opts.Workers)
	for i := 0; i < count; i++ {
		i := i
		g.Go(func() error {
			for attempt := 0; attempt < s.opts.MaxRetries; attempt++ {
				if err := ctx.Err(); err != nil {
					return err
				}
				res, err := runOneBattle(snapshot, s.registry, battleSeed(s.opts.Seed, iteration, i, attempt), false)
				if err != nil {
					logging.Error("battle failed, retrying with a fresh battle", err, logging.Fields{
						constants.LogFieldIteration: iteration,
						constants.LogFieldBattle:    i,
					})
					continue
				}
				results[i] = res
				return nil
			}
			return fmt.Errorf("%w (iteration %d battle %d)", ErrBattleFailed, iteration, i)
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

// runOneBattle builds two fresh decks from the table and plays a single
// battle. Panics from malformed state are converted into errors so the
// worker pool can retry.
func runOneBattle(table []game.Card, registry *ability.Registry, seed int64, withLog bool) (res *engine.Result, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("battle panicked: %v", r)
		}
	}()

	rng := rand.New(rand.NewSource(seed))
	d1, err := game.NewDeck(table, rng)
	if err != nil {
		return nil, fmt.Errorf("build deck: %w", err)
	}
	d2, err := game.NewDeck(table, rng)
	if err != nil {
		return nil, fmt.Errorf("build deck: %w", err)
	}
	b := engine.NewBattle(game.NewPlayer("Player 1", d1), game.NewPlayer("Player 2", d2), registry, rng)
	if withLog {
		b.EnableLog()
	}
	return b.Run(), nil
}

// SimulateBattle plays one battle against the current working table with log
// capture enabled, for the detailed single-battle surface.
func (s *Simulator) SimulateBattle(seed int64) (*engine.Result, error) {
	return runOneBattle(game.CloneCards(s.working), s.registry, seed, true)
}

// foldResults merges per-battle statistics by commutative summation.
func foldResults(results []*engine.Result) (map[string]*CardStats, map[string]*UltimateUsage) {
	stats := make(map[string]*CardStats)
	usage := make(map[string]*UltimateUsage)

	get := func(key string) *CardStats {
		cs, ok := stats[key]
		if !ok {
			cs = &CardStats{}
			stats[key] = cs
		}
		return cs
	}

	for _, res := range results {
		if res == nil {
			continue
		}
		for side := 0; side < 2; side++ {
			for key := range res.Stats.PlayedBy[side] {
				cs := get(key)
				cs.Battles++
				if res.Winner == side {
					cs.Wins++
				}
			}
		}
		for key, plays := range res.Stats.CardPlays {
			get(key).Plays += plays
		}
		dealt := make(map[string]bool)
		for key := range res.Stats.DirectDamage {
			dealt[key] = true
		}
		for key := range res.Stats.UltimateDamage {
			dealt[key] = true
		}
		for key := range res.Stats.EffectDamage {
			dealt[key] = true
		}
		for key := range dealt {
			get(key).TotalDamage += res.Stats.CardDamage(key)
		}
		for key, au := range res.Stats.AbilityUsage {
			u, ok := usage[key]
			if !ok {
				u = &UltimateUsage{}
				usage[key] = u
			}
			u.TotalUses += au.TimesUsed
			if au.TimesUsed > 0 {
				u.GamesUsed++
			}
			u.TotalDamage += res.Stats.UltimateDamage[key]
		}
	}

	for key, u := range usage {
		if u.TotalUses > 0 {
			u.AvgDamagePerUse = float64(u.TotalDamage) / float64(u.TotalUses)
		}
		if cs, ok := stats[key]; ok && cs.Battles > 0 {
			u.UsageRate = float64(u.GamesUsed) / float64(cs.Battles)
		}
	}
	return stats, usage
}
