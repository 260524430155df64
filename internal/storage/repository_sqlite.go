package storage

import (
	"errors"
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/arenasim/arena-cards/internal/game"
)

// ErrRunNotFound is returned when a run ID does not exist.
var ErrRunNotFound = errors.New("run not found")

type sqliteRepository struct {
	db *gorm.DB
}

func NewSQLiteRepository(db *gorm.DB) Repository {
	return &sqliteRepository{db: db}
}

func (r *sqliteRepository) SaveWorkingTable(cards []game.Card) error {
	rows := make([]WorkingCard, 0, len(cards))
	cardKeys := make([]string, 0, len(cards))
	for _, c := range cards {
		row := workingCardFrom(c)
		rows = append(rows, row)
		cardKeys = append(cardKeys, row.CanonicalKey)
	}
	return r.db.Transaction(func(tx *gorm.DB) error {
		if len(rows) > 0 {
			err := tx.Clauses(clause.OnConflict{
				Columns: []clause.Column{{Name: "canonical_key"}},
				DoUpdates: clause.AssignmentColumns([]string{
					"name", "variant", "cost", "attack", "defense",
					"effect", "ultimate_move", "ultimate_cost",
				}),
			}).Create(&rows).Error
			if err != nil {
				return fmt.Errorf("upsert working table: %w", err)
			}
		}
		// NOT IN with an empty slice matches no rows, so an empty save
		// needs an explicit full prune.
		prune := tx.Where("canonical_key NOT IN ?", cardKeys)
		if len(cardKeys) == 0 {
			prune = tx.Where("canonical_key IS NOT NULL")
		}
		if err := prune.Delete(&WorkingCard{}).Error; err != nil {
			return fmt.Errorf("prune working table: %w", err)
		}
		return nil
	})
}

func (r *sqliteRepository) LoadWorkingTable() ([]game.Card, error) {
	var rows []WorkingCard
	if err := r.db.Order("name, variant").Find(&rows).Error; err != nil {
		return nil, err
	}
	cards := make([]game.Card, 0, len(rows))
	for _, row := range rows {
		cards = append(cards, row.Card())
	}
	return cards, nil
}

func (r *sqliteRepository) CreateRun(run *BalanceRun) error {
	return r.db.Create(run).Error
}

func (r *sqliteRepository) UpdateRun(run *BalanceRun) error {
	return r.db.Save(run).Error
}

func (r *sqliteRepository) GetRun(runID string) (*BalanceRun, error) {
	var run BalanceRun
	err := r.db.Where("run_id = ?", runID).First(&run).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrRunNotFound
	}
	if err != nil {
		return nil, err
	}
	return &run, nil
}

func (r *sqliteRepository) ListRuns(limit int) ([]BalanceRun, error) {
	var runs []BalanceRun
	q := r.db.Order("created_at DESC")
	if limit > 0 {
		q = q.Limit(limit)
	}
	if err := q.Find(&runs).Error; err != nil {
		return nil, err
	}
	return runs, nil
}

func (r *sqliteRepository) BestRun() (*BalanceRun, error) {
	var run BalanceRun
	err := r.db.Where("status = ?", RunStatusCompleted).
		Order("best_score DESC").First(&run).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrRunNotFound
	}
	if err != nil {
		return nil, err
	}
	return &run, nil
}

func (r *sqliteRepository) SaveIteration(rec *IterationRecord) error {
	return r.db.Create(rec).Error
}

func (r *sqliteRepository) LatestIteration(runID string) (*IterationRecord, error) {
	var rec IterationRecord
	err := r.db.Where("run_id = ?", runID).Order("iteration DESC").First(&rec).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrRunNotFound
	}
	if err != nil {
		return nil, err
	}
	return &rec, nil
}
