package storage

import (
	"fmt"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/arenasim/arena-cards/internal/game"
	"github.com/arenasim/arena-cards/internal/logging"
)

// OpenAndMigrate opens the sqlite database, migrates the schema and seeds
// the working table from the configured pool when the table is empty. An
// existing working table is left alone so an interrupted tuning run resumes
// from its last persisted state instead of the original pool.
func OpenAndMigrate(dataSourceName string, pool []game.Card) (*gorm.DB, error) {
	db, err := gorm.Open(sqlite.Open(dataSourceName), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("open database %s: %w", dataSourceName, err)
	}

	if err := db.AutoMigrate(&WorkingCard{}, &BalanceRun{}, &IterationRecord{}); err != nil {
		return nil, fmt.Errorf("migrate schema: %w", err)
	}

	seedWorkingTable(db, pool)
	return db, nil
}

func seedWorkingTable(db *gorm.DB, pool []game.Card) {
	var count int64
	db.Model(&WorkingCard{}).Count(&count)
	if count > 0 {
		logging.Info("working table already populated, resuming from persisted state",
			logging.Fields{"cards": count})
		return
	}
	if len(pool) == 0 {
		return
	}
	rows := make([]WorkingCard, 0, len(pool))
	for _, c := range pool {
		rows = append(rows, workingCardFrom(c.Normalize()))
	}
	if err := db.Create(&rows).Error; err != nil {
		logging.Error("failed to seed working table from pool", err, nil)
		return
	}
	logging.Info("seeded working table from card pool", logging.Fields{"cards": len(rows)})
}
