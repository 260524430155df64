package config

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/arenasim/arena-cards/internal/constants"
	"github.com/arenasim/arena-cards/internal/game"
	"github.com/arenasim/arena-cards/internal/logging"
)

type rawConfig struct {
	CardList      []game.Card `json:"card_list"`
	AbilitiesFile string      `json:"abilities_file"`
	Server        *struct {
		Address string `json:"address"`
	} `json:"server"`
	Simulation *struct {
		TargetWinRate     float64 `json:"target_win_rate"`
		WinRateTolerance  float64 `json:"win_rate_tolerance"`
		Workers           int     `json:"workers"`
		Seed              int64   `json:"seed"`
		MaxIterations     int     `json:"max_iterations"`
		MaxBattlesPerIter int     `json:"max_battles_per_iteration"`
	} `json:"simulation"`
}

// Simulation holds the tuning-run limits and defaults from the config file.
type Simulation struct {
	TargetWinRate     float64
	WinRateTolerance  float64
	Workers           int
	Seed              int64
	MaxIterations     int
	MaxBattlesPerIter int
}

// LoadedConfig contains the card pool, ability content path and server
// settings. The pool is validated hard at load time; a malformed card is a
// startup failure, never a runtime surprise.
type LoadedConfig struct {
	Cards         []game.Card
	AbilitiesFile string
	ServerAddress string
	Simulation    Simulation
}

// LoadConfig reads the configuration file at path. It requires a non-empty
// `card_list` (snake_case) and rejects duplicate (name, variant) pairs.
func LoadConfig(path string) (*LoadedConfig, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
	}
	var rc rawConfig
	if err := json.Unmarshal(b, &rc); err != nil {
		return nil, fmt.Errorf("failed to parse config file %s: %w", path, err)
	}

	if len(rc.CardList) == 0 {
		return nil, fmt.Errorf("config file %s: card_list is empty (provide 'card_list' array)", path)
	}

	seen := make(map[string]bool, len(rc.CardList))
	cards := make([]game.Card, 0, len(rc.CardList))
	for _, c := range rc.CardList {
		if err := c.Validate(); err != nil {
			return nil, fmt.Errorf("config file %s: %w", path, err)
		}
		if c.UltimateCost < constants.MinUltimateCost || c.UltimateCost > constants.MaxUltimateCost {
			logging.Warn("ultimate cost out of range, defaulting to 1", logging.Fields{
				constants.LogFieldCard: c.Key(),
				"ultimate_cost":        c.UltimateCost,
			})
		}
		c = c.Normalize()
		if seen[c.Key()] {
			return nil, fmt.Errorf("config file %s: duplicate card %s", path, c.Key())
		}
		seen[c.Key()] = true
		cards = append(cards, c)
	}

	out := &LoadedConfig{
		Cards:         cards,
		AbilitiesFile: rc.AbilitiesFile,
		ServerAddress: ":8080",
		Simulation: Simulation{
			TargetWinRate:     constants.DefaultTargetWinRate,
			WinRateTolerance:  constants.DefaultWinRateTolerance,
			Workers:           4,
			MaxIterations:     100,
			MaxBattlesPerIter: 500,
		},
	}
	if rc.Server != nil && rc.Server.Address != "" {
		out.ServerAddress = rc.Server.Address
	}
	if sim := rc.Simulation; sim != nil {
		if sim.TargetWinRate > 0 && sim.TargetWinRate < 1 {
			out.Simulation.TargetWinRate = sim.TargetWinRate
		}
		if sim.WinRateTolerance > 0 {
			out.Simulation.WinRateTolerance = sim.WinRateTolerance
		}
		if sim.Workers > 0 {
			out.Simulation.Workers = sim.Workers
		}
		if sim.MaxIterations > 0 {
			out.Simulation.MaxIterations = sim.MaxIterations
		}
		if sim.MaxBattlesPerIter > 0 {
			out.Simulation.MaxBattlesPerIter = sim.MaxBattlesPerIter
		}
		out.Simulation.Seed = sim.Seed
	}
	return out, nil
}
