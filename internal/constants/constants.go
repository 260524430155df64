package constants

// Centralized constants for game rules, env keys, routes and API messages.
const (
	// Environment variable keys
	EnvConfigPath = "ARENA_CONFIG"
	EnvDBPath     = "ARENA_DB"

	// Core rule set. These values define the fixed game variant the
	// simulator targets; they are not tunable per run.
	StartingLifePoints   = 2000
	StartingEnergy       = 1
	MaxEnergy            = 10
	MaxFieldSize         = 5
	DeckSize             = 40
	MaxTurns             = 50
	MaxPlacementsPerTurn = 2
	InitialHandSize      = 5
	MaxCopiesPerCard     = 3

	// Card data bounds
	MinCost         = 1
	MaxCost         = 7
	MinUltimateCost = 1
	MaxUltimateCost = 4

	// Balance tuning defaults and invariants
	DefaultTargetWinRate      = 0.5
	DefaultWinRateTolerance   = 0.05
	CostDistributionTolerance = 0.1
	UltimatePowerFactor       = 0.3
	StatCapPerCost            = 200
	StatRoundingStep          = 50
	StatFloor                 = 100
	MinPlaysForSignificance   = 5
	// Cost increases during tuning never push a card past this cost.
	TuningCostCeiling = 6
)

// ExpectedPowerByCost maps energy cost to the expected combined power
// (ATK + 0.6*DEF) used by the cost-efficiency score.
var ExpectedPowerByCost = map[int]float64{
	1: 150, 2: 200, 3: 300, 4: 450, 5: 650, 6: 900, 7: 1200,
}

// DefaultCostDistribution is the target count of cards per cost bucket in a
// freshly built deck. The counts sum to DeckSize.
var DefaultCostDistribution = map[int]int{
	1: 8, 2: 10, 3: 8, 4: 6, 5: 4, 6: 3, 7: 1,
}

// Routes used by the backend router
const (
	RouteAPIPrefix       = "/api"
	RouteCards           = "/cards"
	RouteCardLeaderboard = "/cards/leaderboard"
	RouteRuns            = "/runs"
	RouteRunByID         = "/runs/:runID"
	RouteRunReport       = "/runs/:runID/report"
	RouteBestBalance     = "/balance/best"
	RouteSimulateBattle  = "/battles/simulate"
)

// Common JSON response keys
const (
	JSONKeyError   = "error"
	JSONKeyMessage = "message"
	JSONKeyStatus  = "status"
)

// Common error messages used across API handlers
const (
	ErrInvalidRequest       = "Invalid request"
	ErrFailedFetchCards     = "Failed to fetch cards"
	ErrFailedFetchRuns      = "Failed to fetch runs"
	ErrInvalidRunID         = "Invalid run ID"
	ErrRunNotFound          = "Run not found"
	ErrRunAlreadyInProgress = "A tuning run is already in progress"
	ErrFailedStartRun       = "Failed to start tuning run"
	ErrFailedFetchReport    = "Failed to fetch report"
	ErrFailedFetchBest      = "Failed to fetch best balance"
	ErrNoBestBalance        = "No completed run with a best balance yet"
	ErrFailedSimulateBattle = "Failed to simulate battle"
)

// Logging field names
const (
	LogFieldRunID     = "run_id"
	LogFieldIteration = "iteration"
	LogFieldBattle    = "battle"
	LogFieldCard      = "card"
	LogFieldCost      = "cost"
	LogFieldScore     = "score"
	LogFieldAddr      = "addr"
	LogFieldSeed      = "seed"
)
