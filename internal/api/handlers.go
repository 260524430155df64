package api

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/arenasim/arena-cards/internal/constants"
	"github.com/arenasim/arena-cards/internal/service"
	"github.com/arenasim/arena-cards/internal/storage"
)

// RunHandler groups the tuning-run HTTP handlers.
type RunHandler struct {
	runner *service.Runner
}

func NewRunHandler(runner *service.Runner) *RunHandler {
	return &RunHandler{runner: runner}
}

// ListCards returns the current working card table.
func (h *RunHandler) ListCards(c *gin.Context) {
	cards, err := h.runner.Cards()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{constants.JSONKeyError: constants.ErrFailedFetchCards})
		return
	}
	c.JSON(http.StatusOK, cards)
}

// CardLeaderboard returns the per-card score breakdown from the most recent
// run, best-scoring cards first.
func (h *RunHandler) CardLeaderboard(c *gin.Context) {
	scores, err := h.runner.Leaderboard()
	if errors.Is(err, storage.ErrRunNotFound) || errors.Is(err, service.ErrNoReport) {
		c.JSON(http.StatusNotFound, gin.H{constants.JSONKeyError: constants.ErrFailedFetchReport})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{constants.JSONKeyError: constants.ErrFailedFetchReport})
		return
	}
	c.JSON(http.StatusOK, scores)
}

// StartRun launches a new tuning run. Only one run may be in progress.
func (h *RunHandler) StartRun(c *gin.Context) {
	var params service.StartParams
	if err := c.ShouldBindJSON(&params); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{constants.JSONKeyError: constants.ErrInvalidRequest})
		return
	}
	run, err := h.runner.StartRun(params)
	if errors.Is(err, service.ErrRunInProgress) {
		c.JSON(http.StatusConflict, gin.H{constants.JSONKeyError: constants.ErrRunAlreadyInProgress})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{constants.JSONKeyError: constants.ErrFailedStartRun})
		return
	}
	c.JSON(http.StatusAccepted, run)
}

// GetRun returns a run record by ID.
func (h *RunHandler) GetRun(c *gin.Context) {
	runID := c.Param("runID")
	if runID == "" {
		c.JSON(http.StatusBadRequest, gin.H{constants.JSONKeyError: constants.ErrInvalidRunID})
		return
	}
	run, err := h.runner.GetRun(runID)
	if errors.Is(err, storage.ErrRunNotFound) {
		c.JSON(http.StatusNotFound, gin.H{constants.JSONKeyError: constants.ErrRunNotFound})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{constants.JSONKeyError: constants.ErrFailedFetchRuns})
		return
	}
	c.JSON(http.StatusOK, run)
}

// ListRuns returns the most recent runs. Optional ?limit=N, default 20.
func (h *RunHandler) ListRuns(c *gin.Context) {
	limit := 20
	if s := c.Query("limit"); s != "" {
		if n, err := strconv.Atoi(s); err == nil && n > 0 && n <= 100 {
			limit = n
		}
	}
	runs, err := h.runner.ListRuns(limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{constants.JSONKeyError: constants.ErrFailedFetchRuns})
		return
	}
	c.JSON(http.StatusOK, runs)
}

// GetReport returns a run's most recent iteration report.
func (h *RunHandler) GetReport(c *gin.Context) {
	runID := c.Param("runID")
	rep, err := h.runner.Report(runID)
	if errors.Is(err, storage.ErrRunNotFound) {
		c.JSON(http.StatusNotFound, gin.H{constants.JSONKeyError: constants.ErrRunNotFound})
		return
	}
	if errors.Is(err, service.ErrNoReport) {
		c.JSON(http.StatusNotFound, gin.H{constants.JSONKeyError: constants.ErrFailedFetchReport})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{constants.JSONKeyError: constants.ErrFailedFetchReport})
		return
	}
	c.JSON(http.StatusOK, rep)
}

// BestBalance returns the best card table across all completed runs.
func (h *RunHandler) BestBalance(c *gin.Context) {
	best, err := h.runner.Best()
	if errors.Is(err, storage.ErrRunNotFound) {
		c.JSON(http.StatusNotFound, gin.H{constants.JSONKeyError: constants.ErrNoBestBalance})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{constants.JSONKeyError: constants.ErrFailedFetchBest})
		return
	}
	c.JSON(http.StatusOK, best)
}

// SimulateBattle plays one detailed battle against the current working
// table. Optional ?seed=N for reproducibility.
func (h *RunHandler) SimulateBattle(c *gin.Context) {
	var seed int64
	if s := c.Query("seed"); s != "" {
		n, err := strconv.ParseInt(s, 10, 64)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{constants.JSONKeyError: constants.ErrInvalidRequest})
			return
		}
		seed = n
	}
	res, err := h.runner.SimulateBattle(seed)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{constants.JSONKeyError: constants.ErrFailedSimulateBattle})
		return
	}
	c.JSON(http.StatusOK, res)
}
