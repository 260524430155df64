package api

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/arenasim/arena-cards/internal/ability"
	"github.com/arenasim/arena-cards/internal/config"
	"github.com/arenasim/arena-cards/internal/game"
	"github.com/arenasim/arena-cards/internal/service"
	"github.com/arenasim/arena-cards/internal/storage"
)

func testPool() []game.Card {
	return []game.Card{
		{Name: "Scout", Variant: "Standard", Cost: 1, Attack: 100, Defense: 100, UltimateCost: 1},
		{Name: "Grunt", Variant: "Standard", Cost: 2, Attack: 150, Defense: 150, UltimateCost: 1},
		{Name: "Knight", Variant: "Standard", Cost: 3, Attack: 200, Defense: 250, UltimateCost: 2},
	}
}

func newTestRouter(t *testing.T) (*gin.Engine, *service.Runner) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	db, err := storage.OpenAndMigrate(":memory:", testPool())
	require.NoError(t, err)
	runner := service.NewRunner(storage.NewSQLiteRepository(db), ability.NewRegistry(), testPool(), config.Simulation{
		TargetWinRate:     0.5,
		WinRateTolerance:  0.05,
		Workers:           2,
		Seed:              7,
		MaxIterations:     3,
		MaxBattlesPerIter: 5,
	})
	return NewRouter(NewRunHandler(runner)), runner
}

func do(r *gin.Engine, method, path, body string) *httptest.ResponseRecorder {
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, path, nil)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestListCards(t *testing.T) {
	r, _ := newTestRouter(t)

	w := do(r, http.MethodGet, "/api/cards", "")
	require.Equal(t, http.StatusOK, w.Code)

	var cards []game.Card
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &cards))
	assert.Len(t, cards, 3)
}

func TestRunLifecycleOverHTTP(t *testing.T) {
	r, runner := newTestRouter(t)
	defer runner.Shutdown()

	w := do(r, http.MethodPost, "/api/runs", `{"iterations": 2, "battles_per_iteration": 2, "seed": 42}`)
	require.Equal(t, http.StatusAccepted, w.Code)

	var run storage.BalanceRun
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &run))
	assert.NotEmpty(t, run.RunID)

	// Second start while running conflicts, unless the first finished already.
	w = do(r, http.MethodPost, "/api/runs", `{"iterations": 1, "battles_per_iteration": 1}`)
	assert.Contains(t, []int{http.StatusConflict, http.StatusAccepted}, w.Code)

	require.Eventually(t, func() bool {
		w := do(r, http.MethodGet, "/api/runs/"+run.RunID, "")
		if w.Code != http.StatusOK {
			return false
		}
		var got storage.BalanceRun
		if err := json.Unmarshal(w.Body.Bytes(), &got); err != nil {
			return false
		}
		return got.Status == storage.RunStatusCompleted
	}, 30*time.Second, 50*time.Millisecond)

	w = do(r, http.MethodGet, "/api/runs/"+run.RunID+"/report", "")
	require.Equal(t, http.StatusOK, w.Code)

	var rep service.RunReport
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &rep))
	assert.Equal(t, run.RunID, rep.Run.RunID)

	runner.Shutdown()
	w = do(r, http.MethodGet, "/api/balance/best", "")
	require.Equal(t, http.StatusOK, w.Code)
}

func TestGetRunNotFound(t *testing.T) {
	r, _ := newTestRouter(t)
	w := do(r, http.MethodGet, "/api/runs/does-not-exist", "")
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestBestBalanceBeforeAnyRun(t *testing.T) {
	r, _ := newTestRouter(t)
	w := do(r, http.MethodGet, "/api/balance/best", "")
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestLeaderboardBeforeAnyRun(t *testing.T) {
	r, _ := newTestRouter(t)
	w := do(r, http.MethodGet, "/api/cards/leaderboard", "")
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestSimulateBattle(t *testing.T) {
	r, _ := newTestRouter(t)

	w := do(r, http.MethodPost, "/api/battles/simulate?seed=11", "")
	require.Equal(t, http.StatusOK, w.Code)

	var res struct {
		Winner int      `json:"winner"`
		Turns  int      `json:"turns"`
		Log    []string `json:"log"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &res))
	assert.Contains(t, []int{0, 1}, res.Winner)
	assert.Greater(t, res.Turns, 0)
	assert.NotEmpty(t, res.Log)

	w = do(r, http.MethodPost, "/api/battles/simulate?seed=abc", "")
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestStartRunRejectsMalformedBody(t *testing.T) {
	r, _ := newTestRouter(t)
	w := do(r, http.MethodPost, "/api/runs", `{"iterations": "two"}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}
