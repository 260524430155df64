package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/arenasim/arena-cards/internal/constants"
)

// NewRouter builds the gin engine with all API routes registered.
func NewRouter(h *RunHandler) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())

	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{constants.JSONKeyStatus: "ok"})
	})

	apiGroup := r.Group(constants.RouteAPIPrefix)
	{
		apiGroup.GET("/version", Version)
		apiGroup.GET(constants.RouteCards, h.ListCards)
		apiGroup.GET(constants.RouteCardLeaderboard, h.CardLeaderboard)
		apiGroup.POST(constants.RouteRuns, h.StartRun)
		apiGroup.GET(constants.RouteRuns, h.ListRuns)
		apiGroup.GET(constants.RouteRunByID, h.GetRun)
		apiGroup.GET(constants.RouteRunReport, h.GetReport)
		apiGroup.GET(constants.RouteBestBalance, h.BestBalance)
		apiGroup.POST(constants.RouteSimulateBattle, h.SimulateBattle)
	}
	return r
}
