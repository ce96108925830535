package admin

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"trendhub/internal/pipeline"
)

// Handler exposes the aggregation trigger. The route is registered on
// an auth-guarded group; GET matches the cron-invocation contract, so
// any other method 404s at the router.
type Handler struct {
	Runner *pipeline.Runner
	Log    *logrus.Logger
}

func NewHandler(runner *pipeline.Runner, log *logrus.Logger) *Handler {
	return &Handler{Runner: runner, Log: log}
}

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/refresh", h.refresh) // GET /admin/refresh
}

func (h *Handler) refresh(c *gin.Context) {
	snap, err := h.Runner.Run(c.Request.Context())
	if errors.Is(err, pipeline.ErrNoData) {
		// nothing to aggregate is not a crash
		c.JSON(http.StatusOK, gin.H{
			"status":  "no_data",
			"message": "no observations from any source",
		})
		return
	}
	if err != nil {
		h.Log.Errorf("[admin] aggregation run failed: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "aggregation failed"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status":       "ok",
		"snapshot_id":  snap.ID,
		"total_items":  snap.TotalItems,
		"generated_at": snap.GeneratedAt,
	})
}
