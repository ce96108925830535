package trending

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
)

type Handler struct {
	Svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{Svc: svc}
}

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("", h.get) // GET /trending
}

func (h *Handler) get(c *gin.Context) {
	limit := parseInt(c.Query("limit"), defaultLimit)

	res, err := h.Svc.GetTrending(c.Request.Context(), limit, c.Query("keywords"))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to fetch trending"})
		return
	}
	c.JSON(http.StatusOK, res)
}

func parseInt(s string, def int) int {
	if strings.TrimSpace(s) == "" {
		return def
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return def
	}
	return n
}
