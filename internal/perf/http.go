package perf

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	httpapi "github.com/databoard/databoard-backend/internal/api/http"
	"github.com/databoard/databoard-backend/internal/domain"
)

type Handler struct {
	harness *Harness
	log     zerolog.Logger
}

func Register(rg *gin.RouterGroup, harness *Harness, log zerolog.Logger) {
	h := &Handler{harness: harness, log: log}

	rg.GET("/measure", h.measure)
	rg.GET("/explain", h.explain)
}

func (h *Handler) measure(c *gin.Context) {
	backend, err := domain.ParseBackend(c.Query("db"))
	if err != nil {
		httpapi.RespondError(c, h.log, err)
		return
	}

	templateID := c.DefaultQuery("query", "active_owner")
	iterations, _ := strconv.Atoi(c.DefaultQuery("iterations", "10"))

	result, err := h.harness.Measure(c.Request.Context(), backend, templateID, iterations)
	if err != nil {
		httpapi.RespondError(c, h.log, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

func (h *Handler) explain(c *gin.Context) {
	backend, err := domain.ParseBackend(c.Query("db"))
	if err != nil {
		httpapi.RespondError(c, h.log, err)
		return
	}

	templateID := c.DefaultQuery("query", "active_owner")

	result, err := h.harness.Explain(c.Request.Context(), backend, templateID)
	if err != nil {
		httpapi.RespondError(c, h.log, err)
		return
	}

	c.JSON(http.StatusOK, result)
}
