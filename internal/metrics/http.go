package metrics

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	httpapi "github.com/databoard/databoard-backend/internal/api/http"
	"github.com/databoard/databoard-backend/internal/domain"
)

type Handler struct {
	recorder *Recorder
	log      zerolog.Logger
}

func Register(rg *gin.RouterGroup, recorder *Recorder, log zerolog.Logger) {
	h := &Handler{recorder: recorder, log: log}

	rg.GET("/recent", h.recent)
}

func (h *Handler) recent(c *gin.Context) {
	backend, err := domain.ParseBackend(c.Query("db"))
	if err != nil {
		httpapi.RespondError(c, h.log, err)
		return
	}

	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "100"))

	samples, err := h.recorder.Recent(c.Request.Context(), backend, limit)
	if err != nil {
		httpapi.RespondError(c, h.log, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"db":      backend,
		"samples": samples,
	})
}
