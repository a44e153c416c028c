// Package items serves the item CRUD surface: every endpoint takes a
// backend selector and answers with the entity payload plus the timing
// metrics the dashboard charts.
package items

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	httpapi "github.com/databoard/databoard-backend/internal/api/http"
	"github.com/databoard/databoard-backend/internal/domain"
	"github.com/databoard/databoard-backend/internal/repository"
	"github.com/databoard/databoard-backend/internal/validation"
)

// dbHeader carries the backend selector on write requests, matching the
// dashboard client.
const dbHeader = "X-DB"

type Handler struct {
	repo *repository.Dispatcher
	log  zerolog.Logger
}

func Register(rg *gin.RouterGroup, repo *repository.Dispatcher, log zerolog.Logger) {
	h := &Handler{repo: repo, log: log}

	rg.GET("", h.list)
	rg.POST("", h.create)
	rg.PUT("", h.update)
	rg.DELETE("", h.delete)
}

type readMetrics struct {
	ReadTime float64        `json:"readTime"`
	DB       domain.Backend `json:"db"`
}

type writeMetrics struct {
	WriteTime float64        `json:"writeTime"`
	DB        domain.Backend `json:"db"`
}

// itemRequest tolerates both identifier shapes the dashboard sends:
// numeric ids from the relational rows and hex "_id" strings from the
// document store.
type itemRequest struct {
	ID      any      `json:"id"`
	MongoID string   `json:"_id"`
	Name    string   `json:"name"`
	Owner   string   `json:"owner"`
	Status  string   `json:"status"`
	Tags    []string `json:"tags"`
}

func (r *itemRequest) entity() *domain.Entity {
	return &domain.Entity{
		Name:   r.Name,
		Owner:  r.Owner,
		Status: r.Status,
		Tags:   r.Tags,
	}
}

func (r *itemRequest) recordID() string {
	if r.MongoID != "" {
		return r.MongoID
	}
	switch v := r.ID.(type) {
	case string:
		return v
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	default:
		return ""
	}
}

func (h *Handler) list(c *gin.Context) {
	backend, err := domain.ParseBackend(c.Query("db"))
	if err != nil {
		httpapi.RespondError(c, h.log, err)
		return
	}

	filter := repository.Filter{
		Search: c.Query("search"),
		Status: c.Query("status"),
	}

	list, m, err := h.repo.List(c.Request.Context(), backend, domain.ScopeItems, filter)
	if err != nil {
		httpapi.RespondError(c, h.log, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"items":   list,
		"metrics": readMetrics{ReadTime: m.DurationMS, DB: m.Backend},
	})
}

func (h *Handler) create(c *gin.Context) {
	backend, err := domain.ParseBackend(c.GetHeader(dbHeader))
	if err != nil {
		httpapi.RespondError(c, h.log, err)
		return
	}

	var req itemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	e := req.entity()
	if res := validation.Validate(e, domain.ScopeItems); !res.Valid {
		httpapi.RespondError(c, h.log, &domain.ValidationError{Reason: res.Error})
		return
	}

	created, m, err := h.repo.Create(c.Request.Context(), backend, domain.ScopeItems, e)
	if err != nil {
		httpapi.RespondError(c, h.log, err)
		return
	}

	c.JSON(http.StatusOK, itemResponse(created, writeMetrics{WriteTime: m.DurationMS, DB: m.Backend}))
}

func (h *Handler) update(c *gin.Context) {
	backend, err := domain.ParseBackend(c.GetHeader(dbHeader))
	if err != nil {
		httpapi.RespondError(c, h.log, err)
		return
	}

	var req itemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	e := req.entity()
	if res := validation.Validate(e, domain.ScopeItems); !res.Valid {
		httpapi.RespondError(c, h.log, &domain.ValidationError{Reason: res.Error})
		return
	}

	updated, m, err := h.repo.Update(c.Request.Context(), backend, domain.ScopeItems, req.recordID(), e)
	if err != nil {
		httpapi.RespondError(c, h.log, err)
		return
	}

	c.JSON(http.StatusOK, itemResponse(updated, writeMetrics{WriteTime: m.DurationMS, DB: m.Backend}))
}

func (h *Handler) delete(c *gin.Context) {
	backend, err := domain.ParseBackend(c.Query("db"))
	if err != nil {
		httpapi.RespondError(c, h.log, err)
		return
	}

	m, err := h.repo.Delete(c.Request.Context(), backend, domain.ScopeItems, c.Query("id"))
	if err != nil {
		httpapi.RespondError(c, h.log, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"metrics": writeMetrics{WriteTime: m.DurationMS, DB: m.Backend},
	})
}

func itemResponse(e *domain.Entity, m writeMetrics) gin.H {
	return gin.H{
		"id":        e.ID,
		"name":      e.Name,
		"owner":     e.Owner,
		"status":    e.Status,
		"tags":      e.Tags,
		"createdAt": e.CreatedAt,
		"updatedAt": e.UpdatedAt,
		"metrics":   m,
	}
}
