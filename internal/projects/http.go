// Package projects serves the project CRUD surface. Unlike items, project
// listings answer with a bare entity array and writes answer with the entity
// alone — the dashboard's project views expect the original shapes.
package projects

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	httpapi "github.com/databoard/databoard-backend/internal/api/http"
	"github.com/databoard/databoard-backend/internal/domain"
	"github.com/databoard/databoard-backend/internal/repository"
	"github.com/databoard/databoard-backend/internal/validation"
)

type Handler struct {
	repo *repository.Dispatcher
	log  zerolog.Logger
}

func Register(rg *gin.RouterGroup, repo *repository.Dispatcher, log zerolog.Logger) {
	h := &Handler{repo: repo, log: log}

	rg.GET("", h.list)
	rg.POST("", h.create)
	rg.GET("/:id", h.get)
	rg.PUT("/:id", h.update)
	rg.DELETE("/:id", h.delete)
}

type projectRequest struct {
	Name   string   `json:"name"`
	Owner  string   `json:"owner"`
	Status string   `json:"status"`
	Tags   []string `json:"tags"`
}

func (r *projectRequest) entity() *domain.Entity {
	return &domain.Entity{
		Name:   r.Name,
		Owner:  r.Owner,
		Status: r.Status,
		Tags:   r.Tags,
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

	list, _, err := h.repo.List(c.Request.Context(), backend, domain.ScopeProjects, filter)
	if err != nil {
		httpapi.RespondError(c, h.log, err)
		return
	}

	c.JSON(http.StatusOK, list)
}

func (h *Handler) create(c *gin.Context) {
	backend, err := domain.ParseBackend(c.Query("db"))
	if err != nil {
		httpapi.RespondError(c, h.log, err)
		return
	}

	var req projectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	e := req.entity()
	if res := validation.Validate(e, domain.ScopeProjects); !res.Valid {
		httpapi.RespondError(c, h.log, &domain.ValidationError{Reason: res.Error})
		return
	}

	created, _, err := h.repo.Create(c.Request.Context(), backend, domain.ScopeProjects, e)
	if err != nil {
		httpapi.RespondError(c, h.log, err)
		return
	}

	c.JSON(http.StatusOK, created)
}

func (h *Handler) get(c *gin.Context) {
	backend, err := domain.ParseBackend(c.Query("db"))
	if err != nil {
		httpapi.RespondError(c, h.log, err)
		return
	}

	p, _, err := h.repo.Get(c.Request.Context(), backend, domain.ScopeProjects, c.Param("id"))
	if err != nil {
		h.respond(c, err)
		return
	}

	c.JSON(http.StatusOK, p)
}

func (h *Handler) update(c *gin.Context) {
	backend, err := domain.ParseBackend(c.Query("db"))
	if err != nil {
		httpapi.RespondError(c, h.log, err)
		return
	}

	var req projectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	e := req.entity()
	if res := validation.Validate(e, domain.ScopeProjects); !res.Valid {
		httpapi.RespondError(c, h.log, &domain.ValidationError{Reason: res.Error})
		return
	}

	updated, _, err := h.repo.Update(c.Request.Context(), backend, domain.ScopeProjects, c.Param("id"), e)
	if err != nil {
		h.respond(c, err)
		return
	}

	c.JSON(http.StatusOK, updated)
}

func (h *Handler) delete(c *gin.Context) {
	backend, err := domain.ParseBackend(c.Query("db"))
	if err != nil {
		httpapi.RespondError(c, h.log, err)
		return
	}

	_, err = h.repo.Delete(c.Request.Context(), backend, domain.ScopeProjects, c.Param("id"))
	if err != nil {
		h.respond(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true})
}

func (h *Handler) respond(c *gin.Context, err error) {
	if errors.Is(err, domain.ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "Project not found"})
		return
	}
	httpapi.RespondError(c, h.log, err)
}
