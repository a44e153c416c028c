package http

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jmoiron/sqlx"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/readpref"
)

type HealthResponse struct {
	Status    string    `json:"status"`
	Timestamp time.Time `json:"timestamp"`
	Service   string    `json:"service"`
	Version   string    `json:"version"`
	MySQL     string    `json:"mysql,omitempty"`
	MongoDB   string    `json:"mongodb,omitempty"`
}

type HealthHandler struct {
	serviceName string
	version     string
	mysql       *sqlx.DB
	mongo       *mongo.Database
}

func NewHealthHandler(serviceName, version string, mysql *sqlx.DB, mongo *mongo.Database) *HealthHandler {
	return &HealthHandler{
		serviceName: serviceName,
		version:     version,
		mysql:       mysql,
		mongo:       mongo,
	}
}

func (h *HealthHandler) HealthCheck(c *gin.Context) {
	resp := HealthResponse{
		Status:    "healthy",
		Timestamp: time.Now().UTC(),
		Service:   h.serviceName,
		Version:   h.version,
		MySQL:     "disabled",
		MongoDB:   "disabled",
	}

	if h.mysql != nil {
		pingCtx, cancel := context.WithTimeout(c.Request.Context(), 1*time.Second)
		defer cancel()
		if err := h.mysql.PingContext(pingCtx); err != nil {
			resp.MySQL = "down"
		} else {
			resp.MySQL = "up"
		}
	}

	if h.mongo != nil {
		pingCtx, cancel := context.WithTimeout(c.Request.Context(), 1*time.Second)
		defer cancel()
		if err := h.mongo.Client().Ping(pingCtx, readpref.Primary()); err != nil {
			resp.MongoDB = "down"
		} else {
			resp.MongoDB = "up"
		}
	}

	c.JSON(http.StatusOK, resp)
}

func (h *HealthHandler) RegisterRoutes(r gin.IRouter) {
	r.GET("/health", h.HealthCheck)
	r.GET("/healthz", h.HealthCheck)
}
