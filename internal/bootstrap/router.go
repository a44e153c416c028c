package bootstrap

import (
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/jmoiron/sqlx"
	"github.com/rs/zerolog"
	"go.mongodb.org/mongo-driver/mongo"

	httpapi "github.com/databoard/databoard-backend/internal/api/http"
	"github.com/databoard/databoard-backend/internal/api/http/middleware"
	"github.com/databoard/databoard-backend/internal/items"
	"github.com/databoard/databoard-backend/internal/metrics"
	"github.com/databoard/databoard-backend/internal/perf"
	"github.com/databoard/databoard-backend/internal/projects"
	"github.com/databoard/databoard-backend/internal/repository"
)

type RouterDeps struct {
	ServiceName string
	Version     string
	Log         zerolog.Logger

	MySQL    *sqlx.DB
	Mongo    *mongo.Database
	Repo     *repository.Dispatcher
	Harness  *perf.Harness
	Recorder *metrics.Recorder
}

func SetGinMode(env string) {
	if env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
}

func BuildRouter(dep RouterDeps) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.RequestID(dep.Log))
	r.Use(cors.Default())

	healthHandler := httpapi.NewHealthHandler(dep.ServiceName, dep.Version, dep.MySQL, dep.Mongo)
	healthHandler.RegisterRoutes(r)

	api := r.Group("/api")

	items.Register(api.Group("/items"), dep.Repo, dep.Log)
	projects.Register(api.Group("/projects"), dep.Repo, dep.Log)
	perf.Register(api.Group("/performance"), dep.Harness, dep.Log)
	metrics.Register(api.Group("/metrics"), dep.Recorder, dep.Log)

	return r
}
