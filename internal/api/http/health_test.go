package http

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHealthCheck_NoBackends(t *testing.T) {
	gin.SetMode(gin.TestMode)

	r := gin.New()
	NewHealthHandler("databoard-api", "1.0.0", nil, nil).RegisterRoutes(r)

	req, err := http.NewRequest(http.MethodGet, "/health", nil)
	require.NoError(t, err)
	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, req)

	require.Equal(t, http.StatusOK, rr.Code)

	var resp HealthResponse
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	assert.Equal(t, "healthy", resp.Status)
	assert.Equal(t, "databoard-api", resp.Service)
	assert.Equal(t, "1.0.0", resp.Version)
	assert.Equal(t, "disabled", resp.MySQL)
	assert.Equal(t, "disabled", resp.MongoDB)
	assert.False(t, resp.Timestamp.IsZero())
}

func TestHealthCheck_AliasRoute(t *testing.T) {
	gin.SetMode(gin.TestMode)

	r := gin.New()
	NewHealthHandler("databoard-api", "1.0.0", nil, nil).RegisterRoutes(r)

	req, err := http.NewRequest(http.MethodGet, "/healthz", nil)
	require.NoError(t, err)
	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusOK, rr.Code)
}
