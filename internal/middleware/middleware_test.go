package middleware

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"github.com/noah-isme/class-creator-api/internal/models"
	"github.com/noah-isme/class-creator-api/internal/service"
	appErrors "github.com/noah-isme/class-creator-api/pkg/errors"
)

type validatorStub struct {
	claims *models.JWTClaims
}

func (v validatorStub) ValidateToken(token string) (*models.JWTClaims, error) {
	if token != "good" {
		return nil, appErrors.Clone(appErrors.ErrUnauthorized, "invalid token")
	}
	return v.claims, nil
}

func newRouter(handlers ...gin.HandlerFunc) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/resource/:id", handlers...)
	return r
}

func ok(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"ok": true})
}

func do(r http.Handler, header string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/resource/42", nil)
	if header != "" {
		req.Header.Set("Authorization", header)
	}
	r.ServeHTTP(w, req)
	return w
}

func TestJWTMiddleware(t *testing.T) {
	claims := &models.JWTClaims{Username: "admin", Role: models.RoleAdmin}
	r := newRouter(JWT(validatorStub{claims: claims}), func(c *gin.Context) {
		value, exists := c.Get(ContextUserKey)
		require.True(t, exists)
		assert.Equal(t, claims, value)
		ok(c)
	})

	assert.Equal(t, http.StatusUnauthorized, do(r, "").Code)
	assert.Equal(t, http.StatusUnauthorized, do(r, "Token good").Code)
	assert.Equal(t, http.StatusUnauthorized, do(r, "Bearer bad").Code)
	assert.Equal(t, http.StatusOK, do(r, "Bearer good").Code)
	assert.Equal(t, http.StatusOK, do(r, "bearer good").Code)
}

func TestRequireRoles(t *testing.T) {
	requester := &models.JWTClaims{Username: "user", Role: models.RoleRequester}
	admin := &models.JWTClaims{Username: "admin", Role: models.RoleAdmin}

	r := newRouter(JWT(validatorStub{claims: requester}), RequireRoles(models.RoleAdmin), ok)
	w := do(r, "Bearer good")
	assert.Equal(t, http.StatusForbidden, w.Code)

	var body map[string]map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, appErrors.ErrForbidden.Code, body["error"]["code"])

	r = newRouter(JWT(validatorStub{claims: admin}), RequireRoles(models.RoleAdmin), ok)
	assert.Equal(t, http.StatusOK, do(r, "Bearer good").Code)

	r = newRouter(RequireRoles(models.RoleAdmin), ok)
	assert.Equal(t, http.StatusUnauthorized, do(r, "").Code)
}

func TestAuditLogsSuccessfulRequests(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)
	logger := zap.New(core)
	claims := &models.JWTClaims{Username: "admin", Role: models.RoleAdmin}

	r := newRouter(JWT(validatorStub{claims: claims}), Audit(logger, "request.approve"), ok)
	require.Equal(t, http.StatusOK, do(r, "Bearer good").Code)
	require.Equal(t, 1, logs.Len())
	entry := logs.All()[0]
	assert.Equal(t, "request.approve", entry.Message)
	assert.Equal(t, "admin", entry.ContextMap()["actor"])
	assert.Equal(t, "42", entry.ContextMap()["target"])

	failing := newRouter(Audit(logger, "request.deny"), func(c *gin.Context) { c.Status(http.StatusConflict) })
	do(failing, "")
	assert.Equal(t, 1, logs.Len())
}

func TestResponseMeta(t *testing.T) {
	var meta map[string]interface{}
	r := newRouter(WithResponseMeta(), func(c *gin.Context) {
		SetMeta(c, "cache_hit", true)
		meta = ExtractMeta(c)
		ok(c)
	})
	do(r, "")
	require.NotNil(t, meta)
	assert.Equal(t, true, meta["cache_hit"])
	assert.Contains(t, meta, "processing_time_ms")
}

func TestMetricsMiddleware(t *testing.T) {
	metrics := service.NewMetricsService()
	r := newRouter(Metrics(metrics), ok)
	do(r, "")
	do(r, "")

	count, err := testutil.GatherAndCount(metrics.Registry(), "http_requests_total")
	require.NoError(t, err)
	assert.Equal(t, 1, count)

	r = newRouter(Metrics(nil), ok)
	assert.Equal(t, http.StatusOK, do(r, "").Code)
}

func TestMetricsMiddlewareCollapsesUnknownPaths(t *testing.T) {
	gin.SetMode(gin.TestMode)
	metrics := service.NewMetricsService()
	r := gin.New()
	r.Use(Metrics(metrics))
	r.GET("/metrics", ok)

	for _, path := range []string{"/exports/token-a", "/exports/token-b", "/metrics"} {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, path, nil))
	}

	count, err := testutil.GatherAndCount(metrics.Registry(), "http_requests_total")
	require.NoError(t, err)
	assert.Equal(t, 1, count)
}
