package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type brokenCacheRepo struct{}

func (brokenCacheRepo) Get(ctx context.Context, key string, dest interface{}) error {
	return errors.New("connection refused")
}

func (brokenCacheRepo) Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	return errors.New("connection refused")
}

func (brokenCacheRepo) DeleteByPattern(ctx context.Context, pattern string) error {
	return errors.New("connection refused")
}

func TestCacheServiceDisabled(t *testing.T) {
	svc := NewCacheService(newMemoryCacheRepo(), nil, 0, nil, false)
	assert.False(t, svc.Enabled())

	var dest map[string]string
	hit, err := svc.Get(context.Background(), "k", &dest)
	assert.NoError(t, err)
	assert.False(t, hit)
	assert.NoError(t, svc.Set(context.Background(), "k", map[string]string{"a": "b"}, 0))

	var nilSvc *CacheService
	assert.False(t, nilSvc.Enabled())
}

func TestCacheServiceHitMissMetrics(t *testing.T) {
	metrics := NewMetricsService()
	svc := NewCacheService(newMemoryCacheRepo(), metrics, time.Minute, nil, true)
	ctx := context.Background()

	var dest map[string]string
	hit, err := svc.Get(ctx, "k", &dest)
	require.NoError(t, err)
	assert.False(t, hit)

	require.NoError(t, svc.Set(ctx, "k", map[string]string{"a": "b"}, 0))
	hit, err = svc.Get(ctx, "k", &dest)
	require.NoError(t, err)
	assert.True(t, hit)
	assert.Equal(t, "b", dest["a"])

	assert.Equal(t, float64(1), testutil.ToFloat64(metrics.cacheHits))
	assert.Equal(t, float64(1), testutil.ToFloat64(metrics.cacheMisses))
	assert.Equal(t, 0.5, testutil.ToFloat64(metrics.cacheHitRatio))

	require.NoError(t, svc.Invalidate(ctx, "k"))
	hit, err = svc.Get(ctx, "k", &dest)
	require.NoError(t, err)
	assert.False(t, hit)
}

func TestCacheServiceSurfacesBackendErrors(t *testing.T) {
	svc := NewCacheService(brokenCacheRepo{}, nil, 0, nil, true)
	ctx := context.Background()

	var dest map[string]string
	hit, err := svc.Get(ctx, "k", &dest)
	assert.Error(t, err)
	assert.False(t, hit)
	assert.Error(t, svc.Set(ctx, "k", "v", 0))
	assert.Error(t, svc.Invalidate(ctx, "*"))
}

func TestMetricsServiceDomainCounters(t *testing.T) {
	metrics := NewMetricsService()
	metrics.RecordTransitions("Approved", 3)
	metrics.RecordTransitions("Denied", 0)
	metrics.ObserveExport(4, 1, time.Second)
	metrics.RecordCatalogWrite(true)
	metrics.RecordCatalogWrite(false)

	assert.Equal(t, float64(3), testutil.ToFloat64(metrics.requestTransitions.WithLabelValues("Approved")))
	assert.Equal(t, float64(4), testutil.ToFloat64(metrics.exportRows))
	assert.Equal(t, float64(1), testutil.ToFloat64(metrics.exportDegraded))
	assert.Equal(t, float64(1), testutil.ToFloat64(metrics.catalogWrites.WithLabelValues("error")))

	var nilMetrics *MetricsService
	nilMetrics.ObserveExport(1, 1, time.Second)
	nilMetrics.RecordTransitions("Approved", 1)
}
