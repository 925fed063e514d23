package metrics

import (
	"context"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vango-dev/routetable/pkg/router"
)

func TestMetrics(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := New(WithRegistry(reg), WithNamespace("test"))

	m.TableLoaded(3, 12, 2*time.Millisecond)
	m.LoadFailed(2, time.Millisecond)
	m.Matched("/posts/$id", true, time.Microsecond)
	m.Matched("/posts/$id", true, time.Microsecond)
	m.Matched("", false, time.Microsecond)

	assert.Equal(t, float64(1), testutil.ToFloat64(m.loadsTotal.WithLabelValues("ok")))
	assert.Equal(t, float64(1), testutil.ToFloat64(m.loadsTotal.WithLabelValues("error")))
	assert.Equal(t, float64(2), testutil.ToFloat64(m.loadErrors))
	assert.Equal(t, float64(3), testutil.ToFloat64(m.generation))
	assert.Equal(t, float64(12), testutil.ToFloat64(m.routes))
	assert.Equal(t, float64(2), testutil.ToFloat64(m.matchesTotal.WithLabelValues("/posts/$id")))
	assert.Equal(t, float64(1), testutil.ToFloat64(m.missesTotal))
	assert.Equal(t, 1, testutil.CollectAndCount(m.matchDuration))

	n, err := testutil.GatherAndCount(reg, "test_loads_total", "test_match_duration_seconds")
	require.NoError(t, err)
	assert.Equal(t, 3, n)
}

func TestRegistryObserver(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := New(WithRegistry(reg))

	r := router.NewRegistry(router.WithObserver(m))
	_, err := r.Load(context.Background(), []string{"/", "/a/$id"})
	require.NoError(t, err)
	_, err = r.Load(context.Background(), []string{"/a", "/a"})
	require.Error(t, err)

	_, ok := r.Match("/a/1")
	require.True(t, ok)
	_, ok = r.Match("/b/c")
	require.False(t, ok)

	assert.Equal(t, float64(1), testutil.ToFloat64(m.generation))
	assert.Equal(t, float64(2), testutil.ToFloat64(m.routes))
	assert.Equal(t, float64(1), testutil.ToFloat64(m.loadErrors))
	assert.Equal(t, float64(1), testutil.ToFloat64(m.matchesTotal.WithLabelValues("/a/$id")))
	assert.Equal(t, float64(1), testutil.ToFloat64(m.missesTotal))
}
