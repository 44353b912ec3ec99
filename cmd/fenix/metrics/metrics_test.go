package metrics

import (
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/SanteonNL/queryfilter/cmd/fenix/types"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestObserverCounts(t *testing.T) {
	reg := prometheus.NewRegistry()
	o := NewObserver(reg)

	o.FilterApplied("name", types.OpLike, "%a%", "default")
	o.FilterApplied("age", types.OpEqual, int64(3), "default")
	o.FilterApplied("age", types.OpEqual, int64(4), "default")
	o.FilterApplied("order_desc", "", "id", "order_desc")
	o.FilterIgnored("nope", "unknown-column")
	o.FilterIgnored("other", "")
	o.IncRequests("patients", "200")

	assert.Equal(t, 1.0, testutil.ToFloat64(o.applied.WithLabelValues("default", "LIKE")))
	assert.Equal(t, 2.0, testutil.ToFloat64(o.applied.WithLabelValues("default", "=")))
	assert.Equal(t, 1.0, testutil.ToFloat64(o.applied.WithLabelValues("order_desc", "")))
	assert.Equal(t, 1.0, testutil.ToFloat64(o.ignored.WithLabelValues("unknown-column")))
	assert.Equal(t, 1.0, testutil.ToFloat64(o.ignored.WithLabelValues("unknown")))
	assert.Equal(t, 1.0, testutil.ToFloat64(o.requests.WithLabelValues("patients", "200")))
}

func TestHandler(t *testing.T) {
	reg := prometheus.NewRegistry()
	o := NewObserver(reg)
	o.FilterIgnored("nope", "unknown-column")

	srv := httptest.NewServer(Handler(reg))
	defer srv.Close()

	resp, err := http.Get(srv.URL)
	require.NoError(t, err)
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, string(body), `queryfilter_filters_ignored_total{reason="unknown-column"} 1`)
}
