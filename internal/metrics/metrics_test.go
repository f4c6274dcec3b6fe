package metrics

import (
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRecordUpstreamCall(t *testing.T) {
	reg := prometheus.NewRegistry()
	c := NewCollector(reg)

	c.RecordUpstreamCall("users_me_guilds", OutcomeOK, 20*time.Millisecond)
	c.RecordUpstreamCall("users_me_guilds", OutcomeOK, 30*time.Millisecond)
	c.RecordUpstreamCall("users_me_guilds", OutcomeTimeout, 10*time.Second)

	assert.Equal(t, 2.0, testutil.ToFloat64(c.upstreamCalls.WithLabelValues("users_me_guilds", OutcomeOK)))
	assert.Equal(t, 1.0, testutil.ToFloat64(c.upstreamCalls.WithLabelValues("users_me_guilds", OutcomeTimeout)))
	assert.Equal(t, 1, testutil.CollectAndCount(c.upstreamLatency))
}

func TestRecordAuthorization(t *testing.T) {
	reg := prometheus.NewRegistry()
	c := NewCollector(reg)

	c.RecordAuthorization(DecisionAllow)
	c.RecordAuthorization(DecisionDeny)
	c.RecordAuthorization(DecisionDeny)

	assert.Equal(t, 1.0, testutil.ToFloat64(c.authorizations.WithLabelValues(DecisionAllow)))
	assert.Equal(t, 2.0, testutil.ToFloat64(c.authorizations.WithLabelValues(DecisionDeny)))
	assert.Equal(t, 0.0, testutil.ToFloat64(c.authorizations.WithLabelValues(DecisionError)))
}

func TestRecordModuleWriteConflict(t *testing.T) {
	reg := prometheus.NewRegistry()
	c := NewCollector(reg)

	c.RecordModuleWriteConflict()

	assert.Equal(t, 1.0, testutil.ToFloat64(c.writeConflicts))
}

func TestRecordHTTPRequest(t *testing.T) {
	reg := prometheus.NewRegistry()
	c := NewCollector(reg)

	c.RecordHTTPRequest(http.MethodGet, "/guild/{id}", http.StatusOK, time.Millisecond)
	c.RecordHTTPRequest(http.MethodGet, "/guild/{id}", http.StatusForbidden, time.Millisecond)

	assert.Equal(t, 1.0, testutil.ToFloat64(c.httpRequests.WithLabelValues(http.MethodGet, "/guild/{id}", "200")))
	assert.Equal(t, 1.0, testutil.ToFloat64(c.httpRequests.WithLabelValues(http.MethodGet, "/guild/{id}", "403")))
}

func TestHandler_ServesMetrics(t *testing.T) {
	reg := prometheus.NewRegistry()
	c := NewCollector(reg)
	c.RecordModuleWriteConflict()

	srv := httptest.NewServer(Handler(reg))
	defer srv.Close()

	resp, err := http.Get(srv.URL)
	require.NoError(t, err)
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.True(t, strings.Contains(string(body), "guildpanel_module_write_conflicts_total 1"))
}

func TestNop_SatisfiesRecorder(t *testing.T) {
	var r Recorder = Nop{}
	r.RecordUpstreamCall("x", OutcomeOK, 0)
	r.RecordAuthorization(DecisionAllow)
	r.RecordModuleWriteConflict()
	r.RecordHTTPRequest(http.MethodGet, "/", http.StatusOK, 0)
}

var _ Recorder = (*Collector)(nil)
