package metrics

import (
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func counterValue(t *testing.T, reg *prometheus.Registry, name string, labels map[string]string) float64 {
	t.Helper()
	families, err := reg.Gather()
	require.NoError(t, err)
	for _, mf := range families {
		if mf.GetName() != name {
			continue
		}
	metrics:
		for _, m := range mf.GetMetric() {
			for _, lp := range m.GetLabel() {
				if labels[lp.GetName()] != lp.GetValue() {
					continue metrics
				}
			}
			return m.GetCounter().GetValue()
		}
	}
	return 0
}

func TestServiceRecordsCounters(t *testing.T) {
	reg := prometheus.NewRegistry()
	s := NewService(reg)

	s.IncStandingsComputed("football")
	s.IncStandingsComputed("football")
	s.IncBracketsGenerated("basketball")
	s.AddMatchesCreated(4)
	s.IncScheduleConflicts()
	s.IncMatchTransitions("COMPLETED")
	s.IncSnapshotsPublished()
	s.ObserveStandingsDuration(0.02)

	assert.Equal(t, 2.0, counterValue(t, reg, "tournament_standings_computed_total", map[string]string{"sport": "football"}))
	assert.Equal(t, 1.0, counterValue(t, reg, "tournament_brackets_generated_total", map[string]string{"sport": "basketball"}))
	assert.Equal(t, 4.0, counterValue(t, reg, "tournament_matches_created_total", nil))
	assert.Equal(t, 1.0, counterValue(t, reg, "tournament_schedule_conflicts_total", nil))
	assert.Equal(t, 1.0, counterValue(t, reg, "tournament_match_transitions_total", map[string]string{"to": "COMPLETED"}))
	assert.Equal(t, 1.0, counterValue(t, reg, "tournament_snapshots_published_total", nil))
}

func TestMetricsHandlerExposesRegistry(t *testing.T) {
	reg := prometheus.NewRegistry()
	s := NewService(reg)
	s.AddMatchesCreated(2)

	rec := httptest.NewRecorder()
	NewMetricsHandler(reg).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	body, err := io.ReadAll(rec.Body)
	require.NoError(t, err)
	assert.True(t, strings.Contains(string(body), "tournament_matches_created_total 2"))
}

func TestMockCounts(t *testing.T) {
	m := NewMock()
	m.IncBracketsGenerated("football")
	m.AddMatchesCreated(4)
	m.AddMatchesCreated(2)
	m.IncMatchTransitions("POSTPONED")

	assert.Equal(t, 1, m.BracketsGenerated("football"))
	assert.Equal(t, 0, m.BracketsGenerated("basketball"))
	assert.Equal(t, 6, m.MatchesCreated())
	assert.Equal(t, 1, m.Transitions("POSTPONED"))
}
