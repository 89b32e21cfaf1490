package metrics

import "github.com/prometheus/client_golang/prometheus"

// Service holds the Prometheus collectors of the engine.
type Service struct {
	StandingsComputed  *prometheus.CounterVec
	StandingsDuration  prometheus.Histogram
	BracketsGenerated  *prometheus.CounterVec
	MatchesCreated     prometheus.Counter
	ScheduleConflicts  prometheus.Counter
	MatchTransitions   *prometheus.CounterVec
	SnapshotsPublished prometheus.Counter
}
