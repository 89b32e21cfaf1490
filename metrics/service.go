package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var _ Metrics = (*Service)(nil)

// NewMetricsHandler returns an http.Handler for the given Gatherer.
// If no gatherer is provided, it uses the default one.
func NewMetricsHandler(gatherer ...prometheus.Gatherer) http.Handler {
	gath := prometheus.DefaultGatherer
	if len(gatherer) > 0 {
		gath = gatherer[0]
	}
	return promhttp.HandlerFor(gath, promhttp.HandlerOpts{})
}

// NewService creates and registers the collectors.
// If no registerer is provided, it uses the default Prometheus registerer.
func NewService(registerer ...prometheus.Registerer) *Service {
	reg := prometheus.DefaultRegisterer
	if len(registerer) > 0 {
		reg = registerer[0]
	}

	s := &Service{
		StandingsComputed: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "tournament_standings_computed_total",
			Help: "Standings tables computed, by sport.",
		}, []string{"sport"}),
		StandingsDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "tournament_standings_duration_seconds",
			Help:    "Time spent loading and ranking a standings table.",
			Buckets: []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5},
		}),
		BracketsGenerated: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "tournament_brackets_generated_total",
			Help: "Knockout brackets generated, by sport.",
		}, []string{"sport"}),
		MatchesCreated: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "tournament_matches_created_total",
			Help: "Matches created, manually or by a generator.",
		}),
		ScheduleConflicts: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "tournament_schedule_conflicts_total",
			Help: "Schedules rejected because the venue slot was taken.",
		}),
		MatchTransitions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "tournament_match_transitions_total",
			Help: "Match lifecycle transitions, by target state.",
		}, []string{"to"}),
		SnapshotsPublished: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "tournament_snapshots_published_total",
			Help: "Standings snapshots uploaded to object storage.",
		}),
	}

	reg.MustRegister(
		s.StandingsComputed,
		s.StandingsDuration,
		s.BracketsGenerated,
		s.MatchesCreated,
		s.ScheduleConflicts,
		s.MatchTransitions,
		s.SnapshotsPublished,
	)

	return s
}

func (s *Service) IncStandingsComputed(sport string) {
	s.StandingsComputed.WithLabelValues(sport).Inc()
}

func (s *Service) ObserveStandingsDuration(seconds float64) {
	s.StandingsDuration.Observe(seconds)
}

func (s *Service) IncBracketsGenerated(sport string) {
	s.BracketsGenerated.WithLabelValues(sport).Inc()
}

func (s *Service) AddMatchesCreated(n int) {
	s.MatchesCreated.Add(float64(n))
}

func (s *Service) IncScheduleConflicts() {
	s.ScheduleConflicts.Inc()
}

func (s *Service) IncMatchTransitions(to string) {
	s.MatchTransitions.WithLabelValues(to).Inc()
}

func (s *Service) IncSnapshotsPublished() {
	s.SnapshotsPublished.Inc()
}
