package metrics

// Metrics is what the services report. Prometheus backs it in production,
// Mock in tests.
type Metrics interface {
	IncStandingsComputed(sport string)
	ObserveStandingsDuration(seconds float64)
	IncBracketsGenerated(sport string)
	AddMatchesCreated(n int)
	IncScheduleConflicts()
	IncMatchTransitions(to string)
	IncSnapshotsPublished()
}
