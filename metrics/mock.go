package metrics

import "sync"

// Mock is a mock implementation of the Metrics interface for testing.
// It is safe for concurrent use.
type Mock struct {
	mu                 sync.Mutex
	standingsComputed  map[string]int
	durations          []float64
	bracketsGenerated  map[string]int
	matchesCreated     int
	scheduleConflicts  int
	transitions        map[string]int
	snapshotsPublished int
}

// NewMock creates a new mock instance.
func NewMock() *Mock {
	return &Mock{
		standingsComputed: make(map[string]int),
		bracketsGenerated: make(map[string]int),
		transitions:       make(map[string]int),
	}
}

func (m *Mock) IncStandingsComputed(sport string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.standingsComputed[sport]++
}

func (m *Mock) ObserveStandingsDuration(seconds float64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.durations = append(m.durations, seconds)
}

func (m *Mock) IncBracketsGenerated(sport string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.bracketsGenerated[sport]++
}

func (m *Mock) AddMatchesCreated(n int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.matchesCreated += n
}

func (m *Mock) IncScheduleConflicts() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.scheduleConflicts++
}

func (m *Mock) IncMatchTransitions(to string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.transitions[to]++
}

func (m *Mock) IncSnapshotsPublished() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.snapshotsPublished++
}

// StandingsComputed returns how many tables were computed for a sport.
func (m *Mock) StandingsComputed(sport string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.standingsComputed[sport]
}

// Durations returns every observed standings duration.
func (m *Mock) Durations() []float64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]float64(nil), m.durations...)
}

// BracketsGenerated returns how many brackets were generated for a sport.
func (m *Mock) BracketsGenerated(sport string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.bracketsGenerated[sport]
}

// MatchesCreated returns the sum passed to AddMatchesCreated.
func (m *Mock) MatchesCreated() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.matchesCreated
}

// ScheduleConflicts returns the number of times IncScheduleConflicts was called.
func (m *Mock) ScheduleConflicts() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.scheduleConflicts
}

// Transitions returns the number of transitions into a state.
func (m *Mock) Transitions(to string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.transitions[to]
}

// SnapshotsPublished returns the number of times IncSnapshotsPublished was called.
func (m *Mock) SnapshotsPublished() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.snapshotsPublished
}
