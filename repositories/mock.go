package repositories

import (
	"cmp"
	"context"
	"maps"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/Dosada05/tournament-engine/models"
)

// MemoryStore is an in-memory implementation of every repository in this
// package. It backs the service and handler tests. Transactions snapshot the
// whole store and restore it when the callback fails.
type MemoryStore struct {
	mu     sync.Mutex
	nextID int

	tournaments map[int]models.Tournament
	groups      map[int]models.Group
	phases      map[int]models.Phase
	teams       map[int]models.Team
	matches     map[int]models.Match
	links       map[int]models.MatchTeamLink
	eventTypes  map[int]models.EventType
	events      map[int]models.NegativeEvent

	failures map[string]*injectedFailure
	calls    map[string]int
}

type injectedFailure struct {
	after int
	err   error
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		tournaments: make(map[int]models.Tournament),
		groups:      make(map[int]models.Group),
		phases:      make(map[int]models.Phase),
		teams:       make(map[int]models.Team),
		matches:     make(map[int]models.Match),
		links:       make(map[int]models.MatchTeamLink),
		eventTypes:  make(map[int]models.EventType),
		events:      make(map[int]models.NegativeEvent),
		failures:    make(map[string]*injectedFailure),
		calls:       make(map[string]int),
	}
}

// FailAfter makes the named operation ("CreateMatch", "CreateTeamLink", ...)
// return err once it has succeeded `after` times.
func (s *MemoryStore) FailAfter(op string, after int, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.failures[op] = &injectedFailure{after: after, err: err}
}

// Calls returns how many times an operation was invoked.
func (s *MemoryStore) Calls(op string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.calls[op]
}

// must be called with mu held
func (s *MemoryStore) record(op string) error {
	s.calls[op]++
	if f, ok := s.failures[op]; ok && s.calls[op] > f.after {
		return f.err
	}
	return nil
}

func (s *MemoryStore) id() int {
	s.nextID++
	return s.nextID
}

// Seeding helpers.

func (s *MemoryStore) AddTournament(name, sport string) models.Tournament {
	s.mu.Lock()
	defer s.mu.Unlock()
	t := models.Tournament{ID: s.id(), Name: name, SportName: sport}
	s.tournaments[t.ID] = t
	return t
}

func (s *MemoryStore) AddGroup(tournamentID int, name string) models.Group {
	s.mu.Lock()
	defer s.mu.Unlock()
	g := models.Group{ID: s.id(), TournamentID: tournamentID, Name: name}
	s.groups[g.ID] = g
	return g
}

func (s *MemoryStore) AddPhase(tournamentID int, name string) models.Phase {
	s.mu.Lock()
	defer s.mu.Unlock()
	p := models.Phase{ID: s.id(), TournamentID: tournamentID, Name: name}
	s.phases[p.ID] = p
	return p
}

func (s *MemoryStore) AddTeam(tournamentID int, name string, groupID *int) models.Team {
	s.mu.Lock()
	defer s.mu.Unlock()
	t := models.Team{ID: s.id(), TournamentID: tournamentID, Name: name, GroupID: groupID}
	s.teams[t.ID] = t
	return t
}

func (s *MemoryStore) AddEventType(name string, weight int, requiresPlayer bool) models.EventType {
	s.mu.Lock()
	defer s.mu.Unlock()
	et := models.EventType{ID: s.id(), Name: name, PenaltyWeight: weight, RequiresPlayer: requiresPlayer}
	s.eventTypes[et.ID] = et
	return et
}

// AddMatch stores m and its links as given; ids are assigned.
func (s *MemoryStore) AddMatch(m models.Match) models.Match {
	s.mu.Lock()
	defer s.mu.Unlock()
	m.ID = s.id()
	if m.Status == "" {
		m.Status = models.StatusScheduled
	}
	links := m.Links
	m.Links = nil
	s.matches[m.ID] = m
	for _, l := range links {
		l.ID = s.id()
		l.MatchID = m.ID
		s.links[l.ID] = l
	}
	return s.matchWithLinks(m)
}

func (s *MemoryStore) Tournaments() TournamentRepository { return memoryTournaments{s} }
func (s *MemoryStore) Groups() GroupRepository           { return memoryGroups{s} }
func (s *MemoryStore) Phases() PhaseRepository           { return memoryPhases{s} }
func (s *MemoryStore) Teams() TeamRepository             { return memoryTeams{s} }
func (s *MemoryStore) Matches() MatchRepository          { return memoryMatches{s} }
func (s *MemoryStore) Events() EventRepository           { return memoryEvents{s} }

type memorySnapshot struct {
	nextID      int
	tournaments map[int]models.Tournament
	groups      map[int]models.Group
	phases      map[int]models.Phase
	teams       map[int]models.Team
	matches     map[int]models.Match
	links       map[int]models.MatchTeamLink
	eventTypes  map[int]models.EventType
	events      map[int]models.NegativeEvent
}

// WithinTransaction implements Transactor.
func (s *MemoryStore) WithinTransaction(ctx context.Context, fn func(ctx context.Context, exec SQLExecutor) error) error {
	s.mu.Lock()
	snap := memorySnapshot{
		nextID:      s.nextID,
		tournaments: maps.Clone(s.tournaments),
		groups:      maps.Clone(s.groups),
		phases:      maps.Clone(s.phases),
		teams:       maps.Clone(s.teams),
		matches:     maps.Clone(s.matches),
		links:       maps.Clone(s.links),
		eventTypes:  maps.Clone(s.eventTypes),
		events:      maps.Clone(s.events),
	}
	s.mu.Unlock()

	if err := fn(ctx, nil); err != nil {
		s.mu.Lock()
		s.nextID = snap.nextID
		s.tournaments = snap.tournaments
		s.groups = snap.groups
		s.phases = snap.phases
		s.teams = snap.teams
		s.matches = snap.matches
		s.links = snap.links
		s.eventTypes = snap.eventTypes
		s.events = snap.events
		s.mu.Unlock()
		return err
	}
	return nil
}

// must be called with mu held
func (s *MemoryStore) matchWithLinks(m models.Match) models.Match {
	m.PhaseName = s.phases[m.PhaseID].Name
	m.Links = nil
	for _, id := range slices.Sorted(maps.Keys(s.links)) {
		l := s.links[id]
		if l.MatchID == m.ID {
			l.TeamName = s.teams[l.TeamID].Name
			m.Links = append(m.Links, l)
		}
	}
	return m
}

func (s *MemoryStore) sortedMatches(keep func(models.Match) bool) []models.Match {
	out := make([]models.Match, 0)
	for _, m := range s.matches {
		if keep(m) {
			out = append(out, s.matchWithLinks(m))
		}
	}
	slices.SortFunc(out, func(a, b models.Match) int {
		switch {
		case a.Date != nil && b.Date != nil:
			if c := a.Date.Compare(*b.Date); c != 0 {
				return c
			}
		case a.Date != nil:
			return -1
		case b.Date != nil:
			return 1
		}
		return cmp.Compare(a.ID, b.ID)
	})
	return out
}

type memoryTournaments struct{ s *MemoryStore }

func (r memoryTournaments) GetByID(_ context.Context, id int) (*models.Tournament, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	t, ok := r.s.tournaments[id]
	if !ok {
		return nil, ErrTournamentNotFound
	}
	return &t, nil
}

type memoryGroups struct{ s *MemoryStore }

func (r memoryGroups) GetByID(_ context.Context, id int) (*models.Group, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	g, ok := r.s.groups[id]
	if !ok {
		return nil, ErrGroupNotFound
	}
	return &g, nil
}

func (r memoryGroups) ListByTournament(_ context.Context, tournamentID int) ([]models.Group, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	out := make([]models.Group, 0)
	for _, g := range r.s.groups {
		if g.TournamentID == tournamentID {
			out = append(out, g)
		}
	}
	slices.SortFunc(out, func(a, b models.Group) int {
		if c := cmp.Compare(a.Name, b.Name); c != 0 {
			return c
		}
		return cmp.Compare(a.ID, b.ID)
	})
	return out, nil
}

type memoryPhases struct{ s *MemoryStore }

func (r memoryPhases) GetByID(_ context.Context, id int) (*models.Phase, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	p, ok := r.s.phases[id]
	if !ok {
		return nil, ErrPhaseNotFound
	}
	return &p, nil
}

func (r memoryPhases) FindByName(_ context.Context, tournamentID int, name string) (*models.Phase, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, id := range slices.Sorted(maps.Keys(r.s.phases)) {
		p := r.s.phases[id]
		if p.TournamentID == tournamentID && strings.EqualFold(p.Name, name) {
			return &p, nil
		}
	}
	return nil, ErrPhaseNotFound
}

type memoryTeams struct{ s *MemoryStore }

func (r memoryTeams) withGroupName(t models.Team) models.Team {
	if t.GroupID != nil {
		if g, ok := r.s.groups[*t.GroupID]; ok {
			name := g.Name
			t.GroupName = &name
		}
	}
	return t
}

func (r memoryTeams) GetByID(_ context.Context, id int) (*models.Team, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	t, ok := r.s.teams[id]
	if !ok {
		return nil, ErrTeamNotFound
	}
	t = r.withGroupName(t)
	return &t, nil
}

func (r memoryTeams) ListByTournament(_ context.Context, tournamentID int, groupID *int) ([]models.Team, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	out := make([]models.Team, 0)
	for _, t := range r.s.teams {
		if t.TournamentID != tournamentID {
			continue
		}
		if groupID != nil && (t.GroupID == nil || *t.GroupID != *groupID) {
			continue
		}
		out = append(out, r.withGroupName(t))
	}
	slices.SortFunc(out, func(a, b models.Team) int {
		if c := cmp.Compare(a.Name, b.Name); c != 0 {
			return c
		}
		return cmp.Compare(a.ID, b.ID)
	})
	return out, nil
}

type memoryMatches struct{ s *MemoryStore }

func (r memoryMatches) Create(_ context.Context, _ SQLExecutor, match *models.Match) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if err := r.s.record("CreateMatch"); err != nil {
		return err
	}
	if _, ok := r.s.tournaments[match.TournamentID]; !ok {
		return ErrMatchTournamentInvalid
	}
	if _, ok := r.s.phases[match.PhaseID]; !ok {
		return ErrMatchTournamentInvalid
	}
	match.ID = r.s.id()
	match.CreatedAt = time.Now()
	stored := *match
	stored.Links = nil
	r.s.matches[match.ID] = stored
	return nil
}

func (r memoryMatches) GetByID(_ context.Context, id int) (*models.Match, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	m, ok := r.s.matches[id]
	if !ok {
		return nil, ErrMatchNotFound
	}
	m = r.s.matchWithLinks(m)
	return &m, nil
}

func (r memoryMatches) ListByTournament(_ context.Context, tournamentID int, groupID *int) ([]models.Match, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return r.s.sortedMatches(func(m models.Match) bool {
		if m.TournamentID != tournamentID {
			return false
		}
		return groupID == nil || (m.GroupID != nil && *m.GroupID == *groupID)
	}), nil
}

func (r memoryMatches) ListByPhase(_ context.Context, tournamentID int, phaseName string) ([]models.Match, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return r.s.sortedMatches(func(m models.Match) bool {
		return m.TournamentID == tournamentID && strings.EqualFold(r.s.phases[m.PhaseID].Name, phaseName)
	}), nil
}

func (r memoryMatches) FindSlotConflict(_ context.Context, tournamentID int, date time.Time, timeOfDay string, venueID int, excludeMatchID int) (*int, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, id := range slices.Sorted(maps.Keys(r.s.matches)) {
		m := r.s.matches[id]
		if m.ID == excludeMatchID || m.TournamentID != tournamentID || !m.IsScheduled() {
			continue
		}
		if m.Date.Equal(date) && *m.Time == timeOfDay && *m.VenueID == venueID {
			return &id, nil
		}
	}
	return nil, nil
}

func (r memoryMatches) UpdateSchedule(_ context.Context, _ SQLExecutor, match *models.Match) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	m, ok := r.s.matches[match.ID]
	if !ok {
		return ErrMatchNotFound
	}
	m.Date, m.Time, m.VenueID = match.Date, match.Time, match.VenueID
	m.Round, m.RefereeID, m.Notes = match.Round, match.RefereeID, match.Notes
	r.s.matches[m.ID] = m
	return nil
}

func (r memoryMatches) UpdateStatus(_ context.Context, _ SQLExecutor, id int, status models.MatchStatus) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	m, ok := r.s.matches[id]
	if !ok {
		return ErrMatchNotFound
	}
	m.Status = status
	r.s.matches[id] = m
	return nil
}

func (r memoryMatches) CreateTeamLink(_ context.Context, _ SQLExecutor, link *models.MatchTeamLink) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if err := r.s.record("CreateTeamLink"); err != nil {
		return err
	}
	if _, ok := r.s.matches[link.MatchID]; !ok {
		return ErrMatchNotFound
	}
	if _, ok := r.s.teams[link.TeamID]; !ok {
		return ErrMatchTeamInvalid
	}
	for _, l := range r.s.links {
		if l.MatchID == link.MatchID && l.TeamID == link.TeamID {
			return ErrMatchTeamDuplicate
		}
	}
	link.ID = r.s.id()
	r.s.links[link.ID] = *link
	return nil
}

func (r memoryMatches) GetTeamLink(_ context.Context, id int) (*models.MatchTeamLink, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	l, ok := r.s.links[id]
	if !ok {
		return nil, ErrMatchTeamLinkNotFound
	}
	l.TeamName = r.s.teams[l.TeamID].Name
	return &l, nil
}

func (r memoryMatches) DeleteTeamLinks(_ context.Context, _ SQLExecutor, matchID int) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for id, l := range r.s.links {
		if l.MatchID == matchID {
			delete(r.s.links, id)
		}
	}
	return nil
}

func (r memoryMatches) UpdateTeamLinkResult(_ context.Context, _ SQLExecutor, linkID int, score *int, result *models.ResultCategory) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if err := r.s.record("UpdateTeamLinkResult"); err != nil {
		return err
	}
	l, ok := r.s.links[linkID]
	if !ok {
		return ErrMatchTeamLinkNotFound
	}
	l.Score, l.Result = score, result
	r.s.links[linkID] = l
	return nil
}

type memoryEvents struct{ s *MemoryStore }

func (r memoryEvents) GetEventType(_ context.Context, id int) (*models.EventType, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	et, ok := r.s.eventTypes[id]
	if !ok {
		return nil, ErrEventTypeNotFound
	}
	return &et, nil
}

func (r memoryEvents) Create(_ context.Context, _ SQLExecutor, event *models.NegativeEvent) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.links[event.LinkID]; !ok {
		return ErrEventLinkInvalid
	}
	if _, ok := r.s.eventTypes[event.EventTypeID]; !ok {
		return ErrEventLinkInvalid
	}
	event.ID = r.s.id()
	event.CreatedAt = time.Now()
	r.s.events[event.ID] = *event
	return nil
}

// must be called with mu held
func (r memoryEvents) enrich(e models.NegativeEvent) models.NegativeEvent {
	et := r.s.eventTypes[e.EventTypeID]
	e.EventTypeName = et.Name
	e.PenaltyWeight = et.PenaltyWeight
	e.TeamID = r.s.links[e.LinkID].TeamID
	return e
}

func (r memoryEvents) ListByMatch(_ context.Context, matchID int) ([]models.NegativeEvent, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	out := make([]models.NegativeEvent, 0)
	for _, id := range slices.Sorted(maps.Keys(r.s.events)) {
		e := r.s.events[id]
		if r.s.links[e.LinkID].MatchID == matchID {
			out = append(out, r.enrich(e))
		}
	}
	return out, nil
}

func (r memoryEvents) SumNegativeWeight(_ context.Context, tournamentID int, phaseNameContains string, teamID int) (int, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	sum := 0
	for _, e := range r.s.events {
		link := r.s.links[e.LinkID]
		m, ok := r.s.matches[link.MatchID]
		if !ok || link.TeamID != teamID || m.TournamentID != tournamentID {
			continue
		}
		phase := strings.ToLower(r.s.phases[m.PhaseID].Name)
		if strings.Contains(phase, strings.ToLower(phaseNameContains)) {
			sum += r.s.eventTypes[e.EventTypeID].PenaltyWeight
		}
	}
	return sum, nil
}

func (r memoryEvents) HasWalkoverEvent(_ context.Context, matchID, teamID int) (bool, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, e := range r.s.events {
		link := r.s.links[e.LinkID]
		if link.MatchID == matchID && link.TeamID == teamID && r.s.eventTypes[e.EventTypeID].IsWalkover() {
			return true, nil
		}
	}
	return false, nil
}
