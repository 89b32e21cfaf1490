package services

import (
	"fmt"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/Dosada05/tournament-engine/metrics"
	"github.com/Dosada05/tournament-engine/models"
	"github.com/Dosada05/tournament-engine/repositories"
	"github.com/Dosada05/tournament-engine/storage"
)

// Bogota without relying on the tz database of the test machine.
var testLocation = time.FixedZone("COT", -5*60*60)

type published struct {
	TournamentID int
	Type         string
}

type recordingBroadcaster struct {
	mu     sync.Mutex
	events []published
}

func (b *recordingBroadcaster) PublishTournamentEvent(tournamentID int, eventType string, _ interface{}) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.events = append(b.events, published{TournamentID: tournamentID, Type: eventType})
}

func (b *recordingBroadcaster) types() []string {
	b.mu.Lock()
	defer b.mu.Unlock()
	out := make([]string, len(b.events))
	for i, e := range b.events {
		out[i] = e.Type
	}
	return out
}

type testEnv struct {
	store     *repositories.MemoryStore
	metrics   *metrics.Mock
	events    *recordingBroadcaster
	uploader  *storage.MemoryUploader
	standings *StandingsService
	brackets  *BracketService
	matches   *MatchService
	validator *ScheduleValidator
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	store := repositories.NewMemoryStore()
	repos := Repositories{
		Tournaments: store.Tournaments(),
		Groups:      store.Groups(),
		Phases:      store.Phases(),
		Teams:       store.Teams(),
		Matches:     store.Matches(),
		Events:      store.Events(),
		Tx:          store,
	}
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	m := metrics.NewMock()
	b := &recordingBroadcaster{}
	uploader := storage.NewMemoryUploader("https://cdn.example.com")

	validator := NewScheduleValidator(store.Matches(), testLocation, m)
	validator.now = func() time.Time { return time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC) }

	standingsService := NewStandingsService(repos, StandingsConfig{GroupStageMarker: "Group"}, uploader, m, b, logger)
	return &testEnv{
		store:     store,
		metrics:   m,
		events:    b,
		uploader:  uploader,
		standings: standingsService,
		brackets:  NewBracketService(repos, standingsService, BracketConfig{GroupStageLegs: 1}, m, b, logger),
		matches:   NewMatchService(repos, validator, m, b, logger),
		validator: validator,
	}
}

// tournament seeds a tournament with the usual phases.
func (e *testEnv) tournament(sport string) (models.Tournament, models.Phase) {
	t := e.store.AddTournament("Copa "+sport, sport)
	groupStage := e.store.AddPhase(t.ID, "Group Stage")
	e.store.AddPhase(t.ID, "Quarterfinal")
	e.store.AddPhase(t.ID, "Semifinal")
	return t, groupStage
}

// seedGroup adds n teams named <name>1..<name>n and a completed round robin
// in which the lower-numbered team always wins, so the group ranks in name
// order.
func (e *testEnv) seedGroup(tournamentID, phaseID int, name string, n, win, lose int) []models.Team {
	g := e.store.AddGroup(tournamentID, name)
	teams := make([]models.Team, n)
	for i := range teams {
		teams[i] = e.store.AddTeam(tournamentID, fmt.Sprintf("%s%d", name, i+1), &g.ID)
	}
	for i := 0; i < n; i++ {
		for j := i + 1; j < n; j++ {
			e.store.AddMatch(models.Match{
				TournamentID: tournamentID,
				PhaseID:      phaseID,
				GroupID:      &g.ID,
				Status:       models.StatusCompleted,
				Links: []models.MatchTeamLink{
					{TeamID: teams[i].ID, Score: ptr(win), Result: ptr(models.ResultWinner)},
					{TeamID: teams[j].ID, Score: ptr(lose), Result: ptr(models.ResultLoser)},
				},
			})
		}
	}
	return teams
}

func (e *testEnv) playedMatch(tournamentID, phaseID int, groupID *int, a, b models.Team, scoreA, scoreB int) models.Match {
	resultA, resultB := models.ResultDraw, models.ResultDraw
	if scoreA > scoreB {
		resultA, resultB = models.ResultWinner, models.ResultLoser
	} else if scoreA < scoreB {
		resultA, resultB = models.ResultLoser, models.ResultWinner
	}
	return e.store.AddMatch(models.Match{
		TournamentID: tournamentID,
		PhaseID:      phaseID,
		GroupID:      groupID,
		Status:       models.StatusCompleted,
		Links: []models.MatchTeamLink{
			{TeamID: a.ID, Score: ptr(scoreA), Result: &resultA},
			{TeamID: b.ID, Score: ptr(scoreB), Result: &resultB},
		},
	})
}

func names(matches []models.Match) [][2]string {
	out := make([][2]string, len(matches))
	for i, m := range matches {
		out[i] = [2]string{m.Links[0].TeamName, m.Links[1].TeamName}
	}
	return out
}

func rowNames(table *models.StandingsTable) []string {
	out := make([]string, len(table.Rows))
	for i, r := range table.Rows {
		out[i] = r.TeamName
	}
	return out
}
