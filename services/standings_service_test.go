package services

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/Dosada05/tournament-engine/models"
	"github.com/Dosada05/tournament-engine/storage"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestComputeStandingsFootballExample(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	tour, gs := env.tournament("Fútbol 11")
	g := env.store.AddGroup(tour.ID, "Group A")
	a := env.store.AddTeam(tour.ID, "A", &g.ID)
	b := env.store.AddTeam(tour.ID, "B", &g.ID)
	c := env.store.AddTeam(tour.ID, "C", &g.ID)
	d := env.store.AddTeam(tour.ID, "D", &g.ID)
	env.playedMatch(tour.ID, gs.ID, &g.ID, a, b, 2, 0)
	env.playedMatch(tour.ID, gs.ID, &g.ID, c, d, 1, 1)
	env.playedMatch(tour.ID, gs.ID, &g.ID, a, c, 3, 1)
	env.playedMatch(tour.ID, gs.ID, &g.ID, b, d, 2, 1)

	table, err := env.standings.ComputeStandings(ctx, tour.ID, &g.ID)
	require.NoError(t, err)

	assert.Equal(t, models.SportFootball, table.Sport)
	assert.Equal(t, []string{"A", "B", "D", "C"}, rowNames(table))
	top := table.Rows[0]
	assert.Equal(t, 1, top.Rank)
	assert.Equal(t, 2, top.Played)
	assert.Equal(t, 2, top.Won)
	assert.Equal(t, 6, top.Points)
	assert.Equal(t, 1, env.metrics.StandingsComputed("football"))
	assert.Len(t, env.metrics.Durations(), 1)
}

func TestComputeStandingsIgnoresUnfinishedMatches(t *testing.T) {
	env := newTestEnv(t)
	tour, gs := env.tournament("Football")
	a := env.store.AddTeam(tour.ID, "A", nil)
	b := env.store.AddTeam(tour.ID, "B", nil)
	m := env.playedMatch(tour.ID, gs.ID, nil, a, b, 1, 0)
	require.NoError(t, env.store.Matches().UpdateStatus(context.Background(), nil, m.ID, models.StatusPostponed))

	table, err := env.standings.ComputeStandings(context.Background(), tour.ID, nil)
	require.NoError(t, err)
	require.Len(t, table.Rows, 2)
	for _, row := range table.Rows {
		assert.Zero(t, row.Played)
		assert.Zero(t, row.Points)
	}
}

func TestComputeStandingsNotFound(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	_, err := env.standings.ComputeStandings(ctx, 999, nil)
	assert.ErrorIs(t, err, ErrTournamentNotFound)
	assert.ErrorIs(t, err, ErrNotFound)

	tour, _ := env.tournament("Football")
	other, _ := env.tournament("Football")
	foreign := env.store.AddGroup(other.ID, "Group A")

	_, err = env.standings.ComputeStandings(ctx, tour.ID, &foreign.ID)
	assert.ErrorIs(t, err, ErrGroupNotFound)

	missing := 12345
	_, err = env.standings.ComputeStandings(ctx, tour.ID, &missing)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestFairPlayCountsGroupStageEventsOnly(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	tour, gs := env.tournament("Football")
	qf, err := env.store.Phases().FindByName(ctx, tour.ID, "Quarterfinal")
	require.NoError(t, err)
	x := env.store.AddTeam(tour.ID, "X", nil)
	y := env.store.AddTeam(tour.ID, "Y", nil)
	card := env.store.AddEventType("Yellow card", 3, true)
	red := env.store.AddEventType("Red card", 5, true)

	groupMatch := env.playedMatch(tour.ID, gs.ID, nil, x, y, 1, 0)
	knockout := env.playedMatch(tour.ID, qf.ID, nil, x, y, 0, 0)

	_, err = env.matches.RecordEvent(ctx, groupMatch.ID, EventInput{LinkID: groupMatch.Links[0].ID, EventTypeID: card.ID, PlayerID: ptr(10)})
	require.NoError(t, err)
	_, err = env.matches.RecordEvent(ctx, knockout.ID, EventInput{LinkID: knockout.Links[1].ID, EventTypeID: red.ID, PlayerID: ptr(20)})
	require.NoError(t, err)

	table, err := env.standings.ComputeStandings(ctx, tour.ID, nil)
	require.NoError(t, err)
	require.Equal(t, []string{"X", "Y"}, rowNames(table))
	assert.Equal(t, 4, table.Rows[0].Points)
	assert.InDelta(t, 1.5, table.Rows[0].FairPlay, 1e-9)
	assert.Zero(t, table.Rows[1].FairPlay)
}

func TestBasketballWalkoverEvent(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	tour, gs := env.tournament("Baloncesto")
	a := env.store.AddTeam(tour.ID, "A", nil)
	b := env.store.AddTeam(tour.ID, "B", nil)
	wo := env.store.AddEventType("W.O.", 0, false)
	m := env.playedMatch(tour.ID, gs.ID, nil, a, b, 20, 0)

	table, err := env.standings.ComputeStandings(ctx, tour.ID, nil)
	require.NoError(t, err)
	assert.Equal(t, 1, table.Rows[1].Points, "plain basketball loss is worth a point")

	_, err = env.matches.RecordEvent(ctx, m.ID, EventInput{LinkID: m.Links[1].ID, EventTypeID: wo.ID})
	require.NoError(t, err)

	table, err = env.standings.ComputeStandings(ctx, tour.ID, nil)
	require.NoError(t, err)
	require.Equal(t, []string{"A", "B"}, rowNames(table))
	assert.Equal(t, 2, table.Rows[0].Points)
	assert.Equal(t, 0, table.Rows[1].Points)
	assert.Equal(t, 1, table.Rows[1].Walkovers)
}

func TestBasketballDrawDoesNotFail(t *testing.T) {
	env := newTestEnv(t)
	tour, gs := env.tournament("Basketball")
	a := env.store.AddTeam(tour.ID, "A", nil)
	b := env.store.AddTeam(tour.ID, "B", nil)
	env.playedMatch(tour.ID, gs.ID, nil, a, b, 55, 55)

	table, err := env.standings.ComputeStandings(context.Background(), tour.ID, nil)
	require.NoError(t, err)
	for _, row := range table.Rows {
		assert.Equal(t, 1, row.Drawn)
		assert.Equal(t, 0, row.Points)
	}
}

func TestComputeQualificationFootball(t *testing.T) {
	env := newTestEnv(t)
	tour, gs := env.tournament("Football")
	env.seedGroup(tour.ID, gs.ID, "A", 4, 2, 0)
	env.seedGroup(tour.ID, gs.ID, "B", 4, 2, 0)
	env.seedGroup(tour.ID, gs.ID, "C", 4, 2, 0)

	entries, err := env.standings.ComputeQualification(context.Background(), tour.ID)
	require.NoError(t, err)
	require.Len(t, entries, 12)

	reasons := make(map[string]string)
	for _, e := range entries {
		if e.Qualified {
			reasons[e.TeamName] = *e.Reason
		}
	}
	assert.Equal(t, map[string]string{
		"A1": "1st A", "B1": "1st B", "C1": "1st C",
		"A2": "2nd A", "B2": "2nd B", "C2": "2nd C",
		"A3": "Best 3rd (A)", "B3": "Best 3rd (B)",
	}, reasons)
}

func TestComputeQualificationEmptyTournament(t *testing.T) {
	env := newTestEnv(t)
	tour, _ := env.tournament("Football")

	entries, err := env.standings.ComputeQualification(context.Background(), tour.ID)
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestPublishStandings(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	tour, gs := env.tournament("Football")
	env.seedGroup(tour.ID, gs.ID, "A", 3, 1, 0)

	url, err := env.standings.PublishStandings(ctx, tour.ID)
	require.NoError(t, err)
	assert.Contains(t, url, "/tournaments/")
	assert.Equal(t, 1, env.metrics.SnapshotsPublished())
	assert.Contains(t, env.events.types(), "standings-updated")

	body, contentType, ok := env.uploader.Object(storage.StandingsSnapshotKey(tour.ID))
	require.True(t, ok)
	assert.Equal(t, "application/json", contentType)
	var snapshot Snapshot
	require.NoError(t, json.Unmarshal(body, &snapshot))
	assert.Equal(t, tour.ID, snapshot.TournamentID)
	assert.Len(t, snapshot.Standings.Rows, 3)
	assert.Len(t, snapshot.Classification, 3)

	require.NoError(t, env.standings.UnpublishStandings(ctx, tour.ID))
	_, _, ok = env.uploader.Object(storage.StandingsSnapshotKey(tour.ID))
	assert.False(t, ok)
	assert.ErrorIs(t, env.standings.UnpublishStandings(ctx, 9999), ErrTournamentNotFound)
}

func TestPublishStandingsDisabled(t *testing.T) {
	env := newTestEnv(t)
	env.standings.uploader = nil

	_, err := env.standings.PublishStandings(context.Background(), 1)
	assert.ErrorIs(t, err, ErrPublishingDisabled)
	assert.ErrorIs(t, err, ErrInvalidInput)
	assert.ErrorIs(t, env.standings.UnpublishStandings(context.Background(), 1), ErrPublishingDisabled)
}
