package services

import (
	"context"
	"errors"
	"testing"

	"github.com/Dosada05/tournament-engine/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCheckGroupPhaseComplete(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	tour, gs := env.tournament("Football")

	status, err := env.brackets.CheckGroupPhaseComplete(ctx, tour.ID)
	require.NoError(t, err)
	assert.False(t, status.CanGenerate)
	assert.Zero(t, status.MatchesTotal)

	teams := env.seedGroup(tour.ID, gs.ID, "A", 3, 1, 0)
	env.store.AddMatch(models.Match{TournamentID: tour.ID, PhaseID: gs.ID, Links: []models.MatchTeamLink{{TeamID: teams[0].ID}, {TeamID: teams[1].ID}}})

	status, err = env.brackets.CheckGroupPhaseComplete(ctx, tour.ID)
	require.NoError(t, err)
	assert.False(t, status.CanGenerate)
	assert.Equal(t, 3, status.MatchesCompleted)
	assert.Equal(t, 4, status.MatchesTotal)
	assert.Contains(t, status.Message, "1 of 4")

	_, err = env.brackets.CheckGroupPhaseComplete(ctx, 4040)
	assert.ErrorIs(t, err, ErrTournamentNotFound)
}

func TestGenerateBracketFootballQuarterfinal(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	tour, gs := env.tournament("Fútbol")
	env.seedGroup(tour.ID, gs.ID, "A", 4, 2, 0)
	env.seedGroup(tour.ID, gs.ID, "B", 4, 2, 0)
	env.seedGroup(tour.ID, gs.ID, "C", 4, 2, 0)

	created, err := env.brackets.GenerateBracket(ctx, tour.ID)
	require.NoError(t, err)
	require.Len(t, created, 4)

	stored, err := env.store.Matches().ListByPhase(ctx, tour.ID, "Quarterfinal")
	require.NoError(t, err)
	require.Len(t, stored, 4)
	// seeds: A1 B1 C1 A2 B2 C2 A3 B3, paired 1-8 2-7 3-6 4-5
	assert.Equal(t, [][2]string{{"A1", "B3"}, {"B1", "A3"}, {"C1", "C2"}, {"A2", "B2"}}, names(stored))
	for _, m := range stored {
		assert.Equal(t, models.StatusScheduled, m.Status)
		assert.Nil(t, m.Date)
		assert.Nil(t, m.Time)
		assert.Nil(t, m.VenueID)
		assert.Nil(t, m.GroupID)
		assert.Equal(t, "Auto-generated match (Quarterfinal)", *m.Notes)
		for _, l := range m.Links {
			assert.Nil(t, l.Score)
			assert.Nil(t, l.Result)
		}
	}

	assert.Equal(t, 1, env.metrics.BracketsGenerated("football"))
	assert.Equal(t, 4, env.metrics.MatchesCreated())
	assert.Equal(t, []string{"bracket-updated"}, env.events.types())
}

func TestGenerateBracketBasketballSemifinal(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	tour, gs := env.tournament("Basketball")
	env.seedGroup(tour.ID, gs.ID, "A", 3, 80, 70)
	env.seedGroup(tour.ID, gs.ID, "B", 3, 80, 70)

	_, err := env.brackets.GenerateBracket(ctx, tour.ID)
	require.NoError(t, err)

	stored, err := env.store.Matches().ListByPhase(ctx, tour.ID, "Semifinal")
	require.NoError(t, err)
	// pool order A1 B1 A2 B2
	assert.Equal(t, [][2]string{{"A1", "B2"}, {"B1", "A2"}}, names(stored))
	assert.Equal(t, 1, env.metrics.BracketsGenerated("basketball"))
}

func TestGenerateBracketRejectsPendingGroupStage(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	tour, gs := env.tournament("Football")
	teams := env.seedGroup(tour.ID, gs.ID, "A", 4, 2, 0)
	env.store.AddMatch(models.Match{TournamentID: tour.ID, PhaseID: gs.ID, Links: []models.MatchTeamLink{{TeamID: teams[0].ID}, {TeamID: teams[3].ID}}})

	_, err := env.brackets.GenerateBracket(ctx, tour.ID)
	require.ErrorIs(t, err, ErrGroupStageIncomplete)
	assert.ErrorIs(t, err, ErrInvalidInput)
	assert.Contains(t, err.Error(), "1 of 7")
}

func TestGenerateBracketInsufficientQualifiers(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	tour, gs := env.tournament("Football")
	env.seedGroup(tour.ID, gs.ID, "A", 3, 1, 0)
	env.seedGroup(tour.ID, gs.ID, "B", 3, 1, 0)

	_, err := env.brackets.GenerateBracket(ctx, tour.ID)
	require.ErrorIs(t, err, ErrInsufficientQualifiers)
	assert.ErrorIs(t, err, ErrInvalidInput)
	assert.Contains(t, err.Error(), "have 6, need 8")

	stored, err := env.store.Matches().ListByPhase(ctx, tour.ID, "Quarterfinal")
	require.NoError(t, err)
	assert.Empty(t, stored)
}

func TestGenerateBracketUnsupportedSport(t *testing.T) {
	env := newTestEnv(t)
	tour, gs := env.tournament("Chess")
	env.seedGroup(tour.ID, gs.ID, "A", 3, 1, 0)

	_, err := env.brackets.GenerateBracket(context.Background(), tour.ID)
	assert.ErrorIs(t, err, ErrUnsupportedSport)
}

func TestGenerateBracketMissingPhase(t *testing.T) {
	env := newTestEnv(t)
	tour := env.store.AddTournament("Cup", "Basketball")
	gs := env.store.AddPhase(tour.ID, "Group Stage")
	env.seedGroup(tour.ID, gs.ID, "A", 3, 80, 70)
	env.seedGroup(tour.ID, gs.ID, "B", 3, 80, 70)

	_, err := env.brackets.GenerateBracket(context.Background(), tour.ID)
	require.ErrorIs(t, err, ErrPhaseNotFound)
	assert.Contains(t, err.Error(), "Semifinal")
}

func TestGenerateBracketRollsBackOnFailure(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	tour, gs := env.tournament("Football")
	env.seedGroup(tour.ID, gs.ID, "A", 4, 2, 0)
	env.seedGroup(tour.ID, gs.ID, "B", 4, 2, 0)
	env.seedGroup(tour.ID, gs.ID, "C", 4, 2, 0)
	boom := errors.New("connection reset")
	env.store.FailAfter("CreateTeamLink", 5, boom)

	_, err := env.brackets.GenerateBracket(ctx, tour.ID)
	require.ErrorIs(t, err, boom)

	stored, err := env.store.Matches().ListByPhase(ctx, tour.ID, "Quarterfinal")
	require.NoError(t, err)
	assert.Empty(t, stored)
	assert.Zero(t, env.metrics.MatchesCreated())
	assert.Empty(t, env.events.types())
}

func TestGenerateGroupFixtures(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	tour, _ := env.tournament("Football")
	a := env.store.AddGroup(tour.ID, "A")
	b := env.store.AddGroup(tour.ID, "B")
	for _, name := range []string{"A1", "A2", "A3", "A4"} {
		env.store.AddTeam(tour.ID, name, &a.ID)
	}
	for _, name := range []string{"B1", "B2", "B3"} {
		env.store.AddTeam(tour.ID, name, &b.ID)
	}

	created, err := env.brackets.GenerateGroupFixtures(ctx, tour.ID)
	require.NoError(t, err)
	require.Len(t, created, 6+3)

	perGroup := map[int]int{}
	for _, m := range created {
		require.NotNil(t, m.GroupID)
		require.NotNil(t, m.Round)
		require.Len(t, m.Links, 2)
		perGroup[*m.GroupID]++
	}
	assert.Equal(t, map[int]int{a.ID: 6, b.ID: 3}, perGroup)

	status, err := env.brackets.CheckGroupPhaseComplete(ctx, tour.ID)
	require.NoError(t, err)
	assert.Equal(t, 9, status.MatchesTotal)
	assert.False(t, status.CanGenerate)
}

func TestGenerateGroupFixturesNeedsTeams(t *testing.T) {
	env := newTestEnv(t)
	tour, _ := env.tournament("Football")
	env.store.AddGroup(tour.ID, "A")

	_, err := env.brackets.GenerateGroupFixtures(context.Background(), tour.ID)
	assert.ErrorIs(t, err, ErrValidationFailed)
}
