package standings

import (
	"testing"
	"time"

	"github.com/Dosada05/tournament-engine/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func ptr[T any](v T) *T { return &v }

func team(id int, name string) models.Team {
	return models.Team{ID: id, Name: name, TournamentID: 1}
}

// result derives the stored result categories from the two scores.
func result(a, b int) (models.ResultCategory, models.ResultCategory) {
	switch {
	case a > b:
		return models.ResultWinner, models.ResultLoser
	case a < b:
		return models.ResultLoser, models.ResultWinner
	}
	return models.ResultDraw, models.ResultDraw
}

func completed(id, teamA, scoreA, teamB, scoreB int) models.Match {
	ra, rb := result(scoreA, scoreB)
	return models.Match{
		ID:           id,
		TournamentID: 1,
		PhaseName:    "Group Stage",
		Status:       models.StatusCompleted,
		Links: []models.MatchTeamLink{
			{MatchID: id, TeamID: teamA, Score: ptr(scoreA), Result: ptr(ra)},
			{MatchID: id, TeamID: teamB, Score: ptr(scoreB), Result: ptr(rb)},
		},
	}
}

func on(m models.Match, day int) models.Match {
	d := time.Date(2026, time.March, day, 0, 0, 0, 0, time.UTC)
	m.Date = &d
	m.Time = ptr("15:00")
	return m
}

func rowFor(t *testing.T, table *models.StandingsTable, teamID int) models.Standing {
	t.Helper()
	for _, r := range table.Rows {
		if r.TeamID == teamID {
			return r
		}
	}
	t.Fatalf("team %d missing from table", teamID)
	return models.Standing{}
}

func teamOrder(table *models.StandingsTable) []int {
	ids := make([]int, len(table.Rows))
	for i, r := range table.Rows {
		ids[i] = r.TeamID
	}
	return ids
}

func TestCompute_FootballGroup(t *testing.T) {
	const a, b, c, d = 1, 2, 3, 4
	in := Input{
		TournamentID: 1,
		Sport:        models.SportFootball,
		Teams:        []models.Team{team(a, "A"), team(b, "B"), team(c, "C"), team(d, "D")},
		Matches: []models.Match{
			completed(1, a, 2, b, 0),
			completed(2, c, 1, d, 1),
			completed(3, a, 3, c, 1),
			completed(4, b, 2, d, 1),
		},
	}

	table := Compute(in)

	require.Len(t, table.Rows, 4)
	top := table.Rows[0]
	assert.Equal(t, a, top.TeamID)
	assert.Equal(t, 1, top.Rank)
	assert.Equal(t, 2, top.Played)
	assert.Equal(t, 2, top.Won)
	assert.Equal(t, 6, top.Points)
	assert.Equal(t, 5, top.For)
	assert.Equal(t, 1, top.Against)

	// D and C both have one point, D has the better goal difference
	assert.Equal(t, []int{a, b, d, c}, teamOrder(table))
	assert.Equal(t, 1, rowFor(t, table, c).Points)
	assert.Equal(t, 1, rowFor(t, table, d).Drawn)
}

func TestCompute_TeamWithoutMatchesIsRankedLast(t *testing.T) {
	basketballWalkover := WalkoverSet{}
	basketballWalkover.Add(1, 2)

	tests := []struct {
		name      string
		sport     models.Sport
		match     models.Match
		walkovers WalkoverSet
	}{
		// B loses 0-3 and ends with a negative goal difference
		{name: "football", sport: models.SportFootball, match: completed(1, 1, 3, 2, 0)},
		// B forfeits: no points and a negative difference
		{name: "basketball walkover", sport: models.SportBasketball, match: completed(1, 1, 20, 2, 0), walkovers: basketballWalkover},
		{name: "basketball", sport: models.SportBasketball, match: completed(1, 1, 80, 2, 70)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			table := Compute(Input{
				Sport:     tt.sport,
				Teams:     []models.Team{team(1, "A"), team(2, "B"), team(3, "Idle")},
				Matches:   []models.Match{tt.match},
				Walkovers: tt.walkovers,
			})

			assert.Equal(t, []int{1, 2, 3}, teamOrder(table))
			idle := rowFor(t, table, 3)
			assert.Equal(t, 3, idle.Rank)
			assert.Zero(t, idle.Played)
			assert.Zero(t, idle.Points)
			assert.Zero(t, idle.For)
			assert.Zero(t, idle.Against)
			assert.Zero(t, idle.FairPlay)
		})
	}
}

func TestCompute_NoMatchesIsNotAnError(t *testing.T) {
	table := Compute(Input{Sport: models.SportBasketball, Teams: []models.Team{team(1, "A"), team(2, "B")}})

	require.Len(t, table.Rows, 2)
	for _, r := range table.Rows {
		assert.Zero(t, r.Points)
	}
}

func TestCompute_IgnoresUnfinishedMatches(t *testing.T) {
	scheduled := completed(1, 1, 3, 2, 0)
	scheduled.Status = models.StatusScheduled

	postponed := completed(2, 1, 3, 2, 0)
	postponed.Status = models.StatusPostponed

	missingResult := completed(3, 1, 3, 2, 0)
	missingResult.Links[1].Result = nil

	oneSided := completed(4, 1, 3, 2, 0)
	oneSided.Links = oneSided.Links[:1]

	table := Compute(Input{
		Sport:   models.SportFootball,
		Teams:   []models.Team{team(1, "A"), team(2, "B")},
		Matches: []models.Match{scheduled, postponed, missingResult, oneSided},
	})

	for _, r := range table.Rows {
		assert.Zero(t, r.Played, "team %d", r.TeamID)
		assert.Zero(t, r.Points, "team %d", r.TeamID)
	}
}

func TestCompute_ScoringTables(t *testing.T) {
	tests := []struct {
		name           string
		sport          models.Sport
		scoreA, scoreB int
		wantA, wantB   int
	}{
		{"football win", models.SportFootball, 2, 1, 3, 0},
		{"football draw", models.SportFootball, 1, 1, 1, 1},
		{"basketball win", models.SportBasketball, 80, 70, 2, 1},
		{"basketball draw", models.SportBasketball, 55, 55, 0, 0},
		{"unknown sport uses football table", models.SportUnknown, 0, 1, 0, 3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			table := Compute(Input{
				Sport:   tt.sport,
				Teams:   []models.Team{team(1, "A"), team(2, "B")},
				Matches: []models.Match{completed(1, 1, tt.scoreA, 2, tt.scoreB)},
			})
			assert.Equal(t, tt.wantA, rowFor(t, table, 1).Points)
			assert.Equal(t, tt.wantB, rowFor(t, table, 2).Points)
		})
	}
}

func TestCompute_BasketballDrawIsRecorded(t *testing.T) {
	table := Compute(Input{
		Sport:   models.SportBasketball,
		Teams:   []models.Team{team(1, "A"), team(2, "B")},
		Matches: []models.Match{completed(1, 1, 55, 2, 55)},
	})

	for _, r := range table.Rows {
		assert.Equal(t, 1, r.Played)
		assert.Equal(t, 1, r.Drawn)
		assert.Zero(t, r.Points)
	}
}

func TestCompute_FootballWalkoverResult(t *testing.T) {
	m := completed(1, 1, 2, 2, 0)
	m.Links[0].Result = ptr(models.ResultCategory("w.o."))
	m.Links[1].Result = ptr(models.ResultWinner)

	table := Compute(Input{
		Sport:   models.SportFootball,
		Teams:   []models.Team{team(1, "Forfeit"), team(2, "Opponent")},
		Matches: []models.Match{m},
	})

	forfeiter := rowFor(t, table, 1)
	opponent := rowFor(t, table, 2)
	assert.Equal(t, 1, forfeiter.Lost)
	assert.Equal(t, 1, forfeiter.Walkovers)
	assert.Zero(t, forfeiter.Points)
	assert.Equal(t, 1, opponent.Won)
	assert.Equal(t, 3, opponent.Points)
	// goals are still counted from the stored scores
	assert.Equal(t, 2, forfeiter.For)
	assert.Equal(t, []int{2, 1}, teamOrder(table))
}

func TestCompute_BasketballWalkoverEvent(t *testing.T) {
	walkovers := WalkoverSet{}
	walkovers.Add(1, 2)

	table := Compute(Input{
		Sport:     models.SportBasketball,
		Teams:     []models.Team{team(1, "A"), team(2, "B")},
		Matches:   []models.Match{completed(1, 1, 20, 2, 0)},
		Walkovers: walkovers,
	})

	assert.Equal(t, 2, rowFor(t, table, 1).Points)
	b := rowFor(t, table, 2)
	assert.Zero(t, b.Points)
	assert.Equal(t, 1, b.Walkovers)
	assert.Equal(t, 1, b.Lost)
}

func TestCompute_FairPlayAverage(t *testing.T) {
	table := Compute(Input{
		Sport: models.SportFootball,
		Teams: []models.Team{team(1, "Rough"), team(2, "Clean"), team(3, "C")},
		Matches: []models.Match{
			completed(1, 1, 1, 3, 0),
			completed(2, 2, 1, 3, 0),
			completed(3, 1, 0, 2, 0),
		},
		Penalties: map[int]int{1: 5, 3: 2},
	})

	assert.InDelta(t, 2.5, rowFor(t, table, 1).FairPlay, 1e-9)
	assert.InDelta(t, 1.0, rowFor(t, table, 3).FairPlay, 1e-9)
	// level on points, wins and goals: fewer penalties ranks first
	assert.Equal(t, []int{2, 1, 3}, teamOrder(table))
}

func TestCompute_BasketballFirstMatchTieBreak(t *testing.T) {
	const x, y, z, w = 1, 2, 3, 4
	table := Compute(Input{
		Sport: models.SportBasketball,
		Teams: []models.Team{team(x, "Zeta"), team(y, "Alpha"), team(z, "Z"), team(w, "W")},
		Matches: []models.Match{
			// listed out of order on purpose
			on(completed(4, y, 60, z, 70), 2),
			on(completed(1, x, 60, z, 50), 1),
			on(completed(2, x, 40, w, 50), 2),
			on(completed(3, y, 40, w, 30), 1),
		},
	})

	zeta, alpha := rowFor(t, table, x), rowFor(t, table, y)
	require.Equal(t, zeta.Points, alpha.Points)
	require.Equal(t, zeta.For, alpha.For)
	require.Equal(t, zeta.Difference(), alpha.Difference())
	assert.Equal(t, 60, zeta.FirstMatchScore)
	assert.Equal(t, 40, alpha.FirstMatchScore)
	assert.Less(t, zeta.Rank, alpha.Rank)
}

func TestCompute_OrderIsIndependentOfInputOrder(t *testing.T) {
	teams := []models.Team{team(1, "B"), team(2, "A"), team(3, "C"), team(4, "D")}
	matches := []models.Match{
		completed(1, 1, 1, 2, 1),
		completed(2, 3, 1, 4, 1),
	}

	first := Compute(Input{Sport: models.SportFootball, Teams: teams, Matches: matches})
	reversed := Compute(Input{
		Sport:   models.SportFootball,
		Teams:   []models.Team{teams[3], teams[2], teams[1], teams[0]},
		Matches: []models.Match{matches[1], matches[0]},
	})

	assert.Equal(t, teamOrder(first), teamOrder(reversed))
	// identical rows fall back to the team name
	assert.Equal(t, []int{2, 1, 3, 4}, teamOrder(first))

	rows := make([]*models.TeamStatistics, len(first.Rows))
	for i := range first.Rows {
		rows[i] = &first.Rows[i].TeamStatistics
	}
	assert.Equal(t, first.Rows, Rank(RulesFor(models.SportFootball), rows))
}

func TestParseSportFeedsRules(t *testing.T) {
	assert.Equal(t, StageQuarterfinal, RulesFor(models.ParseSport("Fútbol")).Stage)
	assert.Equal(t, StageSemifinal, RulesFor(models.ParseSport("baloncesto")).Stage)
	assert.False(t, RulesFor(models.ParseSport("Chess")).HasKnockoutStage())
}
