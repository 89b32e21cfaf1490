// Package standings folds completed matches into ranked tables and derives
// knockout qualifiers from them. Everything here is pure: callers load the
// data, the package only computes.
package standings

import (
	"cmp"
	"slices"
	"time"

	"github.com/Dosada05/tournament-engine/models"
)

// MatchSide identifies one team in one match.
type MatchSide struct {
	MatchID int
	TeamID  int
}

// WalkoverSet holds the sides that have a walkover event recorded.
type WalkoverSet map[MatchSide]bool

func (w WalkoverSet) Has(matchID, teamID int) bool {
	if w == nil {
		return false
	}
	return w[MatchSide{MatchID: matchID, TeamID: teamID}]
}

func (w WalkoverSet) Add(matchID, teamID int) {
	w[MatchSide{MatchID: matchID, TeamID: teamID}] = true
}

// Input is the snapshot a standings computation works on.
type Input struct {
	TournamentID int
	GroupID      *int
	Sport        models.Sport
	Teams        []models.Team
	Matches      []models.Match
	// group-stage penalty weight per team
	Penalties map[int]int
	Walkovers WalkoverSet
}

// Compute builds the standings table for the snapshot. Every team in
// in.Teams gets a row even without a played match.
func Compute(in Input) *models.StandingsTable {
	rules := RulesFor(in.Sport)
	stats := make(map[int]*models.TeamStatistics, len(in.Teams))
	order := make([]int, 0, len(in.Teams))

	seed := func(teamID int, name string, groupID *int, groupName *string) *models.TeamStatistics {
		if s, ok := stats[teamID]; ok {
			return s
		}
		s := &models.TeamStatistics{TeamID: teamID, TeamName: name, GroupID: groupID, GroupName: groupName}
		stats[teamID] = s
		order = append(order, teamID)
		return s
	}
	for _, t := range in.Teams {
		seed(t.ID, t.Name, t.GroupID, t.GroupName)
	}

	firstSeen := make(map[int]bool, len(in.Teams))
	for _, m := range playedMatches(in.Matches) {
		a, b := m.Links[0], m.Links[1]
		sa := seed(a.TeamID, a.TeamName, nil, nil)
		sb := seed(b.TeamID, b.TeamName, nil, nil)
		applyMatch(&rules, &in, m, sa, sb, &a, &b)

		if !firstSeen[a.TeamID] {
			firstSeen[a.TeamID] = true
			sa.FirstMatchScore = *a.Score
		}
		if !firstSeen[b.TeamID] {
			firstSeen[b.TeamID] = true
			sb.FirstMatchScore = *b.Score
		}
	}

	rows := make([]*models.TeamStatistics, 0, len(order))
	for _, id := range order {
		s := stats[id]
		if s.Played > 0 {
			s.FairPlay = float64(in.Penalties[id]) / float64(s.Played)
		}
		rows = append(rows, s)
	}

	return &models.StandingsTable{
		TournamentID: in.TournamentID,
		GroupID:      in.GroupID,
		Sport:        rules.Sport,
		Rows:         Rank(rules, rows),
	}
}

// Rank sorts rows with the rules' comparator and numbers them from 1.
func Rank(rules Rules, rows []*models.TeamStatistics) []models.Standing {
	sorted := slices.Clone(rows)
	slices.SortStableFunc(sorted, rules.Compare)
	out := make([]models.Standing, len(sorted))
	for i, s := range sorted {
		out[i] = models.Standing{Rank: i + 1, TeamStatistics: *s}
	}
	return out
}

func applyMatch(rules *Rules, in *Input, m models.Match, sa, sb *models.TeamStatistics, a, b *models.MatchTeamLink) {
	pa, pb := *a.Score, *b.Score
	sa.Played++
	sb.Played++
	sa.For += pa
	sa.Against += pb
	sb.For += pb
	sb.Against += pa

	aWO := rules.forfeit(in, m.ID, a)
	bWO := rules.forfeit(in, m.ID, b)
	if aWO != bWO {
		if aWO {
			awardWalkover(rules, sb, sa)
		} else {
			awardWalkover(rules, sa, sb)
		}
		return
	}

	switch {
	case pa > pb:
		win(rules, sa, sb, bWO)
	case pa < pb:
		win(rules, sb, sa, aWO)
	default:
		sa.Drawn++
		sb.Drawn++
		sa.Points += rules.PointsDraw
		sb.Points += rules.PointsDraw
	}
}

func awardWalkover(rules *Rules, winner, forfeiter *models.TeamStatistics) {
	winner.Won++
	winner.Points += rules.PointsWin
	forfeiter.Lost++
	forfeiter.Walkovers++
}

// loserForfeited only matters when both sides forfeited and the score decides.
func win(rules *Rules, winner, loser *models.TeamStatistics, loserForfeited bool) {
	winner.Won++
	winner.Points += rules.PointsWin
	loser.Lost++
	if loserForfeited {
		loser.Walkovers++
		return
	}
	loser.Points += rules.PointsLoss
}

// playedMatches keeps COMPLETED matches with two fully scored sides, ordered
// by date, time and id. Undated matches go last.
func playedMatches(matches []models.Match) []models.Match {
	played := make([]models.Match, 0, len(matches))
	for _, m := range matches {
		if m.Status != models.StatusCompleted || !m.IsPlayed() {
			continue
		}
		played = append(played, m)
	}
	slices.SortStableFunc(played, compareChronologically)
	return played
}

func compareChronologically(a, b models.Match) int {
	if c := compareDates(a.Date, b.Date); c != 0 {
		return c
	}
	if c := compareOptional(a.Time, b.Time); c != 0 {
		return c
	}
	return cmp.Compare(a.ID, b.ID)
}

func compareDates(a, b *time.Time) int {
	switch {
	case a == nil && b == nil:
		return 0
	case a == nil:
		return 1
	case b == nil:
		return -1
	}
	return a.Compare(*b)
}

func compareOptional(a, b *string) int {
	switch {
	case a == nil && b == nil:
		return 0
	case a == nil:
		return 1
	case b == nil:
		return -1
	}
	return cmp.Compare(*a, *b)
}
