package standings

import (
	"fmt"
	"testing"

	"github.com/Dosada05/tournament-engine/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// groupTable builds a group whose teams are already in finishing order:
// the first team gets the most points.
func groupTable(groupID int, name string, firstTeamID, size, topPoints int) GroupTable {
	gt := GroupTable{Group: models.Group{ID: groupID, TournamentID: 1, Name: name}}
	for i := 0; i < size; i++ {
		gid := groupID
		gt.Rows = append(gt.Rows, &models.TeamStatistics{
			TeamID:   firstTeamID + i,
			TeamName: fmt.Sprintf("%s-%d", name, i+1),
			GroupID:  &gid,
			Played:   size - 1,
			Points:   topPoints - 3*i,
			Won:      size - 1 - i,
		})
	}
	return gt
}

func reasons(qs []Qualifier) []string {
	out := make([]string, len(qs))
	for i, q := range qs {
		out[i] = q.Reason
	}
	return out
}

func TestClassify_FootballThreeGroups(t *testing.T) {
	tables := []GroupTable{
		groupTable(3, "Group C", 300, 4, 9),
		groupTable(1, "Group A", 100, 4, 9),
		groupTable(2, "Group B", 200, 4, 10), // B's third has the most points
	}

	c := Classify(models.SportFootball, tables, nil)
	qualifiers, err := SelectQualifiers(c)

	require.NoError(t, err)
	require.Len(t, qualifiers, 8)
	assert.Equal(t, []string{
		"1st Group A", "1st Group B", "1st Group C",
		"2nd Group A", "2nd Group B", "2nd Group C",
		"Best 3rd (Group B)", "Best 3rd (Group A)",
	}, reasons(qualifiers))
	for i, q := range qualifiers {
		assert.Equal(t, i+1, q.Seed)
	}

	require.Len(t, c.Entries, 12)
	qualified := 0
	for _, e := range c.Entries {
		if e.Qualified {
			qualified++
			require.NotNil(t, e.Reason)
		}
		if e.TeamID == 302 {
			assert.False(t, e.Qualified, "third of Group C has the fewest points among thirds")
			assert.Equal(t, 3, e.GroupRank)
			assert.Equal(t, "Group C", e.GroupName)
		}
	}
	assert.Equal(t, 8, qualified)
}

func TestClassify_FootballFourGroupsLeavesNoRoomForThirds(t *testing.T) {
	tables := []GroupTable{
		groupTable(1, "Group A", 100, 4, 9),
		groupTable(2, "Group B", 200, 4, 9),
		groupTable(3, "Group C", 300, 4, 9),
		groupTable(4, "Group D", 400, 4, 12),
	}

	c := Classify(models.SportFootball, tables, nil)
	qualifiers, err := SelectQualifiers(c)

	require.NoError(t, err)
	assert.Equal(t, []string{
		"1st Group A", "1st Group B", "1st Group C", "1st Group D",
		"2nd Group A", "2nd Group B", "2nd Group C", "2nd Group D",
	}, reasons(qualifiers))
	for _, e := range c.Entries {
		if e.GroupRank == 3 {
			assert.False(t, e.Qualified, "team %d", e.TeamID)
		}
	}
}

func TestSelectQualifiers_FootballNeedsEight(t *testing.T) {
	tables := []GroupTable{
		groupTable(1, "Group A", 100, 3, 6),
		groupTable(2, "Group B", 200, 3, 6),
	}

	c := Classify(models.SportFootball, tables, nil)
	assert.Len(t, c.Qualifiers, 6)

	_, err := SelectQualifiers(c)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrInsufficientQualifiers)
	assert.Contains(t, err.Error(), "have 6, need 8")
}

func TestClassify_Basketball(t *testing.T) {
	tables := []GroupTable{
		groupTable(1, "Group A", 100, 3, 6),
		groupTable(2, "Group B", 200, 3, 8),
	}

	c := Classify(models.SportBasketball, tables, nil)
	qualifiers, err := SelectQualifiers(c)

	require.NoError(t, err)
	require.Len(t, qualifiers, 4)
	// pool re-ranked on merit: B1 (8), A1 (6), B2 (5), A2 (3)
	assert.Equal(t, []int{200, 100, 201, 101}, []int{
		qualifiers[0].TeamID, qualifiers[1].TeamID, qualifiers[2].TeamID, qualifiers[3].TeamID,
	})
	assert.Equal(t, "1st Group B", qualifiers[0].Reason)

	for _, e := range c.Entries {
		if e.GroupRank == 3 {
			assert.False(t, e.Qualified)
			assert.Nil(t, e.OverallRank)
		} else {
			assert.True(t, e.Qualified)
			require.NotNil(t, e.OverallRank)
		}
	}
}

func TestSelectQualifiers_BasketballNeedsFour(t *testing.T) {
	c := Classify(models.SportBasketball, []GroupTable{groupTable(1, "Group A", 100, 4, 6)}, nil)

	_, err := SelectQualifiers(c)
	assert.ErrorIs(t, err, ErrInsufficientQualifiers)
}

func TestSelectQualifiers_UnsupportedSport(t *testing.T) {
	c := Classify(models.SportUnknown, []GroupTable{groupTable(1, "Group A", 100, 4, 6)}, nil)

	assert.Empty(t, c.Qualifiers)
	assert.Len(t, c.Entries, 4)
	_, err := SelectQualifiers(c)
	assert.ErrorIs(t, err, ErrUnsupportedSport)
}

func TestPartitionByGroup_SkipsTeamsWithoutGroup(t *testing.T) {
	groupA, groupB := 1, 2
	table := Compute(Input{
		Sport: models.SportFootball,
		Teams: []models.Team{
			{ID: 1, Name: "A1", GroupID: &groupA},
			{ID: 2, Name: "B1", GroupID: &groupB},
			{ID: 3, Name: "Free agent"},
			{ID: 4, Name: "A2", GroupID: &groupA},
		},
	})

	parts := PartitionByGroup(table, []models.Group{{ID: groupB, Name: "Group B"}, {ID: groupA, Name: "Group A"}})

	require.Len(t, parts, 2)
	assert.Equal(t, "Group A", parts[0].Group.Name)
	assert.Len(t, parts[0].Rows, 2)
	assert.Len(t, parts[1].Rows, 1)
}

func TestClassify_FootballOverallRankFromTable(t *testing.T) {
	a := groupTable(1, "Group A", 100, 4, 9)
	overall := &models.StandingsTable{Rows: Rank(RulesFor(models.SportFootball), a.Rows)}

	c := Classify(models.SportFootball, []GroupTable{a}, overall)

	for _, e := range c.Entries {
		require.NotNil(t, e.OverallRank)
		assert.Equal(t, e.GroupRank, *e.OverallRank)
	}
}
