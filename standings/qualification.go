package standings

import (
	"cmp"
	"errors"
	"fmt"
	"slices"

	"github.com/Dosada05/tournament-engine/models"
)

var (
	ErrUnsupportedSport       = errors.New("sport has no knockout qualification rule")
	ErrInsufficientQualifiers = errors.New("insufficient qualifiers")
)

// GroupTable is the within-group ranking of one group.
type GroupTable struct {
	Group models.Group
	Rows  []*models.TeamStatistics
}

// Qualifier is a seeded team. Seed 1 is the strongest.
type Qualifier struct {
	Seed     int
	TeamID   int
	TeamName string
	Reason   string
}

// Classification is the public qualification view plus the seeded
// qualifier list derived from it.
type Classification struct {
	Sport      models.Sport
	Entries    []models.QualificationEntry
	Qualifiers []Qualifier
}

// PartitionByGroup splits a tournament-wide table by group. Teams without a
// group are left out; groups are ordered by name, then id.
func PartitionByGroup(table *models.StandingsTable, groups []models.Group) []GroupTable {
	byID := make(map[int]*GroupTable, len(groups))
	out := make([]GroupTable, 0, len(groups))
	for _, g := range sortedGroups(groups) {
		out = append(out, GroupTable{Group: g})
	}
	for i := range out {
		byID[out[i].Group.ID] = &out[i]
	}
	for i := range table.Rows {
		row := &table.Rows[i].TeamStatistics
		if row.GroupID == nil {
			continue
		}
		if gt, ok := byID[*row.GroupID]; ok {
			gt.Rows = append(gt.Rows, row)
		}
	}
	return out
}

// Classify ranks each group with the sport's comparator and marks who
// qualifies. It never fails: a short field simply yields fewer qualifiers.
//
// Football: top two of every group plus the two best third-placed teams.
// Basketball: top two of every group, re-ranked as one pool, best four.
func Classify(sport models.Sport, tables []GroupTable, overall *models.StandingsTable) Classification {
	rules := RulesFor(sport)
	tables = sortTables(tables)

	ranked := make([][]*models.TeamStatistics, len(tables))
	for i, t := range tables {
		rows := slices.Clone(t.Rows)
		slices.SortStableFunc(rows, rules.Compare)
		ranked[i] = rows
	}

	c := Classification{Sport: rules.Sport}
	qualified := make(map[int]string)
	overallRank := make(map[int]int)

	switch rules.Sport {
	case models.SportBasketball:
		pool := make([]*models.TeamStatistics, 0, 2*len(ranked))
		reasons := make(map[int]string)
		for i, rows := range ranked {
			for pos := 0; pos < 2 && pos < len(rows); pos++ {
				pool = append(pool, rows[pos])
				reasons[rows[pos].TeamID] = placeLabel(pos+1, tables[i].Group.Name)
			}
		}
		slices.SortStableFunc(pool, rules.Compare)
		for i, s := range pool {
			overallRank[s.TeamID] = i + 1
			if i < rules.QualifierCount {
				qualified[s.TeamID] = reasons[s.TeamID]
				c.Qualifiers = append(c.Qualifiers, Qualifier{Seed: i + 1, TeamID: s.TeamID, TeamName: s.TeamName, Reason: reasons[s.TeamID]})
			}
		}
	case models.SportFootball:
		if overall != nil {
			for _, row := range overall.Rows {
				overallRank[row.TeamID] = row.Rank
			}
		}
		var winners, runnersUp, thirds []Qualifier
		thirdRows := make([]*models.TeamStatistics, 0, len(ranked))
		thirdGroup := make(map[int]string)
		for i, rows := range ranked {
			group := tables[i].Group.Name
			if len(rows) > 0 {
				winners = append(winners, Qualifier{TeamID: rows[0].TeamID, TeamName: rows[0].TeamName, Reason: placeLabel(1, group)})
			}
			if len(rows) > 1 {
				runnersUp = append(runnersUp, Qualifier{TeamID: rows[1].TeamID, TeamName: rows[1].TeamName, Reason: placeLabel(2, group)})
			}
			if len(rows) > 2 {
				thirdRows = append(thirdRows, rows[2])
				thirdGroup[rows[2].TeamID] = group
			}
		}
		slices.SortStableFunc(thirdRows, rules.Compare)
		for i := 0; i < 2 && i < len(thirdRows); i++ {
			s := thirdRows[i]
			thirds = append(thirds, Qualifier{TeamID: s.TeamID, TeamName: s.TeamName, Reason: fmt.Sprintf("Best 3rd (%s)", thirdGroup[s.TeamID])})
		}
		seeds := slices.Concat(winners, runnersUp, thirds)
		// С четырьмя группами и больше третьи места не проходят.
		if len(seeds) > rules.QualifierCount {
			seeds = seeds[:rules.QualifierCount]
		}
		for i := range seeds {
			seeds[i].Seed = i + 1
			qualified[seeds[i].TeamID] = seeds[i].Reason
		}
		c.Qualifiers = seeds
	}

	for i, rows := range ranked {
		for pos, s := range rows {
			entry := models.QualificationEntry{
				TeamID:    s.TeamID,
				TeamName:  s.TeamName,
				GroupRank: pos + 1,
				GroupName: tables[i].Group.Name,
			}
			if r, ok := overallRank[s.TeamID]; ok {
				entry.OverallRank = &r
			}
			if reason, ok := qualified[s.TeamID]; ok {
				entry.Qualified = true
				entry.Reason = &reason
			}
			c.Entries = append(c.Entries, entry)
		}
	}
	return c
}

// SelectQualifiers returns the seeded field for the knockout stage, or an
// error when the sport has no such stage or the field is too small.
func SelectQualifiers(c Classification) ([]Qualifier, error) {
	rules := RulesFor(c.Sport)
	if !rules.HasKnockoutStage() {
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedSport, c.Sport)
	}
	if len(c.Qualifiers) < rules.QualifierCount {
		return nil, fmt.Errorf("%w: have %d, need %d", ErrInsufficientQualifiers, len(c.Qualifiers), rules.QualifierCount)
	}
	return c.Qualifiers[:rules.QualifierCount], nil
}

// placeLabel only ever sees places 1 and 2.
func placeLabel(place int, group string) string {
	if place == 1 {
		return "1st " + group
	}
	return "2nd " + group
}

func sortedGroups(groups []models.Group) []models.Group {
	out := slices.Clone(groups)
	slices.SortStableFunc(out, compareGroups)
	return out
}

func sortTables(tables []GroupTable) []GroupTable {
	out := slices.Clone(tables)
	slices.SortStableFunc(out, func(a, b GroupTable) int { return compareGroups(a.Group, b.Group) })
	return out
}

func compareGroups(a, b models.Group) int {
	if c := cmp.Compare(a.Name, b.Name); c != 0 {
		return c
	}
	return cmp.Compare(a.ID, b.ID)
}
