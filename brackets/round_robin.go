package brackets

import (
	"context"
	"fmt"
	"sort"
)

// RoundRobinGenerator builds group-stage fixtures with the circle method:
// every team meets every other team once per leg and each matchday uses
// every team at most once. Round holds the matchday.
type RoundRobinGenerator struct {
	legs int
}

func NewRoundRobinGenerator(legs int) BracketGenerator {
	if legs != 2 {
		legs = 1
	}
	return &RoundRobinGenerator{legs: legs}
}

func (g *RoundRobinGenerator) GetName() string {
	return "RoundRobin"
}

// bye pads an odd field; team ids are always positive.
const bye = 0

func (g *RoundRobinGenerator) GenerateBracket(ctx context.Context, params GenerateBracketParams) ([]*BracketMatch, error) {
	if len(params.TeamIDs) < 2 {
		return nil, fmt.Errorf("RoundRobinGenerator: not enough teams (found %d, min 2 required)", len(params.TeamIDs))
	}

	rotation := append([]int(nil), params.TeamIDs...)
	if len(rotation)%2 == 1 {
		rotation = append(rotation, bye)
	}
	n := len(rotation)
	matchdays := n - 1

	matches := make([]*BracketMatch, 0, g.legs*n*(n-1)/2)
	for leg := 0; leg < g.legs; leg++ {
		order := append([]int(nil), rotation...)
		for day := 0; day < matchdays; day++ {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
			matchday := leg*matchdays + day + 1
			inRound := 0
			for i := 0; i < n/2; i++ {
				home, away := order[i], order[n-1-i]
				if home == bye || away == bye {
					continue
				}
				// alternate home side so the fixed first team is not always at home
				if day%2 == 1 && i == 0 {
					home, away = away, home
				}
				if leg == 1 {
					home, away = away, home
				}
				inRound++
				matches = append(matches, &BracketMatch{
					UID:          fmt.Sprintf("T%d_RR_L%d_D%d_M%d", params.TournamentID, leg+1, matchday, inRound),
					Round:        matchday,
					OrderInRound: inRound,
					Team1ID:      home,
					Team2ID:      away,
				})
			}
			// keep the first slot fixed, rotate the rest clockwise
			last := order[n-1]
			copy(order[2:], order[1:n-1])
			order[1] = last
		}
	}

	sort.SliceStable(matches, func(i, j int) bool {
		if matches[i].Round != matches[j].Round {
			return matches[i].Round < matches[j].Round
		}
		return matches[i].OrderInRound < matches[j].OrderInRound
	})

	return matches, nil
}
