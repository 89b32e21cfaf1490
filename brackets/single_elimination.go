package brackets

import (
	"context"
	"errors"
	"fmt"
	"math/bits"
)

var ErrInvalidFieldSize = errors.New("field size must be a power of two, at least 2")

// SingleEliminationGenerator pairs the first knockout round by fixed bracket
// position: seed i meets seed n+1-i. Entrants must already be in seed order;
// they are not re-sorted on merit.
type SingleEliminationGenerator struct{}

func NewSingleEliminationGenerator() BracketGenerator {
	return &SingleEliminationGenerator{}
}

func (g *SingleEliminationGenerator) GetName() string {
	return "SingleElimination"
}

func (g *SingleEliminationGenerator) GenerateBracket(ctx context.Context, params GenerateBracketParams) ([]*BracketMatch, error) {
	n := len(params.TeamIDs)
	if n < 2 || bits.OnesCount(uint(n)) != 1 {
		return nil, fmt.Errorf("%w: got %d", ErrInvalidFieldSize, n)
	}

	matches := make([]*BracketMatch, 0, n/2)
	for i := 0; i < n/2; i++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		home, away := params.TeamIDs[i], params.TeamIDs[n-1-i]
		if home == away {
			return nil, fmt.Errorf("team %d is seeded twice", home)
		}
		matches = append(matches, &BracketMatch{
			UID:          fmt.Sprintf("T%d_R1M%d", params.TournamentID, i+1),
			Round:        1,
			OrderInRound: i + 1,
			Team1ID:      home,
			Team2ID:      away,
			Seed1:        i + 1,
			Seed2:        n - i,
		})
	}
	return matches, nil
}
