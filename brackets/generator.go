package brackets

import (
	"context"
)

// GenerateBracketParams carries the entrants in seed order (index 0 is the
// top seed) or, for round robin, in any stable order.
type GenerateBracketParams struct {
	TournamentID int
	TeamIDs      []int
}

// BracketMatch is a generated pairing, not yet persisted.
type BracketMatch struct {
	UID          string
	Round        int
	OrderInRound int

	Team1ID int
	Team2ID int
	Seed1   int
	Seed2   int
}

type BracketGenerator interface {
	GenerateBracket(ctx context.Context, params GenerateBracketParams) ([]*BracketMatch, error)

	GetName() string
}
