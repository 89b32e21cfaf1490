package standings

import (
	"cmp"

	"github.com/Dosada05/tournament-engine/models"
)

// KnockoutStage is the first elimination round a sport qualifies into.
type KnockoutStage string

const (
	StageNone         KnockoutStage = ""
	StageQuarterfinal KnockoutStage = "quarterfinal"
	StageSemifinal    KnockoutStage = "semifinal"
)

// Rules is the per-sport strategy: scoring table, tie-break chain, how a
// forfeit is detected and how many teams reach the knockout stage.
type Rules struct {
	Sport      models.Sport
	PointsWin  int
	PointsDraw int
	PointsLoss int

	Stage          KnockoutStage
	QualifierCount int

	tieBreak func(a, b *models.TeamStatistics) int
	forfeit  func(in *Input, matchID int, link *models.MatchTeamLink) bool
}

var footballRules = Rules{
	Sport:          models.SportFootball,
	PointsWin:      3,
	PointsDraw:     1,
	PointsLoss:     0,
	Stage:          StageQuarterfinal,
	QualifierCount: 8,
	tieBreak:       footballTieBreak,
	forfeit:        forfeitByResult,
}

var basketballRules = Rules{
	Sport:          models.SportBasketball,
	PointsWin:      2,
	PointsDraw:     0,
	PointsLoss:     1,
	Stage:          StageSemifinal,
	QualifierCount: 4,
	tieBreak:       basketballTieBreak,
	forfeit:        forfeitByEvent,
}

// RulesFor returns the rules of a sport. Anything that is not basketball is
// ranked with the football table; an unknown sport keeps SportUnknown and has
// no knockout stage.
func RulesFor(sport models.Sport) Rules {
	switch sport {
	case models.SportBasketball:
		return basketballRules
	case models.SportFootball:
		return footballRules
	}
	r := footballRules
	r.Sport = sport
	r.Stage = StageNone
	r.QualifierCount = 0
	return r
}

// HasKnockoutStage reports whether qualifiers and brackets are defined.
func (r Rules) HasKnockoutStage() bool {
	return r.Stage != StageNone
}

// Compare orders two rows: teams that played before idle ones, points desc,
// the sport's tie-break chain, then team name and id so the order never
// depends on input order.
func (r Rules) Compare(a, b *models.TeamStatistics) int {
	if c := cmp.Compare(unplayed(a), unplayed(b)); c != 0 {
		return c
	}
	if c := cmp.Compare(b.Points, a.Points); c != 0 {
		return c
	}
	if c := r.tieBreak(a, b); c != 0 {
		return c
	}
	if c := cmp.Compare(a.TeamName, b.TeamName); c != 0 {
		return c
	}
	return cmp.Compare(a.TeamID, b.TeamID)
}

// unplayed is 1 for a team without played matches.
func unplayed(s *models.TeamStatistics) int {
	if s.Played == 0 {
		return 1
	}
	return 0
}

// fair play asc, wins desc, difference desc, for desc, losses asc, against asc
func footballTieBreak(a, b *models.TeamStatistics) int {
	if c := cmp.Compare(a.FairPlay, b.FairPlay); c != 0 {
		return c
	}
	if c := cmp.Compare(b.Won, a.Won); c != 0 {
		return c
	}
	if c := cmp.Compare(b.Difference(), a.Difference()); c != 0 {
		return c
	}
	if c := cmp.Compare(b.For, a.For); c != 0 {
		return c
	}
	if c := cmp.Compare(a.Lost, b.Lost); c != 0 {
		return c
	}
	return cmp.Compare(a.Against, b.Against)
}

// fair play asc, wins desc, for desc, difference desc, first match score desc
func basketballTieBreak(a, b *models.TeamStatistics) int {
	if c := cmp.Compare(a.FairPlay, b.FairPlay); c != 0 {
		return c
	}
	if c := cmp.Compare(b.Won, a.Won); c != 0 {
		return c
	}
	if c := cmp.Compare(b.For, a.For); c != 0 {
		return c
	}
	if c := cmp.Compare(b.Difference(), a.Difference()); c != 0 {
		return c
	}
	return cmp.Compare(b.FirstMatchScore, a.FirstMatchScore)
}

// forfeitByResult: football stores the forfeit as the "WO" result category.
func forfeitByResult(_ *Input, _ int, link *models.MatchTeamLink) bool {
	return models.IsWalkoverResult(link.Result)
}

// forfeitByEvent: basketball records the forfeit as a walkover-typed event.
func forfeitByEvent(in *Input, matchID int, link *models.MatchTeamLink) bool {
	return in.Walkovers.Has(matchID, link.TeamID)
}
