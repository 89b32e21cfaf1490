package models

import (
	"strings"
	"time"
)

type MatchStatus string

const (
	StatusScheduled MatchStatus = "SCHEDULED"
	StatusCompleted MatchStatus = "COMPLETED"
	StatusPostponed MatchStatus = "POSTPONED"
)

// ParseMatchStatus accepts the status case-insensitively.
func ParseMatchStatus(s string) (MatchStatus, bool) {
	status := MatchStatus(strings.ToUpper(strings.TrimSpace(s)))
	switch status {
	case StatusScheduled, StatusCompleted, StatusPostponed:
		return status, true
	}
	return "", false
}

// matchTransitions: допустимые переходы жизненного цикла матча.
var matchTransitions = map[MatchStatus][]MatchStatus{
	StatusScheduled: {StatusCompleted, StatusPostponed},
	StatusCompleted: {StatusPostponed, StatusScheduled},
	StatusPostponed: {StatusScheduled},
}

// CanTransition reports whether a match may move from one state to another.
// Staying in the same state is always allowed.
func (s MatchStatus) CanTransition(to MatchStatus) bool {
	if s == to {
		return true
	}
	for _, allowed := range matchTransitions[s] {
		if allowed == to {
			return true
		}
	}
	return false
}

type ResultCategory string

const (
	ResultWinner   ResultCategory = "WINNER"
	ResultLoser    ResultCategory = "LOSER"
	ResultDraw     ResultCategory = "DRAW"
	ResultWalkover ResultCategory = "WO"
)

// IsWalkoverResult reports whether a stored result name marks a forfeit.
// Matching is case-insensitive and ignores dots and surrounding spaces, so
// "wo", "W.O." and "W O" all count.
func IsWalkoverResult(r *ResultCategory) bool {
	if r == nil {
		return false
	}
	name := strings.ToUpper(strings.TrimSpace(string(*r)))
	name = strings.ReplaceAll(name, ".", "")
	return name == "WO" || name == "W O"
}

// Match is a fixture. Date, Time and VenueID stay nil until the match is
// scheduled; Time is kept as "15:04".
type Match struct {
	ID           int         `json:"id" db:"id"`
	TournamentID int         `json:"tournament_id" db:"tournament_id"`
	PhaseID      int         `json:"phase_id" db:"phase_id"`
	PhaseName    string      `json:"phase_name" db:"-"`
	GroupID      *int        `json:"group_id,omitempty" db:"group_id"`
	Round        *int        `json:"round,omitempty" db:"round"`
	RefereeID    *int        `json:"referee_id,omitempty" db:"referee_id"`
	VenueID      *int        `json:"venue_id,omitempty" db:"venue_id"`
	Date         *time.Time  `json:"date,omitempty" db:"match_date"`
	Time         *string     `json:"time,omitempty" db:"match_time"`
	Status       MatchStatus `json:"status" db:"status"`
	Notes        *string     `json:"notes,omitempty" db:"notes"`
	CreatedAt    time.Time   `json:"created_at" db:"created_at"`

	Links []MatchTeamLink `json:"teams" db:"-"`
}

// IsScheduled reports whether date, time and venue are all set.
func (m *Match) IsScheduled() bool {
	return m.Date != nil && m.Time != nil && m.VenueID != nil
}

// IsPlayed reports whether the match has exactly two links and both carry a
// score and a result.
func (m *Match) IsPlayed() bool {
	if len(m.Links) != 2 {
		return false
	}
	for _, l := range m.Links {
		if l.Score == nil || l.Result == nil {
			return false
		}
	}
	return true
}

// HasBothScores is the guard for completing a match.
func (m *Match) HasBothScores() bool {
	if len(m.Links) != 2 {
		return false
	}
	return m.Links[0].Score != nil && m.Links[1].Score != nil
}

// MatchTeamLink ties a team to a match and carries its score and result.
type MatchTeamLink struct {
	ID       int             `json:"id" db:"id"`
	MatchID  int             `json:"match_id" db:"match_id"`
	TeamID   int             `json:"team_id" db:"team_id"`
	TeamName string          `json:"team_name" db:"-"`
	Score    *int            `json:"score,omitempty" db:"score"`
	Result   *ResultCategory `json:"result,omitempty" db:"result"`
}
