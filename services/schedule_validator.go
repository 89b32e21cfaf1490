package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/Dosada05/tournament-engine/metrics"
	"github.com/Dosada05/tournament-engine/repositories"
)

const (
	DateLayout = "2006-01-02"
	TimeLayout = "15:04"
)

// ScheduleCandidate is the slot a match wants. MatchID is zero for a new match.
type ScheduleCandidate struct {
	MatchID      int
	TournamentID int
	Date         *time.Time
	Time         *string
	VenueID      *int
}

// ScheduleValidator rejects double-booked venue slots and dates in the past.
type ScheduleValidator struct {
	matches  repositories.MatchRepository
	location *time.Location
	metrics  metrics.Metrics
	now      func() time.Time
}

// NewScheduleValidator compares dates against "today" in loc. A nil loc
// means UTC.
func NewScheduleValidator(matches repositories.MatchRepository, loc *time.Location, m metrics.Metrics) *ScheduleValidator {
	if loc == nil {
		loc = time.UTC
	}
	return &ScheduleValidator{
		matches:  matches,
		location: loc,
		metrics:  m,
		now:      time.Now,
	}
}

// ValidateSchedule accepts a candidate with no date, time or venue: the
// match is simply not scheduled yet.
func (v *ScheduleValidator) ValidateSchedule(ctx context.Context, c ScheduleCandidate) error {
	if c.Date == nil || c.Time == nil || c.VenueID == nil {
		return nil
	}
	timeOfDay, err := NormalizeTime(*c.Time)
	if err != nil {
		return err
	}

	conflictID, err := v.matches.FindSlotConflict(ctx, c.TournamentID, *c.Date, timeOfDay, *c.VenueID, c.MatchID)
	if err != nil {
		return fmt.Errorf("failed to check venue availability: %w", err)
	}
	if conflictID != nil {
		v.metrics.IncScheduleConflicts()
		return fmt.Errorf("%w: venue %d on %s at %s is taken by match %d",
			ErrScheduleConflict, *c.VenueID, c.Date.Format(DateLayout), timeOfDay, *conflictID)
	}

	today := v.now().In(v.location).Format(DateLayout)
	if day := c.Date.Format(DateLayout); day < today {
		return fmt.Errorf("%w: %s is before %s", ErrPastDate, day, today)
	}
	return nil
}

// ParseDate parses a calendar date in DateLayout.
func ParseDate(s string) (time.Time, error) {
	d, err := time.Parse(DateLayout, strings.TrimSpace(s))
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: date %q must look like %s", ErrInvalidDateTime, s, DateLayout)
	}
	return d, nil
}

// NormalizeTime accepts "HH:MM" or "HH:MM:SS" and returns "HH:MM".
func NormalizeTime(s string) (string, error) {
	s = strings.TrimSpace(s)
	for _, layout := range []string{TimeLayout, "15:04:05"} {
		if t, err := time.Parse(layout, s); err == nil {
			return t.Format(TimeLayout), nil
		}
	}
	return "", fmt.Errorf("%w: time %q must look like HH:MM", ErrInvalidDateTime, s)
}
