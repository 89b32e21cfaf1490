package services

import (
	"errors"

	"github.com/Dosada05/tournament-engine/repositories"
)

// Два вида ошибок, на которые опирается HTTP-слой.
var (
	ErrNotFound     = errors.New("requested resource not found")
	ErrInvalidInput = errors.New("invalid input")
)

// kindError is a sentinel that also matches its kind with errors.Is.
type kindError struct {
	kind error
	msg  string
}

func (e *kindError) Error() string { return e.msg }
func (e *kindError) Unwrap() error { return e.kind }

func notFound(msg string) error     { return &kindError{kind: ErrNotFound, msg: msg} }
func invalidInput(msg string) error { return &kindError{kind: ErrInvalidInput, msg: msg} }

var (
	// Не найдено
	ErrTournamentNotFound = notFound("tournament not found")
	ErrGroupNotFound      = notFound("group not found")
	ErrTeamNotFound       = notFound("team not found")
	ErrPhaseNotFound      = notFound("phase not found")
	ErrMatchNotFound      = notFound("match not found")
	ErrLinkNotFound       = notFound("match team link not found")
	ErrEventTypeNotFound  = notFound("event type not found")

	// Валидация и бизнес-правила
	ErrValidationFailed       = invalidInput("validation failed")
	ErrInvalidDateTime        = invalidInput("malformed date or time")
	ErrUnsupportedSport       = invalidInput("sport has no knockout stage")
	ErrInsufficientQualifiers = invalidInput("not enough qualified teams")
	ErrPastDate               = invalidInput("match date is in the past")
	ErrPrematureCompletion    = invalidInput("match cannot be completed before both scores are recorded")
	ErrInvalidTransition      = invalidInput("invalid match status transition")
	ErrInvalidStatus          = invalidInput("unknown match status")
	ErrGroupStageIncomplete   = invalidInput("group stage is not complete")
	ErrTeamMismatch           = invalidInput("teams do not match the match or its group")
	ErrPlayerRequired         = invalidInput("event type requires a player")
	ErrDrawNotAllowed         = invalidInput("basketball matches cannot end in a draw")
	ErrPublishingDisabled     = invalidInput("publishing not configured")

	// ErrScheduleConflict is InvalidInput too; handlers answer it with 409.
	ErrScheduleConflict = invalidInput("venue is already booked at that date and time")
)

// translateRepoError maps repository sentinels onto service errors. Anything
// unknown passes through and ends up as a server error.
func translateRepoError(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, repositories.ErrTournamentNotFound):
		return ErrTournamentNotFound
	case errors.Is(err, repositories.ErrGroupNotFound):
		return ErrGroupNotFound
	case errors.Is(err, repositories.ErrTeamNotFound):
		return ErrTeamNotFound
	case errors.Is(err, repositories.ErrPhaseNotFound):
		return ErrPhaseNotFound
	case errors.Is(err, repositories.ErrMatchNotFound):
		return ErrMatchNotFound
	case errors.Is(err, repositories.ErrMatchTeamLinkNotFound):
		return ErrLinkNotFound
	case errors.Is(err, repositories.ErrEventTypeNotFound):
		return ErrEventTypeNotFound
	case errors.Is(err, repositories.ErrMatchTournamentInvalid),
		errors.Is(err, repositories.ErrMatchTeamInvalid),
		errors.Is(err, repositories.ErrMatchTeamDuplicate),
		errors.Is(err, repositories.ErrEventLinkInvalid):
		return &kindError{kind: ErrValidationFailed, msg: err.Error()}
	}
	return err
}
