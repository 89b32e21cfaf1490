package services

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/Dosada05/tournament-engine/metrics"
	"github.com/Dosada05/tournament-engine/models"
	"github.com/Dosada05/tournament-engine/realtime"
	"github.com/Dosada05/tournament-engine/repositories"
)

// ScheduleInput carries the editable fields of a match. Date uses
// DateLayout, Time "HH:MM".
type ScheduleInput struct {
	Date      *string `json:"date,omitempty"`
	Time      *string `json:"time,omitempty"`
	VenueID   *int    `json:"venue_id,omitempty"`
	Round     *int    `json:"round,omitempty"`
	RefereeID *int    `json:"referee_id,omitempty"`
	Notes     *string `json:"notes,omitempty"`
}

type CreateMatchInput struct {
	TournamentID int  `json:"tournament_id"`
	PhaseID      int  `json:"phase_id"`
	GroupID      *int `json:"group_id,omitempty"`
	ScheduleInput
}

// TeamScore is one side of a result submission. Walkover marks the side that
// forfeited (football only).
type TeamScore struct {
	TeamID   int  `json:"team_id"`
	Score    int  `json:"score"`
	Walkover bool `json:"walkover,omitempty"`
}

type EventInput struct {
	LinkID      int     `json:"link_id"`
	EventTypeID int     `json:"event_type_id"`
	PlayerID    *int    `json:"player_id,omitempty"`
	Minute      *int    `json:"minute,omitempty"`
	Notes       *string `json:"notes,omitempty"`
}

type MatchService struct {
	repos       Repositories
	validator   *ScheduleValidator
	metrics     metrics.Metrics
	broadcaster Broadcaster
	logger      *slog.Logger
}

func NewMatchService(repos Repositories, validator *ScheduleValidator, m metrics.Metrics, b Broadcaster, logger *slog.Logger) *MatchService {
	return &MatchService{
		repos:       repos,
		validator:   validator,
		metrics:     m,
		broadcaster: broadcasterOrNoop(b),
		logger:      loggerOrDefault(logger),
	}
}

func (s *MatchService) GetMatch(ctx context.Context, matchID int) (*models.Match, error) {
	m, err := s.repos.Matches.GetByID(ctx, matchID)
	if err != nil {
		return nil, translateRepoError(err)
	}
	return m, nil
}

func (s *MatchService) CreateMatch(ctx context.Context, in CreateMatchInput) (*models.Match, error) {
	if _, err := s.repos.Tournaments.GetByID(ctx, in.TournamentID); err != nil {
		return nil, translateRepoError(err)
	}
	phase, err := s.repos.Phases.GetByID(ctx, in.PhaseID)
	if err != nil {
		return nil, translateRepoError(err)
	}
	if phase.TournamentID != in.TournamentID {
		return nil, fmt.Errorf("%w: phase %d does not belong to tournament %d", ErrPhaseNotFound, in.PhaseID, in.TournamentID)
	}
	if in.GroupID != nil {
		group, err := s.repos.Groups.GetByID(ctx, *in.GroupID)
		if err != nil {
			return nil, translateRepoError(err)
		}
		if group.TournamentID != in.TournamentID {
			return nil, fmt.Errorf("%w: group %d does not belong to tournament %d", ErrGroupNotFound, *in.GroupID, in.TournamentID)
		}
	}

	match := &models.Match{
		TournamentID: in.TournamentID,
		PhaseID:      phase.ID,
		PhaseName:    phase.Name,
		GroupID:      in.GroupID,
		Status:       models.StatusScheduled,
	}
	if err := s.applySchedule(ctx, match, in.ScheduleInput); err != nil {
		return nil, err
	}

	if err := s.repos.Matches.Create(ctx, nil, match); err != nil {
		return nil, translateRepoError(err)
	}
	match.Links = []models.MatchTeamLink{}

	s.metrics.AddMatchesCreated(1)
	s.logger.Info("match created", slog.Int("match_id", match.ID), slog.Int("tournament_id", match.TournamentID))
	s.broadcaster.PublishTournamentEvent(match.TournamentID, realtime.EventMatchUpdated, match)
	return match, nil
}

// RescheduleMatch replaces the schedule fields of a match. The match may
// keep its own slot.
func (s *MatchService) RescheduleMatch(ctx context.Context, matchID int, in ScheduleInput) (*models.Match, error) {
	match, err := s.GetMatch(ctx, matchID)
	if err != nil {
		return nil, err
	}
	if err := s.applySchedule(ctx, match, in); err != nil {
		return nil, err
	}
	if err := s.repos.Matches.UpdateSchedule(ctx, nil, match); err != nil {
		return nil, translateRepoError(err)
	}

	s.broadcaster.PublishTournamentEvent(match.TournamentID, realtime.EventMatchUpdated, match)
	return match, nil
}

func (s *MatchService) applySchedule(ctx context.Context, match *models.Match, in ScheduleInput) error {
	match.Date, match.Time = nil, nil
	if in.Date != nil {
		d, err := ParseDate(*in.Date)
		if err != nil {
			return err
		}
		match.Date = &d
	}
	if in.Time != nil {
		t, err := NormalizeTime(*in.Time)
		if err != nil {
			return err
		}
		match.Time = &t
	}
	match.VenueID = in.VenueID
	match.Round = in.Round
	match.RefereeID = in.RefereeID
	match.Notes = in.Notes

	return s.validator.ValidateSchedule(ctx, ScheduleCandidate{
		MatchID:      match.ID,
		TournamentID: match.TournamentID,
		Date:         match.Date,
		Time:         match.Time,
		VenueID:      match.VenueID,
	})
}

// AssignTeams replaces the two sides of a match. In a group match both teams
// must belong to that group.
func (s *MatchService) AssignTeams(ctx context.Context, matchID, teamAID, teamBID int) (*models.Match, error) {
	if teamAID == teamBID {
		return nil, fmt.Errorf("%w: a team cannot play itself", ErrTeamMismatch)
	}
	match, err := s.GetMatch(ctx, matchID)
	if err != nil {
		return nil, err
	}
	if match.Status == models.StatusCompleted {
		return nil, fmt.Errorf("%w: match %d is completed", ErrInvalidTransition, matchID)
	}
	for _, teamID := range []int{teamAID, teamBID} {
		team, err := s.repos.Teams.GetByID(ctx, teamID)
		if err != nil {
			return nil, translateRepoError(err)
		}
		if team.TournamentID != match.TournamentID {
			return nil, fmt.Errorf("%w: team %d is not in tournament %d", ErrTeamMismatch, teamID, match.TournamentID)
		}
		if match.GroupID != nil && (team.GroupID == nil || *team.GroupID != *match.GroupID) {
			return nil, fmt.Errorf("%w: team %d is not in group %d", ErrTeamMismatch, teamID, *match.GroupID)
		}
	}

	err = s.repos.Tx.WithinTransaction(ctx, func(ctx context.Context, exec repositories.SQLExecutor) error {
		if err := s.repos.Matches.DeleteTeamLinks(ctx, exec, matchID); err != nil {
			return err
		}
		for _, teamID := range []int{teamAID, teamBID} {
			if err := s.repos.Matches.CreateTeamLink(ctx, exec, &models.MatchTeamLink{MatchID: matchID, TeamID: teamID}); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, translateRepoError(err)
	}
	return s.reloadAndPublish(ctx, matchID, realtime.EventMatchUpdated)
}

// RecordScore stores both scores and derives the results. A football side
// marked as walkover gets WO and its opponent WINNER regardless of score.
func (s *MatchService) RecordScore(ctx context.Context, matchID int, scores []TeamScore) (*models.Match, error) {
	match, err := s.GetMatch(ctx, matchID)
	if err != nil {
		return nil, err
	}
	if len(match.Links) != 2 {
		return nil, fmt.Errorf("%w: match %d has %d teams assigned, need 2", ErrTeamMismatch, matchID, len(match.Links))
	}
	if len(scores) != 2 {
		return nil, fmt.Errorf("%w: exactly two scores are required", ErrValidationFailed)
	}

	byTeam := make(map[int]TeamScore, 2)
	for _, sc := range scores {
		if sc.Score < 0 {
			return nil, fmt.Errorf("%w: score of team %d is negative", ErrValidationFailed, sc.TeamID)
		}
		byTeam[sc.TeamID] = sc
	}
	a, okA := byTeam[match.Links[0].TeamID]
	b, okB := byTeam[match.Links[1].TeamID]
	if !okA || !okB {
		return nil, fmt.Errorf("%w: scores must be for teams %d and %d", ErrTeamMismatch, match.Links[0].TeamID, match.Links[1].TeamID)
	}

	tournament, err := s.repos.Tournaments.GetByID(ctx, match.TournamentID)
	if err != nil {
		return nil, translateRepoError(err)
	}
	resultA, resultB, err := deriveResults(tournament.Sport(), a, b)
	if err != nil {
		return nil, err
	}

	err = s.repos.Tx.WithinTransaction(ctx, func(ctx context.Context, exec repositories.SQLExecutor) error {
		if err := s.repos.Matches.UpdateTeamLinkResult(ctx, exec, match.Links[0].ID, ptr(a.Score), &resultA); err != nil {
			return err
		}
		return s.repos.Matches.UpdateTeamLinkResult(ctx, exec, match.Links[1].ID, ptr(b.Score), &resultB)
	})
	if err != nil {
		return nil, translateRepoError(err)
	}

	updated, err := s.reloadAndPublish(ctx, matchID, realtime.EventMatchUpdated)
	if err != nil {
		return nil, err
	}
	if updated.Status == models.StatusCompleted {
		s.broadcaster.PublishTournamentEvent(updated.TournamentID, realtime.EventStandingsUpdated, map[string]int{"match_id": matchID})
	}
	return updated, nil
}

func deriveResults(sport models.Sport, a, b TeamScore) (models.ResultCategory, models.ResultCategory, error) {
	if a.Walkover || b.Walkover {
		switch {
		case sport == models.SportBasketball:
			return "", "", fmt.Errorf("%w: basketball walkovers are recorded as an event", ErrValidationFailed)
		case a.Walkover && b.Walkover:
			return "", "", fmt.Errorf("%w: only one side can forfeit", ErrValidationFailed)
		case a.Walkover:
			return models.ResultWalkover, models.ResultWinner, nil
		default:
			return models.ResultWinner, models.ResultWalkover, nil
		}
	}
	switch {
	case a.Score > b.Score:
		return models.ResultWinner, models.ResultLoser, nil
	case a.Score < b.Score:
		return models.ResultLoser, models.ResultWinner, nil
	case sport == models.SportBasketball:
		return "", "", fmt.Errorf("%w: %d-%d", ErrDrawNotAllowed, a.Score, b.Score)
	}
	return models.ResultDraw, models.ResultDraw, nil
}

// TransitionMatchState moves a match through its lifecycle. Staying in the
// current state is a no-op, but completing still needs both scores.
func (s *MatchService) TransitionMatchState(ctx context.Context, matchID int, newState string) (*models.Match, error) {
	target, ok := models.ParseMatchStatus(newState)
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrInvalidStatus, newState)
	}
	match, err := s.GetMatch(ctx, matchID)
	if err != nil {
		return nil, err
	}
	if !match.Status.CanTransition(target) {
		return nil, fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, match.Status, target)
	}
	if target == models.StatusCompleted && !match.HasBothScores() {
		return nil, fmt.Errorf("%w: match %d", ErrPrematureCompletion, matchID)
	}
	if target == match.Status {
		return match, nil
	}

	if err := s.repos.Matches.UpdateStatus(ctx, nil, matchID, target); err != nil {
		return nil, translateRepoError(err)
	}
	s.metrics.IncMatchTransitions(string(target))
	s.logger.Info("match status changed",
		slog.Int("match_id", matchID),
		slog.String("from", string(match.Status)),
		slog.String("to", string(target)))

	match.Status = target
	s.broadcaster.PublishTournamentEvent(match.TournamentID, realtime.EventMatchUpdated, match)
	s.broadcaster.PublishTournamentEvent(match.TournamentID, realtime.EventStandingsUpdated, map[string]int{"match_id": matchID})
	return match, nil
}

// RecordEvent stores a negative event against one side of the match.
func (s *MatchService) RecordEvent(ctx context.Context, matchID int, in EventInput) (*models.NegativeEvent, error) {
	match, err := s.GetMatch(ctx, matchID)
	if err != nil {
		return nil, err
	}
	link, err := s.repos.Matches.GetTeamLink(ctx, in.LinkID)
	if err != nil {
		return nil, translateRepoError(err)
	}
	if link.MatchID != matchID {
		return nil, fmt.Errorf("%w: link %d is not part of match %d", ErrLinkNotFound, in.LinkID, matchID)
	}
	eventType, err := s.repos.Events.GetEventType(ctx, in.EventTypeID)
	if err != nil {
		return nil, translateRepoError(err)
	}
	if eventType.RequiresPlayer && in.PlayerID == nil {
		return nil, fmt.Errorf("%w: %s", ErrPlayerRequired, eventType.Name)
	}

	event := &models.NegativeEvent{
		LinkID:      link.ID,
		EventTypeID: eventType.ID,
		PlayerID:    in.PlayerID,
		Minute:      in.Minute,
		Notes:       in.Notes,
	}
	if err := s.repos.Events.Create(ctx, nil, event); err != nil {
		return nil, translateRepoError(err)
	}
	event.EventTypeName = eventType.Name
	event.PenaltyWeight = eventType.PenaltyWeight
	event.TeamID = link.TeamID

	s.broadcaster.PublishTournamentEvent(match.TournamentID, realtime.EventEventsUpdated, event)
	if match.Status == models.StatusCompleted {
		s.broadcaster.PublishTournamentEvent(match.TournamentID, realtime.EventStandingsUpdated, map[string]int{"match_id": matchID})
	}
	return event, nil
}

func (s *MatchService) ListEvents(ctx context.Context, matchID int) ([]models.NegativeEvent, error) {
	if _, err := s.GetMatch(ctx, matchID); err != nil {
		return nil, err
	}
	events, err := s.repos.Events.ListByMatch(ctx, matchID)
	if err != nil {
		return nil, fmt.Errorf("failed to list events of match %d: %w", matchID, err)
	}
	return events, nil
}

func (s *MatchService) reloadAndPublish(ctx context.Context, matchID int, eventType string) (*models.Match, error) {
	match, err := s.GetMatch(ctx, matchID)
	if err != nil {
		return nil, err
	}
	s.broadcaster.PublishTournamentEvent(match.TournamentID, eventType, match)
	return match, nil
}

