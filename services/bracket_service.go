package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/Dosada05/tournament-engine/brackets"
	"github.com/Dosada05/tournament-engine/metrics"
	"github.com/Dosada05/tournament-engine/models"
	"github.com/Dosada05/tournament-engine/realtime"
	"github.com/Dosada05/tournament-engine/repositories"
	"github.com/Dosada05/tournament-engine/standings"
)

// BracketConfig names the phases the generators read from and write into.
type BracketConfig struct {
	GroupStagePhase   string
	QuarterfinalPhase string
	SemifinalPhase    string
	// 1 or 2 legs per pairing in group fixtures.
	GroupStageLegs int
}

func (c BracketConfig) phaseFor(stage standings.KnockoutStage) string {
	if stage == standings.StageSemifinal {
		return c.SemifinalPhase
	}
	return c.QuarterfinalPhase
}

type BracketService struct {
	repos       Repositories
	standings   *StandingsService
	cfg         BracketConfig
	metrics     metrics.Metrics
	broadcaster Broadcaster
	logger      *slog.Logger
}

func NewBracketService(repos Repositories, standingsService *StandingsService, cfg BracketConfig, m metrics.Metrics, b Broadcaster, logger *slog.Logger) *BracketService {
	if cfg.GroupStagePhase == "" {
		cfg.GroupStagePhase = "Group Stage"
	}
	if cfg.QuarterfinalPhase == "" {
		cfg.QuarterfinalPhase = "Quarterfinal"
	}
	if cfg.SemifinalPhase == "" {
		cfg.SemifinalPhase = "Semifinal"
	}
	return &BracketService{
		repos:       repos,
		standings:   standingsService,
		cfg:         cfg,
		metrics:     m,
		broadcaster: broadcasterOrNoop(b),
		logger:      loggerOrDefault(logger),
	}
}

// CheckGroupPhaseComplete counts the group-stage matches of a tournament and
// reports whether all of them are completed.
func (s *BracketService) CheckGroupPhaseComplete(ctx context.Context, tournamentID int) (*models.GroupPhaseStatus, error) {
	if _, err := s.repos.Tournaments.GetByID(ctx, tournamentID); err != nil {
		return nil, translateRepoError(err)
	}
	matches, err := s.repos.Matches.ListByPhase(ctx, tournamentID, s.cfg.GroupStagePhase)
	if err != nil {
		return nil, fmt.Errorf("failed to list group stage matches of tournament %d: %w", tournamentID, err)
	}

	status := &models.GroupPhaseStatus{MatchesTotal: len(matches)}
	for _, m := range matches {
		if m.Status == models.StatusCompleted {
			status.MatchesCompleted++
		}
	}
	pending := status.MatchesTotal - status.MatchesCompleted
	switch {
	case status.MatchesTotal == 0:
		status.Message = fmt.Sprintf("no %q matches found", s.cfg.GroupStagePhase)
	case pending > 0:
		status.Message = fmt.Sprintf("%d of %d group stage matches are still pending", pending, status.MatchesTotal)
	default:
		status.CanGenerate = true
		status.Message = "group stage complete, the bracket can be generated"
	}
	return status, nil
}

// GenerateBracket creates the first knockout round from the seeded
// qualifiers. Every match and link is written in one transaction.
//
// Calling it twice creates the round twice; an existing round is only
// logged.
func (s *BracketService) GenerateBracket(ctx context.Context, tournamentID int) ([]models.Match, error) {
	status, err := s.CheckGroupPhaseComplete(ctx, tournamentID)
	if err != nil {
		return nil, err
	}
	if !status.CanGenerate {
		return nil, fmt.Errorf("%w: %s", ErrGroupStageIncomplete, status.Message)
	}

	tournament, err := s.repos.Tournaments.GetByID(ctx, tournamentID)
	if err != nil {
		return nil, translateRepoError(err)
	}
	rules := standings.RulesFor(tournament.Sport())
	if !rules.HasKnockoutStage() {
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedSport, tournament.SportName)
	}

	classification, err := s.standings.Classify(ctx, tournamentID)
	if err != nil {
		return nil, err
	}
	qualifiers, err := standings.SelectQualifiers(*classification)
	if err != nil {
		if errors.Is(err, standings.ErrInsufficientQualifiers) {
			return nil, fmt.Errorf("%w: have %d, need %d", ErrInsufficientQualifiers, len(classification.Qualifiers), rules.QualifierCount)
		}
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedSport, tournament.SportName)
	}

	phaseName := s.cfg.phaseFor(rules.Stage)
	phase, err := s.repos.Phases.FindByName(ctx, tournamentID, phaseName)
	if err != nil {
		if errors.Is(err, repositories.ErrPhaseNotFound) {
			return nil, fmt.Errorf("%w: %q in tournament %d", ErrPhaseNotFound, phaseName, tournamentID)
		}
		return nil, err
	}
	existing, err := s.repos.Matches.ListByPhase(ctx, tournamentID, phase.Name)
	if err != nil {
		return nil, fmt.Errorf("failed to list %s matches: %w", phase.Name, err)
	}
	if len(existing) > 0 {
		s.logger.Warn("phase already has matches, bracket will be duplicated",
			slog.Int("tournament_id", tournamentID),
			slog.String("phase", phase.Name),
			slog.Int("existing", len(existing)))
	}

	teamIDs := make([]int, len(qualifiers))
	for i, q := range qualifiers {
		teamIDs[i] = q.TeamID
	}
	generator := brackets.NewSingleEliminationGenerator()
	pairs, err := generator.GenerateBracket(ctx, brackets.GenerateBracketParams{
		TournamentID: tournamentID,
		TeamIDs:      teamIDs,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to pair qualifiers of tournament %d: %w", tournamentID, err)
	}

	note := fmt.Sprintf("Auto-generated match (%s)", phase.Name)
	created, err := s.persist(ctx, pairs, func(bm *brackets.BracketMatch) *models.Match {
		return &models.Match{
			TournamentID: tournamentID,
			PhaseID:      phase.ID,
			PhaseName:    phase.Name,
			Status:       models.StatusScheduled,
			Notes:        ptr(note),
		}
	})
	if err != nil {
		return nil, err
	}

	s.metrics.IncBracketsGenerated(string(rules.Sport))
	s.metrics.AddMatchesCreated(len(created))
	s.logger.Info("bracket generated",
		slog.Int("tournament_id", tournamentID),
		slog.String("generator", generator.GetName()),
		slog.String("phase", phase.Name),
		slog.Int("matches", len(created)))
	s.broadcaster.PublishTournamentEvent(tournamentID, realtime.EventBracketUpdated, created)
	return created, nil
}

// GenerateGroupFixtures creates the round-robin fixtures of every group in
// the group-stage phase, unscheduled and numbered by matchday.
func (s *BracketService) GenerateGroupFixtures(ctx context.Context, tournamentID int) ([]models.Match, error) {
	if _, err := s.repos.Tournaments.GetByID(ctx, tournamentID); err != nil {
		return nil, translateRepoError(err)
	}
	phase, err := s.repos.Phases.FindByName(ctx, tournamentID, s.cfg.GroupStagePhase)
	if err != nil {
		if errors.Is(err, repositories.ErrPhaseNotFound) {
			return nil, fmt.Errorf("%w: %q in tournament %d", ErrPhaseNotFound, s.cfg.GroupStagePhase, tournamentID)
		}
		return nil, err
	}
	groups, err := s.repos.Groups.ListByTournament(ctx, tournamentID)
	if err != nil {
		return nil, fmt.Errorf("failed to list groups of tournament %d: %w", tournamentID, err)
	}

	generator := brackets.NewRoundRobinGenerator(s.cfg.GroupStageLegs)
	var (
		pairs   []*brackets.BracketMatch
		groupOf = make(map[*brackets.BracketMatch]int)
	)
	for _, group := range groups {
		teams, err := s.repos.Teams.ListByTournament(ctx, tournamentID, &group.ID)
		if err != nil {
			return nil, fmt.Errorf("failed to list teams of group %d: %w", group.ID, err)
		}
		if len(teams) < 2 {
			s.logger.Warn("group skipped, fewer than two teams", slog.Int("group_id", group.ID))
			continue
		}
		ids := make([]int, len(teams))
		for i, t := range teams {
			ids[i] = t.ID
		}
		fixtures, err := generator.GenerateBracket(ctx, brackets.GenerateBracketParams{TournamentID: tournamentID, TeamIDs: ids})
		if err != nil {
			return nil, fmt.Errorf("failed to generate fixtures of group %d: %w", group.ID, err)
		}
		for _, f := range fixtures {
			groupOf[f] = group.ID
		}
		pairs = append(pairs, fixtures...)
	}
	if len(pairs) == 0 {
		return nil, fmt.Errorf("%w: no group has at least two teams", ErrValidationFailed)
	}

	note := fmt.Sprintf("Auto-generated match (%s)", phase.Name)
	created, err := s.persist(ctx, pairs, func(bm *brackets.BracketMatch) *models.Match {
		return &models.Match{
			TournamentID: tournamentID,
			PhaseID:      phase.ID,
			PhaseName:    phase.Name,
			GroupID:      ptr(groupOf[bm]),
			Round:        ptr(bm.Round),
			Status:       models.StatusScheduled,
			Notes:        ptr(note),
		}
	})
	if err != nil {
		return nil, err
	}

	s.metrics.AddMatchesCreated(len(created))
	s.logger.Info("group fixtures generated", slog.Int("tournament_id", tournamentID), slog.Int("matches", len(created)))
	s.broadcaster.PublishTournamentEvent(tournamentID, realtime.EventMatchUpdated, created)
	return created, nil
}

// persist writes one match with two empty links per pairing, all or nothing.
func (s *BracketService) persist(ctx context.Context, pairs []*brackets.BracketMatch, build func(*brackets.BracketMatch) *models.Match) ([]models.Match, error) {
	created := make([]models.Match, 0, len(pairs))
	err := s.repos.Tx.WithinTransaction(ctx, func(ctx context.Context, exec repositories.SQLExecutor) error {
		for _, bm := range pairs {
			match := build(bm)
			if err := s.repos.Matches.Create(ctx, exec, match); err != nil {
				return fmt.Errorf("failed to create match %s: %w", bm.UID, err)
			}
			for _, teamID := range []int{bm.Team1ID, bm.Team2ID} {
				link := &models.MatchTeamLink{MatchID: match.ID, TeamID: teamID}
				if err := s.repos.Matches.CreateTeamLink(ctx, exec, link); err != nil {
					return fmt.Errorf("failed to link team %d to match %s: %w", teamID, bm.UID, err)
				}
				match.Links = append(match.Links, *link)
			}
			created = append(created, *match)
		}
		return nil
	})
	if err != nil {
		return nil, translateRepoError(err)
	}
	return created, nil
}
