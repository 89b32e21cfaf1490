package services

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/Dosada05/tournament-engine/metrics"
	"github.com/Dosada05/tournament-engine/models"
	"github.com/Dosada05/tournament-engine/realtime"
	"github.com/Dosada05/tournament-engine/standings"
	"github.com/Dosada05/tournament-engine/storage"
	"golang.org/x/sync/errgroup"
)

// loadConcurrency caps the per-team and per-match lookups of one snapshot.
const loadConcurrency = 8

type StandingsConfig struct {
	// Fair-play only counts events from phases whose name contains this marker.
	GroupStageMarker string
}

type StandingsService struct {
	repos       Repositories
	cfg         StandingsConfig
	uploader    storage.FileUploader
	metrics     metrics.Metrics
	broadcaster Broadcaster
	logger      *slog.Logger
	now         func() time.Time
}

// NewStandingsService wires the standings service. uploader may be nil, in
// which case publishing is disabled.
func NewStandingsService(repos Repositories, cfg StandingsConfig, uploader storage.FileUploader, m metrics.Metrics, b Broadcaster, logger *slog.Logger) *StandingsService {
	if cfg.GroupStageMarker == "" {
		cfg.GroupStageMarker = "Group"
	}
	return &StandingsService{
		repos:       repos,
		cfg:         cfg,
		uploader:    uploader,
		metrics:     m,
		broadcaster: broadcasterOrNoop(b),
		logger:      loggerOrDefault(logger),
		now:         time.Now,
	}
}

// ComputeStandings ranks every team of the tournament, or of one group when
// groupID is set, from the completed matches in scope.
func (s *StandingsService) ComputeStandings(ctx context.Context, tournamentID int, groupID *int) (*models.StandingsTable, error) {
	started := s.now()

	in, err := s.loadInput(ctx, tournamentID, groupID)
	if err != nil {
		return nil, err
	}
	table := standings.Compute(*in)

	s.metrics.IncStandingsComputed(string(in.Sport))
	s.metrics.ObserveStandingsDuration(s.now().Sub(started).Seconds())
	return table, nil
}

// ComputeQualification returns the classification view for every grouped
// team. It never rejects a short field.
func (s *StandingsService) ComputeQualification(ctx context.Context, tournamentID int) ([]models.QualificationEntry, error) {
	c, err := s.Classify(ctx, tournamentID)
	if err != nil {
		return nil, err
	}
	if c.Entries == nil {
		return []models.QualificationEntry{}, nil
	}
	return c.Entries, nil
}

// Classify computes the group tables the sport qualifies from and the
// seeded qualifier list.
//
// Football partitions the tournament-wide table by group. Basketball ranks
// each group on its own matches.
func (s *StandingsService) Classify(ctx context.Context, tournamentID int) (*standings.Classification, error) {
	tournament, err := s.repos.Tournaments.GetByID(ctx, tournamentID)
	if err != nil {
		return nil, translateRepoError(err)
	}
	groups, err := s.repos.Groups.ListByTournament(ctx, tournamentID)
	if err != nil {
		return nil, fmt.Errorf("failed to list groups of tournament %d: %w", tournamentID, err)
	}

	sport := tournament.Sport()
	var (
		tables  []standings.GroupTable
		overall *models.StandingsTable
	)
	switch sport {
	case models.SportBasketball:
		tables = make([]standings.GroupTable, len(groups))
		g, gCtx := errgroup.WithContext(ctx)
		for i, group := range groups {
			g.Go(func() error {
				table, err := s.ComputeStandings(gCtx, tournamentID, &group.ID)
				if err != nil {
					return err
				}
				rows := make([]*models.TeamStatistics, len(table.Rows))
				for j := range table.Rows {
					rows[j] = &table.Rows[j].TeamStatistics
				}
				tables[i] = standings.GroupTable{Group: group, Rows: rows}
				return nil
			})
		}
		if err := g.Wait(); err != nil {
			return nil, err
		}
	default:
		overall, err = s.ComputeStandings(ctx, tournamentID, nil)
		if err != nil {
			return nil, err
		}
		tables = standings.PartitionByGroup(overall, groups)
	}

	c := standings.Classify(sport, tables, overall)
	return &c, nil
}

// Snapshot is the published standings document.
type Snapshot struct {
	TournamentID   int                         `json:"tournament_id"`
	TournamentName string                      `json:"tournament_name"`
	GeneratedAt    time.Time                   `json:"generated_at"`
	Standings      *models.StandingsTable      `json:"standings"`
	Classification []models.QualificationEntry `json:"classification"`
}

// PublishStandings uploads the current standings and classification of a
// tournament and returns the public URL of the document.
func (s *StandingsService) PublishStandings(ctx context.Context, tournamentID int) (string, error) {
	if s.uploader == nil {
		return "", ErrPublishingDisabled
	}
	tournament, err := s.repos.Tournaments.GetByID(ctx, tournamentID)
	if err != nil {
		return "", translateRepoError(err)
	}

	var (
		table   *models.StandingsTable
		entries []models.QualificationEntry
	)
	g, gCtx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		table, err = s.ComputeStandings(gCtx, tournamentID, nil)
		return err
	})
	g.Go(func() error {
		var err error
		entries, err = s.ComputeQualification(gCtx, tournamentID)
		return err
	})
	if err := g.Wait(); err != nil {
		return "", err
	}

	snapshot := Snapshot{
		TournamentID:   tournament.ID,
		TournamentName: tournament.Name,
		GeneratedAt:    s.now().UTC(),
		Standings:      table,
		Classification: entries,
	}
	result, err := storage.UploadJSON(ctx, s.uploader, storage.StandingsSnapshotKey(tournamentID), snapshot)
	if err != nil {
		s.logger.Error("failed to publish standings snapshot", slog.Int("tournament_id", tournamentID), slog.Any("error", err))
		return "", err
	}

	s.metrics.IncSnapshotsPublished()
	s.logger.Info("standings snapshot published", slog.Int("tournament_id", tournamentID), slog.String("location", result.Location))
	s.broadcaster.PublishTournamentEvent(tournamentID, realtime.EventStandingsUpdated, map[string]string{"snapshot_url": result.Location})
	return result.Location, nil
}

// UnpublishStandings removes the published snapshot of a tournament.
func (s *StandingsService) UnpublishStandings(ctx context.Context, tournamentID int) error {
	if s.uploader == nil {
		return ErrPublishingDisabled
	}
	if _, err := s.repos.Tournaments.GetByID(ctx, tournamentID); err != nil {
		return translateRepoError(err)
	}
	if err := s.uploader.Delete(ctx, storage.StandingsSnapshotKey(tournamentID)); err != nil {
		return fmt.Errorf("failed to delete standings snapshot of tournament %d: %w", tournamentID, err)
	}
	s.logger.Info("standings snapshot removed", slog.Int("tournament_id", tournamentID))
	return nil
}

// loadInput reads one consistent-enough snapshot of the tournament. The
// tournament, group, teams and matches are loaded concurrently, then the
// fair-play weights and walkover events that depend on them.
func (s *StandingsService) loadInput(ctx context.Context, tournamentID int, groupID *int) (*standings.Input, error) {
	var (
		tournament *models.Tournament
		teams      []models.Team
		matches    []models.Match
	)

	g, gCtx := errgroup.WithContext(ctx)
	g.Go(func() error {
		t, err := s.repos.Tournaments.GetByID(gCtx, tournamentID)
		if err != nil {
			return translateRepoError(err)
		}
		tournament = t
		return nil
	})
	if groupID != nil {
		g.Go(func() error {
			group, err := s.repos.Groups.GetByID(gCtx, *groupID)
			if err != nil {
				return translateRepoError(err)
			}
			if group.TournamentID != tournamentID {
				return fmt.Errorf("%w: group %d does not belong to tournament %d", ErrGroupNotFound, *groupID, tournamentID)
			}
			return nil
		})
	}
	g.Go(func() error {
		list, err := s.repos.Teams.ListByTournament(gCtx, tournamentID, groupID)
		if err != nil {
			return fmt.Errorf("failed to list teams of tournament %d: %w", tournamentID, err)
		}
		teams = list
		return nil
	})
	g.Go(func() error {
		list, err := s.repos.Matches.ListByTournament(gCtx, tournamentID, groupID)
		if err != nil {
			return fmt.Errorf("failed to list matches of tournament %d: %w", tournamentID, err)
		}
		matches = list
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	in := &standings.Input{
		TournamentID: tournamentID,
		GroupID:      groupID,
		Sport:        tournament.Sport(),
		Teams:        teams,
		Matches:      matches,
		Penalties:    make(map[int]int, len(teams)),
		Walkovers:    make(standings.WalkoverSet),
	}

	var mu sync.Mutex
	g, gCtx = errgroup.WithContext(ctx)
	g.SetLimit(loadConcurrency)
	for _, team := range teams {
		g.Go(func() error {
			sum, err := s.repos.Events.SumNegativeWeight(gCtx, tournamentID, s.cfg.GroupStageMarker, team.ID)
			if err != nil {
				return fmt.Errorf("failed to sum penalties of team %d: %w", team.ID, err)
			}
			mu.Lock()
			in.Penalties[team.ID] = sum
			mu.Unlock()
			return nil
		})
	}
	if in.Sport == models.SportBasketball {
		for _, m := range matches {
			if m.Status != models.StatusCompleted || !m.IsPlayed() {
				continue
			}
			for _, link := range m.Links {
				g.Go(func() error {
					wo, err := s.repos.Events.HasWalkoverEvent(gCtx, m.ID, link.TeamID)
					if err != nil {
						return fmt.Errorf("failed to check walkover of team %d in match %d: %w", link.TeamID, m.ID, err)
					}
					if wo {
						mu.Lock()
						in.Walkovers.Add(m.ID, link.TeamID)
						mu.Unlock()
					}
					return nil
				})
			}
		}
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return in, nil
}
