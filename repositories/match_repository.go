package repositories

import (
	"context"
	"database/sql"
	"errors"
	"strconv"
	"strings"
	"time"

	"github.com/Dosada05/tournament-engine/models"
	"github.com/lib/pq"
)

var (
	ErrMatchNotFound          = errors.New("match not found")
	ErrMatchTeamLinkNotFound  = errors.New("match team link not found")
	ErrMatchTournamentInvalid = errors.New("match tournament or phase reference is invalid")
	ErrMatchTeamInvalid       = errors.New("match team reference is invalid")
	ErrMatchTeamDuplicate     = errors.New("team is already linked to this match")
)

var matchConstraintErrors = map[string]error{
	"matches_tournament_id_fkey":       ErrMatchTournamentInvalid,
	"matches_phase_id_fkey":            ErrMatchTournamentInvalid,
	"matches_group_id_fkey":            ErrMatchTournamentInvalid,
	"match_teams_match_id_fkey":        ErrMatchNotFound,
	"match_teams_team_id_fkey":         ErrMatchTeamInvalid,
	"match_teams_match_id_team_id_key": ErrMatchTeamDuplicate,
}

type MatchRepository interface {
	Create(ctx context.Context, exec SQLExecutor, match *models.Match) error
	GetByID(ctx context.Context, id int) (*models.Match, error)
	ListByTournament(ctx context.Context, tournamentID int, groupID *int) ([]models.Match, error)
	ListByPhase(ctx context.Context, tournamentID int, phaseName string) ([]models.Match, error)
	// FindSlotConflict returns the id of another match of the tournament that
	// already holds the date, time and venue, or nil.
	FindSlotConflict(ctx context.Context, tournamentID int, date time.Time, timeOfDay string, venueID int, excludeMatchID int) (*int, error)
	UpdateSchedule(ctx context.Context, exec SQLExecutor, match *models.Match) error
	UpdateStatus(ctx context.Context, exec SQLExecutor, id int, status models.MatchStatus) error

	CreateTeamLink(ctx context.Context, exec SQLExecutor, link *models.MatchTeamLink) error
	GetTeamLink(ctx context.Context, id int) (*models.MatchTeamLink, error)
	DeleteTeamLinks(ctx context.Context, exec SQLExecutor, matchID int) error
	UpdateTeamLinkResult(ctx context.Context, exec SQLExecutor, linkID int, score *int, result *models.ResultCategory) error
}

type postgresMatchRepository struct {
	db *sql.DB
}

func NewPostgresMatchRepository(db *sql.DB) MatchRepository {
	return &postgresMatchRepository{db: db}
}

const matchSelect = `
	SELECT m.id, m.tournament_id, m.phase_id, p.name, m.group_id, m.round, m.referee_id, m.venue_id,
	       m.match_date, to_char(m.match_time, 'HH24:MI'), m.status, m.notes, m.created_at
	FROM matches m
	JOIN phases p ON p.id = m.phase_id`

func (r *postgresMatchRepository) Create(ctx context.Context, exec SQLExecutor, match *models.Match) error {
	query := `
		INSERT INTO matches
			(tournament_id, phase_id, group_id, round, referee_id, venue_id, match_date, match_time, status, notes)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING id, created_at`

	err := getExecutor(exec, r.db).QueryRowContext(ctx, query,
		match.TournamentID,
		match.PhaseID,
		match.GroupID,
		match.Round,
		match.RefereeID,
		match.VenueID,
		match.Date,
		match.Time,
		match.Status,
		match.Notes,
	).Scan(&match.ID, &match.CreatedAt)

	return pqConstraintError(err, matchConstraintErrors)
}

func (r *postgresMatchRepository) GetByID(ctx context.Context, id int) (*models.Match, error) {
	matches, err := r.list(ctx, " WHERE m.id = $1", id)
	if err != nil {
		return nil, err
	}
	if len(matches) == 0 {
		return nil, ErrMatchNotFound
	}
	return &matches[0], nil
}

func (r *postgresMatchRepository) ListByTournament(ctx context.Context, tournamentID int, groupID *int) ([]models.Match, error) {
	var where strings.Builder
	where.WriteString(" WHERE m.tournament_id = $1")
	args := []interface{}{tournamentID}
	if groupID != nil {
		where.WriteString(" AND m.group_id = $")
		where.WriteString(strconv.Itoa(len(args) + 1))
		args = append(args, *groupID)
	}
	return r.list(ctx, where.String(), args...)
}

func (r *postgresMatchRepository) ListByPhase(ctx context.Context, tournamentID int, phaseName string) ([]models.Match, error) {
	return r.list(ctx, " WHERE m.tournament_id = $1 AND lower(p.name) = lower($2)", tournamentID, phaseName)
}

func (r *postgresMatchRepository) list(ctx context.Context, where string, args ...interface{}) ([]models.Match, error) {
	query := matchSelect + where + " ORDER BY m.match_date ASC NULLS LAST, m.match_time ASC NULLS LAST, m.id ASC"

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	matches := make([]models.Match, 0)
	for rows.Next() {
		var m models.Match
		if err := rows.Scan(
			&m.ID,
			&m.TournamentID,
			&m.PhaseID,
			&m.PhaseName,
			&m.GroupID,
			&m.Round,
			&m.RefereeID,
			&m.VenueID,
			&m.Date,
			&m.Time,
			&m.Status,
			&m.Notes,
			&m.CreatedAt,
		); err != nil {
			return nil, err
		}
		matches = append(matches, m)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if len(matches) == 0 {
		return matches, nil
	}

	ids := make([]int64, len(matches))
	for i, m := range matches {
		ids[i] = int64(m.ID)
	}
	links, err := r.linksFor(ctx, ids)
	if err != nil {
		return nil, err
	}
	for i := range matches {
		matches[i].Links = links[matches[i].ID]
	}
	return matches, nil
}

func (r *postgresMatchRepository) linksFor(ctx context.Context, matchIDs []int64) (map[int][]models.MatchTeamLink, error) {
	query := `
		SELECT mt.id, mt.match_id, mt.team_id, t.name, mt.score, mt.result
		FROM match_teams mt
		JOIN teams t ON t.id = mt.team_id
		WHERE mt.match_id = ANY($1)
		ORDER BY mt.match_id ASC, mt.id ASC`

	rows, err := r.db.QueryContext(ctx, query, pq.Array(matchIDs))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	links := make(map[int][]models.MatchTeamLink, len(matchIDs))
	for rows.Next() {
		var l models.MatchTeamLink
		if err := rows.Scan(&l.ID, &l.MatchID, &l.TeamID, &l.TeamName, &l.Score, &l.Result); err != nil {
			return nil, err
		}
		links[l.MatchID] = append(links[l.MatchID], l)
	}
	return links, rows.Err()
}

func (r *postgresMatchRepository) FindSlotConflict(ctx context.Context, tournamentID int, date time.Time, timeOfDay string, venueID int, excludeMatchID int) (*int, error) {
	query := `
		SELECT id
		FROM matches
		WHERE tournament_id = $1
		  AND match_date = $2
		  AND match_time = $3
		  AND venue_id = $4
		  AND id <> $5
		ORDER BY id ASC
		LIMIT 1`

	var id int
	err := r.db.QueryRowContext(ctx, query, tournamentID, date, timeOfDay, venueID, excludeMatchID).Scan(&id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &id, nil
}

func (r *postgresMatchRepository) UpdateSchedule(ctx context.Context, exec SQLExecutor, match *models.Match) error {
	query := `
		UPDATE matches
		SET match_date = $1, match_time = $2, venue_id = $3, round = $4, referee_id = $5, notes = $6
		WHERE id = $7`

	result, err := getExecutor(exec, r.db).ExecContext(ctx, query,
		match.Date, match.Time, match.VenueID, match.Round, match.RefereeID, match.Notes, match.ID)
	if err != nil {
		return pqConstraintError(err, matchConstraintErrors)
	}
	return checkAffectedRows(result, ErrMatchNotFound)
}

func (r *postgresMatchRepository) UpdateStatus(ctx context.Context, exec SQLExecutor, id int, status models.MatchStatus) error {
	query := `UPDATE matches SET status = $1 WHERE id = $2`
	result, err := getExecutor(exec, r.db).ExecContext(ctx, query, status, id)
	if err != nil {
		return err
	}
	return checkAffectedRows(result, ErrMatchNotFound)
}

func (r *postgresMatchRepository) CreateTeamLink(ctx context.Context, exec SQLExecutor, link *models.MatchTeamLink) error {
	query := `
		INSERT INTO match_teams (match_id, team_id, score, result)
		VALUES ($1, $2, $3, $4)
		RETURNING id`

	err := getExecutor(exec, r.db).QueryRowContext(ctx, query, link.MatchID, link.TeamID, link.Score, link.Result).Scan(&link.ID)
	return pqConstraintError(err, matchConstraintErrors)
}

func (r *postgresMatchRepository) GetTeamLink(ctx context.Context, id int) (*models.MatchTeamLink, error) {
	query := `
		SELECT mt.id, mt.match_id, mt.team_id, t.name, mt.score, mt.result
		FROM match_teams mt
		JOIN teams t ON t.id = mt.team_id
		WHERE mt.id = $1`

	var l models.MatchTeamLink
	err := r.db.QueryRowContext(ctx, query, id).Scan(&l.ID, &l.MatchID, &l.TeamID, &l.TeamName, &l.Score, &l.Result)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrMatchTeamLinkNotFound
		}
		return nil, err
	}
	return &l, nil
}

func (r *postgresMatchRepository) DeleteTeamLinks(ctx context.Context, exec SQLExecutor, matchID int) error {
	_, err := getExecutor(exec, r.db).ExecContext(ctx, `DELETE FROM match_teams WHERE match_id = $1`, matchID)
	return err
}

func (r *postgresMatchRepository) UpdateTeamLinkResult(ctx context.Context, exec SQLExecutor, linkID int, score *int, result *models.ResultCategory) error {
	query := `UPDATE match_teams SET score = $1, result = $2 WHERE id = $3`
	res, err := getExecutor(exec, r.db).ExecContext(ctx, query, score, result, linkID)
	if err != nil {
		return err
	}
	return checkAffectedRows(res, ErrMatchTeamLinkNotFound)
}
