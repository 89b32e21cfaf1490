package repositories

import (
	"context"
	"database/sql"
	"errors"

	"github.com/Dosada05/tournament-engine/models"
)

var (
	ErrTournamentNotFound = errors.New("tournament not found")
	ErrGroupNotFound      = errors.New("group not found")
	ErrPhaseNotFound      = errors.New("phase not found")
)

type TournamentRepository interface {
	GetByID(ctx context.Context, id int) (*models.Tournament, error)
}

type GroupRepository interface {
	GetByID(ctx context.Context, id int) (*models.Group, error)
	ListByTournament(ctx context.Context, tournamentID int) ([]models.Group, error)
}

type PhaseRepository interface {
	GetByID(ctx context.Context, id int) (*models.Phase, error)
	FindByName(ctx context.Context, tournamentID int, name string) (*models.Phase, error)
}

type postgresTournamentRepository struct {
	db *sql.DB
}

func NewPostgresTournamentRepository(db *sql.DB) TournamentRepository {
	return &postgresTournamentRepository{db: db}
}

func (r *postgresTournamentRepository) GetByID(ctx context.Context, id int) (*models.Tournament, error) {
	query := `SELECT id, name, sport_name FROM tournaments WHERE id = $1`
	t := &models.Tournament{}
	err := r.db.QueryRowContext(ctx, query, id).Scan(&t.ID, &t.Name, &t.SportName)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrTournamentNotFound
		}
		return nil, err
	}
	return t, nil
}

type postgresGroupRepository struct {
	db *sql.DB
}

func NewPostgresGroupRepository(db *sql.DB) GroupRepository {
	return &postgresGroupRepository{db: db}
}

func (r *postgresGroupRepository) GetByID(ctx context.Context, id int) (*models.Group, error) {
	query := `SELECT id, tournament_id, name FROM tournament_groups WHERE id = $1`
	g := &models.Group{}
	err := r.db.QueryRowContext(ctx, query, id).Scan(&g.ID, &g.TournamentID, &g.Name)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrGroupNotFound
		}
		return nil, err
	}
	return g, nil
}

func (r *postgresGroupRepository) ListByTournament(ctx context.Context, tournamentID int) ([]models.Group, error) {
	query := `
		SELECT id, tournament_id, name
		FROM tournament_groups
		WHERE tournament_id = $1
		ORDER BY name ASC, id ASC`

	rows, err := r.db.QueryContext(ctx, query, tournamentID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	groups := make([]models.Group, 0)
	for rows.Next() {
		var g models.Group
		if err := rows.Scan(&g.ID, &g.TournamentID, &g.Name); err != nil {
			return nil, err
		}
		groups = append(groups, g)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return groups, nil
}

type postgresPhaseRepository struct {
	db *sql.DB
}

func NewPostgresPhaseRepository(db *sql.DB) PhaseRepository {
	return &postgresPhaseRepository{db: db}
}

func (r *postgresPhaseRepository) GetByID(ctx context.Context, id int) (*models.Phase, error) {
	query := `SELECT id, tournament_id, name FROM phases WHERE id = $1`
	return r.scanOne(r.db.QueryRowContext(ctx, query, id))
}

// FindByName matches the phase name case-insensitively.
func (r *postgresPhaseRepository) FindByName(ctx context.Context, tournamentID int, name string) (*models.Phase, error) {
	query := `
		SELECT id, tournament_id, name
		FROM phases
		WHERE tournament_id = $1 AND lower(name) = lower($2)
		ORDER BY id ASC
		LIMIT 1`
	return r.scanOne(r.db.QueryRowContext(ctx, query, tournamentID, name))
}

func (r *postgresPhaseRepository) scanOne(row *sql.Row) (*models.Phase, error) {
	p := &models.Phase{}
	if err := row.Scan(&p.ID, &p.TournamentID, &p.Name); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrPhaseNotFound
		}
		return nil, err
	}
	return p, nil
}
