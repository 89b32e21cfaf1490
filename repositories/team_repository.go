package repositories

import (
	"context"
	"database/sql"
	"errors"
	"strconv"
	"strings"

	"github.com/Dosada05/tournament-engine/models"
)

var ErrTeamNotFound = errors.New("team not found")

type TeamRepository interface {
	GetByID(ctx context.Context, id int) (*models.Team, error)
	ListByTournament(ctx context.Context, tournamentID int, groupID *int) ([]models.Team, error)
}

type postgresTeamRepository struct {
	db *sql.DB
}

func NewPostgresTeamRepository(db *sql.DB) TeamRepository {
	return &postgresTeamRepository{db: db}
}

const teamColumns = `t.id, t.name, t.tournament_id, t.group_id, g.name`

func (r *postgresTeamRepository) GetByID(ctx context.Context, id int) (*models.Team, error) {
	query := `
		SELECT ` + teamColumns + `
		FROM teams t
		LEFT JOIN tournament_groups g ON g.id = t.group_id
		WHERE t.id = $1`

	team, err := scanTeam(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrTeamNotFound
		}
		return nil, err
	}
	return team, nil
}

func (r *postgresTeamRepository) ListByTournament(ctx context.Context, tournamentID int, groupID *int) ([]models.Team, error) {
	var queryBuilder strings.Builder
	queryBuilder.WriteString(`
		SELECT ` + teamColumns + `
		FROM teams t
		LEFT JOIN tournament_groups g ON g.id = t.group_id
		WHERE t.tournament_id = $1`)
	args := []interface{}{tournamentID}

	if groupID != nil {
		queryBuilder.WriteString(" AND t.group_id = $")
		queryBuilder.WriteString(strconv.Itoa(len(args) + 1))
		args = append(args, *groupID)
	}
	queryBuilder.WriteString(" ORDER BY t.name ASC, t.id ASC")

	rows, err := r.db.QueryContext(ctx, queryBuilder.String(), args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	teams := make([]models.Team, 0)
	for rows.Next() {
		team, err := scanTeam(rows)
		if err != nil {
			return nil, err
		}
		teams = append(teams, *team)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return teams, nil
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanTeam(row rowScanner) (*models.Team, error) {
	var (
		team      models.Team
		groupID   sql.NullInt64
		groupName sql.NullString
	)
	if err := row.Scan(&team.ID, &team.Name, &team.TournamentID, &groupID, &groupName); err != nil {
		return nil, err
	}
	if groupID.Valid {
		id := int(groupID.Int64)
		team.GroupID = &id
	}
	if groupName.Valid {
		team.GroupName = &groupName.String
	}
	return &team, nil
}
