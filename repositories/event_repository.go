package repositories

import (
	"context"
	"database/sql"
	"errors"

	"github.com/Dosada05/tournament-engine/models"
)

var (
	ErrEventTypeNotFound = errors.New("event type not found")
	ErrEventLinkInvalid  = errors.New("event references an unknown match team link or event type")
)

var eventConstraintErrors = map[string]error{
	"match_events_link_id_fkey":       ErrEventLinkInvalid,
	"match_events_event_type_id_fkey": ErrEventLinkInvalid,
}

type EventRepository interface {
	GetEventType(ctx context.Context, id int) (*models.EventType, error)
	Create(ctx context.Context, exec SQLExecutor, event *models.NegativeEvent) error
	ListByMatch(ctx context.Context, matchID int) ([]models.NegativeEvent, error)
	// SumNegativeWeight adds up the penalty weights of a team's events in
	// matches whose phase name contains phaseNameContains.
	SumNegativeWeight(ctx context.Context, tournamentID int, phaseNameContains string, teamID int) (int, error)
	HasWalkoverEvent(ctx context.Context, matchID, teamID int) (bool, error)
}

type postgresEventRepository struct {
	db *sql.DB
}

func NewPostgresEventRepository(db *sql.DB) EventRepository {
	return &postgresEventRepository{db: db}
}

func (r *postgresEventRepository) GetEventType(ctx context.Context, id int) (*models.EventType, error) {
	query := `SELECT id, name, penalty_weight, requires_player FROM event_types WHERE id = $1`
	et := &models.EventType{}
	err := r.db.QueryRowContext(ctx, query, id).Scan(&et.ID, &et.Name, &et.PenaltyWeight, &et.RequiresPlayer)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrEventTypeNotFound
		}
		return nil, err
	}
	return et, nil
}

func (r *postgresEventRepository) Create(ctx context.Context, exec SQLExecutor, event *models.NegativeEvent) error {
	query := `
		INSERT INTO match_events (link_id, event_type_id, player_id, minute, notes)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at`

	err := getExecutor(exec, r.db).QueryRowContext(ctx, query,
		event.LinkID,
		event.EventTypeID,
		event.PlayerID,
		event.Minute,
		event.Notes,
	).Scan(&event.ID, &event.CreatedAt)

	return pqConstraintError(err, eventConstraintErrors)
}

func (r *postgresEventRepository) ListByMatch(ctx context.Context, matchID int) ([]models.NegativeEvent, error) {
	query := `
		SELECT e.id, e.link_id, e.event_type_id, e.player_id, e.minute, e.notes, e.created_at,
		       et.name, et.penalty_weight, mt.team_id
		FROM match_events e
		JOIN match_teams mt ON mt.id = e.link_id
		JOIN event_types et ON et.id = e.event_type_id
		WHERE mt.match_id = $1
		ORDER BY e.minute ASC NULLS LAST, e.id ASC`

	rows, err := r.db.QueryContext(ctx, query, matchID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	events := make([]models.NegativeEvent, 0)
	for rows.Next() {
		var e models.NegativeEvent
		if err := rows.Scan(
			&e.ID,
			&e.LinkID,
			&e.EventTypeID,
			&e.PlayerID,
			&e.Minute,
			&e.Notes,
			&e.CreatedAt,
			&e.EventTypeName,
			&e.PenaltyWeight,
			&e.TeamID,
		); err != nil {
			return nil, err
		}
		events = append(events, e)
	}
	return events, rows.Err()
}

func (r *postgresEventRepository) SumNegativeWeight(ctx context.Context, tournamentID int, phaseNameContains string, teamID int) (int, error) {
	query := `
		SELECT COALESCE(SUM(et.penalty_weight), 0)
		FROM match_events e
		JOIN event_types et ON et.id = e.event_type_id
		JOIN match_teams mt ON mt.id = e.link_id
		JOIN matches m ON m.id = mt.match_id
		JOIN phases p ON p.id = m.phase_id
		WHERE m.tournament_id = $1
		  AND p.name ILIKE '%' || $2 || '%'
		  AND mt.team_id = $3`

	var sum int
	if err := r.db.QueryRowContext(ctx, query, tournamentID, phaseNameContains, teamID).Scan(&sum); err != nil {
		return 0, err
	}
	return sum, nil
}

func (r *postgresEventRepository) HasWalkoverEvent(ctx context.Context, matchID, teamID int) (bool, error) {
	query := `
		SELECT EXISTS (
			SELECT 1
			FROM match_events e
			JOIN event_types et ON et.id = e.event_type_id
			JOIN match_teams mt ON mt.id = e.link_id
			WHERE mt.match_id = $1 AND mt.team_id = $2 AND et.requires_player = FALSE
		)`

	var exists bool
	if err := r.db.QueryRowContext(ctx, query, matchID, teamID).Scan(&exists); err != nil {
		return false, err
	}
	return exists, nil
}
