package models

import "time"

// EventType is a catalog entry for disciplinary events. The walkover type is
// the one that does not require a player.
type EventType struct {
	ID             int    `json:"id" db:"id"`
	Name           string `json:"name" db:"name"`
	PenaltyWeight  int    `json:"penalty_weight" db:"penalty_weight"`
	RequiresPlayer bool   `json:"requires_player" db:"requires_player"`
}

func (et EventType) IsWalkover() bool {
	return !et.RequiresPlayer
}

// NegativeEvent is an infraction recorded against one side of a match.
type NegativeEvent struct {
	ID            int       `json:"id" db:"id"`
	LinkID        int       `json:"link_id" db:"link_id"`
	EventTypeID   int       `json:"event_type_id" db:"event_type_id"`
	PlayerID      *int      `json:"player_id,omitempty" db:"player_id"`
	Minute        *int      `json:"minute,omitempty" db:"minute"`
	Notes         *string   `json:"notes,omitempty" db:"notes"`
	CreatedAt     time.Time `json:"created_at" db:"created_at"`
	EventTypeName string    `json:"event_type_name,omitempty" db:"-"`
	PenaltyWeight int       `json:"penalty_weight" db:"-"`
	TeamID        int       `json:"team_id" db:"-"`
}
