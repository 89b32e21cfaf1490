package models

// Team is a tournament entrant. GroupID is nil outside the group stage.
type Team struct {
	ID           int     `json:"id" db:"id"`
	Name         string  `json:"name" db:"name"`
	TournamentID int     `json:"tournament_id" db:"tournament_id"`
	GroupID      *int    `json:"group_id,omitempty" db:"group_id"`
	GroupName    *string `json:"group_name,omitempty" db:"-"`
}
