package models

// Tournament представляет турнир. SportName хранится как есть и
// разбирается в Sport один раз на вычисление.
type Tournament struct {
	ID        int    `json:"id" db:"id"`
	Name      string `json:"name" db:"name"`
	SportName string `json:"sport_name" db:"sport_name"`
}

// Sport resolves the free-text sport name of the tournament.
func (t Tournament) Sport() Sport {
	return ParseSport(t.SportName)
}

type Group struct {
	ID           int    `json:"id" db:"id"`
	TournamentID int    `json:"tournament_id" db:"tournament_id"`
	Name         string `json:"name" db:"name"`
}

// Phase is a named stage of a tournament ("Group Stage", "Quarterfinal", ...).
type Phase struct {
	ID           int    `json:"id" db:"id"`
	TournamentID int    `json:"tournament_id" db:"tournament_id"`
	Name         string `json:"name" db:"name"`
}
