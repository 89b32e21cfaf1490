package models

// TeamStatistics: производная статистика команды. Не хранится в БД,
// пересчитывается на каждый запрос.
type TeamStatistics struct {
	TeamID    int     `json:"team_id"`
	TeamName  string  `json:"team_name"`
	GroupID   *int    `json:"group_id,omitempty"`
	GroupName *string `json:"group_name,omitempty"`
	Played    int     `json:"played"`
	Won       int     `json:"won"`
	Drawn     int     `json:"drawn"`
	Lost      int     `json:"lost"`
	Walkovers int     `json:"walkovers"`
	For       int     `json:"for"`
	Against   int     `json:"against"`
	Points    int     `json:"points"`
	FairPlay  float64 `json:"fair_play"`

	// score in the earliest played match, basketball tie-break only
	FirstMatchScore int `json:"-"`
}

func (s TeamStatistics) Difference() int {
	return s.For - s.Against
}

// Standing is one ranked row of a standings table.
type Standing struct {
	Rank int `json:"rank"`
	TeamStatistics
}

type StandingsTable struct {
	TournamentID int        `json:"tournament_id"`
	GroupID      *int       `json:"group_id,omitempty"`
	Sport        Sport      `json:"sport"`
	Rows         []Standing `json:"standings"`
}

// QualificationEntry is one row of the classification view.
type QualificationEntry struct {
	TeamID      int     `json:"team_id"`
	TeamName    string  `json:"team_name"`
	OverallRank *int    `json:"overall_rank,omitempty"`
	GroupRank   int     `json:"group_rank"`
	GroupName   string  `json:"group_name"`
	Qualified   bool    `json:"qualified"`
	Reason      *string `json:"reason,omitempty"`
}

// GroupPhaseStatus answers whether the knockout bracket can be generated.
type GroupPhaseStatus struct {
	CanGenerate      bool   `json:"can_generate"`
	MatchesCompleted int    `json:"matches_completed"`
	MatchesTotal     int    `json:"matches_total"`
	Message          string `json:"message"`
}
