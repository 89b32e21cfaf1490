package services

import (
	"log/slog"

	"github.com/Dosada05/tournament-engine/repositories"
)

// Repositories bundles the persistence collaborators of the services.
type Repositories struct {
	Tournaments repositories.TournamentRepository
	Groups      repositories.GroupRepository
	Phases      repositories.PhaseRepository
	Teams       repositories.TeamRepository
	Matches     repositories.MatchRepository
	Events      repositories.EventRepository
	Tx          repositories.Transactor
}

// Broadcaster publishes tournament events to realtime subscribers.
type Broadcaster interface {
	PublishTournamentEvent(tournamentID int, eventType string, payload interface{})
}

type noopBroadcaster struct{}

func (noopBroadcaster) PublishTournamentEvent(int, string, interface{}) {}

func broadcasterOrNoop(b Broadcaster) Broadcaster {
	if b == nil {
		return noopBroadcaster{}
	}
	return b
}

func loggerOrDefault(l *slog.Logger) *slog.Logger {
	if l == nil {
		return slog.Default()
	}
	return l
}

func ptr[T any](v T) *T {
	return &v
}
