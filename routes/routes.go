package routes

import (
	"net/http"
	"time"

	_ "github.com/Dosada05/tournament-engine/docs"
	"github.com/Dosada05/tournament-engine/handlers"
	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	httpSwagger "github.com/swaggo/http-swagger"
)

type Handlers struct {
	Tournament *handlers.TournamentHandler
	Match      *handlers.MatchHandler
	WebSocket  *handlers.WebSocketHandler
	Health     *handlers.HealthHandler
	Metrics    http.Handler
}

type Options struct {
	AllowedOrigins []string
	RequestTimeout time.Duration
}

func SetupRoutes(router chi.Router, h Handlers, opts Options) {
	origins := opts.AllowedOrigins
	if len(origins) == 0 {
		origins = []string{"*"}
	}

	router.Use(chiMiddleware.RequestID)
	router.Use(chiMiddleware.RealIP)
	router.Use(chiMiddleware.Logger)
	router.Use(chiMiddleware.Recoverer)
	router.Use(cors.Handler(cors.Options{
		AllowedOrigins:   origins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Content-Type", "X-Request-Id"},
		ExposedHeaders:   []string{"Link"},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	router.Get("/health", h.Health.Health)
	if h.Metrics != nil {
		router.Method(http.MethodGet, "/metrics", h.Metrics)
	}
	router.Get("/swagger/*", httpSwagger.Handler(httpSwagger.URL("/swagger/doc.json")))

	// Websocket не должен попадать под таймаут запроса.
	router.Get("/ws/tournaments/{tournamentID}", h.WebSocket.ServeWs)

	router.Group(func(r chi.Router) {
		if opts.RequestTimeout > 0 {
			r.Use(chiMiddleware.Timeout(opts.RequestTimeout))
		}

		r.Route("/tournaments/{tournamentID}", func(r chi.Router) {
			r.Get("/standings", h.Tournament.GetStandings)
			r.Post("/standings/publish", h.Tournament.PublishStandings)
			r.Delete("/standings/publish", h.Tournament.UnpublishStandings)
			r.Get("/classification", h.Tournament.GetClassification)
			r.Get("/bracket/status", h.Tournament.GetBracketStatus)
			r.Post("/bracket", h.Tournament.GenerateBracket)
			r.Post("/fixtures", h.Tournament.GenerateFixtures)
		})

		r.Route("/matches", func(r chi.Router) {
			r.Post("/", h.Match.CreateMatch)
			r.Route("/{matchID}", func(r chi.Router) {
				r.Get("/", h.Match.GetMatch)
				r.Put("/", h.Match.RescheduleMatch)
				r.Put("/teams", h.Match.AssignTeams)
				r.Put("/score", h.Match.RecordScore)
				r.Patch("/status", h.Match.TransitionStatus)
				r.Get("/events", h.Match.ListEvents)
				r.Post("/events", h.Match.RecordEvent)
			})
		})
	})
}
