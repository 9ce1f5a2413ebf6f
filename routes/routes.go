package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	httpSwagger "github.com/swaggo/http-swagger"

	"github.com/Dosada05/tournament-scoreboard/docs"
	"github.com/Dosada05/tournament-scoreboard/handlers"
	"github.com/Dosada05/tournament-scoreboard/middleware"
)

// Handlers собирает все HTTP-обработчики приложения.
type Handlers struct {
	Bracket   *handlers.BracketHandler
	Group     *handlers.GroupHandler
	Survival  *handlers.SurvivalHandler
	Overview  *handlers.OverviewHandler
	WebSocket *handlers.WebSocketHandler
	Metrics   http.Handler
}

type Options struct {
	JWTSecret      []byte
	AllowedOrigins []string
}

func SetupRoutes(router chi.Router, h Handlers, opts Options) {
	router.Use(chiMiddleware.RequestID)
	router.Use(chiMiddleware.RealIP)
	router.Use(chiMiddleware.Logger)
	router.Use(chiMiddleware.Recoverer)
	router.Use(cors.Handler(cors.Options{
		AllowedOrigins:   opts.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-Request-ID"},
		ExposedHeaders:   []string{"Content-Disposition"},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	router.Get("/healthz", handlers.Healthz)
	if h.Metrics != nil {
		router.Handle("/metrics", h.Metrics)
	}
	router.Get("/swagger/doc.json", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write(docs.SwaggerJSON)
	})
	router.Get("/swagger/*", httpSwagger.Handler(httpSwagger.URL("/swagger/doc.json")))

	// Зрители подписываются на комнату соревнования или дартс.
	router.Get("/ws/{room}", h.WebSocket.ServeWs)

	router.Route("/api", func(r chi.Router) {
		r.Get("/overview", h.Overview.Get)
		r.Get("/survival", h.Survival.Get)

		r.Route("/competitions/{competition}", func(r chi.Router) {
			r.Get("/matches", h.Bracket.ListMatches)
			r.Get("/matches/{matchID}", h.Bracket.GetMatch)
			r.Get("/groups", h.Group.ListGroups)
			r.Get("/groups/{group}", h.Group.GetGroup)
			r.Get("/groups/{group}/standings", h.Group.Standings)
			r.Get("/groups/{group}/fixtures", h.Group.Fixtures)
		})

		r.Route("/admin", func(r chi.Router) {
			r.Use(middleware.Authenticate(opts.JWTSecret))
			r.Use(middleware.Authorize(middleware.RoleAdmin))

			r.Route("/competitions/{competition}", func(r chi.Router) {
				r.Post("/bracket", h.Bracket.SeedBracket)
				r.Post("/matches/{matchID}/result", h.Bracket.RecordResult)
				r.Delete("/matches/{matchID}/result", h.Bracket.ResetMatch)
				r.Put("/matches/{matchID}/players", h.Bracket.SetPlayers)
				r.Put("/matches/{matchID}/status", h.Bracket.UpdateStatus)

				r.Post("/groups", h.Group.InitializeGroups)
				r.Post("/groups/{group}/players", h.Group.AddPlayer)
				r.Delete("/groups/{group}/players/{player}", h.Group.RemovePlayer)
				r.Post("/groups/{group}/matches", h.Group.RecordMatch)
				r.Post("/groups/{group}/swap", h.Group.SwapPlayers)
				r.Post("/knockout", h.Group.AdvanceToKnockout)

				r.Get("/exports/standings", h.Overview.DownloadStandings)
				r.Post("/exports/standings", h.Overview.PublishStandings)
			})

			r.Route("/survival", func(r chi.Router) {
				r.Post("/reset", h.Survival.Reset)
				r.Post("/players", h.Survival.AddPlayer)
				r.Delete("/players/{player}", h.Survival.RemovePlayer)
				r.Put("/rounds/{round}/players/{player}/score", h.Survival.SetScore)
				r.Post("/end-round", h.Survival.EndRound)
			})
		})
	})
}
