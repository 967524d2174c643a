package server

import (
	"log/slog"

	"github.com/go-chi/chi/v5"
	"github.com/swaggest/swgui/v5emb"

	"github.com/playperu/pickup/internal/handler/health"
)

func addRoutes(r chi.Router, logger *slog.Logger, d Deps) {
	a := &api{games: d.Games, xp: d.XP, publicURL: d.PublicURL, logger: logger}

	r.Get("/openapi.json", handleOpenAPI())
	r.Mount("/docs", v5emb.New("Pickup API", "/openapi.json", "/docs"))
	r.Mount("/healthz", health.NewHandler(logger, d.Checks).Routes())

	r.Route("/api", func(r chi.Router) {
		r.Use(authMiddleware(d.Sessions))

		r.Get("/me", a.me)
		r.Get("/games", a.listGames)
		r.Post("/games", a.createGame)

		r.Route("/games/{gameID}", func(r chi.Router) {
			r.Get("/", a.getGame)
			r.Patch("/", a.updateGame)
			r.Post("/join", a.join)
			r.Post("/leave", a.leave)
			r.Post("/requests/{userID}", a.respond)
			r.Post("/check-in", a.checkIn)
			r.Post("/status", a.changeStatus)
			r.Post("/runs", a.setRuns)
			r.Post("/votes", a.submitVotes)
			r.Get("/results", a.results)
			r.Get("/invite.png", a.invite)
		})
	})
}
