package server

import (
	"log/slog"

	"github.com/go-chi/chi/v5"
	"github.com/swaggest/swgui/v5emb"
)

func addRoutes(r chi.Router, logger *slog.Logger, deps Deps) {
	r.Get("/openapi.json", handleOpenAPI())
	r.Mount("/docs", v5emb.New("Mini-game API", "/openapi.json", "/docs"))

	// Admin auth.
	r.Post("/api/admin/login", handleAdminLogin(deps.Admin))
	r.Post("/api/admin/logout", handleAdminLogout(deps.Admin))

	r.Group(func(r chi.Router) {
		r.Use(adminAuthMiddleware(deps.Admin))
		r.Get("/api/admin/me", handleAdminMe())

		r.Route("/api/admin/games", func(r chi.Router) {
			r.Get("/", handleAdminListGames(deps.Games))
			r.Post("/", handleAdminCreateGame(deps.Games))
			r.Post("/validate", handleAdminValidateGame())
			r.Get("/{id}", handleAdminGetGame(deps.Games))
			r.Put("/{id}", handleAdminUpdateGame(deps.Games))
			r.Delete("/{id}", handleAdminDeleteGame(deps.Games))
		})

		r.Get("/api/results", handleListResults(deps.Results))
	})

	// Published configs.
	r.Get("/api/games", handleListGames(deps.Games))
	r.Get("/api/games/{id}", handleGetGame(deps.Games))

	// Plays. Everything below a play id requires the ticket issued on start.
	r.Post("/api/plays", handleStartPlay(logger, deps.Games, deps.Plays, deps.Tickets))
	r.Route("/api/plays/{playID}", func(r chi.Router) {
		r.Use(playTicketMiddleware(deps.Tickets))
		r.Get("/", handleGetPlay(deps.Plays))
		r.Delete("/", handleUnmountPlay(deps.Plays))
		r.Post("/actions", handlePlayAction(deps.Plays))
		r.Get("/result", handlePlayResult(deps.Plays))
		r.Get("/events", handleEvents(deps.Plays, deps.Broker))
	})
	r.With(playTicketMiddleware(deps.Tickets)).
		Get("/ws/plays/{playID}", handlePlaySocket(logger, deps.Plays, deps.Broker))
}
