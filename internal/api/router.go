package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

func NewRouter(app *App) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	r.Get("/ping", app.PingHandler)

	r.Post("/api/sessions", app.CreateSessionHandler)
	r.Route("/api/sessions/{sessionID}", func(r chi.Router) {
		r.Put("/interests", app.SetInterestsHandler)

		r.Post("/feed/start", app.StartFeedHandler)
		r.Get("/feed", app.FeedHandler)
		r.Post("/feed/swipe", app.SwipeHandler)
		r.Post("/feed/resolve", app.ResolveHandler)
		r.Post("/feed/cancel-like", app.CancelLikeHandler)
		r.Post("/feed/undo", app.UndoHandler)

		r.Get("/profile", app.ProfileHandler)
		r.Post("/profile/reset", app.ResetProfileHandler)
		r.Post("/blocked-tags", app.BlockTagHandler)
		r.Delete("/blocked-tags/{tag}", app.UnblockTagHandler)

		r.Post("/scan", app.ScanHandler)
		r.Get("/picks", app.PicksHandler)
		r.Delete("/picks/{productID}", app.DismissPickHandler)
		r.Post("/picks/rescan", app.RescanHandler)
	})

	return r
}
