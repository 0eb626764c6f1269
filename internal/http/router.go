package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/tradebookhq/tradebook/internal/http/importfile"
	"github.com/tradebookhq/tradebook/internal/http/trade"
)

func New(
	tradesV1 *trade.Handler,
	importV1 *importfile.Handler,
) http.Handler {
	router := chi.NewRouter()

	router.Use(middleware.Logger)
	router.Use(middleware.Recoverer)

	router.Route("/api/v1", func(r chi.Router) {
		r.Route("/trades", func(r chi.Router) {
			r.Use(middleware.AllowContentType("application/json"))
			tradesV1.Routes(r)
		})

		r.Route("/import", importV1.Routes)
	})

	return router
}
