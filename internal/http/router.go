package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	authHandler "github.com/MrJamesThe3rd/spendtrack/internal/http/auth"
	expenseHandler "github.com/MrJamesThe3rd/spendtrack/internal/http/expense"
	"github.com/MrJamesThe3rd/spendtrack/internal/http/export"
	"github.com/MrJamesThe3rd/spendtrack/internal/http/importcsv"
	"github.com/MrJamesThe3rd/spendtrack/internal/http/respond"
	statsHandler "github.com/MrJamesThe3rd/spendtrack/internal/http/stats"
	"github.com/MrJamesThe3rd/spendtrack/internal/logger"
)

type Options struct {
	AllowedOrigins []string
}

func New(
	opts Options,
	authV1 *authHandler.Handler,
	expensesV1 *expenseHandler.Handler,
	statsV1 *statsHandler.Handler,
	exportV1 *export.Handler,
	importV1 *importcsv.Handler,
) http.Handler {
	router := chi.NewRouter()

	router.Use(middleware.RequestID)
	router.Use(middleware.RealIP)
	router.Use(logger.Requests(&logger.Log))
	router.Use(middleware.Recoverer)
	router.Use(cors.Handler(cors.Options{
		AllowedOrigins:   opts.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		ExposedHeaders:   []string{"Content-Disposition"},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	router.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		respond.JSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	router.Route("/api/v1", func(r chi.Router) {
		r.Route("/auth", authV1.Routes)

		r.Group(func(r chi.Router) {
			r.Use(authV1.Middleware)

			r.Route("/expenses", func(r chi.Router) {
				r.Use(middleware.AllowContentType("application/json"))
				expensesV1.Routes(r)
			})

			r.Route("/stats", statsV1.Routes)
			r.Route("/export", exportV1.Routes)
			r.Route("/import", importV1.Routes)
		})
	})

	return router
}
