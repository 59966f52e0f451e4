package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/graphql-go/graphql"
	"github.com/graphql-go/handler"
	"github.com/rs/zerolog"

	"givehub/internal/auth"
	"givehub/internal/config"
	mw "givehub/internal/http/middleware"
)

// NewRouter mounts the GraphQL endpoint behind the fail-open identity
// middleware. A bad or missing token never fails here; the operations
// themselves decide what anonymous callers may do.
func NewRouter(cfg config.Config, logger zerolog.Logger, schema graphql.Schema, signer *auth.Signer) http.Handler {
	r := chi.NewRouter()

	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(chimw.Recoverer)
	r.Use(mw.Logger(logger))

	if len(cfg.CORSAllowedOrigins) > 0 {
		r.Use(mw.CORS(cfg.CORSAllowedOrigins, cfg.CORSAllowCredentials))
	}

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	gh := handler.New(&handler.Config{
		Schema:   &schema,
		Pretty:   cfg.AppEnv == "development",
		GraphiQL: cfg.AppEnv == "development",
	})
	r.With(auth.Middleware(signer)).Handle("/graphql", gh)

	return r
}
