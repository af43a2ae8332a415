package router

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"github.com/devpureza/liga-expo/internal/api/rest/handler"
	"github.com/devpureza/liga-expo/internal/api/rest/middleware"
	"github.com/devpureza/liga-expo/internal/logger"
	"github.com/devpureza/liga-expo/internal/sandbox"
	"github.com/devpureza/liga-expo/internal/token"
)

// Options tunes the cross-cutting middleware.
type Options struct {
	CORSOrigins []string
	LoginRPM    int
}

// Router wires the sandbox admin API.
type Router struct {
	backend *sandbox.Backend
	tokens  *token.JWT
	opts    Options
	logger  *logger.Logger
}

// New creates a new Router instance.
func New(backend *sandbox.Backend, tokens *token.JWT, opts Options, logger *logger.Logger) *Router {
	return &Router{backend: backend, tokens: tokens, opts: opts, logger: logger}
}

// Register builds the HTTP handler with logging, CORS, login throttling and
// bearer authentication.
func (r *Router) Register() http.Handler {
	logging := middleware.NewLogging(r.logger)
	authenticate := middleware.NewAuthenticate(r.tokens, r.logger)
	loginLimit := middleware.NewRateLimit(r.opts.LoginRPM)

	authHandler := handler.NewAuth(r.backend, r.tokens, r.logger)
	adminHandler := handler.NewAdmin(r.backend, r.logger)

	mux := chi.NewRouter()
	mux.Use(chimiddleware.Recoverer)
	mux.Use(logging.Handler)
	mux.Use(middleware.CORS(r.opts.CORSOrigins))

	mux.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	mux.Route("/api/appadmin", func(api chi.Router) {
		api.With(loginLimit.Handler).Post("/auth/login", authHandler.Login)

		api.Group(func(auth chi.Router) {
			auth.Use(authenticate.Handler)

			auth.Get("/usuarios", adminHandler.SearchUsers)
			auth.Get("/eventos/ativos", adminHandler.ActiveEvents)
			auth.Get("/eventos/{id}", adminHandler.Event)
			auth.Put("/eventos/{id}", adminHandler.UpdateEvent)
			auth.Get("/controle-entrada/{id}/totalizadores", adminHandler.EntryTotals)
			auth.Get("/cupons", adminHandler.Coupons)
			auth.Post("/cupons", adminHandler.CreateCoupon)
			auth.Get("/cortesias", adminHandler.Courtesies)
			auth.Post("/cortesias/disparar", adminHandler.SendCourtesy)
			auth.Get("/relatorios/vendas", adminHandler.SalesReport)
		})
	})

	return mux
}
