package router

import (
	"encoding/json"
	"net/http"
	"path/filepath"

	"github.com/go-chi/chi/v5"
	"github.com/msplaco/quote-api/internal/auth"
	"github.com/msplaco/quote-api/internal/config"
	"github.com/msplaco/quote-api/internal/http/handler"
	"github.com/msplaco/quote-api/internal/http/middleware"
	"github.com/msplaco/quote-api/internal/store"
	"go.uber.org/zap"
)

type Router struct {
	cfg            *config.Config
	logger         *zap.Logger
	quoteStore     *store.QuoteStore
	authMiddleware *auth.Middleware
	rateLimiter    *middleware.RateLimiter
	quoteHandler   *handler.QuoteHandler
	authHandler    *handler.AuthHandler
	pagesHandler   *handler.PagesHandler
}

func NewRouter(
	cfg *config.Config,
	logger *zap.Logger,
	quoteStore *store.QuoteStore,
	authMiddleware *auth.Middleware,
	rateLimiter *middleware.RateLimiter,
	quoteHandler *handler.QuoteHandler,
	authHandler *handler.AuthHandler,
	pagesHandler *handler.PagesHandler,
) *Router {
	return &Router{
		cfg:            cfg,
		logger:         logger,
		quoteStore:     quoteStore,
		authMiddleware: authMiddleware,
		rateLimiter:    rateLimiter,
		quoteHandler:   quoteHandler,
		authHandler:    authHandler,
		pagesHandler:   pagesHandler,
	}
}

func (rt *Router) Setup() http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(middleware.Recovery(rt.logger))
	r.Use(middleware.Logging(rt.logger))
	r.Use(middleware.SecurityHeaders(&rt.cfg.Security))
	r.Use(middleware.CORS(&rt.cfg.CORS, rt.cfg.App.Environment, rt.logger))
	r.Use(rt.rateLimiter.LimitByIP)

	// Health check (basic liveness probe)
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	})

	// Readiness probe: the store document must be loadable
	r.Get("/health/ready", func(w http.ResponseWriter, r *http.Request) {
		quotes, err := rt.quoteStore.LoadAll()
		w.Header().Set("Content-Type", "application/json")
		if err != nil {
			rt.logger.Error("store health check failed", zap.Error(err))
			w.WriteHeader(http.StatusServiceUnavailable)
			json.NewEncoder(w).Encode(map[string]interface{}{
				"status":  "unhealthy",
				"error":   err.Error(),
				"service": "store",
			})
			return
		}
		w.WriteHeader(http.StatusOK)
		json.NewEncoder(w).Encode(map[string]interface{}{
			"status":  "healthy",
			"service": "store",
			"quotes":  len(quotes),
		})
	})

	// Public pages and form
	r.Get("/", rt.pagesHandler.Home)
	r.Get("/set-lang/{lang}", rt.pagesHandler.SetLang)
	r.Post("/send-contact", rt.quoteHandler.Submit)

	// Static assets next to the pre-rendered pages
	assetsDir := http.Dir(filepath.Join(rt.cfg.Site.StaticDir, "assets"))
	r.Handle("/assets/*", http.StripPrefix("/assets/", http.FileServer(assetsDir)))

	// Admin login flow (public)
	r.Get("/admin/login", rt.pagesHandler.AdminLogin)
	r.Post("/admin/login", rt.authHandler.Login)
	r.Get("/admin/logout", rt.authHandler.Logout)

	// Admin-gated routes
	r.Group(func(r chi.Router) {
		r.Use(rt.authMiddleware.RequireAdmin)

		r.Get("/admin", rt.pagesHandler.Admin)

		r.Route("/api/quotes", func(r chi.Router) {
			r.Get("/", rt.quoteHandler.List)
			r.Patch("/{id}/status", rt.quoteHandler.UpdateStatus)
			r.Delete("/{id}", rt.quoteHandler.Delete)
		})
	})

	return r
}
