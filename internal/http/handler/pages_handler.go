package handler

import (
	"net/http"
	"path/filepath"

	"github.com/go-chi/chi/v5"
	"github.com/msplaco/quote-api/internal/config"
	"go.uber.org/zap"
)

// LangCookie stores the visitor's language preference
const LangCookie = "lang"

// PagesHandler serves the pre-rendered site pages. Rendering happens at
// build time; this only picks the right file per language preference.
type PagesHandler struct {
	cfg    *config.SiteConfig
	logger *zap.Logger
}

// NewPagesHandler creates a new PagesHandler
func NewPagesHandler(cfg *config.SiteConfig, logger *zap.Logger) *PagesHandler {
	return &PagesHandler{cfg: cfg, logger: logger}
}

// Home serves the landing page for the visitor's language
func (h *PagesHandler) Home(w http.ResponseWriter, r *http.Request) {
	page := "index.html"
	if h.currentLang(r) == "ar" {
		page = "index_ar.html"
	}
	http.ServeFile(w, r, filepath.Join(h.cfg.StaticDir, page))
}

// SetLang stores a supported language preference and redirects back
func (h *PagesHandler) SetLang(w http.ResponseWriter, r *http.Request) {
	lang := chi.URLParam(r, "lang")
	if h.isSupported(lang) {
		http.SetCookie(w, &http.Cookie{
			Name:     LangCookie,
			Value:    lang,
			Path:     "/",
			MaxAge:   365 * 24 * 60 * 60,
			SameSite: http.SameSiteLaxMode,
		})
	}
	target := r.Referer()
	if target == "" {
		target = "/"
	}
	http.Redirect(w, r, target, http.StatusSeeOther)
}

// AdminLogin serves the login page
func (h *PagesHandler) AdminLogin(w http.ResponseWriter, r *http.Request) {
	http.ServeFile(w, r, filepath.Join(h.cfg.StaticDir, "admin_login.html"))
}

// Admin serves the dashboard page (behind the admin gate)
func (h *PagesHandler) Admin(w http.ResponseWriter, r *http.Request) {
	http.ServeFile(w, r, filepath.Join(h.cfg.StaticDir, "admin.html"))
}

func (h *PagesHandler) currentLang(r *http.Request) string {
	if cookie, err := r.Cookie(LangCookie); err == nil && h.isSupported(cookie.Value) {
		return cookie.Value
	}
	return h.cfg.DefaultLang
}

func (h *PagesHandler) isSupported(lang string) bool {
	for _, l := range h.cfg.SupportedLangs {
		if l == lang {
			return true
		}
	}
	return false
}
