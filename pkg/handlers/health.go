package handlers

import (
	"net/http"
	"runtime"

	"go.uber.org/zap"

	"github.com/ekaya-inc/ekaya-preview/pkg/config"
)

// TranslationsState reports what the translation catalog currently holds.
// *i18n.Catalog satisfies it.
type TranslationsState interface {
	Locales() []string
	Generation() uint64
}

// PingResponse describes the running preview service.
type PingResponse struct {
	Status      string `json:"status"`
	Service     string `json:"service"`
	Version     string `json:"version"`
	GoVersion   string `json:"go_version"`
	Environment string `json:"environment"`

	DefaultLocale          string   `json:"default_locale"`
	Locales                []string `json:"locales"`
	TranslationsGeneration uint64   `json:"translations_generation"`
	WatchTranslations      bool     `json:"watch_translations"`
	MaxRequestBytes        int64    `json:"max_request_bytes"`
}

// HealthHandler serves liveness and status endpoints.
type HealthHandler struct {
	cfg          *config.Config
	translations TranslationsState
	logger       *zap.Logger
}

// NewHealthHandler creates a new HealthHandler.
func NewHealthHandler(cfg *config.Config, translations TranslationsState, logger *zap.Logger) *HealthHandler {
	return &HealthHandler{cfg: cfg, translations: translations, logger: logger}
}

// RegisterRoutes registers the health handler's routes on the given mux.
func (h *HealthHandler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("GET /health", h.Health)
	mux.HandleFunc("GET /ping", h.Ping)
}

// Health handles GET /health
func (h *HealthHandler) Health(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

// Ping handles GET /ping
// Reports the build, the preview limits and which translations are loaded.
// translations_generation advances on every bundle reload.
func (h *HealthHandler) Ping(w http.ResponseWriter, r *http.Request) {
	response := PingResponse{
		Status:                 "ok",
		Service:                "ekaya-preview",
		Version:                h.cfg.Version,
		GoVersion:              runtime.Version(),
		Environment:            h.cfg.Env,
		DefaultLocale:          h.cfg.I18n.DefaultLocale,
		Locales:                h.translations.Locales(),
		TranslationsGeneration: h.translations.Generation(),
		WatchTranslations:      h.cfg.I18n.Watch,
		MaxRequestBytes:        h.cfg.Preview.MaxRequestBytes,
	}

	if err := WriteJSON(w, http.StatusOK, response); err != nil {
		h.logger.Error("Failed to encode ping response", zap.Error(err))
	}
}
