package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"go.uber.org/zap"

	"github.com/ekaya-inc/ekaya-preview/pkg/config"
	"github.com/ekaya-inc/ekaya-preview/pkg/i18n"
)

func newTestHealthHandler(t *testing.T, cfg *config.Config) (*HealthHandler, *i18n.Catalog) {
	t.Helper()
	catalog, err := i18n.NewCatalog("en")
	if err != nil {
		t.Fatalf("failed to create catalog: %v", err)
	}
	return NewHealthHandler(cfg, catalog, zap.NewNop()), catalog
}

func TestHealthHandler_Health(t *testing.T) {
	handler, _ := newTestHealthHandler(t, &config.Config{Version: "test-version", Env: "test"})

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	rec := httptest.NewRecorder()

	handler.Health(rec, req)

	if rec.Code != http.StatusOK {
		t.Errorf("expected status %d, got %d", http.StatusOK, rec.Code)
	}
	if rec.Body.String() != "ok" {
		t.Errorf("expected body 'ok', got %q", rec.Body.String())
	}
}

func TestHealthHandler_Ping(t *testing.T) {
	cfg := &config.Config{
		Version: "1.2.3",
		Env:     "test",
		Preview: config.PreviewConfig{MaxRequestBytes: 4096},
		I18n:    config.I18nConfig{DefaultLocale: "en", BundlePath: "translations.yaml", Watch: true},
	}
	handler, catalog := newTestHealthHandler(t, cfg)

	ping := func() PingResponse {
		t.Helper()
		req := httptest.NewRequest(http.MethodGet, "/ping", nil)
		rec := httptest.NewRecorder()
		handler.Ping(rec, req)
		if rec.Code != http.StatusOK {
			t.Fatalf("expected status %d, got %d", http.StatusOK, rec.Code)
		}
		var response PingResponse
		if err := json.NewDecoder(rec.Body).Decode(&response); err != nil {
			t.Fatalf("failed to decode response: %v", err)
		}
		return response
	}

	response := ping()
	if response.Status != "ok" || response.Service != "ekaya-preview" {
		t.Errorf("unexpected status/service: %q/%q", response.Status, response.Service)
	}
	if response.Version != "1.2.3" || response.Environment != "test" {
		t.Errorf("unexpected version/environment: %q/%q", response.Version, response.Environment)
	}
	if response.GoVersion == "" {
		t.Error("expected non-empty go_version")
	}
	if response.DefaultLocale != "en" || !response.WatchTranslations || response.MaxRequestBytes != 4096 {
		t.Errorf("expected config to be reported, got %+v", response)
	}
	if len(response.Locales) != 1 || response.Locales[0] != "en" {
		t.Errorf("expected only built-in en, got %v", response.Locales)
	}
	before := response.TranslationsGeneration

	bundle, err := i18n.ParseBundle([]byte("locales:\n  fr:\n    row: ligne\n"))
	if err != nil {
		t.Fatalf("failed to parse bundle: %v", err)
	}
	if err := catalog.Replace(bundle); err != nil {
		t.Fatalf("failed to install bundle: %v", err)
	}

	response = ping()
	if len(response.Locales) != 2 || response.Locales[1] != "fr" {
		t.Errorf("expected en,fr after reload, got %v", response.Locales)
	}
	if response.TranslationsGeneration <= before {
		t.Errorf("expected generation to advance past %d, got %d", before, response.TranslationsGeneration)
	}
}

func TestHealthHandler_RegisterRoutes(t *testing.T) {
	handler, _ := newTestHealthHandler(t, &config.Config{})

	mux := http.NewServeMux()
	handler.RegisterRoutes(mux)

	for _, path := range []string{"/health", "/ping"} {
		req := httptest.NewRequest(http.MethodGet, path, nil)
		rec := httptest.NewRecorder()
		mux.ServeHTTP(rec, req)
		if rec.Code != http.StatusOK {
			t.Errorf("%s: expected status %d, got %d", path, http.StatusOK, rec.Code)
		}
	}

	// Health endpoints are read-only
	req := httptest.NewRequest(http.MethodPost, "/health", nil)
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)
	if rec.Code != http.StatusMethodNotAllowed {
		t.Errorf("POST /health: expected status %d, got %d", http.StatusMethodNotAllowed, rec.Code)
	}
}
