package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

// chdirWithConfig writes yamlContent to config.yaml in a temp directory and
// changes into it for the duration of the test.
func chdirWithConfig(t *testing.T, yamlContent string) {
	t.Helper()

	tmpDir := t.TempDir()
	if yamlContent != "" {
		configPath := filepath.Join(tmpDir, "config.yaml")
		if err := os.WriteFile(configPath, []byte(yamlContent), 0644); err != nil {
			t.Fatalf("failed to write test config: %v", err)
		}
	}

	originalDir, err := os.Getwd()
	if err != nil {
		t.Fatalf("failed to get working directory: %v", err)
	}
	if err := os.Chdir(tmpDir); err != nil {
		t.Fatalf("failed to change directory: %v", err)
	}
	t.Cleanup(func() {
		os.Chdir(originalDir)
	})
}

func TestLoad_EnvOverridesYAML(t *testing.T) {
	chdirWithConfig(t, `
port: "3443"
env: "test"
log:
  level: "debug"
preview:
  date_layout: "02.01.2006"
`)

	os.Unsetenv("BASE_URL")
	os.Unsetenv("PREVIEW_DATETIME_LAYOUT")

	t.Setenv("PORT", "4443")
	t.Setenv("ENVIRONMENT", "production")
	t.Setenv("LOG_LEVEL", "warn")

	cfg, err := Load("test-version")
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}

	if cfg.Port != "4443" {
		t.Errorf("expected Port=4443 (from env), got %s", cfg.Port)
	}
	if cfg.Env != "production" {
		t.Errorf("expected Env=production (from env), got %s", cfg.Env)
	}
	if cfg.Log.Level != "warn" {
		t.Errorf("expected Log.Level=warn (from env), got %s", cfg.Log.Level)
	}
	if cfg.Version != "test-version" {
		t.Errorf("expected Version=test-version, got %s", cfg.Version)
	}
	if cfg.BaseURL != "http://localhost:4443" {
		t.Errorf("expected BaseURL=http://localhost:4443 (auto-derived from PORT), got %s", cfg.BaseURL)
	}

	// YAML value proves the file was read
	if cfg.Preview.DateLayout != "02.01.2006" {
		t.Errorf("expected Preview.DateLayout=02.01.2006 (from yaml), got %s", cfg.Preview.DateLayout)
	}
	if cfg.Preview.DateTimeLayout != "2006-01-02 15:04:05" {
		t.Errorf("expected default Preview.DateTimeLayout, got %s", cfg.Preview.DateTimeLayout)
	}
}

func TestLoad_Defaults(t *testing.T) {
	chdirWithConfig(t, `
env: "test"
`)

	for _, key := range []string{
		"PORT", "BASE_URL", "LOG_LEVEL",
		"PREVIEW_MAX_REQUEST_BYTES", "I18N_BUNDLE_PATH", "I18N_DEFAULT_LOCALE", "I18N_WATCH",
	} {
		os.Unsetenv(key)
	}

	cfg, err := Load("dev")
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}

	if cfg.Port != "3443" {
		t.Errorf("expected default Port=3443, got %s", cfg.Port)
	}
	if cfg.Log.Level != "info" {
		t.Errorf("expected default Log.Level=info, got %s", cfg.Log.Level)
	}
	if cfg.Preview.MaxRequestBytes != 10485760 {
		t.Errorf("expected default MaxRequestBytes=10485760, got %d", cfg.Preview.MaxRequestBytes)
	}
	if cfg.I18n.DefaultLocale != "en" {
		t.Errorf("expected default locale en, got %s", cfg.I18n.DefaultLocale)
	}
	if cfg.I18n.BundlePath != "" || cfg.I18n.Watch {
		t.Errorf("expected no bundle and no watch by default, got %+v", cfg.I18n)
	}
}

func TestLoad_BaseURLExplicit(t *testing.T) {
	chdirWithConfig(t, `
port: "3443"
base_url: "http://my-server.internal:8080"
`)

	os.Unsetenv("BASE_URL")
	os.Unsetenv("PORT")

	cfg, err := Load("test-version")
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}

	if cfg.BaseURL != "http://my-server.internal:8080" {
		t.Errorf("expected BaseURL=http://my-server.internal:8080 (explicit), got %s", cfg.BaseURL)
	}
}

func TestLoad_MissingConfigFile(t *testing.T) {
	chdirWithConfig(t, "")

	_, err := Load("test-version")
	if err == nil {
		t.Error("expected error when config.yaml is missing")
	}
}

func TestLoad_ValidationErrors(t *testing.T) {
	tests := []struct {
		name    string
		yaml    string
		wantErr string
	}{
		{
			name: "bad log level",
			yaml: `
log:
  level: "loud"
`,
			wantErr: "log.level",
		},
		{
			name: "non-positive request limit",
			yaml: `
preview:
  max_request_bytes: -1
`,
			wantErr: "max_request_bytes",
		},
		{
			name: "bad default locale",
			yaml: `
i18n:
  default_locale: "not a locale!"
`,
			wantErr: "default_locale",
		},
		{
			name: "watch without bundle",
			yaml: `
i18n:
  watch: true
`,
			wantErr: "bundle_path",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			chdirWithConfig(t, tt.yaml)
			for _, key := range []string{
				"LOG_LEVEL", "PREVIEW_MAX_REQUEST_BYTES", "I18N_DEFAULT_LOCALE", "I18N_WATCH", "I18N_BUNDLE_PATH",
			} {
				os.Unsetenv(key)
			}

			_, err := Load("test-version")
			if err == nil {
				t.Fatalf("expected error containing %q", tt.wantErr)
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("error %q does not mention %q", err.Error(), tt.wantErr)
			}
		})
	}
}

func TestConfig_IsLocal(t *testing.T) {
	if !(&Config{Env: "local"}).IsLocal() {
		t.Error("expected local env to be local")
	}
	if (&Config{Env: "production"}).IsLocal() {
		t.Error("expected production env not to be local")
	}
}
