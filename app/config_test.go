package app

import (
	"testing"
	"time"

	"catalog-studio/service"
)

func TestLoadConfig_Defaults(t *testing.T) {
	for _, key := range []string{"PORT", "BASE_URL", "DATABASE_URL", "DB_HOST", "DB_USER", "DB_NAME",
		"EXPORT_SCALE", "FONT_SHRINK", "IMAGE_CACHE_DIR", "EXPORT_PAGE_TIMEOUT", "PNG_SESSION_TTL"} {
		t.Setenv(key, "")
	}

	cfg := LoadConfig()
	if cfg.Port != "8080" {
		t.Errorf("Port = %q", cfg.Port)
	}
	if cfg.BaseURL != "http://localhost:8080" {
		t.Errorf("BaseURL = %q", cfg.BaseURL)
	}
	if cfg.DatabaseURL != "" {
		t.Errorf("DatabaseURL = %q, want empty", cfg.DatabaseURL)
	}
	if cfg.ExportScale != service.DefaultCaptureScale || cfg.FontShrink != service.DefaultFontScale {
		t.Errorf("export tuning = %v / %v", cfg.ExportScale, cfg.FontShrink)
	}
	if cfg.PNGSessionTTL != 10*time.Minute {
		t.Errorf("PNGSessionTTL = %s", cfg.PNGSessionTTL)
	}
}

func TestLoadConfig_FromEnvironment(t *testing.T) {
	t.Setenv("PORT", ":9090")
	t.Setenv("BASE_URL", "https://catalog.example.com/")
	t.Setenv("DATABASE_URL", "")
	t.Setenv("DB_HOST", "db")
	t.Setenv("DB_USER", "catalog")
	t.Setenv("DB_PASSWORD", "secret")
	t.Setenv("DB_NAME", "catalog")
	t.Setenv("DB_PORT", "")
	t.Setenv("DB_SSLMODE", "")
	t.Setenv("EXPORT_SCALE", "2")
	t.Setenv("FONT_SHRINK", "not-a-number")
	t.Setenv("EXPORT_PAGE_TIMEOUT", "90s")

	cfg := LoadConfig()
	if cfg.Port != "9090" {
		t.Errorf("Port = %q", cfg.Port)
	}
	if cfg.BaseURL != "https://catalog.example.com" {
		t.Errorf("BaseURL = %q", cfg.BaseURL)
	}
	want := "host=db port=5432 user=catalog password=secret dbname=catalog sslmode=disable"
	if cfg.DatabaseURL != want {
		t.Errorf("DatabaseURL = %q, want %q", cfg.DatabaseURL, want)
	}
	if cfg.ExportScale != 2 {
		t.Errorf("ExportScale = %v", cfg.ExportScale)
	}
	if cfg.FontShrink != service.DefaultFontScale {
		t.Errorf("FontShrink = %v, want default", cfg.FontShrink)
	}
	if cfg.ExportTimeout != 90*time.Second {
		t.Errorf("ExportTimeout = %s", cfg.ExportTimeout)
	}

	exportCfg := cfg.ExportConfig()
	if exportCfg.CaptureScale != 2 || exportCfg.Corrections.FontScale != service.DefaultFontScale {
		t.Errorf("ExportConfig = %+v", exportCfg)
	}
}
