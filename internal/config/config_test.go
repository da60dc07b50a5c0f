package config

import "testing"

func TestLoad(t *testing.T) {
	t.Setenv("DATABASE_URL", "postgres://localhost/shop")
	t.Setenv("JWT_SECRET", "secret")
	t.Setenv("ALLOWED_ORIGIN", "https://shop.example.com")
	t.Setenv("ADMIN_IDS", "t-100, t-200,")
	t.Setenv("APP_PORT", "")
	t.Setenv("MAX_UPLOAD_SIZE_MB", "")

	cfg := Load()

	if cfg.AppPort != "8080" {
		t.Fatalf("AppPort = %q, want default 8080", cfg.AppPort)
	}
	if cfg.AllowedOrigin != "https://shop.example.com" {
		t.Fatalf("AllowedOrigin = %q", cfg.AllowedOrigin)
	}
	if len(cfg.AdminIDs) != 2 || cfg.AdminIDs[0] != "t-100" || cfg.AdminIDs[1] != "t-200" {
		t.Fatalf("AdminIDs = %v", cfg.AdminIDs)
	}
	if cfg.MaxUploadSize != 5<<20 {
		t.Fatalf("MaxUploadSize = %d, want 5 MiB default", cfg.MaxUploadSize)
	}
}
