package main

import (
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/gin-gonic/gin"
)

func TestLoadConfigDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte("sports:\n  plugins:\n    nfl:\n      api_base_url: http://localhost:9999\n"), 0o600); err != nil {
		t.Fatal(err)
	}

	cfg, err := loadConfig(path)
	if err != nil {
		t.Fatalf("loadConfig: %v", err)
	}
	if cfg.Sports.Feed != "nfl" || len(cfg.Sports.EnabledPlugins) != 1 {
		t.Errorf("sports defaults = %+v", cfg.Sports)
	}
	if cfg.Notifications.Workers != 2 || cfg.Notifications.Transport != "log" {
		t.Errorf("notification defaults = %+v", cfg.Notifications)
	}
	if got := cfg.Sports.Plugins["nfl"]["api_base_url"]; got != "http://localhost:9999" {
		t.Errorf("plugin config = %v", got)
	}
}

func TestAdminAuth(t *testing.T) {
	if adminAuth("") != nil {
		t.Fatal("empty token should disable the middleware")
	}

	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.POST("/api/admin/sync", adminAuth("s3cret"), func(c *gin.Context) {
		c.Status(http.StatusNoContent)
	})

	tests := []struct {
		header string
		want   int
	}{
		{"", http.StatusUnauthorized},
		{"Bearer wrong", http.StatusUnauthorized},
		{"Bearer s3cret", http.StatusNoContent},
	}
	for _, tt := range tests {
		req := httptest.NewRequest(http.MethodPost, "/api/admin/sync", nil)
		if tt.header != "" {
			req.Header.Set("Authorization", tt.header)
		}
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)
		if rec.Code != tt.want {
			t.Errorf("Authorization %q: status = %d, want %d", tt.header, rec.Code, tt.want)
		}
	}
}
