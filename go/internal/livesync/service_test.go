package livesync

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
)

func newTestServer(t *testing.T, f *fixture, admin gin.HandlerFunc) *httptest.Server {
	t.Helper()
	gin.SetMode(gin.TestMode)
	router := gin.New()
	NewService(f.app, admin).Register(router)
	srv := httptest.NewServer(router)
	t.Cleanup(srv.Close)
	return srv
}

func post(t *testing.T, url, body string) (*http.Response, map[string]any) {
	t.Helper()
	resp, err := http.Post(url, "application/json", strings.NewReader(body))
	if err != nil {
		t.Fatalf("POST %s: %v", url, err)
	}
	defer resp.Body.Close()

	var out map[string]any
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		t.Fatalf("decode %s: %v", url, err)
	}
	return resp, out
}

func TestSyncHandler(t *testing.T) {
	f := newFixture(t, halftime)
	srv := newTestServer(t, f, nil)

	tests := []struct {
		name       string
		feed       string
		body       string
		wantStatus int
		wantKey    string
	}{
		{"invalid force quarter", halftime, `{"force_quarter": 9}`, http.StatusBadRequest, "error"},
		{"bad body", halftime, `{"force_quarter": "two"}`, http.StatusBadRequest, "error"},
		{"empty body syncs", halftime, ``, http.StatusOK, "newly_locked"},
		{"feed unavailable", `not json`, `{}`, http.StatusBadGateway, "quarters"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f.feed.set(tt.feed)
			resp, out := post(t, srv.URL+"/api/admin/sync", tt.body)
			if resp.StatusCode != tt.wantStatus {
				t.Fatalf("status = %d, want %d (%v)", resp.StatusCode, tt.wantStatus, out)
			}
			if _, ok := out[tt.wantKey]; !ok {
				t.Errorf("response missing %q: %v", tt.wantKey, out)
			}
		})
	}
}

func TestSyncHandlerGameNotFound(t *testing.T) {
	f := newFixture(t, `{"events": [{"id": "1", "name": "Bills at Lions", "competitions": [{"competitors": [
		{"team": {"displayName": "Detroit Lions", "abbreviation": "DET"}},
		{"team": {"displayName": "Buffalo Bills", "abbreviation": "BUF"}}
	]}]}]}`)
	srv := newTestServer(t, f, nil)

	resp, out := post(t, srv.URL+"/api/admin/sync", `{}`)
	if resp.StatusCode != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", resp.StatusCode)
	}
	available, _ := out["available"].([]any)
	if len(available) != 1 || available[0] != "Detroit Lions vs Buffalo Bills" {
		t.Errorf("available = %v", out["available"])
	}
}

func TestQuarterHandlers(t *testing.T) {
	f := newFixture(t, halftime)
	srv := newTestServer(t, f, nil)

	resp, out := post(t, srv.URL+"/api/admin/quarters/3/lock", ``)
	if resp.StatusCode != http.StatusOK || out["changed"] != true {
		t.Fatalf("lock: %d %v", resp.StatusCode, out)
	}
	resp, out = post(t, srv.URL+"/api/admin/quarters/3/unlock", ``)
	if resp.StatusCode != http.StatusOK || out["changed"] != true {
		t.Fatalf("unlock: %d %v", resp.StatusCode, out)
	}
	resp, out = post(t, srv.URL+"/api/admin/quarters/3/resend", ``)
	if resp.StatusCode != http.StatusOK || out["queued"] != true {
		t.Fatalf("resend: %d %v", resp.StatusCode, out)
	}

	for _, path := range []string{"/api/admin/quarters/0/lock", "/api/admin/quarters/five/unlock"} {
		if resp, _ := post(t, srv.URL+path, ``); resp.StatusCode != http.StatusBadRequest {
			t.Errorf("%s: status = %d, want 400", path, resp.StatusCode)
		}
	}

	if resp, _ := post(t, srv.URL+"/api/admin/live-sync", `{}`); resp.StatusCode != http.StatusBadRequest {
		t.Errorf("live-sync without enabled: status = %d, want 400", resp.StatusCode)
	}
	resp, out = post(t, srv.URL+"/api/admin/live-sync", `{"enabled": true}`)
	if resp.StatusCode != http.StatusOK || out["live_sync_enabled"] != true {
		t.Fatalf("live-sync: %d %v", resp.StatusCode, out)
	}
	if !f.config(t).LiveSyncEnabled {
		t.Error("live sync flag not stored")
	}
}

func TestStatusHandlers(t *testing.T) {
	f := newFixture(t, halftime)
	srv := newTestServer(t, f, nil)

	resp, err := http.Get(srv.URL + "/api/admin/email-status")
	if err != nil {
		t.Fatalf("GET email-status: %v", err)
	}
	defer resp.Body.Close()
	var status struct {
		Quarters []struct {
			Quarter int `json:"quarter"`
			Sent    int `json:"sent"`
		} `json:"quarters"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&status); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(status.Quarters) != 4 {
		t.Errorf("expected four quarters, got %+v", status.Quarters)
	}

	resp2, err := http.Get(srv.URL + "/api/admin/sync/status")
	if err != nil {
		t.Fatalf("GET sync/status: %v", err)
	}
	defer resp2.Body.Close()
	var cfg map[string]any
	if err := json.NewDecoder(resp2.Body).Decode(&cfg); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if cfg["team1_name"] != "Chiefs" {
		t.Errorf("status = %v", cfg)
	}
}

func TestAdminMiddlewareGuardsRoutes(t *testing.T) {
	f := newFixture(t, halftime)
	deny := func(c *gin.Context) {
		if c.GetHeader("Authorization") != "Bearer admin" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
			return
		}
		c.Next()
	}
	srv := newTestServer(t, f, deny)

	for _, path := range []string{"/api/admin/sync", "/api/admin/quarters/1/lock"} {
		resp, _ := post(t, srv.URL+path, `{}`)
		if resp.StatusCode != http.StatusUnauthorized {
			t.Fatalf("%s: status = %d, want 401", path, resp.StatusCode)
		}
	}
	if f.config(t).Quarters[0].Locked {
		t.Error("quarter locked behind a denied request")
	}
	if n := f.feed.requests.Load(); n != 0 {
		t.Errorf("feed called %d times behind a denied request", n)
	}
}
