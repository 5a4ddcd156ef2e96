package espn_client

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stevemarchese/superbowl-squares/go/clients"
)

const sampleScoreboard = `{
  "events": [{
    "id": "401671889",
    "name": "Kansas City Chiefs at Philadelphia Eagles",
    "shortName": "KC @ PHI",
    "competitions": [{
      "id": "401671889",
      "competitors": [
        {"homeAway": "home", "score": "24", "team": {"displayName": "Philadelphia Eagles", "shortDisplayName": "Eagles", "abbreviation": "PHI"}, "linescores": [{"value": 7}, {"value": 17}]},
        {"homeAway": "away", "score": "0", "team": {"displayName": "Kansas City Chiefs", "shortDisplayName": "Chiefs", "abbreviation": "KC"}, "linescores": [{"value": 0}, {"value": 0}]}
      ],
      "status": {"displayClock": "0:00", "period": 2, "type": {"name": "STATUS_HALFTIME", "completed": false, "detail": "Halftime"}}
    }],
    "status": {"displayClock": "0:00", "period": 2, "type": {"name": "STATUS_HALFTIME", "completed": false, "detail": "Halftime"}}
  }]
}`

func TestFetchScoreboard(t *testing.T) {
	var gotAgent string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAgent = r.Header.Get(UserAgentHeader)
		if r.URL.Path != NFLScoreboardEndpoint {
			t.Errorf("unexpected path %q", r.URL.Path)
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(sampleScoreboard))
	}))
	defer srv.Close()

	client := NewEspnClientWithBaseURL(srv.URL)
	resp, err := client.FetchScoreboard(context.Background())
	if err != nil {
		t.Fatalf("FetchScoreboard: %v", err)
	}
	if gotAgent == "" {
		t.Fatal("expected a non-empty User-Agent header")
	}
	if len(resp.Events) != 1 {
		t.Fatalf("expected 1 event, got %d", len(resp.Events))
	}
	comp := resp.Events[0].Competitions[0]
	if comp.Status.Type.Name != "STATUS_HALFTIME" {
		t.Errorf("status name = %q", comp.Status.Type.Name)
	}
	if got := comp.Competitors[0].LineScores[1].Value; got != 17 {
		t.Errorf("second period score = %v, want 17", got)
	}
}

func TestFetchScoreboardUnavailable(t *testing.T) {
	tests := []struct {
		name    string
		handler http.HandlerFunc
	}{
		{
			name: "malformed json",
			handler: func(w http.ResponseWriter, r *http.Request) {
				_, _ = w.Write([]byte(`{"events": [`))
			},
		},
		{
			name: "server error",
			handler: func(w http.ResponseWriter, r *http.Request) {
				http.Error(w, "boom", http.StatusInternalServerError)
			},
		},
		{
			name: "missing events",
			handler: func(w http.ResponseWriter, r *http.Request) {
				_, _ = w.Write([]byte(`{"leagues": []}`))
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(tt.handler)
			defer srv.Close()

			_, err := NewEspnClientWithBaseURL(srv.URL).FetchScoreboard(context.Background())
			if !errors.Is(err, clients.ErrUnavailable) {
				t.Fatalf("expected ErrUnavailable, got %v", err)
			}
		})
	}
}

func TestFetchScoreboardTransportError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := srv.URL
	srv.Close()

	_, err := NewEspnClientWithBaseURL(url).FetchScoreboard(context.Background())
	if !errors.Is(err, clients.ErrUnavailable) {
		t.Fatalf("expected ErrUnavailable, got %v", err)
	}
}
