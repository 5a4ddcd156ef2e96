package nfl

import (
	"context"
	"fmt"
	"math"

	espn "github.com/stevemarchese/superbowl-squares/go/clients/espn_client"
	"github.com/stevemarchese/superbowl-squares/go/internal/models"
	"github.com/stevemarchese/superbowl-squares/go/internal/sports/base"
)

const (
	championshipMarker = "Super Bowl"
	halftimeStatus     = "STATUS_HALFTIME"
)

// NFLPlugin implements the SportPlugin interface for the NFL.
type NFLPlugin struct {
	api    *espn.EspnClient
	config Config
}

// Config holds NFL-specific configuration.
type Config struct {
	APIBaseURL string `yaml:"api_base_url"`
}

// init registers the NFL plugin with the base registry.
func init() {
	plugin := &NFLPlugin{}
	if err := base.RegisterPlugin("nfl", plugin); err != nil {
		panic(fmt.Sprintf("Failed to register NFL plugin: %v", err))
	}
}

// New builds an initialized plugin outside the registry, mostly for tests.
func New(apiBaseURL string) *NFLPlugin {
	p := &NFLPlugin{}
	_ = p.Init(map[string]interface{}{"api_base_url": apiBaseURL})
	return p
}

// Init creates the API client from the plugin's config section.
func (p *NFLPlugin) Init(cfg map[string]interface{}) error {
	p.config = Config{APIBaseURL: espn.BaseURL}
	if v, ok := cfg["api_base_url"].(string); ok && v != "" {
		p.config.APIBaseURL = v
	}
	p.api = espn.NewEspnClientWithBaseURL(p.config.APIBaseURL)
	return nil
}

func (p *NFLPlugin) ChampionshipMarker() string { return championshipMarker }

func (p *NFLPlugin) HalftimeStatus() string { return halftimeStatus }

// FetchSnapshot retrieves the NFL scoreboard and maps it to a Snapshot.
func (p *NFLPlugin) FetchSnapshot(ctx context.Context) (*models.Snapshot, error) {
	if p.api == nil {
		return nil, fmt.Errorf("nfl: plugin not initialized")
	}
	resp, err := p.api.FetchScoreboard(ctx)
	if err != nil {
		return nil, fmt.Errorf("nfl: FetchSnapshot error: %w", err)
	}
	return MapScoreboard(resp), nil
}

// MapScoreboard converts the ESPN payload into the neutral snapshot model.
func MapScoreboard(resp *espn.ScoreboardResponse) *models.Snapshot {
	snap := &models.Snapshot{Events: make([]models.SnapshotEvent, 0, len(resp.Events))}
	for _, ev := range resp.Events {
		out := models.SnapshotEvent{
			ID:        ev.ID,
			Name:      ev.Name,
			ShortName: ev.ShortName,
		}

		status := ev.Status
		var competitors []espn.Competitor
		if len(ev.Competitions) > 0 {
			comp := ev.Competitions[0]
			competitors = comp.Competitors
			if comp.Status.Type.Name != "" {
				status = comp.Status
			}
		}
		out.StatusName = status.Type.Name
		out.StatusDetail = status.Type.Detail
		if out.StatusDetail == "" {
			out.StatusDetail = status.Type.Description
		}
		out.Period = status.Period
		out.Clock = status.DisplayClock
		out.Completed = status.Type.Completed

		for _, c := range competitors {
			periods := make([]int, len(c.LineScores))
			for i, ls := range c.LineScores {
				periods[i] = int(math.Round(ls.Value))
			}
			out.Competitors = append(out.Competitors, models.SnapshotCompetitor{
				Name:         c.Team.DisplayName,
				ShortName:    c.Team.ShortDisplayName,
				Abbreviation: c.Team.Abbreviation,
				PeriodScores: periods,
			})
		}
		snap.Events = append(snap.Events, out)
	}
	return snap
}
