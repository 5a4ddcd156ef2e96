package espn_client

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/stevemarchese/superbowl-squares/go/clients"
)

type TeamInfo struct {
	ID               string `json:"id"`
	DisplayName      string `json:"displayName"`
	ShortDisplayName string `json:"shortDisplayName"`
	Name             string `json:"name"`
	Location         string `json:"location"`
	Abbreviation     string `json:"abbreviation"`
}

type LineScore struct {
	Value float64 `json:"value"`
}

type Competitor struct {
	ID         string      `json:"id"`
	HomeAway   string      `json:"homeAway"`
	Score      string      `json:"score"`
	Team       TeamInfo    `json:"team"`
	LineScores []LineScore `json:"linescores"`
}

type StatusType struct {
	Name        string `json:"name"`
	State       string `json:"state"`
	Completed   bool   `json:"completed"`
	Description string `json:"description"`
	Detail      string `json:"detail"`
	ShortDetail string `json:"shortDetail"`
}

type Status struct {
	Clock        float64    `json:"clock"`
	DisplayClock string     `json:"displayClock"`
	Period       int        `json:"period"`
	Type         StatusType `json:"type"`
}

type Competition struct {
	ID          string       `json:"id"`
	Competitors []Competitor `json:"competitors"`
	Status      Status       `json:"status"`
}

type Event struct {
	ID           string        `json:"id"`
	Name         string        `json:"name"`
	ShortName    string        `json:"shortName"`
	Competitions []Competition `json:"competitions"`
	Status       Status        `json:"status"`
}

type ScoreboardResponse struct {
	Events []Event `json:"events"`
}

// FetchScoreboard performs exactly one request. Every failure, including a
// payload that does not decode, wraps clients.ErrUnavailable.
func (c *EspnClient) FetchScoreboard(ctx context.Context) (*ScoreboardResponse, error) {
	body, err := c.Get(ctx, NFLScoreboardEndpoint)
	if err != nil {
		return nil, fmt.Errorf("failed to get scoreboard: %w", err)
	}

	var response ScoreboardResponse
	if err := json.Unmarshal(body, &response); err != nil {
		return nil, fmt.Errorf("%w: failed to unmarshal scoreboard: %v", clients.ErrUnavailable, err)
	}

	if response.Events == nil {
		return nil, fmt.Errorf("%w: scoreboard response has no events list", clients.ErrUnavailable)
	}

	return &response, nil
}
