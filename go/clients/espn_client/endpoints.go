package espn_client

import "time"

const (
	// Base URL
	BaseURL = "https://site.api.espn.com"

	// API Endpoints
	NFLScoreboardEndpoint = "/apis/site/v2/sports/football/nfl/scoreboard"

	// Some edge caches reject requests without a client identifier.
	UserAgentHeader = "User-Agent"
	UserAgent       = "superbowl-squares/1.0 (+live-score-sync)"

	// RequestTimeout bounds a single scoreboard fetch.
	RequestTimeout = 10 * time.Second
)
