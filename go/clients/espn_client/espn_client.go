package espn_client

import (
	"github.com/stevemarchese/superbowl-squares/go/clients"
)

type EspnClient struct {
	*clients.BaseClient
}

func NewEspnClient() *EspnClient {
	client := &EspnClient{
		BaseClient: clients.NewBaseClient(BaseURL),
	}

	client.SetHeader(UserAgentHeader, UserAgent)
	client.SetHeader("Accept", "application/json")
	client.SetTimeout(RequestTimeout)

	return client
}

// NewEspnClientWithBaseURL points the client at another host, e.g. a mirror
// or an httptest server.
func NewEspnClientWithBaseURL(baseURL string) *EspnClient {
	client := NewEspnClient()
	client.SetBaseURL(baseURL)
	return client
}
