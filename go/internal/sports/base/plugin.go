package base

import (
	"context"
	"fmt"
	"sync"

	"github.com/stevemarchese/superbowl-squares/go/internal/models"
)

// SportPlugin defines the interface each sport plugin must implement.
type SportPlugin interface {
	Init(cfg map[string]interface{}) error
	// FetchSnapshot returns the live scoreboard mapped to the neutral
	// snapshot model. Failures wrap clients.ErrUnavailable.
	FetchSnapshot(ctx context.Context) (*models.Snapshot, error)
	// ChampionshipMarker is the event-name fragment used when no game
	// matches both configured teams.
	ChampionshipMarker() string
	// HalftimeStatus is the provider status name for halftime.
	HalftimeStatus() string
}

var (
	registry   = make(map[string]SportPlugin)
	registryMu sync.RWMutex
)

// RegisterPlugin adds a plugin implementation under a key.
// It should be called in each sport plugin's init() function.
// The plugin will be initialized later when retrieved.
func RegisterPlugin(key string, plugin SportPlugin) error {
	registryMu.Lock()
	defer registryMu.Unlock()
	if key == "" {
		return fmt.Errorf("plugin key cannot be empty")
	}
	if _, exists := registry[key]; exists {
		return fmt.Errorf("plugin already registered for key %q", key)
	}
	registry[key] = plugin
	return nil
}

// GetPlugin retrieves a plugin by key or returns an error if not found.
func GetPlugin(key string) (SportPlugin, error) {
	registryMu.RLock()
	defer registryMu.RUnlock()
	plugin, exists := registry[key]
	if !exists {
		return nil, fmt.Errorf("no sport plugin registered for key %q", key)
	}
	return plugin, nil
}

// InitializePlugin initializes a specific plugin with its config section.
func InitializePlugin(key string, cfg map[string]interface{}) error {
	registryMu.Lock()
	defer registryMu.Unlock()
	plugin, exists := registry[key]
	if !exists {
		return fmt.Errorf("no sport plugin registered for key %q", key)
	}
	if err := plugin.Init(cfg); err != nil {
		return fmt.Errorf("failed to init plugin %q: %w", key, err)
	}
	return nil
}
