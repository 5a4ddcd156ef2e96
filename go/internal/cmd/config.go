package main

import (
	"fmt"
	"os"
	"strconv"

	"github.com/rs/zerolog/log"
	"github.com/stevemarchese/superbowl-squares/go/internal/sports/base"
	"gopkg.in/yaml.v3"
)

type Config struct {
	Sports struct {
		Feed           string                            `yaml:"feed"`
		EnabledPlugins []string                          `yaml:"enabled_plugins"`
		Plugins        map[string]map[string]interface{} `yaml:"plugins"`
	} `yaml:"sports"`
	Notifications struct {
		Workers   int    `yaml:"workers"`
		Transport string `yaml:"transport"`
	} `yaml:"notifications"`
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func loadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var config Config
	if err := yaml.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	if config.Sports.Feed == "" {
		config.Sports.Feed = "nfl"
	}
	if len(config.Sports.EnabledPlugins) == 0 {
		config.Sports.EnabledPlugins = []string{config.Sports.Feed}
	}
	if config.Notifications.Workers <= 0 {
		config.Notifications.Workers = 2
	}
	if config.Notifications.Transport == "" {
		config.Notifications.Transport = "log"
	}

	return &config, nil
}

func setupSportsPlugins(config *Config) (map[string]base.SportPlugin, error) {
	plugins := make(map[string]base.SportPlugin)
	for _, key := range config.Sports.EnabledPlugins {
		if err := base.InitializePlugin(key, config.Sports.Plugins[key]); err != nil {
			return nil, fmt.Errorf("failed to initialize plugin %s: %w", key, err)
		}

		plg, err := base.GetPlugin(key)
		if err != nil {
			return nil, fmt.Errorf("failed to get plugin %s: %w", key, err)
		}

		log.Info().Str("plugin", key).Msg("sport plugin loaded")
		plugins[key] = plg
	}
	return plugins, nil
}
