package config

import (
	"time"

	"github.com/kelseyhightower/envconfig"
)

// Config holds application configuration loaded from environment variables.
type Config struct {
	BotToken      string        `envconfig:"BOT_TOKEN" required:"true"`
	DBPath        string        `envconfig:"DB_PATH" default:"./data/okto.db"`
	LaunchAPIURL  string        `envconfig:"LAUNCH_API_URL" default:"https://ll.thespacedevs.com/2.2.0"`
	LaunchLimit   int           `envconfig:"LAUNCH_LIMIT" default:"100"`
	PollInterval  time.Duration `envconfig:"POLL_INTERVAL" default:"5m"`  // provider refresh
	TickInterval  time.Duration `envconfig:"TICK_INTERVAL" default:"1m"`  // reminder evaluation
	LogLevel      string        `envconfig:"LOG_LEVEL" default:"info"`    // debug|info|warn|error
	HTTPAddr      string        `envconfig:"HTTP_ADDR" default:":8080"`   // healthz
}

// Load reads environment variables into Config.
func Load() (Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return cfg, err
	}
	return cfg, nil
}
