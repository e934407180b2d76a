package config

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

// Config holds the client configuration: where the backend lives and where
// local state goes. Values come from an optional YAML file, TRADEHUB_*
// environment variables, and defaults, in ascending precedence for env over
// file.
type Config struct {
	ServerURL string `mapstructure:"server_url"`
	SocketURL string `mapstructure:"socket_url"`
	DBPath    string `mapstructure:"db_path"`
	LogLevel  string `mapstructure:"log_level"`
}

// Defaults mirror a local development backend.
const (
	DefaultServerURL = "http://localhost:3001/api/v1"
	DefaultDBPath    = "tradehub-client.db"
	DefaultLogLevel  = "info"
)

// Load reads configuration from path (optional, YAML) and the environment.
// With an empty path only defaults and TRADEHUB_* env vars apply.
func Load(path string) (*Config, error) {
	v := viper.New()

	v.SetDefault("server_url", DefaultServerURL)
	v.SetDefault("socket_url", "")
	v.SetDefault("db_path", DefaultDBPath)
	v.SetDefault("log_level", DefaultLogLevel)

	// environment overrides, e.g. TRADEHUB_SERVER_URL=https://api.example.com
	v.SetEnvPrefix("TRADEHUB")
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}

	var c Config
	if err := v.Unmarshal(&c); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	if c.SocketURL == "" {
		c.SocketURL = deriveSocketURL(c.ServerURL)
	}

	return &c, nil
}

// deriveSocketURL turns the REST base URL into the websocket endpoint:
// scheme swapped to ws(s), the API version prefix replaced by /ws.
func deriveSocketURL(serverURL string) string {
	ws := serverURL
	switch {
	case strings.HasPrefix(ws, "https://"):
		ws = "wss://" + strings.TrimPrefix(ws, "https://")
	case strings.HasPrefix(ws, "http://"):
		ws = "ws://" + strings.TrimPrefix(ws, "http://")
	}
	ws = strings.TrimSuffix(ws, "/")
	ws = strings.TrimSuffix(ws, "/api/v1")
	return ws + "/ws"
}
