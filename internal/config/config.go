package config

import "time"

// Config holds server configuration values.
type Config struct {
	Addr              string        `mapstructure:"addr" yaml:"addr"`
	ReadHeaderTimeout time.Duration `mapstructure:"read_header_timeout" yaml:"read_header_timeout"`
	ShutdownTimeout   time.Duration `mapstructure:"shutdown_timeout" yaml:"shutdown_timeout"`
	LogLevel          string        `mapstructure:"log_level" yaml:"log_level"`

	// AllowedOrigins is the Origin allow-list for WebSocket upgrades.
	// "*" disables the check entirely.
	AllowedOrigins []string `mapstructure:"allowed_origins" yaml:"allowed_origins"`

	// QueueSize bounds the per-connection outbound event queue.
	QueueSize int `mapstructure:"queue_size" yaml:"queue_size"`

	// RateLimit caps inbound events per connection per minute. 0 disables.
	RateLimit int `mapstructure:"rate_limit" yaml:"rate_limit"`

	DatabasePath string `mapstructure:"database_path" yaml:"database_path"`

	JWTSecret   string `mapstructure:"jwt_secret" yaml:"jwt_secret"`
	JWTIssuer   string `mapstructure:"jwt_issuer" yaml:"jwt_issuer"`
	JWTAudience string `mapstructure:"jwt_audience" yaml:"jwt_audience"`
}

// Default returns configuration with reasonable starter defaults.
func Default() Config {
	return Config{
		Addr:              ":8080",
		ReadHeaderTimeout: 5 * time.Second,
		ShutdownTimeout:   5 * time.Second,
		LogLevel:          "info",
		AllowedOrigins:    []string{"*"},
		QueueSize:         64,
		RateLimit:         120,
		DatabasePath:      "chatline.db",
		JWTIssuer:         "chatline",
		JWTAudience:       "chatline-clients",
	}
}
