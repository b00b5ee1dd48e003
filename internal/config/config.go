package config

import (
	"fmt"
	"time"

	"github.com/spf13/viper"
)

// Config holds all configuration for the scan service.
type Config struct {
	// HTTP server
	HTTPPort string `mapstructure:"SPAMSCAN_HTTP_PORT"`

	// API key auth: bcrypt hash of the accepted key. Empty disables auth,
	// which is only sensible for local development.
	APIKeyHash string `mapstructure:"SPAMSCAN_API_KEY_HASH"`

	// Rule content overrides; empty means built-in defaults only.
	ContentPath string `mapstructure:"SPAMSCAN_CONTENT_PATH"`

	// ClickHouse sink for scan events; empty falls back to the log writer.
	ClickHouseDSN string `mapstructure:"CLICKHOUSE_DSN"`

	// DNS resolver used by the nameserver rule.
	DNSResolverAddr string        `mapstructure:"SPAMSCAN_DNS_RESOLVER"`
	DNSTimeout      time.Duration `mapstructure:"SPAMSCAN_DNS_TIMEOUT"`

	// Logging
	LogLevel string `mapstructure:"SPAMSCAN_LOG_LEVEL"`
}

// Load initializes viper and unmarshals the environment into a Config.
func Load() (*Config, error) {
	viper.SetDefault("SPAMSCAN_HTTP_PORT", "8080")
	viper.SetDefault("SPAMSCAN_API_KEY_HASH", "")
	viper.SetDefault("SPAMSCAN_CONTENT_PATH", "")
	viper.SetDefault("CLICKHOUSE_DSN", "")
	viper.SetDefault("SPAMSCAN_DNS_RESOLVER", "1.1.1.1:53")
	viper.SetDefault("SPAMSCAN_DNS_TIMEOUT", 2*time.Second)
	viper.SetDefault("SPAMSCAN_LOG_LEVEL", "info")

	viper.AutomaticEnv()

	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	return &cfg, nil
}
