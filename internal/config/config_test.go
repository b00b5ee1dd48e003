package config

import (
	"testing"
	"time"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load()
	if err != nil {
		t.Fatal(err)
	}
	if cfg.HTTPPort != "8080" {
		t.Errorf("HTTPPort = %q", cfg.HTTPPort)
	}
	if cfg.DNSResolverAddr != "1.1.1.1:53" {
		t.Errorf("DNSResolverAddr = %q", cfg.DNSResolverAddr)
	}
	if cfg.DNSTimeout != 2*time.Second {
		t.Errorf("DNSTimeout = %v", cfg.DNSTimeout)
	}
	if cfg.LogLevel != "info" {
		t.Errorf("LogLevel = %q", cfg.LogLevel)
	}
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("SPAMSCAN_HTTP_PORT", "9090")
	t.Setenv("SPAMSCAN_DNS_TIMEOUT", "5s")
	t.Setenv("CLICKHOUSE_DSN", "clickhouse://localhost:9000/spamscan")

	cfg, err := Load()
	if err != nil {
		t.Fatal(err)
	}
	if cfg.HTTPPort != "9090" {
		t.Errorf("HTTPPort = %q", cfg.HTTPPort)
	}
	if cfg.DNSTimeout != 5*time.Second {
		t.Errorf("DNSTimeout = %v", cfg.DNSTimeout)
	}
	if cfg.ClickHouseDSN != "clickhouse://localhost:9000/spamscan" {
		t.Errorf("ClickHouseDSN = %q", cfg.ClickHouseDSN)
	}
}
