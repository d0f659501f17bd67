package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

const sampleConfig = `
environment: test
server:
  port: 9090
ephemeris:
  url: http://localhost:8001
archive:
  backend: none
`

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(body), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func TestLoadAppliesDefaults(t *testing.T) {
	c, err := Load(writeConfig(t, sampleConfig))
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if c.Server.Port != 9090 {
		t.Fatalf("port = %d", c.Server.Port)
	}
	if c.Ephemeris.HouseSystem != "P" || c.Ephemeris.Timeout != 10*time.Second {
		t.Fatalf("unexpected ephemeris defaults %+v", c.Ephemeris)
	}
	if c.Narrative.Temperature != 0.7 || c.Metrics.Path != "/metrics" {
		t.Fatalf("unexpected defaults")
	}
}

func TestLoadRejectsUnknownBackend(t *testing.T) {
	body := strings.Replace(sampleConfig, "backend: none", "backend: postgres", 1)
	if _, err := Load(writeConfig(t, body)); err == nil {
		t.Fatalf("expected error for unknown backend")
	}
}

func TestLoadKafkaBackendNeedsBrokers(t *testing.T) {
	body := strings.Replace(sampleConfig, "backend: none", "backend: kafka", 1)
	if _, err := Load(writeConfig(t, body)); err == nil {
		t.Fatalf("expected error without brokers")
	}
}

func TestLoadWithEnvOverrides(t *testing.T) {
	t.Setenv("EPHEMERIS_URL", "http://ephemeris:9000")
	t.Setenv("ARCHIVE_BACKEND", "kafka")
	t.Setenv("KAFKA_BROKERS", "k1:9092,k2:9092")
	t.Setenv("KAFKA_TOPIC", "charts")
	t.Setenv("ANTHROPIC_API_KEY", "secret")

	c, err := LoadWithEnv(writeConfig(t, sampleConfig))
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if c.Ephemeris.URL != "http://ephemeris:9000" {
		t.Fatalf("ephemeris url = %s", c.Ephemeris.URL)
	}
	if c.Archive.Backend != "kafka" || len(c.Kafka.Brokers) != 2 || c.Kafka.Topic != "charts" {
		t.Fatalf("unexpected kafka override %+v", c.Kafka)
	}
	if c.Secrets.AnthropicAPIKey != "secret" {
		t.Fatalf("secret not loaded")
	}
}
