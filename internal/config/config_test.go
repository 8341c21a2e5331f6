package config

import (
	"os"
	"path/filepath"
	"testing"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("writing config: %v", err)
	}
	return path
}

func TestLoadAppliesDefaults(t *testing.T) {
	path := writeConfig(t, `
server:
  postgresDsn: "host=localhost user=postgres dbname=postgres"
auth:
  jwtSecret: "test-secret"
`)

	conf, err := Load(path)
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}

	if conf.Server.ListenAddr != ":3000" {
		t.Fatalf("expected default listen addr, got %q", conf.Server.ListenAddr)
	}
	if conf.Server.RateLimit != 25 {
		t.Fatalf("expected default rate limit 25, got %d", conf.Server.RateLimit)
	}
	if conf.Auth.TokenExpiryHours != 168 {
		t.Fatalf("expected default expiry 168h, got %d", conf.Auth.TokenExpiryHours)
	}
	if conf.Vector.TopN != 10 {
		t.Fatalf("expected default topN 10, got %d", conf.Vector.TopN)
	}
	if conf.Vector.ScoreThreshold != 0.5 {
		t.Fatalf("expected default threshold 0.5, got %f", conf.Vector.ScoreThreshold)
	}
	if conf.Vector.Collection != "stashit_content" {
		t.Fatalf("expected default collection, got %q", conf.Vector.Collection)
	}
}

func TestLoadOverrides(t *testing.T) {
	path := writeConfig(t, `
server:
  listenAddr: ":8080"
auth:
  jwtSecret: "test-secret"
vector:
  topN: 5
  scoreThreshold: 0.75
`)

	conf, err := Load(path)
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}

	if conf.Server.ListenAddr != ":8080" {
		t.Fatalf("expected :8080, got %q", conf.Server.ListenAddr)
	}
	if conf.Vector.TopN != 5 || conf.Vector.ScoreThreshold != 0.75 {
		t.Fatalf("expected overridden tuning, got %d %f", conf.Vector.TopN, conf.Vector.ScoreThreshold)
	}
}

func TestLoadRequiresJwtSecret(t *testing.T) {
	path := writeConfig(t, `
server:
  listenAddr: ":8080"
`)

	if _, err := Load(path); err == nil {
		t.Fatalf("expected error for missing jwt secret")
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
		t.Fatalf("expected error for missing file")
	}
}
