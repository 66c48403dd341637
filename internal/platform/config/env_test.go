package config

import (
	"strings"
	"testing"
	"time"
)

type envTestConfig struct {
	Limit int `env:"RPGMAPPER_TEST_LIMIT" envDefault:"123"`
}

type prefixedTestConfig struct {
	Locale  string        `env:"LOCALE" envDefault:"en-US"`
	Timeout time.Duration `env:"TIMEOUT" envDefault:"5s"`
}

func TestParseEnvDefaults(t *testing.T) {
	var cfg envTestConfig

	if err := ParseEnv(&cfg); err != nil {
		t.Fatalf("parse env: %v", err)
	}
	if cfg.Limit != 123 {
		t.Fatalf("expected default limit 123, got %d", cfg.Limit)
	}
}

func TestParseEnvError(t *testing.T) {
	var cfg envTestConfig
	t.Setenv("RPGMAPPER_TEST_LIMIT", "not-an-int")

	err := ParseEnv(&cfg)
	if err == nil {
		t.Fatal("expected error")
	}
	if !strings.Contains(err.Error(), "parse env:") {
		t.Fatalf("expected parse env prefix, got %v", err)
	}
}

func TestParseEnvWithPrefix(t *testing.T) {
	t.Setenv(EnvPrefix+"LOCALE", "de-DE")

	var cfg prefixedTestConfig
	if err := ParseEnvWithPrefix(&cfg, EnvPrefix); err != nil {
		t.Fatalf("parse env with prefix: %v", err)
	}
	if cfg.Locale != "de-DE" {
		t.Fatalf("locale = %q, want de-DE", cfg.Locale)
	}
	if cfg.Timeout != 5*time.Second {
		t.Fatalf("timeout = %v, want 5s", cfg.Timeout)
	}
}
