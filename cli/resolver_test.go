package cli

import (
	"strings"
	"testing"

	"github.com/alecthomas/kong"
)

func resolveConfig(t *testing.T, yaml string) config {
	t.Helper()

	resolver, err := resolve(strings.NewReader(yaml))
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}

	cfg, ok := resolver.(config)
	if !ok {
		t.Fatalf("expected config, got %T", resolver)
	}

	return cfg
}

func TestResolve_FlatKeys(t *testing.T) {
	cfg := resolveConfig(t, "log-level: debug\n")

	value, err := cfg.Resolve(nil, nil, &kong.Flag{
		Value: &kong.Value{Name: "log-level"},
	})
	if err != nil {
		t.Fatalf("resolve flag: %v", err)
	}

	if value != "debug" {
		t.Errorf("expected debug, got %v", value)
	}
}

func TestResolve_UnderscoresNormalized(t *testing.T) {
	cfg := resolveConfig(t, "log_format: json\n")

	if cfg["log-format"] != "json" {
		t.Errorf("underscores must normalize to hyphens: %v", cfg)
	}
}

func TestResolve_NestedMappingsFlatten(t *testing.T) {
	cfg := resolveConfig(t, "log:\n  level: warn\n  pretty: false\n")

	if cfg["log-level"] != "warn" {
		t.Errorf("nested keys must flatten: %v", cfg)
	}

	if cfg["log-pretty"] != false {
		t.Errorf("nested bool must flatten: %v", cfg)
	}
}

func TestResolve_MalformedYAMLYieldsEmptyConfig(t *testing.T) {
	cfg := resolveConfig(t, ":\n  - not: [valid")

	if len(cfg) != 0 {
		t.Errorf("malformed config must resolve empty, got %v", cfg)
	}
}

func TestResolve_MissingFlagIsNil(t *testing.T) {
	cfg := resolveConfig(t, "log-level: info\n")

	value, err := cfg.Resolve(nil, nil, &kong.Flag{
		Value: &kong.Value{Name: "absent"},
	})
	if err != nil {
		t.Fatalf("resolve flag: %v", err)
	}

	if value != nil {
		t.Errorf("missing flag must resolve to nil, got %v", value)
	}
}
