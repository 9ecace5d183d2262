package cli

import (
	"io"
	"strings"

	"github.com/alecthomas/kong"
	"github.com/goccy/go-yaml"
)

// resolve is a [kong.ConfigurationLoader] that parses YAML config files.
//
// The YAML structure maps onto flag names as follows:
//   - Top-level scalar keys apply directly ("log-level: debug")
//   - Underscores in keys are normalized to hyphens ("log_level")
//   - Nested mappings are flattened with a hyphen ("log: {level: debug}"
//     applies to --log-level)
//
// Command-line flags override config file values. An unreadable or
// malformed config file yields an empty configuration rather than an
// error, so a broken config never locks the user out of the CLI.
func resolve(r io.Reader) (kong.Resolver, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return config{}, nil
	}

	var values map[string]any

	if err := yaml.Unmarshal(data, &values); err != nil {
		return config{}, nil
	}

	flat := make(config)
	flatten("", values, flat)

	return flat, nil
}

// flatten normalizes nested YAML mappings into hyphen-joined flag names.
func flatten(prefix string, values map[string]any, out config) {
	for key, value := range values {
		name := strings.ReplaceAll(key, "_", "-")
		if prefix != "" {
			name = prefix + "-" + name
		}

		switch value := value.(type) {
		case map[string]any:
			flatten(name, value, out)

		default:
			out[name] = value
		}
	}
}

// config implements [kong.Resolver] for flattened YAML configs.
type config map[string]any

// Validate implements [kong.Resolver].
func (config) Validate(*kong.Application) error { return nil }

// Resolve implements [kong.Resolver].
func (r config) Resolve(
	_ *kong.Context,
	_ *kong.Path,
	flag *kong.Flag,
) (any, error) {
	value, ok := r[flag.Name]
	if !ok {
		return nil, nil
	}

	return value, nil
}
