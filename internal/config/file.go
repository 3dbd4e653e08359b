package config

import (
	"fmt"
	"os"

	"github.com/spf13/pflag"
	"gopkg.in/yaml.v3"

	apperrors "github.com/agbru/sysoptimizer/internal/errors"
)

// readFile decodes a YAML mapping of setting names to scalar values. Keys are
// the lowercase environment names, e.g. "cpu_wait: 250ms".
func readFile(path string) (map[string]string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, apperrors.NewConfigError("read config file: %v", err)
	}
	raw := map[string]any{}
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, apperrors.NewConfigError("parse config file %s: %v", path, err)
	}
	values := make(map[string]string, len(raw))
	for k, v := range raw {
		switch v.(type) {
		case map[string]any, []any:
			return nil, apperrors.NewConfigError("config file %s: %q must be a scalar", path, k)
		case nil:
			continue
		}
		values[k] = fmt.Sprint(v)
	}
	return values, nil
}

// applyValues applies decoded file values through the override table. Unknown
// keys are rejected so typos do not go unnoticed.
func applyValues(cfg *AppConfig, fs *pflag.FlagSet, values map[string]string, source string) error {
	known := make(map[string]bool, len(overrides))
	for _, o := range overrides {
		known[o.fileKey()] = true
		val, ok := values[o.fileKey()]
		if !ok || isFlagSetAny(fs, o.flags...) {
			continue
		}
		if err := o.apply(cfg, val); err != nil {
			return apperrors.NewConfigError("invalid %s %s=%q: %v", source, o.fileKey(), val, err)
		}
	}
	for k := range values {
		if !known[k] {
			return apperrors.NewConfigError("unknown %s key %q", source, k)
		}
	}
	return nil
}
