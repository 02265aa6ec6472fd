package storage

import (
	"strconv"
	"strings"
)

// resolveConnectionString looks up the configured connection name.
func resolveConnectionString(cfg Config) (string, error) {
	if cfg.Connection == "" {
		return "", configError("no connection name configured")
	}
	for name, value := range cfg.ConnectionStrings {
		if strings.EqualFold(name, cfg.Connection) {
			if strings.TrimSpace(value) == "" {
				return "", configError("connection %q is empty", cfg.Connection)
			}
			return value, nil
		}
	}
	return "", configError("unknown connection %q", cfg.Connection)
}

// connectionSettings is a parsed Key=Value;Key=Value connection string.
// Keys are case-insensitive.
type connectionSettings map[string]string

func parseConnectionString(raw string) (connectionSettings, error) {
	settings := connectionSettings{}
	for _, part := range strings.Split(raw, ";") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		key, value, ok := strings.Cut(part, "=")
		if !ok || strings.TrimSpace(key) == "" {
			return nil, configError("malformed connection string segment %q", part)
		}
		settings[strings.ToLower(strings.TrimSpace(key))] = strings.TrimSpace(value)
	}
	if len(settings) == 0 {
		return nil, configError("connection string is empty")
	}
	return settings, nil
}

func (s connectionSettings) get(key string) string {
	return s[strings.ToLower(key)]
}

func (s connectionSettings) require(keys ...string) error {
	for _, k := range keys {
		if s.get(k) == "" {
			return configError("connection string is missing %s", k)
		}
	}
	return nil
}

func (s connectionSettings) boolean(key string) (bool, error) {
	v := s.get(key)
	if v == "" {
		return false, nil
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return false, configError("invalid %s value %q", key, v)
	}
	return b, nil
}
