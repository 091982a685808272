package config

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrEmptyEndpoint indicates a missing API endpoint
	ErrEmptyEndpoint = errors.New("empty endpoint")

	// ErrMissingPlaceholder indicates an endpoint without its id placeholder
	ErrMissingPlaceholder = errors.New("endpoint missing placeholder")

	// ErrInvalidTimeout indicates a non-positive request timeout
	ErrInvalidTimeout = errors.New("invalid timeout")

	// ErrInvalidCacheSettings indicates invalid cache configuration
	ErrInvalidCacheSettings = errors.New("invalid cache settings")

	// ErrInvalidLogFormat indicates an unsupported log encoding
	ErrInvalidLogFormat = errors.New("invalid log format")
)

// Validate checks that the configuration is usable. Every problem found is
// reported; the result wraps each sentinel so callers can use errors.Is.
func Validate(cfg *Config) error {
	var errs []error

	errs = append(errs, validateEndpoint("api.component_endpoint", cfg.API.ComponentEndpoint, "{id}")...)
	errs = append(errs, validateEndpoint("api.mesh_endpoint", cfg.API.MeshEndpoint, "{uuid}")...)
	errs = append(errs, validateEndpoint("api.solid_endpoint", cfg.API.SolidEndpoint, "{uuid}")...)

	if cfg.API.Timeout <= 0 {
		errs = append(errs, fmt.Errorf("%w: api.timeout must be positive, got %s", ErrInvalidTimeout, cfg.API.Timeout))
	}

	if cfg.Cache.Capacity <= 0 {
		errs = append(errs, fmt.Errorf("%w: cache.capacity must be positive, got %d", ErrInvalidCacheSettings, cfg.Cache.Capacity))
	}
	if cfg.Cache.TTL <= 0 {
		errs = append(errs, fmt.Errorf("%w: cache.ttl must be positive, got %s", ErrInvalidCacheSettings, cfg.Cache.TTL))
	}
	if cfg.Cache.Enabled && strings.TrimSpace(cfg.Cache.Dir) == "" {
		errs = append(errs, fmt.Errorf("%w: cache.dir is required when the disk cache is enabled", ErrInvalidCacheSettings))
	}

	switch strings.ToLower(cfg.Log.Format) {
	case "console", "json":
	default:
		errs = append(errs, fmt.Errorf("%w: must be 'console' or 'json', got '%s'", ErrInvalidLogFormat, cfg.Log.Format))
	}

	return errors.Join(errs...)
}

func validateEndpoint(key, endpoint, placeholder string) []error {
	if strings.TrimSpace(endpoint) == "" {
		return []error{fmt.Errorf("%w: %s", ErrEmptyEndpoint, key)}
	}
	if !strings.Contains(endpoint, placeholder) {
		return []error{fmt.Errorf("%w: %s must contain %s", ErrMissingPlaceholder, key, placeholder)}
	}
	return nil
}
