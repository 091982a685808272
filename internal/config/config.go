package config

import (
	"time"

	"github.com/OpenTraceLab/ee2kicad/internal/logging"
	"github.com/OpenTraceLab/ee2kicad/pkg/easyeda/api"
)

// Version is the release version, overridden at build time with
// -ldflags "-X github.com/OpenTraceLab/ee2kicad/internal/config.Version=...".
var Version = "0.9.0"

type Config struct {
	API     APIConfig     `yaml:"api" mapstructure:"api"`
	Cache   CacheConfig   `yaml:"cache" mapstructure:"cache"`
	Log     LogConfig     `yaml:"log" mapstructure:"log"`
	Metrics MetricsConfig `yaml:"metrics" mapstructure:"metrics"`
}

type APIConfig struct {
	ComponentEndpoint string        `yaml:"component_endpoint" mapstructure:"component_endpoint"` // must contain {id}
	MeshEndpoint      string        `yaml:"mesh_endpoint" mapstructure:"mesh_endpoint"`           // must contain {uuid}
	SolidEndpoint     string        `yaml:"solid_endpoint" mapstructure:"solid_endpoint"`         // must contain {uuid}
	UserAgent         string        `yaml:"user_agent" mapstructure:"user_agent"`
	Timeout           time.Duration `yaml:"timeout" mapstructure:"timeout"`
}

type CacheConfig struct {
	Enabled  bool          `yaml:"enabled" mapstructure:"enabled"` // persist API bodies on disk
	Dir      string        `yaml:"dir" mapstructure:"dir"`
	Capacity int           `yaml:"capacity" mapstructure:"capacity"` // in-memory entries
	TTL      time.Duration `yaml:"ttl" mapstructure:"ttl"`
}

type LogConfig struct {
	Level  string `yaml:"level" mapstructure:"level"`   // debug, info, warn, error
	Format string `yaml:"format" mapstructure:"format"` // "console" or "json"
}

type MetricsConfig struct {
	Textfile string `yaml:"textfile" mapstructure:"textfile"` // node-exporter textfile path, empty disables
}

func Default() *Config {
	apiDefaults := api.DefaultConfig()
	return &Config{
		API: APIConfig{
			ComponentEndpoint: apiDefaults.ComponentEndpoint,
			MeshEndpoint:      apiDefaults.MeshEndpoint,
			SolidEndpoint:     apiDefaults.SolidEndpoint,
			UserAgent:         "ee2kicad v" + Version,
			Timeout:           apiDefaults.Timeout,
		},
		Cache: CacheConfig{
			Enabled:  false,
			Dir:      apiDefaults.CacheDir,
			Capacity: apiDefaults.CacheCapacity,
			TTL:      apiDefaults.CacheTTL,
		},
		Log: LogConfig{
			Level:  "info",
			Format: "console",
		},
	}
}

// ClientConfig maps the API and cache sections onto the client settings.
func (c *Config) ClientConfig() api.Config {
	return api.Config{
		ComponentEndpoint: c.API.ComponentEndpoint,
		MeshEndpoint:      c.API.MeshEndpoint,
		SolidEndpoint:     c.API.SolidEndpoint,
		UserAgent:         c.API.UserAgent,
		Timeout:           c.API.Timeout,
		CacheEnabled:      c.Cache.Enabled,
		CacheDir:          c.Cache.Dir,
		CacheCapacity:     c.Cache.Capacity,
		CacheTTL:          c.Cache.TTL,
	}
}

// LoggingConfig maps the log section onto the logger settings.
func (c *Config) LoggingConfig() logging.Config {
	return logging.Config{
		Level:  c.Log.Level,
		Format: c.Log.Format,
	}
}
