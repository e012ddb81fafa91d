// Package config loads the lineage configuration file.
//
// The file is TOML with four tables:
//
//	[layout]
//	horizontal_grid_size = 20
//	relative_attraction  = 0.5
//	row_height           = 230
//	iterations           = 120
//	chunked              = false
//
//	[cache]
//	backend   = "file"          # file, redis or none
//	dir       = ""              # defaults to $XDG_CACHE_HOME/lineage
//	redis_url = "redis://localhost:6379/0"
//	namespace = ""
//
//	[server]
//	addr             = ":8080"
//	request_timeout  = "30s"
//	max_body_bytes   = 16777216
//
//	[source]
//	kind       = "file"         # file or mongo
//	path       = "family.json"
//	mongo_uri  = "mongodb://localhost:27017"
//	database   = "lineage"
//	collection = "persons"
//
// Every key is optional. [Load] looks for the file in the XDG config
// directory when no path is given and falls back to defaults when there is
// no file. Command-line flags override file values.
package config

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/BurntSushi/toml"

	"github.com/matzehuels/lineage/pkg/errors"
	"github.com/matzehuels/lineage/pkg/layout"
)

// AppName names the config and cache directories.
const AppName = "lineage"

// FileName is the config file name inside the config directory.
const FileName = "lineage.toml"

// Cache backends.
const (
	BackendFile  = "file"
	BackendRedis = "redis"
	BackendNone  = "none"
)

// Source kinds.
const (
	SourceFile  = "file"
	SourceMongo = "mongo"
)

// Config is the whole configuration file.
type Config struct {
	Layout Layout `toml:"layout"`
	Cache  Cache  `toml:"cache"`
	Server Server `toml:"server"`
	Source Source `toml:"source"`
}

// Layout configures the layout engine.
type Layout struct {
	HorizontalGridSize float64 `toml:"horizontal_grid_size"`
	// RelativeAttraction is a pointer because 0 is a meaningful value.
	RelativeAttraction *float64 `toml:"relative_attraction"`
	RowHeight          float64  `toml:"row_height"`
	Iterations         int      `toml:"iterations"`
	Seed               uint64   `toml:"seed"`
	Chunked            bool     `toml:"chunked"`
}

// Cache configures the layout cache.
type Cache struct {
	Backend   string `toml:"backend"`
	Dir       string `toml:"dir"`
	RedisURL  string `toml:"redis_url"`
	Namespace string `toml:"namespace"`
}

// Server configures the HTTP API.
type Server struct {
	Addr           string   `toml:"addr"`
	RequestTimeout Duration `toml:"request_timeout"`
	MaxBodyBytes   int64    `toml:"max_body_bytes"`
}

// Source configures where persons are read from.
type Source struct {
	Kind       string `toml:"kind"`
	Path       string `toml:"path"`
	MongoURI   string `toml:"mongo_uri"`
	Database   string `toml:"database"`
	Collection string `toml:"collection"`
}

// Duration is a time.Duration written as a Go duration string ("30s").
type Duration struct{ time.Duration }

// UnmarshalText implements encoding.TextUnmarshaler.
func (d *Duration) UnmarshalText(text []byte) error {
	v, err := time.ParseDuration(string(text))
	if err != nil {
		return err
	}
	d.Duration = v
	return nil
}

// MarshalText implements encoding.TextMarshaler.
func (d Duration) MarshalText() ([]byte, error) {
	return []byte(d.Duration.String()), nil
}

// Default returns the configuration used when there is no file.
func Default() Config {
	var c Config
	c.SetDefaults()
	return c
}

// SetDefaults fills every empty field.
func (c *Config) SetDefaults() {
	if c.Layout.HorizontalGridSize <= 0 {
		c.Layout.HorizontalGridSize = layout.DefaultHorizontalGridSize
	}
	if c.Layout.RelativeAttraction == nil {
		v := layout.DefaultRelativeAttraction
		c.Layout.RelativeAttraction = &v
	}
	if c.Layout.RowHeight <= 0 {
		c.Layout.RowHeight = layout.DefaultRowHeight
	}
	if c.Layout.Iterations <= 0 {
		c.Layout.Iterations = layout.DefaultIterations
	}
	if c.Layout.Seed == 0 {
		c.Layout.Seed = layout.DefaultSeed
	}

	if c.Cache.Backend == "" {
		c.Cache.Backend = BackendFile
	}
	if c.Cache.Dir == "" {
		if dir, err := CacheDir(); err == nil {
			c.Cache.Dir = dir
		}
	}

	if c.Server.Addr == "" {
		c.Server.Addr = ":8080"
	}
	if c.Server.RequestTimeout.Duration <= 0 {
		c.Server.RequestTimeout.Duration = 30 * time.Second
	}
	if c.Server.MaxBodyBytes <= 0 {
		c.Server.MaxBodyBytes = 16 << 20
	}

	if c.Source.Kind == "" {
		c.Source.Kind = SourceFile
	}
	if c.Source.Database == "" {
		c.Source.Database = AppName
	}
	if c.Source.Collection == "" {
		c.Source.Collection = "persons"
	}
}

// Validate checks the configuration after defaults are applied.
func (c *Config) Validate() error {
	if err := errors.ValidateGridSize(c.Layout.HorizontalGridSize); err != nil {
		return err
	}
	if c.Layout.RelativeAttraction != nil {
		if err := errors.ValidateAttraction(*c.Layout.RelativeAttraction); err != nil {
			return err
		}
	}

	switch c.Cache.Backend {
	case BackendFile, BackendNone:
	case BackendRedis:
		if err := errors.ValidateURL(c.Cache.RedisURL, "redis", "rediss"); err != nil {
			return err
		}
	default:
		return errors.New(errors.ErrCodeInvalidConfig, "unknown cache backend %q", c.Cache.Backend)
	}

	switch c.Source.Kind {
	case SourceFile:
		if c.Source.Path != "" {
			if err := errors.ValidatePath(c.Source.Path); err != nil {
				return err
			}
		}
	case SourceMongo:
		if err := errors.ValidateURL(c.Source.MongoURI, "mongodb", "mongodb+srv"); err != nil {
			return err
		}
	default:
		return errors.New(errors.ErrCodeInvalidConfig, "unknown source kind %q", c.Source.Kind)
	}
	return nil
}

// LayoutOptions converts the layout table into engine options.
func (c *Config) LayoutOptions() layout.Options {
	opts := layout.Options{
		HorizontalGridSize: c.Layout.HorizontalGridSize,
		RowHeight:          c.Layout.RowHeight,
		Iterations:         c.Layout.Iterations,
		Seed:               c.Layout.Seed,
		RelativeAttraction: layout.DefaultRelativeAttraction,
	}
	if c.Layout.RelativeAttraction != nil {
		opts.RelativeAttraction = *c.Layout.RelativeAttraction
	}
	return opts
}

// Load reads the file at path, or the default path when path is empty, and
// applies defaults. A missing default file is not an error; a missing
// explicit file is.
func Load(path string) (Config, error) {
	explicit := path != ""
	if !explicit {
		p, err := Path()
		if err != nil {
			return Default(), nil
		}
		path = p
	}

	data, err := os.ReadFile(path)
	if os.IsNotExist(err) && !explicit {
		return Default(), nil
	}
	if os.IsNotExist(err) {
		return Config{}, errors.Wrap(errors.ErrCodeFileNotFound, err, "config file %s", path)
	}
	if err != nil {
		return Config{}, fmt.Errorf("read config: %w", err)
	}
	return Parse(data)
}

// Parse decodes TOML data, applies defaults and validates the result.
// Unknown keys are rejected so that typos do not pass silently.
func Parse(data []byte) (Config, error) {
	var c Config
	md, err := toml.Decode(string(data), &c)
	if err != nil {
		return Config{}, errors.Wrap(errors.ErrCodeInvalidConfig, err, "parse config")
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		return Config{}, errors.New(errors.ErrCodeInvalidConfig, "unknown config key %q", undecoded[0].String())
	}
	c.SetDefaults()
	if err := c.Validate(); err != nil {
		return Config{}, err
	}
	return c, nil
}

// Write encodes c as TOML.
func (c Config) Write(w io.Writer) error {
	var buf bytes.Buffer
	if err := toml.NewEncoder(&buf).Encode(c); err != nil {
		return err
	}
	_, err := w.Write(buf.Bytes())
	return err
}

// =============================================================================
// Paths
// =============================================================================

// Path returns the default config file path using the XDG standard
// (~/.config/lineage/lineage.toml).
func Path() (string, error) {
	if dir := os.Getenv("XDG_CONFIG_HOME"); dir != "" {
		return filepath.Join(dir, AppName, FileName), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", AppName, FileName), nil
}

// CacheDir returns the cache directory using the XDG standard
// (~/.cache/lineage/).
func CacheDir() (string, error) {
	if dir := os.Getenv("XDG_CACHE_HOME"); dir != "" {
		return filepath.Join(dir, AppName), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".cache", AppName), nil
}
