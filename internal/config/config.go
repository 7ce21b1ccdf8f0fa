// Package config loads the blindcard service configuration.
//
// A config file is TOML or YAML, chosen by extension. Its contents pass
// through os.ExpandEnv before parsing, so secrets such as the Redis password
// can come from the environment:
//
//	[cache]
//	backend = "redis"
//
//	[cache.redis]
//	addr = "localhost:6379"
//	password = "${REDIS_PASSWORD}"
//
// Missing keys keep the values from [Default]. Any validation failure is an
// INVALID_CONFIG error and should stop the process.
package config

import (
	"context"
	"time"

	"github.com/charmbracelet/log"
	validation "github.com/go-ozzo/ozzo-validation/v4"

	"github.com/matzehuels/blindcard/pkg/cache"
	"github.com/matzehuels/blindcard/pkg/card"
	apperr "github.com/matzehuels/blindcard/pkg/errors"
	"github.com/matzehuels/blindcard/pkg/fonts"
	"github.com/matzehuels/blindcard/pkg/pipeline"
	"github.com/matzehuels/blindcard/pkg/render/sink"
)

// Cache backends.
const (
	CacheNone  = "none"
	CacheFile  = "file"
	CacheRedis = "redis"
)

// Config represents the application configuration.
type Config struct {
	LogLevel string       `yaml:"log_level" toml:"log_level"`
	HTTP     HTTPConfig   `yaml:"http" toml:"http"`
	Render   RenderConfig `yaml:"render" toml:"render"`
	Fonts    FontsConfig  `yaml:"fonts" toml:"fonts"`
	Cache    CacheConfig  `yaml:"cache" toml:"cache"`
	Card     CardConfig   `yaml:"card" toml:"card"`
}

// Validate validates the configuration.
func (c *Config) Validate() error {
	err := validation.ValidateStruct(c,
		validation.Field(&c.LogLevel, validation.Required, validation.By(validLevel)),
		validation.Field(&c.HTTP),
		validation.Field(&c.Render),
		validation.Field(&c.Cache),
		validation.Field(&c.Card),
	)
	if err != nil {
		return apperr.Wrap(apperr.ErrCodeInvalidConfig, err, "config")
	}
	return nil
}

// Level returns the parsed log level.
func (c *Config) Level() log.Level {
	l, err := log.ParseLevel(c.LogLevel)
	if err != nil {
		return log.InfoLevel
	}
	return l
}

func validLevel(v any) error {
	_, err := log.ParseLevel(v.(string))
	return err
}

// HTTPConfig holds HTTP server configuration.
type HTTPConfig struct {
	Addr            string        `yaml:"addr" toml:"addr"`
	RequestTimeout  time.Duration `yaml:"request_timeout" toml:"request_timeout"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout" toml:"shutdown_timeout"`

	// CacheMaxAge is sent as Cache-Control max-age on image responses.
	CacheMaxAge time.Duration `yaml:"cache_max_age" toml:"cache_max_age"`

	// PublicBaseURL is the origin share links and image URLs are built on.
	PublicBaseURL string `yaml:"public_base_url" toml:"public_base_url"`
}

// Validate validates the HTTP configuration.
func (c HTTPConfig) Validate() error {
	return validation.ValidateStruct(&c,
		validation.Field(&c.Addr, validation.Required),
		validation.Field(&c.RequestTimeout, validation.Required, validation.Min(time.Millisecond)),
		validation.Field(&c.ShutdownTimeout, validation.Required, validation.Min(time.Millisecond)),
		validation.Field(&c.CacheMaxAge, validation.Min(time.Duration(0))),
	)
}

// RenderConfig holds rasterization settings.
type RenderConfig struct {
	Scale      float64 `yaml:"scale" toml:"scale"`
	Rasterizer string  `yaml:"rasterizer" toml:"rasterizer"`
	EmbedFonts bool    `yaml:"embed_fonts" toml:"embed_fonts"`

	// MaxThumbnailWidth caps the ?w= parameter of image endpoints.
	MaxThumbnailWidth int `yaml:"max_thumbnail_width" toml:"max_thumbnail_width"`
}

// Validate validates the render configuration.
func (c RenderConfig) Validate() error {
	return validation.ValidateStruct(&c,
		validation.Field(&c.Scale, validation.Required, validation.Min(0.25), validation.Max(pipeline.MaxScale)),
		validation.Field(&c.Rasterizer, validation.In(
			string(sink.RasterizerAuto), string(sink.RasterizerRSVG), string(sink.RasterizerCanvas))),
		validation.Field(&c.MaxThumbnailWidth, validation.Required, validation.Min(sink.MinThumbnailWidth)),
	)
}

// FontsConfig says where to find the card fonts.
type FontsConfig struct {
	Regular      string   `yaml:"regular" toml:"regular"`
	Bold         string   `yaml:"bold" toml:"bold"`
	RegularNames []string `yaml:"regular_names" toml:"regular_names"`
	BoldNames    []string `yaml:"bold_names" toml:"bold_names"`
	SkipSystem   bool     `yaml:"skip_system" toml:"skip_system"`
}

// Load resolves the configured fonts.
func (c FontsConfig) Load() (*fonts.Set, error) {
	return fonts.Load(fonts.Source{
		RegularPath:  c.Regular,
		BoldPath:     c.Bold,
		RegularNames: c.RegularNames,
		BoldNames:    c.BoldNames,
		SkipSystem:   c.SkipSystem,
	})
}

// CacheConfig selects and configures the artifact cache.
type CacheConfig struct {
	Backend string        `yaml:"backend" toml:"backend"`
	Dir     string        `yaml:"dir" toml:"dir"`
	TTL     time.Duration `yaml:"ttl" toml:"ttl"`
	Redis   RedisConfig   `yaml:"redis" toml:"redis"`
}

// RedisConfig holds Redis connection settings.
type RedisConfig struct {
	Addr     string `yaml:"addr" toml:"addr"`
	Password string `yaml:"password" toml:"password"`
	DB       int    `yaml:"db" toml:"db"`
	Prefix   string `yaml:"prefix" toml:"prefix"`
}

// Validate validates the cache configuration.
func (c CacheConfig) Validate() error {
	return validation.ValidateStruct(&c,
		validation.Field(&c.Backend, validation.Required, validation.In(CacheNone, CacheFile, CacheRedis)),
		validation.Field(&c.TTL, validation.Required, validation.Min(time.Second)),
		validation.Field(&c.Redis, validation.When(c.Backend == CacheRedis, validation.By(func(any) error {
			return validation.ValidateStruct(&c.Redis,
				validation.Field(&c.Redis.Addr, validation.Required),
				validation.Field(&c.Redis.DB, validation.Min(0)),
			)
		}))),
	)
}

// Open creates the configured cache. An empty file directory means
// [cache.DefaultDir].
func (c CacheConfig) Open(ctx context.Context) (cache.Cache, error) {
	switch c.Backend {
	case CacheFile:
		dir := c.Dir
		if dir == "" {
			d, err := cache.DefaultDir()
			if err != nil {
				return nil, err
			}
			dir = d
		}
		return cache.NewFileCache(dir)
	case CacheRedis:
		return cache.NewRedisCache(ctx, cache.RedisOptions{
			Addr:     c.Redis.Addr,
			Password: c.Redis.Password,
			DB:       c.Redis.DB,
			Prefix:   c.Redis.Prefix,
		})
	default:
		return cache.NewNullCache(), nil
	}
}

// CardConfig overrides parts of the card presets.
type CardConfig struct {
	// Brand replaces the brand text at the bottom of both variants.
	Brand string `yaml:"brand" toml:"brand"`

	// Theme is the palette used when a letter names no known theme.
	Theme string `yaml:"theme" toml:"theme"`
}

// Validate validates the card overrides.
func (c CardConfig) Validate() error {
	themes := make([]any, 0, len(card.Palettes))
	for _, t := range card.Themes() {
		themes = append(themes, t)
	}
	return validation.ValidateStruct(&c,
		validation.Field(&c.Brand, validation.RuneLength(0, 40)),
		validation.Field(&c.Theme, validation.In(themes...)),
	)
}

// Apply returns base with the overrides applied.
func (c CardConfig) Apply(base card.Config) card.Config {
	if c.Brand != "" {
		base.Texts.Brand = c.Brand
	}
	if c.Theme != "" {
		base.Palette = card.PaletteFor(c.Theme)
	}
	return base
}

// Engines builds the layout engine of every variant with the overrides
// applied.
func (c CardConfig) Engines() (map[card.Variant]*card.Engine, error) {
	out := make(map[card.Variant]*card.Engine, len(card.Variants))
	for _, v := range card.Variants {
		base, err := card.ConfigFor(v)
		if err != nil {
			return nil, err
		}
		e, err := card.NewEngine(c.Apply(base))
		if err != nil {
			return nil, err
		}
		out[v] = e
	}
	return out, nil
}

// Default returns a Config with sensible default values.
func Default() *Config {
	return &Config{
		LogLevel: "info",
		HTTP: HTTPConfig{
			Addr:            ":8080",
			RequestTimeout:  10 * time.Second,
			ShutdownTimeout: 15 * time.Second,
			CacheMaxAge:     24 * time.Hour,
			PublicBaseURL:   "http://localhost:8080",
		},
		Render: RenderConfig{
			Scale:             1,
			Rasterizer:        string(sink.RasterizerAuto),
			MaxThumbnailWidth: 1200,
		},
		Cache: CacheConfig{
			Backend: CacheNone,
			TTL:     cache.TTLArtifact,
			Redis: RedisConfig{
				Addr:   "localhost:6379",
				Prefix: "blindcard:",
			},
		},
	}
}
