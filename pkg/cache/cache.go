// Package cache stores rendered card artifacts.
//
// A card image is a pure function of its token and render options, so the
// bytes can be cached under a hash of those inputs and served without
// decoding or drawing again. Caching is optional; [NullCache] disables it.
//
// # Backends
//
//   - [FileCache]: one JSON file per entry under a directory, for the CLI
//     and single-instance servers
//   - [RedisCache]: shared cache for several server instances
//   - [NullCache]: stores nothing
//
// # Keys
//
// A [Keyer] derives keys. [DefaultKeyer] hashes the token together with
// [ArtifactKeyOpts]; [ScopedKeyer] adds a prefix such as the build version
// so a new release never serves images drawn by an old one.
package cache

import (
	"context"
	"time"
)

// Default time-to-live values.
const (
	// TTLArtifact is how long rendered images are kept.
	TTLArtifact = 24 * time.Hour
)

// Cache is a byte store with expiry. Implementations are safe for
// concurrent use.
type Cache interface {
	// Get returns the value for key and whether it was found. A miss is
	// not an error.
	Get(ctx context.Context, key string) ([]byte, bool, error)

	// Set stores data under key. A ttl of zero means no expiry.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error

	// Delete removes key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error

	// Close releases resources held by the cache.
	Close() error
}

// ArtifactKeyOpts are the render inputs besides the token that change the
// output bytes.
type ArtifactKeyOpts struct {
	Variant    string  `json:"variant"`
	Format     string  `json:"format"`
	Scale      float64 `json:"scale"`
	Width      int     `json:"width,omitempty"`
	Rasterizer string  `json:"rasterizer,omitempty"`

	// Layout fingerprints the variant's card config (brand, palette, texts).
	Layout string `json:"layout,omitempty"`
	// Fonts fingerprints the font files and SVG embedding.
	Fonts string `json:"fonts,omitempty"`
}

// Keyer derives cache keys.
type Keyer interface {
	// ArtifactKey returns the key for a rendered artifact of token.
	ArtifactKey(token string, opts ArtifactKeyOpts) string
}

// DefaultKeyer hashes key inputs with SHA-256.
type DefaultKeyer struct{}

// NewDefaultKeyer returns a DefaultKeyer.
func NewDefaultKeyer() Keyer {
	return DefaultKeyer{}
}

// ArtifactKey returns "artifact:<sha256 of token and opts>".
func (DefaultKeyer) ArtifactKey(token string, opts ArtifactKeyOpts) string {
	return hashKey("artifact", token, opts)
}
