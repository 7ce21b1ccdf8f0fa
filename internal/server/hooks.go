package server

import (
	"context"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/blindcard/pkg/observability"
)

// LogHooks writes pipeline and cache events to a logger at debug level.
type LogHooks struct {
	Logger *log.Logger
}

var (
	_ observability.PipelineHooks = LogHooks{}
	_ observability.CacheHooks    = LogHooks{}
)

// Register installs h as the global pipeline and cache hooks.
func (h LogHooks) Register() {
	observability.SetPipelineHooks(h)
	observability.SetCacheHooks(h)
}

func (h LogHooks) OnDecode(_ context.Context, ok bool, d time.Duration) {
	h.Logger.Debug("decode", "ok", ok, "duration", d)
}

func (h LogHooks) OnLayout(_ context.Context, variant string, lines int, d time.Duration) {
	h.Logger.Debug("layout", "variant", variant, "lines", lines, "duration", d)
}

func (h LogHooks) OnRender(_ context.Context, format, rasterizer string, size int, d time.Duration, err error) {
	if err != nil {
		h.Logger.Debug("render", "format", format, "rasterizer", rasterizer, "duration", d, "error", err)
		return
	}
	h.Logger.Debug("render", "format", format, "rasterizer", rasterizer, "bytes", size, "duration", d)
}

func (h LogHooks) OnCacheHit(_ context.Context, keyType string) {
	h.Logger.Debug("cache hit", "type", keyType)
}

func (h LogHooks) OnCacheMiss(_ context.Context, keyType string) {
	h.Logger.Debug("cache miss", "type", keyType)
}

func (h LogHooks) OnCacheSet(_ context.Context, keyType string, size int) {
	h.Logger.Debug("cache set", "type", keyType, "bytes", size)
}
