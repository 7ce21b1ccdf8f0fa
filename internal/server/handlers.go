package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/matzehuels/blindcard/pkg/card"
	apperr "github.com/matzehuels/blindcard/pkg/errors"
	"github.com/matzehuels/blindcard/pkg/letter"
	"github.com/matzehuels/blindcard/pkg/pipeline"
	"github.com/matzehuels/blindcard/pkg/render/sink"
)

// CacheHeader reports whether an image came from the artifact cache.
const CacheHeader = "X-Blindcard-Cache"

// =============================================================================
// Health
// =============================================================================

func (s *Server) live(w http.ResponseWriter, _ *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// pinger is implemented by caches with a remote backend.
type pinger interface {
	Ping(ctx context.Context) error
}

func (s *Server) ready(w http.ResponseWriter, r *http.Request) {
	if p, ok := s.runner.Cache.(pinger); ok {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()
		if err := p.Ping(ctx); err != nil {
			s.logger.Warn("readiness check failed", "error", err)
			s.writeJSON(w, http.StatusServiceUnavailable, map[string]string{"status": "unavailable"})
			return
		}
	}
	s.writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// =============================================================================
// Images
// =============================================================================

func (s *Server) ogPNG(w http.ResponseWriter, r *http.Request) {
	s.serveImage(w, r, r.URL.Query().Get(letter.QueryParam), pipeline.FormatPNG)
}

func (s *Server) ogPNGPath(w http.ResponseWriter, r *http.Request) {
	token := strings.TrimSuffix(chi.URLParam(r, "token"), ".png")
	s.serveImage(w, r, token, pipeline.FormatPNG)
}

func (s *Server) ogSVG(w http.ResponseWriter, r *http.Request) {
	s.serveImage(w, r, r.URL.Query().Get(letter.QueryParam), pipeline.FormatSVG)
}

func (s *Server) serveImage(w http.ResponseWriter, r *http.Request, token, format string) {
	q := r.URL.Query()
	opts := pipeline.Options{
		Token:   token,
		Variant: card.Variant(q.Get("variant")),
		Format:  format,
		Scale:   s.render.Scale,
		Logger:  s.logger.With("request_id", middleware.GetReqID(r.Context())),
	}
	if format == pipeline.FormatPNG {
		opts.Width = s.thumbnailWidth(q.Get("w"))
	}

	res, err := s.runner.Execute(r.Context(), opts)
	if err != nil {
		s.renderError(w, r, err)
		return
	}

	w.Header().Set("Content-Type", res.ContentType)
	w.Header().Set("Content-Length", strconv.Itoa(len(res.Artifact)))
	if age := int(s.cfg.CacheMaxAge / time.Second); age > 0 {
		w.Header().Set("Cache-Control", fmt.Sprintf("public, max-age=%d, immutable", age))
	}
	if res.CacheHit {
		w.Header().Set(CacheHeader, "hit")
	} else {
		w.Header().Set(CacheHeader, "miss")
	}
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(res.Artifact)
}

// thumbnailWidth parses ?w=. Unparsable or non-positive values mean full
// size; others are clamped to the configured range.
func (s *Server) thumbnailWidth(raw string) int {
	if raw == "" {
		return 0
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n <= 0 {
		return 0
	}
	return min(max(n, sink.MinThumbnailWidth), s.render.MaxThumbnailWidth)
}

func (s *Server) renderError(w http.ResponseWriter, r *http.Request, err error) {
	logger := s.logger.With("request_id", middleware.GetReqID(r.Context()), "path", r.URL.Path)
	switch {
	case apperr.Is(err, apperr.ErrCodeTimeout) || errors.Is(err, context.DeadlineExceeded):
		logger.Error("render timed out", "error", err)
		s.writeJSON(w, http.StatusGatewayTimeout, errorBody("render timed out"))
	case apperr.Is(err, apperr.ErrCodeInvalidInput),
		apperr.Is(err, apperr.ErrCodeInvalidFormat),
		apperr.Is(err, apperr.ErrCodeInvalidVariant):
		s.writeJSON(w, http.StatusBadRequest, errorBody(apperr.UserMessage(err)))
	default:
		logger.Error("render failed", "error", err)
		s.writeJSON(w, http.StatusInternalServerError, errorBody("failed to render image"))
	}
}

// =============================================================================
// Letters
// =============================================================================

type composeResponse struct {
	Token    string `json:"token"`
	URL      string `json:"url"`
	ImageURL string `json:"image_url"`
}

func (s *Server) compose(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, MaxBodyBytes)

	var rec letter.Record
	if err := json.NewDecoder(r.Body).Decode(&rec); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			s.writeJSON(w, http.StatusRequestEntityTooLarge, errorBody("request body too large"))
			return
		}
		s.writeJSON(w, http.StatusBadRequest, errorBody("invalid JSON body"))
		return
	}

	rec = letter.Normalize(rec)
	if strings.TrimSpace(rec.Message) == "" {
		s.writeJSON(w, http.StatusBadRequest, errorBody("message is required"))
		return
	}
	if err := rec.Validate(); err != nil {
		s.writeJSON(w, http.StatusBadRequest, errorBody(apperr.UserMessage(err)))
		return
	}

	token := letter.Encode(rec)
	base := strings.TrimSuffix(s.cfg.PublicBaseURL, "/")
	s.writeJSON(w, http.StatusCreated, composeResponse{
		Token:    token,
		URL:      letter.ShareURL(base+SharePath, token),
		ImageURL: base + "/api/blind/og/" + token,
	})
}

type letterResponse struct {
	letter.Record
	Header string   `json:"header"`
	Masked string   `json:"masked"`
	Lines  []string `json:"lines"`
}

// letter returns the decoded letter for the reveal page, or 404 when the
// token does not decode to a message.
func (s *Server) letter(w http.ResponseWriter, r *http.Request) {
	rec, err := letter.Decode(r.URL.Query().Get(letter.QueryParam))
	if err != nil || rec.Message == "" {
		s.writeJSON(w, http.StatusNotFound, errorBody("message not found"))
		return
	}

	c, err := s.runner.Layout(rec, card.VariantInteractive)
	if err != nil {
		s.renderError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusOK, letterResponse{
		Record: rec,
		Header: c.Header,
		Masked: c.Masked,
		Lines:  c.Lines,
	})
}
