package api

import (
	"encoding/json"
	stderrors "errors"
	"net/http"
	"strconv"

	"github.com/matzehuels/lineage/pkg/buildinfo"
	"github.com/matzehuels/lineage/pkg/errors"
	"github.com/matzehuels/lineage/pkg/family"
	"github.com/matzehuels/lineage/pkg/graph"
	"github.com/matzehuels/lineage/pkg/highlight"
	"github.com/matzehuels/lineage/pkg/layout"
	"github.com/matzehuels/lineage/pkg/pipeline"
	"github.com/matzehuels/lineage/pkg/source/local"
)

// =============================================================================
// Request and Response Types
// =============================================================================

// LayoutRequest is the body of POST /v1/layout.
type LayoutRequest struct {
	Persons []family.Person `json:"persons"`
	// Options holds layout options with the front end's camelCase keys.
	Options map[string]any `json:"options,omitempty"`
	Chunked bool           `json:"chunked,omitempty"`
	Refresh bool           `json:"refresh,omitempty"`
}

// LayoutResponse is the body returned by POST /v1/layout.
type LayoutResponse struct {
	// Persons are the request persons with x and y written back.
	Persons []family.Person `json:"persons"`
	Layout  graph.Layout    `json:"layout"`
	Cached  bool            `json:"cached"`
}

// HighlightRequest is the body of POST /v1/highlight.
type HighlightRequest struct {
	LayoutRequest
	Root string `json:"root"`
}

// HighlightResponse is the body returned by POST /v1/highlight.
type HighlightResponse struct {
	Bloodline highlight.Bloodline `json:"bloodline"`
	Layout    graph.Layout        `json:"layout"`
}

// RenderRequest is the body of POST /v1/render.
type RenderRequest struct {
	LayoutRequest
	Highlight string  `json:"highlight,omitempty"`
	Format    string  `json:"format"`
	Detailed  bool    `json:"detailed,omitempty"`
	Scale     float64 `json:"scale,omitempty"`
}

// HealthResponse is the body returned by GET /healthz.
type HealthResponse struct {
	Status string `json:"status"`
	buildinfo.Info
}

var contentTypes = map[string]string{
	pipeline.FormatJSON: "application/json",
	pipeline.FormatDOT:  "text/vnd.graphviz",
	pipeline.FormatSVG:  "image/svg+xml",
	pipeline.FormatPNG:  "image/png",
	pipeline.FormatPDF:  "application/pdf",
}

// =============================================================================
// Handlers
// =============================================================================

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	s.respondJSON(w, http.StatusOK, HealthResponse{Status: "ok", Info: buildinfo.Get()})
}

func (s *Server) handleLayout(w http.ResponseWriter, r *http.Request) {
	var req LayoutRequest
	if err := s.decode(w, r, &req); err != nil {
		s.respondError(w, err)
		return
	}
	opts, err := s.options(req)
	if err != nil {
		s.respondError(w, err)
		return
	}

	res, cached, err := s.runner.LayoutWithCacheInfo(r.Context(), req.Persons, opts)
	if err != nil {
		s.respondError(w, err)
		return
	}

	persons := append([]family.Person(nil), req.Persons...)
	res.Apply(persons)
	s.respondJSON(w, http.StatusOK, LayoutResponse{
		Persons: persons,
		Layout:  graph.FromResult(highlight.NewMemoryCanvas(req.Persons), res),
		Cached:  cached,
	})
}

func (s *Server) handleHighlight(w http.ResponseWriter, r *http.Request) {
	var req HighlightRequest
	if err := s.decode(w, r, &req); err != nil {
		s.respondError(w, err)
		return
	}
	if err := errors.ValidatePersonID(req.Root); err != nil {
		s.respondError(w, err)
		return
	}
	opts, err := s.options(req.LayoutRequest)
	if err != nil {
		s.respondError(w, err)
		return
	}

	res, err := s.runner.Layout(r.Context(), req.Persons, opts)
	if err != nil {
		s.respondError(w, err)
		return
	}
	l, bl, err := pipeline.Highlight(r.Context(), req.Persons, res, req.Root, opts)
	if err != nil {
		s.respondError(w, err)
		return
	}
	s.respondJSON(w, http.StatusOK, HighlightResponse{Bloodline: *bl, Layout: l})
}

func (s *Server) handleRender(w http.ResponseWriter, r *http.Request) {
	var req RenderRequest
	if err := s.decode(w, r, &req); err != nil {
		s.respondError(w, err)
		return
	}
	if req.Format == "" {
		req.Format = pipeline.FormatSVG
	}
	opts, err := s.options(req.LayoutRequest)
	if err != nil {
		s.respondError(w, err)
		return
	}
	opts.Highlight = req.Highlight
	opts.Formats = []string{req.Format}
	opts.Detailed = req.Detailed
	opts.Scale = req.Scale

	result, err := s.runner.Execute(r.Context(), req.Persons, opts)
	if err != nil {
		s.respondError(w, err)
		return
	}

	data := result.Artifacts[req.Format]
	w.Header().Set("Content-Type", contentTypes[req.Format])
	w.Header().Set("Content-Length", strconv.Itoa(len(data)))
	w.Header().Set("X-Layout-Cached", strconv.FormatBool(result.CacheInfo.LayoutHit))
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(data); err != nil {
		s.logger.Warn("write response", "error", err)
	}
}

// =============================================================================
// Helpers
// =============================================================================

// decode reads a JSON body of at most MaxBodyBytes into v and validates the
// persons it carries.
func (s *Server) decode(w http.ResponseWriter, r *http.Request, v any) error {
	r.Body = http.MaxBytesReader(w, r.Body, s.cfg.MaxBodyBytes)
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		var tooLarge *http.MaxBytesError
		if stderrors.As(err, &tooLarge) {
			return errors.Wrap(errors.ErrCodeInvalidInput, err, "request body exceeds %d bytes", s.cfg.MaxBodyBytes)
		}
		return errors.Wrap(errors.ErrCodeInvalidInput, err, "invalid request body")
	}

	var persons []family.Person
	switch req := v.(type) {
	case *LayoutRequest:
		persons = req.Persons
	case *HighlightRequest:
		persons = req.Persons
	case *RenderRequest:
		persons = req.Persons
	}
	return local.Validate(persons)
}

// options builds pipeline options from a request.
func (s *Server) options(req LayoutRequest) (pipeline.Options, error) {
	lo, err := layout.DecodeOptions(req.Options)
	if err != nil {
		return pipeline.Options{}, errors.Wrap(errors.ErrCodeInvalidOptions, err, "invalid layout options")
	}
	return pipeline.Options{
		Layout:  lo,
		Chunked: req.Chunked,
		Refresh: req.Refresh,
		Logger:  s.logger,
	}, nil
}
