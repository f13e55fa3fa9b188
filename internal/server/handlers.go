package server

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/matzehuels/depgraph/pkg/buildinfo"
	"github.com/matzehuels/depgraph/pkg/dag"
	"github.com/matzehuels/depgraph/pkg/dag/transform"
	deperrors "github.com/matzehuels/depgraph/pkg/errors"
	"github.com/matzehuels/depgraph/pkg/pipeline"
)

// =============================================================================
// Responses
// =============================================================================

type errorResponse struct {
	Error     string `json:"error"`
	Message   string `json:"message"`
	RequestID string `json:"request_id,omitempty"`
}

type healthResponse struct {
	Status     string    `json:"status"`
	Components int       `json:"components"`
	Edges      int       `json:"edges"`
	LoadedAt   time.Time `json:"loaded_at"`
}

type componentsResponse struct {
	Query      string   `json:"query,omitempty"`
	Matches    []string `json:"matches,omitempty"`
	Components []string `json:"components"`
}

type redundantResponse struct {
	Query string `json:"query,omitempty"`
	transform.Report
}

var contentTypes = map[string]string{
	pipeline.FormatDOT:  "text/vnd.graphviz; charset=utf-8",
	pipeline.FormatRaw:  "text/plain; charset=utf-8",
	pipeline.FormatJSON: "application/json",
	pipeline.FormatSVG:  "image/svg+xml",
	pipeline.FormatPNG:  "image/png",
	pipeline.FormatPDF:  "application/pdf",
}

// =============================================================================
// Handlers
// =============================================================================

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	g := s.Graph()
	resp := healthResponse{
		Status:     "ok",
		Components: g.ComponentCount(),
		Edges:      g.EdgeCount(),
	}
	if t := s.loaded.Load(); t != nil {
		resp.LoadedAt = *t
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleVersion(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, buildinfo.Get())
}

func (s *Server) handleComponents(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query().Get("match")
	sub, names, err := s.cfg.Runner.Select(r.Context(), s.Graph(), query)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, componentsResponse{
		Query:      query,
		Matches:    names,
		Components: componentNames(sub),
	})
}

func (s *Server) handleGraph(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	opts := pipeline.Options{
		Match:  q.Get("match"),
		Format: q.Get("format"),
		Layout: q.Get("layout"),
	}
	if err := opts.ValidateAndSetDefaults(); err != nil {
		s.writeError(w, r, err)
		return
	}
	res, err := s.render(r.Context(), opts)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	w.Header().Set("Content-Type", contentTypes[opts.Format])
	if res.CacheHit {
		w.Header().Set("X-Cache", "HIT")
	}
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(res.Output)
}

// render executes opts against the current graph. Concurrent requests for
// the same image share one render; the first caller's cancellation does
// not abort it for the others.
func (s *Server) render(ctx context.Context, opts pipeline.Options) (*pipeline.Result, error) {
	g := s.Graph()
	if !pipeline.IsImage(opts.Format) {
		return s.cfg.Runner.ExecuteGraph(ctx, g, opts)
	}
	key := fmt.Sprintf("%p|%s|%s|%s|%g", g, opts.Match, opts.Format, opts.Layout, opts.Scale)
	v, err, shared := s.renders.Do(key, func() (any, error) {
		return s.cfg.Runner.ExecuteGraph(context.WithoutCancel(ctx), g, opts)
	})
	if err != nil {
		return nil, err
	}
	if shared {
		s.logger.Debug("shared render", "format", opts.Format, "match", opts.Match)
	}
	return v.(*pipeline.Result), nil
}

func (s *Server) handleRedundant(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query().Get("match")
	sub, _, err := s.cfg.Runner.Select(r.Context(), s.Graph(), query)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	report, err := s.cfg.Runner.Check(r.Context(), sub)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, redundantResponse{Query: query, Report: report})
}

// =============================================================================
// Helpers
// =============================================================================

func componentNames(g *dag.Graph) []string {
	comps := g.All()
	names := make([]string, 0, len(comps))
	for _, c := range comps {
		names = append(names, c.Name)
	}
	return names
}

// statusFor maps an error code to an HTTP status.
func statusFor(err error) int {
	switch deperrors.GetCode(err) {
	case deperrors.ErrCodeUnknownComponent:
		return http.StatusNotFound
	case deperrors.ErrCodeInvalidInput, deperrors.ErrCodeInvalidFormat:
		return http.StatusBadRequest
	case deperrors.ErrCodeDependencyCycle:
		return http.StatusUnprocessableEntity
	case deperrors.ErrCodeUnsupported:
		return http.StatusNotImplemented
	}
	return http.StatusInternalServerError
}

func (s *Server) writeError(w http.ResponseWriter, r *http.Request, err error) {
	status := statusFor(err)
	code := string(deperrors.GetCode(err))
	if code == "" {
		code = string(deperrors.ErrCodeInternal)
	}
	if status == http.StatusInternalServerError {
		s.logger.Error("request failed", "path", r.URL.Path, "error", err)
	}
	writeJSON(w, status, errorResponse{
		Error:     code,
		Message:   deperrors.UserMessage(err),
		RequestID: RequestIDFromContext(r.Context()),
	})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
