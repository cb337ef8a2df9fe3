// Package http serves beam tracing over a JSON API.
package http

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"sort"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/golang/geo/r3"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/jonwright/grewgg"
	"github.com/jonwright/grewgg/pkg/detector"
	"github.com/jonwright/grewgg/pkg/geom"
	"github.com/jonwright/grewgg/pkg/positioner"
	"github.com/jonwright/grewgg/pkg/schema"
)

// Engine is the model surface the server exposes.
type Engine interface {
	Trace(ctx context.Context, detectorName string, motors positioner.Values, origin, dir r3.Vector) (*detector.Hit, error)
	Stacks(ctx context.Context) (map[string]*positioner.Stack, error)
}

// Server carries the engine and logger through the handlers.
type Server struct {
	Engine Engine
	Logger *slog.Logger
}

// NewHandler creates the HTTP handler for the engine.
func NewHandler(engine Engine, logger *slog.Logger) http.Handler {
	server := &Server{Engine: engine, Logger: logger}
	r := chi.NewRouter()

	r.Get("/healthz", server.GetHealth)
	r.Get("/metrics", promhttp.Handler().ServeHTTP)
	r.Get("/v1/info", server.GetInfo)
	r.Get("/v1/stacks", server.GetStacks)
	r.Post("/v1/trace", server.Trace)

	return enableCORS(r)
}

func enableCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusOK)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// TraceRequest asks where a beam lands on a detector for one motor setting.
type TraceRequest struct {
	Detector string             `json:"detector"`
	Motors   map[string]float64 `json:"motors,omitempty"`
	Origin   [3]float64         `json:"origin"`
	Dir      [3]float64         `json:"dir"`
}

// TraceResponse reports the intersection. A miss (beam parallel to the
// detector plane) is a valid outcome, not an error.
type TraceResponse struct {
	Miss  bool            `json:"miss"`
	Pixel *detector.Pixel `json:"pixel,omitempty"`
	Lab   []float64       `json:"lab,omitempty"`
	S     float64         `json:"s,omitempty"`
}

// StackSummary describes one configured positioner stack.
type StackSummary struct {
	Path   string        `json:"path"`
	Motors []string      `json:"motors"`
	Axes   []AxisSummary `json:"axes"`
}

// AxisSummary is one axis of a stack, outermost first.
type AxisSummary struct {
	Name    string    `json:"name"`
	Kind    string    `json:"kind"`
	Axis    []float64 `json:"axis,omitempty"`
	Default *float64  `json:"default,omitempty"`
}

// ErrorResponse carries the failure kind alongside the message so clients
// can branch without parsing text.
type ErrorResponse struct {
	Kind  string `json:"kind"`
	Error string `json:"error"`
}

// Trace handles the POST /v1/trace request.
func (s *Server) Trace(w http.ResponseWriter, r *http.Request) {
	var body TraceRequest
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		s.writeError(w, http.StatusBadRequest, "bad_request", err)
		return
	}
	if body.Detector == "" {
		s.writeError(w, http.StatusBadRequest, "bad_request", errors.New("detector name is required"))
		return
	}

	origin := r3.Vector{X: body.Origin[0], Y: body.Origin[1], Z: body.Origin[2]}
	dir := r3.Vector{X: body.Dir[0], Y: body.Dir[1], Z: body.Dir[2]}

	hit, err := s.Engine.Trace(r.Context(), body.Detector, body.Motors, origin, dir)
	if err != nil {
		if errors.Is(err, detector.ErrNoIntersection) {
			s.writeJSON(w, http.StatusOK, TraceResponse{Miss: true})
			return
		}
		status, kind := errorStatus(err)
		s.writeError(w, status, kind, err)
		return
	}

	s.writeJSON(w, http.StatusOK, TraceResponse{
		Pixel: &hit.Pixel,
		Lab:   []float64{hit.Lab.X, hit.Lab.Y, hit.Lab.Z},
		S:     hit.S,
	})
}

// GetStacks handles the GET /v1/stacks request.
func (s *Server) GetStacks(w http.ResponseWriter, r *http.Request) {
	stacks, err := s.Engine.Stacks(r.Context())
	if err != nil {
		status, kind := errorStatus(err)
		s.writeError(w, status, kind, err)
		return
	}

	resp := make([]StackSummary, 0, len(stacks))
	for path, stack := range stacks {
		resp = append(resp, summarize(path, stack))
	}
	sort.Slice(resp, func(i, j int) bool { return resp[i].Path < resp[j].Path })

	s.writeJSON(w, http.StatusOK, resp)
}

// GetHealth handles the GET /healthz request.
func (s *Server) GetHealth(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// GetInfo handles the GET /v1/info request.
func (s *Server) GetInfo(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]string{
		"app":     "grewgg-http",
		"version": strings.TrimSpace(grewgg.Version),
	})
}

// -- Helpers --

func summarize(path string, stack *positioner.Stack) StackSummary {
	sum := StackSummary{
		Path:   path,
		Motors: stack.Motors(),
		Axes:   make([]AxisSummary, 0, len(stack.Axes)),
	}
	for _, ax := range stack.Axes {
		a := AxisSummary{Name: ax.Name, Kind: string(ax.Kind), Default: ax.Default}
		if ax.Kind != positioner.Fixed {
			a.Axis = []float64{ax.Direction.X, ax.Direction.Y, ax.Direction.Z}
		}
		sum.Axes = append(sum.Axes, a)
	}
	return sum
}

// errorStatus maps a model failure to a status code and a stable kind tag.
func errorStatus(err error) (int, string) {
	var vErr *schema.ValidationError
	var aggErr *schema.AggregateError
	switch {
	case errors.Is(err, schema.ErrUnknownDetector):
		return http.StatusNotFound, "unknown_detector"
	case errors.Is(err, schema.ErrUnknownInstrument):
		return http.StatusNotFound, "unknown_instrument"
	case errors.Is(err, positioner.ErrMissingMotorValue):
		return http.StatusBadRequest, "missing_motor_value"
	case errors.Is(err, positioner.ErrScaleDirection),
		errors.Is(err, positioner.ErrUnknownKind),
		errors.As(err, &vErr),
		errors.As(err, &aggErr):
		return http.StatusBadRequest, "invalid_configuration"
	case errors.Is(err, geom.ErrDegenerateAxis):
		return http.StatusUnprocessableEntity, "degenerate_axis"
	case errors.Is(err, geom.ErrSingular):
		return http.StatusUnprocessableEntity, "singular_transform"
	}
	return http.StatusInternalServerError, "internal"
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.Logger.Error("response encode failed", "err", err)
	}
}

func (s *Server) writeError(w http.ResponseWriter, status int, kind string, err error) {
	if status >= http.StatusInternalServerError {
		s.Logger.Error("request failed", "kind", kind, "err", err)
	} else {
		s.Logger.Warn("request rejected", "kind", kind, "err", err)
	}
	s.writeJSON(w, status, ErrorResponse{Kind: kind, Error: err.Error()})
}
