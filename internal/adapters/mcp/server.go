// Package mcp exposes the beamline model over the Model Context Protocol.
package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"sort"
	"strings"
	"time"

	"github.com/golang/geo/r3"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/jonwright/grewgg"
	"github.com/jonwright/grewgg/pkg/detector"
	"github.com/jonwright/grewgg/pkg/positioner"
)

// TraceResult reports where a beam meets a detector. It mirrors the HTTP
// trace response so agents and clients see one shape.
type TraceResult struct {
	Miss  bool      `json:"miss" jsonschema_description:"True when the beam runs parallel to the detector plane"`
	Fast  float64   `json:"fast,omitempty" jsonschema_description:"Pixel coordinate along the fast axis"`
	Slow  float64   `json:"slow,omitempty" jsonschema_description:"Pixel coordinate along the slow axis"`
	Lab   []float64 `json:"lab,omitempty" jsonschema_description:"Intersection point in lab coordinates"`
	S     float64   `json:"s,omitempty" jsonschema_description:"Signed distance from the origin along the beam"`
	Error string    `json:"error,omitempty"`
}

// LabResult is the lab-frame position of one detector pixel.
type LabResult struct {
	Lab []float64 `json:"lab" jsonschema_description:"Pixel position in lab coordinates"`
}

// Engine is the model surface the MCP server exposes as tools.
type Engine interface {
	Trace(ctx context.Context, detectorName string, motors positioner.Values, origin, dir r3.Vector) (*detector.Hit, error)
	PixelToLab(detectorName string, motors positioner.Values, px detector.Pixel) (r3.Vector, error)
	Stacks(ctx context.Context) (map[string]*positioner.Stack, error)
}

// Server wraps the beamline model and exposes it as an MCP Server.
type Server struct {
	engine    Engine
	mcpServer *server.MCPServer
}

// NewServer creates a new MCP Server instance.
func NewServer(engine Engine) *Server {
	s := &Server{
		engine:    engine,
		mcpServer: server.NewMCPServer("grewgg-mcp", strings.TrimSpace(grewgg.Version)),
	}
	s.registerTools()
	s.registerResources()
	return s
}

// ServeStdio starts the server on Stdin/Stdout.
func (s *Server) ServeStdio() error {
	return server.ServeStdio(s.mcpServer)
}

// ServeSSE starts the server on the given port using SSE.
func (s *Server) ServeSSE(ctx context.Context, port int) error {
	addr := fmt.Sprintf(":%d", port)
	baseURL := fmt.Sprintf("http://localhost:%d", port)

	sseServer := server.NewSSEServer(s.mcpServer, server.WithBaseURL(baseURL))

	mux := http.NewServeMux()
	mux.Handle("/sse", corsMiddleware(sseServer.SSEHandler()))
	mux.Handle("/message", corsMiddleware(sseServer.MessageHandler()))

	httpServer := &http.Server{
		Addr:    addr,
		Handler: mux,
	}

	// Channel to listen for errors coming from the listener.
	serverErrors := make(chan error, 1)

	go func() {
		slog.Info("MCP Server listening (SSE)", "address", addr)
		serverErrors <- httpServer.ListenAndServe()
	}()

	select {
	case err := <-serverErrors:
		return err
	case <-ctx.Done():
		// Create a timeout context for the graceful shutdown
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		fmt.Println("\nShutdown signal received, shutting down server...")
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("could not stop server gracefully: %w", err)
		}
		return nil
	}
}

func corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization, X-Requested-With")

		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}

func (s *Server) registerTools() {
	// TOOL: trace_beam
	traceTool := mcp.NewTool("trace_beam",
		mcp.WithDescription("Trace a beam from an origin along a direction and report where it meets a detector. A miss (beam parallel to the detector plane) is a valid outcome."),
		mcp.WithString("detector", mcp.Required(), mcp.Description("Detector name")),
		mcp.WithString("motors", mcp.Description("JSON object of motor positions, e.g. {\"omega\": 90} (optional)")),
		mcp.WithString("origin", mcp.Description("JSON array [x,y,z] for the beam origin (default [0,0,0])")),
		mcp.WithString("dir", mcp.Description("JSON array [x,y,z] for the beam direction (default [1,0,0])")),
		mcp.WithOutputSchema[TraceResult](),
	)
	s.mcpServer.AddTool(traceTool, mcp.NewStructuredToolHandler(s.handleTrace))

	// TOOL: pixel_to_lab
	pixelTool := mcp.NewTool("pixel_to_lab",
		mcp.WithDescription("Map a detector pixel (fast, slow) to its position in lab coordinates."),
		mcp.WithString("detector", mcp.Required(), mcp.Description("Detector name")),
		mcp.WithNumber("fast", mcp.Required(), mcp.Description("Pixel coordinate along the fast axis")),
		mcp.WithNumber("slow", mcp.Required(), mcp.Description("Pixel coordinate along the slow axis")),
		mcp.WithString("motors", mcp.Description("JSON object of motor positions (optional)")),
		mcp.WithOutputSchema[LabResult](),
	)
	s.mcpServer.AddTool(pixelTool, mcp.NewStructuredToolHandler(s.handlePixelToLab))

	// TOOL: list_stacks
	s.mcpServer.AddTool(mcp.NewTool("list_stacks",
		mcp.WithDescription("List the configured positioner stacks with their motors and axes."),
	), func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		stacks, err := s.engine.Stacks(ctx)
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("stacks failed: %v", err)), nil
		}
		jsonBytes, _ := json.Marshal(summarizeStacks(stacks))
		return mcp.NewToolResultText(string(jsonBytes)), nil
	})
}

// Handler methods for structured tools

func (s *Server) handleTrace(ctx context.Context, request mcp.CallToolRequest, args map[string]interface{}) (TraceResult, error) {
	detectorName, _ := args["detector"].(string)

	motors, err := parseMotors(args)
	if err != nil {
		return TraceResult{}, err
	}
	origin, err := parseVec3(args, "origin", r3.Vector{})
	if err != nil {
		return TraceResult{}, err
	}
	dir, err := parseVec3(args, "dir", r3.Vector{X: 1})
	if err != nil {
		return TraceResult{}, err
	}

	hit, err := s.engine.Trace(ctx, detectorName, motors, origin, dir)
	if err != nil {
		if errors.Is(err, detector.ErrNoIntersection) {
			return TraceResult{Miss: true}, nil
		}
		return TraceResult{}, fmt.Errorf("trace failed: %w", err)
	}

	return TraceResult{
		Fast: hit.Pixel.Fast,
		Slow: hit.Pixel.Slow,
		Lab:  []float64{hit.Lab.X, hit.Lab.Y, hit.Lab.Z},
		S:    hit.S,
	}, nil
}

func (s *Server) handlePixelToLab(ctx context.Context, request mcp.CallToolRequest, args map[string]interface{}) (LabResult, error) {
	detectorName, _ := args["detector"].(string)
	fast, _ := args["fast"].(float64)
	slow, _ := args["slow"].(float64)

	motors, err := parseMotors(args)
	if err != nil {
		return LabResult{}, err
	}

	lab, err := s.engine.PixelToLab(detectorName, motors, detector.Pixel{Fast: fast, Slow: slow})
	if err != nil {
		return LabResult{}, fmt.Errorf("pixel_to_lab failed: %w", err)
	}

	return LabResult{Lab: []float64{lab.X, lab.Y, lab.Z}}, nil
}

func (s *Server) registerResources() {
	// EXPOSE: grewgg://stacks
	s.mcpServer.AddResource(mcp.NewResource("grewgg://stacks", "Configured Positioner Stacks",
		mcp.WithMIMEType("application/json"),
	), func(ctx context.Context, request mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
		stacks, err := s.engine.Stacks(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to list stacks: %w", err)
		}
		jsonBytes, _ := json.Marshal(summarizeStacks(stacks))

		return []mcp.ResourceContents{
			mcp.TextResourceContents{
				URI:      "grewgg://stacks",
				MIMEType: "application/json",
				Text:     string(jsonBytes),
			},
		}, nil
	})
}

// stackSummary is the wire shape for one stack, outermost axis first.
type stackSummary struct {
	Path   string   `json:"path"`
	Motors []string `json:"motors"`
	Axes   []string `json:"axes"`
}

func summarizeStacks(stacks map[string]*positioner.Stack) []stackSummary {
	out := make([]stackSummary, 0, len(stacks))
	for path, stack := range stacks {
		sum := stackSummary{Path: path, Motors: stack.Motors()}
		for _, ax := range stack.Axes {
			sum.Axes = append(sum.Axes, fmt.Sprintf("%s (%s)", ax.Name, ax.Kind))
		}
		out = append(out, sum)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Path < out[j].Path })
	return out
}

func parseMotors(args map[string]interface{}) (positioner.Values, error) {
	raw, ok := args["motors"].(string)
	if !ok || raw == "" {
		return nil, nil
	}
	var motors positioner.Values
	if err := json.Unmarshal([]byte(raw), &motors); err != nil {
		return nil, fmt.Errorf("invalid motors: %w", err)
	}
	return motors, nil
}

func parseVec3(args map[string]interface{}, key string, fallback r3.Vector) (r3.Vector, error) {
	raw, ok := args[key].(string)
	if !ok || raw == "" {
		return fallback, nil
	}
	var v []float64
	if err := json.Unmarshal([]byte(raw), &v); err != nil {
		return r3.Vector{}, fmt.Errorf("invalid %s: %w", key, err)
	}
	if len(v) != 3 {
		return r3.Vector{}, fmt.Errorf("invalid %s: expected 3 components, got %d", key, len(v))
	}
	return r3.Vector{X: v[0], Y: v[1], Z: v[2]}, nil
}
