package grewgg

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"path/filepath"
	"strings"

	"github.com/golang/geo/r3"

	"github.com/jonwright/grewgg/internal/adapters/yamlfile"
	"github.com/jonwright/grewgg/internal/runtime"
	"github.com/jonwright/grewgg/pkg/detector"
	"github.com/jonwright/grewgg/pkg/geom"
	"github.com/jonwright/grewgg/pkg/ports"
	"github.com/jonwright/grewgg/pkg/positioner"
	"github.com/jonwright/grewgg/pkg/scan"
	"github.com/jonwright/grewgg/pkg/schema"
)

// Version is the release version, overridden at build time via ldflags.
var Version = "0.1.0"

// Values holds motor values keyed by axis name. Alias of positioner.Values
// so callers of the facade do not need the extra import.
type Values = positioner.Values

// Model is the high-level entry point for the grewgg library.
// It binds a parsed beamline description to the geometry core and provides
// the lookup, tracing and sweep API consumers use.
type Model struct {
	source   ports.Source
	beamline *schema.Beamline
	store    ports.ResultStore
	logger   *slog.Logger
	params   positioner.Values
	workers  int
	Name     string
}

// Option defines a functional option for configuring the Model.
type Option func(*Model)

// WithSource injects a custom beamline Source, bypassing the default YAML
// file loading.
func WithSource(src ports.Source) Option {
	return func(m *Model) {
		m.source = src
	}
}

// WithBeamline injects an already-parsed beamline description. Useful for
// tests and embedded scenarios that build the document in code.
func WithBeamline(b *schema.Beamline) Option {
	return func(m *Model) {
		m.beamline = b
	}
}

// WithLogger sets a custom structured logger for the model.
func WithLogger(logger *slog.Logger) Option {
	return func(m *Model) {
		m.logger = logger
	}
}

// WithResultStore sets the store sweeps record their frames to.
func WithResultStore(store ports.ResultStore) Option {
	return func(m *Model) {
		m.store = store
	}
}

// WithParameters supplies calibration parameters, for example from a fable
// .par file. They resolve mat4 symbols in the document and act as motor
// values layered under every operation's runtime values. May be given more
// than once; later values win per parameter.
func WithParameters(params map[string]float64) Option {
	return func(m *Model) {
		if m.params == nil {
			m.params = make(positioner.Values, len(params))
		}
		for k, v := range params {
			m.params[k] = v
		}
	}
}

// WithWorkers bounds the sweep worker pool.
func WithWorkers(n int) Option {
	return func(m *Model) {
		m.workers = n
	}
}

// New initializes a Model from a beamline document.
// By default it reads the YAML file at configPath; WithSource or
// WithBeamline replace that, in which case configPath may be empty.
// The document is validated eagerly so a bad configuration fails here, not
// halfway through a scan.
func New(configPath string, opts ...Option) (*Model, error) {
	m := &Model{}

	for _, opt := range opts {
		opt(m)
	}

	if m.beamline == nil && m.source == nil {
		if configPath == "" {
			return nil, fmt.Errorf("configPath is required when no source or beamline is provided")
		}
		m.source = yamlfile.New(configPath)
	}
	if configPath != "" {
		base := filepath.Base(configPath)
		m.Name = strings.TrimSuffix(base, filepath.Ext(base))
	}

	if m.beamline == nil {
		b, err := m.source.Beamline(context.Background())
		if err != nil {
			return nil, err
		}
		m.beamline = b
	}

	if len(m.params) > 0 {
		merged := make(map[string]float64, len(m.beamline.Parameters)+len(m.params))
		for k, v := range m.beamline.Parameters {
			merged[k] = v
		}
		for k, v := range m.params {
			merged[k] = v
		}
		m.beamline.Parameters = merged
	}

	if m.logger == nil {
		m.logger = slog.New(slog.NewJSONHandler(io.Discard, nil))
	}
	if m.Name != "" {
		m.logger = m.logger.With("beamline", m.Name)
	}

	if err := m.beamline.Validate(); err != nil {
		return nil, err
	}

	return m, nil
}

// NewFromProject loads a project envelope: the model is built from the
// instrument document it names (resolved relative to the project file) with
// the project's parameters applied, and the planned scan series are
// returned alongside.
func NewFromProject(path string, opts ...Option) (*Model, []scan.Series, error) {
	p, err := yamlfile.LoadProject(path)
	if err != nil {
		return nil, nil, err
	}
	if p.Instrument == "" {
		return nil, nil, fmt.Errorf("project %s: instrument file is required", path)
	}

	inst := p.Instrument
	if !filepath.IsAbs(inst) {
		inst = filepath.Join(filepath.Dir(path), inst)
	}

	if len(p.Parameters) > 0 {
		opts = append([]Option{WithParameters(p.Parameters)}, opts...)
	}
	m, err := New(inst, opts...)
	if err != nil {
		return nil, nil, err
	}
	return m, p.Scans, nil
}

// Beamline returns the parsed description the model was built from.
func (m *Model) Beamline() *schema.Beamline {
	return m.beamline
}

// Results returns the configured result store, nil when sweeps are not
// persisted.
func (m *Model) Results() ports.ResultStore {
	return m.store
}

// Validate rebuilds every instrument and detector in the document and
// aggregates all failures.
func (m *Model) Validate() error {
	return m.beamline.Validate()
}

// Stack builds the named positioner stack. Both full slash-joined paths and
// unambiguous terminal names resolve.
func (m *Model) Stack(name string) (*positioner.Stack, error) {
	return m.beamline.Stack(name)
}

// Stacks builds every configured stack, keyed by document path.
func (m *Model) Stacks(ctx context.Context) (map[string]*positioner.Stack, error) {
	out := make(map[string]*positioner.Stack, len(m.beamline.Instruments))
	for path := range m.beamline.Instruments {
		s, err := m.beamline.Stack(path)
		if err != nil {
			return nil, err
		}
		out[path] = s
	}
	return out, nil
}

// Detector builds the named detector.
func (m *Model) Detector(name string) (*detector.Detector, error) {
	return m.beamline.Detector(name)
}

// Transform composes the named stack at the given motor values. Calibration
// parameters fill in for motors the values do not name; configured defaults
// cover the rest.
func (m *Model) Transform(stackName string, motors positioner.Values) (geom.Transform, error) {
	s, err := m.Stack(stackName)
	if err != nil {
		return geom.Transform{}, err
	}
	return s.Compose(m.values(motors))
}

// PixelToLab maps a detector pixel to its lab-frame position.
func (m *Model) PixelToLab(detectorName string, motors positioner.Values, px detector.Pixel) (r3.Vector, error) {
	d, err := m.Detector(detectorName)
	if err != nil {
		return r3.Vector{}, err
	}
	return d.PixelToLab(m.values(motors), px)
}

// Trace intersects the ray origin + s*dir with the named detector's plane.
func (m *Model) Trace(ctx context.Context, detectorName string, motors positioner.Values, origin, dir r3.Vector) (*detector.Hit, error) {
	d, err := m.Detector(detectorName)
	if err != nil {
		return nil, err
	}
	return d.Intersect(m.values(motors), origin, dir)
}

// SweepRequest describes a sweep run through the model: the same ray traced
// against a detector while one motor steps through a series.
type SweepRequest struct {
	// ScanID keys stored results; empty means generate one.
	ScanID   string
	Detector string
	Series   scan.Series
	// Motors holds values for axes that stay fixed during the sweep.
	Motors positioner.Values
	Origin r3.Vector
	Dir    r3.Vector
}

// Sweep evaluates the series frame by frame, in parallel, recording results
// to the configured store.
func (m *Model) Sweep(ctx context.Context, req SweepRequest) (*scan.Summary, error) {
	eng := runtime.New(m,
		runtime.WithStore(m.store),
		runtime.WithLogger(m.logger),
		runtime.WithWorkers(m.workers),
	)
	return eng.Sweep(ctx, runtime.Request{
		ScanID:   req.ScanID,
		Detector: req.Detector,
		Series:   req.Series,
		Base:     req.Motors,
		Origin:   req.Origin,
		Dir:      req.Dir,
	})
}

// values layers caller motor values over the parameter table, so a
// calibration parameter sharing an axis name acts as that motor's value
// unless the caller names it explicitly.
func (m *Model) values(motors positioner.Values) positioner.Values {
	params := m.beamline.Parameters
	if len(params) == 0 {
		return motors
	}
	out := make(positioner.Values, len(params)+len(motors))
	for k, v := range params {
		out[k] = v
	}
	for k, v := range motors {
		out[k] = v
	}
	return out
}
