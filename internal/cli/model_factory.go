package cli

import (
	"fmt"
	"log/slog"

	"github.com/jonwright/grewgg"
	"github.com/jonwright/grewgg/internal/adapters/yamlfile"
	"github.com/jonwright/grewgg/internal/logging"
	"github.com/jonwright/grewgg/pkg/scan"
)

// Options contains the shared configuration every command starts from.
type Options struct {
	// ConfigPath locates the beamline YAML document.
	ConfigPath string
	// ProjectPath locates a project envelope instead of a bare document.
	ProjectPath string
	// ParFile layers an ImageD11 .par calibration over the document.
	ParFile string
	// LogLevel enables stderr logging; empty means quiet.
	LogLevel string
	Workers  int
}

// NewModel initializes a model with standard CLI conventions: the logger
// derives from the log level and .par calibrations are layered in when
// given.
func NewModel(opts Options, extra ...grewgg.Option) (*grewgg.Model, *slog.Logger, error) {
	logger, err := createLogger(opts.LogLevel)
	if err != nil {
		return nil, nil, err
	}

	modelOpts, err := buildOptions(opts, logger, extra)
	if err != nil {
		return nil, nil, err
	}

	model, err := grewgg.New(opts.ConfigPath, modelOpts...)
	if err != nil {
		return nil, nil, fmt.Errorf("error initializing model: %w", err)
	}
	return model, logger, nil
}

// NewProjectModel initializes a model from a project envelope and returns
// the scans it plans. A .par file given alongside wins over the project's
// parameters.
func NewProjectModel(opts Options, extra ...grewgg.Option) (*grewgg.Model, []scan.Series, *slog.Logger, error) {
	logger, err := createLogger(opts.LogLevel)
	if err != nil {
		return nil, nil, nil, err
	}

	modelOpts, err := buildOptions(opts, logger, extra)
	if err != nil {
		return nil, nil, nil, err
	}

	model, scans, err := grewgg.NewFromProject(opts.ProjectPath, modelOpts...)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("error initializing project: %w", err)
	}
	return model, scans, logger, nil
}

func buildOptions(opts Options, logger *slog.Logger, extra []grewgg.Option) ([]grewgg.Option, error) {
	modelOpts := []grewgg.Option{grewgg.WithLogger(logger)}

	if opts.ParFile != "" {
		pars, err := yamlfile.LoadPar(opts.ParFile)
		if err != nil {
			return nil, fmt.Errorf("error loading par file: %w", err)
		}
		modelOpts = append(modelOpts, grewgg.WithParameters(pars))
	}
	if opts.Workers > 0 {
		modelOpts = append(modelOpts, grewgg.WithWorkers(opts.Workers))
	}

	return append(modelOpts, extra...), nil
}

// createLogger configures the application logger. Logs go to Stderr so
// result output on Stdout stays clean; an empty level disables them.
func createLogger(level string) (*slog.Logger, error) {
	if level == "" {
		return logging.NewNop(), nil
	}
	lvl, err := logging.ParseLevel(level)
	if err != nil {
		return nil, err
	}
	return logging.New(lvl), nil
}
