// Package yamlfile loads beamline descriptions, fable parameter files and
// project envelopes from the filesystem.
package yamlfile

import (
	"context"
	"fmt"
	"os"

	"github.com/mitchellh/mapstructure"
	"github.com/spf13/cast"
	"gopkg.in/yaml.v3"

	"github.com/jonwright/grewgg/pkg/schema"
)

// Reserved top-level document keys. Everything else is walked for
// instrument definitions.
const (
	keyDetectors  = "Detectors"
	keyParameters = "Parameters"
)

// Source implements ports.Source by reading one beamline YAML document.
type Source struct {
	Path string
}

// New creates a Source for the given file path.
func New(path string) *Source {
	return &Source{Path: path}
}

// Beamline reads and parses the document.
func (s *Source) Beamline(ctx context.Context) (*schema.Beamline, error) {
	data, err := os.ReadFile(s.Path)
	if err != nil {
		return nil, fmt.Errorf("failed to read beamline file: %w", err)
	}
	b, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", s.Path, err)
	}
	return b, nil
}

// Parse decodes a beamline YAML document. Instruments may nest under
// arbitrary mapping keys; each list of axis records is flattened to its
// slash-joined path, so
//
//	Positioners:
//	  Fable_diffractometer:
//	    - name: omega
//	      ...
//
// becomes the instrument "Positioners/Fable_diffractometer". The reserved
// top-level keys Detectors and Parameters hold detector records and the
// symbol table for literal matrices. Scalar leaves elsewhere are ignored.
func Parse(data []byte) (*schema.Beamline, error) {
	var doc map[string]any
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("failed to parse yaml: %w", err)
	}

	b := &schema.Beamline{
		Instruments: map[string][]schema.AxisRecord{},
		Detectors:   map[string]schema.DetectorRecord{},
		Parameters:  map[string]float64{},
	}

	for key, node := range doc {
		switch key {
		case keyDetectors:
			if err := decodeDetectors(node, b); err != nil {
				return nil, err
			}
		case keyParameters:
			if err := decodeParameters(node, b); err != nil {
				return nil, err
			}
		default:
			if err := walkInstruments(key, node, b); err != nil {
				return nil, err
			}
		}
	}

	return b, nil
}

// walkInstruments descends nested mappings, collecting every axis-record
// list under its slash-joined path.
func walkInstruments(path string, node any, b *schema.Beamline) error {
	switch v := node.(type) {
	case []any:
		var recs []schema.AxisRecord
		if err := mapstructure.Decode(v, &recs); err != nil {
			return fmt.Errorf("instrument %q: %w", path, err)
		}
		b.Instruments[path] = recs
	case map[string]any:
		for key, child := range v {
			if err := walkInstruments(path+"/"+key, child, b); err != nil {
				return err
			}
		}
	}
	// Scalars (stray comments, version strings) are skipped.
	return nil
}

func decodeDetectors(node any, b *schema.Beamline) error {
	var recs map[string]schema.DetectorRecord
	if err := mapstructure.Decode(node, &recs); err != nil {
		return fmt.Errorf("detectors: %w", err)
	}
	b.Detectors = recs
	return nil
}

func decodeParameters(node any, b *schema.Beamline) error {
	m, ok := node.(map[string]any)
	if !ok {
		return fmt.Errorf("parameters: expected a mapping, got %T", node)
	}
	for name, raw := range m {
		v, err := cast.ToFloat64E(raw)
		if err != nil {
			return fmt.Errorf("parameter %q: %w", name, err)
		}
		b.Parameters[name] = v
	}
	return nil
}
