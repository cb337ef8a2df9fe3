package yamlfile

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/jonwright/grewgg/pkg/scan"
)

// Project is a YAML envelope tying a beamline description to calibration
// parameters and planned scans. Paths are stored as written; callers resolve
// relative ones against the project file's directory.
type Project struct {
	Instrument string             `yaml:"instrument,omitempty"`
	Parameters map[string]float64 `yaml:"parameters,omitempty"`
	Scans      []scan.Series      `yaml:"scans,omitempty"`
}

// LoadProject reads a project file.
func LoadProject(path string) (*Project, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read project file: %w", err)
	}

	var p Project
	if err := yaml.Unmarshal(data, &p); err != nil {
		return nil, fmt.Errorf("failed to parse project file: %w", err)
	}

	return &p, nil
}

// Save writes the project back out as YAML.
func (p *Project) Save(path string) error {
	data, err := yaml.Marshal(p)
	if err != nil {
		return fmt.Errorf("failed to marshal project: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write project file: %w", err)
	}

	return nil
}

// String renders the project as YAML.
func (p *Project) String() string {
	data, err := yaml.Marshal(p)
	if err != nil {
		return fmt.Sprintf("project: %v", err)
	}
	return string(data)
}
