package schema

import (
	"errors"
	"testing"

	"github.com/golang/geo/r3"

	"github.com/jonwright/grewgg/pkg/positioner"
)

func floatPtr(v float64) *float64 { return &v }

func TestAxisRecordBuild(t *testing.T) {
	tests := []struct {
		name    string
		rec     AxisRecord
		params  map[string]float64
		wantErr bool
		key     string
	}{
		{
			name: "translation with default",
			rec:  AxisRecord{Name: "samtx", Type: "translation", Axis: []float64{1, 0, 0}, Pos: floatPtr(20)},
		},
		{
			name: "rotation without default",
			rec:  AxisRecord{Name: "omega", Type: "rotation", Axis: []float64{0, 0, 1}},
		},
		{
			name: "scale",
			rec:  AxisRecord{Name: "y_size", Type: "scale", Axis: []float64{0, 1, 0}, Pos: floatPtr(0.048)},
		},
		{
			name:    "missing name",
			rec:     AxisRecord{Type: "rotation", Axis: []float64{0, 0, 1}},
			wantErr: true,
			key:     "k.name",
		},
		{
			name:    "unknown type",
			rec:     AxisRecord{Name: "hex", Type: "hexapod", Axis: []float64{0, 0, 1}},
			wantErr: true,
			key:     "k.type",
		},
		{
			name:    "bad axis arity",
			rec:     AxisRecord{Name: "omega", Type: "rotation", Axis: []float64{0, 1}},
			wantErr: true,
			key:     "k.axis",
		},
		{
			name: "literal matrix with symbols",
			rec: AxisRecord{Name: "Oij", Type: "positioner", Mat4: [][]any{
				{1, 0, 0, 0},
				{0, "o22", "o21", 0},
				{0, "o12", "o11", 0},
				{0, 0, 0, 1},
			}},
			params: map[string]float64{"o11": 1, "o12": 0, "o21": 0, "o22": -1},
		},
		{
			name: "literal matrix numeric string",
			rec: AxisRecord{Name: "m", Type: "positioner", Mat4: [][]any{
				{"1", 0, 0, 0},
				{0, 1, 0, "2.5"},
				{0, 0, 1, 0},
				{0, 0, 0, 1},
			}},
		},
		{
			name: "literal matrix unknown symbol",
			rec: AxisRecord{Name: "m", Type: "positioner", Mat4: [][]any{
				{1, 0, 0, 0},
				{0, "mystery", 0, 0},
				{0, 0, 1, 0},
				{0, 0, 0, 1},
			}},
			wantErr: true,
			key:     "k.mat4[1][1]",
		},
		{
			name:    "literal matrix wrong row count",
			rec:     AxisRecord{Name: "m", Type: "positioner", Mat4: [][]any{{1, 0, 0, 0}}},
			wantErr: true,
			key:     "k.mat4",
		},
		{
			name: "literal matrix bad bottom row",
			rec: AxisRecord{Name: "m", Type: "positioner", Mat4: [][]any{
				{1, 0, 0, 0},
				{0, 1, 0, 0},
				{0, 0, 1, 0},
				{0, 0, 1, 1},
			}},
			wantErr: true,
			key:     "k.mat4",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ax, err := tt.rec.Build("k", tt.params)
			if (err != nil) != tt.wantErr {
				t.Fatalf("Build() error = %v, wantErr %v", err, tt.wantErr)
			}
			if tt.wantErr {
				var ve *ValidationError
				if !errors.As(err, &ve) {
					t.Fatalf("error %v is not a *ValidationError", err)
				}
				if ve.Key != tt.key {
					t.Errorf("Key = %q, want %q", ve.Key, tt.key)
				}
				return
			}
			if ax.Name != tt.rec.Name {
				t.Errorf("Name = %q, want %q", ax.Name, tt.rec.Name)
			}
		})
	}
}

func TestAxisRecordBuildFields(t *testing.T) {
	rec := AxisRecord{Name: "samtx", Type: "translation", Axis: []float64{1, 0, 0}, Pos: floatPtr(20)}
	ax, err := rec.Build("k", nil)
	if err != nil {
		t.Fatal(err)
	}
	if ax.Kind != positioner.Translation {
		t.Errorf("Kind = %q, want %q", ax.Kind, positioner.Translation)
	}
	if ax.Direction != (r3.Vector{X: 1}) {
		t.Errorf("Direction = %v", ax.Direction)
	}
	if ax.Default == nil || *ax.Default != 20 {
		t.Errorf("Default = %v, want 20", ax.Default)
	}

	rec = AxisRecord{Name: "omega", Type: "rotation", Axis: []float64{0, 0, 1}}
	ax, err = rec.Build("k", nil)
	if err != nil {
		t.Fatal(err)
	}
	if ax.Default != nil {
		t.Errorf("Default = %v, want nil", ax.Default)
	}
}

func TestLiteralMatrixParameterShadowsNumber(t *testing.T) {
	// A parameter named like a number must win, matching how symbol tables
	// resolve before literal parsing.
	rec := AxisRecord{Name: "m", Type: "positioner", Mat4: [][]any{
		{"2", 0, 0, 0},
		{0, 1, 0, 0},
		{0, 0, 1, 0},
		{0, 0, 0, 1},
	}}
	ax, err := rec.Build("k", map[string]float64{"2": 7})
	if err != nil {
		t.Fatal(err)
	}
	if ax.Matrix.M[0][0] != 7 {
		t.Errorf("M[0][0] = %v, want 7", ax.Matrix.M[0][0])
	}
}
