// Package report renders beamline documents as human-readable markdown.
package report

import (
	"fmt"
	"sort"
	"strings"

	"github.com/jonwright/grewgg/pkg/positioner"
	"github.com/jonwright/grewgg/pkg/schema"
)

// Markdown renders the document as a report: instruments with their axis
// tables, detectors and the parameter table. Sections for empty parts are
// omitted.
func Markdown(name string, b *schema.Beamline) string {
	var sb strings.Builder

	title := "Beamline"
	if name != "" {
		title = fmt.Sprintf("Beamline `%s`", name)
	}
	fmt.Fprintf(&sb, "# %s\n\n", title)

	if len(b.Instruments) > 0 {
		sb.WriteString("## Instruments\n\n")
		for _, path := range sortedKeys(b.Instruments) {
			fmt.Fprintf(&sb, "### %s\n\n", path)
			sb.WriteString("| # | Axis | Kind | Direction | Pos |\n")
			sb.WriteString("|---|------|------|-----------|-----|\n")
			for i, rec := range b.Instruments[path] {
				fmt.Fprintf(&sb, "| %d | %s | %s | %s | %s |\n",
					i, rec.Name, rec.Type, direction(rec), position(rec))
			}
			sb.WriteString("\n")
		}
	}

	if len(b.Detectors) > 0 {
		sb.WriteString("## Detectors\n\n")
		sb.WriteString("| Name | Mount | Distortion |\n")
		sb.WriteString("|------|-------|------------|\n")
		for _, det := range sortedKeys(b.Detectors) {
			rec := b.Detectors[det]
			mount := rec.Stack
			if rec.Calibration != nil {
				mount = "inline fable calibration"
			}
			fmt.Fprintf(&sb, "| %s | %s | %s |\n", det, mount, orDash(rec.Distortion))
		}
		sb.WriteString("\n")
	}

	if len(b.Parameters) > 0 {
		sb.WriteString("## Parameters\n\n")
		sb.WriteString("| Name | Value |\n")
		sb.WriteString("|------|-------|\n")
		for _, par := range sortedKeys(b.Parameters) {
			fmt.Fprintf(&sb, "| %s | %g |\n", par, b.Parameters[par])
		}
		sb.WriteString("\n")
	}

	return sb.String()
}

func direction(rec schema.AxisRecord) string {
	if positioner.Kind(rec.Type) == positioner.Fixed {
		return "mat4"
	}
	if len(rec.Axis) != 3 {
		return "-"
	}
	return fmt.Sprintf("(%g, %g, %g)", rec.Axis[0], rec.Axis[1], rec.Axis[2])
}

// position renders the default, or marks the axis as a runtime motor.
func position(rec schema.AxisRecord) string {
	if positioner.Kind(rec.Type) == positioner.Fixed {
		return "-"
	}
	if rec.Pos == nil {
		return "motor"
	}
	return fmt.Sprintf("%g", *rec.Pos)
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
