package graph

import (
	"fmt"
	"sort"
	"strings"

	"github.com/jonwright/grewgg/pkg/positioner"
	"github.com/jonwright/grewgg/pkg/schema"
)

// GenerateMermaid produces a Mermaid flowchart syntax string from a beamline
// document: one subgraph per instrument with its axes chained outermost to
// innermost, and detectors linked to the stack they are mounted on.
// Axis shapes follow the kind:
// - Rotation: ((Circle))
// - Scale: [/Parallelogram/]
// - Fixed matrix: [[Subroutine]]
// - Translation (default): [Rectangle]
func GenerateMermaid(b *schema.Beamline) string {
	var sb strings.Builder
	sb.WriteString("graph TD\n")

	for _, path := range sortedKeys(b.Instruments) {
		safeStack := sanitizeMermaidID(path)
		sb.WriteString(fmt.Sprintf("    subgraph %s[\"%s\"]\n", safeStack, path))

		prev := ""
		for i, rec := range b.Instruments[path] {
			id := fmt.Sprintf("%s_%d", safeStack, i)
			opener, closer := axisShape(positioner.Kind(rec.Type))

			label := rec.Name
			if rec.Pos != nil {
				label = fmt.Sprintf("%s <br/> pos %g", rec.Name, *rec.Pos)
			}
			sb.WriteString(fmt.Sprintf("        %s%s\"%s\"%s\n", id, opener, label, closer))

			if prev != "" {
				sb.WriteString(fmt.Sprintf("        %s --> %s\n", prev, id))
			}
			prev = id
		}
		sb.WriteString("    end\n")
	}

	for _, name := range sortedKeys(b.Detectors) {
		rec := b.Detectors[name]
		id := "det_" + sanitizeMermaidID(name)

		label := name
		if rec.Calibration != nil {
			label = name + " <br/> fable calibration"
		}
		sb.WriteString(fmt.Sprintf("    %s{{\"%s\"}}\n", id, label))

		if rec.Stack == "" {
			continue
		}
		// Resolve short names so the edge targets the subgraph ID.
		if _, path, err := b.Instrument(rec.Stack); err == nil {
			sb.WriteString(fmt.Sprintf("    %s -.-> %s\n", id, sanitizeMermaidID(path)))
		}
	}

	return sb.String()
}

func axisShape(kind positioner.Kind) (string, string) {
	switch kind {
	case positioner.Rotation:
		return "((", "))"
	case positioner.Scale:
		return "[/", "/]"
	case positioner.Fixed:
		return "[[", "]]"
	}
	return "[", "]"
}

// sortedKeys keeps the output deterministic across runs.
func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func sanitizeMermaidID(id string) string {
	s := strings.ReplaceAll(id, ".", "_")
	s = strings.ReplaceAll(s, "-", "_")
	s = strings.ReplaceAll(s, "/", "_")
	s = strings.ReplaceAll(s, "\\", "_")
	return s
}
