// Package schema holds the wire-level records of beamline YAML documents and
// turns them into positioner stacks and detectors.
//
// A beamline document declares named instruments as ordered axis lists plus
// detector records referencing either a declared stack or an inline fable
// calibration:
//
//	Positioners:
//	  sample:
//	    - name: omega
//	      type: rotation
//	      axis: [0, 0, 1]
//	    - name: samtx
//	      type: translation
//	      axis: [1, 0, 0]
//	      pos: 0.0
//	Detectors:
//	  frelon:
//	    calibration:
//	      distance: 136.9
//	      y_size: 0.048
//	      ...
//
// Axis order in the document is composition order: the first-declared axis is
// the outermost transform. Literal-matrix axes (type "positioner") may name
// load-time parameters in their mat4 cells.
//
// Every problem found while building is reported through
// ValidationError/AggregateError so a document's failures surface together
// rather than one at a time.
package schema
