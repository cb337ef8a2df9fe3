/*
Package ports defines the driven ports (interfaces) for the geometry engine.

These interfaces decouple the core from external implementations, allowing
the model to pull beamline descriptions from various sources and sweep runs
to persist results into various backends.

# Key Interfaces

  - Source: supplies a parsed beamline description (e.g., a YAML file).
  - ResultStore: persists evaluated sweep frames (memory, filesystem, redis).
  - ScanLocker: serializes sweeps recording under the same scan ID when the
    store's backend is shared between processes.

RunResultStoreContract exercises any ResultStore implementation against the
behavior the engine relies on.
*/
package ports
