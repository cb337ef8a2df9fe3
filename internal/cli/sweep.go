package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/golang/geo/r3"

	"github.com/jonwright/grewgg"
	"github.com/jonwright/grewgg/pkg/ports"
	"github.com/jonwright/grewgg/pkg/scan"
)

// scanLockTTL bounds how long a crashed sweep can keep a scan locked.
const scanLockTTL = 10 * time.Minute

// SweepOptions configures one sweep run.
type SweepOptions struct {
	Detector string
	// Motor, Start, Step and Frames define the series when no project is
	// given; a project's planned scans replace them.
	Motor  string
	Start  float64
	Step   float64
	Frames int
	// Motors holds fixed name=value pairs for the other axes.
	Motors []string
	Origin string
	Dir    string
	ScanID string
	Store  StoreOptions
	// JSON streams every stored frame to stdout as NDJSON after the run.
	JSON  bool
	Quiet bool
}

// RunSweep executes a sweep end to end: build the model, pick a store,
// evaluate the series and report the summary. A SIGINT or SIGTERM cancels
// the remaining frames and exits cleanly.
func RunSweep(opts Options, sweep SweepOptions) error {
	store, closeStore, err := NewResultStore(sweep.Store)
	if err != nil {
		return err
	}
	defer func() { _ = closeStore() }()

	base, err := ParseMotors(sweep.Motors)
	if err != nil {
		return err
	}
	origin, err := ParseVector(sweep.Origin)
	if err != nil {
		return err
	}
	dir, err := ParseVector(sweep.Dir)
	if err != nil {
		return err
	}

	sc := NewSignalContext(context.Background())
	defer sc.Cancel()

	if opts.ProjectPath != "" {
		return runProjectSweeps(sc, opts, sweep, store, base, origin, dir)
	}

	model, _, err := NewModel(opts, grewgg.WithResultStore(store))
	if err != nil {
		return err
	}

	unlock, err := lockScan(sc, store, sweep.ScanID)
	if err != nil {
		return finishInterrupted(sc, sweep.Quiet, err)
	}
	if unlock != nil {
		defer func() { _ = unlock(context.Background()) }()
	}

	sum, err := model.Sweep(sc, grewgg.SweepRequest{
		ScanID:   sweep.ScanID,
		Detector: sweep.Detector,
		Series:   scan.Series{Motor: sweep.Motor, Start: sweep.Start, Step: sweep.Step, Frames: sweep.Frames},
		Motors:   base,
		Origin:   origin,
		Dir:      dir,
	})
	if err != nil {
		return finishInterrupted(sc, sweep.Quiet, err)
	}

	reportSummary(sum, sweep.Quiet)
	if sweep.JSON {
		return printResults(context.Background(), store, sum.ScanID)
	}
	return nil
}

// runProjectSweeps runs every scan the project plans, in order.
func runProjectSweeps(sc *SignalContext, opts Options, sweep SweepOptions, store ports.ResultStore, base grewgg.Values, origin, dir r3.Vector) error {
	model, scans, _, err := NewProjectModel(opts, grewgg.WithResultStore(store))
	if err != nil {
		return err
	}
	if len(scans) == 0 {
		return fmt.Errorf("project %s plans no scans", opts.ProjectPath)
	}

	for i, series := range scans {
		scanID := sweep.ScanID
		if scanID != "" && len(scans) > 1 {
			scanID = fmt.Sprintf("%s-%d", scanID, i)
		}

		unlock, err := lockScan(sc, store, scanID)
		if err != nil {
			return finishInterrupted(sc, sweep.Quiet, err)
		}

		sum, err := model.Sweep(sc, grewgg.SweepRequest{
			ScanID:   scanID,
			Detector: sweep.Detector,
			Series:   series,
			Motors:   base,
			Origin:   origin,
			Dir:      dir,
		})
		if unlock != nil {
			_ = unlock(context.Background())
		}
		if err != nil {
			return finishInterrupted(sc, sweep.Quiet, err)
		}

		reportSummary(sum, sweep.Quiet)
		if sweep.JSON {
			if err := printResults(context.Background(), store, sum.ScanID); err != nil {
				return err
			}
		}
	}
	return nil
}

// lockScan serializes named scans when the store's backend is shared.
// Generated scan IDs cannot collide, so an empty ID skips locking.
func lockScan(ctx context.Context, store ports.ResultStore, scanID string) (ports.UnlockFunc, error) {
	locker, ok := store.(ports.ScanLocker)
	if !ok || scanID == "" {
		return nil, nil
	}
	return locker.Lock(ctx, scanID, scanLockTTL)
}

// finishInterrupted separates a user interruption from a real failure.
func finishInterrupted(sc *SignalContext, quiet bool, err error) error {
	if sig := sc.Signal(); sig != nil {
		if !quiet {
			printSystemMessage("Sweep interrupted (%v).", sig)
		}
		return nil
	}
	return handleExecutionError(err)
}

func reportSummary(sum *scan.Summary, quiet bool) {
	if quiet {
		return
	}
	printSystemMessage("Sweep '%s' finished: %d frames, %d hits, %d misses in %s.",
		sum.ScanID, sum.Frames, sum.Hits, sum.Misses, sum.Elapsed)
}

// printResults streams every stored frame of a scan to stdout as NDJSON.
func printResults(ctx context.Context, store ports.ResultStore, scanID string) error {
	frames, err := store.Frames(ctx, scanID)
	if err != nil {
		return fmt.Errorf("error listing results: %w", err)
	}

	enc := json.NewEncoder(os.Stdout)
	for _, frame := range frames {
		r, err := store.Load(ctx, scanID, frame)
		if err != nil {
			return fmt.Errorf("error loading frame %d: %w", frame, err)
		}
		if err := enc.Encode(r); err != nil {
			return err
		}
	}
	return nil
}
