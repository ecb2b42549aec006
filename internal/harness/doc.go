// Package harness drives the raster access layer from many concurrent
// goroutines and checks that the per-call handle discipline holds up.
//
// Each scenario walks the same state machine: set up fixture rasters in a
// working directory, dispatch N independent units through Run, collect every
// unit's result behind a join barrier, then assert scenario-specific
// invariants. Teardown of the working directory belongs to the caller.
//
// # Failure Isolation
//
// A unit's error (or panic) is captured into that unit's Result record and
// never aborts sibling units; the scenario fails only if a captured error was
// unexpected for that scenario. Results are ordered by submission, not by
// completion, so assertions can pair each unit with its ground truth.
//
// The scenario matrix crosses both raster formats with single-threaded round
// trips, concurrent same-file reads, concurrent distinct-file reads and
// writes, mixed readers and writers, and stress runs at 8 and 16 units.
package harness
