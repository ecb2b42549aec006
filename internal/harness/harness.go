package harness

import (
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/RichardScottOZ/raster-threading/internal/raster"
)

// Result records the outcome of one execution unit. Exactly one of Grid or
// Err is meaningful for units that return data; write-only units leave both
// Grid nil and Err nil on success.
type Result struct {
	// Unit is the submission index, 0-based.
	Unit int

	// Grid holds the data returned by a reading unit, nil otherwise.
	Grid *raster.Grid

	// Err is the unit's failure, including recovered panics. Nil on success.
	Err error

	// Elapsed is the wall-clock duration of the unit's operation.
	Elapsed time.Duration
}

// Op is the operation one execution unit performs. Reading ops return the
// grid they read; write-only ops return nil.
type Op func(unit int) (*raster.Grid, error)

// Run dispatches n independent goroutines each invoking op with its unit
// index, waits for all of them, and returns their results ordered by unit
// index. A unit's error or panic is captured into its Result and never
// disturbs sibling units.
func Run(n int, op Op) []Result {
	results := make([]Result, n)
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(unit int) {
			defer wg.Done()
			defer func() {
				if r := recover(); r != nil {
					results[unit] = Result{
						Unit: unit,
						Err:  fmt.Errorf("panic: %v", r),
					}
				}
			}()
			start := time.Now()
			g, err := op(unit)
			results[unit] = Result{
				Unit:    unit,
				Grid:    g,
				Err:     err,
				Elapsed: time.Since(start),
			}
		}(i)
	}
	wg.Wait()
	return results
}

// Errs summarises the failed units in results, or returns nil if every unit
// succeeded.
func Errs(results []Result) error {
	var failed []string
	for _, r := range results {
		if r.Err != nil {
			failed = append(failed, fmt.Sprintf("unit %d: %v", r.Unit, r.Err))
		}
	}
	if len(failed) == 0 {
		return nil
	}
	return fmt.Errorf("%d of %d units failed: %s", len(failed), len(results), strings.Join(failed, "; "))
}

// Scenario is one named concurrency pattern run against one raster format.
type Scenario struct {
	// Name identifies the scenario in logs and failure reports.
	Name string

	// Format is the raster format under test.
	Format raster.Format

	// Units is the number of concurrent execution units the scenario spawns.
	Units int

	// Run executes the scenario inside dir. The caller owns dir and its
	// teardown. A non-nil return means an assertion failed or a unit hit an
	// unexpected error.
	Run func(dir string) error
}

// expectGrid fails unless every result succeeded and carries a grid equal to
// want.
func expectGrid(results []Result, want *raster.Grid) error {
	if err := Errs(results); err != nil {
		return err
	}
	for _, r := range results {
		if r.Grid == nil {
			return fmt.Errorf("unit %d: no data returned", r.Unit)
		}
		if !r.Grid.Equal(want) {
			return fmt.Errorf("unit %d: data does not match ground truth", r.Unit)
		}
	}
	return nil
}

// verifyFile reads band 1 of path and checks it equals want.
func verifyFile(path string, want *raster.Grid) error {
	got, err := raster.Read(path, 1)
	if err != nil {
		return fmt.Errorf("verifying %s: %w", path, err)
	}
	if !got.Equal(want) {
		return fmt.Errorf("verifying %s: content mismatch", path)
	}
	return nil
}
