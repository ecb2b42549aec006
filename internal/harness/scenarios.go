package harness

import (
	"fmt"
	"path/filepath"

	"github.com/RichardScottOZ/raster-threading/internal/raster"
)

// Scenarios builds the concurrency scenario matrix for one format: round
// trips, concurrent reads (same and distinct files), concurrent writes to
// distinct files, concurrent create+write, mixed readers and writers, and
// stress runs at 8 and 16 units. units controls the width of the non-stress
// concurrent scenarios; size is the square raster dimension.
func Scenarios(format raster.Format, units, size int) []Scenario {
	scenarios := []Scenario{
		roundTrip(format, size),
		multibandRoundTrip(format, size),
		concurrentReadsSameFile(format, units, size),
		concurrentReadsDistinctFiles(format, units, size),
		concurrentWritesDistinctFiles(format, units, size),
		concurrentCreateWrite(format, units, size),
		mixedReadWrite(format, units, size, "mixed-read-write"),
	}
	for _, n := range []int{8, 16} {
		scenarios = append(scenarios, mixedReadWrite(format, n, size, fmt.Sprintf("stress-%d", n)))
	}
	return scenarios
}

func rasterPath(dir string, format raster.Format, tag string) string {
	return filepath.Join(dir, tag+format.Ext())
}

// roundTrip creates a raster filled with a constant and reads it straight
// back on the calling goroutine.
func roundTrip(format raster.Format, size int) Scenario {
	return Scenario{
		Name:   "round-trip",
		Format: format,
		Units:  1,
		Run: func(dir string) error {
			path := rasterPath(dir, format, "roundtrip")
			const fill = 42.0
			if err := raster.Create(path, format, size, size, raster.CreateOptions{Fill: fill}); err != nil {
				return err
			}
			return verifyFile(path, raster.UniformGrid(size, size, fill))
		},
	}
}

// multibandRoundTrip writes a distinct constant to each of three bands and
// reads every band back.
func multibandRoundTrip(format raster.Format, size int) Scenario {
	return Scenario{
		Name:   "multiband-round-trip",
		Format: format,
		Units:  1,
		Run: func(dir string) error {
			path := rasterPath(dir, format, "multiband")
			const bands = 3
			if err := raster.Create(path, format, size, size, raster.CreateOptions{Bands: bands}); err != nil {
				return err
			}
			for b := 1; b <= bands; b++ {
				if err := raster.WriteBand(path, raster.UniformGrid(size, size, float32(b)), b); err != nil {
					return err
				}
			}
			grids, err := raster.ReadAll(path)
			if err != nil {
				return err
			}
			for b, g := range grids {
				if !g.Equal(raster.UniformGrid(size, size, float32(b+1))) {
					return fmt.Errorf("band %d: content mismatch", b+1)
				}
			}
			return nil
		},
	}
}

// concurrentReadsSameFile has every unit read the same unmodified file; all
// results must equal the ground truth and no unit may fail.
func concurrentReadsSameFile(format raster.Format, units, size int) Scenario {
	return Scenario{
		Name:   "concurrent-reads-same-file",
		Format: format,
		Units:  units,
		Run: func(dir string) error {
			path := rasterPath(dir, format, "cread")
			const fill = 7.0
			if err := raster.Create(path, format, size, size, raster.CreateOptions{Fill: fill}); err != nil {
				return err
			}
			results := Run(units, func(int) (*raster.Grid, error) {
				return raster.Read(path, 1)
			})
			return expectGrid(results, raster.UniformGrid(size, size, fill))
		},
	}
}

// concurrentReadsDistinctFiles gives each unit its own file with a unit-tagged
// fill value so cross-unit aliasing would be visible.
func concurrentReadsDistinctFiles(format raster.Format, units, size int) Scenario {
	return Scenario{
		Name:   "concurrent-reads-distinct-files",
		Format: format,
		Units:  units,
		Run: func(dir string) error {
			paths := make([]string, units)
			for i := range paths {
				paths[i] = rasterPath(dir, format, fmt.Sprintf("crdiff_%d", i))
				if err := raster.Create(paths[i], format, size, size, raster.CreateOptions{Fill: float64(i)}); err != nil {
					return err
				}
			}
			results := Run(units, func(unit int) (*raster.Grid, error) {
				return raster.Read(paths[unit], 1)
			})
			if err := Errs(results); err != nil {
				return err
			}
			for _, r := range results {
				if !r.Grid.Equal(raster.UniformGrid(size, size, float32(r.Unit))) {
					return fmt.Errorf("unit %d: read another unit's data", r.Unit)
				}
			}
			return nil
		},
	}
}

// concurrentWritesDistinctFiles has each unit overwrite band 1 of its own
// pre-created file; afterwards every file must hold only its writer's data.
func concurrentWritesDistinctFiles(format raster.Format, units, size int) Scenario {
	return Scenario{
		Name:   "concurrent-writes-distinct-files",
		Format: format,
		Units:  units,
		Run: func(dir string) error {
			paths := make([]string, units)
			for i := range paths {
				paths[i] = rasterPath(dir, format, fmt.Sprintf("cwrite_%d", i))
				if err := raster.Create(paths[i], format, size, size, raster.CreateOptions{}); err != nil {
					return err
				}
			}
			results := Run(units, func(unit int) (*raster.Grid, error) {
				return nil, raster.WriteBand(paths[unit], raster.UniformGrid(size, size, float32(unit+1)), 1)
			})
			if err := Errs(results); err != nil {
				return err
			}
			for i, path := range paths {
				if err := verifyFile(path, raster.UniformGrid(size, size, float32(i+1))); err != nil {
					return err
				}
			}
			return nil
		},
	}
}

// concurrentCreateWrite has each unit create a fresh file and write unique
// data into it, exercising concurrent driver-level creation.
func concurrentCreateWrite(format raster.Format, units, size int) Scenario {
	return Scenario{
		Name:   "concurrent-create-write",
		Format: format,
		Units:  units,
		Run: func(dir string) error {
			results := Run(units, func(unit int) (*raster.Grid, error) {
				path := rasterPath(dir, format, fmt.Sprintf("cw_%d", unit))
				if err := raster.Create(path, format, size, size, raster.CreateOptions{}); err != nil {
					return nil, err
				}
				return nil, raster.WriteBand(path, raster.UniformGrid(size, size, float32(unit*10)), 1)
			})
			if err := Errs(results); err != nil {
				return err
			}
			for i := 0; i < units; i++ {
				path := rasterPath(dir, format, fmt.Sprintf("cw_%d", i))
				if err := verifyFile(path, raster.UniformGrid(size, size, float32(i*10))); err != nil {
					return err
				}
			}
			return nil
		},
	}
}

// mixedReadWrite runs n readers of one stable file alongside n writers each
// targeting their own file. Readers must always observe the stable file's
// original content; writers must land only in their own files.
func mixedReadWrite(format raster.Format, n, size int, name string) Scenario {
	return Scenario{
		Name:   name,
		Format: format,
		Units:  2 * n,
		Run: func(dir string) error {
			readPath := rasterPath(dir, format, name+"_r")
			const fill = 99.0
			if err := raster.Create(readPath, format, size, size, raster.CreateOptions{Fill: fill}); err != nil {
				return err
			}
			writePaths := make([]string, n)
			for i := range writePaths {
				writePaths[i] = rasterPath(dir, format, fmt.Sprintf("%s_w%d", name, i))
				if err := raster.Create(writePaths[i], format, size, size, raster.CreateOptions{}); err != nil {
					return err
				}
			}

			// Even units read, odd units write.
			results := Run(2*n, func(unit int) (*raster.Grid, error) {
				if unit%2 == 0 {
					return raster.Read(readPath, 1)
				}
				w := unit / 2
				return nil, raster.WriteBand(writePaths[w], raster.UniformGrid(size, size, float32(w+100)), 1)
			})
			if err := Errs(results); err != nil {
				return err
			}
			want := raster.UniformGrid(size, size, fill)
			for _, r := range results {
				if r.Unit%2 == 0 && !r.Grid.Equal(want) {
					return fmt.Errorf("unit %d: reader observed torn or foreign data", r.Unit)
				}
			}
			for i, path := range writePaths {
				if err := verifyFile(path, raster.UniformGrid(size, size, float32(i+100))); err != nil {
					return err
				}
			}
			return nil
		},
	}
}
