package raster

import (
	"fmt"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const numUnits = 4

// runUnits spawns n goroutines, joins them all, and returns the error each
// unit produced, indexed by unit.
func runUnits(n int, op func(unit int) error) []error {
	errs := make([]error, n)
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(unit int) {
			defer wg.Done()
			errs[unit] = op(unit)
		}(i)
	}
	wg.Wait()
	return errs
}

func TestConcurrentReadsSameFile(t *testing.T) {
	for _, format := range Formats() {
		t.Run(format.String(), func(t *testing.T) {
			path := testPath(t, format, "cread")
			require.NoError(t, Create(path, format, testWidth, testHeight, CreateOptions{Fill: 7}))

			want := UniformGrid(testWidth, testHeight, 7)
			grids := make([]*Grid, numUnits)
			errs := runUnits(numUnits, func(unit int) error {
				g, err := Read(path, 1)
				grids[unit] = g
				return err
			})

			for unit, err := range errs {
				require.NoError(t, err, "unit %d", unit)
				assert.True(t, grids[unit].Equal(want), "unit %d", unit)
			}
		})
	}
}

func TestConcurrentReadsDistinctFiles(t *testing.T) {
	for _, format := range Formats() {
		t.Run(format.String(), func(t *testing.T) {
			dir := t.TempDir()
			paths := make([]string, numUnits)
			for i := range paths {
				paths[i] = filepath.Join(dir, fmt.Sprintf("crdiff_%d%s", i, format.Ext()))
				require.NoError(t, Create(paths[i], format, testWidth, testHeight, CreateOptions{Fill: float64(i)}))
			}

			grids := make([]*Grid, numUnits)
			errs := runUnits(numUnits, func(unit int) error {
				g, err := Read(paths[unit], 1)
				grids[unit] = g
				return err
			})

			for unit, err := range errs {
				require.NoError(t, err, "unit %d", unit)
				assert.True(t, grids[unit].Equal(UniformGrid(testWidth, testHeight, float32(unit))),
					"unit %d must see its own file's data", unit)
			}
		})
	}
}

func TestConcurrentWritesDistinctFiles(t *testing.T) {
	for _, format := range Formats() {
		t.Run(format.String(), func(t *testing.T) {
			dir := t.TempDir()
			paths := make([]string, numUnits)
			for i := range paths {
				paths[i] = filepath.Join(dir, fmt.Sprintf("cwrite_%d%s", i, format.Ext()))
				require.NoError(t, Create(paths[i], format, testWidth, testHeight, CreateOptions{}))
			}

			errs := runUnits(numUnits, func(unit int) error {
				return WriteBand(paths[unit], UniformGrid(testWidth, testHeight, float32(unit+1)), 1)
			})
			for unit, err := range errs {
				require.NoError(t, err, "unit %d", unit)
			}

			for i, path := range paths {
				g, err := Read(path, 1)
				require.NoError(t, err)
				assert.True(t, g.Equal(UniformGrid(testWidth, testHeight, float32(i+1))),
					"file %d must hold only its own writer's data", i)
			}
		})
	}
}

func TestConcurrentCreateAndWrite(t *testing.T) {
	for _, format := range Formats() {
		t.Run(format.String(), func(t *testing.T) {
			dir := t.TempDir()
			errs := runUnits(numUnits, func(unit int) error {
				path := filepath.Join(dir, fmt.Sprintf("cw_%d%s", unit, format.Ext()))
				if err := Create(path, format, testWidth, testHeight, CreateOptions{}); err != nil {
					return err
				}
				return WriteBand(path, UniformGrid(testWidth, testHeight, float32(unit*10)), 1)
			})
			for unit, err := range errs {
				require.NoError(t, err, "unit %d", unit)
			}

			for i := 0; i < numUnits; i++ {
				path := filepath.Join(dir, fmt.Sprintf("cw_%d%s", i, format.Ext()))
				g, err := Read(path, 1)
				require.NoError(t, err)
				assert.True(t, g.Equal(UniformGrid(testWidth, testHeight, float32(i*10))))
			}
		})
	}
}

func TestMixedReadersAndWriters(t *testing.T) {
	for _, format := range Formats() {
		t.Run(format.String(), func(t *testing.T) {
			dir := t.TempDir()
			readPath := filepath.Join(dir, "mixed_r"+format.Ext())
			require.NoError(t, Create(readPath, format, testWidth, testHeight, CreateOptions{Fill: 99}))

			writePaths := make([]string, numUnits)
			for i := range writePaths {
				writePaths[i] = filepath.Join(dir, fmt.Sprintf("mixed_w%d%s", i, format.Ext()))
				require.NoError(t, Create(writePaths[i], format, testWidth, testHeight, CreateOptions{}))
			}

			// Even units read the stable file, odd units write their own.
			want := UniformGrid(testWidth, testHeight, 99)
			grids := make([]*Grid, 2*numUnits)
			errs := runUnits(2*numUnits, func(unit int) error {
				if unit%2 == 0 {
					g, err := Read(readPath, 1)
					grids[unit] = g
					return err
				}
				w := unit / 2
				return WriteBand(writePaths[w], UniformGrid(testWidth, testHeight, float32(w+100)), 1)
			})

			for unit, err := range errs {
				require.NoError(t, err, "unit %d", unit)
				if unit%2 == 0 {
					assert.True(t, grids[unit].Equal(want),
						"reader unit %d observed torn or foreign data", unit)
				}
			}
			for i, path := range writePaths {
				g, err := Read(path, 1)
				require.NoError(t, err)
				assert.True(t, g.Equal(UniformGrid(testWidth, testHeight, float32(i+100))))
			}
		})
	}
}

func TestStressConcurrentReads(t *testing.T) {
	for _, workers := range []int{8, 16} {
		for _, format := range Formats() {
			t.Run(fmt.Sprintf("%s/%d", format, workers), func(t *testing.T) {
				path := testPath(t, format, fmt.Sprintf("stress_r%d", workers))
				require.NoError(t, Create(path, format, testWidth, testHeight, CreateOptions{Fill: 3.14}))

				want := UniformGrid(testWidth, testHeight, 3.14)
				errs := runUnits(workers, func(int) error {
					g, err := Read(path, 1)
					if err != nil {
						return err
					}
					if !g.Equal(want) {
						return fmt.Errorf("content mismatch")
					}
					return nil
				})
				for unit, err := range errs {
					assert.NoError(t, err, "unit %d", unit)
				}
			})
		}
	}
}

func TestStressConcurrentWrites(t *testing.T) {
	for _, workers := range []int{8, 16} {
		for _, format := range Formats() {
			t.Run(fmt.Sprintf("%s/%d", format, workers), func(t *testing.T) {
				dir := t.TempDir()
				paths := make([]string, workers)
				for i := range paths {
					paths[i] = filepath.Join(dir, fmt.Sprintf("stress_w%d%s", i, format.Ext()))
					require.NoError(t, Create(paths[i], format, testWidth, testHeight, CreateOptions{}))
				}

				errs := runUnits(workers, func(unit int) error {
					return WriteBand(paths[unit], UniformGrid(testWidth, testHeight, float32(unit)), 1)
				})
				for unit, err := range errs {
					require.NoError(t, err, "unit %d", unit)
				}

				for i, path := range paths {
					g, err := Read(path, 1)
					require.NoError(t, err)
					assert.True(t, g.Equal(UniformGrid(testWidth, testHeight, float32(i))))
				}
			})
		}
	}
}
