package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"

	"golang.org/x/sync/errgroup"

	"github.com/RichardScottOZ/raster-threading/internal/harness"
	"github.com/RichardScottOZ/raster-threading/internal/raster"
	"github.com/RichardScottOZ/raster-threading/internal/render"
)

// Version information - set by ldflags during build
var (
	Version   = "dev"
	BuildTime = "unknown"
	GitCommit = "unknown"
)

// artifactNames maps each format to its output artifact file name.
var artifactNames = map[raster.Format]string{
	raster.GeoTIFF: "threaded_geotiff.tif",
	raster.ERS:     "threaded_grid.ers",
}

func main() {
	// Handle --version and -v flags before flag parsing
	if len(os.Args) > 1 {
		switch os.Args[1] {
		case "--version", "-v", "version":
			fmt.Printf("raster-harness %s\n", Version)
			fmt.Printf("  Build time: %s\n", BuildTime)
			fmt.Printf("  Git commit: %s\n", GitCommit)
			return
		}
	}

	outputDir := flag.String("output-dir", "artifacts", "directory to place generated rasters")
	size := flag.Int("size", 256, "raster width/height (square)")
	threads := flag.Int("threads", 4, "execution unit count for concurrent scenarios")
	flag.Parse()

	// Log to stderr so stdout stays clean for the summary
	log.SetOutput(os.Stderr)
	log.SetFlags(log.Ldate | log.Ltime | log.Lshortfile)

	if *size <= 0 || *threads <= 0 {
		log.Fatalf("size and threads must be positive (got size=%d threads=%d)", *size, *threads)
	}
	if err := os.MkdirAll(*outputDir, 0o755); err != nil {
		log.Fatalf("failed to create output dir: %v", err)
	}

	if err := run(*outputDir, *size, *threads); err != nil {
		log.Fatalf("harness failed: %v", err)
	}
}

func run(outputDir string, size, threads int) error {
	log.Printf("running scenario suites (%d units, %dx%d rasters)...", threads, size, size)
	if err := runScenarios(outputDir, size, threads); err != nil {
		return err
	}

	grid := raster.PatternGrid(size)
	log.Printf("writing %dx%d pattern grid to both formats in parallel...", size, size)
	if err := writeArtifacts(outputDir, grid); err != nil {
		return err
	}

	if err := readBackSummary(outputDir, grid); err != nil {
		return err
	}

	stats, err := harness.Bench("read "+artifactNames[raster.GeoTIFF], 10, func() error {
		_, err := raster.Read(filepath.Join(outputDir, artifactNames[raster.GeoTIFF]), 1)
		return err
	})
	if err != nil {
		return err
	}
	log.Print(stats)
	return nil
}

// runScenarios executes the full scenario matrix for both formats, each suite
// on its own goroutine, inside a temporary directory torn down afterwards.
func runScenarios(outputDir string, size, threads int) error {
	var eg errgroup.Group
	for _, format := range raster.Formats() {
		format := format
		eg.Go(func() error {
			dir, err := os.MkdirTemp(outputDir, "scenarios-"+format.String()+"-*")
			if err != nil {
				return fmt.Errorf("creating scenario dir: %w", err)
			}
			defer os.RemoveAll(dir)

			for _, sc := range harness.Scenarios(format, threads, size) {
				if err := sc.Run(dir); err != nil {
					return fmt.Errorf("%s/%s: %w", format, sc.Name, err)
				}
				log.Printf("%s/%s: ok (%d units)", format, sc.Name, sc.Units)
			}
			return nil
		})
	}
	return eg.Wait()
}

// writeArtifacts creates one raster per format and writes the pattern grid to
// each from concurrent units, then renders a PNG quicklook alongside each.
func writeArtifacts(outputDir string, grid *raster.Grid) error {
	formats := raster.Formats()
	nodata := -9999.0
	results := harness.Run(len(formats), func(unit int) (*raster.Grid, error) {
		format := formats[unit]
		path := filepath.Join(outputDir, artifactNames[format])
		if err := raster.Create(path, format, grid.Width, grid.Height, raster.CreateOptions{NoData: &nodata}); err != nil {
			return nil, err
		}
		return nil, raster.WriteBand(path, grid, 1)
	})
	if err := harness.Errs(results); err != nil {
		return err
	}

	for _, format := range formats {
		name := artifactNames[format]
		img, err := render.Quicklook(grid, 512)
		if err != nil {
			return err
		}
		pngPath := filepath.Join(outputDir, name+".png")
		if err := render.WritePNG(pngPath, img); err != nil {
			return err
		}
		log.Printf("wrote %s and quicklook %s", name, filepath.Base(pngPath))
	}
	return nil
}

// readBackSummary reads every artifact concurrently, verifies the content
// against the grid that was written, and prints per-file means.
func readBackSummary(outputDir string, want *raster.Grid) error {
	formats := raster.Formats()
	results := harness.Run(len(formats), func(unit int) (*raster.Grid, error) {
		return raster.Read(filepath.Join(outputDir, artifactNames[formats[unit]]), 1)
	})
	if err := harness.Errs(results); err != nil {
		return err
	}

	fmt.Println("Summary:")
	for _, r := range results {
		name := artifactNames[formats[r.Unit]]
		if !r.Grid.Equal(want) {
			if diff, err := render.Diff(r.Grid, want); err == nil {
				diffPath := filepath.Join(outputDir, name+".diff.png")
				_ = render.WritePNG(diffPath, diff)
				log.Printf("%s: mismatch diff written to %s", name, filepath.Base(diffPath))
			}
			return fmt.Errorf("%s: read-back does not match written grid", name)
		}
		fmt.Printf("- %s: mean=%.4f\n", name, r.Grid.Mean())
	}
	return nil
}
