package raster

import (
	"fmt"
	"os"

	"github.com/airbusgeo/godal"
)

// CreateOptions configures Create beyond the mandatory path, format and
// dimensions. The zero value requests one band filled with zeros in EPSG:4326.
type CreateOptions struct {
	// Bands is the number of raster bands. Zero means 1.
	Bands int

	// Fill is the value every band is initialised to.
	Fill float64

	// EPSG is the coordinate reference system code. Zero means 4326.
	EPSG int

	// NoData, when non-nil, is recorded as the nodata value on every band.
	NoData *float64
}

// Info describes a raster file's structure without holding a handle to it.
type Info struct {
	Width        int        `json:"width"`
	Height       int        `json:"height"`
	Bands        int        `json:"bands"`
	Driver       string     `json:"driver"`
	Projection   string     `json:"projection"`
	GeoTransform [6]float64 `json:"geotransform"`
}

// Create allocates a new raster file of the given format with every band
// initialised to opts.Fill, then flushes and closes it before returning.
//
// Like every operation in this package, Create acquires its own GDAL dataset
// handle, uses it within this single call, and releases it on every exit
// path. No handle is retained, so concurrent Create calls on distinct paths
// from independent goroutines are safe.
//
// Dimension and option validation happens before any I/O and fails with
// ErrValidation. Driver-level failures surface as ErrCreation; on any failure
// after the dataset exists the partial file is removed best-effort, so no
// partial raster remains on disk.
func Create(path string, format Format, width, height int, opts CreateOptions) error {
	if width <= 0 || height <= 0 {
		return fmt.Errorf("%w: dimensions %dx%d", ErrValidation, width, height)
	}
	if opts.Bands < 0 {
		return fmt.Errorf("%w: band count %d", ErrValidation, opts.Bands)
	}
	if _, err := ParseFormat(string(format)); err != nil {
		return err
	}
	bands := opts.Bands
	if bands == 0 {
		bands = 1
	}
	epsg := opts.EPSG
	if epsg == 0 {
		epsg = 4326
	}

	if err := ensureDrivers(); err != nil {
		return fmt.Errorf("%w: registering drivers: %v", ErrCreation, err)
	}

	ds, err := godal.Create(format.driverName(), path, bands, godal.Float32, width, height)
	if err != nil {
		return fmt.Errorf("%w: %s: %v", ErrCreation, path, err)
	}
	closed := false
	defer func() {
		if !closed {
			_ = ds.Close()
			_ = os.Remove(path)
		}
	}()

	if err := initDataset(ds, epsg, opts); err != nil {
		return err
	}

	closed = true
	if err := ds.Close(); err != nil {
		_ = os.Remove(path)
		return fmt.Errorf("%w: closing %s: %v", ErrCreation, path, err)
	}
	return nil
}

// initDataset sets georeferencing and fills every band of a freshly created
// dataset. The caller owns the handle and its cleanup.
func initDataset(ds *godal.Dataset, epsg int, opts CreateOptions) error {
	if err := ds.SetGeoTransform([6]float64{0, 1, 0, 0, 0, -1}); err != nil {
		return fmt.Errorf("%w: setting geotransform: %v", ErrCreation, err)
	}
	sr, err := godal.NewSpatialRefFromEPSG(epsg)
	if err != nil {
		return fmt.Errorf("%w: EPSG:%d: %v", ErrValidation, epsg, err)
	}
	defer sr.Close()
	if err := ds.SetSpatialRef(sr); err != nil {
		return fmt.Errorf("%w: setting projection: %v", ErrCreation, err)
	}

	for _, band := range ds.Bands() {
		if err := band.Fill(opts.Fill, 0); err != nil {
			return fmt.Errorf("%w: filling band: %v", ErrCreation, err)
		}
		if opts.NoData != nil {
			if err := band.SetNoData(*opts.NoData); err != nil {
				return fmt.Errorf("%w: setting nodata: %v", ErrCreation, err)
			}
		}
	}
	return nil
}

// Read opens path read-only, copies the 1-based band into a fresh Grid,
// and releases the handle before returning.
//
// The returned grid is an independent copy: it shares no memory with the
// dataset or with any other caller's result, so concurrent reads of the same
// file never alias each other.
func Read(path string, band int) (*Grid, error) {
	ds, info, err := openDataset(path, false)
	if err != nil {
		return nil, err
	}
	defer func() { _ = ds.Close() }()

	return readBand(ds, info, band)
}

// ReadAll reads every band of the raster at path, in band-index order,
// through a single read-only handle released before returning.
func ReadAll(path string) ([]*Grid, error) {
	ds, info, err := openDataset(path, false)
	if err != nil {
		return nil, err
	}
	defer func() { _ = ds.Close() }()

	grids := make([]*Grid, 0, info.Bands)
	for b := 1; b <= info.Bands; b++ {
		g, err := readBand(ds, info, b)
		if err != nil {
			return nil, err
		}
		grids = append(grids, g)
	}
	return grids, nil
}

// WriteBand opens path for update, overwrites the 1-based band with g, then
// flushes and releases the handle.
//
// The grid's shape is validated against the target raster before anything is
// written, so an ErrShapeMismatch leaves the band's prior content unchanged.
//
// Concurrent WriteBand calls on distinct paths are safe. The result of two
// concurrent writers targeting the same path is driver-dependent and
// undefined; this package adds no cross-process or cross-goroutine locking.
func WriteBand(path string, g *Grid, band int) error {
	if g == nil || len(g.Data) != g.Width*g.Height {
		return fmt.Errorf("%w: malformed grid", ErrValidation)
	}
	ds, info, err := openDataset(path, true)
	if err != nil {
		return err
	}
	closed := false
	defer func() {
		if !closed {
			_ = ds.Close()
		}
	}()

	if band < 1 || band > info.Bands {
		return fmt.Errorf("%w: band %d of %d in %s", ErrBandIndex, band, info.Bands, path)
	}
	if g.Width != info.Width || g.Height != info.Height {
		return fmt.Errorf("%w: grid %dx%d vs raster %dx%d",
			ErrShapeMismatch, g.Width, g.Height, info.Width, info.Height)
	}

	if err := ds.Bands()[band-1].Write(0, 0, g.Data, g.Width, g.Height); err != nil {
		return fmt.Errorf("%w: writing band %d of %s: %v", ErrDriver, band, path, err)
	}

	closed = true
	if err := ds.Close(); err != nil {
		return fmt.Errorf("%w: flushing %s: %v", ErrDriver, path, err)
	}
	return nil
}

// Stat returns the structure of the raster at path. The inspection handle is
// released before returning.
func Stat(path string) (Info, error) {
	ds, info, err := openDataset(path, false)
	if err != nil {
		return Info{}, err
	}
	defer func() { _ = ds.Close() }()

	info.Projection = ds.Projection()
	if gt, err := ds.GeoTransform(); err == nil {
		info.GeoTransform = gt
	}
	return info, nil
}

// openDataset acquires a fresh dataset handle for one operation. Ownership of
// the handle passes to the caller, which must close it on every exit path.
func openDataset(path string, update bool) (*godal.Dataset, Info, error) {
	if err := ensureDrivers(); err != nil {
		return nil, Info{}, fmt.Errorf("%w: registering drivers: %v", ErrDriver, err)
	}
	if _, err := os.Stat(path); err != nil {
		return nil, Info{}, fmt.Errorf("%w: %s", ErrNotFound, path)
	}

	opts := []godal.OpenOption{godal.RasterOnly()}
	if update {
		opts = append(opts, godal.Update())
	}
	ds, err := godal.Open(path, opts...)
	if err != nil {
		return nil, Info{}, fmt.Errorf("%w: opening %s: %v", ErrDriver, path, err)
	}

	st := ds.Structure()
	return ds, Info{
		Width:  st.SizeX,
		Height: st.SizeY,
		Bands:  st.NBands,
	}, nil
}

// readBand copies one band into a fresh grid through an already-open handle.
func readBand(ds *godal.Dataset, info Info, band int) (*Grid, error) {
	if band < 1 || band > info.Bands {
		return nil, fmt.Errorf("%w: band %d of %d", ErrBandIndex, band, info.Bands)
	}
	g := NewGrid(info.Width, info.Height)
	if err := ds.Bands()[band-1].Read(0, 0, g.Data, info.Width, info.Height); err != nil {
		return nil, fmt.Errorf("%w: reading band %d: %v", ErrDriver, band, err)
	}
	return g, nil
}
