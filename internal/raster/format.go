package raster

import (
	"fmt"
	"sync"

	"github.com/airbusgeo/godal"
)

// Format identifies a supported raster file format by its GDAL driver name.
type Format string

// Supported formats.
const (
	GeoTIFF Format = "GTiff"
	ERS     Format = "ERS"
)

// Formats returns all supported formats in deterministic order.
func Formats() []Format {
	return []Format{GeoTIFF, ERS}
}

// Ext returns the file extension conventionally used for the format,
// including the leading dot.
func (f Format) Ext() string {
	switch f {
	case GeoTIFF:
		return ".tif"
	case ERS:
		return ".ers"
	}
	return ""
}

// String returns the GDAL driver short name.
func (f Format) String() string {
	return string(f)
}

func (f Format) driverName() godal.DriverName {
	return godal.DriverName(f)
}

// ParseFormat maps a driver short name to a Format.
func ParseFormat(s string) (Format, error) {
	switch Format(s) {
	case GeoTIFF:
		return GeoTIFF, nil
	case ERS:
		return ERS, nil
	}
	return "", fmt.Errorf("%w: unknown format %q", ErrValidation, s)
}

var (
	registerOnce sync.Once
	registerErr  error
)

// ensureDrivers performs the one-time process-wide GDAL driver registration.
// It runs before any dataset handle is opened and the registration is never
// mutated afterwards, so concurrent operations only ever observe it read-only.
func ensureDrivers() error {
	registerOnce.Do(func() {
		registerErr = godal.RegisterRaster(godal.GTiff, godal.DriverName(ERS))
	})
	return registerErr
}
