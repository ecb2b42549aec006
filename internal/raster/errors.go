package raster

import "errors"

// Error taxonomy for the access layer. Callers match with errors.Is; every
// operation wraps one of these sentinels with the offending path or value.
var (
	// ErrValidation indicates bad caller-supplied dimensions or options,
	// detected before any I/O is attempted.
	ErrValidation = errors.New("invalid raster parameters")

	// ErrNotFound indicates the target file does not exist.
	ErrNotFound = errors.New("raster not found")

	// ErrBandIndex indicates a band index outside [1, band count].
	ErrBandIndex = errors.New("band index out of range")

	// ErrShapeMismatch indicates an array whose shape differs from the
	// target raster band.
	ErrShapeMismatch = errors.New("grid shape does not match raster")

	// ErrCreation indicates a driver-level failure while creating a raster.
	ErrCreation = errors.New("raster creation failed")

	// ErrDriver indicates an opaque failure surfaced by GDAL, such as a
	// corrupt file or unsupported format.
	ErrDriver = errors.New("raster driver error")
)
