// Package raster provides concurrent-safe access to GeoTIFF and ERS grid
// files through GDAL.
//
// This package implements the create, read, and write-band operations used by
// the harness. All binary format handling is delegated to GDAL via the
// github.com/airbusgeo/godal binding; this package only defines the access
// pattern around it.
//
// # Handle Discipline
//
// Every operation independently acquires its own GDAL dataset handle, performs
// its work, and releases the handle (flushing first for writes) before
// returning. No handle ever escapes a call or is shared between goroutines.
// This per-call scoping is the thread-safety mechanism: it bounds the lifetime
// of any shared mutable state to a single operation and lets GDAL's per-handle
// state do the isolation. There are no locks in this package.
//
// The guarantees that follow from the discipline:
//
//   - Concurrent reads of the same file are safe and each caller receives an
//     independent copy of the data.
//   - Concurrent writes to distinct files are safe.
//   - Concurrent writes to the same file are undefined (last flush wins,
//     driver dependent) and deliberately not papered over with locking.
//
// # Coordinate System
//
// Pixel coordinates are 0-based with (0,0) the top-left pixel. Band indexes
// are 1-based, matching GDAL convention: valid indexes are [1, band count].
//
// # Driver Registration
//
// GDAL holds process-wide driver registration state. It is initialised exactly
// once, before the first dataset handle is opened, and never mutated
// afterwards, so concurrent operations only ever observe it read-only.
//
// # Error Handling
//
// Failures are reported by wrapping the sentinel errors in errors.go
// (ErrValidation, ErrNotFound, ErrBandIndex, ErrShapeMismatch, ErrCreation,
// ErrDriver); match them with errors.Is. No error is swallowed and no
// operation retries.
package raster
