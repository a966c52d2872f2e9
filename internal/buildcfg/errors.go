// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

package buildcfg

import (
	"errors"
	"fmt"
	"io/fs"
)

var (
	// ErrVersionIO classifies every failure to obtain the version string:
	// missing file, permission errors, read errors and invalid encoding.
	// Use errors.Is(err, ErrVersionIO) instead of string matching.
	ErrVersionIO = errors.New("version file unreadable")

	// ErrVersionNotFound is the subset of ErrVersionIO where the file does not exist.
	ErrVersionNotFound = errors.New("version file not found")

	// ErrInvalidVariant is returned for an unknown build variant name.
	ErrInvalidVariant = errors.New("invalid build variant")

	// ErrInvalidProxyRule is returned when a proxy table entry is malformed.
	ErrInvalidProxyRule = errors.New("invalid proxy rule")
)

// VersionError reports a failure to read the version file. The underlying
// I/O error is preserved as-is and reachable through errors.Unwrap.
type VersionError struct {
	Path string
	Err  error
}

func (e *VersionError) Error() string {
	return fmt.Sprintf("read version file %s: %v", e.Path, e.Err)
}

func (e *VersionError) Unwrap() error {
	return e.Err
}

// Is matches ErrVersionIO for every version failure and ErrVersionNotFound
// only when the file is absent.
func (e *VersionError) Is(target error) bool {
	switch target {
	case ErrVersionIO:
		return true
	case ErrVersionNotFound:
		return errors.Is(e.Err, fs.ErrNotExist)
	}
	return false
}
