// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

// Package version holds the devfront build identity, set via ldflags:
//
//	-X github.com/ManuGH/devfront/internal/version.Version=v0.3.0
package version

import "fmt"

var (
	// Version is the devfront release. It is unrelated to the front-end
	// VERSION file that feeds the compile-time version constant.
	Version = "dev"

	// Commit is the git short hash of the build.
	Commit = "unknown"

	// Date is the build timestamp.
	Date = "unknown"
)

// String renders the identity the way --version prints it.
func String() string {
	return fmt.Sprintf("%s (commit: %s, built: %s)", Version, Commit, Date)
}
