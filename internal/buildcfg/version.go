// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

package buildcfg

import (
	"errors"
	"os"
	"strings"
	"unicode"
	"unicode/utf8"
)

// DefaultVersionFile is the version file name, resolved against the project root.
const DefaultVersionFile = "VERSION"

var errInvalidUTF8 = errors.New("content is not valid UTF-8")

// LoadVersion reads the whole file at path and returns its contents with
// leading and trailing whitespace removed. Internal whitespace is kept. A
// byte order mark counts as whitespace.
//
// The file is opened, read and closed in one step; nothing is cached and the
// file is never written. Failures are returned as *VersionError.
func LoadVersion(path string) (string, error) {
	data, err := os.ReadFile(path) // #nosec G304 -- path comes from operator configuration
	if err != nil {
		return "", &VersionError{Path: path, Err: err}
	}
	if !utf8.Valid(data) {
		return "", &VersionError{Path: path, Err: errInvalidUTF8}
	}
	return strings.TrimFunc(string(data), isTrimmable), nil
}

func isTrimmable(r rune) bool {
	return unicode.IsSpace(r) || r == '\ufeff'
}
