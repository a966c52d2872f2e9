// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

package log

// Canonical field name constants for structured logging.
const (
	// Identity fields
	FieldRequestID = "request_id"

	// Process fields
	FieldEvent     = "event"
	FieldComponent = "component"

	// Build configuration fields
	FieldVariant     = "variant"
	FieldVersionFile = "version_file"
	FieldPlugin      = "plugin"

	// Proxy fields
	FieldPrefix = "prefix"
	FieldTarget = "target"

	// Path fields
	FieldPath      = "path"
	FieldStaticDir = "static_dir"
)
