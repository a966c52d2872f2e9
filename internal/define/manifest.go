// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

package define

import (
	"encoding/json"
	"fmt"

	xglog "github.com/ManuGH/devfront/internal/log"
	"github.com/google/renameio/v2"
)

// WriteManifest writes the defines as a JSON object to path. The write is
// atomic and durable: readers see either the old file or the complete new one.
func WriteManifest(path string, defines map[string]string) error {
	logger := xglog.WithComponent("define")

	if defines == nil {
		defines = map[string]string{}
	}
	data, err := json.MarshalIndent(defines, "", "  ")
	if err != nil {
		return fmt.Errorf("encode define manifest: %w", err)
	}
	data = append(data, '\n')

	pendingFile, err := renameio.NewPendingFile(path, renameio.WithPermissions(0o644))
	if err != nil {
		return fmt.Errorf("create pending define manifest: %w", err)
	}
	defer func() {
		if err := pendingFile.Cleanup(); err != nil {
			logger.Debug().Err(err).Msg("cleanup pending define manifest")
		}
	}()

	if _, err := pendingFile.Write(data); err != nil {
		return fmt.Errorf("write define manifest: %w", err)
	}

	if err := pendingFile.CloseAtomicallyReplace(); err != nil {
		return fmt.Errorf("atomically replace define manifest: %w", err)
	}

	logger.Info().
		Str(xglog.FieldEvent, "define.manifest_written").
		Str(xglog.FieldPath, path).
		Int("constants", len(defines)).
		Msg("wrote define manifest")
	return nil
}
