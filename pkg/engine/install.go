package engine

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/arthur-debert/hangar/pkg/logging"
	"github.com/arthur-debert/hangar/pkg/types"
)

// Install places every discovered mod folder under extractedRoot into the
// mod cache under its base name, then links it into the active location,
// so a freshly installed mod is immediately enabled. With deleteSource the
// source folders are moved instead of copied.
//
// The batch is best-effort: a failure on one mod folder does not roll back
// prior successes. Mods are processed in discovery order and the metadata
// cache is invalidated exactly once, after the whole batch; readers during
// the batch may observe stale entries and are expected to wait for
// completion.
func (e *Engine) Install(extractedRoot string, deleteSource bool, r types.Reporter) ([]string, []error, error) {
	logger := logging.GetLogger("engine")
	defer logging.LogOperationStart(logger, "install")()

	if err := e.ensureDirs(); err != nil {
		return nil, nil, err
	}

	modFolders, err := e.DetermineModFolders(extractedRoot, r)
	if err != nil {
		return nil, nil, err
	}

	var installed []string
	var errs []error

	for i, modFolder := range modFolders {
		name := filepath.Base(modFolder)
		types.Progress(r, fmt.Sprintf("Installing %s", name))
		types.Percent(r, i, len(modFolders))

		cachePath := e.paths.ModPath(name, false)

		var opErr error
		if deleteSource {
			opErr = e.ops.Move(modFolder, cachePath, r)
		} else {
			opErr = e.ops.Copy(modFolder, cachePath, r)
		}
		if opErr != nil {
			logger.Error().Err(opErr).Str("mod", name).Msg("Install failed for mod folder")
			errs = append(errs, opErr)
			continue
		}

		if err := e.ops.CreateSymlink(cachePath, e.paths.ModPath(name, true)); err != nil {
			logger.Error().Err(err).Str("mod", name).Msg("Link creation failed")
			errs = append(errs, err)
			continue
		}

		installed = append(installed, name)
	}

	types.Percent(r, len(modFolders), len(modFolders))
	e.cache.InvalidateAll()

	return installed, errs, nil
}

// InstallArchive extracts an archive and installs every mod found inside
// it. The extracted scratch copies are always consumed (moved), so the
// scratch directory holds nothing of value afterwards; deleteSource refers
// to them, not to the archive file, which is never touched.
func (e *Engine) InstallArchive(ctx context.Context, archivePath string, r types.Reporter) ([]string, []error, error) {
	logger := logging.GetLogger("engine")
	defer logging.LogOperationStart(logger, "install-archive")()

	extractedRoot, err := e.archive.Extract(ctx, archivePath, r)
	if err != nil {
		return nil, nil, err
	}

	return e.Install(extractedRoot, true, r)
}

// CreateBackup archives the entire active mod location into a single file.
func (e *Engine) CreateBackup(ctx context.Context, destArchive string, r types.Reporter) error {
	logger := logging.GetLogger("engine")
	defer logging.LogOperationStart(logger, "backup")()

	if err := e.ensureDirs(); err != nil {
		return err
	}

	return e.archive.CreateBackup(ctx, e.paths.CommunityDir(), destArchive, r)
}
