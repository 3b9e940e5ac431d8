package engine

import (
	"path/filepath"

	"github.com/arthur-debert/hangar/pkg/folders"
	"github.com/arthur-debert/hangar/pkg/logging"
	"github.com/arthur-debert/hangar/pkg/metadata"
	"github.com/arthur-debert/hangar/pkg/paths"
	"github.com/arthur-debert/hangar/pkg/types"
)

// GameVersionUnknown is returned by GetGameVersion when the simulator's
// baseline package cannot be located or read.
const GameVersionUnknown = "unknown"

// GetAllMods lists every managed mod, enabled and disabled. A folder name
// appearing in the active location never also appears as disabled, even
// when a cache copy exists behind its link.
//
// The listing self-heals as it goes: broken links in the active location
// and empty folders in either location are deleted and skipped, and
// folders whose manifest cannot be parsed are
// skipped with their failure collected in the returned error slice. A
// non-empty error slice accompanies whatever mods did list cleanly.
func (e *Engine) GetAllMods() ([]types.Mod, []error, error) {
	logger := logging.GetLogger("engine")
	defer logging.LogOperationStart(logger, "list")()

	if err := e.ensureDirs(); err != nil {
		return nil, nil, err
	}

	var mods []types.Mod
	var errs []error

	// Names seen in the active location. Their cache copies are the
	// backing data of an enabled mod, not a separate disabled one.
	active := make(map[string]bool)

	communityDir := e.paths.CommunityDir()
	names, err := e.ops.ListDirs(communityDir, false)
	if err != nil {
		return nil, nil, err
	}

	for _, name := range names {
		folder := filepath.Join(communityDir, name)

		target, state, err := e.ops.ResolveSymlink(folder)
		if err != nil {
			errs = append(errs, err)
			continue
		}

		switch state {
		case folders.LinkBroken:
			logger.Warn().Str("link", folder).Msg("Removing broken mod link")
			if err := e.ops.DeleteSymlink(folder); err != nil {
				errs = append(errs, err)
			}
			continue
		case folders.LinkResolved:
			active[name] = true
			folder = target
		case folders.NotALink:
			active[name] = true
		}

		if e.isEmptyDir(folder) {
			logger.Warn().Str("folder", folder).Msg("Removing empty mod folder")
			if err := e.ops.Delete(filepath.Join(communityDir, name), nil); err != nil {
				errs = append(errs, err)
			}
			delete(active, name)
			continue
		}

		mod, err := e.cache.ParseManifest(folder, true)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		mod.FolderName = name
		mods = append(mods, mod)
	}

	cacheNames, err := e.ops.ListDirs(e.paths.ModCacheDir(), false)
	if err != nil {
		return mods, errs, err
	}

	for _, name := range cacheNames {
		if active[name] {
			continue
		}

		folder := e.paths.ModPath(name, false)
		if e.isEmptyDir(folder) {
			logger.Warn().Str("folder", folder).Msg("Removing empty mod folder")
			if err := e.ops.Delete(folder, nil); err != nil {
				errs = append(errs, err)
			}
			continue
		}

		mod, err := e.cache.ParseManifest(folder, false)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		mods = append(mods, mod)
	}

	return mods, errs, nil
}

// isEmptyDir reports whether path is a readable directory with no entries.
func (e *Engine) isEmptyDir(path string) bool {
	entries, err := e.fs.ReadDir(path)
	return err == nil && len(entries) == 0
}

// GetGameVersion reads the simulator version from the baseline package's
// minimum_game_version under the Official directory. The baseline package sits one
// level deeper on store installs (Official/OneStore/fs-base and the like),
// so both depths are probed. Any failure yields GameVersionUnknown; the
// version is cosmetic and never worth failing an operation over.
func (e *Engine) GetGameVersion() string {
	official := e.paths.OfficialDir()

	candidates := []string{filepath.Join(official, paths.BaselinePackage)}
	if entries, err := e.fs.ReadDir(official); err == nil {
		for _, entry := range entries {
			if entry.IsDir() {
				candidates = append(candidates,
					filepath.Join(official, entry.Name(), paths.BaselinePackage))
			}
		}
	}

	for _, folder := range candidates {
		if !e.hasManifest(folder) {
			continue
		}
		// A throwaway cache keeps first-party packages out of the
		// engine's own memoization.
		mod, err := metadata.NewCache(e.fs).ParseManifest(folder, false)
		if err != nil {
			continue
		}
		if mod.MinimumGameVersion != "" {
			return mod.MinimumGameVersion
		}
	}

	return GameVersionUnknown
}
