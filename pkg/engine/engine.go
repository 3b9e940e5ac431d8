// Package engine is the mod management orchestrator. It is the only
// package with mod-domain knowledge: discovery of mods inside extracted
// archives, install, listing, and the enable/disable/uninstall transitions
// that reconcile the simulator's active folder, hangar's mod cache folder,
// and the symbolic links bridging them.
//
// All operations are synchronous and blocking. At most one mutating
// operation may be in flight per Engine; callers wanting background
// execution go through pkg/worker.
package engine

import (
	"fmt"
	"os"

	"github.com/arthur-debert/hangar/pkg/archive"
	"github.com/arthur-debert/hangar/pkg/errors"
	"github.com/arthur-debert/hangar/pkg/folders"
	"github.com/arthur-debert/hangar/pkg/logging"
	"github.com/arthur-debert/hangar/pkg/metadata"
	"github.com/arthur-debert/hangar/pkg/paths"
	"github.com/arthur-debert/hangar/pkg/types"
)

// Engine performs mod management operations against one simulator install.
type Engine struct {
	fs      types.FS
	paths   paths.Paths
	ops     *folders.Ops
	archive *archive.Service
	cache   *metadata.Cache
}

// New creates an engine for the simulator install described by p.
func New(fs types.FS, p paths.Paths) *Engine {
	return &Engine{
		fs:      fs,
		paths:   p,
		ops:     folders.New(fs),
		archive: archive.New(p.ScratchDir()),
		cache:   metadata.NewCache(fs),
	}
}

// Metadata exposes the engine's metadata cache for read-only queries such
// as layout and file listings.
func (e *Engine) Metadata() *metadata.Cache {
	return e.cache
}

// ClearCache drops all memoized metadata.
func (e *Engine) ClearCache() {
	e.cache.InvalidateAll()
}

// Enable makes a cache-resident mod visible to the simulator by creating a
// symbolic link in the active location pointing at the cache copy. The
// data itself is not touched, so enabling is near-instantaneous no matter
// how large the mod is.
func (e *Engine) Enable(name string, r types.Reporter) error {
	logger := logging.GetLogger("engine")
	defer logging.LogOperationStart(logger, "enable")()

	cachePath := e.paths.ModPath(name, false)
	if _, err := e.fs.Stat(cachePath); err != nil {
		if os.IsNotExist(err) {
			return errors.Newf(errors.ErrNotFound, "mod %s has no cache copy to enable", name).
				WithDetail("name", name)
		}
		return errors.Wrapf(err, errors.ErrFileAccess, "cannot access %s", cachePath)
	}

	activePath := e.paths.ModPath(name, true)
	types.Progress(r, fmt.Sprintf("Enabling %s", name))

	if err := e.ops.CreateSymlink(cachePath, activePath); err != nil {
		return err
	}

	e.cache.InvalidateAll()
	return nil
}

// Disable hides a mod from the simulator. A linked mod loses only its link
// (the cache copy is untouched); a physically-resident mod, for example one
// dropped into the active folder by hand, is moved into the cache, which is
// real I/O.
func (e *Engine) Disable(name string, r types.Reporter) error {
	logger := logging.GetLogger("engine")
	defer logging.LogOperationStart(logger, "disable")()

	activePath := e.paths.ModPath(name, true)

	if e.ops.IsSymlink(activePath) {
		types.Progress(r, fmt.Sprintf("Disabling %s", name))
		if err := e.ops.DeleteSymlink(activePath); err != nil {
			return err
		}
		e.cache.InvalidateAll()
		return nil
	}

	if _, err := e.fs.Lstat(activePath); err != nil {
		if os.IsNotExist(err) {
			return errors.Newf(errors.ErrNotFound, "mod %s is not enabled", name).
				WithDetail("name", name)
		}
		return errors.Wrapf(err, errors.ErrFileAccess, "cannot access %s", activePath)
	}

	types.Progress(r, fmt.Sprintf("Disabling %s", name))
	if err := e.ops.Move(activePath, e.paths.ModPath(name, false), r); err != nil {
		return err
	}

	e.cache.InvalidateAll()
	return nil
}

// Uninstall removes a mod outright, regardless of enabled state: the active
// entry (folder or link) and any cache copy are both deleted. Irreversible.
func (e *Engine) Uninstall(name string, r types.Reporter) error {
	logger := logging.GetLogger("engine")
	defer logging.LogOperationStart(logger, "uninstall")()

	types.Progress(r, fmt.Sprintf("Uninstalling %s", name))

	if err := e.ops.Delete(e.paths.ModPath(name, true), r); err != nil {
		return err
	}
	if err := e.ops.Delete(e.paths.ModPath(name, false), r); err != nil {
		return err
	}

	e.cache.InvalidateAll()
	return nil
}

// ensureDirs creates the managed directories that may not exist yet on a
// fresh install.
func (e *Engine) ensureDirs() error {
	if err := e.fs.MkdirAll(e.paths.ModCacheDir(), 0755); err != nil {
		return errors.Wrapf(err, errors.ErrFileAccess, "cannot create %s", e.paths.ModCacheDir())
	}
	if err := e.fs.MkdirAll(e.paths.CommunityDir(), 0755); err != nil {
		return errors.Wrapf(err, errors.ErrFileAccess, "cannot create %s", e.paths.CommunityDir())
	}
	return nil
}
