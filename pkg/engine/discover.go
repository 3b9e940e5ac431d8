package engine

import (
	"fmt"
	"path/filepath"

	"github.com/arthur-debert/hangar/pkg/errors"
	"github.com/arthur-debert/hangar/pkg/paths"
	"github.com/arthur-debert/hangar/pkg/types"
)

// DetermineModFolders walks an extracted archive depth-first and returns
// every directory that directly contains a manifest.json, including the
// root itself. Nesting depth is unbounded. Duplicate folder names across
// discovered roots are not deduplicated; that is the caller's problem.
// Returns ErrNoMods when nothing qualifies.
func (e *Engine) DetermineModFolders(root string, r types.Reporter) ([]string, error) {
	types.Progress(r, fmt.Sprintf("Locating mods inside %s", root))

	var modFolders []string
	if err := e.findModFolders(root, &modFolders); err != nil {
		return nil, err
	}

	if len(modFolders) == 0 {
		return nil, errors.Newf(errors.ErrNoMods, "no mods found in %s", root).
			WithDetail("path", root)
	}

	return modFolders, nil
}

func (e *Engine) findModFolders(dir string, out *[]string) error {
	if e.hasManifest(dir) {
		*out = append(*out, dir)
	}

	entries, err := e.fs.ReadDir(dir)
	if err != nil {
		return errors.Wrapf(err, errors.ErrFileAccess, "cannot read %s", dir)
	}

	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		if err := e.findModFolders(filepath.Join(dir, entry.Name()), out); err != nil {
			return err
		}
	}

	return nil
}

func (e *Engine) hasManifest(dir string) bool {
	info, err := e.fs.Stat(filepath.Join(dir, paths.ManifestFile))
	return err == nil && !info.IsDir()
}
