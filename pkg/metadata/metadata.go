// Package metadata parses mod manifests and layouts and memoizes the
// results in an explicit cache keyed by canonical absolute folder path.
//
// The cache is deliberately a plain object owned by the engine rather than
// hidden memoization: invalidation ordering is part of the engine's
// contract and has to be testable. It is NOT safe for concurrent use;
// callers must ensure invalidation happens-before subsequent reads.
package metadata

import (
	"encoding/json"
	"path/filepath"

	"github.com/arthur-debert/hangar/pkg/errors"
	"github.com/arthur-debert/hangar/pkg/logging"
	"github.com/arthur-debert/hangar/pkg/paths"
	"github.com/arthur-debert/hangar/pkg/types"
)

// Cache parses and memoizes per-folder mod metadata. Entries never expire
// on their own; they are dropped only by InvalidateAll.
type Cache struct {
	fs        types.FS
	manifests map[string]types.Mod
	layouts   map[string][]types.LayoutEntry
	files     map[string][]types.FileEntry
}

// NewCache creates an empty metadata cache reading through the given
// filesystem.
func NewCache(fs types.FS) *Cache {
	c := &Cache{fs: fs}
	c.reset()
	return c
}

func (c *Cache) reset() {
	c.manifests = make(map[string]types.Mod)
	c.layouts = make(map[string][]types.LayoutEntry)
	c.files = make(map[string][]types.FileEntry)
}

// InvalidateAll drops every memoized entry. The engine calls this after any
// operation that adds, moves, renames, or deletes mod folders, before the
// next listing request.
func (c *Cache) InvalidateAll() {
	logger := logging.GetLogger("metadata")
	logger.Debug().
		Int("manifests", len(c.manifests)).
		Int("layouts", len(c.layouts)).
		Int("files", len(c.files)).
		Msg("Invalidating metadata cache")

	c.reset()
}

// Len returns the number of memoized manifest entries. Exposed for tests.
func (c *Cache) Len() int {
	return len(c.manifests)
}

// ParseManifest reads and memoizes modFolder's manifest.json. The enabled
// flag is a caller-supplied hint stored in the result, not part of the
// cache key: active- and cache-location paths already differ, which is what
// keeps entries distinct.
func (c *Cache) ParseManifest(modFolder string, enabled bool) (types.Mod, error) {
	key := canonicalKey(modFolder)

	if mod, ok := c.manifests[key]; ok {
		mod.Enabled = enabled
		return mod, nil
	}

	manifestPath := filepath.Join(modFolder, paths.ManifestFile)
	info, err := c.fs.Stat(manifestPath)
	if err != nil || info.IsDir() {
		return types.Mod{}, errors.Newf(errors.ErrNoManifest, "no manifest.json in %s", modFolder).
			WithDetail("path", modFolder)
	}

	data, err := c.fs.ReadFile(manifestPath)
	if err != nil {
		return types.Mod{}, errors.Wrapf(err, errors.ErrFileAccess, "cannot read %s", manifestPath)
	}

	var mod types.Mod
	if err := json.Unmarshal(data, &mod); err != nil {
		return types.Mod{}, errors.Wrapf(err, errors.ErrManifestParse, "invalid manifest in %s", modFolder).
			WithDetail("path", modFolder)
	}

	mod.FolderName = filepath.Base(modFolder)
	mod.FullPath = key

	// Best-effort display value; mtimes are rewritten on copy/move on some
	// platforms, so this is never an ordering key.
	if folderInfo, err := c.fs.Stat(modFolder); err == nil {
		mod.TimeMod = folderInfo.ModTime().Format(types.TimeModFormat)
	}

	c.manifests[key] = mod

	mod.Enabled = enabled
	return mod, nil
}

// ParseLayout reads and memoizes modFolder's layout.json, returning its
// content array verbatim. Mods are free to omit the file; callers recover
// by falling back to ParseFiles.
func (c *Cache) ParseLayout(modFolder string) ([]types.LayoutEntry, error) {
	key := canonicalKey(modFolder)

	if entries, ok := c.layouts[key]; ok {
		return entries, nil
	}

	layoutPath := filepath.Join(modFolder, paths.LayoutFile)
	info, err := c.fs.Stat(layoutPath)
	if err != nil || info.IsDir() {
		return nil, errors.Newf(errors.ErrNoLayout, "no layout.json in %s", modFolder).
			WithDetail("path", modFolder)
	}

	data, err := c.fs.ReadFile(layoutPath)
	if err != nil {
		return nil, errors.Wrapf(err, errors.ErrFileAccess, "cannot read %s", layoutPath)
	}

	var layout struct {
		Content []types.LayoutEntry `json:"content"`
	}
	if err := json.Unmarshal(data, &layout); err != nil {
		return nil, errors.Wrapf(err, errors.ErrLayoutParse, "invalid layout in %s", modFolder).
			WithDetail("path", modFolder)
	}

	c.layouts[key] = layout.Content
	return layout.Content, nil
}

// ParseFiles walks modFolder and memoizes the relative path and size of
// every file underneath it. It always succeeds for an existing folder; an
// empty folder yields an empty list.
func (c *Cache) ParseFiles(modFolder string) ([]types.FileEntry, error) {
	key := canonicalKey(modFolder)

	if entries, ok := c.files[key]; ok {
		return entries, nil
	}

	entries := []types.FileEntry{}
	if err := c.walkFiles(modFolder, "", &entries); err != nil {
		return nil, err
	}

	c.files[key] = entries
	return entries, nil
}

func (c *Cache) walkFiles(root, rel string, out *[]types.FileEntry) error {
	dir := filepath.Join(root, rel)
	dirEntries, err := c.fs.ReadDir(dir)
	if err != nil {
		return errors.Wrapf(err, errors.ErrFileAccess, "cannot read %s", dir)
	}

	for _, entry := range dirEntries {
		entryRel := filepath.Join(rel, entry.Name())
		if entry.IsDir() {
			if err := c.walkFiles(root, entryRel, out); err != nil {
				return err
			}
			continue
		}
		info, err := entry.Info()
		if err != nil {
			return errors.Wrapf(err, errors.ErrFileAccess, "cannot stat %s", filepath.Join(dir, entry.Name()))
		}
		*out = append(*out, types.FileEntry{RelPath: entryRel, Size: info.Size()})
	}

	return nil
}

// canonicalKey normalizes a mod folder path into the cache key.
func canonicalKey(path string) string {
	if abs, err := filepath.Abs(path); err == nil {
		return filepath.Clean(abs)
	}
	return filepath.Clean(path)
}
