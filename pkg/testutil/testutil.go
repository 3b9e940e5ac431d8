// Package testutil provides shared helpers for hangar's tests: building
// mod folders on disk and writing small zip fixtures.
package testutil

import (
	"archive/zip"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

// ManifestFields is the subset of manifest.json fields tests care about.
type ManifestFields struct {
	ContentType        string `json:"content_type,omitempty"`
	Title              string `json:"title,omitempty"`
	Manufacturer       string `json:"manufacturer,omitempty"`
	Creator            string `json:"creator,omitempty"`
	PackageVersion     string `json:"package_version,omitempty"`
	MinimumGameVersion string `json:"minimum_game_version,omitempty"`
}

// WriteManifest writes a manifest.json into dir.
func WriteManifest(t *testing.T, dir string, fields ManifestFields) {
	t.Helper()
	data, err := json.Marshal(fields)
	require.NoError(t, err)
	require.NoError(t, os.MkdirAll(dir, 0755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "manifest.json"), data, 0644))
}

// MakeModDir creates a mod folder under root with a manifest and a couple
// of content files, returning its path.
func MakeModDir(t *testing.T, root, name string, fields ManifestFields) string {
	t.Helper()

	dir := filepath.Join(root, name)
	WriteManifest(t, dir, fields)

	require.NoError(t, os.MkdirAll(filepath.Join(dir, "SimObjects"), 0755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "SimObjects", "texture.dds"), []byte("texture-data"), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "readme.txt"), []byte("readme"), 0644))

	return dir
}

// WriteLayout writes a layout.json with the given content entries into dir.
func WriteLayout(t *testing.T, dir string, content []map[string]interface{}) {
	t.Helper()
	data, err := json.Marshal(map[string]interface{}{"content": content})
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "layout.json"), data, 0644))
}

// WriteZip writes a zip archive at archivePath whose entries map archive
// names to file contents. Names ending in "/" become directories.
func WriteZip(t *testing.T, archivePath string, entries map[string]string) {
	t.Helper()

	require.NoError(t, os.MkdirAll(filepath.Dir(archivePath), 0755))
	f, err := os.Create(archivePath)
	require.NoError(t, err)

	w := zip.NewWriter(f)
	for name, content := range entries {
		if name[len(name)-1] == '/' {
			_, err := w.Create(name)
			require.NoError(t, err)
			continue
		}
		fw, err := w.Create(name)
		require.NoError(t, err)
		_, err = fw.Write([]byte(content))
		require.NoError(t, err)
	}
	require.NoError(t, w.Close())
	require.NoError(t, f.Close())
}

// ZipModArchive writes a zip containing a single mod folder with a valid
// manifest, returning the archive path.
func ZipModArchive(t *testing.T, dir, archiveName, modName string) string {
	t.Helper()

	archivePath := filepath.Join(dir, archiveName)
	WriteZip(t, archivePath, map[string]string{
		modName + "/manifest.json":          `{"title": "` + modName + `", "package_version": "1.0.0"}`,
		modName + "/SimObjects/texture.dds": "texture-data",
	})
	return archivePath
}
