package engine_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/arthur-debert/hangar/pkg/engine"
	"github.com/arthur-debert/hangar/pkg/errors"
	"github.com/arthur-debert/hangar/pkg/filesystem"
	"github.com/arthur-debert/hangar/pkg/paths"
	"github.com/arthur-debert/hangar/pkg/testutil"
	"github.com/arthur-debert/hangar/pkg/types"
)

// newTestEngine builds an engine against a throwaway simulator tree and
// isolated hangar data directories.
func newTestEngine(t *testing.T) (*engine.Engine, paths.Paths) {
	t.Helper()

	root := t.TempDir()
	simRoot := filepath.Join(root, "Packages")
	require.NoError(t, os.MkdirAll(filepath.Join(simRoot, paths.CommunityDirName), 0755))
	require.NoError(t, os.MkdirAll(filepath.Join(simRoot, paths.OfficialDirName), 0755))

	t.Setenv(paths.EnvHangarDataDir, filepath.Join(root, "data"))
	t.Setenv(paths.EnvHangarConfigDir, filepath.Join(root, "config"))
	t.Setenv(paths.EnvHangarCacheDir, filepath.Join(root, "cache"))

	p, err := paths.New(simRoot)
	require.NoError(t, err)

	return engine.New(filesystem.NewOS(), p), p
}

func TestDetermineModFolders(t *testing.T) {
	t.Run("finds_nested_mods", func(t *testing.T) {
		e, _ := newTestEngine(t)

		extracted := t.TempDir()
		testutil.MakeModDir(t, extracted, "mod-a", testutil.ManifestFields{Title: "A"})
		testutil.MakeModDir(t, filepath.Join(extracted, "bundle", "deep"), "mod-b", testutil.ManifestFields{Title: "B"})

		found, err := e.DetermineModFolders(extracted, nil)
		require.NoError(t, err)
		require.Len(t, found, 2)
		assert.Equal(t, "mod-a", filepath.Base(found[0]))
		assert.Equal(t, "mod-b", filepath.Base(found[1]))
	})

	t.Run("root_itself_is_a_mod", func(t *testing.T) {
		e, _ := newTestEngine(t)

		extracted := t.TempDir()
		testutil.WriteManifest(t, extracted, testutil.ManifestFields{Title: "Root"})

		found, err := e.DetermineModFolders(extracted, nil)
		require.NoError(t, err)
		require.Len(t, found, 1)
		assert.Equal(t, extracted, found[0])
	})

	t.Run("no_mods", func(t *testing.T) {
		e, _ := newTestEngine(t)

		extracted := t.TempDir()
		require.NoError(t, os.MkdirAll(filepath.Join(extracted, "docs"), 0755))

		_, err := e.DetermineModFolders(extracted, nil)
		require.Error(t, err)
		assert.True(t, errors.IsErrorCode(err, errors.ErrNoMods))
	})
}

func TestInstall(t *testing.T) {
	t.Run("copy_links_and_lists_enabled", func(t *testing.T) {
		e, p := newTestEngine(t)

		extracted := t.TempDir()
		src := testutil.MakeModDir(t, extracted, "my-livery", testutil.ManifestFields{
			Title:          "My Livery",
			PackageVersion: "1.2.3",
		})

		installed, opErrs, err := e.Install(extracted, false, nil)
		require.NoError(t, err)
		assert.Empty(t, opErrs)
		assert.Equal(t, []string{"my-livery"}, installed)

		// Source survives a copy install.
		_, err = os.Stat(filepath.Join(src, "manifest.json"))
		assert.NoError(t, err)

		// Data lives in the cache, the active entry is a link to it.
		cachePath := p.ModPath("my-livery", false)
		info, err := os.Stat(cachePath)
		require.NoError(t, err)
		assert.True(t, info.IsDir())

		linkInfo, err := os.Lstat(p.ModPath("my-livery", true))
		require.NoError(t, err)
		assert.NotZero(t, linkInfo.Mode()&os.ModeSymlink)

		mods, listErrs, err := e.GetAllMods()
		require.NoError(t, err)
		assert.Empty(t, listErrs)
		require.Len(t, mods, 1)
		assert.Equal(t, "my-livery", mods[0].FolderName)
		assert.Equal(t, "My Livery", mods[0].Title)
		assert.Equal(t, "1.2.3", mods[0].Version)
		assert.True(t, mods[0].Enabled)
	})

	t.Run("move_consumes_source", func(t *testing.T) {
		e, _ := newTestEngine(t)

		extracted := t.TempDir()
		src := testutil.MakeModDir(t, extracted, "move-me", testutil.ManifestFields{Title: "Move Me"})

		installed, opErrs, err := e.Install(extracted, true, nil)
		require.NoError(t, err)
		assert.Empty(t, opErrs)
		assert.Equal(t, []string{"move-me"}, installed)

		_, err = os.Stat(src)
		assert.True(t, os.IsNotExist(err))
	})

	t.Run("best_effort_batch", func(t *testing.T) {
		e, p := newTestEngine(t)

		extracted := t.TempDir()
		testutil.MakeModDir(t, extracted, "clash-mod", testutil.ManifestFields{Title: "Clash"})
		testutil.MakeModDir(t, extracted, "good-mod", testutil.ManifestFields{Title: "Good"})

		// A non-empty real directory squatting on clash-mod's active path
		// makes its link creation fail; good-mod must still install.
		squatter := filepath.Join(p.CommunityDir(), "clash-mod")
		require.NoError(t, os.MkdirAll(squatter, 0755))
		require.NoError(t, os.WriteFile(filepath.Join(squatter, "stuff.txt"), []byte("x"), 0644))

		installed, opErrs, err := e.Install(extracted, false, nil)
		require.NoError(t, err)
		assert.Equal(t, []string{"good-mod"}, installed)
		require.Len(t, opErrs, 1)
		assert.True(t, errors.IsErrorCode(opErrs[0], errors.ErrSymlink))

		_, err = os.Stat(p.ModPath("good-mod", false))
		assert.NoError(t, err)
	})

	t.Run("no_mods_in_root", func(t *testing.T) {
		e, _ := newTestEngine(t)

		_, _, err := e.Install(t.TempDir(), false, nil)
		require.Error(t, err)
		assert.True(t, errors.IsErrorCode(err, errors.ErrNoMods))
	})
}

func TestInstallArchive(t *testing.T) {
	e, p := newTestEngine(t)

	archivePath := testutil.ZipModArchive(t, t.TempDir(), "sample.zip", "MyLiveries")

	installed, opErrs, err := e.InstallArchive(context.Background(), archivePath, nil)
	require.NoError(t, err)
	assert.Empty(t, opErrs)
	assert.Equal(t, []string{"MyLiveries"}, installed)

	mods, listErrs, err := e.GetAllMods()
	require.NoError(t, err)
	assert.Empty(t, listErrs)
	require.Len(t, mods, 1)
	assert.Equal(t, "MyLiveries", mods[0].FolderName)
	assert.True(t, mods[0].Enabled)

	// The archive itself is never consumed.
	_, err = os.Stat(archivePath)
	assert.NoError(t, err)

	// The extracted scratch copy was moved into the cache.
	_, err = os.Stat(filepath.Join(p.ScratchDir(), "sample", "MyLiveries"))
	assert.True(t, os.IsNotExist(err))
}

func TestEnableDisable(t *testing.T) {
	t.Run("round_trip_preserves_data", func(t *testing.T) {
		e, p := newTestEngine(t)

		extracted := t.TempDir()
		testutil.MakeModDir(t, extracted, "toggle-mod", testutil.ManifestFields{Title: "Toggle"})
		_, _, err := e.Install(extracted, false, nil)
		require.NoError(t, err)

		cachePath := p.ModPath("toggle-mod", false)
		before, err := e.Metadata().ParseFiles(cachePath)
		require.NoError(t, err)
		infoBefore, err := os.Stat(filepath.Join(cachePath, "SimObjects", "texture.dds"))
		require.NoError(t, err)

		require.NoError(t, e.Disable("toggle-mod", nil))
		require.NoError(t, e.Enable("toggle-mod", nil))
		require.NoError(t, e.Disable("toggle-mod", nil))
		require.NoError(t, e.Enable("toggle-mod", nil))

		after, err := e.Metadata().ParseFiles(cachePath)
		require.NoError(t, err)
		assert.Equal(t, before, after)

		infoAfter, err := os.Stat(filepath.Join(cachePath, "SimObjects", "texture.dds"))
		require.NoError(t, err)
		assert.True(t, infoBefore.ModTime().Equal(infoAfter.ModTime()))
	})

	t.Run("disable_removes_only_the_link", func(t *testing.T) {
		e, p := newTestEngine(t)

		extracted := t.TempDir()
		testutil.MakeModDir(t, extracted, "linked-mod", testutil.ManifestFields{Title: "Linked"})
		_, _, err := e.Install(extracted, false, nil)
		require.NoError(t, err)

		require.NoError(t, e.Disable("linked-mod", nil))

		_, err = os.Lstat(p.ModPath("linked-mod", true))
		assert.True(t, os.IsNotExist(err))
		_, err = os.Stat(p.ModPath("linked-mod", false))
		assert.NoError(t, err)
	})

	t.Run("disable_moves_physical_mod", func(t *testing.T) {
		e, p := newTestEngine(t)

		// Mod dropped straight into the active folder by hand.
		testutil.MakeModDir(t, p.CommunityDir(), "hand-made", testutil.ManifestFields{Title: "Hand Made"})

		require.NoError(t, e.Disable("hand-made", nil))

		_, err := os.Lstat(p.ModPath("hand-made", true))
		assert.True(t, os.IsNotExist(err))
		_, err = os.Stat(filepath.Join(p.ModPath("hand-made", false), "manifest.json"))
		assert.NoError(t, err)
	})

	t.Run("enable_when_already_enabled", func(t *testing.T) {
		e, p := newTestEngine(t)

		extracted := t.TempDir()
		testutil.MakeModDir(t, extracted, "twice", testutil.ManifestFields{Title: "Twice"})
		_, _, err := e.Install(extracted, false, nil)
		require.NoError(t, err)

		// Install already enabled it; enabling again just replaces the link.
		require.NoError(t, e.Enable("twice", nil))

		target, err := os.Readlink(p.ModPath("twice", true))
		require.NoError(t, err)
		assert.Equal(t, p.ModPath("twice", false), target)

		mods, _, err := e.GetAllMods()
		require.NoError(t, err)
		require.Len(t, mods, 1)
	})

	t.Run("enable_without_cache_copy", func(t *testing.T) {
		e, _ := newTestEngine(t)

		err := e.Enable("ghost", nil)
		require.Error(t, err)
		assert.True(t, errors.IsErrorCode(err, errors.ErrNotFound))
	})

	t.Run("disable_not_enabled", func(t *testing.T) {
		e, _ := newTestEngine(t)

		err := e.Disable("ghost", nil)
		require.Error(t, err)
		assert.True(t, errors.IsErrorCode(err, errors.ErrNotFound))
	})
}

func TestUninstall(t *testing.T) {
	t.Run("removes_link_and_cache_copy", func(t *testing.T) {
		e, p := newTestEngine(t)

		extracted := t.TempDir()
		testutil.MakeModDir(t, extracted, "doomed", testutil.ManifestFields{Title: "Doomed"})
		_, _, err := e.Install(extracted, false, nil)
		require.NoError(t, err)

		require.NoError(t, e.Uninstall("doomed", nil))

		_, err = os.Lstat(p.ModPath("doomed", true))
		assert.True(t, os.IsNotExist(err))
		_, err = os.Stat(p.ModPath("doomed", false))
		assert.True(t, os.IsNotExist(err))

		mods, _, err := e.GetAllMods()
		require.NoError(t, err)
		assert.Empty(t, mods)
	})

	t.Run("removes_disabled_mod", func(t *testing.T) {
		e, p := newTestEngine(t)

		testutil.MakeModDir(t, p.ModCacheDir(), "dormant", testutil.ManifestFields{Title: "Dormant"})

		require.NoError(t, e.Uninstall("dormant", nil))
		_, err := os.Stat(p.ModPath("dormant", false))
		assert.True(t, os.IsNotExist(err))
	})
}

func TestGetAllMods(t *testing.T) {
	t.Run("enabled_mod_never_double_reported", func(t *testing.T) {
		e, _ := newTestEngine(t)

		extracted := t.TempDir()
		testutil.MakeModDir(t, extracted, "once-only", testutil.ManifestFields{Title: "Once"})
		_, _, err := e.Install(extracted, false, nil)
		require.NoError(t, err)

		mods, listErrs, err := e.GetAllMods()
		require.NoError(t, err)
		assert.Empty(t, listErrs)
		require.Len(t, mods, 1)
		assert.True(t, mods[0].Enabled)
	})

	t.Run("mixed_states", func(t *testing.T) {
		e, p := newTestEngine(t)

		extracted := t.TempDir()
		testutil.MakeModDir(t, extracted, "enabled-mod", testutil.ManifestFields{Title: "Enabled"})
		_, _, err := e.Install(extracted, false, nil)
		require.NoError(t, err)

		testutil.MakeModDir(t, p.ModCacheDir(), "disabled-mod", testutil.ManifestFields{Title: "Disabled"})
		testutil.MakeModDir(t, p.CommunityDir(), "physical-mod", testutil.ManifestFields{Title: "Physical"})

		mods, listErrs, err := e.GetAllMods()
		require.NoError(t, err)
		assert.Empty(t, listErrs)
		require.Len(t, mods, 3)

		byName := make(map[string]types.Mod, len(mods))
		for _, m := range mods {
			byName[m.FolderName] = m
		}
		assert.True(t, byName["enabled-mod"].Enabled)
		assert.True(t, byName["physical-mod"].Enabled)
		assert.False(t, byName["disabled-mod"].Enabled)

		// No name appears in both states.
		assert.Len(t, byName, 3)
	})

	t.Run("broken_link_is_removed_and_skipped", func(t *testing.T) {
		e, p := newTestEngine(t)

		require.NoError(t, os.MkdirAll(p.CommunityDir(), 0755))
		link := filepath.Join(p.CommunityDir(), "dangling")
		require.NoError(t, os.Symlink(filepath.Join(p.ModCacheDir(), "gone"), link))

		mods, listErrs, err := e.GetAllMods()
		require.NoError(t, err)
		assert.Empty(t, listErrs)
		assert.Empty(t, mods)

		_, err = os.Lstat(link)
		assert.True(t, os.IsNotExist(err))
	})

	t.Run("empty_folder_is_removed_and_skipped", func(t *testing.T) {
		e, p := newTestEngine(t)

		require.NoError(t, os.MkdirAll(filepath.Join(p.CommunityDir(), "hollow"), 0755))

		mods, listErrs, err := e.GetAllMods()
		require.NoError(t, err)
		assert.Empty(t, listErrs)
		assert.Empty(t, mods)

		_, err = os.Stat(filepath.Join(p.CommunityDir(), "hollow"))
		assert.True(t, os.IsNotExist(err))
	})

	t.Run("corrupt_manifest_collected_not_raised", func(t *testing.T) {
		e, p := newTestEngine(t)

		testutil.MakeModDir(t, p.ModCacheDir(), "healthy", testutil.ManifestFields{Title: "Healthy"})

		corrupt := filepath.Join(p.ModCacheDir(), "corrupt")
		require.NoError(t, os.MkdirAll(corrupt, 0755))
		require.NoError(t, os.WriteFile(filepath.Join(corrupt, "manifest.json"), []byte("{not json"), 0644))

		mods, listErrs, err := e.GetAllMods()
		require.NoError(t, err)
		require.Len(t, listErrs, 1)
		assert.True(t, errors.IsErrorCode(listErrs[0], errors.ErrManifestParse))
		require.Len(t, mods, 1)
		assert.Equal(t, "healthy", mods[0].FolderName)
	})

	t.Run("folder_without_manifest_collected", func(t *testing.T) {
		e, p := newTestEngine(t)

		bare := filepath.Join(p.ModCacheDir(), "bare")
		require.NoError(t, os.MkdirAll(bare, 0755))
		require.NoError(t, os.WriteFile(filepath.Join(bare, "stuff.txt"), []byte("x"), 0644))

		mods, listErrs, err := e.GetAllMods()
		require.NoError(t, err)
		require.Len(t, listErrs, 1)
		assert.True(t, errors.IsErrorCode(listErrs[0], errors.ErrNoManifest))
		assert.Empty(t, mods)
	})
}

func TestGetGameVersion(t *testing.T) {
	t.Run("baseline_one_level_deep", func(t *testing.T) {
		e, p := newTestEngine(t)

		base := filepath.Join(p.OfficialDir(), "OneStore", paths.BaselinePackage)
		testutil.WriteManifest(t, base, testutil.ManifestFields{MinimumGameVersion: "1.37.19.0"})

		assert.Equal(t, "1.37.19.0", e.GetGameVersion())
	})

	t.Run("baseline_directly_under_official", func(t *testing.T) {
		e, p := newTestEngine(t)

		base := filepath.Join(p.OfficialDir(), paths.BaselinePackage)
		testutil.WriteManifest(t, base, testutil.ManifestFields{MinimumGameVersion: "1.2.3"})

		assert.Equal(t, "1.2.3", e.GetGameVersion())
	})

	t.Run("missing_baseline", func(t *testing.T) {
		e, _ := newTestEngine(t)
		assert.Equal(t, engine.GameVersionUnknown, e.GetGameVersion())
	})
}

func TestCreateBackup(t *testing.T) {
	e, _ := newTestEngine(t)

	extracted := t.TempDir()
	testutil.MakeModDir(t, extracted, "backed-up", testutil.ManifestFields{Title: "Backed Up"})
	_, _, err := e.Install(extracted, false, nil)
	require.NoError(t, err)

	dest := filepath.Join(t.TempDir(), "community-backup.zip")
	require.NoError(t, e.CreateBackup(context.Background(), dest, nil))

	info, err := os.Stat(dest)
	require.NoError(t, err)
	assert.Greater(t, info.Size(), int64(0))
}
