package types

// TimeModFormat is the display format for a mod's modification timestamp.
// The value is derived from filesystem metadata which is rewritten on
// copy/move on some platforms, so it is a display value only and must never
// be used as an ordering key.
const TimeModFormat = "2006-01-02 15:04:05"

// Mod is the parsed metadata for a single mod folder. The first group of
// fields comes from manifest.json (all optional in the file, defaulted to
// the empty string on read); the second group is populated by the engine
// from the folder the manifest was read from.
type Mod struct {
	ContentType        string `json:"content_type"`
	Title              string `json:"title"`
	Manufacturer       string `json:"manufacturer"`
	Creator            string `json:"creator"`
	Version            string `json:"package_version"`
	MinimumGameVersion string `json:"minimum_game_version"`

	// Engine-populated, never stored on disk.
	FolderName string `json:"-"`
	Enabled    bool   `json:"-"`
	FullPath   string `json:"-"`
	TimeMod    string `json:"-"`
}

// LayoutEntry is one content descriptor from layout.json's "content" array.
// The format is defined by the mod tooling, not by hangar; the fields below
// are the ones every known tool emits and anything else is ignored.
type LayoutEntry struct {
	Path string `json:"path"`
	Size int64  `json:"size"`
	Date int64  `json:"date"`
}

// FileEntry describes one file found by a raw tree scan of a mod folder.
// It is the fallback view of a mod's contents when layout.json is absent.
type FileEntry struct {
	RelPath string `json:"path"`
	Size    int64  `json:"size"`
}
