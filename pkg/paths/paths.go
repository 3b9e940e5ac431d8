// Package paths provides centralized path handling for hangar.
// It implements XDG Base Directory specification compliance and
// provides a consistent API for all path operations in the codebase.
package paths

import (
	"os"
	"path/filepath"

	"github.com/adrg/xdg"
	"github.com/arthur-debert/hangar/pkg/errors"
)

// Environment variable names
const (
	// EnvSimPackages is the primary environment variable for the simulator
	// packages location, overriding both the remembered config value and
	// automatic detection
	EnvSimPackages = "HANGAR_SIM_PACKAGES"

	// EnvHangarDataDir overrides the XDG data directory for hangar
	EnvHangarDataDir = "HANGAR_DATA_DIR"

	// EnvHangarConfigDir overrides the XDG config directory for hangar
	EnvHangarConfigDir = "HANGAR_CONFIG_DIR"

	// EnvHangarCacheDir overrides the XDG cache directory for hangar
	EnvHangarCacheDir = "HANGAR_CACHE_DIR"

	// EnvHome is the standard home directory variable
	EnvHome = "HOME"
)

// Well-known file and directory names.
// IMPORTANT: These constants define the on-disk layout both of the
// simulator packages tree and of hangar's own data directories. They are
// NOT user-configurable.
const (
	// HangarDirName is the directory name for hangar-specific files
	HangarDirName = "hangar"

	// ManifestFile is the metadata file every mod folder must contain
	ManifestFile = "manifest.json"

	// LayoutFile is the optional file manifest inside a mod folder
	LayoutFile = "layout.json"

	// UserCfgFile is the simulator configuration file naming the
	// installed packages path
	UserCfgFile = "UserCfg.opt"

	// CommunityDirName is the subdirectory of the packages tree that the
	// simulator scans for enabled mods (the active location)
	CommunityDirName = "Community"

	// OfficialDirName is the subdirectory holding first-party packages
	OfficialDirName = "Official"

	// ModCacheDirName is the local holding directory for disabled mods
	// (the cache location)
	ModCacheDirName = "modCache"

	// ScratchDirName is the working directory archives are extracted into
	ScratchDirName = ".tmp"

	// BaselinePackage is the first-party package whose manifest carries
	// the game version
	BaselinePackage = "fs-base"

	// ConfigFileName is the name of hangar's own configuration file
	ConfigFileName = "hangar.toml"

	// LogFileName is the name of the log file
	LogFileName = "hangar.log"
)

// Paths provides centralized path management for hangar
type Paths interface {
	// SimPackagesDir returns the root of the simulator packages tree
	SimPackagesDir() string

	// CommunityDir returns the active mod location, with symbolic links on
	// the way resolved (the packages root and the Community entry itself
	// may each be a link on real installs)
	CommunityDir() string

	// OfficialDir returns the first-party packages location
	OfficialDir() string

	// ModCacheDir returns the cache location for disabled mods
	ModCacheDir() string

	// ScratchDir returns the working directory for archive extraction
	ScratchDir() string

	// ModPath returns the path a mod folder occupies for the given
	// enabled state
	ModPath(folderName string, enabled bool) string

	DataDir() string
	ConfigDir() string
	CacheDir() string
	ConfigFilePath() string
	LogFilePath() string
}

type paths struct {
	// simPackages is the root of the simulator packages tree
	simPackages string

	// xdgData is the XDG data directory
	xdgData string

	// xdgConfig is the XDG config directory
	xdgConfig string

	// xdgCache is the XDG cache directory
	xdgCache string

	// xdgState is the XDG state directory
	xdgState string
}

// New creates a new Paths instance rooted at the given simulator packages
// directory. The directory must be non-empty; callers that do not know it
// should run detection first (see FindSimPackages).
func New(simPackagesDir string) (Paths, error) {
	if simPackagesDir == "" {
		return nil, errors.New(errors.ErrInvalidInput, "simulator packages directory is required")
	}

	p := &paths{simPackages: expandHome(simPackagesDir)}

	absRoot, err := filepath.Abs(p.simPackages)
	if err != nil {
		return nil, errors.Wrapf(err, errors.ErrFileAccess, "failed to get absolute path for packages root")
	}
	p.simPackages = absRoot

	p.setupXDGDirs()

	return p, nil
}

// setupXDGDirs initializes XDG directories, respecting environment overrides
func (p *paths) setupXDGDirs() {
	if dataDir := os.Getenv(EnvHangarDataDir); dataDir != "" {
		p.xdgData = expandHome(dataDir)
	} else {
		p.xdgData = filepath.Join(xdg.DataHome, HangarDirName)
	}

	if configDir := os.Getenv(EnvHangarConfigDir); configDir != "" {
		p.xdgConfig = expandHome(configDir)
	} else {
		p.xdgConfig = filepath.Join(xdg.ConfigHome, HangarDirName)
	}

	if cacheDir := os.Getenv(EnvHangarCacheDir); cacheDir != "" {
		p.xdgCache = expandHome(cacheDir)
	} else {
		p.xdgCache = filepath.Join(xdg.CacheHome, HangarDirName)
	}

	// XDG doesn't provide StateHome on all versions, so check manually
	if stateDir := os.Getenv("XDG_STATE_HOME"); stateDir != "" {
		p.xdgState = filepath.Join(stateDir, HangarDirName)
	} else {
		homeDir, _ := os.UserHomeDir()
		p.xdgState = filepath.Join(homeDir, ".local", "state", HangarDirName)
	}
}

// DefaultConfigFilePath returns the location of hangar's configuration file
// without requiring a Paths instance. Detection needs the config file before
// the packages root is known.
func DefaultConfigFilePath() string {
	if configDir := os.Getenv(EnvHangarConfigDir); configDir != "" {
		return filepath.Join(expandHome(configDir), ConfigFileName)
	}
	return filepath.Join(xdg.ConfigHome, HangarDirName, ConfigFileName)
}

// expandHome expands ~ to the home directory
func expandHome(path string) string {
	if path == "" {
		return path
	}

	if path[0] == '~' {
		homeDir, err := os.UserHomeDir()
		if err != nil {
			homeDir = os.Getenv(EnvHome)
			if homeDir == "" {
				return path
			}
		}

		if len(path) == 1 {
			return homeDir
		}

		if path[1] == '/' || path[1] == filepath.Separator {
			return filepath.Join(homeDir, path[2:])
		}

		// ~something (not the user's home)
		return path
	}

	return path
}

// SimPackagesDir returns the root of the simulator packages tree
func (p *paths) SimPackagesDir() string {
	return p.simPackages
}

// CommunityDir returns the active mod location. Real installs sometimes
// relocate the packages root or the Community folder behind a symbolic
// link, so each step is resolved individually.
func (p *paths) CommunityDir() string {
	root := p.simPackages
	if target, err := os.Readlink(root); err == nil {
		root = target
	}

	community := filepath.Join(root, CommunityDirName)
	if target, err := os.Readlink(community); err == nil {
		community = target
	}

	return community
}

// OfficialDir returns the first-party packages location
func (p *paths) OfficialDir() string {
	return filepath.Join(p.simPackages, OfficialDirName)
}

// ModCacheDir returns the cache location for disabled mods
func (p *paths) ModCacheDir() string {
	return filepath.Join(p.xdgData, ModCacheDirName)
}

// ScratchDir returns the working directory for archive extraction
func (p *paths) ScratchDir() string {
	return filepath.Join(p.xdgCache, ScratchDirName)
}

// ModPath returns the path a mod folder occupies for the given enabled state
func (p *paths) ModPath(folderName string, enabled bool) string {
	if enabled {
		return filepath.Join(p.CommunityDir(), folderName)
	}
	return filepath.Join(p.ModCacheDir(), folderName)
}

// DataDir returns the XDG data directory for hangar
func (p *paths) DataDir() string {
	return p.xdgData
}

// ConfigDir returns the XDG config directory for hangar
func (p *paths) ConfigDir() string {
	return p.xdgConfig
}

// CacheDir returns the XDG cache directory for hangar
func (p *paths) CacheDir() string {
	return p.xdgCache
}

// ConfigFilePath returns the path to hangar's configuration file
func (p *paths) ConfigFilePath() string {
	return filepath.Join(p.xdgConfig, ConfigFileName)
}

// LogFilePath returns the path to the hangar log file.
// Respects XDG_STATE_HOME if set
func (p *paths) LogFilePath() string {
	return filepath.Join(p.xdgState, LogFileName)
}
