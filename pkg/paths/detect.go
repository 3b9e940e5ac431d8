package paths

import (
	"bufio"
	"os"
	"path/filepath"
	"strings"

	"github.com/arthur-debert/hangar/pkg/errors"
	"github.com/arthur-debert/hangar/pkg/logging"
)

// ParseUserCfg reads a simulator UserCfg.opt file and returns the installed
// packages path it names. The file is a flat list of lines; the one we want
// starts with "InstalledPackagesPath" followed by a space and a quote-wrapped
// path.
func ParseUserCfg(filename string) (string, error) {
	f, err := os.Open(filename)
	if err != nil {
		return "", errors.Wrapf(err, errors.ErrFileAccess, "cannot open %s", filename)
	}
	defer func() { _ = f.Close() }()

	var line string
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		if strings.HasPrefix(scanner.Text(), "InstalledPackagesPath") {
			line = scanner.Text()
		}
	}
	if err := scanner.Err(); err != nil {
		return "", errors.Wrapf(err, errors.ErrFileAccess, "cannot read %s", filename)
	}

	if line == "" {
		return "", errors.Newf(errors.ErrSimNotFound, "no InstalledPackagesPath entry in %s", filename)
	}

	// Split once and take the value half, then strip the quoting.
	parts := strings.SplitN(line, " ", 2)
	if len(parts) != 2 {
		return "", errors.Newf(errors.ErrSimNotFound, "malformed InstalledPackagesPath entry in %s", filename)
	}
	value := strings.TrimSpace(parts[1])
	value = strings.Trim(value, `"'`)

	resolved, err := filepath.EvalSymlinks(value)
	if err != nil {
		// The path may not exist yet; hand back the cleaned literal value.
		return filepath.Clean(value), nil
	}
	return resolved, nil
}

// IsSimPackagesDir reports whether the given directory looks like the
// simulator packages root. Not a perfect test, but a solid guess: the real
// one contains both the Official and Community subdirectories.
func IsSimPackagesDir(dir string) bool {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return false
	}

	var hasOfficial, hasCommunity bool
	for _, entry := range entries {
		switch entry.Name() {
		case OfficialDirName:
			hasOfficial = true
		case CommunityDirName:
			hasCommunity = true
		}
	}
	return hasOfficial && hasCommunity
}

// isSimInstallDir reports whether the directory looks like a simulator
// install (as opposed to the packages tree): it carries a UserCfg.opt.
func isSimInstallDir(dir string) bool {
	info, err := os.Stat(filepath.Join(dir, UserCfgFile))
	return err == nil && !info.IsDir()
}

// candidateInstallDirs returns the install locations worth probing, built
// from platform environment variables. Variables that are unset on the
// current platform simply contribute no candidates.
func candidateInstallDirs() []string {
	var candidates []string

	if appData := os.Getenv("APPDATA"); appData != "" {
		candidates = append(candidates, filepath.Join(appData, "Microsoft Flight Simulator"))
	}
	if localAppData := os.Getenv("LOCALAPPDATA"); localAppData != "" {
		candidates = append(candidates, filepath.Join(localAppData,
			"Packages", "Microsoft.FlightSimulator_8wekyb3d8bbwe", "LocalCache"))
	}
	if programFiles := os.Getenv("PROGRAMFILES(X86)"); programFiles != "" {
		candidates = append(candidates, filepath.Join(programFiles,
			"Steam", "steamapps", "common", "MicrosoftFlightSimulator"))
	}

	return candidates
}

// FindSimPackages attempts to locate the simulator packages tree.
// The remembered argument is the previously-detected path from the config
// store; it wins when it still looks valid. After that the HANGAR_SIM_PACKAGES
// environment variable is honored, then known install locations are probed
// for a UserCfg.opt naming the packages path.
//
// Returns the packages directory and whether it came from the remembered
// config value (so callers know not to re-persist it).
func FindSimPackages(remembered string) (string, bool, error) {
	logger := logging.GetLogger("paths.detect")

	if remembered != "" && IsSimPackagesDir(remembered) {
		logger.Debug().Str("path", remembered).Msg("Using remembered packages path")
		return remembered, true, nil
	}

	if env := os.Getenv(EnvSimPackages); env != "" && IsSimPackagesDir(env) {
		logger.Debug().Str("path", env).Msg("Using packages path from environment")
		return env, false, nil
	}

	for _, installDir := range candidateInstallDirs() {
		if !isSimInstallDir(installDir) {
			continue
		}

		packagesDir, err := ParseUserCfg(filepath.Join(installDir, UserCfgFile))
		if err != nil {
			logger.Debug().Err(err).Str("installDir", installDir).Msg("UserCfg.opt parse failed")
			continue
		}

		if IsSimPackagesDir(packagesDir) {
			logger.Debug().Str("path", packagesDir).Msg("Detected packages path")
			return packagesDir, false, nil
		}
	}

	return "", false, errors.New(errors.ErrSimNotFound, "could not locate the simulator packages directory")
}
