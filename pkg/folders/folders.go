// Package folders implements the primitive, retryable filesystem actions
// hangar is built on: tree delete with permission repair, recursive copy,
// move, symlink management, and directory queries. Nothing in this package
// knows what a mod is.
package folders

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/arthur-debert/hangar/pkg/errors"
	"github.com/arthur-debert/hangar/pkg/logging"
	"github.com/arthur-debert/hangar/pkg/types"
)

// LinkState classifies the result of resolving a path that may be a
// symbolic link. The three cases are deliberately distinct: callers that
// conflate "resolved" with "broken" end up with not-found errors deep
// inside later walks instead of a clean condition at the point of
// resolution.
type LinkState int

const (
	// NotALink means the path is not a symbolic link
	NotALink LinkState = iota
	// LinkResolved means the path is a link and its target exists
	LinkResolved
	// LinkBroken means the path is a link whose target is gone
	LinkBroken
)

// Ops performs folder operations through a types.FS.
type Ops struct {
	fs types.FS
}

// New creates folder operations backed by the given filesystem.
func New(fs types.FS) *Ops {
	return &Ops{fs: fs}
}

// Delete removes a directory tree (or a symbolic link) if present; absent
// paths are a no-op. On a permission failure it recursively grants write
// permission to everything underneath and retries exactly once; a second
// failure surfaces an access error naming the path. Never retries more than
// once, so an externally-locked tree fails fast instead of looping.
func (o *Ops) Delete(path string, r types.Reporter) error {
	return o.delete(path, r, true)
}

func (o *Ops) delete(path string, r types.Reporter, firstAttempt bool) error {
	if _, err := o.fs.Lstat(path); err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return errors.Wrapf(err, errors.ErrFileAccess, "cannot access %s", path)
	}

	types.Progress(r, fmt.Sprintf("Deleting directory %s", path))

	err := o.fs.RemoveAll(path)
	if err == nil {
		return nil
	}

	if !isPermission(err) {
		return errors.Wrapf(err, errors.ErrFileAccess, "cannot delete %s", path)
	}

	if !firstAttempt {
		return errors.Newf(errors.ErrAccess, "cannot delete %s after permission repair", path).
			WithDetail("path", path)
	}

	o.fixPermissions(path, r)
	return o.delete(path, r, false)
}

// fixPermissions recursively grants write permission to every file and
// directory under folder so the tree can be deleted. Failures on individual
// entries are ignored; the retry in Delete is the arbiter of success.
func (o *Ops) fixPermissions(folder string, r types.Reporter) {
	logger := logging.GetLogger("folders")
	logger.Debug().Str("path", folder).Msg("Fixing permissions")

	types.Progress(r, fmt.Sprintf("Fixing permissions for %s", folder))

	// The folder itself needs to be writable and traversable too.
	_ = o.fs.Chmod(folder, 0700)

	entries, err := o.fs.ReadDir(folder)
	if err != nil {
		return
	}

	for _, entry := range entries {
		path := filepath.Join(folder, entry.Name())
		if entry.IsDir() {
			o.fixPermissions(path, r)
			continue
		}
		_ = o.fs.Chmod(path, 0600)
	}
}

// Copy recursively copies a directory tree if src exists; an absent src is
// a no-op. Any existing dest is deleted first (with the same permission
// repair semantics as Delete). File modes are preserved; symbolic links
// inside the tree are recreated rather than followed.
func (o *Ops) Copy(src, dest string, r types.Reporter) error {
	info, err := o.fs.Stat(src)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return errors.Wrapf(err, errors.ErrFileAccess, "cannot access %s", src)
	}
	if !info.IsDir() {
		return nil
	}

	if err := o.Delete(dest, r); err != nil {
		return err
	}

	types.Progress(r, fmt.Sprintf("Copying %s to %s", src, dest))

	return o.copyTree(src, dest, info.Mode())
}

func (o *Ops) copyTree(src, dest string, mode fs.FileMode) error {
	if err := o.fs.MkdirAll(dest, mode.Perm()); err != nil {
		return errors.Wrapf(err, errors.ErrFileAccess, "cannot create %s", dest)
	}

	entries, err := o.fs.ReadDir(src)
	if err != nil {
		return errors.Wrapf(err, errors.ErrFileAccess, "cannot read %s", src)
	}

	for _, entry := range entries {
		srcPath := filepath.Join(src, entry.Name())
		destPath := filepath.Join(dest, entry.Name())

		if entry.Type()&fs.ModeSymlink != 0 {
			target, err := o.fs.Readlink(srcPath)
			if err != nil {
				return errors.Wrapf(err, errors.ErrSymlink, "cannot read link %s", srcPath)
			}
			if err := o.fs.Symlink(target, destPath); err != nil {
				return errors.Wrapf(err, errors.ErrSymlink, "cannot recreate link %s", destPath)
			}
			continue
		}

		info, err := entry.Info()
		if err != nil {
			return errors.Wrapf(err, errors.ErrFileAccess, "cannot stat %s", srcPath)
		}

		if entry.IsDir() {
			if err := o.copyTree(srcPath, destPath, info.Mode()); err != nil {
				return err
			}
			continue
		}

		data, err := o.fs.ReadFile(srcPath)
		if err != nil {
			return errors.Wrapf(err, errors.ErrFileAccess, "cannot read %s", srcPath)
		}
		if err := o.fs.WriteFile(destPath, data, info.Mode().Perm()); err != nil {
			return errors.Wrapf(err, errors.ErrFileAccess, "cannot write %s", destPath)
		}
	}

	return nil
}

// Move copies src to dest and then deletes src. This is deliberately not
// atomic: a crash in between leaves both trees present, which callers treat
// as a resumable condition because a mod's enabled state is derived from
// which location it occupies, not from metadata.
func (o *Ops) Move(src, dest string, r types.Reporter) error {
	if err := o.Copy(src, dest, r); err != nil {
		return err
	}
	return o.Delete(src, r)
}

// CreateSymlink creates a symbolic link at link pointing to target,
// replacing any existing entry at link. Parent directories are created as
// needed.
func (o *Ops) CreateSymlink(target, link string) error {
	if err := o.fs.MkdirAll(filepath.Dir(link), 0755); err != nil {
		return errors.Wrapf(err, errors.ErrSymlink, "cannot create parent of %s", link)
	}

	if _, err := o.fs.Lstat(link); err == nil {
		if err := o.fs.Remove(link); err != nil {
			return errors.Wrapf(err, errors.ErrSymlink, "cannot replace existing %s", link)
		}
	}

	if err := o.fs.Symlink(target, link); err != nil {
		return errors.Wrapf(err, errors.ErrSymlink, "cannot link %s -> %s", link, target)
	}

	return nil
}

// ResolveSymlink resolves path if it is a symbolic link. It is transparent
// for regular paths: a non-link comes back unchanged with NotALink, so
// callers can always pass a path through blindly. Link targets are reported
// as LinkResolved or LinkBroken depending on whether they still exist.
func (o *Ops) ResolveSymlink(path string) (string, LinkState, error) {
	info, err := o.fs.Lstat(path)
	if err != nil {
		return path, NotALink, errors.Wrapf(err, errors.ErrFileAccess, "cannot stat %s", path)
	}

	if info.Mode()&fs.ModeSymlink == 0 {
		return path, NotALink, nil
	}

	target, err := o.fs.Readlink(path)
	if err != nil {
		return path, LinkBroken, errors.Wrapf(err, errors.ErrSymlink, "cannot read link %s", path)
	}

	if !filepath.IsAbs(target) {
		target = filepath.Join(filepath.Dir(path), target)
	}

	if _, err := o.fs.Stat(target); err != nil {
		if os.IsNotExist(err) {
			return target, LinkBroken, nil
		}
		return target, LinkBroken, errors.Wrapf(err, errors.ErrFileAccess, "cannot stat link target %s", target)
	}

	return target, LinkResolved, nil
}

// IsSymlink reports whether path is a symbolic link.
func (o *Ops) IsSymlink(path string) bool {
	info, err := o.fs.Lstat(path)
	return err == nil && info.Mode()&fs.ModeSymlink != 0
}

// DeleteSymlink removes the link at path without touching its target.
// Absent paths are a no-op.
func (o *Ops) DeleteSymlink(path string) error {
	if _, err := o.fs.Lstat(path); err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return errors.Wrapf(err, errors.ErrFileAccess, "cannot access %s", path)
	}

	if err := o.fs.Remove(path); err != nil {
		return errors.Wrapf(err, errors.ErrSymlink, "cannot remove link %s", path)
	}
	return nil
}

// ListDirs returns the immediate subdirectories of path, as names or as
// absolute paths. Symbolic links are included regardless of whether their
// target still exists; the caller decides what a dangling entry means.
// Order follows the underlying directory listing and carries no meaning.
func (o *Ops) ListDirs(path string, fullPaths bool) ([]string, error) {
	entries, err := o.fs.ReadDir(path)
	if err != nil {
		return nil, errors.Wrapf(err, errors.ErrFileAccess, "cannot list %s", path)
	}

	var dirs []string
	for _, entry := range entries {
		if !entry.IsDir() && entry.Type()&fs.ModeSymlink == 0 {
			continue
		}
		if fullPaths {
			dirs = append(dirs, filepath.Join(path, entry.Name()))
		} else {
			dirs = append(dirs, entry.Name())
		}
	}

	return dirs, nil
}

// Size returns the total size in bytes of all files under folder,
// recursively. Non-directories and absent paths report 0.
func (o *Ops) Size(folder string) int64 {
	info, err := o.fs.Stat(folder)
	if err != nil || !info.IsDir() {
		return 0
	}

	var total int64
	entries, err := o.fs.ReadDir(folder)
	if err != nil {
		return 0
	}

	for _, entry := range entries {
		path := filepath.Join(folder, entry.Name())
		if entry.IsDir() {
			total += o.Size(path)
			continue
		}
		if info, err := entry.Info(); err == nil {
			total += info.Size()
		}
	}

	return total
}

// HumanReadableSize converts a byte count into a human readable value.
func HumanReadableSize(size int64) string {
	const decimalPlaces = 2

	value := float64(size)
	units := []string{"B", "KB", "MB", "GB", "TB", "PB"}

	i := 0
	for value >= 1024.0 && i < len(units)-1 {
		value /= 1024.0
		i++
	}

	return fmt.Sprintf("%.*f %s", decimalPlaces, value, units[i])
}

// isPermission reports whether err is a permission error, the only kind of
// failure Delete repairs and retries.
func isPermission(err error) bool {
	return os.IsPermission(err)
}
