// Package archive extracts mod archives and writes backups. Decompression
// is delegated to github.com/mholt/archives, which handles zip, 7z, rar and
// the tar family; every failure from it is normalized into a single
// extraction error carrying the archive path, so callers never see
// format-specific causes.
//
// This package works on the real OS filesystem: the extraction library
// hands back readers that have to be streamed to disk, which the narrow
// types.FS interface used elsewhere does not cover.
package archive

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/mholt/archives"

	"github.com/arthur-debert/hangar/pkg/errors"
	"github.com/arthur-debert/hangar/pkg/filesystem"
	"github.com/arthur-debert/hangar/pkg/folders"
	"github.com/arthur-debert/hangar/pkg/logging"
	"github.com/arthur-debert/hangar/pkg/types"
)

// Service extracts archives into a scratch directory and writes backups.
type Service struct {
	ops     *folders.Ops
	scratch string
}

// New creates an archive service that extracts into scratchDir. The scratch
// directory is recreated on every extraction, so nothing under it survives
// between calls.
func New(scratchDir string) *Service {
	return &Service{
		ops:     folders.New(filesystem.NewOS()),
		scratch: scratchDir,
	}
}

// Extract unpacks archivePath into a fresh scratch directory and returns
// the extraction root. The destination is named after the archive's base
// filename without extension, so differently-named archives cannot collide
// within one scratch session.
func (s *Service) Extract(ctx context.Context, archivePath string, r types.Reporter) (string, error) {
	logger := logging.GetLogger("archive")
	defer logging.LogOperationStart(logger, "extract")()

	// Start from a clean scratch root, deleting any stale one.
	if err := s.ops.Delete(s.scratch, r); err != nil {
		return "", err
	}
	if err := os.MkdirAll(s.scratch, 0755); err != nil {
		return "", errors.Wrapf(err, errors.ErrFileAccess, "cannot create scratch directory %s", s.scratch)
	}

	dest := filepath.Join(s.scratch, baseName(archivePath))

	types.Progress(r, fmt.Sprintf("Extracting archive %s", archivePath))

	if err := s.extractTo(ctx, archivePath, dest); err != nil {
		logger.Error().Err(err).Str("archive", archivePath).Msg("Extraction failed")
		return "", errors.Wrapf(err, errors.ErrExtraction, "cannot extract %s", archivePath).
			WithDetail("archive", archivePath)
	}

	return dest, nil
}

func (s *Service) extractTo(ctx context.Context, archivePath, dest string) error {
	f, err := os.Open(archivePath)
	if err != nil {
		return err
	}
	defer func() { _ = f.Close() }()

	format, input, err := archives.Identify(ctx, filepath.Base(archivePath), f)
	if err != nil {
		return err
	}

	extractor, ok := format.(archives.Extractor)
	if !ok {
		return fmt.Errorf("format %s is not extractable", format.Extension())
	}

	return extractor.Extract(ctx, input, func(ctx context.Context, file archives.FileInfo) error {
		target, err := securePath(dest, file.NameInArchive)
		if err != nil {
			return err
		}

		if file.IsDir() {
			return os.MkdirAll(target, 0755)
		}

		if file.LinkTarget != "" {
			if err := os.MkdirAll(filepath.Dir(target), 0755); err != nil {
				return err
			}
			return os.Symlink(file.LinkTarget, target)
		}

		if err := os.MkdirAll(filepath.Dir(target), 0755); err != nil {
			return err
		}

		in, err := file.Open()
		if err != nil {
			return err
		}
		defer func() { _ = in.Close() }()

		mode := file.Mode().Perm()
		if mode == 0 {
			mode = 0644
		}

		out, err := os.OpenFile(target, os.O_CREATE|os.O_TRUNC|os.O_WRONLY, mode)
		if err != nil {
			return err
		}
		defer func() { _ = out.Close() }()

		_, err = io.Copy(out, in)
		return err
	})
}

// CreateBackup archives the entire srcDir tree into a single zip file at
// destArchive, creating parent directories as needed.
func (s *Service) CreateBackup(ctx context.Context, srcDir, destArchive string, r types.Reporter) error {
	logger := logging.GetLogger("archive")
	defer logging.LogOperationStart(logger, "backup")()

	types.Progress(r, fmt.Sprintf("Backing up %s to %s", srcDir, destArchive))

	files, err := archives.FilesFromDisk(ctx, nil, map[string]string{srcDir: ""})
	if err != nil {
		return errors.Wrapf(err, errors.ErrBackup, "cannot read %s", srcDir)
	}

	if err := os.MkdirAll(filepath.Dir(destArchive), 0755); err != nil {
		return errors.Wrapf(err, errors.ErrBackup, "cannot create parent of %s", destArchive)
	}

	out, err := os.Create(destArchive)
	if err != nil {
		return errors.Wrapf(err, errors.ErrBackup, "cannot create %s", destArchive)
	}
	defer func() { _ = out.Close() }()

	if err := (archives.Zip{}).Archive(ctx, out, files); err != nil {
		return errors.Wrapf(err, errors.ErrBackup, "cannot write %s", destArchive).
			WithDetail("archive", destArchive)
	}

	return nil
}

// baseName strips the directory and the final extension from an archive
// path ("downloads/MyLiveries.zip" -> "MyLiveries").
func baseName(archivePath string) string {
	base := filepath.Base(archivePath)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

// securePath joins name under root, rejecting entries that would escape it.
func securePath(root, name string) (string, error) {
	target := filepath.Join(root, filepath.FromSlash(name))
	if target != root && !strings.HasPrefix(target, root+string(filepath.Separator)) {
		return "", fmt.Errorf("archive entry %q escapes extraction root", name)
	}
	return target, nil
}
