// Package archive expands patch package archives.
package archive

import (
	"bytes"
	"io"
	"path/filepath"
	"strings"

	"github.com/arthur-debert/rgpatch/pkg/errors"
	"github.com/arthur-debert/rgpatch/pkg/logging"
	"github.com/arthur-debert/rgpatch/pkg/types"

	"archive/zip"
)

// Outcome reports what Extract did.
type Outcome string

const (
	// OutcomeExtracted means the archive was expanded (or, in dry-run,
	// validated and would be expanded).
	OutcomeExtracted Outcome = "extracted"

	// OutcomeSkipped means there was nothing to do: the archive is missing
	// or not a well-formed zip. Recipes are re-runnable, so an archive
	// consumed by a prior run is expected here, not an error.
	OutcomeSkipped Outcome = "skipped"
)

// Extract expands a zip archive into dest and removes the archive on
// success. An invalid or missing archive is a logged skip, never a hard
// failure. Dry-run stops after validating the archive.
func Extract(fs types.FS, archivePath, dest string, dryRun bool) (Outcome, error) {
	logger := logging.GetLogger("archive")

	data, err := fs.ReadFile(archivePath)
	if err != nil {
		logger.Warn().Str("archive", archivePath).Msg("archive not found, skipping extraction")
		return OutcomeSkipped, nil
	}

	reader, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		logger.Warn().Err(err).Str("archive", archivePath).Msg("not a valid archive, skipping extraction")
		return OutcomeSkipped, nil
	}

	if dryRun {
		logger.Info().
			Str("archive", archivePath).
			Str("dest", dest).
			Int("entries", len(reader.File)).
			Msg("would extract archive")
		return OutcomeExtracted, nil
	}

	if err := fs.MkdirAll(dest, 0755); err != nil {
		return "", errors.Wrapf(err, errors.ErrDirCreate, "failed to create %s", dest)
	}

	for _, entry := range reader.File {
		if err := extractEntry(fs, entry, dest); err != nil {
			return "", err
		}
	}

	if err := fs.Remove(archivePath); err != nil {
		return "", errors.Wrapf(err, errors.ErrFileAccess, "failed to remove extracted archive %s", archivePath)
	}

	logger.Info().
		Str("archive", archivePath).
		Str("dest", dest).
		Int("entries", len(reader.File)).
		Msg("archive extracted")
	return OutcomeExtracted, nil
}

func extractEntry(fs types.FS, entry *zip.File, dest string) error {
	logger := logging.GetLogger("archive")

	// Reject entries that would escape the destination.
	rel := filepath.Clean(filepath.FromSlash(entry.Name))
	if rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) || filepath.IsAbs(rel) {
		logger.Warn().Str("entry", entry.Name).Msg("archive entry escapes destination, ignored")
		return nil
	}
	target := filepath.Join(dest, rel)

	if entry.FileInfo().IsDir() {
		if err := fs.MkdirAll(target, 0755); err != nil {
			return errors.Wrapf(err, errors.ErrDirCreate, "failed to create %s", target)
		}
		return nil
	}

	if err := fs.MkdirAll(filepath.Dir(target), 0755); err != nil {
		return errors.Wrapf(err, errors.ErrDirCreate, "failed to create %s", filepath.Dir(target))
	}

	src, err := entry.Open()
	if err != nil {
		return errors.Wrapf(err, errors.ErrExtractFailed, "failed to open archive entry %s", entry.Name)
	}
	defer func() { _ = src.Close() }()

	out, err := fs.Create(target)
	if err != nil {
		return errors.Wrapf(err, errors.ErrFileCreate, "failed to create %s", target)
	}
	if _, err := io.Copy(out, src); err != nil {
		_ = out.Close()
		return errors.Wrapf(err, errors.ErrFileWrite, "failed to write %s", target)
	}
	if err := out.Close(); err != nil {
		return errors.Wrapf(err, errors.ErrFileWrite, "failed to close %s", target)
	}

	if mode := entry.Mode(); mode&0111 != 0 {
		if err := fs.Chmod(target, mode.Perm()); err != nil {
			return errors.Wrapf(err, errors.ErrFileAccess, "failed to set mode on %s", target)
		}
	}
	return nil
}
