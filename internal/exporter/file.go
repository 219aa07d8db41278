package exporter

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	apperrors "indicatorcli/internal/errors"
)

// CreateFile creates (or truncates) path for writing, creating missing
// parent directories.
func CreateFile(path string) (*os.File, error) {
	if err := ensureDir(path); err != nil {
		return nil, err
	}

	file, err := os.Create(path)
	if err != nil {
		return nil, storageError(path, err)
	}
	return file, nil
}

// writeFileAtomic writes data to a temporary file next to path and renames
// it into place, so readers never observe a half-written file.
func writeFileAtomic(path string, data []byte) error {
	if err := ensureDir(path); err != nil {
		return err
	}

	tmp, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+".*.tmp")
	if err != nil {
		return storageError(path, err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return storageError(path, fmt.Errorf("failed to write temp file: %w", err))
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return storageError(path, fmt.Errorf("failed to close temp file: %w", err))
	}
	if err := os.Chmod(tmpName, 0o644); err != nil {
		os.Remove(tmpName)
		return storageError(path, err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		os.Remove(tmpName)
		return storageError(path, fmt.Errorf("failed to move file into place: %w", err))
	}

	slog.Debug("Wrote file",
		slog.String("file_path", path),
		slog.Int("bytes", len(data)))
	return nil
}

func ensureDir(path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return storageError(path, fmt.Errorf("failed to create directory: %w", err))
	}
	return nil
}

func storageError(path string, cause error) *apperrors.AppError {
	return apperrors.NewStorageError(fmt.Sprintf("cannot write %s", path), cause).
		WithContext("path", path)
}
