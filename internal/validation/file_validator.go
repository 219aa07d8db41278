// Package validation checks input and output paths before a pipeline opens
// them, so failures surface as typed errors with a clear message.
package validation

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	apperrors "indicatorcli/internal/errors"
)

// FileValidator provides file checks shared by both tools.
type FileValidator struct {
	logger *slog.Logger
}

// NewFileValidator creates a new file validator
func NewFileValidator(logger *slog.Logger) *FileValidator {
	if logger == nil {
		logger = slog.Default()
	}
	return &FileValidator{
		logger: logger,
	}
}

// ValidateFile checks that path exists, is a regular file and can be opened.
func (v *FileValidator) ValidateFile(path string) error {
	info, err := os.Stat(path)
	if os.IsNotExist(err) {
		v.logger.Error("File does not exist",
			slog.String("file", path))
		return apperrors.NewMissingInputError(path, err)
	}
	if err != nil {
		v.logger.Error("Failed to stat file",
			slog.String("file", path),
			slog.String("error", err.Error()))
		return apperrors.NewMissingInputError(path, err)
	}
	if info.IsDir() {
		v.logger.Error("Path is a directory, not a file",
			slog.String("path", path))
		return apperrors.NewMissingInputError(path, fmt.Errorf("%s is a directory, not a file", path))
	}

	file, err := os.Open(path)
	if err != nil {
		v.logger.Error("File is not readable",
			slog.String("file", path),
			slog.String("error", err.Error()))
		return apperrors.NewMissingInputError(path, err)
	}
	file.Close()

	v.logger.Debug("File validated",
		slog.String("file", path),
		slog.Int64("size", info.Size()))
	return nil
}

// ValidateExcelFile checks that path is a readable Office Open XML workbook.
// Legacy .xls files and Excel lock files (~$name.xlsx) are rejected.
func (v *FileValidator) ValidateExcelFile(path string) error {
	if err := v.ValidateFile(path); err != nil {
		return err
	}

	ext := strings.ToLower(filepath.Ext(path))
	switch ext {
	case ".xlsx", ".xlsm", ".xltx", ".xltm":
	default:
		v.logger.Error("File is not an Excel workbook",
			slog.String("file", path),
			slog.String("extension", ext))
		return apperrors.NewMissingInputError(path,
			fmt.Errorf("unsupported workbook extension %q", ext)).
			WithContext("extension", ext)
	}

	if strings.HasPrefix(filepath.Base(path), "~$") {
		v.logger.Error("File is a temporary Excel lock file",
			slog.String("file", path))
		return apperrors.NewMissingInputError(path, fmt.Errorf("%s is a temporary Excel file", path))
	}

	return nil
}

// ValidateCSVFile checks that path is a readable delimited text file. The
// extension is not checked; exports often arrive as .txt or without one.
func (v *FileValidator) ValidateCSVFile(path string) error {
	if err := v.ValidateFile(path); err != nil {
		return err
	}

	if ext := strings.ToLower(filepath.Ext(path)); ext != ".csv" {
		v.logger.Debug("Reading non-.csv file as CSV",
			slog.String("file", path),
			slog.String("extension", ext))
	}

	return nil
}

// ValidateOutputDirectory ensures dir exists or can be created and accepts
// new files.
func (v *FileValidator) ValidateOutputDirectory(dir string) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		v.logger.Error("Failed to create output directory",
			slog.String("directory", dir),
			slog.String("error", err.Error()))
		return apperrors.NewStorageError(fmt.Sprintf("failed to create output directory %s", dir), err).
			WithContext("path", dir)
	}

	probe, err := os.CreateTemp(dir, ".write_test*")
	if err != nil {
		v.logger.Error("Output directory is not writable",
			slog.String("directory", dir),
			slog.String("error", err.Error()))
		return apperrors.NewStorageError(fmt.Sprintf("output directory %s is not writable", dir), err).
			WithContext("path", dir)
	}
	probe.Close()
	os.Remove(probe.Name())

	v.logger.Debug("Output directory validated",
		slog.String("directory", dir))
	return nil
}

// ValidateOutputFile checks that path can be written: its directory is
// usable and path itself is not a directory.
func (v *FileValidator) ValidateOutputFile(path string) error {
	if info, err := os.Stat(path); err == nil && info.IsDir() {
		v.logger.Error("Output path is a directory",
			slog.String("path", path))
		return apperrors.NewStorageError(fmt.Sprintf("output %s is a directory", path), nil).
			WithContext("path", path)
	}
	return v.ValidateOutputDirectory(filepath.Dir(path))
}

// ValidateDistinct rejects an output path that names the input file,
// either literally or through a link.
func (v *FileValidator) ValidateDistinct(input, output string) error {
	same := filepath.Clean(input) == filepath.Clean(output)
	if !same {
		in, inErr := os.Stat(input)
		out, outErr := os.Stat(output)
		same = inErr == nil && outErr == nil && os.SameFile(in, out)
	}
	if same {
		v.logger.Error("Output would overwrite input",
			slog.String("input", input),
			slog.String("output", output))
		return apperrors.NewConfigError(fmt.Sprintf("output %s is the same file as input %s", output, input), nil).
			WithContext("input", input).
			WithContext("output", output)
	}
	return nil
}
