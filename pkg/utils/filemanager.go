// =============================================================================
// Kebab Dashboard - Export File Manager
// =============================================================================
//
// This module owns the export directory used by the CLI export command:
//   - Directory management
//   - Export file naming with placeholders
//   - Atomic writes (temp file + rename) so a failed export never leaves a
//     half-written document behind
//   - Retention cleanup of old exports
//
// =============================================================================

package utils

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
)

// =============================================================================
// FILE MANAGER
// =============================================================================

// FileManager handles file operations for exports.
type FileManager struct {
	// OutputDir is the directory where exports are written.
	OutputDir string

	// UseDateSubdirs places exports under YYYY/MM/DD subdirectories.
	UseDateSubdirs bool

	now func() time.Time
}

// NewFileManager creates a FileManager for the given directory.
func NewFileManager(outputDir string) *FileManager {
	return &FileManager{
		OutputDir: outputDir,
		now:       time.Now,
	}
}

// EnsureDirectories creates the output directory if it doesn't exist.
func (fm *FileManager) EnsureDirectories() error {
	if err := os.MkdirAll(fm.OutputDir, 0755); err != nil {
		return fmt.Errorf("failed to create directory %s: %w", fm.OutputDir, err)
	}
	return nil
}

// =============================================================================
// WRITING
// =============================================================================

// WriteOutput creates fileName inside the output directory and lets write
// fill it. The file only appears under its final name if write succeeds.
//
// RETURNS:
//   - The path of the written file.
//   - An error if the file cannot be created or write fails.
func (fm *FileManager) WriteOutput(fileName string, write func(io.Writer) error) (string, error) {
	dir := fm.OutputDir
	if fm.UseDateSubdirs {
		dir = filepath.Join(dir, fm.now().Format("2006/01/02"))
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("failed to create directory %s: %w", dir, err)
	}

	tmp, err := os.CreateTemp(dir, ".export-*")
	if err != nil {
		return "", fmt.Errorf("failed to create temp file: %w", err)
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName)

	if err := write(tmp); err != nil {
		tmp.Close()
		return "", err
	}
	if err := tmp.Close(); err != nil {
		return "", fmt.Errorf("failed to close temp file: %w", err)
	}

	finalPath := filepath.Join(dir, fileName)
	if err := os.Rename(tmpName, finalPath); err != nil {
		return "", fmt.Errorf("failed to move export into place: %w", err)
	}

	return finalPath, nil
}

// =============================================================================
// FILE NAMING
// =============================================================================

// GenerateOutputFileName expands the placeholders in format.
//
// PARAMETERS:
//   - format: The format string for the file name.
//             Placeholders:
//               {uuid}      - A random UUID
//               {timestamp} - now as YYYYMMDD_HHMMSS
//               {date}      - now as YYYYMMDD (overridable through params)
//               {time}      - now as HHMMSS
//               {<key>}     - any key in params
//   - params: A map of placeholder values.
//   - ext: The extension to ensure, e.g. ".pdf".
//   - now: The timestamp to use.
//
// EXAMPLE:
//   format: "{prefix}_{timestamp}"
//   params: {"prefix": "laporan_transaksi"}
//   output: "laporan_transaksi_20240115_143022.pdf"
func GenerateOutputFileName(format string, params map[string]string, ext string, now time.Time) string {
	values := map[string]string{
		"uuid":      uuid.NewString(),
		"timestamp": now.Format("20060102_150405"),
		"date":      now.Format("20060102"),
		"time":      now.Format("150405"),
	}
	for key, value := range params {
		values[key] = value
	}

	keys := make([]string, 0, len(values))
	for key := range values {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	pairs := make([]string, 0, len(values)*2)
	for _, key := range keys {
		pairs = append(pairs, "{"+key+"}", sanitizeFileName(values[key]))
	}
	result := strings.NewReplacer(pairs...).Replace(format)

	if ext != "" && !strings.HasSuffix(strings.ToLower(result), strings.ToLower(ext)) {
		result += ext
	}

	return result
}

// sanitizeFileName replaces characters that are unsafe in file names.
func sanitizeFileName(s string) string {
	return strings.Map(func(r rune) rune {
		switch r {
		case '/', '\\', ':', '*', '?', '"', '<', '>', '|':
			return '-'
		case ' ':
			return '_'
		}
		return r
	}, s)
}

// =============================================================================
// RETENTION
// =============================================================================

// CleanOldExports removes export files older than maxAge.
//
// RETURNS:
//   - The number of files removed.
//   - An error if cleaning fails.
func (fm *FileManager) CleanOldExports(maxAge time.Duration) (int, error) {
	cutoff := fm.now().Add(-maxAge)
	removed := 0

	err := filepath.Walk(fm.OutputDir, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}

		if info.IsDir() {
			return nil
		}

		if info.ModTime().Before(cutoff) {
			if err := os.Remove(path); err != nil {
				return err
			}
			removed++
		}

		return nil
	})

	if err != nil {
		return removed, fmt.Errorf("failed to clean exports: %w", err)
	}

	return removed, nil
}

// FileExists checks if a file exists.
func FileExists(path string) bool {
	_, err := os.Stat(path)
	return !os.IsNotExist(err)
}
