package memory

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/afero"
	"gopkg.in/yaml.v3"
)

const checksumSuffix = ".checksum"

// ErrChecksumMismatch is returned by Import when the data file does not
// match its checksum file.
var ErrChecksumMismatch = errors.New("checksum mismatch")

// Format is the encoding of an export file.
type Format string

const (
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
)

// FormatFor picks the encoding from a file extension. Unknown extensions
// are JSON.
func FormatFor(path string) Format {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return FormatYAML
	default:
		return FormatJSON
	}
}

func calculateChecksum(data []byte) string {
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}

// Export writes snap to path along with a checksum file. Both are written to
// temporary files first and then renamed into place.
func Export(fs afero.Fs, path string, snap Snapshot) error {
	var data []byte
	var err error
	switch FormatFor(path) {
	case FormatYAML:
		data, err = yaml.Marshal(snap)
	default:
		data, err = json.MarshalIndent(snap, "", "  ")
	}
	if err != nil {
		return fmt.Errorf("encode snapshot: %w", err)
	}

	if dir := filepath.Dir(path); dir != "." {
		if err := fs.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create export directory: %w", err)
		}
	}

	tempPath := path + ".tmp"
	if err := afero.WriteFile(fs, tempPath, data, 0o644); err != nil {
		return fmt.Errorf("failed to write temporary file %s: %w", tempPath, err)
	}
	checksumPath := path + checksumSuffix
	tempChecksumPath := checksumPath + ".tmp"
	if err := afero.WriteFile(fs, tempChecksumPath, []byte(calculateChecksum(data)), 0o644); err != nil {
		_ = fs.Remove(tempPath)
		return fmt.Errorf("failed to write temporary checksum file %s: %w", tempChecksumPath, err)
	}

	if err := fs.Rename(tempPath, path); err != nil {
		return fmt.Errorf("failed to rename %s to %s: %w", tempPath, path, err)
	}
	if err := fs.Rename(tempChecksumPath, checksumPath); err != nil {
		return fmt.Errorf("CRITICAL: data file %s updated, but failed to update checksum file %s: %w", path, checksumPath, err)
	}
	return nil
}

// Import reads a snapshot written by Export. When a checksum file sits next
// to the data it must match; a missing checksum file is tolerated.
func Import(fs afero.Fs, path string) (Snapshot, error) {
	data, err := afero.ReadFile(fs, path)
	if err != nil {
		return Snapshot{}, fmt.Errorf("read %s: %w", path, err)
	}

	expected, err := afero.ReadFile(fs, path+checksumSuffix)
	switch {
	case err == nil:
		if want, got := strings.TrimSpace(string(expected)), calculateChecksum(data); want != got {
			return Snapshot{}, fmt.Errorf("%w for %s - expected %s, got %s", ErrChecksumMismatch, path, want, got)
		}
	case errors.Is(err, os.ErrNotExist):
	default:
		return Snapshot{}, fmt.Errorf("read checksum for %s: %w", path, err)
	}

	var snap Snapshot
	switch FormatFor(path) {
	case FormatYAML:
		err = yaml.Unmarshal(data, &snap)
	default:
		err = json.Unmarshal(data, &snap)
	}
	if err != nil {
		return Snapshot{}, fmt.Errorf("decode %s: %w", path, err)
	}
	return snap, nil
}
