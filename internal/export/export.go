// Package export writes articles and analysis batches as human-readable JSON.
package export

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"
)

const timestampLayout = "20060102_150405"

// WriteJSON encodes v as indented UTF-8 JSON without escaping HTML or
// non-ASCII characters.
func WriteJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("encode json: %w", err)
	}
	return nil
}

// WriteJSONFile writes v to path, replacing any existing file.
func WriteJSONFile(path string, v any) (err error) {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create output file: %w", err)
	}
	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("close output file: %w", cerr)
		}
	}()
	return WriteJSON(f, v)
}

// BatchPath returns <dir>/<prefix>_<YYYYMMDD_HHMMSS>.json for t.
func BatchPath(dir, prefix string, t time.Time) string {
	return filepath.Join(dir, fmt.Sprintf("%s_%s.json", prefix, t.Format(timestampLayout)))
}

// SaveBatch creates dir if needed and writes v to a timestamped file in it.
func SaveBatch(dir, prefix string, t time.Time, v any) (string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("create output directory: %w", err)
	}
	path := BatchPath(dir, prefix, t)
	if err := WriteJSONFile(path, v); err != nil {
		return "", err
	}
	return path, nil
}
