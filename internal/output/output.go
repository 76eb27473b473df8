// Package output persists rendered records.
package output

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
)

// ErrBinaryToTerminal is returned when a binary format has no output file.
var ErrBinaryToTerminal = errors.New("binary format requires an output file")

// RenderFunc writes rendered output.
type RenderFunc func(w io.Writer) error

// Save renders into path, creating parent directories. The file is written
// to a temporary sibling first and renamed into place.
func Save(path string, render RenderFunc) error {
	var buf bytes.Buffer
	if err := render(&buf); err != nil {
		return err
	}

	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create output directory: %w", err)
		}
	}

	tmpPath := path + ".tmp"
	if err := os.WriteFile(tmpPath, buf.Bytes(), 0o644); err != nil {
		return fmt.Errorf("write output: %w", err)
	}
	if err := os.Rename(tmpPath, path); err != nil {
		_ = os.Remove(tmpPath)
		return fmt.Errorf("write output: %w", err)
	}
	return nil
}

// Write renders to path when set, otherwise to stdout. Binary formats must
// go to a file.
func Write(stdout io.Writer, path string, binary bool, render RenderFunc) error {
	if path != "" {
		return Save(path, render)
	}
	if binary {
		return ErrBinaryToTerminal
	}
	return render(stdout)
}
