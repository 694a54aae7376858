package io

import (
	"fmt"
	"io"
	"os"
)

// Write encodes v to w in format f.
// Values of the core packages keep their JSON wire forms in both formats.
func Write(w io.Writer, f Format, v any) error {
	return encode(w, f, v)
}

// Export writes v to a file at path, in the format implied by its extension.
func Export(path string, v any) error {
	f, err := FormatFromPath(path)
	if err != nil {
		return err
	}
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer file.Close()
	return Write(file, f, v)
}
