package utils

import (
	"io"
	"os"
	"path/filepath"
)

// Stdout is the output path that selects standard output
const Stdout = "-"

// WriteFile writes data to a file, creating directories as needed
func WriteFile(path string, data []byte, perm os.FileMode) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}

	return os.WriteFile(path, data, perm)
}

// WriteOutput writes data to path, or to w when path is empty or Stdout
func WriteOutput(path string, data []byte, w io.Writer) error {
	if path == "" || path == Stdout {
		_, err := w.Write(data)
		return err
	}
	// Reports may hold credentials
	return WriteFile(path, data, 0600)
}

// FileExists reports whether path names an existing regular file
func FileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.Mode().IsRegular()
}
