package util

import (
	"fmt"
	"os"
	"path/filepath"
)

// GetAbsolutePath resolves a path relative to the working directory. Absolute
// paths are returned unchanged.
func GetAbsolutePath(relativePath string) (string, error) {
	if filepath.IsAbs(relativePath) {
		return relativePath, nil
	}

	root, err := os.Getwd()
	if err != nil {
		return "", fmt.Errorf("failed to get working directory: %w", err)
	}

	return filepath.Join(root, relativePath), nil
}

func StringPtr(s string) *string {
	return &s
}

func IntPtr(i int) *int {
	return &i
}
