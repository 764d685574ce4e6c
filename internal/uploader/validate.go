// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package uploader validates documents for upload and watches a drop
// folder for automatic ingestion.
package uploader

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// allowedExtensions mirrors what the backend accepts for indexing.
var allowedExtensions = map[string]bool{
	".pdf":  true,
	".docx": true,
	".doc":  true,
	".txt":  true,
}

// MaxFileSize caps uploads at 50 MB. Larger files time out against
// the ingestion pipeline anyway.
const MaxFileSize = 50 << 20

// AllowedExtensions returns the accepted extensions, for help text.
func AllowedExtensions() []string {
	return []string{".pdf", ".docx", ".doc", ".txt"}
}

// SupportedFile reports whether the filename has an accepted
// extension. The check is case-insensitive.
func SupportedFile(name string) bool {
	return allowedExtensions[strings.ToLower(filepath.Ext(name))]
}

// Validate checks a local file before upload: it must exist, be a
// regular file, have an accepted extension and fit the size cap.
func Validate(path string) error {
	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return fmt.Errorf("file not found: %s", path)
		}
		return err
	}
	if info.IsDir() {
		return fmt.Errorf("%s is a directory, not a file", path)
	}
	if !SupportedFile(path) {
		return fmt.Errorf("unsupported file type %q (supported: %s)",
			filepath.Ext(path), strings.Join(AllowedExtensions(), ", "))
	}
	if info.Size() == 0 {
		return fmt.Errorf("file is empty: %s", path)
	}
	if info.Size() > MaxFileSize {
		return fmt.Errorf("file too large: %d bytes (max %d)", info.Size(), MaxFileSize)
	}
	return nil
}
