package constants

import (
	"path/filepath"
	"strings"
)

const (
	FileTypeUnknown = 99
	FileTypeCSV     = 1
)

func DetectFileTypeFromExt(filename string) int {
	ext := strings.ToLower(filepath.Ext(filename))

	switch ext {
	case ".csv":
		return FileTypeCSV
	default:
		return FileTypeUnknown
	}
}

// IsStudentImportFile reports whether filename can be fed to the student CSV import.
func IsStudentImportFile(filename string) bool {
	return DetectFileTypeFromExt(filename) == FileTypeCSV
}
