package constants

import "strings"

// Source formats recorded on text extraction results.
const (
	PDF = "PDF"
	TXT = "TXT"
)

// FileTypes holds the source formats the text extractor understands.
var FileTypes = []string{PDF, TXT}

// AllowedExtensions holds the default allowed file extensions for label uploads and batch runs.
var AllowedExtensions = map[string]struct{}{
	"pdf": {},
	"txt": {},
}

// NormalizeExt lowercases and trims the dot from a file extension.
func NormalizeExt(ext string) string {
	return strings.ToLower(strings.TrimPrefix(strings.TrimSpace(ext), "."))
}

// MapExtToFormat maps a normalized extension to one of FileTypes, or "" when unsupported.
func MapExtToFormat(ext string) string {
	switch NormalizeExt(ext) {
	case "pdf":
		return PDF
	case "txt", "text":
		return TXT
	default:
		return ""
	}
}
