package constants

import "strings"

// MaxUploadBytes is the upload ceiling for a single passport file (10 MiB).
const MaxUploadBytes = 10 << 20

// AllowedExtensions holds the default allowed file extensions for passport uploads.
var AllowedExtensions = map[string]struct{}{
	"pdf":  {},
	"jpg":  {},
	"jpeg": {},
	"png":  {},
}

// AllowedMIMETypes holds the MIME types the scan collaborator accepts.
var AllowedMIMETypes = map[string]struct{}{
	"application/pdf": {},
	"image/jpeg":      {},
	"image/png":       {},
}

// NormalizeExt lowercases and trims the dot from a file extension.
func NormalizeExt(ext string) string {
	return strings.ToLower(strings.TrimPrefix(ext, "."))
}

// MIMEForExt maps a file extension to the MIME type declared to the scan
// collaborator. Returns "" for extensions outside the allowed set.
func MIMEForExt(ext string) string {
	switch NormalizeExt(ext) {
	case "pdf":
		return "application/pdf"
	case "jpg", "jpeg":
		return "image/jpeg"
	case "png":
		return "image/png"
	}
	return ""
}
