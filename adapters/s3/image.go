package s3

import (
	"path"
	"path/filepath"
	"regexp"
	"strings"
)

// AllowedImageExtensions maps the upload allow-list extensions to the
// Content-Type the blob is stored with. Anything not in here is rejected.
var AllowedImageExtensions = map[string]string{
	"jpg":  "image/jpeg",
	"jpeg": "image/jpeg",
	"png":  "image/png",
	"gif":  "image/gif",
}

// CheckAllowedExtension checks whether filename carries an allow-listed image
// extension (case-insensitive) and returns the lowercased extension with its
// Content-Type. A filename without an extension is not allowed.
func CheckAllowedExtension(filename string) (bool, string, string) {
	ext := strings.ToLower(strings.TrimPrefix(filepath.Ext(filename), "."))
	contentType, ok := AllowedImageExtensions[ext]
	if !ok {
		return false, "", ""
	}
	return true, ext, contentType
}

var unsafeFilenameChars = regexp.MustCompile(`[^A-Za-z0-9_.-]`)

// SanitizeFilename reduces a client-supplied filename to a safe storage key
// component: path separators are stripped, whitespace becomes underscores and
// anything outside [A-Za-z0-9_.-] is dropped. Leading dots are trimmed so the
// result never hides itself or escapes upward.
func SanitizeFilename(name string) string {
	// Windows clients send backslash-separated paths.
	name = path.Base(strings.ReplaceAll(name, `\`, "/"))
	name = strings.Join(strings.Fields(name), "_")
	name = unsafeFilenameChars.ReplaceAllString(name, "")
	name = strings.TrimLeft(name, ".")
	if name == "" {
		return "file"
	}
	return name
}
