// Package classify derives normalized extension keys from file paths.
package classify

import (
	"path/filepath"
	"strings"
)

// NoExtension is the reserved key for files without a usable suffix.
const NoExtension = "no_extension"

// Key returns the normalized extension key for path: the lower-cased suffix
// after the last dot of the base name, without the dot itself.
//
// A leading dot is part of a hidden file's name, not an extension delimiter:
// ".bashrc" has no extension, ".config.yml" has "yml". Names without a
// suffix, and names ending in a bare dot, map to NoExtension.
func Key(path string) string {
	name := filepath.Base(path)
	trimmed := strings.TrimPrefix(name, ".")
	idx := strings.LastIndex(trimmed, ".")
	if idx < 0 || idx == len(trimmed)-1 {
		return NoExtension
	}
	return strings.ToLower(trimmed[idx+1:])
}
