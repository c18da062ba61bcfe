package config

import (
	"strings"
	"unicode"
)

// fallbackFileName is used when nothing is left after cleaning.
const fallbackFileName = "_label_"

// CleanFileName removes characters which are not allowed in file names on
// current platform, control characters and leading dots.
func CleanFileName(in string) string {
	out := strings.Map(func(sym rune) rune {
		if unicode.IsControl(sym) || strings.ContainsRune(forbiddenFileNameChars, sym) {
			return -1
		}
		return sym
	}, in)
	out = strings.TrimRight(strings.TrimLeft(out, "."), trimmedFileNameSuffix)
	if len(out) == 0 {
		return fallbackFileName
	}
	return out
}
