package generate

import (
	"regexp"
	"strings"
)

// FallbackBaseName is used when sanitizing leaves nothing of the property name.
const FallbackBaseName = "untitled_document"

var (
	// unsafe matches everything that is not a letter, digit, underscore, dot or
	// hyphen. Unicode classes keep Japanese property names intact.
	unsafe         = regexp.MustCompile(`[^\p{L}\p{N}_.\-]`)
	underscoreRuns = regexp.MustCompile(`_{2,}`)
)

// SafeBaseName sanitizes a property name into a filename base: unsafe characters
// collapse to underscores, underscore runs collapse to one, leading and trailing
// underscores are trimmed, and an empty result falls back to FallbackBaseName.
func SafeBaseName(name string) string {
	base := unsafe.ReplaceAllString(name, "_")
	base = underscoreRuns.ReplaceAllString(base, "_")
	base = strings.Trim(base, "_")
	if base == "" {
		return FallbackBaseName
	}
	return base
}
