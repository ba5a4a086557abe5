// Package slug derives URL path segments from free-form titles.
package slug

import "strings"

// Make lowercases and trims title, collapses every run of characters outside
// [a-z0-9] into a single hyphen and strips hyphens at both ends.
func Make(title string) string {
	title = strings.TrimSpace(strings.ToLower(title))

	var b strings.Builder
	b.Grow(len(title))
	pendingHyphen := false
	for i := 0; i < len(title); i++ {
		c := title[i]
		if (c >= 'a' && c <= 'z') || (c >= '0' && c <= '9') {
			if pendingHyphen && b.Len() > 0 {
				b.WriteByte('-')
			}
			pendingHyphen = false
			b.WriteByte(c)
			continue
		}
		pendingHyphen = true
	}
	return b.String()
}

// Normalize prepares an incoming slug for lookup.
func Normalize(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}
