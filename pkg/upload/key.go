package upload

import (
	"strconv"
	"strings"
	"time"
	"unicode"
)

const (
	keyPrefix      = "Requests"
	slugMaxLen     = 50
	fallbackSlug   = "unknown-address"
	defaultSession = "no-session"
)

// SlugAddress normalises a street address into a storage path segment:
// lowercase, whitespace runs become single underscores, every other
// non-alphanumeric rune is dropped, capped at 50 characters. An empty
// address yields "unknown-address".
func SlugAddress(address string) string {
	var b strings.Builder
	pendingSpace := false
	for _, r := range strings.ToLower(strings.TrimSpace(address)) {
		switch {
		case unicode.IsSpace(r):
			pendingSpace = b.Len() > 0
		case unicode.IsLetter(r) || unicode.IsDigit(r):
			if pendingSpace {
				b.WriteByte('_')
				pendingSpace = false
			}
			b.WriteRune(r)
		}
	}

	slug := b.String()
	if len(slug) > slugMaxLen {
		slug = slug[:slugMaxLen]
	}
	if slug == "" {
		return fallbackSlug
	}
	return slug
}

// SanitizeFilename strips path separators and control characters from a
// client-supplied filename, keeping the extension intact.
func SanitizeFilename(name string) string {
	name = strings.TrimSpace(name)
	if idx := strings.LastIndexAny(name, `/\`); idx >= 0 {
		name = name[idx+1:]
	}
	var b strings.Builder
	for _, r := range name {
		switch {
		case r < 0x20 || r == 0x7f:
		case unicode.IsSpace(r):
			b.WriteByte('_')
		default:
			b.WriteRune(r)
		}
	}
	if b.Len() == 0 {
		return "file"
	}
	return b.String()
}

// Key derives the storage key for one upload. The layout is
// Requests/<address slug>/<session id>/<category>/<epoch ms>-<filename>
// and must stay stable: existing objects are addressed by it.
func Key(address, sessionID string, category Category, filename string, now time.Time) string {
	session := strings.TrimSpace(sessionID)
	if session == "" {
		session = defaultSession
	}
	return strings.Join([]string{
		keyPrefix,
		SlugAddress(address),
		session,
		string(category),
		strconv.FormatInt(now.UnixMilli(), 10) + "-" + SanitizeFilename(filename),
	}, "/")
}
