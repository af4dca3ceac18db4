package filestore

import (
	"path"
	"strconv"
	"strings"
	"unicode"

	"golang.org/x/text/unicode/norm"
)

const maxNameLen = 100

// SecureFilename reduces a client-supplied name to a safe, flat ASCII name:
// compatibility-decomposed, non-ASCII dropped, path separators and
// whitespace runs turned into "_", anything outside [A-Za-z0-9_.-] removed,
// and leading/trailing "." and "_" trimmed. An empty result becomes "file".
func SecureFilename(name string) string {
	name = norm.NFKD.String(name)

	var b strings.Builder
	for _, r := range name {
		switch {
		case r > unicode.MaxASCII:
			continue
		case r == '/' || r == '\\':
			b.WriteByte(' ')
		default:
			b.WriteRune(r)
		}
	}
	name = strings.Join(strings.Fields(b.String()), "_")

	b.Reset()
	for i := 0; i < len(name); i++ {
		if c := name[i]; isAllowedFilenameChar(c) {
			b.WriteByte(c)
		}
	}
	name = strings.Trim(b.String(), "._")

	if len(name) > maxNameLen {
		ext := path.Ext(name)
		if len(ext) > 0 && len(ext) < 10 {
			name = name[:maxNameLen-len(ext)] + ext
		} else {
			name = name[:maxNameLen]
		}
	}
	if name == "" {
		return "file"
	}
	return name
}

func isAllowedFilenameChar(c byte) bool {
	return (c >= 'a' && c <= 'z') ||
		(c >= 'A' && c <= 'Z') ||
		(c >= '0' && c <= '9') ||
		c == '-' || c == '_' || c == '.'
}

// Dedupe sanitizes names and makes them distinct within one submission.
// The first occurrence keeps its name; later ones become "stem_2.ext",
// "stem_3.ext" and so on, skipping any name already taken.
func Dedupe(names []string) []string {
	out := make([]string, len(names))
	taken := make(map[string]bool, len(names))
	for i, n := range names {
		out[i] = SecureFilename(n)
	}
	for i, n := range out {
		if !taken[n] {
			taken[n] = true
			continue
		}
		ext := path.Ext(n)
		stem := strings.TrimSuffix(n, ext)
		for k := 2; ; k++ {
			suffix := "_" + strconv.Itoa(k)
			s := stem
			if over := len(s) + len(suffix) + len(ext) - maxNameLen; over > 0 && over < len(s) {
				s = s[:len(s)-over]
			}
			candidate := s + suffix + ext
			if !taken[candidate] && !laterHas(out[i+1:], candidate) {
				out[i] = candidate
				taken[candidate] = true
				break
			}
		}
	}
	return out
}

// laterHas reports whether a not-yet-processed name equals candidate, so a
// generated suffix never steals a name the client sent explicitly.
func laterHas(rest []string, candidate string) bool {
	for _, n := range rest {
		if n == candidate {
			return true
		}
	}
	return false
}
