// Package statuses holds the project status vocabulary.
package statuses

import "strings"

// Pending is the label given to new projects when none is supplied.
const Pending = "ລໍຖ້າດຳເນີນ"

// Defaults is the lifecycle vocabulary used by the web client.
var Defaults = []string{
	Pending,            // waiting to start
	"ຂັ້ນຕອນສະເໜີຂາຍ",     // proposal
	"ຂັ້ນຕອນການເຮັດສັນຍາ", // contracting
	"ຂັ້ນຕອນດຳເນີນໂຄງການ", // in progress
}

// Set is an allow-list of status labels. An empty Set accepts any non-blank label.
type Set struct {
	defaultLabel string
	allowed      map[string]struct{}
}

// New builds a Set. defaultLabel falls back to Pending and is always allowed.
func New(defaultLabel string, allowed []string) Set {
	defaultLabel = strings.TrimSpace(defaultLabel)
	if defaultLabel == "" {
		defaultLabel = Pending
	}
	s := Set{defaultLabel: defaultLabel}
	if len(allowed) > 0 {
		s.allowed = make(map[string]struct{}, len(allowed)+1)
		s.allowed[defaultLabel] = struct{}{}
		for _, a := range allowed {
			if a = strings.TrimSpace(a); a != "" {
				s.allowed[a] = struct{}{}
			}
		}
	}
	return s
}

// Parse splits a comma-separated list, dropping blanks.
func Parse(csv string) []string {
	var out []string
	for _, p := range strings.Split(csv, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

// Default returns the label for new projects.
func (s Set) Default() string { return s.defaultLabel }

// Resolve returns the trimmed label, or the default when blank.
func (s Set) Resolve(label string) string {
	if label = strings.TrimSpace(label); label != "" {
		return label
	}
	return s.defaultLabel
}

// Valid reports whether label may be stored.
func (s Set) Valid(label string) bool {
	label = strings.TrimSpace(label)
	if label == "" {
		return false
	}
	if s.allowed == nil {
		return true
	}
	_, ok := s.allowed[label]
	return ok
}
