package services

import (
	"strings"
	"unicode"
)

const (
	minRegionNameLen = 3
	maxRegionNameLen = 40
)

// regionLabels are prefixes that explicitly tag a segment as the region.
// A labelled segment wins over any heuristic and only the label is
// stripped.
var regionLabels = []string{"region:", "district:", "area:"}

// localityWords mark segments naming a broader locality (city, province,
// country). Such segments sit next to the region in free-text addresses
// and must be skipped, not mistaken for it.
var localityWords = map[string]bool{
	"city":     true,
	"town":     true,
	"province": true,
	"state":    true,
	"country":  true,
	"oblast":   true,
}

// streetWords mark segments that describe the street-level part of an
// address. A region name never contains them.
var streetWords = map[string]bool{
	"street":    true,
	"st":        true,
	"avenue":    true,
	"ave":       true,
	"road":      true,
	"rd":        true,
	"lane":      true,
	"ln":        true,
	"boulevard": true,
	"blvd":      true,
	"drive":     true,
	"dr":        true,
	"house":     true,
	"building":  true,
	"apt":       true,
	"apartment": true,
	"suite":     true,
	"floor":     true,
}

// ParseRegion extracts a region name from a free-text address line. It is
// the last-resort stage of region resolution: segments are split on
// common separators and scanned from the end (regions trail the street
// part in the address formats we see), labelled segments are taken
// verbatim, locality and street segments are skipped, and the first
// remaining segment that looks like a plausible region name wins.
//
// Returns the extracted name and whether anything usable was found.
func ParseRegion(raw string) (string, bool) {
	segments := splitAddress(raw)

	for i := len(segments) - 1; i >= 0; i-- {
		segment := strings.TrimSpace(segments[i])
		if segment == "" {
			continue
		}

		if name, ok := stripRegionLabel(segment); ok {
			if isPlausibleRegionName(name) {
				return name, true
			}
			continue
		}

		if isLocalitySegment(segment) || isStreetSegment(segment) {
			continue
		}

		if isPlausibleRegionName(segment) {
			return segment, true
		}
	}

	return "", false
}

func splitAddress(raw string) []string {
	return strings.FieldsFunc(raw, func(r rune) bool {
		return r == ',' || r == ';' || r == '/' || r == '\n'
	})
}

func stripRegionLabel(segment string) (string, bool) {
	lowered := strings.ToLower(segment)
	for _, label := range regionLabels {
		if strings.HasPrefix(lowered, label) {
			return strings.TrimSpace(segment[len(label):]), true
		}
	}
	return "", false
}

func isLocalitySegment(segment string) bool {
	for _, word := range strings.Fields(strings.ToLower(segment)) {
		if localityWords[strings.Trim(word, ".")] {
			return true
		}
	}
	return false
}

func isStreetSegment(segment string) bool {
	for _, word := range strings.Fields(strings.ToLower(segment)) {
		if streetWords[strings.Trim(word, ".")] {
			return true
		}
	}
	return false
}

// isPlausibleRegionName accepts names of sane length made of letters,
// spaces and hyphens. Digits disqualify a segment immediately: they
// belong to house numbers and postcodes, never to region names.
func isPlausibleRegionName(segment string) bool {
	length := len([]rune(segment))
	if length < minRegionNameLen || length > maxRegionNameLen {
		return false
	}

	for _, r := range segment {
		if !unicode.IsLetter(r) && r != ' ' && r != '-' {
			return false
		}
	}

	return true
}
