// Package rendering overlays resolved field text onto fixed-layout PDF templates.
package rendering

import (
	"strings"

	"golang.org/x/text/unicode/norm"
)

// NormalizeText maps text to the single-line character subset the template
// font can draw (printable ASCII plus Latin-1, the WinAnsi range used by the
// standard Helvetica font). Line breaks and tabs become spaces, typographic
// punctuation becomes its ASCII equivalent, anything else outside the range is
// dropped, and runs of spaces collapse to one.
func NormalizeText(text string) string {
	if text == "" {
		return ""
	}

	composed := norm.NFC.String(text)

	var result strings.Builder
	result.Grow(len(composed))
	lastSpace := true // trims leading spaces

	for _, r := range composed {
		switch {
		case r == '\n', r == '\r', r == '\t', r == '\u00a0', r >= '\u2000' && r <= '\u200a', r == '\u202f':
			r = ' '
		case r >= '\u2010' && r <= '\u2015', r == '\u2212':
			r = '-'
		case r == '\u201c', r == '\u201d', r == '\u201e', r == '\u201f':
			r = '"'
		case r == '\u2018', r == '\u2019', r == '\u201a', r == '\u201b':
			r = '\''
		case r == '\u2022', r == '\u00b7':
			r = '*'
		case r == '\u2026':
			result.WriteString("...")
			lastSpace = false
			continue
		}

		if !drawable(r) {
			continue
		}
		if r == ' ' {
			if lastSpace {
				continue
			}
			lastSpace = true
		} else {
			lastSpace = false
		}
		result.WriteRune(r)
	}

	return strings.TrimRight(result.String(), " ")
}

func drawable(r rune) bool {
	return (r >= 0x20 && r <= 0x7e) || (r >= 0xa1 && r <= 0xff)
}
