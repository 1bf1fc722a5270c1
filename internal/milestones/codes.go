// Package milestones parses free-form milestone (delmål) identifiers into
// canonical codes with a stable sort order.
package milestones

import (
	"math"
	"regexp"
	"slices"
	"strconv"
	"strings"
)

// Per-line caps used when milestone lists are printed on certificates.
const (
	PerLineST = 7
	PerLineBT = 8
)

var (
	stPattern   = regexp.MustCompile(`^ST([ABC])(\d+)$`)
	barePattern = regexp.MustCompile(`^([ABC])(\d+)$`)
	btPattern   = regexp.MustCompile(`^BT(\d+)$`)
)

var groupOrder = map[string]int{"A": 0, "B": 1, "C": 2}

const defaultGroup = 9

// Code is one parsed milestone identifier.
type Code struct {
	Group  string
	Number int
	// Print is the canonical printed form, e.g. "a1".
	Print  string
	Parsed bool
}

// Parse extracts the canonical code from raw. The base token is the text before
// the first whitespace, dash or colon, so "STa1 – Medicinsk etik" parses as a1.
func Parse(raw string) Code {
	base := baseToken(raw)
	if base == "" {
		return Code{}
	}
	if m := stPattern.FindStringSubmatch(base); m != nil {
		return letterCode(m[1], m[2])
	}
	if m := barePattern.FindStringSubmatch(base); m != nil {
		return letterCode(m[1], m[2])
	}
	if m := btPattern.FindStringSubmatch(base); m != nil {
		n, _ := strconv.Atoi(m[1])
		return Code{Group: "BT", Number: n, Print: strings.ToLower(base), Parsed: true}
	}
	return Code{Print: strings.ToLower(base), Number: math.MaxInt}
}

func letterCode(letter, digits string) Code {
	n, _ := strconv.Atoi(digits)
	return Code{
		Group:  letter,
		Number: n,
		Print:  strings.ToLower(letter) + strconv.Itoa(n),
		Parsed: true,
	}
}

func baseToken(raw string) string {
	s := strings.TrimSpace(raw)
	if i := strings.IndexFunc(s, func(r rune) bool {
		return r == ' ' || r == '\t' || r == '\n' || r == '\u00a0' || r == '-' || r == '\u2013' || r == ':'
	}); i >= 0 {
		s = s[:i]
	}
	return strings.ToUpper(s)
}

func (c Code) order() int {
	if o, ok := groupOrder[c.Group]; ok {
		return o
	}
	return defaultGroup
}

// Compare orders codes by group, number, then printed form.
func Compare(a, b Code) int {
	if d := a.order() - b.order(); d != 0 {
		return d
	}
	if a.Number != b.Number {
		if a.Number < b.Number {
			return -1
		}
		return 1
	}
	return strings.Compare(a.Print, b.Print)
}

// Normalize parses, dedupes and sorts raw codes, returning their printed forms.
// Normalize(Normalize(x)) equals Normalize(x).
func Normalize(raw []string) []string {
	codes := make([]Code, 0, len(raw))
	seen := make(map[string]struct{}, len(raw))
	for _, r := range raw {
		c := Parse(r)
		if c.Print == "" {
			continue
		}
		if _, dup := seen[c.Print]; dup {
			continue
		}
		seen[c.Print] = struct{}{}
		codes = append(codes, c)
	}
	slices.SortStableFunc(codes, Compare)

	out := make([]string, len(codes))
	for i, c := range codes {
		out[i] = c.Print
	}
	return out
}

// GroupAndSort normalizes raw and chunks the codes into lines of at most
// perLine codes each, joined by ", ". perLine <= 0 puts everything on one line.
func GroupAndSort(raw []string, perLine int) []string {
	codes := Normalize(raw)
	if len(codes) == 0 {
		return nil
	}
	if perLine <= 0 {
		perLine = len(codes)
	}
	var lines []string
	for chunk := range slices.Chunk(codes, perLine) {
		lines = append(lines, strings.Join(chunk, ", "))
	}
	return lines
}

// Split breaks a printed code list on commas, semicolons and newlines.
func Split(text string) []string {
	return strings.FieldsFunc(text, func(r rune) bool {
		return r == ',' || r == ';' || r == '\n'
	})
}
