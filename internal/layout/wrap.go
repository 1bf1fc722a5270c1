package layout

import (
	"strings"

	"github.com/pdfcpu/pdfcpu/pkg/font"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"
)

// Measurer reports the rendered width of text in points.
type Measurer interface {
	Width(text string, size int) float64
}

// HelveticaMeasurer measures with the standard Helvetica font metrics.
type HelveticaMeasurer struct{}

// Width converts text to the single-byte WinAnsi encoding the core fonts are
// drawn with before summing glyph advances, so å, ä and ö count as one glyph.
func (HelveticaMeasurer) Width(text string, size int) float64 {
	return font.TextWidth(model.DecodeUTF8ToByte(text), "Helvetica", size)
}

// MonospaceMeasurer gives every rune the same advance, scaled by size/10.
type MonospaceMeasurer struct {
	Advance float64
}

// Width is the rune count times Advance, scaled by size/10.
func (m MonospaceMeasurer) Width(text string, size int) float64 {
	return float64(len([]rune(text))) * m.Advance * float64(size) / 10
}

// Wrap splits text greedily into lines no wider than maxWidth. Words are kept
// whole unless a single word is wider than maxWidth on its own, in which case
// it is broken between runes. maxWidth <= 0 disables wrapping.
func Wrap(text string, maxWidth float64, size int, m Measurer) []string {
	words := strings.Fields(text)
	if len(words) == 0 {
		return nil
	}
	if maxWidth <= 0 {
		return []string{strings.Join(words, " ")}
	}

	var lines []string
	line := ""
	for _, word := range words {
		candidate := word
		if line != "" {
			candidate = line + " " + word
		}
		if m.Width(candidate, size) <= maxWidth {
			line = candidate
			continue
		}
		if line != "" {
			lines = append(lines, line)
			line = ""
		}
		if m.Width(word, size) <= maxWidth {
			line = word
			continue
		}
		pieces := breakWord(word, maxWidth, size, m)
		lines = append(lines, pieces[:len(pieces)-1]...)
		line = pieces[len(pieces)-1]
	}
	if line != "" {
		lines = append(lines, line)
	}
	return lines
}

func breakWord(word string, maxWidth float64, size int, m Measurer) []string {
	var pieces []string
	current := []rune{}
	for _, r := range word {
		next := append(current, r)
		if len(current) > 0 && m.Width(string(next), size) > maxWidth {
			pieces = append(pieces, string(current))
			current = []rune{r}
			continue
		}
		current = next
	}
	return append(pieces, string(current))
}
