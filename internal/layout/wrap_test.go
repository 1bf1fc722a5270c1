package layout

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

// tenPoints makes every rune 1pt wide at size 10.
var tenPoints = MonospaceMeasurer{Advance: 1}

func TestWrap_ShortTextSingleLine(t *testing.T) {
	lines := Wrap("kort text", 100, 10, tenPoints)
	assert.Equal(t, []string{"kort text"}, lines)
}

func TestWrap_LongTextWithinWidth(t *testing.T) {
	text := "Deltagit i ronder och handlagt patienter på akutmottagningen under handledning"
	lines := Wrap(text, 20, 10, tenPoints)

	assert.GreaterOrEqual(t, len(lines), 2)
	for _, line := range lines {
		assert.LessOrEqual(t, tenPoints.Width(line, 10), 20.0, line)
	}
	assert.Equal(t, strings.Fields(text), strings.Fields(strings.Join(lines, " ")))
}

func TestWrap_GreedyFill(t *testing.T) {
	lines := Wrap("aa bb cc dd", 5, 10, tenPoints)
	assert.Equal(t, []string{"aa bb", "cc dd"}, lines)
}

func TestWrap_BreaksOverlongWord(t *testing.T) {
	lines := Wrap("ab abcdefghij", 4, 10, tenPoints)
	assert.Equal(t, []string{"ab", "abcd", "efgh", "ij"}, lines)
}

func TestWrap_Empty(t *testing.T) {
	assert.Nil(t, Wrap("   ", 100, 10, tenPoints))
}

func TestWrap_NoWidth(t *testing.T) {
	assert.Equal(t, []string{"a b"}, Wrap("a  b", 0, 10, tenPoints))
}

func TestHelveticaMeasurer_WiderForLongerText(t *testing.T) {
	m := HelveticaMeasurer{}
	assert.Greater(t, m.Width("Medicinkliniken", 11), m.Width("Medicin", 11))
	assert.Greater(t, m.Width("Medicin", 11), 0.0)
}

func TestHelveticaMeasurer_SwedishLettersAreOneGlyph(t *testing.T) {
	m := HelveticaMeasurer{}
	// å, ä and ö share the advance of their base letters in Helvetica.
	assert.InDelta(t, m.Width("aao", 11), m.Width("åäö", 11), 0.001)
	assert.InDelta(t,
		m.Width("Lakare pa vardcentral i Overtornea", 11),
		m.Width("Läkare på vårdcentral i Övertorneå", 11),
		0.001)
}

func TestWrap_HelveticaSwedishText(t *testing.T) {
	word := "åäö"
	text := strings.Repeat(word+" ", 8)

	lines := Wrap(text, 100, 11, HelveticaMeasurer{})

	four := strings.Join([]string{word, word, word, word}, " ")
	assert.Equal(t, []string{four, four}, lines)
	for _, line := range lines {
		assert.LessOrEqual(t, HelveticaMeasurer{}.Width(line, 11), 100.0, line)
	}
}
