package rendering

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeText_Empty(t *testing.T) {
	assert.Equal(t, "", NormalizeText(""))
}

func TestNormalizeText_Plain(t *testing.T) {
	assert.Equal(t, "Medicinkliniken Lund", NormalizeText("Medicinkliniken Lund"))
}

func TestNormalizeText_CollapsesWhitespace(t *testing.T) {
	assert.Equal(t, "a b c", NormalizeText("  a\n\tb \r\n  c  "))
}

func TestNormalizeText_NonBreakingSpace(t *testing.T) {
	assert.Equal(t, "12 kap", NormalizeText("12\u00a0kap"))
}

func TestNormalizeText_Dashes(t *testing.T) {
	assert.Equal(t, "2023-01-01 - 2023-06-30", NormalizeText("2023-01-01 \u2013 2023-06-30"))
	assert.Equal(t, "a-b-c", NormalizeText("a\u2014b\u2010c"))
}

func TestNormalizeText_Quotes(t *testing.T) {
	assert.Equal(t, `"citat" 'x'`, NormalizeText("\u201ccitat\u201d \u2018x\u2019"))
	assert.Equal(t, `"lag"`, NormalizeText("\u201elag\u201f"))
}

func TestNormalizeText_Bullets(t *testing.T) {
	assert.Equal(t, "* punkt", NormalizeText("\u2022 punkt"))
}

func TestNormalizeText_KeepsSwedishLetters(t *testing.T) {
	assert.Equal(t, "Åsa Öberg Ängelholm", NormalizeText("Åsa Öberg Ängelholm"))
}

func TestNormalizeText_ComposesDecomposedLetters(t *testing.T) {
	assert.Equal(t, "\u00c5", NormalizeText("A\u030a"))
}

func TestNormalizeText_StripsUnsupported(t *testing.T) {
	assert.Equal(t, "ok", NormalizeText("ok \u2713\U0001F600"))
	assert.Equal(t, "", NormalizeText("中文"))
}

func TestNormalizeText_Ellipsis(t *testing.T) {
	assert.Equal(t, "mer...", NormalizeText("mer\u2026"))
}
