package utils

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

func TestTruncateText(t *testing.T) {
	tp := NewTextProcessor(zap.NewNop())

	assert.Equal(t, "short", tp.TruncateText("short", 10))
	assert.Equal(t, "anything", tp.TruncateText("anything", 0))

	// No space to cut at
	assert.Equal(t, strings.Repeat("x", 20)+TruncationMarker, tp.TruncateText(strings.Repeat("x", 100), 20))

	// Cuts back to the last word boundary
	assert.Equal(t, "please send the"+TruncationMarker, tp.TruncateText("please send the invoice copy", 18))

	// Never splits a multibyte rune
	got := tp.TruncateText("ééééé", 3)
	assert.Equal(t, "é"+TruncationMarker, got)
}

func TestSanitizeUTF8(t *testing.T) {
	tp := NewTextProcessor(zap.NewNop())

	assert.Equal(t, "paid\tin full\n", tp.SanitizeUTF8("paid\tin full\n"))
	assert.Equal(t, "ab", tp.SanitizeUTF8("a\xffb"))
	assert.Equal(t, "ab", tp.SanitizeUTF8("a\x00\x1bb"))
}

func TestProcessText(t *testing.T) {
	tp := NewTextProcessor(zap.NewNop())

	assert.Equal(t, "abc"+TruncationMarker, tp.ProcessText("a\x00bc\xffdef", 3))
}
