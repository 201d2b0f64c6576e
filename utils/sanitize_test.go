package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSanitizeStripsScripts(t *testing.T) {
	got := Sanitize(`<p>hello</p><script>alert("x")</script>`)
	assert.Equal(t, "<p>hello</p>", got)
}

func TestSanitizeKeepsFormatting(t *testing.T) {
	got := Sanitize("<b>bold</b> and <a href=\"https://example.com\" rel=\"nofollow\">a link</a>")
	assert.Contains(t, got, "<b>bold</b>")
	assert.Contains(t, got, "example.com")
}

func TestStripTagsRemovesEverything(t *testing.T) {
	assert.Equal(t, "Idea A", StripTags("<h1>Idea A</h1>"))
	assert.Equal(t, "plain", StripTags("plain"))
}
