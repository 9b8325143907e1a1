package util

import (
	"regexp"
	"testing"

	"github.com/stretchr/testify/assert"
)

var gravatarRe = regexp.MustCompile(`^https://www\.gravatar\.com/avatar/[0-9a-f]{32}\?s=200&r=pg&d=mm$`)

func TestGravatarURL(t *testing.T) {
	url := GravatarURL("user@example.com")
	assert.Regexp(t, gravatarRe, url)

	// Case and surrounding whitespace don't change the derived hash
	assert.Equal(t, url, GravatarURL("  USER@Example.COM "))

	assert.NotEqual(t, url, GravatarURL("other@example.com"))
}

func TestRandStr(t *testing.T) {
	s := RandStr(10)
	assert.Len(t, s, 10)
	assert.NotEqual(t, s, RandStr(10))
}
