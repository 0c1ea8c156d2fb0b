package textutil

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestEscapeSlack(t *testing.T) {
	assert.Equal(t, "Trinidad &amp; Tobago &lt;b&gt;", EscapeSlack("Trinidad & Tobago <b>"))
	assert.Equal(t, "Côte d'Ivoire", EscapeSlack("Côte d'Ivoire"))
}

func TestTruncateText(t *testing.T) {
	assert.Equal(t, "short", TruncateText("short", 10))
	assert.Equal(t, "abcdefg...", TruncateText("abcdefghijklmnop", 10))
	assert.Equal(t, "🇬🇧...", TruncateText("🇬🇧🇩🇪🇫🇷", 5))
	assert.Equal(t, "ab", TruncateText("abcdef", 2))
}

func TestTruncateLines(t *testing.T) {
	lines := []string{"one", "two", "three", "four"}

	assert.Equal(t, "one\ntwo\nthree\nfour", TruncateLines(lines, 100))
	assert.Equal(t, "one\ntwo\nthree\nfour", TruncateLines(lines, 18))
	assert.Equal(t, "one\n…and 3 more", TruncateLines(lines, 17))
	assert.Equal(t, "one\ntwo...", TruncateLines(lines, 10))
	assert.Equal(t, "o...", TruncateLines([]string{"overlong"}, 4))
	assert.Equal(t, "", TruncateLines(nil, 10))
}

func TestTruncateLines_Boundaries(t *testing.T) {
	lines := []string{"alpha", "bravo", "charlie", "delta"}

	tests := []struct {
		max  int
		want string
	}{
		{25, "alpha\nbravo\ncharlie\ndelta"},
		{24, "alpha\nbravo\n…and 2 more"},
		{23, "alpha\nbravo\n…and 2 more"},
		{22, "alpha\n…and 3 more"},
		{17, "alpha\n…and 3 more"},
		{16, "alpha\nbravo\nc..."},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, TruncateLines(lines, tt.max), "max=%d", tt.max)
	}
}
