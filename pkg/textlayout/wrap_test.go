package textlayout

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func tenPerRune(text string) int { return 10 * len(text) }

func TestWrapSplitsAtWordBoundaries(t *testing.T) {
	assert.Equal(t, []string{"aa bb", "cc"}, Wrap("aa bb cc", tenPerRune, 50))
	assert.Equal(t, []string{"aa", "bb", "cc"}, Wrap("aa bb cc", tenPerRune, 25))
}

func TestWrapEmptyInput(t *testing.T) {
	assert.Empty(t, Wrap("", tenPerRune, 100))
}

func TestWrapKeepsOversizedWordWhole(t *testing.T) {
	lines := Wrap("a extraordinarily b", tenPerRune, 30)
	assert.Equal(t, []string{"a", "extraordinarily", "b"}, lines)
}

func TestWrapPreservesTextAndWidth(t *testing.T) {
	text := "I have not slept in three days and I do not know who else to call tonight"
	for _, width := range []int{40, 90, 120, 300, 2000} {
		lines := Wrap(text, tenPerRune, width)
		require.NotEmpty(t, lines)
		assert.Equal(t, text, strings.Join(lines, " "), "width %d", width)
		for _, line := range lines {
			if strings.Contains(line, " ") {
				assert.LessOrEqual(t, tenPerRune(line), width, "line %q", line)
			}
		}
	}
}

func TestWrapIsDeterministic(t *testing.T) {
	text := "same input same output"
	assert.Equal(t, Wrap(text, tenPerRune, 70), Wrap(text, tenPerRune, 70))
}

func TestWrapLinesHonoursNewlines(t *testing.T) {
	lines := WrapLines("hello there\nfriend", tenPerRune, 200)
	assert.Equal(t, []string{"hello there", "friend"}, lines)
}
