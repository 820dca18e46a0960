package components

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestHintsFilterByPrefix(t *testing.T) {
	t.Parallel()
	require.Equal(t, []string{"session:start", "session:complete", "session:cancel"}, Hints("session:", 5))
	require.Equal(t, []string{"subject:add <difficulty 1-10> <name>"}, Hints("subject:add 5 Ma", 5))
	require.Len(t, Hints("", 5), 5)
}

func TestOpenWithPrefillsInput(t *testing.T) {
	t.Parallel()
	p := NewPalette()
	p.OpenWith("todo:add ")
	require.True(t, p.Visible())
	require.Equal(t, "todo:add ", p.input.Value())
}
