package chat

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestTruncate(t *testing.T) {
	require.Equal(t, "short", truncate("short", 10))
	require.Equal(t, "exactly ten", truncate("exactly ten", 11))
	require.Equal(t, "a long ...", truncate("a long conversation title", 10))

	// Multibyte titles must be cut on rune boundaries.
	require.Equal(t, "日本語のタ...", truncate("日本語のタイトルです", 8))
	require.Equal(t, "日本語", truncate("日本語", 8))
}
