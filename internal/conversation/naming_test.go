package conversation

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestOrdinalTitle(t *testing.T) {
	require.Equal(t, "First conversation", OrdinalTitle(0))
	require.Equal(t, "Second conversation", OrdinalTitle(1))
	require.Equal(t, "Tenth conversation", OrdinalTitle(9))

	// Beyond the fixed vocabulary we fall back to a numeric ordinal.
	require.Equal(t, "11th conversation", OrdinalTitle(10))
	require.Equal(t, "42th conversation", OrdinalTitle(41))
}
