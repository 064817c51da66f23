package group

import (
	"math/big"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestNewParamsValidSafePrime(t *testing.T) {
	params, err := NewParams(big.NewInt(1019), 6, 10)
	require.NoError(t, err)
	require.Equal(t, big.NewInt(509), params.Q)
	require.Equal(t, big.NewInt(4), params.G)
}

func TestNewParamsRejectsNonSafePrime(t *testing.T) {
	_, err := NewParams(big.NewInt(1020), 6, 10)
	require.Error(t, err)
}

func TestNewParamsRejectsBadThreshold(t *testing.T) {
	_, err := NewParams(big.NewInt(1019), 11, 10)
	require.Error(t, err)
	_, err = NewParams(big.NewInt(1019), 0, 10)
	require.Error(t, err)
}

func TestViewIndexingAndPeers(t *testing.T) {
	view, err := NewView([]Identity{"a", "b", "c"})
	require.NoError(t, err)

	idx, ok := view.Index("b")
	require.True(t, ok)
	require.Equal(t, int64(2), idx)

	_, ok = view.Index("z")
	require.False(t, ok)

	require.Equal(t, 3, view.N())
	require.ElementsMatch(t, []Identity{"a", "c"}, view.Peers("b"))
}

func TestNewViewRejectsEmptyAndDuplicates(t *testing.T) {
	_, err := NewView(nil)
	require.Error(t, err)

	_, err = NewView([]Identity{"a", "a"})
	require.Error(t, err)
}
