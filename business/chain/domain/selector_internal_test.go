package domain

import (
	"strconv"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestPickHeightOrDigest_DigestWins(t *testing.T) {
	d := Digest{1, 2, 3}

	sel, err := pickHeightOrDigest(7, nil, d, nil)
	require.NoError(t, err)
	require.Equal(t, AtDigest(d), sel)

	sel, err = pickHeightOrDigest(7, nil, Digest{}, &DigestParseError{Input: "7", Reason: "short"})
	require.NoError(t, err)
	require.Equal(t, AtHeight(7), sel)

	_, err = pickHeightOrDigest(0, &HeightParseError{Input: "x", Err: strconv.ErrSyntax}, Digest{}, &DigestParseError{Input: "x"})
	var neither *NeitherHeightNorDigestError
	require.ErrorAs(t, err, &neither)
	require.ErrorIs(t, err, strconv.ErrSyntax)
}
