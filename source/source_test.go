package source_test

import (
	"testing"

	"github.com/filecoin-project/go-stakeflow/source"
	"github.com/stretchr/testify/require"
)

func TestParseCommitment(t *testing.T) {
	for _, want := range source.Commitments {
		got, err := source.ParseCommitment(string(want))
		require.NoError(t, err)
		require.Equal(t, want, got)
	}
	_, err := source.ParseCommitment("recent")
	require.ErrorIs(t, err, source.ErrInvalidCommitment)
	_, err = source.ParseCommitment("")
	require.ErrorIs(t, err, source.ErrInvalidCommitment)
}
