package stake_test

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/filecoin-project/go-stakeflow/stake"
	"github.com/stretchr/testify/require"
)

func TestID(t *testing.T) {
	t.Run("zero key encodes as all ones", func(t *testing.T) {
		require.Equal(t, strings.Repeat("1", 32), stake.ID{}.String())
	})
	t.Run("parses well-known key", func(t *testing.T) {
		id, err := stake.ParseID("Vote111111111111111111111111111111111111111")
		require.NoError(t, err)
		require.Equal(t, "Vote111111111111111111111111111111111111111", id.String())
	})
	t.Run("round trips", func(t *testing.T) {
		subject := idOf(42)
		parsed, err := stake.ParseID(subject.String())
		require.NoError(t, err)
		require.Equal(t, subject, parsed)
	})
	t.Run("rejects invalid base58", func(t *testing.T) {
		_, err := stake.ParseID("not-base58-0OIl")
		require.ErrorIs(t, err, stake.ErrInvalidID)
	})
	t.Run("rejects wrong length", func(t *testing.T) {
		_, err := stake.ParseID("3mJr7AoUXx2Wqd")
		require.ErrorIs(t, err, stake.ErrInvalidID)
		require.ErrorContains(t, err, "expected 32")
	})
	t.Run("is text in json", func(t *testing.T) {
		subject := idOf(7)
		b, err := json.Marshal(subject)
		require.NoError(t, err)
		require.Equal(t, `"`+subject.String()+`"`, string(b))

		var decoded stake.ID
		require.NoError(t, json.Unmarshal(b, &decoded))
		require.Equal(t, subject, decoded)
	})
}
