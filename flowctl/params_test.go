package flowctl_test

import (
	"strings"
	"testing"

	"github.com/filecoin-project/go-stakeflow/flowctl"
	"github.com/quic-go/quic-go/quicvarint"
	"github.com/stretchr/testify/require"
	"go.uber.org/multierr"
)

func TestParams_Validate(t *testing.T) {
	t.Run("defaults are valid", func(t *testing.T) {
		require.NoError(t, flowctl.DefaultParams().Validate())
	})
	t.Run("zero value reports every field", func(t *testing.T) {
		err := flowctl.Params{}.Validate()
		require.Error(t, err)
		require.Len(t, multierr.Errors(err), 9)
		require.ErrorContains(t, err, "PacketSize must be larger than zero")
	})
	t.Run("inverted bounds", func(t *testing.T) {
		subject := flowctl.DefaultParams()
		subject.MinStakedStreams = 600
		subject.MinStakedRatio = 1000
		err := subject.Validate()
		require.Len(t, multierr.Errors(err), 2)
		require.ErrorContains(t, err, "MinStakedStreams 600 exceeds MaxStakedStreams 512")
		require.ErrorContains(t, err, "MinStakedRatio 1000 exceeds MaxStakedRatio 512")
	})
	t.Run("max streams above budget", func(t *testing.T) {
		subject := flowctl.DefaultParams()
		subject.TotalStakedStreams = 500
		require.ErrorContains(t, subject.Validate(), "exceeds TotalStakedStreams")
	})
	t.Run("varint limit above quic maximum", func(t *testing.T) {
		subject := flowctl.DefaultParams()
		subject.MaxVarInt = quicvarint.Max + 1
		require.ErrorContains(t, subject.Validate(), "largest QUIC variable-length integer")
	})
}

func TestLoadParams(t *testing.T) {
	t.Run("absent fields keep defaults", func(t *testing.T) {
		got, err := flowctl.LoadParams(strings.NewReader(`{"MaxStakedStreams": 1024, "PacketSize": 1500}`))
		require.NoError(t, err)
		want := flowctl.DefaultParams()
		want.MaxStakedStreams = 1024
		want.PacketSize = 1500
		require.Equal(t, want, got)
	})
	t.Run("round trips", func(t *testing.T) {
		b, err := flowctl.DefaultParams().Marshal()
		require.NoError(t, err)
		got, err := flowctl.LoadParams(strings.NewReader(string(b)))
		require.NoError(t, err)
		require.Equal(t, flowctl.DefaultParams(), got)
	})
	t.Run("malformed json", func(t *testing.T) {
		_, err := flowctl.LoadParams(strings.NewReader(`{"PacketSize":`))
		require.ErrorContains(t, err, "decoding JSON")
	})
	t.Run("invalid content", func(t *testing.T) {
		_, err := flowctl.LoadParams(strings.NewReader(`{"PacketSize": 0}`))
		require.ErrorContains(t, err, "invalid params")
	})
}

func TestParams_Version(t *testing.T) {
	one, err := flowctl.DefaultParams().Version()
	require.NoError(t, err)
	again, err := flowctl.DefaultParams().Version()
	require.NoError(t, err)
	require.Equal(t, one, again)
	require.Len(t, one, 64)

	changed := flowctl.DefaultParams()
	changed.UnstakedRatio++
	other, err := changed.Version()
	require.NoError(t, err)
	require.NotEqual(t, one, other)
}
