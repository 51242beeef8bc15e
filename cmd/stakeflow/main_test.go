package main

import (
	"bytes"
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/filecoin-project/go-stakeflow/flowctl"
	"github.com/stretchr/testify/require"
)

const (
	nodeA = "Vote111111111111111111111111111111111111111"
	nodeB = "Stake11111111111111111111111111111111111111"
	nodeC = "11111111111111111111111111111111"
)

const voteAccounts = `{"jsonrpc":"2.0","id":1,"result":{
	"current":[
		{"votePubkey":"v1","nodePubkey":"` + nodeA + `","activatedStake":100},
		{"votePubkey":"v2","nodePubkey":"` + nodeB + `","activatedStake":200}
	],
	"delinquent":[
		{"votePubkey":"v3","nodePubkey":"` + nodeC + `","activatedStake":0}
	]}}`

func newVoteAccountsServer(t *testing.T) *httptest.Server {
	t.Helper()
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = io.WriteString(w, voteAccounts)
	}))
	t.Cleanup(server.Close)
	return server
}

func run(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	app := newApp()
	app.Writer = &out
	app.ErrWriter = io.Discard
	app.Reader = strings.NewReader(stdin)
	err := app.RunContext(context.Background(), append([]string{"stakeflow"}, args...))
	return out.String(), err
}

func TestCompute(t *testing.T) {
	server := newVoteAccountsServer(t)

	t.Run("prints stats and allocations", func(t *testing.T) {
		out, err := run(t, "", "compute", "--rpc-url", server.URL,
			"--validator-key", nodeB, "--validator-key", nodeA, "--validator-key", nodeC)
		require.NoError(t, err)
		require.Contains(t, out, "Network stats: total stake, min_stake, max_stake : (300, 100, 200)\n")
		require.Contains(t, out, "Snapshot: 3 participants, digest ")
		require.Contains(t, out, nodeB+": staked(200)\n  max uni streams: 512\n  receive_window: 630784 bytes, 512 max sized transactions\n")
		require.Contains(t, out, nodeA+": staked(100)\n  max uni streams: 512\n  receive_window: 157696 bytes, 128 max sized transactions\n")
		require.Contains(t, out, nodeC+": unstaked\n  max uni streams: 128\n  receive_window: 157696 bytes, 128 max sized transactions\n")
		require.Equal(t, 1, strings.Count(out, "Network stats"))
		require.NotContains(t, out, "quic:")
	})
	t.Run("applies overrides", func(t *testing.T) {
		out, err := run(t, "", "compute", "--rpc-url", server.URL,
			"--validator-key", nodeC, "--override", nodeC+"=400")
		require.NoError(t, err)
		require.Contains(t, out, "(700, 100, 400)")
		require.Contains(t, out, nodeC+": staked(400)\n  max uni streams: 512\n  receive_window: 630784 bytes, 512 max sized transactions\n")
	})
	t.Run("prints quic limits", func(t *testing.T) {
		out, err := run(t, "", "compute", "--rpc-url", server.URL, "--validator-key", nodeB, "--quic")
		require.NoError(t, err)
		require.Contains(t, out, "  quic: MaxIncomingUniStreams=512 InitialConnectionReceiveWindow=630784 MaxConnectionReceiveWindow=630784\n")
	})
	t.Run("rejects unknown validator", func(t *testing.T) {
		_, err := run(t, "", "compute", "--rpc-url", server.URL,
			"--validator-key", "So11111111111111111111111111111111111111112")
		require.ErrorContains(t, err, "computing allocations")
	})
	t.Run("rejects malformed validator key", func(t *testing.T) {
		_, err := run(t, "", "compute", "--rpc-url", server.URL, "--validator-key", "not-base58!")
		require.ErrorContains(t, err, "parsing validator key")
	})
	t.Run("rejects unknown commitment", func(t *testing.T) {
		_, err := run(t, "", "compute", "--rpc-url", server.URL, "--validator-key", nodeA, "--commitment", "max")
		require.Error(t, err)
	})
	t.Run("requires rpc url", func(t *testing.T) {
		_, err := run(t, "", "compute", "--validator-key", nodeA)
		require.ErrorContains(t, err, "rpc-url")
	})
}

func TestParams(t *testing.T) {
	t.Run("gen writes defaults", func(t *testing.T) {
		out, err := run(t, "", "params", "gen")
		require.NoError(t, err)
		got, err := flowctl.LoadParams(strings.NewReader(out))
		require.NoError(t, err)
		require.Equal(t, flowctl.DefaultParams(), got)
	})
	t.Run("gen writes file", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "params.json")
		_, err := run(t, "", "params", "gen", "--out", path)
		require.NoError(t, err)
		f, err := os.Open(path)
		require.NoError(t, err)
		defer func() { _ = f.Close() }()
		got, err := flowctl.LoadParams(f)
		require.NoError(t, err)
		require.Equal(t, flowctl.DefaultParams(), got)
	})
	t.Run("check loads partial file", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "params.json")
		require.NoError(t, os.WriteFile(path, []byte(`{"MaxStakedStreams":1024}`), 0644))
		out, err := run(t, "", "--params", path, "params", "check")
		require.NoError(t, err)
		require.Contains(t, out, "version: ")
		require.Contains(t, out, `"MaxStakedStreams": 1024`)
		require.Contains(t, out, `"PacketSize": 1232`)
	})
	t.Run("check rejects invalid file", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "params.json")
		require.NoError(t, os.WriteFile(path, []byte(`{"MinStakedStreams":1024}`), 0644))
		_, err := run(t, "", "--params", path, "params", "check")
		require.ErrorContains(t, err, "invalid params")
	})
}

func TestTools(t *testing.T) {
	t.Run("stats", func(t *testing.T) {
		snapshot := `{"` + nodeA + `":100,"` + nodeB + `":200,"` + nodeC + `":0}`
		out, err := run(t, snapshot, "tools", "stats")
		require.NoError(t, err)
		require.Contains(t, out, "(300, 100, 200)")
		require.Contains(t, out, "Snapshot: 3 participants")

		out, err = run(t, snapshot, "tools", "stats", "--override", nodeB+"=0")
		require.NoError(t, err)
		require.Contains(t, out, "(100, 100, 100)")
	})
	t.Run("stats rejects garbage", func(t *testing.T) {
		_, err := run(t, "[", "tools", "stats")
		require.ErrorContains(t, err, "decoding")
	})
	t.Run("allocate staked", func(t *testing.T) {
		out, err := run(t, "", "tools", "allocate",
			"--total-stake", "300", "--min-stake", "100", "--max-stake", "200", "--stake", "200")
		require.NoError(t, err)
		require.Equal(t, "peer: staked(200)\nmax uni streams: 512\nreceive_window: 630784 bytes, 512 max sized transactions\n", out)
	})
	t.Run("allocate unstaked", func(t *testing.T) {
		out, err := run(t, "", "tools", "allocate", "--unstaked")
		require.NoError(t, err)
		require.Equal(t, "peer: unstaked\nmax uni streams: 128\nreceive_window: 157696 bytes, 128 max sized transactions\n", out)
	})
}
