package solana

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"sync/atomic"
	"time"

	"github.com/filecoin-project/go-stakeflow/internal/measurements"
	"github.com/filecoin-project/go-stakeflow/source"
	"github.com/filecoin-project/go-stakeflow/stake"
	logging "github.com/ipfs/go-log/v2"
)

var logger = logging.Logger("stakeflow/solana")

var _ source.Backend = (*Client)(nil)

// Client reads vote accounts from a Solana JSON-RPC endpoint.
type Client struct {
	endpoint   string
	httpClient *http.Client
	nextID     atomic.Uint64
}

// NewClient creates a client for the given endpoint. A nil httpClient uses
// http.DefaultClient.
func NewClient(endpoint string, httpClient *http.Client) *Client {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &Client{endpoint: endpoint, httpClient: httpClient}
}

// VoteAccount is the subset of a getVoteAccounts entry used to build stake
// snapshots.
type VoteAccount struct {
	VotePubkey     string `json:"votePubkey"`
	NodePubkey     string `json:"nodePubkey"`
	ActivatedStake uint64 `json:"activatedStake"`
	Commission     uint8  `json:"commission"`
	LastVote       uint64 `json:"lastVote"`
	RootSlot       uint64 `json:"rootSlot"`
}

type VoteAccounts struct {
	Current    []VoteAccount `json:"current"`
	Delinquent []VoteAccount `json:"delinquent"`
}

// Snapshot maps the node identity of every current and delinquent vote
// account to its activated stake. Accounts with a malformed node identity
// are skipped. If a node appears more than once, the last entry wins.
func (v *VoteAccounts) Snapshot() *stake.Snapshot {
	stakes := make(map[stake.ID]uint64, len(v.Current)+len(v.Delinquent))
	for _, accounts := range [][]VoteAccount{v.Current, v.Delinquent} {
		for _, account := range accounts {
			id, err := stake.ParseID(account.NodePubkey)
			if err != nil {
				logger.Debugw("skipping vote account with invalid node identity", "votePubkey", account.VotePubkey, "err", err)
				continue
			}
			stakes[id] = account.ActivatedStake
		}
	}
	return stake.NewSnapshot(stakes)
}

// GetVoteAccounts returns the current and delinquent vote accounts at the
// given commitment.
func (c *Client) GetVoteAccounts(ctx context.Context, commitment source.Commitment) (*VoteAccounts, error) {
	params := struct {
		Commitment source.Commitment `json:"commitment,omitempty"`
	}{Commitment: commitment}
	accounts, err := doJsonRpcRequest[VoteAccounts](ctx, c, "getVoteAccounts", params)
	if err != nil {
		return nil, err
	}
	return &accounts, nil
}

// GetStakes fetches a snapshot of the activated stake of every validator.
func (c *Client) GetStakes(ctx context.Context, commitment source.Commitment) (*stake.Snapshot, error) {
	accounts, err := c.GetVoteAccounts(ctx, commitment)
	if err != nil {
		return nil, fmt.Errorf("getting vote accounts: %w", err)
	}
	snapshot := accounts.Snapshot()
	logger.Debugw("fetched stake snapshot", "endpoint", c.endpoint, "commitment", commitment,
		"current", len(accounts.Current), "delinquent", len(accounts.Delinquent), "participants", snapshot.Len())
	return snapshot, nil
}

type request struct {
	JsonRpc string `json:"jsonrpc"`
	ID      uint64 `json:"id"`
	Method  string `json:"method"`
	Params  []any  `json:"params"`
}

type resultOrError[R any] struct {
	Result R `json:"result"`
	Error  *struct {
		Code    int    `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

func doJsonRpcRequest[R any](ctx context.Context, c *Client, method string, params ...any) (_ R, _err error) {
	defer func(start time.Time) {
		recordRpcLatency(ctx, method, time.Since(start), _err)
	}(time.Now())

	var zeroResult R
	body, err := json.Marshal(request{JsonRpc: "2.0", ID: c.nextID.Add(1), Method: method, Params: params})
	if err != nil {
		return zeroResult, fmt.Errorf("failed to encode request: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(body))
	if err != nil {
		return zeroResult, fmt.Errorf("failed to construct request: %w", err)
	}
	req.Header.Set("Content-Type", `application/json`)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return zeroResult, fmt.Errorf("failed to execute the request: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()
	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return zeroResult, fmt.Errorf("failed to read response body: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return zeroResult, fmt.Errorf("unsuccessful response status %d: %s", resp.StatusCode, string(respBody))
	}
	var roe resultOrError[R]
	if err := json.Unmarshal(respBody, &roe); err != nil {
		return zeroResult, fmt.Errorf("failed to unmarshal response as json: %w", err)
	}
	if roe.Error != nil {
		logger.Errorw("json rpc call failed", "endpoint", c.endpoint, "method", method, "code", roe.Error.Code, "message", roe.Error.Message)
		return zeroResult, fmt.Errorf("json rpc error %d: %w", roe.Error.Code, &measurements.RemoteError{Message: roe.Error.Message})
	}
	return roe.Result, nil
}
