package source

import (
	"context"
	"errors"
	"fmt"

	"github.com/filecoin-project/go-stakeflow/stake"
)

// ErrInvalidCommitment signals an unknown commitment level.
var ErrInvalidCommitment = errors.New("invalid commitment")

// Commitment is the level of finality of the bank state a snapshot is read
// from.
type Commitment string

const (
	CommitmentProcessed Commitment = "processed"
	CommitmentConfirmed Commitment = "confirmed"
	CommitmentFinalized Commitment = "finalized"
)

// Commitments lists every supported commitment level.
var Commitments = []Commitment{CommitmentProcessed, CommitmentConfirmed, CommitmentFinalized}

func ParseCommitment(s string) (Commitment, error) {
	switch c := Commitment(s); c {
	case CommitmentProcessed, CommitmentConfirmed, CommitmentFinalized:
		return c, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrInvalidCommitment, s)
	}
}

type Backend interface {
	// GetStakes returns a snapshot of the stake of every participant at the
	// given commitment. Each call that observes a change returns a new
	// snapshot; returned snapshots are never modified.
	GetStakes(context.Context, Commitment) (*stake.Snapshot, error)
}
