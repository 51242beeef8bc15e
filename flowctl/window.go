package flowctl

import (
	"errors"
	"fmt"
	"math"
	"math/bits"

	"github.com/filecoin-project/go-stakeflow/stake"
)

// ErrBoundsExceeded signals that a receive window cannot be represented as a
// transport variable-length integer.
var ErrBoundsExceeded = errors.New("receive window exceeds variable-length integer bounds")

// ReceiveWindowRatio returns the receive window, in packets, of a staked peer.
//
// The ratio r(s) = a*s + b maps the observed stake range [minStake, maxStake]
// linearly onto [MinStakedRatio, MaxStakedRatio], rounded half away from
// zero. A peer whose stake exceeds maxStake, or any peer when the range is
// empty, gets MaxStakedRatio.
func (p Params) ReceiveWindowRatio(maxStake, minStake, peerStake uint64) uint64 {
	if peerStake > maxStake {
		log.Warnw("peer stake exceeds maximum observed stake", "peerStake", peerStake, "maxStake", maxStake)
		recordDegenerateInput(attrReasonStakeExceedsMax)
		return p.MaxStakedRatio
	}
	if maxStake <= minStake {
		log.Warnw("cannot discriminate stake range", "minStake", minStake, "maxStake", maxStake)
		recordDegenerateInput(attrReasonDegenerateRange)
		return p.MaxStakedRatio
	}

	maxRatio, minRatio := float64(p.MaxStakedRatio), float64(p.MinStakedRatio)
	a := (maxRatio - minRatio) / float64(maxStake-minStake)
	// The explicit conversions round each product, preventing fused
	// multiply-add so the result is identical on every architecture.
	b := maxRatio - float64(float64(maxStake)*a)
	ratio := math.Round(float64(a*float64(peerStake)) + b)
	// Stakes below minStake extrapolate below MinStakedRatio, possibly past zero.
	return uint64(max(ratio, 0))
}

// ReceiveWindow returns the per-connection receive window in bytes for the
// given peer, given the minimum and maximum stake observed on the network.
// It fails with ErrBoundsExceeded if the window exceeds MaxVarInt.
func (p Params) ReceiveWindow(maxStake, minStake uint64, peer stake.PeerType) (uint64, error) {
	ratio := p.UnstakedRatio
	if peerStake, staked := peer.Stake(); staked {
		ratio = p.ReceiveWindowRatio(maxStake, minStake, peerStake)
	}
	return p.windowBytes(ratio)
}

func (p Params) windowBytes(ratio uint64) (uint64, error) {
	hi, window := bits.Mul64(p.PacketSize, ratio)
	if hi != 0 || window > p.MaxVarInt {
		return 0, fmt.Errorf("%w: %d packets of %d bytes exceed %d", ErrBoundsExceeded, ratio, p.PacketSize, p.MaxVarInt)
	}
	return window, nil
}
