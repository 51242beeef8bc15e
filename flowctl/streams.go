package flowctl

import "github.com/filecoin-project/go-stakeflow/stake"

// MaxUniStreams returns the number of concurrent uni streams a peer may open.
//
// Unstaked peers get MaxUnstakedStreams. Staked peers share
// TotalStakedStreams in proportion to their stake on top of the
// MinStakedStreams floor, capped at MaxStakedStreams. A zero total stake or
// a peer stake above the total indicates an inconsistent snapshot; such
// peers are logged and get the floor, as do all staked peers when the
// budget leaves nothing above the floor.
func (p Params) MaxUniStreams(peer stake.PeerType, totalStake uint64) uint64 {
	peerStake, staked := peer.Stake()
	if !staked {
		return p.MaxUnstakedStreams
	}

	switch {
	case totalStake == 0:
		log.Warnw("invalid stake values: zero total stake", "peerStake", peerStake, "totalStake", totalStake)
		recordDegenerateInput(attrReasonZeroTotal)
		return p.MinStakedStreams
	case peerStake > totalStake:
		log.Warnw("invalid stake values: peer stake exceeds total stake", "peerStake", peerStake, "totalStake", totalStake)
		recordDegenerateInput(attrReasonStakeExceedsTotal)
		return p.MinStakedStreams
	}

	if p.TotalStakedStreams <= p.MinStakedStreams {
		return p.MinStakedStreams
	}
	delta := float64(p.TotalStakedStreams - p.MinStakedStreams)
	streams := uint64(float64(peerStake)/float64(totalStake)*delta) + p.MinStakedStreams
	return min(max(streams, p.MinStakedStreams), p.MaxStakedStreams)
}
