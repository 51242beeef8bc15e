package stake

import (
	"errors"
	"fmt"
)

// ErrUnknownParticipant signals that a participant is present neither in a
// snapshot nor in its overrides.
var ErrUnknownParticipant = errors.New("participant not found in stake snapshot")

// PeerType classifies a connection counterpart as either staked, carrying
// its stake, or unstaked.
type PeerType struct {
	stake  uint64
	staked bool
}

// Unstaked returns the classification of a peer without stake.
func Unstaked() PeerType { return PeerType{} }

// Staked returns the classification of a peer with the given stake.
func Staked(stake uint64) PeerType { return PeerType{stake: stake, staked: true} }

// Stake returns the stake of a staked peer. The second return value is false
// for unstaked peers.
func (p PeerType) Stake() (uint64, bool) { return p.stake, p.staked }

func (p PeerType) IsStaked() bool { return p.staked }

func (p PeerType) String() string {
	if !p.staked {
		return "unstaked"
	}
	return fmt.Sprintf("staked(%d)", p.stake)
}

// Classify determines the peer type of a participant from the same snapshot
// and overrides used to compute Stats. The override of a participant takes
// precedence over its snapshot stake. Zero effective stake is unstaked.
func Classify(snapshot *Snapshot, overrides Overrides, id ID) (PeerType, error) {
	v, found := overrides[id]
	if !found {
		v, found = snapshot.Get(id)
	}
	switch {
	case !found:
		return Unstaked(), fmt.Errorf("%w: %s", ErrUnknownParticipant, id)
	case v == 0:
		return Unstaked(), nil
	default:
		return Staked(v), nil
	}
}
