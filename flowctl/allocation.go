package flowctl

import (
	"fmt"
	"math"

	"github.com/filecoin-project/go-stakeflow/stake"
	"github.com/quic-go/quic-go"
)

// Allocation is the flow control granted to a single peer connection.
type Allocation struct {
	Peer          stake.PeerType
	Streams       uint64
	ReceiveWindow uint64
}

// Allocate computes the stream and receive window allocation of a peer from
// the stake stats of the snapshot the peer was classified against.
func (p Params) Allocate(stats stake.Stats, peer stake.PeerType) (Allocation, error) {
	window, err := p.ReceiveWindow(stats.Max, stats.Min, peer)
	if err != nil {
		return Allocation{}, fmt.Errorf("computing receive window for %s peer: %w", peer, err)
	}
	return Allocation{
		Peer:          peer,
		Streams:       p.MaxUniStreams(peer, stats.Total),
		ReceiveWindow: window,
	}, nil
}

// MaxSizedPackets returns the number of maximum sized packets that fit in the
// receive window.
func (a Allocation) MaxSizedPackets(p Params) uint64 {
	if p.PacketSize == 0 {
		return 0
	}
	return a.ReceiveWindow / p.PacketSize
}

// QUICConfig applies this allocation to a copy of base, or to an empty config
// if base is nil. The connection receive window is fixed at the allocated
// size rather than auto-tuned.
func (a Allocation) QUICConfig(base *quic.Config) *quic.Config {
	var cfg *quic.Config
	if base != nil {
		cfg = base.Clone()
	} else {
		cfg = &quic.Config{}
	}
	cfg.MaxIncomingUniStreams = int64(min(a.Streams, math.MaxInt64))
	cfg.InitialConnectionReceiveWindow = a.ReceiveWindow
	cfg.MaxConnectionReceiveWindow = a.ReceiveWindow
	return cfg
}
