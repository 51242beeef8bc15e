package flowctl

import (
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"

	"github.com/quic-go/quic-go/quicvarint"
	"go.uber.org/multierr"
	"golang.org/x/crypto/blake2b"
)

const (
	// DefaultPacketSize is the maximum size of a transaction packet payload,
	// which is the unit of receive window sizes.
	DefaultPacketSize = 1232

	DefaultMinStakedStreams   = 128
	DefaultMaxStakedStreams   = 512
	DefaultTotalStakedStreams = 100_000
	DefaultMaxUnstakedStreams = 128

	DefaultMinStakedRatio = 128
	DefaultMaxStakedRatio = 512
	DefaultUnstakedRatio  = 128
)

// Params holds the protocol constants that drive stream and receive window
// allocation. Params is a value type; the zero value is invalid, see
// DefaultParams.
type Params struct {
	// MinStakedStreams is the floor of concurrent uni streams allowed to any
	// staked peer, and the fallback used for inconsistent stake inputs.
	MinStakedStreams uint64
	// MaxStakedStreams caps the concurrent uni streams allowed to a single
	// staked peer.
	MaxStakedStreams uint64
	// TotalStakedStreams is the stream budget shared by all staked peers in
	// proportion to their stake.
	TotalStakedStreams uint64
	// MaxUnstakedStreams is the number of concurrent uni streams allowed to an
	// unstaked peer.
	MaxUnstakedStreams uint64

	// MinStakedRatio and MaxStakedRatio bound the receive window, in packets,
	// of staked peers with stake between the observed minimum and maximum.
	MinStakedRatio uint64
	MaxStakedRatio uint64
	// UnstakedRatio is the receive window, in packets, of an unstaked peer.
	UnstakedRatio uint64

	// PacketSize is the number of bytes per unit of receive window ratio.
	PacketSize uint64
	// MaxVarInt is the largest receive window the transport can encode.
	MaxVarInt uint64
}

// DefaultParams returns the params used by mainnet validators.
func DefaultParams() Params {
	return Params{
		MinStakedStreams:   DefaultMinStakedStreams,
		MaxStakedStreams:   DefaultMaxStakedStreams,
		TotalStakedStreams: DefaultTotalStakedStreams,
		MaxUnstakedStreams: DefaultMaxUnstakedStreams,
		MinStakedRatio:     DefaultMinStakedRatio,
		MaxStakedRatio:     DefaultMaxStakedRatio,
		UnstakedRatio:      DefaultUnstakedRatio,
		PacketSize:         DefaultPacketSize,
		MaxVarInt:          quicvarint.Max,
	}
}

// Validate checks that the params describe a usable allocation and reports
// every violation found.
func (p Params) Validate() error {
	var err error
	check := func(ok bool, format string, args ...any) {
		if !ok {
			err = multierr.Append(err, fmt.Errorf(format, args...))
		}
	}
	for _, field := range []struct {
		name  string
		value uint64
	}{
		{"MinStakedStreams", p.MinStakedStreams},
		{"MaxStakedStreams", p.MaxStakedStreams},
		{"TotalStakedStreams", p.TotalStakedStreams},
		{"MaxUnstakedStreams", p.MaxUnstakedStreams},
		{"MinStakedRatio", p.MinStakedRatio},
		{"MaxStakedRatio", p.MaxStakedRatio},
		{"UnstakedRatio", p.UnstakedRatio},
		{"PacketSize", p.PacketSize},
		{"MaxVarInt", p.MaxVarInt},
	} {
		check(field.value > 0, "%s must be larger than zero", field.name)
	}
	check(p.MinStakedStreams <= p.MaxStakedStreams,
		"MinStakedStreams %d exceeds MaxStakedStreams %d", p.MinStakedStreams, p.MaxStakedStreams)
	check(p.MaxStakedStreams <= p.TotalStakedStreams,
		"MaxStakedStreams %d exceeds TotalStakedStreams %d", p.MaxStakedStreams, p.TotalStakedStreams)
	check(p.MinStakedRatio <= p.MaxStakedRatio,
		"MinStakedRatio %d exceeds MaxStakedRatio %d", p.MinStakedRatio, p.MaxStakedRatio)
	check(p.MaxVarInt <= quicvarint.Max,
		"MaxVarInt %d exceeds the largest QUIC variable-length integer %d", p.MaxVarInt, uint64(quicvarint.Max))
	return err
}

// Version uniquely identifies the content of these params.
func (p Params) Version() (string, error) {
	b, err := p.Marshal()
	if err != nil {
		return "", fmt.Errorf("computing params version: %w", err)
	}
	sum := blake2b.Sum256(b)
	return hex.EncodeToString(sum[:]), nil
}

func (p Params) Marshal() ([]byte, error) {
	b, err := json.Marshal(p)
	if err != nil {
		return nil, fmt.Errorf("marshaling JSON: %w", err)
	}
	return b, nil
}

// Unmarshal decodes JSON params from r onto p. Fields absent from the input
// keep their current value.
func (p *Params) Unmarshal(r io.Reader) error {
	if err := json.NewDecoder(r).Decode(p); err != nil {
		return fmt.Errorf("decoding JSON: %w", err)
	}
	return nil
}

// LoadParams reads JSON params from r on top of DefaultParams and validates
// the result.
func LoadParams(r io.Reader) (Params, error) {
	p := DefaultParams()
	if err := p.Unmarshal(r); err != nil {
		return Params{}, err
	}
	if err := p.Validate(); err != nil {
		return Params{}, fmt.Errorf("invalid params: %w", err)
	}
	return p, nil
}
