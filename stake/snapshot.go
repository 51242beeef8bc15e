package stake

import (
	"encoding/binary"
	"encoding/json"
	"fmt"
	"io"
	"iter"
	"maps"
	"slices"

	"golang.org/x/crypto/blake2b"
)

// Snapshot is a point-in-time, read-only view of the stake of every known
// participant. A Snapshot is never modified after construction and may be
// shared freely between goroutines; a refreshed view is a new Snapshot.
//
// The zero value and a nil *Snapshot are both empty.
type Snapshot struct {
	stakes map[ID]uint64
}

// NewSnapshot creates a snapshot holding a copy of the given stakes.
func NewSnapshot(stakes map[ID]uint64) *Snapshot {
	return &Snapshot{stakes: maps.Clone(stakes)}
}

// Get returns the stake of the given participant, if present.
func (s *Snapshot) Get(id ID) (uint64, bool) {
	if s == nil {
		return 0, false
	}
	v, found := s.stakes[id]
	return v, found
}

// Len returns the number of participants in this snapshot, including those
// with zero stake.
func (s *Snapshot) Len() int {
	if s == nil {
		return 0
	}
	return len(s.stakes)
}

// All iterates over every participant and its stake in no particular order.
func (s *Snapshot) All() iter.Seq2[ID, uint64] {
	if s == nil {
		return func(func(ID, uint64) bool) {}
	}
	return maps.All(s.stakes)
}

// IDs returns the participants of this snapshot in ascending byte order.
func (s *Snapshot) IDs() []ID {
	if s == nil {
		return nil
	}
	return slices.SortedFunc(maps.Keys(s.stakes), compareIDs)
}

// Digest returns a blake2b-256 digest over the entries of this snapshot in ID
// order. Two snapshots with the same content always have the same digest.
func (s *Snapshot) Digest() []byte {
	h, err := blake2b.New256(nil)
	if err != nil {
		// Only fails for keys larger than 64 bytes.
		panic(err)
	}
	var buf [IDLength + 8]byte
	for _, id := range s.IDs() {
		copy(buf[:IDLength], id[:])
		binary.BigEndian.PutUint64(buf[IDLength:], s.stakes[id])
		_, _ = h.Write(buf[:])
	}
	return h.Sum(nil)
}

func (s *Snapshot) MarshalJSON() ([]byte, error) {
	if s == nil || s.stakes == nil {
		return []byte("{}"), nil
	}
	return json.Marshal(s.stakes)
}

// DecodeSnapshot reads a JSON object mapping base58 participant IDs to stake
// and returns it as a new Snapshot.
func DecodeSnapshot(r io.Reader) (*Snapshot, error) {
	var stakes map[ID]uint64
	if err := json.NewDecoder(r).Decode(&stakes); err != nil {
		return nil, fmt.Errorf("decoding snapshot: %w", err)
	}
	return NewSnapshot(stakes), nil
}
