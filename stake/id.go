package stake

import (
	"bytes"
	"errors"
	"fmt"

	"github.com/mr-tron/base58"
)

// IDLength is the size in bytes of a participant identity key.
const IDLength = 32

var (
	_ fmt.Stringer = ID{}

	// ErrInvalidID signals that a string is not a base58 encoded participant key.
	ErrInvalidID = errors.New("invalid participant id")
)

// ID identifies a network participant by its ed25519 identity public key.
type ID [IDLength]byte

// ParseID decodes a base58 participant key. The decoded key must be exactly
// IDLength bytes long.
func ParseID(s string) (ID, error) {
	var id ID
	decoded, err := base58.Decode(s)
	if err != nil {
		return id, fmt.Errorf("%w %q: %w", ErrInvalidID, s, err)
	}
	if len(decoded) != IDLength {
		return id, fmt.Errorf("%w %q: decoded length %d, expected %d", ErrInvalidID, s, len(decoded), IDLength)
	}
	copy(id[:], decoded)
	return id, nil
}

func (id ID) String() string {
	return base58.Encode(id[:])
}

func (id ID) MarshalText() ([]byte, error) {
	return []byte(id.String()), nil
}

func (id *ID) UnmarshalText(text []byte) error {
	parsed, err := ParseID(string(text))
	if err != nil {
		return err
	}
	*id = parsed
	return nil
}

func compareIDs(one, other ID) int {
	return bytes.Compare(one[:], other[:])
}
