package principal

import (
	"encoding/hex"
	"errors"
	"strings"
)

// Size is the length of a principal identifier in bytes.
const Size = 20

var ErrInvalidPrincipal = errors.New("invalid principal")

// Principal identifies an external party: a reporter, a challenger, an
// arbitrator or an administrative caller. The zero value is reserved and
// never a valid party.
type Principal [Size]byte

// FromHex parses a principal from a hex string, with or without the 0x
// prefix.
func FromHex(s string) (Principal, error) {
	s = strings.TrimPrefix(s, "0x")
	raw, err := hex.DecodeString(s)
	if err != nil {
		return Principal{}, ErrInvalidPrincipal
	}
	if len(raw) != Size {
		return Principal{}, ErrInvalidPrincipal
	}
	var p Principal
	copy(p[:], raw)
	return p, nil
}

func (p Principal) String() string {
	return "0x" + hex.EncodeToString(p[:])
}

// IsZero reports whether p is the reserved zero principal.
func (p Principal) IsZero() bool {
	return p == Principal{}
}
