// Package flicker implements the flicker code, the wire identifier for a
// lamp's claimed color: "<colorIndex>.<nonce>.<deviceID>". Codes are immutable
// values compared only by equality; the nonce has no ordering semantics.
package flicker

import (
	"fmt"
	"math/rand"
	"strconv"
	"strings"
)

// Nonce range matches the companion admin tooling (4 digits or fewer).
const (
	nonceMin = 1000
	nonceMax = 9999
)

// Code identifies a device's claimed color as of one confirmed change.
type Code struct {
	Color  int    // color index in [0, NumColors)
	Nonce  int    // de-duplication suffix, equality-only
	Device string // device identifier, no separators
}

// String serializes the code in wire format: "<color>.<nonce>.<device>".
func (c Code) String() string {
	return fmt.Sprintf("%d.%d.%s", c.Color, c.Nonce, c.Device)
}

// IsZero reports whether the code is the zero value (no code known).
func (c Code) IsZero() bool {
	return c == Code{}
}

// Parse decodes a wire-format code. It fails closed: anything that is not
// exactly three dot-separated fields with two leading integers is rejected.
func Parse(s string) (Code, error) {
	parts := strings.SplitN(s, ".", 3)
	if len(parts) != 3 {
		return Code{}, fmt.Errorf("flicker: code %q: want 3 dot-separated fields", s)
	}
	color, err := strconv.Atoi(parts[0])
	if err != nil {
		return Code{}, fmt.Errorf("flicker: code %q: color field: %w", s, err)
	}
	nonce, err := strconv.Atoi(parts[1])
	if err != nil {
		return Code{}, fmt.Errorf("flicker: code %q: nonce field: %w", s, err)
	}
	if parts[2] == "" {
		return Code{}, fmt.Errorf("flicker: code %q: empty device field", s)
	}
	return Code{Color: color, Nonce: nonce, Device: parts[2]}, nil
}

// NewNonce draws a nonce from the given source. Callers seed the source from
// the wall clock so repeated changes on one device produce distinct codes.
func NewNonce(r *rand.Rand) int {
	return nonceMin + r.Intn(nonceMax-nonceMin+1)
}
