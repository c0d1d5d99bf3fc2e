// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package bitmask

import (
	"encoding/hex"
	"errors"
	"fmt"
	"math/bits"
)

// MaxParticipants is the largest number of participants a session can register.
// Candidate numbers are stored as signed 64-bit integers, so bit 63 is never issued.
const MaxParticipants = 63

var (
	ErrBitOutOfRange       = errors.New("bit index out of range")
	ErrNotPowerOfTwo       = errors.New("candidate number must be a power of two")
	ErrTooManyParticipants = fmt.Errorf("at most %d participants are supported", MaxParticipants)
)

// Mask is a per-slot occupancy bitmask. Bit i lives in byte i/8 at position i%8,
// least significant bit first.
type Mask []byte

// Size returns the number of bytes needed to hold one bit per participant.
func Size(participants int) int {
	if participants <= 0 {
		return 0
	}
	return (participants + 7) / 8
}

// New returns a zeroed mask wide enough for the given participant count.
func New(participants int) Mask {
	return make(Mask, Size(participants))
}

// Len returns the number of addressable bits.
func (m Mask) Len() int {
	return len(m) * 8
}

// Set turns bit i on.
func (m Mask) Set(i int) error {
	if i < 0 || i >= m.Len() {
		return fmt.Errorf("%w: %d (width %d)", ErrBitOutOfRange, i, m.Len())
	}
	m[i/8] |= 1 << uint(i%8)
	return nil
}

// Clear turns bit i off.
func (m Mask) Clear(i int) error {
	if i < 0 || i >= m.Len() {
		return fmt.Errorf("%w: %d (width %d)", ErrBitOutOfRange, i, m.Len())
	}
	m[i/8] &^= 1 << uint(i%8)
	return nil
}

// Has reports whether bit i is on. Out of range bits read as off.
func (m Mask) Has(i int) bool {
	if i < 0 || i >= m.Len() {
		return false
	}
	return m[i/8]&(1<<uint(i%8)) != 0
}

// PopCount returns the number of set bits.
func (m Mask) PopCount() int {
	n := 0
	for _, b := range m {
		n += bits.OnesCount8(b)
	}
	return n
}

// Uint64 returns the first eight bytes as a little-endian integer.
func (m Mask) Uint64() uint64 {
	var v uint64
	for i := 0; i < len(m) && i < 8; i++ {
		v |= uint64(m[i]) << (8 * uint(i))
	}
	return v
}

// Clone returns an independent copy.
func (m Mask) Clone() Mask {
	c := make(Mask, len(m))
	copy(c, m)
	return c
}

// Equal reports whether both masks hold the same bytes.
func (m Mask) Equal(o Mask) bool {
	if len(m) != len(o) {
		return false
	}
	for i := range m {
		if m[i] != o[i] {
			return false
		}
	}
	return true
}

func (m Mask) String() string {
	return hex.EncodeToString(m)
}

// CandidateNumber returns the candidate number for the i-th enumerated participant.
func CandidateNumber(i int) (int64, error) {
	if i < 0 || i >= MaxParticipants {
		return 0, ErrTooManyParticipants
	}
	return int64(1) << uint(i), nil
}

// BitIndex converts a candidate number back into its bit position.
func BitIndex(candidate int64) (int, error) {
	if candidate <= 0 || candidate&(candidate-1) != 0 {
		return 0, fmt.Errorf("%w: %d", ErrNotPowerOfTwo, candidate)
	}
	return bits.TrailingZeros64(uint64(candidate)), nil
}
