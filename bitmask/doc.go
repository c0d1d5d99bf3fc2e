// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package bitmask implements the per-slot occupancy bitset used for voting.

Every participant of a tuning session owns one bit. The participant's candidate
number is 2^i, where i is the bit position:

	cn, _ := bitmask.CandidateNumber(2) // 4
	i, _ := bitmask.BitIndex(cn)         // 2

	m := bitmask.New(3) // 1 byte
	m.Set(i)
	m.PopCount() // 1

Masks are sized to ceil(participants/8) bytes. Capacity is capped at
MaxParticipants because candidate numbers are persisted as int64.
*/
package bitmask
