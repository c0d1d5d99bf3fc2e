// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package tuning

import (
	"context"
	"sort"

	"github.com/danielhkuo/quickly-meet/models"
)

// RankSlots orders the slots somebody can attend, best first. participants is
// the session's participant count and marks slots everyone can make.
func RankSlots(slots []models.SlotView, participants int) []models.RankedSlot {
	var ranked []models.RankedSlot
	for i, s := range slots {
		if s.Available == 0 {
			continue
		}
		ranked = append(ranked, models.RankedSlot{
			Index:     s.Index,
			Start:     s.Start,
			End:       s.End,
			Available: s.Available,
			RunLength: runLength(slots, i),
			Everyone:  participants > 0 && s.Available == participants,
		})
	}

	sort.Slice(ranked, func(i, j int) bool {
		a, b := ranked[i], ranked[j]

		// 1. More attendees wins
		if a.Available != b.Available {
			return a.Available > b.Available
		}

		// 2. Longer uninterrupted stretch with the same people wins
		if a.RunLength != b.RunLength {
			return a.RunLength > b.RunLength
		}

		// 3. Earlier slot wins
		return a.Index < b.Index
	})

	for i := range ranked {
		ranked[i].Rank = i + 1
	}
	return ranked
}

// runLength counts slot i and the directly following slots that start where
// the previous one ended and carry the same mask.
func runLength(slots []models.SlotView, i int) int {
	n := 1
	for j := i + 1; j < len(slots); j++ {
		if !slots[j].Start.Equal(slots[j-1].End) || slots[j].Mask != slots[i].Mask {
			break
		}
		n++
	}
	return n
}

// Rank returns the best slots of a session for the leader to pick from.
// A limit of zero or less returns every slot with at least one attendee.
func (s *Service) Rank(ctx context.Context, sessionID, callerID string, limit int) ([]models.RankedSlot, error) {
	detail, err := s.Detail(ctx, sessionID, callerID)
	if err != nil {
		return nil, err
	}

	ranked := RankSlots(detail.Slots, len(detail.Participants))
	if limit > 0 && len(ranked) > limit {
		ranked = ranked[:limit]
	}
	if ranked == nil {
		ranked = []models.RankedSlot{}
	}
	return ranked, nil
}
