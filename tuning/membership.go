// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package tuning

import (
	"context"

	"github.com/danielhkuo/quickly-meet/models"
)

// Membership supplies group rosters. Members must be returned in a stable
// enumeration order; candidate numbers are assigned in that order.
// Unknown groups return ErrGroupNotFound.
type Membership interface {
	Members(ctx context.Context, groupID string) ([]models.Member, error)
	LeaderID(ctx context.Context, groupID string) (string, error)
}

func findMember(members []models.Member, memberID string) (models.Member, bool) {
	for _, m := range members {
		if m.ID == memberID {
			return m, true
		}
	}
	return models.Member{}, false
}
