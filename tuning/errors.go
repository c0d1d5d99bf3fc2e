// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package tuning

import (
	"errors"
	"fmt"
)

// Error categories. Every error the service returns on purpose wraps exactly one
// of these; anything else is an internal failure.
var (
	ErrValidation    = errors.New("validation error")
	ErrAuthorization = errors.New("authorization error")
	ErrState         = errors.New("state error")
	ErrNotFound      = errors.New("not found")
)

var (
	ErrInvalidTimeWindow       = fmt.Errorf("%w: invalid time window", ErrValidation)
	ErrInvalidSlotSelection    = fmt.Errorf("%w: invalid slot selection", ErrValidation)
	ErrTooManyParticipants     = fmt.Errorf("%w: too many participants", ErrValidation)
	ErrInvalidInput            = fmt.Errorf("%w: invalid input", ErrValidation)
	ErrForbidden               = fmt.Errorf("%w: forbidden", ErrAuthorization)
	ErrSessionAlreadyCompleted = fmt.Errorf("%w: session already completed", ErrState)
	ErrSessionNotFound         = fmt.Errorf("%w: tuning session", ErrNotFound)
	ErrGroupNotFound           = fmt.Errorf("%w: group", ErrNotFound)
	ErrMemberNotFound          = fmt.Errorf("%w: member", ErrNotFound)
	ErrMeetingNotFound         = fmt.Errorf("%w: meeting", ErrNotFound)
)

// ErrBusy is returned when a session lock could not be acquired in time.
// The caller may retry.
var ErrBusy = errors.New("session is busy, retry later")
