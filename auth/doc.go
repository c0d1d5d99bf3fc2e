// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package auth provides caller identity and ID generation utilities.

# Member Tokens

Member tokens use HMAC-SHA256 to create deterministic, verifiable tokens:

	token := auth.GenerateMemberToken(memberID, salt)
	err := auth.ValidateMemberToken(memberID, token, salt)

The token is URL-safe base64 encoded without padding. Since it's deterministic,
the same member ID and salt always produce the same token. This allows validation
without storing the token in the database.

Requests identify the caller with two headers:

	X-Member-ID:    <member id>
	X-Member-Token: <member token>

Whether the member may act on a group or session (member, leader, participant)
is decided by the tuning service, not here.

# ID Generation

Random UUIDs for database records:

	id := auth.NewID()
*/
package auth
