/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package invite

import (
	"time"

	"github.com/go-openapi/strfmt"
	"github.com/google/uuid"
)

// DefaultTTL is how long an invitation stays open unless configured otherwise.
const DefaultTTL = time.Minute

// Invite is an open invitation for Member to join Gang, sent by Inviter.
type Invite struct {
	Gang      string
	Member    uuid.UUID
	Inviter   uuid.UUID
	ExpiresAt strfmt.DateTime
}

// Key identifies an invitation. A member holds at most one invitation per gang.
type Key struct {
	Gang   string
	Member uuid.UUID
}

// Key returns the key of i.
func (i Invite) Key() Key {
	return Key{Gang: i.Gang, Member: i.Member}
}

// Expired reports whether i is no longer valid at now.
func (i Invite) Expired(now time.Time) bool {
	return !now.Before(time.Time(i.ExpiresAt))
}

// Equal reports whether i and o hold the same values.
func (i Invite) Equal(o Invite) bool {
	return i.Key() == o.Key() && i.Inviter == o.Inviter && time.Time(i.ExpiresAt).Equal(time.Time(o.ExpiresAt))
}
