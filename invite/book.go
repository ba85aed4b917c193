/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package invite

import (
	"log/slog"
	"slices"
	"strings"
	"time"

	"github.com/go-openapi/strfmt"
	"github.com/google/uuid"

	"github.com/Dykam/gangwars/index"
)

// Book holds the open invitations, indexed by key, by member and by gang.
//
// A Book never starts timers. Invitations past their expiry are still held
// until Expire is called, but Take refuses them. A Book is not safe for
// concurrent use.
type Book struct {
	ttl    time.Duration
	now    func() time.Time
	logger *slog.Logger

	set      *index.Registry[Invite]
	invites  *index.IdentitySet[Invite, Key]
	byKey    *index.UniqueKey[Invite, Key]
	byMember *index.Grouping[Invite, uuid.UUID]
	byGang   *index.Grouping[Invite, string]
}

// Option configures a Book.
type Option func(*Book)

// WithTTL sets how long invitations stay open.
func WithTTL(ttl time.Duration) Option {
	return func(b *Book) { b.ttl = ttl }
}

// WithClock sets the time source of the book.
func WithClock(now func() time.Time) Option {
	return func(b *Book) { b.now = now }
}

// WithLogger sets the logger of the book.
func WithLogger(logger *slog.Logger) Option {
	return func(b *Book) { b.logger = logger }
}

// NewBook creates an empty invitation book.
func NewBook(opts ...Option) *Book {
	eq := index.WithEqual(Invite.Equal)
	set := index.NewRegistry[Invite]()
	b := &Book{
		ttl:      DefaultTTL,
		now:      time.Now,
		logger:   slog.New(slog.DiscardHandler),
		set:      set,
		invites:  index.Attach(set, index.NewIdentitySet(Invite.Key, eq)),
		byKey:    index.Attach(set, index.NewUniqueKey(Invite.Key)),
		byMember: index.Attach(set, index.NewGrouping(func(i Invite) uuid.UUID { return i.Member }, eq)),
		byGang:   index.Attach(set, index.NewGrouping(func(i Invite) string { return i.Gang }, eq)),
	}
	for _, opt := range opts {
		opt(b)
	}
	b.logger = b.logger.With("component", "invite_book")
	return b
}

// TTL returns how long new invitations stay open.
func (b *Book) TTL() time.Duration {
	return b.ttl
}

// Open invites member to gang on behalf of inviter. When the member already
// holds an invitation to the gang its expiry is pushed back and extended is
// true.
func (b *Book) Open(gang string, member, inviter uuid.UUID) (inv Invite, extended bool) {
	expires := strfmt.DateTime(b.now().Add(b.ttl))
	key := Key{Gang: gang, Member: member}

	if b.byKey.Contains(key) {
		updated, ok := b.byKey.Update(key, func(i Invite) Invite {
			i.Inviter = inviter
			i.ExpiresAt = expires
			return i
		})
		if ok {
			b.logger.Debug("extended invite", "gang", gang, "member", member, "expires_at", expires)
			return updated, true
		}
	}

	inv = Invite{Gang: gang, Member: member, Inviter: inviter, ExpiresAt: expires}
	b.set.Add(inv)
	b.logger.Debug("opened invite", "gang", gang, "member", member, "expires_at", expires)
	return inv, false
}

// Get returns the invitation of member to gang, expired or not.
func (b *Book) Get(gang string, member uuid.UUID) (Invite, bool) {
	return b.byKey.Get(Key{Gang: gang, Member: member})
}

// Cancel withdraws the invitation of member to gang and returns it.
func (b *Book) Cancel(gang string, member uuid.UUID) (Invite, bool) {
	inv, ok := b.byKey.Get(Key{Gang: gang, Member: member})
	if !ok || !b.set.Remove(inv) {
		return Invite{}, false
	}
	b.logger.Debug("cancelled invite", "gang", gang, "member", member)
	return inv, true
}

// Take consumes the invitation of member to gang. It reports false when there
// is no invitation or it has expired; an expired invitation is dropped.
func (b *Book) Take(gang string, member uuid.UUID) (Invite, bool) {
	inv, ok := b.Cancel(gang, member)
	if !ok {
		return Invite{}, false
	}
	if inv.Expired(b.now()) {
		return Invite{}, false
	}
	return inv, true
}

// DropMember withdraws every invitation held by member.
func (b *Book) DropMember(member uuid.UUID) []Invite {
	dropped := b.byMember.Get(member)
	b.set.RemoveAll(dropped...)
	return dropped
}

// DropGang withdraws every invitation to gang.
func (b *Book) DropGang(gang string) []Invite {
	dropped := b.byGang.Get(gang)
	b.set.RemoveAll(dropped...)
	return dropped
}

// RenameGang moves the invitations to from over to gang to. Invitations
// that would clash with an existing one for to are dropped.
func (b *Book) RenameGang(from, to string) {
	for _, inv := range b.byGang.Get(from) {
		renamed := inv
		renamed.Gang = to
		if !b.set.Replace(inv, renamed) {
			b.set.Remove(inv)
		}
	}
}

// Pending returns the unexpired invitations of member, ordered by gang.
func (b *Book) Pending(member uuid.UUID) []Invite {
	now := b.now()
	pending := slices.DeleteFunc(b.byMember.Get(member), func(i Invite) bool { return i.Expired(now) })
	slices.SortFunc(pending, func(x, y Invite) int { return strings.Compare(x.Gang, y.Gang) })
	return pending
}

// ForGang returns the invitations to gang in the order they were opened.
func (b *Book) ForGang(gang string) []Invite {
	return b.byGang.Get(gang)
}

// Expire drops and returns every invitation that expired at or before now,
// in the order they were opened.
func (b *Book) Expire(now time.Time) []Invite {
	var expired []Invite
	for inv := range b.invites.All() {
		if inv.Expired(now) {
			expired = append(expired, inv)
		}
	}
	b.set.RemoveAll(expired...)
	if len(expired) > 0 {
		b.logger.Debug("expired invites", "count", len(expired))
	}
	return expired
}

// Len returns the number of invitations held, expired or not.
func (b *Book) Len() int {
	return b.set.Len()
}
