/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package command

import (
	"context"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/sebdah/goldie/v2"
	"github.com/stretchr/testify/require"

	"github.com/Dykam/gangwars/config"
	"github.com/Dykam/gangwars/datastore/mock"
	"github.com/Dykam/gangwars/gang"
	"github.com/Dykam/gangwars/invite"
	"github.com/Dykam/gangwars/player"
	"github.com/Dykam/gangwars/storagemodels"
)

// harness runs commands against an in-memory world and records every
// command and message as a transcript.
type harness struct {
	t   *testing.T
	ctx context.Context

	cfg     *config.Config
	now     time.Time
	world   int
	store   *mock.DataStore[storagemodels.StoredGang]
	gangs   *gang.Registry
	invites *invite.Book
	players *player.Directory

	handlers   *Handlers
	dispatcher *Dispatcher
	out        strings.Builder
}

func newHarness(t *testing.T) *harness {
	t.Helper()

	h := &harness{
		t:   t,
		ctx: context.Background(),
		cfg: config.Default(),
		now: time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC),
	}
	h.cfg.PowerLevels.GainOnKill = config.GainOnKill{Constant: 1, FractionOfEnemy: 0.5}

	h.store = mock.New[storagemodels.StoredGang]().WithCloneFunc(storagemodels.StoredGang.Clone)
	h.gangs = gang.NewRegistry(h.store, gang.WithAutoSave(true))
	h.invites = invite.NewBook(invite.WithClock(func() time.Time { return h.now }))
	h.players = player.NewDirectory()
	for _, name := range []string{"alice", "bob", "carol"} {
		_, err := h.players.Register(name)
		require.NoError(t, err)
	}

	h.handlers = NewHandlers(Env{
		Gangs:     h.gangs,
		Invites:   h.invites,
		Players:   h.players,
		Messenger: h,
		Format:    Plain{},
		Config:    func() *config.Config { return h.cfg },
		WorldTime: func() int { return h.world },
		Reload:    h.gangs.Load,
	})
	h.dispatcher = NewDispatcher()
	h.handlers.Register(h.dispatcher)
	return h
}

// Send records a delivered message.
func (h *harness) Send(to uuid.UUID, message string) {
	name := Console.Name
	if to != uuid.Nil {
		name = h.players.Name(to)
	}
	fmt.Fprintf(&h.out, "  %s <- %s\n", name, message)
}

func (h *harness) sender(name string) Sender {
	h.t.Helper()
	if name == Console.Name {
		return Console
	}
	p, ok := h.players.Lookup(name)
	require.True(h.t, ok, "unknown player %s", name)
	return Sender{ID: p.ID, Name: p.Name}
}

// run dispatches line as name and records it with its outcome.
func (h *harness) run(name, line string) {
	h.t.Helper()
	fmt.Fprintf(&h.out, "> %s: %s\n", name, line)
	if err := h.dispatcher.DispatchLine(h.ctx, h.sender(name), line); err != nil {
		fmt.Fprintf(&h.out, "  ! %v\n", err)
	}
}

// advance moves the wall clock forward and expires invitations.
func (h *harness) advance(d time.Duration) {
	fmt.Fprintf(&h.out, "~ %s\n", d)
	h.now = h.now.Add(d)
	h.handlers.ExpireInvites(h.now)
}

// setWorld sets the world time in ticks.
func (h *harness) setWorld(tick int) {
	fmt.Fprintf(&h.out, "~ world %d\n", tick)
	h.world = tick
}

func (h *harness) assertGolden(name string) {
	h.t.Helper()
	g := goldie.New(h.t,
		goldie.WithFixtureDir("testdata/golden"),
		goldie.WithNameSuffix(".golden"),
	)
	g.Assert(h.t, name, []byte(h.out.String()))
}
