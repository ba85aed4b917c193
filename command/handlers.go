/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package command

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/Dykam/gangwars/config"
	"github.com/Dykam/gangwars/gang"
	"github.com/Dykam/gangwars/invite"
	"github.com/Dykam/gangwars/player"
)

// Env is everything the gang commands act on.
type Env struct {
	Gangs     *gang.Registry
	Invites   *invite.Book
	Players   *player.Directory
	Messenger Messenger
	Format    Formatter
	// Config returns the configuration in effect.
	Config func() *config.Config
	// WorldTime returns the current world time in ticks.
	WorldTime func() int
	// Reload reloads the gangs from storage and returns how many loaded.
	Reload func(ctx context.Context) (int, error)
	Logger *slog.Logger
}

// Handlers implements the gang commands.
type Handlers struct {
	env Env
}

// NewHandlers creates the gang commands over env. Nil optional fields fall
// back to defaults.
func NewHandlers(env Env) *Handlers {
	if env.Format == nil {
		env.Format = Plain{}
	}
	if env.Config == nil {
		cfg := config.Default()
		env.Config = func() *config.Config { return cfg }
	}
	if env.WorldTime == nil {
		env.WorldTime = func() int { return 0 }
	}
	if env.Logger == nil {
		env.Logger = slog.New(slog.DiscardHandler)
	}
	return &Handlers{env: env}
}

// Register adds every gang command to d.
func (h *Handlers) Register(d *Dispatcher) {
	for _, c := range h.playerCommands() {
		c.PlayerOnly = true
		d.Register(c)
	}
	for _, c := range h.serverCommands() {
		d.Register(c)
	}
}

// ExpireInvites drops the invitations that expired at now and tells each
// inviter. It returns the number of expired invitations.
func (h *Handlers) ExpireInvites(now time.Time) int {
	expired := h.env.Invites.Expire(now)
	for _, inv := range expired {
		h.tell(inv.Inviter, h.env.Format.Notice("Invite for player "+h.env.Players.Name(inv.Member)+" expired"))
	}
	return len(expired)
}

func (h *Handlers) tell(to uuid.UUID, message string) {
	h.env.Messenger.Send(to, message)
}

func (h *Handlers) reply(s Sender, message string) {
	h.env.Messenger.Send(s.ID, message)
}

func (h *Handlers) success(s Sender, message string) { h.reply(s, h.env.Format.Success(message)) }
func (h *Handlers) fail(s Sender, message string)    { h.reply(s, h.env.Format.Fail(message)) }
func (h *Handlers) notice(s Sender, message string)  { h.reply(s, h.env.Format.Notice(message)) }

// broadcast sends message to every member of g.
func (h *Handlers) broadcast(g gang.Gang, message string) {
	for _, m := range g.Members {
		h.tell(m, message)
	}
}

// warBlocksMembership reports whether joining and leaving gangs is
// currently refused.
func (h *Handlers) warBlocksMembership() bool {
	wt := h.env.Config().PeaceAndWar.WarTime
	return wt.DisableLeaveJoinGang && wt.Active(h.env.WorldTime())
}

// memberNames lists the names of g's members, the leader marked.
func (h *Handlers) memberNames(g gang.Gang) []string {
	names := make([]string, len(g.Members))
	for i, m := range g.Members {
		names[i] = h.env.Players.Name(m)
	}
	if len(names) > 0 {
		names[0] += " (Leader)"
	}
	return names
}

// leaderGang returns the gang s leads, telling s why when there is none.
func (h *Handlers) leaderGang(s Sender) (gang.Gang, bool) {
	g, ok := h.env.Gangs.ForMember(s.ID)
	if !ok {
		h.fail(s, "You're not in a gang")
		return gang.Gang{}, false
	}
	if !g.IsLeader(s.ID) {
		h.fail(s, "You're not the leader of the gang")
		return gang.Gang{}, false
	}
	return g, true
}

// lookupPlayer resolves nameOrID, telling s when no such player is known.
func (h *Handlers) lookupPlayer(s Sender, nameOrID string, fail func(Sender, string)) (player.Player, bool) {
	p, ok := h.env.Players.Lookup(nameOrID)
	if !ok {
		fail(s, "Player "+nameOrID+" doesn't exist")
	}
	return p, ok
}
