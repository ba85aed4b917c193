/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package command

import (
	"context"
	stderrors "errors"

	"github.com/Dykam/gangwars/errors"
	"github.com/Dykam/gangwars/gang"
)

func (h *Handlers) playerCommands() []Command {
	return []Command{
		{Name: "gang-join", Args: []string{"gang"}, Usage: "Join a gang you were invited to", Run: h.join},
		{Name: "gang-leave", Usage: "Leave your gang", Run: h.leave},
		{Name: "gang-invite", Args: []string{"player"}, Usage: "Invite a player to your gang", Run: h.invite},
		{Name: "gang-invite-cancel", Args: []string{"player"}, Usage: "Withdraw an invitation", Run: h.cancelInvite},
		{Name: "gang-invites", Usage: "List your open invitations", Run: h.invites},
		{Name: "gang-kick", Args: []string{"player"}, Usage: "Kick a player from your gang", Run: h.kick},
		{Name: "gang-create", Args: []string{"gang"}, Usage: "Create a gang and lead it", Run: h.create},
		{Name: "gang-disband", Usage: "Disband the gang you lead", Run: h.disband},
	}
}

func (h *Handlers) join(ctx context.Context, s Sender, args []string) error {
	name := args[0]

	if h.warBlocksMembership() {
		h.fail(s, "You can't join a gang during war time")
		return nil
	}
	g, ok := h.env.Gangs.Get(name)
	if !ok {
		h.fail(s, "Gang "+name+" doesn't exist")
		return nil
	}
	if existing, ok := h.env.Gangs.ForMember(s.ID); ok {
		h.fail(s, "You're already in "+existing.Name)
		return nil
	}
	if _, ok := h.env.Invites.Take(name, s.ID); !ok {
		h.fail(s, "You aren't invited to "+name)
		return nil
	}

	if _, err := h.env.Gangs.AddMember(ctx, name, s.ID); err != nil {
		h.fail(s, "Something went wrong when trying to join "+name)
		return err
	}
	h.env.Invites.DropMember(s.ID)

	h.success(s, "You have joined "+name)
	h.broadcast(g, h.env.Format.Success(s.Name+" joined the gang"))
	return nil
}

func (h *Handlers) leave(ctx context.Context, s Sender, _ []string) error {
	g, ok := h.env.Gangs.ForMember(s.ID)
	if !ok {
		h.fail(s, "You're not in a gang")
		return nil
	}
	if h.warBlocksMembership() {
		h.fail(s, "You can't leave a gang during war time")
		return nil
	}
	if len(g.Members) == 1 {
		h.fail(s, "You're the last member, use /gang-disband instead")
		return nil
	}

	updated, err := h.env.Gangs.RemoveMember(ctx, s.ID)
	if err != nil {
		h.fail(s, "Something went wrong when trying to leave "+g.Name)
		return err
	}

	h.success(s, "You left the gang")
	h.broadcast(updated, h.env.Format.Success(s.Name+" left the gang"))
	return nil
}

func (h *Handlers) invite(_ context.Context, s Sender, args []string) error {
	g, ok := h.leaderGang(s)
	if !ok {
		return nil
	}
	member, ok := h.lookupPlayer(s, args[0], h.fail)
	if !ok {
		return nil
	}
	if member.ID == s.ID {
		h.fail(s, "You can't invite yourself")
		return nil
	}
	if existing, ok := h.env.Gangs.ForMember(member.ID); ok {
		h.fail(s, "Player "+member.Name+" is already in "+existing.Name)
		return nil
	}

	if _, extended := h.env.Invites.Open(g.Name, member.ID, s.ID); extended {
		h.fail(s, "Player "+member.Name+" was already invited, extending invitation")
		return nil
	}
	h.success(s, "Player "+member.Name+" has been invited")
	h.tell(member.ID, h.env.Format.Success("You have been invited to "+g.Name+" by "+s.Name))
	return nil
}

func (h *Handlers) cancelInvite(_ context.Context, s Sender, args []string) error {
	g, ok := h.leaderGang(s)
	if !ok {
		return nil
	}
	member, ok := h.lookupPlayer(s, args[0], h.fail)
	if !ok {
		return nil
	}
	if _, ok := h.env.Invites.Cancel(g.Name, member.ID); !ok {
		h.fail(s, "Player "+member.Name+" wasn't invited")
		return nil
	}

	h.success(s, "Player "+member.Name+"'s invite has been cancelled")
	h.tell(member.ID, h.env.Format.Success("Your invite for "+g.Name+" has been cancelled by "+s.Name))
	return nil
}

func (h *Handlers) invites(_ context.Context, s Sender, _ []string) error {
	pending := h.env.Invites.Pending(s.ID)
	if len(pending) == 0 {
		h.notice(s, "You have no open invites")
		return nil
	}
	names := make([]string, len(pending))
	for i, inv := range pending {
		names[i] = inv.Gang
	}
	h.notice(s, "You are invited to "+joinAnd(names))
	return nil
}

func (h *Handlers) kick(ctx context.Context, s Sender, args []string) error {
	g, ok := h.leaderGang(s)
	if !ok {
		return nil
	}
	member, ok := h.lookupPlayer(s, args[0], h.fail)
	if !ok {
		return nil
	}
	if member.ID == s.ID {
		h.fail(s, "You can't kick yourself")
		return nil
	}
	if !g.HasMember(member.ID) {
		h.fail(s, "Player "+member.Name+" is not in the gang")
		return nil
	}

	updated, err := h.env.Gangs.RemoveMember(ctx, member.ID)
	if err != nil {
		h.fail(s, "Something went wrong when trying to kick "+member.Name)
		return err
	}

	h.broadcast(updated, h.env.Format.Success("Player "+member.Name+" has been kicked from the gang"))
	h.tell(member.ID, h.env.Format.Notice("You have been kicked from "+g.Name))
	return nil
}

func (h *Handlers) create(ctx context.Context, s Sender, args []string) error {
	name := args[0]

	if existing, ok := h.env.Gangs.ForMember(s.ID); ok {
		h.fail(s, "You're already in "+existing.Name)
		return nil
	}
	if !h.createGang(ctx, s, name) {
		return nil
	}
	if _, err := h.env.Gangs.AddMember(ctx, name, s.ID); err != nil {
		h.fail(s, "Something went wrong when trying to join "+name)
		return err
	}
	h.env.Invites.DropMember(s.ID)

	h.success(s, "Successfully created gang "+name)
	return nil
}

// createGang creates an empty gang, telling s when that is not possible.
func (h *Handlers) createGang(ctx context.Context, s Sender, name string) bool {
	_, err := h.env.Gangs.Create(ctx, name)
	switch {
	case err == nil:
		return true
	case errors.IsAlreadyExists(err):
		h.fail(s, "Gang "+name+" already exists")
	case errors.IsValidationError(err):
		h.fail(s, invalidName(name))
	default:
		h.fail(s, "Something went wrong when trying to create gang "+name)
		h.env.Logger.Error("create gang failed", "gang", name, "error", err)
	}
	return false
}

func (h *Handlers) disband(ctx context.Context, s Sender, _ []string) error {
	g, ok := h.env.Gangs.ForMember(s.ID)
	if !ok {
		h.fail(s, "You're not in a gang")
		return nil
	}
	if leader, _ := g.Leader(); leader != s.ID {
		h.fail(s, "You're not the owner of this gang, "+h.env.Players.Name(leader)+" is")
		return nil
	}

	if _, err := h.env.Gangs.Disband(ctx, g.Name); err != nil {
		h.fail(s, "Something went wrong when trying to disband "+g.Name)
		return err
	}
	h.env.Invites.DropGang(g.Name)

	h.success(s, "Successfully removed gang "+g.Name)
	h.broadcast(g, h.env.Format.Notice("Your gang "+g.Name+" was disbanded by "+s.Name))
	return nil
}

func invalidName(name string) string {
	return "Invalid gang name " + name + ", use up to 32 letters, digits, _ or -"
}

func isMemberInGang(err error) (*gang.MemberInGangError, bool) {
	var inGang *gang.MemberInGangError
	ok := stderrors.As(err, &inGang)
	return inGang, ok
}

func asBatch(err error, target **errors.BatchError) bool {
	return stderrors.As(err, target)
}
