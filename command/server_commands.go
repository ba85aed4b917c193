/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package command

import (
	"context"
	"fmt"

	"github.com/Dykam/gangwars/errors"
)

func (h *Handlers) serverCommands() []Command {
	return []Command{
		{Name: "gang-info", Args: []string{"gang"}, Usage: "Show the members of a gang", Run: h.info},
		{Name: "gang-who", Args: []string{"player"}, Usage: "Show the gang of a player", Run: h.who},
		{Name: "gang-list", Usage: "List every gang", Run: h.list},
		{Name: "gang-admin-join", Args: []string{"gang", "player"}, Usage: "Add a player to a gang", Run: h.adminJoin},
		{Name: "gang-admin-kick", Args: []string{"gang", "player"}, Usage: "Remove a player from a gang", Run: h.adminKick},
		{Name: "gang-admin-disband", Args: []string{"gang"}, Usage: "Disband a gang", Run: h.adminDisband},
		{Name: "gang-admin-create", Args: []string{"gang"}, Usage: "Create an empty gang", Run: h.adminCreate},
		{Name: "gang-admin-rename", Args: []string{"gang", "name"}, Usage: "Rename a gang", Run: h.adminRename},
		{Name: "gang-admin-kill", Args: []string{"killer", "victim"}, Usage: "Credit a kill to the killer's gang", Run: h.adminKill},
		{Name: "gang-admin-reload", Usage: "Reload the gangs from storage", Run: h.adminReload},
	}
}

func (h *Handlers) info(_ context.Context, s Sender, args []string) error {
	name := args[0]
	g, ok := h.env.Gangs.Get(name)
	if !ok {
		h.fail(s, "This gang doesn't exist")
		return nil
	}
	if len(g.Members) == 0 {
		h.notice(s, "Gang "+name+": No members")
		return nil
	}
	h.notice(s, "Gang "+name+": "+joinAnd(h.memberNames(g)))
	return nil
}

func (h *Handlers) who(_ context.Context, s Sender, args []string) error {
	member, ok := h.lookupPlayer(s, args[0], h.notice)
	if !ok {
		return nil
	}
	g, ok := h.env.Gangs.ForMember(member.ID)
	if !ok {
		h.fail(s, "Player "+member.Name+" is not in a gang")
		return nil
	}
	h.notice(s, "Player is in "+g.Name)
	return nil
}

func (h *Handlers) list(_ context.Context, s Sender, _ []string) error {
	gangs := h.env.Gangs.List()
	if len(gangs) == 0 {
		h.notice(s, "There are no gangs")
		return nil
	}
	names := make([]string, len(gangs))
	for i, g := range gangs {
		names[i] = g.Name
	}
	h.notice(s, "Gangs: "+joinAnd(names))
	return nil
}

func (h *Handlers) adminJoin(ctx context.Context, s Sender, args []string) error {
	name := args[0]
	if _, ok := h.env.Gangs.Get(name); !ok {
		h.fail(s, "Gang "+name+" doesn't exist")
		return nil
	}
	member, ok := h.lookupPlayer(s, args[1], h.fail)
	if !ok {
		return nil
	}

	g, err := h.env.Gangs.AddMember(ctx, name, member.ID)
	if inGang, ok := isMemberInGang(err); ok {
		h.fail(s, "Player is already in "+inGang.Gang.Name)
		return nil
	}
	switch {
	case errors.IsNotFound(err):
		h.fail(s, "Gang "+name+" does not exist")
		return nil
	case err != nil:
		h.fail(s, "Something went wrong when trying to add player "+member.Name+" to "+name)
		return err
	}
	h.env.Invites.DropMember(member.ID)

	h.success(s, "Player "+member.Name+" added to "+g.Name)
	h.tell(member.ID, h.env.Format.Success("You have joined "+g.Name))
	return nil
}

func (h *Handlers) adminKick(ctx context.Context, s Sender, args []string) error {
	name := args[0]
	g, ok := h.env.Gangs.Get(name)
	if !ok {
		h.fail(s, "Gang "+name+" doesn't exist")
		return nil
	}
	member, ok := h.lookupPlayer(s, args[1], h.fail)
	if !ok {
		return nil
	}
	if !g.HasMember(member.ID) {
		h.fail(s, "Player "+member.Name+" is not in "+name)
		return nil
	}

	updated, err := h.env.Gangs.RemoveMember(ctx, member.ID)
	if err != nil {
		h.fail(s, "Something went wrong when trying to kick "+member.Name)
		return err
	}

	h.success(s, "Player "+member.Name+" has been kicked from "+name)
	h.broadcast(updated, h.env.Format.Success("Player "+member.Name+" has been kicked from the gang"))
	h.tell(member.ID, h.env.Format.Notice("You have been kicked from "+name))
	return nil
}

func (h *Handlers) adminDisband(ctx context.Context, s Sender, args []string) error {
	name := args[0]
	g, err := h.env.Gangs.Disband(ctx, name)
	if err != nil {
		h.fail(s, "Gang "+name+" doesn't exist")
		return nil
	}
	h.env.Invites.DropGang(name)

	h.success(s, "Successfully removed gang "+name)
	h.broadcast(g, h.env.Format.Notice("Your gang "+name+" was disbanded"))
	return nil
}

func (h *Handlers) adminCreate(ctx context.Context, s Sender, args []string) error {
	name := args[0]
	if h.createGang(ctx, s, name) {
		h.success(s, "Successfully created gang "+name)
	}
	return nil
}

func (h *Handlers) adminRename(ctx context.Context, s Sender, args []string) error {
	from, to := args[0], args[1]

	g, err := h.env.Gangs.Rename(ctx, from, to)
	switch {
	case errors.IsValidationError(err):
		h.fail(s, invalidName(to))
		return nil
	case errors.IsNotFound(err):
		h.fail(s, "Gang "+from+" doesn't exist")
		return nil
	case errors.IsAlreadyExists(err):
		h.fail(s, "Gang "+to+" already exists")
		return nil
	case err != nil:
		h.fail(s, "Something went wrong when trying to rename "+from)
		return err
	}
	h.env.Invites.RenameGang(from, to)

	h.success(s, "Gang "+from+" renamed to "+to)
	h.broadcast(g, h.env.Format.Notice("Your gang "+from+" was renamed to "+to))
	return nil
}

func (h *Handlers) adminKill(ctx context.Context, s Sender, args []string) error {
	killer, ok := h.lookupPlayer(s, args[0], h.fail)
	if !ok {
		return nil
	}
	victim, ok := h.lookupPlayer(s, args[1], h.fail)
	if !ok {
		return nil
	}

	g, gained, err := h.env.Gangs.RecordKill(ctx, killer.ID, victim.ID, h.env.Config().PowerLevels.GainOnKill)
	switch {
	case errors.IsNotFound(err):
		h.fail(s, "Player "+killer.Name+" is not in a gang")
		return nil
	case err != nil:
		h.fail(s, "Something went wrong when trying to record the kill")
		return err
	}

	h.notice(s, fmt.Sprintf("Gang %s gained %g power, now at %g", g.Name, gained, g.PowerLevel))
	return nil
}

func (h *Handlers) adminReload(ctx context.Context, s Sender, _ []string) error {
	if h.env.Reload == nil {
		h.fail(s, "Reloading is not supported")
		return nil
	}

	n, err := h.env.Reload(ctx)
	var batch *errors.BatchError
	switch {
	case asBatch(err, &batch):
		h.notice(s, fmt.Sprintf("Reloaded %d gangs, skipped %d", n, len(batch.Errors)))
		return nil
	case err != nil:
		h.fail(s, "Gangs failed to load")
		return err
	}
	h.success(s, fmt.Sprintf("Reloaded %d gangs", n))
	return nil
}
