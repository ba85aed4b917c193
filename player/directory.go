/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package player

import (
	"cmp"
	"slices"

	"github.com/google/uuid"

	"github.com/Dykam/gangwars/errors"
	"github.com/Dykam/gangwars/index"
)

// Directory resolves players by identifier and by case-insensitive name.
// It is not safe for concurrent use.
type Directory struct {
	set     *index.Registry[Player]
	players *index.IdentitySet[Player, uuid.UUID]
	byID    *index.UniqueKey[Player, uuid.UUID]
	byName  *index.UniqueKey[Player, string]
}

// NewDirectory creates an empty directory.
func NewDirectory() *Directory {
	set := index.NewRegistry[Player]()
	id := func(p Player) uuid.UUID { return p.ID }
	return &Directory{
		set:     set,
		players: index.Attach(set, index.NewIdentitySet(id)),
		byID:    index.Attach(set, index.NewUniqueKey(id)),
		byName:  index.Attach(set, index.NewUniqueKey(func(p Player) string { return nameKey(p.Name) })),
	}
}

// Register returns the player called name, adding it with its offline
// identifier when it is not known yet.
func (d *Directory) Register(name string) (Player, error) {
	if p, ok := d.byName.Get(nameKey(name)); ok {
		return p, nil
	}
	return d.Put(Player{ID: OfflineID(name), Name: name})
}

// Put records p. A player already known under p.ID is renamed. It fails
// with errors.ErrAlreadyExists when another player holds the name.
func (d *Directory) Put(p Player) (Player, error) {
	if p.Name == "" || p.ID == uuid.Nil {
		return Player{}, errors.NewValidationError("player", "name and id are required")
	}
	if existing, ok := d.byID.Get(p.ID); ok {
		if existing == p {
			return p, nil
		}
		if _, ok := d.byID.Update(p.ID, func(Player) Player { return p }); !ok {
			return Player{}, errors.NewAlreadyExistsError("player", p.Name)
		}
		return p, nil
	}
	if !d.set.Add(p) {
		return Player{}, errors.NewAlreadyExistsError("player", p.Name)
	}
	return p, nil
}

// Lookup resolves nameOrID as a name first and as a UUID second.
func (d *Directory) Lookup(nameOrID string) (Player, bool) {
	if p, ok := d.byName.Get(nameKey(nameOrID)); ok {
		return p, true
	}
	id, err := uuid.Parse(nameOrID)
	if err != nil {
		return Player{}, false
	}
	return d.byID.Get(id)
}

// Get returns the player with identifier id.
func (d *Directory) Get(id uuid.UUID) (Player, bool) {
	return d.byID.Get(id)
}

// Name returns the name of id, or its string form when id is unknown.
func (d *Directory) Name(id uuid.UUID) string {
	if p, ok := d.byID.Get(id); ok {
		return p.Name
	}
	return id.String()
}

// Forget removes the player with identifier id.
func (d *Directory) Forget(id uuid.UUID) bool {
	p, ok := d.byID.Get(id)
	return ok && d.set.Remove(p)
}

// All returns every player ordered by name.
func (d *Directory) All() []Player {
	all := d.players.Slice()
	slices.SortFunc(all, func(a, b Player) int { return cmp.Compare(nameKey(a.Name), nameKey(b.Name)) })
	return all
}

// Len returns the number of known players.
func (d *Directory) Len() int {
	return d.set.Len()
}
