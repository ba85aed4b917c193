/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package gang

import (
	"fmt"
	"slices"

	"github.com/google/uuid"

	"github.com/Dykam/gangwars/errors"
	"github.com/Dykam/gangwars/storagemodels"
)

// Gang is a named group of players. Members are kept in join order and the
// first member leads the gang.
type Gang struct {
	Name       string
	Members    []uuid.UUID
	PowerLevel float32
}

// Leader returns the first member of g.
func (g Gang) Leader() (uuid.UUID, bool) {
	if len(g.Members) == 0 {
		return uuid.Nil, false
	}
	return g.Members[0], true
}

// IsLeader reports whether id leads g.
func (g Gang) IsLeader(id uuid.UUID) bool {
	leader, ok := g.Leader()
	return ok && leader == id
}

// HasMember reports whether id is a member of g.
func (g Gang) HasMember(id uuid.UUID) bool {
	return slices.Contains(g.Members, id)
}

// Equal reports whether g and o hold the same values.
func (g Gang) Equal(o Gang) bool {
	return g.Name == o.Name && g.PowerLevel == o.PowerLevel && slices.Equal(g.Members, o.Members)
}

// Clone returns a copy of g that shares no memory with it.
func (g Gang) Clone() Gang {
	g.Members = slices.Clone(g.Members)
	return g
}

func (g Gang) withMember(id uuid.UUID) Gang {
	g.Members = append(slices.Clone(g.Members), id)
	return g
}

func (g Gang) withoutMember(id uuid.UUID) Gang {
	g.Members = slices.DeleteFunc(slices.Clone(g.Members), func(m uuid.UUID) bool { return m == id })
	return g
}

func (g Gang) renamed(name string) Gang {
	g = g.Clone()
	g.Name = name
	return g
}

func (g Gang) withPower(power float32) Gang {
	g = g.Clone()
	g.PowerLevel = power
	return g
}

// ToStored converts g to its persisted form.
func (g Gang) ToStored() storagemodels.StoredGang {
	members := make([]string, len(g.Members))
	for i, m := range g.Members {
		members[i] = m.String()
	}
	return storagemodels.StoredGang{Name: g.Name, Members: members, PowerLevel: g.PowerLevel}
}

// FromStored validates s and converts it to a Gang.
func FromStored(s storagemodels.StoredGang) (Gang, error) {
	if err := s.Validate(); err != nil {
		return Gang{}, errors.NewValidationError(s.Name, err.Error())
	}

	members := make([]uuid.UUID, len(s.Members))
	for i, m := range s.Members {
		id, err := uuid.Parse(m)
		if err != nil {
			return Gang{}, errors.NewValidationError(s.Name, fmt.Sprintf("member %q: %v", m, err))
		}
		members[i] = id
	}
	return Gang{Name: s.Name, Members: members, PowerLevel: s.PowerLevel}, nil
}

// MemberInGangError is returned when a player who already belongs to a gang
// is added to another one.
type MemberInGangError struct {
	Member uuid.UUID
	Gang   Gang
}

func (e *MemberInGangError) Error() string {
	return fmt.Sprintf("member %s is already in gang %q", e.Member, e.Gang.Name)
}

func (e *MemberInGangError) Is(target error) bool {
	return target == errors.ErrAlreadyExists
}
