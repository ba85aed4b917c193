/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package index

import (
	"iter"
	"slices"
)

// IdentitySet is the canonical membership index. It holds at most one record
// per identity and iterates in insertion order. A record replaced through the
// registry moves to the end; a rolled back replace leaves it in place.
type IdentitySet[T any, ID comparable] struct {
	identity func(T) ID
	equal    EqualFunc[T]
	pos      map[ID]int
	items    []T
}

// NewIdentitySet creates a set whose members are told apart by identity.
func NewIdentitySet[T any, ID comparable](identity func(T) ID, opts ...Option[T]) *IdentitySet[T, ID] {
	o := buildOptions(opts)
	return &IdentitySet[T, ID]{
		identity: identity,
		equal:    o.Equal,
		pos:      make(map[ID]int),
	}
}

// NewSet creates an identity set over a comparable record type.
func NewSet[T comparable]() *IdentitySet[T, T] {
	return NewIdentitySet(
		func(v T) T { return v },
		WithEqual(func(a, b T) bool { return a == b }),
	)
}

// CanAdd reports whether no member shares v's identity.
func (s *IdentitySet[T, ID]) CanAdd(v T) bool {
	_, exists := s.pos[s.identity(v)]
	return !exists
}

// Add appends v to the set.
func (s *IdentitySet[T, ID]) Add(v T) {
	s.pos[s.identity(v)] = len(s.items)
	s.items = append(s.items, v)
}

// CanRemove reports whether v itself is a member.
func (s *IdentitySet[T, ID]) CanRemove(v T) bool {
	return s.Contains(v)
}

// Remove deletes v, keeping the order of the remaining members.
func (s *IdentitySet[T, ID]) Remove(v T) {
	id := s.identity(v)
	i, ok := s.pos[id]
	if !ok {
		return
	}
	delete(s.pos, id)
	s.items = slices.Delete(s.items, i, i+1)
	s.reindex(i)
}

func (s *IdentitySet[T, ID]) position(v T) int {
	if i, ok := s.pos[s.identity(v)]; ok {
		return i
	}
	return -1
}

func (s *IdentitySet[T, ID]) insert(v T, at int) {
	at = min(at, len(s.items))
	s.items = slices.Insert(s.items, at, v)
	s.reindex(at)
}

// reindex refreshes the positions of the members from i on.
func (s *IdentitySet[T, ID]) reindex(i int) {
	for j := i; j < len(s.items); j++ {
		s.pos[s.identity(s.items[j])] = j
	}
}

// Clear drops every member.
func (s *IdentitySet[T, ID]) Clear() {
	clear(s.pos)
	s.items = nil
}

// Contains reports whether v is a member.
func (s *IdentitySet[T, ID]) Contains(v T) bool {
	i, ok := s.pos[s.identity(v)]
	return ok && s.equal(s.items[i], v)
}

// Get returns the member with the given identity.
func (s *IdentitySet[T, ID]) Get(id ID) (T, bool) {
	i, ok := s.pos[id]
	if !ok {
		var zero T
		return zero, false
	}
	return s.items[i], true
}

// Len returns the number of members.
func (s *IdentitySet[T, ID]) Len() int {
	return len(s.items)
}

// All iterates over the members in insertion order. The set must not be
// mutated while iterating.
func (s *IdentitySet[T, ID]) All() iter.Seq[T] {
	return func(yield func(T) bool) {
		for _, v := range s.items {
			if !yield(v) {
				return
			}
		}
	}
}

// Slice returns a copy of the members in insertion order.
func (s *IdentitySet[T, ID]) Slice() []T {
	return slices.Clone(s.items)
}
