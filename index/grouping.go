/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package index

import (
	"maps"
	"slices"
)

// Grouping maps each key to the records projecting to it. Any number of
// records may share a key.
type Grouping[T any, K comparable] struct {
	key    func(T) K
	equal  EqualFunc[T]
	groups map[K][]T
}

// NewGrouping creates a grouping index over the key projected by key.
func NewGrouping[T any, K comparable](key func(T) K, opts ...Option[T]) *Grouping[T, K] {
	o := buildOptions(opts)
	return &Grouping[T, K]{
		key:    key,
		equal:  o.Equal,
		groups: make(map[K][]T),
	}
}

// CanAdd always accepts: groups impose no constraint of their own.
func (g *Grouping[T, K]) CanAdd(T) bool {
	return true
}

// Add appends v to its group.
func (g *Grouping[T, K]) Add(v T) {
	k := g.key(v)
	g.groups[k] = append(g.groups[k], v)
}

// CanRemove reports whether v's group holds v.
func (g *Grouping[T, K]) CanRemove(v T) bool {
	return g.find(v) >= 0
}

// Remove deletes v from its group, dropping the group once it is empty.
func (g *Grouping[T, K]) Remove(v T) {
	i := g.find(v)
	if i < 0 {
		return
	}
	k := g.key(v)
	group := slices.Delete(g.groups[k], i, i+1)
	if len(group) == 0 {
		delete(g.groups, k)
		return
	}
	g.groups[k] = group
}

func (g *Grouping[T, K]) position(v T) int {
	return g.find(v)
}

func (g *Grouping[T, K]) insert(v T, at int) {
	k := g.key(v)
	group := g.groups[k]
	g.groups[k] = slices.Insert(group, min(at, len(group)), v)
}

// Clear drops every group.
func (g *Grouping[T, K]) Clear() {
	clear(g.groups)
}

// Get returns a copy of the group stored under k.
func (g *Grouping[T, K]) Get(k K) []T {
	return slices.Clone(g.groups[k])
}

// Contains reports whether any record is grouped under k.
func (g *Grouping[T, K]) Contains(k K) bool {
	_, ok := g.groups[k]
	return ok
}

// Len returns the number of non-empty groups.
func (g *Grouping[T, K]) Len() int {
	return len(g.groups)
}

// Keys returns the keys of non-empty groups in no particular order.
func (g *Grouping[T, K]) Keys() []K {
	return slices.Collect(maps.Keys(g.groups))
}

func (g *Grouping[T, K]) find(v T) int {
	return slices.IndexFunc(g.groups[g.key(v)], func(x T) bool { return g.equal(x, v) })
}
