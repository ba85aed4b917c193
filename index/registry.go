/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package index

import (
	"fmt"

	"github.com/Dykam/gangwars/errors"
)

// Registry owns a set of records and the indices derived from them.
//
// Every mutation is validated against all attached indices before any of them
// is touched, so no caller can observe a record that is present in one index
// and absent from another.
//
// A Registry is not safe for concurrent use.
type Registry[T any] struct {
	indices []Index[T]
	size    int
}

// NewRegistry creates an empty registry with no indices attached.
func NewRegistry[T any]() *Registry[T] {
	return &Registry[T]{}
}

// Attach registers idx with the registry and returns it so the caller can use
// it as a read handle. Indices must be attached before the first record is
// added; attaching to a populated registry panics.
func Attach[T any, I Index[T]](r *Registry[T], idx I) I {
	if r.size > 0 {
		panic(fmt.Sprintf("index: attach to a registry holding %d records", r.size))
	}
	if b, ok := any(idx).(binder[T]); ok {
		b.bind(r)
	}
	r.indices = append(r.indices, idx)
	return idx
}

// binder is implemented by indices that need their owning registry, such as
// the keyed indices that offer Update.
type binder[T any] interface {
	bind(r *Registry[T])
}

// Add inserts v into every attached index. It returns false, leaving every
// index untouched, when any index rejects the record.
func (r *Registry[T]) Add(v T) bool {
	for _, idx := range r.indices {
		if !idx.CanAdd(v) {
			return false
		}
	}
	for _, idx := range r.indices {
		idx.Add(v)
	}
	r.size++
	return true
}

// AddAll adds each record independently and reports whether any succeeded.
func (r *Registry[T]) AddAll(vs ...T) bool {
	added := false
	for _, v := range vs {
		if r.Add(v) {
			added = true
		}
	}
	return added
}

// Remove deletes v from every attached index. It returns false, leaving every
// index untouched, when any index does not hold the record.
func (r *Registry[T]) Remove(v T) bool {
	for _, idx := range r.indices {
		if !idx.CanRemove(v) {
			return false
		}
	}
	for _, idx := range r.indices {
		idx.Remove(v)
	}
	r.size--
	return true
}

// RemoveAll removes each record independently and reports whether any succeeded.
func (r *Registry[T]) RemoveAll(vs ...T) bool {
	removed := false
	for _, v := range vs {
		if r.Remove(v) {
			removed = true
		}
	}
	return removed
}

// Clear empties every attached index.
func (r *Registry[T]) Clear() {
	for _, idx := range r.indices {
		idx.Clear()
	}
	r.size = 0
}

// Len returns the number of committed records.
func (r *Registry[T]) Len() int {
	return r.size
}

// Replace swaps current for updated. When updated is rejected the current
// record is put back where it was, so ordered indices keep their order, and
// Replace returns false.
//
// Replace panics when current cannot be restored: that only happens when a
// key selector is not deterministic or the registry was mutated concurrently.
func (r *Registry[T]) Replace(current, updated T) bool {
	positions := r.positions(current)
	if !r.Remove(current) {
		return false
	}
	if r.Add(updated) {
		return true
	}
	if !r.restore(current, positions) {
		panic(errors.NewInconsistentStateError("replace", fmt.Sprintf("%v", current)))
	}
	return false
}

// ordered is implemented by indices that keep their records in a sequence.
type ordered[T any] interface {
	// position returns where v is held, or -1.
	position(v T) int
	// insert puts v at position at.
	insert(v T, at int)
}

func (r *Registry[T]) positions(v T) []int {
	positions := make([]int, len(r.indices))
	for i, idx := range r.indices {
		positions[i] = -1
		if o, ok := idx.(ordered[T]); ok {
			positions[i] = o.position(v)
		}
	}
	return positions
}

// restore re-adds v, inserting it at the recorded positions of ordered
// indices.
func (r *Registry[T]) restore(v T, positions []int) bool {
	for _, idx := range r.indices {
		if !idx.CanAdd(v) {
			return false
		}
	}
	for i, idx := range r.indices {
		if o, ok := idx.(ordered[T]); ok && positions[i] >= 0 {
			o.insert(v, positions[i])
			continue
		}
		idx.Add(v)
	}
	r.size++
	return true
}
