/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package index

import "reflect"

// Index is a derived view over records of type T that a Registry keeps in
// lockstep with every other attached view.
//
// CanAdd and CanRemove must not have side effects. Add and Remove are only
// called after every index of the same registry accepted the operation.
type Index[T any] interface {
	// CanAdd reports whether adding v keeps the index consistent.
	CanAdd(v T) bool
	// Add inserts v unconditionally.
	Add(v T)
	// CanRemove reports whether v is held by the index.
	CanRemove(v T) bool
	// Remove deletes v unconditionally.
	Remove(v T)
	// Clear drops every record held by the index.
	Clear()
}

// EqualFunc reports whether two records are the same value.
type EqualFunc[T any] func(a, b T) bool

// Options configures record comparison for indices that need it.
type Options[T any] struct {
	Equal EqualFunc[T]
}

// Option is a functional option for index constructors.
type Option[T any] func(*Options[T])

// WithEqual overrides the record equality used by an index.
// The default compares records with reflect.DeepEqual.
func WithEqual[T any](eq EqualFunc[T]) Option[T] {
	return func(o *Options[T]) {
		o.Equal = eq
	}
}

func buildOptions[T any](opts []Option[T]) Options[T] {
	o := Options[T]{
		Equal: func(a, b T) bool { return reflect.DeepEqual(a, b) },
	}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}
