/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package index

// update implements replace-and-reindex for keyed indices: look the record up,
// transform it and swap it through the registry, rolling back on rejection.
func update[T any, K comparable](r *Registry[T], get func(K) (T, bool), k K, fn func(T) T) (T, bool) {
	var zero T
	if r == nil {
		panic("index: update on an index that is not attached to a registry")
	}
	current, ok := get(k)
	if !ok {
		return zero, false
	}
	updated := fn(current)
	if !r.Replace(current, updated) {
		return zero, false
	}
	return updated, true
}
