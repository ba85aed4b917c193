/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package registry

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/Dykam/gangwars/datastore"
	"github.com/Dykam/gangwars/errors"
	"github.com/Dykam/gangwars/storagemodels"
)

// OpenFunc opens a gang store.
type OpenFunc func(ctx context.Context, opts datastore.Options) (datastore.DataStore[storagemodels.StoredGang], error)

var (
	backends   = make(map[string]OpenFunc)
	backendsMu sync.RWMutex
)

// RegisterBackend registers an open function under name.
// If a backend is already registered under name, it panics to prevent accidental overrides.
func RegisterBackend(name string, fn OpenFunc) {
	backendsMu.Lock()
	defer backendsMu.Unlock()

	if _, exists := backends[name]; exists {
		panic(fmt.Sprintf("backend registry: backend %q already registered", name))
	}
	backends[name] = fn
}

// GetBackend returns the open function registered under name.
func GetBackend(name string) (OpenFunc, error) {
	backendsMu.RLock()
	defer backendsMu.RUnlock()

	fn, ok := backends[name]
	if !ok {
		return nil, errors.NewNotFoundError("backend", name)
	}
	return fn, nil
}

// Open opens the backend registered under name.
func Open(ctx context.Context, name string, opts datastore.Options) (datastore.DataStore[storagemodels.StoredGang], error) {
	fn, err := GetBackend(name)
	if err != nil {
		return nil, err
	}
	store, err := fn(ctx, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s backend: %w", name, err)
	}
	return store, nil
}

// Backends returns the registered backend names in sorted order.
func Backends() []string {
	backendsMu.RLock()
	defer backendsMu.RUnlock()

	names := make([]string, 0, len(backends))
	for name := range backends {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
