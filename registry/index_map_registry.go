/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package registry

import (
	"fmt"
	"maps"
	"reflect"
	"sync"
)

// IndexMapRegistry associates Go record types with the key templates
// backends use to address them, such as {"PK": "GANG#{Name}"}.

var (
	indexMapRegistry = make(map[reflect.Type]map[string]string)
	mu               sync.RWMutex
)

// RegisterIndexMap associates a Go type T with a given index map.
// Registering a different map for a type that already has one panics.
func RegisterIndexMap[T any](idxMap map[string]string) {
	t := reflect.TypeFor[T]()

	mu.Lock()
	defer mu.Unlock()
	if existing, ok := indexMapRegistry[t]; ok && !maps.Equal(existing, idxMap) {
		panic(fmt.Sprintf("index map registry: conflicting index map for %v", t))
	}
	indexMapRegistry[t] = maps.Clone(idxMap)
}

// GetIndexMap retrieves a copy of the index map for type T, if any.
func GetIndexMap[T any]() (map[string]string, bool) {
	t := reflect.TypeFor[T]()

	mu.RLock()
	defer mu.RUnlock()
	m, ok := indexMapRegistry[t]
	return maps.Clone(m), ok
}
