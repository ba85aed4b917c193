/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package player

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Dykam/gangwars/errors"
)

func TestOfflineID(t *testing.T) {
	id := OfflineID("Notch")
	assert.Equal(t, uuid.Version(3), id.Version())
	assert.Equal(t, uuid.RFC4122, id.Variant())
	assert.Equal(t, id, OfflineID("Notch"))
	assert.NotEqual(t, id, OfflineID("notch"), "offline ids are case sensitive")
}

func TestRegister(t *testing.T) {
	d := NewDirectory()

	alice, err := d.Register("Alice")
	require.NoError(t, err)
	assert.Equal(t, OfflineID("Alice"), alice.ID)

	again, err := d.Register("alice")
	require.NoError(t, err)
	assert.Equal(t, alice, again, "names resolve case-insensitively")
	assert.Equal(t, 1, d.Len())
}

func TestLookup(t *testing.T) {
	d := NewDirectory()
	alice, err := d.Register("Alice")
	require.NoError(t, err)

	tests := []struct {
		name  string
		query string
		found bool
	}{
		{name: "exact name", query: "Alice", found: true},
		{name: "other case", query: "ALICE", found: true},
		{name: "uuid", query: alice.ID.String(), found: true},
		{name: "unknown name", query: "Bob", found: false},
		{name: "unknown uuid", query: uuid.NewString(), found: false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, ok := d.Lookup(tt.query)
			assert.Equal(t, tt.found, ok)
			if tt.found {
				assert.Equal(t, alice, p)
			}
		})
	}
}

func TestPutRenames(t *testing.T) {
	d := NewDirectory()
	id := uuid.MustParse("6f1c2b1e-7d3a-4b5c-9e8f-0a1b2c3d4e5f")

	_, err := d.Put(Player{ID: id, Name: "Alice"})
	require.NoError(t, err)
	_, err = d.Register("Bob")
	require.NoError(t, err)

	_, err = d.Put(Player{ID: id, Name: "Alicia"})
	require.NoError(t, err)
	assert.Equal(t, "Alicia", d.Name(id))
	_, ok := d.Lookup("Alice")
	assert.False(t, ok, "the old name is released")

	_, err = d.Put(Player{ID: id, Name: "bob"})
	assert.True(t, errors.IsAlreadyExists(err))
	assert.Equal(t, "Alicia", d.Name(id), "a rejected rename leaves the player unchanged")

	_, err = d.Put(Player{Name: "Nobody"})
	assert.True(t, errors.IsValidationError(err))
}

func TestNameAndForget(t *testing.T) {
	d := NewDirectory()
	bob, err := d.Register("Bob")
	require.NoError(t, err)

	assert.Equal(t, "Bob", d.Name(bob.ID))

	unknown := uuid.MustParse("0f0f0f0f-0f0f-4f0f-8f0f-0f0f0f0f0f0f")
	assert.Equal(t, unknown.String(), d.Name(unknown))

	assert.True(t, d.Forget(bob.ID))
	assert.False(t, d.Forget(bob.ID))
	assert.Equal(t, 0, d.Len())
}

func TestAll(t *testing.T) {
	d := NewDirectory()
	for _, name := range []string{"carol", "Alice", "bob"} {
		_, err := d.Register(name)
		require.NoError(t, err)
	}

	var names []string
	for _, p := range d.All() {
		names = append(names, p.Name)
	}
	assert.Equal(t, []string{"Alice", "bob", "carol"}, names)
}
