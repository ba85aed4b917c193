/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package mock_test

import (
	"context"
	"testing"
	"time"

	"github.com/Dykam/gangwars/datastore"
	"github.com/Dykam/gangwars/datastore/mock"
	"github.com/Dykam/gangwars/errors"
	"github.com/Dykam/gangwars/storagemodels"
)

var (
	_ datastore.DataStore[storagemodels.StoredGang] = (*mock.DataStore[storagemodels.StoredGang])(nil)
	_ datastore.Watcher                             = (*mock.DataStore[storagemodels.StoredGang])(nil)
)

func TestMockDataStore(t *testing.T) {
	ctx := context.Background()

	t.Run("BasicOperations", func(t *testing.T) {
		mockStore := mock.New[storagemodels.StoredGang]().
			WithCloneFunc(storagemodels.StoredGang.Clone)

		snapshot := []storagemodels.StoredGang{
			{Name: "red", Members: []string{"a"}, PowerLevel: 1},
			{Name: "blue"},
		}
		if err := mockStore.Save(ctx, snapshot); err != nil {
			t.Fatalf("Save failed: %v", err)
		}

		snapshot[0].Members[0] = "mutated"

		loaded, err := mockStore.Load(ctx)
		if err != nil {
			t.Fatalf("Load failed: %v", err)
		}
		if len(loaded) != 2 || loaded[0].Members[0] != "a" {
			t.Fatalf("Loaded snapshot mismatch: %+v", loaded)
		}
		if mockStore.Saves() != 1 {
			t.Fatalf("Expected 1 save, got %d", mockStore.Saves())
		}
	})

	t.Run("ErrorSimulation", func(t *testing.T) {
		mockStore := mock.New[storagemodels.StoredGang]()

		loadErr := errors.NewValidationError("members", "not a uuid")
		mockStore.WithLoadError(loadErr)
		if _, err := mockStore.Load(ctx); err != loadErr {
			t.Fatalf("Expected load error, got: %v", err)
		}

		saveErr := errors.NewConditionFailedError("save", "disk full")
		mockStore.WithSaveError(saveErr)
		if err := mockStore.Save(ctx, nil); err != saveErr {
			t.Fatalf("Expected save error, got: %v", err)
		}
		if mockStore.Saves() != 0 {
			t.Fatalf("Failed saves must not be counted")
		}
	})

	t.Run("Closed", func(t *testing.T) {
		mockStore := mock.New[storagemodels.StoredGang]()
		if err := mockStore.Close(); err != nil {
			t.Fatalf("Close failed: %v", err)
		}
		if _, err := mockStore.Load(ctx); !errors.IsConditionFailed(err) {
			t.Fatalf("Expected condition failed error, got: %v", err)
		}
	})

	t.Run("Watch", func(t *testing.T) {
		mockStore := mock.New[storagemodels.StoredGang]()
		watchCtx, cancel := context.WithCancel(ctx)
		defer cancel()

		changes, err := mockStore.Watch(watchCtx)
		if err != nil {
			t.Fatalf("Watch failed: %v", err)
		}

		mockStore.Touch(storagemodels.StoredGang{Name: "green"})

		select {
		case <-changes:
		case <-time.After(time.Second):
			t.Fatal("Expected a change notification")
		}
		if mockStore.Count() != 1 {
			t.Fatalf("Expected touched snapshot, got %d records", mockStore.Count())
		}

		cancel()
		select {
		case _, ok := <-changes:
			if ok {
				t.Fatal("Expected the channel to be closed")
			}
		case <-time.After(time.Second):
			t.Fatal("Watch channel was not closed after cancel")
		}
	})
}
