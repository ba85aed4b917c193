/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package gangwars

import (
	"context"

	"github.com/Dykam/gangwars/datastore"
	"github.com/Dykam/gangwars/datastore/ddb"
	"github.com/Dykam/gangwars/datastore/mock"
	"github.com/Dykam/gangwars/datastore/sqlite"
	"github.com/Dykam/gangwars/datastore/yamlstore"
	"github.com/Dykam/gangwars/registry"
	"github.com/Dykam/gangwars/storagemodels"
)

// Storage backend names accepted by the storage.backend setting.
const (
	BackendYAML     = "yaml"
	BackendSQLite   = "sqlite"
	BackendDynamoDB = "dynamodb"
	BackendMemory   = "memory"
)

type gangStore = datastore.DataStore[storagemodels.StoredGang]

func init() {
	registry.RegisterBackend(BackendYAML, func(_ context.Context, o datastore.Options) (gangStore, error) {
		s, err := yamlstore.New(o.DataDir, o.Logger)
		if err != nil {
			return nil, err
		}
		return s, nil
	})
	registry.RegisterBackend(BackendSQLite, func(_ context.Context, o datastore.Options) (gangStore, error) {
		s, err := sqlite.New(o.DataDir, o.Logger)
		if err != nil {
			return nil, err
		}
		return s, nil
	})
	registry.RegisterBackend(BackendDynamoDB, func(ctx context.Context, o datastore.Options) (gangStore, error) {
		s, err := ddb.NewDynamodbDataStore(ctx, o)
		if err != nil {
			return nil, err
		}
		return s, nil
	})
	registry.RegisterBackend(BackendMemory, func(context.Context, datastore.Options) (gangStore, error) {
		return mock.New[storagemodels.StoredGang]().WithCloneFunc(storagemodels.StoredGang.Clone), nil
	})
}
