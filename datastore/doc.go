/*
Package datastore defines the persistence interfaces for gang snapshots.

The main interface is DataStore[T], which loads and saves complete snapshots:

	type DataStore[T any] interface {
	    Load(ctx context.Context) ([]T, error)
	    Save(ctx context.Context, records []T) error
	    Close() error
	}

Stores that can notice edits made by other processes also implement Watcher.

Implementations:
  - yamlstore: gangs.yml on disk, watched with fsnotify
  - sqlite: a local SQLite database
  - ddb: a DynamoDB table
  - mock: In-memory mock implementation for testing
*/
package datastore
