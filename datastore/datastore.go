/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package datastore

import (
	"context"
	"log/slog"
)

// DataStore persists whole snapshots of records of type T.
type DataStore[T any] interface {
	// Load returns every stored record. A missing store yields an empty
	// snapshot, not an error. Records that cannot be decoded may be reported
	// in an *errors.BatchError returned together with the readable ones.
	Load(ctx context.Context) ([]T, error)

	// Save replaces the stored snapshot with records.
	Save(ctx context.Context, records []T) error

	Close() error
}

// Watcher is implemented by stores that can report changes made outside the
// process. Each value on the returned channel signals one external change;
// the channel is closed when ctx is done.
type Watcher interface {
	Watch(ctx context.Context) (<-chan struct{}, error)
}

// Options carries the settings a backend may need when it is opened.
type Options struct {
	// DataDir holds file based stores.
	DataDir string

	// DynamoDB settings.
	AWSAccessKey string
	AWSSecretKey string
	AWSRegion    string
	TableName    string
	Endpoint     string

	Logger *slog.Logger
}
