/*
Package registry manages backend registration and index mapping.

Backend Registry:
Maps storage backend names to open functions. Backends are registered once,
typically from an init function, and selected by name from configuration:

	registry.RegisterBackend("yaml", func(ctx context.Context, opts datastore.Options) (datastore.DataStore[storagemodels.StoredGang], error) {
	    return yamlstore.New(opts.DataDir, opts.Logger)
	})

	store, err := registry.Open(ctx, cfg.Storage.Backend, opts)

Index Map Registry:
Associates Go types with key patterns:

	registry.RegisterIndexMap[storagemodels.StoredGang](map[string]string{
	    "PK": "GANG#{Name}",
	    "SK": "GANG#{Name}",
	})

The registry is thread-safe and should be populated during initialization.
*/
package registry
