/*
Package ddb stores gangs in a DynamoDB table.

The DynamodbDataStore supports:
  - Single-table design: gang items carry EntityType "Gang" and other items are ignored
  - Macro-based key expansion (e.g., "GANG#{Name}")
  - Paginated scans on load
  - Retries with backoff on throttling errors

Key Features:

Macro Expansion:
Keys are built from the index map registered for storagemodels.StoredGang:

	indexMap := map[string]string{
	    "PK": "GANG#{Name}",   // Becomes "GANG#red"
	    "SK": "GANG#{Name}",
	}

Snapshots:
Save puts one item per gang, recording its position so Load can restore the
saved order, and deletes gang items missing from the snapshot.

Connecting:

	store, err := ddb.NewDynamodbDataStore(ctx, datastore.Options{
	    AWSAccessKey: os.Getenv("AWS_ACCESS_KEY"),
	    AWSSecretKey: os.Getenv("AWS_SECRET_KEY"),
	    AWSRegion:    os.Getenv("AWS_REGION"),
	    TableName:    os.Getenv("AWS_DDB_TABLE"),
	})
*/
package ddb
