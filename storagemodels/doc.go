/*
Package storagemodels defines the records exchanged between the gang registry
and the storage backends.

StoredGang:
The persisted form of a gang. Every backend reads and writes whole snapshots
of these records:

	snapshot := []storagemodels.StoredGang{
	    {Name: "red", Members: []string{"8a1f...", "c02e..."}, PowerLevel: 3.5},
	}

The struct tags drive every encoding in use:
  - yaml: the gangs.yml file, where the name is the mapping key
  - dynamodbav: DynamoDB items
  - validate: record checks applied when a snapshot is loaded

Members are UUID strings in join order. The first member leads the gang.
*/
package storagemodels
