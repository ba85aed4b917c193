/*
Package yamlstore stores gangs in a gangs.yml file.

The file maps each gang name to its members and power level:

	red:
	  members:
	  - 5b8b1c5e-3f0a-4c43-9a3e-1d2f6a7b8c9d
	  powerLevel: 2.5

Saves replace the file atomically. Store also implements datastore.Watcher,
so hand edits to the file can trigger a reload.
*/
package yamlstore
