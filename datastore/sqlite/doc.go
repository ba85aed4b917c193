// Package sqlite stores gangs in a local SQLite database (gangs.db).
//
// Gangs and their members live in two tables; a Save replaces both inside one
// transaction, so a crashed write leaves the previous snapshot intact.
package sqlite
