// Package player keeps the directory of known players, resolving them by
// UUID or by case-insensitive name.
package player
