// Package cli implements the gangwars command line: an interactive shell
// that acts as the server console, a one-shot run command and version.
package cli
