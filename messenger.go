/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package gangwars

import (
	"fmt"
	"io"

	"github.com/google/uuid"

	"github.com/Dykam/gangwars/player"
)

// WriterMessenger prints every message to a writer, addressed by player
// name. Console messages are printed as they are.
type WriterMessenger struct {
	w       io.Writer
	players *player.Directory
}

// NewWriterMessenger creates a messenger printing to w.
func NewWriterMessenger(w io.Writer, players *player.Directory) *WriterMessenger {
	return &WriterMessenger{w: w, players: players}
}

// Send prints message for to.
func (m *WriterMessenger) Send(to uuid.UUID, message string) {
	if to == uuid.Nil {
		fmt.Fprintln(m.w, message)
		return
	}
	fmt.Fprintf(m.w, "@%s %s\n", m.players.Name(to), message)
}
