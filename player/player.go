/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package player

import (
	"crypto/md5"
	"strings"

	"github.com/google/uuid"
)

// Player is a known player.
type Player struct {
	ID   uuid.UUID
	Name string
}

// OfflineID returns the identifier an offline-mode server assigns to name:
// a version 3 UUID over the MD5 of "OfflinePlayer:" + name.
func OfflineID(name string) uuid.UUID {
	id := uuid.UUID(md5.Sum([]byte("OfflinePlayer:" + name)))
	id[6] = id[6]&0x0f | 0x30
	id[8] = id[8]&0x3f | 0x80
	return id
}

func nameKey(name string) string {
	return strings.ToLower(name)
}
