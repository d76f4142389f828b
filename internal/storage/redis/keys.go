package redis

import (
	"fmt"

	"github.com/mcoot/demonkingdom/internal/storage"
)

// Key prefix for all game-related data
const keyPrefix = "dkgame"

// snapshotKey returns the Redis key holding one snapshot document
func snapshotKey(kind storage.SnapshotKind) string {
	return fmt.Sprintf("%s:snapshot:%s", keyPrefix, kind)
}
