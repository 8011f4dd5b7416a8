package persistence

import (
	"context"
	"errors"
	"strings"
)

// ErrNotFound is returned by Load when no snapshot exists for the key.
var ErrNotFound = errors.New("snapshot not found")

// Key names a logical snapshot.
type Key string

const (
	KeyCart Key = "cart"
	KeyUser Key = "user"
)

// Store persists opaque snapshot blobs by key.
type Store interface {
	Load(ctx context.Context, key string) ([]byte, error)
	Save(ctx context.Context, key string, payload []byte) error
	Delete(ctx context.Context, key string) error
}

// Scoped builds the storage key for a logical snapshot owned by a session.
func Scoped(sessionID string, key Key) string {
	sessionID = strings.TrimSpace(sessionID)
	if sessionID == "" {
		return string(key)
	}
	return sessionID + ":" + string(key)
}

// logicalKey strips the session scope so metrics stay low-cardinality.
func logicalKey(key string) string {
	if i := strings.LastIndex(key, ":"); i >= 0 {
		return key[i+1:]
	}
	return key
}
