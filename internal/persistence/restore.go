package persistence

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/angelmondragon/sonumarket-core/pkg/logger"
)

// Restore loads and decodes the snapshot at key. Missing, unreadable and
// corrupt snapshots all report absent.
func Restore[T any](ctx context.Context, store Store, key string, logg *logger.Logger) (T, bool) {
	var zero T
	if store == nil {
		return zero, false
	}
	blob, err := store.Load(ctx, key)
	if errors.Is(err, ErrNotFound) {
		return zero, false
	}
	ctx = logg.WithField(ctx, "snapshot_key", key)
	if err != nil {
		logg.Warn(ctx, "snapshot load failed: "+err.Error())
		return zero, false
	}
	var out T
	if err := json.Unmarshal(blob, &out); err != nil {
		logg.Warn(ctx, "discarding corrupt snapshot: "+err.Error())
		return zero, false
	}
	return out, true
}
