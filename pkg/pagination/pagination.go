package pagination

import (
	"encoding/base64"
	"fmt"
	"strconv"
	"strings"
)

const (
	// DefaultLimit is the standard page size when a limit is not provided.
	DefaultLimit = 25
	// MaxLimit caps how many items any listing can return at once.
	MaxLimit = 100

	cursorPrefix = "o"
)

// Params holds cursor pagination inputs from controllers.
type Params struct {
	Limit  int
	Cursor string
}

// Cursor marks the position of the next page inside an ordered result.
type Cursor struct {
	Offset int
}

// Page is one window of an ordered result.
type Page[T any] struct {
	Items      []T
	Total      int
	NextCursor string
}

// NormalizeLimit enforces the configured default and maximum limits.
func NormalizeLimit(limit int) int {
	if limit <= 0 {
		return DefaultLimit
	}
	if limit > MaxLimit {
		return MaxLimit
	}
	return limit
}

// EncodeCursor builds an opaque cursor string from the provided values.
func EncodeCursor(cursor Cursor) string {
	payload := fmt.Sprintf("%s|%d", cursorPrefix, cursor.Offset)
	return base64.RawURLEncoding.EncodeToString([]byte(payload))
}

// ParseCursor decodes the cursor string back into its components. A blank
// value is the first page.
func ParseCursor(value string) (Cursor, error) {
	if strings.TrimSpace(value) == "" {
		return Cursor{}, nil
	}

	decoded, err := base64.RawURLEncoding.DecodeString(value)
	if err != nil {
		return Cursor{}, fmt.Errorf("decode cursor: %w", err)
	}
	parts := strings.SplitN(string(decoded), "|", 2)
	if len(parts) != 2 || parts[0] != cursorPrefix {
		return Cursor{}, fmt.Errorf("invalid cursor format")
	}
	offset, err := strconv.Atoi(parts[1])
	if err != nil || offset < 0 {
		return Cursor{}, fmt.Errorf("invalid cursor offset")
	}
	return Cursor{Offset: offset}, nil
}

// Paginate slices items according to params. The returned page carries a
// NextCursor only when more items follow.
func Paginate[T any](items []T, params Params) (Page[T], error) {
	cursor, err := ParseCursor(params.Cursor)
	if err != nil {
		return Page[T]{}, err
	}
	limit := NormalizeLimit(params.Limit)
	total := len(items)

	start := min(cursor.Offset, total)
	end := min(start+limit, total)

	page := Page[T]{Items: items[start:end], Total: total}
	if end < total {
		page.NextCursor = EncodeCursor(Cursor{Offset: end})
	}
	return page, nil
}
