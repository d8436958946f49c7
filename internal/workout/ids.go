package workout

import (
	"strconv"
	"sync/atomic"

	"github.com/google/uuid"
)

// IDFunc returns a fresh token on every call. Tokens make set and exercise
// ids unique across repeated generations.
type IDFunc func() string

// UUIDs returns random UUID tokens.
func UUIDs() IDFunc {
	return uuid.NewString
}

// Sequence returns prefix1, prefix2, ... It is safe for concurrent use and
// gives reproducible ids in tests.
func Sequence(prefix string) IDFunc {
	var n atomic.Int64
	return func() string {
		return prefix + strconv.FormatInt(n.Add(1), 10)
	}
}
