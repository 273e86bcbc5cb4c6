// Package idgen generates message identifiers.
//
// Identifiers are ULIDs: a 48-bit big-endian millisecond timestamp followed by
// 80 bits of entropy, encoded as 26 Crockford base32 characters. The encoding
// preserves byte order, so comparing two ids as strings compares them by
// creation time first.
//
// A Generator is monotonic. Its timestamp never moves backwards, and two ids
// created in the same millisecond share the timestamp while the second one
// takes the first one's entropy incremented by a random amount. Every id
// therefore sorts strictly after the previous one from the same Generator.
package idgen

import (
	"crypto/rand"
	"sync"
	"time"

	"github.com/oklog/ulid/v2"
)

// Generator produces monotonic, lexicographically sortable ids
type Generator struct {
	mu      sync.Mutex
	entropy *ulid.MonotonicEntropy
	lastMs  uint64
}

// NewGenerator create a Generator backed by crypto/rand
func NewGenerator() *Generator {
	return &Generator{
		entropy: ulid.Monotonic(rand.Reader, 0),
	}
}

// New returns the id for a message created at t.
// It fails only when more ids are requested within one millisecond than the
// entropy can count (ulid.ErrMonotonicOverflow).
func (g *Generator) New(t time.Time) (string, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	ms := ulid.Timestamp(t)
	if ms < g.lastMs {
		// 時鐘回撥時沿用上一個毫秒
		ms = g.lastMs
	}

	id, err := ulid.New(ms, g.entropy)
	if err != nil {
		return "", err
	}
	g.lastMs = ms
	return id.String(), nil
}

// Time returns the creation time encoded in id
func Time(id string) (time.Time, error) {
	parsed, err := ulid.ParseStrict(id)
	if err != nil {
		return time.Time{}, err
	}
	return ulid.Time(parsed.Time()), nil
}
