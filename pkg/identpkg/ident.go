// Package identpkg generates surrogate ids and account numbers.
package identpkg

import (
	"crypto/rand"
	"encoding/hex"
	"strings"
	"sync/atomic"
)

// Sequence issues monotonically increasing int64 ids.
//
// One sequence is kept per entity type. Next is safe for concurrent use:
// no two callers ever receive the same id.
type Sequence struct {
	n int64
}

// Next returns the next id in the sequence.
func (s *Sequence) Next() int64 {
	return atomic.AddInt64(&s.n, 1)
}

// Last returns the most recently issued id, zero if none was issued yet.
func (s *Sequence) Last() int64 {
	return atomic.LoadInt64(&s.n)
}

// NumberLength is the length of generated account numbers.
const NumberLength = 12

// Number returns an n-character uppercase hexadecimal token derived from
// crypto/rand. Uniqueness is probabilistic; callers must retry on collision
// against the account store.
func Number(n int) (string, error) {
	buf := make([]byte, (n+1)/2)

	if _, err := rand.Read(buf); err != nil {
		return "", err
	}

	return strings.ToUpper(hex.EncodeToString(buf))[:n], nil
}
