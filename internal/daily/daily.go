// internal/daily/daily.go
//
// Deterministic "level of the day".
// Every server with the same salt picks the same level for a given UTC date,
// so players share a daily puzzle without any coordination.

package daily

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/binary"
	"time"

	"github.com/robalobadob/crossclue/internal/level"
)

// DateKey returns YYYY-MM-DD in UTC.
func DateKey(t time.Time) string {
	return t.UTC().Format("2006-01-02")
}

// Index returns a deterministic index for a date using HMAC(salt, YYYY-MM-DD) % n.
func Index(date time.Time, salt string, n int) int {
	if n <= 0 {
		return 0
	}
	h := hmac.New(sha256.New, []byte(salt))
	h.Write([]byte(DateKey(date)))
	sum := h.Sum(nil)
	// first 8 bytes as uint64 for the modulus
	v := binary.BigEndian.Uint64(sum[:8])
	return int(v % uint64(n))
}

// Pick returns the level of the day from c.
func Pick(c *level.Catalog, date time.Time, salt string) (*level.Level, error) {
	if c.Len() == 0 {
		return nil, level.ErrUnknownLevel
	}
	return c.At(Index(date, salt, c.Len())), nil
}
