package certificate

import (
	"crypto/rand"
	"fmt"
	"time"
)

const alnum = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

// NewNumber builds a certificate number PREFIX-NNNNNN-XXXXXX: the last six
// digits of the millisecond timestamp and six random uppercase
// alphanumerics. Row-level uniqueness is still enforced by the store.
func NewNumber(prefix string, now time.Time) string {
	ts := now.UnixMilli() % 1_000_000
	return fmt.Sprintf("%s-%06d-%s", prefix, ts, randAlnum(6))
}

func randAlnum(n int) string {
	buf := make([]byte, n)
	_, _ = rand.Read(buf)
	for i, b := range buf {
		buf[i] = alnum[int(b)%len(alnum)]
	}
	return string(buf)
}
