package utils

import (
	"math/rand/v2"
	"strconv"
	"strings"
	"time"
)

const (
	BookingIDPrefix = "BK"
	InvoiceIDPrefix = "INV"

	idSuffixLen  = 9
	idSuffixPool = "0123456789ABCDEFGHIJKLMNOPQRSTUVWXYZ"
)

// NewID builds "<prefix>-<epoch millis>-<9 base36 chars>". Uniqueness is
// probabilistic; there is no storage constraint behind it.
func NewID(prefix string) string {
	return newIDAt(prefix, time.Now())
}

func newIDAt(prefix string, now time.Time) string {
	var b strings.Builder
	b.Grow(len(prefix) + 1 + 13 + 1 + idSuffixLen)
	b.WriteString(prefix)
	b.WriteByte('-')
	b.WriteString(strconv.FormatInt(now.UnixMilli(), 10))
	b.WriteByte('-')
	for i := 0; i < idSuffixLen; i++ {
		b.WriteByte(idSuffixPool[rand.IntN(len(idSuffixPool))])
	}
	return b.String()
}
