package id

import (
	"crypto/rand"

	"github.com/oklog/ulid/v2"
)

// New generates a ULID string. ULIDs sort lexicographically by creation time,
// which makes them usable both as DynamoDB partition keys and as the otps
// table sort key for newest-first queries.
func New() string {
	return ulid.MustNew(ulid.Now(), rand.Reader).String()
}
