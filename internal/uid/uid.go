/*
Package uid – UUID, ULID and UID generators.

UUIDs come from google/uuid, ULIDs from oklog/ulid. UID is a short random
string over the Crockford base-32 alphabet.
*/
package uid

import (
	"crypto/rand"
	"time"

	"github.com/google/uuid"
	"github.com/oklog/ulid"
)

// Crockford base-32 alphabet (excludes I, L, O, U).
const letters = "0123456789ABCDEFGHJKMNPQRSTVWXYZ"

// UID generates a crypto-random string of the given length using base-32 encoding.
// Size >= 10 is suitably unique for most use-cases.
func UID(size int) string {
	if size <= 0 {
		return ""
	}
	buf := make([]byte, size)
	if _, err := rand.Read(buf); err != nil {
		panic("uid: crypto/rand read failed: " + err.Error())
	}
	out := make([]byte, size)
	for i, b := range buf {
		out[i] = letters[int(b)%len(letters)]
	}
	return string(out)
}

// UUID returns a random (version 4) UUID string.
func UUID() string {
	return uuid.NewString()
}

// ULID returns a ULID for the current time.
func ULID() string {
	return ULIDAt(time.Now())
}

// ULIDAt returns a ULID whose timestamp is t.
func ULIDAt(t time.Time) string {
	return ulid.MustNew(ulid.Timestamp(t), rand.Reader).String()
}

// Time extracts the timestamp of a ULID string.
func Time(s string) (time.Time, error) {
	id, err := ulid.ParseStrict(s)
	if err != nil {
		return time.Time{}, err
	}
	return ulid.Time(id.Time()), nil
}
