package random

import (
	crand "crypto/rand"
	"encoding/binary"
	mrand "math/rand"
	"time"
)

const charset = "0123456789ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz"

var rnd *mrand.Rand

func init() {
	var b [8]byte
	if _, err := crand.Read(b[:]); err != nil {
		rnd = mrand.New(mrand.NewSource(time.Now().UnixNano()))
		return
	}
	rnd = mrand.New(mrand.NewSource(int64(binary.LittleEndian.Uint64(b[:]))))
}

// String returns an alphanumeric string that is unpredictable enough for
// identifiers but must not be used for secrets. It is not safe for
// concurrent use and is meant for init time.
func String(length int) string {
	b := make([]byte, length)
	for i := range b {
		b[i] = charset[rnd.Intn(len(charset))]
	}
	return string(b)
}
