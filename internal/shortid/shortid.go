// Package shortid generates short, URL-safe random identifiers. They are
// used as ping keys: capability tokens that must not be derivable from a
// check's UUID.
package shortid

import (
	"crypto/rand"
	"math/big"
)

const alphabet = "0123456789abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ"

// Length of generated identifiers. 26 base62 characters carry ~154 bits of
// entropy, comfortably unguessable.
const Length = 26

// New returns a fresh random identifier.
func New() string {
	max := big.NewInt(int64(len(alphabet)))
	buf := make([]byte, Length)
	for i := range buf {
		n, err := rand.Int(rand.Reader, max)
		if err != nil {
			// crypto/rand only fails if the OS entropy source is broken.
			panic(err)
		}
		buf[i] = alphabet[n.Int64()]
	}
	return string(buf)
}
