package order

import (
	"crypto/rand"

	"github.com/go-faster/errors"
)

const (
	claimCodeLen      = 12
	claimCodeAlphabet = "ABCDEFGHJKLMNPQRSTUVWXYZ23456789"
)

// newClaimCode generates an unguessable claim code from crypto/rand. The
// alphabet omits the ambiguous 0/O/1/I since members read codes to staff
// aloud. 12 characters over 32 symbols gives 60 bits of entropy; collisions
// are additionally rejected by the unique index on orders.claim_code.
func newClaimCode() (string, error) {
	buf := make([]byte, claimCodeLen)
	if _, err := rand.Read(buf); err != nil {
		return "", errors.Wrap(err, "read random bytes")
	}
	for i, b := range buf {
		buf[i] = claimCodeAlphabet[int(b)%len(claimCodeAlphabet)]
	}
	return string(buf), nil
}
