package types

import (
	"github.com/thanhpk/randstr"
)

const nonceDigits = "0123456789"

// NewNonce returns a random NonceLength digit decimal string to be used as the nonce of
// a make swap request.
func NewNonce() string {
	return randstr.String(NonceLength, nonceDigits)
}
