// Package bech32key derives the deterministic signer public key that the
// simulator reports for an account, from its account id alone.
package bech32key

import (
	"github.com/mr-tron/base58"
)

const keyWidth = 32

// Derive computes signer_key = base58(right_pad(accountID[0..32], ' ', 32)).
// It is a pure function of accountID: the same id always yields the same key.
func Derive(accountID string) string {
	buf := make([]byte, keyWidth)
	for i := range buf {
		buf[i] = ' '
	}
	copy(buf, []byte(accountID)[:minInt(len(accountID), keyWidth)])
	return base58.Encode(buf)
}

func minInt(a, b int) int {
	if a < b {
		return a
	}
	return b
}
