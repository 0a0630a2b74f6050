package step

import (
	"encoding/json"

	"github.com/multiversx/mx-contract-simulator/internal/account"
)

// EncodeState converts the decoded key/value view of a contract's storage
// into the driver-consumed encoded blob.
func EncodeState(s account.State) ([]byte, error) {
	if len(s) == 0 {
		return []byte("{}"), nil
	}
	return json.Marshal(s)
}

// DecodeState is the exact inverse of EncodeState: decode(encode(s)) == s for
// any well-formed state, and encode(decode(b)) == b for any well-formed blob.
func DecodeState(b []byte) (account.State, error) {
	if len(b) == 0 {
		return account.State{}, nil
	}

	var s account.State
	if err := json.Unmarshal(b, &s); err != nil {
		return nil, err
	}
	if s == nil {
		s = account.State{}
	}
	return s, nil
}
