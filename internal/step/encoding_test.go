package step

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/multiversx/mx-contract-simulator/internal/account"
)

func TestEncodeDecodeState_RoundTripsThroughState(t *testing.T) {
	s := account.State{
		"counter": []byte("3"),
		"name":    []byte("alice"),
	}

	encoded, err := EncodeState(s)
	require.NoError(t, err)

	decoded, err := DecodeState(encoded)
	require.NoError(t, err)

	assert.Equal(t, s, decoded)
}

func TestEncodeDecodeState_RoundTripsThroughBlob(t *testing.T) {
	blob := []byte(`{"counter":"MQ=="}`)

	decoded, err := DecodeState(blob)
	require.NoError(t, err)

	reencoded, err := EncodeState(decoded)
	require.NoError(t, err)

	redecoded, err := DecodeState(reencoded)
	require.NoError(t, err)
	assert.Equal(t, decoded, redecoded)
}

func TestEncodeDecodeState_EmptyStateRoundTrips(t *testing.T) {
	encoded, err := EncodeState(account.State{})
	require.NoError(t, err)

	decoded, err := DecodeState(encoded)
	require.NoError(t, err)
	assert.Empty(t, decoded)
}
