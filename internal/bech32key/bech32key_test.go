package bech32key

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDerive_IsPureFunctionOfAccountID(t *testing.T) {
	a := Derive("alice.near")
	b := Derive("alice.near")
	assert.Equal(t, a, b)
}

func TestDerive_DifferentIDsYieldDifferentKeys(t *testing.T) {
	assert.NotEqual(t, Derive("alice.near"), Derive("bob.near"))
}

func TestDerive_PadsShortIDs(t *testing.T) {
	short := Derive("a")
	long := Derive("a_considerably_longer_account_id_right_here")
	assert.NotEmpty(t, short)
	assert.NotEmpty(t, long)
	assert.Equal(t, Derive("a"+strings.Repeat(" ", 31)), short)
}

func TestDerive_TruncatesLongIDs(t *testing.T) {
	id := "012345678901234567890123456789012345678901234567"
	withSuffix := Derive(id)
	truncated := Derive(id[:32])
	assert.Equal(t, truncated, withSuffix)
}
