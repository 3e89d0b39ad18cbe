package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestVerifyPasswordComplexity(t *testing.T) {
	cases := map[string]bool{
		"Sh0rt!":      false,
		"alllower1!":  false,
		"ALLUPPER1!":  false,
		"NoDigits!!":  false,
		"NoSymbol123": false,
		"Valid#Pass1": true,
	}
	for pw, ok := range cases {
		err := VerifyPasswordComplexity(pw)
		if ok {
			assert.NoError(t, err, pw)
		} else {
			assert.Error(t, err, pw)
		}
	}
}

func TestHashAndCheckPassword(t *testing.T) {
	hash, err := HashPassword("Valid#Pass1")
	require.NoError(t, err)

	assert.True(t, CheckPassword(hash, "Valid#Pass1"))
	assert.False(t, CheckPassword(hash, "Valid#Pass2"))
}
