package utils

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateSecurePassword(t *testing.T) {
	for _, length := range []int{4, 8, 12, 32} {
		password, err := GenerateSecurePassword(length)
		require.NoError(t, err)

		want := length
		if want < 8 {
			want = 8
		}
		assert.Len(t, password, want)
		assert.True(t, strings.ContainsAny(password, lowerChars))
		assert.True(t, strings.ContainsAny(password, upperChars))
		assert.True(t, strings.ContainsAny(password, digitChars))
		assert.True(t, strings.ContainsAny(password, symbolChars))
	}
}

func TestHashAndCheckPassword(t *testing.T) {
	hash, err := HashPassword("correct horse")
	require.NoError(t, err)
	assert.NotEqual(t, "correct horse", hash)
	assert.True(t, CheckPassword(hash, "correct horse"))
	assert.False(t, CheckPassword(hash, "battery staple"))
	assert.False(t, CheckPassword("not-a-hash", "correct horse"))
}
