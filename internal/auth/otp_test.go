package auth

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateOTPFormat(t *testing.T) {
	seen := make(map[string]bool)
	for i := 0; i < 20; i++ {
		code, err := GenerateOTP()
		require.NoError(t, err)
		require.Len(t, code, OTPLength)
		for _, c := range code {
			assert.True(t, c >= '0' && c <= '9', "code %q contains non-digit", code)
		}
		seen[code] = true
	}
	// 20 draws from a million values should not all collide
	assert.Greater(t, len(seen), 1)
}

func TestHashOTPRoundTrip(t *testing.T) {
	hash, err := HashOTP("042137")
	require.NoError(t, err)
	assert.NotEqual(t, "042137", hash)

	assert.NoError(t, VerifyOTP("042137", hash))
	assert.Error(t, VerifyOTP("042138", hash))
	assert.Error(t, VerifyOTP("", hash))
}
