package utils

import (
	"testing"
	"unicode"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateOTP(t *testing.T) {
	otp, err := GenerateOTP(4)
	require.NoError(t, err)
	require.Len(t, otp, 4)
	for _, r := range otp {
		assert.True(t, unicode.IsDigit(r))
	}

	longer, err := GenerateOTP(6)
	require.NoError(t, err)
	assert.Len(t, longer, 6)
}

func TestGenerateResetToken(t *testing.T) {
	token := GenerateResetToken()
	assert.Len(t, token, 64)
	assert.NotEqual(t, token, GenerateResetToken())
}

func TestValidateOTPAttemptsWithoutRedis(t *testing.T) {
	// Without Redis the cap is skipped rather than locking users out
	assert.NoError(t, ValidateOTPAttempts("user-1", nil))
}
