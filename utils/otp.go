// utils/otp.go
package utils

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"math/big"
	"time"

	"github.com/go-redis/redis/v8"
)

// GenerateOTP generates a random numeric OTP of the specified length
func GenerateOTP(length int) (string, error) {
	const digits = "0123456789"
	result := make([]byte, length)
	for i := 0; i < length; i++ {
		num, err := rand.Int(rand.Reader, big.NewInt(int64(len(digits))))
		if err != nil {
			return "", err
		}
		result[i] = digits[num.Int64()]
	}
	return string(result), nil
}

// GenerateResetToken generates a random token for password reset
func GenerateResetToken() string {
	b := make([]byte, 32)
	rand.Read(b)
	return fmt.Sprintf("%x", b)
}

// ValidateOTPAttempts caps OTP verification attempts per user. When Redis is
// unavailable the cap is skipped rather than blocking resets.
func ValidateOTPAttempts(userID string, redisClient *redis.Client) error {
	if redisClient == nil {
		return nil
	}

	key := "otp_attempts:" + userID
	attempts, err := redisClient.Incr(context.Background(), key).Result()
	if err != nil {
		return nil
	}

	// Set expiry if first attempt
	if attempts == 1 {
		redisClient.Expire(context.Background(), key, 1*time.Hour)
	}

	// Limit to 5 attempts per hour
	if attempts > 5 {
		return errors.New("too many OTP attempts")
	}

	return nil
}
