// models/user.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// User model
type User struct {
	ID                  primitive.ObjectID `json:"id,omitempty" bson:"_id,omitempty"`
	Email               string             `json:"email" bson:"email"`
	Password            string             `json:"password,omitempty" bson:"password"`
	FullName            string             `json:"fullName" bson:"fullName"`
	ProfilePic          string             `json:"profilePic,omitempty" bson:"profilePic,omitempty"`
	IsActive            bool               `json:"isActive" bson:"isActive"`
	OTPInfo             *OTPInfo           `json:"otpInfo,omitempty" bson:"otpInfo,omitempty"`
	ResetPasswordToken  string             `json:"resetPasswordToken,omitempty" bson:"resetPasswordToken,omitempty"`
	ResetTokenExpiresAt time.Time          `json:"resetTokenExpiresAt,omitempty" bson:"resetTokenExpiresAt,omitempty"`
	CreatedAt           time.Time          `json:"createdAt" bson:"createdAt"`
	UpdatedAt           time.Time          `json:"updatedAt" bson:"updatedAt"`
}

type OTPInfo struct {
	OTP       string    `json:"otp" bson:"otp"`
	ExpiresAt time.Time `json:"expiresAt" bson:"expiresAt"`
}
