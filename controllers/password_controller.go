// controllers/password_controller.go
package controllers

import (
	"fmt"
	"net/http"
	"os"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"gopkg.in/gomail.v2"

	"github.com/momento-app/momento_backend/config"
	"github.com/momento-app/momento_backend/models"
	"github.com/momento-app/momento_backend/repositories"
	"github.com/momento-app/momento_backend/utils"
)

// PasswordController handles password reset functionality
type PasswordController struct {
	users UserStore
}

// NewPasswordController creates a new password controller
func NewPasswordController(users UserStore) *PasswordController {
	return &PasswordController{users: users}
}

// ForgetPassword initiates the password reset process
func (pc *PasswordController) ForgetPassword(c echo.Context) error {
	var forgetPassReq struct {
		Email string `json:"email"`
	}
	if err := c.Bind(&forgetPassReq); err != nil {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "Invalid request body",
		})
	}

	if forgetPassReq.Email == "" {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "Email is required",
		})
	}

	ctx := c.Request().Context()

	user, err := pc.users.FindByEmail(ctx, forgetPassReq.Email)
	if err != nil {
		if err == repositories.ErrUserNotFound {
			return c.JSON(http.StatusNotFound, models.Response{
				Status:  http.StatusNotFound,
				Message: "No account associated with this email",
			})
		}
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Failed to check user",
		})
	}

	otp, err := utils.GenerateOTP(4)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Failed to generate OTP",
		})
	}

	// OTP is valid for 15 minutes
	otpInfo := models.OTPInfo{
		OTP:       otp,
		ExpiresAt: time.Now().Add(15 * time.Minute),
	}

	err = pc.users.UpdateFields(ctx, user.ID, bson.M{"otpInfo": otpInfo}, nil)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Failed to save OTP information",
		})
	}

	if err := sendOTPByEmail(user.Email, user.FullName, otp); err != nil {
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Failed to send OTP email",
		})
	}

	return c.JSON(http.StatusOK, models.Response{
		Status:  http.StatusOK,
		Message: "Password reset OTP sent successfully",
		Data: map[string]interface{}{
			"email":  utils.MaskEmail(user.Email),
			"userId": user.ID.Hex(),
		},
	})
}

// VerifyOTP verifies the OTP provided by the user
func (pc *PasswordController) VerifyOTP(c echo.Context) error {
	var verifyOTPReq struct {
		UserID string `json:"userId"`
		OTP    string `json:"otp"`
	}
	if err := c.Bind(&verifyOTPReq); err != nil {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "Invalid request body",
		})
	}

	if verifyOTPReq.UserID == "" || verifyOTPReq.OTP == "" {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "User ID and OTP are required",
		})
	}

	userID, err := primitive.ObjectIDFromHex(verifyOTPReq.UserID)
	if err != nil {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "Invalid user ID",
		})
	}

	if err := utils.ValidateOTPAttempts(verifyOTPReq.UserID, config.GetRedisClient()); err != nil {
		return c.JSON(http.StatusTooManyRequests, models.Response{
			Status:  http.StatusTooManyRequests,
			Message: "Too many OTP attempts. Please try again later.",
		})
	}

	ctx := c.Request().Context()

	user, err := pc.users.FindByID(ctx, userID)
	if err != nil {
		if err == repositories.ErrUserNotFound {
			return c.JSON(http.StatusNotFound, models.Response{
				Status:  http.StatusNotFound,
				Message: "User not found",
			})
		}
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Failed to retrieve user",
		})
	}

	if user.OTPInfo == nil {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "No OTP request found. Please request a new OTP",
		})
	}

	if time.Now().After(user.OTPInfo.ExpiresAt) {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "OTP has expired. Please request a new OTP",
		})
	}

	if user.OTPInfo.OTP != verifyOTPReq.OTP {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "Invalid OTP",
		})
	}

	resetToken := utils.GenerateResetToken()
	tokenExpiry := time.Now().Add(1 * time.Hour)

	err = pc.users.UpdateFields(ctx, user.ID, bson.M{
		"resetPasswordToken":  resetToken,
		"resetTokenExpiresAt": tokenExpiry,
	}, nil)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Failed to update reset token",
		})
	}

	return c.JSON(http.StatusOK, models.Response{
		Status:  http.StatusOK,
		Message: "OTP verified successfully",
		Data: map[string]interface{}{
			"resetToken": resetToken,
			"userId":     user.ID.Hex(),
		},
	})
}

// ResetPassword resets the user's password
func (pc *PasswordController) ResetPassword(c echo.Context) error {
	var resetPassReq struct {
		UserID      string `json:"userId"`
		ResetToken  string `json:"resetToken"`
		NewPassword string `json:"newPassword"`
	}
	if err := c.Bind(&resetPassReq); err != nil {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "Invalid request body",
		})
	}

	if resetPassReq.UserID == "" || resetPassReq.ResetToken == "" || resetPassReq.NewPassword == "" {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "User ID, reset token, and new password are required",
		})
	}

	if len(resetPassReq.NewPassword) < 8 {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "Password must be at least 8 characters long",
		})
	}

	userID, err := primitive.ObjectIDFromHex(resetPassReq.UserID)
	if err != nil {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "Invalid user ID",
		})
	}

	ctx := c.Request().Context()

	user, err := pc.users.FindByID(ctx, userID)
	if err != nil {
		if err == repositories.ErrUserNotFound {
			return c.JSON(http.StatusBadRequest, models.Response{
				Status:  http.StatusBadRequest,
				Message: "Invalid or expired reset token",
			})
		}
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Failed to retrieve user",
		})
	}

	if user.ResetPasswordToken == "" || user.ResetPasswordToken != resetPassReq.ResetToken {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "Invalid or expired reset token",
		})
	}

	if user.ResetTokenExpiresAt.Before(time.Now()) {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "Reset token has expired. Please request a new password reset",
		})
	}

	hashedPassword, err := utils.HashPassword(resetPassReq.NewPassword)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Failed to hash password",
		})
	}

	err = pc.users.UpdateFields(ctx, user.ID,
		bson.M{"password": hashedPassword},
		bson.M{"resetPasswordToken": "", "resetTokenExpiresAt": "", "otpInfo": ""},
	)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Failed to update password",
		})
	}

	return c.JSON(http.StatusOK, models.Response{
		Status:  http.StatusOK,
		Message: "Password reset successfully",
	})
}

// sendOTPByEmail sends the OTP to the user's email over SMTP
func sendOTPByEmail(email, name, otp string) error {
	smtpHost := os.Getenv("SMTP_HOST")
	smtpPortStr := os.Getenv("SMTP_PORT")
	smtpUser := os.Getenv("SMTP_USER")
	smtpPass := os.Getenv("SMTP_PASS")
	fromEmail := os.Getenv("FROM_EMAIL")

	if smtpHost == "" || smtpPortStr == "" || smtpUser == "" || smtpPass == "" || fromEmail == "" {
		return fmt.Errorf("missing SMTP configuration")
	}

	smtpPort, err := strconv.Atoi(smtpPortStr)
	if err != nil {
		return fmt.Errorf("invalid SMTP port: %v", err)
	}

	subject := "Password Reset OTP"
	body := fmt.Sprintf(`
		<html>
		<body>
			<h2>Reset Your Password</h2>
			<p>Hello %s,</p>
			<p>You have requested to reset your password. Please use the following OTP code to verify your request:</p>
			<h3 style="background-color: #f0f0f0; padding: 10px; font-size: 24px; letter-spacing: 5px; text-align: center;">%s</h3>
			<p>This code will expire in 15 minutes.</p>
			<p>If you did not request a password reset, please ignore this email or contact support if you have concerns.</p>
			<p>Thank you,<br>The Momento Team</p>
		</body>
		</html>
	`, name, otp)

	m := gomail.NewMessage()
	m.SetHeader("From", fromEmail)
	m.SetHeader("To", email)
	m.SetHeader("Subject", subject)
	m.SetBody("text/html", body)

	d := gomail.NewDialer(smtpHost, smtpPort, smtpUser, smtpPass)

	if err := d.DialAndSend(m); err != nil {
		return fmt.Errorf("failed to send email: %v", err)
	}

	return nil
}
