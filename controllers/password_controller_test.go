package controllers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/momento-app/momento_backend/models"
	"github.com/momento-app/momento_backend/utils"
)

func seedResetUser(users *fakeUserStore, otp string, otpExpiry time.Time) models.User {
	user, _ := users.Create(nil, models.User{
		Email:    "reset@example.com",
		FullName: "Reset User",
		OTPInfo:  &models.OTPInfo{OTP: otp, ExpiresAt: otpExpiry},
	})
	return user
}

func TestForgetPasswordUnknownEmail(t *testing.T) {
	pc := NewPasswordController(newFakeUserStore())

	e := echo.New()
	req := jsonRequest(http.MethodPost, "/api/auth/forget-password", `{"email":"nobody@example.com"}`)
	rec := httptest.NewRecorder()

	require.NoError(t, pc.ForgetPassword(e.NewContext(req, rec)))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestForgetPasswordRequiresEmail(t *testing.T) {
	pc := NewPasswordController(newFakeUserStore())

	e := echo.New()
	req := jsonRequest(http.MethodPost, "/api/auth/forget-password", `{}`)
	rec := httptest.NewRecorder()

	require.NoError(t, pc.ForgetPassword(e.NewContext(req, rec)))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestVerifyOTP(t *testing.T) {
	t.Run("valid OTP issues a reset token", func(t *testing.T) {
		users := newFakeUserStore()
		user := seedResetUser(users, "1234", time.Now().Add(15*time.Minute))
		pc := NewPasswordController(users)

		e := echo.New()
		req := jsonRequest(http.MethodPost, "/api/auth/verify-otp",
			`{"userId":"`+user.ID.Hex()+`","otp":"1234"}`)
		rec := httptest.NewRecorder()

		require.NoError(t, pc.VerifyOTP(e.NewContext(req, rec)))
		assert.Equal(t, http.StatusOK, rec.Code)

		var resp models.Response
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		data, ok := resp.Data.(map[string]interface{})
		require.True(t, ok)
		assert.NotEmpty(t, data["resetToken"])

		stored, err := users.FindByID(req.Context(), user.ID)
		require.NoError(t, err)
		assert.Equal(t, data["resetToken"], stored.ResetPasswordToken)
		assert.True(t, stored.ResetTokenExpiresAt.After(time.Now()))
	})

	t.Run("wrong OTP", func(t *testing.T) {
		users := newFakeUserStore()
		user := seedResetUser(users, "1234", time.Now().Add(15*time.Minute))
		pc := NewPasswordController(users)

		e := echo.New()
		req := jsonRequest(http.MethodPost, "/api/auth/verify-otp",
			`{"userId":"`+user.ID.Hex()+`","otp":"9999"}`)
		rec := httptest.NewRecorder()

		require.NoError(t, pc.VerifyOTP(e.NewContext(req, rec)))
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("expired OTP", func(t *testing.T) {
		users := newFakeUserStore()
		user := seedResetUser(users, "1234", time.Now().Add(-time.Minute))
		pc := NewPasswordController(users)

		e := echo.New()
		req := jsonRequest(http.MethodPost, "/api/auth/verify-otp",
			`{"userId":"`+user.ID.Hex()+`","otp":"1234"}`)
		rec := httptest.NewRecorder()

		require.NoError(t, pc.VerifyOTP(e.NewContext(req, rec)))
		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Contains(t, rec.Body.String(), "expired")
	})

	t.Run("unknown user", func(t *testing.T) {
		pc := NewPasswordController(newFakeUserStore())

		e := echo.New()
		req := jsonRequest(http.MethodPost, "/api/auth/verify-otp",
			`{"userId":"`+primitive.NewObjectID().Hex()+`","otp":"1234"}`)
		rec := httptest.NewRecorder()

		require.NoError(t, pc.VerifyOTP(e.NewContext(req, rec)))
		assert.Equal(t, http.StatusNotFound, rec.Code)
	})
}

func TestResetPassword(t *testing.T) {
	seedWithToken := func(users *fakeUserStore, token string, expiry time.Time) models.User {
		user, _ := users.Create(nil, models.User{
			Email:               "reset@example.com",
			Password:            "old-hash",
			ResetPasswordToken:  token,
			ResetTokenExpiresAt: expiry,
		})
		return user
	}

	t.Run("updates the password", func(t *testing.T) {
		users := newFakeUserStore()
		user := seedWithToken(users, "valid-token", time.Now().Add(time.Hour))
		pc := NewPasswordController(users)

		e := echo.New()
		req := jsonRequest(http.MethodPost, "/api/auth/reset-password",
			`{"userId":"`+user.ID.Hex()+`","resetToken":"valid-token","newPassword":"brand-new-password"}`)
		rec := httptest.NewRecorder()

		require.NoError(t, pc.ResetPassword(e.NewContext(req, rec)))
		assert.Equal(t, http.StatusOK, rec.Code)

		stored, err := users.FindByID(req.Context(), user.ID)
		require.NoError(t, err)
		assert.NoError(t, utils.CheckPassword("brand-new-password", stored.Password))
		assert.Empty(t, stored.ResetPasswordToken)
	})

	t.Run("rejects wrong token", func(t *testing.T) {
		users := newFakeUserStore()
		user := seedWithToken(users, "valid-token", time.Now().Add(time.Hour))
		pc := NewPasswordController(users)

		e := echo.New()
		req := jsonRequest(http.MethodPost, "/api/auth/reset-password",
			`{"userId":"`+user.ID.Hex()+`","resetToken":"stolen-token","newPassword":"brand-new-password"}`)
		rec := httptest.NewRecorder()

		require.NoError(t, pc.ResetPassword(e.NewContext(req, rec)))
		assert.Equal(t, http.StatusBadRequest, rec.Code)

		stored, err := users.FindByID(req.Context(), user.ID)
		require.NoError(t, err)
		assert.Equal(t, "old-hash", stored.Password)
	})

	t.Run("rejects expired token", func(t *testing.T) {
		users := newFakeUserStore()
		user := seedWithToken(users, "valid-token", time.Now().Add(-time.Minute))
		pc := NewPasswordController(users)

		e := echo.New()
		req := jsonRequest(http.MethodPost, "/api/auth/reset-password",
			`{"userId":"`+user.ID.Hex()+`","resetToken":"valid-token","newPassword":"brand-new-password"}`)
		rec := httptest.NewRecorder()

		require.NoError(t, pc.ResetPassword(e.NewContext(req, rec)))
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("rejects short passwords", func(t *testing.T) {
		users := newFakeUserStore()
		user := seedWithToken(users, "valid-token", time.Now().Add(time.Hour))
		pc := NewPasswordController(users)

		e := echo.New()
		req := jsonRequest(http.MethodPost, "/api/auth/reset-password",
			`{"userId":"`+user.ID.Hex()+`","resetToken":"valid-token","newPassword":"short"}`)
		rec := httptest.NewRecorder()

		require.NoError(t, pc.ResetPassword(e.NewContext(req, rec)))
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}
