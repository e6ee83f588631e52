package controllers

import (
	"log"
	"net/http"
	"os"
	"sync"
	"time"

	"github.com/golang-jwt/jwt"
	"github.com/labstack/echo/v4"
	"go.mongodb.org/mongo-driver/bson"

	"github.com/momento-app/momento_backend/middleware"
	"github.com/momento-app/momento_backend/models"
	"github.com/momento-app/momento_backend/repositories"
	"github.com/momento-app/momento_backend/utils"
)

// Failed logins lock an account for 30 minutes after 5 attempts
const (
	maxLoginAttempts   = 5
	loginLockoutWindow = 30 * time.Minute
)

type loginAttempt struct {
	count       int
	lastAttempt time.Time
}

// AuthController contains authentication logic
type AuthController struct {
	users           UserStore
	logger          *log.Logger
	loginAttempts   map[string]loginAttempt
	loginAttemptsMu sync.RWMutex
}

// NewAuthController creates a new auth controller
func NewAuthController(users UserStore) *AuthController {
	ac := &AuthController{
		users:         users,
		logger:        log.New(os.Stdout, "[AUTH] ", log.LstdFlags),
		loginAttempts: make(map[string]loginAttempt),
	}

	go ac.startLoginAttemptCleanupRoutine()

	return ac
}

// Signup handler
func (ac *AuthController) Signup(c echo.Context) error {
	var req models.SignupRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "Invalid request body",
		})
	}

	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "Email, full name, and a password of at least 8 characters are required",
		})
	}

	email, err := utils.SanitizeEmail(req.Email)
	if err != nil {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "Invalid email format",
		})
	}
	req.Email = email
	req.FullName = utils.SanitizeInput(req.FullName)

	ctx := c.Request().Context()

	_, err = ac.users.FindByEmail(ctx, req.Email)
	if err == nil {
		return c.JSON(http.StatusConflict, models.Response{
			Status:  http.StatusConflict,
			Message: "Email already exists",
		})
	}
	if err != repositories.ErrUserNotFound {
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Failed to check existing users",
		})
	}

	hashedPassword, err := utils.HashPassword(req.Password)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Failed to hash password",
		})
	}

	now := time.Now()
	user := models.User{
		Email:     req.Email,
		Password:  hashedPassword,
		FullName:  req.FullName,
		IsActive:  true,
		CreatedAt: now,
		UpdatedAt: now,
	}

	created, err := ac.users.Create(ctx, user)
	if err != nil {
		ac.logger.Printf("Failed to create user %s: %v", req.Email, err)
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Failed to create user",
		})
	}

	created.Password = ""

	return c.JSON(http.StatusCreated, models.Response{
		Status:  http.StatusCreated,
		Message: "Signup successful",
		Data:    created,
	})
}

// Login handler
func (ac *AuthController) Login(c echo.Context) error {
	var loginReq models.LoginRequest
	if err := c.Bind(&loginReq); err != nil {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "Invalid request body",
		})
	}

	if loginReq.Email == "" || loginReq.Password == "" {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "Email and password are required",
		})
	}

	email, err := utils.SanitizeEmail(loginReq.Email)
	if err != nil {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "Invalid email format",
		})
	}
	loginReq.Email = email

	ac.loginAttemptsMu.RLock()
	attempts, exists := ac.loginAttempts[loginReq.Email]
	ac.loginAttemptsMu.RUnlock()

	if exists && attempts.count >= maxLoginAttempts && time.Since(attempts.lastAttempt) < loginLockoutWindow {
		return c.JSON(http.StatusTooManyRequests, models.Response{
			Status:  http.StatusTooManyRequests,
			Message: "Too many failed login attempts. Please try again later.",
		})
	}

	ctx := c.Request().Context()

	user, err := ac.users.FindByEmail(ctx, loginReq.Email)
	if err != nil {
		if err == repositories.ErrUserNotFound {
			return c.JSON(http.StatusUnauthorized, models.Response{
				Status:  http.StatusUnauthorized,
				Message: "Invalid credentials",
			})
		}
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Failed to find user",
		})
	}

	if err := utils.CheckPassword(loginReq.Password, user.Password); err != nil {
		ac.recordFailedAttempt(loginReq.Email)
		return c.JSON(http.StatusUnauthorized, models.Response{
			Status:  http.StatusUnauthorized,
			Message: "Invalid credentials",
		})
	}

	ac.loginAttemptsMu.Lock()
	delete(ac.loginAttempts, loginReq.Email)
	ac.loginAttemptsMu.Unlock()

	token, refreshToken, err := middleware.GenerateJWT(user.ID.Hex(), user.Email)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Failed to generate token",
		})
	}

	if err := ac.users.UpdateFields(ctx, user.ID, bson.M{"isActive": true}, nil); err != nil {
		// Log the error but don't fail the login
		ac.logger.Printf("Failed to update user active status: %v", err)
	}

	user.Password = ""
	user.OTPInfo = nil

	return c.JSON(http.StatusOK, models.Response{
		Status:  http.StatusOK,
		Message: "Login successful",
		Data: map[string]interface{}{
			"token":        token,
			"refreshToken": refreshToken,
			"user":         user,
		},
	})
}

func (ac *AuthController) recordFailedAttempt(identifier string) {
	ac.loginAttemptsMu.Lock()
	defer ac.loginAttemptsMu.Unlock()

	// A lapsed lockout window starts a fresh count
	count := 1
	if previous, ok := ac.loginAttempts[identifier]; ok && time.Since(previous.lastAttempt) < loginLockoutWindow {
		count = previous.count + 1
	}
	ac.loginAttempts[identifier] = loginAttempt{count: count, lastAttempt: time.Now()}
}

// Logout blacklists the presented token and marks the user inactive
func (ac *AuthController) Logout(c echo.Context) error {
	claims := middleware.GetUserFromToken(c)
	if claims == nil {
		return c.JSON(http.StatusUnauthorized, models.Response{
			Status:  http.StatusUnauthorized,
			Message: "Invalid token",
		})
	}

	token, ok := c.Get("user").(*jwt.Token)
	if !ok {
		return c.JSON(http.StatusUnauthorized, models.Response{
			Status:  http.StatusUnauthorized,
			Message: "No token found",
		})
	}

	now := time.Now()
	tokenExpiry := now.Add(middleware.AccessTokenLifetime)
	if claims.ExpiresAt > 0 {
		tokenExpiry = time.Unix(claims.ExpiresAt, 0)
	}

	middleware.BlacklistToken(token.Raw, tokenExpiry)

	userID, err := utils.GetUserIDFromToken(c)
	if err == nil {
		if err := ac.users.UpdateFields(c.Request().Context(), userID, bson.M{"isActive": false}, nil); err != nil {
			// Token is already blacklisted; don't fail the logout
			ac.logger.Printf("Failed to update user logout status: %v", err)
		}
	}

	ac.logger.Printf("User logout - UserID: %s, Email: %s, IP: %s", claims.UserID, claims.Email, c.RealIP())

	return c.JSON(http.StatusOK, models.Response{
		Status:  http.StatusOK,
		Message: "Logged out successfully",
	})
}

// ValidateToken lets clients check session validity
func (ac *AuthController) ValidateToken(c echo.Context) error {
	claims := middleware.GetUserFromToken(c)
	if claims == nil {
		return c.JSON(http.StatusUnauthorized, models.Response{
			Status:  http.StatusUnauthorized,
			Message: "Invalid or expired token",
		})
	}

	var expiresAt *time.Time
	if claims.ExpiresAt > 0 {
		expTime := time.Unix(claims.ExpiresAt, 0)
		expiresAt = &expTime
	}

	return c.JSON(http.StatusOK, models.Response{
		Status:  http.StatusOK,
		Message: "Token is valid",
		Data: map[string]interface{}{
			"userId":    claims.UserID,
			"email":     claims.Email,
			"expiresAt": expiresAt,
		},
	})
}

func (ac *AuthController) startLoginAttemptCleanupRoutine() {
	for {
		time.Sleep(1 * time.Hour)
		cutoff := time.Now().Add(-loginLockoutWindow)
		ac.loginAttemptsMu.Lock()
		for identifier, attempts := range ac.loginAttempts {
			if attempts.lastAttempt.Before(cutoff) {
				delete(ac.loginAttempts, identifier)
			}
		}
		ac.loginAttemptsMu.Unlock()
	}
}
