package handlers

import (
	"net/http"
	"os"
	"strings"
	"time"

	"firebase.google.com/go/v4/auth"
	"github.com/labstack/echo/v4"
	"gorm.io/gorm"

	"sitterly_app_echo/internal/models"
)

// AuthHandler handles authentication endpoints
type AuthHandler struct {
	authClient *auth.Client
	db         *gorm.DB
}

// NewAuthHandler creates a new AuthHandler
func NewAuthHandler(authClient *auth.Client, db *gorm.DB) *AuthHandler {
	return &AuthHandler{authClient: authClient, db: db}
}

func (h *AuthHandler) verifyBearerToken(c echo.Context) (*auth.Token, error) {
	if h.authClient == nil {
		return nil, echo.NewHTTPError(http.StatusServiceUnavailable, "Authentication is not configured")
	}

	authHeader := c.Request().Header.Get("Authorization")
	if authHeader == "" {
		return nil, echo.NewHTTPError(http.StatusUnauthorized, "Missing authorization header")
	}

	tokenString := strings.TrimPrefix(authHeader, "Bearer ")
	if tokenString == authHeader {
		return nil, echo.NewHTTPError(http.StatusUnauthorized, "Invalid authorization format")
	}

	token, err := h.authClient.VerifyIDToken(c.Request().Context(), tokenString)
	if err != nil {
		return nil, echo.NewHTTPError(http.StatusUnauthorized, "Invalid token")
	}
	return token, nil
}

// RegisterRequest is the profile payload sent on first sign-up
type RegisterRequest struct {
	Name  string `json:"name"`
	Phone string `json:"phone"`
	Role  string `json:"role"`
	Area  string `json:"area"`
	Bio   string `json:"bio"`
}

// HandleRegister creates the local user row for a verified Firebase account
func (h *AuthHandler) HandleRegister(c echo.Context) error {
	token, err := h.verifyBearerToken(c)
	if err != nil {
		return err
	}

	var req RegisterRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid JSON payload")
	}

	role := models.UserRole(req.Role)
	if role != models.UserRoleGuardian && role != models.UserRoleBabysitter {
		return echo.NewHTTPError(http.StatusBadRequest, "Role must be guardian or babysitter")
	}
	if req.Name == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "Name is required")
	}

	email, _ := token.Claims["email"].(string)

	var existing models.User
	if err := h.db.Where("firebase_uid = ?", token.UID).First(&existing).Error; err == nil {
		return echo.NewHTTPError(http.StatusConflict, "Account is already registered")
	}

	user := models.User{
		FirebaseUID: token.UID,
		Name:        req.Name,
		Phone:       req.Phone,
		Email:       email,
		Role:        role,
		Area:        req.Area,
		Bio:         req.Bio,
	}
	if err := h.db.Create(&user).Error; err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to create user")
	}

	return c.JSON(http.StatusCreated, user)
}

// HandleLogin verifies the Firebase ID token and creates a session cookie
func (h *AuthHandler) HandleLogin(c echo.Context) error {
	token, err := h.verifyBearerToken(c)
	if err != nil {
		return err
	}

	authHeader := c.Request().Header.Get("Authorization")
	tokenString := strings.TrimPrefix(authHeader, "Bearer ")

	// Create Session Cookie (valid for 5 days)
	expiresIn := time.Hour * 24 * 5
	cookieValue, err := h.authClient.SessionCookie(c.Request().Context(), tokenString, expiresIn)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to create session")
	}

	cookie := &http.Cookie{
		Name:     "session",
		Value:    cookieValue,
		MaxAge:   int(expiresIn.Seconds()),
		HttpOnly: true,
		Secure:   os.Getenv("ENV") == "production",
		Path:     "/",
		SameSite: http.SameSiteLaxMode,
	}
	c.SetCookie(cookie)

	registered := true
	var user models.User
	if err := h.db.Where("firebase_uid = ?", token.UID).First(&user).Error; err != nil {
		registered = false
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"status":     "success",
		"registered": registered,
	})
}

// HandleLogout clears the session cookie
func (h *AuthHandler) HandleLogout(c echo.Context) error {
	cookie := &http.Cookie{
		Name:     "session",
		Value:    "",
		MaxAge:   -1,
		HttpOnly: true,
		Path:     "/",
	}
	c.SetCookie(cookie)

	return c.JSON(http.StatusOK, map[string]string{
		"status": "logged out",
	})
}
