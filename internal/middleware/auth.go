package middleware

import (
	"fmt"
	"net/http"
	"time"

	"firebase.google.com/go/v4/auth"
	"github.com/labstack/echo/v4"
	"gorm.io/gorm"

	"sitterly_app_echo/internal/models"
	"sitterly_app_echo/internal/services"
)

// RequireAuth returns a middleware that verifies Firebase session cookies
func RequireAuth(authClient *auth.Client) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if authClient == nil {
				return echo.NewHTTPError(http.StatusServiceUnavailable, "Authentication is not configured")
			}

			cookie, err := c.Cookie("session")
			if err != nil || cookie.Value == "" {
				return echo.NewHTTPError(http.StatusUnauthorized, "Please log in to continue")
			}

			decodedToken, err := authClient.VerifySessionCookie(c.Request().Context(), cookie.Value)
			if err != nil {
				// Invalid session, clear cookie
				clearCookie := &http.Cookie{
					Name:     "session",
					Value:    "",
					MaxAge:   -1,
					HttpOnly: true,
					Path:     "/",
				}
				c.SetCookie(clearCookie)
				return echo.NewHTTPError(http.StatusUnauthorized, "Session expired, please log in again")
			}

			c.Set("userUID", decodedToken.UID)
			if email, ok := decodedToken.Claims["email"].(string); ok {
				c.Set("userEmail", email)
			}

			return next(c)
		}
	}
}

// cachedUser is the slice of the user record kept in Redis for role lookups
type cachedUser struct {
	ID   uint            `json:"id"`
	Role models.UserRole `json:"role"`
}

// LoadUser resolves the authenticated Firebase UID to a local user row and
// puts userID and userRole into the request context. Lookups are cached so a
// dashboard load does not re-query the users table per request.
func LoadUser(db *gorm.DB, cache *services.RedisCache) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			uid, ok := c.Get("userUID").(string)
			if !ok || uid == "" {
				return echo.NewHTTPError(http.StatusUnauthorized, "Please log in to continue")
			}

			lookup := func() (cachedUser, error) {
				var user models.User
				if err := db.Where("firebase_uid = ?", uid).First(&user).Error; err != nil {
					return cachedUser{}, err
				}
				return cachedUser{ID: user.ID, Role: user.Role}, nil
			}

			var entry cachedUser
			var err error
			if cache != nil {
				key := fmt.Sprintf("user:role:%s", uid)
				entry, err = services.GetOrSet(cache, c.Request().Context(), key, 15*time.Minute, lookup)
			} else {
				entry, err = lookup()
			}
			if err != nil {
				if err == gorm.ErrRecordNotFound {
					return echo.NewHTTPError(http.StatusForbidden, "Account has no profile yet, please register")
				}
				return echo.NewHTTPError(http.StatusInternalServerError, "Failed to load user")
			}

			c.Set("userID", entry.ID)
			c.Set("userRole", entry.Role)

			return next(c)
		}
	}
}
