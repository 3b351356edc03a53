package handlers

import (
	"github.com/labstack/echo/v4"

	"sitterly_app_echo/internal/models"
)

// Helper to safely get string from context
func getStringFromContext(c echo.Context, key string) string {
	val := c.Get(key)
	if val == nil {
		return ""
	}
	strVal, ok := val.(string)
	if !ok {
		return ""
	}
	return strVal
}

func getUintFromContext(c echo.Context, key string) uint {
	val := c.Get(key)
	if val == nil {
		return 0
	}
	uintVal, ok := val.(uint)
	if !ok {
		return 0
	}
	return uintVal
}

func getRoleFromContext(c echo.Context) models.UserRole {
	val := c.Get("userRole")
	if val == nil {
		return ""
	}
	role, ok := val.(models.UserRole)
	if !ok {
		return ""
	}
	return role
}
