package handlers

import (
	"fmt"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"gorm.io/gorm"

	"sitterly_app_echo/internal/models"
	"sitterly_app_echo/internal/services"
)

type UserHandler struct {
	db    *gorm.DB
	cache *services.RedisCache
}

func NewUserHandler(db *gorm.DB, cache *services.RedisCache) *UserHandler {
	return &UserHandler{db: db, cache: cache}
}

// Me returns the viewer's own profile
func (h *UserHandler) Me(c echo.Context) error {
	var user models.User
	if err := h.db.First(&user, getUintFromContext(c, "userID")).Error; err != nil {
		return echo.NewHTTPError(http.StatusNotFound, "User not found")
	}
	return c.JSON(http.StatusOK, user)
}

// UpdateMe updates the viewer's profile fields. Role and email are fixed
// after registration.
func (h *UserHandler) UpdateMe(c echo.Context) error {
	var user models.User
	if err := h.db.First(&user, getUintFromContext(c, "userID")).Error; err != nil {
		return echo.NewHTTPError(http.StatusNotFound, "User not found")
	}

	var req struct {
		Name  string `json:"name"`
		Phone string `json:"phone"`
		Area  string `json:"area"`
		Bio   string `json:"bio"`
	}
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid JSON payload")
	}

	if req.Name != "" {
		user.Name = req.Name
	}
	user.Phone = req.Phone
	user.Area = req.Area
	user.Bio = req.Bio

	if err := h.db.Save(&user).Error; err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to update user")
	}

	if h.cache != nil {
		// Role did not change but the cached profile slice may be stale
		_ = h.cache.Delete(c.Request().Context(), fmt.Sprintf("user:role:%s", user.FirebaseUID))
	}

	return c.JSON(http.StatusOK, user)
}

// ListBabysitters returns babysitter profiles for browsing, optionally
// filtered by area. Results are cached briefly; profile browsing is the
// hottest read path and tolerates slightly stale data.
func (h *UserHandler) ListBabysitters(c echo.Context) error {
	area := c.QueryParam("area")

	fetch := func() ([]models.User, error) {
		var sitters []models.User
		query := h.db.Where("role = ?", models.UserRoleBabysitter)
		if area != "" {
			query = query.Where("area = ?", area)
		}
		err := query.Order("created_at desc").Limit(100).Find(&sitters).Error
		return sitters, err
	}

	var sitters []models.User
	var err error
	if h.cache != nil {
		key := fmt.Sprintf("babysitters:area:%s", area)
		sitters, err = services.GetOrSet(h.cache, c.Request().Context(), key, 5*time.Minute, fetch)
	} else {
		sitters, err = fetch()
	}
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to fetch babysitters")
	}

	return c.JSON(http.StatusOK, sitters)
}
