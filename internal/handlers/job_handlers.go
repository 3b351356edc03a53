package handlers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"
	"gorm.io/gorm"

	"sitterly_app_echo/internal/models"
)

type JobHandler struct {
	db *gorm.DB
}

func NewJobHandler(db *gorm.DB) *JobHandler {
	return &JobHandler{db: db}
}

// ListJobs returns active job posts with filtering, sorting and pagination
func (h *JobHandler) ListJobs(c echo.Context) error {
	area := c.QueryParam("area")
	place := c.QueryParam("place")
	slot := c.QueryParam("slot")
	maxRateStr := c.QueryParam("max_rate")
	sortBy := c.QueryParam("sort_by")
	if sortBy == "" {
		sortBy = "created_at"
	}
	sortOrder := c.QueryParam("sort_order")
	if sortOrder != "asc" {
		sortOrder = "desc"
	}

	page := 1
	if pageStr := c.QueryParam("page"); pageStr != "" {
		if p, err := strconv.Atoi(pageStr); err == nil && p > 0 {
			page = p
		}
	}
	pageSize := 20

	query := h.db.Model(&models.Job{}).Preload("Guardian").Where("is_active = ?", true)

	if area != "" {
		query = query.Where("area = ?", area)
	}
	if place != "" {
		query = query.Where("babysitting_place = ?", place)
	}
	if maxRateStr != "" {
		if maxRate, err := strconv.ParseFloat(maxRateStr, 64); err == nil {
			query = query.Where("monthly_rate <= ?", maxRate)
		}
	}
	if slot != "" {
		// WeeklySchedule is stored as a jsonb array of slot labels
		query = query.Where("weekly_schedule::jsonb @> ?", `["`+slot+`"]`)
	}

	var totalCount int64
	if err := query.Count(&totalCount).Error; err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to count jobs")
	}

	totalPages := int((totalCount + int64(pageSize) - 1) / int64(pageSize))
	if totalPages == 0 {
		totalPages = 1
	}
	if page > totalPages {
		page = totalPages
	}
	offset := (page - 1) * pageSize

	switch sortBy {
	case "rate":
		query = query.Order("monthly_rate " + sortOrder)
	case "starting_date":
		query = query.Order("starting_date " + sortOrder)
	default:
		query = query.Order("created_at " + sortOrder)
	}

	var jobs []models.Job
	if err := query.Limit(pageSize).Offset(offset).Find(&jobs).Error; err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to fetch jobs")
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"jobs":         jobs,
		"current_page": page,
		"total_pages":  totalPages,
		"total_count":  totalCount,
	})
}

// JobRequest is the payload for creating or updating a job post
type JobRequest struct {
	Description      string   `json:"description"`
	Area             string   `json:"area"`
	BabysittingPlace string   `json:"babysitting_place"`
	MonthlyRate      float64  `json:"monthly_rate"`
	WeeklySchedule   []string `json:"weekly_schedule"`
	StartingDate     string   `json:"starting_date"`
	EndingDate       string   `json:"ending_date"`
}

// StoreJob creates a job post for the logged-in guardian
func (h *JobHandler) StoreJob(c echo.Context) error {
	if getRoleFromContext(c) != models.UserRoleGuardian {
		return echo.NewHTTPError(http.StatusForbidden, "Only guardians can post jobs")
	}

	var req JobRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid JSON payload")
	}

	starting, err := time.Parse("2006-01-02", req.StartingDate)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid starting_date, use YYYY-MM-DD")
	}
	ending, err := time.Parse("2006-01-02", req.EndingDate)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid ending_date, use YYYY-MM-DD")
	}
	if ending.Before(starting) {
		return echo.NewHTTPError(http.StatusBadRequest, "ending_date must not precede starting_date")
	}
	if req.MonthlyRate <= 0 {
		return echo.NewHTTPError(http.StatusBadRequest, "monthly_rate must be positive")
	}

	job := models.Job{
		GuardianID:       getUintFromContext(c, "userID"),
		Description:      req.Description,
		Area:             req.Area,
		BabysittingPlace: req.BabysittingPlace,
		MonthlyRate:      req.MonthlyRate,
		WeeklySchedule:   req.WeeklySchedule,
		StartingDate:     starting,
		EndingDate:       ending,
		IsActive:         true,
	}
	if err := h.db.Create(&job).Error; err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to create job")
	}

	return c.JSON(http.StatusCreated, job)
}

// CloseJob deactivates a job post so it no longer shows up in browsing
func (h *JobHandler) CloseJob(c echo.Context) error {
	var job models.Job
	if err := h.db.First(&job, c.Param("id")).Error; err != nil {
		return echo.NewHTTPError(http.StatusNotFound, "Job not found")
	}
	if job.GuardianID != getUintFromContext(c, "userID") {
		return echo.NewHTTPError(http.StatusForbidden, "You can only close your own jobs")
	}

	job.IsActive = false
	if err := h.db.Save(&job).Error; err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to close job")
	}

	return c.JSON(http.StatusOK, job)
}
