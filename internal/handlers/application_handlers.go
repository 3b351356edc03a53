package handlers

import (
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"gorm.io/gorm"

	"sitterly_app_echo/internal/models"
)

type ApplicationHandler struct {
	db *gorm.DB
}

func NewApplicationHandler(db *gorm.DB) *ApplicationHandler {
	return &ApplicationHandler{db: db}
}

// Apply lets a babysitter apply to an active job post
func (h *ApplicationHandler) Apply(c echo.Context) error {
	if getRoleFromContext(c) != models.UserRoleBabysitter {
		return echo.NewHTTPError(http.StatusForbidden, "Only babysitters can apply to jobs")
	}

	var job models.Job
	if err := h.db.First(&job, c.Param("id")).Error; err != nil {
		return echo.NewHTTPError(http.StatusNotFound, "Job not found")
	}
	if !job.IsActive {
		return echo.NewHTTPError(http.StatusConflict, "Job is no longer open")
	}

	babysitterID := getUintFromContext(c, "userID")

	var existing models.Application
	if err := h.db.Where("job_id = ? AND babysitter_id = ?", job.ID, babysitterID).
		First(&existing).Error; err == nil {
		return echo.NewHTTPError(http.StatusConflict, "You already applied to this job")
	}

	var payload struct {
		Note string `json:"note"`
	}
	_ = c.Bind(&payload)

	application := models.Application{
		JobID:        job.ID,
		BabysitterID: babysitterID,
		Status:       models.ApplicationStatusPending,
		Note:         payload.Note,
	}
	if err := h.db.Create(&application).Error; err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to create application")
	}

	return c.JSON(http.StatusCreated, application)
}

// ListApplications returns applications relevant to the viewer: their own for
// babysitters, those on their job posts for guardians.
func (h *ApplicationHandler) ListApplications(c echo.Context) error {
	userID := getUintFromContext(c, "userID")

	query := h.db.Preload("Job").Preload("Babysitter")
	if getRoleFromContext(c) == models.UserRoleBabysitter {
		query = query.Where("babysitter_id = ?", userID)
	} else {
		query = query.Joins("JOIN jobs ON jobs.id = applications.job_id").
			Where("jobs.guardian_id = ?", userID)
	}
	if status := c.QueryParam("status"); status != "" {
		query = query.Where("applications.status = ?", status)
	}

	var applications []models.Application
	if err := query.Order("applications.created_at desc").Find(&applications).Error; err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to fetch applications")
	}

	return c.JSON(http.StatusOK, applications)
}

// AcceptApplication accepts a babysitter's application and opens the
// agreement between the two parties. The payment cycle starts parked: no
// payment is available until the first checkpoint passes.
func (h *ApplicationHandler) AcceptApplication(c echo.Context) error {
	application, err := h.fetchForGuardian(c)
	if err != nil {
		return err
	}

	if application.Status != models.ApplicationStatusPending {
		return echo.NewHTTPError(http.StatusConflict, "Application was already decided")
	}

	agreement := models.Agreement{
		UUID:             uuid.New().String(),
		SenderID:         application.Job.GuardianID,
		RecipientID:      application.BabysitterID,
		Status:           models.AgreementStatusPending,
		StartingDate:     application.Job.StartingDate,
		EndingDate:       application.Job.EndingDate,
		LastPaymentDate:  application.Job.StartingDate,
		MonthlyRate:      application.Job.MonthlyRate,
		Amount:           "1X",
		PaymentStatus:    models.PaymentStatusNotAvailableYet,
		WeeklySchedule:   application.Job.WeeklySchedule,
		BabysittingPlace: application.Job.BabysittingPlace,
		Area:             application.Job.Area,
	}

	err = h.db.Transaction(func(tx *gorm.DB) error {
		application.Status = models.ApplicationStatusAccepted
		if err := tx.Save(application).Error; err != nil {
			return err
		}
		return tx.Create(&agreement).Error
	})
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to accept application")
	}

	return c.JSON(http.StatusCreated, agreement)
}

// RejectApplication declines a pending application
func (h *ApplicationHandler) RejectApplication(c echo.Context) error {
	application, err := h.fetchForGuardian(c)
	if err != nil {
		return err
	}

	if application.Status != models.ApplicationStatusPending {
		return echo.NewHTTPError(http.StatusConflict, "Application was already decided")
	}

	application.Status = models.ApplicationStatusRejected
	if err := h.db.Save(application).Error; err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to reject application")
	}

	return c.JSON(http.StatusOK, application)
}

func (h *ApplicationHandler) fetchForGuardian(c echo.Context) (*models.Application, error) {
	var application models.Application
	if err := h.db.Preload("Job").First(&application, c.Param("id")).Error; err != nil {
		return nil, echo.NewHTTPError(http.StatusNotFound, "Application not found")
	}
	if application.Job.GuardianID != getUintFromContext(c, "userID") {
		return nil, echo.NewHTTPError(http.StatusForbidden, "This application is not for your job")
	}
	return &application, nil
}
