package handlers

import (
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"gorm.io/gorm"

	"sitterly_app_echo/internal/models"
	"sitterly_app_echo/internal/payments"
	"sitterly_app_echo/internal/services"
)

// AgreementHandler serves agreement endpoints and the payment tracker wizard
type AgreementHandler struct {
	db         *gorm.DB
	agreements *services.AgreementService
}

func NewAgreementHandler(db *gorm.DB, agreements *services.AgreementService) *AgreementHandler {
	return &AgreementHandler{db: db, agreements: agreements}
}

// fetchOwned loads an agreement by uuid and checks the viewer is a party
func (h *AgreementHandler) fetchOwned(c echo.Context) (*models.Agreement, error) {
	agreement, err := h.agreements.FetchByUUID(c.Param("uuid"))
	if err != nil {
		return nil, echo.NewHTTPError(http.StatusNotFound, "Agreement not found")
	}
	if !agreement.Involves(getUintFromContext(c, "userID")) {
		return nil, echo.NewHTTPError(http.StatusForbidden, "You are not a party of this agreement")
	}
	return agreement, nil
}

// ListAgreements returns the viewer's agreements, optionally filtered by status
func (h *AgreementHandler) ListAgreements(c echo.Context) error {
	userID := getUintFromContext(c, "userID")

	query := h.db.Preload("Sender").Preload("Recipient").
		Where("sender_id = ? OR recipient_id = ?", userID, userID)

	if status := c.QueryParam("status"); status != "" {
		query = query.Where("status = ?", status)
	}

	var agreements []models.Agreement
	if err := query.Order("created_at desc").Find(&agreements).Error; err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to fetch agreements")
	}

	return c.JSON(http.StatusOK, agreements)
}

// GetAgreement returns one agreement with its reconciled payment ledger
func (h *AgreementHandler) GetAgreement(c echo.Context) error {
	agreement, err := h.fetchOwned(c)
	if err != nil {
		return err
	}

	now := time.Now()
	updated, err := h.agreements.ReconcileAndPersist(*agreement, now)
	if err != nil {
		return c.JSON(http.StatusOK, services.PaymentCard{Agreement: *agreement, Unavailable: true})
	}

	ledger, err := payments.BuildLedger(updated, now)
	if err != nil {
		return c.JSON(http.StatusOK, services.PaymentCard{Agreement: updated, Unavailable: true})
	}

	return c.JSON(http.StatusOK, services.PaymentCard{Agreement: updated, Ledger: ledger})
}

// AcceptAgreement lets the recipient take a proposed agreement active
func (h *AgreementHandler) AcceptAgreement(c echo.Context) error {
	agreement, err := h.fetchOwned(c)
	if err != nil {
		return err
	}

	if agreement.Status != models.AgreementStatusPending {
		return echo.NewHTTPError(http.StatusConflict, "Agreement is not pending")
	}
	if agreement.RecipientID != getUintFromContext(c, "userID") {
		return echo.NewHTTPError(http.StatusForbidden, "Only the recipient can accept")
	}

	agreement.Status = models.AgreementStatusAccepted
	if err := h.agreements.Persist(agreement); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to update agreement")
	}

	return c.JSON(http.StatusOK, agreement)
}

// Tracker returns the payment wizard state: the reconciled agreement, its
// ledger, the amount owed and the step the viewer's role is responsible for.
func (h *AgreementHandler) Tracker(c echo.Context) error {
	agreement, err := h.fetchOwned(c)
	if err != nil {
		return err
	}

	now := time.Now()
	updated, err := h.agreements.ReconcileAndPersist(*agreement, now)
	if err != nil {
		return echo.NewHTTPError(http.StatusUnprocessableEntity, "Unable to load payment status")
	}

	ledger, err := payments.BuildLedger(updated, now)
	if err != nil {
		return echo.NewHTTPError(http.StatusUnprocessableEntity, "Unable to load payment status")
	}

	role := getRoleFromContext(c)
	actionable := (role == models.UserRoleGuardian && updated.PaymentStatus == models.PaymentStatusPendingGuardian) ||
		(role == models.UserRoleBabysitter && updated.PaymentStatus == models.PaymentStatusPendingBabysitter)

	var vouchers []models.PaymentVoucher
	h.db.Where("agreement_id = ?", updated.ID).Order("issued_at desc").Find(&vouchers)

	return c.JSON(http.StatusOK, map[string]interface{}{
		"agreement":   updated,
		"ledger":      ledger,
		"amount_owed": payments.OwedAmount(updated),
		"actionable":  actionable,
		"vouchers":    vouchers,
	})
}

// IssueVoucher is step two of the guardian's wizard: it records a voucher for
// the current billing month that the client renders for download.
func (h *AgreementHandler) IssueVoucher(c echo.Context) error {
	agreement, err := h.fetchOwned(c)
	if err != nil {
		return err
	}

	if getRoleFromContext(c) != models.UserRoleGuardian {
		return echo.NewHTTPError(http.StatusForbidden, "Only the guardian can issue a voucher")
	}
	if agreement.PaymentStatus != models.PaymentStatusPendingGuardian {
		return echo.NewHTTPError(http.StatusConflict, "No payment is awaiting the guardian")
	}

	now := time.Now()
	month, ok := payments.CurrentCheckpointMonth(*agreement, now)
	if !ok {
		return echo.NewHTTPError(http.StatusConflict, "No billing month is currently due")
	}

	guardianID := getUintFromContext(c, "userID")
	voucher := models.PaymentVoucher{
		UUID:         uuid.New().String(),
		AgreementID:  agreement.ID,
		GuardianID:   guardianID,
		BabysitterID: agreement.OtherParty(guardianID),
		PeriodLabel:  month.Format("January 2006"),
		Amount:       payments.OwedAmount(*agreement),
		IssuedAt:     now,
	}
	if err := h.db.Create(&voucher).Error; err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to issue voucher")
	}

	return c.JSON(http.StatusCreated, voucher)
}

// Confirm finalizes the wizard for the viewer's role: the guardian hands the
// payment over to the babysitter, the babysitter accepts it and restarts the
// cycle. The engine guards the precondition; the UI merely disables buttons.
func (h *AgreementHandler) Confirm(c echo.Context) error {
	agreement, err := h.fetchOwned(c)
	if err != nil {
		return err
	}

	var updated models.Agreement
	var confirmErr error
	switch getRoleFromContext(c) {
	case models.UserRoleGuardian:
		updated, confirmErr = payments.ConfirmByGuardian(*agreement)
	case models.UserRoleBabysitter:
		updated, confirmErr = payments.ConfirmByBabysitter(*agreement)
	default:
		return echo.NewHTTPError(http.StatusForbidden, "Unknown role")
	}
	if confirmErr != nil {
		return echo.NewHTTPError(http.StatusConflict, "Payment is not awaiting your confirmation")
	}

	if err := h.agreements.Persist(&updated); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to update agreement")
	}

	return c.JSON(http.StatusOK, updated)
}
