package handlers

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"sitterly_app_echo/internal/models"
	"sitterly_app_echo/internal/payments"
	"sitterly_app_echo/internal/services"
)

// DashboardHandler serves the payment overview for the logged-in user
type DashboardHandler struct {
	agreements *services.AgreementService
}

// NewDashboardHandler creates a new DashboardHandler
func NewDashboardHandler(agreements *services.AgreementService) *DashboardHandler {
	return &DashboardHandler{agreements: agreements}
}

// dashboardCard extends a payment card with the month its cycle is parked on,
// so the UI can group cards under month headings.
type dashboardCard struct {
	services.PaymentCard
	CurrentMonth string `json:"current_month,omitempty"`
}

// Dashboard reconciles every agreement of the viewer and returns the payment
// cards grouped by billing month, latest first.
func (h *DashboardHandler) Dashboard(c echo.Context) error {
	userID := getUintFromContext(c, "userID")
	now := time.Now()

	cards, err := h.agreements.BuildPaymentCards(c.Request().Context(), userID, now)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to load payment status")
	}

	out := make([]dashboardCard, 0, len(cards))
	pendingAction := 0
	for _, card := range cards {
		entry := dashboardCard{PaymentCard: card}
		if !card.Unavailable {
			if month, ok := payments.CurrentCheckpointMonth(card.Agreement, now); ok {
				entry.CurrentMonth = month.Format("January 2006")
			}
			switch card.Agreement.PaymentStatus {
			case models.PaymentStatusPendingGuardian, models.PaymentStatusPendingBabysitter:
				if card.Agreement.Status != models.AgreementStatusHistory {
					pendingAction++
				}
			}
		}
		out = append(out, entry)
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"cards":          out,
		"pending_action": pendingAction,
	})
}
