package services

import (
	"context"
	"log"
	"sync"
	"time"

	"gorm.io/gorm"

	"sitterly_app_echo/internal/models"
	"sitterly_app_echo/internal/payments"
)

// AgreementService owns the fetch -> reconcile -> persist cycle around the
// payments engine. The engine itself never touches storage.
type AgreementService struct {
	db *gorm.DB
}

func NewAgreementService(db *gorm.DB) *AgreementService {
	return &AgreementService{db: db}
}

// FetchForUser returns every agreement the user is a party of.
func (s *AgreementService) FetchForUser(userID uint) ([]models.Agreement, error) {
	var agreements []models.Agreement
	err := s.db.Preload("Sender").Preload("Recipient").
		Where("sender_id = ? OR recipient_id = ?", userID, userID).
		Order("created_at desc").
		Find(&agreements).Error
	return agreements, err
}

// FetchByUUID returns a single agreement by its public identifier.
func (s *AgreementService) FetchByUUID(uuid string) (*models.Agreement, error) {
	var agreement models.Agreement
	if err := s.db.Preload("Sender").Preload("Recipient").
		Where("uuid = ?", uuid).First(&agreement).Error; err != nil {
		return nil, err
	}
	return &agreement, nil
}

// Persist saves the agreement snapshot. Last write wins; concurrent sessions
// reconciling the same agreement may overwrite each other, which the storage
// layer accepts (the next reconcile converges to the same state).
func (s *AgreementService) Persist(a *models.Agreement) error {
	return s.db.Save(a).Error
}

// ReconcileAndPersist runs the engine over one agreement and saves the result
// if anything moved. Returns the updated snapshot.
func (s *AgreementService) ReconcileAndPersist(a models.Agreement, now time.Time) (models.Agreement, error) {
	updated, err := payments.Reconcile(a, now)
	if err != nil {
		return a, err
	}
	if !reconcileChanged(a, updated) {
		return a, nil
	}
	if err := s.Persist(&updated); err != nil {
		return a, err
	}
	return updated, nil
}

// PaymentCard is one dashboard entry: the reconciled agreement plus its
// monthly ledger. Unavailable marks agreements whose dates could not be
// parsed; the UI shows an error state instead of guessing a payment status.
type PaymentCard struct {
	Agreement   models.Agreement       `json:"agreement"`
	Ledger      []payments.LedgerEntry `json:"ledger,omitempty"`
	Unavailable bool                   `json:"unavailable,omitempty"`
}

// BuildPaymentCards reconciles all of a user's agreements and returns their
// dashboard cards. Each agreement is reconciled in its own goroutine; they
// share no state, so this is safe to parallelize (one round trip each).
func (s *AgreementService) BuildPaymentCards(ctx context.Context, userID uint, now time.Time) ([]PaymentCard, error) {
	agreements, err := s.FetchForUser(userID)
	if err != nil {
		return nil, err
	}

	cards := make([]PaymentCard, len(agreements))
	var wg sync.WaitGroup
	for i, a := range agreements {
		wg.Add(1)
		go func(i int, a models.Agreement) {
			defer wg.Done()
			cards[i] = s.buildCard(a, now)
		}(i, a)
	}
	wg.Wait()

	return cards, ctx.Err()
}

func (s *AgreementService) buildCard(a models.Agreement, now time.Time) PaymentCard {
	updated, err := s.ReconcileAndPersist(a, now)
	if err != nil {
		log.Printf("reconcile agreement %s: %v", a.UUID, err)
		return PaymentCard{Agreement: a, Unavailable: true}
	}

	ledger, err := payments.BuildLedger(updated, now)
	if err != nil {
		return PaymentCard{Agreement: updated, Unavailable: true}
	}
	return PaymentCard{Agreement: updated, Ledger: ledger}
}

func reconcileChanged(before, after models.Agreement) bool {
	return before.Status != after.Status ||
		before.PaymentStatus != after.PaymentStatus ||
		before.Amount != after.Amount ||
		!before.LastPaymentDate.Equal(after.LastPaymentDate)
}
