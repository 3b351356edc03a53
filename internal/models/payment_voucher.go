package models

import (
	"time"

	"gorm.io/gorm"
)

// PaymentVoucher records the voucher a guardian generates in the payment
// tracker wizard before handing confirmation over to the babysitter.
// Rendering (PDF/print) happens client-side from this record.
type PaymentVoucher struct {
	ID        uint           `gorm:"primarykey" json:"id"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"deleted_at,omitempty"`

	UUID         string    `gorm:"type:varchar(36);uniqueIndex" json:"uuid"`
	AgreementID  uint      `gorm:"index" json:"agreement_id"`
	GuardianID   uint      `gorm:"index" json:"guardian_id"`
	BabysitterID uint      `gorm:"index" json:"babysitter_id"`
	PeriodLabel  string    `gorm:"type:varchar(100)" json:"period_label"` // e.g., "January 2026"
	Amount       float64   `gorm:"type:decimal(15,2)" json:"amount"`
	IssuedAt     time.Time `json:"issued_at"`

	// Relationships
	Agreement Agreement `gorm:"foreignKey:AgreementID" json:"agreement,omitempty"`
}
