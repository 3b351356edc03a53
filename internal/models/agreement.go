package models

import (
	"time"

	"gorm.io/gorm"
)

// AgreementStatus is the lifecycle state of an agreement, distinct from its
// payment status
type AgreementStatus string

const (
	AgreementStatusPending  AgreementStatus = "pending"
	AgreementStatusAccepted AgreementStatus = "accepted"
	AgreementStatusHistory  AgreementStatus = "history"
)

// PaymentStatus tracks where an agreement sits in the payment handshake
type PaymentStatus string

const (
	PaymentStatusNotAvailableYet   PaymentStatus = "not available yet"
	PaymentStatusPendingGuardian   PaymentStatus = "pending guardian"
	PaymentStatusPendingBabysitter PaymentStatus = "pending babysitter"
	PaymentStatusCompleted         PaymentStatus = "completed"
)

// Agreement represents a recurring babysitting arrangement between two users.
// Either party may be the guardian; roles are resolved through the User records.
type Agreement struct {
	ID        uint           `gorm:"primarykey" json:"id"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"deleted_at,omitempty"`

	UUID        string          `gorm:"type:varchar(36);uniqueIndex" json:"uuid"`
	SenderID    uint            `gorm:"index" json:"sender_id"`
	RecipientID uint            `gorm:"index" json:"recipient_id"`
	Status      AgreementStatus `gorm:"type:varchar(20);default:'pending'" json:"status"`

	StartingDate    time.Time `json:"starting_date"`
	EndingDate      time.Time `json:"ending_date"`
	LastPaymentDate time.Time `json:"last_payment_date"`

	// MonthlyRate is the flat per-period rate; Amount holds the accrued debt as
	// a multiplier-tagged string, e.g. "2X" for two unpaid periods.
	MonthlyRate   float64       `gorm:"type:decimal(15,2)" json:"monthly_rate"`
	Amount        string        `gorm:"type:varchar(20);default:'1X'" json:"amount"`
	PaymentStatus PaymentStatus `gorm:"type:varchar(30);default:'not available yet'" json:"payment_status"`

	WeeklySchedule   []string `gorm:"serializer:json" json:"weekly_schedule"`
	BabysittingPlace string   `gorm:"type:varchar(100)" json:"babysitting_place"`
	Area             string   `gorm:"type:varchar(100)" json:"area"`

	// Relationships
	Sender    User             `gorm:"foreignKey:SenderID" json:"sender,omitempty"`
	Recipient User             `gorm:"foreignKey:RecipientID" json:"recipient,omitempty"`
	Vouchers  []PaymentVoucher `gorm:"foreignKey:AgreementID" json:"vouchers,omitempty"`
}

// OtherParty returns the counterpart of the given user on this agreement.
func (a Agreement) OtherParty(userID uint) uint {
	if a.SenderID == userID {
		return a.RecipientID
	}
	return a.SenderID
}

// Involves reports whether the given user is one of the two parties.
func (a Agreement) Involves(userID uint) bool {
	return a.SenderID == userID || a.RecipientID == userID
}
