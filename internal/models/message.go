package models

import (
	"time"

	"gorm.io/gorm"
)

// Message is a direct chat message between two users
type Message struct {
	ID        uint           `gorm:"primarykey" json:"id"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"deleted_at,omitempty"`

	SenderID    uint       `gorm:"index" json:"sender_id"`
	RecipientID uint       `gorm:"index" json:"recipient_id"`
	Body        string     `gorm:"type:text" json:"body"`
	ReadAt      *time.Time `json:"read_at"`

	// Relationships
	Sender    User `gorm:"foreignKey:SenderID" json:"sender,omitempty"`
	Recipient User `gorm:"foreignKey:RecipientID" json:"recipient,omitempty"`
}
