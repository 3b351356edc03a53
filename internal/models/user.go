package models

import (
	"time"

	"gorm.io/gorm"
)

// UserRole represents which side of the marketplace a user is on
type UserRole string

const (
	UserRoleGuardian   UserRole = "guardian"
	UserRoleBabysitter UserRole = "babysitter"
)

// User represents a registered guardian or babysitter
type User struct {
	ID        uint           `gorm:"primarykey" json:"id"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"deleted_at,omitempty"`

	FirebaseUID string   `gorm:"type:varchar(128);uniqueIndex" json:"firebase_uid"`
	Name        string   `gorm:"type:varchar(255)" json:"name"`
	Phone       string   `gorm:"type:varchar(50)" json:"phone"`
	Email       string   `gorm:"type:varchar(255);uniqueIndex" json:"email"`
	Role        UserRole `gorm:"type:varchar(20);default:'guardian'" json:"role"`
	Area        string   `gorm:"type:varchar(100)" json:"area"`
	Bio         string   `gorm:"type:text" json:"bio"`

	// Relationships
	Jobs         []Job         `gorm:"foreignKey:GuardianID" json:"jobs,omitempty"`
	Applications []Application `gorm:"foreignKey:BabysitterID" json:"applications,omitempty"`
}
