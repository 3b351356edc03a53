package models

import (
	"time"

	"gorm.io/gorm"
)

// Job represents a babysitting job post created by a guardian
type Job struct {
	ID        uint           `gorm:"primarykey" json:"id"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"deleted_at,omitempty"`

	GuardianID       uint      `gorm:"index" json:"guardian_id"`
	Description      string    `gorm:"type:text" json:"description"`
	Area             string    `gorm:"type:varchar(100)" json:"area"`
	BabysittingPlace string    `gorm:"type:varchar(100)" json:"babysitting_place"` // e.g., "family's house", "babysitter's house"
	MonthlyRate      float64   `gorm:"type:decimal(15,2)" json:"monthly_rate"`
	WeeklySchedule   []string  `gorm:"serializer:json" json:"weekly_schedule"` // slot labels, e.g. "Monday morning"
	StartingDate     time.Time `json:"starting_date"`
	EndingDate       time.Time `json:"ending_date"`
	IsActive         bool      `gorm:"default:true" json:"is_active"`

	// Relationships
	Guardian     User          `gorm:"foreignKey:GuardianID" json:"guardian,omitempty"`
	Applications []Application `gorm:"foreignKey:JobID" json:"applications,omitempty"`
}

// ApplicationStatus represents the state of a babysitter's application to a job
type ApplicationStatus string

const (
	ApplicationStatusPending  ApplicationStatus = "pending"
	ApplicationStatusAccepted ApplicationStatus = "accepted"
	ApplicationStatusRejected ApplicationStatus = "rejected"
)

// Application links a babysitter to a job they applied for
type Application struct {
	ID        uint           `gorm:"primarykey" json:"id"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"deleted_at,omitempty"`

	JobID        uint              `gorm:"index" json:"job_id"`
	BabysitterID uint              `gorm:"index" json:"babysitter_id"`
	Status       ApplicationStatus `gorm:"type:varchar(20);default:'pending'" json:"status"`
	Note         string            `gorm:"type:text" json:"note"`

	// Relationships
	Job        Job  `gorm:"foreignKey:JobID" json:"job,omitempty"`
	Babysitter User `gorm:"foreignKey:BabysitterID" json:"babysitter,omitempty"`
}
