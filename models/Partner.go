package models

import (
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Partner statuses. Only active vs non-active matters to the compliance
// engine; suspended is set manually by support staff.
const (
	PartnerStatusPending   = "pending"
	PartnerStatusActive    = "active"
	PartnerStatusSuspended = "suspended"
)

// Partner is a fleet company renting vehicles out through the marketplace.
type Partner struct {
	ID          uint   `json:"id" gorm:"primaryKey"`
	CompanyName string `json:"companyName" gorm:"size:200;not null"`
	Email       string `json:"email" gorm:"size:200;uniqueIndex"`
	Phone       string `json:"phone" gorm:"size:32"`
	Address     string `json:"address" gorm:"size:300"`
	City        string `json:"city" gorm:"size:100"`
	PostalCode  string `json:"postalCode" gorm:"size:16"`

	RegistrationNumber string `json:"registrationNumber" gorm:"size:64"`
	VATNumber          string `json:"vatNumber" gorm:"size:64"`
	FleetSize          int    `json:"fleetSize" gorm:"default:0"`

	Status string `json:"status" gorm:"size:20;default:'pending';index"`

	// Per-type compliance mirror, written only by the cascade
	Documents datatypes.JSON `json:"documents"`

	// Activation stamps, set when every mirrored document is approved
	ApprovedAt   *time.Time `json:"approvedAt"`
	ApprovedByID *uint      `json:"approvedByID"`

	Drivers []Driver `json:"drivers" gorm:"foreignKey:PartnerID"`

	CreatedAt time.Time      `json:"createdAt"`
	UpdatedAt time.Time      `json:"updatedAt"`
	DeletedAt gorm.DeletedAt `json:"deletedAt" gorm:"index"`
}
