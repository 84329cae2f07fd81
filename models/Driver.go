package models

import (
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Driver statuses mirror the partner lifecycle.
const (
	DriverStatusPending   = "pending"
	DriverStatusActive    = "active"
	DriverStatusSuspended = "suspended"
)

// Driver is an individual PCO driver, either independent or attached to a
// partner fleet.
type Driver struct {
	ID        uint   `json:"id" gorm:"primaryKey"`
	FirstName string `json:"firstName" gorm:"size:100"`
	LastName  string `json:"lastName" gorm:"size:100"`
	Email     string `json:"email" gorm:"size:200;uniqueIndex"`
	Phone     string `json:"phone" gorm:"size:32"`

	LicenceNumber string `json:"licenceNumber" gorm:"size:64"`
	PCONumber     string `json:"pcoNumber" gorm:"size:64"`

	PartnerID *uint    `json:"partnerID" gorm:"index"`
	Partner   *Partner `json:"partner,omitempty" gorm:"foreignKey:PartnerID"`

	Status string `json:"status" gorm:"size:20;default:'pending';index"`

	// Per-type compliance mirror, written only by the cascade
	Documents datatypes.JSON `json:"documents"`

	ApprovedAt   *time.Time `json:"approvedAt"`
	ApprovedByID *uint      `json:"approvedByID"`

	CreatedAt time.Time      `json:"createdAt"`
	UpdatedAt time.Time      `json:"updatedAt"`
	DeletedAt gorm.DeletedAt `json:"deletedAt" gorm:"index"`
}
