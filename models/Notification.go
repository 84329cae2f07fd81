package models

import "time"

// Notification types raised by the compliance flow.
const (
	NotificationDocumentApproved = "document_approved"
	NotificationDocumentRejected = "document_rejected"
	NotificationAccountActivated = "account_activated"
)

// Notification is an in-app message for a portal account (partner or driver
// login) about a compliance event. Delivery is fire-and-forget; a failed
// insert never fails the review that triggered it.
type Notification struct {
	ID     uint `json:"id" gorm:"primaryKey"`
	UserID uint `json:"userID" gorm:"not null;index"`
	User   User `json:"user" gorm:"foreignKey:UserID"`

	Type    string `json:"type" gorm:"size:32;index"`
	Title   string `json:"title" gorm:"size:100"`
	Message string `json:"message" gorm:"size:500"`

	RefType string `json:"refType" gorm:"size:32"` // document, partner, driver
	RefID   uint   `json:"refID"`

	IsRead    bool       `json:"isRead" gorm:"default:false"`
	CreatedAt time.Time  `json:"createdAt"`
	ReadAt    *time.Time `json:"readAt"`
}
