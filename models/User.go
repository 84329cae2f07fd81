package models

import (
	"gorm.io/gorm"
)

// User is a back-office account: admins and reviewers acting on documents, and
// partner-portal logins created through SSO. The engine only needs id + display
// name for attribution.
type User struct {
	gorm.Model
	FirstName   string `json:"firstName"`
	LastName    string `json:"lastName"`
	Email       string `json:"email" gorm:"uniqueIndex"`
	Password    string `json:"-"`
	SocialLogin bool   `json:"socialLogin"`
	Role        string `json:"role" gorm:"type:varchar(20);default:reviewer;index"` // reviewer, admin, super_admin, partner, driver

	// Set for partner/driver portal accounts so uploads land on the right owner
	PartnerID *uint `json:"partnerID" gorm:"index"`
	DriverID  *uint `json:"driverID" gorm:"index"`
}

// DisplayName is the reviewer attribution written onto documents.
func (u *User) DisplayName() string {
	if u.FirstName == "" && u.LastName == "" {
		return u.Email
	}
	if u.LastName == "" {
		return u.FirstName
	}
	return u.FirstName + " " + u.LastName
}
