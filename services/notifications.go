package services

import (
	"fmt"
	"log"

	"github.com/comparepco/comparepco-production-sub002/models"

	"gorm.io/gorm"
)

// NotificationService writes in-app notifications for portal accounts.
// Everything here is fire-and-forget: a failed insert is logged and never
// fails the review that triggered it.
type NotificationService struct {
	db *gorm.DB
}

func NewNotificationService(db *gorm.DB) *NotificationService {
	return &NotificationService{db: db}
}

// portalUserIDs finds the portal logins attached to an owner account.
func (ns *NotificationService) portalUserIDs(ownerKind string, ownerID uint) []uint {
	var users []models.User
	q := ns.db.Select("id")
	switch ownerKind {
	case models.OwnerKindPartner:
		q = q.Where("partner_id = ?", ownerID)
	case models.OwnerKindDriver:
		q = q.Where("driver_id = ?", ownerID)
	default:
		return nil
	}
	if err := q.Find(&users).Error; err != nil {
		log.Printf("notifications: lookup portal users for %s %d: %v", ownerKind, ownerID, err)
		return nil
	}
	ids := make([]uint, 0, len(users))
	for _, u := range users {
		ids = append(ids, u.ID)
	}
	return ids
}

// NotifyDocumentDecision tells the owning account about an approve/reject.
func (ns *NotificationService) NotifyDocumentDecision(doc *models.ComplianceDocument) {
	notifType := models.NotificationDocumentApproved
	title := "Document approved"
	message := fmt.Sprintf("Your %s has been approved.", doc.Type)
	if doc.Status == models.DocumentStatusRejected {
		notifType = models.NotificationDocumentRejected
		title = "Document rejected"
		message = fmt.Sprintf("Your %s was rejected: %s", doc.Type, doc.RejectionReason)
	}

	for _, userID := range ns.portalUserIDs(doc.OwnerKind, doc.OwnerID) {
		n := models.Notification{
			UserID:  userID,
			Type:    notifType,
			Title:   title,
			Message: message,
			RefType: "document",
			RefID:   doc.ID,
		}
		if err := ns.db.Create(&n).Error; err != nil {
			log.Printf("notifications: create for user %d failed: %v", userID, err)
		}
	}
}

// NotifyAccountActivated tells the owning account it has gone active.
func (ns *NotificationService) NotifyAccountActivated(ownerKind string, ownerID uint) {
	for _, userID := range ns.portalUserIDs(ownerKind, ownerID) {
		n := models.Notification{
			UserID:  userID,
			Type:    models.NotificationAccountActivated,
			Title:   "Account activated",
			Message: "All of your compliance documents are approved. Your account is now active.",
			RefType: ownerKind,
			RefID:   ownerID,
		}
		if err := ns.db.Create(&n).Error; err != nil {
			log.Printf("notifications: create for user %d failed: %v", userID, err)
		}
	}
}
