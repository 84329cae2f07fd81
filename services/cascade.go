package services

import (
	"encoding/json"
	"fmt"
	"log"
	"time"

	"github.com/comparepco/comparepco-production-sub002/models"

	"gorm.io/gorm"
)

// Partners and drivers share the same active status value.
const ownerStatusActive = "active"

// CascadeService propagates a document decision into the owner's embedded
// compliance mirror and runs the auto-activation rule. The canonical document
// row stays authoritative throughout: nothing here ever rolls a decision back,
// and every failure is reported to the caller only so it can be logged.
type CascadeService struct {
	db       *gorm.DB
	notifier *NotificationService
}

func NewCascadeService(db *gorm.DB, notifier *NotificationService) *CascadeService {
	return &CascadeService{db: db, notifier: notifier}
}

// mirrorEntry builds the denormalized copy written onto the owner.
func mirrorEntry(doc *models.ComplianceDocument) models.ComplianceEntry {
	return models.ComplianceEntry{
		Status:          doc.Status,
		ApprovedAt:      doc.ApprovedAt,
		ApprovedByID:    doc.ApprovedByID,
		ApprovedByName:  doc.ApprovedByName,
		RejectedAt:      doc.RejectedAt,
		RejectedByID:    doc.RejectedByID,
		RejectedByName:  doc.RejectedByName,
		RejectionReason: doc.RejectionReason,
	}
}

// Synchronize mirrors the document's current state onto its owner and then
// evaluates activation. Owner-not-found is non-fatal for the already committed
// document transition; the mirror simply lags until the data is repaired.
func (s *CascadeService) Synchronize(doc *models.ComplianceDocument, actor Actor) error {
	handle, err := ResolveOwner(s.db, doc.OwnerID, doc.OwnerKind)
	if err != nil {
		log.Printf("cascade: resolve %s %d for document %d: %v", doc.OwnerKind, doc.OwnerID, doc.ID, err)
		return err
	}

	patch := OwnerPatch{
		TypeKey: models.NormalizeDocumentType(doc.Type),
		Entry:   mirrorEntry(doc),
	}
	if err := handle.ApplyPatch(patch); err != nil {
		log.Printf("cascade: mirror write for %s %d failed: %v", doc.OwnerKind, doc.OwnerID, err)
		return fmt.Errorf("mirror write: %w", err)
	}

	return s.EvaluateActivation(handle, actor)
}

// EvaluateActivation promotes the owner to active when every mirrored entry is
// approved. An empty mirror passes the check; owners receive their first
// mirror entry on the first cascade, so in practice this only bites seeded
// accounts with no documents on file. Promotion is one-way: nothing here ever
// demotes an active owner.
func (s *CascadeService) EvaluateActivation(handle OwnerHandle, actor Actor) error {
	m, err := handle.DocumentsMap()
	if err != nil {
		log.Printf("cascade: read mirror for %s %d: %v", handle.Kind(), handle.OwnerID(), err)
		return err
	}
	if !m.AllApproved() {
		return nil
	}
	if handle.Status() == ownerStatusActive {
		return nil
	}

	now := time.Now()
	if err := handle.Activate(actor, now); err != nil {
		log.Printf("cascade: activate %s %d: %v", handle.Kind(), handle.OwnerID(), err)
		return err
	}

	s.auditActivation(handle, actor)
	s.notifier.NotifyAccountActivated(handle.Kind(), handle.OwnerID())
	return nil
}

func (s *CascadeService) auditActivation(handle OwnerHandle, actor Actor) {
	after, _ := json.Marshal(map[string]interface{}{"status": ownerStatusActive})
	entry := models.AuditLog{
		AdminUserID:  actor.ID,
		Action:       handle.Kind() + ".activated",
		ResourceType: handle.Kind(),
		ResourceID:   handle.OwnerID(),
		AfterJSON:    string(after),
	}
	if err := s.db.Create(&entry).Error; err != nil {
		log.Printf("cascade: audit activation for %s %d: %v", handle.Kind(), handle.OwnerID(), err)
	}
}
