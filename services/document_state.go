package services

import (
	"errors"
	"fmt"
	"time"

	"github.com/comparepco/comparepco-production-sub002/models"

	"gorm.io/gorm"
)

// Review actions accepted by the state machine.
const (
	ActionApprove = "approve"
	ActionReject  = "reject"
)

const defaultRejectionReason = "Document did not meet the requirements"

var (
	ErrDocumentNotFound = errors.New("document not found")
	ErrInvalidAction    = errors.New("invalid review action")
)

// Actor identifies the reviewer performing a mutation, threaded explicitly
// into every engine operation for attribution.
type Actor struct {
	ID   uint
	Name string
}

// TransitionParams carries the optional inputs of a review decision.
type TransitionParams struct {
	ExpiryDate *time.Time // approve only; defaulted per document type when nil
	Reason     string     // reject only; defaulted when empty
}

// DocumentReviewService applies approve/reject transitions to canonical
// document rows. It never touches the owner mirror; that is the cascade's job.
type DocumentReviewService struct {
	db *gorm.DB
}

func NewDocumentReviewService(db *gorm.DB) *DocumentReviewService {
	return &DocumentReviewService{db: db}
}

// Transition validates and applies a single review decision, returning the
// updated document. Re-approving an approved document or re-rejecting a
// rejected one overwrites the existing metadata; the portal relies on that
// when a reviewer corrects an expiry date. Fields belonging to the opposite
// decision are deliberately left as-is for parity with historical rows.
func (s *DocumentReviewService) Transition(documentID uint, action string, actor Actor, params TransitionParams) (*models.ComplianceDocument, error) {
	if action != ActionApprove && action != ActionReject {
		return nil, fmt.Errorf("%w: %q", ErrInvalidAction, action)
	}

	var doc models.ComplianceDocument
	if err := s.db.First(&doc, documentID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrDocumentNotFound
		}
		return nil, fmt.Errorf("load document %d: %w", documentID, err)
	}

	now := time.Now()
	actorID := actor.ID

	switch action {
	case ActionApprove:
		doc.Status = models.DocumentStatusApproved
		doc.ApprovedAt = &now
		doc.ApprovedByID = &actorID
		doc.ApprovedByName = actor.Name
		if params.ExpiryDate != nil {
			doc.ExpiryDate = params.ExpiryDate
		} else {
			expiry := now.AddDate(0, models.DefaultExpiryMonths(doc.Type), 0)
			doc.ExpiryDate = &expiry
		}
	case ActionReject:
		doc.Status = models.DocumentStatusRejected
		doc.RejectedAt = &now
		doc.RejectedByID = &actorID
		doc.RejectedByName = actor.Name
		doc.RejectionReason = params.Reason
		if doc.RejectionReason == "" {
			doc.RejectionReason = defaultRejectionReason
		}
	}

	if err := s.db.Save(&doc).Error; err != nil {
		return nil, fmt.Errorf("save document %d: %w", documentID, err)
	}
	return &doc, nil
}
