package services

import (
	"log"

	"github.com/comparepco/comparepco-production-sub002/models"

	"gorm.io/gorm"
)

// BulkItemResult reports one document's outcome within a batch.
type BulkItemResult struct {
	ID    uint   `json:"id"`
	OK    bool   `json:"ok"`
	Error string `json:"error,omitempty"`
}

// BulkResult aggregates a batch run.
type BulkResult struct {
	Attempted int              `json:"attempted"`
	Succeeded int              `json:"succeeded"`
	Items     []BulkItemResult `json:"items"`
}

// BulkService applies a review decision across a set of documents. The sweep
// is sequential: it bounds store load and guarantees every per-document
// cascade has committed before the owner-level activation pass runs.
type BulkService struct {
	db      *gorm.DB
	review  *DocumentReviewService
	cascade *CascadeService
}

func NewBulkService(db *gorm.DB, review *DocumentReviewService, cascade *CascadeService) *BulkService {
	return &BulkService{db: db, review: review, cascade: cascade}
}

// BulkApply transitions each document in ids, best-effort: one item's failure
// never aborts the batch. After the full sweep it re-checks activation once
// per distinct owner touched, because the per-document cascade may have
// evaluated an owner before all of that owner's documents in the batch were
// mirrored. The second pass is the authoritative activation checkpoint.
func (s *BulkService) BulkApply(ids []uint, action string, actor Actor, params TransitionParams) BulkResult {
	res := BulkResult{Attempted: len(ids), Items: make([]BulkItemResult, 0, len(ids))}

	partnerIDs := map[uint]struct{}{}
	driverIDs := map[uint]struct{}{}

	for _, id := range ids {
		doc, err := s.review.Transition(id, action, actor, params)
		if err != nil {
			res.Items = append(res.Items, BulkItemResult{ID: id, Error: err.Error()})
			log.Printf("bulk: %s document %d failed: %v", action, id, err)
			continue
		}
		res.Succeeded++
		res.Items = append(res.Items, BulkItemResult{ID: id, OK: true})

		switch doc.OwnerKind {
		case models.OwnerKindPartner:
			partnerIDs[doc.OwnerID] = struct{}{}
		case models.OwnerKindDriver:
			driverIDs[doc.OwnerID] = struct{}{}
		}

		// Cascade is best-effort; the document row is already durable.
		if err := s.cascade.Synchronize(doc, actor); err != nil {
			log.Printf("bulk: cascade for document %d: %v", id, err)
		}
		s.cascade.notifier.NotifyDocumentDecision(doc)
	}

	s.sweepOwners(models.OwnerKindPartner, partnerIDs, actor)
	s.sweepOwners(models.OwnerKindDriver, driverIDs, actor)

	return res
}

func (s *BulkService) sweepOwners(kind string, ownerIDs map[uint]struct{}, actor Actor) {
	for ownerID := range ownerIDs {
		handle, err := ResolveOwner(s.db, ownerID, kind)
		if err != nil {
			log.Printf("bulk: sweep resolve %s %d: %v", kind, ownerID, err)
			continue
		}
		if err := s.cascade.EvaluateActivation(handle, actor); err != nil {
			log.Printf("bulk: sweep activation %s %d: %v", kind, ownerID, err)
		}
	}
}
