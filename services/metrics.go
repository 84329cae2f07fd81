package services

import (
	"math"
	"time"

	"github.com/comparepco/comparepco-production-sub002/models"
)

// Documents scoring at or above this are counted as machine-verified on the
// dashboard.
const verifiedScoreThreshold = 70

const expiringSoonWindow = 30 * 24 * time.Hour

// ComplianceMetrics is the summary shape the admin dashboard consumes.
type ComplianceMetrics struct {
	TotalDocuments        int            `json:"totalDocuments"`
	ByStatus              map[string]int `json:"byStatus"`
	ByRiskLevel           map[string]int `json:"byRiskLevel"`
	ByType                map[string]int `json:"byType"`
	ByOwnerKind           map[string]int `json:"byOwnerKind"`
	ExpiringSoon          int            `json:"expiringSoon"`
	AverageProcessingDays int            `json:"averageProcessingDays"`
	ComplianceRate        int            `json:"complianceRate"`
	VerificationRate      int            `json:"verificationRate"`
}

// SummarizeCompliance computes dashboard statistics over a document
// collection. Pure: no I/O, recomputed in full whenever the collection is
// reloaded. Zero documents yields zero rates, never NaN.
func SummarizeCompliance(docs []models.ComplianceDocument, now time.Time) ComplianceMetrics {
	m := ComplianceMetrics{
		ByStatus:    map[string]int{},
		ByRiskLevel: map[string]int{},
		ByType:      map[string]int{},
		ByOwnerKind: map[string]int{},
	}
	m.TotalDocuments = len(docs)

	approved := 0
	verified := 0
	var processing time.Duration
	processed := 0

	for i := range docs {
		doc := &docs[i]

		status := doc.Status
		if doc.IsPending() {
			status = models.DocumentStatusPending
		}
		m.ByStatus[status]++
		if doc.RiskLevel != "" {
			m.ByRiskLevel[doc.RiskLevel]++
		}
		m.ByType[models.NormalizeDocumentType(doc.Type)]++
		m.ByOwnerKind[doc.OwnerKind]++

		if status == models.DocumentStatusApproved {
			approved++
			if doc.ExpiryDate != nil && doc.ExpiryDate.After(now) && !doc.ExpiryDate.After(now.Add(expiringSoonWindow)) {
				m.ExpiringSoon++
			}
		}
		if doc.VerificationScore >= verifiedScoreThreshold {
			verified++
		}

		decidedAt := doc.ApprovedAt
		if decidedAt == nil {
			decidedAt = doc.RejectedAt
		}
		if decidedAt != nil {
			processing += decidedAt.Sub(doc.CreatedAt)
			processed++
		}
	}

	if processed > 0 {
		meanDays := processing.Hours() / 24 / float64(processed)
		m.AverageProcessingDays = int(math.Round(meanDays))
	}
	if m.TotalDocuments > 0 {
		m.ComplianceRate = int(math.Round(float64(approved) / float64(m.TotalDocuments) * 100))
		m.VerificationRate = int(math.Round(float64(verified) / float64(m.TotalDocuments) * 100))
	}
	return m
}
