package models

import (
	"time"

	"gorm.io/datatypes"
)

// Document statuses. pending_review is a legacy alias of pending kept for
// compatibility with older portal uploads; filtering and metrics fold the two.
const (
	DocumentStatusPending       = "pending"
	DocumentStatusPendingReview = "pending_review"
	DocumentStatusApproved      = "approved"
	DocumentStatusRejected      = "rejected"
	DocumentStatusExpired       = "expired"
)

// Canonical document types (snake_case).
const (
	DocTypeDrivingLicence      = "driving_licence"
	DocTypeInsurance           = "insurance"
	DocTypePCOLicence          = "pco_licence"
	DocTypeProofOfAddress      = "proof_of_address"
	DocTypeBusinessLicence     = "business_licence"
	DocTypeTaxCertificate      = "tax_certificate"
	DocTypeVehicleRegistration = "vehicle_registration"
	DocTypeMOTCertificate      = "mot_certificate"
	DocTypeOperatorLicence     = "operator_licence"
)

// Owner kinds a document can belong to.
const (
	OwnerKindPartner = "partner"
	OwnerKindDriver  = "driver"
)

// legacy camelCase type aliases still present in older rows and client payloads
var documentTypeAliases = map[string]string{
	"drivingLicence":      DocTypeDrivingLicence,
	"pcoLicence":          DocTypePCOLicence,
	"proofOfAddress":      DocTypeProofOfAddress,
	"businessLicence":     DocTypeBusinessLicence,
	"taxCertificate":      DocTypeTaxCertificate,
	"vehicleRegistration": DocTypeVehicleRegistration,
	"motCertificate":      DocTypeMOTCertificate,
	"operatorLicence":     DocTypeOperatorLicence,
}

// NormalizeDocumentType maps legacy camelCase aliases onto the canonical
// snake_case type. Unknown values pass through unchanged.
func NormalizeDocumentType(t string) string {
	if canonical, ok := documentTypeAliases[t]; ok {
		return canonical
	}
	return t
}

// DocumentTypeVariants returns every stored spelling of a type: the canonical
// form plus its legacy alias when one exists. Used when filtering rows that
// predate normalization.
func DocumentTypeVariants(t string) []string {
	canonical := NormalizeDocumentType(t)
	variants := []string{canonical}
	for alias, c := range documentTypeAliases {
		if c == canonical {
			variants = append(variants, alias)
		}
	}
	return variants
}

// defaultExpiryMonths is the per-type validity applied on approval when the
// reviewer does not supply an explicit expiry date.
var defaultExpiryMonths = map[string]int{
	DocTypeDrivingLicence:  120,
	DocTypeInsurance:       12,
	DocTypeProofOfAddress:  6,
	DocTypeOperatorLicence: 60,
}

// DefaultExpiryMonths returns the validity in months for a (possibly aliased)
// document type. Types without a table entry default to 12 months.
func DefaultExpiryMonths(docType string) int {
	if m, ok := defaultExpiryMonths[NormalizeDocumentType(docType)]; ok {
		return m
	}
	return 12
}

// ComplianceDocument is the canonical record for a single uploaded compliance
// document. The owner's embedded compliance map mirrors its status but this row
// is always the source of truth.
type ComplianceDocument struct {
	ID        uint   `json:"id" gorm:"primaryKey"`
	Type      string `json:"type" gorm:"size:50;not null;index"`
	Status    string `json:"status" gorm:"size:20;default:'pending';index"`
	OwnerID   uint   `json:"ownerID" gorm:"not null;index"`
	OwnerKind string `json:"ownerKind" gorm:"size:10;not null;index"` // partner, driver

	FileURL    string     `json:"fileURL" gorm:"size:512"`
	ExpiryDate *time.Time `json:"expiryDate"`

	ApprovedAt     *time.Time `json:"approvedAt"`
	ApprovedByID   *uint      `json:"approvedByID"`
	ApprovedByName string     `json:"approvedByName" gorm:"size:100"`

	RejectedAt      *time.Time `json:"rejectedAt"`
	RejectedByID    *uint      `json:"rejectedByID"`
	RejectedByName  string     `json:"rejectedByName" gorm:"size:100"`
	RejectionReason string     `json:"rejectionReason" gorm:"size:500"`

	// Display enrichment for the dashboard, not part of the review flow
	RiskLevel         string         `json:"riskLevel" gorm:"size:16"` // low, medium, high
	VerificationScore int            `json:"verificationScore" gorm:"default:0"`
	Tags              datatypes.JSON `json:"tags"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// IsPending reports whether the document still awaits review, folding the
// legacy pending_review alias.
func (d *ComplianceDocument) IsPending() bool {
	return d.Status == DocumentStatusPending || d.Status == DocumentStatusPendingReview
}
