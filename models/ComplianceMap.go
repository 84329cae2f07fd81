package models

import (
	"encoding/json"
	"time"

	"gorm.io/datatypes"
)

// ComplianceEntry is the denormalized per-type status copy embedded on the
// owning partner or driver. It mirrors the canonical ComplianceDocument row and
// is written only by the cascade after a review decision.
type ComplianceEntry struct {
	Status          string     `json:"status"`
	ApprovedAt      *time.Time `json:"approvedAt,omitempty"`
	ApprovedByID    *uint      `json:"approvedByID,omitempty"`
	ApprovedByName  string     `json:"approvedByName,omitempty"`
	RejectedAt      *time.Time `json:"rejectedAt,omitempty"`
	RejectedByID    *uint      `json:"rejectedByID,omitempty"`
	RejectedByName  string     `json:"rejectedByName,omitempty"`
	RejectionReason string     `json:"rejectionReason,omitempty"`
}

// ComplianceMap keys ComplianceEntry by canonical document type.
type ComplianceMap map[string]ComplianceEntry

// AllApproved reports whether every mirrored entry is approved. An empty map
// counts as approved; callers relying on activation must ensure owners carry at
// least one entry before the first cascade runs.
func (m ComplianceMap) AllApproved() bool {
	for _, entry := range m {
		if entry.Status != DocumentStatusApproved {
			return false
		}
	}
	return true
}

// DecodeComplianceMap parses the JSON documents column of an owner. A NULL or
// empty column yields an empty, non-nil map.
func DecodeComplianceMap(raw datatypes.JSON) (ComplianceMap, error) {
	m := ComplianceMap{}
	if len(raw) == 0 || string(raw) == "null" {
		return m, nil
	}
	if err := json.Unmarshal(raw, &m); err != nil {
		return nil, err
	}
	return m, nil
}

// EncodeComplianceMap serializes the map back into the JSON column form.
func EncodeComplianceMap(m ComplianceMap) (datatypes.JSON, error) {
	if m == nil {
		m = ComplianceMap{}
	}
	raw, err := json.Marshal(m)
	if err != nil {
		return nil, err
	}
	return datatypes.JSON(raw), nil
}
