package services

import (
	"testing"
	"time"

	"github.com/comparepco/comparepco-production-sub002/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTransitionApproveDefaultExpiry(t *testing.T) {
	db := newTestDB(t)
	review, _, _ := newEngine(db)
	actor := Actor{ID: 1, Name: "Reviewer One"}

	cases := []struct {
		docType string
		months  int
	}{
		{models.DocTypeProofOfAddress, 6},
		{models.DocTypeOperatorLicence, 60},
		{models.DocTypeDrivingLicence, 120},
		{models.DocTypeInsurance, 12},
		{models.DocTypeMOTCertificate, 12}, // no table entry, falls back
	}

	for _, tc := range cases {
		doc := models.ComplianceDocument{Type: tc.docType, OwnerID: 1, OwnerKind: models.OwnerKindDriver, Status: models.DocumentStatusPending}
		require.NoError(t, db.Create(&doc).Error)

		updated, err := review.Transition(doc.ID, ActionApprove, actor, TransitionParams{})
		require.NoError(t, err, tc.docType)

		assert.Equal(t, models.DocumentStatusApproved, updated.Status)
		require.NotNil(t, updated.ExpiryDate, tc.docType)
		expected := time.Now().AddDate(0, tc.months, 0)
		assert.WithinDuration(t, expected, *updated.ExpiryDate, time.Minute, tc.docType)
	}
}

func TestTransitionApproveExplicitExpiry(t *testing.T) {
	db := newTestDB(t)
	review, _, _ := newEngine(db)

	doc := models.ComplianceDocument{Type: models.DocTypeInsurance, OwnerID: 1, OwnerKind: models.OwnerKindPartner}
	require.NoError(t, db.Create(&doc).Error)

	expiry := time.Date(2027, 3, 1, 0, 0, 0, 0, time.UTC)
	updated, err := review.Transition(doc.ID, ActionApprove, Actor{ID: 2, Name: "R"}, TransitionParams{ExpiryDate: &expiry})
	require.NoError(t, err)
	require.NotNil(t, updated.ExpiryDate)
	assert.True(t, expiry.Equal(*updated.ExpiryDate))
}

func TestTransitionApproveLegacyAliasType(t *testing.T) {
	db := newTestDB(t)
	review, _, _ := newEngine(db)

	// row predating type normalization
	doc := models.ComplianceDocument{Type: "proofOfAddress", OwnerID: 3, OwnerKind: models.OwnerKindDriver}
	require.NoError(t, db.Create(&doc).Error)

	updated, err := review.Transition(doc.ID, ActionApprove, Actor{ID: 1, Name: "R"}, TransitionParams{})
	require.NoError(t, err)
	require.NotNil(t, updated.ExpiryDate)
	assert.WithinDuration(t, time.Now().AddDate(0, 6, 0), *updated.ExpiryDate, time.Minute)
}

func TestTransitionRejectDefaultsReason(t *testing.T) {
	db := newTestDB(t)
	review, _, _ := newEngine(db)
	actor := Actor{ID: 7, Name: "Reviewer Seven"}

	doc := models.ComplianceDocument{Type: models.DocTypeInsurance, OwnerID: 1, OwnerKind: models.OwnerKindPartner}
	require.NoError(t, db.Create(&doc).Error)

	updated, err := review.Transition(doc.ID, ActionReject, actor, TransitionParams{})
	require.NoError(t, err)

	assert.Equal(t, models.DocumentStatusRejected, updated.Status)
	assert.Equal(t, defaultRejectionReason, updated.RejectionReason)
	require.NotNil(t, updated.RejectedByID)
	assert.Equal(t, actor.ID, *updated.RejectedByID)
	assert.Equal(t, actor.Name, updated.RejectedByName)
	assert.NotNil(t, updated.RejectedAt)
}

func TestTransitionRejectCustomReason(t *testing.T) {
	db := newTestDB(t)
	review, _, _ := newEngine(db)

	doc := models.ComplianceDocument{Type: models.DocTypePCOLicence, OwnerID: 1, OwnerKind: models.OwnerKindDriver}
	require.NoError(t, db.Create(&doc).Error)

	updated, err := review.Transition(doc.ID, ActionReject, Actor{ID: 1, Name: "R"}, TransitionParams{Reason: "Blurry scan"})
	require.NoError(t, err)
	assert.Equal(t, "Blurry scan", updated.RejectionReason)
}

func TestTransitionInvalidAction(t *testing.T) {
	db := newTestDB(t)
	review, _, _ := newEngine(db)

	doc := models.ComplianceDocument{Type: models.DocTypeInsurance, OwnerID: 1, OwnerKind: models.OwnerKindPartner}
	require.NoError(t, db.Create(&doc).Error)

	_, err := review.Transition(doc.ID, "escalate", Actor{ID: 1, Name: "R"}, TransitionParams{})
	assert.ErrorIs(t, err, ErrInvalidAction)
}

func TestTransitionMissingDocument(t *testing.T) {
	db := newTestDB(t)
	review, _, _ := newEngine(db)

	_, err := review.Transition(4242, ActionApprove, Actor{ID: 1, Name: "R"}, TransitionParams{})
	assert.ErrorIs(t, err, ErrDocumentNotFound)
}

// Switching a rejected document to approved overwrites the approval fields
// but leaves the rejection metadata in place, matching historical rows.
func TestTransitionLeavesOppositeFieldsStale(t *testing.T) {
	db := newTestDB(t)
	review, _, _ := newEngine(db)
	actor := Actor{ID: 5, Name: "Reviewer Five"}

	doc := models.ComplianceDocument{Type: models.DocTypeInsurance, OwnerID: 1, OwnerKind: models.OwnerKindPartner}
	require.NoError(t, db.Create(&doc).Error)

	_, err := review.Transition(doc.ID, ActionReject, actor, TransitionParams{Reason: "Expired policy"})
	require.NoError(t, err)

	updated, err := review.Transition(doc.ID, ActionApprove, actor, TransitionParams{})
	require.NoError(t, err)

	assert.Equal(t, models.DocumentStatusApproved, updated.Status)
	assert.NotNil(t, updated.ApprovedAt)
	// stale rejection metadata survives the flip
	assert.NotNil(t, updated.RejectedAt)
	assert.Equal(t, "Expired policy", updated.RejectionReason)
}

func TestTransitionReapproveOverwrites(t *testing.T) {
	db := newTestDB(t)
	review, _, _ := newEngine(db)

	doc := models.ComplianceDocument{Type: models.DocTypeInsurance, OwnerID: 1, OwnerKind: models.OwnerKindPartner}
	require.NoError(t, db.Create(&doc).Error)

	first, err := review.Transition(doc.ID, ActionApprove, Actor{ID: 1, Name: "First"}, TransitionParams{})
	require.NoError(t, err)

	second, err := review.Transition(doc.ID, ActionApprove, Actor{ID: 2, Name: "Second"}, TransitionParams{})
	require.NoError(t, err)

	assert.Equal(t, models.DocumentStatusApproved, second.Status)
	assert.Equal(t, "Second", second.ApprovedByName)
	require.NotNil(t, first.ApprovedByID)
	require.NotNil(t, second.ApprovedByID)
	assert.NotEqual(t, *first.ApprovedByID, *second.ApprovedByID)
}
