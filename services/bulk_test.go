package services

import (
	"errors"
	"testing"

	"github.com/comparepco/comparepco-production-sub002/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

// A failing item in the middle of the batch does not stop the sweep.
func TestBulkPartialFailure(t *testing.T) {
	db := newTestDB(t)
	_, _, bulk := newEngine(db)
	actor := Actor{ID: 1, Name: "R"}

	driver := models.Driver{Email: "bulk@example.com"}
	require.NoError(t, db.Create(&driver).Error)

	doc1 := models.ComplianceDocument{Type: models.DocTypeDrivingLicence, OwnerID: driver.ID, OwnerKind: models.OwnerKindDriver}
	doc3 := models.ComplianceDocument{Type: models.DocTypePCOLicence, OwnerID: driver.ID, OwnerKind: models.OwnerKindDriver}
	require.NoError(t, db.Create(&doc1).Error)
	require.NoError(t, db.Create(&doc3).Error)

	missingID := uint(99999)
	result := bulk.BulkApply([]uint{doc1.ID, missingID, doc3.ID}, ActionApprove, actor, TransitionParams{})

	assert.Equal(t, 3, result.Attempted)
	assert.Equal(t, 2, result.Succeeded)
	require.Len(t, result.Items, 3)

	assert.True(t, result.Items[0].OK)
	assert.False(t, result.Items[1].OK)
	assert.NotEmpty(t, result.Items[1].Error)
	assert.True(t, result.Items[2].OK, "third item must still be attempted after the second fails")

	var fresh models.ComplianceDocument
	require.NoError(t, db.First(&fresh, doc3.ID).Error)
	assert.Equal(t, models.DocumentStatusApproved, fresh.Status)
}

// A store write failure mid-batch is recorded on its item and the sweep
// still processes the rest.
func TestBulkContinuesPastWriteFailure(t *testing.T) {
	db := newTestDB(t)
	_, _, bulk := newEngine(db)
	actor := Actor{ID: 3, Name: "R"}

	driver := models.Driver{Email: "bulkwrite@example.com"}
	require.NoError(t, db.Create(&driver).Error)

	doc1 := models.ComplianceDocument{Type: models.DocTypeDrivingLicence, OwnerID: driver.ID, OwnerKind: models.OwnerKindDriver}
	doc2 := models.ComplianceDocument{Type: models.DocTypeInsurance, OwnerID: driver.ID, OwnerKind: models.OwnerKindDriver}
	doc3 := models.ComplianceDocument{Type: models.DocTypePCOLicence, OwnerID: driver.ID, OwnerKind: models.OwnerKindDriver}
	require.NoError(t, db.Create(&doc1).Error)
	require.NoError(t, db.Create(&doc2).Error)
	require.NoError(t, db.Create(&doc3).Error)

	failID := doc2.ID
	require.NoError(t, db.Callback().Update().Before("gorm:update").Register("failSecondDocumentWrite", func(tx *gorm.DB) {
		if d, ok := tx.Statement.Dest.(*models.ComplianceDocument); ok && d.ID == failID {
			tx.AddError(errors.New("disk full"))
		}
	}))
	defer db.Callback().Update().Remove("failSecondDocumentWrite")

	result := bulk.BulkApply([]uint{doc1.ID, doc2.ID, doc3.ID}, ActionApprove, actor, TransitionParams{})

	assert.Equal(t, 3, result.Attempted)
	assert.Equal(t, 2, result.Succeeded)
	require.Len(t, result.Items, 3)
	assert.True(t, result.Items[0].OK)
	assert.False(t, result.Items[1].OK)
	assert.Contains(t, result.Items[1].Error, "disk full")
	assert.True(t, result.Items[2].OK, "third item must still be attempted after the write failure")

	var fresh2 models.ComplianceDocument
	require.NoError(t, db.First(&fresh2, doc2.ID).Error)
	assert.Equal(t, models.DocumentStatusPending, fresh2.Status)

	var fresh3 models.ComplianceDocument
	require.NoError(t, db.First(&fresh3, doc3.ID).Error)
	assert.Equal(t, models.DocumentStatusApproved, fresh3.Status)
}

// Each decision in a batch notifies the owning portal account, same as a
// single review does.
func TestBulkDecisionNotifiesOwner(t *testing.T) {
	db := newTestDB(t)
	_, _, bulk := newEngine(db)
	actor := Actor{ID: 4, Name: "R"}

	driver := models.Driver{Email: "bulknotify-driver@example.com"}
	require.NoError(t, db.Create(&driver).Error)
	portal := models.User{Email: "bulknotify@example.com", Role: "driver", DriverID: &driver.ID}
	require.NoError(t, db.Create(&portal).Error)

	doc := models.ComplianceDocument{Type: models.DocTypeDrivingLicence, OwnerID: driver.ID, OwnerKind: models.OwnerKindDriver}
	require.NoError(t, db.Create(&doc).Error)

	result := bulk.BulkApply([]uint{doc.ID}, ActionApprove, actor, TransitionParams{})
	require.Equal(t, 1, result.Succeeded)

	var count int64
	db.Model(&models.Notification{}).
		Where("user_id = ? AND type = ?", portal.ID, models.NotificationDocumentApproved).
		Count(&count)
	assert.Equal(t, int64(1), count)
}

// When several documents of one owner sit in the same batch, the owner-level
// second pass activates once the whole batch has been mirrored.
func TestBulkSecondPassActivatesOwner(t *testing.T) {
	db := newTestDB(t)
	_, _, bulk := newEngine(db)
	actor := Actor{ID: 6, Name: "Reviewer Six"}

	partner := models.Partner{
		CompanyName: "Batch Fleet",
		Email:       "batch@example.com",
		Documents: mustEncodeMap(t, models.ComplianceMap{
			models.DocTypeInsurance:       {Status: models.DocumentStatusPending},
			models.DocTypeOperatorLicence: {Status: models.DocumentStatusPending},
		}),
	}
	require.NoError(t, db.Create(&partner).Error)

	docA := models.ComplianceDocument{Type: models.DocTypeInsurance, OwnerID: partner.ID, OwnerKind: models.OwnerKindPartner}
	docB := models.ComplianceDocument{Type: models.DocTypeOperatorLicence, OwnerID: partner.ID, OwnerKind: models.OwnerKindPartner}
	require.NoError(t, db.Create(&docA).Error)
	require.NoError(t, db.Create(&docB).Error)

	result := bulk.BulkApply([]uint{docA.ID, docB.ID}, ActionApprove, actor, TransitionParams{})
	assert.Equal(t, 2, result.Succeeded)

	var fresh models.Partner
	require.NoError(t, db.First(&fresh, partner.ID).Error)
	assert.Equal(t, models.PartnerStatusActive, fresh.Status)
}

// Bulk rejection mirrors every document but never activates anyone.
func TestBulkRejectNoActivation(t *testing.T) {
	db := newTestDB(t)
	_, _, bulk := newEngine(db)
	actor := Actor{ID: 2, Name: "R"}

	driver := models.Driver{Email: "bulkreject@example.com"}
	require.NoError(t, db.Create(&driver).Error)

	docA := models.ComplianceDocument{Type: models.DocTypeDrivingLicence, OwnerID: driver.ID, OwnerKind: models.OwnerKindDriver}
	docB := models.ComplianceDocument{Type: models.DocTypeProofOfAddress, OwnerID: driver.ID, OwnerKind: models.OwnerKindDriver}
	require.NoError(t, db.Create(&docA).Error)
	require.NoError(t, db.Create(&docB).Error)

	result := bulk.BulkApply([]uint{docA.ID, docB.ID}, ActionReject, actor, TransitionParams{Reason: "Incomplete"})
	assert.Equal(t, 2, result.Succeeded)

	var fresh models.Driver
	require.NoError(t, db.First(&fresh, driver.ID).Error)
	assert.Equal(t, models.DriverStatusPending, fresh.Status)

	m, err := models.DecodeComplianceMap(fresh.Documents)
	require.NoError(t, err)
	assert.Equal(t, models.DocumentStatusRejected, m[models.DocTypeDrivingLicence].Status)
	assert.Equal(t, models.DocumentStatusRejected, m[models.DocTypeProofOfAddress].Status)
}

// Owners of different kinds in one batch are swept independently.
func TestBulkMixedOwnerKinds(t *testing.T) {
	db := newTestDB(t)
	_, _, bulk := newEngine(db)
	actor := Actor{ID: 8, Name: "Reviewer Eight"}

	partner := models.Partner{CompanyName: "Mixed Ltd", Email: "mixed@example.com"}
	require.NoError(t, db.Create(&partner).Error)
	driver := models.Driver{Email: "mixed-driver@example.com"}
	require.NoError(t, db.Create(&driver).Error)

	pDoc := models.ComplianceDocument{Type: models.DocTypeBusinessLicence, OwnerID: partner.ID, OwnerKind: models.OwnerKindPartner}
	dDoc := models.ComplianceDocument{Type: models.DocTypeDrivingLicence, OwnerID: driver.ID, OwnerKind: models.OwnerKindDriver}
	require.NoError(t, db.Create(&pDoc).Error)
	require.NoError(t, db.Create(&dDoc).Error)

	result := bulk.BulkApply([]uint{pDoc.ID, dDoc.ID}, ActionApprove, actor, TransitionParams{})
	assert.Equal(t, 2, result.Succeeded)

	var freshPartner models.Partner
	require.NoError(t, db.First(&freshPartner, partner.ID).Error)
	assert.Equal(t, models.PartnerStatusActive, freshPartner.Status)

	var freshDriver models.Driver
	require.NoError(t, db.First(&freshDriver, driver.ID).Error)
	assert.Equal(t, models.DriverStatusActive, freshDriver.Status)
}
