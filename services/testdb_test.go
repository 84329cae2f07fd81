package services

import (
	"testing"

	"github.com/comparepco/comparepco-production-sub002/models"

	"gorm.io/datatypes"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open("file:"+t.Name()+"?mode=memory&cache=shared"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	if err := db.AutoMigrate(
		&models.User{},
		&models.Partner{},
		&models.Driver{},
		&models.ComplianceDocument{},
		&models.AuditLog{},
		&models.Notification{},
	); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return db
}

func newEngine(db *gorm.DB) (*DocumentReviewService, *CascadeService, *BulkService) {
	review := NewDocumentReviewService(db)
	cascade := NewCascadeService(db, NewNotificationService(db))
	bulk := NewBulkService(db, review, cascade)
	return review, cascade, bulk
}

func mustEncodeMap(t *testing.T, m models.ComplianceMap) datatypes.JSON {
	t.Helper()
	raw, err := models.EncodeComplianceMap(m)
	if err != nil {
		t.Fatalf("encode compliance map: %v", err)
	}
	return raw
}
