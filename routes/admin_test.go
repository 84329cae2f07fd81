package routes

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"

	"github.com/comparepco/comparepco-production-sub002/models"
	"github.com/comparepco/comparepco-production-sub002/storage"
	"github.com/comparepco/comparepco-production-sub002/utils"

	"github.com/kataras/iris/v12"
	"github.com/kataras/iris/v12/middleware/jwt"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// buildTestApp creates a minimal Iris app with the admin routes, the JWT
// verifier and an in-memory database behind storage.DB.
func buildTestApp(t *testing.T) *iris.Application {
	t.Helper()
	os.Setenv("ACCESS_TOKEN_SECRET", "testsecret")

	db, err := gorm.Open(sqlite.Open("file:routes_"+t.Name()+"?mode=memory&cache=shared"), &gorm.Config{
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
	storage.DB = db

	app := iris.New()

	accessTokenVerifier := jwt.NewVerifier(jwt.HS256, []byte(os.Getenv("ACCESS_TOKEN_SECRET")))
	accessTokenVerifierMiddleware := accessTokenVerifier.Verify(func() interface{} { return new(utils.AccessToken) })

	admin := app.Party("/api/admin", accessTokenVerifierMiddleware, utils.StaffOnlyMiddleware)
	{
		admin.Get("/documents", AdminListDocuments)
		admin.Post("/documents/{id:uint}/approve", AdminApproveDocument)
	}

	if err := app.Build(); err != nil {
		t.Fatalf("build app: %v", err)
	}
	return app
}

// signTestToken returns a signed JWT with the given subject ID and role
func signTestToken(t *testing.T, id uint, role string) string {
	t.Helper()
	signer := jwt.NewSigner(jwt.HS256, os.Getenv("ACCESS_TOKEN_SECRET"), 0)
	token, err := signer.Sign(utils.AccessToken{ID: id, Role: role})
	if err != nil {
		t.Fatalf("sign token: %v", err)
	}
	return string(token)
}

func TestAdminDocumentsRBAC(t *testing.T) {
	app := buildTestApp(t)

	// No token -> rejected by the verifier
	req := httptest.NewRequest(http.MethodGet, "/api/admin/documents", nil)
	resp := httptest.NewRecorder()
	app.ServeHTTP(resp, req)
	if resp.Code == http.StatusOK {
		t.Fatalf("expected non-200 without token, got %d", resp.Code)
	}

	// Portal role -> 403
	req2 := httptest.NewRequest(http.MethodGet, "/api/admin/documents", nil)
	req2.Header.Set("Authorization", "Bearer "+signTestToken(t, 1, "partner"))
	resp2 := httptest.NewRecorder()
	app.ServeHTTP(resp2, req2)
	if resp2.Code != http.StatusForbidden {
		t.Fatalf("expected 403 for partner role, got %d", resp2.Code)
	}

	// Reviewer role -> 200 (empty list OK)
	req3 := httptest.NewRequest(http.MethodGet, "/api/admin/documents", nil)
	req3.Header.Set("Authorization", "Bearer "+signTestToken(t, 1, "reviewer"))
	resp3 := httptest.NewRecorder()
	app.ServeHTTP(resp3, req3)
	if resp3.Code != http.StatusOK {
		t.Fatalf("expected 200 for reviewer role, got %d", resp3.Code)
	}
}

func TestAdminApproveDocumentOverHTTP(t *testing.T) {
	app := buildTestApp(t)

	reviewer := models.User{FirstName: "Rita", LastName: "Reviewer", Email: "rita@comparepco.local", Role: "admin"}
	if err := storage.DB.Create(&reviewer).Error; err != nil {
		t.Fatalf("create reviewer: %v", err)
	}

	partner := models.Partner{CompanyName: "HTTP Fleet", Email: "http@example.com"}
	if err := storage.DB.Create(&partner).Error; err != nil {
		t.Fatalf("create partner: %v", err)
	}

	doc := models.ComplianceDocument{Type: models.DocTypeInsurance, OwnerID: partner.ID, OwnerKind: models.OwnerKindPartner}
	if err := storage.DB.Create(&doc).Error; err != nil {
		t.Fatalf("create document: %v", err)
	}

	req := httptest.NewRequest(http.MethodPost, fmt.Sprintf("/api/admin/documents/%d/approve", doc.ID), nil)
	req.Header.Set("Authorization", "Bearer "+signTestToken(t, reviewer.ID, reviewer.Role))
	resp := httptest.NewRecorder()
	app.ServeHTTP(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", resp.Code, resp.Body.String())
	}

	var envelope struct {
		Data models.ComplianceDocument `json:"data"`
	}
	if err := json.Unmarshal(resp.Body.Bytes(), &envelope); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if envelope.Data.Status != models.DocumentStatusApproved {
		t.Fatalf("expected approved document, got %q", envelope.Data.Status)
	}
	if envelope.Data.ApprovedByName != "Rita Reviewer" {
		t.Fatalf("expected reviewer attribution, got %q", envelope.Data.ApprovedByName)
	}

	// cascade activated the partner: its only mirrored entry is approved
	var freshPartner models.Partner
	if err := storage.DB.First(&freshPartner, partner.ID).Error; err != nil {
		t.Fatalf("reload partner: %v", err)
	}
	if freshPartner.Status != models.PartnerStatusActive {
		t.Fatalf("expected active partner, got %q", freshPartner.Status)
	}
}

func TestAdminApproveMissingDocument(t *testing.T) {
	app := buildTestApp(t)

	reviewer := models.User{Email: "missing@comparepco.local", Role: "admin"}
	if err := storage.DB.Create(&reviewer).Error; err != nil {
		t.Fatalf("create reviewer: %v", err)
	}

	req := httptest.NewRequest(http.MethodPost, "/api/admin/documents/424242/approve", nil)
	req.Header.Set("Authorization", "Bearer "+signTestToken(t, reviewer.ID, reviewer.Role))
	resp := httptest.NewRecorder()
	app.ServeHTTP(resp, req)

	if resp.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", resp.Code)
	}
}
