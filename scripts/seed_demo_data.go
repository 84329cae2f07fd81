package main

import (
	"fmt"
	"log"

	"github.com/comparepco/comparepco-production-sub002/models"
	"github.com/comparepco/comparepco-production-sub002/storage"
	"github.com/comparepco/comparepco-production-sub002/utils"

	"golang.org/x/crypto/bcrypt"
)

// Seeds a demo admin, one partner fleet with a driver, and a set of pending
// compliance documents for local development.
func main() {
	storage.InitializeDB()

	password, err := bcrypt.GenerateFromPassword([]byte("changeme123"), bcrypt.DefaultCost)
	if err != nil {
		log.Fatalf("hash password: %v", err)
	}

	admin := models.User{
		FirstName: "Demo",
		LastName:  "Admin",
		Email:     "admin@comparepco.local",
		Password:  string(password),
		Role:      "admin",
	}
	if err := storage.DB.Where("email = ?", admin.Email).FirstOrCreate(&admin).Error; err != nil {
		log.Fatalf("seed admin: %v", err)
	}

	partner := models.Partner{
		CompanyName:        "Blue Line Fleet Ltd",
		Email:              "ops@bluelinefleet.local",
		Phone:              utils.FormatPhoneNumber("020 7123 4567"),
		City:               "London",
		RegistrationNumber: "12345678",
		FleetSize:          24,
	}
	if err := storage.DB.Where("email = ?", partner.Email).FirstOrCreate(&partner).Error; err != nil {
		log.Fatalf("seed partner: %v", err)
	}

	driverPhone := "07700 900123"
	if !utils.ValidatePhoneNumber(driverPhone) {
		log.Fatalf("seed driver: invalid mobile number %q", driverPhone)
	}
	driver := models.Driver{
		FirstName:     "Sam",
		LastName:      "Okafor",
		Email:         "sam.okafor@bluelinefleet.local",
		Phone:         utils.FormatPhoneNumber(driverPhone),
		LicenceNumber: "OKAFO657054SM9IJ",
		PCONumber:     "PCO-118822",
		PartnerID:     &partner.ID,
	}
	if err := storage.DB.Where("email = ?", driver.Email).FirstOrCreate(&driver).Error; err != nil {
		log.Fatalf("seed driver: %v", err)
	}

	partnerDocs := []string{models.DocTypeOperatorLicence, models.DocTypeInsurance, models.DocTypeBusinessLicence, models.DocTypeTaxCertificate}
	for _, t := range partnerDocs {
		doc := models.ComplianceDocument{Type: t, OwnerID: partner.ID, OwnerKind: models.OwnerKindPartner, Status: models.DocumentStatusPending}
		if err := storage.DB.Where("owner_id = ? AND owner_kind = ? AND type = ?", partner.ID, models.OwnerKindPartner, t).
			FirstOrCreate(&doc).Error; err != nil {
			log.Fatalf("seed partner document %s: %v", t, err)
		}
	}

	driverDocs := []string{models.DocTypeDrivingLicence, models.DocTypePCOLicence, models.DocTypeProofOfAddress}
	for _, t := range driverDocs {
		doc := models.ComplianceDocument{Type: t, OwnerID: driver.ID, OwnerKind: models.OwnerKindDriver, Status: models.DocumentStatusPending}
		if err := storage.DB.Where("owner_id = ? AND owner_kind = ? AND type = ?", driver.ID, models.OwnerKindDriver, t).
			FirstOrCreate(&doc).Error; err != nil {
			log.Fatalf("seed driver document %s: %v", t, err)
		}
	}

	fmt.Println("Demo data seeded: admin@comparepco.local / changeme123")
}
