package services

import (
	"errors"
	"fmt"
	"time"

	"github.com/comparepco/comparepco-production-sub002/models"

	"gorm.io/gorm"
)

var ErrOwnerNotFound = errors.New("owner not found")

// OwnerPatch overwrites one type key of an owner's compliance mirror. Sibling
// keys are never touched.
type OwnerPatch struct {
	TypeKey string
	Entry   models.ComplianceEntry
}

// OwnerHandle is a thin view over a partner or driver row for the cascade:
// read the mirror map, patch one entry, flip the account active.
type OwnerHandle interface {
	OwnerID() uint
	Kind() string
	Status() string
	// DocumentsMap re-reads the mirror from the store so a post-patch call
	// observes the patch.
	DocumentsMap() (models.ComplianceMap, error)
	ApplyPatch(patch OwnerPatch) error
	Activate(actor Actor, at time.Time) error
}

// ResolveOwner locates the owning account of a document by id and kind.
func ResolveOwner(db *gorm.DB, ownerID uint, ownerKind string) (OwnerHandle, error) {
	switch ownerKind {
	case models.OwnerKindPartner:
		var p models.Partner
		if err := db.First(&p, ownerID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, fmt.Errorf("%w: partner %d", ErrOwnerNotFound, ownerID)
			}
			return nil, fmt.Errorf("load partner %d: %w", ownerID, err)
		}
		return &partnerHandle{db: db, partner: &p}, nil
	case models.OwnerKindDriver:
		var d models.Driver
		if err := db.First(&d, ownerID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, fmt.Errorf("%w: driver %d", ErrOwnerNotFound, ownerID)
			}
			return nil, fmt.Errorf("load driver %d: %w", ownerID, err)
		}
		return &driverHandle{db: db, driver: &d}, nil
	default:
		return nil, fmt.Errorf("%w: unknown owner kind %q", ErrOwnerNotFound, ownerKind)
	}
}

type partnerHandle struct {
	db      *gorm.DB
	partner *models.Partner
}

func (h *partnerHandle) OwnerID() uint  { return h.partner.ID }
func (h *partnerHandle) Kind() string   { return models.OwnerKindPartner }
func (h *partnerHandle) Status() string { return h.partner.Status }

func (h *partnerHandle) DocumentsMap() (models.ComplianceMap, error) {
	var fresh models.Partner
	if err := h.db.Select("id", "documents").First(&fresh, h.partner.ID).Error; err != nil {
		return nil, fmt.Errorf("reload partner %d: %w", h.partner.ID, err)
	}
	h.partner.Documents = fresh.Documents
	return models.DecodeComplianceMap(fresh.Documents)
}

func (h *partnerHandle) ApplyPatch(patch OwnerPatch) error {
	m, err := models.DecodeComplianceMap(h.partner.Documents)
	if err != nil {
		return fmt.Errorf("decode partner %d documents: %w", h.partner.ID, err)
	}
	m[patch.TypeKey] = patch.Entry
	raw, err := models.EncodeComplianceMap(m)
	if err != nil {
		return err
	}
	if err := h.db.Model(&models.Partner{}).Where("id = ?", h.partner.ID).
		Updates(map[string]interface{}{"documents": raw, "updated_at": time.Now()}).Error; err != nil {
		return fmt.Errorf("patch partner %d documents: %w", h.partner.ID, err)
	}
	h.partner.Documents = raw
	return nil
}

func (h *partnerHandle) Activate(actor Actor, at time.Time) error {
	actorID := actor.ID
	if err := h.db.Model(&models.Partner{}).Where("id = ?", h.partner.ID).
		Updates(map[string]interface{}{
			"status":         models.PartnerStatusActive,
			"approved_at":    at,
			"approved_by_id": actorID,
			"updated_at":     at,
		}).Error; err != nil {
		return fmt.Errorf("activate partner %d: %w", h.partner.ID, err)
	}
	h.partner.Status = models.PartnerStatusActive
	h.partner.ApprovedAt = &at
	h.partner.ApprovedByID = &actorID
	return nil
}

type driverHandle struct {
	db     *gorm.DB
	driver *models.Driver
}

func (h *driverHandle) OwnerID() uint  { return h.driver.ID }
func (h *driverHandle) Kind() string   { return models.OwnerKindDriver }
func (h *driverHandle) Status() string { return h.driver.Status }

func (h *driverHandle) DocumentsMap() (models.ComplianceMap, error) {
	var fresh models.Driver
	if err := h.db.Select("id", "documents").First(&fresh, h.driver.ID).Error; err != nil {
		return nil, fmt.Errorf("reload driver %d: %w", h.driver.ID, err)
	}
	h.driver.Documents = fresh.Documents
	return models.DecodeComplianceMap(fresh.Documents)
}

func (h *driverHandle) ApplyPatch(patch OwnerPatch) error {
	m, err := models.DecodeComplianceMap(h.driver.Documents)
	if err != nil {
		return fmt.Errorf("decode driver %d documents: %w", h.driver.ID, err)
	}
	m[patch.TypeKey] = patch.Entry
	raw, err := models.EncodeComplianceMap(m)
	if err != nil {
		return err
	}
	if err := h.db.Model(&models.Driver{}).Where("id = ?", h.driver.ID).
		Updates(map[string]interface{}{"documents": raw, "updated_at": time.Now()}).Error; err != nil {
		return fmt.Errorf("patch driver %d documents: %w", h.driver.ID, err)
	}
	h.driver.Documents = raw
	return nil
}

func (h *driverHandle) Activate(actor Actor, at time.Time) error {
	actorID := actor.ID
	if err := h.db.Model(&models.Driver{}).Where("id = ?", h.driver.ID).
		Updates(map[string]interface{}{
			"status":         models.DriverStatusActive,
			"approved_at":    at,
			"approved_by_id": actorID,
			"updated_at":     at,
		}).Error; err != nil {
		return fmt.Errorf("activate driver %d: %w", h.driver.ID, err)
	}
	h.driver.Status = models.DriverStatusActive
	h.driver.ApprovedAt = &at
	h.driver.ApprovedByID = &actorID
	return nil
}
