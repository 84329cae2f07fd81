package routes

import (
	"net/http"
	"strings"

	"github.com/comparepco/comparepco-production-sub002/models"
	"github.com/comparepco/comparepco-production-sub002/storage"
	"github.com/comparepco/comparepco-production-sub002/utils"

	"github.com/kataras/iris/v12"
)

// AdminListPartners - GET /admin/partners?status=&q=&page=&per_page=
func AdminListPartners(ctx iris.Context) {
	page := ctx.URLParamIntDefault("page", 1)
	perPage := ctx.URLParamIntDefault("per_page", 25)
	if perPage <= 0 || perPage > 100 {
		perPage = 25
	}

	query := storage.DB.Model(&models.Partner{})
	if status := strings.TrimSpace(ctx.URLParamDefault("status", "")); status != "" {
		query = query.Where("status = ?", status)
	}
	if q := strings.TrimSpace(ctx.URLParamDefault("q", "")); q != "" {
		like := "%" + strings.ToLower(q) + "%"
		query = query.Where("lower(company_name) LIKE ? OR lower(email) LIKE ?", like, like)
	}

	var total int64
	query.Count(&total)

	var partners []models.Partner
	if err := query.Offset((page - 1) * perPage).Limit(perPage).Find(&partners).Error; err != nil {
		utils.JSONError(ctx, http.StatusInternalServerError, "server_error", err.Error())
		return
	}

	utils.JSONPage(ctx, partners, page, perPage, total)
}

// AdminGetPartner - GET /admin/partners/:id — dossier: profile, mirror map,
// canonical documents, recent audit entries
func AdminGetPartner(ctx iris.Context) {
	id, err := ctx.Params().GetUint("id")
	if err != nil {
		utils.JSONError(ctx, http.StatusBadRequest, "invalid_id", "invalid id")
		return
	}

	var partner models.Partner
	if err := storage.DB.First(&partner, id).Error; err != nil {
		utils.JSONError(ctx, http.StatusNotFound, "not_found", "partner not found")
		return
	}

	complianceMap, mapErr := models.DecodeComplianceMap(partner.Documents)
	if mapErr != nil {
		utils.JSONError(ctx, http.StatusInternalServerError, "server_error", mapErr.Error())
		return
	}

	var docs []models.ComplianceDocument
	storage.DB.Where("owner_id = ? AND owner_kind = ?", id, models.OwnerKindPartner).
		Order("created_at DESC").Find(&docs)

	var actions []models.AuditLog
	storage.DB.Where("resource_type = ? AND resource_id = ?", models.OwnerKindPartner, id).
		Order("created_at DESC").Limit(50).Find(&actions)

	ctx.JSON(iris.Map{
		"data": iris.Map{
			"partner":      partner,
			"phoneDisplay": utils.DisplayPhoneNumber(partner.Phone),
			"compliance":   complianceMap,
			"documents":    docs,
			"recentAudit":  actions,
		},
		"meta":  iris.Map{},
		"links": iris.Map{},
	})
}

// AdminListDrivers - GET /admin/drivers?status=&partner_id=&q=&page=&per_page=
func AdminListDrivers(ctx iris.Context) {
	page := ctx.URLParamIntDefault("page", 1)
	perPage := ctx.URLParamIntDefault("per_page", 25)
	if perPage <= 0 || perPage > 100 {
		perPage = 25
	}

	query := storage.DB.Model(&models.Driver{})
	if status := strings.TrimSpace(ctx.URLParamDefault("status", "")); status != "" {
		query = query.Where("status = ?", status)
	}
	if partnerID := ctx.URLParamIntDefault("partner_id", 0); partnerID > 0 {
		query = query.Where("partner_id = ?", partnerID)
	}
	if q := strings.TrimSpace(ctx.URLParamDefault("q", "")); q != "" {
		like := "%" + strings.ToLower(q) + "%"
		query = query.Where("lower(first_name) LIKE ? OR lower(last_name) LIKE ? OR lower(email) LIKE ?", like, like, like)
	}

	var total int64
	query.Count(&total)

	var drivers []models.Driver
	if err := query.Offset((page - 1) * perPage).Limit(perPage).Find(&drivers).Error; err != nil {
		utils.JSONError(ctx, http.StatusInternalServerError, "server_error", err.Error())
		return
	}

	utils.JSONPage(ctx, drivers, page, perPage, total)
}

// AdminGetDriver - GET /admin/drivers/:id
func AdminGetDriver(ctx iris.Context) {
	id, err := ctx.Params().GetUint("id")
	if err != nil {
		utils.JSONError(ctx, http.StatusBadRequest, "invalid_id", "invalid id")
		return
	}

	var driver models.Driver
	if err := storage.DB.First(&driver, id).Error; err != nil {
		utils.JSONError(ctx, http.StatusNotFound, "not_found", "driver not found")
		return
	}

	complianceMap, mapErr := models.DecodeComplianceMap(driver.Documents)
	if mapErr != nil {
		utils.JSONError(ctx, http.StatusInternalServerError, "server_error", mapErr.Error())
		return
	}

	var docs []models.ComplianceDocument
	storage.DB.Where("owner_id = ? AND owner_kind = ?", id, models.OwnerKindDriver).
		Order("created_at DESC").Find(&docs)

	ctx.JSON(iris.Map{
		"data": iris.Map{
			"driver":       driver,
			"phoneDisplay": utils.DisplayPhoneNumber(driver.Phone),
			"compliance":   complianceMap,
			"documents":    docs,
		},
		"meta":  iris.Map{},
		"links": iris.Map{},
	})
}
