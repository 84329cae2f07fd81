package routes

import (
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/comparepco/comparepco-production-sub002/models"
	"github.com/comparepco/comparepco-production-sub002/storage"
	"github.com/comparepco/comparepco-production-sub002/utils"

	"github.com/kataras/iris/v12"
)

// ownerForUser maps a portal login onto the account its documents belong to.
func ownerForUser(user *models.User) (ownerID uint, ownerKind string, ok bool) {
	if user.PartnerID != nil {
		return *user.PartnerID, models.OwnerKindPartner, true
	}
	if user.DriverID != nil {
		return *user.DriverID, models.OwnerKindDriver, true
	}
	return 0, "", false
}

// SubmitDocument accepts a compliance document upload from a portal account.
// The file lands on Cloudinary and the canonical row is created in pending;
// review happens later through the admin API.
func SubmitDocument(ctx iris.Context) {
	user := currentUser(ctx)
	if user == nil {
		return
	}

	ownerID, ownerKind, ok := ownerForUser(user)
	if !ok {
		utils.JSONError(ctx, http.StatusForbidden, "no_owner_account", "account is not linked to a partner or driver")
		return
	}

	var input SubmitDocumentInput
	if err := ctx.ReadJSON(&input); err != nil {
		utils.HandleValidationErrors(err, ctx)
		return
	}

	docType := models.NormalizeDocumentType(input.Type)

	fileURL := input.File
	if !strings.Contains(fileURL, "res.cloudinary.com") {
		publicID := fmt.Sprintf("compliance/%s/%d/%s_%d", ownerKind, ownerID, docType, time.Now().Unix())
		urlMap := storage.UploadBase64Document(fileURL, publicID)
		if urlMap == nil || urlMap["url"] == "" {
			utils.JSONError(ctx, http.StatusBadRequest, "upload_failed", "document upload failed")
			return
		}
		fileURL = urlMap["url"]
	}

	doc := models.ComplianceDocument{
		Type:      docType,
		Status:    models.DocumentStatusPending,
		OwnerID:   ownerID,
		OwnerKind: ownerKind,
		FileURL:   fileURL,
	}
	if err := storage.DB.Create(&doc).Error; err != nil {
		utils.CreateInternalServerError(ctx)
		return
	}

	ctx.StatusCode(http.StatusCreated)
	ctx.JSON(iris.Map{"data": doc, "meta": iris.Map{}, "links": iris.Map{}})
}

// ListMyDocuments lists the documents of the caller's own account.
func ListMyDocuments(ctx iris.Context) {
	user := currentUser(ctx)
	if user == nil {
		return
	}

	ownerID, ownerKind, ok := ownerForUser(user)
	if !ok {
		utils.JSONError(ctx, http.StatusForbidden, "no_owner_account", "account is not linked to a partner or driver")
		return
	}

	var docs []models.ComplianceDocument
	if err := storage.DB.
		Where("owner_id = ? AND owner_kind = ?", ownerID, ownerKind).
		Order("created_at DESC").
		Find(&docs).Error; err != nil {
		utils.CreateInternalServerError(ctx)
		return
	}

	ctx.JSON(iris.Map{"data": docs, "meta": iris.Map{}, "links": iris.Map{}})
}

// GetMyNotifications returns the caller's in-app notifications, newest first.
func GetMyNotifications(ctx iris.Context) {
	userID, ok := ctx.Values().Get("userID").(uint)
	if !ok {
		utils.CreateError(iris.StatusUnauthorized, "Unauthorized", "Missing user identity.", ctx)
		return
	}

	var notifs []models.Notification
	storage.DB.Where("user_id = ?", userID).Order("created_at DESC").Limit(100).Find(&notifs)
	ctx.JSON(iris.Map{"data": notifs, "meta": iris.Map{}, "links": iris.Map{}})
}

// MarkNotificationRead - POST /notifications/:id/read
func MarkNotificationRead(ctx iris.Context) {
	userID, ok := ctx.Values().Get("userID").(uint)
	if !ok {
		utils.CreateError(iris.StatusUnauthorized, "Unauthorized", "Missing user identity.", ctx)
		return
	}

	id, err := ctx.Params().GetUint("id")
	if err != nil {
		utils.JSONError(ctx, http.StatusBadRequest, "invalid_id", "invalid id")
		return
	}

	var notif models.Notification
	if err := storage.DB.Where("id = ? AND user_id = ?", id, userID).First(&notif).Error; err != nil {
		utils.CreateNotFound(ctx)
		return
	}

	now := time.Now()
	notif.IsRead = true
	notif.ReadAt = &now
	if err := storage.DB.Save(&notif).Error; err != nil {
		utils.CreateInternalServerError(ctx)
		return
	}

	ctx.JSON(iris.Map{"data": notif})
}

type SubmitDocumentInput struct {
	Type string `json:"type" validate:"required,max=50"`
	File string `json:"file" validate:"required"` // base64 data URL or an existing Cloudinary URL
}
