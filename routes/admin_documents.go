package routes

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/comparepco/comparepco-production-sub002/models"
	"github.com/comparepco/comparepco-production-sub002/services"
	"github.com/comparepco/comparepco-production-sub002/storage"
	"github.com/comparepco/comparepco-production-sub002/utils"

	"github.com/kataras/iris/v12"
)

func reviewService() *services.DocumentReviewService {
	return services.NewDocumentReviewService(storage.DB)
}

func cascadeService() *services.CascadeService {
	return services.NewCascadeService(storage.DB, services.NewNotificationService(storage.DB))
}

func bulkService() *services.BulkService {
	return services.NewBulkService(storage.DB, reviewService(), cascadeService())
}

// currentActor resolves the acting reviewer for attribution.
func currentActor(ctx iris.Context) (services.Actor, bool) {
	user := currentUser(ctx)
	if user == nil {
		return services.Actor{}, false
	}
	return services.Actor{ID: user.ID, Name: user.DisplayName()}, true
}

// AdminListDocuments - GET /admin/documents?status=&type=&owner_kind=&page=&per_page=
func AdminListDocuments(ctx iris.Context) {
	page := ctx.URLParamIntDefault("page", 1)
	perPage := ctx.URLParamIntDefault("per_page", 25)
	if perPage <= 0 || perPage > 100 {
		perPage = 25
	}

	query := storage.DB.Model(&models.ComplianceDocument{})

	status := strings.TrimSpace(ctx.URLParamDefault("status", ""))
	if status != "" {
		// pending folds the legacy pending_review alias
		if status == models.DocumentStatusPending || status == models.DocumentStatusPendingReview {
			query = query.Where("status IN ?", []string{models.DocumentStatusPending, models.DocumentStatusPendingReview})
		} else {
			query = query.Where("status = ?", status)
		}
	}
	if docType := strings.TrimSpace(ctx.URLParamDefault("type", "")); docType != "" {
		query = query.Where("type IN ?", models.DocumentTypeVariants(docType))
	}
	if ownerKind := strings.TrimSpace(ctx.URLParamDefault("owner_kind", "")); ownerKind != "" {
		query = query.Where("owner_kind = ?", ownerKind)
	}

	var total int64
	query.Count(&total)

	var docs []models.ComplianceDocument
	if err := query.Order("created_at DESC").
		Offset((page - 1) * perPage).Limit(perPage).
		Find(&docs).Error; err != nil {
		utils.JSONError(ctx, http.StatusInternalServerError, "server_error", err.Error())
		return
	}

	utils.JSONPage(ctx, docs, page, perPage, total)
}

// AdminGetDocument - GET /admin/documents/:id
func AdminGetDocument(ctx iris.Context) {
	id, err := ctx.Params().GetUint("id")
	if err != nil {
		utils.JSONError(ctx, http.StatusBadRequest, "invalid_id", "invalid id")
		return
	}

	var doc models.ComplianceDocument
	if err := storage.DB.First(&doc, id).Error; err != nil {
		utils.JSONError(ctx, http.StatusNotFound, "not_found", "document not found")
		return
	}

	ctx.JSON(iris.Map{"data": doc, "meta": iris.Map{}, "links": iris.Map{}})
}

// AdminApproveDocument - POST /admin/documents/:id/approve { expiryDate? }
func AdminApproveDocument(ctx iris.Context) {
	decideDocument(ctx, services.ActionApprove)
}

// AdminRejectDocument - POST /admin/documents/:id/reject { reason? }
func AdminRejectDocument(ctx iris.Context) {
	decideDocument(ctx, services.ActionReject)
}

// decideDocument runs one review decision end to end: transition, then the
// best-effort cascade. A cascade failure never fails the decision.
func decideDocument(ctx iris.Context, action string) {
	id, err := ctx.Params().GetUint("id")
	if err != nil {
		utils.JSONError(ctx, http.StatusBadRequest, "invalid_id", "invalid id")
		return
	}

	var body ReviewDecisionInput
	if err := ctx.ReadJSON(&body); err != nil && ctx.GetContentLength() > 0 {
		utils.HandleValidationErrors(err, ctx)
		return
	}

	actor, ok := currentActor(ctx)
	if !ok {
		return
	}

	var before models.ComplianceDocument
	storage.DB.First(&before, id)

	params := services.TransitionParams{ExpiryDate: body.ExpiryDate, Reason: body.Reason}
	doc, err := reviewService().Transition(id, action, actor, params)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrDocumentNotFound):
			utils.JSONError(ctx, http.StatusNotFound, "not_found", "document not found")
		case errors.Is(err, services.ErrInvalidAction):
			utils.JSONError(ctx, http.StatusUnprocessableEntity, "invalid_action", err.Error())
		default:
			utils.JSONError(ctx, http.StatusInternalServerError, "server_error", err.Error())
		}
		return
	}

	cascade := cascadeService()
	cascade.Synchronize(doc, actor) // best-effort, logged inside

	services.NewNotificationService(storage.DB).NotifyDocumentDecision(doc)

	utils.Audit(ctx, "document."+action, "compliance_document", doc.ID, before, doc)

	ctx.JSON(iris.Map{"data": doc, "meta": iris.Map{}, "links": iris.Map{}})
}

// AdminBulkDocuments - POST /admin/documents/bulk { ids, action, expiryDate?, reason? }
func AdminBulkDocuments(ctx iris.Context) {
	var body BulkReviewInput
	if err := ctx.ReadJSON(&body); err != nil {
		utils.HandleValidationErrors(err, ctx)
		return
	}
	if len(body.IDs) == 0 {
		utils.JSONError(ctx, http.StatusUnprocessableEntity, "invalid_payload", "ids must not be empty")
		return
	}
	if body.Action != services.ActionApprove && body.Action != services.ActionReject {
		utils.JSONError(ctx, http.StatusUnprocessableEntity, "invalid_action", "action must be approve or reject")
		return
	}

	actor, ok := currentActor(ctx)
	if !ok {
		return
	}

	params := services.TransitionParams{ExpiryDate: body.ExpiryDate, Reason: body.Reason}
	result := bulkService().BulkApply(body.IDs, body.Action, actor, params)

	utils.Audit(ctx, "document.bulk_"+body.Action, "compliance_document", 0, nil, result)

	ctx.JSON(iris.Map{
		"data": result,
		"meta": iris.Map{"attempted": result.Attempted, "succeeded": result.Succeeded},
		"links": iris.Map{},
	})
}

// AdminDeleteDocument - DELETE /admin/documents/:id
// Removes the canonical row and its stored file. The owner's mirror entry is
// left untouched; re-upload of the same type overwrites it on the next review.
func AdminDeleteDocument(ctx iris.Context) {
	id, err := ctx.Params().GetUint("id")
	if err != nil {
		utils.JSONError(ctx, http.StatusBadRequest, "invalid_id", "invalid id")
		return
	}

	var doc models.ComplianceDocument
	if err := storage.DB.First(&doc, id).Error; err != nil {
		utils.JSONError(ctx, http.StatusNotFound, "not_found", "document not found")
		return
	}

	if err := storage.DB.Delete(&doc).Error; err != nil {
		utils.JSONError(ctx, http.StatusInternalServerError, "server_error", err.Error())
		return
	}

	if doc.FileURL != "" {
		storage.DeleteDocumentFromCloudinary(doc.FileURL)
	}

	utils.Audit(ctx, "document.delete", "compliance_document", doc.ID, doc, nil)

	ctx.JSON(iris.Map{"data": iris.Map{"deleted": true}, "meta": iris.Map{}, "links": iris.Map{}})
}

type ReviewDecisionInput struct {
	ExpiryDate *time.Time `json:"expiryDate"`
	Reason     string     `json:"reason" validate:"omitempty,max=500"`
}

type BulkReviewInput struct {
	IDs        []uint     `json:"ids" validate:"required"`
	Action     string     `json:"action" validate:"required"`
	ExpiryDate *time.Time `json:"expiryDate"`
	Reason     string     `json:"reason" validate:"omitempty,max=500"`
}
