package routes

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/comparepco/comparepco-production-sub002/models"
	"github.com/comparepco/comparepco-production-sub002/services"
	"github.com/comparepco/comparepco-production-sub002/storage"
	"github.com/comparepco/comparepco-production-sub002/utils"

	"github.com/kataras/iris/v12"
)

const complianceStatsCacheKey = "admin:compliance_stats"
const complianceStatsCacheTTL = 60 * time.Second

// AdminComplianceStats - GET /admin/stats/compliance
// Recomputed over the full collection on every cache miss; the summary is
// small and the collection is admin-scale.
func AdminComplianceStats(ctx iris.Context) {
	bg := context.Background()

	if storage.Redis != nil {
		if cached, err := storage.Redis.Get(bg, complianceStatsCacheKey).Result(); err == nil {
			var metrics services.ComplianceMetrics
			if json.Unmarshal([]byte(cached), &metrics) == nil {
				ctx.JSON(iris.Map{"data": metrics, "meta": iris.Map{"cached": true}, "links": iris.Map{}})
				return
			}
		}
	}

	var docs []models.ComplianceDocument
	if err := storage.DB.Find(&docs).Error; err != nil {
		utils.JSONError(ctx, http.StatusInternalServerError, "server_error", err.Error())
		return
	}

	metrics := services.SummarizeCompliance(docs, time.Now())

	if storage.Redis != nil {
		if raw, err := json.Marshal(metrics); err == nil {
			storage.Redis.Set(bg, complianceStatsCacheKey, raw, complianceStatsCacheTTL)
		}
	}

	ctx.JSON(iris.Map{"data": metrics, "meta": iris.Map{"cached": false}, "links": iris.Map{}})
}

// AdminStats - GET /admin/stats — headline counters for the dashboard home
func AdminStats(ctx iris.Context) {
	var pendingDocuments int64
	storage.DB.Model(&models.ComplianceDocument{}).
		Where("status IN ?", []string{models.DocumentStatusPending, models.DocumentStatusPendingReview}).
		Count(&pendingDocuments)

	var pendingPartners int64
	storage.DB.Model(&models.Partner{}).Where("status = ?", models.PartnerStatusPending).Count(&pendingPartners)
	var pendingDrivers int64
	storage.DB.Model(&models.Driver{}).Where("status = ?", models.DriverStatusPending).Count(&pendingDrivers)

	since7 := time.Now().AddDate(0, 0, -7)
	since30 := time.Now().AddDate(0, 0, -30)
	var newDocs7, newDocs30 int64
	storage.DB.Model(&models.ComplianceDocument{}).Where("created_at >= ?", since7).Count(&newDocs7)
	storage.DB.Model(&models.ComplianceDocument{}).Where("created_at >= ?", since30).Count(&newDocs30)

	ctx.JSON(iris.Map{
		"data": iris.Map{
			"pending_documents": pendingDocuments,
			"pending_partners":  pendingPartners,
			"pending_drivers":   pendingDrivers,
			"new_documents_7d":  newDocs7,
			"new_documents_30d": newDocs30,
		},
		"meta":  iris.Map{},
		"links": iris.Map{},
	})
}

// AdminActivity - GET /admin/activity
func AdminActivity(ctx iris.Context) {
	var logs []models.AuditLog
	storage.DB.Order("created_at DESC").Limit(100).Find(&logs)
	ctx.JSON(iris.Map{"data": logs, "meta": iris.Map{}, "links": iris.Map{}})
}
