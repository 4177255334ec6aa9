package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/BruksfildServices01/company-scheduler/internal/audit"
	"github.com/BruksfildServices01/company-scheduler/internal/domain/scheduling"
	"github.com/BruksfildServices01/company-scheduler/internal/httperr"
	"github.com/BruksfildServices01/company-scheduler/internal/httpresp"
	"github.com/BruksfildServices01/company-scheduler/internal/models"
)

type WorkerHandler struct {
	db    *gorm.DB
	repo  scheduling.Repository
	audit *audit.Dispatcher
}

func NewWorkerHandler(db *gorm.DB, repo scheduling.Repository, audit *audit.Dispatcher) *WorkerHandler {
	return &WorkerHandler{db: db, repo: repo, audit: audit}
}

type UpdateWorkerRequest struct {
	Active    *bool `json:"active,omitempty"`
	CanServe  *bool `json:"can_serve,omitempty"`
	IsTrainee *bool `json:"is_trainee,omitempty"`
}

type SetWorkerServicesRequest struct {
	ServiceIDs []uint `json:"service_ids" binding:"required"`
}

func (h *WorkerHandler) List(c *gin.Context) {
	workers, err := h.repo.ListWorkers(c.Request.Context(), companyFromContext(c))
	if err != nil {
		writeError(c, err, "failed_to_list_workers")
		return
	}
	httpresp.List(c, workers)
}

func (h *WorkerHandler) find(c *gin.Context) (*models.User, bool) {
	id, ok := pathID(c, "id")
	if !ok {
		return nil, false
	}

	worker, err := h.repo.GetWorker(c.Request.Context(), companyFromContext(c), id)
	if errors.Is(err, scheduling.ErrNotFound) {
		httperr.NotFound(c, "worker_not_found", businessMessages["worker_not_found"])
		return nil, false
	}
	if err != nil {
		writeError(c, err, "failed_to_get_worker")
		return nil, false
	}
	return worker, true
}

// Update toggles the scheduling flags of a member.
func (h *WorkerHandler) Update(c *gin.Context) {
	worker, ok := h.find(c)
	if !ok {
		return
	}

	var req UpdateWorkerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", businessMessages["invalid_request"])
		return
	}

	updates := map[string]any{}
	if req.Active != nil {
		updates["active"] = *req.Active
	}
	if req.CanServe != nil {
		updates["can_serve"] = *req.CanServe
	}
	if req.IsTrainee != nil {
		updates["is_trainee"] = *req.IsTrainee
	}

	if len(updates) > 0 {
		if err := h.db.WithContext(c.Request.Context()).
			Model(&models.User{}).
			Where("id = ? AND company_id = ?", worker.ID, worker.CompanyID).
			Updates(updates).Error; err != nil {
			writeError(c, err, "failed_to_update_worker")
			return
		}
	}

	recordAudit(h.audit, c, "worker_updated", "user", &worker.ID, updates)

	updated, ok := h.find(c)
	if !ok {
		return
	}
	httpresp.OK(c, updated)
}

// SetServices replaces the worker's capability grants. Every service must
// belong to the caller's company.
func (h *WorkerHandler) SetServices(c *gin.Context) {
	worker, ok := h.find(c)
	if !ok {
		return
	}

	var req SetWorkerServicesRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", businessMessages["invalid_request"])
		return
	}

	ids := uniqueIDs(req.ServiceIDs)
	ctx := c.Request.Context()

	if len(ids) > 0 {
		var count int64
		if err := h.db.WithContext(ctx).
			Model(&models.Service{}).
			Where("company_id = ? AND id IN ?", worker.CompanyID, ids).
			Count(&count).Error; err != nil {
			writeError(c, err, "failed_to_set_worker_services")
			return
		}
		if int(count) != len(ids) {
			httperr.BadRequest(c, "service_not_found", businessMessages["service_not_found"])
			return
		}
	}

	grants := make([]models.WorkerService, 0, len(ids))
	for _, id := range ids {
		grants = append(grants, models.WorkerService{WorkerID: worker.ID, ServiceID: id, CanPerform: true})
	}

	err := h.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("worker_id = ?", worker.ID).Delete(&models.WorkerService{}).Error; err != nil {
			return err
		}
		if len(grants) == 0 {
			return nil
		}
		return tx.Create(&grants).Error
	})
	if err != nil {
		writeError(c, err, "failed_to_set_worker_services")
		return
	}

	recordAudit(h.audit, c, "worker_services_updated", "user", &worker.ID, gin.H{"service_ids": ids})
	c.JSON(http.StatusOK, gin.H{
		"worker_id":   worker.ID,
		"service_ids": ids,
	})
}

func uniqueIDs(in []uint) []uint {
	seen := make(map[uint]bool, len(in))
	out := make([]uint, 0, len(in))
	for _, id := range in {
		if id == 0 || seen[id] {
			continue
		}
		seen[id] = true
		out = append(out, id)
	}
	return out
}
