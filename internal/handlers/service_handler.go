package handlers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/BruksfildServices01/company-scheduler/internal/audit"
	"github.com/BruksfildServices01/company-scheduler/internal/domain/scheduling"
	"github.com/BruksfildServices01/company-scheduler/internal/httperr"
	"github.com/BruksfildServices01/company-scheduler/internal/httpresp"
	"github.com/BruksfildServices01/company-scheduler/internal/models"
	"github.com/BruksfildServices01/company-scheduler/internal/usecase/catalog"
)

type ServiceHandler struct {
	db     *gorm.DB
	update *catalog.UpdateService
	audit  *audit.Dispatcher
}

func NewServiceHandler(db *gorm.DB, update *catalog.UpdateService, audit *audit.Dispatcher) *ServiceHandler {
	return &ServiceHandler{db: db, update: update, audit: audit}
}

// --------- Requests ---------

type CreateServiceRequest struct {
	Name            string  `json:"name" binding:"required,max=100"`
	Description     string  `json:"description" binding:"max=255"`
	DurationMinutes int     `json:"duration_minutes" binding:"required"`
	Price           float64 `json:"price" binding:"min=0"`
	Category        string  `json:"category" binding:"max=50"`
}

type UpdateServiceRequest struct {
	Name            *string  `json:"name,omitempty"`
	Description     *string  `json:"description,omitempty"`
	DurationMinutes *int     `json:"duration_minutes,omitempty"`
	Price           *float64 `json:"price,omitempty"`
	Category        *string  `json:"category,omitempty"`
	IsActive        *bool    `json:"is_active,omitempty"`
}

// --------- Handlers ---------

func (h *ServiceHandler) List(c *gin.Context) {
	companyID := companyFromContext(c)

	category := strings.ToLower(strings.TrimSpace(c.Query("category")))
	activeStr := strings.TrimSpace(c.Query("active"))
	query := strings.ToLower(strings.TrimSpace(c.Query("query")))

	q := h.db.WithContext(c.Request.Context()).Where("company_id = ?", companyID)

	if category != "" {
		q = q.Where("LOWER(category) = ?", category)
	}

	switch activeStr {
	case "true":
		q = q.Where("is_active = ?", true)
	case "false":
		q = q.Where("is_active = ?", false)
	}

	if query != "" {
		like := "%" + query + "%"
		q = q.Where("LOWER(name) LIKE ? OR LOWER(description) LIKE ?", like, like)
	}

	var services []models.Service
	if err := q.Order("id ASC").Find(&services).Error; err != nil {
		writeError(c, err, "failed_to_list_services")
		return
	}

	httpresp.List(c, services)
}

func (h *ServiceHandler) Create(c *gin.Context) {
	var req CreateServiceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", businessMessages["invalid_request"])
		return
	}

	if err := scheduling.ValidateServiceDuration(req.DurationMinutes); err != nil {
		writeError(c, err, "invalid_duration")
		return
	}

	service := models.Service{
		CompanyID:       companyFromContext(c),
		Name:            strings.TrimSpace(req.Name),
		Description:     req.Description,
		DurationMinutes: req.DurationMinutes,
		Price:           req.Price,
		Category:        strings.ToLower(strings.TrimSpace(req.Category)),
		IsActive:        true,
		Version:         1,
	}

	if err := h.db.WithContext(c.Request.Context()).Create(&service).Error; err != nil {
		writeError(c, err, "failed_to_create_service")
		return
	}

	recordAudit(h.audit, c, "service_created", "service", &service.ID, nil)
	httpresp.Created(c, service)
}

func (h *ServiceHandler) find(c *gin.Context) (*models.Service, bool) {
	id, ok := pathID(c, "id")
	if !ok {
		return nil, false
	}

	var service models.Service
	err := h.db.WithContext(c.Request.Context()).
		Where("id = ? AND company_id = ?", id, companyFromContext(c)).
		First(&service).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		httperr.NotFound(c, "service_not_found", businessMessages["service_not_found"])
		return nil, false
	}
	if err != nil {
		writeError(c, err, "failed_to_get_service")
		return nil, false
	}
	return &service, true
}

// Update edits a service; a new duration is stored as a new version and the
// response carries the new id.
func (h *ServiceHandler) Update(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	var req UpdateServiceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", businessMessages["invalid_request"])
		return
	}

	service, err := h.update.Execute(c.Request.Context(), catalog.UpdateServiceInput{
		CompanyID:       companyFromContext(c),
		ServiceID:       id,
		ActorID:         actorFromContext(c),
		Name:            req.Name,
		Description:     req.Description,
		DurationMinutes: req.DurationMinutes,
		Price:           req.Price,
		Category:        req.Category,
		IsActive:        req.IsActive,
	})
	if err != nil {
		writeError(c, err, "failed_to_update_service")
		return
	}

	httpresp.OK(c, service)
}

// Delete is a soft delete: reservations keep referencing the row.
func (h *ServiceHandler) Delete(c *gin.Context) {
	service, ok := h.find(c)
	if !ok {
		return
	}

	if err := h.db.WithContext(c.Request.Context()).
		Model(service).
		Update("is_active", false).Error; err != nil {
		writeError(c, err, "failed_to_delete_service")
		return
	}

	recordAudit(h.audit, c, "service_deactivated", "service", &service.ID, nil)
	c.Status(http.StatusNoContent)
}
