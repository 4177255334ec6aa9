package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/BruksfildServices01/company-scheduler/internal/audit"
	"github.com/BruksfildServices01/company-scheduler/internal/httperr"
	"github.com/BruksfildServices01/company-scheduler/internal/models"
	"github.com/BruksfildServices01/company-scheduler/internal/timezone"
)

const maxAnchorIntervalMinutes = 240

type CompanyHandler struct {
	db    *gorm.DB
	audit *audit.Dispatcher
}

func NewCompanyHandler(db *gorm.DB, audit *audit.Dispatcher) *CompanyHandler {
	return &CompanyHandler{db: db, audit: audit}
}

type UpdateCompanyRequest struct {
	Name                      *string `json:"name"`
	Phone                     *string `json:"phone"`
	Address                   *string `json:"address"`
	Timezone                  *string `json:"timezone"`
	SlotAnchorIntervalMinutes *int    `json:"slot_anchor_interval_minutes"`
	TraineeExtraMinutes       *int    `json:"trainee_extra_minutes"`
	MinAdvanceMinutes         *int    `json:"min_advance_minutes"`
}

func (h *CompanyHandler) load(c *gin.Context) (*models.Company, bool) {
	var company models.Company
	err := h.db.WithContext(c.Request.Context()).First(&company, companyFromContext(c)).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		httperr.NotFound(c, "company_not_found", businessMessages["company_not_found"])
		return nil, false
	}
	if err != nil {
		writeError(c, err, "failed_to_get_company")
		return nil, false
	}
	return &company, true
}

func (h *CompanyHandler) Get(c *gin.Context) {
	company, ok := h.load(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, company)
}

func (h *CompanyHandler) Update(c *gin.Context) {
	company, ok := h.load(c)
	if !ok {
		return
	}

	var req UpdateCompanyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", businessMessages["invalid_request"])
		return
	}

	if req.Name != nil {
		company.Name = *req.Name
	}
	if req.Phone != nil {
		company.Phone = *req.Phone
	}
	if req.Address != nil {
		company.Address = *req.Address
	}

	if req.Timezone != nil {
		if !timezone.IsValid(*req.Timezone) {
			httperr.BadRequest(c, "invalid_timezone", "Unknown IANA timezone.")
			return
		}
		company.Timezone = *req.Timezone
	}

	if req.SlotAnchorIntervalMinutes != nil {
		v := *req.SlotAnchorIntervalMinutes
		if v <= 0 || v > maxAnchorIntervalMinutes {
			httperr.BadRequest(c, "invalid_anchor_interval", "Anchor interval must be between 1 and 240 minutes.")
			return
		}
		company.SlotAnchorIntervalMinutes = v
	}

	if req.TraineeExtraMinutes != nil {
		if *req.TraineeExtraMinutes < 0 {
			httperr.BadRequest(c, "invalid_trainee_extra", "Trainee extra minutes must be zero or positive.")
			return
		}
		company.TraineeExtraMinutes = *req.TraineeExtraMinutes
	}

	if req.MinAdvanceMinutes != nil {
		if *req.MinAdvanceMinutes < 0 {
			httperr.BadRequest(c, "invalid_min_advance", "Minimum advance must be zero or positive (minutes).")
			return
		}
		company.MinAdvanceMinutes = *req.MinAdvanceMinutes
	}

	if err := h.db.WithContext(c.Request.Context()).Save(company).Error; err != nil {
		writeError(c, err, "failed_to_update_company")
		return
	}

	recordAudit(h.audit, c, "company_updated", "company", &company.ID, req)
	c.JSON(http.StatusOK, company)
}
