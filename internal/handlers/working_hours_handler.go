package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/BruksfildServices01/company-scheduler/internal/audit"
	"github.com/BruksfildServices01/company-scheduler/internal/domain/scheduling"
	"github.com/BruksfildServices01/company-scheduler/internal/httperr"
	"github.com/BruksfildServices01/company-scheduler/internal/models"
)

type WorkingHoursHandler struct {
	db    *gorm.DB
	audit *audit.Dispatcher
}

func NewWorkingHoursHandler(db *gorm.DB, audit *audit.Dispatcher) *WorkingHoursHandler {
	return &WorkingHoursHandler{db: db, audit: audit}
}

type WorkingDayConfig struct {
	Weekday   int    `json:"weekday" binding:"min=0,max=6"`
	Active    bool   `json:"active"`
	StartTime string `json:"start_time"`
	EndTime   string `json:"end_time"`
}

type WorkingHoursUpdateRequest struct {
	Days []WorkingDayConfig `json:"days" binding:"required,dive"`
}

func (h *WorkingHoursHandler) Get(c *gin.Context) {
	var hours []models.WorkingHours
	if err := h.db.WithContext(c.Request.Context()).
		Where("company_id = ?", companyFromContext(c)).
		Order("weekday ASC").
		Find(&hours).Error; err != nil {
		writeError(c, err, "failed_to_get_working_hours")
		return
	}

	c.JSON(http.StatusOK, hours)
}

// Update replaces the whole week. Times are stored normalised to HH:mm.
func (h *WorkingHoursHandler) Update(c *gin.Context) {
	companyID := companyFromContext(c)

	var req WorkingHoursUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", businessMessages["invalid_request"])
		return
	}

	days := make([]scheduling.WorkingDay, 0, len(req.Days))
	for _, d := range req.Days {
		days = append(days, scheduling.WorkingDay{
			Weekday:   d.Weekday,
			Active:    d.Active,
			StartTime: d.StartTime,
			EndTime:   d.EndTime,
		})
	}
	if err := scheduling.ValidateWorkingWeek(days); err != nil {
		writeError(c, err, "invalid_working_hours")
		return
	}

	toCreate := make([]models.WorkingHours, 0, len(req.Days))
	for _, d := range req.Days {
		wh := models.WorkingHours{
			CompanyID: companyID,
			Weekday:   d.Weekday,
			Active:    d.Active,
		}
		if d.Active {
			window, _ := scheduling.ParseInterval(d.StartTime, d.EndTime)
			wh.StartTime = window.Start.String()
			wh.EndTime = window.End.String()
		}
		toCreate = append(toCreate, wh)
	}

	err := h.db.WithContext(c.Request.Context()).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("company_id = ?", companyID).Delete(&models.WorkingHours{}).Error; err != nil {
			return err
		}
		if len(toCreate) == 0 {
			return nil
		}
		return tx.Create(&toCreate).Error
	})
	if err != nil {
		writeError(c, err, "failed_to_save_working_hours")
		return
	}

	recordAudit(h.audit, c, "working_hours_updated", "working_hours", nil, req.Days)
	c.JSON(http.StatusOK, toCreate)
}
