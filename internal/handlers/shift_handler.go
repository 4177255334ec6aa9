package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/BruksfildServices01/company-scheduler/internal/audit"
	"github.com/BruksfildServices01/company-scheduler/internal/domain/scheduling"
	"github.com/BruksfildServices01/company-scheduler/internal/httperr"
	"github.com/BruksfildServices01/company-scheduler/internal/models"
	"github.com/BruksfildServices01/company-scheduler/internal/usecase/reservation"
	"github.com/BruksfildServices01/company-scheduler/internal/usecase/schedule"
)

// ======================================================
// HANDLER
// ======================================================

type ShiftHandler struct {
	db          *gorm.DB
	repo        scheduling.Repository
	create      *schedule.CreateShift
	invalidator reservation.Invalidator
	audit       *audit.Dispatcher
	log         *zap.Logger
}

func NewShiftHandler(
	db *gorm.DB,
	repo scheduling.Repository,
	createUC *schedule.CreateShift,
	invalidator reservation.Invalidator,
	audit *audit.Dispatcher,
	log *zap.Logger,
) *ShiftHandler {
	return &ShiftHandler{
		db:          db,
		repo:        repo,
		create:      createUC,
		invalidator: invalidator,
		audit:       audit,
		log:         log,
	}
}

type CreateShiftRequest struct {
	WorkerID  uint                  `json:"worker_id" binding:"required"`
	Date      string                `json:"date" binding:"required"`
	StartTime string                `json:"start_time" binding:"required"`
	EndTime   string                `json:"end_time" binding:"required"`
	Breaks    []schedule.BreakInput `json:"breaks"`
}

// ======================================================
// LIST
// ======================================================

func (h *ShiftHandler) List(c *gin.Context) {
	date := c.Query("date")
	if date == "" {
		httperr.BadRequest(c, "missing_date", "date is required.")
		return
	}

	shifts, err := h.repo.ListShiftsForDate(c.Request.Context(), companyFromContext(c), date)
	if err != nil {
		writeError(c, err, "failed_to_list_shifts")
		return
	}
	if shifts == nil {
		shifts = []models.Shift{}
	}

	c.JSON(http.StatusOK, gin.H{
		"date":   date,
		"shifts": shifts,
	})
}

// ======================================================
// CREATE
// ======================================================

func (h *ShiftHandler) Create(c *gin.Context) {
	var req CreateShiftRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", businessMessages["invalid_request"])
		return
	}

	shift, err := h.create.Execute(c.Request.Context(), schedule.CreateShiftInput{
		CompanyID: companyFromContext(c),
		WorkerID:  req.WorkerID,
		Date:      req.Date,
		StartTime: req.StartTime,
		EndTime:   req.EndTime,
		Breaks:    req.Breaks,
		ActorID:   actorFromContext(c),
	})
	if err != nil {
		writeError(c, err, "failed_to_create_shift")
		return
	}

	c.JSON(http.StatusCreated, shift)
}

// ======================================================
// DELETE
// ======================================================

// Delete removes a shift and its breaks. Reservations already booked on it
// are left alone; availability for the date simply closes for the worker.
func (h *ShiftHandler) Delete(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	companyID := companyFromContext(c)
	ctx := c.Request.Context()

	var shift models.Shift
	err := h.db.WithContext(ctx).
		Where("id = ? AND company_id = ?", id, companyID).
		First(&shift).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		httperr.NotFound(c, "shift_not_found", "Shift not found.")
		return
	}
	if err != nil {
		writeError(c, err, "failed_to_get_shift")
		return
	}

	if err := h.db.WithContext(ctx).Select("Breaks").Delete(&shift).Error; err != nil {
		writeError(c, err, "failed_to_delete_shift")
		return
	}

	reservation.InvalidateDates(ctx, h.invalidator, h.log, companyID, shift.Date)
	recordAudit(h.audit, c, "shift_deleted", "shift", &shift.ID, gin.H{
		"worker_id": shift.WorkerID,
		"date":      shift.Date,
	})

	c.Status(http.StatusNoContent)
}
