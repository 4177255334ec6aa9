package handlers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/BruksfildServices01/company-scheduler/internal/domain/scheduling"
	"github.com/BruksfildServices01/company-scheduler/internal/dto"
	"github.com/BruksfildServices01/company-scheduler/internal/httperr"
	"github.com/BruksfildServices01/company-scheduler/internal/models"
	"github.com/BruksfildServices01/company-scheduler/internal/usecase/availability"
	"github.com/BruksfildServices01/company-scheduler/internal/usecase/reservation"
	"github.com/BruksfildServices01/company-scheduler/internal/validators"
)

////////////////////////////////////////////////////////
// HANDLER
////////////////////////////////////////////////////////

type PublicHandler struct {
	db           *gorm.DB
	repo         scheduling.Repository
	availability *availability.GetAvailableSlots
	reserve      *reservation.ValidateAndReserve
}

func NewPublicHandler(
	db *gorm.DB,
	repo scheduling.Repository,
	availabilityUC *availability.GetAvailableSlots,
	reserveUC *reservation.ValidateAndReserve,
) *PublicHandler {
	return &PublicHandler{
		db:           db,
		repo:         repo,
		availability: availabilityUC,
		reserve:      reserveUC,
	}
}

////////////////////////////////////////////////////////
// DTOs
////////////////////////////////////////////////////////

type PublicCreateReservationRequest struct {
	CustomerName  string `json:"customer_name" binding:"required"`
	CustomerPhone string `json:"customer_phone" binding:"required"`
	CustomerEmail string `json:"customer_email" binding:"omitempty,email"`
	ServiceID     uint   `json:"service_id" binding:"required"`
	WorkerID      *uint  `json:"worker_id"`
	Date          string `json:"date" binding:"required"`       // YYYY-MM-DD
	StartTime     string `json:"start_time" binding:"required"` // HH:mm
	Notes         string `json:"notes" binding:"max=255"`
}

// companyBySlug answers 404 itself when the slug is unknown.
func (h *PublicHandler) companyBySlug(c *gin.Context) (*models.Company, bool) {
	company, err := h.repo.GetCompanyBySlug(c.Request.Context(), c.Param("slug"))
	if errors.Is(err, scheduling.ErrNotFound) {
		httperr.NotFound(c, "company_not_found", businessMessages["company_not_found"])
		return nil, false
	}
	if err != nil {
		writeError(c, err, "failed_to_get_company")
		return nil, false
	}
	return company, true
}

////////////////////////////////////////////////////////
// SERVICES
////////////////////////////////////////////////////////

func (h *PublicHandler) ListServices(c *gin.Context) {
	company, ok := h.companyBySlug(c)
	if !ok {
		return
	}

	category := strings.TrimSpace(strings.ToLower(c.Query("category")))
	query := strings.TrimSpace(strings.ToLower(c.Query("query")))

	q := h.db.WithContext(c.Request.Context()).
		Where("company_id = ? AND is_active = true", company.ID)

	if category != "" {
		q = q.Where("LOWER(category) = ?", category)
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

	c.JSON(http.StatusOK, gin.H{
		"company":  company,
		"services": services,
	})
}

////////////////////////////////////////////////////////
// AVAILABILITY
////////////////////////////////////////////////////////

func (h *PublicHandler) Availability(c *gin.Context) {
	company, ok := h.companyBySlug(c)
	if !ok {
		return
	}

	serviceID, ok := requiredQueryID(c, "service_id")
	if !ok {
		return
	}
	workerID, ok := optionalQueryID(c, "worker_id")
	if !ok {
		return
	}

	date := c.Query("date")
	if date == "" {
		httperr.BadRequest(c, "missing_date", "date is required.")
		return
	}

	out, err := h.availability.Execute(c.Request.Context(), availability.GetAvailableSlotsInput{
		CompanyID:   company.ID,
		ServiceID:   serviceID,
		Date:        date,
		WorkerID:    workerID,
		HideTooSoon: true,
	})
	if err != nil {
		writeError(c, err, "availability_failed")
		return
	}

	c.JSON(http.StatusOK, out)
}

////////////////////////////////////////////////////////
// CREATE RESERVATION
////////////////////////////////////////////////////////

func (h *PublicHandler) CreateReservation(c *gin.Context) {
	company, ok := h.companyBySlug(c)
	if !ok {
		return
	}

	var req PublicCreateReservationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", businessMessages["invalid_request"])
		return
	}

	phone, ok := validators.NormalizePhone(req.CustomerPhone)
	if !ok {
		httperr.BadRequest(c, "invalid_phone", businessMessages["invalid_phone"])
		return
	}

	r, err := h.reserve.Execute(c.Request.Context(), reservation.ReserveInput{
		CompanyID:     company.ID,
		ServiceID:     req.ServiceID,
		WorkerID:      req.WorkerID,
		Date:          req.Date,
		StartTime:     req.StartTime,
		CustomerName:  strings.TrimSpace(req.CustomerName),
		CustomerPhone: phone,
		CustomerEmail: strings.TrimSpace(req.CustomerEmail),
		Notes:         req.Notes,
	})
	if err != nil {
		writeError(c, err, "failed_to_create_reservation")
		return
	}

	c.JSON(http.StatusCreated, dto.NewReservationDTO(*r))
}
