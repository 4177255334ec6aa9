package handlers

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/BruksfildServices01/company-scheduler/internal/domain/scheduling"
	"github.com/BruksfildServices01/company-scheduler/internal/dto"
	"github.com/BruksfildServices01/company-scheduler/internal/httperr"
	"github.com/BruksfildServices01/company-scheduler/internal/usecase/availability"
	"github.com/BruksfildServices01/company-scheduler/internal/usecase/reservation"
	"github.com/BruksfildServices01/company-scheduler/internal/validators"
)

// ======================================================
// HANDLER
// ======================================================

type ReservationHandler struct {
	availability *availability.GetAvailableSlots
	reserve      *reservation.ValidateAndReserve
	reschedule   *reservation.Reschedule
	transition   *reservation.Transition
	claim        *reservation.ClaimReservation
	listByDate   *reservation.ListByDate
	listByMonth  *reservation.ListByMonth
}

func NewReservationHandler(
	availabilityUC *availability.GetAvailableSlots,
	reserveUC *reservation.ValidateAndReserve,
	rescheduleUC *reservation.Reschedule,
	transitionUC *reservation.Transition,
	claimUC *reservation.ClaimReservation,
	listByDateUC *reservation.ListByDate,
	listByMonthUC *reservation.ListByMonth,
) *ReservationHandler {
	return &ReservationHandler{
		availability: availabilityUC,
		reserve:      reserveUC,
		reschedule:   rescheduleUC,
		transition:   transitionUC,
		claim:        claimUC,
		listByDate:   listByDateUC,
		listByMonth:  listByMonthUC,
	}
}

// ======================================================
// REQUESTS
// ======================================================

type CreateReservationRequest struct {
	CustomerName  string `json:"customer_name" binding:"required"`
	CustomerPhone string `json:"customer_phone" binding:"required"`
	CustomerEmail string `json:"customer_email" binding:"omitempty,email"`
	ServiceID     uint   `json:"service_id" binding:"required"`
	WorkerID      *uint  `json:"worker_id"`
	Date          string `json:"date" binding:"required"`
	StartTime     string `json:"start_time" binding:"required"`
	Notes         string `json:"notes" binding:"max=255"`
}

type RescheduleRequest struct {
	Date      string `json:"date" binding:"required"`
	StartTime string `json:"start_time" binding:"required"`
	WorkerID  *uint  `json:"worker_id"`
}

type ClaimRequest struct {
	// WorkerID defaults to the authenticated member.
	WorkerID *uint `json:"worker_id"`
}

// ======================================================
// AVAILABILITY
// ======================================================

// Availability is the staff view: slots inside the minimum advance window
// are kept.
func (h *ReservationHandler) Availability(c *gin.Context) {
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
		CompanyID: companyFromContext(c),
		ServiceID: serviceID,
		Date:      date,
		WorkerID:  workerID,
	})
	if err != nil {
		writeError(c, err, "availability_failed")
		return
	}

	c.JSON(http.StatusOK, out)
}

// ======================================================
// CREATE
// ======================================================

func (h *ReservationHandler) Create(c *gin.Context) {
	var req CreateReservationRequest
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
		CompanyID:     companyFromContext(c),
		ServiceID:     req.ServiceID,
		WorkerID:      req.WorkerID,
		Date:          req.Date,
		StartTime:     req.StartTime,
		CustomerName:  strings.TrimSpace(req.CustomerName),
		CustomerPhone: phone,
		CustomerEmail: strings.TrimSpace(req.CustomerEmail),
		Notes:         req.Notes,
		ActorID:       actorFromContext(c),
	})
	if err != nil {
		writeError(c, err, "failed_to_create_reservation")
		return
	}

	c.JSON(http.StatusCreated, dto.NewReservationDTO(*r))
}

// ======================================================
// LIST
// ======================================================

func (h *ReservationHandler) ListByDate(c *gin.Context) {
	date := c.Query("date")
	if date == "" {
		httperr.BadRequest(c, "missing_date", "date is required.")
		return
	}

	workerID, ok := optionalQueryID(c, "worker_id")
	if !ok {
		return
	}

	list, err := h.listByDate.Execute(c.Request.Context(), companyFromContext(c), date, workerID)
	if err != nil {
		writeError(c, err, "failed_to_list_reservations")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"date":         date,
		"reservations": dto.NewReservationList(list),
	})
}

// ListByMonth lists one worker's month; worker_id defaults to the caller.
func (h *ReservationHandler) ListByMonth(c *gin.Context) {
	year, err := strconv.Atoi(c.Query("year"))
	if err != nil {
		httperr.BadRequest(c, "invalid_year", "Invalid year.")
		return
	}
	month, err := strconv.Atoi(c.Query("month"))
	if err != nil {
		httperr.BadRequest(c, "invalid_month", "Invalid month.")
		return
	}

	workerID, ok := optionalQueryID(c, "worker_id")
	if !ok {
		return
	}
	if workerID == nil {
		workerID = actorFromContext(c)
	}
	if workerID == nil {
		httperr.BadRequest(c, "missing_worker_id", "worker_id is required.")
		return
	}

	list, err := h.listByMonth.Execute(c.Request.Context(), companyFromContext(c), *workerID, year, month)
	if err != nil {
		writeError(c, err, "failed_to_list_reservations")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"year":         year,
		"month":        month,
		"worker_id":    *workerID,
		"reservations": dto.NewReservationList(list),
	})
}

// ======================================================
// STATUS
// ======================================================

// Transition returns the PATCH handler for one status action.
func (h *ReservationHandler) Transition(action scheduling.Action) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := pathID(c, "id")
		if !ok {
			return
		}

		r, err := h.transition.Execute(
			c.Request.Context(),
			companyFromContext(c),
			id,
			action,
			actorFromContext(c),
		)
		if err != nil {
			writeError(c, err, "failed_to_update_reservation")
			return
		}

		c.JSON(http.StatusOK, dto.NewReservationDTO(*r))
	}
}

func (h *ReservationHandler) Claim(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	var req ClaimRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			httperr.BadRequest(c, "invalid_request", businessMessages["invalid_request"])
			return
		}
	}

	workerID := req.WorkerID
	if workerID == nil {
		workerID = actorFromContext(c)
	}
	if workerID == nil {
		httperr.BadRequest(c, "missing_worker_id", "worker_id is required.")
		return
	}

	r, err := h.claim.Execute(c.Request.Context(), companyFromContext(c), id, *workerID)
	if err != nil {
		writeError(c, err, "failed_to_claim_reservation")
		return
	}

	c.JSON(http.StatusOK, dto.NewReservationDTO(*r))
}

func (h *ReservationHandler) Reschedule(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	var req RescheduleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", businessMessages["invalid_request"])
		return
	}

	r, err := h.reschedule.Execute(c.Request.Context(), reservation.RescheduleInput{
		CompanyID:     companyFromContext(c),
		ReservationID: id,
		Date:          req.Date,
		StartTime:     req.StartTime,
		WorkerID:      req.WorkerID,
		ActorID:       actorFromContext(c),
	})
	if err != nil {
		writeError(c, err, "failed_to_reschedule_reservation")
		return
	}

	c.JSON(http.StatusOK, dto.NewReservationDTO(*r))
}
