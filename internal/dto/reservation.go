package dto

import (
	"time"

	"github.com/BruksfildServices01/company-scheduler/internal/models"
)

// ReservationDTO is the agenda view of a reservation. Names are filled when
// the relations were loaded.
type ReservationDTO struct {
	ID        uint   `json:"id"`
	Code      string `json:"code"`
	Date      string `json:"date"`
	StartTime string `json:"start_time"`
	EndTime   string `json:"end_time"`
	Status    string `json:"status"`
	Notes     string `json:"notes,omitempty"`

	ServiceID   uint   `json:"service_id"`
	ServiceName string `json:"service_name,omitempty"`

	WorkerID   *uint  `json:"worker_id"`
	WorkerName string `json:"worker_name,omitempty"`

	CustomerID    uint   `json:"customer_id"`
	CustomerName  string `json:"customer_name,omitempty"`
	CustomerPhone string `json:"customer_phone,omitempty"`

	CreatedAt time.Time `json:"created_at"`
}

func NewReservationDTO(r models.Reservation) ReservationDTO {
	out := ReservationDTO{
		ID:            r.ID,
		Code:          r.Code,
		Date:          r.Date,
		StartTime:     r.StartTime,
		EndTime:       r.EndTime,
		Status:        r.Status,
		Notes:         r.Notes,
		ServiceID:     r.ServiceID,
		ServiceName:   r.Service.Name,
		WorkerID:      r.WorkerID,
		CustomerID:    r.CustomerID,
		CustomerName:  r.Customer.Name,
		CustomerPhone: r.Customer.Phone,
		CreatedAt:     r.CreatedAt,
	}
	if r.Worker != nil {
		out.WorkerName = r.Worker.Name
	}
	return out
}

func NewReservationList(list []models.Reservation) []ReservationDTO {
	out := make([]ReservationDTO, 0, len(list))
	for _, r := range list {
		out = append(out, NewReservationDTO(r))
	}
	return out
}
