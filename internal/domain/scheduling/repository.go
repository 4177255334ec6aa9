package scheduling

import (
	"context"
	"errors"

	"github.com/BruksfildServices01/company-scheduler/internal/models"
)

// ErrNotFound is returned by lookups of required rows (company, service,
// worker, reservation) that do not exist in the caller's company.
var ErrNotFound = errors.New("not found")

// Repository is the data-access boundary of the scheduling core. Lookups of
// optional rows (working hours, shift) return nil, nil when nothing exists;
// any other error is a storage failure and is propagated as is.
type Repository interface {
	// -------- Company --------
	GetCompanyByID(ctx context.Context, id uint) (*models.Company, error)
	GetCompanyBySlug(ctx context.Context, slug string) (*models.Company, error)

	// -------- Service --------
	GetService(ctx context.Context, companyID uint, serviceID uint) (*models.Service, error)
	ListServiceDurations(ctx context.Context, companyID uint, serviceIDs []uint) (map[uint]int, error)
	UpdateService(ctx context.Context, service *models.Service) error
	// ReviseService stores next as the successor of current in one
	// transaction: next is inserted, current is deactivated and every
	// capability grant of current is copied to next. Reservations keep
	// pointing at current, whose duration never changes. A current that is
	// inactive or no longer at its Version returns ErrNotFound.
	ReviseService(ctx context.Context, current *models.Service, next *models.Service) error

	// -------- Roster --------
	GetWorker(ctx context.Context, companyID uint, workerID uint) (*models.User, error)
	ListWorkers(ctx context.Context, companyID uint) ([]models.User, error)
	ListWorkerServiceAssignments(ctx context.Context, serviceID uint) ([]models.WorkerService, error)

	// -------- Calendar --------
	GetWorkingHours(ctx context.Context, companyID uint, weekday int) (*models.WorkingHours, error)
	ListShiftsForDate(ctx context.Context, companyID uint, date string) ([]models.Shift, error)
	FindShift(ctx context.Context, workerID uint, date string) (*models.Shift, error)
	CreateShift(ctx context.Context, shift *models.Shift) error

	// -------- Customer --------
	GetOrCreateCustomer(ctx context.Context, companyID uint, name, phone, email string) (*models.Customer, error)

	// -------- Reservation --------
	ListActiveReservations(ctx context.Context, companyID uint, date string) ([]models.Reservation, error)
	ListReservationsForDate(ctx context.Context, companyID uint, date string, workerID *uint) ([]models.Reservation, error)
	ListReservationsForWorker(ctx context.Context, companyID uint, workerID uint, from, to string) ([]models.Reservation, error)
	GetReservation(ctx context.Context, companyID uint, reservationID uint) (*models.Reservation, error)
	CreateReservation(ctx context.Context, r *models.Reservation) error
	UpdateReservation(ctx context.Context, r *models.Reservation) error

	// -------- Write serialisation --------
	// WithinWorkerDay runs fn in one transaction that holds the write lock of
	// the (company, worker, date) resource. workerID nil locks the whole
	// company day, which excludes every per-worker writer of that date.
	WithinWorkerDay(ctx context.Context, companyID uint, workerID *uint, date string, fn func(tx Repository) error) error
}
