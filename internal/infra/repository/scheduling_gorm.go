package repository

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/BruksfildServices01/company-scheduler/internal/domain/scheduling"
	"github.com/BruksfildServices01/company-scheduler/internal/models"
)

type SchedulingGormRepository struct {
	db *gorm.DB
	// locked is set on the copy handed to WithinWorkerDay callbacks; reads
	// of the day's reservations then take row locks.
	locked bool
}

func NewSchedulingGormRepository(db *gorm.DB) *SchedulingGormRepository {
	return &SchedulingGormRepository{db: db}
}

func notFound(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return scheduling.ErrNotFound
	}
	return err
}

// --------------------------------------------------
// Company
// --------------------------------------------------

func (r *SchedulingGormRepository) GetCompanyByID(
	ctx context.Context,
	id uint,
) (*models.Company, error) {

	var company models.Company
	if err := r.db.WithContext(ctx).First(&company, id).Error; err != nil {
		return nil, notFound(err)
	}
	return &company, nil
}

func (r *SchedulingGormRepository) GetCompanyBySlug(
	ctx context.Context,
	slug string,
) (*models.Company, error) {

	var company models.Company
	if err := r.db.WithContext(ctx).
		Where("slug = ?", slug).
		First(&company).Error; err != nil {
		return nil, notFound(err)
	}
	return &company, nil
}

// --------------------------------------------------
// Service
// --------------------------------------------------

func (r *SchedulingGormRepository) GetService(
	ctx context.Context,
	companyID uint,
	serviceID uint,
) (*models.Service, error) {

	var service models.Service
	if err := r.db.WithContext(ctx).
		Where("id = ? AND company_id = ?", serviceID, companyID).
		First(&service).Error; err != nil {
		return nil, notFound(err)
	}
	return &service, nil
}

func (r *SchedulingGormRepository) ListServiceDurations(
	ctx context.Context,
	companyID uint,
	serviceIDs []uint,
) (map[uint]int, error) {

	out := make(map[uint]int, len(serviceIDs))
	if len(serviceIDs) == 0 {
		return out, nil
	}

	var rows []models.Service
	if err := r.db.WithContext(ctx).
		Select("id", "duration_minutes").
		Where("company_id = ? AND id IN ?", companyID, serviceIDs).
		Find(&rows).Error; err != nil {
		return nil, err
	}

	for _, s := range rows {
		out[s.ID] = s.DurationMinutes
	}
	return out, nil
}

func (r *SchedulingGormRepository) UpdateService(
	ctx context.Context,
	service *models.Service,
) error {
	return r.db.WithContext(ctx).Save(service).Error
}

func (r *SchedulingGormRepository) ReviseService(
	ctx context.Context,
	current *models.Service,
	next *models.Service,
) error {

	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&models.Service{}).
			Where("id = ? AND company_id = ? AND version = ? AND is_active = ?",
				current.ID, current.CompanyID, current.Version, true).
			Update("is_active", false)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return scheduling.ErrNotFound
		}

		if err := tx.Create(next).Error; err != nil {
			return err
		}

		return tx.Exec(`
			INSERT INTO worker_services (worker_id, service_id, can_perform, created_at, updated_at)
			SELECT worker_id, ?, can_perform, NOW(), NOW()
			FROM worker_services
			WHERE service_id = ?`,
			next.ID, current.ID,
		).Error
	})
}

// --------------------------------------------------
// Roster
// --------------------------------------------------

func (r *SchedulingGormRepository) GetWorker(
	ctx context.Context,
	companyID uint,
	workerID uint,
) (*models.User, error) {

	var user models.User
	if err := r.db.WithContext(ctx).
		Where("id = ? AND company_id = ?", workerID, companyID).
		First(&user).Error; err != nil {
		return nil, notFound(err)
	}
	return &user, nil
}

func (r *SchedulingGormRepository) ListWorkers(
	ctx context.Context,
	companyID uint,
) ([]models.User, error) {

	var users []models.User
	if err := r.db.WithContext(ctx).
		Where("company_id = ?", companyID).
		Order("id ASC").
		Find(&users).Error; err != nil {
		return nil, err
	}
	return users, nil
}

func (r *SchedulingGormRepository) ListWorkerServiceAssignments(
	ctx context.Context,
	serviceID uint,
) ([]models.WorkerService, error) {

	var grants []models.WorkerService
	if err := r.db.WithContext(ctx).
		Where("service_id = ?", serviceID).
		Find(&grants).Error; err != nil {
		return nil, err
	}
	return grants, nil
}

// --------------------------------------------------
// Calendar
// --------------------------------------------------

func (r *SchedulingGormRepository) GetWorkingHours(
	ctx context.Context,
	companyID uint,
	weekday int,
) (*models.WorkingHours, error) {

	var wh models.WorkingHours
	err := r.db.WithContext(ctx).
		Where("company_id = ? AND weekday = ?", companyID, weekday).
		First(&wh).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &wh, nil
}

func (r *SchedulingGormRepository) ListShiftsForDate(
	ctx context.Context,
	companyID uint,
	date string,
) ([]models.Shift, error) {

	var shifts []models.Shift
	if err := r.db.WithContext(ctx).
		Preload("Breaks", func(db *gorm.DB) *gorm.DB {
			return db.Order("start_time ASC")
		}).
		Where("company_id = ? AND date = ?", companyID, date).
		Order("worker_id ASC, id ASC").
		Find(&shifts).Error; err != nil {
		return nil, err
	}
	return shifts, nil
}

func (r *SchedulingGormRepository) FindShift(
	ctx context.Context,
	workerID uint,
	date string,
) (*models.Shift, error) {

	var shift models.Shift
	err := r.db.WithContext(ctx).
		Preload("Breaks").
		Where("worker_id = ? AND date = ?", workerID, date).
		First(&shift).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &shift, nil
}

func (r *SchedulingGormRepository) CreateShift(
	ctx context.Context,
	shift *models.Shift,
) error {
	return r.db.WithContext(ctx).Create(shift).Error
}

// --------------------------------------------------
// Customer
// --------------------------------------------------

func (r *SchedulingGormRepository) GetOrCreateCustomer(
	ctx context.Context,
	companyID uint,
	name string,
	phone string,
	email string,
) (*models.Customer, error) {

	var customer models.Customer
	err := r.db.WithContext(ctx).
		Where("company_id = ? AND phone = ?", companyID, phone).
		First(&customer).Error

	if err == nil {
		return &customer, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	customer = models.Customer{
		CompanyID: companyID,
		Name:      name,
		Phone:     phone,
		Email:     email,
	}

	// A concurrent booking for another worker may insert the same phone
	// first; the insert then does nothing and the row is read back.
	res := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "company_id"}, {Name: "phone"}},
			DoNothing: true,
		}).
		Create(&customer)
	if res.Error != nil {
		return nil, res.Error
	}
	if res.RowsAffected > 0 {
		return &customer, nil
	}

	customer = models.Customer{}
	if err := r.db.WithContext(ctx).
		Where("company_id = ? AND phone = ?", companyID, phone).
		First(&customer).Error; err != nil {
		return nil, err
	}
	return &customer, nil
}

// --------------------------------------------------
// Reservation
// --------------------------------------------------

func (r *SchedulingGormRepository) ListActiveReservations(
	ctx context.Context,
	companyID uint,
	date string,
) ([]models.Reservation, error) {

	q := r.db.WithContext(ctx).
		Where(
			"company_id = ? AND date = ? AND status IN ?",
			companyID,
			date,
			scheduling.ActiveStatusStrings(),
		).
		Order("start_time ASC, id ASC")

	if r.locked {
		q = q.Clauses(clause.Locking{Strength: "UPDATE"})
	}

	var list []models.Reservation
	if err := q.Find(&list).Error; err != nil {
		return nil, err
	}
	return list, nil
}

func (r *SchedulingGormRepository) ListReservationsForDate(
	ctx context.Context,
	companyID uint,
	date string,
	workerID *uint,
) ([]models.Reservation, error) {

	q := r.db.WithContext(ctx).
		Preload("Service").
		Preload("Customer").
		Preload("Worker").
		Where("company_id = ? AND date = ?", companyID, date)

	if workerID != nil {
		q = q.Where("worker_id = ?", *workerID)
	}

	var list []models.Reservation
	if err := q.Order("start_time ASC, id ASC").Find(&list).Error; err != nil {
		return nil, err
	}
	return list, nil
}

func (r *SchedulingGormRepository) ListReservationsForWorker(
	ctx context.Context,
	companyID uint,
	workerID uint,
	from string,
	to string,
) ([]models.Reservation, error) {

	var list []models.Reservation
	if err := r.db.WithContext(ctx).
		Preload("Service").
		Preload("Customer").
		Where(
			"company_id = ? AND worker_id = ? AND date >= ? AND date <= ?",
			companyID, workerID, from, to,
		).
		Order("date ASC, start_time ASC").
		Find(&list).Error; err != nil {
		return nil, err
	}
	return list, nil
}

func (r *SchedulingGormRepository) GetReservation(
	ctx context.Context,
	companyID uint,
	reservationID uint,
) (*models.Reservation, error) {

	q := r.db.WithContext(ctx).
		Preload("Service").
		Preload("Customer").
		Preload("Worker").
		Where("id = ? AND company_id = ?", reservationID, companyID)

	if r.locked {
		q = q.Clauses(clause.Locking{Strength: "UPDATE", Table: clause.Table{Name: clause.CurrentTable}})
	}

	var res models.Reservation
	if err := q.First(&res).Error; err != nil {
		return nil, notFound(err)
	}
	return &res, nil
}

func (r *SchedulingGormRepository) CreateReservation(
	ctx context.Context,
	res *models.Reservation,
) error {
	return r.db.WithContext(ctx).
		Omit(clause.Associations).
		Create(res).Error
}

func (r *SchedulingGormRepository) UpdateReservation(
	ctx context.Context,
	res *models.Reservation,
) error {
	return r.db.WithContext(ctx).
		Omit(clause.Associations).
		Save(res).Error
}

// --------------------------------------------------
// Write serialisation
// --------------------------------------------------

// WithinWorkerDay takes transaction-scoped advisory locks:
//   - bound writer: shared (company, date) + exclusive (company, worker, date)
//   - unbound writer: exclusive (company, date)
//
// so writers of different workers run in parallel while a company-wide
// writer excludes all of them. The partial unique index on
// (worker_id, date, start_time) backs this up.
func (r *SchedulingGormRepository) WithinWorkerDay(
	ctx context.Context,
	companyID uint,
	workerID *uint,
	date string,
	fn func(tx scheduling.Repository) error,
) error {

	dayKey := fmt.Sprintf("company:%d:%s", companyID, date)

	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if workerID == nil {
			if err := tx.Exec("SELECT pg_advisory_xact_lock(hashtext(?))", dayKey).Error; err != nil {
				return err
			}
		} else {
			workerKey := fmt.Sprintf("worker:%d:%d:%s", companyID, *workerID, date)
			if err := tx.Exec("SELECT pg_advisory_xact_lock_shared(hashtext(?))", dayKey).Error; err != nil {
				return err
			}
			if err := tx.Exec("SELECT pg_advisory_xact_lock(hashtext(?))", workerKey).Error; err != nil {
				return err
			}
		}

		return fn(&SchedulingGormRepository{db: tx, locked: true})
	})
}

// Compile-time check
var _ scheduling.Repository = (*SchedulingGormRepository)(nil)
