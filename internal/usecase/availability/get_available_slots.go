package availability

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"go.uber.org/zap"

	"github.com/BruksfildServices01/company-scheduler/internal/cache"
	"github.com/BruksfildServices01/company-scheduler/internal/domain/scheduling"
	"github.com/BruksfildServices01/company-scheduler/internal/httperr"
	"github.com/BruksfildServices01/company-scheduler/internal/metrics"
	"github.com/BruksfildServices01/company-scheduler/internal/models"
	"github.com/BruksfildServices01/company-scheduler/internal/timezone"
)

// ======================================================
// INPUT / OUTPUT
// ======================================================

type GetAvailableSlotsInput struct {
	CompanyID uint
	ServiceID uint
	Date      string
	WorkerID  *uint

	// HideTooSoon drops slots that start inside the company's minimum
	// advance window. Public booking pages set it.
	HideTooSoon bool
}

type SlotOutput struct {
	StartTime       string                      `json:"start_time"`
	EndTime         string                      `json:"end_time"`
	EligibleWorkers []scheduling.EligibleWorker `json:"eligible_workers"`
}

type WorkingHoursOutput struct {
	Start string `json:"start"`
	End   string `json:"end"`
}

type GetAvailableSlotsOutput struct {
	Date            string              `json:"date"`
	ServiceID       uint                `json:"service_id"`
	ServiceDuration int                 `json:"service_duration"`
	WorkingHours    *WorkingHoursOutput `json:"working_hours"`
	Slots           []SlotOutput        `json:"slots"`
}

// SlotCache stores serialized outputs. Failures are logged and ignored.
type SlotCache interface {
	Get(ctx context.Context, k cache.Key) ([]byte, bool, error)
	Set(ctx context.Context, k cache.Key, payload []byte) error
}

// ======================================================
// USE CASE
// ======================================================

type GetAvailableSlots struct {
	repo  scheduling.Repository
	cache SlotCache
	log   *zap.Logger
	now   func() time.Time
}

// NewGetAvailableSlots: slotCache may be nil.
func NewGetAvailableSlots(
	repo scheduling.Repository,
	slotCache SlotCache,
	log *zap.Logger,
) *GetAvailableSlots {
	return &GetAvailableSlots{
		repo:  repo,
		cache: slotCache,
		log:   log,
		now:   time.Now,
	}
}

// ======================================================
// EXECUTE
// ======================================================

func (uc *GetAvailableSlots) Execute(
	ctx context.Context,
	in GetAvailableSlotsInput,
) (*GetAvailableSlotsOutput, error) {

	// --------------------------------------------------
	// 1. Company + date in the company timezone
	// --------------------------------------------------
	company, err := uc.repo.GetCompanyByID(ctx, in.CompanyID)
	if err != nil {
		if errors.Is(err, scheduling.ErrNotFound) {
			return nil, httperr.ErrBusiness("company_not_found")
		}
		return nil, err
	}

	loc := timezone.Location(company.Timezone)
	date, err := scheduling.ParseDate(in.Date, loc)
	if err != nil {
		return nil, httperr.ErrBusiness("invalid_date")
	}

	out, err := uc.compute(ctx, company, in, date)
	if err != nil {
		metrics.IncAvailability("error")
		return nil, err
	}

	// --------------------------------------------------
	// 2. Minimum advance (applied after caching, depends on now)
	// --------------------------------------------------
	if in.HideTooSoon {
		out = hideTooSoon(out, date, uc.now().In(loc), company.MinAdvanceMinutes)
	}

	metrics.AddSlots(len(out.Slots))
	return out, nil
}

func (uc *GetAvailableSlots) compute(
	ctx context.Context,
	company *models.Company,
	in GetAvailableSlotsInput,
	date time.Time,
) (*GetAvailableSlotsOutput, error) {

	key := cache.Key{
		CompanyID: company.ID,
		ServiceID: in.ServiceID,
		Date:      date.Format(scheduling.DateLayout),
		WorkerID:  in.WorkerID,
	}
	if out, ok := uc.fromCache(ctx, key); ok {
		metrics.IncAvailability("cached")
		return out, nil
	}

	started := time.Now()

	// --------------------------------------------------
	// Service
	// --------------------------------------------------
	service, err := uc.repo.GetService(ctx, company.ID, in.ServiceID)
	if err != nil {
		if errors.Is(err, scheduling.ErrNotFound) {
			return nil, httperr.ErrBusiness("service_not_found")
		}
		return nil, err
	}
	if !service.IsActive {
		return nil, httperr.ErrBusiness("service_not_found")
	}

	// --------------------------------------------------
	// Bulk load + engine
	// --------------------------------------------------
	day, err := scheduling.LoadDay(ctx, uc.repo, company, service.ID, date)
	if err != nil {
		return nil, err
	}
	LogDiagnostics(uc.log, company.ID, day)

	spec := scheduling.ServiceSpec{ID: service.ID, DurationMinutes: service.DurationMinutes}
	slots := scheduling.ComputeSlots(day, spec, in.WorkerID)

	out := &GetAvailableSlotsOutput{
		Date:            key.Date,
		ServiceID:       service.ID,
		ServiceDuration: service.DurationMinutes,
		Slots:           make([]SlotOutput, 0, len(slots)),
	}
	if window, open := day.WorkingWindow(); open {
		out.WorkingHours = &WorkingHoursOutput{
			Start: window.Start.String(),
			End:   window.End.String(),
		}
		metrics.IncAvailability("ok")
	} else {
		metrics.IncAvailability("closed")
	}
	for _, s := range slots {
		out.Slots = append(out.Slots, SlotOutput{
			StartTime:       s.Start.String(),
			EndTime:         s.End.String(),
			EligibleWorkers: s.EligibleWorkers,
		})
	}

	metrics.ObserveAvailability(time.Since(started).Seconds())
	uc.toCache(ctx, key, out)
	return out, nil
}

// ======================================================
// CACHE
// ======================================================

func (uc *GetAvailableSlots) fromCache(ctx context.Context, key cache.Key) (*GetAvailableSlotsOutput, bool) {
	if uc.cache == nil {
		return nil, false
	}

	payload, found, err := uc.cache.Get(ctx, key)
	if err != nil {
		uc.log.Warn("availability cache read failed", zap.Error(err))
		return nil, false
	}
	if !found {
		return nil, false
	}

	var out GetAvailableSlotsOutput
	if err := json.Unmarshal(payload, &out); err != nil {
		uc.log.Warn("availability cache entry unreadable", zap.Error(err))
		return nil, false
	}
	return &out, true
}

func (uc *GetAvailableSlots) toCache(ctx context.Context, key cache.Key, out *GetAvailableSlotsOutput) {
	if uc.cache == nil {
		return
	}

	payload, err := json.Marshal(out)
	if err != nil {
		return
	}
	if err := uc.cache.Set(ctx, key, payload); err != nil {
		uc.log.Warn("availability cache write failed", zap.Error(err))
	}
}

// ======================================================
// HELPERS
// ======================================================

func hideTooSoon(
	out *GetAvailableSlotsOutput,
	date time.Time,
	now time.Time,
	minAdvanceMinutes int,
) *GetAvailableSlotsOutput {

	if minAdvanceMinutes < 0 {
		minAdvanceMinutes = 0
	}
	earliest := now.Add(time.Duration(minAdvanceMinutes) * time.Minute)

	filtered := *out
	filtered.Slots = make([]SlotOutput, 0, len(out.Slots))
	for _, s := range out.Slots {
		start, err := scheduling.ParseClock(s.StartTime)
		if err != nil {
			continue
		}
		if start.On(date).Before(earliest) {
			continue
		}
		filtered.Slots = append(filtered.Slots, s)
	}
	return &filtered
}

// LogDiagnostics reports the data invariant violations found while building
// a day. The affected workers have already been treated as unavailable.
func LogDiagnostics(log *zap.Logger, companyID uint, day *scheduling.Day) {
	for _, d := range day.Diagnostics() {
		metrics.IncDiagnostic(string(d.Kind))
		log.Warn("scheduling data invariant violated",
			zap.Uint("company_id", companyID),
			zap.String("kind", string(d.Kind)),
			zap.String("date", d.Date),
			zap.Uint("worker_id", d.WorkerID),
			zap.Uint("ref_id", d.RefID),
			zap.String("detail", d.Detail),
		)
	}
}
