package catalog

import (
	"context"
	"errors"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/BruksfildServices01/company-scheduler/internal/audit"
	"github.com/BruksfildServices01/company-scheduler/internal/domain/scheduling"
	"github.com/BruksfildServices01/company-scheduler/internal/httperr"
	"github.com/BruksfildServices01/company-scheduler/internal/models"
)

// ======================================================
// INPUT
// ======================================================

type UpdateServiceInput struct {
	CompanyID uint
	ServiceID uint
	ActorID   *uint

	Name            *string
	Description     *string
	DurationMinutes *int
	Price           *float64
	Category        *string
	IsActive        *bool
}

// ======================================================
// USE CASE
// ======================================================

// UpdateService edits a service. Descriptive fields change in place; a new
// duration produces a new version row so booked windows never move.
type UpdateService struct {
	repo  scheduling.Repository
	audit *audit.Dispatcher
	log   *zap.Logger
}

func NewUpdateService(
	repo scheduling.Repository,
	audit *audit.Dispatcher,
	log *zap.Logger,
) *UpdateService {
	return &UpdateService{
		repo:  repo,
		audit: audit,
		log:   log,
	}
}

func (uc *UpdateService) Execute(
	ctx context.Context,
	in UpdateServiceInput,
) (*models.Service, error) {

	current, err := uc.repo.GetService(ctx, in.CompanyID, in.ServiceID)
	if errors.Is(err, scheduling.ErrNotFound) {
		return nil, httperr.ErrBusiness("service_not_found")
	}
	if err != nil {
		return nil, err
	}

	// --------------------------------------------------
	// 1. Apply + validate
	// --------------------------------------------------
	next := *current

	if in.Name != nil {
		next.Name = strings.TrimSpace(*in.Name)
		if next.Name == "" {
			return nil, httperr.ErrBusiness("invalid_name")
		}
	}
	if in.Description != nil {
		next.Description = *in.Description
	}
	if in.Price != nil {
		if *in.Price < 0 {
			return nil, httperr.ErrBusiness("invalid_price")
		}
		next.Price = *in.Price
	}
	if in.Category != nil {
		next.Category = strings.ToLower(strings.TrimSpace(*in.Category))
	}
	if in.IsActive != nil {
		next.IsActive = *in.IsActive
	}

	revise := in.DurationMinutes != nil && *in.DurationMinutes != current.DurationMinutes
	if revise {
		if err := scheduling.ValidateServiceDuration(*in.DurationMinutes); err != nil {
			return nil, err
		}
		if !current.IsActive {
			return nil, httperr.ErrBusiness("service_inactive")
		}
		next.DurationMinutes = *in.DurationMinutes
	}

	// --------------------------------------------------
	// 2. Persist
	// --------------------------------------------------
	if !revise {
		if err := uc.repo.UpdateService(ctx, &next); err != nil {
			return nil, err
		}
		uc.record(in, "service_updated", &next, nil)
		return &next, nil
	}

	next.ID = 0
	next.Version = current.Version + 1
	next.IsActive = true
	next.CreatedAt, next.UpdatedAt = time.Time{}, time.Time{}

	if err := uc.repo.ReviseService(ctx, current, &next); err != nil {
		if errors.Is(err, scheduling.ErrNotFound) {
			return nil, httperr.ErrBusiness("service_not_found")
		}
		return nil, err
	}

	uc.log.Info("service revised",
		zap.Uint("company_id", in.CompanyID),
		zap.Uint("previous_id", current.ID),
		zap.Uint("service_id", next.ID),
		zap.Int("version", next.Version),
	)
	uc.record(in, "service_revised", &next, map[string]any{
		"previous_id":      current.ID,
		"duration_minutes": next.DurationMinutes,
	})
	return &next, nil
}

func (uc *UpdateService) record(in UpdateServiceInput, action string, s *models.Service, meta any) {
	uc.audit.Dispatch(audit.Event{
		CompanyID: in.CompanyID,
		UserID:    in.ActorID,
		Action:    action,
		Entity:    "service",
		EntityID:  &s.ID,
		Metadata:  meta,
	})
}
