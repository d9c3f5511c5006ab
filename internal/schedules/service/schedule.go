package service

import (
	"context"
	"errors"

	scheduleserrors "homecare/internal/schedules/errors"
	"homecare/internal/schedules/repository"
	"homecare/internal/schedules/validator"
	"homecare/pkg/config"
	apperrors "homecare/pkg/errors"
	"homecare/pkg/model"
)

type ScheduleService interface {
	CreateDefault(ctx context.Context, staffID string) (*model.WorkSchedule, error)
	GetByStaffID(ctx context.Context, staffID string) (*model.WorkSchedule, error)
	GetByStaffIDs(ctx context.Context, staffIDs []string) (map[string]*model.WorkSchedule, error)
	Update(ctx context.Context, staffID string, inputs []model.DayWindowInput) (*model.WorkSchedule, error)
}

type scheduleService struct {
	repo      repository.ScheduleRepository
	validator *validator.ScheduleValidator
	cfg       *config.Config
}

func NewScheduleService(
	repo repository.ScheduleRepository,
	validator *validator.ScheduleValidator,
	cfg *config.Config,
) ScheduleService {
	return &scheduleService{
		repo:      repo,
		validator: validator,
		cfg:       cfg,
	}
}

// CreateDefault creates the empty schedule attached to every new staff
// account: all seven days present, none working.
func (s *scheduleService) CreateDefault(ctx context.Context, staffID string) (*model.WorkSchedule, error) {
	if staffID == "" {
		return nil, apperrors.InvalidInput("Staff ID cannot be empty")
	}

	schedule := model.NewDefaultWorkSchedule(staffID)
	if err := s.repo.Create(ctx, schedule); err != nil {
		s.cfg.Log.Error("Failed to create default work schedule", "staff_id", staffID, "error", err)
		return nil, apperrors.Internal("Failed to create work schedule", err)
	}

	s.cfg.Log.Info("Default work schedule created", "staff_id", staffID, "id", schedule.ID)
	return schedule, nil
}

func (s *scheduleService) GetByStaffID(ctx context.Context, staffID string) (*model.WorkSchedule, error) {
	if staffID == "" {
		return nil, apperrors.InvalidInput("Staff ID cannot be empty")
	}

	schedule, err := s.repo.FindByStaffID(ctx, staffID)
	if err != nil {
		return nil, mapRepoError(err, staffID)
	}

	return schedule, nil
}

// GetByStaffIDs returns schedules keyed by staff ID. Staff without a stored
// schedule are absent from the map; callers treat them as not working.
func (s *scheduleService) GetByStaffIDs(ctx context.Context, staffIDs []string) (map[string]*model.WorkSchedule, error) {
	schedules, err := s.repo.FindByStaffIDs(ctx, staffIDs)
	if err != nil {
		s.cfg.Log.Error("Failed to batch-fetch work schedules", "count", len(staffIDs), "error", err)
		return nil, apperrors.Internal("Failed to retrieve work schedules", err)
	}

	byStaff := make(map[string]*model.WorkSchedule, len(schedules))
	for _, sched := range schedules {
		byStaff[sched.StaffID] = sched
	}
	return byStaff, nil
}

// Update replaces the whole weekly schedule. A nil start or end time in an
// entry falls back to the configured default working hours; explicit empty
// strings mark the day as not working.
func (s *scheduleService) Update(ctx context.Context, staffID string, inputs []model.DayWindowInput) (*model.WorkSchedule, error) {
	if staffID == "" {
		return nil, apperrors.InvalidInput("Staff ID cannot be empty")
	}
	if err := s.validator.ValidateInput(inputs); err != nil {
		s.cfg.Log.Warn("Schedule update validation failed", "staff_id", staffID, "error", err)
		return nil, apperrors.Validation("Invalid schedule input", map[string]any{"error": err.Error()})
	}

	existing, err := s.repo.FindByStaffID(ctx, staffID)
	if err != nil {
		return nil, mapRepoError(err, staffID)
	}

	days := s.resolveDays(inputs)
	resolved := &model.WorkSchedule{
		ID:        existing.ID,
		StaffID:   staffID,
		Days:      days,
		CreatedAt: existing.CreatedAt,
	}
	if err := s.validator.Validate(resolved); err != nil {
		s.cfg.Log.Warn("Schedule validation failed", "staff_id", staffID, "error", err)
		return nil, apperrors.Validation("Invalid schedule", map[string]any{"error": err.Error()})
	}

	if err := s.repo.ReplaceDays(ctx, staffID, days); err != nil {
		s.cfg.Log.Error("Failed to update work schedule", "staff_id", staffID, "error", err)
		return nil, mapRepoError(err, staffID)
	}

	s.cfg.Log.Info("Work schedule updated", "staff_id", staffID)
	return resolved, nil
}

func (s *scheduleService) resolveDays(inputs []model.DayWindowInput) []model.DayWindow {
	days := make([]model.DayWindow, 0, len(inputs))
	for _, in := range inputs {
		day := model.DayWindow{Day: in.Day}

		if in.StartTime == nil {
			day.StartTime = s.cfg.DefaultDayStart
		} else {
			day.StartTime = *in.StartTime
		}
		if in.EndTime == nil {
			day.EndTime = s.cfg.DefaultDayEnd
		} else {
			day.EndTime = *in.EndTime
		}

		days = append(days, day)
	}
	return days
}

func mapRepoError(err error, staffID string) error {
	if errors.Is(err, scheduleserrors.ErrNotFound) {
		return apperrors.NotFoundWithID("Work schedule", staffID)
	}
	if errors.Is(err, scheduleserrors.ErrInvalidID) {
		return apperrors.InvalidInput("Invalid staff ID format")
	}
	if apperrors.IsAppError(err) {
		return err
	}
	return apperrors.Internal("Failed to access work schedule", err)
}
