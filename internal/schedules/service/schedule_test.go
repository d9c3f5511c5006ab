package service

import (
	"context"
	"io"
	"testing"

	scheduleserrors "homecare/internal/schedules/errors"
	"homecare/internal/schedules/validator"
	"homecare/pkg/config"
	apperrors "homecare/pkg/errors"
	"homecare/pkg/logger"
	"homecare/pkg/model"
)

const testStaffID = "507f1f77bcf86cd799439013"

type mockScheduleRepo struct {
	stored   *model.WorkSchedule
	created  *model.WorkSchedule
	replaced []model.DayWindow
}

func (m *mockScheduleRepo) Create(_ context.Context, s *model.WorkSchedule) error {
	s.ID = "507f1f77bcf86cd799439021"
	m.created = s
	return nil
}

func (m *mockScheduleRepo) FindByStaffID(_ context.Context, staffID string) (*model.WorkSchedule, error) {
	if m.stored != nil && m.stored.StaffID == staffID {
		return m.stored, nil
	}
	return nil, scheduleserrors.ErrNotFound
}

func (m *mockScheduleRepo) FindByStaffIDs(_ context.Context, staffIDs []string) ([]*model.WorkSchedule, error) {
	var result []*model.WorkSchedule
	for _, id := range staffIDs {
		if m.stored != nil && m.stored.StaffID == id {
			result = append(result, m.stored)
		}
	}
	return result, nil
}

func (m *mockScheduleRepo) ReplaceDays(_ context.Context, staffID string, days []model.DayWindow) error {
	if m.stored == nil || m.stored.StaffID != staffID {
		return scheduleserrors.ErrNotFound
	}
	m.replaced = days
	return nil
}

func (m *mockScheduleRepo) EnsureIndexes(context.Context) error { return nil }

func newTestService(repo *mockScheduleRepo) ScheduleService {
	log := logger.New(logger.Config{Level: "error", Output: io.Discard})
	cfg := &config.Config{
		DefaultDayStart: "08:00",
		DefaultDayEnd:   "19:00",
		Log:             log,
	}
	return NewScheduleService(repo, validator.NewScheduleValidator(log), cfg)
}

func ptr(s string) *string { return &s }

func fullWeekInput(mutate func(map[string]*model.DayWindowInput)) []model.DayWindowInput {
	byDay := make(map[string]*model.DayWindowInput, len(model.Weekdays))
	for _, day := range model.Weekdays {
		byDay[day] = &model.DayWindowInput{
			Day:       day,
			StartTime: ptr("09:00"),
			EndTime:   ptr("17:00"),
		}
	}
	if mutate != nil {
		mutate(byDay)
	}

	inputs := make([]model.DayWindowInput, 0, len(model.Weekdays))
	for _, day := range model.Weekdays {
		inputs = append(inputs, *byDay[day])
	}
	return inputs
}

func TestUpdateAppliesDefaultHours(t *testing.T) {
	repo := &mockScheduleRepo{stored: model.NewDefaultWorkSchedule(testStaffID)}
	svc := newTestService(repo)

	inputs := fullWeekInput(func(byDay map[string]*model.DayWindowInput) {
		byDay["Tuesday"].StartTime = nil
		byDay["Tuesday"].EndTime = nil
	})

	result, err := svc.Update(context.Background(), testStaffID, inputs)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	window, ok := result.Window("Tuesday")
	if !ok {
		t.Fatal("expected Tuesday window")
	}
	if window.StartTime != "08:00" || window.EndTime != "19:00" {
		t.Errorf("expected configured defaults 08:00-19:00, got %s-%s", window.StartTime, window.EndTime)
	}
	if repo.replaced == nil {
		t.Error("expected days to be persisted")
	}
}

func TestUpdateEmptyStringsMeanNotWorking(t *testing.T) {
	repo := &mockScheduleRepo{stored: model.NewDefaultWorkSchedule(testStaffID)}
	svc := newTestService(repo)

	inputs := fullWeekInput(func(byDay map[string]*model.DayWindowInput) {
		byDay["Sunday"].StartTime = ptr("")
		byDay["Sunday"].EndTime = ptr("")
	})

	result, err := svc.Update(context.Background(), testStaffID, inputs)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	sunday, ok := result.Window("Sunday")
	if !ok {
		t.Fatal("expected Sunday window")
	}
	if sunday.Working() {
		t.Error("expected Sunday to be a non-working day")
	}
}

func TestUpdateValidationFailures(t *testing.T) {
	tests := []struct {
		name   string
		inputs []model.DayWindowInput
	}{
		{
			"wrong entry count",
			fullWeekInput(nil)[:5],
		},
		{
			"duplicate day",
			fullWeekInput(func(byDay map[string]*model.DayWindowInput) {
				byDay["Friday"].Day = "Monday"
			}),
		},
		{
			"start after end",
			fullWeekInput(func(byDay map[string]*model.DayWindowInput) {
				byDay["Wednesday"].StartTime = ptr("18:00")
				byDay["Wednesday"].EndTime = ptr("09:00")
			}),
		},
		{
			"start equal to end",
			fullWeekInput(func(byDay map[string]*model.DayWindowInput) {
				byDay["Wednesday"].StartTime = ptr("09:00")
				byDay["Wednesday"].EndTime = ptr("09:00")
			}),
		},
		{
			"start set without end",
			fullWeekInput(func(byDay map[string]*model.DayWindowInput) {
				byDay["Thursday"].StartTime = ptr("09:00")
				byDay["Thursday"].EndTime = ptr("")
			}),
		},
		{
			"malformed time",
			fullWeekInput(func(byDay map[string]*model.DayWindowInput) {
				byDay["Monday"].StartTime = ptr("9am")
			}),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := &mockScheduleRepo{stored: model.NewDefaultWorkSchedule(testStaffID)}
			svc := newTestService(repo)

			_, err := svc.Update(context.Background(), testStaffID, tt.inputs)
			if err == nil {
				t.Fatal("expected validation error, got nil")
			}
			if got := apperrors.AsAppError(err).Code; got != apperrors.CodeValidation {
				t.Errorf("expected %s, got %s", apperrors.CodeValidation, got)
			}
			if repo.replaced != nil {
				t.Error("invalid input must not be persisted")
			}
		})
	}
}

func TestUpdateScheduleNotFound(t *testing.T) {
	svc := newTestService(&mockScheduleRepo{})

	_, err := svc.Update(context.Background(), testStaffID, fullWeekInput(nil))
	if err == nil {
		t.Fatal("expected error, got nil")
	}
	if got := apperrors.AsAppError(err).Code; got != apperrors.CodeNotFound {
		t.Errorf("expected %s, got %s", apperrors.CodeNotFound, got)
	}
}

func TestCreateDefault(t *testing.T) {
	repo := &mockScheduleRepo{}
	svc := newTestService(repo)

	schedule, err := svc.CreateDefault(context.Background(), testStaffID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(schedule.Days) != 7 {
		t.Fatalf("expected 7 days, got %d", len(schedule.Days))
	}
	for _, day := range schedule.Days {
		if day.Working() {
			t.Errorf("day %s: default schedule must not be working", day.Day)
		}
	}
	if repo.created == nil {
		t.Error("expected schedule to be persisted")
	}
}

func TestGetByStaffIDsKeysByStaff(t *testing.T) {
	stored := model.NewDefaultWorkSchedule(testStaffID)
	svc := newTestService(&mockScheduleRepo{stored: stored})

	result, err := svc.GetByStaffIDs(context.Background(), []string{testStaffID, "staff-2"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(result) != 1 {
		t.Fatalf("expected 1 schedule, got %d", len(result))
	}
	if result[testStaffID] != stored {
		t.Error("expected stored schedule under its staff ID")
	}
}
