package service

import (
	"context"
	"io"
	"testing"
	"time"

	"homecare/pkg/config"
	"homecare/pkg/logger"
	"homecare/pkg/model"
)

type mockStaffFinder struct {
	findFn func(ctx context.Context, serviceID, address string) ([]*model.Account, error)
}

func (m *mockStaffFinder) FindActiveStaffByService(ctx context.Context, serviceID, address string) ([]*model.Account, error) {
	return m.findFn(ctx, serviceID, address)
}

type mockScheduleFinder struct {
	schedules map[string]*model.WorkSchedule
}

func (m *mockScheduleFinder) GetByStaffIDs(_ context.Context, staffIDs []string) (map[string]*model.WorkSchedule, error) {
	result := make(map[string]*model.WorkSchedule)
	for _, id := range staffIDs {
		if s, ok := m.schedules[id]; ok {
			result[id] = s
		}
	}
	return result, nil
}

type mockFavoriteFinder struct {
	set map[string]bool
}

func (m *mockFavoriteFinder) StaffIDSet(context.Context, string) (map[string]bool, error) {
	return m.set, nil
}

func testConfig() *config.Config {
	return &config.Config{
		Log: logger.New(logger.Config{Level: "error", Output: io.Discard}),
	}
}

func weekdaySchedule(staffID, start, end string) *model.WorkSchedule {
	ws := model.NewDefaultWorkSchedule(staffID)
	for i := range ws.Days {
		switch ws.Days[i].Day {
		case "Saturday", "Sunday":
		default:
			ws.Days[i].StartTime = start
			ws.Days[i].EndTime = end
		}
	}
	return ws
}

func staffAccount(id string) *model.Account {
	return &model.Account{
		ID:         id,
		Name:       "Staff " + id,
		Email:      id + "@example.com",
		Role:       model.RoleStaff,
		ServiceIDs: []string{"svc-1"},
		Active:     true,
	}
}

// 2026-03-02 is a Monday.
func mondayAt(hhmm string) time.Time {
	t, err := time.Parse("2006-01-02 15:04", "2026-03-02 "+hhmm)
	if err != nil {
		panic(err)
	}
	return t
}

func TestFindAvailableStaffWindowBoundaries(t *testing.T) {
	staff := []*model.Account{staffAccount("a")}
	svc := NewAvailabilityService(
		&mockStaffFinder{findFn: func(context.Context, string, string) ([]*model.Account, error) {
			return staff, nil
		}},
		&mockScheduleFinder{schedules: map[string]*model.WorkSchedule{
			"a": weekdaySchedule("a", "09:00", "17:00"),
		}},
		&mockFavoriteFinder{set: map[string]bool{}},
		testConfig(),
	)

	tests := []struct {
		name      string
		at        time.Time
		available bool
	}{
		{"one minute before start", mondayAt("08:59"), false},
		{"exactly at start", mondayAt("09:00"), true},
		{"middle of window", mondayAt("12:30"), true},
		{"one minute before end", mondayAt("16:59"), true},
		{"exactly at end", mondayAt("17:00"), false},
		{"after end", mondayAt("18:00"), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := svc.FindAvailableStaff(context.Background(), "svc-1", "", "", tt.at)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got := len(result) == 1; got != tt.available {
				t.Errorf("available = %v, want %v", got, tt.available)
			}
		})
	}
}

func TestFindAvailableStaffSkipsNonWorkingDay(t *testing.T) {
	svc := NewAvailabilityService(
		&mockStaffFinder{findFn: func(context.Context, string, string) ([]*model.Account, error) {
			return []*model.Account{staffAccount("a")}, nil
		}},
		&mockScheduleFinder{schedules: map[string]*model.WorkSchedule{
			"a": weekdaySchedule("a", "09:00", "17:00"),
		}},
		&mockFavoriteFinder{set: map[string]bool{}},
		testConfig(),
	)

	// 2026-03-07 is a Saturday; the fixture schedule leaves weekends empty.
	saturday, _ := time.Parse("2006-01-02 15:04", "2026-03-07 12:00")
	result, err := svc.FindAvailableStaff(context.Background(), "svc-1", "", "", saturday)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(result) != 0 {
		t.Errorf("expected no staff on a non-working day, got %d", len(result))
	}
}

func TestFindAvailableStaffSkipsMissingSchedule(t *testing.T) {
	svc := NewAvailabilityService(
		&mockStaffFinder{findFn: func(context.Context, string, string) ([]*model.Account, error) {
			return []*model.Account{staffAccount("a"), staffAccount("b")}, nil
		}},
		&mockScheduleFinder{schedules: map[string]*model.WorkSchedule{
			"a": weekdaySchedule("a", "09:00", "17:00"),
		}},
		&mockFavoriteFinder{set: map[string]bool{}},
		testConfig(),
	)

	result, err := svc.FindAvailableStaff(context.Background(), "svc-1", "", "", mondayAt("10:00"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(result) != 1 || result[0].ID != "a" {
		t.Fatalf("expected only staff a, got %d results", len(result))
	}
}

func TestFindAvailableStaffFavoritesFirst(t *testing.T) {
	svc := NewAvailabilityService(
		&mockStaffFinder{findFn: func(context.Context, string, string) ([]*model.Account, error) {
			return []*model.Account{
				staffAccount("a"), staffAccount("b"), staffAccount("c"), staffAccount("d"),
			}, nil
		}},
		&mockScheduleFinder{schedules: map[string]*model.WorkSchedule{
			"a": weekdaySchedule("a", "09:00", "17:00"),
			"b": weekdaySchedule("b", "09:00", "17:00"),
			"c": weekdaySchedule("c", "09:00", "17:00"),
			"d": weekdaySchedule("d", "09:00", "17:00"),
		}},
		&mockFavoriteFinder{set: map[string]bool{"b": true, "d": true}},
		testConfig(),
	)

	result, err := svc.FindAvailableStaff(context.Background(), "svc-1", "cust-1", "", mondayAt("10:00"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	wantOrder := []string{"b", "d", "a", "c"}
	if len(result) != len(wantOrder) {
		t.Fatalf("expected %d staff, got %d", len(wantOrder), len(result))
	}
	for i, want := range wantOrder {
		if result[i].ID != want {
			t.Errorf("position %d: expected %s, got %s", i, want, result[i].ID)
		}
	}

	if !result[0].IsFavorite || result[2].IsFavorite {
		t.Error("IsFavorite flags do not match the expected grouping")
	}
}

func TestFindAvailableStaffRequiresServiceID(t *testing.T) {
	svc := NewAvailabilityService(
		&mockStaffFinder{findFn: func(context.Context, string, string) ([]*model.Account, error) {
			t.Fatal("staff finder must not be called")
			return nil, nil
		}},
		&mockScheduleFinder{},
		&mockFavoriteFinder{},
		testConfig(),
	)

	if _, err := svc.FindAvailableStaff(context.Background(), "", "", "", mondayAt("10:00")); err == nil {
		t.Fatal("expected error for empty service ID")
	}
}
