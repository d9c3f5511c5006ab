package service

import (
	"context"
	"sort"
	"time"

	"homecare/pkg/config"
	apperrors "homecare/pkg/errors"
	"homecare/pkg/model"
	"homecare/pkg/sanitizer"
)

// StaffFinder is the accounts-layer view availability needs: active staff
// offering a service, optionally narrowed by address.
type StaffFinder interface {
	FindActiveStaffByService(ctx context.Context, serviceID, address string) ([]*model.Account, error)
}

// ScheduleFinder batch-fetches work schedules for the candidate staff.
type ScheduleFinder interface {
	GetByStaffIDs(ctx context.Context, staffIDs []string) (map[string]*model.WorkSchedule, error)
}

// FavoriteFinder resolves the requesting customer's favorited staff IDs.
type FavoriteFinder interface {
	StaffIDSet(ctx context.Context, customerID string) (map[string]bool, error)
}

type AvailabilityService interface {
	FindAvailableStaff(ctx context.Context, serviceID, customerID, address string, at time.Time) ([]*model.AvailableStaff, error)
}

type availabilityService struct {
	staff     StaffFinder
	schedules ScheduleFinder
	favorites FavoriteFinder
	cfg       *config.Config
}

func NewAvailabilityService(
	staff StaffFinder,
	schedules ScheduleFinder,
	favorites FavoriteFinder,
	cfg *config.Config,
) AvailabilityService {
	return &availabilityService{
		staff:     staff,
		schedules: schedules,
		favorites: favorites,
		cfg:       cfg,
	}
}

// FindAvailableStaff returns the active staff offering the service whose
// weekly schedule covers the requested time, favorites first. Candidate
// schedules are fetched in one batch query, so the cost is two reads plus the
// optional favorites lookup no matter how many staff match.
func (s *availabilityService) FindAvailableStaff(ctx context.Context, serviceID, customerID, address string, at time.Time) ([]*model.AvailableStaff, error) {
	if serviceID == "" {
		return nil, apperrors.InvalidInput("Service ID cannot be empty")
	}

	candidates, err := s.staff.FindActiveStaffByService(ctx, serviceID, sanitizer.NormalizeAddress(address))
	if err != nil {
		s.cfg.Log.Error("Failed to find staff for service", "service_id", serviceID, "error", err)
		return nil, apperrors.Internal("Failed to find staff", err)
	}
	if len(candidates) == 0 {
		return []*model.AvailableStaff{}, nil
	}

	staffIDs := make([]string, 0, len(candidates))
	for _, c := range candidates {
		staffIDs = append(staffIDs, c.ID)
	}

	schedulesByStaff, err := s.schedules.GetByStaffIDs(ctx, staffIDs)
	if err != nil {
		return nil, err
	}

	favoriteSet := map[string]bool{}
	if customerID != "" {
		favoriteSet, err = s.favorites.StaffIDSet(ctx, customerID)
		if err != nil {
			// Ranking degrades gracefully; availability itself is unaffected.
			s.cfg.Log.Warn("Failed to load favorites for ranking", "customer_id", customerID, "error", err)
			favoriteSet = map[string]bool{}
		}
	}

	weekday := at.Weekday().String()
	timeOfDay := at.Format("15:04")

	available := make([]*model.AvailableStaff, 0, len(candidates))
	for _, c := range candidates {
		schedule, ok := schedulesByStaff[c.ID]
		if !ok {
			// No stored schedule means the staff member never set working
			// hours; treat as unavailable.
			continue
		}
		if !worksAt(schedule, weekday, timeOfDay) {
			continue
		}
		available = append(available, &model.AvailableStaff{
			Account:    *c,
			IsFavorite: favoriteSet[c.ID],
		})
	}

	// Favorites first; the stable sort preserves repository order within each
	// group.
	sort.SliceStable(available, func(i, j int) bool {
		return available[i].IsFavorite && !available[j].IsFavorite
	})

	s.cfg.Log.Debug("Availability resolved",
		"service_id", serviceID,
		"requested_time", at,
		"candidates", len(candidates),
		"available", len(available),
	)
	return available, nil
}

// worksAt reports whether the schedule covers the weekday and time of day.
// The window is half-open: a staff member working 09:00-17:00 is available at
// 09:00 but not at 17:00. HH:MM strings compare correctly lexicographically.
func worksAt(schedule *model.WorkSchedule, weekday, timeOfDay string) bool {
	window, ok := schedule.Window(weekday)
	if !ok || !window.Working() {
		return false
	}
	return window.StartTime <= timeOfDay && timeOfDay < window.EndTime
}
