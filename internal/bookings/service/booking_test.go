package service

import (
	"context"
	"errors"
	"io"
	"testing"
	"time"

	"go.mongodb.org/mongo-driver/mongo"

	bookingserrors "homecare/internal/bookings/errors"
	"homecare/internal/bookings/validator"
	"homecare/internal/notify"
	"homecare/pkg/config"
	mongotx "homecare/pkg/db/mongo"
	apperrors "homecare/pkg/errors"
	"homecare/pkg/logger"
	"homecare/pkg/model"
)

const (
	customerID   = "507f1f77bcf86cd799439011"
	serviceID    = "507f1f77bcf86cd799439012"
	staffID      = "507f1f77bcf86cd799439013"
	otherStaffID = "507f1f77bcf86cd799439015"
	bookingID    = "507f1f77bcf86cd799439014"
)

type mockBookingRepo struct {
	existing []*model.Booking
	created  []*model.Booking
	updated  map[string]*model.Booking
	findByID func(ctx context.Context, id string) (*model.Booking, error)
}

func newMockBookingRepo() *mockBookingRepo {
	return &mockBookingRepo{updated: map[string]*model.Booking{}}
}

func (m *mockBookingRepo) Create(_ context.Context, b *model.Booking) error {
	b.ID = bookingID
	m.created = append(m.created, b)
	return nil
}

func (m *mockBookingRepo) FindByID(ctx context.Context, id string) (*model.Booking, error) {
	if m.findByID != nil {
		return m.findByID(ctx, id)
	}
	return nil, bookingserrors.ErrNotFound
}

func (m *mockBookingRepo) FindAll(context.Context, int, int64) ([]*model.Booking, error) {
	return m.existing, nil
}

func (m *mockBookingRepo) Count(context.Context) (int64, error) {
	return int64(len(m.existing)), nil
}

func (m *mockBookingRepo) FindByCustomer(context.Context, string, int, int64) ([]*model.Booking, error) {
	return m.existing, nil
}

func (m *mockBookingRepo) CountByCustomer(context.Context, string) (int64, error) {
	return int64(len(m.existing)), nil
}

func (m *mockBookingRepo) FindByStaff(context.Context, string, int, int64) ([]*model.Booking, error) {
	return m.existing, nil
}

func (m *mockBookingRepo) CountByStaff(context.Context, string) (int64, error) {
	return int64(len(m.existing)), nil
}

// FindForStaffWithin mirrors the repository contract: inclusive on both ends.
func (m *mockBookingRepo) FindForStaffWithin(_ context.Context, _ string, from, to time.Time) ([]*model.Booking, error) {
	var result []*model.Booking
	for _, b := range m.existing {
		if !b.BookingTime.Before(from) && !b.BookingTime.After(to) {
			result = append(result, b)
		}
	}
	return result, nil
}

func (m *mockBookingRepo) Update(_ context.Context, id string, b *model.Booking) (*mongo.UpdateResult, error) {
	m.updated[id] = b
	return &mongo.UpdateResult{MatchedCount: 1, ModifiedCount: 1}, nil
}

func (m *mockBookingRepo) ExecuteTransaction(_ context.Context, fn mongotx.TransactionFunc) error {
	return fn(nil)
}

type mockLockRepo struct {
	createErr error
}

func (m *mockLockRepo) Create(_ context.Context, lock *model.SlotLock) (*model.SlotLock, error) {
	if m.createErr != nil {
		return nil, m.createErr
	}
	return lock, nil
}

func (m *mockLockRepo) Delete(context.Context, string) error { return nil }

type mockDirectory struct {
	accounts map[string]*model.Account
}

func (m *mockDirectory) FindByID(_ context.Context, id string) (*model.Account, error) {
	if a, ok := m.accounts[id]; ok {
		return a, nil
	}
	return nil, apperrors.NotFoundWithID("Account", id)
}

func testConfig() *config.Config {
	return &config.Config{
		ConflictWindow: 2 * time.Hour,
		SlotLockTTL:    10 * time.Second,
		Log:            logger.New(logger.Config{Level: "error", Output: io.Discard}),
	}
}

type recordingDispatcher struct {
	types      []string
	recipients []string
}

func (d *recordingDispatcher) Dispatch(_ context.Context, eventType string, event notify.Event) error {
	d.types = append(d.types, eventType)
	d.recipients = append(d.recipients, event.Recipient)
	return nil
}

func (d *recordingDispatcher) Close() error { return nil }

func newTestService(repo *mockBookingRepo, locks *mockLockRepo) BookingService {
	return newTestServiceWithDispatcher(repo, locks, notify.NopDispatcher{})
}

func newTestServiceWithDispatcher(repo *mockBookingRepo, locks *mockLockRepo, dispatcher notify.Dispatcher) BookingService {
	cfg := testConfig()
	directory := &mockDirectory{accounts: map[string]*model.Account{
		staffID: {
			ID:     staffID,
			Name:   "Staff Member",
			Email:  "staff@example.com",
			Role:   model.RoleStaff,
			Active: true,
		},
		otherStaffID: {
			ID:     otherStaffID,
			Name:   "Other Staff Member",
			Email:  "other-staff@example.com",
			Role:   model.RoleStaff,
			Active: true,
		},
		customerID: {
			ID:    customerID,
			Name:  "Customer",
			Email: "customer@example.com",
			Role:  model.RoleCustomer,
		},
	}}
	return NewBookingService(repo, locks, validator.NewBookingValidator(cfg.Log), directory, dispatcher, cfg)
}

func newBookingAt(t time.Time) *model.Booking {
	return &model.Booking{
		CustomerID:       customerID,
		ServiceID:        serviceID,
		PreferredStaffID: staffID,
		CustomerAddress:  "12 Main Street",
		Status:           model.StatusPending,
		BookingTime:      t,
		TotalCost:        150,
	}
}

func existingBookingAt(t time.Time) *model.Booking {
	b := newBookingAt(t)
	b.ID = "507f1f77bcf86cd799439099"
	b.Status = model.StatusPending
	return b
}

func TestCreateConflictWindow(t *testing.T) {
	base := time.Now().Add(72 * time.Hour).Truncate(time.Minute)

	tests := []struct {
		name         string
		existingAt   time.Duration
		wantConflict bool
	}{
		{"existing 90 minutes later", 90 * time.Minute, true},
		{"existing 90 minutes earlier", -90 * time.Minute, true},
		{"existing exactly 2 hours later", 2 * time.Hour, true},
		{"existing exactly 2 hours earlier", -2 * time.Hour, true},
		{"existing 121 minutes later", 121 * time.Minute, false},
		{"existing 121 minutes earlier", -121 * time.Minute, false},
		{"existing at the same time", 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := newMockBookingRepo()
			repo.existing = []*model.Booking{existingBookingAt(base.Add(tt.existingAt))}
			svc := newTestService(repo, &mockLockRepo{})

			err := svc.Create(context.Background(), newBookingAt(base))
			if tt.wantConflict {
				if err == nil {
					t.Fatal("expected conflict error, got nil")
				}
				appErr := apperrors.AsAppError(err)
				if appErr.Code != apperrors.CodeConflict {
					t.Errorf("expected %s, got %s", apperrors.CodeConflict, appErr.Code)
				}
				if len(repo.created) != 0 {
					t.Error("booking must not be created on conflict")
				}
			} else {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				if len(repo.created) != 1 {
					t.Fatal("expected booking to be created")
				}
			}
		})
	}
}

func TestCreateStatusBlindConflict(t *testing.T) {
	base := time.Now().Add(72 * time.Hour).Truncate(time.Minute)

	// Even a rejected booking blocks the slot.
	existing := existingBookingAt(base.Add(time.Hour))
	existing.Status = model.StatusRejected

	repo := newMockBookingRepo()
	repo.existing = []*model.Booking{existing}
	svc := newTestService(repo, &mockLockRepo{})

	err := svc.Create(context.Background(), newBookingAt(base))
	if err == nil {
		t.Fatal("expected conflict error, got nil")
	}
	if apperrors.AsAppError(err).Code != apperrors.CodeConflict {
		t.Errorf("expected conflict, got %s", apperrors.AsAppError(err).Code)
	}
}

func TestCreateHonorsSuppliedStatus(t *testing.T) {
	repo := newMockBookingRepo()
	svc := newTestService(repo, &mockLockRepo{})

	booking := newBookingAt(time.Now().Add(48 * time.Hour))
	booking.Status = model.StatusApproved

	if err := svc.Create(context.Background(), booking); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if booking.Status != model.StatusApproved {
		t.Errorf("expected approved, got %s", booking.Status)
	}
	if booking.BookingDate.IsZero() {
		t.Error("expected booking date to be derived from booking time")
	}
}

func TestCreateRequiresStatus(t *testing.T) {
	svc := newTestService(newMockBookingRepo(), &mockLockRepo{})

	tests := []struct {
		name   string
		status model.BookingStatus
	}{
		{"missing status", ""},
		{"unknown status", "done"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			booking := newBookingAt(time.Now().Add(48 * time.Hour))
			booking.Status = tt.status

			err := svc.Create(context.Background(), booking)
			if err == nil {
				t.Fatal("expected validation error, got nil")
			}
			if got := apperrors.AsAppError(err).Code; got != apperrors.CodeValidation {
				t.Errorf("expected %s, got %s", apperrors.CodeValidation, got)
			}
		})
	}
}

func TestCreateRejectsPastTime(t *testing.T) {
	svc := newTestService(newMockBookingRepo(), &mockLockRepo{})

	err := svc.Create(context.Background(), newBookingAt(time.Now().Add(-time.Hour)))
	if err == nil {
		t.Fatal("expected validation error, got nil")
	}
	if apperrors.AsAppError(err).Code != apperrors.CodeValidation {
		t.Errorf("expected validation error, got %s", apperrors.AsAppError(err).Code)
	}
}

func TestCreateSlotLockContention(t *testing.T) {
	repo := newMockBookingRepo()
	locks := &mockLockRepo{createErr: mongo.WriteException{
		WriteErrors: []mongo.WriteError{{Code: 11000}},
	}}
	svc := newTestService(repo, locks)

	err := svc.Create(context.Background(), newBookingAt(time.Now().Add(48*time.Hour)))
	if err == nil {
		t.Fatal("expected conflict error, got nil")
	}
	if apperrors.AsAppError(err).Code != apperrors.CodeConflict {
		t.Errorf("expected conflict, got %s", apperrors.AsAppError(err).Code)
	}
	if len(repo.created) != 0 {
		t.Error("booking must not be created when the slot lock is held")
	}
}

func TestChangeStatusTransitions(t *testing.T) {
	tests := []struct {
		name     string
		from     model.BookingStatus
		to       model.BookingStatus
		wantCode string
	}{
		{"pending to approved", model.StatusPending, model.StatusApproved, ""},
		{"pending to canceled", model.StatusPending, model.StatusCanceled, ""},
		{"pending to rejected", model.StatusPending, model.StatusRejected, ""},
		{"approved to completed", model.StatusApproved, model.StatusCompleted, ""},
		{"rejected to completed", model.StatusRejected, model.StatusCompleted, ""},
		{"canceled to completed", model.StatusCanceled, model.StatusCompleted, ""},
		{"approved to canceled", model.StatusApproved, model.StatusCanceled, apperrors.CodeInvalidState},
		{"completed to approved", model.StatusCompleted, model.StatusApproved, apperrors.CodeInvalidState},
		{"completed to completed", model.StatusCompleted, model.StatusCompleted, apperrors.CodeInvalidState},
		{"approved to pending", model.StatusApproved, "pending", apperrors.CodeValidation},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			stored := existingBookingAt(time.Now().Add(48 * time.Hour))
			stored.Status = tt.from

			repo := newMockBookingRepo()
			repo.findByID = func(context.Context, string) (*model.Booking, error) {
				return stored, nil
			}
			svc := newTestService(repo, &mockLockRepo{})

			err := svc.ChangeStatus(context.Background(), stored.ID, &model.BookingStatusChange{Status: tt.to})
			if tt.wantCode == "" {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				if stored.Status != tt.to {
					t.Errorf("expected status %s, got %s", tt.to, stored.Status)
				}
			} else {
				if err == nil {
					t.Fatal("expected error, got nil")
				}
				if got := apperrors.AsAppError(err).Code; got != tt.wantCode {
					t.Errorf("expected %s, got %s", tt.wantCode, got)
				}
			}
		})
	}
}

func TestChangeStatusRejectionReasonDefault(t *testing.T) {
	tests := []struct {
		name       string
		reason     string
		wantReason string
	}{
		{"explicit reason kept", "Staff unavailable", "Staff unavailable"},
		{"empty reason defaulted", "", model.DefaultRejectionReason},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			stored := existingBookingAt(time.Now().Add(48 * time.Hour))

			repo := newMockBookingRepo()
			repo.findByID = func(context.Context, string) (*model.Booking, error) {
				return stored, nil
			}
			svc := newTestService(repo, &mockLockRepo{})

			err := svc.ChangeStatus(context.Background(), stored.ID, &model.BookingStatusChange{
				Status:          model.StatusRejected,
				RejectionReason: tt.reason,
			})
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if stored.RejectionReason != tt.wantReason {
				t.Errorf("expected reason %q, got %q", tt.wantReason, stored.RejectionReason)
			}
		})
	}
}

func TestChangeStatusCompletion(t *testing.T) {
	stored := existingBookingAt(time.Now().Add(48 * time.Hour))
	stored.Status = model.StatusApproved
	stored.TotalCost = 200

	repo := newMockBookingRepo()
	repo.findByID = func(context.Context, string) (*model.Booking, error) {
		return stored, nil
	}
	svc := newTestService(repo, &mockLockRepo{})

	err := svc.ChangeStatus(context.Background(), stored.ID, &model.BookingStatusChange{
		Status: model.StatusCompleted,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if stored.CompletionTime == nil {
		t.Error("expected completion time to be set")
	}
	if stored.ActualAmountReceived != 200 {
		t.Errorf("expected amount to default to total cost, got %v", stored.ActualAmountReceived)
	}
}

func TestChangeStatusCompletionSuppliedTime(t *testing.T) {
	stored := existingBookingAt(time.Now().Add(48 * time.Hour))
	stored.Status = model.StatusApproved

	repo := newMockBookingRepo()
	repo.findByID = func(context.Context, string) (*model.Booking, error) {
		return stored, nil
	}
	svc := newTestService(repo, &mockLockRepo{})

	completedAt := time.Date(2026, 4, 1, 15, 0, 0, 0, time.UTC)
	amount := 175.0
	err := svc.ChangeStatus(context.Background(), stored.ID, &model.BookingStatusChange{
		Status:               model.StatusCompleted,
		ActualAmountReceived: &amount,
		CompletionTime:       &completedAt,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if stored.CompletionTime == nil || !stored.CompletionTime.Equal(completedAt) {
		t.Errorf("expected supplied completion time %v, got %v", completedAt, stored.CompletionTime)
	}
	if stored.ActualAmountReceived != amount {
		t.Errorf("expected amount %v, got %v", amount, stored.ActualAmountReceived)
	}
}

func TestChangeStatusNotFound(t *testing.T) {
	repo := newMockBookingRepo()
	svc := newTestService(repo, &mockLockRepo{})

	err := svc.ChangeStatus(context.Background(), bookingID, &model.BookingStatusChange{Status: model.StatusApproved})
	if err == nil {
		t.Fatal("expected error, got nil")
	}
	if apperrors.AsAppError(err).Code != apperrors.CodeNotFound {
		t.Errorf("expected not found, got %s", apperrors.AsAppError(err).Code)
	}
}

func TestAssignStaffRequiresPending(t *testing.T) {
	stored := existingBookingAt(time.Now().Add(48 * time.Hour))
	stored.Status = model.StatusApproved

	repo := newMockBookingRepo()
	repo.findByID = func(context.Context, string) (*model.Booking, error) {
		return stored, nil
	}
	svc := newTestService(repo, &mockLockRepo{})

	err := svc.AssignStaff(context.Background(), stored.ID, staffID)
	if err == nil {
		t.Fatal("expected error, got nil")
	}
	if apperrors.AsAppError(err).Code != apperrors.CodeInvalidState {
		t.Errorf("expected invalid state, got %s", apperrors.AsAppError(err).Code)
	}
}

func TestCreateUnknownStaff(t *testing.T) {
	repo := newMockBookingRepo()
	svc := newTestService(repo, &mockLockRepo{})

	booking := newBookingAt(time.Now().Add(48 * time.Hour))
	booking.PreferredStaffID = "507f1f77bcf86cd799439055"

	err := svc.Create(context.Background(), booking)
	if err == nil {
		t.Fatal("expected error, got nil")
	}
	var appErr *apperrors.AppError
	if !errors.As(err, &appErr) || appErr.Code != apperrors.CodeNotFound {
		t.Errorf("expected not found, got %v", err)
	}
}

func TestCancelNotifiesPreferredStaff(t *testing.T) {
	stored := existingBookingAt(time.Now().Add(48 * time.Hour))

	repo := newMockBookingRepo()
	repo.findByID = func(context.Context, string) (*model.Booking, error) {
		return stored, nil
	}
	dispatcher := &recordingDispatcher{}
	svc := newTestServiceWithDispatcher(repo, &mockLockRepo{}, dispatcher)

	if err := svc.Cancel(context.Background(), stored.ID); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if stored.Status != model.StatusCanceled {
		t.Errorf("expected canceled, got %s", stored.Status)
	}
	if len(dispatcher.types) != 1 || dispatcher.types[0] != notify.EventBookingCanceled {
		t.Fatalf("expected a cancellation event, got %v", dispatcher.types)
	}
	if dispatcher.recipients[0] != "staff@example.com" {
		t.Errorf("cancellation must go to the preferred staff, got %s", dispatcher.recipients[0])
	}
}

func TestCancelRequiresPending(t *testing.T) {
	for _, status := range []model.BookingStatus{
		model.StatusApproved, model.StatusRejected, model.StatusCanceled, model.StatusCompleted,
	} {
		t.Run(string(status), func(t *testing.T) {
			stored := existingBookingAt(time.Now().Add(48 * time.Hour))
			stored.Status = status

			repo := newMockBookingRepo()
			repo.findByID = func(context.Context, string) (*model.Booking, error) {
				return stored, nil
			}
			dispatcher := &recordingDispatcher{}
			svc := newTestServiceWithDispatcher(repo, &mockLockRepo{}, dispatcher)

			err := svc.Cancel(context.Background(), stored.ID)
			if err == nil {
				t.Fatal("expected error, got nil")
			}
			if got := apperrors.AsAppError(err).Code; got != apperrors.CodeInvalidState {
				t.Errorf("expected %s, got %s", apperrors.CodeInvalidState, got)
			}
			if len(dispatcher.types) != 0 {
				t.Error("failed cancellation must not notify anyone")
			}
		})
	}
}

func TestCompleteRecordsSuppliedValues(t *testing.T) {
	stored := existingBookingAt(time.Now().Add(48 * time.Hour))
	stored.Status = model.StatusApproved

	repo := newMockBookingRepo()
	repo.findByID = func(context.Context, string) (*model.Booking, error) {
		return stored, nil
	}
	svc := newTestService(repo, &mockLockRepo{})

	completedAt := time.Date(2026, 4, 1, 15, 0, 0, 0, time.UTC)
	err := svc.Complete(context.Background(), stored.ID, &model.BookingCompletion{
		ActualAmountReceived: 135,
		CompletionTime:       &completedAt,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if stored.Status != model.StatusCompleted {
		t.Errorf("expected completed, got %s", stored.Status)
	}
	if stored.ActualAmountReceived != 135 {
		t.Errorf("expected amount 135, got %v", stored.ActualAmountReceived)
	}
	if stored.CompletionTime == nil || !stored.CompletionTime.Equal(completedAt) {
		t.Errorf("expected supplied completion time %v, got %v", completedAt, stored.CompletionTime)
	}
}

func TestCompleteDefaultsCompletionTime(t *testing.T) {
	stored := existingBookingAt(time.Now().Add(48 * time.Hour))

	repo := newMockBookingRepo()
	repo.findByID = func(context.Context, string) (*model.Booking, error) {
		return stored, nil
	}
	svc := newTestService(repo, &mockLockRepo{})

	if err := svc.Complete(context.Background(), stored.ID, &model.BookingCompletion{ActualAmountReceived: 150}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if stored.CompletionTime == nil {
		t.Error("expected completion time to default to the server clock")
	}
}

func TestCompleteFromAnyNonCompletedStatus(t *testing.T) {
	for _, status := range []model.BookingStatus{
		model.StatusPending, model.StatusApproved, model.StatusRejected, model.StatusCanceled,
	} {
		t.Run(string(status), func(t *testing.T) {
			stored := existingBookingAt(time.Now().Add(48 * time.Hour))
			stored.Status = status

			repo := newMockBookingRepo()
			repo.findByID = func(context.Context, string) (*model.Booking, error) {
				return stored, nil
			}
			svc := newTestService(repo, &mockLockRepo{})

			if err := svc.Complete(context.Background(), stored.ID, &model.BookingCompletion{ActualAmountReceived: 150}); err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if stored.Status != model.StatusCompleted {
				t.Errorf("expected completed, got %s", stored.Status)
			}
		})
	}
}

func TestCompleteAlreadyCompleted(t *testing.T) {
	stored := existingBookingAt(time.Now().Add(48 * time.Hour))
	stored.Status = model.StatusCompleted

	repo := newMockBookingRepo()
	repo.findByID = func(context.Context, string) (*model.Booking, error) {
		return stored, nil
	}
	svc := newTestService(repo, &mockLockRepo{})

	err := svc.Complete(context.Background(), stored.ID, &model.BookingCompletion{ActualAmountReceived: 150})
	if err == nil {
		t.Fatal("expected error, got nil")
	}
	if got := apperrors.AsAppError(err).Code; got != apperrors.CodeInvalidState {
		t.Errorf("expected %s, got %s", apperrors.CodeInvalidState, got)
	}
}

func TestReassignStaffAllowedFromAnyStatus(t *testing.T) {
	for _, status := range []model.BookingStatus{
		model.StatusPending, model.StatusApproved, model.StatusRejected, model.StatusCanceled, model.StatusCompleted,
	} {
		t.Run(string(status), func(t *testing.T) {
			stored := existingBookingAt(time.Now().Add(48 * time.Hour))
			stored.Status = status

			repo := newMockBookingRepo()
			repo.findByID = func(context.Context, string) (*model.Booking, error) {
				return stored, nil
			}
			// The new staff member already has a nearby booking; reassignment is
			// an override and skips the conflict guard.
			repo.existing = []*model.Booking{existingBookingAt(stored.BookingTime.Add(time.Hour))}
			svc := newTestService(repo, &mockLockRepo{})

			if err := svc.ReassignStaff(context.Background(), stored.ID, otherStaffID); err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if stored.PreferredStaffID != otherStaffID {
				t.Errorf("expected preferred staff %s, got %s", otherStaffID, stored.PreferredStaffID)
			}
			if _, ok := repo.updated[stored.ID]; !ok {
				t.Error("expected reassignment to be persisted")
			}
		})
	}
}

func TestReassignStaffRequiresStaffID(t *testing.T) {
	svc := newTestService(newMockBookingRepo(), &mockLockRepo{})

	err := svc.ReassignStaff(context.Background(), bookingID, "")
	if err == nil {
		t.Fatal("expected error, got nil")
	}
	if got := apperrors.AsAppError(err).Code; got != apperrors.CodeValidation {
		t.Errorf("expected %s, got %s", apperrors.CodeValidation, got)
	}
}

func TestChangeStatusNotificationRouting(t *testing.T) {
	tests := []struct {
		name          string
		target        model.BookingStatus
		wantType      string
		wantRecipient string
	}{
		{"approved notifies customer", model.StatusApproved, notify.EventBookingStatus, "customer@example.com"},
		{"rejected notifies customer", model.StatusRejected, notify.EventBookingStatus, "customer@example.com"},
		{"canceled notifies preferred staff", model.StatusCanceled, notify.EventBookingCanceled, "staff@example.com"},
		{"completed notifies nobody", model.StatusCompleted, "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			stored := existingBookingAt(time.Now().Add(48 * time.Hour))

			repo := newMockBookingRepo()
			repo.findByID = func(context.Context, string) (*model.Booking, error) {
				return stored, nil
			}
			dispatcher := &recordingDispatcher{}
			svc := newTestServiceWithDispatcher(repo, &mockLockRepo{}, dispatcher)

			err := svc.ChangeStatus(context.Background(), stored.ID, &model.BookingStatusChange{Status: tt.target})
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}

			if tt.wantType == "" {
				if len(dispatcher.types) != 0 {
					t.Fatalf("expected no notification, got %v", dispatcher.types)
				}
				return
			}
			if len(dispatcher.types) != 1 || dispatcher.types[0] != tt.wantType {
				t.Fatalf("expected event %s, got %v", tt.wantType, dispatcher.types)
			}
			if dispatcher.recipients[0] != tt.wantRecipient {
				t.Errorf("expected recipient %s, got %s", tt.wantRecipient, dispatcher.recipients[0])
			}
		})
	}
}
