package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"go.mongodb.org/mongo-driver/mongo"

	bookingserrors "homecare/internal/bookings/errors"
	"homecare/internal/bookings/repository"
	"homecare/internal/bookings/validator"
	"homecare/internal/notify"
	"homecare/pkg/config"
	apperrors "homecare/pkg/errors"
	"homecare/pkg/model"
	"homecare/pkg/sanitizer"
)

// AccountDirectory is the narrow view of the accounts layer the booking flow
// needs: resolving staff and customer records for validation and notification
// recipients.
type AccountDirectory interface {
	FindByID(ctx context.Context, id string) (*model.Account, error)
}

type BookingService interface {
	Create(ctx context.Context, booking *model.Booking) error
	GetByID(ctx context.Context, id string) (*model.Booking, error)
	GetAll(ctx context.Context, limit int, offset int64) ([]*model.Booking, int64, error)
	GetByCustomer(ctx context.Context, customerID string, limit int, offset int64) ([]*model.Booking, int64, error)
	GetByStaff(ctx context.Context, staffID string, limit int, offset int64) ([]*model.Booking, int64, error)
	ChangeStatus(ctx context.Context, id string, change *model.BookingStatusChange) error
	Cancel(ctx context.Context, id string) error
	Complete(ctx context.Context, id string, completion *model.BookingCompletion) error
	ReassignStaff(ctx context.Context, id string, newStaffID string) error
	AssignStaff(ctx context.Context, id string, staffID string) error
}

type bookingService struct {
	repo       repository.BookingRepository
	lockRepo   repository.SlotLockRepository
	validator  *validator.BookingValidator
	accounts   AccountDirectory
	dispatcher notify.Dispatcher
	cfg        *config.Config
}

func NewBookingService(
	repo repository.BookingRepository,
	lockRepo repository.SlotLockRepository,
	validator *validator.BookingValidator,
	accounts AccountDirectory,
	dispatcher notify.Dispatcher,
	cfg *config.Config,
) BookingService {
	return &bookingService{
		repo:       repo,
		lockRepo:   lockRepo,
		validator:  validator,
		accounts:   accounts,
		dispatcher: dispatcher,
		cfg:        cfg,
	}
}

func (s *bookingService) Create(ctx context.Context, booking *model.Booking) error {
	s.applyDefaults(booking)
	s.sanitize(booking)
	if err := s.validate(booking); err != nil {
		return err
	}

	if booking.PreferredStaffID != "" {
		if err := s.verifyStaff(ctx, booking.PreferredStaffID); err != nil {
			return err
		}

		// Advisory lock narrows the window between the conflict check and the
		// insert; the transaction closes it.
		lockID, err := s.acquireSlotLock(ctx, booking.PreferredStaffID, booking.BookingTime)
		if err != nil {
			return err
		}
		defer func() {
			if releaseErr := s.releaseSlotLock(ctx, lockID); releaseErr != nil {
				s.cfg.Log.Warn("Failed to release slot lock", "lock_id", lockID, "error", releaseErr)
			}
		}()

		err = s.repo.ExecuteTransaction(ctx, func(sessCtx mongo.SessionContext) error {
			if err := s.verifyNoConflict(sessCtx, booking); err != nil {
				return err
			}
			if err := s.repo.Create(sessCtx, booking); err != nil {
				return apperrors.Internal("Failed to create booking", err)
			}
			return nil
		})
		if err != nil {
			s.cfg.Log.Error("Failed to create booking", "error", err)
			return err
		}
	} else {
		if err := s.repo.Create(ctx, booking); err != nil {
			s.cfg.Log.Error("Failed to create booking", "error", err)
			return apperrors.Internal("Failed to create booking", err)
		}
	}

	s.cfg.Log.Info("Booking created successfully",
		"id", booking.ID,
		"customer_id", booking.CustomerID,
		"preferred_staff_id", booking.PreferredStaffID,
		"booking_time", booking.BookingTime,
	)

	s.notifyStaffOfCreation(ctx, booking)
	return nil
}

func (s *bookingService) GetByID(ctx context.Context, id string) (*model.Booking, error) {
	if id == "" {
		return nil, apperrors.InvalidInput("Booking ID cannot be empty")
	}

	booking, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, mapRepoError(err, id)
	}

	return booking, nil
}

func (s *bookingService) GetAll(ctx context.Context, limit int, offset int64) ([]*model.Booking, int64, error) {
	return s.listConcurrently(ctx,
		func() (int64, error) { return s.repo.Count(ctx) },
		func() ([]*model.Booking, error) { return s.repo.FindAll(ctx, limit, offset) },
	)
}

func (s *bookingService) GetByCustomer(ctx context.Context, customerID string, limit int, offset int64) ([]*model.Booking, int64, error) {
	if customerID == "" {
		return nil, 0, apperrors.InvalidInput("Customer ID cannot be empty")
	}
	return s.listConcurrently(ctx,
		func() (int64, error) { return s.repo.CountByCustomer(ctx, customerID) },
		func() ([]*model.Booking, error) { return s.repo.FindByCustomer(ctx, customerID, limit, offset) },
	)
}

func (s *bookingService) GetByStaff(ctx context.Context, staffID string, limit int, offset int64) ([]*model.Booking, int64, error) {
	if staffID == "" {
		return nil, 0, apperrors.InvalidInput("Staff ID cannot be empty")
	}
	return s.listConcurrently(ctx,
		func() (int64, error) { return s.repo.CountByStaff(ctx, staffID) },
		func() ([]*model.Booking, error) { return s.repo.FindByStaff(ctx, staffID, limit, offset) },
	)
}

func (s *bookingService) ChangeStatus(ctx context.Context, id string, change *model.BookingStatusChange) error {
	if id == "" {
		return apperrors.InvalidInput("Booking ID cannot be empty")
	}
	if err := s.validator.ValidateStatusChange(change); err != nil {
		s.cfg.Log.Warn("Status change validation failed", "id", id, "error", err)
		return apperrors.Validation("Invalid status change input", map[string]any{"error": err.Error()})
	}

	booking, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return mapRepoError(err, id)
	}

	if !booking.Status.CanTransitionTo(change.Status) {
		return apperrors.InvalidState(fmt.Sprintf(
			"Cannot change booking status from %s to %s", booking.Status, change.Status,
		))
	}

	s.applyStatusChange(booking, change)

	if _, err := s.repo.Update(ctx, id, booking); err != nil {
		s.cfg.Log.Error("Failed to update booking status", "id", id, "error", err)
		return mapRepoError(err, id)
	}

	s.cfg.Log.Info("Booking status changed",
		"id", id,
		"status", booking.Status,
	)

	switch booking.Status {
	case model.StatusApproved, model.StatusRejected:
		s.notifyCustomerOfStatus(ctx, booking)
	case model.StatusCanceled:
		s.notifyStaffOfCancellation(ctx, booking)
	}
	return nil
}

// Cancel withdraws a pending booking. The preferred staff member, if any, is
// told the slot has opened up again.
func (s *bookingService) Cancel(ctx context.Context, id string) error {
	if id == "" {
		return apperrors.InvalidInput("Booking ID cannot be empty")
	}

	booking, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return mapRepoError(err, id)
	}

	if booking.Status != model.StatusPending {
		return apperrors.InvalidState(fmt.Sprintf(
			"Only pending bookings can be canceled; booking is %s", booking.Status,
		))
	}

	booking.Status = model.StatusCanceled
	if _, err := s.repo.Update(ctx, id, booking); err != nil {
		s.cfg.Log.Error("Failed to cancel booking", "id", id, "error", err)
		return mapRepoError(err, id)
	}

	s.cfg.Log.Info("Booking canceled", "id", id)
	s.notifyStaffOfCancellation(ctx, booking)
	return nil
}

// Complete is the administrative override: any booking that is not already
// completed transitions to completed, recording the supplied amount and
// completion time.
func (s *bookingService) Complete(ctx context.Context, id string, completion *model.BookingCompletion) error {
	if id == "" {
		return apperrors.InvalidInput("Booking ID cannot be empty")
	}
	if err := s.validator.ValidateCompletion(completion); err != nil {
		s.cfg.Log.Warn("Completion validation failed", "id", id, "error", err)
		return apperrors.Validation("Invalid completion input", map[string]any{"error": err.Error()})
	}

	booking, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return mapRepoError(err, id)
	}

	if booking.Status == model.StatusCompleted {
		return apperrors.InvalidState("Booking has already been completed")
	}

	booking.Status = model.StatusCompleted
	booking.ActualAmountReceived = completion.ActualAmountReceived
	if completion.CompletionTime != nil {
		booking.CompletionTime = completion.CompletionTime
	} else {
		now := time.Now()
		booking.CompletionTime = &now
	}
	if completion.StaffDiscount != nil {
		booking.StaffDiscount = *completion.StaffDiscount
	}

	if _, err := s.repo.Update(ctx, id, booking); err != nil {
		s.cfg.Log.Error("Failed to complete booking", "id", id, "error", err)
		return mapRepoError(err, id)
	}

	s.cfg.Log.Info("Booking completed",
		"id", id,
		"actual_amount_received", booking.ActualAmountReceived,
	)
	return nil
}

// ReassignStaff replaces the preferred staff member. Unlike assignment this
// is allowed from any status and skips the conflict guard; the caller is
// overriding the customer's preference deliberately.
func (s *bookingService) ReassignStaff(ctx context.Context, id string, newStaffID string) error {
	if id == "" {
		return apperrors.InvalidInput("Booking ID cannot be empty")
	}
	if newStaffID == "" {
		return apperrors.Validation("A new staff ID is required", nil)
	}

	booking, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return mapRepoError(err, id)
	}

	if err := s.verifyStaff(ctx, newStaffID); err != nil {
		return err
	}

	booking.PreferredStaffID = newStaffID
	if _, err := s.repo.Update(ctx, id, booking); err != nil {
		s.cfg.Log.Error("Failed to reassign staff", "id", id, "staff_id", newStaffID, "error", err)
		return mapRepoError(err, id)
	}

	s.cfg.Log.Info("Preferred staff reassigned", "id", id, "staff_id", newStaffID)
	return nil
}

func (s *bookingService) AssignStaff(ctx context.Context, id string, staffID string) error {
	if id == "" {
		return apperrors.InvalidInput("Booking ID cannot be empty")
	}
	if staffID == "" {
		return apperrors.InvalidInput("Staff ID cannot be empty")
	}

	booking, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return mapRepoError(err, id)
	}

	if booking.Status != model.StatusPending {
		return apperrors.InvalidState("Staff can only be assigned while the booking is pending")
	}

	if err := s.verifyStaff(ctx, staffID); err != nil {
		return err
	}

	// The assignee takes over the conflict guard from the preferred staff.
	if err := s.verifyNoConflictFor(ctx, staffID, booking); err != nil {
		return err
	}

	booking.AssignedStaffID = staffID
	if _, err := s.repo.Update(ctx, id, booking); err != nil {
		s.cfg.Log.Error("Failed to assign staff", "id", id, "staff_id", staffID, "error", err)
		return mapRepoError(err, id)
	}

	s.cfg.Log.Info("Staff assigned to booking", "id", id, "staff_id", staffID)
	return nil
}

// --- Helpers ---

// applyDefaults clears server-owned fields. Status is left alone: the creator
// must supply one and may pick any valid initial value, which the validator
// enforces.
func (s *bookingService) applyDefaults(b *model.Booking) {
	b.ID = ""
	b.CompletionTime = nil
	b.ActualAmountReceived = 0
	if b.BookingDate.IsZero() && !b.BookingTime.IsZero() {
		y, m, d := b.BookingTime.Date()
		b.BookingDate = time.Date(y, m, d, 0, 0, 0, 0, b.BookingTime.Location())
	}
}

func (s *bookingService) sanitize(b *model.Booking) {
	b.CustomerAddress = sanitizer.NormalizeAddress(b.CustomerAddress)
	b.RejectionReason = sanitizer.TrimAndNormalize(b.RejectionReason)
}

func (s *bookingService) validate(booking *model.Booking) error {
	if err := s.validator.Validate(booking); err != nil {
		s.cfg.Log.Warn("Booking validation failed", "error", err)
		return apperrors.Validation("Booking validation failed", map[string]any{"error": err.Error()})
	}
	return nil
}

func (s *bookingService) applyStatusChange(booking *model.Booking, change *model.BookingStatusChange) {
	booking.Status = change.Status

	switch change.Status {
	case model.StatusRejected:
		if change.RejectionReason != "" {
			booking.RejectionReason = sanitizer.TrimAndNormalize(change.RejectionReason)
		} else {
			booking.RejectionReason = model.DefaultRejectionReason
		}
	case model.StatusCompleted:
		if change.CompletionTime != nil {
			booking.CompletionTime = change.CompletionTime
		} else {
			now := time.Now()
			booking.CompletionTime = &now
		}
		if change.ActualAmountReceived != nil {
			booking.ActualAmountReceived = *change.ActualAmountReceived
		} else {
			booking.ActualAmountReceived = booking.TotalCost
		}
		if change.StaffDiscount != nil {
			booking.StaffDiscount = *change.StaffDiscount
		}
	}
}

func (s *bookingService) verifyStaff(ctx context.Context, staffID string) error {
	staff, err := s.accounts.FindByID(ctx, staffID)
	if err != nil {
		return apperrors.AsAppError(err)
	}
	if staff.Role != model.RoleStaff {
		return apperrors.InvalidInput("Referenced account is not a staff member")
	}
	if !staff.Active {
		return apperrors.InvalidInput("Referenced staff member is not active")
	}
	return nil
}

// verifyNoConflict enforces the double-booking guard: no other booking for
// the same staff member within the conflict window around the requested time,
// inclusive on both ends and regardless of status.
func (s *bookingService) verifyNoConflict(ctx context.Context, booking *model.Booking) error {
	return s.verifyNoConflictFor(ctx, booking.PreferredStaffID, booking)
}

func (s *bookingService) verifyNoConflictFor(ctx context.Context, staffID string, booking *model.Booking) error {
	from := booking.BookingTime.Add(-s.cfg.ConflictWindow)
	to := booking.BookingTime.Add(s.cfg.ConflictWindow)

	existing, err := s.repo.FindForStaffWithin(ctx, staffID, from, to)
	if err != nil {
		return apperrors.Internal("Failed to check existing bookings", err)
	}

	for _, b := range existing {
		if b.ID == booking.ID {
			continue
		}
		return apperrors.Conflict(fmt.Sprintf(
			"The staff member already has a booking at %s, within %s of the requested time",
			b.BookingTime.Format(time.RFC3339),
			s.cfg.ConflictWindow,
		))
	}
	return nil
}

func (s *bookingService) listConcurrently(
	ctx context.Context,
	countFn func() (int64, error),
	findFn func() ([]*model.Booking, error),
) ([]*model.Booking, int64, error) {
	var count int64
	var bookings []*model.Booking
	var errCount, errFind error
	var wg sync.WaitGroup
	wg.Add(2)

	go func() {
		defer wg.Done()
		count, errCount = countFn()
		if errCount != nil {
			s.cfg.Log.Error("Failed to count bookings", "error", errCount)
			errCount = apperrors.Internal("Failed to count bookings", errCount)
		}
	}()

	go func() {
		defer wg.Done()
		bookings, errFind = findFn()
		if errFind != nil {
			s.cfg.Log.Error("Failed to list bookings", "error", errFind)
			errFind = apperrors.Internal("Failed to retrieve bookings", errFind)
		}
	}()

	wg.Wait()
	if errCount != nil {
		return nil, 0, errCount
	}
	if errFind != nil {
		return nil, 0, errFind
	}

	return bookings, count, nil
}

// acquireSlotLock creates an advisory lock keyed by the staff member and the
// requested minute. A duplicate key means another request is booking the same
// slot right now.
func (s *bookingService) acquireSlotLock(ctx context.Context, staffID string, bookingTime time.Time) (string, error) {
	lockID := fmt.Sprintf("slot_lock_%s_%d", staffID, bookingTime.Unix())

	lock := &model.SlotLock{
		ID:        lockID,
		ExpiresAt: time.Now().Add(s.cfg.SlotLockTTL),
	}

	if _, err := s.lockRepo.Create(ctx, lock); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return "", apperrors.Conflict("This time slot is currently being booked by another request. Please try again.")
		}
		return "", apperrors.Internal("Failed to acquire slot lock", err)
	}

	return lockID, nil
}

func (s *bookingService) releaseSlotLock(ctx context.Context, lockID string) error {
	return s.lockRepo.Delete(ctx, lockID)
}

// Notification failures never fail the booking operation; they are logged by
// the dispatcher and dropped.

func (s *bookingService) notifyStaffOfCreation(ctx context.Context, booking *model.Booking) {
	if booking.PreferredStaffID == "" {
		return
	}

	staff, err := s.accounts.FindByID(ctx, booking.PreferredStaffID)
	if err != nil {
		s.cfg.Log.Warn("Could not resolve staff for notification", "staff_id", booking.PreferredStaffID, "error", err)
		return
	}
	customerName := "a customer"
	if customer, err := s.accounts.FindByID(ctx, booking.CustomerID); err == nil {
		customerName = customer.Name
	}

	event := notify.BookingCreated(staff.Email, staff.Name, customerName, booking)
	_ = s.dispatcher.Dispatch(ctx, notify.EventBookingCreated, event)
}

func (s *bookingService) notifyStaffOfCancellation(ctx context.Context, booking *model.Booking) {
	if booking.PreferredStaffID == "" {
		return
	}

	staff, err := s.accounts.FindByID(ctx, booking.PreferredStaffID)
	if err != nil {
		s.cfg.Log.Warn("Could not resolve staff for notification", "staff_id", booking.PreferredStaffID, "error", err)
		return
	}
	customerName := "a customer"
	if customer, err := s.accounts.FindByID(ctx, booking.CustomerID); err == nil {
		customerName = customer.Name
	}

	event := notify.BookingCanceled(staff.Email, staff.Name, customerName, booking)
	_ = s.dispatcher.Dispatch(ctx, notify.EventBookingCanceled, event)
}

func (s *bookingService) notifyCustomerOfStatus(ctx context.Context, booking *model.Booking) {
	customer, err := s.accounts.FindByID(ctx, booking.CustomerID)
	if err != nil {
		s.cfg.Log.Warn("Could not resolve customer for notification", "customer_id", booking.CustomerID, "error", err)
		return
	}

	event := notify.BookingStatusChanged(customer.Email, customer.Name, booking)
	_ = s.dispatcher.Dispatch(ctx, notify.EventBookingStatus, event)
}

func mapRepoError(err error, id string) error {
	if errors.Is(err, bookingserrors.ErrNotFound) {
		return apperrors.NotFoundWithID("Booking", id)
	}
	if errors.Is(err, bookingserrors.ErrInvalidID) {
		return apperrors.InvalidInput("Invalid booking ID format")
	}
	if apperrors.IsAppError(err) {
		return err
	}
	return apperrors.Internal("Failed to access booking", err)
}
