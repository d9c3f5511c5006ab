package service

import (
	"context"
	"errors"
	"sync"

	"golang.org/x/crypto/bcrypt"

	accountserrors "homecare/internal/accounts/errors"
	"homecare/internal/accounts/repository"
	"homecare/internal/accounts/validator"
	"homecare/internal/notify"
	"homecare/pkg/config"
	apperrors "homecare/pkg/errors"
	"homecare/pkg/jwt"
	"homecare/pkg/model"
	"homecare/pkg/sanitizer"
)

// ScheduleProvisioner creates the default work schedule for a freshly
// registered staff account.
type ScheduleProvisioner interface {
	CreateDefault(ctx context.Context, staffID string) (*model.WorkSchedule, error)
}

type AccountService interface {
	Register(ctx context.Context, reg *model.AccountRegistration) (*model.Account, error)
	Login(ctx context.Context, creds *model.Credentials) (string, *model.Account, error)
	FindByID(ctx context.Context, id string) (*model.Account, error)
	GetInactiveStaff(ctx context.Context, limit int, offset int64) ([]*model.Account, int64, error)
	Approve(ctx context.Context, staffID string) error
	Reject(ctx context.Context, staffID string) error
}

type accountService struct {
	repo       repository.AccountRepository
	validator  *validator.AccountValidator
	schedules  ScheduleProvisioner
	jwtService *jwt.Service
	dispatcher notify.Dispatcher
	cfg        *config.Config
}

func NewAccountService(
	repo repository.AccountRepository,
	validator *validator.AccountValidator,
	schedules ScheduleProvisioner,
	jwtService *jwt.Service,
	dispatcher notify.Dispatcher,
	cfg *config.Config,
) AccountService {
	return &accountService{
		repo:       repo,
		validator:  validator,
		schedules:  schedules,
		jwtService: jwtService,
		dispatcher: dispatcher,
		cfg:        cfg,
	}
}

// Register creates an account. Customers are active immediately; staff start
// inactive pending admin approval and get an empty default work schedule.
func (s *accountService) Register(ctx context.Context, reg *model.AccountRegistration) (*model.Account, error) {
	reg.Name = sanitizer.NormalizeName(reg.Name)
	reg.Address = sanitizer.NormalizeAddress(reg.Address)

	if err := s.validator.ValidateRegistration(reg); err != nil {
		s.cfg.Log.Warn("Registration validation failed", "error", err)
		return nil, apperrors.Validation("Registration validation failed", map[string]any{"error": err.Error()})
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(reg.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, apperrors.Internal("Failed to hash password", err)
	}

	account := &model.Account{
		Name:         reg.Name,
		Email:        reg.Email,
		Phone:        reg.Phone,
		Address:      reg.Address,
		PasswordHash: string(hash),
		Role:         reg.Role,
		ServiceIDs:   reg.ServiceIDs,
		Active:       reg.Role == model.RoleCustomer,
	}

	if err := s.repo.Create(ctx, account); err != nil {
		if errors.Is(err, accountserrors.ErrEmailTaken) {
			return nil, apperrors.Conflict("Email address is already registered")
		}
		s.cfg.Log.Error("Failed to create account", "email", reg.Email, "error", err)
		return nil, apperrors.Internal("Failed to create account", err)
	}

	if account.Role == model.RoleStaff {
		if _, err := s.schedules.CreateDefault(ctx, account.ID); err != nil {
			// The account exists; the schedule can be provisioned later.
			s.cfg.Log.Error("Failed to provision default schedule", "staff_id", account.ID, "error", err)
		}
	}

	s.cfg.Log.Info("Account registered",
		"id", account.ID,
		"role", account.Role,
		"active", account.Active,
	)
	return account, nil
}

func (s *accountService) Login(ctx context.Context, creds *model.Credentials) (string, *model.Account, error) {
	if err := s.validator.ValidateCredentials(creds); err != nil {
		return "", nil, apperrors.Validation("Login validation failed", map[string]any{"error": err.Error()})
	}

	account, err := s.repo.FindByEmail(ctx, creds.Email)
	if err != nil {
		if errors.Is(err, accountserrors.ErrNotFound) {
			return "", nil, apperrors.Unauthorized("Invalid email or password")
		}
		s.cfg.Log.Error("Failed to look up account", "error", err)
		return "", nil, apperrors.Internal("Failed to authenticate", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(account.PasswordHash), []byte(creds.Password)); err != nil {
		return "", nil, apperrors.Unauthorized("Invalid email or password")
	}

	if !account.Active {
		return "", nil, apperrors.Forbidden("Account is awaiting approval")
	}

	token, err := s.jwtService.GenerateToken(account.ID, string(account.Role))
	if err != nil {
		s.cfg.Log.Error("Failed to generate token", "account_id", account.ID, "error", err)
		return "", nil, apperrors.Internal("Failed to generate token", err)
	}

	s.cfg.Log.Info("Account logged in", "id", account.ID, "role", account.Role)
	return token, account, nil
}

func (s *accountService) FindByID(ctx context.Context, id string) (*model.Account, error) {
	if id == "" {
		return nil, apperrors.InvalidInput("Account ID cannot be empty")
	}

	account, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, mapRepoError(err, id)
	}

	return account, nil
}

func (s *accountService) GetInactiveStaff(ctx context.Context, limit int, offset int64) ([]*model.Account, int64, error) {
	var count int64
	var staff []*model.Account
	var errCount, errFind error
	var wg sync.WaitGroup
	wg.Add(2)

	go func() {
		defer wg.Done()
		count, errCount = s.repo.CountInactiveStaff(ctx)
		if errCount != nil {
			s.cfg.Log.Error("Failed to count inactive staff", "error", errCount)
			errCount = apperrors.Internal("Failed to count staff", errCount)
		}
	}()

	go func() {
		defer wg.Done()
		staff, errFind = s.repo.FindInactiveStaff(ctx, limit, offset)
		if errFind != nil {
			s.cfg.Log.Error("Failed to list inactive staff", "error", errFind)
			errFind = apperrors.Internal("Failed to retrieve staff", errFind)
		}
	}()

	wg.Wait()
	if errCount != nil {
		return nil, 0, errCount
	}
	if errFind != nil {
		return nil, 0, errFind
	}

	return staff, count, nil
}

// Approve activates a pending staff account and notifies the staff member.
func (s *accountService) Approve(ctx context.Context, staffID string) error {
	account, err := s.requireInactiveStaff(ctx, staffID)
	if err != nil {
		return err
	}

	if err := s.repo.SetActive(ctx, staffID, true); err != nil {
		s.cfg.Log.Error("Failed to approve staff", "staff_id", staffID, "error", err)
		return mapRepoError(err, staffID)
	}

	s.cfg.Log.Info("Staff account approved", "staff_id", staffID)
	_ = s.dispatcher.Dispatch(ctx, notify.EventAccountApproved, notify.AccountApproved(account.Email, account.Name))
	return nil
}

// Reject removes a pending staff account entirely and notifies the applicant.
func (s *accountService) Reject(ctx context.Context, staffID string) error {
	account, err := s.requireInactiveStaff(ctx, staffID)
	if err != nil {
		return err
	}

	if err := s.repo.Delete(ctx, staffID); err != nil {
		s.cfg.Log.Error("Failed to reject staff", "staff_id", staffID, "error", err)
		return mapRepoError(err, staffID)
	}

	s.cfg.Log.Info("Staff account rejected", "staff_id", staffID)
	_ = s.dispatcher.Dispatch(ctx, notify.EventAccountRejected, notify.AccountRejected(account.Email, account.Name))
	return nil
}

func (s *accountService) requireInactiveStaff(ctx context.Context, staffID string) (*model.Account, error) {
	if staffID == "" {
		return nil, apperrors.InvalidInput("Staff ID cannot be empty")
	}

	account, err := s.repo.FindByID(ctx, staffID)
	if err != nil {
		return nil, mapRepoError(err, staffID)
	}
	if account.Role != model.RoleStaff {
		return nil, apperrors.InvalidInput("Account is not a staff member")
	}
	if account.Active {
		return nil, apperrors.InvalidState("Staff account has already been approved")
	}
	return account, nil
}

func mapRepoError(err error, id string) error {
	if errors.Is(err, accountserrors.ErrNotFound) {
		return apperrors.NotFoundWithID("Account", id)
	}
	if errors.Is(err, accountserrors.ErrInvalidID) {
		return apperrors.InvalidInput("Invalid account ID format")
	}
	if apperrors.IsAppError(err) {
		return err
	}
	return apperrors.Internal("Failed to access account", err)
}
