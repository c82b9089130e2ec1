package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/csemotors/dealership/internal/core/domain"
	"github.com/csemotors/dealership/internal/core/ports"
	"github.com/csemotors/dealership/internal/core/security"
)

// AccountService implements registration, login and account self-service.
type AccountService struct {
	repo     ports.AccountRepository
	throttle ports.LoginThrottle
	audit    ports.AuditSink
	log      zerolog.Logger
}

// NewAccountService wires the account use cases. throttle and audit may be
// nil; a nil throttle never blocks and a nil sink drops events.
func NewAccountService(repo ports.AccountRepository, throttle ports.LoginThrottle, audit ports.AuditSink, log zerolog.Logger) *AccountService {
	if throttle == nil {
		throttle = openThrottle{}
	}
	if audit == nil {
		audit = discardSink{}
	}
	return &AccountService{repo: repo, throttle: throttle, audit: audit, log: log}
}

// Register creates a Client account with a freshly hashed credential.
func (s *AccountService) Register(ctx context.Context, in ports.RegisterInput) (*domain.Account, error) {
	hash, err := security.HashPassword(in.Password)
	if err != nil {
		return nil, fmt.Errorf("register: %w", err)
	}

	created, err := s.repo.Insert(ctx, &domain.Account{
		FirstName:    strings.TrimSpace(in.FirstName),
		LastName:     strings.TrimSpace(in.LastName),
		Email:        domain.NormalizeEmail(in.Email),
		PasswordHash: hash,
		Role:         domain.RoleClient,
	})
	if err != nil {
		return nil, fmt.Errorf("register: %w", err)
	}

	s.record(domain.EventRegistered, created.ID, created.Email, in.RemoteIP)
	s.log.Info().Int64("account_id", created.ID).Msg("account registered")
	return created, nil
}

// Login verifies credentials. An unknown email and a wrong password are
// indistinguishable to the caller.
func (s *AccountService) Login(ctx context.Context, in ports.LoginInput) (*domain.Account, error) {
	email := domain.NormalizeEmail(in.Email)
	if email == "" || in.Password == "" {
		return nil, domain.ErrCredentialInvalid
	}

	blocked, err := s.throttle.Blocked(ctx, email)
	if err != nil {
		s.log.Warn().Err(err).Msg("login throttle check failed, continuing")
	} else if blocked {
		s.record(domain.EventLoginThrottled, 0, email, in.RemoteIP)
		return nil, domain.ErrTooManyAttempts
	}

	account, err := s.repo.FindByEmail(ctx, email)
	if errors.Is(err, domain.ErrAccountNotFound) {
		s.failed(ctx, 0, email, in.RemoteIP)
		return nil, domain.ErrCredentialInvalid
	}
	if err != nil {
		return nil, fmt.Errorf("login: %w", err)
	}

	ok, err := security.VerifyPassword(in.Password, account.PasswordHash)
	if err != nil {
		s.log.Error().Err(err).Int64("account_id", account.ID).Msg("stored credential unreadable")
		s.record(domain.EventLoginFailed, account.ID, email, in.RemoteIP)
		return nil, domain.ErrAuthorizationDenied
	}
	if !ok {
		s.failed(ctx, account.ID, email, in.RemoteIP)
		return nil, domain.ErrCredentialInvalid
	}

	if err := s.throttle.Reset(ctx, email); err != nil {
		s.log.Warn().Err(err).Msg("failed to reset login throttle")
	}
	s.record(domain.EventLoginSucceeded, account.ID, email, in.RemoteIP)
	return account, nil
}

func (s *AccountService) failed(ctx context.Context, accountID int64, email, ip string) {
	if err := s.throttle.RecordFailure(ctx, email); err != nil {
		s.log.Warn().Err(err).Msg("failed to record login failure")
	}
	s.record(domain.EventLoginFailed, accountID, email, ip)
}

// Account returns the stored account for id.
func (s *AccountService) Account(ctx context.Context, id int64) (*domain.Account, error) {
	account, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("account %d: %w", id, err)
	}
	return account, nil
}

// EmailExists reports whether email is already registered.
func (s *AccountService) EmailExists(ctx context.Context, email string) (bool, error) {
	exists, err := s.repo.EmailExists(ctx, domain.NormalizeEmail(email))
	if err != nil {
		return false, fmt.Errorf("email exists: %w", err)
	}
	return exists, nil
}

// UpdateProfile changes the names and email of actorID's own account and
// returns the stored result for session re-issuance.
func (s *AccountService) UpdateProfile(ctx context.Context, actorID int64, in ports.ProfileInput) (*domain.Account, error) {
	if actorID <= 0 {
		return nil, domain.ErrAuthorizationDenied
	}

	rows, err := s.repo.UpdateProfile(ctx, actorID,
		strings.TrimSpace(in.FirstName),
		strings.TrimSpace(in.LastName),
		domain.NormalizeEmail(in.Email),
	)
	if err != nil {
		return nil, fmt.Errorf("update profile: %w", err)
	}
	if rows == 0 {
		return nil, fmt.Errorf("update profile: %w", domain.ErrAccountNotFound)
	}

	account, err := s.Account(ctx, actorID)
	if err != nil {
		return nil, err
	}
	s.record(domain.EventProfileUpdated, account.ID, account.Email, "")
	return account, nil
}

// UpdatePassword re-hashes and stores a new credential for actorID.
func (s *AccountService) UpdatePassword(ctx context.Context, actorID int64, password string) (*domain.Account, error) {
	if actorID <= 0 {
		return nil, domain.ErrAuthorizationDenied
	}

	hash, err := security.HashPassword(password)
	if err != nil {
		return nil, fmt.Errorf("update password: %w", err)
	}

	rows, err := s.repo.UpdateCredential(ctx, actorID, hash)
	if err != nil {
		return nil, fmt.Errorf("update password: %w", err)
	}
	if rows == 0 {
		return nil, fmt.Errorf("update password: %w", domain.ErrAccountNotFound)
	}

	account, err := s.Account(ctx, actorID)
	if err != nil {
		return nil, err
	}
	s.record(domain.EventPasswordChanged, account.ID, account.Email, "")
	return account, nil
}

// Logout only leaves an audit record; the token stays valid until it
// expires because sessions are not revocable.
func (s *AccountService) Logout(_ context.Context, actorID int64, remoteIP string) {
	if actorID <= 0 {
		return
	}
	s.record(domain.EventLoggedOut, actorID, "", remoteIP)
}

func (s *AccountService) record(kind domain.AuthEventKind, accountID int64, email, ip string) {
	s.audit.Enqueue(domain.AuthEvent{
		Kind:       kind,
		AccountID:  accountID,
		Email:      email,
		RemoteIP:   ip,
		OccurredAt: time.Now().UTC(),
	})
}

type openThrottle struct{}

func (openThrottle) Blocked(context.Context, string) (bool, error) { return false, nil }
func (openThrottle) RecordFailure(context.Context, string) error   { return nil }
func (openThrottle) Reset(context.Context, string) error           { return nil }

type discardSink struct{}

func (discardSink) Enqueue(domain.AuthEvent) {}
