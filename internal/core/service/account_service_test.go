package service

import (
	"context"
	"errors"
	"testing"

	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"github.com/csemotors/dealership/internal/core/domain"
	"github.com/csemotors/dealership/internal/core/ports"
)

const testPassword = "Abcdefg1!2345"

func newAccountSvc(repo ports.AccountRepository, throttle ports.LoginThrottle, sink ports.AuditSink) *AccountService {
	return NewAccountService(repo, throttle, sink, zerolog.Nop())
}

func register(t *testing.T, svc *AccountService, email string) *domain.Account {
	t.Helper()
	a, err := svc.Register(context.Background(), ports.RegisterInput{
		FirstName: "Ada",
		LastName:  "Lovelace",
		Email:     email,
		Password:  testPassword,
	})
	if err != nil {
		t.Fatalf("register %s: %v", email, err)
	}
	return a
}

func TestAccountService_Register_HashesAndDefaultsToClient(t *testing.T) {
	repo := newStubAccountRepo()
	svc := newAccountSvc(repo, nil, nil)

	a := register(t, svc, "  A@B.com ")

	if a.ID == 0 {
		t.Fatalf("expected assigned id")
	}
	if a.Role != domain.RoleClient {
		t.Fatalf("expected role Client, got %s", a.Role)
	}
	if a.Email != "a@b.com" {
		t.Fatalf("expected normalised email, got %q", a.Email)
	}
	if a.PasswordHash == testPassword {
		t.Fatalf("expected password to be hashed")
	}
	if err := bcrypt.CompareHashAndPassword([]byte(a.PasswordHash), []byte(testPassword)); err != nil {
		t.Fatalf("stored hash does not match password: %v", err)
	}
}

func TestAccountService_Register_DuplicateEmail(t *testing.T) {
	repo := newStubAccountRepo()
	svc := newAccountSvc(repo, nil, nil)
	register(t, svc, "a@b.com")

	_, err := svc.Register(context.Background(), ports.RegisterInput{
		FirstName: "Other", LastName: "Person", Email: "A@B.COM", Password: testPassword,
	})
	if !errors.Is(err, domain.ErrEmailExists) {
		t.Fatalf("expected ErrEmailExists, got %v", err)
	}
	if repo.inserts != 1 {
		t.Fatalf("expected exactly one stored account, got %d", repo.inserts)
	}
}

func TestAccountService_RegisterThenLogin(t *testing.T) {
	sink := &recordingSink{}
	svc := newAccountSvc(newStubAccountRepo(), nil, sink)
	created := register(t, svc, "a@b.com")

	got, err := svc.Login(context.Background(), ports.LoginInput{Email: "a@b.com", Password: testPassword})
	if err != nil {
		t.Fatalf("login failed: %v", err)
	}
	if got.ID != created.ID {
		t.Fatalf("expected account %d, got %d", created.ID, got.ID)
	}
	claims := got.Claims()
	if claims.Role != domain.RoleClient || claims.Email != "a@b.com" {
		t.Fatalf("unexpected claims: %+v", claims)
	}

	kinds := sink.kinds()
	if len(kinds) != 2 || kinds[0] != domain.EventRegistered || kinds[1] != domain.EventLoginSucceeded {
		t.Fatalf("unexpected audit trail: %v", kinds)
	}
}

func TestAccountService_Login_UnknownEmailAndWrongPasswordLookAlike(t *testing.T) {
	svc := newAccountSvc(newStubAccountRepo(), nil, nil)
	register(t, svc, "a@b.com")

	_, errUnknown := svc.Login(context.Background(), ports.LoginInput{Email: "nobody@b.com", Password: testPassword})
	_, errWrong := svc.Login(context.Background(), ports.LoginInput{Email: "a@b.com", Password: "Wrong-password-1"})

	if errUnknown != domain.ErrCredentialInvalid {
		t.Fatalf("unknown email: expected ErrCredentialInvalid, got %v", errUnknown)
	}
	if errWrong != domain.ErrCredentialInvalid {
		t.Fatalf("wrong password: expected ErrCredentialInvalid, got %v", errWrong)
	}
}

func TestAccountService_Login_EmptyInput(t *testing.T) {
	svc := newAccountSvc(newStubAccountRepo(), nil, nil)

	if _, err := svc.Login(context.Background(), ports.LoginInput{Email: "", Password: "x"}); err != domain.ErrCredentialInvalid {
		t.Fatalf("expected ErrCredentialInvalid, got %v", err)
	}
	if _, err := svc.Login(context.Background(), ports.LoginInput{Email: "a@b.com", Password: ""}); err != domain.ErrCredentialInvalid {
		t.Fatalf("expected ErrCredentialInvalid, got %v", err)
	}
}

func TestAccountService_Login_MalformedCredentialIsForbidden(t *testing.T) {
	repo := newStubAccountRepo()
	repo.accounts[1] = &domain.Account{ID: 1, Email: "a@b.com", PasswordHash: "plaintext", Role: domain.RoleClient}
	svc := newAccountSvc(repo, nil, nil)

	_, err := svc.Login(context.Background(), ports.LoginInput{Email: "a@b.com", Password: "plaintext"})
	if err != domain.ErrAuthorizationDenied {
		t.Fatalf("expected ErrAuthorizationDenied, got %v", err)
	}
}

func TestAccountService_Login_StoreFailurePropagates(t *testing.T) {
	svc := newAccountSvc(&failingAccountRepo{stubAccountRepo: newStubAccountRepo()}, nil, nil)

	_, err := svc.Login(context.Background(), ports.LoginInput{Email: "a@b.com", Password: testPassword})
	if !errors.Is(err, errStore) {
		t.Fatalf("expected store error, got %v", err)
	}
}

type failingAccountRepo struct {
	*stubAccountRepo
}

func (r *failingAccountRepo) FindByEmail(context.Context, string) (*domain.Account, error) {
	return nil, errStore
}

func TestAccountService_Login_ThrottleLocksOut(t *testing.T) {
	throttle := newStubThrottle(3)
	sink := &recordingSink{}
	svc := newAccountSvc(newStubAccountRepo(), throttle, sink)
	register(t, svc, "a@b.com")

	for i := 0; i < 3; i++ {
		if _, err := svc.Login(context.Background(), ports.LoginInput{Email: "a@b.com", Password: "Wrong-password-1"}); err != domain.ErrCredentialInvalid {
			t.Fatalf("attempt %d: expected ErrCredentialInvalid, got %v", i, err)
		}
	}

	_, err := svc.Login(context.Background(), ports.LoginInput{Email: "a@b.com", Password: testPassword})
	if err != domain.ErrTooManyAttempts {
		t.Fatalf("expected ErrTooManyAttempts, got %v", err)
	}
	kinds := sink.kinds()
	if kinds[len(kinds)-1] != domain.EventLoginThrottled {
		t.Fatalf("expected throttled audit event, got %v", kinds)
	}
}

func TestAccountService_Login_SuccessResetsThrottle(t *testing.T) {
	throttle := newStubThrottle(3)
	svc := newAccountSvc(newStubAccountRepo(), throttle, nil)
	register(t, svc, "a@b.com")

	_, _ = svc.Login(context.Background(), ports.LoginInput{Email: "a@b.com", Password: "Wrong-password-1"})
	if throttle.failures["a@b.com"] != 1 {
		t.Fatalf("expected one recorded failure, got %d", throttle.failures["a@b.com"])
	}
	if _, err := svc.Login(context.Background(), ports.LoginInput{Email: "a@b.com", Password: testPassword}); err != nil {
		t.Fatalf("login failed: %v", err)
	}
	if _, ok := throttle.failures["a@b.com"]; ok {
		t.Fatalf("expected failures to be reset")
	}
}

func TestAccountService_Login_ThrottleErrorDoesNotBlock(t *testing.T) {
	throttle := newStubThrottle(1)
	throttle.err = errStore
	svc := newAccountSvc(newStubAccountRepo(), throttle, nil)
	register(t, svc, "a@b.com")

	if _, err := svc.Login(context.Background(), ports.LoginInput{Email: "a@b.com", Password: testPassword}); err != nil {
		t.Fatalf("expected login to proceed, got %v", err)
	}
}

func TestAccountService_UpdateProfile_ReturnsFreshAccount(t *testing.T) {
	svc := newAccountSvc(newStubAccountRepo(), nil, nil)
	a := register(t, svc, "a@b.com")

	updated, err := svc.UpdateProfile(context.Background(), a.ID, ports.ProfileInput{
		FirstName: " Grace ", LastName: "Hopper", Email: "G@H.com",
	})
	if err != nil {
		t.Fatalf("update failed: %v", err)
	}
	if updated.Email != "g@h.com" || updated.FirstName != "Grace" {
		t.Fatalf("unexpected account: %+v", updated)
	}
	if updated.Claims().Email != "g@h.com" {
		t.Fatalf("claims must carry the new email")
	}
	if updated.PasswordHash != a.PasswordHash {
		t.Fatalf("profile update must not touch the credential")
	}
}

func TestAccountService_UpdateProfile_UnknownAccount(t *testing.T) {
	svc := newAccountSvc(newStubAccountRepo(), nil, nil)

	_, err := svc.UpdateProfile(context.Background(), 42, ports.ProfileInput{FirstName: "A", LastName: "Bc", Email: "a@b.com"})
	if !errors.Is(err, domain.ErrAccountNotFound) {
		t.Fatalf("expected ErrAccountNotFound, got %v", err)
	}
	if _, err := svc.UpdateProfile(context.Background(), 0, ports.ProfileInput{}); err != domain.ErrAuthorizationDenied {
		t.Fatalf("expected ErrAuthorizationDenied for anonymous actor, got %v", err)
	}
}

func TestAccountService_UpdatePassword_Rehashes(t *testing.T) {
	sink := &recordingSink{}
	svc := newAccountSvc(newStubAccountRepo(), nil, sink)
	a := register(t, svc, "a@b.com")

	const next = "Zyxwvut9?8765"
	updated, err := svc.UpdatePassword(context.Background(), a.ID, next)
	if err != nil {
		t.Fatalf("update password failed: %v", err)
	}
	if updated.PasswordHash == a.PasswordHash || updated.PasswordHash == next {
		t.Fatalf("expected a new hashed credential")
	}
	if _, err := svc.Login(context.Background(), ports.LoginInput{Email: "a@b.com", Password: next}); err != nil {
		t.Fatalf("login with new password failed: %v", err)
	}
	if _, err := svc.Login(context.Background(), ports.LoginInput{Email: "a@b.com", Password: testPassword}); err != domain.ErrCredentialInvalid {
		t.Fatalf("old password must stop working, got %v", err)
	}
}

func TestAccountService_Logout_Audits(t *testing.T) {
	sink := &recordingSink{}
	svc := newAccountSvc(newStubAccountRepo(), nil, sink)

	svc.Logout(context.Background(), 0, "127.0.0.1")
	svc.Logout(context.Background(), 5, "127.0.0.1")

	kinds := sink.kinds()
	if len(kinds) != 1 || kinds[0] != domain.EventLoggedOut {
		t.Fatalf("expected one logout event, got %v", kinds)
	}
}
