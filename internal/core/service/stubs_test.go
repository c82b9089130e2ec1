package service

import (
	"context"
	"errors"
	"sync"

	"github.com/csemotors/dealership/internal/core/domain"
)

type stubAccountRepo struct {
	accounts map[int64]*domain.Account
	nextID   int64
	inserts  int
}

func newStubAccountRepo() *stubAccountRepo {
	return &stubAccountRepo{accounts: make(map[int64]*domain.Account)}
}

func cloneAccount(a *domain.Account) *domain.Account {
	if a == nil {
		return nil
	}
	clone := *a
	return &clone
}

func (r *stubAccountRepo) FindByEmail(_ context.Context, email string) (*domain.Account, error) {
	for _, a := range r.accounts {
		if a.Email == email {
			return cloneAccount(a), nil
		}
	}
	return nil, domain.ErrAccountNotFound
}

func (r *stubAccountRepo) FindByID(_ context.Context, id int64) (*domain.Account, error) {
	a, ok := r.accounts[id]
	if !ok {
		return nil, domain.ErrAccountNotFound
	}
	return cloneAccount(a), nil
}

func (r *stubAccountRepo) Insert(_ context.Context, account *domain.Account) (*domain.Account, error) {
	for _, a := range r.accounts {
		if a.Email == account.Email {
			return nil, domain.ErrEmailExists
		}
	}
	r.inserts++
	r.nextID++
	stored := cloneAccount(account)
	stored.ID = r.nextID
	r.accounts[stored.ID] = stored
	return cloneAccount(stored), nil
}

func (r *stubAccountRepo) UpdateProfile(_ context.Context, id int64, firstName, lastName, email string) (int64, error) {
	a, ok := r.accounts[id]
	if !ok {
		return 0, nil
	}
	a.FirstName, a.LastName, a.Email = firstName, lastName, email
	return 1, nil
}

func (r *stubAccountRepo) UpdateCredential(_ context.Context, id int64, hash string) (int64, error) {
	a, ok := r.accounts[id]
	if !ok {
		return 0, nil
	}
	a.PasswordHash = hash
	return 1, nil
}

func (r *stubAccountRepo) EmailExists(_ context.Context, email string) (bool, error) {
	for _, a := range r.accounts {
		if a.Email == email {
			return true, nil
		}
	}
	return false, nil
}

type stubThrottle struct {
	failures map[string]int
	limit    int
	err      error
}

func newStubThrottle(limit int) *stubThrottle {
	return &stubThrottle{failures: make(map[string]int), limit: limit}
}

func (t *stubThrottle) Blocked(_ context.Context, email string) (bool, error) {
	if t.err != nil {
		return false, t.err
	}
	return t.failures[email] >= t.limit, nil
}

func (t *stubThrottle) RecordFailure(_ context.Context, email string) error {
	t.failures[email]++
	return nil
}

func (t *stubThrottle) Reset(_ context.Context, email string) error {
	delete(t.failures, email)
	return nil
}

type recordingSink struct {
	mu     sync.Mutex
	events []domain.AuthEvent
}

func (s *recordingSink) Enqueue(e domain.AuthEvent) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.events = append(s.events, e)
}

func (s *recordingSink) kinds() []domain.AuthEventKind {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]domain.AuthEventKind, 0, len(s.events))
	for _, e := range s.events {
		out = append(out, e.Kind)
	}
	return out
}

type stubCommentRepo struct {
	comments map[int64]*domain.Comment
	nextID   int64
	findErr  error
}

func newStubCommentRepo() *stubCommentRepo {
	return &stubCommentRepo{comments: make(map[int64]*domain.Comment)}
}

func (r *stubCommentRepo) Insert(_ context.Context, c *domain.Comment) (*domain.Comment, error) {
	r.nextID++
	stored := *c
	stored.ID = r.nextID
	r.comments[stored.ID] = &stored
	out := stored
	return &out, nil
}

func (r *stubCommentRepo) FindByID(_ context.Context, id int64) (*domain.Comment, error) {
	if r.findErr != nil {
		return nil, r.findErr
	}
	c, ok := r.comments[id]
	if !ok {
		return nil, domain.ErrCommentNotFound
	}
	out := *c
	return &out, nil
}

func (r *stubCommentRepo) Update(_ context.Context, id, accountID int64, text string) (int64, error) {
	c, ok := r.comments[id]
	if !ok || c.AccountID != accountID {
		return 0, nil
	}
	c.Text = text
	return 1, nil
}

func (r *stubCommentRepo) Delete(_ context.Context, id, accountID int64) (int64, error) {
	c, ok := r.comments[id]
	if !ok || c.AccountID != accountID {
		return 0, nil
	}
	delete(r.comments, id)
	return 1, nil
}

func (r *stubCommentRepo) ListByInventory(_ context.Context, inventoryID int64) ([]domain.Comment, error) {
	var out []domain.Comment
	for _, c := range r.comments {
		if c.InventoryID == inventoryID {
			out = append(out, *c)
		}
	}
	return out, nil
}

func (r *stubCommentRepo) ListByAccount(_ context.Context, accountID int64) ([]domain.Comment, error) {
	var out []domain.Comment
	for _, c := range r.comments {
		if c.AccountID == accountID {
			out = append(out, *c)
		}
	}
	return out, nil
}

func (r *stubCommentRepo) ListRecent(_ context.Context, limit int) ([]domain.Comment, error) {
	var out []domain.Comment
	for _, c := range r.comments {
		if len(out) == limit {
			break
		}
		out = append(out, *c)
	}
	return out, nil
}

type stubInventoryRepo struct {
	classifications map[int64]domain.Classification
	vehicles        map[int64]*domain.Vehicle
	nextID          int64
	deleted         []int64
}

func newStubInventoryRepo() *stubInventoryRepo {
	return &stubInventoryRepo{
		classifications: map[int64]domain.Classification{1: {ID: 1, Name: "SUV"}},
		vehicles:        make(map[int64]*domain.Vehicle),
	}
}

func (r *stubInventoryRepo) Classifications(_ context.Context) ([]domain.Classification, error) {
	out := make([]domain.Classification, 0, len(r.classifications))
	for _, c := range r.classifications {
		out = append(out, c)
	}
	return out, nil
}

func (r *stubInventoryRepo) ClassificationByID(_ context.Context, id int64) (*domain.Classification, error) {
	c, ok := r.classifications[id]
	if !ok {
		return nil, domain.ErrClassificationNotFound
	}
	return &c, nil
}

func (r *stubInventoryRepo) AddClassification(_ context.Context, name string) (*domain.Classification, error) {
	for _, c := range r.classifications {
		if c.Name == name {
			return nil, domain.ErrClassificationExists
		}
	}
	id := int64(len(r.classifications) + 1)
	c := domain.Classification{ID: id, Name: name}
	r.classifications[id] = c
	return &c, nil
}

func (r *stubInventoryRepo) AddVehicle(_ context.Context, v *domain.Vehicle) (*domain.Vehicle, error) {
	r.nextID++
	stored := *v
	stored.ID = r.nextID
	r.vehicles[stored.ID] = &stored
	out := stored
	return &out, nil
}

func (r *stubInventoryRepo) VehicleByID(_ context.Context, id int64) (*domain.Vehicle, error) {
	v, ok := r.vehicles[id]
	if !ok {
		return nil, domain.ErrVehicleNotFound
	}
	out := *v
	return &out, nil
}

func (r *stubInventoryRepo) VehiclesByClassification(_ context.Context, classificationID int64) ([]domain.Vehicle, error) {
	var out []domain.Vehicle
	for _, v := range r.vehicles {
		if v.ClassificationID == classificationID {
			out = append(out, *v)
		}
	}
	return out, nil
}

func (r *stubInventoryRepo) UpdateVehicle(_ context.Context, v *domain.Vehicle) (int64, error) {
	if _, ok := r.vehicles[v.ID]; !ok {
		return 0, nil
	}
	stored := *v
	r.vehicles[v.ID] = &stored
	return 1, nil
}

func (r *stubInventoryRepo) DeleteVehicle(_ context.Context, id int64) (int64, error) {
	if _, ok := r.vehicles[id]; !ok {
		return 0, nil
	}
	delete(r.vehicles, id)
	r.deleted = append(r.deleted, id)
	return 1, nil
}

type stubAuditRepo struct {
	events []domain.AuthEvent
	err    error
}

func (r *stubAuditRepo) Insert(_ context.Context, e *domain.AuthEvent) error {
	if r.err != nil {
		return r.err
	}
	r.events = append(r.events, *e)
	return nil
}

var errStore = errors.New("store unavailable")
