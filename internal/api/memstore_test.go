package api

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/csemotors/dealership/internal/core/domain"
)

// In-memory repositories so the router can be exercised end to end with the
// real services.

type memAccounts struct {
	mu      sync.Mutex
	byID    map[int64]domain.Account
	nextID  int64
	inserts int
}

func newMemAccounts() *memAccounts {
	return &memAccounts{byID: map[int64]domain.Account{}, nextID: 1}
}

func (m *memAccounts) seed(a domain.Account) domain.Account {
	m.mu.Lock()
	defer m.mu.Unlock()
	a.ID = m.nextID
	m.nextID++
	m.byID[a.ID] = a
	return a
}

func (m *memAccounts) FindByEmail(_ context.Context, email string) (*domain.Account, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, a := range m.byID {
		if a.Email == email {
			return &a, nil
		}
	}
	return nil, domain.ErrAccountNotFound
}

func (m *memAccounts) FindByID(_ context.Context, id int64) (*domain.Account, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	a, ok := m.byID[id]
	if !ok {
		return nil, domain.ErrAccountNotFound
	}
	return &a, nil
}

func (m *memAccounts) Insert(ctx context.Context, a *domain.Account) (*domain.Account, error) {
	if exists, _ := m.EmailExists(ctx, a.Email); exists {
		return nil, domain.ErrEmailExists
	}
	m.mu.Lock()
	m.inserts++
	m.mu.Unlock()
	created := m.seed(*a)
	return &created, nil
}

func (m *memAccounts) UpdateProfile(_ context.Context, id int64, first, last, email string) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	a, ok := m.byID[id]
	if !ok {
		return 0, nil
	}
	a.FirstName, a.LastName, a.Email = first, last, email
	m.byID[id] = a
	return 1, nil
}

func (m *memAccounts) UpdateCredential(_ context.Context, id int64, hash string) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	a, ok := m.byID[id]
	if !ok {
		return 0, nil
	}
	a.PasswordHash = hash
	m.byID[id] = a
	return 1, nil
}

func (m *memAccounts) EmailExists(_ context.Context, email string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, a := range m.byID {
		if a.Email == email {
			return true, nil
		}
	}
	return false, nil
}

type memComments struct {
	mu     sync.Mutex
	byID   map[int64]domain.Comment
	nextID int64
}

func newMemComments() *memComments {
	return &memComments{byID: map[int64]domain.Comment{}, nextID: 1}
}

func (m *memComments) Insert(_ context.Context, c *domain.Comment) (*domain.Comment, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	created := *c
	created.ID = m.nextID
	created.CreatedAt = time.Now()
	m.nextID++
	m.byID[created.ID] = created
	return &created, nil
}

func (m *memComments) FindByID(_ context.Context, id int64) (*domain.Comment, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	c, ok := m.byID[id]
	if !ok {
		return nil, domain.ErrCommentNotFound
	}
	return &c, nil
}

func (m *memComments) Update(_ context.Context, id, accountID int64, text string) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	c, ok := m.byID[id]
	if !ok || c.AccountID != accountID {
		return 0, nil
	}
	c.Text = text
	m.byID[id] = c
	return 1, nil
}

func (m *memComments) Delete(_ context.Context, id, accountID int64) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	c, ok := m.byID[id]
	if !ok || c.AccountID != accountID {
		return 0, nil
	}
	delete(m.byID, id)
	return 1, nil
}

func (m *memComments) filter(keep func(domain.Comment) bool) []domain.Comment {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []domain.Comment
	for _, c := range m.byID {
		if keep(c) {
			out = append(out, c)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

func (m *memComments) ListByInventory(_ context.Context, invID int64) ([]domain.Comment, error) {
	return m.filter(func(c domain.Comment) bool { return c.InventoryID == invID }), nil
}

func (m *memComments) ListByAccount(_ context.Context, accountID int64) ([]domain.Comment, error) {
	return m.filter(func(c domain.Comment) bool { return c.AccountID == accountID }), nil
}

func (m *memComments) ListRecent(_ context.Context, limit int) ([]domain.Comment, error) {
	all := m.filter(func(domain.Comment) bool { return true })
	if len(all) > limit {
		all = all[:limit]
	}
	return all, nil
}

type memInventory struct {
	classifications []domain.Classification
	vehicles        map[int64]domain.Vehicle
}

func newMemInventory() *memInventory {
	return &memInventory{
		classifications: []domain.Classification{{ID: 1, Name: "SUV"}},
		vehicles: map[int64]domain.Vehicle{
			1: {ID: 1, Make: "Jeep", Model: "Wrangler", Year: 2019, Price: 28045, Miles: 41205,
				Color: "Yellow", ClassificationID: 1, ClassificationName: "SUV",
				Description: "Rugged.", Image: "/images/jeep.jpg", Thumbnail: "/images/jeep-tn.jpg"},
		},
	}
}

func (m *memInventory) Classifications(context.Context) ([]domain.Classification, error) {
	return m.classifications, nil
}

func (m *memInventory) ClassificationByID(_ context.Context, id int64) (*domain.Classification, error) {
	for _, c := range m.classifications {
		if c.ID == id {
			return &c, nil
		}
	}
	return nil, domain.ErrClassificationNotFound
}

func (m *memInventory) AddClassification(_ context.Context, name string) (*domain.Classification, error) {
	c := domain.Classification{ID: int64(len(m.classifications) + 1), Name: name}
	m.classifications = append(m.classifications, c)
	return &c, nil
}

func (m *memInventory) AddVehicle(_ context.Context, v *domain.Vehicle) (*domain.Vehicle, error) {
	created := *v
	created.ID = int64(len(m.vehicles) + 1)
	m.vehicles[created.ID] = created
	return &created, nil
}

func (m *memInventory) VehicleByID(_ context.Context, id int64) (*domain.Vehicle, error) {
	v, ok := m.vehicles[id]
	if !ok {
		return nil, domain.ErrVehicleNotFound
	}
	return &v, nil
}

func (m *memInventory) VehiclesByClassification(_ context.Context, id int64) ([]domain.Vehicle, error) {
	var out []domain.Vehicle
	for _, v := range m.vehicles {
		if v.ClassificationID == id {
			out = append(out, v)
		}
	}
	return out, nil
}

func (m *memInventory) UpdateVehicle(_ context.Context, v *domain.Vehicle) (int64, error) {
	if _, ok := m.vehicles[v.ID]; !ok {
		return 0, nil
	}
	m.vehicles[v.ID] = *v
	return 1, nil
}

func (m *memInventory) DeleteVehicle(_ context.Context, id int64) (int64, error) {
	if _, ok := m.vehicles[id]; !ok {
		return 0, nil
	}
	delete(m.vehicles, id)
	return 1, nil
}
