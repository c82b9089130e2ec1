package mongo

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/csemotors/dealership/internal/core/domain"
	"github.com/csemotors/dealership/internal/core/ports"
)

type accountRepository struct {
	db   *mongo.Database
	coll *mongo.Collection
}

func NewAccountRepository(db *mongo.Database) ports.AccountRepository {
	return &accountRepository{db: db, coll: db.Collection(collAccounts)}
}

type mongoAccount struct {
	ID           int64     `bson:"_id"`
	FirstName    string    `bson:"account_firstname"`
	LastName     string    `bson:"account_lastname"`
	Email        string    `bson:"account_email"`
	PasswordHash string    `bson:"account_password"`
	Role         string    `bson:"account_type"`
	CreatedAt    time.Time `bson:"created_at"`
}

func (m *mongoAccount) toDomain() (*domain.Account, error) {
	role, ok := domain.ParseRole(m.Role)
	if !ok {
		return nil, fmt.Errorf("account %d: %w: %q", m.ID, domain.ErrUnknownRole, m.Role)
	}
	return &domain.Account{
		ID:           m.ID,
		FirstName:    m.FirstName,
		LastName:     m.LastName,
		Email:        m.Email,
		PasswordHash: m.PasswordHash,
		Role:         role,
	}, nil
}

func (r *accountRepository) Insert(ctx context.Context, account *domain.Account) (*domain.Account, error) {
	id, err := nextID(ctx, r.db, collAccounts)
	if err != nil {
		return nil, err
	}

	doc := mongoAccount{
		ID:           id,
		FirstName:    account.FirstName,
		LastName:     account.LastName,
		Email:        account.Email,
		PasswordHash: account.PasswordHash,
		Role:         string(account.Role),
		CreatedAt:    time.Now().UTC(),
	}
	if _, err := r.coll.InsertOne(ctx, doc); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return nil, domain.ErrEmailExists
		}
		return nil, fmt.Errorf("insert account: %w", err)
	}
	return doc.toDomain()
}

func (r *accountRepository) FindByEmail(ctx context.Context, email string) (*domain.Account, error) {
	return r.findOne(ctx, bson.M{"account_email": email})
}

func (r *accountRepository) FindByID(ctx context.Context, id int64) (*domain.Account, error) {
	return r.findOne(ctx, bson.M{"_id": id})
}

func (r *accountRepository) findOne(ctx context.Context, filter bson.M) (*domain.Account, error) {
	var ma mongoAccount
	if err := r.coll.FindOne(ctx, filter).Decode(&ma); err != nil {
		if isNotFound(err) {
			return nil, domain.ErrAccountNotFound
		}
		return nil, fmt.Errorf("find account: %w", err)
	}
	a, err := ma.toDomain()
	if err != nil {
		return nil, fmt.Errorf("find account: %w", err)
	}
	return a, nil
}

// UpdateProfile returns the matched count, so re-saving identical values
// still reports one row.
func (r *accountRepository) UpdateProfile(ctx context.Context, id int64, firstName, lastName, email string) (int64, error) {
	res, err := r.coll.UpdateByID(ctx, id, bson.M{"$set": bson.M{
		"account_firstname": firstName,
		"account_lastname":  lastName,
		"account_email":     email,
	}})
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return 0, domain.ErrEmailExists
		}
		return 0, fmt.Errorf("update account %d: %w", id, err)
	}
	return res.MatchedCount, nil
}

func (r *accountRepository) UpdateCredential(ctx context.Context, id int64, passwordHash string) (int64, error) {
	res, err := r.coll.UpdateByID(ctx, id, bson.M{"$set": bson.M{"account_password": passwordHash}})
	if err != nil {
		return 0, fmt.Errorf("update credential %d: %w", id, err)
	}
	return res.MatchedCount, nil
}

func (r *accountRepository) EmailExists(ctx context.Context, email string) (bool, error) {
	n, err := r.coll.CountDocuments(ctx, bson.M{"account_email": email})
	if err != nil {
		return false, fmt.Errorf("count accounts: %w", err)
	}
	return n > 0, nil
}
