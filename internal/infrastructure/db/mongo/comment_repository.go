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

type commentRepository struct {
	db   *mongo.Database
	coll *mongo.Collection
}

func NewCommentRepository(db *mongo.Database) ports.CommentRepository {
	return &commentRepository{db: db, coll: db.Collection(collComments)}
}

type mongoComment struct {
	ID          int64     `bson:"_id"`
	AccountID   int64     `bson:"account_id"`
	InventoryID int64     `bson:"inv_id"`
	Text        string    `bson:"comment_text"`
	CreatedAt   time.Time `bson:"created_at"`

	// Filled by the $lookup stages of list queries.
	Author  []mongoAccount `bson:"author,omitempty"`
	Vehicle []mongoVehicle `bson:"vehicle,omitempty"`
}

func (m *mongoComment) toDomain() domain.Comment {
	c := domain.Comment{
		ID:          m.ID,
		AccountID:   m.AccountID,
		InventoryID: m.InventoryID,
		Text:        m.Text,
		CreatedAt:   m.CreatedAt,
	}
	if len(m.Author) > 0 {
		c.AuthorName = m.Author[0].FirstName + " " + m.Author[0].LastName
	}
	if len(m.Vehicle) > 0 {
		c.VehicleName = m.Vehicle[0].Make + " " + m.Vehicle[0].Model
	}
	return c
}

func (r *commentRepository) Insert(ctx context.Context, comment *domain.Comment) (*domain.Comment, error) {
	id, err := nextID(ctx, r.db, collComments)
	if err != nil {
		return nil, err
	}

	doc := mongoComment{
		ID:          id,
		AccountID:   comment.AccountID,
		InventoryID: comment.InventoryID,
		Text:        comment.Text,
		CreatedAt:   time.Now().UTC(),
	}
	if _, err := r.coll.InsertOne(ctx, doc); err != nil {
		return nil, fmt.Errorf("insert comment: %w", err)
	}
	created := doc.toDomain()
	return &created, nil
}

func (r *commentRepository) FindByID(ctx context.Context, id int64) (*domain.Comment, error) {
	var d mongoComment
	if err := r.coll.FindOne(ctx, bson.M{"_id": id}).Decode(&d); err != nil {
		if isNotFound(err) {
			return nil, domain.ErrCommentNotFound
		}
		return nil, fmt.Errorf("find comment: %w", err)
	}
	c := d.toDomain()
	return &c, nil
}

// Update only matches a comment owned by accountID.
func (r *commentRepository) Update(ctx context.Context, id, accountID int64, text string) (int64, error) {
	res, err := r.coll.UpdateOne(ctx,
		bson.M{"_id": id, "account_id": accountID},
		bson.M{"$set": bson.M{"comment_text": text}},
	)
	if err != nil {
		return 0, fmt.Errorf("update comment %d: %w", id, err)
	}
	return res.MatchedCount, nil
}

// Delete only matches a comment owned by accountID.
func (r *commentRepository) Delete(ctx context.Context, id, accountID int64) (int64, error) {
	res, err := r.coll.DeleteOne(ctx, bson.M{"_id": id, "account_id": accountID})
	if err != nil {
		return 0, fmt.Errorf("delete comment %d: %w", id, err)
	}
	return res.DeletedCount, nil
}

func (r *commentRepository) ListByInventory(ctx context.Context, inventoryID int64) ([]domain.Comment, error) {
	return r.list(ctx, bson.M{"inv_id": inventoryID}, 1, 0)
}

func (r *commentRepository) ListByAccount(ctx context.Context, accountID int64) ([]domain.Comment, error) {
	return r.list(ctx, bson.M{"account_id": accountID}, -1, 0)
}

func (r *commentRepository) ListRecent(ctx context.Context, limit int) ([]domain.Comment, error) {
	return r.list(ctx, bson.M{}, -1, limit)
}

// list runs match → sort → limit and joins author and vehicle names.
func (r *commentRepository) list(ctx context.Context, match bson.M, order, limit int) ([]domain.Comment, error) {
	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: match}},
		{{Key: "$sort", Value: bson.D{{Key: "created_at", Value: order}, {Key: "_id", Value: order}}}},
	}
	if limit > 0 {
		pipeline = append(pipeline, bson.D{{Key: "$limit", Value: limit}})
	}
	pipeline = append(pipeline,
		bson.D{{Key: "$lookup", Value: bson.M{
			"from": collAccounts, "localField": "account_id", "foreignField": "_id", "as": "author",
		}}},
		bson.D{{Key: "$lookup", Value: bson.M{
			"from": collInventory, "localField": "inv_id", "foreignField": "_id", "as": "vehicle",
		}}},
	)

	cur, err := r.coll.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, fmt.Errorf("list comments: %w", err)
	}
	var docs []mongoComment
	if err := cur.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("decode comments: %w", err)
	}

	out := make([]domain.Comment, 0, len(docs))
	for i := range docs {
		out = append(out, docs[i].toDomain())
	}
	return out, nil
}
