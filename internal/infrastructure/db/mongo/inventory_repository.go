package mongo

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/csemotors/dealership/internal/core/domain"
	"github.com/csemotors/dealership/internal/core/ports"
)

type inventoryRepository struct {
	db              *mongo.Database
	classifications *mongo.Collection
	vehicles        *mongo.Collection
	comments        *mongo.Collection
}

func NewInventoryRepository(db *mongo.Database) ports.InventoryRepository {
	return &inventoryRepository{
		db:              db,
		classifications: db.Collection(collClassifications),
		vehicles:        db.Collection(collInventory),
		comments:        db.Collection(collComments),
	}
}

type mongoClassification struct {
	ID   int64  `bson:"_id"`
	Name string `bson:"classification_name"`
}

type mongoVehicle struct {
	ID               int64   `bson:"_id"`
	Make             string  `bson:"inv_make"`
	Model            string  `bson:"inv_model"`
	Year             int     `bson:"inv_year"`
	Description      string  `bson:"inv_description"`
	Image            string  `bson:"inv_image"`
	Thumbnail        string  `bson:"inv_thumbnail"`
	Price            float64 `bson:"inv_price"`
	Miles            int     `bson:"inv_miles"`
	Color            string  `bson:"inv_color"`
	ClassificationID int64   `bson:"classification_id"`
}

func vehicleDoc(v *domain.Vehicle) mongoVehicle {
	return mongoVehicle{
		ID:               v.ID,
		Make:             v.Make,
		Model:            v.Model,
		Year:             v.Year,
		Description:      v.Description,
		Image:            v.Image,
		Thumbnail:        v.Thumbnail,
		Price:            v.Price,
		Miles:            v.Miles,
		Color:            v.Color,
		ClassificationID: v.ClassificationID,
	}
}

func (m *mongoVehicle) toDomain() domain.Vehicle {
	return domain.Vehicle{
		ID:               m.ID,
		Make:             m.Make,
		Model:            m.Model,
		Year:             m.Year,
		Description:      m.Description,
		Image:            m.Image,
		Thumbnail:        m.Thumbnail,
		Price:            m.Price,
		Miles:            m.Miles,
		Color:            m.Color,
		ClassificationID: m.ClassificationID,
	}
}

func (r *inventoryRepository) Classifications(ctx context.Context) ([]domain.Classification, error) {
	cur, err := r.classifications.Find(ctx, bson.M{}, options.Find().SetSort(bson.D{{Key: "classification_name", Value: 1}}))
	if err != nil {
		return nil, fmt.Errorf("list classifications: %w", err)
	}
	var docs []mongoClassification
	if err := cur.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("decode classifications: %w", err)
	}

	out := make([]domain.Classification, 0, len(docs))
	for _, d := range docs {
		out = append(out, domain.Classification{ID: d.ID, Name: d.Name})
	}
	return out, nil
}

func (r *inventoryRepository) ClassificationByID(ctx context.Context, id int64) (*domain.Classification, error) {
	var d mongoClassification
	if err := r.classifications.FindOne(ctx, bson.M{"_id": id}).Decode(&d); err != nil {
		if isNotFound(err) {
			return nil, domain.ErrClassificationNotFound
		}
		return nil, fmt.Errorf("find classification: %w", err)
	}
	return &domain.Classification{ID: d.ID, Name: d.Name}, nil
}

func (r *inventoryRepository) AddClassification(ctx context.Context, name string) (*domain.Classification, error) {
	id, err := nextID(ctx, r.db, collClassifications)
	if err != nil {
		return nil, err
	}
	if _, err := r.classifications.InsertOne(ctx, mongoClassification{ID: id, Name: name}); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return nil, domain.ErrClassificationExists
		}
		return nil, fmt.Errorf("insert classification: %w", err)
	}
	return &domain.Classification{ID: id, Name: name}, nil
}

func (r *inventoryRepository) AddVehicle(ctx context.Context, v *domain.Vehicle) (*domain.Vehicle, error) {
	id, err := nextID(ctx, r.db, collInventory)
	if err != nil {
		return nil, err
	}
	doc := vehicleDoc(v)
	doc.ID = id
	if _, err := r.vehicles.InsertOne(ctx, doc); err != nil {
		return nil, fmt.Errorf("insert vehicle: %w", err)
	}
	created := doc.toDomain()
	return &created, nil
}

// VehicleByID also resolves the classification name for the detail page.
func (r *inventoryRepository) VehicleByID(ctx context.Context, id int64) (*domain.Vehicle, error) {
	var d mongoVehicle
	if err := r.vehicles.FindOne(ctx, bson.M{"_id": id}).Decode(&d); err != nil {
		if isNotFound(err) {
			return nil, domain.ErrVehicleNotFound
		}
		return nil, fmt.Errorf("find vehicle: %w", err)
	}

	v := d.toDomain()
	if c, err := r.ClassificationByID(ctx, v.ClassificationID); err == nil {
		v.ClassificationName = c.Name
	}
	return &v, nil
}

func (r *inventoryRepository) VehiclesByClassification(ctx context.Context, classificationID int64) ([]domain.Vehicle, error) {
	opts := options.Find().SetSort(bson.D{{Key: "inv_make", Value: 1}, {Key: "inv_model", Value: 1}})
	cur, err := r.vehicles.Find(ctx, bson.M{"classification_id": classificationID}, opts)
	if err != nil {
		return nil, fmt.Errorf("list vehicles: %w", err)
	}
	var docs []mongoVehicle
	if err := cur.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("decode vehicles: %w", err)
	}

	out := make([]domain.Vehicle, 0, len(docs))
	for i := range docs {
		out = append(out, docs[i].toDomain())
	}
	return out, nil
}

func (r *inventoryRepository) UpdateVehicle(ctx context.Context, v *domain.Vehicle) (int64, error) {
	doc := vehicleDoc(v)
	res, err := r.vehicles.ReplaceOne(ctx, bson.M{"_id": v.ID}, doc)
	if err != nil {
		return 0, fmt.Errorf("update vehicle %d: %w", v.ID, err)
	}
	return res.MatchedCount, nil
}

// DeleteVehicle removes the vehicle first, then its comments. A crash in
// between leaves orphaned comments that no page can reach.
func (r *inventoryRepository) DeleteVehicle(ctx context.Context, id int64) (int64, error) {
	res, err := r.vehicles.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return 0, fmt.Errorf("delete vehicle %d: %w", id, err)
	}
	if res.DeletedCount == 0 {
		return 0, nil
	}
	if _, err := r.comments.DeleteMany(ctx, bson.M{"inv_id": id}); err != nil {
		return res.DeletedCount, fmt.Errorf("delete comments of vehicle %d: %w", id, err)
	}
	return res.DeletedCount, nil
}
