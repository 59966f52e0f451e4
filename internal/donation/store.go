package donation

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Store defines persistence for the ledger.
type Store interface {
	Insert(ctx context.Context, d *Donation) error
	List(ctx context.Context) ([]Donation, error)
}

// MongoStore implements Store over the donations collection.
type MongoStore struct {
	col *mongo.Collection
}

func NewMongoStore(db *mongo.Database) *MongoStore {
	return &MongoStore{col: db.Collection("donations")}
}

func (s *MongoStore) Insert(ctx context.Context, d *Donation) error {
	d.ID = primitive.NewObjectID()
	if d.Date.IsZero() {
		d.Date = time.Now().UTC()
	}
	_, err := s.col.InsertOne(ctx, d)
	return err
}

// List returns every donation, most recent first. Ties on date keep their
// relative order within a single read.
func (s *MongoStore) List(ctx context.Context) ([]Donation, error) {
	cur, err := s.col.Find(ctx, bson.M{}, options.Find().SetSort(bson.D{{Key: "date", Value: -1}}))
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var items []Donation
	if err := cur.All(ctx, &items); err != nil {
		return nil, err
	}
	return items, nil
}
