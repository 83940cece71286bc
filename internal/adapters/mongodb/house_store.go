package mongodb

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/viralforge/rental-service/internal/domain"
	"github.com/viralforge/rental-service/internal/ports"
)

type HouseStore struct {
	coll  *mongo.Collection
	nowFn func() time.Time
}

func NewHouseStore(db *mongo.Database) *HouseStore {
	return &HouseStore{
		coll:  db.Collection(housesCollection),
		nowFn: func() time.Time { return time.Now().UTC() },
	}
}

func (s *HouseStore) Get(ctx context.Context, id string) (domain.House, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return domain.House{}, domain.ErrHouseNotFound
	}
	var doc houseDocument
	if err := s.coll.FindOne(ctx, bson.M{"_id": oid}).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return domain.House{}, domain.ErrHouseNotFound
		}
		return domain.House{}, fmt.Errorf("get house: %w", err)
	}
	return doc.toDomain(), nil
}

func (s *HouseStore) Create(ctx context.Context, house domain.House) (domain.House, error) {
	now := s.nowFn()
	doc := fromDomainHouse(house)
	doc.ID = primitive.NewObjectID()
	doc.Version = 1
	doc.CreatedAt = now
	doc.UpdatedAt = now
	if _, err := s.coll.InsertOne(ctx, doc); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return domain.House{}, domain.ErrAlreadyResident
		}
		return domain.House{}, fmt.Errorf("insert house: %w", err)
	}
	return doc.toDomain(), nil
}

func (s *HouseStore) FindMatching(ctx context.Context, filter ports.HouseFilter) ([]domain.House, error) {
	cursor, err := s.coll.Find(ctx, buildFilter(filter),
		options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}, {Key: "_id", Value: -1}}))
	if err != nil {
		return nil, fmt.Errorf("find houses: %w", err)
	}
	var docs []houseDocument
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("decode houses: %w", err)
	}
	out := make([]domain.House, 0, len(docs))
	for _, doc := range docs {
		out = append(out, doc.toDomain())
	}
	return out, nil
}

// UpdateFields applies the update only if the stored version still equals
// expectedVersion. Seating a renter who is already seated elsewhere trips the
// unique renter index and surfaces as ErrAlreadyResident.
func (s *HouseStore) UpdateFields(ctx context.Context, id string, expectedVersion int64, update domain.Update) (domain.House, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return domain.House{}, domain.ErrHouseNotFound
	}
	doc, err := buildUpdate(update, s.nowFn())
	if err != nil {
		return domain.House{}, err
	}

	var updated houseDocument
	err = s.coll.FindOneAndUpdate(ctx,
		bson.M{"_id": oid, "version": expectedVersion},
		doc,
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&updated)
	switch {
	case err == nil:
		return updated.toDomain(), nil
	case mongo.IsDuplicateKeyError(err):
		return domain.House{}, domain.ErrAlreadyResident
	case errors.Is(err, mongo.ErrNoDocuments):
		exists, countErr := s.coll.CountDocuments(ctx, bson.M{"_id": oid}, options.Count().SetLimit(1))
		if countErr != nil {
			return domain.House{}, fmt.Errorf("check house existence: %w", countErr)
		}
		if exists == 0 {
			return domain.House{}, domain.ErrHouseNotFound
		}
		return domain.House{}, domain.ErrStaleWrite
	default:
		return domain.House{}, fmt.Errorf("update house: %w", err)
	}
}

func (s *HouseStore) Delete(ctx context.Context, id string) error {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return domain.ErrHouseNotFound
	}
	res, err := s.coll.DeleteOne(ctx, bson.M{"_id": oid})
	if err != nil {
		return fmt.Errorf("delete house: %w", err)
	}
	if res.DeletedCount == 0 {
		return domain.ErrHouseNotFound
	}
	return nil
}
