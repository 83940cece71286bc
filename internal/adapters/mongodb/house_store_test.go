package mongodb

import (
	"context"
	"errors"
	"testing"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo/integration/mtest"

	"github.com/viralforge/rental-service/internal/domain"
)

func newMockStore(mt *mtest.T) *HouseStore {
	store := NewHouseStore(mt.DB)
	store.nowFn = func() time.Time { return testNow }
	return store
}

func seatUpdate(renterID string) domain.Update {
	return domain.NewUpdate().
		With(domain.FieldCurrentTenant, domain.Tenant{RenterID: renterID, Name: "Alice", StartDate: testNow}).
		With(domain.FieldIsBooked, true).
		With(domain.FieldRequests, []domain.BookingRequest{})
}

func duplicateRenterError() bson.D {
	return mtest.CreateCommandErrorResponse(mtest.CommandError{
		Code:    11000,
		Name:    "DuplicateKey",
		Message: "E11000 duplicate key error collection: rental.houses index: uniq_active_renter",
	})
}

func TestHouseStoreUpdateFields(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))
	ctx := context.Background()
	oid := primitive.NewObjectID()

	mt.Run("applies guarded update", func(mt *mtest.T) {
		store := newMockStore(mt)
		stored := houseDocument{
			ID:            oid,
			OwnerID:       "owner-1",
			Title:         "Loft",
			Location:      "Pune",
			Rent:          1200,
			IsBooked:      true,
			CurrentTenant: &tenantDocument{RenterID: "alice", Name: "Alice", StartDate: testNow},
			Requests:      []requestDocument{},
			Version:       4,
		}
		mt.AddMockResponses(mtest.CreateSuccessResponse(bson.E{Key: "value", Value: stored}))

		got, err := store.UpdateFields(ctx, oid.Hex(), 3, seatUpdate("alice"))
		if err != nil {
			mt.Fatalf("update failed: %v", err)
		}
		if got.ID != oid.Hex() || got.Version != 4 || got.CurrentTenant == nil || got.CurrentTenant.RenterID != "alice" {
			mt.Fatalf("unexpected updated house: %+v", got)
		}

		cmd := mt.GetStartedEvent().Command
		if v := cmd.Lookup("query", "version").Int64(); v != 3 {
			mt.Fatalf("expected write guarded on version 3, got %d", v)
		}
		if _, err := cmd.LookupErr("update", "$inc", "version"); err != nil {
			mt.Fatalf("expected version increment in update: %v", err)
		}
	})

	mt.Run("duplicate renter becomes already resident", func(mt *mtest.T) {
		store := newMockStore(mt)
		mt.AddMockResponses(duplicateRenterError())

		_, err := store.UpdateFields(ctx, oid.Hex(), 1, seatUpdate("alice"))
		if !errors.Is(err, domain.ErrAlreadyResident) || !errors.Is(err, domain.ErrConflict) {
			mt.Fatalf("expected already resident conflict, got %v", err)
		}
	})

	mt.Run("version mismatch on existing house is a stale write", func(mt *mtest.T) {
		store := newMockStore(mt)
		mt.AddMockResponses(
			mtest.CreateSuccessResponse(bson.E{Key: "value", Value: nil}),
			mtest.CreateCursorResponse(0, "rental.houses", mtest.FirstBatch, bson.D{{Key: "n", Value: int32(1)}}),
		)

		_, err := store.UpdateFields(ctx, oid.Hex(), 1, seatUpdate("alice"))
		if !errors.Is(err, domain.ErrStaleWrite) {
			mt.Fatalf("expected stale write, got %v", err)
		}
	})

	mt.Run("missing house is not found", func(mt *mtest.T) {
		store := newMockStore(mt)
		mt.AddMockResponses(
			mtest.CreateSuccessResponse(bson.E{Key: "value", Value: nil}),
			mtest.CreateCursorResponse(0, "rental.houses", mtest.FirstBatch),
		)

		_, err := store.UpdateFields(ctx, oid.Hex(), 1, seatUpdate("alice"))
		if !errors.Is(err, domain.ErrHouseNotFound) {
			mt.Fatalf("expected house not found, got %v", err)
		}
	})

	mt.Run("malformed id never reaches the server", func(mt *mtest.T) {
		store := newMockStore(mt)
		if _, err := store.UpdateFields(ctx, "not-an-object-id", 1, seatUpdate("alice")); !errors.Is(err, domain.ErrHouseNotFound) {
			mt.Fatalf("expected house not found, got %v", err)
		}
	})

	mt.Run("other server failures are wrapped", func(mt *mtest.T) {
		store := newMockStore(mt)
		mt.AddMockResponses(mtest.CreateCommandErrorResponse(mtest.CommandError{
			Code:    2,
			Name:    "BadValue",
			Message: "bad update",
		}))

		_, err := store.UpdateFields(ctx, oid.Hex(), 1, seatUpdate("alice"))
		if err == nil || errors.Is(err, domain.ErrConflict) || errors.Is(err, domain.ErrNotFound) {
			mt.Fatalf("expected an internal store error, got %v", err)
		}
	})
}

func TestHouseStoreCreate(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))
	ctx := context.Background()
	seated := domain.House{
		OwnerID:       "owner-1",
		Title:         "Loft",
		Location:      "Pune",
		Rent:          1200,
		IsBooked:      true,
		CurrentTenant: &domain.Tenant{RenterID: "alice", Name: "Alice"},
	}

	mt.Run("assigns identity and version", func(mt *mtest.T) {
		store := newMockStore(mt)
		mt.AddMockResponses(mtest.CreateSuccessResponse())

		got, err := store.Create(ctx, seated)
		if err != nil {
			mt.Fatalf("create failed: %v", err)
		}
		if _, err := primitive.ObjectIDFromHex(got.ID); err != nil {
			mt.Fatalf("expected object id, got %q", got.ID)
		}
		if got.Version != 1 || !got.CreatedAt.Equal(testNow) || got.Requests == nil {
			mt.Fatalf("unexpected created house: %+v", got)
		}
	})

	mt.Run("seated renter trips the unique index", func(mt *mtest.T) {
		store := newMockStore(mt)
		mt.AddMockResponses(mtest.CreateWriteErrorsResponse(mtest.WriteError{
			Index:   0,
			Code:    11000,
			Message: "E11000 duplicate key error collection: rental.houses index: uniq_active_renter",
		}))

		if _, err := store.Create(ctx, seated); !errors.Is(err, domain.ErrAlreadyResident) {
			mt.Fatalf("expected already resident, got %v", err)
		}
	})
}
