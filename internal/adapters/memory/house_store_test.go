package memory_test

import (
	"context"
	"errors"
	"testing"

	"github.com/viralforge/rental-service/internal/adapters/memory"
	"github.com/viralforge/rental-service/internal/domain"
	"github.com/viralforge/rental-service/internal/ports"
)

func createHouse(t *testing.T, store *memory.HouseStore, title, location string) domain.House {
	t.Helper()
	h, err := store.Create(context.Background(), domain.House{OwnerID: "owner-1", Title: title, Location: location, Rent: 900})
	if err != nil {
		t.Fatalf("create house failed: %v", err)
	}
	return h
}

func TestHouseStoreCreateAssignsIdentity(t *testing.T) {
	t.Parallel()

	store := memory.NewHouseStore()
	h := createHouse(t, store, "Studio", "Goa")
	if h.ID == "" || h.Version != 1 || h.CreatedAt.IsZero() {
		t.Fatalf("expected id, version 1 and timestamps, got %+v", h)
	}
	if h.Requests == nil {
		t.Fatalf("expected empty request queue, got nil")
	}
}

func TestHouseStoreUpdateFieldsRejectsStaleVersion(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	store := memory.NewHouseStore()
	h := createHouse(t, store, "Studio", "Goa")

	upd := domain.NewUpdate().With(domain.FieldRequests, []domain.BookingRequest{{ID: "r1", RenterID: "alice"}})
	updated, err := store.UpdateFields(ctx, h.ID, h.Version, upd)
	if err != nil {
		t.Fatalf("first update failed: %v", err)
	}
	if updated.Version != 2 || len(updated.Requests) != 1 {
		t.Fatalf("unexpected state after update: %+v", updated)
	}

	if _, err := store.UpdateFields(ctx, h.ID, h.Version, upd); !errors.Is(err, domain.ErrStaleWrite) {
		t.Fatalf("expected stale write, got %v", err)
	}
}

func TestHouseStoreEnforcesSingleResidency(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	store := memory.NewHouseStore()
	first := createHouse(t, store, "Studio", "Goa")
	second := createHouse(t, store, "Villa", "Goa")

	seat := domain.NewUpdate().
		With(domain.FieldCurrentTenant, domain.Tenant{RenterID: "alice"}).
		With(domain.FieldIsBooked, true)
	if _, err := store.UpdateFields(ctx, first.ID, first.Version, seat); err != nil {
		t.Fatalf("seat in first house failed: %v", err)
	}
	if _, err := store.UpdateFields(ctx, second.ID, second.Version, seat); !errors.Is(err, domain.ErrAlreadyResident) {
		t.Fatalf("expected already resident, got %v", err)
	}
	got, _ := store.Get(ctx, second.ID)
	if got.Occupied() || got.Version != second.Version {
		t.Fatalf("rejected write must not change the house: %+v", got)
	}

	if _, err := store.Create(ctx, domain.House{OwnerID: "o", Title: "t", Location: "l", CurrentTenant: &domain.Tenant{RenterID: "alice"}, IsBooked: true}); !errors.Is(err, domain.ErrAlreadyResident) {
		t.Fatalf("expected create with seated renter to fail, got %v", err)
	}
}

func TestHouseStoreFindMatching(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	store := memory.NewHouseStore()
	createHouse(t, store, "Sea View Flat", "Mumbai")
	createHouse(t, store, "Garden House", "Pune")
	createHouse(t, store, "Loft", "Navi MUMBAI")

	got, err := store.FindMatching(ctx, ports.HouseFilter{Text: "mumbai"})
	if err != nil {
		t.Fatalf("find failed: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("expected 2 case-insensitive location matches, got %d", len(got))
	}

	got, _ = store.FindMatching(ctx, ports.HouseFilter{Text: "GARDEN"})
	if len(got) != 1 || got[0].Title != "Garden House" {
		t.Fatalf("expected title match, got %+v", got)
	}

	got, _ = store.FindMatching(ctx, ports.HouseFilter{})
	if len(got) != 3 {
		t.Fatalf("expected all houses without a filter, got %d", len(got))
	}
}

func TestHouseStoreGetReturnsCopy(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	store := memory.NewHouseStore()
	h := createHouse(t, store, "Studio", "Goa")

	got, _ := store.Get(ctx, h.ID)
	got.Requests = append(got.Requests, domain.BookingRequest{ID: "leak"})
	again, _ := store.Get(ctx, h.ID)
	if len(again.Requests) != 0 {
		t.Fatalf("store state leaked through returned value")
	}
}
