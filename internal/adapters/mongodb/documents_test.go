package mongodb

import (
	"errors"
	"testing"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/viralforge/rental-service/internal/domain"
	"github.com/viralforge/rental-service/internal/ports"
)

var testNow = time.Date(2026, 4, 2, 9, 30, 0, 0, time.UTC)

func TestBuildUpdateVacateUnsetsTenant(t *testing.T) {
	t.Parallel()

	h := domain.House{CurrentTenant: &domain.Tenant{RenterID: "alice"}, IsBooked: true}
	doc, err := buildUpdate(h.Vacate(), testNow)
	if err != nil {
		t.Fatalf("build update failed: %v", err)
	}

	unset, ok := doc["$unset"].(bson.M)
	if !ok {
		t.Fatalf("expected $unset document, got %#v", doc["$unset"])
	}
	if _, ok := unset["currentTenant"]; !ok {
		t.Fatalf("expected currentTenant to be unset, got %#v", unset)
	}

	set := doc["$set"].(bson.M)
	if booked, _ := set["isBooked"].(bool); booked {
		t.Fatalf("expected isBooked=false in $set")
	}
	if reqs, ok := set["requests"].([]requestDocument); !ok || len(reqs) != 0 {
		t.Fatalf("expected empty request list in $set, got %#v", set["requests"])
	}
	if _, ok := set["currentTenant"]; ok {
		t.Fatalf("currentTenant must not appear in $set")
	}
	if !set["updatedAt"].(time.Time).Equal(testNow) {
		t.Fatalf("expected updatedAt stamp")
	}
	if inc := doc["$inc"].(bson.M); inc["version"] != 1 {
		t.Fatalf("expected version increment, got %#v", inc)
	}
}

func TestBuildUpdateTargetsTenantSubField(t *testing.T) {
	t.Parallel()

	h := domain.House{CurrentTenant: &domain.Tenant{RenterID: "alice"}, IsBooked: true}
	doc, err := buildUpdate(h.ToggleRentPaid(), testNow)
	if err != nil {
		t.Fatalf("build update failed: %v", err)
	}
	set := doc["$set"].(bson.M)
	if paid, ok := set["currentTenant.isRentPaid"].(bool); !ok || !paid {
		t.Fatalf("expected dotted rent flag in $set, got %#v", set)
	}
	if _, ok := doc["$unset"]; ok {
		t.Fatalf("toggle must not unset anything")
	}
}

func TestBuildUpdateSeatsTenantDocument(t *testing.T) {
	t.Parallel()

	h := domain.House{Requests: []domain.BookingRequest{{ID: "r1", RenterID: "alice", Name: "Alice"}}}
	upd, err := h.AcceptRequest("r1", testNow)
	if err != nil {
		t.Fatalf("accept failed: %v", err)
	}
	doc, err := buildUpdate(upd, testNow)
	if err != nil {
		t.Fatalf("build update failed: %v", err)
	}
	tenant, ok := doc["$set"].(bson.M)["currentTenant"].(tenantDocument)
	if !ok || tenant.RenterID != "alice" || !tenant.StartDate.Equal(testNow) {
		t.Fatalf("expected tenant document for alice, got %#v", doc["$set"])
	}
}

func TestBuildUpdateRejectsInvalidShapes(t *testing.T) {
	t.Parallel()

	clash := domain.NewUpdate().With(domain.FieldRequests, []domain.BookingRequest{}).Without(domain.FieldRequests)
	if _, err := buildUpdate(clash, testNow); !errors.Is(err, domain.ErrInvalidInput) {
		t.Fatalf("expected invalid input for set+unset clash, got %v", err)
	}

	wrongType := domain.NewUpdate().With(domain.FieldRequests, domain.Tenant{})
	if _, err := buildUpdate(wrongType, testNow); !errors.Is(err, domain.ErrInvalidInput) {
		t.Fatalf("expected invalid input for mistyped value, got %v", err)
	}
}

func TestBuildFilter(t *testing.T) {
	t.Parallel()

	filter := buildFilter(ports.HouseFilter{Text: "2.5 bhk", OwnerID: "owner-1"})
	if filter["ownerId"] != "owner-1" {
		t.Fatalf("expected owner constraint, got %#v", filter)
	}
	or, ok := filter["$or"].(bson.A)
	if !ok || len(or) != 2 {
		t.Fatalf("expected title/location disjunction, got %#v", filter["$or"])
	}
	title := or[0].(bson.M)["title"].(primitive.Regex)
	if title.Pattern != `2\.5 bhk` || title.Options != "i" {
		t.Fatalf("expected escaped case-insensitive pattern, got %#v", title)
	}

	residency := buildFilter(ports.HouseFilter{TenantRenterID: "alice"})
	if residency["currentTenant.renterId"] != "alice" || len(residency) != 1 {
		t.Fatalf("unexpected residency filter: %#v", residency)
	}
	if len(buildFilter(ports.HouseFilter{})) != 0 {
		t.Fatalf("empty filter must match everything")
	}
}

func TestHouseDocumentRoundTrip(t *testing.T) {
	t.Parallel()

	id := primitive.NewObjectID().Hex()
	in := domain.House{
		ID:            id,
		OwnerID:       "owner-1",
		Title:         "Loft",
		Location:      "Pune",
		Rent:          1500,
		IsBooked:      true,
		CurrentTenant: &domain.Tenant{Name: "Offline Occupant", StartDate: testNow},
		Version:       3,
	}
	doc := fromDomainHouse(in)
	if doc.CurrentTenant.RenterID != "" {
		t.Fatalf("offline occupant must not carry a renter id")
	}
	out := doc.toDomain()
	if out.ID != id || out.Version != 3 || out.CurrentTenant == nil || out.CurrentTenant.Name != "Offline Occupant" {
		t.Fatalf("round trip lost data: %+v", out)
	}
	if out.Images == nil || out.Requests == nil {
		t.Fatalf("expected empty slices, got nil")
	}
}
