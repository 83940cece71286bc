package mongodb

import (
	"fmt"
	"regexp"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/viralforge/rental-service/internal/domain"
	"github.com/viralforge/rental-service/internal/ports"
)

type houseDocument struct {
	ID            primitive.ObjectID `bson:"_id,omitempty"`
	OwnerID       string             `bson:"ownerId"`
	Title         string             `bson:"title"`
	Location      string             `bson:"location"`
	Rent          float64            `bson:"rent"`
	Images        []string           `bson:"images"`
	PropertyType  string             `bson:"propertyType"`
	Furnishing    string             `bson:"furnishing"`
	Amenities     []string           `bson:"amenities"`
	IsBooked      bool               `bson:"isBooked"`
	CurrentTenant *tenantDocument    `bson:"currentTenant,omitempty"`
	Requests      []requestDocument  `bson:"requests"`
	Version       int64              `bson:"version"`
	CreatedAt     time.Time          `bson:"createdAt"`
	UpdatedAt     time.Time          `bson:"updatedAt"`
}

// renterId is omitted for occupants without an account so the partial unique
// index only covers real renters.
type tenantDocument struct {
	RenterID   string    `bson:"renterId,omitempty"`
	Name       string    `bson:"name"`
	Email      string    `bson:"email"`
	Phone      string    `bson:"phone"`
	StartDate  time.Time `bson:"startDate"`
	IsRentPaid bool      `bson:"isRentPaid"`
}

type requestDocument struct {
	ID          string    `bson:"id"`
	RenterID    string    `bson:"renterId"`
	Name        string    `bson:"name"`
	Email       string    `bson:"email"`
	Phone       string    `bson:"phone"`
	SubmittedAt time.Time `bson:"date"`
	Status      string    `bson:"status"`
}

func fromDomainHouse(h domain.House) houseDocument {
	doc := houseDocument{
		OwnerID:      h.OwnerID,
		Title:        h.Title,
		Location:     h.Location,
		Rent:         h.Rent,
		Images:       nonNilStrings(h.Images),
		PropertyType: h.PropertyType,
		Furnishing:   h.Furnishing,
		Amenities:    nonNilStrings(h.Amenities),
		IsBooked:     h.IsBooked,
		Requests:     fromDomainRequests(h.Requests),
		Version:      h.Version,
		CreatedAt:    h.CreatedAt,
		UpdatedAt:    h.UpdatedAt,
	}
	if h.CurrentTenant != nil {
		tenant := fromDomainTenant(*h.CurrentTenant)
		doc.CurrentTenant = &tenant
	}
	if oid, err := primitive.ObjectIDFromHex(h.ID); err == nil {
		doc.ID = oid
	}
	return doc
}

func (d houseDocument) toDomain() domain.House {
	h := domain.House{
		ID:           d.ID.Hex(),
		OwnerID:      d.OwnerID,
		Title:        d.Title,
		Location:     d.Location,
		Rent:         d.Rent,
		Images:       d.Images,
		PropertyType: d.PropertyType,
		Furnishing:   d.Furnishing,
		Amenities:    d.Amenities,
		IsBooked:     d.IsBooked,
		Requests:     make([]domain.BookingRequest, 0, len(d.Requests)),
		Version:      d.Version,
		CreatedAt:    d.CreatedAt.UTC(),
		UpdatedAt:    d.UpdatedAt.UTC(),
	}
	if t := d.CurrentTenant; t != nil {
		h.CurrentTenant = &domain.Tenant{
			RenterID:   t.RenterID,
			Name:       t.Name,
			Email:      t.Email,
			Phone:      t.Phone,
			StartDate:  t.StartDate.UTC(),
			IsRentPaid: t.IsRentPaid,
		}
	}
	for _, r := range d.Requests {
		h.Requests = append(h.Requests, domain.BookingRequest{
			ID:          r.ID,
			RenterID:    r.RenterID,
			Name:        r.Name,
			Email:       r.Email,
			Phone:       r.Phone,
			SubmittedAt: r.SubmittedAt.UTC(),
			Status:      r.Status,
		})
	}
	return h
}

func fromDomainTenant(t domain.Tenant) tenantDocument {
	return tenantDocument{
		RenterID:   t.RenterID,
		Name:       t.Name,
		Email:      t.Email,
		Phone:      t.Phone,
		StartDate:  t.StartDate,
		IsRentPaid: t.IsRentPaid,
	}
}

func fromDomainRequests(requests []domain.BookingRequest) []requestDocument {
	out := make([]requestDocument, 0, len(requests))
	for _, r := range requests {
		out = append(out, requestDocument{
			ID:          r.ID,
			RenterID:    r.RenterID,
			Name:        r.Name,
			Email:       r.Email,
			Phone:       r.Phone,
			SubmittedAt: r.SubmittedAt,
			Status:      r.Status,
		})
	}
	return out
}

// buildUpdate translates a domain update into one $set/$unset/$inc document.
func buildUpdate(u domain.Update, now time.Time) (bson.M, error) {
	set := bson.M{"updatedAt": now}
	for field, value := range u.Set {
		converted, err := bsonValue(field, value)
		if err != nil {
			return nil, err
		}
		set[string(field)] = converted
	}
	update := bson.M{
		"$set": set,
		"$inc": bson.M{"version": 1},
	}
	if len(u.Unset) > 0 {
		unset := bson.M{}
		for _, field := range u.Unset {
			if _, clash := u.Set[field]; clash {
				return nil, fmt.Errorf("%w: field %q both set and unset", domain.ErrInvalidInput, field)
			}
			unset[string(field)] = ""
		}
		update["$unset"] = unset
	}
	return update, nil
}

func bsonValue(field domain.Field, value any) (any, error) {
	switch v := value.(type) {
	case domain.Tenant:
		if field != domain.FieldCurrentTenant {
			break
		}
		return fromDomainTenant(v), nil
	case []domain.BookingRequest:
		if field != domain.FieldRequests {
			break
		}
		return fromDomainRequests(v), nil
	case string, bool, time.Time:
		return v, nil
	}
	return nil, fmt.Errorf("%w: field %q does not accept %T", domain.ErrInvalidInput, field, value)
}

func buildFilter(filter ports.HouseFilter) bson.M {
	out := bson.M{}
	if filter.OwnerID != "" {
		out["ownerId"] = filter.OwnerID
	}
	if filter.TenantRenterID != "" {
		out["currentTenant.renterId"] = filter.TenantRenterID
	}
	if filter.Text != "" {
		pattern := primitive.Regex{Pattern: regexp.QuoteMeta(filter.Text), Options: "i"}
		out["$or"] = bson.A{
			bson.M{"title": pattern},
			bson.M{"location": pattern},
		}
	}
	return out
}

func nonNilStrings(values []string) []string {
	if values == nil {
		return []string{}
	}
	return values
}
