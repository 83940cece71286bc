package application

import (
	"context"
	"fmt"
	"strings"

	"github.com/viralforge/rental-service/internal/domain"
	"github.com/viralforge/rental-service/internal/ports"
)

func (s *Service) CreateHouse(ctx context.Context, actor domain.Identity, req CreateHouseRequest) (HouseView, error) {
	if actor.Role != domain.RoleOwner {
		return HouseView{}, domain.ErrOwnerRoleOnly
	}
	house, err := s.newHouse(actor.ID, req)
	if err != nil {
		return HouseView{}, err
	}
	if house.CurrentTenant != nil {
		if err := s.ensureNotSeated(ctx, house.CurrentTenant.RenterID, ""); err != nil {
			return HouseView{}, err
		}
	}

	created, err := s.houses.Create(ctx, house)
	if err != nil {
		return HouseView{}, err
	}
	s.logger.InfoContext(ctx, "house listed",
		"operation", "create_house",
		"outcome", "success",
		"house_id", created.ID,
		"owner_id", created.OwnerID,
		"is_booked", created.IsBooked,
	)
	s.enqueueEvent(ctx, EventHouseCreated, created.ID, houseEvent(created))
	if created.CurrentTenant != nil {
		s.enqueueEvent(ctx, EventTenancyStarted, created.ID, houseEvent(created))
	}
	return toHouseView(created), nil
}

func (s *Service) newHouse(ownerID string, req CreateHouseRequest) (domain.House, error) {
	title, err := requireText("title", req.Title)
	if err != nil {
		return domain.House{}, err
	}
	location, err := requireText("location", req.Location)
	if err != nil {
		return domain.House{}, err
	}
	if req.Rent <= 0 {
		return domain.House{}, fmt.Errorf("%w: rent must be positive", domain.ErrInvalidInput)
	}
	propertyType := strings.TrimSpace(req.PropertyType)
	if propertyType == "" {
		propertyType = domain.DefaultPropertyType
	}
	furnishing := strings.TrimSpace(req.Furnishing)
	if furnishing == "" {
		furnishing = domain.DefaultFurnishing
	}

	house := domain.House{
		OwnerID:      ownerID,
		Title:        title,
		Location:     location,
		Rent:         req.Rent,
		Images:       cleanList(req.Images),
		PropertyType: propertyType,
		Furnishing:   furnishing,
		Amenities:    cleanList(req.Amenities),
		Requests:     []domain.BookingRequest{},
	}
	if req.IsBooked {
		if req.Tenant == nil {
			return domain.House{}, fmt.Errorf("%w: a booked listing needs tenant details", domain.ErrInvalidInput)
		}
		tenant, err := s.seedTenant(ownerID, *req.Tenant)
		if err != nil {
			return domain.House{}, err
		}
		house.CurrentTenant = &tenant
		house.IsBooked = true
	}
	return house, nil
}

func (s *Service) seedTenant(ownerID string, seed TenantSeed) (domain.Tenant, error) {
	name, err := requireText("tenant name", seed.Name)
	if err != nil {
		return domain.Tenant{}, err
	}
	renterID := strings.TrimSpace(seed.RenterID)
	if renterID != "" && renterID == ownerID {
		return domain.Tenant{}, fmt.Errorf("%w: owner cannot be the tenant", domain.ErrInvalidInput)
	}
	start, err := parseDate(seed.StartDate)
	if err != nil {
		return domain.Tenant{}, err
	}
	tenant := domain.Tenant{
		RenterID:  renterID,
		Name:      name,
		Email:     strings.TrimSpace(seed.Email),
		Phone:     strings.TrimSpace(seed.Phone),
		StartDate: s.nowFn(),
	}
	if start != nil {
		tenant.StartDate = *start
	}
	return tenant, nil
}

func (s *Service) GetHouse(ctx context.Context, houseID string) (HouseView, error) {
	house, err := s.houses.Get(ctx, strings.TrimSpace(houseID))
	if err != nil {
		return HouseView{}, err
	}
	views := s.withOwners(ctx, []domain.House{house})
	return views[0], nil
}

// ListHouses returns every listing, or those whose title or location contains
// query case-insensitively, each joined with its owner's public fields.
func (s *Service) ListHouses(ctx context.Context, query string) ([]HouseView, error) {
	houses, err := s.houses.FindMatching(ctx, ports.HouseFilter{Text: strings.TrimSpace(query)})
	if err != nil {
		return nil, err
	}
	return s.withOwners(ctx, houses), nil
}

func (s *Service) MyHouses(ctx context.Context, actor domain.Identity) ([]HouseView, error) {
	houses, err := s.houses.FindMatching(ctx, ports.HouseFilter{OwnerID: actor.ID})
	if err != nil {
		return nil, err
	}
	out := make([]HouseView, 0, len(houses))
	for _, h := range houses {
		out = append(out, toHouseView(h))
	}
	return out, nil
}

// DeleteHouse removes the listing from any state. Deleting an occupied house
// frees its tenant to be seated elsewhere.
func (s *Service) DeleteHouse(ctx context.Context, actor domain.Identity, houseID string) (DeleteHouseResponse, error) {
	houseID = strings.TrimSpace(houseID)
	house, err := s.houses.Get(ctx, houseID)
	if err != nil {
		return DeleteHouseResponse{}, s.rejected(ctx, "delete_house", houseID, err)
	}
	if !domain.CanManage(house, actor.ID) {
		return DeleteHouseResponse{}, s.rejected(ctx, "delete_house", houseID, domain.ErrNotHouseOwner)
	}
	if err := s.houses.Delete(ctx, houseID); err != nil {
		return DeleteHouseResponse{}, s.rejected(ctx, "delete_house", houseID, err)
	}
	s.transitions.RecordTransition("delete_house", "success")
	s.logger.InfoContext(ctx, "house deleted",
		"operation", "delete_house",
		"outcome", "success",
		"house_id", houseID,
		"was_booked", house.IsBooked,
	)
	if house.CurrentTenant != nil {
		s.enqueueEvent(ctx, EventTenancyEnded, houseID, houseEvent(house))
	}
	s.enqueueEvent(ctx, EventHouseDeleted, houseID, houseEvent(house))
	return DeleteHouseResponse{ID: houseID}, nil
}
