package application

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/viralforge/rental-service/internal/domain"
	"github.com/viralforge/rental-service/internal/ports"
)

// ensureNotSeated fails with ErrAlreadyResident when renterID is the current
// tenant of any house other than exceptHouseID. Stores re-check the rule on write.
func (s *Service) ensureNotSeated(ctx context.Context, renterID, exceptHouseID string) error {
	if renterID == "" {
		return nil
	}
	seated, err := s.houses.FindMatching(ctx, ports.HouseFilter{TenantRenterID: renterID})
	if err != nil {
		return fmt.Errorf("residency lookup: %w", err)
	}
	for _, h := range seated {
		if h.ID != exceptHouseID {
			return domain.ErrAlreadyResident
		}
	}
	return nil
}

// ResidencyOf returns the house currently seating renterID.
func (s *Service) ResidencyOf(ctx context.Context, renterID string) (ResidencyResponse, error) {
	renterID = strings.TrimSpace(renterID)
	if renterID == "" {
		return ResidencyResponse{}, fmt.Errorf("%w: renter id is required", domain.ErrInvalidInput)
	}
	seated, err := s.houses.FindMatching(ctx, ports.HouseFilter{TenantRenterID: renterID})
	if err != nil {
		return ResidencyResponse{}, err
	}
	if len(seated) == 0 {
		return ResidencyResponse{}, domain.ErrNotResident
	}
	if len(seated) > 1 {
		houseIDs := make([]string, 0, len(seated))
		for _, h := range seated {
			houseIDs = append(houseIDs, h.ID)
		}
		s.logger.WarnContext(ctx, "renter seated in more than one house",
			"operation", "residency_of",
			"outcome", "inconsistent",
			"renter_id", renterID,
			"match_count", len(seated),
			"house_ids", houseIDs,
		)
	}
	return ResidencyResponse{RenterID: renterID, House: toHouseView(seated[0])}, nil
}

type ResidencyReport struct {
	HousesScanned int                 `json:"houses_scanned"`
	Duplicates    map[string][]string `json:"duplicates"`
	Inconsistent  []string            `json:"inconsistent"`
}

func (r ResidencyReport) Healthy() bool {
	return len(r.Duplicates) == 0 && len(r.Inconsistent) == 0
}

// AuditResidency scans every house and reports renters seated more than once
// and houses whose booked flag disagrees with their tenant record.
func (s *Service) AuditResidency(ctx context.Context) (ResidencyReport, error) {
	houses, err := s.houses.FindMatching(ctx, ports.HouseFilter{})
	if err != nil {
		return ResidencyReport{}, err
	}
	report := ResidencyReport{
		HousesScanned: len(houses),
		Duplicates:    map[string][]string{},
		Inconsistent:  []string{},
	}
	seats := map[string][]string{}
	for _, h := range houses {
		if !h.Consistent() {
			report.Inconsistent = append(report.Inconsistent, h.ID)
		}
		if h.CurrentTenant != nil && h.CurrentTenant.RenterID != "" {
			seats[h.CurrentTenant.RenterID] = append(seats[h.CurrentTenant.RenterID], h.ID)
		}
	}
	for renterID, houseIDs := range seats {
		if len(houseIDs) > 1 {
			sort.Strings(houseIDs)
			report.Duplicates[renterID] = houseIDs
		}
	}
	sort.Strings(report.Inconsistent)

	s.logger.InfoContext(ctx, "residency audit finished",
		"operation", "audit_residency",
		"outcome", "success",
		"houses_scanned", report.HousesScanned,
		"duplicate_renters", len(report.Duplicates),
		"inconsistent_houses", len(report.Inconsistent),
	)
	return report, nil
}
