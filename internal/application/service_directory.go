package application

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/viralforge/rental-service/internal/domain"
	"github.com/viralforge/rental-service/internal/ports"
)

func ownerCacheKey(userID string) string {
	return "rental:owner:" + userID
}

// withOwners joins each house with its owner's display fields. A directory
// failure degrades to views without the owner block.
func (s *Service) withOwners(ctx context.Context, houses []domain.House) []HouseView {
	ids := make([]string, 0, len(houses))
	for _, h := range houses {
		ids = append(ids, h.OwnerID)
	}
	owners := s.ownerSummaries(ctx, ids)

	out := make([]HouseView, 0, len(houses))
	for _, h := range houses {
		view := toHouseView(h)
		if owner, ok := owners[h.OwnerID]; ok {
			owner := owner
			view.Owner = &owner
		}
		out = append(out, view)
	}
	return out
}

func (s *Service) ownerSummaries(ctx context.Context, ids []string) map[string]OwnerView {
	out := make(map[string]OwnerView, len(ids))
	seen := make(map[string]struct{}, len(ids))
	var missing []string
	for _, id := range ids {
		if _, dup := seen[id]; dup || id == "" {
			continue
		}
		seen[id] = struct{}{}
		raw, err := s.cache.Get(ctx, ownerCacheKey(id))
		if err == nil {
			var view OwnerView
			if json.Unmarshal([]byte(raw), &view) == nil {
				out[id] = view
				continue
			}
		} else if !errors.Is(err, ports.ErrCacheMiss) {
			s.logger.WarnContext(ctx, "owner cache read failed",
				"operation", "owner_lookup",
				"outcome", "failure",
				"error", err,
			)
		}
		missing = append(missing, id)
	}
	if len(missing) == 0 {
		return out
	}

	users, err := s.users.ListByIDs(ctx, missing)
	if err != nil {
		s.logger.WarnContext(ctx, "owner directory lookup failed",
			"operation", "owner_lookup",
			"outcome", "failure",
			"owners", len(missing),
			"error", err,
		)
		return out
	}
	for _, u := range users {
		view := OwnerView{ID: u.ID, Name: u.Name, Email: u.Email}
		out[u.ID] = view
		if raw, err := json.Marshal(view); err == nil {
			_ = s.cache.Set(ctx, ownerCacheKey(u.ID), string(raw), s.cfg.OwnerCacheTTL)
		}
	}
	return out
}
