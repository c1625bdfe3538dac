package dto

import "manifest-route-service/internal/domain"

// FromRouteResult converts a planned route into its response shape.
func FromRouteResult(res *domain.RouteResult) RouteResponse {
	out := RouteResponse{
		Stops:           make([]StopResponse, 0, len(res.Stops)),
		Skipped:         make([]SkippedResponse, 0, len(res.Skipped)),
		TotalDistanceKm: res.TotalDistanceKm,
		TotalDurationS:  res.TotalDurationS,
		Geometry:        res.Geometry,
		RegionBias:      res.RegionBias,
		Estimated:       res.Fallback,
	}

	for _, s := range res.Stops {
		out.Stops = append(out.Stops, StopResponse{
			ID:             s.ID,
			Label:          s.Label,
			Address:        s.RawAddress,
			Latitude:       s.Lat,
			Longitude:      s.Lon,
			ReturnToOrigin: s.ReturnToOrigin,
			Leg: LegResponse{
				FromID:     s.Leg.FromID,
				ToID:       s.Leg.ToID,
				DistanceKm: s.Leg.DistanceKm,
				DurationS:  s.Leg.DurationS,
			},
		})
	}

	for _, s := range res.Skipped {
		out.Skipped = append(out.Skipped, SkippedResponse{
			Label:   s.Label,
			Address: s.RawAddress,
			Reason:  s.Reason,
		})
	}

	return out
}
