package domain

// Travel statistics for the edge that ends at a stop.
// The start of a route always carries a zero leg.
type RouteLeg struct {
	FromID     int
	ToID       int
	DistanceKm float64
	DurationS  float64
}

// A sequenced stop together with the leg that arrives at it.
type RouteStop struct {
	ResolvedStop
	Leg RouteLeg
}

// Road path statistics for an ordered stop sequence.
// Legs[i] connects stop i to stop i+1. Fallback is set when the values
// are great-circle estimates rather than routing service results.
type PathAugmentation struct {
	Geometry        string
	TotalDistanceKm float64
	TotalDurationS  float64
	Legs            []RouteLeg
	Fallback        bool
}

// Represents the terminal artifact of the planning pipeline.
// It is immutable planning data and contains no side effects.
type RouteResult struct {
	Stops           []RouteStop
	Skipped         []SkippedStop
	TotalDistanceKm float64
	TotalDurationS  float64
	Geometry        string
	RegionBias      string
	Fallback        bool
}
