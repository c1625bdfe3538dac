package domain

// Reserved identifiers. Real stops are numbered from 1 in extraction order.
const (
	StartStopID  = 0
	ReturnStopID = -1
)

// Skip reasons reported to callers.
const (
	ReasonNotFound           = "not found"
	ReasonExceedsMaxDistance = "exceeds max distance"
)

// Represents a single address candidate extracted from a manifest.
// RawStops are immutable and their slice order is the canonical input order.
type RawStop struct {
	Label      string
	RawAddress string
}

// Represents a stop whose address was resolved to coordinates.
// ID equals the 1-based position of the originating RawStop and is never renumbered;
// it is the join key used to detect which stops survive filtering.
type ResolvedStop struct {
	ID             int
	Label          string
	RawAddress     string
	Lat            float64
	Lon            float64
	ReturnToOrigin bool
}

func (s ResolvedStop) Coordinates() Coordinates {
	return Coordinates{Lon: s.Lon, Lat: s.Lat}
}

// Represents a stop that was dropped after extraction, with a human-readable reason.
type SkippedStop struct {
	Label      string
	RawAddress string
	Reason     string
}
