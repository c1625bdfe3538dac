package dto

type LegResponse struct {
	FromID     int     `json:"from_id"`
	ToID       int     `json:"to_id"`
	DistanceKm float64 `json:"distance_km"`
	DurationS  float64 `json:"duration_s"`
}

type StopResponse struct {
	ID             int         `json:"id"`
	Label          string      `json:"label"`
	Address        string      `json:"address"`
	Latitude       float64     `json:"latitude"`
	Longitude      float64     `json:"longitude"`
	ReturnToOrigin bool        `json:"return_to_origin,omitempty"`
	Leg            LegResponse `json:"leg"`
}

type SkippedResponse struct {
	Label   string `json:"label"`
	Address string `json:"address"`
	Reason  string `json:"reason"`
}

// RouteResponse is the JSON form of a planned route.
// Geometry is passed through exactly as the routing service returned it.
type RouteResponse struct {
	Stops           []StopResponse    `json:"stops"`
	Skipped         []SkippedResponse `json:"skipped"`
	TotalDistanceKm float64           `json:"total_distance_km"`
	TotalDurationS  float64           `json:"total_duration_s"`
	Geometry        string            `json:"geometry,omitempty"`
	RegionBias      string            `json:"region_bias,omitempty"`
	Estimated       bool              `json:"estimated"`
}

type ErrorResponse struct {
	Error string `json:"error"`
}
