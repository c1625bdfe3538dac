package dto

// PipelineInfo names the backends a running server was wired with.
type PipelineInfo struct {
	CacheBackend string `json:"cache_backend,omitempty"`
	Geocoder     string `json:"geocoder,omitempty"`
	Router       string `json:"router,omitempty"`
}

type HealthResponse struct {
	Status   string       `json:"status"`
	Pipeline PipelineInfo `json:"pipeline"`
}
