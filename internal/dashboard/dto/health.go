package dto

// HealthResponse reports liveness.
type HealthResponse struct {
	Status  string `json:"status"`
	Storage string `json:"storage"`
}
