package dto

// PlanRequest carries the raw form text a thin frontend collects.
// Stops is the textarea content as submitted: entries separated by line
// breaks or commas, blanks tolerated. Validation happens server-side so
// every frontend variant reports identical errors.
type PlanRequest struct {
	Depot         string `json:"depot"`
	Stops         string `json:"stops"`
	VehicleHeight string `json:"vehicle_height"`
}

type CardResponse struct {
	Kind             string  `json:"kind"`
	Title            string  `json:"title"`
	Message          string  `json:"message"`
	DistanceMeters   float64 `json:"distance_meters"`
	DurationSeconds  float64 `json:"duration_seconds"`
	MapURL           string  `json:"map_url,omitempty"`
	MapActionEnabled bool    `json:"map_action_enabled"`
}

type LegResponse struct {
	Sequence int            `json:"sequence"`
	Start    string         `json:"start"`
	End      string         `json:"end"`
	Status   string         `json:"status"`
	Cards    []CardResponse `json:"cards"`
}

type PlanResponse struct {
	Severity             string        `json:"severity"`
	Banner               string        `json:"banner"`
	TotalDistanceMeters  float64       `json:"total_distance_meters"`
	TotalDurationSeconds float64       `json:"total_duration_seconds"`
	Legs                 []LegResponse `json:"legs"`
}

type OCRResponse struct {
	Postcodes []string `json:"postcodes"`
}
