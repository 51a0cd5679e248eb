package api

// Response represents a generic API response for success or error messages.
type Response struct {
	Success   bool   `json:"success" example:"false"`                       // Indicates if the operation was successful.
	Error     string `json:"error,omitempty" example:"Invalid request body"` // Error message.
	RequestID string `json:"request_id,omitempty" example:"host/abc-000001"` // Request id assigned by the router.
}

// ValidationResponse is returned with 400 when the payload fails validation.
type ValidationResponse struct {
	Success   bool                `json:"success" example:"false"`
	Error     string              `json:"error" example:"One or more validation errors occurred."`
	RequestID string              `json:"request_id,omitempty" example:"host/abc-000001"`
	Fields    map[string][]string `json:"fields"` // Messages keyed by JSON field name.
}
