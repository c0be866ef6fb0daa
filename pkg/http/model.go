package http

// ErrorBody is the JSON shape of every failed request.
type ErrorBody struct {
	Error   string      `json:"error" example:"Ticker is required"`
	Details interface{} `json:"details,omitempty"`
}
