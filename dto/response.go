package dto

// ErrorResponse is the structured failure body returned by the API.
type ErrorResponse struct {
	Error string `json:"error"`
}
