package dto

import "time"

// ErrorResponse is the JSON body returned for every failed API request.
type ErrorResponse struct {
	Message      string    `json:"message" example:"invalid date format, expected YYYY-MM-DD"`
	ErrorDetails string    `json:"error_details,omitempty" example:"parsing time \"15-09-2025\" as \"2006-01-02\""`
	Timestamp    time.Time `json:"timestamp"`
}

// Error implements error so the response can travel through gin's error list.
func (e ErrorResponse) Error() string {
	if e.ErrorDetails == "" {
		return e.Message
	}
	return e.Message + ": " + e.ErrorDetails
}

// NewErrorResponse builds an ErrorResponse stamped with the current UTC time.
// err is optional; when set its text becomes ErrorDetails.
func NewErrorResponse(message string, err error) ErrorResponse {
	resp := ErrorResponse{
		Message:   message,
		Timestamp: time.Now().UTC(),
	}
	if err != nil {
		resp.ErrorDetails = err.Error()
	}
	return resp
}
