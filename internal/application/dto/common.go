package dto

// ErrorResponse cuerpo de error HTTP.
type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	// Reasons motivos de validación en orden (solo Code=VALIDATION).
	Reasons []string `json:"reasons,omitempty"`
}
