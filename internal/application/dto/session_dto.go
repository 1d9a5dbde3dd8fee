package dto

import "time"

// OpenSessionRequest entrada para abrir una sesión de administrador con el token del API remoto.
type OpenSessionRequest struct {
	APIToken  string `json:"api_token"`
	Subject   string `json:"subject"`
	AccessKey string `json:"access_key,omitempty"`
}

// SessionResponse JWT de la sesión; se envía como "Authorization: Bearer <token>".
type SessionResponse struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expires_at"`
}
