package entity

import "time"

// Session sesión de administrador del BFF: asocia un id opaco con el token del API remoto.
type Session struct {
	ID        string
	APIToken  string
	Subject   string // quién abrió la sesión (email o usuario del ERP), solo informativo
	CreatedAt time.Time
	ExpiresAt time.Time
}

// Expired indica si la sesión venció respecto a now.
func (s *Session) Expired(now time.Time) bool {
	return !s.ExpiresAt.IsZero() && now.After(s.ExpiresAt)
}
