// Package session implementa repository.SessionRepository en memoria y en Redis.
package session

import (
	"context"
	"sync"

	"github.com/jhoicas/orgadmin-api/internal/domain/entity"
	"github.com/jhoicas/orgadmin-api/internal/domain/repository"
)

var _ repository.SessionRepository = (*MemoryStore)(nil)

// MemoryStore almacén en proceso; las sesiones se pierden al reiniciar.
type MemoryStore struct {
	mu       sync.RWMutex
	sessions map[string]entity.Session
}

// NewMemoryStore construye el almacén vacío.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{sessions: make(map[string]entity.Session)}
}

// Save guarda una copia de s.
func (m *MemoryStore) Save(_ context.Context, s *entity.Session) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sessions[s.ID] = *s
	return nil
}

// Get devuelve una copia de la sesión o (nil, nil).
func (m *MemoryStore) Get(_ context.Context, id string) (*entity.Session, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	s, ok := m.sessions[id]
	if !ok {
		return nil, nil
	}
	return &s, nil
}

// Delete elimina la sesión.
func (m *MemoryStore) Delete(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.sessions, id)
	return nil
}
