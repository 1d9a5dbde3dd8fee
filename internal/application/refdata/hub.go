package refdata

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/jhoicas/orgadmin-api/internal/domain/repository"
)

// Scopes entrega el Synchronizer (y su Cache) de una sesión de administrador.
type Scopes interface {
	For(sessionID string) *Synchronizer
}

var _ Scopes = (*Hub)(nil)

// Hub mantiene un Synchronizer con Cache propia por sesión. Los datos obtenidos con el token
// de una sesión nunca se sirven a otra: una sesión nueva empieza con listas vacías
// hasta que su propio token las carga.
type Hub struct {
	branches    repository.BranchRepository
	departments repository.DepartmentRepository
	roles       repository.RoleRepository
	users       repository.UserRepository
	log         zerolog.Logger

	mu     sync.Mutex
	scopes map[string]*hubEntry
	idle   time.Duration
	now    func() time.Time
}

type hubEntry struct {
	sync    *Synchronizer
	touched time.Time
}

// NewHub construye el hub. idle <= 0 desactiva el descarte por inactividad.
func NewHub(
	branches repository.BranchRepository,
	departments repository.DepartmentRepository,
	roles repository.RoleRepository,
	users repository.UserRepository,
	idle time.Duration,
	log zerolog.Logger,
) *Hub {
	return &Hub{
		branches:    branches,
		departments: departments,
		roles:       roles,
		users:       users,
		log:         log,
		scopes:      make(map[string]*hubEntry),
		idle:        idle,
		now:         time.Now,
	}
}

// For devuelve el Synchronizer de la sesión, creándolo vacío la primera vez.
// Sin id de sesión se entrega uno descartable que no se comparte.
func (h *Hub) For(sessionID string) *Synchronizer {
	if sessionID == "" {
		return h.newSynchronizer()
	}
	h.mu.Lock()
	defer h.mu.Unlock()
	e, ok := h.scopes[sessionID]
	if !ok {
		e = &hubEntry{sync: h.newSynchronizer()}
		h.scopes[sessionID] = e
	}
	e.touched = h.now()
	return e.sync
}

// Drop olvida los datos de la sesión (logout).
func (h *Hub) Drop(sessionID string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	delete(h.scopes, sessionID)
}

// Len cantidad de sesiones con datos en memoria.
func (h *Hub) Len() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.scopes)
}

// Sweep descarta las sesiones sin uso durante idle y devuelve cuántas eliminó.
func (h *Hub) Sweep() int {
	if h.idle <= 0 {
		return 0
	}
	h.mu.Lock()
	defer h.mu.Unlock()
	now := h.now()
	n := 0
	for id, e := range h.scopes {
		if now.Sub(e.touched) > h.idle {
			delete(h.scopes, id)
			n++
		}
	}
	if n > 0 {
		h.log.Debug().Int("dropped", n).Msg("refdata: sesiones inactivas descartadas")
	}
	return n
}

// Run ejecuta Sweep cada interval hasta que ctx termine.
func (h *Hub) Run(ctx context.Context, interval time.Duration) {
	if interval <= 0 {
		return
	}
	t := time.NewTicker(interval)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-t.C:
			h.Sweep()
		}
	}
}

func (h *Hub) newSynchronizer() *Synchronizer {
	return NewSynchronizer(h.branches, h.departments, h.roles, h.users, NewCache(), h.log)
}
