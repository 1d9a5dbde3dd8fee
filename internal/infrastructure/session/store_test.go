package session

import (
	"context"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/orgadmin-api/internal/domain/entity"
)

func TestMemoryStore_GuardaCopias(t *testing.T) {
	m := NewMemoryStore()
	s := &entity.Session{ID: "a", APIToken: "t1"}
	require.NoError(t, m.Save(context.Background(), s))
	s.APIToken = "mutado"

	got, err := m.Get(context.Background(), "a")
	require.NoError(t, err)
	assert.Equal(t, "t1", got.APIToken)

	require.NoError(t, m.Delete(context.Background(), "a"))
	got, err = m.Get(context.Background(), "a")
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestRedisStore_TTLHastaElVencimiento(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	// El cliente no se conecta hasta el primer comando.
	s := NewRedisStore(redis.NewClient(&redis.Options{Addr: "localhost:0"}), "orgadmin:session:")
	s.now = func() time.Time { return now }

	assert.Equal(t, "orgadmin:session:abc", s.key("abc"))
	assert.Equal(t, 30*time.Minute, s.ttl(&entity.Session{ExpiresAt: now.Add(30 * time.Minute)}))
	assert.Equal(t, time.Duration(0), s.ttl(&entity.Session{}))
	assert.Equal(t, time.Second, s.ttl(&entity.Session{ExpiresAt: now.Add(-time.Hour)}))
}
