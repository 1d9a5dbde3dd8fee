package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/jhoicas/orgadmin-api/internal/domain/entity"
	"github.com/jhoicas/orgadmin-api/internal/domain/repository"
)

var _ repository.SessionRepository = (*RedisStore)(nil)

// RedisStore sesiones en Redis como JSON; la clave expira junto con la sesión.
type RedisStore struct {
	rdb    redis.Cmdable
	prefix string
	now    func() time.Time
}

// NewRedisClient inicializa el cliente y verifica la conexión.
func NewRedisClient(ctx context.Context, addr, password string, db int) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})
	if _, err := client.Ping(ctx).Result(); err != nil {
		return nil, fmt.Errorf("conectar a redis: %w", err)
	}
	return client, nil
}

// NewRedisStore construye el almacén sobre rdb con el prefijo de claves dado.
func NewRedisStore(rdb redis.Cmdable, prefix string) *RedisStore {
	return &RedisStore{rdb: rdb, prefix: prefix, now: time.Now}
}

type redisSession struct {
	ID        string    `json:"id"`
	APIToken  string    `json:"api_token"`
	Subject   string    `json:"subject"`
	CreatedAt time.Time `json:"created_at"`
	ExpiresAt time.Time `json:"expires_at"`
}

func (s *RedisStore) key(id string) string { return s.prefix + id }

// ttl tiempo restante de la sesión; 0 = sin expiración.
func (s *RedisStore) ttl(sess *entity.Session) time.Duration {
	if sess.ExpiresAt.IsZero() {
		return 0
	}
	if d := sess.ExpiresAt.Sub(s.now()); d > 0 {
		return d
	}
	return time.Second
}

// Save guarda la sesión con TTL hasta su vencimiento.
func (s *RedisStore) Save(ctx context.Context, sess *entity.Session) error {
	raw, err := json.Marshal(redisSession(*sess))
	if err != nil {
		return fmt.Errorf("redis: serializar sesión: %w", err)
	}
	if err := s.rdb.Set(ctx, s.key(sess.ID), raw, s.ttl(sess)).Err(); err != nil {
		return fmt.Errorf("redis: guardar sesión: %w", err)
	}
	return nil
}

// Get devuelve la sesión o (nil, nil) si la clave no existe.
func (s *RedisStore) Get(ctx context.Context, id string) (*entity.Session, error) {
	raw, err := s.rdb.Get(ctx, s.key(id)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("redis: leer sesión: %w", err)
	}
	var rs redisSession
	if err := json.Unmarshal(raw, &rs); err != nil {
		return nil, fmt.Errorf("redis: deserializar sesión: %w", err)
	}
	sess := entity.Session(rs)
	return &sess, nil
}

// Delete elimina la clave de la sesión.
func (s *RedisStore) Delete(ctx context.Context, id string) error {
	if err := s.rdb.Del(ctx, s.key(id)).Err(); err != nil {
		return fmt.Errorf("redis: eliminar sesión: %w", err)
	}
	return nil
}
