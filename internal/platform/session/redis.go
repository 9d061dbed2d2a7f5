package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/ferdiebergado/roomkit/internal/config"
	"github.com/ferdiebergado/roomkit/internal/pkg/security"
	"github.com/redis/go-redis/v9"
)

var _ Manager = (*RedisManager)(nil)

const keyPrefix = "session:"

// NewRedisClient connects to redis and checks the connection.
func NewRedisClient(ctx context.Context, cfg *config.Redis) (*redis.Client, error) {
	slog.Info("Connecting to redis...")

	client := redis.NewClient(&redis.Options{
		Addr:         cfg.Addr,
		Password:     cfg.Password,
		DB:           cfg.DB,
		PoolSize:     cfg.PoolSize,
		DialTimeout:  cfg.DialTimeout.Duration,
		ReadTimeout:  cfg.ReadTimeout.Duration,
		WriteTimeout: cfg.WriteTimeout.Duration,
	})

	pingCtx, cancel := context.WithTimeout(ctx, cfg.DialTimeout.Duration)
	defer cancel()

	if err := client.Ping(pingCtx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("ping redis at %s: %w", cfg.Addr, err)
	}

	slog.Info("Connected to redis.", "addr", cfg.Addr)
	return client, nil
}

type RedisManager struct {
	client *redis.Client
	ttl    time.Duration
	idLen  uint32
	now    func() time.Time
}

func NewRedisManager(client *redis.Client, cfg *config.Session) *RedisManager {
	return &RedisManager{
		client: client,
		ttl:    cfg.TTL.Duration,
		idLen:  cfg.IDLength,
		now:    time.Now,
	}
}

func (m *RedisManager) Establish(ctx context.Context, userID, fingerprint string) (*Session, error) {
	id, err := security.GenerateRandomBytesURLEncoded(m.idLen)
	if err != nil {
		return nil, fmt.Errorf("generate session id: %w", err)
	}

	sess := &Session{
		ID:          id,
		UserID:      userID,
		Fingerprint: fingerprint,
		CreatedAt:   m.now().UTC(),
	}

	payload, err := json.Marshal(sess)
	if err != nil {
		return nil, fmt.Errorf("encode session: %w", err)
	}

	ok, err := m.client.SetNX(ctx, keyPrefix+id, payload, m.ttl).Result()
	if err != nil {
		return nil, fmt.Errorf("store session: %w", err)
	}

	if !ok {
		return nil, fmt.Errorf("store session: id collision")
	}

	return sess, nil
}

func (m *RedisManager) Find(ctx context.Context, id string) (*Session, error) {
	if id == "" {
		return nil, ErrNotFound
	}

	payload, err := m.client.Get(ctx, keyPrefix+id).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get session: %w", err)
	}

	var sess Session
	if err := json.Unmarshal(payload, &sess); err != nil {
		return nil, fmt.Errorf("decode session: %w", err)
	}
	sess.ID = id

	return &sess, nil
}

func (m *RedisManager) Rebind(ctx context.Context, id, fingerprint string) error {
	sess, err := m.Find(ctx, id)
	if err != nil {
		return err
	}
	sess.Fingerprint = fingerprint

	payload, err := json.Marshal(sess)
	if err != nil {
		return fmt.Errorf("encode session: %w", err)
	}

	ok, err := m.client.SetXX(ctx, keyPrefix+id, payload, redis.KeepTTL).Result()
	if err != nil {
		return fmt.Errorf("rebind session: %w", err)
	}

	if !ok {
		return ErrNotFound
	}

	return nil
}

func (m *RedisManager) Destroy(ctx context.Context, id string) error {
	if err := m.client.Del(ctx, keyPrefix+id).Err(); err != nil {
		return fmt.Errorf("delete session: %w", err)
	}
	return nil
}
