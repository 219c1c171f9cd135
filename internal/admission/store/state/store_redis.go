package state

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"

	"recruitbot/internal/admission/models"
	"recruitbot/internal/admission/ports"
)

const (
	stateKeyPrefix = "admission:state:"
	maxTxRetries   = 5
)

// RedisStateStore shares admission state between bot instances.
// Unblocked states expire after the retention period, so Sweep has nothing to do;
// blocked states never expire.
type RedisStateStore struct {
	client    *redis.Client
	retention time.Duration
}

// NewRedis constructs a Redis-backed state store. retention is the TTL applied to
// unblocked states on every write.
func NewRedis(client *redis.Client, retention time.Duration) *RedisStateStore {
	return &RedisStateStore{client: client, retention: retention}
}

func stateKey(userID int64) string {
	return stateKeyPrefix + strconv.FormatInt(userID, 10)
}

func (s *RedisStateStore) Get(ctx context.Context, userID int64) (*models.State, error) {
	raw, err := s.client.Get(ctx, stateKey(userID)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get admission state: %w", err)
	}
	var st models.State
	if err := json.Unmarshal(raw, &st); err != nil {
		return nil, fmt.Errorf("decode admission state: %w", err)
	}
	return &st, nil
}

// Update uses WATCH/MULTI so concurrent writers for the same identity retry
// instead of overwriting each other. fn may run more than once.
func (s *RedisStateStore) Update(ctx context.Context, userID int64, fn ports.UpdateFunc) (*models.State, error) {
	key := stateKey(userID)
	var result *models.State

	txf := func(tx *redis.Tx) error {
		st := models.NewState(userID)
		raw, err := tx.Get(ctx, key).Bytes()
		switch {
		case err == nil:
			if err := json.Unmarshal(raw, st); err != nil {
				return fmt.Errorf("decode admission state: %w", err)
			}
		case !errors.Is(err, redis.Nil):
			return err
		}

		if err := fn(st); err != nil {
			return err
		}

		payload, err := json.Marshal(st)
		if err != nil {
			return fmt.Errorf("encode admission state: %w", err)
		}
		ttl := s.retention
		if st.Blocked {
			ttl = 0
		}
		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Set(ctx, key, payload, ttl)
			return nil
		})
		if err != nil {
			return err
		}
		result = st
		return nil
	}

	for range maxTxRetries {
		err := s.client.Watch(ctx, txf, key)
		if err == nil {
			return result, nil
		}
		if errors.Is(err, redis.TxFailedErr) {
			continue
		}
		return nil, fmt.Errorf("update admission state: %w", err)
	}
	return nil, fmt.Errorf("update admission state: %w", redis.TxFailedErr)
}

// Sweep is a no-op: key expiry does the work.
func (s *RedisStateStore) Sweep(_ context.Context, _, _ time.Time) (int, error) {
	return 0, nil
}
