package storectx

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/redis/go-redis/v9"
)

const keyPrefix = "console:store:"

// RedisBackend keeps store contexts in Redis without expiry
type RedisBackend struct {
	client *redis.Client
}

func NewRedisBackend(client *redis.Client) *RedisBackend {
	return &RedisBackend{client: client}
}

func (b *RedisBackend) Load(ctx context.Context, ownerID string) (*State, error) {
	data, err := b.client.Get(ctx, keyPrefix+ownerID).Bytes()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	var state State
	if err := json.Unmarshal(data, &state); err != nil {
		return nil, fmt.Errorf("corrupt store context for %s: %w", ownerID, err)
	}
	return &state, nil
}

func (b *RedisBackend) Save(ctx context.Context, ownerID string, state *State) error {
	data, err := json.Marshal(state)
	if err != nil {
		return err
	}
	return b.client.Set(ctx, keyPrefix+ownerID, data, 0).Err()
}

func (b *RedisBackend) Delete(ctx context.Context, ownerID string) error {
	return b.client.Del(ctx, keyPrefix+ownerID).Err()
}

// MemoryBackend is used when Redis is unavailable and in tests
type MemoryBackend struct {
	mu     sync.RWMutex
	states map[string][]byte
}

func NewMemoryBackend() *MemoryBackend {
	return &MemoryBackend{states: make(map[string][]byte)}
}

func (b *MemoryBackend) Load(_ context.Context, ownerID string) (*State, error) {
	b.mu.RLock()
	data, ok := b.states[ownerID]
	b.mu.RUnlock()
	if !ok {
		return nil, nil
	}
	var state State
	if err := json.Unmarshal(data, &state); err != nil {
		return nil, err
	}
	return &state, nil
}

func (b *MemoryBackend) Save(_ context.Context, ownerID string, state *State) error {
	data, err := json.Marshal(state)
	if err != nil {
		return err
	}
	b.mu.Lock()
	b.states[ownerID] = data
	b.mu.Unlock()
	return nil
}

func (b *MemoryBackend) Delete(_ context.Context, ownerID string) error {
	b.mu.Lock()
	delete(b.states, ownerID)
	b.mu.Unlock()
	return nil
}
