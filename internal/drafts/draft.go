// Package drafts keeps the in-progress option product form of each owner
// and drives it through the option matrix builder.
package drafts

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"merchant-console/internal/models"
	"merchant-console/internal/optionmatrix"
)

// State is where the form is in the apply cycle
type State string

const (
	// StateIdle means axes may have changed since the last apply
	StateIdle State = "IDLE"
	// StateApplied means Variants were generated from the current axes
	StateApplied State = "APPLIED"
)

// Draft is one owner's unsaved option product
type Draft struct {
	ID      uuid.UUID `json:"id"`
	OwnerID string    `json:"ownerId"`
	models.ProductDetails
	Axes      []optionmatrix.Axis    `json:"axes"`
	Variants  []optionmatrix.Variant `json:"variants"`
	State     State                  `json:"state"`
	UpdatedAt time.Time              `json:"updatedAt"`
}

func newDraft(ownerID string, now time.Time) *Draft {
	return &Draft{
		ID:      uuid.New(),
		OwnerID: ownerID,
		ProductDetails: models.ProductDetails{
			StoreCategoryIDs:  []int64{},
			FulfillmentMethod: models.FulfillmentDeliveryOnly,
		},
		Axes:      []optionmatrix.Axis{},
		Variants:  []optionmatrix.Variant{},
		State:     StateIdle,
		UpdatedAt: now,
	}
}

// Store persists drafts by owner
type Store interface {
	// Get returns nil, nil when the owner has no draft
	Get(ctx context.Context, ownerID string) (*Draft, error)
	Save(ctx context.Context, draft *Draft) error
	Delete(ctx context.Context, ownerID string) error
}

const keyPrefix = "console:draft:"

// RedisStore keeps drafts as JSON values that expire after ttl
type RedisStore struct {
	client *redis.Client
	ttl    time.Duration
}

func NewRedisStore(client *redis.Client, ttl time.Duration) *RedisStore {
	return &RedisStore{client: client, ttl: ttl}
}

func (s *RedisStore) Get(ctx context.Context, ownerID string) (*Draft, error) {
	data, err := s.client.Get(ctx, keyPrefix+ownerID).Bytes()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	var d Draft
	if err := json.Unmarshal(data, &d); err != nil {
		return nil, fmt.Errorf("corrupt draft for %s: %w", ownerID, err)
	}
	return &d, nil
}

func (s *RedisStore) Save(ctx context.Context, draft *Draft) error {
	data, err := json.Marshal(draft)
	if err != nil {
		return err
	}
	return s.client.Set(ctx, keyPrefix+draft.OwnerID, data, s.ttl).Err()
}

func (s *RedisStore) Delete(ctx context.Context, ownerID string) error {
	return s.client.Del(ctx, keyPrefix+ownerID).Err()
}

// MemoryStore keeps drafts in process. Entries do not expire.
type MemoryStore struct {
	mu     sync.RWMutex
	drafts map[string][]byte
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{drafts: make(map[string][]byte)}
}

func (s *MemoryStore) Get(_ context.Context, ownerID string) (*Draft, error) {
	s.mu.RLock()
	data, ok := s.drafts[ownerID]
	s.mu.RUnlock()
	if !ok {
		return nil, nil
	}
	var d Draft
	if err := json.Unmarshal(data, &d); err != nil {
		return nil, err
	}
	return &d, nil
}

func (s *MemoryStore) Save(_ context.Context, draft *Draft) error {
	data, err := json.Marshal(draft)
	if err != nil {
		return err
	}
	s.mu.Lock()
	s.drafts[draft.OwnerID] = data
	s.mu.Unlock()
	return nil
}

func (s *MemoryStore) Delete(_ context.Context, ownerID string) error {
	s.mu.Lock()
	delete(s.drafts, ownerID)
	s.mu.Unlock()
	return nil
}
