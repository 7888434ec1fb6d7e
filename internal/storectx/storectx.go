// Package storectx holds the store profile a merchant edits across console
// screens, keyed by owner.
package storectx

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/sirupsen/logrus"

	"merchant-console/internal/models"
)

// ErrNoStore is returned by StoreID when the owner has not registered a store yet
var ErrNoStore = errors.New("store not registered")

// State is the persisted per-owner snapshot
type State struct {
	StoreInfo      *models.StoreInfo `json:"storeInfo"`
	IsStoreCreated bool              `json:"isStoreCreated"`
}

// Backend persists State values
type Backend interface {
	// Load returns nil, nil when nothing is stored for owner
	Load(ctx context.Context, ownerID string) (*State, error)
	Save(ctx context.Context, ownerID string, state *State) error
	Delete(ctx context.Context, ownerID string) error
}

// DefaultStoreInfo is the baseline a first partial update is merged over
func DefaultStoreInfo() models.StoreInfo {
	slots := make(map[models.DayOfWeek]models.TimeSlot, len(models.Weekdays))
	for _, day := range models.Weekdays {
		slots[day] = models.TimeSlot{StartTime: "10:00", EndTime: "22:00"}
	}
	return models.StoreInfo{
		BusinessHoursMode: models.BusinessHoursPerDay,
		TimeSlots:         slots,
		WorkCondition:     models.WorkConditionOpen,
		Status:            models.StoreStatusActive,
	}
}

// Context is the store context service
type Context struct {
	backend Backend
	logger  *logrus.Entry
	mu      sync.Mutex
}

func New(backend Backend, logger *logrus.Logger) *Context {
	return &Context{
		backend: backend,
		logger:  logger.WithField("component", "store-context"),
	}
}

// Get returns the owner's snapshot. An owner with nothing saved gets an empty State.
func (s *Context) Get(ctx context.Context, ownerID string) (*State, error) {
	state, err := s.backend.Load(ctx, ownerID)
	if err != nil {
		return nil, fmt.Errorf("failed to load store context: %w", err)
	}
	if state == nil {
		state = &State{}
	}
	return state, nil
}

// Set replaces the store info wholesale
func (s *Context) Set(ctx context.Context, ownerID string, info models.StoreInfo) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	state, err := s.Get(ctx, ownerID)
	if err != nil {
		return err
	}
	state.StoreInfo = &info
	return s.save(ctx, ownerID, state)
}

// Update shallow-merges patch over the current info, or over the default
// info when none exists yet, and returns the result.
func (s *Context) Update(ctx context.Context, ownerID string, patch models.StoreInfoPatch) (*models.StoreInfo, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	state, err := s.Get(ctx, ownerID)
	if err != nil {
		return nil, err
	}
	base := DefaultStoreInfo()
	if state.StoreInfo != nil {
		base = *state.StoreInfo
	}
	merged := ApplyPatch(base, patch)
	state.StoreInfo = &merged
	if err := s.save(ctx, ownerID, state); err != nil {
		return nil, err
	}
	return &merged, nil
}

// SetStoreID records the backend store id and marks the store as created
func (s *Context) SetStoreID(ctx context.Context, ownerID string, storeID int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	state, err := s.Get(ctx, ownerID)
	if err != nil {
		return err
	}
	if state.StoreInfo == nil {
		info := DefaultStoreInfo()
		state.StoreInfo = &info
	}
	state.StoreInfo.StoreID = &storeID
	state.IsStoreCreated = true

	s.logger.WithFields(logrus.Fields{"owner_id": ownerID, "store_id": storeID}).Info("Store id recorded")
	return s.save(ctx, ownerID, state)
}

// StoreID returns the registered store id or ErrNoStore
func (s *Context) StoreID(ctx context.Context, ownerID string) (int64, error) {
	state, err := s.Get(ctx, ownerID)
	if err != nil {
		return 0, err
	}
	if state.StoreInfo == nil || state.StoreInfo.StoreID == nil {
		return 0, ErrNoStore
	}
	return *state.StoreInfo.StoreID, nil
}

// Clear forgets everything stored for owner
func (s *Context) Clear(ctx context.Context, ownerID string) error {
	if err := s.backend.Delete(ctx, ownerID); err != nil {
		return fmt.Errorf("failed to clear store context: %w", err)
	}
	return nil
}

func (s *Context) save(ctx context.Context, ownerID string, state *State) error {
	if err := s.backend.Save(ctx, ownerID, state); err != nil {
		return fmt.Errorf("failed to save store context: %w", err)
	}
	return nil
}

// ApplyPatch copies every non-nil patch field onto info
func ApplyPatch(info models.StoreInfo, p models.StoreInfoPatch) models.StoreInfo {
	setString(&info.Name, p.Name)
	setString(&info.Detailed, p.Detailed)
	setString(&info.Tel, p.Tel)
	setString(&info.BizNumber, p.BizNumber)
	setString(&info.AddressCode, p.AddressCode)
	setString(&info.AddressDetail, p.AddressDetail)
	setString(&info.Jibun, p.Jibun)
	setString(&info.Road, p.Road)
	setString(&info.DeliveryType, p.DeliveryType)
	setString(&info.BusinessHoursMode, p.BusinessHoursMode)
	if p.Latitude != nil {
		info.Latitude = *p.Latitude
	}
	if p.Longitude != nil {
		info.Longitude = *p.Longitude
	}
	if p.MinOrderPrice != nil {
		info.MinOrderPrice = *p.MinOrderPrice
	}
	if p.DeliveryTimeEstimate != nil {
		info.DeliveryTimeEstimate = *p.DeliveryTimeEstimate
	}
	if p.DeliveryPickup != nil {
		info.DeliveryPickup = *p.DeliveryPickup
	}
	if p.TimeSlots != nil {
		slots := make(map[models.DayOfWeek]models.TimeSlot, len(p.TimeSlots))
		for day, slot := range p.TimeSlots {
			slots[day] = slot
		}
		info.TimeSlots = slots
	}
	if p.WorkCondition != nil {
		info.WorkCondition = *p.WorkCondition
	}
	if p.Status != nil {
		info.Status = *p.Status
	}
	return info
}

func setString(dst *string, src *string) {
	if src != nil {
		*dst = *src
	}
}
