package storectx

import (
	"context"
	"errors"
	"io"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"merchant-console/internal/models"
)

func newContext() *Context {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	return New(NewMemoryBackend(), logger)
}

func strPtr(s string) *string { return &s }

func TestDefaultStoreInfo(t *testing.T) {
	info := DefaultStoreInfo()

	assert.Equal(t, models.BusinessHoursPerDay, info.BusinessHoursMode)
	assert.Equal(t, models.WorkConditionOpen, info.WorkCondition)
	assert.Equal(t, models.StoreStatusActive, info.Status)
	require.Len(t, info.TimeSlots, 7)
	for _, day := range models.Weekdays {
		assert.Equal(t, models.TimeSlot{StartTime: "10:00", EndTime: "22:00"}, info.TimeSlots[day])
	}
}

func TestGet_EmptyForUnknownOwner(t *testing.T) {
	state, err := newContext().Get(context.Background(), "owner-1")
	require.NoError(t, err)
	assert.Nil(t, state.StoreInfo)
	assert.False(t, state.IsStoreCreated)
}

func TestUpdate_MergesOverDefaultWhenEmpty(t *testing.T) {
	sc := newContext()
	ctx := context.Background()

	info, err := sc.Update(ctx, "owner-1", models.StoreInfoPatch{Name: strPtr("Green Grocer")})
	require.NoError(t, err)

	assert.Equal(t, "Green Grocer", info.Name)
	assert.Equal(t, models.WorkConditionOpen, info.WorkCondition)
	assert.Len(t, info.TimeSlots, 7)
}

func TestUpdate_MergesOverPrevious(t *testing.T) {
	sc := newContext()
	ctx := context.Background()

	require.NoError(t, sc.Set(ctx, "owner-1", models.StoreInfo{Name: "Old", Tel: "02-123", MinOrderPrice: 10000}))

	closed := models.WorkConditionClose
	minPrice := 15000
	info, err := sc.Update(ctx, "owner-1", models.StoreInfoPatch{WorkCondition: &closed, MinOrderPrice: &minPrice})
	require.NoError(t, err)

	assert.Equal(t, "Old", info.Name)
	assert.Equal(t, "02-123", info.Tel)
	assert.Equal(t, 15000, info.MinOrderPrice)
	assert.Equal(t, models.WorkConditionClose, info.WorkCondition)

	state, err := sc.Get(ctx, "owner-1")
	require.NoError(t, err)
	assert.Equal(t, *info, *state.StoreInfo)
}

func TestApplyPatch_TimeSlotsReplaceWholeMap(t *testing.T) {
	base := DefaultStoreInfo()
	patched := ApplyPatch(base, models.StoreInfoPatch{TimeSlots: map[models.DayOfWeek]models.TimeSlot{
		models.Sunday: {},
	}})

	assert.Len(t, patched.TimeSlots, 1)
	assert.True(t, patched.TimeSlots[models.Sunday].Closed())
	assert.Len(t, base.TimeSlots, 7, "base map is not modified")
}

func TestSetStoreID(t *testing.T) {
	sc := newContext()
	ctx := context.Background()

	_, err := sc.StoreID(ctx, "owner-1")
	assert.True(t, errors.Is(err, ErrNoStore))

	require.NoError(t, sc.SetStoreID(ctx, "owner-1", 77))

	id, err := sc.StoreID(ctx, "owner-1")
	require.NoError(t, err)
	assert.Equal(t, int64(77), id)

	state, err := sc.Get(ctx, "owner-1")
	require.NoError(t, err)
	assert.True(t, state.IsStoreCreated)
	assert.Equal(t, models.StoreStatusActive, state.StoreInfo.Status)
}

func TestSetStoreID_KeepsExistingInfo(t *testing.T) {
	sc := newContext()
	ctx := context.Background()

	require.NoError(t, sc.Set(ctx, "owner-1", models.StoreInfo{Name: "Bakery"}))
	require.NoError(t, sc.SetStoreID(ctx, "owner-1", 5))

	state, err := sc.Get(ctx, "owner-1")
	require.NoError(t, err)
	assert.Equal(t, "Bakery", state.StoreInfo.Name)
	assert.Equal(t, int64(5), *state.StoreInfo.StoreID)
}

func TestClear(t *testing.T) {
	sc := newContext()
	ctx := context.Background()

	require.NoError(t, sc.SetStoreID(ctx, "owner-1", 5))
	require.NoError(t, sc.Clear(ctx, "owner-1"))

	_, err := sc.StoreID(ctx, "owner-1")
	assert.ErrorIs(t, err, ErrNoStore)
}

func TestOwnersAreIsolated(t *testing.T) {
	sc := newContext()
	ctx := context.Background()

	require.NoError(t, sc.SetStoreID(ctx, "owner-1", 1))
	_, err := sc.StoreID(ctx, "owner-2")
	assert.ErrorIs(t, err, ErrNoStore)
}
