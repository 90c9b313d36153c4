package repository

import (
	"fmt"
	"testing"
	"time"

	"kvt-storefront/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestActivityLogAppendAssignsIDAndTimestamp(t *testing.T) {
	log := NewActivityLog()

	entry := log.Append(model.ActivityEntry{
		Type:       model.ActivityPriceUpdated,
		UserID:     "u1",
		UserName:   "Admin User",
		EntityType: model.EntityPrice,
		EntityID:   "gold-c",
	})

	assert.NotEmpty(t, entry.ID)
	assert.WithinDuration(t, time.Now(), entry.Timestamp, time.Second)
}

func TestActivityLogNewestFirst(t *testing.T) {
	log := NewActivityLog()
	log.Append(model.ActivityEntry{EntityID: "first", Type: model.ActivityPriceUpdated})
	log.Append(model.ActivityEntry{EntityID: "second", Type: model.ActivityPriceUpdated})

	recent := log.Recent(2)
	require.Len(t, recent, 2)
	assert.Equal(t, "second", recent[0].EntityID)
	assert.Equal(t, "first", recent[1].EntityID)
}

func TestActivityLogCapacityBound(t *testing.T) {
	log := NewActivityLog()
	for i := 0; i <= MaxActivityEntries; i++ {
		log.Append(model.ActivityEntry{
			Type:     model.ActivityPriceUpdated,
			EntityID: fmt.Sprintf("entry-%d", i),
		})
	}

	assert.Equal(t, MaxActivityEntries, log.Len())

	all := log.Recent(0)
	// The newest entry survives at the head; the single oldest is evicted.
	assert.Equal(t, fmt.Sprintf("entry-%d", MaxActivityEntries), all[0].EntityID)
	assert.Equal(t, "entry-1", all[len(all)-1].EntityID)
}

func TestActivityLogQueryFilters(t *testing.T) {
	log := NewActivityLog()
	log.Append(model.ActivityEntry{Type: model.ActivityPriceUpdated, UserID: "u1", EntityType: model.EntityPrice})
	log.Append(model.ActivityEntry{Type: model.ActivityProductCreated, UserID: "u2", EntityType: model.EntityProduct})
	log.Append(model.ActivityEntry{Type: model.ActivityPricePublished, UserID: "u1", EntityType: model.EntityPrice})

	byUser := log.Query(ActivityFilter{UserID: "u1"})
	assert.Len(t, byUser, 2)

	byType := log.Query(ActivityFilter{Type: model.ActivityProductCreated})
	require.Len(t, byType, 1)
	assert.Equal(t, "u2", byType[0].UserID)

	combined := log.Query(ActivityFilter{UserID: "u1", EntityType: model.EntityPrice, Limit: 1})
	assert.Len(t, combined, 1)
}

func TestActivityLogQueryTimeRange(t *testing.T) {
	log := NewActivityLog()
	log.Append(model.ActivityEntry{Type: model.ActivityPriceUpdated, EntityID: "a"})

	past := time.Now().Add(-time.Hour)
	future := time.Now().Add(time.Hour)

	assert.Len(t, log.Query(ActivityFilter{StartDate: &past, EndDate: &future}), 1)
	assert.Empty(t, log.Query(ActivityFilter{EndDate: &past}))
	assert.Empty(t, log.Query(ActivityFilter{StartDate: &future}))
}

func TestActivityLogClear(t *testing.T) {
	log := NewActivityLog()
	log.Append(model.ActivityEntry{Type: model.ActivityPriceUpdated})
	log.Clear()
	assert.Zero(t, log.Len())
}
