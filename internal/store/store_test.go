package store

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/smartdevs17/health-sms-relay/internal/config"
	"github.com/smartdevs17/health-sms-relay/internal/models"
)

func TestMemoryStore(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore(&StoreConfig{SpreadsheetName: "HealthLog"})

	require.NoError(t, store.Connect())
	require.NoError(t, store.Ping(ctx))

	t.Run("last entries on empty store", func(t *testing.T) {
		entries, err := store.LastEntries(ctx, 3)
		require.NoError(t, err)
		assert.Empty(t, entries)
	})

	t.Run("append and read back", func(t *testing.T) {
		for _, entry := range []*models.Entry{
			{Date: "2025-06-10", Time: "08:00:00", Body: "a", Urgency: 1},
			{Date: "2025-06-11", Time: "08:00:00", Body: "b", Urgency: 2},
			{Date: "2025-06-12", Time: "08:00:00", Body: "c", Urgency: 3},
			{Date: "2025-06-13", Time: "08:00:00", Body: "d", Urgency: 4},
		} {
			require.NoError(t, store.Append(ctx, entry))
		}
		assert.Equal(t, 4, store.Len())

		entries, err := store.LastEntries(ctx, 3)
		require.NoError(t, err)
		require.Len(t, entries, 3)

		// Oldest first, most recently appended last
		assert.Equal(t, 2, entries[0].Urgency)
		assert.Equal(t, 4, entries[2].Urgency)
	})

	t.Run("fewer entries than requested", func(t *testing.T) {
		entries, err := store.LastEntries(ctx, 10)
		require.NoError(t, err)
		assert.Len(t, entries, 4)
	})

	t.Run("shareable link", func(t *testing.T) {
		link, err := store.ShareableLink(ctx)
		require.NoError(t, err)
		assert.Equal(t, "memory://HealthLog", link)
	})

	require.NoError(t, store.Close())
}

func TestTailEntries(t *testing.T) {
	header := []interface{}{"Date", "Time", "Body", "Urgency"}

	t.Run("empty grid", func(t *testing.T) {
		assert.Empty(t, tailEntries(nil, 3))
	})

	t.Run("header only", func(t *testing.T) {
		assert.Empty(t, tailEntries([][]interface{}{header}, 3))
	})

	t.Run("fewer data rows than requested excludes the header", func(t *testing.T) {
		rows := [][]interface{}{
			header,
			{"2025-06-12", "09:00:00", "mild", "2"},
			{"2025-06-13", "18:15:30", "worse", "6"},
		}

		entries := tailEntries(rows, 3)
		require.Len(t, entries, 2)
		assert.Equal(t, "2025-06-12", entries[0].Date)
		assert.Equal(t, 2, entries[0].Urgency)
		assert.Equal(t, 6, entries[1].Urgency)
	})

	t.Run("more data rows than requested keeps the tail", func(t *testing.T) {
		rows := [][]interface{}{header}
		for _, urgency := range []string{"1", "2", "3", "4", "5"} {
			rows = append(rows, []interface{}{"2025-06-12", "09:00:00", "x", urgency})
		}

		entries := tailEntries(rows, 3)
		require.Len(t, entries, 3)
		assert.Equal(t, 3, entries[0].Urgency)
		assert.Equal(t, 5, entries[2].Urgency)
	})

	t.Run("short and malformed rows decode to zero values", func(t *testing.T) {
		rows := [][]interface{}{
			header,
			{"2025-06-12"},
			{"2025-06-13", "09:00:00", "x", "not-a-number"},
		}

		entries := tailEntries(rows, 3)
		require.Len(t, entries, 2)
		assert.Zero(t, entries[0].Urgency)
		assert.Empty(t, entries[0].Time)
		assert.Zero(t, entries[1].Urgency)
	})
}

func TestNewEntryStoreFactory(t *testing.T) {
	t.Run("unsupported backend", func(t *testing.T) {
		_, err := NewEntryStore(&config.SheetsConfig{Backend: "nosuch", SpreadsheetName: "HealthLog"})
		require.Error(t, err)
	})

	t.Run("memory backend", func(t *testing.T) {
		s, err := NewEntryStore(&config.SheetsConfig{Backend: "memory", SpreadsheetName: "HealthLog"})
		require.NoError(t, err)
		assert.IsType(t, &MemoryStore{}, s)
	})

	t.Run("sheets backend", func(t *testing.T) {
		s, err := NewEntryStore(&config.SheetsConfig{Backend: "sheets", SpreadsheetName: "HealthLog"})
		require.NoError(t, err)
		assert.IsType(t, &SheetsStore{}, s)
	})
}
