package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewEntry(t *testing.T) {
	now := time.Date(2025, 6, 14, 21, 30, 5, 0, time.Local)

	entry := NewEntry(now, "  Headache all day, urgency 7  ", 7)

	assert.Equal(t, "2025-06-14", entry.Date)
	assert.Equal(t, "21:30:05", entry.Time)
	assert.Equal(t, "Headache all day, urgency 7", entry.Body)
	assert.Equal(t, 7, entry.Urgency)
}

func TestEntryRow(t *testing.T) {
	entry := &Entry{Date: "2025-06-14", Time: "21:30:05", Body: "headache", Urgency: 7}

	row := entry.Row()
	require.Len(t, row, EntryColumns)
	assert.Equal(t, "2025-06-14", row[0])
	assert.Equal(t, "21:30:05", row[1])
	assert.Equal(t, "headache", row[2])
	assert.Equal(t, 7, row[3])
}

func TestEntryFromRow(t *testing.T) {
	t.Run("full row round-trips", func(t *testing.T) {
		entry := EntryFromRow([]interface{}{"2025-06-14", "21:30:05", "headache", "7"})

		assert.Equal(t, "2025-06-14", entry.Date)
		assert.Equal(t, "21:30:05", entry.Time)
		assert.Equal(t, "headache", entry.Body)
		assert.Equal(t, 7, entry.Urgency)
	})

	t.Run("short row decodes partially", func(t *testing.T) {
		entry := EntryFromRow([]interface{}{"2025-06-14", "21:30:05"})

		assert.Equal(t, "2025-06-14", entry.Date)
		assert.Equal(t, "21:30:05", entry.Time)
		assert.Empty(t, entry.Body)
		assert.Zero(t, entry.Urgency)
	})

	t.Run("empty row decodes to zero values", func(t *testing.T) {
		entry := EntryFromRow(nil)
		assert.Equal(t, &Entry{}, entry)
	})

	t.Run("non-numeric urgency decodes to zero", func(t *testing.T) {
		entry := EntryFromRow([]interface{}{"2025-06-14", "21:30:05", "x", "severe"})
		assert.Zero(t, entry.Urgency)
	})

	t.Run("whitespace in cells is trimmed", func(t *testing.T) {
		entry := EntryFromRow([]interface{}{" 2025-06-14 ", "21:30:05", " headache ", " 7 "})
		assert.Equal(t, "2025-06-14", entry.Date)
		assert.Equal(t, "headache", entry.Body)
		assert.Equal(t, 7, entry.Urgency)
	})

	t.Run("non-string cells are stringified", func(t *testing.T) {
		entry := EntryFromRow([]interface{}{"2025-06-14", "21:30:05", "x", 7})
		assert.Equal(t, 7, entry.Urgency)
	})
}
