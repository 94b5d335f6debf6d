package models

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Spreadsheet cell layouts for entry timestamps
const (
	DateLayout = "2006-01-02"
	TimeLayout = "15:04:05"
)

// EntryColumns is the number of cells in a health log row
const EntryColumns = 4

// Entry represents a single health log entry as stored in the spreadsheet:
// one row of [date, time, body, urgency]. Entries are immutable once
// appended.
type Entry struct {
	Date    string `json:"date"`
	Time    string `json:"time"`
	Body    string `json:"body"`
	Urgency int    `json:"urgency"`
}

// NewEntry builds an entry from the message body and a parsed urgency,
// timestamped with the given local time.
func NewEntry(now time.Time, body string, urgency int) *Entry {
	return &Entry{
		Date:    now.Format(DateLayout),
		Time:    now.Format(TimeLayout),
		Body:    strings.TrimSpace(body),
		Urgency: urgency,
	}
}

// Row encodes the entry as a spreadsheet row
func (e *Entry) Row() []interface{} {
	return []interface{}{e.Date, e.Time, e.Body, e.Urgency}
}

// EntryFromRow decodes a spreadsheet row into an entry. Rows written by
// other tools may be short or carry a non-numeric urgency cell; those
// decode to zero values rather than failing a whole summary.
func EntryFromRow(row []interface{}) *Entry {
	entry := &Entry{}
	if len(row) > 0 {
		entry.Date = cellString(row[0])
	}
	if len(row) > 1 {
		entry.Time = cellString(row[1])
	}
	if len(row) > 2 {
		entry.Body = cellString(row[2])
	}
	if len(row) > 3 {
		if urgency, err := strconv.Atoi(cellString(row[3])); err == nil {
			entry.Urgency = urgency
		}
	}
	return entry
}

func cellString(cell interface{}) string {
	if s, ok := cell.(string); ok {
		return strings.TrimSpace(s)
	}
	return strings.TrimSpace(fmt.Sprint(cell))
}
