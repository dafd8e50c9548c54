// Package domain defines the persistence model for contact-form submissions.
// The same type is written to the JSON backup file and, when a relational
// backend is reachable, mapped with GORM to the submissions table.
package domain

import (
	"strings"
	"time"
)

// TimestampLayout is the ISO-8601 layout used for server-assigned timestamps:
// UTC with millisecond precision and a literal Z suffix.
const TimestampLayout = "2006-01-02T15:04:05.000Z"

// Submission is one contact-form entry.
//
// Fields:
//   - ID: auto-increment identity assigned by the relational store only; the
//     JSON backup never carries it.
//   - Name, Email, Message: free text as submitted, possibly empty.
//   - Timestamp: ISO-8601 string, supplied by the caller or filled by the server.
type Submission struct {
	ID        uint   `json:"id,omitempty" gorm:"primaryKey;autoIncrement"`
	Name      string `json:"name"         gorm:"type:text"`
	Email     string `json:"email"        gorm:"type:text"`
	Message   string `json:"message"      gorm:"type:text"`
	Timestamp string `json:"timestamp"    gorm:"type:text"`
}

// TableName returns the database table name for Submission.
func (Submission) TableName() string { return "submissions" }

// HasTimestamp reports whether the caller supplied a non-blank timestamp.
func (s Submission) HasTimestamp() bool { return strings.TrimSpace(s.Timestamp) != "" }

// WithTimestamp returns a copy of s whose Timestamp is set to now when blank.
func (s Submission) WithTimestamp(now time.Time) Submission {
	if !s.HasTimestamp() {
		s.Timestamp = FormatTimestamp(now)
	}
	return s
}

// FormatTimestamp renders t in TimestampLayout.
func FormatTimestamp(t time.Time) string { return t.UTC().Format(TimestampLayout) }
