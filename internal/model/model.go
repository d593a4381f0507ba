package model

import (
	"strings"
	"time"
)

// Date and time-of-day layouts used across the whole application.
// All dates are local calendar days; no timezone math is performed.
const (
	DateLayout = "2006-01-02"
	TimeLayout = "15:04"
)

// Recurrence describes how often a base event repeats.
type Recurrence string

const (
	RecurrenceNone    Recurrence = "none"
	RecurrenceDaily   Recurrence = "daily"
	RecurrenceWeekly  Recurrence = "weekly"
	RecurrenceMonthly Recurrence = "monthly"
	RecurrenceCustom  Recurrence = "custom"
)

// Valid reports whether r is one of the five known recurrence kinds.
func (r Recurrence) Valid() bool {
	switch r {
	case RecurrenceNone, RecurrenceDaily, RecurrenceWeekly, RecurrenceMonthly, RecurrenceCustom:
		return true
	}
	return false
}

// RecurrenceUnit is the step unit of a custom recurrence rule.
type RecurrenceUnit string

const (
	UnitDays   RecurrenceUnit = "days"
	UnitWeeks  RecurrenceUnit = "weeks"
	UnitMonths RecurrenceUnit = "months"
)

func (u RecurrenceUnit) Valid() bool {
	switch u {
	case UnitDays, UnitWeeks, UnitMonths:
		return true
	}
	return false
}

// CustomRecurrence holds the interval rule for Recurrence == "custom".
type CustomRecurrence struct {
	Interval int            `json:"interval" yaml:"interval"`
	Unit     RecurrenceUnit `json:"unit" yaml:"unit"`
}

// BaseEvent is the stored, user-authored event record that anchors a
// recurrence rule. The Event Store is the sole owner of BaseEvents;
// everything else sees derived Occurrence values.
type BaseEvent struct {
	ID          string            `json:"id"`
	Title       string            `json:"title"`
	Date        string            `json:"date"` // anchor date, yyyy-MM-dd
	Time        string            `json:"time"` // time of day, HH:mm
	Description string            `json:"description"`
	Recurrence  Recurrence        `json:"recurrence"`
	Custom      *CustomRecurrence `json:"customRecurrence,omitempty"`
	EndDate     string            `json:"endDate,omitempty"` // exclusive recurrence bound
	Color       string            `json:"color"`
	Category    string            `json:"category,omitempty"`
}

// Occurrence is one concrete calendar-date instance derived from a base
// event via recurrence expansion. Occurrences are never persisted; they
// are recomputed on every read.
//
// BaseID always names the owning BaseEvent, so callers never have to
// parse it back out of ID.
type Occurrence struct {
	ID          string
	BaseID      string
	Title       string
	Date        string
	Time        string
	Description string
	Recurrence  Recurrence
	Custom      *CustomRecurrence
	EndDate     string
	Color       string
	Category    string
}

// OccurrenceAt projects b onto a single concrete date. The anchor
// occurrence (date == b.Date) keeps the base event's own id; every
// later occurrence gets a synthesized "<id>-<date>" id.
func (b BaseEvent) OccurrenceAt(date string) Occurrence {
	id := b.ID
	if date != b.Date {
		id = OccurrenceID(b.ID, date)
	}
	return Occurrence{
		ID:          id,
		BaseID:      b.ID,
		Title:       b.Title,
		Date:        date,
		Time:        b.Time,
		Description: b.Description,
		Recurrence:  b.Recurrence,
		Custom:      b.Custom,
		EndDate:     b.EndDate,
		Color:       b.Color,
		Category:    b.Category,
	}
}

// OccurrenceID synthesizes the identifier of a generated occurrence.
func OccurrenceID(baseID, date string) string {
	return baseID + "-" + date
}

// BaseIDOf recovers the owning base-event id from an occurrence id.
// Generated ids end in "-yyyy-MM-dd"; only a well-formed date suffix is
// stripped, so base ids that themselves contain '-' (UUIDs) resolve
// correctly.
func BaseIDOf(id string) string {
	const suffixLen = 1 + len(DateLayout) // "-" + date
	if len(id) <= suffixLen {
		return id
	}
	cut := len(id) - suffixLen
	if id[cut] != '-' {
		return id
	}
	if _, err := ParseDate(id[cut+1:]); err != nil {
		return id
	}
	return id[:cut]
}

// ParseDate parses a yyyy-MM-dd calendar date in the local location.
func ParseDate(s string) (time.Time, error) {
	return time.ParseInLocation(DateLayout, s, time.Local)
}

// FormatDate renders t as a yyyy-MM-dd calendar date.
func FormatDate(t time.Time) string {
	return t.Format(DateLayout)
}

// ParseTime parses an HH:mm time of day.
func ParseTime(s string) (time.Time, error) {
	return time.Parse(TimeLayout, s)
}

// MatchesSearch reports whether the occurrence matches a free-text
// search term with a case-insensitive substring test over title and
// description. An empty term matches everything.
func (o Occurrence) MatchesSearch(term string) bool {
	if term == "" {
		return true
	}
	term = strings.ToLower(term)
	return strings.Contains(strings.ToLower(o.Title), term) ||
		strings.Contains(strings.ToLower(o.Description), term)
}
