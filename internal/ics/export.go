package ics

import (
	"fmt"
	"io"
	"time"

	ical "github.com/arran4/golang-ical"
	"github.com/teambition/rrule-go"

	"calbook/internal/model"
)

// Export serializes the given base events as a VCALENDAR. One VEVENT is
// written per base event; recurrence is carried as an RRULE, never as
// pre-expanded instances.
//
// The store's end date is an exclusive bound while iCalendar UNTIL is
// inclusive, so UNTIL is written as endDate minus one day. Import
// reverses the shift, keeping round-trips field-for-field stable.
func Export(w io.Writer, events []model.BaseEvent) error {
	cal := ical.NewCalendar()
	cal.SetMethod(ical.MethodPublish)
	cal.SetProductId("-//calbook//calendar//EN")

	for _, ev := range events {
		start, err := eventStart(ev)
		if err != nil {
			return fmt.Errorf("ics: event %s: %w", ev.ID, err)
		}

		ve := cal.AddEvent(ev.ID)
		ve.SetSummary(ev.Title)
		if ev.Description != "" {
			ve.SetDescription(ev.Description)
		}
		ve.SetStartAt(start)
		if ev.Category != "" {
			ve.SetProperty(ical.ComponentPropertyCategories, ev.Category)
		}
		if ev.Color != "" {
			ve.SetProperty(ical.ComponentProperty(propColor), ev.Color)
		}

		rule, err := rruleFor(ev, start)
		if err != nil {
			return fmt.Errorf("ics: event %s: %w", ev.ID, err)
		}
		if rule != "" {
			ve.SetProperty(ical.ComponentPropertyRrule, rule)
		}
	}

	return cal.SerializeTo(w)
}

// propColor is the RFC 7986 COLOR property name.
const propColor = "COLOR"

// eventStart combines the event's date and time-of-day into a local
// timestamp for DTSTART.
func eventStart(ev model.BaseEvent) (time.Time, error) {
	day, err := model.ParseDate(ev.Date)
	if err != nil {
		return time.Time{}, fmt.Errorf("bad date %q: %w", ev.Date, err)
	}
	tod, err := model.ParseTime(ev.Time)
	if err != nil {
		return time.Time{}, fmt.Errorf("bad time %q: %w", ev.Time, err)
	}
	return time.Date(day.Year(), day.Month(), day.Day(), tod.Hour(), tod.Minute(), 0, 0, time.Local), nil
}

// rruleFor renders the event's recurrence as an RRULE value, or "" for
// a non-recurring event.
func rruleFor(ev model.BaseEvent, start time.Time) (string, error) {
	opt := rrule.ROption{Dtstart: start, Interval: 1}

	switch ev.Recurrence {
	case model.RecurrenceNone:
		return "", nil
	case model.RecurrenceDaily:
		opt.Freq = rrule.DAILY
	case model.RecurrenceWeekly:
		opt.Freq = rrule.WEEKLY
	case model.RecurrenceMonthly:
		opt.Freq = rrule.MONTHLY
	case model.RecurrenceCustom:
		if ev.Custom == nil {
			return "", fmt.Errorf("custom recurrence without rule")
		}
		opt.Interval = ev.Custom.Interval
		switch ev.Custom.Unit {
		case model.UnitDays:
			opt.Freq = rrule.DAILY
		case model.UnitWeeks:
			opt.Freq = rrule.WEEKLY
		case model.UnitMonths:
			opt.Freq = rrule.MONTHLY
		default:
			return "", fmt.Errorf("unknown recurrence unit %q", ev.Custom.Unit)
		}
	default:
		return "", fmt.Errorf("unknown recurrence %q", ev.Recurrence)
	}

	if ev.EndDate != "" {
		end, err := model.ParseDate(ev.EndDate)
		if err != nil {
			return "", fmt.Errorf("bad end date %q: %w", ev.EndDate, err)
		}
		// Exclusive bound -> inclusive UNTIL.
		opt.Until = end.AddDate(0, 0, -1)
	}

	r, err := rrule.NewRRule(opt)
	if err != nil {
		return "", fmt.Errorf("building RRULE: %w", err)
	}
	return r.OrigOptions.RRuleString(), nil
}
