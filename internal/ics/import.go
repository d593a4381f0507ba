package ics

import (
	"errors"
	"io"
	"time"

	ical "github.com/arran4/golang-ical"
	"github.com/teambition/rrule-go"

	appLog "calbook/internal/log"
	"calbook/internal/model"
)

// Import parses a VCALENDAR payload into create payloads, one per
// usable VEVENT. Events the model cannot represent are degraded rather
// than dropped where possible: an unsupported RRULE imports as a
// non-recurring event with a warning. Events without a summary or a
// parseable DTSTART are skipped.
//
// Ids are not taken from the payload; the mutation gateway assigns
// fresh ones on create.
func Import(r io.Reader, defaultColor, defaultCategory string) ([]model.Input, error) {
	cal, err := ical.ParseCalendar(r)
	if err != nil {
		return nil, err
	}

	inputs := make([]model.Input, 0)

	for _, ve := range cal.Events() {
		in, ok := importVEvent(ve, defaultColor, defaultCategory)
		if !ok {
			continue
		}
		inputs = append(inputs, in)
	}

	appLog.Info("ics import parsed", "event_count", len(inputs))
	return inputs, nil
}

func importVEvent(ve *ical.VEvent, defaultColor, defaultCategory string) (model.Input, bool) {
	var in model.Input

	uid := ""
	if p := ve.GetProperty(ical.ComponentPropertyUniqueId); p != nil {
		uid = p.Value
	}

	if p := ve.GetProperty(ical.ComponentPropertySummary); p != nil {
		in.Title = p.Value
	}
	if in.Title == "" {
		appLog.Warn("ics import: skipping event without summary", "uid", uid)
		return in, false
	}

	start, err := ve.GetStartAt()
	if err != nil {
		appLog.Warn("ics import: skipping event without usable DTSTART", "uid", uid, "parse_err", err)
		return in, false
	}
	local := start.In(time.Local)
	in.Date = model.FormatDate(local)
	in.Time = local.Format(model.TimeLayout)

	if p := ve.GetProperty(ical.ComponentPropertyDescription); p != nil {
		in.Description = p.Value
	}

	in.Recurrence = model.RecurrenceNone
	if p := ve.GetProperty(ical.ComponentPropertyRrule); p != nil {
		rec, custom, endDate, rerr := recurrenceFrom(p.Value)
		if rerr != nil {
			appLog.Warn("ics import: unsupported RRULE, importing as non-recurring",
				"uid", uid, "rrule", p.Value, "reason", rerr)
		} else {
			in.Recurrence = rec
			in.Custom = custom
			in.EndDate = endDate
		}
	}

	in.Category = defaultCategory
	if p := ve.GetProperty(ical.ComponentPropertyCategories); p != nil && p.Value != "" {
		in.Category = p.Value
	}

	in.Color = defaultColor
	if p := ve.GetProperty(ical.ComponentProperty(propColor)); p != nil && p.Value != "" {
		in.Color = p.Value
	}

	return in, true
}

// recurrenceFrom maps an RRULE value onto the model's recurrence enum.
// Interval 1 maps to the plain daily/weekly/monthly kinds; a larger
// interval becomes a custom rule. An inclusive UNTIL becomes the
// exclusive end date (UNTIL plus one day), mirroring Export.
func recurrenceFrom(raw string) (model.Recurrence, *model.CustomRecurrence, string, error) {
	opt, err := rrule.StrToROption(raw)
	if err != nil {
		return model.RecurrenceNone, nil, "", err
	}

	var unit model.RecurrenceUnit
	var plain model.Recurrence
	switch opt.Freq {
	case rrule.DAILY:
		unit, plain = model.UnitDays, model.RecurrenceDaily
	case rrule.WEEKLY:
		unit, plain = model.UnitWeeks, model.RecurrenceWeekly
	case rrule.MONTHLY:
		unit, plain = model.UnitMonths, model.RecurrenceMonthly
	default:
		return model.RecurrenceNone, nil, "", errors.New("frequency not representable")
	}

	endDate := ""
	if !opt.Until.IsZero() {
		endDate = model.FormatDate(opt.Until.In(time.Local).AddDate(0, 0, 1))
	}

	if opt.Interval > 1 {
		return model.RecurrenceCustom, &model.CustomRecurrence{Interval: opt.Interval, Unit: unit}, endDate, nil
	}
	return plain, nil, endDate, nil
}
