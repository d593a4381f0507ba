package expand

import (
	"errors"
	"time"

	appLog "calbook/internal/log"
	"calbook/internal/model"
)

const (
	// DefaultHorizonMonths bounds recurrence expansion for events that
	// carry no explicit end date: anchor date + 12 months, exclusive.
	DefaultHorizonMonths = 12

	defaultMaxOccurrencesPerEvent = 5000
)

// Config controls how recurrence expansion is performed.
type Config struct {
	// HorizonMonths is the default expansion horizon, in months past the
	// anchor date, applied when the event has no end date. If zero,
	// DefaultHorizonMonths is used.
	HorizonMonths int

	// MaxOccurrencesPerEvent is a safety cap to avoid extremely large
	// expansions from tiny custom intervals over a wide horizon. If
	// zero, defaultMaxOccurrencesPerEvent is used.
	MaxOccurrencesPerEvent int
}

func (cfg Config) withDefaults() Config {
	if cfg.HorizonMonths <= 0 {
		cfg.HorizonMonths = DefaultHorizonMonths
	}
	if cfg.MaxOccurrencesPerEvent <= 0 {
		cfg.MaxOccurrencesPerEvent = defaultMaxOccurrencesPerEvent
	}
	return cfg
}

// Expand produces every concrete occurrence of one base event, in
// increasing date order, starting with the anchor occurrence itself.
//
// The upper bound is strict: the horizon date (EndDate when present,
// anchor + HorizonMonths otherwise) is never emitted. Expansion is a
// pure function of the event and the config; it never consults the
// wall clock.
func Expand(base model.BaseEvent, cfg Config) []model.Occurrence {
	if base.Recurrence == model.RecurrenceNone {
		return []model.Occurrence{base.OccurrenceAt(base.Date)}
	}

	cfg = cfg.withDefaults()

	anchor, err := model.ParseDate(base.Date)
	if err != nil {
		// A stored event always has a valid date; tolerate a corrupt one
		// by treating it as non-recurring rather than dropping it.
		appLog.Error("expand: unparseable anchor date", err, "id", base.ID, "date", base.Date)
		return []model.Occurrence{base.OccurrenceAt(base.Date)}
	}

	end := addMonths(anchor, cfg.HorizonMonths)
	if base.EndDate != "" {
		if parsed, perr := model.ParseDate(base.EndDate); perr == nil {
			end = parsed
		} else {
			appLog.Error("expand: unparseable end date, using default horizon", perr,
				"id", base.ID, "end_date", base.EndDate)
		}
	}

	occs := []model.Occurrence{base.OccurrenceAt(base.Date)}

	for current := anchor; current.Before(end); {
		next := step(current, base)
		if !next.Before(end) {
			break
		}
		occs = append(occs, base.OccurrenceAt(model.FormatDate(next)))
		current = next

		if len(occs) >= cfg.MaxOccurrencesPerEvent {
			appLog.Warn("expand: occurrence cap reached",
				"id", base.ID, "cap", cfg.MaxOccurrencesPerEvent)
			break
		}
	}

	return occs
}

// Aggregate expands every base event and concatenates the results,
// preserving store order between events and date order within each.
// No de-duplication happens: coinciding events all appear.
func Aggregate(bases []model.BaseEvent, cfg Config) []model.Occurrence {
	all := make([]model.Occurrence, 0, len(bases))
	for _, b := range bases {
		all = append(all, Expand(b, cfg)...)
	}
	return all
}

// step computes the next occurrence date after current per the event's
// recurrence rule.
func step(current time.Time, base model.BaseEvent) time.Time {
	switch base.Recurrence {
	case model.RecurrenceDaily:
		return current.AddDate(0, 0, 1)
	case model.RecurrenceWeekly:
		return current.AddDate(0, 0, 7)
	case model.RecurrenceMonthly:
		return addMonths(current, 1)
	case model.RecurrenceCustom:
		if base.Custom == nil {
			// Should be unreachable for validated events.
			appLog.Error("expand: custom recurrence without rule", errors.New("missing customRecurrence"),
				"id", base.ID)
			return current.AddDate(0, 0, 1)
		}
		switch base.Custom.Unit {
		case model.UnitDays:
			return current.AddDate(0, 0, base.Custom.Interval)
		case model.UnitWeeks:
			return current.AddDate(0, 0, 7*base.Custom.Interval)
		case model.UnitMonths:
			return addMonths(current, base.Custom.Interval)
		default:
			return current.AddDate(0, 0, 1)
		}
	default:
		return current.AddDate(0, 0, 1)
	}
}

// addMonths advances by whole calendar months, clamping the day of
// month to the last valid day of the target month (Jan 31 + 1 month is
// Feb 28, not Mar 3). time.AddDate normalizes overflow instead, which
// is the wrong behavior for calendar recurrence.
func addMonths(t time.Time, n int) time.Time {
	first := time.Date(t.Year(), t.Month()+time.Month(n), 1, 0, 0, 0, 0, t.Location())
	day := t.Day()
	if last := first.AddDate(0, 1, -1).Day(); day > last {
		day = last
	}
	return time.Date(first.Year(), first.Month(), day, 0, 0, 0, 0, t.Location())
}
