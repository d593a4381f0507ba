package query

import (
	"time"

	"calbook/internal/expand"
	"calbook/internal/model"
)

// CategoryAll is the category filter value that matches every event.
const CategoryAll = "all"

// OnDate returns the occurrences falling on one calendar date, in the
// order they appear in the aggregate.
func OnDate(occs []model.Occurrence, date string) []model.Occurrence {
	out := make([]model.Occurrence, 0)
	for _, o := range occs {
		if o.Date == date {
			out = append(out, o)
		}
	}
	return out
}

// Filter keeps the occurrences matching both predicates: a free-text
// search over title and description, and a category equality check.
// An empty search term passes everything; an empty or "all" category
// does too.
func Filter(occs []model.Occurrence, searchTerm, category string) []model.Occurrence {
	out := make([]model.Occurrence, 0, len(occs))
	for _, o := range occs {
		if !o.MatchesSearch(searchTerm) {
			continue
		}
		if category != "" && category != CategoryAll && o.Category != category {
			continue
		}
		out = append(out, o)
	}
	return out
}

// Window is an inclusive range of calendar dates, the read-side unit
// the presentation layer asks for.
type Window struct {
	Start time.Time
	End   time.Time
}

// Contains reports whether date d falls inside the window.
func (w Window) Contains(d time.Time) bool {
	return !d.Before(w.Start) && !d.After(w.End)
}

// Day is the single-date window around d.
func Day(d time.Time) Window {
	d = truncate(d)
	return Window{Start: d, End: d}
}

// Week is the seven-day window containing d. weekStartsMonday selects
// between Monday-first and Sunday-first week layouts.
func Week(d time.Time, weekStartsMonday bool) Window {
	d = truncate(d)
	offset := int(d.Weekday()) // days since Sunday
	if weekStartsMonday {
		offset = (offset + 6) % 7 // days since Monday
	}
	start := d.AddDate(0, 0, -offset)
	return Window{Start: start, End: start.AddDate(0, 0, 6)}
}

// Month is the calendar-month window containing d.
func Month(d time.Time) Window {
	start := time.Date(d.Year(), d.Month(), 1, 0, 0, 0, 0, d.Location())
	return Window{Start: start, End: start.AddDate(0, 1, -1)}
}

// InWindow returns the occurrences whose date falls inside w, dropping
// any with an unparseable date. Order is preserved.
func InWindow(occs []model.Occurrence, w Window) []model.Occurrence {
	out := make([]model.Occurrence, 0)
	for _, o := range occs {
		d, err := model.ParseDate(o.Date)
		if err != nil {
			continue
		}
		if w.Contains(d) {
			out = append(out, o)
		}
	}
	return out
}

// ForWindow is the read-side entry point for the presentation layer:
// expand every base event, restrict to the requested window, then apply
// the search and category filters. The caller never expands recurrence
// itself.
func ForWindow(bases []model.BaseEvent, w Window, searchTerm, category string, cfg expand.Config) []model.Occurrence {
	return Filter(InWindow(expand.Aggregate(bases, cfg), w), searchTerm, category)
}

func truncate(d time.Time) time.Time {
	return time.Date(d.Year(), d.Month(), d.Day(), 0, 0, 0, 0, d.Location())
}
