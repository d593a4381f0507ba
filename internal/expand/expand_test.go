package expand_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"calbook/internal/expand"
	"calbook/internal/model"
)

func weeklyFixture() model.BaseEvent {
	return model.BaseEvent{
		ID:         "1",
		Title:      "Standup",
		Date:       "2025-08-01",
		Time:       "09:00",
		Recurrence: model.RecurrenceWeekly,
		EndDate:    "2025-08-22",
		Color:      "#3b82f6",
		Category:   "work",
	}
}

func dates(occs []model.Occurrence) []string {
	out := make([]string, len(occs))
	for i, o := range occs {
		out[i] = o.Date
	}
	return out
}

// TestExpand_none verifies that a non-recurring event expands to exactly
// one occurrence identical to its anchor.
func TestExpand_none(t *testing.T) {
	base := weeklyFixture()
	base.Recurrence = model.RecurrenceNone
	base.EndDate = ""

	occs := expand.Expand(base, expand.Config{})

	require.Len(t, occs, 1)
	assert.Equal(t, base.ID, occs[0].ID)
	assert.Equal(t, base.ID, occs[0].BaseID)
	assert.Equal(t, base.Date, occs[0].Date)
	assert.Equal(t, base.Title, occs[0].Title)
	assert.Equal(t, base.Time, occs[0].Time)
}

// TestExpand_weeklyStrictBound expands a weekly event bounded by an end
// date and verifies the bound is exclusive: the end date itself is
// never emitted.
func TestExpand_weeklyStrictBound(t *testing.T) {
	occs := expand.Expand(weeklyFixture(), expand.Config{})

	assert.Equal(t, []string{"2025-08-01", "2025-08-08", "2025-08-15"}, dates(occs))
}

// TestExpand_anchorFirst verifies the anchor occurrence leads the
// sequence and keeps the base event's own id, while generated ones get
// a "<id>-<date>" id and carry the base id explicitly.
func TestExpand_anchorFirst(t *testing.T) {
	occs := expand.Expand(weeklyFixture(), expand.Config{})

	require.NotEmpty(t, occs)
	assert.Equal(t, "1", occs[0].ID)
	assert.Equal(t, "2025-08-01", occs[0].Date)
	for i, o := range occs {
		assert.Equal(t, "1", o.BaseID)
		if i > 0 {
			assert.Equal(t, model.OccurrenceID("1", o.Date), o.ID)
		}
	}
}

// TestExpand_monthlyDefaultHorizon expands a monthly event with no end
// date across the default 12-month horizon: one occurrence per month,
// the last strictly before the horizon date.
func TestExpand_monthlyDefaultHorizon(t *testing.T) {
	base := weeklyFixture()
	base.ID = "2"
	base.Recurrence = model.RecurrenceMonthly
	base.EndDate = ""

	occs := expand.Expand(base, expand.Config{})

	require.Len(t, occs, 12)
	assert.Equal(t, "2025-08-01", occs[0].Date)
	assert.Equal(t, "2026-07-01", occs[11].Date)
	for _, o := range occs {
		assert.Less(t, o.Date, "2026-08-01")
	}
}

// TestExpand_customBiweekly checks a custom every-2-weeks rule.
func TestExpand_customBiweekly(t *testing.T) {
	base := weeklyFixture()
	base.Recurrence = model.RecurrenceCustom
	base.Custom = &model.CustomRecurrence{Interval: 2, Unit: model.UnitWeeks}
	base.EndDate = ""

	occs := expand.Expand(base, expand.Config{})

	require.GreaterOrEqual(t, len(occs), 3)
	assert.Equal(t, []string{"2025-08-01", "2025-08-15", "2025-08-29"}, dates(occs)[:3])
}

// TestExpand_customMissingRule falls back to daily stepping when a
// custom event somehow lost its interval rule.
func TestExpand_customMissingRule(t *testing.T) {
	base := weeklyFixture()
	base.Recurrence = model.RecurrenceCustom
	base.Custom = nil
	base.EndDate = "2025-08-04"

	occs := expand.Expand(base, expand.Config{})

	assert.Equal(t, []string{"2025-08-01", "2025-08-02", "2025-08-03"}, dates(occs))
}

// TestExpand_dailyBound covers daily stepping against a tight bound.
func TestExpand_dailyBound(t *testing.T) {
	base := weeklyFixture()
	base.Recurrence = model.RecurrenceDaily
	base.EndDate = "2025-08-03"

	occs := expand.Expand(base, expand.Config{})

	assert.Equal(t, []string{"2025-08-01", "2025-08-02"}, dates(occs))
}

// TestExpand_endDateEqualsAnchor yields only the anchor: the bound is
// exclusive even when it coincides with the anchor date.
func TestExpand_endDateEqualsAnchor(t *testing.T) {
	base := weeklyFixture()
	base.EndDate = "2025-08-01"

	occs := expand.Expand(base, expand.Config{})

	assert.Equal(t, []string{"2025-08-01"}, dates(occs))
}

// TestExpand_monthlyClampsDayOfMonth checks end-of-month behavior: a
// monthly event anchored on the 31st lands on the last day of shorter
// months instead of spilling into the next one.
func TestExpand_monthlyClampsDayOfMonth(t *testing.T) {
	base := weeklyFixture()
	base.Date = "2025-01-31"
	base.Recurrence = model.RecurrenceMonthly
	base.EndDate = "2025-04-01"

	occs := expand.Expand(base, expand.Config{})

	assert.Equal(t, []string{"2025-01-31", "2025-02-28", "2025-03-28"}, dates(occs))
}

// TestExpand_capStopsRunaway verifies the per-event safety cap.
func TestExpand_capStopsRunaway(t *testing.T) {
	base := weeklyFixture()
	base.Recurrence = model.RecurrenceDaily
	base.EndDate = ""

	occs := expand.Expand(base, expand.Config{MaxOccurrencesPerEvent: 10})

	assert.Len(t, occs, 10)
}

// TestAggregate_orderAndIdempotence verifies the aggregate preserves
// store order, performs no de-duplication, and is identical across
// repeated calls on unchanged input.
func TestAggregate_orderAndIdempotence(t *testing.T) {
	a := weeklyFixture()
	b := weeklyFixture() // same dates on purpose; both must appear
	b.ID = "2"
	bases := []model.BaseEvent{a, b}

	first := expand.Aggregate(bases, expand.Config{})
	second := expand.Aggregate(bases, expand.Config{})

	require.Len(t, first, 6)
	assert.Equal(t, "1", first[0].BaseID)
	assert.Equal(t, "2", first[3].BaseID)
	assert.Equal(t, first, second)
}

// TestExpand_horizonOverride verifies a shorter configured horizon.
func TestExpand_horizonOverride(t *testing.T) {
	base := weeklyFixture()
	base.Recurrence = model.RecurrenceMonthly
	base.EndDate = ""

	occs := expand.Expand(base, expand.Config{HorizonMonths: 3})

	assert.Equal(t, []string{"2025-08-01", "2025-09-01", "2025-10-01"}, dates(occs))
}
