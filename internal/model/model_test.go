package model_test

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"calbook/internal/model"
)

func validInput() model.Input {
	return model.Input{
		Title:      "Standup",
		Date:       "2025-08-01",
		Time:       "09:00",
		Recurrence: model.RecurrenceNone,
		Color:      "#3b82f6",
		Category:   "work",
	}
}

// TestValidate_ok accepts a complete payload.
func TestValidate_ok(t *testing.T) {
	require.NoError(t, validInput().Validate())
}

// TestValidate_requiredFields rejects payloads missing title, date,
// time, color, or category, reporting every violation at once.
func TestValidate_requiredFields(t *testing.T) {
	in := model.Input{Recurrence: model.RecurrenceNone}

	err := in.Validate()

	var verr *model.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Len(t, verr.Issues, 5)
}

// TestValidate_malformedDateTime rejects unparseable date and time.
func TestValidate_malformedDateTime(t *testing.T) {
	in := validInput()
	in.Date = "01/08/2025"
	in.Time = "25:99"

	err := in.Validate()

	var verr *model.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Contains(t, err.Error(), "yyyy-MM-dd")
	assert.Contains(t, err.Error(), "HH:mm")
}

// TestValidate_customRecurrence enforces the custom-rule invariant:
// required exactly when recurrence is custom, with a positive interval
// and a known unit.
func TestValidate_customRecurrence(t *testing.T) {
	in := validInput()
	in.Recurrence = model.RecurrenceCustom
	require.Error(t, in.Validate(), "custom without rule must fail")

	in.Custom = &model.CustomRecurrence{Interval: 0, Unit: model.UnitWeeks}
	require.Error(t, in.Validate(), "zero interval must fail")

	in.Custom = &model.CustomRecurrence{Interval: 2, Unit: "fortnights"}
	require.Error(t, in.Validate(), "unknown unit must fail")

	in.Custom = &model.CustomRecurrence{Interval: 2, Unit: model.UnitWeeks}
	require.NoError(t, in.Validate())
}

// TestValidate_endDateBeforeDate rejects an end date earlier than the
// anchor date.
func TestValidate_endDateBeforeDate(t *testing.T) {
	in := validInput()
	in.Recurrence = model.RecurrenceWeekly
	in.EndDate = "2025-07-01"

	require.Error(t, in.Validate())

	in.EndDate = "2025-08-01"
	require.NoError(t, in.Validate(), "end date equal to anchor is allowed")
}

// TestNormalize drops fields that do not apply to the recurrence kind.
func TestNormalize(t *testing.T) {
	in := validInput()
	in.Custom = &model.CustomRecurrence{Interval: 2, Unit: model.UnitDays}
	in.EndDate = "2025-09-01"

	out := in.Normalize()

	assert.Nil(t, out.Custom, "non-custom recurrence keeps no custom rule")
	assert.Empty(t, out.EndDate, "non-recurring event keeps no end date")

	in.Recurrence = model.RecurrenceWeekly
	out = in.Normalize()
	assert.Equal(t, "2025-09-01", out.EndDate)
}

// TestOccurrenceAt verifies anchor occurrences keep the base id while
// later ones get the synthesized "<id>-<date>" form, with BaseID set on
// both.
func TestOccurrenceAt(t *testing.T) {
	base := validInput().Event("1")

	anchor := base.OccurrenceAt("2025-08-01")
	assert.Equal(t, "1", anchor.ID)
	assert.Equal(t, "1", anchor.BaseID)

	later := base.OccurrenceAt("2025-08-08")
	assert.Equal(t, "1-2025-08-08", later.ID)
	assert.Equal(t, "1", later.BaseID)
	assert.Equal(t, base.Title, later.Title)
	assert.Equal(t, base.Time, later.Time)
}

// TestBaseIDOf strips only a well-formed trailing date suffix, so both
// simple ids and UUIDs (which contain '-') resolve to their base.
func TestBaseIDOf(t *testing.T) {
	assert.Equal(t, "1", model.BaseIDOf("1-2025-08-08"))
	assert.Equal(t, "1", model.BaseIDOf("1"))
	assert.Equal(t, "2025-08-08", model.BaseIDOf("2025-08-08"), "bare date is not an occurrence id")

	id := uuid.NewString()
	assert.Equal(t, id, model.BaseIDOf(id), "uuid without suffix is untouched")
	assert.Equal(t, id, model.BaseIDOf(model.OccurrenceID(id, "2025-08-08")))
}

// TestPatch_Apply merges only the fields the patch carries.
func TestPatch_Apply(t *testing.T) {
	base := validInput().Event("1")
	title := "Renamed"
	date := "2025-09-15"

	got := model.Patch{Title: &title, Date: &date}.Apply(base)

	assert.Equal(t, "Renamed", got.Title)
	assert.Equal(t, "2025-09-15", got.Date)
	assert.Equal(t, base.Time, got.Time)
	assert.Equal(t, base.Color, got.Color)
	assert.Equal(t, base.ID, got.ID)
}
