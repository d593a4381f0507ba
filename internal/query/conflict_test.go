package query_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"calbook/internal/model"
	"calbook/internal/query"
)

// TestFindConflicts_sameSlot covers two events sharing a date and time:
// each conflicts with the other, in both directions.
func TestFindConflicts_sameSlot(t *testing.T) {
	a := occ("1", "2025-08-05", "10:00", "A", "work")
	b := occ("2", "2025-08-05", "10:00", "B", "work")
	bucket := []model.Occurrence{a, b}

	got := query.FindConflicts(a, bucket, "")
	require.Len(t, got, 1)
	assert.Equal(t, "2", got[0].ID)

	got = query.FindConflicts(b, bucket, "")
	require.Len(t, got, 1)
	assert.Equal(t, "1", got[0].ID)
}

// TestFindConflicts_differentTime verifies that occurrences at another
// time of day never conflict.
func TestFindConflicts_differentTime(t *testing.T) {
	a := occ("1", "2025-08-05", "10:00", "A", "work")
	b := occ("2", "2025-08-05", "11:00", "B", "work")

	assert.Empty(t, query.FindConflicts(a, []model.Occurrence{a, b}, ""))
}

// TestFindConflicts_excludeSelf verifies the candidate never conflicts
// with itself.
func TestFindConflicts_excludeSelf(t *testing.T) {
	a := occ("1", "2025-08-05", "10:00", "A", "work")

	assert.Empty(t, query.FindConflicts(a, []model.Occurrence{a}, ""))
}

// TestFindConflicts_excludeID verifies an edit in progress can ignore
// collisions against the event being edited.
func TestFindConflicts_excludeID(t *testing.T) {
	edited := occ("1", "2025-08-05", "10:00", "Edited", "work")
	other := occ("2", "2025-08-05", "10:00", "Other", "work")
	candidate := occ("draft", "2025-08-05", "10:00", "Draft", "work")

	got := query.FindConflicts(candidate, []model.Occurrence{edited, other}, "1")

	require.Len(t, got, 1)
	assert.Equal(t, "2", got[0].ID)
}
