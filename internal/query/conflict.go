package query

import "calbook/internal/model"

// FindConflicts returns the occurrences from sameDate that collide with
// the candidate: same time of day, different id, and not the event
// being edited (excludeID). sameDate must already be restricted to the
// candidate's date; use OnDate over a fresh aggregate before calling.
//
// A non-empty result is not an error. The caller decides whether to
// block the pending save or proceed anyway.
func FindConflicts(candidate model.Occurrence, sameDate []model.Occurrence, excludeID string) []model.Occurrence {
	conflicts := make([]model.Occurrence, 0)
	for _, e := range sameDate {
		if e.Time != candidate.Time {
			continue
		}
		if e.ID == candidate.ID {
			continue
		}
		if excludeID != "" && e.ID == excludeID {
			continue
		}
		conflicts = append(conflicts, e)
	}
	return conflicts
}
