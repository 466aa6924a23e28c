// Package testutil provides common utility functions for testing.
package testutil

import (
	"github.com/Alliabson/Price/pkg/schedule"
)

// FindItem finds a schedule row by label.
// Returns a pointer to the item if found, nil otherwise.
func FindItem(sched schedule.Schedule, label string) *schedule.Item {
	for i := range sched.Items {
		if sched.Items[i].Label == label {
			return &sched.Items[i]
		}
	}
	return nil
}

// CountKind counts the schedule rows of the given kind.
func CountKind(sched schedule.Schedule, kind schedule.Kind) int {
	count := 0
	for _, item := range sched.Items {
		if item.Kind == kind {
			count++
		}
	}
	return count
}
