package model

import (
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newComplaint(history ...HistoryEntry) *Complaint {
	return &Complaint{
		ID:       "GRV-2024-0042",
		Category: "Potholes & Roads",
		Title:    "Large pothole causing traffic hazards",
		Status:   history[len(history)-1].Status,
		History:  history,
	}
}

func entry(status Status, note string, at time.Time) HistoryEntry {
	return HistoryEntry{ID: uuid.New(), Status: status, Note: note, CreatedAt: at}
}

func TestBuildTimelineFreshComplaint(t *testing.T) {
	submitted := time.Date(2024, 12, 15, 10, 30, 0, 0, time.UTC)
	c := newComplaint(entry(StatusSubmitted, "Complaint registered successfully", submitted))

	steps, err := BuildTimeline(c)
	require.NoError(t, err)
	require.Len(t, steps, len(StatusOrder))

	assert.True(t, steps[0].Completed)
	assert.Equal(t, StatusSubmitted, steps[0].Status)
	assert.Equal(t, "Dec 15, 2024 - 10:30 AM", steps[0].Date)
	assert.Equal(t, "Complaint registered successfully", steps[0].Description)

	for _, step := range steps[1:] {
		assert.False(t, step.Completed, "step %s should not be completed", step.Status)
		assert.Empty(t, step.Date, "no estimate set, date should be empty")
	}
}

func TestBuildTimelineOrderMatchesLifecycle(t *testing.T) {
	c := newComplaint(entry(StatusSubmitted, "", time.Now()))

	steps, err := BuildTimeline(c)
	require.NoError(t, err)

	for i, step := range steps {
		assert.Equal(t, StatusOrder[i], step.Status)
		assert.Equal(t, StatusOrder[i].Label(), step.Label)
	}
}

func TestBuildTimelineEstimatedResolution(t *testing.T) {
	base := time.Date(2024, 12, 15, 10, 30, 0, 0, time.UTC)
	c := newComplaint(
		entry(StatusSubmitted, "Complaint registered successfully", base),
		entry(StatusAssigned, "Assigned to Roads & Infrastructure Department", base.Add(23*time.Hour)),
	)
	estimate := time.Date(2024, 12, 20, 0, 0, 0, 0, time.UTC)
	c.EstimatedResolution = &estimate

	steps, err := BuildTimeline(c)
	require.NoError(t, err)

	assert.True(t, steps[0].Completed)
	assert.True(t, steps[1].Completed)
	for _, step := range steps[2:] {
		assert.False(t, step.Completed)
		assert.Equal(t, "Estimated: Dec 20, 2024", step.Date)
	}
}

func TestBuildTimelineCorruptHistory(t *testing.T) {
	c := newComplaint(
		entry(StatusSubmitted, "", time.Now()),
		entry(Status("archived"), "", time.Now()),
	)

	_, err := BuildTimeline(c)
	require.Error(t, err)

	var stateErr *InvalidStateError
	require.True(t, errors.As(err, &stateErr))
	assert.Equal(t, "GRV-2024-0042", stateErr.ComplaintID)
	assert.Equal(t, Status("archived"), stateErr.Status)
}

func TestBuildTimelineKeepsEarliestEntryPerStatus(t *testing.T) {
	first := time.Date(2024, 12, 15, 10, 30, 0, 0, time.UTC)
	second := first.Add(2 * time.Hour)
	c := newComplaint(
		entry(StatusSubmitted, "first", first),
		entry(StatusSubmitted, "second", second),
	)

	steps, err := BuildTimeline(c)
	require.NoError(t, err)
	assert.Equal(t, "first", steps[0].Description)
	assert.Equal(t, "Dec 15, 2024 - 10:30 AM", steps[0].Date)
}
