package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCanTransitionAdjacentPairs(t *testing.T) {
	for i := 0; i < len(StatusOrder)-1; i++ {
		from, to := StatusOrder[i], StatusOrder[i+1]
		assert.True(t, CanTransition(from, to), "expected %s -> %s to be legal", from, to)
	}
}

func TestCanTransitionRejectsEverythingElse(t *testing.T) {
	for i, from := range StatusOrder {
		for j, to := range StatusOrder {
			if j == i+1 {
				continue
			}
			assert.False(t, CanTransition(from, to), "expected %s -> %s to be illegal", from, to)
		}
	}
}

// Re-applying the current status is rejected, not silently accepted.
func TestCanTransitionRejectsSameStatus(t *testing.T) {
	for _, s := range StatusOrder {
		assert.False(t, CanTransition(s, s))
	}
}

func TestCanTransitionUnknownStatus(t *testing.T) {
	assert.False(t, CanTransition(StatusSubmitted, "archived"))
	assert.False(t, CanTransition("archived", StatusAssigned))
}

func TestNext(t *testing.T) {
	next, ok := StatusSubmitted.Next()
	assert.True(t, ok)
	assert.Equal(t, StatusAssigned, next)

	_, ok = StatusClosed.Next()
	assert.False(t, ok, "closed is terminal")

	_, ok = Status("archived").Next()
	assert.False(t, ok)
}

func TestStatusValid(t *testing.T) {
	for _, s := range StatusOrder {
		assert.True(t, s.Valid())
	}
	assert.False(t, Status("archived").Valid())
	assert.False(t, Status("").Valid())
}

func TestStatusLabel(t *testing.T) {
	assert.Equal(t, "In Progress", StatusInProgress.Label())
	assert.Equal(t, "Submitted", StatusSubmitted.Label())
	// unknown statuses fall back to the raw value
	assert.Equal(t, "archived", Status("archived").Label())
}

func TestPriorityRankOrdering(t *testing.T) {
	assert.True(t, PriorityLow.Rank() < PriorityMedium.Rank())
	assert.True(t, PriorityMedium.Rank() < PriorityHigh.Rank())
	assert.True(t, PriorityHigh.Rank() < PriorityEmergency.Rank())
	assert.False(t, Priority("urgent").Valid())
	assert.True(t, PriorityEmergency.Valid())
}

func TestStyleFor(t *testing.T) {
	assert.Equal(t, "submitted", StyleFor(StatusSubmitted))
	assert.Equal(t, "inProgress", StyleFor(StatusInProgress))
	assert.Equal(t, "closed", StyleFor(StatusClosed))
	assert.Equal(t, "default", StyleFor(Status("archived")))
}
