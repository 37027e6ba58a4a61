package entities_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"decorconnect/internal/entities"
)

func TestReservationStatus_Blocking(t *testing.T) {
	assert.True(t, entities.ReservationActive.Blocking())
	assert.False(t, entities.ReservationCancelled.Blocking())
	assert.False(t, entities.ReservationCompleted.Blocking())

	// Unknown states fail closed.
	assert.True(t, entities.ReservationStatus("half-cancelled").Blocking())
}

func TestNonBlockingStatuses_MatchBlocking(t *testing.T) {
	for _, status := range entities.NonBlockingStatuses() {
		assert.False(t, status.Blocking(), "status %q is listed as non-blocking", status)
	}

	listed := func(s entities.ReservationStatus) bool {
		for _, terminal := range entities.NonBlockingStatuses() {
			if s == terminal {
				return true
			}
		}
		return false
	}
	assert.False(t, listed(entities.ReservationActive))
}
