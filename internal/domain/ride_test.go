package domain

import "testing"

func TestCanTransition(t *testing.T) {
	allowed := []struct{ from, to RideStatus }{
		{RideStatusRequested, RideStatusAccepted},
		{RideStatusRequested, RideStatusCancelled},
		{RideStatusAccepted, RideStatusInProgress},
		{RideStatusAccepted, RideStatusCancelled},
		{RideStatusInProgress, RideStatusCompleted},
		{RideStatusInProgress, RideStatusCancelled},
	}
	for _, tc := range allowed {
		if !CanTransition(tc.from, tc.to) {
			t.Errorf("CanTransition(%s, %s) = false, want true", tc.from, tc.to)
		}
	}

	forbidden := []struct{ from, to RideStatus }{
		{RideStatusRequested, RideStatusInProgress},
		{RideStatusRequested, RideStatusCompleted},
		{RideStatusAccepted, RideStatusCompleted},
		{RideStatusCompleted, RideStatusCancelled},
		{RideStatusCancelled, RideStatusAccepted},
		{RideStatusCompleted, RideStatusRequested},
		{RideStatusAccepted, RideStatusRequested},
	}
	for _, tc := range forbidden {
		if CanTransition(tc.from, tc.to) {
			t.Errorf("CanTransition(%s, %s) = true, want false", tc.from, tc.to)
		}
	}
}

func TestTerminal(t *testing.T) {
	if !RideStatusCompleted.Terminal() || !RideStatusCancelled.Terminal() {
		t.Error("completed and cancelled must be terminal")
	}
	for _, s := range []RideStatus{RideStatusRequested, RideStatusAccepted, RideStatusInProgress} {
		if s.Terminal() {
			t.Errorf("%s must not be terminal", s)
		}
	}
}
