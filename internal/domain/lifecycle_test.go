package domain

import "testing"

func TestCanTransition(t *testing.T) {
	allowed := [][2]InterventionStatus{
		{InterventionPlanned, InterventionInProgress},
		{InterventionPlanned, InterventionCompleted},
		{InterventionPlanned, InterventionCancelled},
		{InterventionInProgress, InterventionCompleted},
		{InterventionInProgress, InterventionCancelled},
		{InterventionCompleted, InterventionCompleted},
	}
	for _, tr := range allowed {
		if !CanTransition(tr[0], tr[1]) {
			t.Fatalf("expected %s -> %s to be allowed", tr[0], tr[1])
		}
	}

	forbidden := [][2]InterventionStatus{
		{InterventionCompleted, InterventionInProgress},
		{InterventionCompleted, InterventionCancelled},
		{InterventionCancelled, InterventionPlanned},
		{InterventionInProgress, InterventionPlanned},
		{InterventionStatus("UNKNOWN"), InterventionPlanned},
		{InterventionStatus("UNKNOWN"), InterventionStatus("UNKNOWN")},
	}
	for _, tr := range forbidden {
		if CanTransition(tr[0], tr[1]) {
			t.Fatalf("unexpected transition allowed: %s -> %s", tr[0], tr[1])
		}
	}
}
