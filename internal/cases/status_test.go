package cases

import "testing"

func TestParseStatus(t *testing.T) {
	for _, in := range []string{"ongoing", "Concluded", " other "} {
		if _, err := ParseStatus(in); err != nil {
			t.Fatalf("ParseStatus(%q): %v", in, err)
		}
	}
	if _, err := ParseStatus("archived"); err == nil {
		t.Fatalf("expected error for unknown status")
	}
}

func TestEveryStateReachableFromEveryOther(t *testing.T) {
	all := []Status{StatusOngoing, StatusConcluded, StatusOther}
	for _, from := range all {
		for _, to := range all {
			if !from.CanTransition(to) {
				t.Fatalf("%s -> %s should be allowed", from, to)
			}
		}
		if from.CanTransition("archived") {
			t.Fatalf("%s -> archived should be rejected", from)
		}
	}
}
