package wellsfargo

import "testing"

func TestRegistryPreservesDiscoveryOrder(t *testing.T) {
	r := NewRegistry()
	r.Add("***1234", 1500.25)
	r.Add("***5678", 0)
	r.Add("***9012", 42.01)

	if r.Len() != 3 {
		t.Fatalf("Len() = %d, want 3", r.Len())
	}

	want := []string{"***1234", "***5678", "***9012"}
	got := r.Masks()
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("Masks()[%d] = %q, want %q", i, got[i], want[i])
		}
	}

	// Masks returns a copy; mutating it must not corrupt the registry.
	got[0] = "tampered"
	if r.Masks()[0] != "***1234" {
		t.Error("mutating Masks() result changed the registry")
	}

	if b, ok := r.Balance("***5678"); !ok || b != 0 {
		t.Errorf("Balance(***5678) = %v, %v, want 0, true", b, ok)
	}
	if _, ok := r.Balance("***0000"); ok {
		t.Error("Balance reported an account that was never added")
	}
}

func TestDigits(t *testing.T) {
	if got := digits("***1234"); got != "1234" {
		t.Errorf("digits(***1234) = %q, want 1234", got)
	}
	if got := digits("1234"); got != "1234" {
		t.Errorf("digits(1234) = %q, want 1234", got)
	}
}
