package types

import "testing"

func TestParseCredentials(t *testing.T) {
	creds, err := ParseCredentials("alice:pw1:555,bob:pw2:555")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(creds) != 2 {
		t.Fatalf("expected 2 credential sets, got %d", len(creds))
	}
	if creds[0].Username != "alice" || creds[0].Password != "pw1" || creds[0].PhoneFragment != "555" {
		t.Errorf("unexpected first credential set: %+v", creds[0])
	}
	if creds[1].Username != "bob" {
		t.Errorf("expected second username bob, got %s", creds[1].Username)
	}
}

func TestParseCredentialsMalformed(t *testing.T) {
	if _, err := ParseCredentials("alice:pw1"); err == nil {
		t.Error("expected error for missing phone fragment")
	}
}

func TestParseCredentialsEmpty(t *testing.T) {
	creds, err := ParseCredentials("  ")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(creds) != 0 {
		t.Errorf("expected no credential sets, got %d", len(creds))
	}
}

func TestParseAction(t *testing.T) {
	a, err := ParseAction("BUY")
	if err != nil || a != ActionBuy {
		t.Errorf("expected buy, got %v (err %v)", a, err)
	}
	a, err = ParseAction(" Sell ")
	if err != nil || a != ActionSell {
		t.Errorf("expected sell, got %v (err %v)", a, err)
	}
	if _, err := ParseAction("hold"); err == nil {
		t.Error("expected error for unsupported action")
	}
}
