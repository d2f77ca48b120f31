package main

import "testing"

func TestServerOverridesKeepOnlySetFlags(t *testing.T) {
	unset := serverOverrides("", -1, -1)
	if unset.Port != nil || unset.RateLimitRPS != nil || unset.RateLimitBurst != nil {
		t.Fatalf("expected no overrides, got %+v", unset)
	}

	set := serverOverrides("9000", 0, 5)
	if set.Port == nil || *set.Port != "9000" {
		t.Fatalf("expected port override, got %+v", set.Port)
	}
	if set.RateLimitRPS == nil || *set.RateLimitRPS != 0 {
		t.Fatalf("expected zero rps to disable limiting, got %v", set.RateLimitRPS)
	}
	if set.RateLimitBurst == nil || *set.RateLimitBurst != 5 {
		t.Fatalf("expected burst override, got %v", set.RateLimitBurst)
	}
}
