package config

import (
	"testing"
	"time"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load with defaults: %v", err)
	}

	if cfg.Port != "10000" {
		t.Fatalf("Port = %q, want 10000", cfg.Port)
	}
	if cfg.DBPath != "database.db" {
		t.Fatalf("DBPath = %q", cfg.DBPath)
	}
	m := cfg.Moderation
	if m.SpamWindow != 5*time.Second {
		t.Fatalf("SpamWindow = %v, want 5s", m.SpamWindow)
	}
	if m.SpamThreshold != 6 {
		t.Fatalf("SpamThreshold = %d, want 6", m.SpamThreshold)
	}
	if m.XPPerLevel != 50 {
		t.Fatalf("XPPerLevel = %d, want 50", m.XPPerLevel)
	}
	if m.LogChannel != "mod-logs" || m.WelcomeChannel != "welcome" {
		t.Fatalf("channels = %q/%q", m.LogChannel, m.WelcomeChannel)
	}
	if m.CommandPrefix != "&" {
		t.Fatalf("CommandPrefix = %q, want &", m.CommandPrefix)
	}
	if len(m.ProhibitedTerms) == 0 {
		t.Fatalf("expected a default prohibited-term set")
	}
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("PROHIBITED_TERMS", "alpha, beta ,,gamma")
	t.Setenv("SPAM_THRESHOLD", "3")
	t.Setenv("SPAM_WINDOW", "10s")
	t.Setenv("XP_PER_LEVEL", "25")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	m := cfg.Moderation
	if len(m.ProhibitedTerms) != 3 || m.ProhibitedTerms[0] != "alpha" || m.ProhibitedTerms[2] != "gamma" {
		t.Fatalf("ProhibitedTerms = %v", m.ProhibitedTerms)
	}
	if m.SpamThreshold != 3 || m.SpamWindow != 10*time.Second || m.XPPerLevel != 25 {
		t.Fatalf("overrides not applied: %+v", m)
	}
}

func TestLoad_ValidationFailures(t *testing.T) {
	cases := []struct {
		key, val string
	}{
		{"LOG_LEVEL", "verbose"},
		{"SPAM_THRESHOLD", "0"},
		{"XP_PER_LEVEL", "0"},
		{"RATE_BURST", "0"},
		{"OTEL_TRACES_SAMPLER_ARG", "2"},
	}
	for _, tc := range cases {
		t.Run(tc.key, func(t *testing.T) {
			t.Setenv(tc.key, tc.val)
			if _, err := Load(); err == nil {
				t.Fatalf("expected validation error for %s=%s", tc.key, tc.val)
			}
		})
	}
}

func TestLoad_NormalizesWarning(t *testing.T) {
	t.Setenv("LOG_LEVEL", "warning")
	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.LogLevel != "warn" {
		t.Fatalf("LogLevel = %q, want warn", cfg.LogLevel)
	}
}
