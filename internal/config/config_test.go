package config

import (
	"testing"
	"time"
)

func TestLoad_DefaultsAndOverrides(t *testing.T) {
	t.Setenv("WORKER_COUNT", "-1")
	t.Setenv("HEADER_WINDOW", "0")
	t.Setenv("JOB_TTL", "90m")
	t.Setenv("CONFERENCE_DATE", "2022-10-14")
	t.Setenv("CONFERENCE_LOCATION", "Bucharest")

	cfg := Load()
	if cfg.WorkerCount != 4 {
		t.Errorf("expected clamped WorkerCount 4, got %d", cfg.WorkerCount)
	}
	if cfg.HeaderWindow != 5 {
		t.Errorf("expected HeaderWindow 5, got %d", cfg.HeaderWindow)
	}
	if cfg.JobTTL != 90*time.Minute {
		t.Errorf("expected JobTTL 90m, got %s", cfg.JobTTL)
	}
	if cfg.Conference.Year != 2022 || cfg.Conference.Location != "Bucharest" {
		t.Errorf("unexpected conference %+v", cfg.Conference)
	}
	if cfg.Conference.Actor != "itu-pp" {
		t.Errorf("expected default actor, got %q", cfg.Conference.Actor)
	}
	if cfg.ParagraphPolicy != "strict" {
		t.Errorf("expected strict policy, got %q", cfg.ParagraphPolicy)
	}
}

func TestValidate(t *testing.T) {
	base := Config{ParagraphPolicy: "strict"}
	base.Conference.Date = "2018-11-15"
	base.Conference.Actor = "itu-pp"

	if err := base.Validate(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := base.ValidateServer(); err == nil {
		t.Error("server config without API key should fail")
	}

	bad := base
	bad.ParagraphPolicy = "loose"
	if err := bad.Validate(); err == nil {
		t.Error("unknown policy should fail")
	}

	bad = base
	bad.Conference.Date = "15/11/2018"
	if err := bad.Validate(); err == nil {
		t.Error("bad date should fail")
	}

	bad = base
	bad.PublishEnabled = true
	if err := bad.Validate(); err == nil {
		t.Error("publishing without PATHSTORE_API_KEY should fail")
	}

	good := base
	good.APIKey = "k"
	if err := good.ValidateServer(); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
}
