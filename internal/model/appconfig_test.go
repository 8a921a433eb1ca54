package model

import (
	"fmt"
	"testing"
)

func TestDefaultAppConfigMatchesDefaultSettings(t *testing.T) {
	cfg := DefaultAppConfig()
	defaults := DefaultSettings()

	if cfg.DefaultPadding != defaults.Padding {
		t.Errorf("Padding mismatch: config=%d settings=%d", cfg.DefaultPadding, defaults.Padding)
	}
	if cfg.DefaultAlgorithm != defaults.Algorithm {
		t.Errorf("Algorithm mismatch: config=%s settings=%s", cfg.DefaultAlgorithm, defaults.Algorithm)
	}
	if cfg.DefaultSort != defaults.Sort {
		t.Errorf("Sort mismatch: config=%s settings=%s", cfg.DefaultSort, defaults.Sort)
	}
	if cfg.LogLevel != "info" {
		t.Errorf("expected default log level=info, got %s", cfg.LogLevel)
	}
	if cfg.RecentProjects == nil {
		t.Error("RecentProjects should not be nil")
	}
	inv := DefaultInventory()
	if inv.FindSheetByName(cfg.DefaultSheetPreset) == nil {
		t.Errorf("default sheet preset %q is not a built-in preset", cfg.DefaultSheetPreset)
	}
}

func TestApplyToSettings(t *testing.T) {
	cfg := DefaultAppConfig()
	cfg.DefaultPadding = 5
	cfg.DefaultAlgorithm = AlgorithmGenetic
	cfg.DefaultAllowRotate = false

	s := DefaultSettings()
	cfg.ApplyToSettings(&s)

	if s.Padding != 5 {
		t.Errorf("expected Padding=5, got %d", s.Padding)
	}
	if s.Algorithm != AlgorithmGenetic {
		t.Errorf("expected Algorithm=genetic, got %s", s.Algorithm)
	}
	if s.AllowRotate {
		t.Error("expected AllowRotate=false")
	}
}

func TestAddRecentProject(t *testing.T) {
	cfg := DefaultAppConfig()
	cfg.AddRecentProject("a.json")
	cfg.AddRecentProject("b.json")
	cfg.AddRecentProject("a.json")

	if len(cfg.RecentProjects) != 2 {
		t.Fatalf("expected 2 recent projects, got %d", len(cfg.RecentProjects))
	}
	if cfg.RecentProjects[0] != "a.json" {
		t.Errorf("expected most recent first, got %s", cfg.RecentProjects[0])
	}

	for i := 0; i < 20; i++ {
		cfg.AddRecentProject(fmt.Sprintf("p%d.json", i))
	}
	if len(cfg.RecentProjects) != maxRecentProjects {
		t.Errorf("expected list trimmed to %d, got %d", maxRecentProjects, len(cfg.RecentProjects))
	}
}
