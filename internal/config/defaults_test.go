package config

import "testing"

func TestSystemDefaults_IconDensities(t *testing.T) {
	cfg := SystemDefaults()

	expected := map[string]int{
		"mdpi":    48,
		"hdpi":    72,
		"xhdpi":   96,
		"xxhdpi":  144,
		"xxxhdpi": 192,
	}
	if len(cfg.QA.Icons) != len(expected) {
		t.Fatalf("expected %d icon specs, got %d", len(expected), len(cfg.QA.Icons))
	}
	for _, icon := range cfg.QA.Icons {
		if expected[icon.Density] != icon.Size {
			t.Errorf("density %s: expected %d, got %d", icon.Density, expected[icon.Density], icon.Size)
		}
	}
}

func TestSystemDefaults_Thresholds(t *testing.T) {
	cfg := SystemDefaults()

	if cfg.QA.MinTargetSDK != 31 {
		t.Errorf("expected min target sdk 31, got %d", cfg.QA.MinTargetSDK)
	}
	if cfg.QA.MinArtifactBytes != 1<<20 {
		t.Errorf("expected 1 MiB artifact threshold, got %d", cfg.QA.MinArtifactBytes)
	}
	if len(cfg.QA.PrivacySections) != 4 {
		t.Errorf("expected 4 privacy sections, got %d", len(cfg.QA.PrivacySections))
	}
	if len(cfg.QA.Escalate) != 0 {
		t.Errorf("expected no escalations by default, got %v", cfg.QA.Escalate)
	}
	if cfg.Telemetry.Enabled {
		t.Error("expected telemetry disabled by default")
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("defaults must validate: %v", err)
	}
}
