package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestMergeConfigs_HigherTierOverrides(t *testing.T) {
	system := SystemDefaults()
	project := &Config{
		Project: ProjectConfig{
			AndroidDir: "android",
		},
		QA: QAConfig{
			MinTargetSDK: 34,
		},
	}
	merged := MergeConfigs(system, project)
	if merged.Project.AndroidDir != "android" {
		t.Errorf("expected android_dir 'android', got %q", merged.Project.AndroidDir)
	}
	if merged.QA.MinTargetSDK != 34 {
		t.Errorf("expected min_target_sdk 34, got %d", merged.QA.MinTargetSDK)
	}
	if merged.Project.PrivacyPolicy != "PRIVACY.md" {
		t.Errorf("expected privacy_policy preserved, got %q", merged.Project.PrivacyPolicy)
	}
	if merged.QA.MinScreenshots != 2 {
		t.Errorf("expected min_screenshots preserved, got %d", merged.QA.MinScreenshots)
	}
}

func TestMergeConfigs_ListsReplaceWholesale(t *testing.T) {
	system := SystemDefaults()
	project := &Config{
		QA: QAConfig{
			AllowedPermissions: []string{"android.permission.INTERNET"},
		},
	}
	merged := MergeConfigs(system, project)
	if len(merged.QA.AllowedPermissions) != 1 {
		t.Fatalf("expected 1 allowed permission, got %d", len(merged.QA.AllowedPermissions))
	}
	if len(merged.QA.Icons) != 5 {
		t.Errorf("expected default icons preserved, got %d", len(merged.QA.Icons))
	}
}

func TestMergeConfigs_DoesNotAliasInputs(t *testing.T) {
	system := SystemDefaults()
	merged := MergeConfigs(system)
	merged.QA.AllowedPermissions[0] = "changed"
	if system.QA.AllowedPermissions[0] == "changed" {
		t.Error("expected merged lists to be copies of the input lists")
	}
}

func TestMergeConfigs_EscalateMergesKeys(t *testing.T) {
	machine := &Config{QA: QAConfig{Escalate: map[string]string{"permissions": "critical"}}}
	project := &Config{QA: QAConfig{Escalate: map[string]string{"build": "critical"}}}
	merged := MergeConfigs(SystemDefaults(), machine, project)
	if len(merged.QA.Escalate) != 2 {
		t.Errorf("expected 2 escalations, got %v", merged.QA.Escalate)
	}
}

func TestMergeConfigs_NilTiersSkipped(t *testing.T) {
	merged := MergeConfigs(nil, SystemDefaults(), nil)
	if merged.QA.ApplicationIDPrefix != "com.soksol" {
		t.Errorf("expected default prefix, got %q", merged.QA.ApplicationIDPrefix)
	}
}

func TestLoadFromFile_Valid(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	os.WriteFile(path, []byte("qa:\n  min_target_sdk: 33\n  escalate:\n    permissions: critical\n"), 0644)
	cfg, err := LoadFromFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.QA.MinTargetSDK != 33 {
		t.Errorf("expected 33, got %d", cfg.QA.MinTargetSDK)
	}
	if cfg.QA.Escalate["permissions"] != "critical" {
		t.Errorf("expected permissions escalation, got %v", cfg.QA.Escalate)
	}
}

func TestLoadFromFile_Missing(t *testing.T) {
	cfg, err := LoadFromFile("/nonexistent/config.yaml")
	if err != nil {
		t.Fatal(err)
	}
	if cfg != nil {
		t.Error("expected nil config for missing file")
	}
}

func TestLoadFromFile_Invalid(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	os.WriteFile(path, []byte("qa: [not, a, map"), 0644)
	if _, err := LoadFromFile(path); err == nil {
		t.Error("expected parse error")
	}
}

func TestLoadTiered(t *testing.T) {
	dir := t.TempDir()
	machineConf := filepath.Join(dir, "machine.yaml")
	os.WriteFile(machineConf, []byte("qa:\n  min_target_sdk: 33\n"), 0644)
	projectConf := filepath.Join(dir, "project.yaml")
	os.WriteFile(projectConf, []byte("project:\n  report_path: out/QA.md\n"), 0644)

	cfg, err := LoadTiered(machineConf, projectConf)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.QA.MinTargetSDK != 33 {
		t.Errorf("expected machine override 33, got %d", cfg.QA.MinTargetSDK)
	}
	if cfg.Project.ReportPath != "out/QA.md" {
		t.Errorf("expected project override, got %q", cfg.Project.ReportPath)
	}
	if cfg.Project.AndroidDir == "" {
		t.Error("expected system default android_dir")
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{name: "defaults", mutate: func(*Config) {}},
		{name: "empty report path", mutate: func(c *Config) { c.Project.ReportPath = "" }, wantErr: true},
		{name: "absolute android dir", mutate: func(c *Config) { c.Project.AndroidDir = "/abs/android" }, wantErr: true},
		{name: "zero target sdk", mutate: func(c *Config) { c.QA.MinTargetSDK = 0 }, wantErr: true},
		{name: "no icons", mutate: func(c *Config) { c.QA.Icons = nil }, wantErr: true},
		{name: "bad icon", mutate: func(c *Config) { c.QA.Icons = []IconSpec{{Density: "mdpi"}} }, wantErr: true},
		{name: "unknown escalation", mutate: func(c *Config) { c.QA.Escalate = map[string]string{"nope": "critical"} }, wantErr: true},
		{name: "bad escalation severity", mutate: func(c *Config) { c.QA.Escalate = map[string]string{"build": "fatal"} }, wantErr: true},
		{name: "critical escalation", mutate: func(c *Config) { c.QA.Escalate = map[string]string{"build": "critical"} }},
		{name: "bad protocol", mutate: func(c *Config) { c.Telemetry.Enabled = true; c.Telemetry.Protocol = "udp" }, wantErr: true},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			cfg := SystemDefaults()
			tc.mutate(cfg)
			err := cfg.Validate()
			if tc.wantErr && err == nil {
				t.Error("expected validation error")
			}
			if !tc.wantErr && err != nil {
				t.Errorf("unexpected error: %v", err)
			}
		})
	}
}
