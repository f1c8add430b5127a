package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Config holds the full playprep configuration.
type Config struct {
	Project   ProjectConfig   `yaml:"project"`
	QA        QAConfig        `yaml:"qa"`
	Prep      PrepConfig      `yaml:"prep"`
	Telemetry TelemetryConfig `yaml:"telemetry"`
}

// ProjectConfig locates the collaborator files inside the project tree.
// All paths are relative to the project root.
type ProjectConfig struct {
	AndroidDir     string `yaml:"android_dir"`
	StoreAssetsDir string `yaml:"store_assets_dir"`
	StoreListing   string `yaml:"store_listing"`
	PrivacyPolicy  string `yaml:"privacy_policy"`
	ComplianceDoc  string `yaml:"compliance_doc"`
	ReportPath     string `yaml:"report_path"`
	ChecklistPath  string `yaml:"checklist_path"`
	ResultsDir     string `yaml:"results_dir"`
	BuildScript    string `yaml:"build_script"`
	IconSource     string `yaml:"icon_source"`
}

// IconSpec is one launcher icon density bucket and its expected edge length in pixels.
type IconSpec struct {
	Density string `yaml:"density"`
	Size    int    `yaml:"size"`
}

// QAConfig holds the thresholds and lists used by the QA checks.
type QAConfig struct {
	ApplicationIDPrefix string            `yaml:"application_id_prefix"`
	MinTargetSDK        int               `yaml:"min_target_sdk"`
	AllowedPermissions  []string          `yaml:"allowed_permissions"`
	RequiredPermission  string            `yaml:"required_permission"`
	Icons               []IconSpec        `yaml:"icons"`
	MinDocumentBytes    int64             `yaml:"min_document_bytes"`
	MinScreenshots      int               `yaml:"min_screenshots"`
	MinArtifactBytes    int64             `yaml:"min_artifact_bytes"`
	PrivacySections     []string          `yaml:"privacy_sections"`
	Escalate            map[string]string `yaml:"escalate,omitempty"`
}

// PrepConfig drives the readiness checks run by `playprep prep`.
// RequiredFiles is checked in addition to the gradle build file and the icon
// source, which are located through ProjectConfig.
type PrepConfig struct {
	Tools                []string `yaml:"tools"`
	RequiredFiles        []string `yaml:"required_files"`
	StoreSections        []string `yaml:"store_sections"`
	ForbiddenPermissions []string `yaml:"forbidden_permissions"`
}

// TelemetryConfig configures OpenTelemetry export.
type TelemetryConfig struct {
	Enabled        bool              `yaml:"enabled"`
	Endpoint       string            `yaml:"endpoint"`
	Protocol       string            `yaml:"protocol"`
	Insecure       bool              `yaml:"insecure"`
	Headers        map[string]string `yaml:"headers,omitempty"`
	ServiceName    string            `yaml:"service_name"`
	ServiceVersion string            `yaml:"service_version"`
	SampleRate     float64           `yaml:"sample_rate"`
}

// escalationCategories mirrors the check categories whose issues may be escalated.
// System issues always stay at severity error.
var escalationCategories = map[string]bool{
	"metadata":        true,
	"permissions":     true,
	"icons":           true,
	"store_materials": true,
	"build":           true,
	"security":        true,
	"compliance":      true,
}

// Validate checks that the configuration is valid and ready to use
func (c *Config) Validate() error {
	paths := map[string]string{
		"project.android_dir":      c.Project.AndroidDir,
		"project.store_assets_dir": c.Project.StoreAssetsDir,
		"project.store_listing":    c.Project.StoreListing,
		"project.privacy_policy":   c.Project.PrivacyPolicy,
		"project.compliance_doc":   c.Project.ComplianceDoc,
		"project.report_path":      c.Project.ReportPath,
	}
	for name, p := range paths {
		if p == "" {
			return fmt.Errorf("%s must not be empty", name)
		}
		if filepath.IsAbs(p) {
			return fmt.Errorf("%s must be relative to the project root, got: %s", name, p)
		}
	}

	if c.QA.MinTargetSDK <= 0 {
		return fmt.Errorf("qa.min_target_sdk must be positive, got: %d", c.QA.MinTargetSDK)
	}
	if c.QA.MinDocumentBytes < 0 || c.QA.MinArtifactBytes < 0 {
		return fmt.Errorf("qa byte thresholds must not be negative")
	}
	if c.QA.MinScreenshots < 0 {
		return fmt.Errorf("qa.min_screenshots must not be negative, got: %d", c.QA.MinScreenshots)
	}
	if c.QA.RequiredPermission == "" {
		return fmt.Errorf("qa.required_permission must not be empty")
	}
	if len(c.QA.Icons) == 0 {
		return fmt.Errorf("qa.icons must list at least one density")
	}
	for i, icon := range c.QA.Icons {
		if icon.Density == "" || icon.Size <= 0 {
			return fmt.Errorf("qa.icons[%d]: density and a positive size are required", i)
		}
	}
	for category, severity := range c.QA.Escalate {
		if !escalationCategories[category] {
			return fmt.Errorf("qa.escalate: unknown category %q", category)
		}
		if severity != "error" && severity != "critical" {
			return fmt.Errorf("qa.escalate[%s] must be 'error' or 'critical', got: %s", category, severity)
		}
	}

	if c.Telemetry.Enabled {
		if c.Telemetry.Protocol != "" && c.Telemetry.Protocol != "grpc" && c.Telemetry.Protocol != "http" {
			return fmt.Errorf("telemetry.protocol must be 'grpc' or 'http', got: %s", c.Telemetry.Protocol)
		}
		if c.Telemetry.SampleRate < 0 || c.Telemetry.SampleRate > 1 {
			return fmt.Errorf("telemetry.sample_rate must be in [0, 1], got: %v", c.Telemetry.SampleRate)
		}
	}

	return nil
}

// MergeConfigs merges configs in order of increasing precedence.
// Later configs override earlier ones. Non-zero scalar fields override,
// non-empty lists replace the earlier list, maps merge key by key.
func MergeConfigs(configs ...*Config) *Config {
	result := &Config{}

	for _, cfg := range configs {
		if cfg == nil {
			continue
		}
		mergeProject(&result.Project, cfg.Project)
		mergeQA(&result.QA, cfg.QA)
		mergePrep(&result.Prep, cfg.Prep)
		mergeTelemetry(&result.Telemetry, cfg.Telemetry)
	}

	return result
}

func overrideString(dst *string, src string) {
	if src != "" {
		*dst = src
	}
}

func overrideList[T any](dst *[]T, src []T) {
	if len(src) > 0 {
		*dst = append([]T(nil), src...)
	}
}

func mergeProject(dst *ProjectConfig, src ProjectConfig) {
	overrideString(&dst.AndroidDir, src.AndroidDir)
	overrideString(&dst.StoreAssetsDir, src.StoreAssetsDir)
	overrideString(&dst.StoreListing, src.StoreListing)
	overrideString(&dst.PrivacyPolicy, src.PrivacyPolicy)
	overrideString(&dst.ComplianceDoc, src.ComplianceDoc)
	overrideString(&dst.ReportPath, src.ReportPath)
	overrideString(&dst.ChecklistPath, src.ChecklistPath)
	overrideString(&dst.ResultsDir, src.ResultsDir)
	overrideString(&dst.BuildScript, src.BuildScript)
	overrideString(&dst.IconSource, src.IconSource)
}

func mergeQA(dst *QAConfig, src QAConfig) {
	overrideString(&dst.ApplicationIDPrefix, src.ApplicationIDPrefix)
	overrideString(&dst.RequiredPermission, src.RequiredPermission)
	if src.MinTargetSDK != 0 {
		dst.MinTargetSDK = src.MinTargetSDK
	}
	if src.MinDocumentBytes != 0 {
		dst.MinDocumentBytes = src.MinDocumentBytes
	}
	if src.MinScreenshots != 0 {
		dst.MinScreenshots = src.MinScreenshots
	}
	if src.MinArtifactBytes != 0 {
		dst.MinArtifactBytes = src.MinArtifactBytes
	}
	overrideList(&dst.AllowedPermissions, src.AllowedPermissions)
	overrideList(&dst.Icons, src.Icons)
	overrideList(&dst.PrivacySections, src.PrivacySections)
	if len(src.Escalate) > 0 {
		if dst.Escalate == nil {
			dst.Escalate = make(map[string]string, len(src.Escalate))
		}
		for category, severity := range src.Escalate {
			dst.Escalate[category] = severity
		}
	}
}

func mergePrep(dst *PrepConfig, src PrepConfig) {
	overrideList(&dst.Tools, src.Tools)
	overrideList(&dst.RequiredFiles, src.RequiredFiles)
	overrideList(&dst.StoreSections, src.StoreSections)
	overrideList(&dst.ForbiddenPermissions, src.ForbiddenPermissions)
}

// mergeTelemetry follows the same rules; Enabled only ever switches on from a
// higher tier, the environment variable is the way to switch it off.
func mergeTelemetry(dst *TelemetryConfig, src TelemetryConfig) {
	if src.Enabled {
		dst.Enabled = true
	}
	if src.Insecure {
		dst.Insecure = true
	}
	overrideString(&dst.Endpoint, src.Endpoint)
	overrideString(&dst.Protocol, src.Protocol)
	overrideString(&dst.ServiceName, src.ServiceName)
	overrideString(&dst.ServiceVersion, src.ServiceVersion)
	if src.SampleRate != 0 {
		dst.SampleRate = src.SampleRate
	}
	if len(src.Headers) > 0 {
		if dst.Headers == nil {
			dst.Headers = make(map[string]string, len(src.Headers))
		}
		for k, v := range src.Headers {
			dst.Headers[k] = v
		}
	}
}

// LoadFromFile reads a YAML config file. Returns nil, nil if the file doesn't exist.
func LoadFromFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("reading config file %s: %w", path, err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config file %s: %w", path, err)
	}

	return &cfg, nil
}

// LoadTiered loads system defaults, then machine config, then project config,
// and merges them in order of increasing precedence.
func LoadTiered(machinePath, projectPath string) (*Config, error) {
	system := SystemDefaults()

	machine, err := LoadFromFile(machinePath)
	if err != nil {
		return nil, fmt.Errorf("loading machine config: %w", err)
	}

	project, err := LoadFromFile(projectPath)
	if err != nil {
		return nil, fmt.Errorf("loading project config: %w", err)
	}

	return MergeConfigs(system, machine, project), nil
}

// ProjectConfigPath returns the project-tier config file for a project root.
func ProjectConfigPath(root string) string {
	return filepath.Join(root, ".playprep", "config.yaml")
}

// MachineConfigPath returns the machine-tier config file.
func MachineConfigPath() string {
	return os.ExpandEnv("$HOME/.config/playprep/config.yaml")
}
