package prep

import (
	"bytes"
	"context"
	_ "embed"
	"fmt"
	"os"
	"path/filepath"
	"text/template"
)

//go:embed checklist.md.tmpl
var checklistTemplate string

var checklistTmpl = template.Must(template.New("checklist").Parse(checklistTemplate))

type checklistData struct {
	GeneratedAt   string
	IDPrefix      string
	StoreListing  string
	ComplianceDoc string
	PrivacyPolicy string
	ReportPath    string
}

// RenderChecklist renders the release checklist document.
func (c *Checker) RenderChecklist() ([]byte, error) {
	p := c.Config.Project
	var buf bytes.Buffer
	err := checklistTmpl.Execute(&buf, checklistData{
		GeneratedAt:   c.Now().Format("2006-01-02 15:04:05"),
		IDPrefix:      c.Config.QA.ApplicationIDPrefix,
		StoreListing:  p.StoreListing,
		ComplianceDoc: p.ComplianceDoc,
		PrivacyPolicy: p.PrivacyPolicy,
		ReportPath:    p.ReportPath,
	})
	if err != nil {
		return nil, fmt.Errorf("rendering checklist: %w", err)
	}
	return buf.Bytes(), nil
}

// WriteChecklist writes the release checklist and returns its path.
func (c *Checker) WriteChecklist(ctx context.Context) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	data, err := c.RenderChecklist()
	if err != nil {
		return "", err
	}
	path := c.ChecklistPath()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return "", fmt.Errorf("creating checklist directory: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", fmt.Errorf("writing checklist: %w", err)
	}
	c.Logger.Info("release checklist written", "path", path)
	return path, nil
}
