package qa

import (
	"context"
	"os"
	"strings"
)

// ComplianceCheck scans the privacy policy for required sections and
// verifies the compliance document exists.
type ComplianceCheck struct {
	Sections []string
}

func (c *ComplianceCheck) Name() string { return CheckCompliance }

func (c *ComplianceCheck) Run(_ context.Context, p *Project, f *Findings) error {
	data, err := os.ReadFile(p.PrivacyPolicy)
	switch {
	case err == nil:
		if missing := MissingSections(string(data), c.Sections); len(missing) > 0 {
			f.Warnf(CategoryCompliance, "Privacy policy is missing sections: %s", strings.Join(missing, ", "))
		} else {
			f.Passf(CategoryCompliance, "Privacy policy contains all required sections")
		}
	case notExist(err):
		f.Issuef(CategoryCompliance, "Privacy policy not found: %s", p.Rel(p.PrivacyPolicy))
	default:
		return err
	}

	info, err := stat(p.ComplianceDoc)
	if err != nil {
		return err
	}
	if info != nil {
		f.Passf(CategoryCompliance, "Play Store compliance document present")
	} else {
		f.Issuef(CategoryCompliance, "Play Store compliance document not found: %s", p.Rel(p.ComplianceDoc))
	}
	return nil
}

// MissingSections returns the sections not contained in content, in order.
func MissingSections(content string, sections []string) []string {
	var missing []string
	for _, s := range sections {
		if !strings.Contains(content, s) {
			missing = append(missing, s)
		}
	}
	return missing
}
