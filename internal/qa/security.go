package qa

import (
	"context"

	"github.com/soksol/playprep/internal/android"
)

// SecurityCheck verifies release signing, minification and the network security config.
type SecurityCheck struct{}

func (c *SecurityCheck) Name() string { return CheckSecurity }

func (c *SecurityCheck) Run(_ context.Context, p *Project, f *Findings) error {
	build, err := android.ReadBuildFile(p.BuildGradle)
	switch {
	case err == nil:
		if build.HasSigningConfigs() {
			f.Passf(CategorySecurity, "Signing configuration present")
		} else {
			f.Issuef(CategorySecurity, "No signing configuration")
		}
		if build.MinifyEnabled() {
			f.Passf(CategorySecurity, "Code minification enabled")
		} else {
			f.Warnf(CategorySecurity, "Code minification disabled")
		}
	case notExist(err):
		f.Issuef(CategorySecurity, "build.gradle not found: %s", p.Rel(p.BuildGradle))
	default:
		return err
	}

	info, err := stat(p.NetworkSecurityConfig)
	if err != nil {
		return err
	}
	if info != nil {
		f.Passf(CategorySecurity, "Network security config present")
	} else {
		f.Warnf(CategorySecurity, "Network security config not found: %s", p.Rel(p.NetworkSecurityConfig))
	}
	return nil
}
