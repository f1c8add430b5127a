package qa

import (
	"context"
	"slices"

	"github.com/soksol/playprep/internal/android"
)

// PermissionsCheck enforces least privilege on the manifest's permission requests.
type PermissionsCheck struct {
	Allowed  []string
	Required string
}

func (c *PermissionsCheck) Name() string { return CheckPermissions }

func (c *PermissionsCheck) Run(_ context.Context, p *Project, f *Findings) error {
	info, err := stat(p.Manifest)
	if err != nil {
		return err
	}
	if info == nil {
		f.Issuef(CategoryPermissions, "AndroidManifest.xml not found: %s", p.Rel(p.Manifest))
		return nil
	}

	manifest, err := android.ReadManifest(p.Manifest)
	if err != nil {
		f.Issuef(CategoryPermissions, "AndroidManifest.xml could not be parsed: %v", err)
		return nil
	}

	seen := make(map[string]bool, len(manifest.Permissions))
	for _, perm := range manifest.Permissions {
		if seen[perm] {
			continue
		}
		seen[perm] = true
		if slices.Contains(c.Allowed, perm) {
			f.Passf(CategoryPermissions, "Required permission: %s", perm)
		} else {
			f.Issuef(CategoryPermissions, "Unneeded permission: %s", perm)
		}
	}

	if c.Required != "" && !manifest.HasPermission(c.Required) {
		f.Issuef(CategoryPermissions, "%s permission is missing", c.Required)
	}

	if app := manifest.Application; app != nil && app.AllowBackup != nil && *app.AllowBackup == "false" {
		f.Passf(CategoryPermissions, "allowBackup is false")
	} else {
		f.Issuef(CategoryPermissions, "allowBackup is not set to false")
	}
	return nil
}
