package prep

import (
	"os"
	"slices"
	"strings"

	"github.com/soksol/playprep/internal/android"
	"github.com/soksol/playprep/internal/qa"
)

// CheckMobileConfig verifies build.gradle carries the release settings.
func (c *Checker) CheckMobileConfig() Result {
	var res Result
	build, err := android.ReadBuildFile(c.project.BuildGradle)
	if err != nil {
		res.Err = err
		return res
	}

	prefix := c.Config.QA.ApplicationIDPrefix
	res.add("applicationId", build.Contains(prefix), "expected "+prefix)
	res.add("versionCode", build.Contains(android.FieldVersionCode), "")
	res.add("versionName", build.Contains(android.FieldVersionName), "")
	res.add("signingConfigs", build.HasSigningConfigs(), "")
	res.add("release build type", build.HasReleaseBlock(), "")
	return res
}

// CheckStoreListing verifies the store listing document has every listing section.
func (c *Checker) CheckStoreListing() Result {
	var res Result
	data, err := os.ReadFile(c.project.StoreListing)
	if err != nil {
		res.Err = err
		return res
	}
	missing := qa.MissingSections(string(data), c.Config.Prep.StoreSections)
	for _, section := range c.Config.Prep.StoreSections {
		ok := !slices.Contains(missing, section)
		detail := ""
		if !ok {
			detail = "section missing"
		}
		res.add(section, ok, detail)
	}
	return res
}

// CheckSecurityCompliance verifies the compliance document exists and the
// manifest disables backups, requests INTERNET and none of the forbidden permissions.
func (c *Checker) CheckSecurityCompliance() Result {
	var res Result
	ok, err := exists(c.project.ComplianceDoc)
	if err != nil {
		res.Err = err
		return res
	}
	res.add("compliance document", ok, c.project.Rel(c.project.ComplianceDoc))

	manifest, err := android.ReadManifest(c.project.Manifest)
	if err != nil {
		res.Err = err
		return res
	}

	backupOff := manifest.Application != nil &&
		manifest.Application.AllowBackup != nil &&
		*manifest.Application.AllowBackup == "false"
	res.add("allowBackup=false", backupOff, "")
	res.add("INTERNET permission", manifest.HasPermission(c.Config.QA.RequiredPermission), "")

	for _, forbidden := range c.Config.Prep.ForbiddenPermissions {
		requested := false
		for _, p := range manifest.Permissions {
			if p == forbidden || strings.HasSuffix(p, "."+forbidden) {
				requested = true
				break
			}
		}
		detail := ""
		if requested {
			detail = "requested"
		}
		res.add("no "+forbidden, !requested, detail)
	}
	return res
}
