package qa

import (
	"context"
	"strconv"
	"strings"

	"github.com/soksol/playprep/internal/android"
)

// MetadataCheck extracts the required build configuration fields from build.gradle.
type MetadataCheck struct {
	IDPrefix     string
	MinTargetSDK int
}

func (c *MetadataCheck) Name() string { return CheckMetadata }

func (c *MetadataCheck) Run(_ context.Context, p *Project, f *Findings) error {
	build, err := android.ReadBuildFile(p.BuildGradle)
	if err != nil {
		if notExist(err) {
			f.Issuef(CategoryMetadata, "build.gradle not found: %s", p.Rel(p.BuildGradle))
			return nil
		}
		return err
	}

	for _, field := range android.Fields {
		value, ok := build.Field(field)
		if !ok {
			f.Issuef(CategoryMetadata, "%s is not set", field)
			continue
		}
		f.Passf(CategoryMetadata, "%s: %s", field, value)

		switch field {
		case android.FieldApplicationID:
			if c.IDPrefix != "" && !strings.HasPrefix(value, c.IDPrefix) {
				f.Warnf(CategoryMetadata, "applicationId %s does not start with %s", value, c.IDPrefix)
			}
		case android.FieldTargetSDK:
			if sdk, err := strconv.Atoi(value); err == nil && sdk < c.MinTargetSDK {
				f.Warnf(CategoryMetadata, "targetSdkVersion %d is below the recommended %d", sdk, c.MinTargetSDK)
			}
		}
	}
	return nil
}
