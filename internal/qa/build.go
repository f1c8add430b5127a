package qa

import "context"

// BuildCheck verifies the release artifacts produced by the build.
type BuildCheck struct {
	MinArtifactBytes int64
}

func (c *BuildCheck) Name() string { return CheckBuild }

func (c *BuildCheck) Run(_ context.Context, p *Project, f *Findings) error {
	if err := c.artifact(p, f, "Release bundle", p.ReleaseBundle, true); err != nil {
		return err
	}
	return c.artifact(p, f, "Release APK", p.ReleaseAPK, false)
}

func (c *BuildCheck) artifact(p *Project, f *Findings, label, path string, required bool) error {
	info, err := stat(path)
	if err != nil {
		return err
	}
	switch {
	case info == nil && required:
		f.Issuef(CategoryBuild, "%s not found, build required: %s", label, p.Rel(path))
	case info == nil:
		f.Warnf(CategoryBuild, "%s not found (recommended for testing): %s", label, p.Rel(path))
	case info.Size() > c.MinArtifactBytes:
		f.Passf(CategoryBuild, "%s present (%d MB)", label, humanMiB(info.Size()))
	default:
		f.Warnf(CategoryBuild, "%s size looks wrong: %d bytes", label, info.Size())
	}
	return nil
}
