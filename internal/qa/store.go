package qa

import (
	"context"
	"os"
	"path/filepath"
	"strings"
)

var screenshotExts = map[string]bool{
	".png":  true,
	".jpg":  true,
	".jpeg": true,
}

// StoreCheck verifies the store listing documents and graphic assets.
type StoreCheck struct {
	MinDocumentBytes int64
	MinScreenshots   int
}

func (c *StoreCheck) Name() string { return CheckStore }

func (c *StoreCheck) Run(_ context.Context, p *Project, f *Findings) error {
	docs := []struct {
		label string
		path  string
	}{
		{"Store listing", p.StoreListing},
		{"Privacy policy", p.PrivacyPolicy},
		{"Compliance document", p.ComplianceDoc},
	}
	for _, doc := range docs {
		info, err := stat(doc.path)
		if err != nil {
			return err
		}
		if info == nil {
			f.Issuef(CategoryStoreMaterials, "%s is missing: %s", doc.label, p.Rel(doc.path))
			continue
		}
		f.Passf(CategoryStoreMaterials, "%s present", doc.label)
		if info.Size() > c.MinDocumentBytes {
			f.Passf(CategoryStoreMaterials, "%s has enough content (%d bytes)", doc.label, info.Size())
		} else {
			f.Warnf(CategoryStoreMaterials, "%s is too short (%d bytes)", doc.label, info.Size())
		}
	}

	if err := c.checkScreenshots(p, f); err != nil {
		return err
	}

	info, err := stat(p.FeatureGraphic)
	if err != nil {
		return err
	}
	if info != nil {
		f.Passf(CategoryStoreMaterials, "Feature graphic present")
	} else {
		f.Warnf(CategoryStoreMaterials, "Feature graphic is missing: %s", p.Rel(p.FeatureGraphic))
	}
	return nil
}

func (c *StoreCheck) checkScreenshots(p *Project, f *Findings) error {
	entries, err := os.ReadDir(p.ScreenshotsDir)
	if err != nil {
		if notExist(err) {
			f.Warnf(CategoryStoreMaterials, "Screenshots directory not found: %s", p.Rel(p.ScreenshotsDir))
			return nil
		}
		return err
	}

	count := 0
	for _, e := range entries {
		if !e.IsDir() && screenshotExts[strings.ToLower(filepath.Ext(e.Name()))] {
			count++
		}
	}
	if count >= c.MinScreenshots {
		f.Passf(CategoryStoreMaterials, "%d screenshots ready", count)
	} else {
		f.Warnf(CategoryStoreMaterials, "Not enough screenshots: %d (at least %d required)", count, c.MinScreenshots)
	}
	return nil
}
