package qa

import (
	"path/filepath"

	"github.com/soksol/playprep/internal/config"
)

// Project resolves every collaborator path the checks read.
// Paths are absolute, built from the project root and the project config.
type Project struct {
	Root string

	AndroidDir            string
	BuildGradle           string
	Manifest              string
	ResDir                string
	NetworkSecurityConfig string
	ReleaseBundle         string
	ReleaseAPK            string

	StoreAssetsDir string
	ScreenshotsDir string
	FeatureGraphic string

	StoreListing  string
	PrivacyPolicy string
	ComplianceDoc string
}

// NewProject resolves the layout of the project rooted at root.
func NewProject(root string, cfg config.ProjectConfig) *Project {
	join := func(elem ...string) string {
		return filepath.Join(append([]string{root}, elem...)...)
	}
	android := join(cfg.AndroidDir)
	app := filepath.Join(android, "app")
	res := filepath.Join(app, "src", "main", "res")
	assets := join(cfg.StoreAssetsDir)

	return &Project{
		Root: root,

		AndroidDir:            android,
		BuildGradle:           filepath.Join(app, "build.gradle"),
		Manifest:              filepath.Join(app, "src", "main", "AndroidManifest.xml"),
		ResDir:                res,
		NetworkSecurityConfig: filepath.Join(res, "xml", "network_security_config.xml"),
		ReleaseBundle:         filepath.Join(app, "build", "outputs", "bundle", "release", "app-release.aab"),
		ReleaseAPK:            filepath.Join(app, "build", "outputs", "apk", "release", "app-release.apk"),

		StoreAssetsDir: assets,
		ScreenshotsDir: filepath.Join(assets, "screenshots"),
		FeatureGraphic: filepath.Join(assets, "graphics", "feature_graphic.png"),

		StoreListing:  join(cfg.StoreListing),
		PrivacyPolicy: join(cfg.PrivacyPolicy),
		ComplianceDoc: join(cfg.ComplianceDoc),
	}
}

// IconPath returns the launcher icon file for a density bucket.
func (p *Project) IconPath(density string, round bool) string {
	name := "ic_launcher.png"
	if round {
		name = "ic_launcher_round.png"
	}
	return filepath.Join(p.ResDir, "mipmap-"+density, name)
}

// Rel returns path relative to the project root, or path unchanged when it
// lies outside the root.
func (p *Project) Rel(path string) string {
	rel, err := filepath.Rel(p.Root, path)
	if err != nil {
		return path
	}
	return filepath.ToSlash(rel)
}
