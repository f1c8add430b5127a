package qa

import (
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/soksol/playprep/internal/config"
)

const testGradle = `android {
    compileSdkVersion 34
    defaultConfig {
        applicationId "com.soksol.app"
        minSdkVersion 24
        targetSdkVersion 34
        versionCode 7
        versionName "1.2.0"
    }
    signingConfigs {
        release {
            storeFile file("release.keystore")
        }
    }
    buildTypes {
        release {
            signingConfig signingConfigs.release
            minifyEnabled true
        }
    }
}
`

const testManifest = `<?xml version="1.0" encoding="utf-8"?>
<manifest xmlns:android="http://schemas.android.com/apk/res/android" package="com.soksol.app">
    <uses-permission android:name="android.permission.INTERNET" />
    <uses-permission android:name="android.permission.ACCESS_NETWORK_STATE" />
    <application android:allowBackup="false" android:label="SokSol" />
</manifest>
`

var testPrivacy = "# Privacy\n\n## 개인정보 수집\n...\n## 데이터 처리\n...\n## 데이터 저장\n...\n## 연락처\nprivacy@soksol.example\n"

func fixedClock() time.Time {
	return time.Date(2026, 3, 14, 9, 30, 0, 0, time.UTC)
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
}

func writePNG(t *testing.T, path string, w, h int) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatal(err)
	}
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	img.Set(0, 0, color.RGBA{R: 0x1e, G: 0x88, B: 0xe5, A: 0xff})
	out, err := os.Create(path)
	if err != nil {
		t.Fatal(err)
	}
	defer out.Close()
	if err := png.Encode(out, img); err != nil {
		t.Fatal(err)
	}
}

// writeSized creates a sparse file of the given size.
func writeSized(t *testing.T, path string, size int64) {
	t.Helper()
	writeFile(t, path, "")
	if err := os.Truncate(path, size); err != nil {
		t.Fatal(err)
	}
}

func testConfig() config.QAConfig {
	return config.SystemDefaults().QA
}

func newTestProject(t *testing.T) *Project {
	t.Helper()
	return NewProject(t.TempDir(), config.SystemDefaults().Project)
}

// completeProject lays out a project on which every default check passes.
func completeProject(t *testing.T) *Project {
	t.Helper()
	p := newTestProject(t)
	cfg := testConfig()

	writeFile(t, p.BuildGradle, testGradle)
	writeFile(t, p.Manifest, testManifest)
	writeFile(t, p.NetworkSecurityConfig, `<network-security-config />`)
	for _, icon := range cfg.Icons {
		writePNG(t, p.IconPath(icon.Density, false), icon.Size, icon.Size)
		writePNG(t, p.IconPath(icon.Density, true), icon.Size, icon.Size)
	}

	long := strings.Repeat("Play Store listing content. ", 10)
	writeFile(t, p.StoreListing, long)
	writeFile(t, p.PrivacyPolicy, testPrivacy+long)
	writeFile(t, p.ComplianceDoc, long)
	writePNG(t, filepath.Join(p.ScreenshotsDir, "01_chat.png"), 108, 192)
	writePNG(t, filepath.Join(p.ScreenshotsDir, "02_settings.png"), 108, 192)
	writePNG(t, p.FeatureGraphic, 1024, 500)

	writeSized(t, p.ReleaseBundle, 2*1024*1024)
	writeSized(t, p.ReleaseAPK, 3*1024*1024)
	return p
}

func newTestEngine(p *Project, checks []Check, opts ...Option) *Engine {
	opts = append([]Option{WithClock(fixedClock)}, opts...)
	return NewEngine(p, checks, opts...)
}

func descriptions(findings []Finding) []string {
	out := make([]string, len(findings))
	for i, f := range findings {
		out[i] = f.Description
	}
	return out
}

func inCategory(findings []Finding, c Category) []Finding {
	var out []Finding
	for _, f := range findings {
		if f.Category == c {
			out = append(out, f)
		}
	}
	return out
}
