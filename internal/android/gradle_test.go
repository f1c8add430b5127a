package android

import "testing"

const sampleGradle = `
android {
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
            storeFile file('release.keystore')
        }
    }
    buildTypes {
        release {
            minifyEnabled true
            signingConfig signingConfigs.release
        }
    }
}
`

func TestBuildFile_Fields(t *testing.T) {
	b := ParseBuildFile(sampleGradle)

	tests := []struct {
		field string
		want  string
	}{
		{FieldApplicationID, "com.soksol.app"},
		{FieldVersionCode, "7"},
		{FieldVersionName, "1.2.0"},
		{FieldMinSDK, "24"},
		{FieldCompileSDK, "34"},
		{FieldTargetSDK, "34"},
	}
	for _, tc := range tests {
		got, ok := b.Field(tc.field)
		if !ok {
			t.Errorf("%s: expected field to be found", tc.field)
			continue
		}
		if got != tc.want {
			t.Errorf("%s: expected %q, got %q", tc.field, tc.want, got)
		}
	}
}

func TestBuildFile_AssignmentSyntax(t *testing.T) {
	b := ParseBuildFile(`applicationId = 'com.example.x'
versionCode = 12`)
	if v, ok := b.Field(FieldApplicationID); !ok || v != "com.example.x" {
		t.Errorf("expected com.example.x, got %q (found=%v)", v, ok)
	}
	if v, ok := b.Field(FieldVersionCode); !ok || v != "12" {
		t.Errorf("expected 12, got %q (found=%v)", v, ok)
	}
}

func TestBuildFile_MissingField(t *testing.T) {
	b := ParseBuildFile(`minSdkVersion rootProject.ext.minSdkVersion`)
	if _, ok := b.Field(FieldMinSDK); ok {
		t.Error("expected non-literal minSdkVersion to be reported missing")
	}
	if _, ok := b.Field("unknownField"); ok {
		t.Error("expected unknown field to be reported missing")
	}
}

func TestBuildFile_Flags(t *testing.T) {
	b := ParseBuildFile(sampleGradle)
	if !b.HasSigningConfigs() {
		t.Error("expected signingConfigs")
	}
	if !b.MinifyEnabled() {
		t.Error("expected minify enabled")
	}
	if !b.HasReleaseBlock() {
		t.Error("expected release block")
	}

	empty := ParseBuildFile("android { buildTypes { debug { minifyEnabled false } } }")
	if empty.HasSigningConfigs() || empty.MinifyEnabled() || empty.HasReleaseBlock() {
		t.Error("expected no signing, minify or release block")
	}
}
