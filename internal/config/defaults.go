package config

// SystemDefaults returns the built-in project layout, QA thresholds and prep lists.
func SystemDefaults() *Config {
	return &Config{
		Project: ProjectConfig{
			AndroidDir:     "mobile/soksol_mobile/SokSol/android",
			StoreAssetsDir: "assets/store",
			StoreListing:   "STORE_MATERIALS.md",
			PrivacyPolicy:  "PRIVACY.md",
			ComplianceDoc:  "PLAY_STORE_COMPLIANCE.md",
			ReportPath:     "QA_REPORT.md",
			ChecklistPath:  "RELEASE_CHECKLIST.md",
			ResultsDir:     ".playprep/results",
			BuildScript:    "scripts/build-android-release.sh",
			IconSource:     "assets/store/icons/soksol_icon.svg",
		},
		QA: QAConfig{
			ApplicationIDPrefix: "com.soksol",
			MinTargetSDK:        31,
			AllowedPermissions: []string{
				"android.permission.INTERNET",
				"android.permission.ACCESS_NETWORK_STATE",
			},
			RequiredPermission: "android.permission.INTERNET",
			Icons: []IconSpec{
				{Density: "mdpi", Size: 48},
				{Density: "hdpi", Size: 72},
				{Density: "xhdpi", Size: 96},
				{Density: "xxhdpi", Size: 144},
				{Density: "xxxhdpi", Size: 192},
			},
			MinDocumentBytes: 100,
			MinScreenshots:   2,
			MinArtifactBytes: 1024 * 1024,
			PrivacySections: []string{
				"개인정보 수집",
				"데이터 처리",
				"데이터 저장",
				"연락처",
			},
		},
		Prep: PrepConfig{
			Tools: []string{"git", "node", "inkscape", "convert", "adb"},
			RequiredFiles: []string{
				"package.json",
				"README.md",
				"PRIVACY.md",
				"STORE_MATERIALS.md",
				"PLAY_STORE_COMPLIANCE.md",
			},
			StoreSections: []string{
				"앱명",
				"짧은 설명",
				"전체 설명",
				"스크린샷 요구사항",
				"카테고리",
				"콘텐츠 등급",
			},
			ForbiddenPermissions: []string{
				"WRITE_EXTERNAL_STORAGE",
				"ACCESS_FINE_LOCATION",
			},
		},
		Telemetry: TelemetryConfig{
			Enabled:        false,
			Endpoint:       "localhost:4317",
			Protocol:       "grpc",
			ServiceName:    "playprep",
			ServiceVersion: "dev",
			SampleRate:     1.0,
		},
	}
}
