package qa

import (
	"context"
	"errors"
	"slices"
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEngine_CompleteProjectIsReady(t *testing.T) {
	p := completeProject(t)
	e := newTestEngine(p, DefaultChecks(testConfig(), DecodeInspector{}, nil))

	res := e.RunAll(context.Background())

	assert.Empty(t, descriptions(res.Findings.Issues()))
	assert.Empty(t, descriptions(res.Findings.Warnings()))
	assert.Equal(t, VerdictReady, res.Verdict)
	assert.Equal(t, e.Checks(), res.Checks)
	assert.NotEmpty(t, res.RunID)
}

func TestEngine_EmptyProjectIsCaution(t *testing.T) {
	p := newTestProject(t)
	e := newTestEngine(p, DefaultChecks(testConfig(), DecodeInspector{}, nil))

	res := e.RunAll(context.Background())

	assert.Equal(t, VerdictCaution, res.Verdict)
	assert.Empty(t, inCategory(res.Findings.Issues(), CategorySystem), "missing files must not surface as system failures")
	for _, c := range []Category{CategoryMetadata, CategoryPermissions, CategoryIcons, CategoryStoreMaterials, CategoryBuild, CategorySecurity, CategoryCompliance} {
		assert.NotEmpty(t, inCategory(res.Findings.Issues(), c), c.String())
	}
}

func TestEngine_CheckOrder(t *testing.T) {
	e := NewEngine(newTestProject(t), DefaultChecks(testConfig(), nil, nil))
	assert.Equal(t, []string{"metadata", "permissions", "icons", "store", "build", "security", "compliance"}, e.Checks())
	assert.Equal(t, CheckNames, e.Checks())
}

func sortedBucket(f *Findings, b Bucket) []string {
	var out []string
	for _, item := range f.Bucket(b) {
		out = append(out, item.Category.String()+"|"+string(item.Severity)+"|"+item.Description)
	}
	sort.Strings(out)
	return out
}

func TestEngine_RegistrationOrderDoesNotChangeFindings(t *testing.T) {
	p := newTestProject(t)
	writeFile(t, p.BuildGradle, "android { defaultConfig { applicationId \"org.other\" targetSdkVersion 28 } }")
	writeFile(t, p.PrivacyPolicy, "## 개인정보 수집\n")

	checks := DefaultChecks(testConfig(), DecodeInspector{}, nil)
	reversed := slices.Clone(checks)
	slices.Reverse(reversed)

	forward := newTestEngine(p, checks).RunAll(context.Background())
	backward := newTestEngine(p, reversed).RunAll(context.Background())

	for _, b := range []Bucket{BucketPassed, BucketWarning, BucketIssue} {
		assert.Equal(t, sortedBucket(forward.Findings, b), sortedBucket(backward.Findings, b), b.String())
	}
	assert.Equal(t, forward.Verdict, backward.Verdict)
}

func TestEngine_ChecksOnlyAppend(t *testing.T) {
	p := newTestProject(t)
	f := NewFindings(fixedClock, nil)

	require.NoError(t, (&MetadataCheck{}).Run(context.Background(), p, f))
	afterFirst := f.Issues()

	require.NoError(t, (&BuildCheck{MinArtifactBytes: 1}).Run(context.Background(), p, f))
	all := f.Issues()

	require.Greater(t, len(all), len(afterFirst))
	assert.Equal(t, afterFirst, all[:len(afterFirst)])
}

func TestEngine_ErrorBecomesSystemIssue(t *testing.T) {
	p := newTestProject(t)
	failing := CheckFunc{CheckName: "broken", Fn: func(context.Context, *Project, *Findings) error {
		return errors.New("disk on fire")
	}}
	after := CheckFunc{CheckName: "after", Fn: func(_ context.Context, _ *Project, f *Findings) error {
		f.Passf(CategoryMetadata, "still running")
		return nil
	}}

	res := newTestEngine(p, []Check{failing, after}).RunAll(context.Background())

	system := inCategory(res.Findings.Issues(), CategorySystem)
	require.Len(t, system, 1)
	assert.Contains(t, system[0].Description, "disk on fire")
	assert.Equal(t, SeverityError, system[0].Severity)
	assert.Equal(t, []string{"still running"}, descriptions(res.Findings.Passed()))
	assert.Equal(t, VerdictCaution, res.Verdict)
}

func TestEngine_PanicBecomesSystemIssue(t *testing.T) {
	p := newTestProject(t)
	panicking := CheckFunc{CheckName: "panics", Fn: func(_ context.Context, _ *Project, f *Findings) error {
		f.Passf(CategoryIcons, "recorded before panic")
		var m map[string]int
		m["boom"]++
		return nil
	}}
	after := CheckFunc{CheckName: "after", Fn: func(_ context.Context, _ *Project, f *Findings) error {
		f.Passf(CategoryBuild, "after panic")
		return nil
	}}

	res := newTestEngine(p, []Check{panicking, after}).RunAll(context.Background())

	system := inCategory(res.Findings.Issues(), CategorySystem)
	require.Len(t, system, 1)
	assert.Contains(t, system[0].Description, "panics")
	assert.Equal(t, []string{"recorded before panic", "after panic"}, descriptions(res.Findings.Passed()))
}

func TestEngine_CancelledContextStopsScheduling(t *testing.T) {
	p := newTestProject(t)
	ctx, cancel := context.WithCancel(context.Background())
	first := CheckFunc{CheckName: "first", Fn: func(_ context.Context, _ *Project, f *Findings) error {
		f.Passf(CategoryMetadata, "first ran")
		cancel()
		return nil
	}}
	ran := false
	second := CheckFunc{CheckName: "second", Fn: func(context.Context, *Project, *Findings) error {
		ran = true
		return nil
	}}

	res := newTestEngine(p, []Check{first, second}).RunAll(ctx)

	assert.False(t, ran)
	assert.Equal(t, []string{"first"}, res.Checks)
	require.Len(t, inCategory(res.Findings.Issues(), CategorySystem), 1)
}

func TestEngine_RunSingle(t *testing.T) {
	p := completeProject(t)
	writeFile(t, p.ComplianceDoc, "")
	e := newTestEngine(p, DefaultChecks(testConfig(), DecodeInspector{}, nil))

	res, err := e.RunSingle(context.Background(), CheckMetadata)
	require.NoError(t, err)
	assert.Equal(t, []string{CheckMetadata}, res.Checks)
	for _, f := range res.Findings.Passed() {
		assert.Equal(t, CategoryMetadata, f.Category)
	}
	assert.Equal(t, VerdictReady, res.Verdict, "verdict covers only the selected check")

	_, err = e.RunSingle(context.Background(), "lint")
	assert.ErrorIs(t, err, ErrUnknownCheck)
}

func TestEngine_EscalationBlocks(t *testing.T) {
	p := completeProject(t)
	writeFile(t, p.BuildGradle, "android { defaultConfig { applicationId \"com.soksol.app\" } }")

	esc, err := ParseEscalation(map[string]string{"security": "critical"})
	require.NoError(t, err)
	e := newTestEngine(p, DefaultChecks(testConfig(), nil, nil), WithEscalation(esc))

	res := e.RunAll(context.Background())
	assert.Equal(t, VerdictBlocked, res.Verdict)
	assert.Equal(t, 1, res.Counts().Critical)
}

func TestParseEscalation(t *testing.T) {
	got, err := ParseEscalation(map[string]string{"store_materials": "critical", "icons": "error"})
	require.NoError(t, err)
	assert.Equal(t, map[Category]Severity{
		CategoryStoreMaterials: SeverityCritical,
		CategoryIcons:          SeverityError,
	}, got)

	_, err = ParseEscalation(map[string]string{"system": "critical"})
	assert.Error(t, err)
	_, err = ParseEscalation(map[string]string{"icons": "fatal"})
	assert.Error(t, err)
	_, err = ParseEscalation(map[string]string{"iconz": "critical"})
	assert.Error(t, err)

	got, err = ParseEscalation(nil)
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestEngine_RerunIsDeterministic(t *testing.T) {
	p := completeProject(t)
	writeFile(t, p.PrivacyPolicy, "## 연락처\n")
	e := newTestEngine(p, DefaultChecks(testConfig(), DecodeInspector{}, nil))

	first := e.RunAll(context.Background())
	second := e.RunAll(context.Background())

	assert.NotEqual(t, first.RunID, second.RunID)
	assert.Equal(t, first.Findings.Passed(), second.Findings.Passed())
	assert.Equal(t, first.Findings.Warnings(), second.Findings.Warnings())
	assert.Equal(t, first.Findings.Issues(), second.Findings.Issues())
	assert.Equal(t, first.Verdict, second.Verdict)
	assert.Equal(t, BuildReport(first, fixedClock()).Sections, BuildReport(second, fixedClock()).Sections)
}
