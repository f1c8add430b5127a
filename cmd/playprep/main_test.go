package main

import (
	"bytes"
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/soksol/playprep/internal/qa"
)

func resetFlags() {
	flagRoot, flagQuiet, flagVerbose, flagDebug = "", false, false, false
	flagQAFormat, flagQANoArchive = "", false
	flagHistoryLimit, flagHistoryShow = 20, ""
	flagIconsNoFeature = false
	flagShotSerial, flagShotName, flagShotResize = "", "", false
	flagMasterYes, flagMasterRetries = false, 2
	app = nil
}

// execute runs the root command against an isolated home directory.
func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	t.Setenv("HOME", t.TempDir())
	t.Setenv("PLAYPREP_TELEMETRY_ENABLED", "false")
	t.Setenv("PLAYPREP_ROOT", "")
	t.Setenv("PLAYPREP_ADB", "playprep-test-missing-adb")
	resetFlags()

	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(io.Discard)
	rootCmd.SetArgs(args)
	err := rootCmd.ExecuteContext(context.Background())
	return out.String(), err
}

func writeProjectConfig(t *testing.T, root, content string) {
	t.Helper()
	dir := filepath.Join(root, ".playprep")
	require.NoError(t, os.MkdirAll(dir, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), []byte(content), 0o644))
}

func TestExitCode(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"nil", nil, 0},
		{"fatal", errors.New("boom"), 1},
		{"caution", &exitError{code: qa.ExitCaution}, 2},
		{"blocked wrapped", errors.Join(errors.New("ctx"), &exitError{code: qa.ExitBlocked}), 3},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, exitCode(tt.err))
		})
	}
}

func TestVerdictError(t *testing.T) {
	assert.NoError(t, verdictError(qa.VerdictReady))
	assert.Equal(t, 2, exitCode(verdictError(qa.VerdictCaution)))
	assert.Equal(t, 3, exitCode(verdictError(qa.VerdictBlocked)))
}

func TestResolveRoot(t *testing.T) {
	dir := t.TempDir()

	got, err := resolveRoot(dir, "/ignored")
	require.NoError(t, err)
	assert.Equal(t, dir, got)

	got, err = resolveRoot("", dir)
	require.NoError(t, err)
	assert.Equal(t, dir, got)

	_, err = resolveRoot(filepath.Join(dir, "missing"), "")
	assert.Error(t, err)

	file := filepath.Join(dir, "file")
	require.NoError(t, os.WriteFile(file, nil, 0o644))
	_, err = resolveRoot(file, "")
	assert.Error(t, err)
}

func TestVersion(t *testing.T) {
	out, err := execute(t, "version", "--root", t.TempDir())
	require.NoError(t, err)
	assert.Contains(t, out, "playprep dev")
}

func TestQAList(t *testing.T) {
	out, err := execute(t, "qa", "list", "--root", t.TempDir())
	require.NoError(t, err)
	assert.Equal(t, qa.CheckNames, strings.Fields(out))
}

func TestQA_EmptyProjectWritesReportAndArchives(t *testing.T) {
	root := t.TempDir()
	out, err := execute(t, "qa", "--root", root, "--format", "markdown")
	assert.Equal(t, qa.ExitCaution, exitCode(err))
	assert.Contains(t, out, "# Play Store QA Report")

	report, err := os.ReadFile(filepath.Join(root, "QA_REPORT.md"))
	require.NoError(t, err)
	assert.Equal(t, out, string(report))

	runs, err := os.ReadDir(filepath.Join(root, ".playprep", "results"))
	require.NoError(t, err)
	assert.Len(t, runs, 1)

	hist, err := execute(t, "history", "--root", root)
	require.NoError(t, err)
	assert.Contains(t, hist, runs[0].Name())
	assert.Contains(t, hist, "CAUTION")

	shown, err := execute(t, "history", "--root", root, "--show", runs[0].Name())
	require.NoError(t, err)
	assert.Equal(t, string(report), shown)
}

func TestQA_NoArchive(t *testing.T) {
	root := t.TempDir()
	_, err := execute(t, "qa", "--root", root, "--format", "json", "--no-archive")
	assert.Equal(t, qa.ExitCaution, exitCode(err))
	assert.NoDirExists(t, filepath.Join(root, ".playprep", "results"))
}

func TestQA_EscalationBlocks(t *testing.T) {
	root := t.TempDir()
	writeProjectConfig(t, root, "qa:\n  escalate:\n    metadata: critical\n")

	_, err := execute(t, "qa", "--root", root, "--format", "text")
	assert.Equal(t, qa.ExitBlocked, exitCode(err))
}

func TestQA_InvalidConfigIsFatal(t *testing.T) {
	root := t.TempDir()
	writeProjectConfig(t, root, "qa:\n  escalate:\n    system: critical\n")

	_, err := execute(t, "qa", "--root", root)
	require.Error(t, err)
	assert.Equal(t, 1, exitCode(err))
}

func TestQA_SingleCheck(t *testing.T) {
	root := t.TempDir()
	out, err := execute(t, "qa", "metadata", "--root", root, "--format", "text")
	assert.Equal(t, qa.ExitCaution, exitCode(err))
	assert.Contains(t, out, "build.gradle not found")
	assert.NoFileExists(t, filepath.Join(root, "QA_REPORT.md"))
}

func TestQA_UnknownCheck(t *testing.T) {
	_, err := execute(t, "qa", "bogus", "--root", t.TempDir())
	require.ErrorIs(t, err, qa.ErrUnknownCheck)
	assert.Equal(t, 1, exitCode(err))
}

func TestIconsThenIconCheckPasses(t *testing.T) {
	root := t.TempDir()
	out, err := execute(t, "icons", "--root", root)
	require.NoError(t, err)
	assert.Contains(t, out, "feature graphic")

	_, err = execute(t, "qa", "icons", "--root", root, "--format", "json")
	assert.NoError(t, err)
}

func TestPrepChecklist(t *testing.T) {
	root := t.TempDir()
	out, err := execute(t, "prep", "checklist", "--root", root)
	require.NoError(t, err)
	assert.Contains(t, out, "1/1 checks passed")
	assert.FileExists(t, filepath.Join(root, "RELEASE_CHECKLIST.md"))
}

func TestPrep_FailuresExitCaution(t *testing.T) {
	_, err := execute(t, "prep", "structure", "--root", t.TempDir())
	assert.Equal(t, qa.ExitCaution, exitCode(err))
}

func TestScreenshot_NoADB(t *testing.T) {
	_, err := execute(t, "screenshot", "--root", t.TempDir())
	require.Error(t, err)
	assert.Equal(t, 1, exitCode(err))
}

func TestMaster_NonInteractive(t *testing.T) {
	root := t.TempDir()
	out, err := execute(t, "master", "--yes", "--root", root)
	assert.Equal(t, qa.ExitCaution, exitCode(err))
	assert.Contains(t, out, "[1/7] Development environment")
	assert.Contains(t, out, "[7/7] Release checklist")
	assert.Contains(t, out, "QA verdict: CAUTION")
	assert.FileExists(t, filepath.Join(root, "QA_REPORT.md"))
	assert.FileExists(t, filepath.Join(root, "RELEASE_CHECKLIST.md"))
}
