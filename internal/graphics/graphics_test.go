package graphics

import (
	"context"
	"image"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/soksol/playprep/internal/config"
	"github.com/soksol/playprep/internal/execx"
	"github.com/soksol/playprep/internal/qa"
)

func decodeSize(t *testing.T, path string) image.Point {
	t.Helper()
	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()
	cfg, _, err := image.DecodeConfig(f)
	require.NoError(t, err)
	return image.Pt(cfg.Width, cfg.Height)
}

func TestGenerateIcons_DrawsEveryDensity(t *testing.T) {
	res := t.TempDir()
	specs := config.SystemDefaults().QA.Icons
	g := NewGenerator("", nil, nil)

	icons, err := g.GenerateIcons(context.Background(), res, specs)
	require.NoError(t, err)
	require.Len(t, icons, len(specs)*2)

	for _, spec := range specs {
		for _, name := range []string{"ic_launcher.png", "ic_launcher_round.png"} {
			path := filepath.Join(res, "mipmap-"+spec.Density, name)
			assert.Equal(t, image.Pt(spec.Size, spec.Size), decodeSize(t, path), path)
		}
	}
}

func TestGenerateIcons_PassDimensionInspection(t *testing.T) {
	res := t.TempDir()
	specs := config.SystemDefaults().QA.Icons
	_, err := NewGenerator("", nil, nil).GenerateIcons(context.Background(), res, specs)
	require.NoError(t, err)

	inspector := qa.DecodeInspector{}
	for _, spec := range specs {
		result, _, err := inspector.CheckDimensions(filepath.Join(res, "mipmap-"+spec.Density, "ic_launcher.png"), spec.Size)
		require.NoError(t, err)
		assert.Equal(t, qa.DimensionMatch, result)
	}
}

func TestGenerateIcons_FallsBackWhenInkscapeMissing(t *testing.T) {
	src := filepath.Join(t.TempDir(), "icon.svg")
	require.NoError(t, os.WriteFile(src, []byte("<svg/>"), 0o644))
	rec := &execx.Recorder{}

	_, err := NewGenerator(src, rec, nil).GenerateIcons(context.Background(), t.TempDir(), []config.IconSpec{{Density: "mdpi", Size: 48}})
	require.NoError(t, err)
	assert.Empty(t, rec.Calls)
}

func TestGenerateIcons_FallsBackWhenRasterizerProducesNothing(t *testing.T) {
	src := filepath.Join(t.TempDir(), "icon.svg")
	require.NoError(t, os.WriteFile(src, []byte("<svg/>"), 0o644))
	rec := &execx.Recorder{Paths: map[string]string{"inkscape": "/usr/bin/inkscape"}}
	res := t.TempDir()

	_, err := NewGenerator(src, rec, nil).GenerateIcons(context.Background(), res, []config.IconSpec{{Density: "hdpi", Size: 72}})
	require.NoError(t, err)
	require.Len(t, rec.Calls, 1)
	assert.Equal(t, "/usr/bin/inkscape", rec.Calls[0].Name)
	assert.Contains(t, rec.Calls[0].Args, "72")
	assert.Equal(t, image.Pt(72, 72), decodeSize(t, filepath.Join(res, "mipmap-hdpi", "ic_launcher.png")))
}

func TestGenerateIcons_Cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := NewGenerator("", nil, nil).GenerateIcons(ctx, t.TempDir(), config.SystemDefaults().QA.Icons)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestCircleMask(t *testing.T) {
	masked := CircleMask(DrawIcon(48))

	_, _, _, a := masked.At(0, 0).RGBA()
	assert.Zero(t, a, "corner should be transparent")
	_, _, _, a = masked.At(24, 24).RGBA()
	assert.Equal(t, uint32(0xffff), a, "center should be opaque")
}

func TestFeatureGraphic(t *testing.T) {
	path := filepath.Join(t.TempDir(), "graphics", "feature_graphic.png")
	require.NoError(t, NewGenerator("", nil, nil).FeatureGraphic(path))
	assert.Equal(t, image.Pt(FeatureWidth, FeatureHeight), decodeSize(t, path))

	img := DrawFeatureGraphic()
	top := img.RGBAAt(0, 0)
	bottom := img.RGBAAt(0, FeatureHeight-1)
	assert.Equal(t, brandDark.R, top.R)
	assert.Greater(t, bottom.B, top.B)
}
