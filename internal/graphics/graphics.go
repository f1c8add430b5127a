// Package graphics produces the launcher icons and the store feature graphic.
package graphics

import (
	"context"
	"errors"
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"image/png"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/soksol/playprep/internal/config"
	"github.com/soksol/playprep/internal/execx"
)

// Feature graphic dimensions required by the Play Store.
const (
	FeatureWidth  = 1024
	FeatureHeight = 500
)

var (
	brandDark  = color.RGBA{R: 0x1a, G: 0x1a, B: 0x2e, A: 0xff}
	brandLight = color.RGBA{R: 0x34, G: 0x9c, B: 0xe0, A: 0xff}
	white      = color.RGBA{R: 0xff, G: 0xff, B: 0xff, A: 0xff}
)

// Generator writes icon and graphic PNGs. When Source names an SVG and
// inkscape is available, icons are rasterized from it; otherwise a built-in
// mark is drawn.
type Generator struct {
	Source string
	Runner execx.Runner
	Logger *slog.Logger
}

// NewGenerator creates a Generator rasterizing source with runner.
func NewGenerator(source string, runner execx.Runner, logger *slog.Logger) *Generator {
	if logger == nil {
		logger = slog.Default()
	}
	return &Generator{Source: source, Runner: runner, Logger: logger}
}

// Icon is one generated launcher icon file.
type Icon struct {
	Density string
	Size    int
	Path    string
	Round   bool
}

// GenerateIcons writes ic_launcher.png and ic_launcher_round.png into
// mipmap-<density> under resDir for every spec.
func (g *Generator) GenerateIcons(ctx context.Context, resDir string, specs []config.IconSpec) ([]Icon, error) {
	var out []Icon
	for _, spec := range specs {
		if err := ctx.Err(); err != nil {
			return out, err
		}
		base, err := g.baseIcon(ctx, spec.Size)
		if err != nil {
			return out, fmt.Errorf("rendering %s icon: %w", spec.Density, err)
		}
		dir := filepath.Join(resDir, "mipmap-"+spec.Density)

		square := filepath.Join(dir, "ic_launcher.png")
		if err := writePNG(square, base); err != nil {
			return out, err
		}
		out = append(out, Icon{Density: spec.Density, Size: spec.Size, Path: square})

		round := filepath.Join(dir, "ic_launcher_round.png")
		if err := writePNG(round, CircleMask(base)); err != nil {
			return out, err
		}
		out = append(out, Icon{Density: spec.Density, Size: spec.Size, Path: round, Round: true})
		g.Logger.Info("icon generated", "density", spec.Density, "size", spec.Size)
	}
	return out, nil
}

func (g *Generator) baseIcon(ctx context.Context, size int) (image.Image, error) {
	img, err := g.rasterize(ctx, size)
	switch {
	case err == nil:
		return img, nil
	case errors.Is(err, errNoRasterizer):
		g.Logger.Debug("drawing built-in icon", "reason", err)
		return DrawIcon(size), nil
	default:
		g.Logger.Warn("svg rasterization failed, drawing built-in icon", "err", err)
		return DrawIcon(size), nil
	}
}

var errNoRasterizer = errors.New("no svg source or rasterizer available")

func (g *Generator) rasterize(ctx context.Context, size int) (image.Image, error) {
	if g.Source == "" || g.Runner == nil {
		return nil, errNoRasterizer
	}
	if _, err := os.Stat(g.Source); err != nil {
		return nil, errNoRasterizer
	}
	inkscape, err := g.Runner.LookPath("inkscape")
	if err != nil {
		return nil, errNoRasterizer
	}

	tmp, err := os.CreateTemp("", "playprep-icon-*.png")
	if err != nil {
		return nil, err
	}
	tmp.Close()
	defer os.Remove(tmp.Name())

	dim := fmt.Sprint(size)
	if _, err := g.Runner.Run(ctx, inkscape, g.Source,
		"--export-type=png",
		"--export-filename="+tmp.Name(),
		"-w", dim, "-h", dim,
	); err != nil {
		return nil, err
	}
	return readPNG(tmp.Name())
}

// DrawIcon draws the built-in launcher mark: a dark disc, a lighter inner
// disc and a white bar pair.
func DrawIcon(size int) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, size, size))
	c := float64(size) / 2
	outer := c * 0.92
	inner := outer * 0.84
	fillDisc(img, c, c, outer, brandDark)
	fillDisc(img, c, c, inner, brandLight)

	bar := max(size/12, 1)
	w := size * 3 / 8
	upper := image.Rect(size/2-w/2-bar, size/2-bar*2, size/2+w/2-bar, size/2-bar)
	lower := image.Rect(size/2-w/2+bar, size/2+bar, size/2+w/2+bar, size/2+bar*2)
	draw.Draw(img, upper, image.NewUniform(white), image.Point{}, draw.Src)
	draw.Draw(img, lower, image.NewUniform(white), image.Point{}, draw.Src)
	return img
}

func fillDisc(img *image.RGBA, cx, cy, r float64, col color.Color) {
	b := img.Bounds()
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			dx, dy := float64(x)+0.5-cx, float64(y)+0.5-cy
			if dx*dx+dy*dy <= r*r {
				img.Set(x, y, col)
			}
		}
	}
}

// circle is an alpha mask that is opaque inside the inscribed circle of r.
type circle struct {
	r image.Rectangle
}

func (c circle) ColorModel() color.Model { return color.AlphaModel }
func (c circle) Bounds() image.Rectangle { return c.r }
func (c circle) At(x, y int) color.Color {
	cx := float64(c.r.Min.X+c.r.Max.X) / 2
	cy := float64(c.r.Min.Y+c.r.Max.Y) / 2
	rad := float64(min(c.r.Dx(), c.r.Dy())) / 2
	dx, dy := float64(x)+0.5-cx, float64(y)+0.5-cy
	if dx*dx+dy*dy <= rad*rad {
		return color.Alpha{A: 0xff}
	}
	return color.Alpha{}
}

// CircleMask returns a copy of src with everything outside its inscribed
// circle made transparent.
func CircleMask(src image.Image) *image.RGBA {
	b := src.Bounds()
	dst := image.NewRGBA(b)
	draw.DrawMask(dst, b, src, b.Min, circle{r: b}, b.Min, draw.Over)
	return dst
}

// FeatureGraphic writes the 1024x500 store feature graphic to path.
func (g *Generator) FeatureGraphic(path string) error {
	img := DrawFeatureGraphic()
	if err := writePNG(path, img); err != nil {
		return err
	}
	g.Logger.Info("feature graphic generated", "path", path)
	return nil
}

// DrawFeatureGraphic draws a vertical brand gradient with the launcher mark centered.
func DrawFeatureGraphic() *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, FeatureWidth, FeatureHeight))
	for y := 0; y < FeatureHeight; y++ {
		t := float64(y) / FeatureHeight
		row := color.RGBA{
			R: lerp(brandDark.R, brandLight.R, t),
			G: lerp(brandDark.G, brandLight.G, t),
			B: lerp(brandDark.B, brandLight.B, t),
			A: 0xff,
		}
		draw.Draw(img, image.Rect(0, y, FeatureWidth, y+1), image.NewUniform(row), image.Point{}, draw.Src)
	}

	mark := CircleMask(DrawIcon(FeatureHeight / 2))
	at := image.Pt((FeatureWidth-mark.Bounds().Dx())/2, (FeatureHeight-mark.Bounds().Dy())/2)
	draw.Draw(img, mark.Bounds().Add(at), mark, image.Point{}, draw.Over)
	return img
}

func lerp(a, b uint8, t float64) uint8 {
	return uint8(float64(a) + (float64(b)-float64(a))*t)
}

func writePNG(path string, img image.Image) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("creating %s: %w", filepath.Dir(path), err)
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating %s: %w", path, err)
	}
	if err := png.Encode(f, img); err != nil {
		f.Close()
		return fmt.Errorf("encoding %s: %w", path, err)
	}
	return f.Close()
}

func readPNG(path string) (image.Image, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return png.Decode(f)
}
