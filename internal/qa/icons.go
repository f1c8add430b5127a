package qa

import (
	"context"
	"log/slog"

	"github.com/soksol/playprep/internal/config"
)

// IconsCheck verifies the launcher icon set for every density bucket.
type IconsCheck struct {
	Icons     []config.IconSpec
	Inspector ImageInspector
	Logger    *slog.Logger
}

func (c *IconsCheck) Name() string { return CheckIcons }

func (c *IconsCheck) Run(ctx context.Context, p *Project, f *Findings) error {
	for _, icon := range c.Icons {
		if err := ctx.Err(); err != nil {
			return err
		}
		folder := "mipmap-" + icon.Density

		primary := p.IconPath(icon.Density, false)
		info, err := stat(primary)
		if err != nil {
			return err
		}
		if info != nil {
			f.Passf(CategoryIcons, "%s/ic_launcher.png present", folder)
			c.checkSize(f, folder, primary, icon.Size)
		} else {
			f.Issuef(CategoryIcons, "%s/ic_launcher.png is missing", folder)
		}

		round := p.IconPath(icon.Density, true)
		info, err = stat(round)
		if err != nil {
			return err
		}
		if info != nil {
			f.Passf(CategoryIcons, "%s/ic_launcher_round.png present", folder)
		} else {
			f.Warnf(CategoryIcons, "%s/ic_launcher_round.png is missing", folder)
		}
	}
	return nil
}

func (c *IconsCheck) checkSize(f *Findings, folder, path string, size int) {
	if c.Inspector == nil {
		return
	}
	result, got, err := c.Inspector.CheckDimensions(path, size)
	switch result {
	case DimensionMatch:
		f.Passf(CategoryIcons, "%s size is correct: %dx%d", folder, got.X, got.Y)
	case DimensionMismatch:
		f.Warnf(CategoryIcons, "%s size is %dx%d, expected %dx%d", folder, got.X, got.Y, size, size)
	default:
		if c.Logger != nil {
			c.Logger.Debug("icon size not inspected", "path", path, "err", err)
		}
	}
}
