package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/soksol/playprep/internal/execx"
	"github.com/soksol/playprep/internal/graphics"
)

var flagIconsNoFeature bool

func init() {
	iconsCmd := &cobra.Command{
		Use:   "icons",
		Short: "Generate launcher icons and the store feature graphic",
		Long: `Write ic_launcher.png and ic_launcher_round.png for every configured
density. The icons are rasterized from the configured SVG with inkscape
when it is installed; otherwise the built-in mark is drawn.`,
		Args: cobra.NoArgs,
		RunE: runIcons,
	}
	iconsCmd.Flags().BoolVar(&flagIconsNoFeature, "no-feature-graphic", false, "Skip the 1024x500 feature graphic")
	rootCmd.AddCommand(iconsCmd)
}

func (a *appContext) newGenerator(runner execx.Runner) *graphics.Generator {
	return graphics.NewGenerator(a.path(a.Config.Project.IconSource), runner, a.Logger)
}

func runIcons(cmd *cobra.Command, args []string) error {
	a, err := requireApp()
	if err != nil {
		return err
	}
	p := a.project()
	gen := a.newGenerator(execx.OSRunner{Dir: a.Root})
	w := cmd.OutOrStdout()

	icons, err := gen.GenerateIcons(cmd.Context(), p.ResDir, a.Config.QA.Icons)
	if err != nil {
		return fmt.Errorf("generating icons: %w", err)
	}
	for _, icon := range icons {
		fmt.Fprintf(w, "%-8s %4dpx  %s\n", icon.Density, icon.Size, p.Rel(icon.Path))
	}

	if !flagIconsNoFeature {
		if err := gen.FeatureGraphic(p.FeatureGraphic); err != nil {
			return fmt.Errorf("generating feature graphic: %w", err)
		}
		fmt.Fprintf(w, "feature graphic %s\n", p.Rel(p.FeatureGraphic))
	}
	return nil
}
