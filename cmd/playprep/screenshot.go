package main

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/soksol/playprep/internal/device"
	"github.com/soksol/playprep/internal/execx"
)

var (
	flagShotSerial string
	flagShotName   string
	flagShotResize bool
)

func init() {
	screenshotCmd := &cobra.Command{
		Use:   "screenshot",
		Short: "Capture a screenshot from a connected device over adb",
		Args:  cobra.NoArgs,
		RunE:  runScreenshot,
	}
	screenshotCmd.Flags().StringVarP(&flagShotSerial, "serial", "s", "", "Device serial (default: the first ready device)")
	screenshotCmd.Flags().StringVar(&flagShotName, "name", "", "Suffix for the screenshot file name")
	screenshotCmd.Flags().BoolVar(&flagShotResize, "resize", false, "Also write a 1080x1920 store copy into the playstore subdirectory with ImageMagick")
	rootCmd.AddCommand(screenshotCmd)
}

func runScreenshot(cmd *cobra.Command, args []string) error {
	a, err := requireApp()
	if err != nil {
		return err
	}
	runner := execx.OSRunner{Dir: a.Root}
	path, err := a.captureScreenshot(cmd.Context(), runner, flagShotSerial, flagShotName)
	if err != nil {
		return err
	}
	p := a.project()
	fmt.Fprintf(cmd.OutOrStdout(), "saved %s\n", p.Rel(path))

	if flagShotResize {
		resized, err := device.Resize(cmd.Context(), runner, path, filepath.Join(filepath.Dir(path), device.StoreCopyDir))
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "saved %s\n", p.Rel(resized))
	}
	return nil
}

func (a *appContext) captureScreenshot(ctx context.Context, runner execx.Runner, serial, name string) (string, error) {
	adb := device.New(a.Env.ADB, runner)
	if !adb.Available() {
		return "", fmt.Errorf("%s not found on PATH; install the Android SDK platform-tools", adb.Bin)
	}
	if serial == "" {
		devices, err := adb.Devices(ctx)
		if err != nil {
			return "", err
		}
		d, err := device.FirstReady(devices)
		if err != nil {
			return "", fmt.Errorf("%w: enable USB debugging and check 'adb devices'", err)
		}
		serial = d.Serial
		a.Logger.Info("device selected", "serial", serial)
	}
	return adb.Capture(ctx, serial, a.project().ScreenshotsDir, name)
}
