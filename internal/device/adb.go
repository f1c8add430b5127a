// Package device captures store screenshots from a connected Android device
// through adb.
package device

import (
	"bufio"
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/soksol/playprep/internal/execx"
)

// ErrNoDevice is returned when no device is attached in the "device" state.
var ErrNoDevice = errors.New("no android device connected")

// Play Store portrait screenshot canvas used by Resize.
const (
	StoreWidth  = 1080
	StoreHeight = 1920
)

// StoreCopyDir is the subdirectory of the screenshots directory that holds
// resized store copies. The store check does not count it.
const StoreCopyDir = "playstore"

// Device is one line of `adb devices`.
type Device struct {
	Serial string
	State  string
}

// Ready reports whether the device accepts commands.
func (d Device) Ready() bool { return d.State == "device" }

// ADB drives the adb binary.
type ADB struct {
	Bin    string
	Runner execx.Runner
	Now    func() time.Time
}

// New creates an ADB using bin, defaulting to "adb" on PATH.
func New(bin string, runner execx.Runner) *ADB {
	if bin == "" {
		bin = "adb"
	}
	return &ADB{Bin: bin, Runner: runner, Now: time.Now}
}

// Available reports whether the adb binary can be found.
func (a *ADB) Available() bool {
	_, err := a.Runner.LookPath(a.Bin)
	return err == nil
}

// Devices lists attached devices in the order adb reports them.
func (a *ADB) Devices(ctx context.Context) ([]Device, error) {
	out, err := a.Runner.Run(ctx, a.Bin, "devices")
	if err != nil {
		return nil, fmt.Errorf("listing devices: %w", err)
	}
	return ParseDevices(out), nil
}

// ParseDevices parses the output of `adb devices`, skipping the header and
// daemon status lines.
func ParseDevices(out []byte) []Device {
	var devices []Device
	sc := bufio.NewScanner(bytes.NewReader(out))
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "" || strings.HasPrefix(line, "*") || strings.HasPrefix(line, "List of devices") {
			continue
		}
		fields := strings.Fields(line)
		if len(fields) < 2 {
			continue
		}
		devices = append(devices, Device{Serial: fields[0], State: fields[1]})
	}
	return devices
}

// FirstReady returns the first device in the "device" state.
func FirstReady(devices []Device) (Device, error) {
	for _, d := range devices {
		if d.Ready() {
			return d, nil
		}
	}
	return Device{}, ErrNoDevice
}

// Capture takes a screenshot on the device, pulls it into outDir and removes
// the temporary file from the device. It returns the local path.
func (a *ADB) Capture(ctx context.Context, serial, outDir, name string) (string, error) {
	stamp := a.Now().Format("20060102_150405")
	file := "screenshot_" + stamp + ".png"
	if name != "" {
		file = "screenshot_" + stamp + "_" + name + ".png"
	}
	if err := os.MkdirAll(outDir, 0o755); err != nil {
		return "", fmt.Errorf("creating %s: %w", outDir, err)
	}
	local := filepath.Join(outDir, file)
	remote := "/sdcard/screenshot_" + stamp + ".png"

	if _, err := a.Runner.Run(ctx, a.Bin, "-s", serial, "shell", "screencap", "-p", remote); err != nil {
		return "", fmt.Errorf("capturing screen: %w", err)
	}
	if _, err := a.Runner.Run(ctx, a.Bin, "-s", serial, "pull", remote, local); err != nil {
		return "", fmt.Errorf("pulling %s: %w", remote, err)
	}
	// Cleanup failures leave a stray file on the device; the capture itself succeeded.
	_, _ = a.Runner.Run(ctx, a.Bin, "-s", serial, "shell", "rm", remote)
	return local, nil
}

// Resize fits src onto the store canvas with ImageMagick and writes
// playstore_<name> into outDir.
func Resize(ctx context.Context, runner execx.Runner, src, outDir string) (string, error) {
	convert, err := runner.LookPath("convert")
	if err != nil {
		return "", fmt.Errorf("imagemagick not installed: %w", err)
	}
	if err := os.MkdirAll(outDir, 0o755); err != nil {
		return "", fmt.Errorf("creating %s: %w", outDir, err)
	}
	dst := filepath.Join(outDir, "playstore_"+filepath.Base(src))
	size := fmt.Sprintf("%dx%d", StoreWidth, StoreHeight)
	if _, err := runner.Run(ctx, convert, src,
		"-resize", size,
		"-gravity", "center",
		"-background", "white",
		"-extent", size,
		dst,
	); err != nil {
		return "", fmt.Errorf("resizing %s: %w", src, err)
	}
	return dst, nil
}
