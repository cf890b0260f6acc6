// Package device discovers the touchpad input device, reads its reported
// geometry, and turns its raw evdev event stream into engine.FrameState
// values — the kernel touch event source named in the external interfaces.
package device

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"gestured/internal/geometry"
)

const inputDir = "/dev/input"

// Discover scans /dev/input for the first event device that looks like a
// touchpad, in device-name order.
func Discover() (string, error) {
	entries, err := os.ReadDir(inputDir)
	if err != nil {
		return "", fmt.Errorf("reading %s: %w", inputDir, err)
	}

	var candidates []string
	for _, e := range entries {
		if strings.HasPrefix(e.Name(), "event") {
			candidates = append(candidates, filepath.Join(inputDir, e.Name()))
		}
	}
	sort.Strings(candidates)

	for _, path := range candidates {
		ok, err := isTouchpad(path)
		if err != nil {
			continue
		}
		if ok {
			return path, nil
		}
	}
	return "", fmt.Errorf("no touchpad device found in %s", inputDir)
}

// ReadGeometry opens path to read the multitouch position axes' reported
// maximum, giving the touchpad's (width, height) in device units, mirroring
// original_source/src/input.rs's calculate_move_threshold_units.
func ReadGeometry(path string) (geometry.Size, error) {
	f, err := os.Open(path)
	if err != nil {
		return geometry.Size{}, err
	}
	defer f.Close()

	xInfo, err := readAbsInfo(f.Fd(), absMtPositionX)
	if err != nil {
		return geometry.Size{}, fmt.Errorf("reading ABS_MT_POSITION_X info: %w", err)
	}
	yInfo, err := readAbsInfo(f.Fd(), absMtPositionY)
	if err != nil {
		return geometry.Size{}, fmt.Errorf("reading ABS_MT_POSITION_Y info: %w", err)
	}

	return geometry.Size{
		Width:  uint16(xInfo.Maximum),
		Height: uint16(yInfo.Maximum),
	}, nil
}
