// BRL+
// Copyright (c) 2026 The BRL+ Contributors.
// SPDX-License-Identifier: GPL-3.0-or-later
//
// This file is part of BRL+.
//
// BRL+ is free software: you can redistribute it and/or modify
// it under the terms of the GNU General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// BRL+ is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU General Public License for more details.
//
// You should have received a copy of the GNU General Public License
// along with BRL+.  If not, see <http://www.gnu.org/licenses/>.

package helpers

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"sort"
	"strings"
	"time"

	"github.com/hbollon/go-edlib"
	"github.com/rs/zerolog/log"
	"go.bug.st/serial"
)

// ErrNoPortMatch is returned by FindPort when a hint resolves to nothing.
var ErrNoPortMatch = errors.New("no serial port matches")

type serialDevice struct {
	Vid string
	Pid string
}

// preferredBridges lists the USB serial bridge chips found on embosser
// control boards, by vendor ID. Ports behind one of these are ranked ahead
// of other serial devices when picking a default.
var preferredBridges = []serialDevice{
	{Vid: "2341"}, // Arduino
	{Vid: "1a86"}, // QinHeng CH340
	{Vid: "0403"}, // FTDI
	{Vid: "10c4"}, // Silicon Labs CP210x
	{Vid: "0483"}, // STMicroelectronics
}

// PortInfo describes one candidate serial port.
type PortInfo struct {
	Path      string `json:"path"`
	VendorID  string `json:"vendorId,omitempty"`
	ProductID string `json:"productId,omitempty"`
	Preferred bool   `json:"preferred"`
}

// portUSBIDs queries udevadm for the vendor/product IDs behind a Linux
// device path. Missing udevadm or unparseable output degrades to empty IDs;
// listing must keep working on stripped-down images.
func portUSBIDs(path string) (vid, pid string) {
	if _, err := os.Stat("/usr/bin/udevadm"); err != nil {
		log.Debug().Msg("udevadm not found, skipping usb id lookup")
		return "", ""
	}

	// Validate device path to prevent command injection
	if !strings.HasPrefix(path, "/dev/") {
		log.Error().Str("path", path).Msg("invalid device path")
		return "", ""
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	//nolint:gosec // Safe: path validated to start with /dev/, udevadm uses absolute path
	cmd := exec.CommandContext(ctx, "/usr/bin/udevadm", "info", "--name="+path)
	out, err := cmd.Output()
	if err != nil {
		log.Debug().Err(err).Str("path", path).Msg("udevadm failed")
		return "", ""
	}

	for _, line := range strings.Split(string(out), "\n") {
		if strings.HasPrefix(line, "E: ID_VENDOR_ID=") {
			vid = strings.ToLower(strings.TrimPrefix(line, "E: ID_VENDOR_ID="))
		} else if strings.HasPrefix(line, "E: ID_MODEL_ID=") {
			pid = strings.ToLower(strings.TrimPrefix(line, "E: ID_MODEL_ID="))
		}
	}
	return vid, pid
}

func isPreferredBridge(vid string) bool {
	for _, v := range preferredBridges {
		if vid == v.Vid {
			return true
		}
	}
	return false
}

func getLinuxList() ([]string, error) {
	path := "/dev"

	if _, err := os.Stat(path); os.IsNotExist(err) {
		return []string{}, nil
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open /dev directory: %w", err)
	}
	defer func(f *os.File) {
		closeErr := f.Close()
		if closeErr != nil {
			log.Warn().Err(closeErr).Msg("failed to close serial device folder")
		}
	}(f)

	files, err := f.Readdir(0)
	if err != nil {
		return nil, fmt.Errorf("failed to read /dev directory: %w", err)
	}

	devices := make([]string, 0, len(files))

	for _, v := range files {
		if v.IsDir() {
			continue
		}

		if !strings.HasPrefix(v.Name(), "ttyUSB") && !strings.HasPrefix(v.Name(), "ttyACM") {
			continue
		}

		devices = append(devices, filepath.Join(path, v.Name()))
	}

	sort.Strings(devices)
	return devices, nil
}

// GetSerialDeviceList returns the device paths that could plausibly be an
// embosser on this platform.
func GetSerialDeviceList() ([]string, error) {
	switch runtime.GOOS {
	case "linux":
		return getLinuxList()
	case "darwin":
		var devices []string
		ports, err := serial.GetPortsList()
		if err != nil {
			return nil, fmt.Errorf("failed to get serial ports list on darwin: %w", err)
		}

		for _, v := range ports {
			// The call-up device is the one embossers are driven through.
			if !strings.HasPrefix(v, "/dev/cu.usbmodem") && !strings.HasPrefix(v, "/dev/cu.usbserial") {
				continue
			}
			devices = append(devices, v)
		}

		return devices, nil
	case "windows":
		var devices []string
		ports, err := serial.GetPortsList()
		if err != nil {
			return nil, fmt.Errorf("failed to get serial ports list on windows: %w", err)
		}

		for _, v := range ports {
			if !strings.HasPrefix(v, "COM") {
				continue
			}
			devices = append(devices, v)
		}

		return devices, nil
	default:
		ports, err := serial.GetPortsList()
		if err != nil {
			return nil, fmt.Errorf("failed to get serial ports list: %w", err)
		}
		return ports, nil
	}
}

// DescribeSerialDevices returns the candidate ports with USB identity where
// the platform exposes one, ordered with preferred bridge chips first.
func DescribeSerialDevices() ([]PortInfo, error) {
	paths, err := GetSerialDeviceList()
	if err != nil {
		return nil, err
	}

	infos := make([]PortInfo, 0, len(paths))
	for _, p := range paths {
		info := PortInfo{Path: p}
		if runtime.GOOS == "linux" {
			vid, pid := portUSBIDs(p)
			info.VendorID = vid
			info.ProductID = pid
			info.Preferred = isPreferredBridge(vid)
		}
		infos = append(infos, info)
	}

	sort.SliceStable(infos, func(i, j int) bool {
		return infos[i].Preferred && !infos[j].Preferred
	})
	return infos, nil
}

// minPortSimilarity is the Jaro-Winkler floor below which a hint is treated
// as naming a different device entirely.
const minPortSimilarity = 0.75

// FindPort resolves a user-supplied port hint to a device path. An exact
// path wins; otherwise the hint is fuzzy matched against the candidate
// list so "usbmodem" or a mistyped "ttyUSBO" still lands on the device.
func FindPort(hint string) (string, error) {
	hint = strings.TrimSpace(hint)
	if hint == "" {
		return "", fmt.Errorf("%w: empty hint", ErrNoPortMatch)
	}

	ports, err := GetSerialDeviceList()
	if err != nil {
		return "", err
	}
	return matchPort(hint, ports)
}

// matchPort picks the best candidate for hint from ports.
func matchPort(hint string, ports []string) (string, error) {
	for _, p := range ports {
		if p == hint {
			return p, nil
		}
	}

	best := ""
	bestScore := float32(0)
	target := strings.ToLower(hint)
	for _, p := range ports {
		for _, candidate := range []string{p, filepath.Base(p)} {
			score := edlib.JaroWinklerSimilarity(target, strings.ToLower(candidate))
			if score > bestScore {
				best = p
				bestScore = score
			}
		}
	}

	if best == "" || bestScore < minPortSimilarity {
		return "", fmt.Errorf("%w: %q", ErrNoPortMatch, hint)
	}

	log.Debug().Str("hint", hint).Str("port", best).
		Float32("score", bestScore).Msg("fuzzy matched serial port")
	return best, nil
}
