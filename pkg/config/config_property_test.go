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

package config

import (
	"path/filepath"
	"strings"
	"testing"

	toml "github.com/pelletier/go-toml/v2"
	"pgregory.net/rapid"
)

// TestPropertyValuesTomlRoundTrip verifies that any combination of section
// values survives a marshal/unmarshal cycle unchanged.
func TestPropertyValuesTomlRoundTrip(t *testing.T) {
	t.Parallel()
	rapid.Check(t, func(t *rapid.T) {
		port := rapid.IntRange(1, 65535).Draw(t, "port")
		baud := rapid.SampledFrom([]int{9600, 19200, 115200, 250000}).Draw(t, "baud")
		protocol := rapid.SampledFrom([]string{ProtocolPlain, ProtocolChecksummed}).Draw(t, "protocol")
		device := rapid.StringMatching(`[a-z0-9-]{1,36}`).Draw(t, "device")
		table := rapid.StringMatching(`[a-z]{2}-g[12]`).Draw(t, "table")
		debug := rapid.Bool().Draw(t, "debug")

		vals := BaseDefaults
		vals.Service.APIPort = &port
		vals.Service.DeviceID = device
		vals.Printer.Baud = &baud
		vals.Printer.Protocol = protocol
		vals.Braille.Table = table
		vals.DebugLogging = debug

		data, err := toml.Marshal(&vals)
		if err != nil {
			t.Fatalf("marshal failed: %v", err)
		}

		var decoded Values
		if err := toml.Unmarshal(data, &decoded); err != nil {
			t.Fatalf("unmarshal failed: %v", err)
		}

		if *decoded.Service.APIPort != port {
			t.Fatalf("api port changed: %d != %d", *decoded.Service.APIPort, port)
		}
		if *decoded.Printer.Baud != baud {
			t.Fatalf("baud changed: %d != %d", *decoded.Printer.Baud, baud)
		}
		if decoded.Printer.Protocol != protocol {
			t.Fatalf("protocol changed: %q != %q", decoded.Printer.Protocol, protocol)
		}
		if decoded.Service.DeviceID != device {
			t.Fatalf("device id changed: %q != %q", decoded.Service.DeviceID, device)
		}
		if decoded.Braille.Table != table {
			t.Fatalf("table changed: %q != %q", decoded.Braille.Table, table)
		}
		if decoded.DebugLogging != debug {
			t.Fatalf("debug flag changed")
		}
	})
}

// TestPropertyResolveSoundPathRelative verifies relative sound paths always
// resolve under the data dir's assets directory.
func TestPropertyResolveSoundPathRelative(t *testing.T) {
	t.Parallel()
	rapid.Check(t, func(t *rapid.T) {
		name := rapid.StringMatching(`[a-z]{1,10}\.wav`).Draw(t, "name")
		dataDir := "/" + rapid.StringMatching(`[a-z]{1,8}`).Draw(t, "dataDir")

		resolved, enabled := resolveSoundPath(&name, dataDir)
		if !enabled {
			t.Fatalf("non-empty sound should be enabled")
		}
		if !strings.HasPrefix(resolved, filepath.Join(dataDir, AssetsDir)) {
			t.Fatalf("resolved path %q escapes assets dir", resolved)
		}
	})
}

// TestPropertySpoolDirNeverEmpty verifies the spool dir always resolves to a
// non-empty path under any configuration.
func TestPropertySpoolDirNeverEmpty(t *testing.T) {
	t.Parallel()
	rapid.Check(t, func(t *rapid.T) {
		dir := rapid.SampledFrom([]string{"", "drop", "/var/spool/brlplus"}).Draw(t, "dir")
		dataDir := "/" + rapid.StringMatching(`[a-z]{1,8}`).Draw(t, "dataDir")

		cfg := &Instance{}
		cfg.vals.Spool.Dir = dir

		resolved := cfg.SpoolDir(dataDir)
		if resolved == "" {
			t.Fatalf("spool dir resolved empty for config dir %q", dir)
		}
		if !filepath.IsAbs(resolved) {
			t.Fatalf("spool dir %q should be absolute", resolved)
		}
	})
}
