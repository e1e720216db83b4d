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
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIsPreferredBridge(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		vid      string
		expected bool
	}{
		{name: "arduino", vid: "2341", expected: true},
		{name: "ch340", vid: "1a86", expected: true},
		{name: "ftdi", vid: "0403", expected: true},
		{name: "cp210x", vid: "10c4", expected: true},
		{name: "stm", vid: "0483", expected: true},
		{name: "unknown vendor", vid: "dead", expected: false},
		{name: "empty", vid: "", expected: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.expected, isPreferredBridge(tt.vid))
		})
	}
}

func TestMatchPort(t *testing.T) {
	t.Parallel()

	ports := []string{"/dev/ttyACM0", "/dev/ttyUSB0", "/dev/ttyUSB1"}

	tests := []struct {
		name      string
		hint      string
		expected  string
		expectErr bool
	}{
		{name: "exact path", hint: "/dev/ttyUSB0", expected: "/dev/ttyUSB0"},
		{name: "basename", hint: "ttyACM0", expected: "/dev/ttyACM0"},
		{name: "typo in basename", hint: "ttyUSBO", expected: "/dev/ttyUSB0"},
		{name: "case difference", hint: "TTYacm0", expected: "/dev/ttyACM0"},
		{name: "nothing close", hint: "lp0", expectErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got, err := matchPort(tt.hint, ports)
			if tt.expectErr {
				require.ErrorIs(t, err, ErrNoPortMatch)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.expected, got)
		})
	}
}

func TestMatchPort_NoCandidates(t *testing.T) {
	t.Parallel()

	_, err := matchPort("/dev/ttyACM0", nil)
	require.ErrorIs(t, err, ErrNoPortMatch)
}

func TestFindPort_EmptyHint(t *testing.T) {
	t.Parallel()

	_, err := FindPort("  ")
	require.ErrorIs(t, err, ErrNoPortMatch)
}

func TestGetSerialDeviceList(t *testing.T) {
	t.Parallel()

	// The device set depends on the host; the call itself must not fail on
	// any supported platform.
	_, err := GetSerialDeviceList()
	require.NoError(t, err)
}

func TestDescribeSerialDevices_PreferredFirst(t *testing.T) {
	t.Parallel()

	infos, err := DescribeSerialDevices()
	require.NoError(t, err)

	seenUnpreferred := false
	for _, info := range infos {
		if !info.Preferred {
			seenUnpreferred = true
		} else {
			assert.False(t, seenUnpreferred, "preferred ports must sort first")
		}
	}
}
