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
	"time"

	"github.com/stretchr/testify/assert"
)

func TestIsClockReliable(t *testing.T) {
	t.Parallel()

	tests := []struct {
		time     time.Time
		name     string
		expected bool
	}{
		{
			name:     "current year is reliable",
			time:     time.Date(2026, 3, 14, 10, 0, 0, 0, time.UTC),
			expected: true,
		},
		{
			name:     "release year boundary",
			time:     time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC),
			expected: true,
		},
		{
			name:     "year before release is unreliable",
			time:     time.Date(2024, 12, 31, 23, 59, 59, 0, time.UTC),
			expected: false,
		},
		{
			name:     "unix epoch is unreliable",
			time:     time.Unix(0, 0),
			expected: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.expected, IsClockReliable(tt.time))
		})
	}
}
