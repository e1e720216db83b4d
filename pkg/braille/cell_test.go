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

package braille

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseDots(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		input   string
		want    Cell
		wantErr bool
	}{
		{
			name:  "single_dot",
			input: "1",
			want:  Cell(1),
		},
		{
			name:  "dots_135",
			input: "135",
			want:  Cell(1 | 4 | 16),
		},
		{
			name:  "all_dots",
			input: "123456",
			want:  Cell(63),
		},
		{
			name:  "empty_is_blank",
			input: "",
			want:  Blank,
		},
		{
			name:  "zero_is_blank",
			input: "0",
			want:  Blank,
		},
		{
			name:  "whitespace_trimmed",
			input: " 14 ",
			want:  Cell(1 | 8),
		},
		{
			name:    "dot_out_of_range",
			input:   "7",
			wantErr: true,
		},
		{
			name:    "duplicate_dot",
			input:   "11",
			wantErr: true,
		},
		{
			name:    "non_digit",
			input:   "1a",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got, err := ParseDots(tt.input)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestCellDots(t *testing.T) {
	t.Parallel()

	c := mustCell("135")
	assert.Equal(t, []int{1, 3, 5}, c.Dots())
	assert.True(t, c.HasDot(1))
	assert.False(t, c.HasDot(2))
	assert.False(t, c.HasDot(7), "out-of-range dot is never raised")

	assert.Empty(t, Blank.Dots())
	assert.True(t, Blank.IsBlank())
	assert.False(t, c.IsBlank())
}

func TestCellRune(t *testing.T) {
	t.Parallel()

	assert.Equal(t, '⠀', Blank.Rune(), "blank cell is the empty braille pattern")
	assert.Equal(t, '⠁', mustCell("1").Rune(), "dot 1 is U+2801")
	assert.Equal(t, "⠃", mustCell("12").String())
}

func TestSignCells(t *testing.T) {
	t.Parallel()

	assert.Equal(t, []int{6}, CapitalSign.Dots())
	assert.Equal(t, []int{3, 4, 5, 6}, NumberSign.Dots())
}
