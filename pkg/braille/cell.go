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

// Package braille translates text into six-dot braille cells.
package braille

import (
	"fmt"
	"strings"
)

// Cell is a six-dot braille cell stored as a bitmask. Dot 1 occupies the
// lowest bit, dot 6 the sixth. Dots are numbered column-first:
//
//	1 4
//	2 5
//	3 6
type Cell uint8

// Blank is the empty cell, used for word spacing.
const Blank Cell = 0

const (
	// CapitalSign precedes an uppercase letter (dot 6).
	CapitalSign Cell = 1 << 5
	// NumberSign switches the following a-j cells to digits (dots 3456).
	NumberSign Cell = 1<<2 | 1<<3 | 1<<4 | 1<<5
)

const maxDot = 6

// ParseDots converts a dot-number string like "135" into a Cell. The empty
// string and "0" both mean a blank cell.
func ParseDots(s string) (Cell, error) {
	s = strings.TrimSpace(s)
	if s == "" || s == "0" {
		return Blank, nil
	}

	var c Cell
	for _, r := range s {
		if r < '1' || r > '6' {
			return Blank, fmt.Errorf("invalid dot %q in %q: dots are 1-6", r, s)
		}
		dot := uint(r - '1')
		if c&(1<<dot) != 0 {
			return Blank, fmt.Errorf("duplicate dot %c in %q", r, s)
		}
		c |= 1 << dot
	}
	return c, nil
}

// mustCell is ParseDots for the built-in tables, where a bad spec is a bug.
func mustCell(s string) Cell {
	c, err := ParseDots(s)
	if err != nil {
		panic(err)
	}
	return c
}

// HasDot reports whether dot n (1-6) is raised.
func (c Cell) HasDot(n int) bool {
	if n < 1 || n > maxDot {
		return false
	}
	return c&(1<<uint(n-1)) != 0
}

// Dots returns the raised dot numbers in ascending order.
func (c Cell) Dots() []int {
	dots := make([]int, 0, maxDot)
	for n := 1; n <= maxDot; n++ {
		if c.HasDot(n) {
			dots = append(dots, n)
		}
	}
	return dots
}

// IsBlank reports whether no dots are raised.
func (c Cell) IsBlank() bool {
	return c == Blank
}

// Rune returns the Unicode braille pattern for the cell. The braille block
// encodes the same dot bitmask as an offset from U+2800.
func (c Cell) Rune() rune {
	return rune(0x2800 + int(c))
}

func (c Cell) String() string {
	return string(c.Rune())
}
