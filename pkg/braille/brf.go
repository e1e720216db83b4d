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
	"fmt"
	"strings"
)

// brfOrder is the North American ASCII braille alphabet, indexed by cell
// bitmask. brfOrder[n] is the ASCII character for the cell with dot value n.
const brfOrder = ` A1B'K2L@CIF/MSP"E3H9O6R^DJG>NTQ,*5<-U8V.%[$+X!&;:4\0Z7(_?W]#Y)=`

// FromBRF decodes a Braille Ready Format document into lines of cells.
// BRF files are pre-formatted: lines map directly onto embosser lines with
// no further wrapping. Lowercase letters are accepted and fold to their
// uppercase cell. Form feeds separate pages and are returned as line breaks.
func FromBRF(text string) ([][]Cell, error) {
	text = strings.ReplaceAll(text, "\f", "\n")
	rawLines := strings.Split(text, "\n")

	lines := make([][]Cell, 0, len(rawLines))
	for lineNo, raw := range rawLines {
		raw = strings.TrimRight(raw, "\r")
		line := make([]Cell, 0, len(raw))
		for col, ch := range raw {
			if ch >= 'a' && ch <= 'z' {
				ch = ch - 'a' + 'A'
			}
			idx := strings.IndexRune(brfOrder, ch)
			if idx < 0 {
				return nil, fmt.Errorf("invalid brf character %q at line %d column %d",
					ch, lineNo+1, col+1)
			}
			line = append(line, Cell(idx)) //nolint:gosec // idx is 0-63 by construction
		}
		lines = append(lines, line)
	}

	// Trim trailing empty lines left by a final newline.
	for len(lines) > 0 && len(lines[len(lines)-1]) == 0 {
		lines = lines[:len(lines)-1]
	}

	return lines, nil
}
