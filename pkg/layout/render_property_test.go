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

package layout

import (
	"testing"

	"github.com/KabirK-05/BRL-Plus/pkg/braille"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"
)

// drawProfile generates a valid profile whose page dimensions are derived
// from the wanted capacity, so every generated geometry fits at least one
// cell and one line.
func drawProfile(t *rapid.T) Profile {
	marginLeft := float64(rapid.IntRange(0, 20).Draw(t, "marginLeft"))
	marginTop := float64(rapid.IntRange(0, 20).Draw(t, "marginTop"))
	cellSpacing := float64(rapid.IntRange(5, 8).Draw(t, "cellSpacing"))
	lineSpacing := float64(rapid.IntRange(8, 12).Draw(t, "lineSpacing"))
	dotSpacing := float64(rapid.IntRange(2, 3).Draw(t, "dotSpacing"))
	cells := rapid.IntRange(1, 30).Draw(t, "cells")
	lines := rapid.IntRange(1, 20).Draw(t, "lines")

	return Profile{
		Name:        "generated",
		PageWidth:   2*marginLeft + cellSpacing*float64(cells),
		PageHeight:  2*marginTop + lineSpacing*float64(lines),
		MarginLeft:  marginLeft,
		MarginTop:   marginTop,
		CellSpacing: cellSpacing,
		LineSpacing: lineSpacing,
		DotSpacing:  dotSpacing,
	}
}

func drawCells(t *rapid.T) []braille.Cell {
	masks := rapid.SliceOfN(rapid.IntRange(0, 63), 0, 120).Draw(t, "masks")
	out := make([]braille.Cell, len(masks))
	for i, m := range masks {
		out[i] = braille.Cell(m)
	}
	return out
}

func TestPropertyRenderDotsWithinPage(t *testing.T) {
	t.Parallel()
	rapid.Check(t, func(t *rapid.T) {
		p := drawProfile(t)
		doc, err := Render(p, drawCells(t))
		require.NoError(t, err)

		prevPage := 1
		for _, d := range doc.Dots {
			require.GreaterOrEqual(t, d.X, p.MarginLeft)
			require.LessOrEqual(t, d.X, p.PageWidth)
			require.GreaterOrEqual(t, d.Y, p.MarginTop)
			require.LessOrEqual(t, d.Y, p.PageHeight)

			require.GreaterOrEqual(t, d.Page, prevPage)
			require.LessOrEqual(t, d.Page, doc.Pages)
			prevPage = d.Page
		}
	})
}

func TestPropertyRenderPreservesCells(t *testing.T) {
	t.Parallel()
	rapid.Check(t, func(t *rapid.T) {
		p := drawProfile(t)
		cells := drawCells(t)

		doc, err := Render(p, cells)
		require.NoError(t, err)

		nonBlank := 0
		wantDots := 0
		for _, c := range cells {
			if c.IsBlank() {
				continue
			}
			nonBlank++
			wantDots += len(c.Dots())
		}

		require.Equal(t, nonBlank, doc.Cells)
		require.Len(t, doc.Dots, wantDots)
		if nonBlank == 0 {
			require.Zero(t, doc.Lines)
			require.Zero(t, doc.Pages)
		} else {
			require.GreaterOrEqual(t, doc.Pages, 1)
		}
	})
}

func TestPropertyWrapCellsLineDiscipline(t *testing.T) {
	t.Parallel()
	rapid.Check(t, func(t *rapid.T) {
		width := rapid.IntRange(1, 40).Draw(t, "width")
		cells := drawCells(t)

		lines := wrapCells(cells, width)

		var got []braille.Cell
		for _, line := range lines {
			require.NotEmpty(t, line)
			require.LessOrEqual(t, len(line), width)
			require.False(t, line[0].IsBlank())
			require.False(t, line[len(line)-1].IsBlank())
			for _, c := range line {
				if !c.IsBlank() {
					got = append(got, c)
				}
			}
		}

		var want []braille.Cell
		for _, c := range cells {
			if !c.IsBlank() {
				want = append(want, c)
			}
		}
		require.Equal(t, want, got)
	})
}
