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
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// testProfile fits 5 cells per line and 3 lines per page.
func testProfile() Profile {
	return Profile{
		Name:        "test",
		PageWidth:   40,
		PageHeight:  40,
		MarginLeft:  5,
		MarginTop:   5,
		CellSpacing: 6,
		LineSpacing: 10,
		DotSpacing:  2.5,
	}
}

// cellsOfSpecs builds a cell slice from dot specs, "-" meaning blank.
func cellsOfSpecs(t *testing.T, specs ...string) []braille.Cell {
	t.Helper()
	out := make([]braille.Cell, 0, len(specs))
	for _, spec := range specs {
		if spec == "-" {
			out = append(out, braille.Blank)
			continue
		}
		c, err := braille.ParseDots(spec)
		require.NoError(t, err)
		out = append(out, c)
	}
	return out
}

func TestRender_DotPositions(t *testing.T) {
	t.Parallel()

	p := testProfile()
	width, height := p.Capacity()
	require.Equal(t, 5, width)
	require.Equal(t, 3, height)

	// Two cells: dot 1, then dots 1+2.
	doc, err := Render(p, cellsOfSpecs(t, "1", "12"))
	require.NoError(t, err)

	want := []Dot{
		{Page: 1, X: 5, Y: 5},
		{Page: 1, X: 11, Y: 5},
		{Page: 1, X: 11, Y: 7.5},
	}
	assert.Equal(t, want, doc.Dots)
	assert.Equal(t, 2, doc.Cells)
	assert.Equal(t, 1, doc.Lines)
	assert.Equal(t, 1, doc.Pages)
}

func TestRender_RightColumnDots(t *testing.T) {
	t.Parallel()

	// A full cell: dots 1-6 in two columns of three.
	doc, err := Render(testProfile(), cellsOfSpecs(t, "123456"))
	require.NoError(t, err)

	want := []Dot{
		{Page: 1, X: 5, Y: 5},
		{Page: 1, X: 5, Y: 7.5},
		{Page: 1, X: 5, Y: 10},
		{Page: 1, X: 7.5, Y: 5},
		{Page: 1, X: 7.5, Y: 7.5},
		{Page: 1, X: 7.5, Y: 10},
	}
	assert.Equal(t, want, doc.Dots)
}

func TestRender_WordWrap(t *testing.T) {
	t.Parallel()

	// Width 5: "aaa bb" fits one line, adding "cc" pushes it to line two.
	doc, err := Render(testProfile(), cellsOfSpecs(t, "1", "1", "1", "-", "1", "1", "-", "14", "14"))
	require.NoError(t, err)

	assert.Equal(t, 2, doc.Lines)
	assert.Equal(t, 1, doc.Pages)

	// Second line starts back at the left margin, one line pitch down.
	assert.InDelta(t, 5.0, doc.Dots[5].X, 0.001)
	assert.InDelta(t, 15.0, doc.Dots[5].Y, 0.001)
}

func TestRender_WordMovesAsUnit(t *testing.T) {
	t.Parallel()

	// "aaaa bbb": the second word doesn't fit after the first (4+1+3 > 5),
	// so it starts line two rather than splitting.
	doc, err := Render(testProfile(),
		cellsOfSpecs(t, "1", "1", "1", "1", "-", "12", "12", "12"))
	require.NoError(t, err)

	require.Equal(t, 2, doc.Lines)
	require.Len(t, doc.Dots, 4+6)
	assert.InDelta(t, 5.0, doc.Dots[4].X, 0.001, "word starts at the margin")
	assert.InDelta(t, 15.0, doc.Dots[4].Y, 0.001)
}

func TestRender_LongWordHardSplit(t *testing.T) {
	t.Parallel()

	// Seven cells with no blanks must split 5+2.
	specs := make([]string, 7)
	for i := range specs {
		specs[i] = "1"
	}
	doc, err := Render(testProfile(), cellsOfSpecs(t, specs...))
	require.NoError(t, err)
	assert.Equal(t, 2, doc.Lines)
	assert.Len(t, doc.Dots, 7)
}

func TestRender_PageBreak(t *testing.T) {
	t.Parallel()

	// Four words of five cells each fill four lines; the page holds three.
	specs := make([]string, 0, 4*6)
	for w := 0; w < 4; w++ {
		for c := 0; c < 5; c++ {
			specs = append(specs, "1")
		}
		specs = append(specs, "-")
	}
	doc, err := Render(testProfile(), cellsOfSpecs(t, specs...))
	require.NoError(t, err)

	assert.Equal(t, 4, doc.Lines)
	assert.Equal(t, 2, doc.Pages)

	last := doc.Dots[len(doc.Dots)-1]
	assert.Equal(t, 2, last.Page)
	assert.InDelta(t, 5.0, last.Y, 0.001, "first row of the new page starts at the top margin")
}

func TestRender_BlankRunsCollapse(t *testing.T) {
	t.Parallel()

	doc, err := Render(testProfile(), cellsOfSpecs(t, "1", "-", "-", "-", "1"))
	require.NoError(t, err)

	require.Len(t, doc.Dots, 2)
	assert.InDelta(t, 5.0, doc.Dots[0].X, 0.001)
	assert.InDelta(t, 17.0, doc.Dots[1].X, 0.001, "one separator cell between words")
	assert.Equal(t, 1, doc.Lines)
}

func TestRender_Empty(t *testing.T) {
	t.Parallel()

	doc, err := Render(testProfile(), nil)
	require.NoError(t, err)
	assert.Empty(t, doc.Dots)
	assert.Zero(t, doc.Pages)
	assert.Zero(t, doc.Lines)
}

func TestRender_InvalidProfile(t *testing.T) {
	t.Parallel()

	p := testProfile()
	p.CellSpacing = 0
	_, err := Render(p, cellsOfSpecs(t, "1"))
	require.Error(t, err)
}

func TestRenderLines_Preformatted(t *testing.T) {
	t.Parallel()

	lines := [][]braille.Cell{
		cellsOfSpecs(t, "1", "12"),
		{},
		cellsOfSpecs(t, "14"),
	}
	doc, err := RenderLines(testProfile(), lines)
	require.NoError(t, err)

	assert.Equal(t, 3, doc.Lines, "blank lines occupy a row")
	require.Len(t, doc.Dots, 4)
	assert.InDelta(t, 25.0, doc.Dots[3].Y, 0.001, "third row sits two line pitches down")
}

func TestRenderLines_TruncatesOverlongLines(t *testing.T) {
	t.Parallel()

	long := cellsOfSpecs(t, "1", "1", "1", "1", "1", "1", "1")
	doc, err := RenderLines(testProfile(), [][]braille.Cell{long})
	require.NoError(t, err)

	assert.Len(t, doc.Dots, 5, "line cut to the profile width")
	assert.Equal(t, 1, doc.Lines)
}
