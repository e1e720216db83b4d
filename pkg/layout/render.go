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
	"github.com/KabirK-05/BRL-Plus/pkg/braille"
	"github.com/rs/zerolog/log"
)

// Dot is one embossed dot on a page, positioned in millimeters from the
// page origin.
type Dot struct {
	Page int     `json:"page"`
	X    float64 `json:"x"`
	Y    float64 `json:"y"`
}

// Document is a fully laid out print: every dot with its page, in reading
// order (left to right, line by line, page by page).
type Document struct {
	Dots  []Dot `json:"dots"`
	Cells int   `json:"cells"`
	Lines int   `json:"lines"`
	Pages int   `json:"pages"`
}

// Render wraps a cell stream onto pages and positions every dot. Words
// (runs of cells between blanks) move to the next line as a unit; words
// longer than a line are hard-split.
func Render(p Profile, cells []braille.Cell) (Document, error) {
	if err := p.Validate(); err != nil {
		return Document{}, err
	}

	width, _ := p.Capacity()
	lines := wrapCells(cells, width)
	return place(p, lines), nil
}

// RenderLines positions pre-formatted lines (a BRF document) without
// wrapping. Overlong lines are truncated to the line width.
func RenderLines(p Profile, lines [][]braille.Cell) (Document, error) {
	if err := p.Validate(); err != nil {
		return Document{}, err
	}

	width, _ := p.Capacity()
	truncated := 0
	fitted := make([][]braille.Cell, len(lines))
	for i, line := range lines {
		if len(line) > width {
			line = line[:width]
			truncated++
		}
		fitted[i] = line
	}
	if truncated > 0 {
		log.Warn().Msgf("layout: truncated %d pre-formatted lines to %d cells", truncated, width)
	}

	return place(p, fitted), nil
}

// Wrap splits a cell stream into the lines Render would produce, without
// computing dot positions. Used to preview a translation.
func Wrap(p Profile, cells []braille.Cell) ([][]braille.Cell, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}
	width, _ := p.Capacity()
	return wrapCells(cells, width), nil
}

// wrapCells splits a cell stream into lines of at most width cells,
// breaking at blanks. Runs of blanks collapse into single separators.
func wrapCells(cells []braille.Cell, width int) [][]braille.Cell {
	words := splitWords(cells)

	var lines [][]braille.Cell
	var line []braille.Cell

	flush := func() {
		if len(line) > 0 {
			lines = append(lines, line)
			line = nil
		}
	}

	for _, word := range words {
		// Hard-split words that can never fit.
		for len(word) > width {
			flush()
			lines = append(lines, word[:width])
			word = word[width:]
		}
		if len(word) == 0 {
			continue
		}

		switch {
		case len(line) == 0:
			line = append(line, word...)
		case len(line)+1+len(word) <= width:
			line = append(line, braille.Blank)
			line = append(line, word...)
		default:
			flush()
			line = append(line, word...)
		}
	}
	flush()

	return lines
}

func splitWords(cells []braille.Cell) [][]braille.Cell {
	var words [][]braille.Cell
	var word []braille.Cell
	for _, c := range cells {
		if c.IsBlank() {
			if len(word) > 0 {
				words = append(words, word)
				word = nil
			}
			continue
		}
		word = append(word, c)
	}
	if len(word) > 0 {
		words = append(words, word)
	}
	return words
}

// place positions every dot of every line. Dots within a cell sit in two
// columns of three, dot-spacing apart.
func place(p Profile, lines [][]braille.Cell) Document {
	_, pageLines := p.Capacity()

	doc := Document{Lines: len(lines)}
	for i, line := range lines {
		page := i/pageLines + 1
		row := i % pageLines
		baseY := p.MarginTop + float64(row)*p.LineSpacing

		for col, cell := range line {
			if cell.IsBlank() {
				continue
			}
			doc.Cells++
			baseX := p.MarginLeft + float64(col)*p.CellSpacing

			for _, d := range cell.Dots() {
				x := baseX
				y := baseY
				if d >= 4 {
					x += p.DotSpacing
					y += float64(d-4) * p.DotSpacing
				} else {
					y += float64(d-1) * p.DotSpacing
				}
				doc.Dots = append(doc.Dots, Dot{Page: page, X: x, Y: y})
			}
		}
	}

	if len(lines) > 0 {
		doc.Pages = (len(lines)-1)/pageLines + 1
	}
	return doc
}
