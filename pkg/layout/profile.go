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

// Package layout maps braille cells onto embosser pages: word wrapping,
// page breaks, and the physical position of every dot.
package layout

import (
	"errors"
	"fmt"
)

// Profile describes the page geometry of an embosser setup. All lengths are
// millimeters. X grows to the right from the left margin, Y grows down the
// page from the top margin.
type Profile struct {
	Name         string  `yaml:"name"`
	PageWidth    float64 `yaml:"page_width"`
	PageHeight   float64 `yaml:"page_height"`
	MarginLeft   float64 `yaml:"margin_left"`
	MarginTop    float64 `yaml:"margin_top"`
	CellSpacing  float64 `yaml:"cell_spacing"`
	LineSpacing  float64 `yaml:"line_spacing"`
	DotSpacing   float64 `yaml:"dot_spacing"`
	CellsPerLine int     `yaml:"cells_per_line,omitempty"`
	LinesPerPage int     `yaml:"lines_per_page,omitempty"`
}

// DefaultProfile is an A4 page with standard literary braille spacing.
func DefaultProfile() Profile {
	return Profile{
		Name:        "default",
		PageWidth:   210,
		PageHeight:  297,
		MarginLeft:  15,
		MarginTop:   15,
		CellSpacing: 6.0,
		LineSpacing: 10.0,
		DotSpacing:  2.5,
	}
}

func (p Profile) Validate() error {
	if p.Name == "" {
		return errors.New("profile name is required")
	}
	if p.PageWidth <= 0 || p.PageHeight <= 0 {
		return fmt.Errorf("profile %s: page dimensions must be positive", p.Name)
	}
	if p.CellSpacing <= 0 || p.LineSpacing <= 0 || p.DotSpacing <= 0 {
		return fmt.Errorf("profile %s: spacings must be positive", p.Name)
	}
	if p.MarginLeft < 0 || p.MarginTop < 0 {
		return fmt.Errorf("profile %s: margins cannot be negative", p.Name)
	}
	if p.CellsPerLine < 0 || p.LinesPerPage < 0 {
		return fmt.Errorf("profile %s: cells per line and lines per page cannot be negative", p.Name)
	}
	if p.cellsPerLine() < 1 {
		return fmt.Errorf("profile %s: page fits no cells", p.Name)
	}
	if p.linesPerPage() < 1 {
		return fmt.Errorf("profile %s: page fits no lines", p.Name)
	}
	return nil
}

// cellsPerLine returns the explicit count or one derived from the usable
// page width. A cell needs its dot column plus the spacing to the next cell.
func (p Profile) cellsPerLine() int {
	if p.CellsPerLine > 0 {
		return p.CellsPerLine
	}
	usable := p.PageWidth - 2*p.MarginLeft
	if usable <= 0 {
		return 0
	}
	return int(usable / p.CellSpacing)
}

// linesPerPage returns the explicit count or one derived from the usable
// page height.
func (p Profile) linesPerPage() int {
	if p.LinesPerPage > 0 {
		return p.LinesPerPage
	}
	usable := p.PageHeight - 2*p.MarginTop
	if usable <= 0 {
		return 0
	}
	return int(usable / p.LineSpacing)
}

// Capacity returns the usable cells per line and lines per page.
func (p Profile) Capacity() (cells, lines int) {
	return p.cellsPerLine(), p.linesPerPage()
}
