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

package jobs

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/KabirK-05/BRL-Plus/pkg/braille"
	"github.com/KabirK-05/BRL-Plus/pkg/layout"
	"github.com/KabirK-05/BRL-Plus/pkg/printopts"
)

// Request describes one print submission before it becomes a job.
// Either Text (plain text or BRF, per Options.Format) or Lines
// (pre-rendered dot patterns) carries the content.
type Request struct {
	Source  string
	Name    string
	Text    string
	Lines   []string
	Options printopts.Options
}

// buildDocument runs the translation pipeline for a request and returns the
// fully laid out document plus the table and layout names that were used.
func (m *Manager) buildDocument(req Request) (layout.Document, string, string, error) {
	tableName := req.Options.Table
	if tableName == "" {
		tableName = m.cfg.BrailleTable()
	}
	layoutName := req.Options.Layout
	if layoutName == "" {
		layoutName = m.cfg.LayoutProfile()
	}

	profile, err := m.layoutStore().Get(layoutName)
	if err != nil {
		return layout.Document{}, "", "", err
	}

	var doc layout.Document
	switch {
	case len(req.Lines) > 0:
		lines, parseErr := parseDotLines(req.Lines)
		if parseErr != nil {
			return layout.Document{}, "", "", parseErr
		}
		doc, err = layout.RenderLines(profile, lines)
	case req.Options.Format == printopts.FormatBRF:
		lines, brfErr := braille.FromBRF(req.Text)
		if brfErr != nil {
			return layout.Document{}, "", "", brfErr
		}
		doc, err = layout.RenderLines(profile, lines)
	default:
		table, resolveErr := braille.ResolveTable(m.fsys, m.tablesDir(), tableName)
		if resolveErr != nil {
			return layout.Document{}, "", "", resolveErr
		}
		cells := braille.NewTranslator(table).Translate(req.Text)
		doc, err = layout.Render(profile, cells)
	}
	if err != nil {
		return layout.Document{}, "", "", err
	}

	copies := req.Options.Copies
	if copies < 1 {
		copies = 1
	}
	return expandCopies(doc, copies), tableName, layoutName, nil
}

// parseDotLines converts raw dot-pattern lines into cell rows. Each line
// holds whitespace-separated cell patterns ("1 135 0"), where "0" or an
// empty pattern is a blank cell.
func parseDotLines(raw []string) ([][]braille.Cell, error) {
	lines := make([][]braille.Cell, len(raw))
	for i, line := range raw {
		specs := strings.Fields(line)
		cells := make([]braille.Cell, 0, len(specs))
		for _, spec := range specs {
			cell, err := braille.ParseDots(spec)
			if err != nil {
				return nil, fmt.Errorf("line %d: %w", i+1, err)
			}
			cells = append(cells, cell)
		}
		lines[i] = cells
	}
	return lines, nil
}

// expandCopies repeats a document n times, shifting each copy onto fresh
// pages. The page barrier between copies falls out of the page numbering,
// so every copy starts after a paper change.
func expandCopies(doc layout.Document, n int) layout.Document {
	if n <= 1 || len(doc.Dots) == 0 {
		return doc
	}

	out := layout.Document{
		Dots:  make([]layout.Dot, 0, len(doc.Dots)*n),
		Cells: doc.Cells * n,
		Lines: doc.Lines * n,
		Pages: doc.Pages * n,
	}
	for copyIdx := range n {
		offset := copyIdx * doc.Pages
		for _, d := range doc.Dots {
			d.Page += offset
			out.Dots = append(out.Dots, d)
		}
	}
	return out
}

// summarizeName derives a display name for unnamed submissions from the
// start of the content.
func summarizeName(req Request) string {
	if req.Name != "" {
		return req.Name
	}

	text := req.Text
	if text == "" && len(req.Lines) > 0 {
		return fmt.Sprintf("dot document (%d lines)", len(req.Lines))
	}

	line := text
	if idx := strings.IndexByte(line, '\n'); idx >= 0 {
		line = line[:idx]
	}
	line = strings.TrimSpace(line)

	const maxName = 40
	if utf8.RuneCountInString(line) > maxName {
		runes := []rune(line)
		line = string(runes[:maxName]) + "…"
	}
	if line == "" {
		return "untitled document"
	}
	return line
}
