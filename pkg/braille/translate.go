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
	"unicode"

	"github.com/rs/zerolog/log"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// Translator converts text to uncontracted (grade 1) braille cells using a
// translation table.
type Translator struct {
	table *Table
}

func NewTranslator(table *Table) *Translator {
	return &Translator{table: table}
}

func (t *Translator) Table() *Table {
	return t.table
}

// normalizeText strips diacritical marks so accented letters fall back to
// their base cell when the table has no dedicated entry.
func normalizeText(s string) string {
	tr := transform.Chain(
		norm.NFD,
		runes.Remove(runes.In(unicode.Mn)),
		norm.NFC,
	)
	if normalized, _, err := transform.String(tr, s); err == nil {
		return normalized
	}
	return s
}

// digitLetter maps a decimal digit to the letter whose cell represents it
// behind a number sign: 1-9 are a-i, 0 is j.
func digitLetter(r rune) rune {
	if r == '0' {
		return 'j'
	}
	return 'a' + (r - '1')
}

// Translate converts text to cells. Uppercase letters get a capital sign,
// digit runs a number sign. All whitespace becomes a blank cell. Runes the
// table doesn't cover are replaced with the question-mark cell.
func (t *Translator) Translate(text string) []Cell {
	text = normalizeText(text)

	cells := make([]Cell, 0, len(text))
	numberMode := false
	replaced := 0

	for _, r := range text {
		if unicode.IsSpace(r) {
			cells = append(cells, Blank)
			numberMode = false
			continue
		}

		if unicode.IsDigit(r) && r >= '0' && r <= '9' {
			if !numberMode {
				cells = append(cells, NumberSign)
				numberMode = true
			}
			if c, ok := t.table.Lookup(digitLetter(r)); ok {
				cells = append(cells, c)
			} else {
				cells = append(cells, t.replacement())
				replaced++
			}
			continue
		}
		numberMode = false

		lookup := r
		capital := false
		if unicode.IsUpper(r) {
			lookup = unicode.ToLower(r)
			capital = true
		}

		c, ok := t.table.Lookup(lookup)
		if !ok {
			cells = append(cells, t.replacement())
			replaced++
			continue
		}

		if capital {
			cells = append(cells, CapitalSign)
		}
		cells = append(cells, c)
	}

	if replaced > 0 {
		log.Debug().Msgf("translate: replaced %d unsupported runes (table: %s)",
			replaced, t.table.Name())
	}

	return cells
}

// replacement is the cell emitted for runes the table doesn't cover.
func (t *Translator) replacement() Cell {
	if c, ok := t.table.Lookup('?'); ok {
		return c
	}
	return Blank
}
