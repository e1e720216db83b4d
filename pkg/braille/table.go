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
	"path/filepath"
	"sort"
	"strings"
	"unicode/utf8"

	"github.com/gocarina/gocsv"
	"github.com/spf13/afero"
)

// Table maps lowercase runes to cells. Digits are not stored: the
// translator derives them from the a-j cells behind a number sign.
type Table struct {
	cells map[rune]Cell
	name  string
}

func NewTable(name string, cells map[rune]Cell) *Table {
	return &Table{name: name, cells: cells}
}

func (t *Table) Name() string {
	return t.name
}

// Lookup returns the cell for a rune and whether the table defines one.
func (t *Table) Lookup(r rune) (Cell, bool) {
	c, ok := t.cells[r]
	return c, ok
}

// enGrade1 is uncontracted English literary braille.
var enGrade1 = map[rune]Cell{
	'a': mustCell("1"),
	'b': mustCell("12"),
	'c': mustCell("14"),
	'd': mustCell("145"),
	'e': mustCell("15"),
	'f': mustCell("124"),
	'g': mustCell("1245"),
	'h': mustCell("125"),
	'i': mustCell("24"),
	'j': mustCell("245"),
	'k': mustCell("13"),
	'l': mustCell("123"),
	'm': mustCell("134"),
	'n': mustCell("1345"),
	'o': mustCell("135"),
	'p': mustCell("1234"),
	'q': mustCell("12345"),
	'r': mustCell("1235"),
	's': mustCell("234"),
	't': mustCell("2345"),
	'u': mustCell("136"),
	'v': mustCell("1236"),
	'w': mustCell("2456"),
	'x': mustCell("1346"),
	'y': mustCell("13456"),
	'z': mustCell("1356"),
	',': mustCell("2"),
	';': mustCell("23"),
	':': mustCell("25"),
	'.': mustCell("256"),
	'!': mustCell("235"),
	'?': mustCell("236"),
	'\'': mustCell("3"),
	'-': mustCell("36"),
	'(': mustCell("2356"),
	')': mustCell("2356"),
	'"': mustCell("356"),
	'/': mustCell("34"),
}

var builtinTables = map[string]*Table{
	"en-g1": NewTable("en-g1", enGrade1),
}

// BuiltinTable returns a built-in table by name.
func BuiltinTable(name string) (*Table, bool) {
	t, ok := builtinTables[name]
	return t, ok
}

// tableRow is one line of a custom table CSV.
type tableRow struct {
	Character string `csv:"character"`
	Dots      string `csv:"dots"`
}

// LoadTable reads a custom translation table from a CSV file with
// "character,dots" rows, e.g. "a,1" or "ç,12346". Characters must be single
// runes; letters are stored lowercase.
func LoadTable(fsys afero.Fs, path string) (*Table, error) {
	file, err := fsys.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open table file: %w", err)
	}
	defer func() {
		_ = file.Close()
	}()

	var rows []tableRow
	if err := gocsv.Unmarshal(file, &rows); err != nil {
		return nil, fmt.Errorf("failed to parse table csv: %w", err)
	}

	cells := make(map[rune]Cell, len(rows))
	for i, row := range rows {
		if utf8.RuneCountInString(row.Character) != 1 {
			return nil, fmt.Errorf("row %d: character %q must be a single rune", i+1, row.Character)
		}
		r, _ := utf8.DecodeRuneInString(strings.ToLower(row.Character))

		cell, err := ParseDots(row.Dots)
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", i+1, err)
		}

		if _, dup := cells[r]; dup {
			return nil, fmt.Errorf("row %d: duplicate character %q", i+1, row.Character)
		}
		cells[r] = cell
	}

	name := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	return NewTable(name, cells), nil
}

// ResolveTable finds a table by name: built-ins first, then
// <tablesDir>/<name>.csv.
func ResolveTable(fsys afero.Fs, tablesDir, name string) (*Table, error) {
	if t, ok := BuiltinTable(name); ok {
		return t, nil
	}
	t, err := LoadTable(fsys, filepath.Join(tablesDir, name+".csv"))
	if err != nil {
		return nil, fmt.Errorf("unknown table %q: %w", name, err)
	}
	return t, nil
}

// ListTables returns the names of all available tables: built-ins plus any
// CSV files in the tables directory, sorted.
func ListTables(fsys afero.Fs, tablesDir string) []string {
	names := make([]string, 0, len(builtinTables))
	for name := range builtinTables {
		names = append(names, name)
	}

	entries, err := afero.ReadDir(fsys, tablesDir)
	if err == nil {
		for _, entry := range entries {
			if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".csv") {
				continue
			}
			names = append(names, strings.TrimSuffix(entry.Name(), ".csv"))
		}
	}

	sort.Strings(names)
	return names
}
