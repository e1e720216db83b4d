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

package config

import "path/filepath"

const DefaultBrailleTable = "en-g1"

type Braille struct {
	Table     string `toml:"table,omitempty"`
	TablesDir string `toml:"tables_dir,omitempty"`
}

// BrailleTable returns the name of the active translation table. Built-in
// tables are referenced by bare name, custom ones by their CSV filename
// (without extension) inside the tables directory.
func (c *Instance) BrailleTable() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.vals.Braille.Table == "" {
		return DefaultBrailleTable
	}
	return c.vals.Braille.Table
}

func (c *Instance) SetBrailleTable(table string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.vals.Braille.Table = table
}

// BrailleTablesDir resolves the directory holding custom translation tables.
func (c *Instance) BrailleTablesDir(dataDir string) string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	dir := c.vals.Braille.TablesDir
	if dir == "" {
		return filepath.Join(dataDir, TablesDirName)
	}
	if filepath.IsAbs(dir) {
		return dir
	}
	return filepath.Join(dataDir, dir)
}
