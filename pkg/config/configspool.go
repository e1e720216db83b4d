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

type Spool struct {
	Enabled *bool  `toml:"enabled,omitempty"`
	Dir     string `toml:"dir,omitempty"`
}

// SpoolEnabled reports whether the spool directory watcher should run.
// Disabled by default: dropping files only makes sense on hosts set up
// for unattended embossing.
func (c *Instance) SpoolEnabled() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.vals.Spool.Enabled == nil {
		return false
	}
	return *c.vals.Spool.Enabled
}

func (c *Instance) SetSpoolEnabled(enabled bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.vals.Spool.Enabled = &enabled
}

// SpoolDir resolves the watched spool directory.
func (c *Instance) SpoolDir(dataDir string) string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	dir := c.vals.Spool.Dir
	if dir == "" {
		return filepath.Join(dataDir, SpoolDirName)
	}
	if filepath.IsAbs(dir) {
		return dir
	}
	return filepath.Join(dataDir, dir)
}
