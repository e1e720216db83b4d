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

const DefaultLayoutProfile = "default"

type Layout struct {
	Profile     string `toml:"profile,omitempty"`
	ProfilesDir string `toml:"profiles_dir,omitempty"`
}

func (c *Instance) LayoutProfile() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.vals.Layout.Profile == "" {
		return DefaultLayoutProfile
	}
	return c.vals.Layout.Profile
}

func (c *Instance) SetLayoutProfile(profile string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.vals.Layout.Profile = profile
}

// LayoutProfilesDir resolves the directory holding page profile files.
func (c *Instance) LayoutProfilesDir(dataDir string) string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	dir := c.vals.Layout.ProfilesDir
	if dir == "" {
		return filepath.Join(dataDir, ProfilesDirName)
	}
	if filepath.IsAbs(dir) {
		return dir
	}
	return filepath.Join(dataDir, dir)
}
