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
	"fmt"
	"path/filepath"
	"sort"
	"strings"

	"github.com/spf13/afero"
	"gopkg.in/yaml.v3"
)

// Store loads page profiles from a directory of YAML files. The built-in
// default profile is always available under its own name.
type Store struct {
	fsys afero.Fs
	dir  string
}

func NewStore(fsys afero.Fs, dir string) *Store {
	return &Store{fsys: fsys, dir: dir}
}

// Get returns a profile by name. File profiles may override the built-in
// default by shipping a default.yaml.
func (s *Store) Get(name string) (Profile, error) {
	path := filepath.Join(s.dir, name+".yaml")

	exists, err := afero.Exists(s.fsys, path)
	if err != nil {
		return Profile{}, fmt.Errorf("failed to check profile file: %w", err)
	}
	if !exists {
		if def := DefaultProfile(); name == def.Name {
			return def, nil
		}
		return Profile{}, fmt.Errorf("unknown layout profile %q", name)
	}

	data, err := afero.ReadFile(s.fsys, path)
	if err != nil {
		return Profile{}, fmt.Errorf("failed to read profile file: %w", err)
	}

	// Unset fields inherit the built-in defaults so profile files only need
	// to name what they change.
	profile := DefaultProfile()
	profile.Name = name
	if err := yaml.Unmarshal(data, &profile); err != nil {
		return Profile{}, fmt.Errorf("failed to parse profile %q: %w", name, err)
	}

	if err := profile.Validate(); err != nil {
		return Profile{}, err
	}
	return profile, nil
}

// List returns the names of all available profiles, sorted, with the
// built-in default included.
func (s *Store) List() []string {
	names := []string{DefaultProfile().Name}

	entries, err := afero.ReadDir(s.fsys, s.dir)
	if err == nil {
		for _, entry := range entries {
			if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".yaml") {
				continue
			}
			name := strings.TrimSuffix(entry.Name(), ".yaml")
			if name != DefaultProfile().Name {
				names = append(names, name)
			}
		}
	}

	sort.Strings(names)
	return names
}
