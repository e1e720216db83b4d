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
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuiltinTable(t *testing.T) {
	t.Parallel()

	table, ok := BuiltinTable("en-g1")
	require.True(t, ok)
	assert.Equal(t, "en-g1", table.Name())

	// Every letter has a cell.
	for r := 'a'; r <= 'z'; r++ {
		c, ok := table.Lookup(r)
		assert.True(t, ok, "letter %c should be in the table", r)
		assert.False(t, c.IsBlank(), "letter %c should not be blank", r)
	}

	c, ok := table.Lookup('m')
	require.True(t, ok)
	assert.Equal(t, []int{1, 3, 4}, c.Dots())

	_, ok = table.Lookup('€')
	assert.False(t, ok)

	_, ok = BuiltinTable("klingon-g2")
	assert.False(t, ok)
}

func TestLoadTable(t *testing.T) {
	t.Parallel()

	fsys := afero.NewMemMapFs()
	csv := "character,dots\na,1\nç,12346\n!,235\n"
	require.NoError(t, afero.WriteFile(fsys, "/tables/fr-g1.csv", []byte(csv), 0o644))

	table, err := LoadTable(fsys, "/tables/fr-g1.csv")
	require.NoError(t, err)
	assert.Equal(t, "fr-g1", table.Name())

	c, ok := table.Lookup('ç')
	require.True(t, ok)
	assert.Equal(t, []int{1, 2, 3, 4, 6}, c.Dots())

	c, ok = table.Lookup('a')
	require.True(t, ok)
	assert.Equal(t, []int{1}, c.Dots())
}

func TestLoadTable_UppercaseFoldsToLower(t *testing.T) {
	t.Parallel()

	fsys := afero.NewMemMapFs()
	csv := "character,dots\nA,1\n"
	require.NoError(t, afero.WriteFile(fsys, "/t.csv", []byte(csv), 0o644))

	table, err := LoadTable(fsys, "/t.csv")
	require.NoError(t, err)

	_, ok := table.Lookup('a')
	assert.True(t, ok, "uppercase rows should be stored lowercase")
}

func TestLoadTable_Errors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		csv  string
	}{
		{
			name: "multi_rune_character",
			csv:  "character,dots\nch,12345\n",
		},
		{
			name: "invalid_dots",
			csv:  "character,dots\na,17\n",
		},
		{
			name: "duplicate_character",
			csv:  "character,dots\na,1\na,12\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			fsys := afero.NewMemMapFs()
			require.NoError(t, afero.WriteFile(fsys, "/t.csv", []byte(tt.csv), 0o644))

			_, err := LoadTable(fsys, "/t.csv")
			require.Error(t, err)
		})
	}

	t.Run("missing_file", func(t *testing.T) {
		t.Parallel()
		_, err := LoadTable(afero.NewMemMapFs(), "/nope.csv")
		require.Error(t, err)
	})
}

func TestResolveTable(t *testing.T) {
	t.Parallel()

	fsys := afero.NewMemMapFs()
	csv := "character,dots\na,1\n"
	require.NoError(t, afero.WriteFile(fsys, "/tables/custom.csv", []byte(csv), 0o644))

	table, err := ResolveTable(fsys, "/tables", "en-g1")
	require.NoError(t, err)
	assert.Equal(t, "en-g1", table.Name(), "built-ins win")

	table, err = ResolveTable(fsys, "/tables", "custom")
	require.NoError(t, err)
	assert.Equal(t, "custom", table.Name())

	_, err = ResolveTable(fsys, "/tables", "missing")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown table")
}

func TestListTables(t *testing.T) {
	t.Parallel()

	fsys := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fsys, "/tables/de-g1.csv", []byte("character,dots\n"), 0o644))
	require.NoError(t, afero.WriteFile(fsys, "/tables/notes.txt", []byte("x"), 0o644))

	names := ListTables(fsys, "/tables")
	assert.Equal(t, []string{"de-g1", "en-g1"}, names)

	// Missing dir still lists built-ins.
	names = ListTables(afero.NewMemMapFs(), "/nowhere")
	assert.Equal(t, []string{"en-g1"}, names)
}
