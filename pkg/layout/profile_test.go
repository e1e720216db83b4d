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
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultProfile(t *testing.T) {
	t.Parallel()

	p := DefaultProfile()
	require.NoError(t, p.Validate())

	cells, lines := p.Capacity()
	assert.Equal(t, 30, cells, "A4 with 15mm margins fits 30 cells at 6mm pitch")
	assert.Equal(t, 26, lines, "A4 with 15mm margins fits 26 lines at 10mm pitch")
}

func TestProfileCapacity_ExplicitOverride(t *testing.T) {
	t.Parallel()

	p := DefaultProfile()
	p.CellsPerLine = 28
	p.LinesPerPage = 25

	cells, lines := p.Capacity()
	assert.Equal(t, 28, cells)
	assert.Equal(t, 25, lines)
}

func TestProfileValidate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		mutate  func(*Profile)
		name    string
		wantErr string
	}{
		{
			name:    "missing_name",
			mutate:  func(p *Profile) { p.Name = "" },
			wantErr: "name is required",
		},
		{
			name:    "zero_page_width",
			mutate:  func(p *Profile) { p.PageWidth = 0 },
			wantErr: "page dimensions",
		},
		{
			name:    "negative_margin",
			mutate:  func(p *Profile) { p.MarginLeft = -1 },
			wantErr: "margins",
		},
		{
			name:    "zero_cell_spacing",
			mutate:  func(p *Profile) { p.CellSpacing = 0 },
			wantErr: "spacings",
		},
		{
			name:    "negative_cells_per_line",
			mutate:  func(p *Profile) { p.CellsPerLine = -5 },
			wantErr: "cannot be negative",
		},
		{
			name:    "margins_consume_page",
			mutate:  func(p *Profile) { p.MarginLeft = 120 },
			wantErr: "fits no cells",
		},
		{
			name:    "page_too_short",
			mutate:  func(p *Profile) { p.PageHeight = 20 },
			wantErr: "fits no lines",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			p := DefaultProfile()
			tt.mutate(&p)

			err := p.Validate()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestStoreGet_Builtin(t *testing.T) {
	t.Parallel()

	store := NewStore(afero.NewMemMapFs(), "/profiles")
	p, err := store.Get("default")
	require.NoError(t, err)
	assert.Equal(t, DefaultProfile(), p)
}

func TestStoreGet_FileProfile(t *testing.T) {
	t.Parallel()

	fsys := afero.NewMemMapFs()
	content := `
page_width: 279
page_height: 292
cells_per_line: 40
lines_per_page: 25
`
	require.NoError(t, afero.WriteFile(fsys, "/profiles/letter-wide.yaml", []byte(content), 0o644))

	store := NewStore(fsys, "/profiles")
	p, err := store.Get("letter-wide")
	require.NoError(t, err)

	assert.Equal(t, "letter-wide", p.Name)
	assert.InDelta(t, 279.0, p.PageWidth, 0.001)
	assert.InDelta(t, 6.0, p.CellSpacing, 0.001, "unset fields inherit defaults")

	cells, lines := p.Capacity()
	assert.Equal(t, 40, cells)
	assert.Equal(t, 25, lines)
}

func TestStoreGet_FileOverridesBuiltin(t *testing.T) {
	t.Parallel()

	fsys := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fsys, "/profiles/default.yaml",
		[]byte("margin_top: 20\n"), 0o644))

	store := NewStore(fsys, "/profiles")
	p, err := store.Get("default")
	require.NoError(t, err)
	assert.InDelta(t, 20.0, p.MarginTop, 0.001)
}

func TestStoreGet_Unknown(t *testing.T) {
	t.Parallel()

	store := NewStore(afero.NewMemMapFs(), "/profiles")
	_, err := store.Get("a3-landscape")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown layout profile")
}

func TestStoreGet_InvalidProfileRejected(t *testing.T) {
	t.Parallel()

	fsys := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fsys, "/profiles/broken.yaml",
		[]byte("cell_spacing: -2\n"), 0o644))

	store := NewStore(fsys, "/profiles")
	_, err := store.Get("broken")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "spacings")
}

func TestStoreGet_MalformedYAML(t *testing.T) {
	t.Parallel()

	fsys := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fsys, "/profiles/bad.yaml",
		[]byte("page_width: [nope\n"), 0o644))

	store := NewStore(fsys, "/profiles")
	_, err := store.Get("bad")
	require.Error(t, err)
}

func TestStoreList(t *testing.T) {
	t.Parallel()

	fsys := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fsys, "/profiles/letter.yaml", []byte(""), 0o644))
	require.NoError(t, afero.WriteFile(fsys, "/profiles/a3.yaml", []byte(""), 0o644))
	require.NoError(t, afero.WriteFile(fsys, "/profiles/readme.txt", []byte(""), 0o644))
	require.NoError(t, afero.WriteFile(fsys, "/profiles/default.yaml", []byte(""), 0o644))

	store := NewStore(fsys, "/profiles")
	assert.Equal(t, []string{"a3", "default", "letter"}, store.List(),
		"sorted, no duplicate default, non-yaml ignored")

	empty := NewStore(afero.NewMemMapFs(), "/nowhere")
	assert.Equal(t, []string{"default"}, empty.List())
}
