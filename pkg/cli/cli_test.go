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

package cli

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/KabirK-05/BRL-Plus/pkg/api/models"
	"github.com/KabirK-05/BRL-Plus/pkg/printopts"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSplitAPIArg(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		arg        string
		wantMethod string
		wantParams string
	}{
		{
			name:       "method only",
			arg:        "version",
			wantMethod: "version",
			wantParams: "",
		},
		{
			name:       "method with params",
			arg:        `connect:{"port":"/dev/ttyACM0"}`,
			wantMethod: "connect",
			wantParams: `{"port":"/dev/ttyACM0"}`,
		},
		{
			name:       "params containing colons",
			arg:        `print.text:{"text":"a:b:c"}`,
			wantMethod: "print.text",
			wantParams: `{"text":"a:b:c"}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			method, params := splitAPIArg(tt.arg)
			assert.Equal(t, tt.wantMethod, method)
			assert.Equal(t, tt.wantParams, params)
		})
	}
}

func TestPrintFileParams(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "letter.txt")
	require.NoError(t, os.WriteFile(path, []byte("dear reader"), 0o600))

	raw, err := printFileParams(path, "en-g1", "default", 2)
	require.NoError(t, err)

	var params models.PrintTextParams
	require.NoError(t, json.Unmarshal([]byte(raw), &params))
	assert.Equal(t, "dear reader", params.Text)
	assert.Equal(t, "letter", params.Name)
	assert.Equal(t, "en-g1", params.Options["table"])
	assert.Equal(t, "default", params.Options["layout"])
	assert.Equal(t, "2", params.Options["copies"])
	assert.NotContains(t, params.Options, "format")
}

func TestPrintFileParamsBRF(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "report.BRF")
	require.NoError(t, os.WriteFile(path, []byte(",report"), 0o600))

	raw, err := printFileParams(path, "", "", 0)
	require.NoError(t, err)

	var params models.PrintTextParams
	require.NoError(t, json.Unmarshal([]byte(raw), &params))
	assert.Equal(t, "report", params.Name)
	assert.Equal(t, printopts.FormatBRF, params.Options["format"])
	assert.NotContains(t, params.Options, "table")
}

func TestPrintFileParamsMissingFile(t *testing.T) {
	t.Parallel()

	_, err := printFileParams(filepath.Join(t.TempDir(), "nope.txt"), "", "", 0)
	require.Error(t, err)
}

func TestConnectParams(t *testing.T) {
	t.Parallel()

	raw, err := connectParams("/dev/ttyUSB0")
	require.NoError(t, err)
	assert.JSONEq(t, `{"port":"/dev/ttyUSB0","baud":0}`, raw)
}
