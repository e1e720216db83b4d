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

//nolint:revive // custom validation tags (dotcell, baud) are unknown to revive
package validation

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateDotCell(t *testing.T) {
	t.Parallel()

	type testStruct struct {
		Line string `validate:"dotcell"`
	}

	tests := []struct {
		name      string
		value     string
		wantError bool
	}{
		{name: "empty line is a blank line", value: "", wantError: false},
		{name: "single cell", value: "145", wantError: false},
		{name: "full cell", value: "123456", wantError: false},
		{name: "cells separated by spaces", value: "1 24 356", wantError: false},
		{name: "repeated dot across cells", value: "14 14", wantError: false},
		{name: "repeated dot within cell", value: "141", wantError: true},
		{name: "dot out of range", value: "147", wantError: true},
		{name: "zero is not a dot", value: "103", wantError: true},
		{name: "letters invalid", value: "abc", wantError: true},
	}

	v := NewValidator()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			s := testStruct{Line: tt.value}
			err := v.Validate(&s)
			if tt.wantError {
				require.Error(t, err)
				assert.Contains(t, err.Error(), "invalid dot pattern")
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestValidateBaudRate(t *testing.T) {
	t.Parallel()

	type testStruct struct {
		Baud int `validate:"baud"`
	}

	tests := []struct {
		name      string
		value     int
		wantError bool
	}{
		{name: "zero means default", value: 0, wantError: false},
		{name: "device default", value: 250000, wantError: false},
		{name: "common rate", value: 115200, wantError: false},
		{name: "nonstandard rate", value: 12345, wantError: true},
		{name: "negative rate", value: -9600, wantError: true},
	}

	v := NewValidator()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			s := testStruct{Baud: tt.value}
			err := v.Validate(&s)
			if tt.wantError {
				require.Error(t, err)
				assert.Contains(t, err.Error(), "not supported")
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestValidateAndUnmarshal(t *testing.T) {
	t.Parallel()

	type connectParams struct {
		Port string `json:"port" validate:"required"`
		Baud int    `json:"baud" validate:"omitempty,baud"`
	}

	t.Run("missing params", func(t *testing.T) {
		t.Parallel()
		var dest connectParams
		err := ValidateAndUnmarshal(nil, &dest)
		require.ErrorIs(t, err, ErrMissingParams)
	})

	t.Run("malformed json", func(t *testing.T) {
		t.Parallel()
		var dest connectParams
		err := ValidateAndUnmarshal(json.RawMessage(`{"port":`), &dest)
		require.ErrorIs(t, err, ErrInvalidParams)
	})

	t.Run("validation failure", func(t *testing.T) {
		t.Parallel()
		var dest connectParams
		err := ValidateAndUnmarshal(json.RawMessage(`{"baud":115200}`), &dest)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "port is required")
	})

	t.Run("valid params", func(t *testing.T) {
		t.Parallel()
		var dest connectParams
		err := ValidateAndUnmarshal(json.RawMessage(`{"port":"/dev/ttyACM0","baud":115200}`), &dest)
		require.NoError(t, err)
		assert.Equal(t, "/dev/ttyACM0", dest.Port)
		assert.Equal(t, 115200, dest.Baud)
	})
}

func TestErrorAggregatesFields(t *testing.T) {
	t.Parallel()

	type testStruct struct {
		Port string `validate:"required"`
		Baud int    `validate:"baud"`
	}

	err := NewValidator().Validate(&testStruct{Baud: 300})
	require.Error(t, err)

	var ve *Error
	require.ErrorAs(t, err, &ve)
	assert.Len(t, ve.Fields, 2)
	assert.Contains(t, ve.Error(), "; ")
}
