/*
BRL+
Copyright (c) 2026 The BRL+ Contributors.
SPDX-License-Identifier: GPL-3.0-or-later

This file is part of BRL+.

BRL+ is free software: you can redistribute it and/or modify
it under the terms of the GNU General Public License as published by
the Free Software Foundation, either version 3 of the License, or
(at your option) any later version.

BRL+ is distributed in the hope that it will be useful,
but WITHOUT ANY WARRANTY; without even the implied warranty of
MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
GNU General Public License for more details.

You should have received a copy of the GNU General Public License
along with BRL+.  If not, see <http://www.gnu.org/licenses/>.
*/

package helpers

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetMd5Hash(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	path := filepath.Join(dir, "page.txt")
	require.NoError(t, os.WriteFile(path, []byte("hello world"), 0o600))

	hash, err := GetMd5Hash(path)
	require.NoError(t, err)
	assert.Equal(t, "5eb63bbbe01eeed093cb22bb8f5acdc3", hash, "known digest mismatch")

	_, err = GetMd5Hash(filepath.Join(dir, "missing.txt"))
	require.Error(t, err, "missing file should error")
}

func TestGetFileSize(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	path := filepath.Join(dir, "doc.brf")
	require.NoError(t, os.WriteFile(path, make([]byte, 4096), 0o600))

	size, err := GetFileSize(path)
	require.NoError(t, err)
	assert.Equal(t, int64(4096), size)

	_, err = GetFileSize(filepath.Join(dir, "missing.brf"))
	require.Error(t, err, "missing file should error")
}

func TestContains(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		item     string
		slice    []string
		expected bool
	}{
		{
			name:     "found_item",
			slice:    []string{"idle", "printing", "paused"},
			item:     "printing",
			expected: true,
		},
		{
			name:     "not_found_item",
			slice:    []string{"idle", "printing", "paused"},
			item:     "jammed",
			expected: false,
		},
		{
			name:     "empty_slice",
			slice:    []string{},
			item:     "idle",
			expected: false,
		},
		{
			name:     "nil_slice",
			slice:    nil,
			item:     "idle",
			expected: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			result := Contains(tt.slice, tt.item)
			assert.Equal(t, tt.expected, result, "Contains result mismatch")
		})
	}

	t.Run("int_slice", func(t *testing.T) {
		t.Parallel()
		assert.True(t, Contains([]int{9600, 115200, 250000}, 250000))
		assert.False(t, Contains([]int{9600, 115200}, 250000))
	})
}

func TestMapKeys(t *testing.T) {
	t.Parallel()

	m := map[string]int{"a4": 0, "letter": 1, "a3": 2}
	keys := MapKeys(m)
	assert.Len(t, keys, 3)
	assert.ElementsMatch(t, []string{"a4", "letter", "a3"}, keys)

	empty := MapKeys(map[string]int{})
	assert.Empty(t, empty)
}

func TestAlphaMapKeys(t *testing.T) {
	t.Parallel()

	m := map[string]int{"letter": 1, "a3": 2, "a4": 0}
	keys := AlphaMapKeys(m)
	assert.Equal(t, []string{"a3", "a4", "letter"}, keys, "keys should be sorted")
}

func TestCopyFile(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	src := filepath.Join(dir, "src.txt")
	dst := filepath.Join(dir, "dst.txt")
	require.NoError(t, os.WriteFile(src, []byte("braille page"), 0o600))

	require.NoError(t, CopyFile(src, dst))

	content, err := os.ReadFile(dst) //nolint:gosec // test-controlled path
	require.NoError(t, err)
	assert.Equal(t, "braille page", string(content))

	err = CopyFile(filepath.Join(dir, "missing.txt"), dst)
	require.Error(t, err, "missing source should error")
}

func TestMoveFile(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	src := filepath.Join(dir, "queued.txt")
	dst := filepath.Join(dir, "done", "queued.txt")
	require.NoError(t, os.WriteFile(src, []byte("embossed"), 0o600))
	require.NoError(t, os.MkdirAll(filepath.Dir(dst), 0o750))

	require.NoError(t, MoveFile(src, dst))

	_, err := os.Stat(src)
	assert.True(t, os.IsNotExist(err), "source should be gone after move")

	content, err := os.ReadFile(dst) //nolint:gosec // test-controlled path
	require.NoError(t, err)
	assert.Equal(t, "embossed", string(content))
}

func TestRandSeq(t *testing.T) {
	t.Parallel()

	a, err := RandSeq(32)
	require.NoError(t, err)
	assert.Len(t, a, 32)

	for _, r := range a {
		assert.Contains(t, string(letters), string(r), "only letters expected")
	}

	b, err := RandSeq(32)
	require.NoError(t, err)
	assert.NotEqual(t, a, b, "two sequences should differ")
}

func TestIsTruthy(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		input    string
		expected bool
	}{
		{
			name:     "true_lowercase",
			input:    "true",
			expected: true,
		},
		{
			name:     "true_mixed_case",
			input:    "TrUe",
			expected: true,
		},
		{
			name:     "yes_uppercase",
			input:    "YES",
			expected: true,
		},
		{
			name:     "false_string",
			input:    "false",
			expected: false,
		},
		{
			name:     "empty_string",
			input:    "",
			expected: false,
		},
		{
			name:     "numeric_one",
			input:    "1",
			expected: false,
		},
		{
			name:     "whitespace_around_true",
			input:    " true ",
			expected: false, // No trimming in function
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			result := IsTruthy(tt.input)
			assert.Equal(t, tt.expected, result, "IsTruthy result mismatch")
		})
	}
}

func TestIsFalsey(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		input    string
		expected bool
	}{
		{
			name:     "false_lowercase",
			input:    "false",
			expected: true,
		},
		{
			name:     "no_mixed_case",
			input:    "No",
			expected: true,
		},
		{
			name:     "true_string",
			input:    "true",
			expected: false,
		},
		{
			name:     "empty_string",
			input:    "",
			expected: false,
		},
		{
			name:     "numeric_zero",
			input:    "0",
			expected: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			result := IsFalsey(tt.input)
			assert.Equal(t, tt.expected, result, "IsFalsey result mismatch")
		})
	}
}

func TestMaybeJSON(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		input    []byte
		expected bool
	}{
		{
			name:     "valid_json_object",
			input:    []byte(`{"text": "hello"}`),
			expected: true,
		},
		{
			name:     "json_with_mixed_whitespace",
			input:    []byte(" \n\t\r {\"text\": \"hello\"}"),
			expected: true,
		},
		{
			name:     "json_array_start",
			input:    []byte(`["a", "b"]`),
			expected: false, // Only checks for { start
		},
		{
			name:     "plain_text",
			input:    []byte("hello world"),
			expected: false,
		},
		{
			name:     "empty_data",
			input:    []byte{},
			expected: false,
		},
		{
			name:     "nil_data",
			input:    nil,
			expected: false,
		},
		{
			name:     "brace_in_middle",
			input:    []byte("text{json}"),
			expected: false,
		},
		{
			name:     "single_brace",
			input:    []byte("{"),
			expected: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			result := MaybeJSON(tt.input)
			assert.Equal(t, tt.expected, result, "MaybeJSON result mismatch")
		})
	}
}
