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

// Package methods implements the JSON-RPC method handlers. Each handler
// takes the request environment assembled by the server and returns a value
// from pkg/api/models, or an error the server maps to a JSON-RPC error
// object.
package methods

import (
	"github.com/KabirK-05/BRL-Plus/pkg/api/validation"
)

// Shared parameter errors, aliased so handlers and tests don't import the
// validation package directly.
var (
	ErrMissingParams = validation.ErrMissingParams
	ErrInvalidParams = validation.ErrInvalidParams
)

// NoContent marks a successful call with nothing to report. It marshals to
// an empty object rather than null.
type NoContent struct{}
