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

package requests

import (
	"encoding/json"

	"github.com/KabirK-05/BRL-Plus/pkg/config"
	"github.com/KabirK-05/BRL-Plus/pkg/database"
	"github.com/KabirK-05/BRL-Plus/pkg/jobs"
	"github.com/KabirK-05/BRL-Plus/pkg/printer"
	"github.com/KabirK-05/BRL-Plus/pkg/service/state"
	"github.com/google/uuid"
)

type RequestEnv struct {
	Config   *config.Instance
	State    *state.State
	Database *database.Database
	Printer  *printer.Printer
	Jobs     *jobs.Manager
	Params   json.RawMessage
	ID       uuid.UUID
	IsLocal  bool
}
