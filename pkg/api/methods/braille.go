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

package methods

import (
	"fmt"

	"github.com/KabirK-05/BRL-Plus/pkg/api/models"
	"github.com/KabirK-05/BRL-Plus/pkg/api/models/requests"
	"github.com/KabirK-05/BRL-Plus/pkg/api/validation"
	"github.com/rs/zerolog/log"
)

//nolint:gocritic // single-use parameter in API handler
func HandleTables(env requests.RequestEnv) (any, error) {
	log.Info().Msg("received tables request")
	return models.TablesResponse{Tables: env.Jobs.Tables()}, nil
}

//nolint:gocritic // single-use parameter in API handler
func HandleLayouts(env requests.RequestEnv) (any, error) {
	log.Info().Msg("received layouts request")

	store := env.Jobs.LayoutStore()
	names := env.Jobs.Layouts()
	layouts := make([]models.LayoutInfo, 0, len(names))
	for _, name := range names {
		profile, err := store.Get(name)
		if err != nil {
			log.Warn().Err(err).Str("layout", name).Msg("skipping unreadable layout")
			continue
		}
		cells, lines := profile.Capacity()
		layouts = append(layouts, models.LayoutInfo{
			Name:         profile.Name,
			PageWidth:    profile.PageWidth,
			PageHeight:   profile.PageHeight,
			CellsPerLine: cells,
			LinesPerPage: lines,
		})
	}
	return models.LayoutsResponse{Layouts: layouts}, nil
}

// HandleBrailleRender translates text through the full pipeline without
// touching the device, so clients can preview page counts and proofread the
// dot output.
//
//nolint:gocritic // single-use parameter in API handler
func HandleBrailleRender(env requests.RequestEnv) (any, error) {
	log.Info().Msg("received braille render request")

	var params models.BrailleRenderParams
	if err := validation.ValidateAndUnmarshal(env.Params, &params); err != nil {
		return nil, err
	}

	preview, err := env.Jobs.RenderPreview(params.Text, params.Table, params.Layout)
	if err != nil {
		return nil, fmt.Errorf("render failed: %w", err)
	}
	return preview, nil
}
