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
	"errors"
	"fmt"
	"time"

	"github.com/KabirK-05/BRL-Plus/pkg/api/models"
	"github.com/KabirK-05/BRL-Plus/pkg/api/models/requests"
	"github.com/KabirK-05/BRL-Plus/pkg/api/validation"
	"github.com/gocarina/gocsv"
	"github.com/rs/zerolog/log"
)

//nolint:gocritic // single-use parameter in API handler
func HandleHistory(env requests.RequestEnv) (any, error) {
	log.Info().Msg("received history request")

	var lastID int
	if len(env.Params) > 0 {
		var params models.HistoryParams
		if err := validation.ValidateAndUnmarshal(env.Params, &params); err != nil {
			return nil, err
		}
		lastID = params.LastID
	}

	jobs, err := env.Database.History.GetJobs(lastID)
	if err != nil {
		log.Error().Err(err).Msg("error reading job history")
		return nil, errors.New("error reading job history")
	}
	return models.HistoryResponse{Jobs: jobs}, nil
}

// historyCSVRow flattens a history record for spreadsheet import. Times are
// RFC 3339 so the column sorts lexically.
type historyCSVRow struct {
	ID        string `csv:"id"`
	Name      string `csv:"name"`
	Source    string `csv:"source"`
	Table     string `csv:"table"`
	Layout    string `csv:"layout"`
	State     string `csv:"state"`
	StartedAt string `csv:"started_at"`
	EndedAt   string `csv:"ended_at"`
	Error     string `csv:"error"`
	Cells     int    `csv:"cells"`
	Dots      int    `csv:"dots"`
	DotsDone  int    `csv:"dots_done"`
	Pages     int    `csv:"pages"`
	Copies    int    `csv:"copies"`
}

//nolint:gocritic // single-use parameter in API handler
func HandleHistoryExport(env requests.RequestEnv) (any, error) {
	log.Info().Msg("received history export request")

	jobs, err := env.Database.History.AllJobs()
	if err != nil {
		log.Error().Err(err).Msg("error reading job history")
		return nil, errors.New("error reading job history")
	}

	rows := make([]historyCSVRow, 0, len(jobs))
	for _, j := range jobs {
		rows = append(rows, historyCSVRow{
			ID:        j.ID,
			Name:      j.Name,
			Source:    j.Source,
			Table:     j.Table,
			Layout:    j.Layout,
			State:     j.State,
			StartedAt: j.StartedAt.Format(time.RFC3339),
			EndedAt:   j.EndedAt.Format(time.RFC3339),
			Error:     j.Error,
			Cells:     j.Cells,
			Dots:      j.Dots,
			DotsDone:  j.DotsDone,
			Pages:     j.Pages,
			Copies:    j.Copies,
		})
	}

	csv, err := gocsv.MarshalString(&rows)
	if err != nil {
		log.Error().Err(err).Msg("error encoding history csv")
		return nil, errors.New("error encoding history csv")
	}

	return models.HistoryExportResponse{
		Filename: fmt.Sprintf("brlplus-history-%s.csv", time.Now().Format("2006-01-02")),
		CSV:      csv,
		Jobs:     len(rows),
	}, nil
}
