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
	"github.com/KabirK-05/BRL-Plus/pkg/database"
	"github.com/KabirK-05/BRL-Plus/pkg/jobs"
	"github.com/rs/zerolog/log"
)

//nolint:gocritic // single-use parameter in API handler
func HandlePrintText(env requests.RequestEnv) (any, error) {
	log.Info().Msg("received print text request")

	var params models.PrintTextParams
	if err := validation.ValidateAndUnmarshal(env.Params, &params); err != nil {
		return nil, err
	}

	opts, err := env.Jobs.ParseOptions(params.Options)
	if err != nil {
		return nil, fmt.Errorf("invalid print options: %w", err)
	}

	status, err := env.Jobs.Print(jobs.Request{
		Source:  database.SourceAPI,
		Name:    params.Name,
		Text:    params.Text,
		Options: opts,
	})
	if err != nil {
		log.Error().Err(err).Msg("print text failed")
		return nil, fmt.Errorf("print failed: %w", err)
	}
	return models.PrintResponse{ID: status.ID}, nil
}

//nolint:gocritic // single-use parameter in API handler
func HandlePrintDots(env requests.RequestEnv) (any, error) {
	log.Info().Msg("received print dots request")

	var params models.PrintDotsParams
	if err := validation.ValidateAndUnmarshal(env.Params, &params); err != nil {
		return nil, err
	}

	opts, err := env.Jobs.ParseOptions(params.Options)
	if err != nil {
		return nil, fmt.Errorf("invalid print options: %w", err)
	}

	status, err := env.Jobs.Print(jobs.Request{
		Source:  database.SourceAPI,
		Name:    params.Name,
		Lines:   params.Lines,
		Options: opts,
	})
	if err != nil {
		log.Error().Err(err).Msg("print dots failed")
		return nil, fmt.Errorf("print failed: %w", err)
	}
	return models.PrintResponse{ID: status.ID}, nil
}

//nolint:gocritic // single-use parameter in API handler
func HandlePrintStop(env requests.RequestEnv) (any, error) {
	log.Info().Msg("received print stop request")
	env.Jobs.Stop()
	return NoContent{}, nil
}

//nolint:gocritic // single-use parameter in API handler
func HandlePrintPause(env requests.RequestEnv) (any, error) {
	log.Info().Msg("received print pause request")
	env.Jobs.Pause()
	return NoContent{}, nil
}

//nolint:gocritic // single-use parameter in API handler
func HandlePrintResume(env requests.RequestEnv) (any, error) {
	log.Info().Msg("received print resume request")
	env.Jobs.Resume()
	return NoContent{}, nil
}

// HandleJobsResume resumes an interrupted job from its checkpoint. Without
// params it instead lists the jobs that have one, so clients can offer a
// picker.
//
//nolint:gocritic // single-use parameter in API handler
func HandleJobsResume(env requests.RequestEnv) (any, error) {
	log.Info().Msg("received jobs resume request")

	if len(env.Params) == 0 {
		return models.ResumableResponse{Resumable: env.Jobs.Resumable()}, nil
	}

	var params models.JobsResumeParams
	if err := validation.ValidateAndUnmarshal(env.Params, &params); err != nil {
		return nil, err
	}

	status, err := env.Jobs.ResumeJob(params.ID)
	if err != nil {
		log.Error().Err(err).Str("id", params.ID).Msg("job resume failed")
		return nil, fmt.Errorf("resume failed: %w", err)
	}
	return models.PrintResponse{ID: status.ID}, nil
}
