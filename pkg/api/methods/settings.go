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

	"github.com/KabirK-05/BRL-Plus/pkg/api/models"
	"github.com/KabirK-05/BRL-Plus/pkg/api/models/requests"
	"github.com/KabirK-05/BRL-Plus/pkg/api/validation"
	"github.com/KabirK-05/BRL-Plus/pkg/config"
	"github.com/rs/zerolog/log"
)

//nolint:gocritic // single-use parameter in API handler
func HandleSettings(env requests.RequestEnv) (any, error) {
	log.Info().Msg("received settings request")

	return models.SettingsResponse{
		DefaultTable:         env.Config.BrailleTable(),
		DefaultLayout:        env.Config.LayoutProfile(),
		DevicePort:           env.Config.PrinterPort(),
		DeviceBaudRate:       env.Config.PrinterBaud(),
		PrinterProtocol:      env.Config.PrinterProtocol(),
		CheckpointEvery:      env.Config.CheckpointEvery(),
		HistoryRetentionDays: env.Config.HistoryRetentionDays(),
		DebugLogging:         env.Config.DebugLogging(),
		AudioFeedback:        env.Config.AudioFeedback(),
		HomeOnFinish:         env.Config.HomeOnFinish(),
		ConnectOnStart:       env.Config.ConnectOnStart(),
	}, nil
}

//nolint:gocritic,gocyclo,cyclop,funlen // field-by-field settings application
func HandleSettingsUpdate(env requests.RequestEnv) (any, error) {
	log.Info().Msg("received settings update request")

	if !env.IsLocal {
		return nil, errors.New("settings can only be changed from the local machine")
	}

	var params models.UpdateSettingsParams
	if err := validation.ValidateAndUnmarshal(env.Params, &params); err != nil {
		return nil, err
	}

	if params.DebugLogging != nil {
		log.Info().Bool("debugLogging", *params.DebugLogging).Msg("update")
		env.Config.SetDebugLogging(*params.DebugLogging)
	}

	if params.AudioFeedback != nil {
		log.Info().Bool("audioFeedback", *params.AudioFeedback).Msg("update")
		env.Config.SetAudioFeedback(*params.AudioFeedback)
	}

	if params.HomeOnFinish != nil {
		log.Info().Bool("homeOnFinish", *params.HomeOnFinish).Msg("update")
		env.Config.SetHomeOnFinish(*params.HomeOnFinish)
	}

	if params.ConnectOnStart != nil {
		log.Info().Bool("connectOnStart", *params.ConnectOnStart).Msg("update")
		env.Config.SetConnectOnStart(*params.ConnectOnStart)
	}

	if params.DefaultTable != nil {
		tables := env.Jobs.Tables()
		found := false
		for _, t := range tables {
			if t == *params.DefaultTable {
				found = true
				break
			}
		}
		if !found {
			return nil, fmt.Errorf("unknown braille table %q", *params.DefaultTable)
		}
		log.Info().Str("defaultTable", *params.DefaultTable).Msg("update")
		env.Config.SetBrailleTable(*params.DefaultTable)
	}

	if params.DefaultLayout != nil {
		if _, err := env.Jobs.LayoutStore().Get(*params.DefaultLayout); err != nil {
			return nil, fmt.Errorf("unknown layout %q", *params.DefaultLayout)
		}
		log.Info().Str("defaultLayout", *params.DefaultLayout).Msg("update")
		env.Config.SetLayoutProfile(*params.DefaultLayout)
	}

	if params.DevicePort != nil {
		log.Info().Str("devicePort", *params.DevicePort).Msg("update")
		env.Config.SetPrinterPort(*params.DevicePort)
	}

	if params.DeviceBaudRate != nil {
		log.Info().Int("deviceBaudRate", *params.DeviceBaudRate).Msg("update")
		env.Config.SetPrinterBaud(*params.DeviceBaudRate)
	}

	if params.PrinterProtocol != nil {
		switch *params.PrinterProtocol {
		case config.ProtocolPlain, config.ProtocolChecksummed:
			log.Info().Str("printerProtocol", *params.PrinterProtocol).Msg("update")
			env.Config.SetPrinterProtocol(*params.PrinterProtocol)
		default:
			return nil, fmt.Errorf("unknown printer protocol %q", *params.PrinterProtocol)
		}
	}

	if params.CheckpointEvery != nil {
		if *params.CheckpointEvery < 1 {
			return nil, errors.New("checkpointEvery must be at least 1")
		}
		log.Info().Int("checkpointEvery", *params.CheckpointEvery).Msg("update")
		env.Config.SetCheckpointEvery(*params.CheckpointEvery)
	}

	if params.HistoryRetention != nil {
		if *params.HistoryRetention < 0 {
			return nil, errors.New("historyRetentionDays cannot be negative")
		}
		log.Info().Int("historyRetentionDays", *params.HistoryRetention).Msg("update")
		env.Config.SetHistoryRetentionDays(*params.HistoryRetention)
	}

	if err := env.Config.Save(); err != nil {
		log.Error().Err(err).Msg("error saving settings")
		return nil, errors.New("error saving settings")
	}

	return NoContent{}, nil
}
