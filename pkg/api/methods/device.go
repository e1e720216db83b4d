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
	"github.com/KabirK-05/BRL-Plus/pkg/helpers"
	"github.com/KabirK-05/BRL-Plus/pkg/printer"
	"github.com/rs/zerolog/log"
)

//nolint:gocritic // single-use parameter in API handler
func HandlePorts(env requests.RequestEnv) (any, error) {
	log.Info().Msg("received ports request")

	devices, err := helpers.DescribeSerialDevices()
	if err != nil {
		log.Error().Err(err).Msg("error listing serial devices")
		return nil, errors.New("error listing serial devices")
	}

	connected := env.Printer.Port()
	ports := make([]models.PortInfo, 0, len(devices))
	for _, d := range devices {
		ports = append(ports, models.PortInfo{
			Device:    d.Path,
			Connected: env.Printer.Connected() && d.Path == connected,
		})
	}
	return models.PortsResponse{Ports: ports}, nil
}

// HandlePortsProbe actively queries each candidate port for embosser
// firmware. The currently connected port is reported without probing; the
// device can't answer a second open.
//
//nolint:gocritic // single-use parameter in API handler
func HandlePortsProbe(env requests.RequestEnv) (any, error) {
	log.Info().Msg("received ports probe request")

	devices, err := helpers.GetSerialDeviceList()
	if err != nil {
		log.Error().Err(err).Msg("error listing serial devices")
		return nil, errors.New("error listing serial devices")
	}

	connected := ""
	if env.Printer.Connected() {
		connected = env.Printer.Port()
	}

	candidates := make([]string, 0, len(devices))
	for _, d := range devices {
		if d != connected {
			candidates = append(candidates, d)
		}
	}

	alive := printer.ProbePorts(env.State.GetContext(), candidates, printer.DefaultSerialPortFactory)

	ports := make([]models.PortInfo, 0, len(devices))
	for _, d := range devices {
		ports = append(ports, models.PortInfo{
			Device:    d,
			Connected: d == connected,
			Probed:    alive[d],
		})
	}
	return models.PortsResponse{Ports: ports}, nil
}

//nolint:gocritic // single-use parameter in API handler
func HandleConnect(env requests.RequestEnv) (any, error) {
	log.Info().Msg("received connect request")

	var params models.ConnectParams
	if err := validation.ValidateAndUnmarshal(env.Params, &params); err != nil {
		return nil, err
	}

	port, err := helpers.FindPort(params.Port)
	if err != nil {
		return nil, fmt.Errorf("no port matching %q: %w", params.Port, err)
	}

	if err := env.Printer.Connect(port, params.Baud); err != nil {
		log.Error().Err(err).Str("port", port).Msg("connect failed")
		return nil, fmt.Errorf("connect failed: %w", err)
	}

	env.State.SetDeviceConnected(env.Printer.Port(), true)
	return NoContent{}, nil
}

//nolint:gocritic // single-use parameter in API handler
func HandleDisconnect(env requests.RequestEnv) (any, error) {
	log.Info().Msg("received disconnect request")

	if env.Jobs.Status() != nil {
		return nil, errors.New("a print job is active: stop it first")
	}

	port := env.Printer.Port()
	if err := env.Printer.Disconnect(); err != nil {
		return nil, fmt.Errorf("disconnect failed: %w", err)
	}

	if port != "" {
		env.State.SetDeviceConnected(port, false)
	}
	return NoContent{}, nil
}

//nolint:gocritic // single-use parameter in API handler
func HandleStatus(env requests.RequestEnv) (any, error) {
	log.Debug().Msg("received status request")

	return models.StatusResponse{
		Status:    env.Printer.Status().String(),
		Port:      env.Printer.Port(),
		Connected: env.Printer.Connected(),
		Job:       env.Jobs.Status(),
	}, nil
}
