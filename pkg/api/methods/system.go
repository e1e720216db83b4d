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
	"os"
	"runtime"

	"github.com/KabirK-05/BRL-Plus/pkg/api/models"
	"github.com/KabirK-05/BRL-Plus/pkg/api/models/requests"
	"github.com/KabirK-05/BRL-Plus/pkg/config"
	"github.com/mackerelio/go-osstat/loadavg"
	"github.com/mackerelio/go-osstat/memory"
	"github.com/mackerelio/go-osstat/uptime"
	"github.com/rs/zerolog/log"
)

//nolint:gocritic // single-use parameter in API handler
func HandleVersion(env requests.RequestEnv) (any, error) {
	log.Info().Msg("received version request")
	return models.VersionResponse{
		Version:  config.AppVersion,
		Platform: runtime.GOOS,
		AppID:    env.Config.DeviceID(),
	}, nil
}

// HandleSystemInfo reports host health for the embosser station. Stats that
// the platform can't supply are left at zero rather than failing the call;
// a dashboard with partial numbers beats no dashboard.
//
//nolint:gocritic // single-use parameter in API handler
func HandleSystemInfo(_ requests.RequestEnv) (any, error) {
	log.Info().Msg("received system info request")

	resp := models.SystemInfoResponse{
		OS:   runtime.GOOS,
		Arch: runtime.GOARCH,
	}

	if hostname, err := os.Hostname(); err == nil {
		resp.Hostname = hostname
	}

	if up, err := uptime.Get(); err == nil {
		resp.UptimeSecs = uint64(up.Seconds())
	} else {
		log.Debug().Err(err).Msg("uptime unavailable")
	}

	if mem, err := memory.Get(); err == nil {
		resp.MemoryTotal = mem.Total
		resp.MemoryUsed = mem.Used
	} else {
		log.Debug().Err(err).Msg("memory stats unavailable")
	}

	if load, err := loadavg.Get(); err == nil {
		resp.LoadAvg1 = load.Loadavg1
	} else {
		log.Debug().Err(err).Msg("load average unavailable")
	}

	return resp, nil
}
