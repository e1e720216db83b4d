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

package printer

import (
	"context"
	"strings"
	"time"

	"github.com/KabirK-05/BRL-Plus/pkg/helpers/syncutil"
	"github.com/jonboulle/clockwork"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"
)

const (
	// probeWindow is how long one port gets to answer the firmware query.
	probeWindow = 2 * time.Second
	// probeConcurrency caps parallel opens. USB serial bridges share host
	// controller bandwidth; opening dozens at once makes slow ones time out.
	probeConcurrency = 4
)

// probeCommand asks the firmware to identify itself. Any acknowledged
// response marks the port as a live device.
const probeCommand = "M115"

// ProbePorts opens each candidate port in parallel and sends a firmware
// identification query, reporting which ports answered. Ports that cannot be
// opened or that stay silent are simply absent from the result; a probe
// never fails as a whole unless ctx is cancelled.
func ProbePorts(ctx context.Context, ports []string, factory SerialPortFactory) map[string]bool {
	return probePorts(ctx, ports, factory, clockwork.NewRealClock())
}

func probePorts(
	ctx context.Context, ports []string, factory SerialPortFactory, clock clockwork.Clock,
) map[string]bool {
	alive := make(map[string]bool, len(ports))
	var mu syncutil.Mutex

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(probeConcurrency)

	for _, port := range ports {
		g.Go(func() error {
			if ctx.Err() != nil {
				return ctx.Err() //nolint:wrapcheck // context sentinel, callers match on it
			}
			if probePort(port, factory, clock) {
				mu.Lock()
				alive[port] = true
				mu.Unlock()
			}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		log.Debug().Err(err).Msg("port probe cancelled")
	}
	return alive
}

// probePort opens one port, sends the identification query and waits for any
// acknowledged line.
func probePort(path string, factory SerialPortFactory, clock clockwork.Clock) bool {
	t, err := openTransport(factory, callUpDevicePath(path), DefaultBaudRate, clock)
	if err != nil {
		log.Debug().Err(err).Str("port", path).Msg("probe open failed")
		return false
	}
	defer t.close()

	proto := plainProtocol{}
	if err := t.write(proto.frame(probeCommand)); err != nil {
		return false
	}

	deadline := clock.Now().Add(probeWindow)
	for clock.Now().Before(deadline) {
		line, err := t.readLine(readTimeout)
		if err != nil {
			return false
		}
		if line == "" {
			continue
		}
		resp := proto.classify(line)
		if resp.kind == responseAck || strings.Contains(strings.ToLower(line), "firmware") {
			log.Debug().Str("port", path).Str("response", line).Msg("probe answered")
			return true
		}
	}
	return false
}
