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

//go:build linux

// Package inhibit blocks system sleep while a print job is embossing. A
// suspended host mid-job leaves the head parked on the paper; the loss of
// the inhibitor is harmless (the job keeps running), so every failure here
// degrades to a warning.
package inhibit

import (
	"fmt"
	"syscall"

	"github.com/godbus/dbus/v5"
	"github.com/rs/zerolog/log"
)

const (
	login1Service   = "org.freedesktop.login1"
	login1Path      = "/org/freedesktop/login1"
	login1Inhibit   = "org.freedesktop.login1.Manager.Inhibit"
	inhibitWhat     = "sleep:idle"
	inhibitWho      = "BRL+"
	inhibitModeName = "block"
)

// SleepInhibitor takes logind sleep inhibitor locks over the system bus.
type SleepInhibitor struct{}

func New() *SleepInhibitor {
	return &SleepInhibitor{}
}

// Inhibit takes a sleep inhibitor lock and returns its release function.
// logind hands back a file descriptor; the lock holds until every duplicate
// of that fd is closed.
func (*SleepInhibitor) Inhibit(reason string) (release func(), err error) {
	conn, err := dbus.SystemBus()
	if err != nil {
		return nil, fmt.Errorf("failed to connect to system bus: %w", err)
	}

	obj := conn.Object(login1Service, login1Path)
	call := obj.Call(login1Inhibit, 0, inhibitWhat, inhibitWho, reason, inhibitModeName)
	if call.Err != nil {
		return nil, fmt.Errorf("logind inhibit call failed: %w", call.Err)
	}

	var fd dbus.UnixFD
	if storeErr := call.Store(&fd); storeErr != nil {
		return nil, fmt.Errorf("failed to read inhibitor fd: %w", storeErr)
	}

	log.Debug().Str("reason", reason).Msg("sleep inhibitor acquired")

	return func() {
		if closeErr := syscall.Close(int(fd)); closeErr != nil {
			log.Warn().Err(closeErr).Msg("failed to release sleep inhibitor")
			return
		}
		log.Debug().Msg("sleep inhibitor released")
	}, nil
}
