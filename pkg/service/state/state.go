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

package state

import (
	"context"

	"github.com/KabirK-05/BRL-Plus/pkg/api/models"
	"github.com/KabirK-05/BRL-Plus/pkg/api/notifications"
	"github.com/KabirK-05/BRL-Plus/pkg/helpers/syncutil"
)

// State holds the runtime state of the BRL+ service.
//
// LOCKING RULES: The mu mutex protects all mutable fields. To prevent deadlocks:
//   - Never send to channels while holding the lock (notifications apply
//     backpressure when the broker is busy)
//   - Pattern: lock → modify state → copy needed data → unlock → send notifications
//
// See SetDeviceConnected for the canonical example.
type State struct {
	ctx           context.Context
	ctxCancelFunc context.CancelFunc
	Notifications chan<- models.Notification
	bootUUID      string
	devicePort    string
	mu            syncutil.RWMutex
	deviceOpen    bool
	stopService   bool
}

// NewState builds the service state and the notification channel the broker
// drains. The buffer gives job progress events headroom without letting a
// wedged broker block the printer goroutine.
func NewState(bootUUID string) (state *State, notificationCh <-chan models.Notification) {
	ns := make(chan models.Notification, 500)
	ctx, ctxCancelFunc := context.WithCancel(context.Background())
	return &State{
		Notifications: ns,
		ctx:           ctx,
		ctxCancelFunc: ctxCancelFunc,
		bootUUID:      bootUUID,
	}, ns
}

// SetDeviceConnected records the embosser connection state and notifies
// subscribers. Duplicate transitions are ignored so a reconnect retry loop
// does not spam device.connected events.
func (s *State) SetDeviceConnected(port string, connected bool) {
	s.mu.Lock()

	if s.deviceOpen == connected && s.devicePort == port {
		s.mu.Unlock()
		return
	}

	// the port of a disconnect event is the port that was open
	notifyPort := port
	if !connected && port == "" {
		notifyPort = s.devicePort
	}

	s.deviceOpen = connected
	s.devicePort = port

	s.mu.Unlock()

	// Send notification outside lock to prevent deadlock
	if connected {
		notifications.DeviceConnected(s.Notifications, notifyPort)
	} else {
		notifications.DeviceDisconnected(s.Notifications, notifyPort)
	}
}

// DeviceConnected reports whether an embosser is currently attached and the
// port it was opened on.
func (s *State) DeviceConnected() (port string, connected bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.devicePort, s.deviceOpen
}

// StopService requests a service shutdown and cancels the service context.
func (s *State) StopService() {
	s.mu.Lock()
	s.stopService = true
	s.mu.Unlock()
	s.ctxCancelFunc()
}

// ShouldStop reports whether a shutdown has been requested.
func (s *State) ShouldStop() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.stopService
}

func (s *State) GetContext() context.Context {
	return s.ctx
}

func (s *State) BootUUID() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.bootUUID
}
