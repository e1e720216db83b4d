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
	"sync"
	"testing"
	"time"
)

// TestSetDeviceConnected_NoDeadlockWithSlowConsumer is a regression test for
// the "hold lock while sending to channel" deadlock bug.
//
// State methods must never hold mu while sending to the Notifications
// channel. If a consumer is slow or the channel buffer is full, the sender
// would block while holding the lock and every other goroutine touching the
// state would deadlock behind it.
//
// The fix is the "unlock before notify" pattern: prepare data under lock,
// unlock, then send.
//
// With -tags=deadlock, go-deadlock detects lock ordering violations,
// providing an additional safety net.
func TestSetDeviceConnected_NoDeadlockWithSlowConsumer(t *testing.T) {
	t.Parallel()

	st, notifications := NewState("test-boot-uuid")

	done := make(chan struct{})
	defer close(done)

	// Slow consumer - drains notifications with delay
	go func() {
		for {
			select {
			case <-notifications:
				time.Sleep(time.Millisecond)
			case <-done:
				return
			}
		}
	}()

	// Hammer connect/disconnect transitions from several goroutines while a
	// reader polls the state. With the lock held across the channel send
	// this wedges well before the waitgroup drains.
	var wg sync.WaitGroup
	for i := range 8 {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			for j := range 200 {
				connected := j%2 == 0
				st.SetDeviceConnected("/dev/ttyUSB0", connected)
				if n == 0 {
					st.DeviceConnected()
				}
			}
		}(i)
	}

	finished := make(chan struct{})
	go func() {
		wg.Wait()
		close(finished)
	}()

	select {
	case <-finished:
	case <-time.After(10 * time.Second):
		t.Fatal("deadlock: state writers did not finish")
	}
}
