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

package mocks

import (
	"errors"
	"strings"
	"time"

	"github.com/KabirK-05/BRL-Plus/pkg/helpers/syncutil"
)

// MockSerialPort emulates the device end of the serial link. Every frame
// written to it is recorded; a scripted respond function maps each frame to
// the response lines queued for subsequent reads. It satisfies
// printer.SerialPort so tests can stand in for a real embosser.
type MockSerialPort struct {
	respond  func(frame string) []string
	ReadErr  error
	WriteErr error
	CloseErr error
	writes   []string
	outbox   []byte
	closed   bool
	mu       syncutil.RWMutex
}

func NewMockSerialPort(respond func(frame string) []string) *MockSerialPort {
	return &MockSerialPort{respond: respond}
}

// AckEverything acknowledges every frame immediately.
func AckEverything(string) []string { return []string{"ok"} }

// AckAfter acknowledges every frame after a fixed delay, slowing a job down
// enough for tests to interleave pause/stop calls.
func AckAfter(d time.Duration) func(string) []string {
	return func(string) []string {
		time.Sleep(d)
		return []string{"ok"}
	}
}

// Silence never responds.
func Silence(string) []string { return nil }

func (m *MockSerialPort) Read(p []byte) (int, error) {
	m.mu.Lock()
	if m.closed {
		m.mu.Unlock()
		return 0, errors.New("port closed")
	}
	if m.ReadErr != nil {
		err := m.ReadErr
		m.mu.Unlock()
		return 0, err
	}
	if len(m.outbox) == 0 {
		m.mu.Unlock()
		// emulate the driver's blocking poll
		time.Sleep(time.Millisecond)
		return 0, nil
	}
	n := copy(p, m.outbox)
	m.outbox = m.outbox[n:]
	m.mu.Unlock()
	return n, nil
}

func (m *MockSerialPort) Write(p []byte) (int, error) {
	m.mu.Lock()
	if m.closed {
		m.mu.Unlock()
		return 0, errors.New("port closed")
	}
	if m.WriteErr != nil {
		err := m.WriteErr
		m.mu.Unlock()
		return 0, err
	}
	frame := string(p)
	m.writes = append(m.writes, frame)
	respond := m.respond
	m.mu.Unlock()

	if respond == nil {
		return len(p), nil
	}
	lines := respond(frame) // may sleep, so the lock is not held
	m.mu.Lock()
	for _, l := range lines {
		m.outbox = append(m.outbox, l+"\n"...)
	}
	m.mu.Unlock()
	return len(p), nil
}

func (m *MockSerialPort) Close() error {
	m.mu.Lock()
	m.closed = true
	err := m.CloseErr
	m.mu.Unlock()
	return err
}

func (m *MockSerialPort) SetReadTimeout(_ time.Duration) error {
	return nil
}

func (m *MockSerialPort) Closed() bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.closed
}

// Push queues unsolicited response lines, as if the firmware spoke first.
func (m *MockSerialPort) Push(lines ...string) {
	m.mu.Lock()
	for _, l := range lines {
		m.outbox = append(m.outbox, l+"\n"...)
	}
	m.mu.Unlock()
}

// Frames returns a snapshot of everything written so far.
func (m *MockSerialPort) Frames() []string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]string, len(m.writes))
	copy(out, m.writes)
	return out
}

// Commands returns the written frames with terminators stripped.
func (m *MockSerialPort) Commands() []string {
	frames := m.Frames()
	out := make([]string, len(frames))
	for i, f := range frames {
		out[i] = strings.TrimRight(f, "\n")
	}
	return out
}
