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
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/KabirK-05/BRL-Plus/pkg/helpers/syncutil"
	"go.bug.st/serial"
)

// mockEmbosser emulates the device end of the serial link. Every frame
// written to it is recorded; a scripted respond function maps each frame to
// the response lines queued for subsequent reads.
type mockEmbosser struct {
	respond    func(frame string) []string
	readErr    error
	writeErr   error
	closeErr   error
	timeoutErr error
	writes     []string
	outbox     []byte
	closed     bool
	mu         syncutil.RWMutex
}

func newMockEmbosser(respond func(frame string) []string) *mockEmbosser {
	return &mockEmbosser{respond: respond}
}

// ackEverything acknowledges every frame immediately.
func ackEverything(string) []string { return []string{"ok"} }

// ackAfter acknowledges every frame after a fixed delay, slowing a job down
// enough for tests to interleave pause/stop calls.
func ackAfter(d time.Duration) func(string) []string {
	return func(string) []string {
		time.Sleep(d)
		return []string{"ok"}
	}
}

// silence never responds.
func silence(string) []string { return nil }

func (m *mockEmbosser) Read(p []byte) (int, error) {
	m.mu.Lock()
	if m.closed {
		m.mu.Unlock()
		return 0, errors.New("port closed")
	}
	if m.readErr != nil {
		err := m.readErr
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

func (m *mockEmbosser) Write(p []byte) (int, error) {
	m.mu.Lock()
	if m.closed {
		m.mu.Unlock()
		return 0, errors.New("port closed")
	}
	if m.writeErr != nil {
		err := m.writeErr
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

func (m *mockEmbosser) Close() error {
	m.mu.Lock()
	m.closed = true
	err := m.closeErr
	m.mu.Unlock()
	return err
}

func (m *mockEmbosser) SetReadTimeout(_ time.Duration) error {
	return m.timeoutErr
}

func (m *mockEmbosser) isClosed() bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.closed
}

// push queues unsolicited response lines, as if the firmware spoke first.
func (m *mockEmbosser) push(lines ...string) {
	m.mu.Lock()
	for _, l := range lines {
		m.outbox = append(m.outbox, l+"\n"...)
	}
	m.mu.Unlock()
}

// frames returns a snapshot of everything written so far.
func (m *mockEmbosser) frames() []string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]string, len(m.writes))
	copy(out, m.writes)
	return out
}

// commands returns the written frames with terminators stripped.
func (m *mockEmbosser) commands() []string {
	frames := m.frames()
	out := make([]string, len(frames))
	for i, f := range frames {
		out[i] = strings.TrimRight(f, "\n")
	}
	return out
}

// newTestPrinter builds a Printer wired to a fresh mock device, with the
// protocol timings shrunk so tests run in real time without long waits.
func newTestPrinter(respond func(string) []string, opts ...Option) (*Printer, *mockEmbosser) {
	mock := newMockEmbosser(respond)
	opts = append([]Option{
		WithSerialPortFactory(func(_ string, _ *serial.Mode) (SerialPort, error) {
			return mock, nil
		}),
	}, opts...)
	p := New(opts...)
	p.ackTimeout = 250 * time.Millisecond
	p.retryWindow = 50 * time.Millisecond
	p.pauseTick = 5 * time.Millisecond
	return p, mock
}

// waitForStatus polls until the printer reports want or the deadline lapses.
func waitForStatus(t *testing.T, p *Printer, want Status, timeout time.Duration) {
	t.Helper()
	deadline := time.Now().Add(timeout)
	for time.Now().Before(deadline) {
		if p.Status() == want {
			return
		}
		time.Sleep(2 * time.Millisecond)
	}
	t.Fatalf("printer stuck in status %s, want %s", p.Status(), want)
}

// waitForJob blocks until the current job goroutine has fully exited.
func waitForJob(t *testing.T, p *Printer, timeout time.Duration) {
	t.Helper()
	p.mu.Lock()
	done := p.jobDone
	p.mu.Unlock()
	if done == nil {
		return
	}
	select {
	case <-done:
	case <-time.After(timeout):
		t.Fatal("print job goroutine did not exit in time")
	}
}
