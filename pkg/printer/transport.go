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
	"bytes"
	"fmt"
	"os"
	"strings"
	"sync/atomic"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/rs/zerolog/log"
	"go.bug.st/serial"
)

// readTimeout bounds a single raw serial read. Blocking waits above the
// transport poll in multiples of this, so it also sets the granularity of
// cancellation checks.
const readTimeout = 500 * time.Millisecond

// SerialPort defines the interface for serial port operations (for mocking in tests).
type SerialPort interface {
	Read(p []byte) (n int, err error)
	Write(p []byte) (n int, err error)
	Close() error
	SetReadTimeout(t time.Duration) error
}

// SerialPortFactory creates a serial port connection.
type SerialPortFactory func(path string, mode *serial.Mode) (SerialPort, error)

// DefaultSerialPortFactory is the default factory that opens real serial ports.
func DefaultSerialPortFactory(path string, mode *serial.Mode) (SerialPort, error) {
	port, err := serial.Open(path, mode)
	if err != nil {
		return nil, fmt.Errorf("failed to open serial port: %w", err)
	}
	return port, nil
}

// callUpDevicePath maps a macOS dial-in serial path to its call-up
// counterpart when that endpoint exists. The tty.* endpoint blocks opens
// waiting for carrier detect, which USB embossers never assert; if no cu.*
// device is present the dial-in path is the only way in and is kept.
func callUpDevicePath(path string) string {
	return callUpPathWhen(path, devicePresent)
}

func callUpPathWhen(path string, present func(string) bool) string {
	if !strings.HasPrefix(path, "/dev/tty.") {
		return path
	}
	callUp := "/dev/cu." + strings.TrimPrefix(path, "/dev/tty.")
	if !present(callUp) {
		return path
	}
	return callUp
}

func devicePresent(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

// transport owns the open serial handle and assembles raw reads into
// newline-delimited response lines. Reads happen on one goroutine at a time,
// but the abort path writes and the disconnect path closes concurrently with
// them, so the open flag is atomic.
type transport struct {
	port    SerialPort
	clock   clockwork.Clock
	pending []byte
	open    atomic.Bool
}

// openTransport opens the serial device at path. Hardware and software flow
// control stay at the library's disabled defaults; embosser firmware answers
// every line, so pacing comes from the acknowledgement protocol instead.
func openTransport(factory SerialPortFactory, path string, baud int, clock clockwork.Clock) (*transport, error) {
	port, err := factory(path, &serial.Mode{
		BaudRate: baud,
		DataBits: 8,
		Parity:   serial.NoParity,
		StopBits: serial.OneStopBit,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open serial port %s: %w", path, err)
	}

	if err := port.SetReadTimeout(readTimeout); err != nil {
		_ = port.Close()
		return nil, fmt.Errorf("failed to set read timeout on serial port: %w", err)
	}

	t := &transport{port: port, clock: clock}
	t.open.Store(true)
	return t, nil
}

func (t *transport) write(data []byte) error {
	if !t.open.Load() {
		return ErrNotConnected
	}
	if _, err := t.port.Write(data); err != nil {
		return fmt.Errorf("failed to write to serial port: %w", err)
	}
	return nil
}

// readLine returns one response line with its terminator stripped, or an
// empty string if no complete line arrived within window. Partial input is
// buffered across calls.
func (t *transport) readLine(window time.Duration) (string, error) {
	if !t.open.Load() {
		return "", ErrNotConnected
	}

	deadline := t.clock.Now().Add(window)
	buf := make([]byte, 256)

	for {
		if i := bytes.IndexByte(t.pending, '\n'); i >= 0 {
			line := strings.TrimRight(string(t.pending[:i]), "\r")
			t.pending = t.pending[i+1:]
			return line, nil
		}

		if !t.clock.Now().Before(deadline) {
			return "", nil
		}

		n, err := t.port.Read(buf)
		if err != nil {
			return "", fmt.Errorf("failed to read from serial port: %w", err)
		}
		if n == 0 {
			// per-read timeout elapsed with nothing buffered
			continue
		}
		t.pending = append(t.pending, buf[:n]...)
	}
}

// close releases the serial handle. It is idempotent and swallows OS-level
// close errors, which can race with process teardown; the open flag is
// cleared either way.
func (t *transport) close() {
	if !t.open.CompareAndSwap(true, false) {
		return
	}
	if err := t.port.Close(); err != nil {
		log.Debug().Err(err).Msg("serial port close failed")
	}
}
