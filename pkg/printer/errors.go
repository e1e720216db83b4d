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
	"fmt"
	"strings"
	"time"

	"go.bug.st/serial"
)

// ErrNotConnected is returned by control operations attempted while no
// device connection is open.
var ErrNotConnected = errors.New("printer is not connected")

// ErrJobRunning is returned by RunJob while a previous job's goroutine has
// not yet fully stopped.
var ErrJobRunning = errors.New("a print job is already running")

// errCancelled unwinds blocking waits after Stop has been requested. It is
// internal control flow, never a job failure: a cancelled job ends idle.
var errCancelled = errors.New("print cancelled")

// ConnectionError reports a failed attempt to open the serial device. No
// connection state is left behind when it is returned.
type ConnectionError struct {
	Err  error
	Port string
}

func (e *ConnectionError) Error() string {
	return fmt.Sprintf("failed to connect to %s: %v", e.Port, e.Err)
}

func (e *ConnectionError) Unwrap() error { return e.Err }

// ProtocolError reports an explicit error line received from the firmware in
// response to a command.
type ProtocolError struct {
	Command  string
	Response string
}

func (e *ProtocolError) Error() string {
	return fmt.Sprintf("firmware rejected %q: %s", e.Command, e.Response)
}

// TimeoutError reports that no acknowledgement arrived for a command within
// the acknowledgement ceiling, resends included.
type TimeoutError struct {
	Command string
	Elapsed time.Duration
}

func (e *TimeoutError) Error() string {
	return fmt.Sprintf("no acknowledgement for %q after %s", e.Command, e.Elapsed)
}

// IsDisconnectionError reports whether err indicates the device went away,
// as opposed to a configuration or permission problem.
func IsDisconnectionError(err error) bool {
	if err == nil {
		return false
	}

	var portErr serial.PortError
	if errors.As(err, &portErr) {
		switch portErr.Code() {
		case serial.PortNotFound:
			return true // device was unplugged/removed
		case serial.PortClosed:
			return true // port was closed unexpectedly
		case serial.InvalidSerialPort:
			return true // device is no longer a valid serial port
		case serial.PortBusy, serial.PermissionDenied, serial.InvalidSpeed,
			serial.InvalidDataBits, serial.InvalidParity, serial.InvalidStopBits,
			serial.InvalidTimeoutValue, serial.ErrorEnumeratingPorts, serial.FunctionNotImplemented:
			return false // configuration or permission errors, not disconnection
		default:
			return false
		}
	}

	// Fallback to string matching for OS-level errors that aren't wrapped
	errStr := strings.ToLower(err.Error())
	return strings.Contains(errStr, "device not configured") ||
		strings.Contains(errStr, "input/output error") ||
		strings.Contains(errStr, "no such device") ||
		strings.Contains(errStr, "device not found") ||
		strings.Contains(errStr, "broken pipe") ||
		strings.Contains(errStr, "device disconnected")
}
