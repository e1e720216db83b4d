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

// Status is the device status owned by the job engine. It is stored in a
// single atomic word so readers on any goroutine never observe a torn value.
//
// Status is printing or paused exactly while a job goroutine is active.
// Idle, completed and error are all "no job running" states from which a new
// job may start.
type Status int32

const (
	StatusIdle Status = iota
	StatusPrinting
	StatusPaused
	StatusCompleted
	StatusError
)

func (s Status) String() string {
	switch s {
	case StatusIdle:
		return "idle"
	case StatusPrinting:
		return "printing"
	case StatusPaused:
		return "paused"
	case StatusCompleted:
		return "completed"
	case StatusError:
		return "error"
	default:
		return "unknown"
	}
}

// MarshalText renders the status as its lowercase name for API payloads.
func (s Status) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}
