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

package models

type ConnectParams struct {
	Port string `json:"port" validate:"required"`
	Baud int    `json:"baud" validate:"omitempty,baud"`
}

// PrintTextParams carries a plain text or BRF print request. Options is
// the loose option map parsed by printopts.
type PrintTextParams struct {
	Options map[string]string `json:"options"`
	Text    string            `json:"text" validate:"required"`
	Name    string            `json:"name"`
}

// PrintDotsParams prints pre-rendered dot patterns, one line per string,
// each rune a 6-bit dot mask expressed as digits ("145" = dots 1, 4, 5).
type PrintDotsParams struct {
	Options map[string]string `json:"options"`
	Lines   []string          `json:"lines" validate:"required,min=1,dive,dotcell"`
	Name    string            `json:"name"`
}

type JobsResumeParams struct {
	ID string `json:"id" validate:"required,uuid"`
}

type HistoryParams struct {
	LastID int `json:"lastId" validate:"omitempty,min=0"`
}

type BrailleRenderParams struct {
	Text   string `json:"text" validate:"required"`
	Table  string `json:"table"`
	Layout string `json:"layout"`
}

type UpdateSettingsParams struct {
	DebugLogging     *bool   `json:"debugLogging"`
	AudioFeedback    *bool   `json:"audioFeedback"`
	HomeOnFinish     *bool   `json:"homeOnFinish"`
	ConnectOnStart   *bool   `json:"connectOnStart"`
	DefaultTable     *string `json:"defaultTable"`
	DefaultLayout    *string `json:"defaultLayout"`
	DevicePort       *string `json:"devicePort"`
	DeviceBaudRate   *int    `json:"deviceBaudRate"`
	PrinterProtocol  *string `json:"printerProtocol"`
	CheckpointEvery  *int    `json:"checkpointEvery"`
	HistoryRetention *int    `json:"historyRetentionDays"`
}
