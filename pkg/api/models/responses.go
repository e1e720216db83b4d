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

import (
	"time"

	"github.com/KabirK-05/BRL-Plus/pkg/database"
)

type PortInfo struct {
	Device    string `json:"device"`
	Connected bool   `json:"connected"`
	Probed    bool   `json:"probed,omitempty"`
}

type PortsResponse struct {
	Ports []PortInfo `json:"ports"`
}

// StatusResponse reports the device and any active job in one shot,
// matching what a control UI polls for.
type StatusResponse struct {
	Job       *JobStatus `json:"job,omitempty"`
	Status    string     `json:"status"`
	Port      string     `json:"port,omitempty"`
	Connected bool       `json:"connected"`
}

// JobStatus is the live view of a job. It doubles as the params payload
// for the job.* notifications.
type JobStatus struct {
	StartedAt time.Time `json:"startedAt"`
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Source    string    `json:"source"`
	State     string    `json:"state"`
	Error     string    `json:"error,omitempty"`
	DotsDone  int       `json:"dotsDone"`
	Dots      int       `json:"dots"`
	Page      int       `json:"page"`
	Pages     int       `json:"pages"`
	Copies    int       `json:"copies"`
}

type PrintResponse struct {
	ID string `json:"id"`
}

type HistoryResponse struct {
	Jobs []database.Job `json:"jobs"`
}

type HistoryExportResponse struct {
	Filename string `json:"filename"`
	CSV      string `json:"csv"`
	Jobs     int    `json:"jobs"`
}

type ResumableJob struct {
	StartedAt time.Time `json:"startedAt"`
	UpdatedAt time.Time `json:"updatedAt"`
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	DotsDone  int       `json:"dotsDone"`
	Dots      int       `json:"dots"`
}

type ResumableResponse struct {
	Resumable []ResumableJob `json:"resumable"`
}

type TablesResponse struct {
	Tables []string `json:"tables"`
}

type LayoutInfo struct {
	Name         string  `json:"name"`
	PageWidth    float64 `json:"pageWidth"`
	PageHeight   float64 `json:"pageHeight"`
	CellsPerLine int     `json:"cellsPerLine"`
	LinesPerPage int     `json:"linesPerPage"`
}

type LayoutsResponse struct {
	Layouts []LayoutInfo `json:"layouts"`
}

// BrailleRenderResponse previews a translation without printing it.
type BrailleRenderResponse struct {
	Lines []string `json:"lines"`
	Cells int      `json:"cells"`
	Pages int      `json:"pages"`
	Dots  int      `json:"dots"`
}

type SettingsResponse struct {
	DefaultTable         string `json:"defaultTable"`
	DefaultLayout        string `json:"defaultLayout"`
	DevicePort           string `json:"devicePort"`
	PrinterProtocol      string `json:"printerProtocol"`
	DeviceBaudRate       int    `json:"deviceBaudRate"`
	CheckpointEvery      int    `json:"checkpointEvery"`
	HistoryRetentionDays int    `json:"historyRetentionDays"`
	DebugLogging         bool   `json:"debugLogging"`
	AudioFeedback        bool   `json:"audioFeedback"`
	HomeOnFinish         bool   `json:"homeOnFinish"`
	ConnectOnStart       bool   `json:"connectOnStart"`
}

type VersionResponse struct {
	Version  string `json:"version"`
	Platform string `json:"platform"`
	AppID    string `json:"appId"`
}

type SystemInfoResponse struct {
	Hostname    string  `json:"hostname"`
	OS          string  `json:"os"`
	Arch        string  `json:"arch"`
	UptimeSecs  uint64  `json:"uptimeSecs"`
	MemoryTotal uint64  `json:"memoryTotal"`
	MemoryUsed  uint64  `json:"memoryUsed"`
	LoadAvg1    float64 `json:"loadAvg1"`
}

// DeviceParams is the payload for device.connected / device.disconnected.
type DeviceParams struct {
	Port string `json:"port"`
}

// StatusChangedParams is the payload for status.changed.
type StatusChangedParams struct {
	Status string `json:"status"`
}
