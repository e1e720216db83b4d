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

// Package notifications posts server events onto the notification channel
// consumed by the broker. Senders must never hold state locks when calling
// these since the channel can apply backpressure.
package notifications

import "github.com/KabirK-05/BRL-Plus/pkg/api/models"

func StatusChanged(ns chan<- models.Notification, status string) {
	ns <- models.Notification{
		Method: models.NotificationStatusChanged,
		Params: models.StatusChangedParams{Status: status},
	}
}

func JobStarted(ns chan<- models.Notification, payload models.JobStatus) {
	ns <- models.Notification{
		Method: models.NotificationJobStarted,
		Params: payload,
	}
}

func JobProgress(ns chan<- models.Notification, payload models.JobStatus) {
	ns <- models.Notification{
		Method: models.NotificationJobProgress,
		Params: payload,
	}
}

func JobCompleted(ns chan<- models.Notification, payload models.JobStatus) {
	ns <- models.Notification{
		Method: models.NotificationJobCompleted,
		Params: payload,
	}
}

func JobFailed(ns chan<- models.Notification, payload models.JobStatus) {
	ns <- models.Notification{
		Method: models.NotificationJobFailed,
		Params: payload,
	}
}

// JobPageWait fires when the job pauses at a page boundary for paper.
func JobPageWait(ns chan<- models.Notification, payload models.JobStatus) {
	ns <- models.Notification{
		Method: models.NotificationJobPageWait,
		Params: payload,
	}
}

func DeviceConnected(ns chan<- models.Notification, port string) {
	ns <- models.Notification{
		Method: models.NotificationDeviceConnected,
		Params: models.DeviceParams{Port: port},
	}
}

func DeviceDisconnected(ns chan<- models.Notification, port string) {
	ns <- models.Notification{
		Method: models.NotificationDeviceDisconnected,
		Params: models.DeviceParams{Port: port},
	}
}
