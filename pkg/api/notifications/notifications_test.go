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

package notifications

import (
	"testing"

	"github.com/KabirK-05/BRL-Plus/pkg/api/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStatusChanged(t *testing.T) {
	t.Parallel()

	ns := make(chan models.Notification, 1)
	StatusChanged(ns, "printing")

	notif := <-ns
	assert.Equal(t, models.NotificationStatusChanged, notif.Method)
	params, ok := notif.Params.(models.StatusChangedParams)
	require.True(t, ok)
	assert.Equal(t, "printing", params.Status)
}

func TestJobLifecycleMethods(t *testing.T) {
	t.Parallel()

	ns := make(chan models.Notification, 4)
	payload := models.JobStatus{ID: "abc", Name: "letter", State: "printing"}

	JobStarted(ns, payload)
	JobProgress(ns, payload)
	JobCompleted(ns, payload)
	JobFailed(ns, payload)

	methods := []string{
		models.NotificationJobStarted,
		models.NotificationJobProgress,
		models.NotificationJobCompleted,
		models.NotificationJobFailed,
	}
	for _, want := range methods {
		notif := <-ns
		assert.Equal(t, want, notif.Method)
		params, ok := notif.Params.(models.JobStatus)
		require.True(t, ok)
		assert.Equal(t, "abc", params.ID)
	}
}

func TestDeviceNotificationsCarryPort(t *testing.T) {
	t.Parallel()

	ns := make(chan models.Notification, 2)
	DeviceConnected(ns, "/dev/ttyACM0")
	DeviceDisconnected(ns, "/dev/ttyACM0")

	connected := <-ns
	assert.Equal(t, models.NotificationDeviceConnected, connected.Method)
	params, ok := connected.Params.(models.DeviceParams)
	require.True(t, ok)
	assert.Equal(t, "/dev/ttyACM0", params.Port)

	disconnected := <-ns
	assert.Equal(t, models.NotificationDeviceDisconnected, disconnected.Method)
}

func TestJobPageWait(t *testing.T) {
	t.Parallel()

	ns := make(chan models.Notification, 1)
	JobPageWait(ns, models.JobStatus{ID: "abc", Page: 2, Pages: 5})

	notif := <-ns
	assert.Equal(t, models.NotificationJobPageWait, notif.Method)
	params, ok := notif.Params.(models.JobStatus)
	require.True(t, ok)
	assert.Equal(t, 2, params.Page)
}
