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

package service

import (
	"testing"
	"time"

	"github.com/KabirK-05/BRL-Plus/pkg/api/models"
	"github.com/KabirK-05/BRL-Plus/pkg/config"
	"github.com/KabirK-05/BRL-Plus/pkg/database"
	"github.com/KabirK-05/BRL-Plus/pkg/jobs"
	"github.com/KabirK-05/BRL-Plus/pkg/printer"
	"github.com/KabirK-05/BRL-Plus/pkg/service/state"
	"github.com/KabirK-05/BRL-Plus/pkg/testing/mocks"
	"github.com/google/uuid"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.bug.st/serial"
)

func drainStatusChanges(ns <-chan models.Notification) []string {
	var out []string
	for {
		select {
		case n := <-ns:
			if n.Method != models.NotificationStatusChanged {
				continue
			}
			if p, ok := n.Params.(models.StatusChangedParams); ok {
				out = append(out, p.Status)
			}
		default:
			return out
		}
	}
}

// Every device status transition must reach subscribers exactly once: the
// job manager is the only status.changed publisher in the wiring.
func TestDeviceStatusPublishedOnce(t *testing.T) {
	t.Parallel()

	cfg, err := config.NewConfig(t.TempDir(), config.BaseDefaults)
	require.NoError(t, err)

	st, ns := state.NewState(uuid.NewString())
	t.Cleanup(st.StopService)

	mgr := jobs.NewManager(cfg, &database.Database{}, st.Notifications,
		jobs.WithFilesystem(afero.NewMemMapFs()), jobs.WithDataDir(t.TempDir()))

	port := mocks.NewMockSerialPort(mocks.AckEverything)
	dev := newDevice(cfg, mgr,
		printer.WithSerialPortFactory(func(string, *serial.Mode) (printer.SerialPort, error) {
			return port, nil
		}))
	mgr.AttachPrinter(dev)

	require.NoError(t, dev.Connect("/dev/ttyACM0", 0))
	require.NoError(t, dev.RunJob([]printer.Action{{Command: "G1 X1"}}))

	deadline := time.Now().Add(10 * time.Second)
	for dev.Status() != printer.StatusCompleted {
		if time.Now().After(deadline) {
			t.Fatal("job did not complete before timeout")
		}
		time.Sleep(10 * time.Millisecond)
	}

	assert.Equal(t, []string{"printing", "completed"}, drainStatusChanges(ns))
}

type orderedStopper struct {
	calls *[]string
}

func (f orderedStopper) Stop() { *f.calls = append(*f.calls, "stop") }

type orderedCloser struct {
	calls *[]string
	err   error
}

func (f orderedCloser) Disconnect() error {
	*f.calls = append(*f.calls, "disconnect")
	return f.err
}

func TestStopDeviceHaltsJobBeforeDisconnect(t *testing.T) {
	t.Parallel()

	var calls []string
	stopDevice(orderedStopper{calls: &calls}, orderedCloser{calls: &calls})
	assert.Equal(t, []string{"stop", "disconnect"}, calls)
}

func TestStopDeviceToleratesDisconnectError(t *testing.T) {
	t.Parallel()

	var calls []string
	stopDevice(orderedStopper{calls: &calls}, orderedCloser{calls: &calls, err: assert.AnError})
	assert.Equal(t, []string{"stop", "disconnect"}, calls)
}
