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

package methods

import (
	"context"
	"database/sql"
	"encoding/json"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/KabirK-05/BRL-Plus/pkg/api/models"
	"github.com/KabirK-05/BRL-Plus/pkg/api/models/requests"
	"github.com/KabirK-05/BRL-Plus/pkg/config"
	"github.com/KabirK-05/BRL-Plus/pkg/database"
	"github.com/KabirK-05/BRL-Plus/pkg/database/checkpointdb"
	"github.com/KabirK-05/BRL-Plus/pkg/database/historydb"
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

// testEnv assembles a full request environment around real stores, a mock
// serial device and a live job manager.
type testEnv struct {
	env  requests.RequestEnv
	port *mocks.MockSerialPort
	ns   <-chan models.Notification
}

func newTestEnv(t *testing.T, respond func(string) []string) *testEnv {
	t.Helper()

	dataDir := t.TempDir()
	cfg, err := config.NewConfig(dataDir, config.BaseDefaults)
	require.NoError(t, err)

	sqlDB, err := sql.Open("sqlite3", filepath.Join(t.TempDir(), config.HistoryDbFile))
	require.NoError(t, err)
	hdb := &historydb.HistoryDB{}
	require.NoError(t, hdb.SetSQLForTesting(context.Background(), sqlDB))
	t.Cleanup(func() { _ = hdb.Close() })

	cdb, err := checkpointdb.Open(t.TempDir())
	require.NoError(t, err)
	t.Cleanup(func() { _ = cdb.Close() })

	db := &database.Database{History: hdb, Checkpoints: cdb}

	st, ns := state.NewState(uuid.NewString())
	t.Cleanup(st.StopService)

	mgr := jobs.NewManager(cfg, db, st.Notifications,
		jobs.WithFilesystem(afero.NewMemMapFs()), jobs.WithDataDir(dataDir))

	port := mocks.NewMockSerialPort(respond)
	dev := printer.New(
		printer.WithSerialPortFactory(func(string, *serial.Mode) (printer.SerialPort, error) {
			return port, nil
		}),
		printer.WithStatusListener(mgr.HandlePrinterStatus),
	)
	mgr.AttachPrinter(dev)

	return &testEnv{
		env: requests.RequestEnv{
			Config:   cfg,
			State:    st,
			Database: db,
			Printer:  dev,
			Jobs:     mgr,
			ID:       uuid.New(),
			IsLocal:  true,
		},
		port: port,
		ns:   ns,
	}
}

func params(t *testing.T, v any) json.RawMessage {
	t.Helper()
	data, err := json.Marshal(v)
	require.NoError(t, err)
	return data
}

func TestHandleVersion(t *testing.T) {
	t.Parallel()

	rig := newTestEnv(t, nil)
	result, err := HandleVersion(rig.env)
	require.NoError(t, err)

	resp, ok := result.(models.VersionResponse)
	require.True(t, ok)
	assert.Equal(t, config.AppVersion, resp.Version)
	assert.NotEmpty(t, resp.Platform)
}

func TestHandleStatusDisconnected(t *testing.T) {
	t.Parallel()

	rig := newTestEnv(t, nil)
	result, err := HandleStatus(rig.env)
	require.NoError(t, err)

	resp, ok := result.(models.StatusResponse)
	require.True(t, ok)
	assert.False(t, resp.Connected)
	assert.Empty(t, resp.Port)
	assert.Nil(t, resp.Job)
}

func TestHandleConnectAndDisconnect(t *testing.T) {
	t.Parallel()

	rig := newTestEnv(t, func(string) []string { return []string{"ok"} })

	_, err := HandleConnect(rig.env)
	require.ErrorIs(t, err, ErrMissingParams)

	// connect goes through the fuzzy port matcher, so this only works with
	// an exact device path on a machine that has it; use the mock's route
	// by connecting the printer directly and exercising disconnect.
	require.NoError(t, rig.env.Printer.Connect("/dev/ttyACM0", 0))
	rig.env.State.SetDeviceConnected("/dev/ttyACM0", true)

	result, err := HandleStatus(rig.env)
	require.NoError(t, err)
	resp, ok := result.(models.StatusResponse)
	require.True(t, ok)
	assert.True(t, resp.Connected)

	_, err = HandleDisconnect(rig.env)
	require.NoError(t, err)
	assert.False(t, rig.env.Printer.Connected())
}

func TestHandlePrintTextValidation(t *testing.T) {
	t.Parallel()

	rig := newTestEnv(t, nil)

	_, err := HandlePrintText(rig.env)
	require.ErrorIs(t, err, ErrMissingParams)

	rig.env.Params = params(t, models.PrintTextParams{Text: ""})
	_, err = HandlePrintText(rig.env)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "text is required")
}

func TestHandlePrintTextRejectsUnknownTable(t *testing.T) {
	t.Parallel()

	rig := newTestEnv(t, nil)
	rig.env.Params = params(t, models.PrintTextParams{
		Text:    "hello",
		Options: map[string]string{"table": "klingon-g2"},
	})

	_, err := HandlePrintText(rig.env)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid print options")
}

func TestHandlePrintTextWithoutDevice(t *testing.T) {
	t.Parallel()

	rig := newTestEnv(t, nil)
	rig.env.Params = params(t, models.PrintTextParams{Text: "hello"})

	_, err := HandlePrintText(rig.env)
	require.Error(t, err)
}

func TestHandlePrintTextEmbosses(t *testing.T) {
	t.Parallel()

	rig := newTestEnv(t, func(string) []string { return []string{"ok"} })
	require.NoError(t, rig.env.Printer.Connect("/dev/ttyACM0", 0))

	rig.env.Params = params(t, models.PrintTextParams{Text: "ab", Name: "greeting"})
	result, err := HandlePrintText(rig.env)
	require.NoError(t, err)

	resp, ok := result.(models.PrintResponse)
	require.True(t, ok)
	assert.NotEmpty(t, resp.ID)

	deadline := time.Now().Add(10 * time.Second)
	for time.Now().Before(deadline) {
		select {
		case n := <-rig.ns:
			if n.Method == models.NotificationJobCompleted {
				return
			}
		case <-time.After(100 * time.Millisecond):
		}
	}
	t.Fatal("job did not complete")
}

func TestHandleJobsResumeListsWithoutParams(t *testing.T) {
	t.Parallel()

	rig := newTestEnv(t, nil)
	result, err := HandleJobsResume(rig.env)
	require.NoError(t, err)

	resp, ok := result.(models.ResumableResponse)
	require.True(t, ok)
	assert.Empty(t, resp.Resumable)
}

func TestHandleJobsResumeUnknownID(t *testing.T) {
	t.Parallel()

	rig := newTestEnv(t, nil)
	rig.env.Params = params(t, models.JobsResumeParams{ID: uuid.NewString()})

	_, err := HandleJobsResume(rig.env)
	require.Error(t, err)
}

func TestHandleTablesIncludesBuiltin(t *testing.T) {
	t.Parallel()

	rig := newTestEnv(t, nil)
	result, err := HandleTables(rig.env)
	require.NoError(t, err)

	resp, ok := result.(models.TablesResponse)
	require.True(t, ok)
	assert.Contains(t, resp.Tables, "en-g1")
}

func TestHandleLayoutsIncludesDefault(t *testing.T) {
	t.Parallel()

	rig := newTestEnv(t, nil)
	result, err := HandleLayouts(rig.env)
	require.NoError(t, err)

	resp, ok := result.(models.LayoutsResponse)
	require.True(t, ok)
	require.NotEmpty(t, resp.Layouts)

	var found bool
	for _, l := range resp.Layouts {
		if l.Name == "default" {
			found = true
			assert.Positive(t, l.CellsPerLine)
			assert.Positive(t, l.LinesPerPage)
		}
	}
	assert.True(t, found, "default layout listed")
}

func TestHandleBrailleRender(t *testing.T) {
	t.Parallel()

	rig := newTestEnv(t, nil)
	rig.env.Params = params(t, models.BrailleRenderParams{Text: "ab"})

	result, err := HandleBrailleRender(rig.env)
	require.NoError(t, err)

	resp, ok := result.(models.BrailleRenderResponse)
	require.True(t, ok)
	assert.Equal(t, 2, resp.Cells)
	assert.Equal(t, 1, resp.Pages)
	require.NotEmpty(t, resp.Lines)
}

func TestHandleHistoryEmpty(t *testing.T) {
	t.Parallel()

	rig := newTestEnv(t, nil)
	result, err := HandleHistory(rig.env)
	require.NoError(t, err)

	resp, ok := result.(models.HistoryResponse)
	require.True(t, ok)
	assert.Empty(t, resp.Jobs)
}

func TestHandleHistoryExport(t *testing.T) {
	t.Parallel()

	rig := newTestEnv(t, nil)
	require.NoError(t, rig.env.Database.History.AddJob(&database.Job{
		ID:        uuid.NewString(),
		Name:      "annual report",
		Source:    database.SourceAPI,
		Table:     "en-g1",
		Layout:    "default",
		State:     database.JobStateCompleted,
		StartedAt: time.Now().Add(-time.Minute),
		EndedAt:   time.Now(),
		Cells:     120,
		Dots:      300,
		DotsDone:  300,
		Pages:     2,
		Copies:    1,
	}))

	result, err := HandleHistoryExport(rig.env)
	require.NoError(t, err)

	resp, ok := result.(models.HistoryExportResponse)
	require.True(t, ok)
	assert.Equal(t, 1, resp.Jobs)
	assert.True(t, strings.HasPrefix(resp.Filename, "brlplus-history-"))
	assert.Contains(t, resp.CSV, "id,name,source")
	assert.Contains(t, resp.CSV, "annual report")
}

func TestHandleSettingsRoundTrip(t *testing.T) {
	t.Parallel()

	rig := newTestEnv(t, nil)

	result, err := HandleSettings(rig.env)
	require.NoError(t, err)
	before, ok := result.(models.SettingsResponse)
	require.True(t, ok)
	assert.False(t, before.DebugLogging)

	enabled := true
	table := "en-g1"
	rig.env.Params = params(t, models.UpdateSettingsParams{
		DebugLogging: &enabled,
		DefaultTable: &table,
	})
	_, err = HandleSettingsUpdate(rig.env)
	require.NoError(t, err)

	rig.env.Params = nil
	result, err = HandleSettings(rig.env)
	require.NoError(t, err)
	after, ok := result.(models.SettingsResponse)
	require.True(t, ok)
	assert.True(t, after.DebugLogging)
	assert.Equal(t, "en-g1", after.DefaultTable)
}

func TestHandleSettingsUpdateRejectsRemote(t *testing.T) {
	t.Parallel()

	rig := newTestEnv(t, nil)
	rig.env.IsLocal = false
	enabled := true
	rig.env.Params = params(t, models.UpdateSettingsParams{DebugLogging: &enabled})

	_, err := HandleSettingsUpdate(rig.env)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "local machine")
}

func TestHandleSettingsUpdateRejectsUnknownTable(t *testing.T) {
	t.Parallel()

	rig := newTestEnv(t, nil)
	table := "does-not-exist"
	rig.env.Params = params(t, models.UpdateSettingsParams{DefaultTable: &table})

	_, err := HandleSettingsUpdate(rig.env)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown braille table")
}

func TestHandleSystemInfo(t *testing.T) {
	t.Parallel()

	rig := newTestEnv(t, nil)
	result, err := HandleSystemInfo(rig.env)
	require.NoError(t, err)

	resp, ok := result.(models.SystemInfoResponse)
	require.True(t, ok)
	assert.NotEmpty(t, resp.OS)
	assert.NotEmpty(t, resp.Arch)
}
