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

// Package service wires the embosser service together: state, databases,
// the job manager and printer, the API server, discovery, publishers and
// the spool watcher. Start returns once everything is running; shutdown is
// driven by cancelling the service state.
package service

import (
	"fmt"
	"os"

	"github.com/KabirK-05/BRL-Plus/pkg/api"
	"github.com/KabirK-05/BRL-Plus/pkg/audio"
	"github.com/KabirK-05/BRL-Plus/pkg/config"
	"github.com/KabirK-05/BRL-Plus/pkg/database"
	"github.com/KabirK-05/BRL-Plus/pkg/database/checkpointdb"
	"github.com/KabirK-05/BRL-Plus/pkg/database/historydb"
	"github.com/KabirK-05/BRL-Plus/pkg/helpers"
	"github.com/KabirK-05/BRL-Plus/pkg/jobs"
	"github.com/KabirK-05/BRL-Plus/pkg/printer"
	"github.com/KabirK-05/BRL-Plus/pkg/service/broker"
	"github.com/KabirK-05/BRL-Plus/pkg/service/discovery"
	"github.com/KabirK-05/BRL-Plus/pkg/service/inhibit"
	"github.com/KabirK-05/BRL-Plus/pkg/service/publishers"
	"github.com/KabirK-05/BRL-Plus/pkg/service/spool"
	"github.com/KabirK-05/BRL-Plus/pkg/service/state"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

func setupEnvironment() error {
	dirs := []string{
		helpers.ConfigDir(),
		helpers.DataDir(),
	}
	for _, dir := range dirs {
		if err := os.MkdirAll(dir, 0o750); err != nil {
			return fmt.Errorf("failed to create directory %s: %w", dir, err)
		}
	}
	return nil
}

func makeDatabase(st *state.State) (*database.Database, error) {
	log.Debug().Msg("opening history database")
	hdb, err := historydb.OpenHistoryDB(st.GetContext())
	if err != nil {
		return nil, fmt.Errorf("failed to open history database: %w", err)
	}

	log.Debug().Msg("running history database migrations")
	if err := hdb.MigrateUp(); err != nil {
		return nil, fmt.Errorf("error migrating history database: %w", err)
	}

	log.Debug().Msg("opening checkpoint database")
	cdb, err := checkpointdb.Open(helpers.DataDir())
	if err != nil {
		return nil, fmt.Errorf("failed to open checkpoint database: %w", err)
	}

	return &database.Database{History: hdb, Checkpoints: cdb}, nil
}

// cleanupHistoryOnStartup prunes old finished jobs if retention is
// configured. Retention of 0 keeps history forever.
func cleanupHistoryOnStartup(cfg *config.Instance, db *database.Database) {
	days := cfg.HistoryRetentionDays()
	if days <= 0 {
		log.Debug().Msg("history cleanup disabled (retention set to 0)")
		return
	}

	log.Info().Msgf("cleaning up job history older than %d days", days)
	rowsDeleted, err := db.History.CleanupJobs(days)
	switch {
	case err != nil:
		log.Error().Err(err).Msg("error cleaning up job history")
	case rowsDeleted > 0:
		log.Info().Msgf("deleted %d old job history entries", rowsDeleted)
	default:
		log.Debug().Msg("no old job history entries to clean up")
	}
}

// startPublishers launches one MQTT publisher per configured broker and
// returns the started set.
func startPublishers(cfg *config.Instance, notifBroker *broker.Broker) []*publishers.MQTTPublisher {
	var active []*publishers.MQTTPublisher
	for _, pubCfg := range cfg.GetMQTTPublishers() {
		if pubCfg.Enabled != nil && !*pubCfg.Enabled {
			continue
		}
		pub := publishers.NewMQTTPublisher(pubCfg.Broker, pubCfg.Topic, pubCfg.Filter)
		sub, _ := notifBroker.Subscribe(100)
		if err := pub.Start(sub); err != nil {
			log.Error().Err(err).Str("broker", pubCfg.Broker).Msg("mqtt publisher failed to start")
			continue
		}
		active = append(active, pub)
	}
	return active
}

// newDevice builds the embosser handle. The job manager owns the
// status.changed notification, so its handler is the only status listener:
// a second publisher here would put every transition on the wire twice.
func newDevice(cfg *config.Instance, mgr *jobs.Manager, opts ...printer.Option) *printer.Printer {
	base := []printer.Option{
		printer.WithMode(printer.Mode(cfg.PrinterProtocol())),
		printer.WithHomeOnFinish(cfg.HomeOnFinish()),
		printer.WithStatusListener(mgr.HandlePrinterStatus),
	}
	return printer.New(append(base, opts...)...)
}

type jobStopper interface {
	Stop()
}

type deviceCloser interface {
	Disconnect() error
}

// stopDevice halts any active job before the transport goes away, so an
// operator-initiated shutdown does not finalize the job as failed with a
// mid-send transport error.
func stopDevice(mgr jobStopper, dev deviceCloser) {
	mgr.Stop()
	if err := dev.Disconnect(); err != nil {
		log.Warn().Err(err).Msg("error disconnecting embosser")
	}
}

// connectOnStart tries to attach the embosser at boot. Failure is logged,
// not fatal: the device may simply not be plugged in yet.
func connectOnStart(cfg *config.Instance, st *state.State, dev *printer.Printer) {
	port := cfg.PrinterPort()
	if port != "" {
		resolved, err := helpers.FindPort(port)
		if err != nil {
			log.Warn().Err(err).Str("hint", port).Msg("configured port not found")
			return
		}
		port = resolved
	} else {
		ports, err := helpers.GetSerialDeviceList()
		if err != nil || len(ports) == 0 {
			log.Info().Msg("no serial devices present, skipping connect on start")
			return
		}
		port = ports[0]
	}

	if err := dev.Connect(port, cfg.PrinterBaud()); err != nil {
		log.Warn().Err(err).Str("port", port).Msg("connect on start failed")
		return
	}
	st.SetDeviceConnected(port, true)
}

// Start brings up the full service. The returned stop function cancels the
// service context and blocks until cleanup finishes.
func Start(cfg *config.Instance) (stop func() error, done <-chan struct{}, err error) {
	log.Info().Msgf("version: %s", config.AppVersion)

	bootUUID := uuid.New().String()
	log.Info().Msgf("boot session UUID: %s", bootUUID)

	st, ns := state.NewState(bootUUID)

	notifBroker := broker.NewBroker(st.GetContext(), ns)
	notifBroker.Start()

	if err := setupEnvironment(); err != nil {
		log.Error().Err(err).Msg("error setting up environment")
		return nil, nil, err
	}

	log.Info().Msg("opening databases")
	db, err := makeDatabase(st)
	if err != nil {
		log.Error().Err(err).Msg("error opening databases")
		return nil, nil, err
	}

	cleanupHistoryOnStartup(cfg, db)

	feedback := audio.NewFeedback(cfg, helpers.DataDir())

	mgr := jobs.NewManager(cfg, db, st.Notifications,
		jobs.WithFeedback(feedback),
		jobs.WithInhibitor(inhibit.New()),
		jobs.WithDataDir(helpers.DataDir()),
	)

	dev := newDevice(cfg, mgr)
	mgr.AttachPrinter(dev)

	log.Info().Msg("starting mDNS discovery service")
	discoveryService := discovery.New(cfg)
	if discoveryErr := discoveryService.Start(); discoveryErr != nil {
		log.Error().Err(discoveryErr).Msg("mDNS discovery failed to start (continuing without discovery)")
	}

	log.Info().Msg("starting API service")
	apiNotifications, _ := notifBroker.Subscribe(100)
	_, err = api.Start(api.Env{
		Config:   cfg,
		State:    st,
		Database: db,
		Printer:  dev,
		Jobs:     mgr,
	}, apiNotifications)
	if err != nil {
		log.Error().Err(err).Msg("error starting API server")
		st.StopService()
		return nil, nil, err
	}

	log.Info().Msg("starting publishers")
	activePublishers := startPublishers(cfg, notifBroker)

	var spoolWatcher *spool.Watcher
	if cfg.SpoolEnabled() {
		log.Info().Msg("starting spool watcher")
		spoolWatcher = spool.NewWatcher(mgr, cfg.SpoolDir(helpers.DataDir()))
		if spoolErr := spoolWatcher.Start(); spoolErr != nil {
			log.Error().Err(spoolErr).Msg("spool watcher failed to start (continuing without spool)")
			spoolWatcher = nil
		}
	}

	if cfg.ConnectOnStart() {
		go connectOnStart(cfg, st, dev)
	}

	log.Info().Msg("service fully initialized")

	doneCh := make(chan struct{})
	go func() {
		<-st.GetContext().Done()
		log.Info().Msg("service context cancelled, running cleanup")

		if spoolWatcher != nil {
			spoolWatcher.Stop()
		}
		discoveryService.Stop()
		for _, pub := range activePublishers {
			pub.Stop()
		}
		stopDevice(mgr, dev)
		notifBroker.Stop()
		if closeErr := db.History.Close(); closeErr != nil {
			log.Warn().Err(closeErr).Msg("error closing history database")
		}
		if closeErr := db.Checkpoints.Close(); closeErr != nil {
			log.Warn().Err(closeErr).Msg("error closing checkpoint database")
		}

		log.Info().Msg("service cleanup completed")
		close(doneCh)
	}()

	stop = func() error {
		st.StopService()
		<-doneCh
		return nil
	}
	return stop, doneCh, nil
}
