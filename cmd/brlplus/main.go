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

package main

import (
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/KabirK-05/BRL-Plus/internal/telemetry"
	"github.com/KabirK-05/BRL-Plus/pkg/cli"
	"github.com/KabirK-05/BRL-Plus/pkg/config"
	"github.com/KabirK-05/BRL-Plus/pkg/service"
	"github.com/KabirK-05/BRL-Plus/pkg/service/daemon"
	"github.com/rs/zerolog/log"
)

func main() {
	if err := run(); err != nil {
		_, _ = fmt.Fprintf(os.Stderr, "Error: %s\n", err)
		telemetry.Flush()
		os.Exit(1)
	}
}

func run() error {
	flags := cli.SetupFlags()
	serviceFlag := flag.String(
		"service",
		"",
		"manage the brlplus service (start|stop|restart|status)",
	)
	daemonMode := flag.Bool(
		"daemon",
		false,
		"run the service in the foreground",
	)

	flags.Pre()

	var logWriters []io.Writer
	if *daemonMode {
		logWriters = []io.Writer{os.Stderr}
	}

	cfg := cli.Setup(config.BaseDefaults, logWriters)
	defer telemetry.Close()

	defer func() {
		if err := recover(); err != nil {
			_, _ = fmt.Fprintf(os.Stderr, "Panic: %v\n", err)
			log.Fatal().Msgf("panic: %v", err)
		}
	}()

	if *daemonMode {
		stop, done, err := service.Start(cfg)
		if err != nil {
			return fmt.Errorf("error starting service: %w", err)
		}
		log.Info().Msg("started in daemon mode")

		sigs := make(chan os.Signal, 1)
		signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM)
		select {
		case <-sigs:
		case <-done:
		}
		return stop()
	}

	svc, err := daemon.NewService(daemon.ServiceArgs{
		Entry: func() (func() error, <-chan struct{}, error) {
			return service.Start(cfg)
		},
	})
	if err != nil {
		return fmt.Errorf("error creating service: %w", err)
	}
	if err := svc.ServiceHandler(serviceFlag); err != nil {
		return fmt.Errorf("service handler failed: %w", err)
	}

	flags.Post(cfg)

	// no action flag given: make sure the background service is up
	if svc.Running() {
		_, _ = fmt.Println("service running")
		return nil
	}

	if err := svc.Start(); err != nil {
		return fmt.Errorf("could not start service: %w", err)
	}
	if err := svc.WaitForAPI(cfg, 10*time.Second, 500*time.Millisecond); err != nil {
		return fmt.Errorf("service started but API not responding: %w", err)
	}
	_, _ = fmt.Println("service started")
	return nil
}
