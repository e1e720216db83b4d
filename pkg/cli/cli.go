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

// Package cli actions the brlplus command line flags. Everything here
// talks to a running service over the local API; the only flag that runs
// in-process is -service.
package cli

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"runtime"
	"strconv"
	"strings"

	"github.com/KabirK-05/BRL-Plus/internal/telemetry"
	"github.com/KabirK-05/BRL-Plus/pkg/api/client"
	"github.com/KabirK-05/BRL-Plus/pkg/api/models"
	"github.com/KabirK-05/BRL-Plus/pkg/config"
	"github.com/KabirK-05/BRL-Plus/pkg/helpers"
	"github.com/KabirK-05/BRL-Plus/pkg/printopts"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

type Flags struct {
	Ports      *bool
	Probe      *bool
	Connect    *string
	Disconnect *bool
	Print      *string
	Table      *string
	Layout     *string
	Copies     *int
	Stop       *bool
	Pause      *bool
	Resume     *bool
	Resumable  *bool
	ResumeJob  *string
	Status     *bool
	API        *string
	Version    *bool
}

// SetupFlags defines all CLI flags. Add any custom flags before Pre.
func SetupFlags() *Flags {
	return &Flags{
		Ports: flag.Bool(
			"ports",
			false,
			"list serial ports and exit",
		),
		Probe: flag.Bool(
			"probe",
			false,
			"probe serial ports for a responding embosser",
		),
		Connect: flag.String(
			"connect",
			"",
			"connect to the embosser on the given port",
		),
		Disconnect: flag.Bool(
			"disconnect",
			false,
			"disconnect from the embosser",
		),
		Print: flag.String(
			"print",
			"",
			"emboss a text or BRF file (- reads stdin)",
		),
		Table: flag.String(
			"table",
			"",
			"translation table for -print",
		),
		Layout: flag.String(
			"layout",
			"",
			"page layout for -print",
		),
		Copies: flag.Int(
			"copies",
			0,
			"number of copies for -print",
		),
		Stop: flag.Bool(
			"stop",
			false,
			"stop the active print job",
		),
		Pause: flag.Bool(
			"pause",
			false,
			"pause the active print job",
		),
		Resume: flag.Bool(
			"resume",
			false,
			"resume a paused print job",
		),
		Resumable: flag.Bool(
			"resumable",
			false,
			"list interrupted jobs that can be resumed",
		),
		ResumeJob: flag.String(
			"resume-job",
			"",
			"resume an interrupted job from its checkpoint by id",
		),
		Status: flag.Bool(
			"status",
			false,
			"show device and job status",
		),
		API: flag.String(
			"api",
			"",
			"send method and params to API and print response",
		),
		Version: flag.Bool(
			"version",
			false,
			"print version and exit",
		),
	}
}

func isFlagPassed(name string) bool {
	found := false
	flag.Visit(func(f *flag.Flag) {
		if f.Name == name {
			found = true
		}
	})
	return found
}

// Pre runs flag parsing and actions any immediate flags that don't
// require environment setup. Add any custom flags before running this.
func (f *Flags) Pre() {
	flag.Parse()

	if *f.Version {
		_, _ = fmt.Printf("BRL+ v%s (%s)\n", config.AppVersion, runtime.GOOS)
		os.Exit(0)
	}
}

// apiCall sends one request to the local service, prints the response and
// exits. Any error is fatal to the CLI invocation.
func apiCall(cfg *config.Instance, method, params string) {
	resp, err := client.LocalClient(context.Background(), cfg, method, params)
	if err != nil {
		log.Error().Err(err).Str("method", method).Msg("api call failed")
		_, _ = fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	_, _ = fmt.Println(resp)
	os.Exit(0)
}

// printFileParams builds the print.text params for a file path. "-" reads
// the document from stdin.
func printFileParams(path, table, layout string, copies int) (string, error) {
	var data []byte
	var err error
	name := "stdin"

	if path == "-" {
		data, err = io.ReadAll(os.Stdin)
	} else {
		data, err = os.ReadFile(path) //nolint:gosec // user-supplied path is the point
		name = strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	}
	if err != nil {
		return "", fmt.Errorf("reading document: %w", err)
	}

	options := make(map[string]string)
	if table != "" {
		options["table"] = table
	}
	if layout != "" {
		options["layout"] = layout
	}
	if copies > 0 {
		options["copies"] = strconv.Itoa(copies)
	}
	if strings.EqualFold(filepath.Ext(path), ".brf") {
		options["format"] = printopts.FormatBRF
	}

	params, err := json.Marshal(models.PrintTextParams{
		Text:    string(data),
		Name:    name,
		Options: options,
	})
	if err != nil {
		return "", fmt.Errorf("encoding params: %w", err)
	}
	return string(params), nil
}

// connectParams builds the connect params for a port hint.
func connectParams(port string) (string, error) {
	params, err := json.Marshal(models.ConnectParams{Port: port})
	if err != nil {
		return "", fmt.Errorf("encoding params: %w", err)
	}
	return string(params), nil
}

// splitAPIArg splits the -api argument into method and params. Params are
// everything after the first colon.
func splitAPIArg(arg string) (method, params string) {
	ps := strings.SplitN(arg, ":", 2)
	method = ps[0]
	if len(ps) > 1 {
		params = ps[1]
	}
	return method, params
}

// Post actions all remaining flags that require the environment to be
// set up. Logging is allowed.
func (f *Flags) Post(cfg *config.Instance) {
	switch {
	case *f.Ports:
		apiCall(cfg, models.MethodPorts, "")
	case *f.Probe:
		apiCall(cfg, models.MethodPortsProbe, "")
	case isFlagPassed("connect"):
		if *f.Connect == "" {
			_, _ = fmt.Fprint(os.Stderr, "Error: connect flag requires a port\n")
			os.Exit(1)
		}
		params, err := connectParams(*f.Connect)
		if err != nil {
			_, _ = fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		apiCall(cfg, models.MethodConnect, params)
	case *f.Disconnect:
		apiCall(cfg, models.MethodDisconnect, "")
	case isFlagPassed("print"):
		if *f.Print == "" {
			_, _ = fmt.Fprint(os.Stderr, "Error: print flag requires a file path\n")
			os.Exit(1)
		}
		params, err := printFileParams(*f.Print, *f.Table, *f.Layout, *f.Copies)
		if err != nil {
			_, _ = fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		apiCall(cfg, models.MethodPrintText, params)
	case *f.Stop:
		apiCall(cfg, models.MethodPrintStop, "")
	case *f.Pause:
		apiCall(cfg, models.MethodPrintPause, "")
	case *f.Resume:
		apiCall(cfg, models.MethodPrintResume, "")
	case *f.Resumable:
		apiCall(cfg, models.MethodJobsResume, "")
	case isFlagPassed("resume-job"):
		if *f.ResumeJob == "" {
			_, _ = fmt.Fprint(os.Stderr, "Error: resume-job flag requires a job id\n")
			os.Exit(1)
		}
		params, err := json.Marshal(models.JobsResumeParams{ID: *f.ResumeJob})
		if err != nil {
			_, _ = fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		apiCall(cfg, models.MethodJobsResume, string(params))
	case *f.Status:
		apiCall(cfg, models.MethodStatus, "")
	case isFlagPassed("api"):
		if *f.API == "" {
			_, _ = fmt.Fprint(os.Stderr, "Error: api flag requires a value\n")
			os.Exit(1)
		}
		method, params := splitAPIArg(*f.API)
		apiCall(cfg, method, params)
	}
}

// Setup initializes the user config and logging. Returns a user config object.
//
//nolint:gocritic // config struct copied for immutability
func Setup(defaultConfig config.Values, writers []io.Writer) *config.Instance {
	for _, dir := range []string{helpers.ConfigDir(), helpers.DataDir()} {
		if err := os.MkdirAll(dir, 0o750); err != nil {
			_, _ = fmt.Fprintf(os.Stderr, "Error creating directories: %v\n", err)
			os.Exit(1)
		}
	}

	if err := helpers.InitLogging(helpers.DataDir(), writers); err != nil {
		_, _ = fmt.Fprintf(os.Stderr, "Error initializing logging: %v\n", err)
		os.Exit(1)
	}

	cfg, err := config.NewConfig(helpers.ConfigDir(), defaultConfig)
	if err != nil {
		_, _ = fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
		os.Exit(1)
	}

	if cfg.DebugLogging() {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	} else {
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
	}

	// Initialize error reporting (opt-in)
	if err := telemetry.Init(
		cfg.ErrorReporting(),
		cfg.DeviceID(),
		config.AppVersion,
	); err != nil {
		log.Warn().Err(err).Msg("failed to initialize error reporting")
	}

	return cfg
}
