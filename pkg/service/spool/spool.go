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

// Package spool watches a drop directory for documents to emboss. A .txt or
// .brf file landing in the spool dir becomes a print job as soon as the
// device is free; processed files move to done/ or failed/ so the operator
// can see what happened without reading logs.
//
// Options ride in an optional sidecar file named <file>.opts holding
// "key = value" lines (table, layout, copies). Options are deliberately not
// embedded in the document itself: '#' and ';' are meaningful characters in
// ASCII braille.
package spool

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/KabirK-05/BRL-Plus/pkg/database"
	"github.com/KabirK-05/BRL-Plus/pkg/helpers"
	"github.com/KabirK-05/BRL-Plus/pkg/jobs"
	"github.com/KabirK-05/BRL-Plus/pkg/printopts"
	"github.com/fsnotify/fsnotify"
	"github.com/rs/zerolog/log"
)

const (
	doneDirName   = "done"
	failedDirName = "failed"

	// rescanInterval bounds how long a file waits when it arrived while a
	// job was running, or when the create event was missed entirely.
	rescanInterval = 5 * time.Second

	// settleDelay gives a copying file time to finish before the first read.
	settleDelay = 500 * time.Millisecond
)

// Submitter is the slice of the job manager the watcher needs. Satisfied by
// *jobs.Manager.
type Submitter interface {
	Print(req jobs.Request) (started bool, err error)
	ParseOptions(raw map[string]string) (printopts.Options, error)
}

// managerSubmitter adapts *jobs.Manager to Submitter.
type managerSubmitter struct {
	mgr *jobs.Manager
}

func (s managerSubmitter) Print(req jobs.Request) (bool, error) {
	_, err := s.mgr.Print(req)
	if err != nil {
		if errors.Is(err, jobs.ErrJobActive) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

func (s managerSubmitter) ParseOptions(raw map[string]string) (printopts.Options, error) {
	return s.mgr.ParseOptions(raw)
}

// Watcher feeds spool directory drops into the job manager.
type Watcher struct {
	jobs    Submitter
	watcher *fsnotify.Watcher
	stopCh  chan struct{}
	doneCh  chan struct{}
	dir     string
}

// NewWatcher builds a watcher over dir submitting to mgr.
func NewWatcher(mgr *jobs.Manager, dir string) *Watcher {
	return newWatcher(managerSubmitter{mgr: mgr}, dir)
}

func newWatcher(submitter Submitter, dir string) *Watcher {
	return &Watcher{
		jobs:   submitter,
		dir:    dir,
		stopCh: make(chan struct{}),
		doneCh: make(chan struct{}),
	}
}

// Start creates the spool directory structure and begins watching. Files
// already sitting in the spool dir are picked up on the first scan.
func (w *Watcher) Start() error {
	for _, d := range []string{w.dir, filepath.Join(w.dir, doneDirName), filepath.Join(w.dir, failedDirName)} {
		if err := os.MkdirAll(d, 0o750); err != nil {
			return fmt.Errorf("failed to create spool directory: %w", err)
		}
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create spool watcher: %w", err)
	}
	if err := watcher.Add(w.dir); err != nil {
		_ = watcher.Close()
		return fmt.Errorf("failed to watch spool directory: %w", err)
	}
	w.watcher = watcher

	log.Info().Str("dir", w.dir).Msg("spool watcher started")

	go w.loop()
	return nil
}

// Stop ends the watch loop. Safe to call once.
func (w *Watcher) Stop() {
	close(w.stopCh)
	<-w.doneCh
}

func (w *Watcher) loop() {
	defer close(w.doneCh)
	defer func() {
		if err := w.watcher.Close(); err != nil {
			log.Warn().Err(err).Msg("error closing spool watcher")
		}
	}()

	ticker := time.NewTicker(rescanInterval)
	defer ticker.Stop()

	w.scan()

	for {
		select {
		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if event.Op&(fsnotify.Create|fsnotify.Write) == 0 {
				continue
			}
			if !isSpoolFile(event.Name) {
				continue
			}
			// let the writer finish before reading
			time.Sleep(settleDelay)
			w.scan()
		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			log.Warn().Err(err).Msg("spool watcher error")
		case <-ticker.C:
			w.scan()
		case <-w.stopCh:
			return
		}
	}
}

// scan processes every pending spool file in name order. Submission stops at
// the first file that cannot start because a job is already running; the
// rest wait for the next scan.
func (w *Watcher) scan() {
	entries, err := os.ReadDir(w.dir)
	if err != nil {
		log.Warn().Err(err).Msg("failed to read spool directory")
		return
	}

	for _, entry := range entries {
		if entry.IsDir() || !isSpoolFile(entry.Name()) {
			continue
		}

		path := filepath.Join(w.dir, entry.Name())
		started, err := w.submit(path)
		if err != nil {
			log.Error().Err(err).Str("file", entry.Name()).Msg("spool file rejected")
			w.moveTo(path, failedDirName)
			continue
		}
		if !started {
			// device busy; leave the file for the next scan
			return
		}
		w.moveTo(path, doneDirName)
	}
}

// submit reads one spool file and hands it to the job manager. Returns
// started=false without error when a job is already active.
func (w *Watcher) submit(path string) (started bool, err error) {
	//nolint:gosec // Safe: path comes from scanning the configured spool dir
	content, err := os.ReadFile(path)
	if err != nil {
		return false, fmt.Errorf("failed to read spool file: %w", err)
	}

	raw := readSidecarOptions(path)
	if strings.EqualFold(filepath.Ext(path), ".brf") {
		raw["format"] = printopts.FormatBRF
	}

	opts, err := w.jobs.ParseOptions(raw)
	if err != nil {
		return false, err
	}

	if dup, match := w.alreadyEmbossed(path); dup {
		log.Info().
			Str("file", filepath.Base(path)).
			Str("duplicate_of", match).
			Msg("identical document already embossed, skipping")
		return true, nil
	}

	started, err = w.jobs.Print(jobs.Request{
		Source:  database.SourceSpool,
		Name:    strings.TrimSuffix(filepath.Base(path), filepath.Ext(path)),
		Text:    string(content),
		Options: opts,
	})
	if err != nil {
		return false, err
	}
	if started {
		log.Info().Str("file", filepath.Base(path)).Msg("spool file submitted")
	}
	return started, nil
}

// alreadyEmbossed reports whether a document with identical content already
// sits in done/, so a re-dropped file does not print twice. Matching is by
// content hash; file names are free to differ. The skipped file still moves
// to done/ so the spool dir stays clear.
func (w *Watcher) alreadyEmbossed(path string) (dup bool, match string) {
	hash, err := helpers.GetMd5Hash(path)
	if err != nil {
		return false, ""
	}

	doneDir := filepath.Join(w.dir, doneDirName)
	entries, err := os.ReadDir(doneDir)
	if err != nil {
		return false, ""
	}

	for _, entry := range entries {
		if entry.IsDir() || !isSpoolFile(entry.Name()) {
			continue
		}
		doneHash, hashErr := helpers.GetMd5Hash(filepath.Join(doneDir, entry.Name()))
		if hashErr != nil {
			continue
		}
		if doneHash == hash {
			return true, entry.Name()
		}
	}
	return false, ""
}

func (w *Watcher) moveTo(path, subdir string) {
	dest := filepath.Join(w.dir, subdir, filepath.Base(path))
	if err := helpers.MoveFile(path, dest); err != nil {
		log.Warn().Err(err).Str("file", path).Msg("failed to move spool file")
		return
	}

	// the sidecar travels with its document
	optsPath := path + ".opts"
	if _, err := os.Stat(optsPath); err == nil {
		if err := helpers.MoveFile(optsPath, dest+".opts"); err != nil {
			log.Warn().Err(err).Str("file", optsPath).Msg("failed to move sidecar file")
		}
	}
}

func isSpoolFile(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".txt", ".brf":
		return true
	default:
		return false
	}
}

// readSidecarOptions loads "<file>.opts" if present. Each line is one
// "key = value" pair; malformed lines are skipped with a warning.
func readSidecarOptions(path string) map[string]string {
	raw := make(map[string]string)

	//nolint:gosec // Safe: sidecar path derives from the spool file path
	content, err := os.ReadFile(path + ".opts")
	if err != nil {
		return raw
	}

	for _, line := range strings.Split(string(content), "\n") {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		key, value, found := strings.Cut(line, "=")
		if !found {
			log.Warn().Str("line", line).Msg("skipping malformed sidecar option")
			continue
		}
		raw[strings.TrimSpace(key)] = strings.TrimSpace(value)
	}
	return raw
}
