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

// Package jobs owns the print pipeline: a request is translated, laid out,
// compiled to device actions and run on the embosser, with progress
// checkpointed so interrupted jobs can resume from the last embossed dot.
//
// LOCKING RULES: mu protects the active job. To prevent deadlocks:
//   - Never call printer methods while holding mu; the printer invokes
//     HandlePrinterStatus synchronously, sometimes under its own lock.
//   - Copy needed data inside the lock, then write databases and send
//     notifications outside it.
package jobs

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/KabirK-05/BRL-Plus/pkg/api/models"
	"github.com/KabirK-05/BRL-Plus/pkg/api/notifications"
	"github.com/KabirK-05/BRL-Plus/pkg/braille"
	"github.com/KabirK-05/BRL-Plus/pkg/config"
	"github.com/KabirK-05/BRL-Plus/pkg/database"
	"github.com/KabirK-05/BRL-Plus/pkg/gcode"
	"github.com/KabirK-05/BRL-Plus/pkg/helpers"
	"github.com/KabirK-05/BRL-Plus/pkg/helpers/syncutil"
	"github.com/KabirK-05/BRL-Plus/pkg/layout"
	"github.com/KabirK-05/BRL-Plus/pkg/printer"
	"github.com/KabirK-05/BRL-Plus/pkg/printopts"
	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"
	"github.com/rs/zerolog/log"
	"github.com/spf13/afero"
)

var (
	ErrJobActive     = errors.New("a print job is already active")
	ErrEmptyDocument = errors.New("document contains no dots to emboss")
)

// Feedback plays audible cues for job outcomes.
type Feedback interface {
	Success()
	Failure()
}

// Inhibitor blocks system sleep while a job is embossing. The returned
// release function must be safe to call once.
type Inhibitor interface {
	Inhibit(reason string) (release func(), err error)
}

// Manager runs at most one job at a time against the attached printer.
type Manager struct {
	cfg      *config.Instance
	db       *database.Database
	ns       chan<- models.Notification
	printer  *printer.Printer
	clock    clockwork.Clock
	fsys     afero.Fs
	feedback Feedback
	inhibit  Inhibitor
	active   *activeJob
	dataDir  string
	mu       syncutil.Mutex
}

type Option func(*Manager)

func WithClock(c clockwork.Clock) Option {
	return func(m *Manager) { m.clock = c }
}

func WithFeedback(f Feedback) Option {
	return func(m *Manager) { m.feedback = f }
}

func WithInhibitor(i Inhibitor) Option {
	return func(m *Manager) { m.inhibit = i }
}

func WithFilesystem(fsys afero.Fs) Option {
	return func(m *Manager) { m.fsys = fsys }
}

func WithDataDir(dir string) Option {
	return func(m *Manager) { m.dataDir = dir }
}

// NewManager wires a job manager to its stores and notification channel.
// The channel must be drained (by the broker) or buffered, and the printer
// attached with AttachPrinter before the first job.
func NewManager(cfg *config.Instance, db *database.Database, ns chan<- models.Notification, opts ...Option) *Manager {
	m := &Manager{
		cfg:     cfg,
		db:      db,
		ns:      ns,
		clock:   clockwork.NewRealClock(),
		fsys:    afero.NewOsFs(),
		dataDir: helpers.DataDir(),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// AttachPrinter binds the device. Call once during service wiring, after
// constructing the printer with this manager's HandlePrinterStatus as its
// status listener.
func (m *Manager) AttachPrinter(p *printer.Printer) {
	m.printer = p
}

func (m *Manager) tablesDir() string {
	return m.cfg.BrailleTablesDir(m.dataDir)
}

func (m *Manager) layoutStore() *layout.Store {
	return layout.NewStore(m.fsys, m.cfg.LayoutProfilesDir(m.dataDir))
}

// Tables lists the translation tables available to requests.
func (m *Manager) Tables() []string {
	return braille.ListTables(m.fsys, m.tablesDir())
}

// Layouts lists the layout profiles available to requests.
func (m *Manager) Layouts() []string {
	return m.layoutStore().List()
}

// LayoutStore exposes profile lookup for read-only API queries.
func (m *Manager) LayoutStore() *layout.Store {
	return m.layoutStore()
}

// ParseOptions decodes and validates raw request options against the
// installed tables and layouts.
func (m *Manager) ParseOptions(raw map[string]string) (printopts.Options, error) {
	var opts printopts.Options
	err := printopts.Parse(raw, &opts, &printopts.ParseContext{
		Tables:  m.Tables(),
		Layouts: m.Layouts(),
	})
	return opts, err
}

// activeJob is the manager's view of the job currently on the device.
type activeJob struct {
	release func()
	record  database.Job
	doc     layout.Document
	done    int
	saved   int
	page    int
}

func (a *activeJob) snapshot(state string) models.JobStatus {
	return models.JobStatus{
		StartedAt: a.record.StartedAt,
		ID:        a.record.ID,
		Name:      a.record.Name,
		Source:    a.record.Source,
		State:     state,
		DotsDone:  a.done,
		Dots:      a.record.Dots,
		Page:      a.page,
		Pages:     a.record.Pages,
		Copies:    a.record.Copies,
	}
}

func (a *activeJob) checkpoint(now time.Time) database.Checkpoint {
	return database.Checkpoint{
		StartedAt: a.record.StartedAt,
		UpdatedAt: now,
		ID:        a.record.ID,
		Source:    a.record.Source,
		Name:      a.record.Name,
		Table:     a.record.Table,
		Layout:    a.record.Layout,
		Document:  a.doc,
		DotsDone:  a.done,
		Copies:    a.record.Copies,
	}
}

func (a *activeJob) releaseInhibit() {
	if a.release != nil {
		a.release()
		a.release = nil
	}
}

// Print translates a request and starts embossing it. Returns the initial
// job status; the job itself runs asynchronously on the printer.
func (m *Manager) Print(req Request) (models.JobStatus, error) {
	doc, tableName, layoutName, err := m.buildDocument(req)
	if err != nil {
		return models.JobStatus{}, err
	}
	if len(doc.Dots) == 0 {
		return models.JobStatus{}, ErrEmptyDocument
	}

	copies := req.Options.Copies
	if copies < 1 {
		copies = 1
	}
	source := req.Source
	if source == "" {
		source = database.SourceAPI
	}

	record := database.Job{
		StartedAt: m.clock.Now(),
		ID:        uuid.NewString(),
		Source:    source,
		Name:      summarizeName(req),
		Table:     tableName,
		Layout:    layoutName,
		Cells:     doc.Cells,
		Dots:      len(doc.Dots),
		Pages:     doc.Pages,
		Copies:    copies,
	}
	return m.start(record, doc, 0, false)
}

// ResumeJob restarts an interrupted job from its checkpoint, skipping the
// dots already embossed. The operator is expected to reload the sheet the
// job stopped on.
func (m *Manager) ResumeJob(id string) (models.JobStatus, error) {
	cp, err := m.db.Checkpoints.Get(id)
	if err != nil {
		return models.JobStatus{}, fmt.Errorf("no resumable job %s: %w", id, err)
	}

	record := database.Job{
		StartedAt: cp.StartedAt,
		ID:        cp.ID,
		Source:    cp.Source,
		Name:      cp.Name,
		Table:     cp.Table,
		Layout:    cp.Layout,
		Cells:     cp.Document.Cells,
		Dots:      len(cp.Document.Dots),
		Pages:     cp.Document.Pages,
		Copies:    cp.Copies,
	}
	return m.start(record, cp.Document, cp.DotsDone, true)
}

func (m *Manager) start(record database.Job, doc layout.Document, skip int, resumed bool) (models.JobStatus, error) {
	a := &activeJob{record: record, doc: doc, done: skip, saved: skip}
	if skip < len(doc.Dots) {
		a.page = doc.Dots[skip].Page
	} else if n := len(doc.Dots); n > 0 {
		a.page = doc.Dots[n-1].Page
	}

	m.mu.Lock()
	if m.active != nil {
		m.mu.Unlock()
		return models.JobStatus{}, ErrJobActive
	}
	m.active = a
	m.mu.Unlock()

	actions := gcode.Compile(doc, gcode.Options{
		OnDot:       m.onDot,
		OnPage:      m.onPage,
		Calibration: m.printer.Calibration(),
		SkipDots:    skip,
	})

	// The first checkpoint lands before any motion, so a crash during job
	// start is already resumable.
	cp := a.checkpoint(m.clock.Now())
	if err := m.db.Checkpoints.Save(&cp); err != nil {
		m.clearActive()
		return models.JobStatus{}, err
	}

	if m.inhibit != nil {
		release, err := m.inhibit.Inhibit("embossing " + record.Name)
		if err != nil {
			log.Warn().Err(err).Msg("sleep inhibit unavailable")
		} else {
			a.release = release
		}
	}

	if err := m.printer.RunJob(actions); err != nil {
		a.releaseInhibit()
		m.clearActive()
		if !resumed {
			if delErr := m.db.Checkpoints.Delete(record.ID); delErr != nil {
				log.Warn().Err(delErr).Msg("failed to remove checkpoint after rejected job")
			}
		}
		return models.JobStatus{}, err
	}

	st := a.snapshot(printer.StatusPrinting.String())
	notifications.JobStarted(m.ns, st)
	log.Info().
		Str("id", record.ID).
		Str("name", record.Name).
		Str("source", record.Source).
		Int("dots", record.Dots).
		Int("skip", skip).
		Int("pages", record.Pages).
		Msg("print job accepted")
	return st, nil
}

func (m *Manager) clearActive() {
	m.mu.Lock()
	m.active = nil
	m.mu.Unlock()
}

// Status returns the live view of the active job, or nil when idle.
func (m *Manager) Status() *models.JobStatus {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.active == nil {
		return nil
	}
	// printer.Status is an atomic read, safe under mu
	st := m.active.snapshot(m.printer.Status().String())
	return &st
}

// Resumable lists checkpointed jobs that can be restarted, oldest first.
func (m *Manager) Resumable() []models.ResumableJob {
	cps, err := m.db.Checkpoints.All()
	if err != nil {
		log.Error().Err(err).Msg("failed to list checkpoints")
		return nil
	}

	m.mu.Lock()
	activeID := ""
	if m.active != nil {
		activeID = m.active.record.ID
	}
	m.mu.Unlock()

	out := make([]models.ResumableJob, 0, len(cps))
	for _, cp := range cps {
		if cp.ID == activeID {
			continue
		}
		out = append(out, models.ResumableJob{
			StartedAt: cp.StartedAt,
			UpdatedAt: cp.UpdatedAt,
			ID:        cp.ID,
			Name:      cp.Name,
			DotsDone:  cp.DotsDone,
			Dots:      len(cp.Document.Dots),
		})
	}
	return out
}

// Pause holds the job after the in-flight command acknowledges.
func (m *Manager) Pause() { m.printer.Pause() }

// Resume continues a paused job, including one waiting at a page change.
func (m *Manager) Resume() { m.printer.Resume() }

// Stop aborts the active job; it finalizes as cancelled.
func (m *Manager) Stop() { m.printer.Stop() }

// CleanupHistory removes finished jobs older than the configured retention.
func (m *Manager) CleanupHistory() {
	days := m.cfg.HistoryRetentionDays()
	if days <= 0 {
		return
	}
	removed, err := m.db.History.CleanupJobs(days)
	if err != nil {
		log.Error().Err(err).Msg("history cleanup failed")
		return
	}
	if removed > 0 {
		log.Info().Int64("removed", removed).Int("retention_days", days).Msg("history cleanup")
	}
}

// RenderPreview translates text without printing, returning the wrapped
// lines as Unicode braille plus the document counts.
func (m *Manager) RenderPreview(text, tableName, layoutName string) (models.BrailleRenderResponse, error) {
	if tableName == "" {
		tableName = m.cfg.BrailleTable()
	}
	if layoutName == "" {
		layoutName = m.cfg.LayoutProfile()
	}

	profile, err := m.layoutStore().Get(layoutName)
	if err != nil {
		return models.BrailleRenderResponse{}, err
	}
	table, err := braille.ResolveTable(m.fsys, m.tablesDir(), tableName)
	if err != nil {
		return models.BrailleRenderResponse{}, err
	}

	cells := braille.NewTranslator(table).Translate(text)
	lines, err := layout.Wrap(profile, cells)
	if err != nil {
		return models.BrailleRenderResponse{}, err
	}
	doc, err := layout.Render(profile, cells)
	if err != nil {
		return models.BrailleRenderResponse{}, err
	}

	resp := models.BrailleRenderResponse{
		Lines: make([]string, 0, len(lines)),
		Cells: doc.Cells,
		Pages: doc.Pages,
		Dots:  len(doc.Dots),
	}
	for _, line := range lines {
		var b strings.Builder
		for _, c := range line {
			b.WriteRune(c.Rune())
		}
		resp.Lines = append(resp.Lines, b.String())
	}
	return resp, nil
}

// onDot runs on the printer goroutine after each embossed dot. Checkpoints
// and progress notifications go out every CheckpointEvery dots.
func (m *Manager) onDot(done, _ int) {
	m.mu.Lock()
	a := m.active
	if a == nil {
		m.mu.Unlock()
		return
	}
	a.done = done

	var save *database.Checkpoint
	var progress models.JobStatus
	if done-a.saved >= m.cfg.CheckpointEvery() {
		a.saved = done
		cp := a.checkpoint(m.clock.Now())
		save = &cp
		progress = a.snapshot(printer.StatusPrinting.String())
	}
	m.mu.Unlock()

	if save != nil {
		if err := m.db.Checkpoints.Save(save); err != nil {
			log.Warn().Err(err).Msg("checkpoint write failed")
		}
		notifications.JobProgress(m.ns, progress)
	}
}

// onPage runs on the printer goroutine when the head homes for a new page.
// The job pauses for a paper change; print.resume continues it.
func (m *Manager) onPage(page int) {
	m.mu.Lock()
	a := m.active
	if a == nil {
		m.mu.Unlock()
		return
	}
	a.page = page
	a.saved = a.done
	cp := a.checkpoint(m.clock.Now())
	st := a.snapshot(printer.StatusPaused.String())
	m.mu.Unlock()

	if err := m.db.Checkpoints.Save(&cp); err != nil {
		log.Warn().Err(err).Msg("checkpoint write failed")
	}

	m.printer.Pause()
	notifications.JobPageWait(m.ns, st)
	log.Info().Str("id", st.ID).Int("page", page).Msg("waiting for paper change")
}

// HandlePrinterStatus receives device status transitions. The printer calls
// it synchronously, sometimes under its own lock, so it must never call
// back into printer methods.
func (m *Manager) HandlePrinterStatus(s printer.Status) {
	notifications.StatusChanged(m.ns, s.String())

	switch s {
	case printer.StatusCompleted:
		m.finalize(database.JobStateCompleted, "")
	case printer.StatusError:
		m.finalize(database.JobStateFailed, "device reported an error")
	case printer.StatusIdle:
		// idle with a job still active means it was stopped
		m.finalize(database.JobStateCancelled, "")
	case printer.StatusPaused:
		m.checkpointNow()
	case printer.StatusPrinting:
	}
}

// finalize closes out the active job with a terminal state: the history row
// is written, the checkpoint resolved (kept for failed jobs, removed
// otherwise) and listeners notified. No-op when no job is active.
func (m *Manager) finalize(state, errMsg string) {
	m.mu.Lock()
	a := m.active
	if a == nil {
		m.mu.Unlock()
		return
	}
	m.active = nil

	job := a.record
	job.State = state
	job.Error = errMsg
	job.EndedAt = m.clock.Now()
	job.DotsDone = a.done

	var failedCp *database.Checkpoint
	if state == database.JobStateFailed {
		cp := a.checkpoint(job.EndedAt)
		failedCp = &cp
	}
	st := a.snapshot(state)
	st.Error = errMsg
	release := a.release
	a.release = nil
	m.mu.Unlock()

	if release != nil {
		release()
	}

	if !helpers.IsClockReliable(job.EndedAt) {
		log.Warn().Str("id", job.ID).Msg("system clock looks unset, history timestamps may be wrong")
	}
	if err := m.db.History.AddJob(&job); err != nil {
		log.Error().Err(err).Str("id", job.ID).Msg("failed to record job history")
	}

	if failedCp != nil {
		// failed jobs keep a fresh checkpoint so they can be resumed
		if err := m.db.Checkpoints.Save(failedCp); err != nil {
			log.Warn().Err(err).Msg("checkpoint write failed")
		}
	} else if err := m.db.Checkpoints.Delete(job.ID); err != nil {
		log.Warn().Err(err).Str("id", job.ID).Msg("failed to remove checkpoint")
	}

	if state == database.JobStateFailed {
		notifications.JobFailed(m.ns, st)
		m.playFeedback(false)
	} else {
		notifications.JobCompleted(m.ns, st)
		if state == database.JobStateCompleted {
			m.playFeedback(true)
		}
	}

	log.Info().
		Str("id", job.ID).
		Str("state", state).
		Int("dots_done", job.DotsDone).
		Int("dots", job.Dots).
		Msg("print job finished")
}

// checkpointNow persists progress on a pause so a power cut while waiting
// costs nothing.
func (m *Manager) checkpointNow() {
	m.mu.Lock()
	a := m.active
	if a == nil || a.saved == a.done {
		m.mu.Unlock()
		return
	}
	a.saved = a.done
	cp := a.checkpoint(m.clock.Now())
	m.mu.Unlock()

	if err := m.db.Checkpoints.Save(&cp); err != nil {
		log.Warn().Err(err).Msg("checkpoint write failed")
	}
}

func (m *Manager) playFeedback(success bool) {
	if m.feedback == nil || !m.cfg.AudioFeedback() {
		return
	}
	go func() {
		if success {
			m.feedback.Success()
		} else {
			m.feedback.Failure()
		}
	}()
}
