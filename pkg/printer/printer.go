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

// Package printer drives a braille embosser over a serial link: it owns the
// connection lifecycle, the command/acknowledgement protocol in its plain
// and checksummed variants, and the job engine that runs an ordered action
// sequence on its own goroutine under pause/resume/stop control.
package printer

import (
	"errors"
	"sync/atomic"
	"time"

	"github.com/KabirK-05/BRL-Plus/pkg/helpers/syncutil"
	"github.com/jonboulle/clockwork"
	"github.com/rs/zerolog/log"
)

// DefaultBaudRate matches the embosser's USB serial bridge.
const DefaultBaudRate = 250000

const (
	// defaultAckTimeout is the wall-clock ceiling for one command's
	// acknowledgement, resend attempts included.
	defaultAckTimeout = 25 * time.Second
	// defaultRetryWindow is how long one checksummed attempt listens
	// before retransmitting.
	defaultRetryWindow = 5 * time.Second
	// defaultPauseTick is the increment the job loop idles in while
	// paused, re-checking cancellation between ticks.
	defaultPauseTick = 500 * time.Millisecond
	// defaultStopJoin bounds how long Stop waits for the job goroutine.
	defaultStopJoin = time.Second
)

// initCommands prepares the device before a job: raise the head, home, then
// probe down to the embossing plane. Every line must be acknowledged.
var initCommands = []string{
	"G91",         // relative positioning
	"G1 Z10 F800", // lift clear of the platen
	"G90",         // absolute positioning
	"M83",         // relative extrusion for the strike head
	"M302 S0",     // permit cold extrusion
	"G28",         // home all axes
	"G1 Z-2 F800", // lower to the embossing plane
}

// Action is one device command plus a callback invoked after the command is
// acknowledged. Callbacks run synchronously on the job goroutine, strictly
// in sequence order.
type Action struct {
	OnAck   func()
	Command string
}

// Printer is the single ownership handle for one embosser connection. One
// goroutine at a time (the job's) writes to the device; status and the
// pause/cancel signals are safe to touch from any goroutine.
type Printer struct {
	clock        clockwork.Clock
	factory      SerialPortFactory
	onStatus     func(Status)
	transport    *transport
	proto        protocol
	jobDone      chan struct{}
	port         string
	mode         Mode
	ackTimeout   time.Duration
	retryWindow  time.Duration
	pauseTick    time.Duration
	stopJoin     time.Duration
	baud         int
	mu           syncutil.Mutex // guards transport, proto, jobDone, port, baud
	status       atomic.Int32
	cancelled    atomic.Bool
	paused       atomic.Bool
	homeOnFinish bool
}

// Option configures a Printer.
type Option func(*Printer)

// WithSerialPortFactory replaces how serial ports are opened, for tests.
func WithSerialPortFactory(f SerialPortFactory) Option {
	return func(p *Printer) { p.factory = f }
}

// WithMode selects the wire protocol variant used by subsequent connects.
func WithMode(m Mode) Option {
	return func(p *Printer) { p.mode = m }
}

// WithClock replaces the time source, for tests.
func WithClock(c clockwork.Clock) Option {
	return func(p *Printer) { p.clock = c }
}

// WithStatusListener registers a callback invoked after every status
// transition. It runs on whichever goroutine caused the transition and must
// not block.
func WithStatusListener(f func(Status)) Option {
	return func(p *Printer) { p.onStatus = f }
}

// WithHomeOnFinish controls whether the cleanup sequence re-homes X/Y after
// a completed job. Defaults to true.
func WithHomeOnFinish(home bool) Option {
	return func(p *Printer) { p.homeOnFinish = home }
}

func New(opts ...Option) *Printer {
	p := &Printer{
		factory:      DefaultSerialPortFactory,
		clock:        clockwork.NewRealClock(),
		mode:         ModePlain,
		ackTimeout:   defaultAckTimeout,
		retryWindow:  defaultRetryWindow,
		pauseTick:    defaultPauseTick,
		stopJoin:     defaultStopJoin,
		homeOnFinish: true,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Connect opens the device and resets protocol state: the configured wire
// mode, line number zero and default calibration. On failure the half-open
// handle is discarded, status is forced to error and a ConnectionError is
// returned; a later Connect starts clean.
func (p *Printer) Connect(port string, baud int) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.transport != nil {
		return errors.New("already connected: disconnect first")
	}

	if baud <= 0 {
		baud = DefaultBaudRate
	}
	resolved := callUpDevicePath(port)

	t, err := openTransport(p.factory, resolved, baud, p.clock)
	if err != nil {
		p.setStatus(StatusError)
		return &ConnectionError{Port: resolved, Err: err}
	}

	p.transport = t
	p.proto = newProtocol(p.mode)
	p.port = resolved
	p.baud = baud
	p.cancelled.Store(false)
	p.paused.Store(false)
	p.setStatus(StatusIdle)

	log.Info().Str("port", resolved).Int("baud", baud).
		Str("mode", string(p.mode)).Msg("embosser connected")
	return nil
}

// Disconnect closes the transport. It does not stop a running job: callers
// must Stop first or accept that the close races with an active send, which
// then fails the job with status error. Idempotent.
func (p *Printer) Disconnect() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.transport == nil {
		return nil
	}
	p.transport.close()
	p.transport = nil

	log.Info().Str("port", p.port).Msg("embosser disconnected")
	return nil
}

// Connected reports whether a device connection is open.
func (p *Printer) Connected() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.transport != nil && p.transport.open.Load()
}

// Port returns the resolved device path of the open connection, or empty.
func (p *Printer) Port() string {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.transport == nil {
		return ""
	}
	return p.port
}

// Status returns the current device status. Safe from any goroutine.
func (p *Printer) Status() Status {
	return Status(p.status.Load())
}

// Calibration returns the strike head scaling currently in effect, updated
// from firmware M92 echoes in checksummed mode.
func (p *Printer) Calibration() Calibration {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.proto == nil {
		return Calibration{StepsPerUnit: DefaultStepsPerUnit, StepsPerDegree: StepsPerDegree}
	}
	return p.proto.calibration()
}

func (p *Printer) setStatus(s Status) {
	old := Status(p.status.Swap(int32(s)))
	if old != s && p.onStatus != nil {
		p.onStatus(s)
	}
}

// SendCommand transmits a single command outside any job, waiting for the
// acknowledgement. Intended for maintenance commands while idle; rejected
// while a job owns the channel. A cancel signal left over from a previous
// Stop is cleared so the wait starts fresh.
func (p *Printer) SendCommand(cmd string) error {
	p.mu.Lock()
	if p.jobDone != nil {
		select {
		case <-p.jobDone:
		default:
			p.mu.Unlock()
			return ErrJobRunning
		}
	}
	p.mu.Unlock()

	p.cancelled.Store(false)
	return p.sendCommand(cmd, true)
}

// sendCommand frames and writes cmd. With waitForAck it blocks until the
// firmware acknowledges, the firmware reports an error, the acknowledgement
// ceiling expires, or Stop cancels the wait. Without waitForAck it returns
// after the write; the abort path uses this so it can never hang.
func (p *Printer) sendCommand(cmd string, waitForAck bool) error {
	p.mu.Lock()
	t, proto := p.transport, p.proto
	p.mu.Unlock()

	if t == nil {
		return ErrNotConnected
	}

	if !waitForAck {
		log.Debug().Str("command", cmd).Msg("sending without ack")
		return t.write(proto.frame(cmd))
	}

	start := p.clock.Now()
	deadline := start.Add(p.ackTimeout)

	for attempt := 1; ; attempt++ {
		if p.cancelled.Load() {
			return errCancelled
		}

		frame := proto.frame(cmd)
		log.Debug().Str("command", cmd).Int("attempt", attempt).
			Str("frame", string(frame[:len(frame)-1])).Msg("sending command")
		if err := t.write(frame); err != nil {
			return err
		}

		// Plain mode listens until the overall ceiling; the checksummed
		// variant listens per attempt and retransmits on silence.
		window := deadline
		if p.mode == ModeChecksummed {
			if w := p.clock.Now().Add(p.retryWindow); w.Before(deadline) {
				window = w
			}
		}

		outcome, err := p.awaitResponse(t, proto, cmd, window)
		if err != nil {
			return err
		}
		if outcome == responseAck {
			proto.acked()
			return nil
		}

		// resend request or attempt-window silence
		if p.mode != ModeChecksummed || !p.clock.Now().Before(deadline) {
			return &TimeoutError{Command: cmd, Elapsed: p.clock.Since(start)}
		}
	}
}

// awaitResponse reads response lines until one is terminal for this attempt.
// It returns responseAck on acknowledgement, responseResend when the same
// command must be retransmitted, and responseInfo when the window closed in
// silence. The cancellation flag is polled between reads so Stop unwinds
// the wait within a read timeout.
func (p *Printer) awaitResponse(t *transport, proto protocol, cmd string, window time.Time) (responseKind, error) {
	for {
		if p.cancelled.Load() {
			return responseInfo, errCancelled
		}
		if !p.clock.Now().Before(window) {
			return responseInfo, nil
		}

		line, err := t.readLine(readTimeout)
		if err != nil {
			if IsDisconnectionError(err) {
				log.Info().Err(err).Msg("embosser disconnected mid-command")
			}
			return responseInfo, err
		}
		if line == "" {
			continue
		}

		resp := proto.classify(line)
		switch resp.kind {
		case responseAck:
			log.Debug().Str("command", cmd).Str("response", resp.raw).Msg("acknowledged")
			return responseAck, nil
		case responseError:
			return responseInfo, &ProtocolError{Command: cmd, Response: resp.raw}
		case responseResend:
			log.Debug().Str("command", cmd).Int("line", resp.line).
				Str("response", resp.raw).Msg("firmware requested resend")
			return responseResend, nil
		case responseCalibration:
			log.Debug().Float64("steps_per_unit", resp.eSteps).Msg("firmware calibration echo")
		case responseInfo:
			log.Debug().Str("response", resp.raw).Msg("firmware message")
		}
	}
}

// RunJob starts actions on the job goroutine and returns once it is handed
// off. Outcomes are observed through Status: completed, error, or idle after
// a Stop. The action sequence is never mutated, only iterated.
func (p *Printer) RunJob(actions []Action) error {
	p.mu.Lock()
	if p.transport == nil {
		p.mu.Unlock()
		return ErrNotConnected
	}
	if p.jobDone != nil {
		select {
		case <-p.jobDone:
			// previous job fully stopped
		default:
			p.mu.Unlock()
			return ErrJobRunning
		}
	}
	p.cancelled.Store(false)
	p.paused.Store(false)
	done := make(chan struct{})
	p.jobDone = done
	p.mu.Unlock()

	p.setStatus(StatusPrinting)
	log.Info().Int("actions", len(actions)).Msg("print job started")

	go p.runJob(actions, done)
	return nil
}

func (p *Printer) runJob(actions []Action, done chan struct{}) {
	defer close(done)

	if err := p.sendSequence(initCommands); err != nil {
		p.finishWith(err, "print initialization failed")
		return
	}

	for i := range actions {
		if p.cancelled.Load() {
			p.setStatus(StatusIdle)
			return
		}

		for p.paused.Load() {
			if p.cancelled.Load() {
				p.setStatus(StatusIdle)
				return
			}
			p.clock.Sleep(p.pauseTick)
		}

		if err := p.sendCommand(actions[i].Command, true); err != nil {
			p.finishWith(err, "print job failed")
			return
		}
		if actions[i].OnAck != nil {
			actions[i].OnAck()
		}
	}

	if p.cancelled.Load() {
		p.setStatus(StatusIdle)
		return
	}

	// Cleanup motions only run after an uncancelled pass: raising or homing
	// mid-sheet on an aborted job can stall against the platen.
	if err := p.sendSequence(p.finishCommands()); err != nil {
		p.finishWith(err, "print cleanup failed")
		return
	}

	p.setStatus(StatusCompleted)
	log.Info().Int("actions", len(actions)).Msg("print job completed")
}

// finishWith resolves a failed or cancelled send: cancellation ends the job
// idle, anything else ends it in error.
func (p *Printer) finishWith(err error, msg string) {
	if errors.Is(err, errCancelled) {
		p.setStatus(StatusIdle)
		return
	}
	log.Error().Err(err).Msg(msg)
	p.setStatus(StatusError)
}

func (p *Printer) sendSequence(cmds []string) error {
	for _, cmd := range cmds {
		if err := p.sendCommand(cmd, true); err != nil {
			return err
		}
	}
	return nil
}

func (p *Printer) finishCommands() []string {
	cmds := []string{"G1 Z10 F800"}
	if p.homeOnFinish {
		cmds = append(cmds, "G28 X0 Y0")
	}
	return append(cmds, "G1 Z10 F800")
}

// Stop aborts the running job: it raises the cancellation signal, clears
// pause so a paused loop can observe it, fires best-effort abort commands
// without waiting for acknowledgement, joins the job goroutine for at most
// the stop window, and forces status to idle. Safe to call at any time,
// from any goroutine, any number of times.
func (p *Printer) Stop() {
	p.cancelled.Store(true)
	p.paused.Store(false)

	p.mu.Lock()
	connected := p.transport != nil
	done := p.jobDone
	p.mu.Unlock()

	if connected {
		for _, cmd := range []string{"M410", "M0"} {
			if err := p.sendCommand(cmd, false); err != nil {
				log.Debug().Err(err).Str("command", cmd).Msg("abort command failed")
			}
		}
	}

	if done != nil {
		select {
		case <-done:
		case <-p.clock.After(p.stopJoin):
			log.Warn().Msg("print job did not exit within the stop window")
		}
	}

	p.setStatus(StatusIdle)
	log.Info().Msg("print stopped")
}

// Pause suspends action progression after the in-flight command. Only acts
// while printing; level triggered, so repeated calls collapse.
func (p *Printer) Pause() {
	if p.Status() != StatusPrinting {
		return
	}
	p.paused.Store(true)
	p.setStatus(StatusPaused)
	log.Info().Msg("print paused")
}

// Resume continues a paused job from the next unsent action. Only acts
// while paused.
func (p *Printer) Resume() {
	if p.Status() != StatusPaused {
		return
	}
	p.paused.Store(false)
	p.setStatus(StatusPrinting)
	log.Info().Msg("print resumed")
}
