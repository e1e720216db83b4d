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

package printer

import (
	"strconv"
	"strings"

	"github.com/KabirK-05/BRL-Plus/pkg/helpers/syncutil"
)

// Mode selects the wire protocol variant, fixed at connect time.
type Mode string

const (
	// ModePlain sends bare command lines. Modern firmware answers every
	// line with ok or an error directly.
	ModePlain Mode = "plain"
	// ModeChecksummed sends numbered lines with an 8-bit XOR checksum and
	// honors firmware resend requests. Needed by legacy firmware that
	// verifies line integrity.
	ModeChecksummed Mode = "checksummed"
)

// Calibration holds the extruder-axis scaling the strike head is driven
// with. StepsPerUnit tracks the firmware's M92 E value when the firmware
// echoes one.
type Calibration struct {
	StepsPerUnit   float64
	StepsPerDegree float64
}

const (
	// DefaultStepsPerUnit matches the factory M92 E setting of the
	// embosser firmware.
	DefaultStepsPerUnit = 400.0
	// StepsPerDegree converts strike cam degrees to extruder steps: a 0.9
	// degree stepper at 8 microsteps.
	StepsPerDegree = 8 * 0.9
)

// responseKind classifies one firmware response line.
type responseKind int

const (
	responseInfo responseKind = iota
	responseAck
	responseError
	responseResend
	responseCalibration
)

// response is the classification of a single firmware line. For
// responseResend, line carries the line number the next send must use.
type response struct {
	raw    string
	eSteps float64
	line   int
	kind   responseKind
}

// protocol frames outgoing commands and classifies firmware responses. One
// implementation per wire mode keeps mode branching out of the send path.
// classify may update protocol state (resend line numbers, calibration
// echoes); acked records a successful acknowledgement.
type protocol interface {
	frame(cmd string) []byte
	classify(line string) response
	acked()
	calibration() Calibration
}

func newProtocol(mode Mode) protocol {
	if mode == ModeChecksummed {
		return &checksumProtocol{eSteps: DefaultStepsPerUnit}
	}
	return plainProtocol{}
}

// toASCII lossily encodes s for the wire, replacing non-ASCII runes instead
// of failing. Command text is operator supplied and must never abort a send.
func toASCII(s string) []byte {
	b := make([]byte, 0, len(s))
	for _, r := range s {
		if r < 128 {
			b = append(b, byte(r))
		} else {
			b = append(b, '?')
		}
	}
	return b
}

// plainProtocol is the default variant: command text plus newline out, ok or
// error lines back. No line numbering, no resend.
type plainProtocol struct{}

func (plainProtocol) frame(cmd string) []byte {
	return append(toASCII(cmd), '\n')
}

func (plainProtocol) classify(line string) response {
	l := strings.ToLower(line)
	switch {
	case strings.Contains(l, "ok"):
		return response{kind: responseAck, raw: line}
	case strings.HasPrefix(l, "error") || strings.Contains(l, "error:"):
		return response{kind: responseError, raw: line}
	default:
		return response{kind: responseInfo, raw: line}
	}
}

func (plainProtocol) acked() {}

func (plainProtocol) calibration() Calibration {
	return Calibration{StepsPerUnit: DefaultStepsPerUnit, StepsPerDegree: StepsPerDegree}
}

// checksumProtocol numbers every line and appends an XOR checksum so legacy
// firmware can request retransmission of dropped or corrupted lines. The
// abort path frames commands concurrently with the job's response handling,
// so the counters carry their own lock.
type checksumProtocol struct {
	eSteps float64
	line   int
	mu     syncutil.Mutex // guards eSteps, line
}

func (p *checksumProtocol) frame(cmd string) []byte {
	p.mu.Lock()
	line := p.line
	p.mu.Unlock()

	numbered := cmd
	if !strings.HasPrefix(cmd, "N") {
		numbered = "N" + strconv.Itoa(line) + " " + cmd
	}
	encoded := toASCII(numbered)
	sum := 0
	for _, c := range encoded {
		sum ^= int(c)
	}
	sum &= 0xff
	encoded = append(encoded, '*')
	encoded = append(encoded, []byte(strconv.Itoa(sum))...)
	return append(encoded, '\n')
}

// classify handles the legacy variant's response set, in priority order:
// explicit resend requests, integrity errors (both retried at a corrected
// line number), M92 calibration echoes, then acknowledgements. Anything
// else, unrecognized error lines included, is informational and the wait
// continues until the acknowledgement ceiling expires.
func (p *checksumProtocol) classify(line string) response {
	l := strings.ToLower(line)
	switch {
	case strings.Contains(l, "resend:"):
		n, ok := intAfter(l, "resend:")
		if !ok {
			return response{kind: responseInfo, raw: line}
		}
		p.mu.Lock()
		p.line = n
		p.mu.Unlock()
		return response{kind: responseResend, raw: line, line: n}

	case strings.Contains(l, "error:checksum mismatch"),
		strings.Contains(l, "error:line number is not"):
		next := 1
		if v, ok := intAfter(l, "last line:"); ok {
			next = v + 1
		}
		p.mu.Lock()
		p.line = next
		p.mu.Unlock()
		return response{kind: responseResend, raw: line, line: next}

	case strings.Contains(l, "echo:  m92 "):
		p.mu.Lock()
		if v, ok := parseESteps(l); ok {
			p.eSteps = v
		}
		eSteps := p.eSteps
		p.mu.Unlock()
		return response{kind: responseCalibration, raw: line, eSteps: eSteps}

	case strings.Contains(l, "ok"):
		return response{kind: responseAck, raw: line}

	default:
		return response{kind: responseInfo, raw: line}
	}
}

// acked advances the line number. This is the only path that does: resends,
// integrity errors and timeouts leave it to the correction logic above.
func (p *checksumProtocol) acked() {
	p.mu.Lock()
	p.line++
	p.mu.Unlock()
}

func (p *checksumProtocol) calibration() Calibration {
	p.mu.Lock()
	defer p.mu.Unlock()
	return Calibration{StepsPerUnit: p.eSteps, StepsPerDegree: StepsPerDegree}
}

// intAfter extracts the first unsigned integer following marker in s.
func intAfter(s, marker string) (int, bool) {
	i := strings.Index(s, marker)
	if i < 0 {
		return 0, false
	}
	rest := strings.TrimSpace(s[i+len(marker):])
	j := 0
	for j < len(rest) && rest[j] >= '0' && rest[j] <= '9' {
		j++
	}
	if j == 0 {
		return 0, false
	}
	v, err := strconv.Atoi(rest[:j])
	if err != nil {
		return 0, false
	}
	return v, true
}

// parseESteps pulls the E axis value out of a lowercased M92 echo line,
// e.g. "echo:  m92 x80.00 y80.00 z400.00 e400.00".
func parseESteps(l string) (float64, bool) {
	for _, field := range strings.Fields(l) {
		if len(field) < 2 || field[0] != 'e' {
			continue
		}
		if v, err := strconv.ParseFloat(field[1:], 64); err == nil {
			return v, true
		}
	}
	return 0, false
}
