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

// Package gcode compiles laid out braille documents into the embosser's
// motion language: one travel move plus a strike/retract pair per dot, with
// page barriers that lift and home the head for manual sheet changes. The
// produced sequences are bodies only; the device layer owns the init and
// cleanup motions around them.
package gcode

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/KabirK-05/BRL-Plus/pkg/layout"
	"github.com/KabirK-05/BRL-Plus/pkg/printer"
	"github.com/rs/zerolog/log"
)

const (
	// DefaultStrikeDegrees is the cam rotation of one emboss strike.
	DefaultStrikeDegrees = 120.0
	// DefaultStrikeFeed is the strike/retract feed rate in mm/min.
	DefaultStrikeFeed = 200
	// DefaultTravelFeed is the between-dot travel feed rate in mm/min.
	DefaultTravelFeed = 800
)

// Page barrier motions. The re-lower must land on the same embossing plane
// the device init sequence establishes.
const (
	liftForFeed  = "G1 Z10 F800"
	homeForFeed  = "G28 X0 Y0"
	lowerToPlane = "G1 Z-2 F800"
)

// Options configure compilation. The zero value compiles with the factory
// calibration and default feeds, skipping nothing.
type Options struct {
	// OnDot is invoked after a dot is fully embossed (retract
	// acknowledged), with the count of dots done so far and the document
	// total. It runs on the job goroutine and must not block.
	OnDot func(done, total int)
	// OnPage is invoked once the head is parked for a manual sheet change,
	// with the page number about to begin. Pausing the job is the
	// callback's decision.
	OnPage func(page int)
	// Calibration scales strike degrees to extruder units. Zero fields
	// fall back to the factory values.
	Calibration printer.Calibration
	// StrikeDegrees overrides the cam rotation per strike.
	StrikeDegrees float64
	// StrikeFeed and TravelFeed override the feed rates.
	StrikeFeed int
	TravelFeed int
	// SkipDots drops the leading dots of the document, for resuming a
	// partially embossed job. The progress counter starts past them, so
	// OnDot still reports document-absolute counts.
	SkipDots int
}

func (o Options) withDefaults() Options {
	if o.Calibration.StepsPerUnit <= 0 {
		o.Calibration.StepsPerUnit = printer.DefaultStepsPerUnit
	}
	if o.Calibration.StepsPerDegree <= 0 {
		o.Calibration.StepsPerDegree = printer.StepsPerDegree
	}
	if o.StrikeDegrees <= 0 {
		o.StrikeDegrees = DefaultStrikeDegrees
	}
	if o.StrikeFeed <= 0 {
		o.StrikeFeed = DefaultStrikeFeed
	}
	if o.TravelFeed <= 0 {
		o.TravelFeed = DefaultTravelFeed
	}
	if o.SkipDots < 0 {
		o.SkipDots = 0
	}
	return o
}

// Compile turns a laid out document into the embosser's action sequence.
// Dots are embossed in reading order. When the document spans pages, a
// barrier between them lifts the head, homes X/Y for the sheet change,
// fires OnPage, and lowers back to the embossing plane.
//
// With SkipDots set, the sequence begins at that dot's travel move and no
// barrier precedes it; the caller is responsible for having the right sheet
// loaded.
func Compile(doc layout.Document, opts Options) []printer.Action {
	opts = opts.withDefaults()

	total := len(doc.Dots)
	if opts.SkipDots >= total {
		return nil
	}
	dots := doc.Dots[opts.SkipDots:]

	eUnits := fmtNum(opts.StrikeDegrees * opts.Calibration.StepsPerDegree / opts.Calibration.StepsPerUnit)
	strike := fmt.Sprintf("G1 E%s F%d", eUnits, opts.StrikeFeed)
	retract := fmt.Sprintf("G1 E-%s F%d", eUnits, opts.StrikeFeed)

	done := opts.SkipDots
	page := dots[0].Page
	actions := make([]printer.Action, 0, len(dots)*3)

	for _, d := range dots {
		if d.Page != page {
			page = d.Page
			actions = append(actions,
				printer.Action{Command: liftForFeed},
				printer.Action{Command: homeForFeed, OnAck: pageChanged(opts.OnPage, page)},
				printer.Action{Command: lowerToPlane},
			)
		}

		travel := fmt.Sprintf("G1 X%s Y%s F%d", fmtNum(d.X), fmtNum(d.Y), opts.TravelFeed)
		actions = append(actions,
			printer.Action{Command: travel},
			printer.Action{Command: strike},
			printer.Action{Command: retract, OnAck: dotEmbossed(&done, total, opts.OnDot)},
		)
	}

	log.Debug().Int("dots", len(dots)).Int("skipped", opts.SkipDots).
		Int("actions", len(actions)).Msg("compiled embossing program")
	return actions
}

func pageChanged(onPage func(int), page int) func() {
	if onPage == nil {
		return nil
	}
	return func() { onPage(page) }
}

func dotEmbossed(done *int, total int, onDot func(done, total int)) func() {
	if onDot == nil {
		return nil
	}
	return func() {
		*done++
		onDot(*done, total)
	}
}

// fmtNum renders a millimeter value the firmware parses cleanly: at most
// three decimals, trailing zeros stripped.
func fmtNum(v float64) string {
	s := strconv.FormatFloat(v, 'f', 3, 64)
	s = strings.TrimRight(s, "0")
	return strings.TrimRight(s, ".")
}
