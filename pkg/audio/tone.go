/*
BRL+
Copyright (c) 2026 The BRL+ Contributors.
SPDX-License-Identifier: GPL-3.0-or-later

This file is part of BRL+.

BRL+ is free software: you can redistribute it and/or modify
it under the terms of the GNU General Public License as published by
the Free Software Foundation, either version 3 of the License, or
(at your option) any later version.

BRL+ is distributed in the hope that it will be useful,
but WITHOUT ANY WARRANTY; without even the implied warranty of
MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
GNU General Public License for more details.

You should have received a copy of the GNU General Public License
along with BRL+.  If not, see <http://www.gnu.org/licenses/>.
*/

package audio

import (
	"bytes"
	"encoding/binary"
	"math"
	"time"
)

// playbackRate is the sample rate the output device runs at. All sources are
// resampled to it.
const playbackRate = 48000

// toneRate is the rate the synthesized cues are rendered at. Kept below the
// device rate so the tones go through the same resample path as file audio.
const toneRate = 44100

type note struct {
	freq     float64
	duration time.Duration
}

// successTone is two short rising beeps.
var successTone = []note{
	{freq: 880, duration: 120 * time.Millisecond},
	{freq: 0, duration: 40 * time.Millisecond},
	{freq: 1318.5, duration: 160 * time.Millisecond},
}

// failTone is a single low buzz, long enough to register across a room.
var failTone = []note{
	{freq: 220, duration: 450 * time.Millisecond},
}

// SuccessToneWAV renders the built-in job success cue as a WAV file in memory.
func SuccessToneWAV() []byte {
	return renderWAV(successTone)
}

// FailToneWAV renders the built-in job failure cue as a WAV file in memory.
func FailToneWAV() []byte {
	return renderWAV(failTone)
}

// renderWAV synthesizes a note sequence into a mono 16-bit PCM WAV. A short
// linear attack/release envelope on each note avoids clicks at the
// boundaries.
func renderWAV(notes []note) []byte {
	const amplitude = 0.35
	envelope := toneRate / 100 // 10ms ramp

	var pcm []int16
	for _, n := range notes {
		count := int(float64(toneRate) * n.duration.Seconds())
		for i := range count {
			if n.freq == 0 {
				pcm = append(pcm, 0)
				continue
			}
			sample := amplitude * math.Sin(2*math.Pi*n.freq*float64(i)/toneRate)
			if i < envelope {
				sample *= float64(i) / float64(envelope)
			}
			if remaining := count - i; remaining < envelope {
				sample *= float64(remaining) / float64(envelope)
			}
			pcm = append(pcm, int16(sample*math.MaxInt16))
		}
	}

	return encodeWAV(pcm)
}

// encodeWAV wraps mono 16-bit samples in a minimal RIFF/WAVE container.
func encodeWAV(pcm []int16) []byte {
	dataSize := len(pcm) * 2

	var buf bytes.Buffer
	buf.Grow(44 + dataSize)

	writeU32 := func(v uint32) {
		var b [4]byte
		binary.LittleEndian.PutUint32(b[:], v)
		buf.Write(b[:])
	}
	writeU16 := func(v uint16) {
		var b [2]byte
		binary.LittleEndian.PutUint16(b[:], v)
		buf.Write(b[:])
	}

	buf.WriteString("RIFF")
	writeU32(uint32(36 + dataSize)) //nolint:gosec // G115: bounded by tone length
	buf.WriteString("WAVE")

	buf.WriteString("fmt ")
	writeU32(16)
	writeU16(1) // PCM
	writeU16(1) // mono
	writeU32(toneRate)
	writeU32(toneRate * 2) // byte rate
	writeU16(2)            // block align
	writeU16(16)           // bits per sample

	buf.WriteString("data")
	writeU32(uint32(dataSize)) //nolint:gosec // G115: bounded by tone length
	for _, s := range pcm {
		writeU16(uint16(s)) //nolint:gosec // G115: intentional two's complement reinterpret
	}

	return buf.Bytes()
}
