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
	"github.com/KabirK-05/BRL-Plus/pkg/config"
	"github.com/rs/zerolog/log"
)

// Feedback maps job outcomes to sounds. Custom sound files from the audio
// config section take priority over the built-in tones; the whole thing is a
// no-op when job feedback is disabled.
type Feedback struct {
	cfg     *config.Instance
	player  Player
	dataDir string
}

// NewFeedback builds job feedback backed by the real audio device.
func NewFeedback(cfg *config.Instance, dataDir string) *Feedback {
	return NewFeedbackWithPlayer(cfg, dataDir, NewMalgoPlayer())
}

// NewFeedbackWithPlayer is NewFeedback with an injected player for tests.
func NewFeedbackWithPlayer(cfg *config.Instance, dataDir string, player Player) *Feedback {
	return &Feedback{
		cfg:     cfg,
		player:  player,
		dataDir: dataDir,
	}
}

// Success plays the job completion cue.
func (f *Feedback) Success() {
	f.cue(f.cfg.SuccessSoundPath(f.dataDir))(SuccessToneWAV)
}

// Failure plays the job failure cue.
func (f *Feedback) Failure() {
	f.cue(f.cfg.FailSoundPath(f.dataDir))(FailToneWAV)
}

// cue resolves one outcome to a playback action. Falls back to the built-in
// tone when the configured file fails to play.
func (f *Feedback) cue(path string, enabled bool) func(tone func() []byte) {
	return func(tone func() []byte) {
		if !f.cfg.AudioFeedback() || !enabled {
			return
		}
		if path != "" {
			err := f.player.PlayFile(path)
			if err == nil {
				return
			}
			log.Warn().Err(err).Str("path", path).Msg("failed to play custom sound")
		}
		if err := f.player.PlayWAVBytes(tone()); err != nil {
			log.Warn().Err(err).Msg("failed to play feedback tone")
		}
	}
}

// ReloadSounds drops cached sound files after a settings change.
func (f *Feedback) ReloadSounds() {
	f.player.ClearFileCache()
}
