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

package config

const (
	DefaultCheckpointEvery      = 50
	DefaultHistoryRetentionDays = 365
)

type Jobs struct {
	CheckpointEvery      *int `toml:"checkpoint_every,omitempty"`
	HistoryRetentionDays *int `toml:"history_retention_days,omitempty"`
}

// CheckpointEvery returns how many embossed dots pass between progress
// checkpoint writes. Lower values tighten resume granularity at the cost
// of more database writes while a job runs.
func (c *Instance) CheckpointEvery() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.vals.Jobs.CheckpointEvery == nil || *c.vals.Jobs.CheckpointEvery <= 0 {
		return DefaultCheckpointEvery
	}
	return *c.vals.Jobs.CheckpointEvery
}

func (c *Instance) SetCheckpointEvery(n int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.vals.Jobs.CheckpointEvery = &n
}

// HistoryRetentionDays returns how long finished jobs stay in the history
// database before cleanup removes them. Zero or negative disables cleanup.
func (c *Instance) HistoryRetentionDays() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.vals.Jobs.HistoryRetentionDays == nil {
		return DefaultHistoryRetentionDays
	}
	return *c.vals.Jobs.HistoryRetentionDays
}

func (c *Instance) SetHistoryRetentionDays(days int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.vals.Jobs.HistoryRetentionDays = &days
}
