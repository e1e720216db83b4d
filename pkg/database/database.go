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

package database

import (
	"database/sql"
	"time"

	"github.com/KabirK-05/BRL-Plus/pkg/layout"
)

/*
 * Shared record types and storage interfaces live at this level so the
 * packages consuming them never import the concrete implementations.
 * Implementations are in historydb and checkpointdb.
 */

// Database bundles the service's storage handles into one dependency.
type Database struct {
	History     HistoryDBI
	Checkpoints CheckpointDBI
}

// Terminal job states recorded to history.
const (
	JobStateCompleted = "completed"
	JobStateFailed    = "failed"
	JobStateCancelled = "cancelled"
)

// Job submission sources.
const (
	SourceAPI   = "api"
	SourceSpool = "spool"
	SourceCLI   = "cli"
)

// Job is one finished print job as recorded to history.
type Job struct {
	StartedAt time.Time `json:"startedAt"`
	EndedAt   time.Time `json:"endedAt"`
	ID        string    `json:"id"`
	Source    string    `json:"source"`
	Name      string    `json:"name"`
	Table     string    `json:"table"`
	Layout    string    `json:"layout"`
	State     string    `json:"state"`
	Error     string    `json:"error,omitempty"`
	DBID      int64     `json:"-"`
	Cells     int       `json:"cells"`
	Dots      int       `json:"dots"`
	DotsDone  int       `json:"dotsDone"`
	Pages     int       `json:"pages"`
	Copies    int       `json:"copies"`
}

// Checkpoint is the resumable state of an interrupted job: the rendered
// document plus how far into it the embosser got. The document is stored
// whole so a resume never depends on the source text, translation table or
// layout profile still existing unchanged.
type Checkpoint struct {
	StartedAt time.Time       `json:"startedAt"`
	UpdatedAt time.Time       `json:"updatedAt"`
	ID        string          `json:"id"`
	Source    string          `json:"source"`
	Name      string          `json:"name"`
	Table     string          `json:"table"`
	Layout    string          `json:"layout"`
	Document  layout.Document `json:"document"`
	DotsDone  int             `json:"dotsDone"`
	Copies    int             `json:"copies"`
}

type GenericDBI interface {
	Open() error
	UnsafeGetSQLDb() *sql.DB
	Truncate() error
	Allocate() error
	MigrateUp() error
	Vacuum() error
	Close() error
	GetDBPath() string
}

type HistoryDBI interface {
	GenericDBI
	AddJob(job *Job) error
	GetJobs(lastID int) ([]Job, error)
	AllJobs() ([]Job, error)
	CleanupJobs(retentionDays int) (int64, error)
}

type CheckpointDBI interface {
	Close() error
	GetDBPath() string
	Save(cp *Checkpoint) error
	Get(id string) (Checkpoint, error)
	Delete(id string) error
	All() ([]Checkpoint, error)
}
