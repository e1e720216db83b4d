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

// Package historydb stores finished print jobs in a SQLite database.
package historydb

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/KabirK-05/BRL-Plus/pkg/config"
	"github.com/KabirK-05/BRL-Plus/pkg/database"
	"github.com/KabirK-05/BRL-Plus/pkg/helpers"
	_ "github.com/mattn/go-sqlite3"
)

var ErrNullSQL = errors.New("history database is not connected")

const sqliteConnParams = "?_journal_mode=WAL&_synchronous=FULL&_busy_timeout=5000"

type HistoryDB struct {
	sql *sql.DB
	ctx context.Context
}

func OpenHistoryDB(ctx context.Context) (*HistoryDB, error) {
	db := &HistoryDB{sql: nil, ctx: ctx}
	err := db.Open()
	return db, err
}

func (db *HistoryDB) Open() error {
	exists := true
	dbPath := db.GetDBPath()
	_, err := os.Stat(dbPath)
	if err != nil {
		exists = false
		mkdirErr := os.MkdirAll(filepath.Dir(dbPath), 0o750)
		if mkdirErr != nil {
			return fmt.Errorf("failed to create directory for database: %w", mkdirErr)
		}
	}
	sqlInstance, err := sql.Open("sqlite3", dbPath+sqliteConnParams)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	db.sql = sqlInstance
	if !exists {
		return db.Allocate()
	}
	return nil
}

func (db *HistoryDB) GetDBPath() string {
	return filepath.Join(helpers.DataDir(), config.HistoryDbFile)
}

func (db *HistoryDB) UnsafeGetSQLDb() *sql.DB {
	return db.sql
}

func (db *HistoryDB) Truncate() error {
	if db.sql == nil {
		return ErrNullSQL
	}
	return sqlTruncate(db.ctx, db.sql)
}

func (db *HistoryDB) Allocate() error {
	if db.sql == nil {
		return ErrNullSQL
	}
	return sqlAllocate(db.sql)
}

func (db *HistoryDB) MigrateUp() error {
	if db.sql == nil {
		return ErrNullSQL
	}
	return sqlMigrateUp(db.sql)
}

func (db *HistoryDB) Vacuum() error {
	if db.sql == nil {
		return ErrNullSQL
	}
	return sqlVacuum(db.ctx, db.sql)
}

func (db *HistoryDB) Close() error {
	if db.sql == nil {
		return nil
	}
	err := db.sql.Close()
	if err != nil {
		return fmt.Errorf("failed to close database: %w", err)
	}
	return nil
}

// SetSQLForTesting injects a sql.DB instance so tests can run against an
// in-memory or temp-file database. It allocates the schema.
func (db *HistoryDB) SetSQLForTesting(ctx context.Context, sqlDB *sql.DB) error {
	db.sql = sqlDB
	db.ctx = ctx
	return db.Allocate()
}

func (db *HistoryDB) AddJob(job *database.Job) error {
	return sqlAddJob(db.ctx, db.sql, *job)
}

func (db *HistoryDB) GetJobs(lastID int) ([]database.Job, error) {
	return sqlGetJobsWithOffset(db.ctx, db.sql, lastID)
}

func (db *HistoryDB) AllJobs() ([]database.Job, error) {
	return sqlAllJobs(db.ctx, db.sql)
}

func (db *HistoryDB) CleanupJobs(retentionDays int) (int64, error) {
	if db.sql == nil {
		return 0, ErrNullSQL
	}
	return sqlCleanupJobs(db.ctx, db.sql, retentionDays)
}
