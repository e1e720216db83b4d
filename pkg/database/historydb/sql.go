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

package historydb

import (
	"context"
	"database/sql"
	"embed"
	"fmt"
	"time"

	"github.com/KabirK-05/BRL-Plus/pkg/database"
	"github.com/rs/zerolog/log"
)

// Queries go here to keep the interface clean

//go:embed migrations/*.sql
var migrationFiles embed.FS

func sqlMigrateUp(db *sql.DB) error {
	if err := database.MigrateUp(db, migrationFiles, "migrations"); err != nil {
		return fmt.Errorf("failed to run history database migrations: %w", err)
	}
	return nil
}

func sqlAllocate(db *sql.DB) error {
	return sqlMigrateUp(db)
}

//goland:noinspection SqlWithoutWhere
func sqlTruncate(ctx context.Context, db *sql.DB) error {
	sqlStmt := `
	delete from Jobs;
	vacuum;
	`
	_, err := db.ExecContext(ctx, sqlStmt)
	if err != nil {
		return fmt.Errorf("failed to truncate database: %w", err)
	}
	return nil
}

func sqlVacuum(ctx context.Context, db *sql.DB) error {
	sqlStmt := `
	vacuum;
	`
	_, err := db.ExecContext(ctx, sqlStmt)
	if err != nil {
		return fmt.Errorf("failed to vacuum database: %w", err)
	}
	return nil
}

func sqlCleanupJobs(ctx context.Context, db *sql.DB, retentionDays int) (int64, error) {
	cutoffTime := time.Now().AddDate(0, 0, -retentionDays).Unix()

	stmt, err := db.PrepareContext(ctx, `DELETE FROM Jobs WHERE EndedAt < ?;`)
	if err != nil {
		return 0, fmt.Errorf("failed to prepare job cleanup statement: %w", err)
	}
	defer func() {
		if closeErr := stmt.Close(); closeErr != nil {
			log.Warn().Err(closeErr).Msg("failed to close sql statement")
		}
	}()

	result, err := stmt.ExecContext(ctx, cutoffTime)
	if err != nil {
		return 0, fmt.Errorf("failed to execute job cleanup: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to get rows affected: %w", err)
	}

	// Vacuum to reclaim disk space after cleanup
	if rowsAffected > 0 {
		if err := sqlVacuum(ctx, db); err != nil {
			return rowsAffected, fmt.Errorf("cleanup succeeded but vacuum failed: %w", err)
		}
	}

	return rowsAffected, nil
}

// A resumed job reaches a terminal state more than once (failed, then
// completed), so the insert replaces any earlier row with the same JobID.
//
//nolint:gocritic // struct passed for DB insertion
func sqlAddJob(ctx context.Context, db *sql.DB, job database.Job) error {
	stmt, err := db.PrepareContext(ctx, `
		insert or replace into Jobs(
			JobID, Source, Name, BrailleTable, Layout, State, Error,
			StartedAt, EndedAt, Cells, Dots, DotsDone, Pages, Copies
		) values (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?);
	`)
	if err != nil {
		return fmt.Errorf("failed to prepare job insert statement: %w", err)
	}
	defer func() {
		if closeErr := stmt.Close(); closeErr != nil {
			log.Warn().Err(closeErr).Msg("failed to close sql statement")
		}
	}()
	_, err = stmt.ExecContext(ctx,
		job.ID,
		job.Source,
		job.Name,
		job.Table,
		job.Layout,
		job.State,
		job.Error,
		job.StartedAt.Unix(),
		job.EndedAt.Unix(),
		job.Cells,
		job.Dots,
		job.DotsDone,
		job.Pages,
		job.Copies,
	)
	if err != nil {
		return fmt.Errorf("failed to execute job insert: %w", err)
	}
	return nil
}

const jobColumns = `
	DBID, JobID, Source, Name, BrailleTable, Layout, State, Error,
	StartedAt, EndedAt, Cells, Dots, DotsDone, Pages, Copies`

func scanJob(rows *sql.Rows) (database.Job, error) {
	var row database.Job
	var startedAt, endedAt int64
	err := rows.Scan(
		&row.DBID,
		&row.ID,
		&row.Source,
		&row.Name,
		&row.Table,
		&row.Layout,
		&row.State,
		&row.Error,
		&startedAt,
		&endedAt,
		&row.Cells,
		&row.Dots,
		&row.DotsDone,
		&row.Pages,
		&row.Copies,
	)
	if err != nil {
		return row, fmt.Errorf("failed to scan job row: %w", err)
	}
	row.StartedAt = time.Unix(startedAt, 0)
	row.EndedAt = time.Unix(endedAt, 0)
	return row, nil
}

func sqlGetJobsWithOffset(ctx context.Context, db *sql.DB, lastID int) ([]database.Job, error) {
	list := make([]database.Job, 0, 25)
	// Instead of offset, use token-based
	if lastID == 0 {
		lastID = 2147483646
	}

	q, err := db.PrepareContext(ctx, `
		select `+jobColumns+`
		from Jobs
		where DBID < ?
		order by DBID DESC
		limit 25;
	`)
	if err != nil {
		return list, fmt.Errorf("failed to prepare job query statement: %w", err)
	}
	defer func() {
		if closeErr := q.Close(); closeErr != nil {
			log.Warn().Err(closeErr).Msg("failed to close sql statement")
		}
	}()

	rows, err := q.QueryContext(ctx, lastID)
	if err != nil {
		return list, fmt.Errorf("failed to query jobs: %w", err)
	}
	defer func() {
		if closeErr := rows.Close(); closeErr != nil {
			log.Warn().Err(closeErr).Msg("failed to close sql rows")
		}
	}()
	for rows.Next() {
		row, scanErr := scanJob(rows)
		if scanErr != nil {
			return list, scanErr
		}
		list = append(list, row)
	}
	if err = rows.Err(); err != nil {
		return list, fmt.Errorf("error iterating job rows: %w", err)
	}
	return list, nil
}

func sqlAllJobs(ctx context.Context, db *sql.DB) ([]database.Job, error) {
	list := make([]database.Job, 0)

	q, err := db.PrepareContext(ctx, `
		select `+jobColumns+`
		from Jobs
		order by DBID ASC;
	`)
	if err != nil {
		return list, fmt.Errorf("failed to prepare all jobs statement: %w", err)
	}
	defer func() {
		if closeErr := q.Close(); closeErr != nil {
			log.Warn().Err(closeErr).Msg("failed to close sql statement")
		}
	}()

	rows, err := q.QueryContext(ctx)
	if err != nil {
		return list, fmt.Errorf("failed to execute all jobs query: %w", err)
	}
	defer func() {
		if closeErr := rows.Close(); closeErr != nil {
			log.Warn().Err(closeErr).Msg("failed to close sql rows")
		}
	}()
	for rows.Next() {
		row, scanErr := scanJob(rows)
		if scanErr != nil {
			return list, scanErr
		}
		list = append(list, row)
	}
	if err = rows.Err(); err != nil {
		return list, fmt.Errorf("failed to iterate over job rows: %w", err)
	}
	return list, nil
}
