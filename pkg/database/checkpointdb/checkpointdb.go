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

// Package checkpointdb persists the progress of running print jobs to a
// bolt database so an interrupted job can be resumed from the last embossed
// dot. Values are whole checkpoint records keyed by job id; writes happen
// per progress batch, so one Put per transaction is the expected load.
package checkpointdb

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/KabirK-05/BRL-Plus/pkg/config"
	"github.com/KabirK-05/BRL-Plus/pkg/database"
	bolt "go.etcd.io/bbolt"
)

const bucketCheckpoints = "checkpoints"

var ErrNotExist = errors.New("checkpoint does not exist")

type CheckpointDB struct {
	bdb  *bolt.DB
	path string
}

// Open opens (or creates) the checkpoint database inside dataDir.
func Open(dataDir string) (*CheckpointDB, error) {
	path := filepath.Join(dataDir, config.CheckpointDbFile)
	if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil {
		return nil, fmt.Errorf("failed to create directory for database: %w", err)
	}

	bdb, err := bolt.Open(path, 0o600, &bolt.Options{})
	if err != nil {
		return nil, fmt.Errorf("failed to open bolt database: %w", err)
	}

	err = bdb.Update(func(tx *bolt.Tx) error {
		_, createErr := tx.CreateBucketIfNotExists([]byte(bucketCheckpoints))
		if createErr != nil {
			return fmt.Errorf("failed to create bucket %q: %w", bucketCheckpoints, createErr)
		}
		return nil
	})
	if err != nil {
		_ = bdb.Close()
		return nil, err
	}

	return &CheckpointDB{bdb: bdb, path: path}, nil
}

func (db *CheckpointDB) Close() error {
	if err := db.bdb.Close(); err != nil {
		return fmt.Errorf("failed to close bolt database: %w", err)
	}
	return nil
}

func (db *CheckpointDB) GetDBPath() string {
	return db.path
}

// Save writes or overwrites the checkpoint for cp.ID.
func (db *CheckpointDB) Save(cp *database.Checkpoint) error {
	if cp.ID == "" {
		return errors.New("checkpoint id is empty")
	}

	data, err := json.Marshal(cp)
	if err != nil {
		return fmt.Errorf("failed to marshal checkpoint: %w", err)
	}

	err = db.bdb.Update(func(tx *bolt.Tx) error {
		b := tx.Bucket([]byte(bucketCheckpoints))
		if b == nil {
			return fmt.Errorf("bucket %q does not exist", bucketCheckpoints)
		}
		return b.Put([]byte(cp.ID), data)
	})
	if err != nil {
		return fmt.Errorf("failed to save checkpoint: %w", err)
	}
	return nil
}

// Get returns the checkpoint for a job id, or ErrNotExist.
func (db *CheckpointDB) Get(id string) (database.Checkpoint, error) {
	var cp database.Checkpoint

	err := db.bdb.View(func(tx *bolt.Tx) error {
		b := tx.Bucket([]byte(bucketCheckpoints))
		if b == nil {
			return fmt.Errorf("bucket %q does not exist", bucketCheckpoints)
		}

		v := b.Get([]byte(id))
		if v == nil {
			return ErrNotExist
		}
		if unmarshalErr := json.Unmarshal(v, &cp); unmarshalErr != nil {
			return fmt.Errorf("failed to unmarshal checkpoint data: %w", unmarshalErr)
		}
		return nil
	})
	if errors.Is(err, ErrNotExist) {
		return cp, ErrNotExist
	}
	if err != nil {
		return cp, fmt.Errorf("failed to view bolt database: %w", err)
	}
	return cp, nil
}

// Delete removes a job's checkpoint. Deleting a missing id is not an error.
func (db *CheckpointDB) Delete(id string) error {
	err := db.bdb.Update(func(tx *bolt.Tx) error {
		b := tx.Bucket([]byte(bucketCheckpoints))
		if b == nil {
			return fmt.Errorf("bucket %q does not exist", bucketCheckpoints)
		}
		return b.Delete([]byte(id))
	})
	if err != nil {
		return fmt.Errorf("failed to delete checkpoint: %w", err)
	}
	return nil
}

// All returns every stored checkpoint, oldest started first.
func (db *CheckpointDB) All() ([]database.Checkpoint, error) {
	cps := make([]database.Checkpoint, 0)

	err := db.bdb.View(func(tx *bolt.Tx) error {
		b := tx.Bucket([]byte(bucketCheckpoints))
		if b == nil {
			return fmt.Errorf("bucket %q does not exist", bucketCheckpoints)
		}

		return b.ForEach(func(_, v []byte) error {
			var cp database.Checkpoint
			if unmarshalErr := json.Unmarshal(v, &cp); unmarshalErr != nil {
				return fmt.Errorf("failed to unmarshal checkpoint data: %w", unmarshalErr)
			}
			cps = append(cps, cp)
			return nil
		})
	})
	if err != nil {
		return cps, fmt.Errorf("failed to view bolt database: %w", err)
	}

	sort.Slice(cps, func(i, j int) bool {
		if cps[i].StartedAt.Equal(cps[j].StartedAt) {
			return cps[i].ID < cps[j].ID
		}
		return cps[i].StartedAt.Before(cps[j].StartedAt)
	})
	return cps, nil
}
