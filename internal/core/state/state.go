// Package state manages dtogen's persistent run history using BoltDB.
// All writes are transactional; reads use read-only transactions to minimise contention.
package state

import (
	"encoding/json"
	"fmt"
	"time"

	"go.etcd.io/bbolt"

	v1 "github.com/f9-o/dtogen/api/v1"
	"github.com/f9-o/dtogen/pkg/errs"
)

// Bucket names
var (
	bucketGenerations = []byte("generations")
	bucketPackages    = []byte("packages")
)

// DB wraps a BoltDB instance with typed accessor methods.
type DB struct {
	bolt *bbolt.DB
}

// Open opens (or creates) the state database at the given path.
func Open(path string) (*DB, error) {
	db, err := bbolt.Open(path, 0600, &bbolt.Options{Timeout: 2 * time.Second})
	if err != nil {
		return nil, errs.Newf(errs.ErrStateRead, "state.open", "open state db %q: %w", path, err).
			WithAdvice("another dtogen process may hold the lock; retry when it exits")
	}

	// Ensure all buckets exist
	err = db.Update(func(tx *bbolt.Tx) error {
		for _, b := range [][]byte{bucketGenerations, bucketPackages} {
			if _, err := tx.CreateBucketIfNotExists(b); err != nil {
				return fmt.Errorf("create bucket %q: %w", b, err)
			}
		}
		return nil
	})
	if err != nil {
		db.Close()
		return nil, errs.Newf(errs.ErrStateWrite, "state.open", "init buckets: %w", err)
	}

	return &DB{bolt: db}, nil
}

// Close closes the underlying BoltDB file.
func (db *DB) Close() error {
	return db.bolt.Close()
}

// ─────────────────────────────────────────────────────────────────────────────
// Generation history
// ─────────────────────────────────────────────────────────────────────────────

// PutGeneration appends a generation record and returns it with its ID set.
func (db *DB) PutGeneration(rec v1.GenerationRecord) (v1.GenerationRecord, error) {
	err := db.appendJSON(bucketGenerations, func(id string) any {
		rec.ID = id
		return rec
	})
	return rec, err
}

// ListGenerations returns generation records newest first. A limit of zero
// or less returns all of them.
func (db *DB) ListGenerations(limit int) ([]v1.GenerationRecord, error) {
	var recs []v1.GenerationRecord
	err := db.listJSON(bucketGenerations, limit, func(data []byte) error {
		var r v1.GenerationRecord
		if err := json.Unmarshal(data, &r); err != nil {
			return err
		}
		recs = append(recs, r)
		return nil
	})
	return recs, err
}

// ─────────────────────────────────────────────────────────────────────────────
// Package history
// ─────────────────────────────────────────────────────────────────────────────

// PutPackage appends a package record and returns it with its ID set.
func (db *DB) PutPackage(rec v1.PackageRecord) (v1.PackageRecord, error) {
	err := db.appendJSON(bucketPackages, func(id string) any {
		rec.ID = id
		return rec
	})
	return rec, err
}

// ListPackages returns package records newest first. A limit of zero or
// less returns all of them.
func (db *DB) ListPackages(limit int) ([]v1.PackageRecord, error) {
	var recs []v1.PackageRecord
	err := db.listJSON(bucketPackages, limit, func(data []byte) error {
		var r v1.PackageRecord
		if err := json.Unmarshal(data, &r); err != nil {
			return err
		}
		recs = append(recs, r)
		return nil
	})
	return recs, err
}

// ─────────────────────────────────────────────────────────────────────────────
// Generic helpers
// ─────────────────────────────────────────────────────────────────────────────

// appendJSON stores the value built by mk under the bucket's next sequence
// number. Keys are zero-padded so cursor order is insertion order.
func (db *DB) appendJSON(bucket []byte, mk func(id string) any) error {
	err := db.bolt.Update(func(tx *bbolt.Tx) error {
		b := tx.Bucket(bucket)
		seq, err := b.NextSequence()
		if err != nil {
			return err
		}
		id := fmt.Sprintf("%010d", seq)
		data, err := json.Marshal(mk(id))
		if err != nil {
			return fmt.Errorf("marshal: %w", err)
		}
		return b.Put([]byte(id), data)
	})
	if err != nil {
		return errs.Newf(errs.ErrStateWrite, "state.put", "%s: %w", bucket, err)
	}
	return nil
}

func (db *DB) listJSON(bucket []byte, limit int, fn func(data []byte) error) error {
	err := db.bolt.View(func(tx *bbolt.Tx) error {
		c := tx.Bucket(bucket).Cursor()
		n := 0
		for k, v := c.Last(); k != nil; k, v = c.Prev() {
			if limit > 0 && n >= limit {
				break
			}
			if err := fn(v); err != nil {
				return fmt.Errorf("unmarshal %s: %w", k, err)
			}
			n++
		}
		return nil
	})
	if err != nil {
		return errs.Newf(errs.ErrStateRead, "state.list", "%s: %w", bucket, err)
	}
	return nil
}
