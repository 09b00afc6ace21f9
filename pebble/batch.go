// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package pebble

import (
	"github.com/ava-labs/avalanchego/database"
	"github.com/cockroachdb/pebble"
)

var _ database.Batch = (*batch)(nil)

type op struct {
	delete bool
	key    []byte
	value  []byte
}

// batch stages writes in a pebble batch and keeps the operation list so it
// can be replayed onto another writer.
type batch struct {
	db    *Database
	inner *pebble.Batch
	ops   []op
	size  int
}

func (db *Database) NewBatch() database.Batch {
	return &batch{db: db, inner: db.db.NewBatch()}
}

func (b *batch) Put(key []byte, value []byte) error {
	b.ops = append(b.ops, op{key: append([]byte(nil), key...), value: append([]byte(nil), value...)})
	b.size += len(key) + len(value)
	return b.inner.Set(key, value, nil)
}

func (b *batch) Delete(key []byte) error {
	b.ops = append(b.ops, op{delete: true, key: append([]byte(nil), key...)})
	b.size += len(key)
	return b.inner.Delete(key, nil)
}

func (b *batch) Size() int {
	return b.size
}

func (b *batch) Write() error {
	b.db.l.RLock()
	defer b.db.l.RUnlock()

	if b.db.closed {
		return database.ErrClosed
	}
	b.db.metrics.batchWrites.Inc()
	b.db.metrics.batchBytes.Add(float64(b.size))
	return b.inner.Commit(b.db.writeOpts)
}

func (b *batch) Reset() {
	b.inner.Reset()
	b.ops = b.ops[:0]
	b.size = 0
}

func (b *batch) Replay(w database.KeyValueWriterDeleter) error {
	for _, o := range b.ops {
		var err error
		if o.delete {
			err = w.Delete(o.key)
		} else {
			err = w.Put(o.key, o.value)
		}
		if err != nil {
			return err
		}
	}
	return nil
}

func (b *batch) Inner() database.Batch {
	return b
}
