// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package state

import (
	"context"

	"github.com/ava-labs/avalanchego/database"
)

var (
	_ Immutable = (*dbReader)(nil)
	_ Mutable   = (*dbWriter)(nil)
)

type dbReader struct {
	db database.KeyValueReader
}

// NewReader exposes committed database contents to record getters.
func NewReader(db database.KeyValueReader) Immutable {
	return &dbReader{db: db}
}

func (r *dbReader) GetValue(_ context.Context, key []byte) ([]byte, error) {
	return r.db.Get(key)
}

type dbWriter struct {
	dbReader
	db database.KeyValueReaderWriterDeleter
}

// NewWriter applies mutations straight to [db] without key scoping. It is
// meant for bootstrapping state (genesis, fixtures), not for actions.
func NewWriter(db database.KeyValueReaderWriterDeleter) Mutable {
	return &dbWriter{dbReader: dbReader{db: db}, db: db}
}

func (w *dbWriter) Insert(_ context.Context, key []byte, value []byte) error {
	return w.db.Put(key, value)
}

func (w *dbWriter) Remove(_ context.Context, key []byte) error {
	return w.db.Delete(key)
}
