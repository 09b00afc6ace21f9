// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package event

import (
	"context"
	"sync"
)

var _ Subscription[*Entry] = (*Log)(nil)

// Log is an append-only in-memory sink.
type Log struct {
	l       sync.RWMutex
	entries []*Entry
}

func NewLog() *Log {
	return &Log{}
}

func (l *Log) Accept(_ context.Context, e *Entry) error {
	l.l.Lock()
	defer l.l.Unlock()

	l.entries = append(l.entries, e)
	return nil
}

func (*Log) Close() error {
	return nil
}

// Entries returns a copy of every accepted entry.
func (l *Log) Entries() []*Entry {
	l.l.RLock()
	defer l.l.RUnlock()

	entries := make([]*Entry, len(l.entries))
	copy(entries, l.entries)
	return entries
}

// Records returns the accepted records of type [R].
func Records[R Record](l *Log) []R {
	var records []R
	for _, e := range l.Entries() {
		if r, ok := e.Record.(R); ok {
			records = append(records, r)
		}
	}
	return records
}
