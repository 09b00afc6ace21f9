// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package event

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/ava-labs/avalanchego/database"

	"github.com/ava-labs/custodyvm/storage"
)

var _ Subscription[*Entry] = (*Archive)(nil)

var ErrInvalidRange = errors.New("invalid range")

type Database interface {
	database.KeyValueReader
	database.Batcher
}

// Archive persists entries under consecutive sequence numbers so indexers
// can page through every state change since genesis.
type Archive struct {
	l    sync.RWMutex
	db   Database
	next uint64
}

func NewArchive(db Database) (*Archive, error) {
	next, err := storage.GetEventHeight(db)
	if err != nil {
		return nil, err
	}
	return &Archive{db: db, next: next}, nil
}

// Accept assigns [e] the next sequence number and persists it. Subscribers
// registered after the archive observe the assigned Seq.
func (a *Archive) Accept(_ context.Context, e *Entry) error {
	a.l.Lock()
	defer a.l.Unlock()

	e.Seq = a.next
	b, err := e.Marshal()
	if err != nil {
		return err
	}
	batch := a.db.NewBatch()
	if err := batch.Put(storage.EventKey(e.Seq), b); err != nil {
		return err
	}
	if err := storage.SetEventHeight(batch, e.Seq+1); err != nil {
		return err
	}
	if err := batch.Write(); err != nil {
		return err
	}
	a.next++
	return nil
}

func (*Archive) Close() error {
	return nil
}

// Height returns the number of archived entries.
func (a *Archive) Height() uint64 {
	a.l.RLock()
	defer a.l.RUnlock()

	return a.next
}

// Range returns up to [limit] entries starting at sequence [start].
func (a *Archive) Range(start uint64, limit int) ([]*Entry, error) {
	if limit <= 0 {
		return nil, fmt.Errorf("%w: limit %d", ErrInvalidRange, limit)
	}
	a.l.RLock()
	defer a.l.RUnlock()

	var entries []*Entry
	for seq := start; seq < a.next && len(entries) < limit; seq++ {
		b, err := a.db.Get(storage.EventKey(seq))
		if err != nil {
			return nil, err
		}
		e, err := UnmarshalEntry(b)
		if err != nil {
			return nil, err
		}
		entries = append(entries, e)
	}
	return entries, nil
}
