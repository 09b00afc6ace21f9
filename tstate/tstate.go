// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package tstate

import (
	"sync"

	"github.com/ava-labs/avalanchego/database"
	"github.com/ava-labs/avalanchego/utils/maybe"
)

// TState defines a struct for storing temporary state.
//
// Views created from a TState stage their changes privately and only publish
// them to the TState on Commit, so a failed operation never leaves a partial
// write behind.
type TState struct {
	l           sync.RWMutex
	ops         int
	changedKeys map[string]maybe.Maybe[[]byte]
}

// New returns a new instance of TState.
//
// [changedSize] is an estimate of the number of keys that will be changed.
func New(changedSize int) *TState {
	return &TState{
		changedKeys: make(map[string]maybe.Maybe[[]byte], changedSize),
	}
}

func (ts *TState) getChangedValue(key string) ([]byte, bool, bool) {
	ts.l.RLock()
	defer ts.l.RUnlock()

	if v, ok := ts.changedKeys[key]; ok {
		if v.IsNothing() {
			return nil, true, false
		}
		return v.Value(), true, true
	}
	return nil, false, false
}

// OpIndex returns the number of operations committed to [TState].
func (ts *TState) OpIndex() int {
	ts.l.RLock()
	defer ts.l.RUnlock()

	return ts.ops
}

// ChangedKeys returns a copy of every committed change. A Nothing value marks
// a key that must be deleted from the underlying database.
func (ts *TState) ChangedKeys() map[string]maybe.Maybe[[]byte] {
	ts.l.RLock()
	defer ts.l.RUnlock()

	changes := make(map[string]maybe.Maybe[[]byte], len(ts.changedKeys))
	for k, v := range ts.changedKeys {
		changes[k] = v
	}
	return changes
}

// WriteChanges applies every committed change to [w] and returns the number
// of keys written or deleted.
func (ts *TState) WriteChanges(w database.KeyValueWriterDeleter) (int, error) {
	ts.l.RLock()
	defer ts.l.RUnlock()

	for k, v := range ts.changedKeys {
		var err error
		if v.IsNothing() {
			err = w.Delete([]byte(k))
		} else {
			err = w.Put([]byte(k), v.Value())
		}
		if err != nil {
			return 0, err
		}
	}
	return len(ts.changedKeys), nil
}
