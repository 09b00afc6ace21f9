// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package lockmap

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestLockUnlock(t *testing.T) {
	require := require.New(t)
	l := New(4)

	l.Lock("fund")
	require.Equal(1, l.Locks())
	l.Unlock("fund")
	require.Zero(l.Locks())

	l.RLock("vault")
	l.RLock("vault")
	require.Equal(1, l.Locks())
	l.RUnlock("vault")
	require.Equal(1, l.Locks())
	l.RUnlock("vault")
	require.Zero(l.Locks())
}

func TestLockAllSerializes(t *testing.T) {
	require := require.New(t)
	l := New(4)

	var (
		wg      sync.WaitGroup
		counter int
	)
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			keys := []string{"b", "a"}
			if i%2 == 0 {
				keys = []string{"a", "b", "a"}
			}
			unlock := l.LockAll(keys)
			counter++
			unlock()
		}(i)
	}
	wg.Wait()
	require.Equal(50, counter)
	require.Zero(l.Locks())
}
