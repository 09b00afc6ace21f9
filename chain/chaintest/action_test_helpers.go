// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package chaintest

import (
	"context"
	"testing"

	"github.com/ava-labs/avalanchego/utils/set"
	"github.com/stretchr/testify/require"

	"github.com/ava-labs/custodyvm/chain"
	"github.com/ava-labs/custodyvm/codec"
	"github.com/ava-labs/custodyvm/event"
)

// ActionTest is a single parameterized test. It calls Execute on the action
// with the passed parameters and checks that all assertions pass.
type ActionTest struct {
	Name string

	Action chain.Action

	Rules     chain.Rules
	State     *InMemoryStore
	Timestamp int64
	Signers   []codec.Address

	ExpectedRecords []event.Record
	ExpectedErr     error

	Assertion func(context.Context, *testing.T, *InMemoryStore)
}

// Run executes the [ActionTest] and makes sure all assertions pass. A failing
// action must leave [State] exactly as it found it.
func (test *ActionTest) Run(ctx context.Context, t *testing.T) {
	t.Run(test.Name, func(t *testing.T) {
		require := require.New(t)

		rules := test.Rules
		if rules == nil {
			rules = NewRules()
		}
		store := test.State
		if store == nil {
			store = NewInMemoryStore()
		}
		before := store.Snapshot()

		records, err := test.Action.Execute(ctx, rules, store, test.Timestamp, set.Of(test.Signers...))
		require.ErrorIs(err, test.ExpectedErr)
		if test.ExpectedErr != nil {
			require.Nil(records)
			require.Equal(before, store.Storage)
		} else {
			require.Equal(test.ExpectedRecords, records)
		}

		if test.Assertion != nil {
			test.Assertion(ctx, t, store)
		}
	})
}

// ActionTestSuite runs a list of tests sharing nothing but the context.
type ActionTestSuite []ActionTest

func (s ActionTestSuite) Run(t *testing.T) {
	ctx := context.Background()
	for i := range s {
		s[i].Run(ctx, t)
	}
}
