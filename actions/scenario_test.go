// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package actions

import (
	"context"
	"testing"

	"github.com/ava-labs/avalanchego/utils/set"
	"github.com/stretchr/testify/require"

	"github.com/ava-labs/custodyvm/chain"
	"github.com/ava-labs/custodyvm/chain/chaintest"
	"github.com/ava-labs/custodyvm/codec"
	"github.com/ava-labs/custodyvm/derive"
	"github.com/ava-labs/custodyvm/event"
	"github.com/ava-labs/custodyvm/storage"
)

// TestFundLifecycle drives a fund from creation to payout: 1000 is donated,
// 400 is requested and executed, and 600 remains.
func TestFundLifecycle(t *testing.T) {
	require := require.New(t)
	ctx := context.Background()
	rules := chaintest.NewRules()

	creator := newIdentity()
	donor := newIdentity()
	recipient := newIdentity()
	store := chaintest.NewInMemoryStore()
	require.NoError(storage.SetBalance(ctx, store, donor, 1000))

	occupied := func(key func(codec.Address) []byte) func(codec.Address) (bool, error) {
		return func(addr codec.Address) (bool, error) {
			return storage.Exists(ctx, store, key(addr))
		}
	}
	fund, fundBump, err := derive.Find(derive.FundNamespace, derive.FundSeeds(creator), occupied(storage.FundKey))
	require.NoError(err)
	request, requestBump, err := derive.Find(derive.RequestNamespace, derive.RequestSeeds(fund, 0), occupied(storage.RequestKey))
	require.NoError(err)

	steps := []struct {
		action chain.Action
		signer codec.Address
	}{
		{&InitializeFund{Creator: creator, Fund: fund, Bump: fundBump, Name: "relief", Description: "community relief"}, creator},
		{&Donate{Fund: fund, Donor: donor, Amount: 1000}, donor},
		{&CreateWithdrawalRequest{
			Fund:        fund,
			Maintainer:  creator,
			Request:     request,
			RequestBump: requestBump,
			Amount:      400,
			Recipient:   recipient,
			Reason:      "supplies",
		}, creator},
		{&ExecuteWithdrawal{Fund: fund, Request: request, Maintainer: creator, Recipient: recipient}, creator},
	}
	var records []event.Record
	for _, step := range steps {
		out, err := step.action.Execute(ctx, rules, store, testTimestamp, set.Of(step.signer))
		require.NoError(err)
		records = append(records, out...)
	}

	requireBalance(ctx, t, store, donor, 0)
	requireBalance(ctx, t, store, fund, 600)
	requireBalance(ctx, t, store, recipient, 400)

	f := requireFund(ctx, t, store, fund)
	require.Equal(uint64(1000), f.TotalDonations)
	require.Equal(uint64(1), f.DonationCount)
	require.Equal(uint64(1), f.RequestCount)

	require.Len(records, 4)
	executed := 0
	for _, r := range records {
		if ev, ok := r.(*event.WithdrawalExecuted); ok {
			executed++
			require.Equal(uint64(400), ev.Amount)
			require.Equal(recipient, ev.Recipient)
		}
	}
	require.Equal(1, executed)
}
