// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package actions

import (
	"context"
	"testing"

	"github.com/ava-labs/avalanchego/utils/set"
	"github.com/stretchr/testify/require"

	"github.com/ava-labs/custodyvm/chain/chaintest"
	"github.com/ava-labs/custodyvm/codec"
	"github.com/ava-labs/custodyvm/consts"
	"github.com/ava-labs/custodyvm/event"
	"github.com/ava-labs/custodyvm/storage"
)

func TestDonate(t *testing.T) {
	creator := newIdentity()
	donor := newIdentity()
	fund := fundAddress(t, creator)

	funded := func() *chaintest.InMemoryStore {
		store, _ := storeWithFund(t, creator, &storage.Fund{Name: "fund"}, map[codec.Address]uint64{donor: 1000})
		return store
	}
	full, _ := storeWithFund(t, creator, &storage.Fund{
		Name:           "fund",
		TotalDonations: consts.MaxUint64,
		DonationCount:  1,
	}, map[codec.Address]uint64{donor: 1000})

	chaintest.ActionTestSuite{
		{
			Name:      "MovesBalanceAndCounts",
			Action:    &Donate{Fund: fund, Donor: donor, Amount: 300},
			State:     funded(),
			Timestamp: testTimestamp,
			Signers:   []codec.Address{donor},
			ExpectedRecords: []event.Record{&event.DonationMade{
				Fund:      fund,
				Donor:     donor,
				Amount:    300,
				Timestamp: testTimestamp / 1000,
			}},
			Assertion: func(ctx context.Context, t *testing.T, store *chaintest.InMemoryStore) {
				requireBalance(ctx, t, store, donor, 700)
				requireBalance(ctx, t, store, fund, 300)
				f := requireFund(ctx, t, store, fund)
				require.Equal(t, uint64(300), f.TotalDonations)
				require.Equal(t, uint64(1), f.DonationCount)
			},
		},
		{
			Name:        "ZeroAmount",
			Action:      &Donate{Fund: fund, Donor: donor},
			State:       funded(),
			Signers:     []codec.Address{donor},
			ExpectedErr: ErrInvalidAmount,
		},
		{
			Name:        "InsufficientBalance",
			Action:      &Donate{Fund: fund, Donor: donor, Amount: 1001},
			State:       funded(),
			Signers:     []codec.Address{donor},
			ExpectedErr: ErrInsufficientBalance,
		},
		{
			Name:        "DonorMustSign",
			Action:      &Donate{Fund: fund, Donor: donor, Amount: 1},
			State:       funded(),
			Signers:     []codec.Address{creator},
			ExpectedErr: ErrUnauthorized,
		},
		{
			Name:        "MissingFund",
			Action:      &Donate{Fund: fundAddress(t, donor), Donor: donor, Amount: 1},
			State:       funded(),
			Signers:     []codec.Address{donor},
			ExpectedErr: ErrAccountNotFound,
		},
		{
			Name:        "TotalOverflow",
			Action:      &Donate{Fund: fund, Donor: donor, Amount: 1},
			State:       full,
			Signers:     []codec.Address{donor},
			ExpectedErr: ErrOverflow,
			Assertion: func(ctx context.Context, t *testing.T, store *chaintest.InMemoryStore) {
				requireBalance(ctx, t, store, donor, 1000)
				requireBalance(ctx, t, store, fund, 0)
			},
		},
	}.Run(t)
}

func TestDonationsAccumulate(t *testing.T) {
	require := require.New(t)
	ctx := context.Background()

	creator := newIdentity()
	donors := []codec.Address{newIdentity(), newIdentity(), newIdentity()}
	balances := map[codec.Address]uint64{}
	for _, d := range donors {
		balances[d] = 100
	}
	store, fund := storeWithFund(t, creator, &storage.Fund{Name: "fund"}, balances)

	for i, d := range donors {
		amount := uint64(10 * (i + 1))
		_, err := (&Donate{Fund: fund, Donor: d, Amount: amount}).Execute(ctx, chaintest.NewRules(), store, testTimestamp, set.Of(d))
		require.NoError(err)
	}
	f := requireFund(ctx, t, store, fund)
	require.Equal(uint64(60), f.TotalDonations)
	require.Equal(uint64(3), f.DonationCount)
	requireBalance(ctx, t, store, fund, 60)
}
