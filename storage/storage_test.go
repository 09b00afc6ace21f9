// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package storage

import (
	"context"
	"encoding/binary"
	"strings"
	"testing"

	"github.com/ava-labs/avalanchego/database/memdb"
	"github.com/ava-labs/avalanchego/ids"
	"github.com/stretchr/testify/require"

	"github.com/ava-labs/custodyvm/codec"
	"github.com/ava-labs/custodyvm/consts"
	"github.com/ava-labs/custodyvm/keys"
	"github.com/ava-labs/custodyvm/state"
	"github.com/ava-labs/custodyvm/tstate"
)

var (
	alice = codec.CreateAddress(0, ids.GenerateTestID())
	bob   = codec.CreateAddress(0, ids.GenerateTestID())
	fund  = codec.CreateAddress(1, ids.GenerateTestID())
)

func newView(storage map[string][]byte, ks ...[]byte) *tstate.TStateView {
	scope := state.Keys{}
	for _, k := range ks {
		scope.Add(string(k), state.All)
	}
	return tstate.New(len(ks)).NewView(scope, storage)
}

func balanceStorage(balances map[codec.Address]uint64) map[string][]byte {
	storage := map[string][]byte{}
	for addr, bal := range balances {
		storage[string(BalanceKey(addr))] = binary.BigEndian.AppendUint64(nil, bal)
	}
	return storage
}

func TestRecordSizes(t *testing.T) {
	require := require.New(t)

	require.Equal(386, FundSize)
	require.Equal(377, RequestSize)
	require.Equal(35, VaultSize)
	require.Equal(uint16(7), FundChunks)
	require.Equal(uint16(6), RequestChunks)
	require.Equal(uint16(1), VaultChunks)

	for _, k := range [][]byte{BalanceKey(alice), FundKey(fund), RequestKey(fund), VaultKey(fund)} {
		require.True(keys.Valid(k))
		require.Len(k, 1+codec.AddressLen+consts.Uint16Len)
	}
}

func TestFundRecord(t *testing.T) {
	require := require.New(t)

	f := &Fund{
		Creator:        alice,
		Name:           strings.Repeat("n", MaxNameLen),
		Description:    "open source maintenance",
		TotalDonations: consts.MaxUint64,
		DonationCount:  3,
		RequestCount:   2,
		Bump:           254,
	}
	b, err := f.Marshal()
	require.NoError(err)
	require.Len(b, FundSize)

	f2, err := UnmarshalFund(b)
	require.NoError(err)
	require.Equal(f, f2)

	f.Name += "n"
	_, err = f.Marshal()
	require.ErrorIs(err, ErrInvalidRecord)

	_, err = UnmarshalFund(b[:FundSize-1])
	require.ErrorIs(err, ErrInvalidRecord)
}

func TestRequestAndVaultRecords(t *testing.T) {
	require := require.New(t)
	ctx := context.Background()

	r := &Request{
		ID:        7,
		Fund:      fund,
		Amount:    400,
		Recipient: bob,
		Reason:    "hosting",
		CreatedBy: alice,
		Bump:      255,
	}
	v := &Vault{Authority: alice, Locked: true, Bump: 255}

	view := newView(map[string][]byte{}, RequestKey(fund), VaultKey(fund))
	_, exists, err := GetRequest(ctx, view, fund)
	require.NoError(err)
	require.False(exists)

	require.NoError(SetRequest(ctx, view, fund, r))
	require.NoError(SetVault(ctx, view, fund, v))

	r2, exists, err := GetRequest(ctx, view, fund)
	require.NoError(err)
	require.True(exists)
	require.Equal(r, r2)

	v2, exists, err := GetVault(ctx, view, fund)
	require.NoError(err)
	require.True(exists)
	require.Equal(v, v2)
}

func TestTransfer(t *testing.T) {
	tests := []struct {
		name        string
		balances    map[codec.Address]uint64
		amount      uint64
		expectedErr error
		alice       uint64
		bob         uint64
	}{
		{
			name:     "moves funds",
			balances: map[codec.Address]uint64{alice: 1000},
			amount:   400,
			alice:    600,
			bob:      400,
		},
		{
			name:     "empties source",
			balances: map[codec.Address]uint64{alice: 10, bob: 5},
			amount:   10,
			alice:    0,
			bob:      15,
		},
		{
			name:        "insufficient balance",
			balances:    map[codec.Address]uint64{alice: 10, bob: 5},
			amount:      11,
			expectedErr: ErrInsufficientBalance,
			alice:       10,
			bob:         5,
		},
		{
			name:        "destination overflow",
			balances:    map[codec.Address]uint64{alice: 10, bob: consts.MaxUint64 - 5},
			amount:      6,
			expectedErr: ErrOverflow,
			alice:       10,
			bob:         consts.MaxUint64 - 5,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require := require.New(t)
			ctx := context.Background()

			view := newView(balanceStorage(tt.balances), BalanceKey(alice), BalanceKey(bob))
			require.ErrorIs(Transfer(ctx, view, alice, bob, tt.amount), tt.expectedErr)

			bal, err := GetBalance(ctx, view, alice)
			require.NoError(err)
			require.Equal(tt.alice, bal)
			bal, err = GetBalance(ctx, view, bob)
			require.NoError(err)
			require.Equal(tt.bob, bal)
		})
	}
}

func TestAddSubBalance(t *testing.T) {
	require := require.New(t)
	ctx := context.Background()

	view := newView(map[string][]byte{}, BalanceKey(alice))
	require.NoError(AddBalance(ctx, view, alice, 50))
	require.ErrorIs(AddBalance(ctx, view, alice, consts.MaxUint64), ErrOverflow)
	require.ErrorIs(SubBalance(ctx, view, alice, 51), ErrInsufficientBalance)
	require.NoError(SubBalance(ctx, view, alice, 50))

	exists, err := Exists(ctx, view, BalanceKey(alice))
	require.NoError(err)
	require.False(exists)
}

func TestTransactionsAndEventHeight(t *testing.T) {
	require := require.New(t)
	db := memdb.New()
	id := ids.GenerateTestID()

	found, _, _, err := GetTransaction(db, id)
	require.NoError(err)
	require.False(found)

	require.NoError(StoreTransaction(db, id, 1_700_000_000_000, true))
	found, ts, success, err := GetTransaction(db, id)
	require.NoError(err)
	require.True(found)
	require.Equal(int64(1_700_000_000_000), ts)
	require.True(success)

	height, err := GetEventHeight(db)
	require.NoError(err)
	require.Zero(height)
	require.NoError(SetEventHeight(db, 12))
	height, err = GetEventHeight(db)
	require.NoError(err)
	require.Equal(uint64(12), height)

	reader := state.NewReader(db)
	_, err = reader.GetValue(context.Background(), EventKey(0))
	require.Error(err)
}
